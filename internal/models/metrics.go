package models

import "encoding/json"

// Metrics accumulates execution counters reported by the orchestrator.
// TotalTokens only ever grows; the other fields hold the most recent value.
// Reset happens only when a new run starts.
type Metrics struct {
	TotalTokens    int64
	LastDurationMS int64
	ActiveModel    string
	Iterations     int
}

// UpdateFromJSON applies one [METRICS] payload. The payload carries a "type"
// discriminant; unknown types and malformed JSON are ignored. Fields are
// applied individually, so a bad field never blocks the rest.
func (m *Metrics) UpdateFromJSON(payload string) {
	var v map[string]any
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return
	}

	t, _ := v["type"].(string)
	switch t {
	case "llm_call":
		if n, ok := asCount(v["prompt_tokens"]); ok {
			m.TotalTokens += n
		}
		if n, ok := asCount(v["completion_tokens"]); ok {
			m.TotalTokens += n
		}
		if n, ok := asCount(v["duration_ms"]); ok {
			m.LastDurationMS = n
		}
		if s, ok := v["model"].(string); ok {
			m.ActiveModel = s
		}
	case "iteration":
		if n, ok := asCount(v["iteration"]); ok {
			m.Iterations = int(n)
		}
	}
}

// asCount extracts a non-negative integer from a decoded JSON value.
func asCount(v any) (int64, bool) {
	f, ok := v.(float64)
	if !ok || f < 0 {
		return 0, false
	}
	return int64(f), true
}
