package event

import (
	"strings"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

// Think block delimiters in the orchestrator's output.
const (
	ThinkOpen  = "<think>"
	ThinkClose = "</think>"
)

// ThinkAggregator accumulates multi-line reasoning transcripts. Lines between
// the open and close markers are buffered instead of logged; closing the
// block emits exactly one aggregated Thought entry. The buffer survives the
// close so the last transcript stays displayable.
type ThinkAggregator struct {
	thinking bool
	lines    []string
}

// Absorb feeds one line through the aggregator. absorbed reports that the
// line belongs to a think block and must skip all further handling (agent
// events, metrics, plan, logging). thought is non-nil only on the close
// marker: the single aggregated entry to log.
func (t *ThinkAggregator) Absorb(message string) (thought *models.LogEntry, absorbed bool) {
	if idx := strings.Index(message, ThinkOpen); idx >= 0 {
		t.thinking = true
		t.lines = t.lines[:0]
		if trail := message[idx+len(ThinkOpen):]; trail != "" {
			t.lines = append(t.lines, trail)
		}
		return nil, true
	}

	if idx := strings.Index(message, ThinkClose); idx >= 0 {
		if lead := message[:idx]; lead != "" {
			t.lines = append(t.lines, lead)
		}
		t.thinking = false
		entry := models.ThoughtEntry(t.Current())
		return &entry, true
	}

	if t.thinking {
		t.lines = append(t.lines, message)
		return nil, true
	}

	return nil, false
}

// Thinking reports whether a block is currently open.
func (t *ThinkAggregator) Thinking() bool {
	return t.thinking
}

// Current returns the transcript accumulated so far, lines joined by newline.
func (t *ThinkAggregator) Current() string {
	return strings.Join(t.lines, "\n")
}

// Reset clears the aggregator for a new run.
func (t *ThinkAggregator) Reset() {
	t.thinking = false
	t.lines = nil
}
