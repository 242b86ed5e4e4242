package event

import (
	"encoding/json"
	"strings"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

// Structured fragment tags. Both are matched as line prefixes: a tag buried
// mid-line is prose, not a record.
const (
	MetricsPrefix = "[METRICS]"
	PlanPrefix    = "[PLAN]"
)

// MetricsPayload extracts the JSON remainder of a metrics-tagged line.
func MetricsPayload(line string) (string, bool) {
	return tagPayload(line, MetricsPrefix)
}

// PlanPayload extracts the JSON remainder of a plan-tagged line.
func PlanPayload(line string) (string, bool) {
	return tagPayload(line, PlanPrefix)
}

func tagPayload(line, prefix string) (string, bool) {
	if !strings.HasPrefix(line, prefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
}

// ParseTaskList parses a plan payload's task array. Missing task fields
// default to id 0, empty description, pending status; a bad field never
// drops the task. ok is false when the JSON is invalid or the tasks key is
// absent, and callers keep their previous list then.
func ParseTaskList(payload string) ([]models.Task, bool) {
	var v map[string]any
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return nil, false
	}

	raw, ok := v["tasks"].([]any)
	if !ok {
		return nil, false
	}

	tasks := make([]models.Task, 0, len(raw))
	for _, item := range raw {
		obj, _ := item.(map[string]any)

		var t models.Task
		if f, ok := obj["id"].(float64); ok && f >= 0 {
			t.ID = int(f)
		}
		if s, ok := obj["description"].(string); ok {
			t.Description = s
		}
		status, _ := obj["status"].(string)
		t.Status = models.ParseTaskStatus(status)

		tasks = append(tasks, t)
	}

	return tasks, true
}
