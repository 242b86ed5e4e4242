package tui

import (
	"strings"
	"testing"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{812, "812"},
		{1_000, "1.0k"},
		{45_300, "45.3k"},
		{999_999, "1000.0k"},
		{1_000_000, "1.0M"},
		{2_450_000, "2.5M"},
	}
	for _, tt := range tests {
		if got := formatTokens(tt.n); got != tt.want {
			t.Errorf("formatTokens(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0ms"},
		{450, "450ms"},
		{1_000, "1.0s"},
		{12_300, "12.3s"},
		{59_999, "60.0s"},
		{60_000, "1.0m"},
		{150_000, "2.5m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.ms); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestRenderSidebarContent(t *testing.T) {
	metrics := models.Metrics{
		TotalTokens:    45_300,
		LastDurationMS: 12_300,
		ActiveModel:    "sonnet",
		Iterations:     3,
	}
	tasks := []models.Task{
		{ID: 1, Description: "parse incoming request", Status: models.TaskComplete},
		{ID: 2, Description: "generate design options", Status: models.TaskInProgress},
		{ID: 3, Description: "await asic evaluation", Status: models.TaskPending},
	}

	out := renderSidebar(metrics, tasks, 28, 20)

	for _, want := range []string{"Metrics", "Tasks", "45.3k", "12.3s", "sonnet", "✓", "●", "○"} {
		if !strings.Contains(out, want) {
			t.Errorf("sidebar missing %q\n%s", want, out)
		}
	}
	if !strings.Contains(out, "parse incoming request") {
		t.Error("sidebar missing task description")
	}
}

func TestRenderSidebarOverflowMarker(t *testing.T) {
	var tasks []models.Task
	for i := 0; i < 12; i++ {
		tasks = append(tasks, models.Task{ID: i, Description: "task", Status: models.TaskPending})
	}

	// Height leaves room for only a few task rows.
	out := renderSidebar(models.Metrics{}, tasks, 28, 10)

	if !strings.Contains(out, "more") {
		t.Errorf("sidebar missing overflow marker\n%s", out)
	}
	if got := len(strings.Split(out, "\n")); got > 10 {
		t.Errorf("sidebar rendered %d lines, want <= 10", got)
	}
}

func TestRenderSidebarNoTasks(t *testing.T) {
	out := renderSidebar(models.Metrics{}, nil, 28, 20)
	if !strings.Contains(out, "No tasks yet") {
		t.Errorf("sidebar missing empty-state line\n%s", out)
	}
	if !strings.Contains(out, "—") {
		t.Error("sidebar missing model placeholder")
	}
}
