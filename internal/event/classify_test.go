package event

import (
	"testing"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		want models.LogLevel
	}{
		{
			name: "think open marker",
			line: "<think>let me reason about this",
			want: models.LevelThought,
		},
		{
			name: "think close marker",
			line: "done reasoning</think>",
			want: models.LevelThought,
		},
		{
			name: "structured agent tag",
			line: "[AGENT:ENGINEER:START]",
			want: models.LevelAgent,
		},
		{
			name: "swarm marker",
			line: "[Swarm] Orchestrator is thinking...",
			want: models.LevelAgent,
		},
		{
			name: "v2 marker",
			line: "[V2] Translator processing request",
			want: models.LevelAgent,
		},
		{
			name: "error keyword",
			line: "Error: connection refused",
			want: models.LevelError,
		},
		{
			name: "uppercase error keyword",
			line: "task ERROR while compiling",
			want: models.LevelError,
		},
		{
			name: "fail keyword",
			line: "BUILD FAILED",
			want: models.LevelError,
		},
		{
			name: "completion promise",
			line: "<promise>COMPLETE</promise>",
			want: models.LevelSuccess,
		},
		{
			name: "success keyword",
			line: "SUCCESS: all checks passed",
			want: models.LevelSuccess,
		},
		{
			name: "checkmark",
			line: "✅ task finished",
			want: models.LevelSuccess,
		},
		{
			name: "runner prefix",
			line: "[Runner] iteration 3 starting",
			want: models.LevelSystem,
		},
		{
			name: "planner prefix",
			line: "[Planner] plan updated",
			want: models.LevelSystem,
		},
		{
			name: "git prefix",
			line: "[Git] committed 4 files",
			want: models.LevelSystem,
		},
		{
			name: "metrics prefix",
			line: `[METRICS] {"type":"llm_call","prompt_tokens":10}`,
			want: models.LevelSystem,
		},
		{
			name: "system tag mid-line is not system",
			line: "see [Runner] docs for details",
			want: models.LevelInfo,
		},
		{
			name: "plain line",
			line: "compiling module foo",
			want: models.LevelInfo,
		},
		// Lines matching several categories take the highest-priority one.
		{
			name: "think beats agent",
			line: "<think>[AGENT:ENGINEER:START]",
			want: models.LevelThought,
		},
		{
			name: "agent beats error",
			line: "[Swarm] Engineer is coding around an Error",
			want: models.LevelAgent,
		},
		{
			name: "error beats success",
			line: "ERROR then SUCCESS",
			want: models.LevelError,
		},
		{
			name: "error inside metrics line beats system",
			line: `[METRICS] {"type":"iteration","status":"ERROR"}`,
			want: models.LevelError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.line); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseLineTrims(t *testing.T) {
	e := ParseLine("   compiling module foo  \t")

	if e.Message != "compiling module foo" {
		t.Errorf("Message = %q, want trimmed line", e.Message)
	}
	if e.Level != models.LevelInfo {
		t.Errorf("Level = %q, want %q", e.Level, models.LevelInfo)
	}
	if e.Time.IsZero() {
		t.Error("Time is zero, want capture time")
	}
}

func TestClassifyDeterministic(t *testing.T) {
	line := "[Swarm] Designer is reviewing the ERROR report"
	first := Classify(line)
	for i := 0; i < 10; i++ {
		if got := Classify(line); got != first {
			t.Fatalf("classification changed between calls: %q then %q", first, got)
		}
	}
}
