package event

import (
	"testing"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

func TestThinkAggregatorBlock(t *testing.T) {
	var agg ThinkAggregator

	thought, absorbed := agg.Absorb("<think>partial")
	if !absorbed || thought != nil {
		t.Fatalf("open line: absorbed=%v thought=%v, want absorbed with no emit", absorbed, thought)
	}
	if !agg.Thinking() {
		t.Fatal("Thinking() = false after open marker")
	}

	thought, absorbed = agg.Absorb("more text")
	if !absorbed || thought != nil {
		t.Fatalf("interior line: absorbed=%v thought=%v, want absorbed with no emit", absorbed, thought)
	}

	thought, absorbed = agg.Absorb("end</think>")
	if !absorbed || thought == nil {
		t.Fatalf("close line: absorbed=%v thought=%v, want absorbed with emit", absorbed, thought)
	}
	if agg.Thinking() {
		t.Error("Thinking() = true after close marker")
	}

	want := "partial\nmore text\nend"
	if thought.Message != want {
		t.Errorf("thought = %q, want %q", thought.Message, want)
	}
	if thought.Level != models.LevelThought {
		t.Errorf("level = %q, want %q", thought.Level, models.LevelThought)
	}
}

func TestThinkAggregatorEdges(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "bare open marker seeds nothing",
			lines: []string{"<think>", "alpha", "beta</think>"},
			want:  "alpha\nbeta",
		},
		{
			name:  "text before open marker is dropped",
			lines: []string{"noise<think>tail", "</think>"},
			want:  "tail",
		},
		{
			name:  "bare close marker appends nothing",
			lines: []string{"<think>only", "</think>"},
			want:  "only",
		},
		{
			name:  "reopen clears previous transcript",
			lines: []string{"<think>first", "gone</think>", "<think>second", "</think>"},
			want:  "second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var agg ThinkAggregator
			var emitted []string
			for _, line := range tt.lines {
				if thought, _ := agg.Absorb(line); thought != nil {
					emitted = append(emitted, thought.Message)
				}
			}
			if len(emitted) == 0 {
				t.Fatal("no thought emitted")
			}
			if got := emitted[len(emitted)-1]; got != tt.want {
				t.Errorf("last thought = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestThinkAggregatorPassThrough(t *testing.T) {
	var agg ThinkAggregator

	thought, absorbed := agg.Absorb("ordinary line")
	if absorbed || thought != nil {
		t.Errorf("ordinary line outside block: absorbed=%v thought=%v", absorbed, thought)
	}
}

func TestThinkAggregatorEmitsExactlyOnce(t *testing.T) {
	var agg ThinkAggregator

	count := 0
	for _, line := range []string{"<think>partial", "more text", "end</think>"} {
		if thought, _ := agg.Absorb(line); thought != nil {
			count++
		}
	}
	if count != 1 {
		t.Errorf("emitted %d thought entries, want exactly 1", count)
	}
}

func TestThinkAggregatorKeepsTranscriptAfterClose(t *testing.T) {
	var agg ThinkAggregator

	agg.Absorb("<think>kept")
	agg.Absorb("</think>")

	if got := agg.Current(); got != "kept" {
		t.Errorf("Current() after close = %q, want %q", got, "kept")
	}

	agg.Reset()
	if agg.Current() != "" || agg.Thinking() {
		t.Error("Reset did not clear the aggregator")
	}
}
