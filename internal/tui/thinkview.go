package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/x/ansi"
)

// renderThinking shows the live reasoning transcript while a think block is
// open, or the last completed one while the panel is still on screen. Only
// the transcript tail that fits the panel is drawn.
func renderThinking(spin spinner.Model, thinking bool, thought string, w, h int) string {
	if h < 1 {
		return ""
	}

	var header string
	if thinking {
		header = spin.View() + " " + thoughtStyle.Render("Thinking...")
	} else {
		header = thoughtStyle.Render("Thought")
	}

	lines := []string{header}
	if rest := h - 1; rest > 0 && thought != "" {
		body := strings.Split(strings.TrimRight(thought, "\n"), "\n")
		if len(body) > rest {
			body = body[len(body)-rest:]
		}
		for _, line := range body {
			lines = append(lines, thoughtStyle.Render(ansi.Truncate(line, w, "…")))
		}
	}
	return strings.Join(lines, "\n")
}
