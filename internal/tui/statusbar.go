package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// confirmMode values.
const (
	confirmNone = 0
	confirmQuit = 1
	confirmStop = 2
)

func renderStatusBar(m *Model, width int) string {
	// Handle confirm mode
	if m.confirmMode == confirmQuit {
		return renderConfirmBar(
			"Orchestrator running. Quit? (y/n)",
			width,
		)
	}
	if m.confirmMode == confirmStop {
		return renderConfirmBar(
			"Stop the orchestrator? (y/n)",
			width,
		)
	}

	// Error display
	if m.err != nil {
		return renderErrorBar(m.err.Error(), width)
	}

	// Context-sensitive key hints
	hints := getKeyHints(m)
	left := " " + hints

	// Display state indicators
	var tags []string
	if m.snap.Paused {
		tags = append(tags, lipgloss.NewStyle().Foreground(colorYellow).Bold(true).Render("⏸ paused"))
	}
	if m.logView.ShowSystem() {
		tags = append(tags, lipgloss.NewStyle().Foreground(colorCyan).Render("sys"))
	}
	right := strings.Join(tags, "  ")
	if right != "" {
		right += " "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func getKeyHints(m *Model) string {
	base := keyHint("Ctrl+q", "quit") + "  " + keyHint("Ctrl+h", "help")

	if m.runActive {
		return base + "  " + keyHint("Ctrl+s", "stop") + "  " + keyHint("Ctrl+p", "pause") + "  " +
			keyHint("Ctrl+x", "abort") + "  " + keyHint("Ctrl+r", "status") + "  " +
			keyHint("Ctrl+g", "sys logs")
	}

	return base + "  " + keyHint("Enter", "start run") + "  " + keyHint("Ctrl+g", "sys logs")
}

func keyHint(k, desc string) string {
	if k == "" {
		return hintStyle.Render(desc)
	}
	return keyStyle.Render(k) + " " + hintStyle.Render(desc)
}

func renderConfirmBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorYellow).
		Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "0"}).
		Width(width).
		Render(" " + msg)
}

func renderErrorBar(msg string, width int) string {
	return statusBarStyle.
		Background(colorRed).
		Width(width).
		Render(" " + msg)
}
