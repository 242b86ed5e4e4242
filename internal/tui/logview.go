package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

// LogView displays the classified log stream in a scrollable viewport. It
// follows the tail until the user scrolls up, and resumes following when
// they scroll back to the bottom.
type LogView struct {
	viewport   viewport.Model
	showSystem bool
	follow     bool
	width      int
	height     int
}

// NewLogView creates a log view following the tail.
func NewLogView(showSystem bool) *LogView {
	vp := viewport.New(80, 20)
	return &LogView{
		viewport:   vp,
		showSystem: showSystem,
		follow:     true,
	}
}

// SetSize updates dimensions.
func (l *LogView) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.viewport.Width = width
	l.viewport.Height = height
	if l.follow {
		l.viewport.GotoBottom()
	}
}

// SetLogs rebuilds the viewport content from the current snapshot.
func (l *LogView) SetLogs(entries []models.LogEntry) {
	var lines []string
	for _, e := range entries {
		if e.Level == models.LevelSystem && !l.showSystem {
			continue
		}
		lines = append(lines, formatLogEntry(e, l.width))
	}
	l.viewport.SetContent(strings.Join(lines, "\n"))
	if l.follow {
		l.viewport.GotoBottom()
	}
}

// ToggleSystem flips visibility of system-level entries.
func (l *LogView) ToggleSystem() {
	l.showSystem = !l.showSystem
}

// ShowSystem reports whether system-level entries are visible.
func (l *LogView) ShowSystem() bool {
	return l.showSystem
}

// LineUp scrolls up one line and leaves follow mode.
func (l *LogView) LineUp() {
	l.viewport.ScrollUp(1)
	l.follow = l.viewport.AtBottom()
}

// LineDown scrolls down one line, resuming follow mode at the bottom.
func (l *LogView) LineDown() {
	l.viewport.ScrollDown(1)
	l.follow = l.viewport.AtBottom()
}

// PageUp scrolls up half a page and leaves follow mode.
func (l *LogView) PageUp() {
	l.viewport.HalfPageUp()
	l.follow = l.viewport.AtBottom()
}

// PageDown scrolls down half a page, resuming follow mode at the bottom.
func (l *LogView) PageDown() {
	l.viewport.HalfPageDown()
	l.follow = l.viewport.AtBottom()
}

// GotoTop jumps to the oldest retained entry and leaves follow mode.
func (l *LogView) GotoTop() {
	l.viewport.GotoTop()
	l.follow = false
}

// Follow jumps to the newest entry and resumes following.
func (l *LogView) Follow() {
	l.viewport.GotoBottom()
	l.follow = true
}

// View renders the viewport.
func (l *LogView) View() string {
	return l.viewport.View()
}

// formatLogEntry renders one entry as "HH:MM:SS TAG message" with
// level-appropriate coloring.
func formatLogEntry(e models.LogEntry, width int) string {
	ts := logTimeStyle.Render(e.Time.Format("15:04:05"))

	var tag string
	var tagStyle, msgStyle lipgloss.Style
	switch e.Level {
	case models.LevelSystem:
		tag = "SYS"
		tagStyle = lipgloss.NewStyle().Foreground(colorDim)
		msgStyle = lipgloss.NewStyle().Foreground(colorDim)
	case models.LevelAgent:
		tag = "AGENT"
		tagStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
		msgStyle = lipgloss.NewStyle().Foreground(colorCyan)
	case models.LevelError:
		tag = "ERR"
		tagStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
		msgStyle = lipgloss.NewStyle().Foreground(colorRed)
	case models.LevelSuccess:
		tag = "OK"
		tagStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
		msgStyle = lipgloss.NewStyle().Foreground(colorGreen)
	case models.LevelThought:
		tag = "THINK"
		tagStyle = lipgloss.NewStyle().Foreground(colorDim)
		msgStyle = thoughtStyle
	default:
		tag = "INFO"
		tagStyle = lipgloss.NewStyle().Foreground(colorWhite)
		msgStyle = lipgloss.NewStyle().Foreground(colorWhite)
	}

	// Pad before styling so tags align regardless of escape codes.
	padded := fmt.Sprintf("%-5s", tag)

	line := ts + " " + tagStyle.Render(padded) + " " + msgStyle.Render(e.Message)
	if width > 0 {
		line = ansi.Truncate(line, width, "…")
	}
	return line
}
