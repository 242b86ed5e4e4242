package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

// renderSidebar stacks the metrics block over the task list in w by h cells.
func renderSidebar(metrics models.Metrics, tasks []models.Task, w, h int) string {
	var lines []string

	lines = append(lines, panelTitleStyle.Render("Metrics"))
	lines = append(lines,
		metricRow("Tokens", formatTokens(metrics.TotalTokens), w),
		metricRow("Duration", formatDuration(metrics.LastDurationMS), w),
		metricRow("Model", metricOrDash(metrics.ActiveModel), w),
		metricRow("Iterations", fmt.Sprintf("%d", metrics.Iterations), w),
	)

	lines = append(lines, "")
	lines = append(lines, panelTitleStyle.Render("Tasks"))

	// Remaining rows go to tasks, one kept for the overflow marker.
	room := h - len(lines)
	if room < 1 {
		room = 1
	}

	if len(tasks) == 0 {
		lines = append(lines, hintStyle.Render("No tasks yet"))
	} else {
		shown := tasks
		overflow := 0
		if len(shown) > room {
			overflow = len(shown) - (room - 1)
			shown = shown[:room-1]
		}
		for _, t := range shown {
			lines = append(lines, formatTaskRow(t, w))
		}
		if overflow > 0 {
			lines = append(lines, hintStyle.Render(fmt.Sprintf("▼ %d more", overflow)))
		}
	}

	if len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}

// metricRow lays out a label on the left and a value on the right.
func metricRow(label, value string, w int) string {
	l := metricLabelStyle.Render(label)
	v := metricValueStyle.Render(value)
	gap := w - lipgloss.Width(l) - lipgloss.Width(v)
	if gap < 1 {
		gap = 1
	}
	return l + strings.Repeat(" ", gap) + v
}

func metricOrDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func formatTaskRow(t models.Task, w int) string {
	var icon string
	var style lipgloss.Style
	switch t.Status {
	case models.TaskComplete:
		icon, style = "✓", taskDoneStyle
	case models.TaskInProgress:
		icon, style = "●", taskActiveStyle
	default:
		icon, style = "○", taskPendingStyle
	}
	desc := ansi.Truncate(t.Description, w-2, "…")
	return style.Render(icon) + " " + style.Render(desc)
}

// formatTokens renders a count compactly: 1.2M, 45.3k, 812.
func formatTokens(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// formatDuration renders milliseconds compactly: 2.5m, 12.3s, 450ms.
func formatDuration(ms int64) string {
	switch {
	case ms >= 60_000:
		return fmt.Sprintf("%.1fm", float64(ms)/60_000)
	case ms >= 1_000:
		return fmt.Sprintf("%.1fs", float64(ms)/1_000)
	default:
		return fmt.Sprintf("%dms", ms)
	}
}
