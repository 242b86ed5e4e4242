package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

func renderHeader(running, paused, completed bool, metrics models.Metrics, width int) string {
	brand := lipgloss.NewStyle().Foreground(colorOrange).Render("●")
	name := lipgloss.NewStyle().Bold(true).Render("swarmdeck")
	subtitle := hintStyle.Render("agent dashboard")

	badge := renderRunBadge(running, paused, completed)

	var info []string
	if metrics.ActiveModel != "" {
		info = append(info, hintStyle.Render(metrics.ActiveModel))
	}
	if metrics.Iterations > 0 {
		info = append(info, hintStyle.Render(fmt.Sprintf("iter %d", metrics.Iterations)))
	}

	left := fmt.Sprintf(" %s %s  %s", brand, name, subtitle)
	right := strings.Join(append(info, badge), "  ") + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return headerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func renderRunBadge(running, paused, completed bool) string {
	switch {
	case completed:
		return badgeCompleteStyle.Render("✓ Complete")
	case running && paused:
		return badgePausedStyle.Render("⏸ Paused")
	case running:
		return badgeActiveStyle.Render("● Running")
	default:
		return badgeIdleStyle.Render("○ Idle")
	}
}
