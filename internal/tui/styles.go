package tui

import "github.com/charmbracelet/lipgloss"

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(lipgloss.AdaptiveColor{Light: "235", Dark: "236"})

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)
)

// Run state badge styles.
var (
	badgeIdleStyle     = lipgloss.NewStyle().Foreground(colorDim)
	badgeActiveStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	badgePausedStyle   = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	badgeCompleteStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

// Agent flow styles.
var (
	nodeActiveStyle  = lipgloss.NewStyle().Foreground(colorOrange).Bold(true)
	nodeIdleStyle    = lipgloss.NewStyle().Foreground(colorDim)
	labelActiveStyle = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	labelIdleStyle   = lipgloss.NewStyle().Foreground(colorDim)
	linkIdleStyle    = lipgloss.NewStyle().Foreground(colorDim)
	linkActiveStyle  = lipgloss.NewStyle().Foreground(colorOrange)
)

// Log view styles.
var (
	logTimeStyle = lipgloss.NewStyle().Foreground(colorDim)
	thoughtStyle = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
)

// Sidebar styles.
var (
	metricLabelStyle = lipgloss.NewStyle().Foreground(colorDim)
	metricValueStyle = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)

	taskDoneStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	taskActiveStyle  = lipgloss.NewStyle().Foreground(colorOrange)
	taskPendingStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// Key hint styles for status bar.
var (
	keyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	hintStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// Overlay styles.
var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWhite).
			Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginBottom(1)

	overlayDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
