// Package tui implements the interactive dashboard for swarmdeck.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/swarmdeck/swarmdeck/internal/config"
	"github.com/swarmdeck/swarmdeck/internal/history"
	"github.com/swarmdeck/swarmdeck/internal/models"
)

// Run launches the dashboard. objective may be empty; when set, a run is
// started immediately instead of waiting for input. A history store that
// fails to open disables run records for the session but never blocks the
// dashboard.
func Run(settings *models.Settings, objective string) error {
	var store *history.Store
	var historyErr error
	if settings.History.Enabled {
		path := settings.History.Path
		if path == "" {
			if p, err := config.GlobalHistoryFile(); err != nil {
				historyErr = err
			} else {
				path = p
			}
		}
		if historyErr == nil {
			if s, err := history.Open(path); err != nil {
				historyErr = err
			} else {
				store = s
				defer store.Close()
			}
		}
	}

	model := NewModel(settings, store, objective)
	if historyErr != nil {
		model.session.AddLog(models.SystemEntry("History unavailable: " + historyErr.Error()))
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
