package tui

import (
	"time"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

// TickMsg is the periodic render tick. It carries the tick time so the
// layout simulation can step by real elapsed time.
type TickMsg struct {
	Time time.Time
}

// RunExitedMsg signals the orchestrator process has exited.
type RunExitedMsg struct {
	Err error
}

// RunStartedMsg triggers an automatic run start for an objective passed
// on the command line.
type RunStartedMsg struct{}

// HistoryStartedMsg carries the history row inserted for the active run.
type HistoryStartedMsg struct {
	Run *models.RunRecord
}

// TranscriptSavedMsg reports where the run transcript was written.
type TranscriptSavedMsg struct {
	RunID string
}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}

// ClearErrorMsg clears the error display.
type ClearErrorMsg struct{}
