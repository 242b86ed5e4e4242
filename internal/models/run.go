package models

import "time"

// RunStatus values stored in the history database.
const (
	RunStatusRunning  = "running"
	RunStatusComplete = "complete"
	RunStatusStopped  = "stopped"
	RunStatusFailed   = "failed"
)

// RunRecord is one supervised orchestrator run, persisted to the history
// store when history is enabled.
type RunRecord struct {
	ID          int64
	Objective   string
	StartedAt   time.Time
	EndedAt     *time.Time
	Status      string
	Iterations  int
	TotalTokens int64
	Model       string
}

// NewRunRecord creates a record for a run starting now.
func NewRunRecord(objective string) *RunRecord {
	return &RunRecord{
		Objective: objective,
		StartedAt: time.Now().UTC(),
		Status:    RunStatusRunning,
	}
}
