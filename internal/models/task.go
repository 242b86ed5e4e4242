package models

// TaskStatus represents the status of a planned task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskComplete   TaskStatus = "complete"
)

// ParseTaskStatus maps a wire status string to a TaskStatus. Anything
// unrecognized is Pending.
func ParseTaskStatus(s string) TaskStatus {
	switch s {
	case "complete":
		return TaskComplete
	case "in_progress":
		return TaskInProgress
	default:
		return TaskPending
	}
}

// Task is one entry of the orchestrator's plan. The task list is replaced
// wholesale on every successful plan update, never merged.
type Task struct {
	ID          int        `json:"id"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
}
