package models

import "time"

// LogLevel categorizes a line of orchestrator output.
type LogLevel string

const (
	LevelInfo    LogLevel = "info"
	LevelSystem  LogLevel = "system"
	LevelAgent   LogLevel = "agent"
	LevelError   LogLevel = "error"
	LevelSuccess LogLevel = "success"
	LevelThought LogLevel = "thought"
)

// LogEntry is a single classified line of orchestrator output. Entries are
// immutable once created; Time is the capture time, not anything the child
// printed.
type LogEntry struct {
	Time    time.Time
	Level   LogLevel
	Message string
}

// NewLogEntry creates an entry stamped with the current time.
func NewLogEntry(level LogLevel, message string) LogEntry {
	return LogEntry{
		Time:    time.Now(),
		Level:   level,
		Message: message,
	}
}

// ErrorEntry creates an Error-level entry. Stderr lines use this directly,
// bypassing classification.
func ErrorEntry(message string) LogEntry {
	return NewLogEntry(LevelError, message)
}

// SystemEntry creates a System-level entry for supervisor-originated notices.
func SystemEntry(message string) LogEntry {
	return NewLogEntry(LevelSystem, message)
}

// ThoughtEntry creates a Thought-level entry holding an aggregated reasoning
// transcript.
func ThoughtEntry(message string) LogEntry {
	return NewLogEntry(LevelThought, message)
}
