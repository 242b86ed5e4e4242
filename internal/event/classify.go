// Package event turns raw orchestrator output lines into typed log entries
// and agent activity events. All matching is against an explicit ordered rule
// set; lines can match several categories, so rule order is load-bearing.
package event

import (
	"strings"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

// classifyRule pairs a line predicate with the level it assigns.
type classifyRule struct {
	match func(string) bool
	level models.LogLevel
}

// classifyRules is the priority chain: thinking markers, agent markers,
// errors, success markers, whitelisted system prefixes. First match wins;
// anything else is Info.
var classifyRules = []classifyRule{
	{containsAny("<think>", "</think>"), models.LevelThought},
	{containsAny("[AGENT:", "[Swarm]", "[V2]"), models.LevelAgent},
	{containsAny("Error", "ERROR", "FAIL"), models.LevelError},
	{containsAny("<promise>COMPLETE</promise>", "SUCCESS", "✅"), models.LevelSuccess},
	{hasAnyPrefix("[Runner]", "[Planner]", "[Git]", "[METRICS]"), models.LevelSystem},
}

func containsAny(subs ...string) func(string) bool {
	return func(line string) bool {
		for _, s := range subs {
			if strings.Contains(line, s) {
				return true
			}
		}
		return false
	}
}

func hasAnyPrefix(prefixes ...string) func(string) bool {
	return func(line string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(line, p) {
				return true
			}
		}
		return false
	}
}

// Classify maps one output line to its log level. The line is trimmed before
// matching; classification is a pure function of the content.
func Classify(line string) models.LogLevel {
	line = strings.TrimSpace(line)
	for _, r := range classifyRules {
		if r.match(line) {
			return r.level
		}
	}
	return models.LevelInfo
}

// ParseLine classifies a raw line and wraps it in a LogEntry stamped with the
// capture time. The stored message is the trimmed line.
func ParseLine(line string) models.LogEntry {
	line = strings.TrimSpace(line)
	return models.NewLogEntry(Classify(line), line)
}
