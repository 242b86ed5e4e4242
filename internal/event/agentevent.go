package event

import (
	"strings"

	"github.com/swarmdeck/swarmdeck/internal/models"
)

// AgentEventKind discriminates agent activity events parsed from output.
type AgentEventKind int

const (
	// AgentStart activates an agent and lights its inbound pipeline edge.
	AgentStart AgentEventKind = iota
	// AgentEnd idles a single agent without touching the edge.
	AgentEnd
	// RunComplete idles every agent and clears the edge.
	RunComplete
)

// AgentEvent is one activity transition inferred from a line.
type AgentEvent struct {
	Kind  AgentEventKind
	Agent models.Agent // unset for RunComplete
}

// Structured marker fragments: [AGENT:<NAME>:START] / [AGENT:<NAME>:END].
const (
	agentTag    = "[AGENT:"
	startMarker = ":START]"
	endMarker   = ":END]"
)

// structuredNames orders the marker-name checks. Matching is by containment,
// so the order decides ties.
var structuredNames = []struct {
	marker string
	agent  models.Agent
}{
	{"ORCHESTRATOR", models.AgentOrchestrator},
	{"ENGINEER", models.AgentEngineer},
	{"DESIGNER", models.AgentDesigner},
	{"TRANSLATOR", models.AgentTranslator},
}

// legacyRules maps free-text phrases from older orchestrator versions to the
// equivalent events. First match wins within the chain; the chain runs in
// addition to the structured tags, never instead of them.
var legacyRules = []struct {
	phrases []string
	event   AgentEvent
}{
	{[]string{"[Swarm] Orchestrator is thinking"}, AgentEvent{AgentStart, models.AgentOrchestrator}},
	{[]string{"[Swarm] Engineer is coding"}, AgentEvent{AgentStart, models.AgentEngineer}},
	{[]string{"[Swarm] Designer is reviewing"}, AgentEvent{AgentStart, models.AgentDesigner}},
	{[]string{"[V2] Translator processing"}, AgentEvent{AgentStart, models.AgentTranslator}},
	{[]string{"[V2] Spawning ASIC", "ASIC:"}, AgentEvent{AgentStart, models.AgentAsic}},
	{[]string{"<promise>COMPLETE</promise>"}, AgentEvent{Kind: RunComplete}},
}

// MatchAgentEvents returns the activity events a line triggers: the
// structured tag family first, then the legacy phrase family. Both families
// fire when both match.
func MatchAgentEvents(line string) []AgentEvent {
	var events []AgentEvent

	if strings.Contains(line, agentTag) {
		if strings.Contains(line, startMarker) {
			if a, ok := matchStructuredName(line); ok {
				events = append(events, AgentEvent{AgentStart, a})
			}
		} else if strings.Contains(line, endMarker) {
			if a, ok := matchStructuredName(line); ok {
				events = append(events, AgentEvent{AgentEnd, a})
			}
		}
	}

	for _, rule := range legacyRules {
		if containsAny(rule.phrases...)(line) {
			events = append(events, rule.event)
			break
		}
	}

	return events
}

func matchStructuredName(line string) (models.Agent, bool) {
	for _, n := range structuredNames {
		if strings.Contains(line, n.marker) {
			return n.agent, true
		}
	}
	return "", false
}
