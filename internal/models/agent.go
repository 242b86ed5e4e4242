// Package models contains shared data structures used across the application.
package models

// Agent identifies one stage of the fixed five-stage orchestration pipeline.
type Agent string

const (
	AgentTranslator   Agent = "translator"
	AgentOrchestrator Agent = "orchestrator"
	AgentEngineer     Agent = "engineer"
	AgentDesigner     Agent = "designer"
	AgentAsic         Agent = "asic"
)

// Agents returns all agents in pipeline order. The set is fixed; it never
// grows or shrinks at runtime.
func Agents() []Agent {
	return []Agent{
		AgentTranslator,
		AgentOrchestrator,
		AgentEngineer,
		AgentDesigner,
		AgentAsic,
	}
}

// DisplayName returns the human-readable agent name.
func (a Agent) DisplayName() string {
	switch a {
	case AgentTranslator:
		return "Translator"
	case AgentOrchestrator:
		return "Orchestrator"
	case AgentEngineer:
		return "Engineer"
	case AgentDesigner:
		return "Designer"
	case AgentAsic:
		return "ASICs"
	default:
		return string(a)
	}
}

// Predecessor returns the agent that feeds work into a in the pipeline.
// The Translator sits at the head and has none.
func (a Agent) Predecessor() (Agent, bool) {
	switch a {
	case AgentOrchestrator:
		return AgentTranslator, true
	case AgentEngineer:
		return AgentOrchestrator, true
	case AgentDesigner:
		return AgentEngineer, true
	case AgentAsic:
		return AgentDesigner, true
	default:
		return "", false
	}
}

// AgentState represents whether an agent is currently doing work.
type AgentState string

const (
	AgentIdle   AgentState = "idle"
	AgentActive AgentState = "active"
)
