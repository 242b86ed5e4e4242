package models

// AgentParams holds per-agent tuning passed through to the orchestrator.
type AgentParams struct {
	Temperature float64 `yaml:"temperature"`
}

// GraphConfig holds the force-directed layout constants.
type GraphConfig struct {
	Repulsion   float64 `yaml:"repulsion"`
	Attraction  float64 `yaml:"attraction"`
	Damping     float64 `yaml:"damping"`
	IdealLength float64 `yaml:"ideal_length"`
}

// HistoryConfig holds settings for the run history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"` // empty = ~/.swarmdeck/history.db
}

// Settings represents global application settings.
// This corresponds to ~/.swarmdeck/settings.yaml.
type Settings struct {
	Version        int                    `yaml:"version"`
	Script         string                 `yaml:"script"`    // orchestrator entry point
	ModeFlag       string                 `yaml:"mode_flag"` // fixed flag passed before the objective
	WorkDir        string                 `yaml:"work_dir,omitempty"` // empty = parent of cwd
	PlanFile       string                 `yaml:"plan_file"`
	MaxLogEntries  int                    `yaml:"max_log_entries"`
	ShowSystemLogs bool                   `yaml:"show_system_logs"`
	SandboxEnabled bool                   `yaml:"sandbox_enabled"`
	EnabledAgents  map[Agent]bool         `yaml:"enabled_agents"`
	AgentParams    map[Agent]*AgentParams `yaml:"agent_params"`
	Graph          GraphConfig            `yaml:"graph"`
	History        HistoryConfig          `yaml:"history"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	enabled := make(map[Agent]bool, len(Agents()))
	params := make(map[Agent]*AgentParams, len(Agents()))
	for _, a := range Agents() {
		enabled[a] = true
		params[a] = &AgentParams{Temperature: 0.7}
	}

	return &Settings{
		Version:        1,
		Script:         "swarm_loop.sh",
		ModeFlag:       "--v2",
		PlanFile:       "SWARM_PLAN.json",
		MaxLogEntries:  500,
		ShowSystemLogs: false,
		SandboxEnabled: false,
		EnabledAgents:  enabled,
		AgentParams:    params,
		Graph: GraphConfig{
			Repulsion:   1500.0,
			Attraction:  0.05,
			Damping:     0.95,
			IdealLength: 120.0,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}
