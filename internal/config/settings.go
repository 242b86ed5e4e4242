package config

import (
	"github.com/swarmdeck/swarmdeck/internal/models"
)

// LoadSettings loads the global settings from ~/.swarmdeck/settings.yaml.
// If the file doesn't exist, returns default settings. Fields absent from the
// file (hand-edited, or written by an older build) are filled with their
// defaults, so callers never see an empty script name or a partial agent map.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	settings, err := LoadYAMLOrDefault(path, models.NewSettings)
	if err != nil {
		return nil, err
	}
	fillDefaults(settings)
	return settings, nil
}

// SaveSettings saves the global settings to ~/.swarmdeck/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// fillDefaults papers over missing YAML keys with the stock values.
func fillDefaults(s *models.Settings) {
	def := models.NewSettings()
	if s.Script == "" {
		s.Script = def.Script
	}
	if s.ModeFlag == "" {
		s.ModeFlag = def.ModeFlag
	}
	if s.PlanFile == "" {
		s.PlanFile = def.PlanFile
	}
	if s.MaxLogEntries <= 0 {
		s.MaxLogEntries = def.MaxLogEntries
	}
	if s.EnabledAgents == nil {
		s.EnabledAgents = make(map[models.Agent]bool, len(models.Agents()))
	}
	if s.AgentParams == nil {
		s.AgentParams = make(map[models.Agent]*models.AgentParams, len(models.Agents()))
	}
	for _, a := range models.Agents() {
		if _, ok := s.EnabledAgents[a]; !ok {
			s.EnabledAgents[a] = true
		}
		if s.AgentParams[a] == nil {
			s.AgentParams[a] = def.AgentParams[a]
		}
	}
}
