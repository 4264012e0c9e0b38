package models

import "time"

// Settings represents global application settings.
// This corresponds to settings.yaml in the hearth directory.
type Settings struct {
	Version           int           `yaml:"version" mapstructure:"version"`
	EmberPath         string        `yaml:"ember_path" mapstructure:"ember_path"` // empty = lookup in PATH
	Mode              Mode          `yaml:"mode" mapstructure:"mode"`
	Port              int           `yaml:"port" mapstructure:"port"`
	ServeArgs         string        `yaml:"serve_args" mapstructure:"serve_args"` // shell-quoted extra args for ember serve
	Notifications     bool          `yaml:"notifications" mapstructure:"notifications"`
	StopGracePeriod   time.Duration `yaml:"stop_grace_period" mapstructure:"stop_grace_period"`
	HideStatusBarItem bool          `yaml:"hide_status_bar_item" mapstructure:"hide_status_bar_item"`
	LogLevel          string        `yaml:"log_level" mapstructure:"log_level"`
	ActiveProject     string        `yaml:"active_project,omitempty" mapstructure:"active_project"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:           1,
		EmberPath:         "",
		Mode:              ModeDevelopment,
		Port:              4200,
		ServeArgs:         "",
		Notifications:     true,
		StopGracePeriod:   5 * time.Second,
		HideStatusBarItem: false,
		LogLevel:          "info",
	}
}
