package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/emberhearth/hearth/internal/models"
)

// EnvPrefix prefixes environment overrides, e.g. HEARTH_PORT.
const EnvPrefix = "HEARTH"

// LoadSettings loads settings from path, or from settings.yaml in the global
// directory when path is empty. Missing files yield defaults; HEARTH_*
// environment variables override file values.
func LoadSettings(path string) (*models.Settings, error) {
	if path == "" {
		var err error
		path, err = GlobalSettingsFile()
		if err != nil {
			return nil, err
		}
	}

	v := viper.New()
	defaults := models.NewSettings()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("ember_path", defaults.EmberPath)
	v.SetDefault("mode", string(defaults.Mode))
	v.SetDefault("port", defaults.Port)
	v.SetDefault("serve_args", defaults.ServeArgs)
	v.SetDefault("notifications", defaults.Notifications)
	v.SetDefault("stop_grace_period", defaults.StopGracePeriod)
	v.SetDefault("hide_status_bar_item", defaults.HideStatusBarItem)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("active_project", defaults.ActiveProject)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if FileExists(path) {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings from %s: %w", path, err)
		}
	}

	var s models.Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	mode, err := models.ParseMode(string(s.Mode))
	if err != nil {
		return nil, err
	}
	s.Mode = mode
	return &s, nil
}

// SaveSettings saves settings to path, or to the global settings.yaml.
func SaveSettings(path string, settings *models.Settings) error {
	if path == "" {
		var err error
		path, err = GlobalSettingsFile()
		if err != nil {
			return err
		}
	}
	return SaveYAML(path, settings)
}
