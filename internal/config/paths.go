// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global hearth directory.
	GlobalDirName = ".hearth"

	// HomeEnv overrides the global directory.
	HomeEnv = "HEARTH_HOME"
)

// File names
const (
	DaemonFileName   = "daemon.yaml"
	ProjectsFileName = "projects.yaml"
	SettingsFileName = "settings.yaml"
)

// GlobalDir returns the path to the global hearth directory (~/.hearth/),
// or $HEARTH_HOME when set.
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// GlobalDaemonFile returns the path to the daemon.yaml file.
func GlobalDaemonFile() (string, error) {
	return globalFile(DaemonFileName)
}

// GlobalProjectsFile returns the path to the projects.yaml file.
func GlobalProjectsFile() (string, error) {
	return globalFile(ProjectsFileName)
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	return globalFile(SettingsFileName)
}

func globalFile(name string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// EnsureGlobalDir creates the global hearth directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
