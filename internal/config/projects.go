package config

import (
	"fmt"

	"github.com/emberhearth/hearth/internal/models"
)

// LoadProjects loads the persisted project list from projects.yaml.
// A missing file yields an empty list. Entries are decoded leniently: a
// malformed field leaves it unset rather than failing the whole list.
func LoadProjects() ([]models.Project, error) {
	path, err := GlobalProjectsFile()
	if err != nil {
		return nil, err
	}
	if !FileExists(path) {
		return []models.Project{}, nil
	}

	var raw []map[string]any
	if err := LoadYAML(path, &raw); err != nil {
		return nil, err
	}

	projects := make([]models.Project, 0, len(raw))
	for _, m := range raw {
		projects = append(projects, models.ProjectFromMap(m))
	}
	return projects, nil
}

// SaveProjects writes the project list to projects.yaml, in order.
func SaveProjects(projects []models.Project) error {
	if err := EnsureGlobalDir(); err != nil {
		return err
	}
	path, err := GlobalProjectsFile()
	if err != nil {
		return err
	}

	raw := make([]map[string]any, 0, len(projects))
	for _, p := range projects {
		raw = append(raw, p.ToMap())
	}
	if err := SaveYAML(path, raw); err != nil {
		return fmt.Errorf("failed to save projects: %w", err)
	}
	return nil
}
