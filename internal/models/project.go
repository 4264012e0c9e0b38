// Package models contains shared data structures used across the application.
package models

import (
	"path/filepath"

	"github.com/emberhearth/hearth/internal/manifest"
)

// Persisted keys of a project record.
const (
	KeyName = "name"
	KeyPath = "path"
)

// Project is a tracked ember application directory.
// An empty Name or Path means the field is unset, unless the record was
// read with the key present and holding "".
// The path is the identity key: two projects are equal iff their paths are.
type Project struct {
	Name string `yaml:"name,omitempty"`
	Path string `yaml:"path,omitempty"`

	// set when the persisted record carried the key with an empty string
	blankName bool
	blankPath bool
}

// NewProject creates a project from an explicit name and path.
func NewProject(name, path string) Project {
	return Project{Name: name, Path: path}
}

// ProjectFromMap builds a project from a persisted dictionary.
// Missing or non-string values leave the corresponding field unset.
func ProjectFromMap(m map[string]any) Project {
	var p Project
	if s, ok := m[KeyName].(string); ok {
		p.Name = s
		p.blankName = s == ""
	}
	if s, ok := m[KeyPath].(string); ok {
		p.Path = s
		p.blankPath = s == ""
	}
	return p
}

// ToMap returns the persisted dictionary form, omitting unset fields.
// Keys that were read as empty strings are written back as such.
func (p Project) ToMap() map[string]any {
	m := make(map[string]any, 2)
	if p.Name != "" || p.blankName {
		m[KeyName] = p.Name
	}
	if p.Path != "" || p.blankPath {
		m[KeyPath] = p.Path
	}
	return m
}

// Equal reports whether both records refer to the same path.
func (p Project) Equal(other Project) bool {
	return p.Path == other.Path
}

// LoadNameFromManifest derives the name from <path>/package.json.
// On success the name is stored on the project and returned. Any failure
// returns ok=false and leaves Name as it was.
func (p *Project) LoadNameFromManifest() (name string, ok bool) {
	if p.Path == "" {
		return "", false
	}
	name, ok = manifest.Name(p.Path)
	if !ok {
		return "", false
	}
	p.Name = name
	return name, true
}

// DisplayName returns the name, falling back to the directory name.
func (p Project) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Path != "" {
		return filepath.Base(p.Path)
	}
	return "Untitled"
}
