// Package project keeps the list of tracked projects and the active one.
package project

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/sasha-s/go-deadlock"

	"github.com/emberhearth/hearth/internal/broadcast"
	"github.com/emberhearth/hearth/internal/config"
	"github.com/emberhearth/hearth/internal/models"
)

var (
	// ErrNotFound is returned for paths that are not registered.
	ErrNotFound = errors.New("project not found")
	// ErrNoActiveProject is returned by ToggleActive without an active project.
	ErrNoActiveProject = errors.New("no active project")
)

// Servers is the part of the server controller the registry drives.
type Servers interface {
	Toggle(p models.Project) error
	Stop(p models.Project) error
	StopAll(projects []models.Project) error
	Status(p models.Project) models.ServerStatus
}

// Registry holds the ordered project list, persisted on every add/remove.
type Registry struct {
	mu         deadlock.RWMutex
	projects   []models.Project
	activePath string

	servers Servers
	bus     *broadcast.Bus
	logger  *log.Logger
}

// NewRegistry creates an empty registry. Call Load to read projects.yaml.
func NewRegistry(servers Servers, bus *broadcast.Bus) *Registry {
	if bus == nil {
		bus = broadcast.New()
	}
	return &Registry{
		servers: servers,
		bus:     bus,
		logger:  log.WithPrefix("projects"),
	}
}

// Load replaces the in-memory list with projects.yaml.
func (r *Registry) Load() error {
	projects, err := config.LoadProjects()
	if err != nil {
		return err
	}
	// Entries without a path cannot be served; keep them so saving
	// round-trips the file, but they are never matched.
	r.mu.Lock()
	r.projects = projects
	r.mu.Unlock()

	r.logger.Debug("loaded projects", "count", len(projects))
	return nil
}

// List returns a copy of the project list.
func (r *Registry) List() []models.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Project, len(r.projects))
	copy(out, r.projects)
	return out
}

// Find returns the project registered at path.
func (r *Registry) Find(path string) (models.Project, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(normalize(path))
}

func (r *Registry) findLocked(path string) (models.Project, bool) {
	if path == "" {
		return models.Project{}, false
	}
	return lo.Find(r.projects, func(p models.Project) bool {
		return p.Equal(models.Project{Path: path})
	})
}

// Add registers p. An already registered path returns the existing entry.
// An unset name is derived from the project's package.json.
func (r *Registry) Add(p models.Project) (models.Project, error) {
	p.Path = normalize(p.Path)
	if p.Path == "" {
		return models.Project{}, fmt.Errorf("project path is required")
	}
	if p.Name == "" {
		p.LoadNameFromManifest()
	}

	r.mu.Lock()
	if existing, ok := r.findLocked(p.Path); ok {
		r.mu.Unlock()
		return existing, nil
	}
	r.projects = append(r.projects, p)
	snapshot := append([]models.Project(nil), r.projects...)
	r.mu.Unlock()

	if err := config.SaveProjects(snapshot); err != nil {
		return p, err
	}
	r.logger.Info("project added", "name", p.DisplayName(), "path", p.Path)
	return p, nil
}

// Remove stops p's server and unregisters it.
func (r *Registry) Remove(p models.Project) error {
	path := normalize(p.Path)

	r.mu.RLock()
	existing, ok := r.findLocked(path)
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, p.Path)
	}

	if r.servers != nil {
		if err := r.servers.Stop(existing); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}
	}

	r.mu.Lock()
	r.projects = lo.Filter(r.projects, func(q models.Project, _ int) bool {
		return !q.Equal(existing)
	})
	wasActive := r.activePath == existing.Path
	if wasActive {
		r.activePath = ""
	}
	snapshot := append([]models.Project(nil), r.projects...)
	r.mu.Unlock()

	if err := config.SaveProjects(snapshot); err != nil {
		return err
	}
	r.logger.Info("project removed", "name", existing.DisplayName(), "path", existing.Path)

	if wasActive {
		r.bus.Publish(broadcast.Event{Kind: broadcast.NoActiveProject})
	}
	return nil
}

// SetActive selects the project shown in the status bar. An empty path
// clears the selection.
func (r *Registry) SetActive(path string) error {
	path = normalize(path)

	r.mu.Lock()
	if path == "" {
		r.activePath = ""
		r.mu.Unlock()
		r.bus.Publish(broadcast.Event{Kind: broadcast.NoActiveProject})
		return nil
	}
	p, ok := r.findLocked(path)
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	r.activePath = p.Path
	r.mu.Unlock()

	e := broadcast.Event{Kind: broadcast.ActiveProjectSet, Project: p}
	if r.servers != nil {
		e.Status = r.servers.Status(p)
	}
	r.bus.Publish(e)
	return nil
}

// Active returns the active project.
func (r *Registry) Active() (models.Project, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(r.activePath)
}

// ToggleActive toggles the active project's server.
func (r *Registry) ToggleActive() error {
	p, ok := r.Active()
	if !ok {
		return ErrNoActiveProject
	}
	return r.servers.Toggle(p)
}

// RefreshName re-reads the manifest of the project at path and publishes
// ProjectUpdated when the derived name changed.
func (r *Registry) RefreshName(path string) error {
	path = normalize(path)

	r.mu.Lock()
	idx := -1
	for i := range r.projects {
		if r.projects[i].Path == path {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	p := r.projects[idx]
	old := p.Name
	if _, ok := p.LoadNameFromManifest(); !ok || p.Name == old {
		r.mu.Unlock()
		return nil
	}
	r.projects[idx] = p
	snapshot := append([]models.Project(nil), r.projects...)
	r.mu.Unlock()

	if err := config.SaveProjects(snapshot); err != nil {
		return err
	}
	r.logger.Info("project renamed", "from", old, "to", p.Name, "path", p.Path)
	r.bus.Publish(broadcast.Event{Kind: broadcast.ProjectUpdated, Project: p})
	return nil
}

// Shutdown stops every project's server.
func (r *Registry) Shutdown() error {
	if r.servers == nil {
		return nil
	}
	return r.servers.StopAll(r.List())
}

func normalize(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
