// Package tray implements the status bar icon and menu for the daemon.
package tray

import (
	"fmt"

	"github.com/emberhearth/hearth/internal/models"
)

// App provides the tray with read access to daemon state and the actions
// behind its menu items.
type App interface {
	ActiveProject() (models.Project, bool)
	ServerStatus(p models.Project) models.ServerStatus
	ServerURL(p models.Project) string
	ToggleServer() error
	RequestShutdown()
}

// view is what the tray shows for one state.
type view struct {
	Icon          []byte
	Tooltip       string
	ProjectTitle  string
	ToggleTitle   string
	ToggleEnabled bool
	OpenEnabled   bool
}

// viewFor maps the active project and its server status to tray content.
func viewFor(p models.Project, hasActive bool, status models.ServerStatus) view {
	if !hasActive {
		return view{
			Icon:         iconIdle,
			Tooltip:      "Hearth",
			ProjectTitle: "No active project",
			ToggleTitle:  "Run Server",
		}
	}

	v := view{
		ProjectTitle:  p.DisplayName(),
		ToggleTitle:   "Run Server",
		ToggleEnabled: true,
	}
	switch status {
	case models.StatusBooting:
		v.Icon = iconStarting
		v.Tooltip = "Hearth - Starting Server"
		v.ToggleTitle = "Starting Server..."
		v.ToggleEnabled = false
	case models.StatusRunning:
		v.Icon = iconRunning
		v.Tooltip = "Hearth - Running Server"
		v.ToggleTitle = "Stop Server"
		v.OpenEnabled = true
	case models.StatusErrored:
		v.Icon = iconErrored
		v.Tooltip = fmt.Sprintf("Hearth - Server for %s failed", p.DisplayName())
	default:
		v.Icon = iconIdle
		v.Tooltip = "Hearth"
	}
	return v
}
