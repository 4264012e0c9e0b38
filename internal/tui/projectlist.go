package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/emberhearth/hearth/internal/models"
)

var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

// ProjectList is the left panel: every project with its server status.
type ProjectList struct {
	projects     []models.Project
	statuses     map[string]models.ServerStatus
	activePath   string
	cursor       int
	scrollOffset int
	height       int
	spinnerFrame int
}

// NewProjectList creates an empty list.
func NewProjectList() *ProjectList {
	return &ProjectList{statuses: make(map[string]models.ServerStatus)}
}

// SetProjects replaces the list, keeping the selection on the same path
// when it is still present.
func (pl *ProjectList) SetProjects(projects []models.Project) {
	selected, hadSelection := pl.Selected()
	pl.projects = projects
	pl.cursor = 0
	if hadSelection {
		for i, p := range projects {
			if p.Equal(selected) {
				pl.cursor = i
				break
			}
		}
	}
	pl.ensureVisible()
}

// SetStatus records the server status of the project at path.
func (pl *ProjectList) SetStatus(path string, status models.ServerStatus) {
	pl.statuses[path] = status
}

// Status returns the recorded server status of p.
func (pl *ProjectList) Status(p models.Project) models.ServerStatus {
	return pl.statuses[p.Path]
}

// AnyActive reports whether some server is booting or running.
func (pl *ProjectList) AnyActive() bool {
	for _, s := range pl.statuses {
		if !s.CanStart() {
			return true
		}
	}
	return false
}

// SetActive marks the active project. An empty path clears it.
func (pl *ProjectList) SetActive(path string) {
	pl.activePath = path
}

// SetHeight sets the visible height.
func (pl *ProjectList) SetHeight(h int) {
	pl.height = h
	pl.ensureVisible()
}

// Selected returns the project under the cursor.
func (pl *ProjectList) Selected() (models.Project, bool) {
	if pl.cursor < 0 || pl.cursor >= len(pl.projects) {
		return models.Project{}, false
	}
	return pl.projects[pl.cursor], true
}

// MoveUp moves the cursor up.
func (pl *ProjectList) MoveUp() {
	if pl.cursor > 0 {
		pl.cursor--
		pl.ensureVisible()
	}
}

// MoveDown moves the cursor down.
func (pl *ProjectList) MoveDown() {
	if pl.cursor < len(pl.projects)-1 {
		pl.cursor++
		pl.ensureVisible()
	}
}

// Tick advances the booting spinner.
func (pl *ProjectList) Tick() {
	pl.spinnerFrame = (pl.spinnerFrame + 1) % len(spinnerFrames)
}

func (pl *ProjectList) ensureVisible() {
	if pl.height <= 0 {
		return
	}
	if pl.cursor < pl.scrollOffset {
		pl.scrollOffset = pl.cursor
	}
	if pl.cursor >= pl.scrollOffset+pl.height {
		pl.scrollOffset = pl.cursor - pl.height + 1
	}
}

// View renders the list.
func (pl *ProjectList) View(width int) string {
	if len(pl.projects) == 0 {
		return dimStyle.Render("No projects. Add one with\n`hearthd projects add <path>`.")
	}

	end := len(pl.projects)
	if pl.height > 0 && pl.scrollOffset+pl.height < end {
		end = pl.scrollOffset + pl.height
	}

	var lines []string
	if pl.scrollOffset > 0 {
		lines = append(lines, dimStyle.Render("  ▲ more"))
	}
	for i := pl.scrollOffset; i < end; i++ {
		p := pl.projects[i]

		marker := "  "
		if p.Path != "" && p.Path == pl.activePath {
			marker = activeMarkerStyle.Render("★ ")
		}
		title := pl.badge(pl.statuses[p.Path]) + " " + p.DisplayName()
		if limit := width - 2; limit > 0 {
			title = ansi.Truncate(title, limit, "…")
		}
		if i == pl.cursor {
			title = selectedItemStyle.Width(width - 2).Render(title)
		}
		lines = append(lines, marker+title)
	}
	if end < len(pl.projects) {
		lines = append(lines, dimStyle.Render("  ▼ more"))
	}
	return strings.Join(lines, "\n")
}

func (pl *ProjectList) badge(s models.ServerStatus) string {
	switch s {
	case models.StatusBooting:
		return statusBootingStyle.Render(spinnerFrames[pl.spinnerFrame])
	case models.StatusRunning:
		return statusRunningStyle.Render("●")
	case models.StatusErrored:
		return statusErroredStyle.Render("✗")
	default:
		return statusStoppedStyle.Render("○")
	}
}
