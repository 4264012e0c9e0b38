package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emberhearth/hearth/internal/broadcast"
	"github.com/emberhearth/hearth/internal/models"
)

// Model is the root Bubbletea model for the dashboard.
type Model struct {
	backend Backend
	mode    string

	projects *ProjectList
	output   *OutputView
	urls     map[string]string

	active    models.Project
	hasActive bool

	// UI state
	focused     int
	showHelp    bool
	confirmQuit bool
	err         error
	splitRatio  float64
	width       int
	height      int
}

// NewModel creates the initial dashboard model.
func NewModel(b Backend) Model {
	return Model{
		backend:    b,
		mode:       string(b.Mode()),
		projects:   NewProjectList(),
		output:     NewOutputView(),
		urls:       make(map[string]string),
		splitRatio: 0.35,
	}
}

// Init loads the project list and starts polling.
func (m Model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(m.backend), tick())
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case refreshMsg:
		m.projects.SetProjects(msg.Projects)
		for path, status := range msg.Statuses {
			m.projects.SetStatus(path, status)
		}
		m.urls = msg.URLs
		m.setActive(msg.Active, msg.HasActive)
		return m, m.selectionChanged()

	case busEventMsg:
		return m, m.handleEvent(msg.Event)

	case outputMsg:
		m.output.SetLines(msg.Path, msg.Lines)
		return m, nil

	case actionDoneMsg:
		// The resulting state arrives as bus events.
		return m, nil

	case tickMsg:
		m.projects.Tick()
		cmds := []tea.Cmd{tick()}
		if p, ok := m.projects.Selected(); ok && !m.projects.Status(p).CanStart() {
			cmds = append(cmds, fetchOutputCmd(m.backend, p))
		}
		return m, tea.Batch(cmds...)

	case errorMsg:
		m.err = msg.Err
		return m, clearErrorAfter(errorLinger)

	case clearErrorMsg:
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m *Model) handleEvent(e broadcast.Event) tea.Cmd {
	switch e.Kind {
	case broadcast.ServerStarting, broadcast.ServerStarted, broadcast.ServerStopped, broadcast.ServerStoppedWithError:
		m.projects.SetStatus(e.Project.Path, e.Status)
		m.urls[e.Project.Path] = e.URL
		if m.output.Path() == e.Project.Path {
			return fetchOutputCmd(m.backend, e.Project)
		}
		return nil

	case broadcast.ActiveProjectSet:
		m.setActive(e.Project, true)
		return nil

	case broadcast.NoActiveProject:
		m.setActive(models.Project{}, false)
		// The active project may have been removed.
		return refreshCmd(m.backend)

	case broadcast.ProjectUpdated:
		return refreshCmd(m.backend)
	}
	return nil
}

func (m *Model) setActive(p models.Project, ok bool) {
	m.active, m.hasActive = p, ok
	if ok {
		m.projects.SetActive(p.Path)
	} else {
		m.projects.SetActive("")
	}
}

// selectionChanged points the output panel at the selected project.
func (m *Model) selectionChanged() tea.Cmd {
	p, ok := m.projects.Selected()
	if !ok {
		m.output.Show("")
		return nil
	}
	m.output.Show(p.Path)
	return fetchOutputCmd(m.backend, p)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirmQuit {
		switch {
		case key.Matches(msg, confirmKeys.Yes):
			return tea.Quit
		case key.Matches(msg, confirmKeys.No), key.Matches(msg, confirmKeys.Cancel):
			m.confirmQuit = false
		}
		return nil
	}

	if m.showHelp {
		if key.Matches(msg, globalKeys.Help) || key.Matches(msg, confirmKeys.Cancel) {
			m.showHelp = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, globalKeys.Quit):
		if m.projects.AnyActive() {
			m.confirmQuit = true
			return nil
		}
		return tea.Quit

	case key.Matches(msg, globalKeys.Help):
		m.showHelp = true
		return nil

	case key.Matches(msg, globalKeys.Tab):
		m.focused = 1 - m.focused
		return nil
	}

	if m.focused == panelOutput {
		m.handleOutputKey(msg)
		return nil
	}
	return m.handleProjectKey(msg)
}

func (m *Model) handleProjectKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, projectKeys.Up):
		m.projects.MoveUp()
		return m.selectionChanged()

	case key.Matches(msg, projectKeys.Down):
		m.projects.MoveDown()
		return m.selectionChanged()
	}

	p, ok := m.projects.Selected()
	if !ok {
		return nil
	}

	switch {
	case key.Matches(msg, projectKeys.Toggle):
		return toggleCmd(m.backend, p)

	case key.Matches(msg, projectKeys.Activate):
		if m.hasActive && m.active.Equal(p) {
			return nil
		}
		return activateCmd(m.backend, p)

	case key.Matches(msg, projectKeys.Open):
		if url := m.urls[p.Path]; url != "" && m.projects.Status(p) == models.StatusRunning {
			return openURLCmd(url)
		}
	}
	return nil
}

func (m *Model) handleOutputKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, outputKeys.Up):
		m.output.ScrollUp(1)
	case key.Matches(msg, outputKeys.Down):
		m.output.ScrollDown(1)
	case key.Matches(msg, outputKeys.PageUp):
		m.output.PageUp()
	case key.Matches(msg, outputKeys.PageDown):
		m.output.PageDown()
	case key.Matches(msg, outputKeys.Bottom):
		m.output.Follow()
	}
}

func (m *Model) updateDimensions() {
	layout := computeLayout(m.width, m.height, m.splitRatio)
	_, h := layout.inner(layout.leftWidth)
	m.projects.SetHeight(h)

	w, _ := layout.inner(layout.rightWidth)
	// Two lines for the output title and its rule.
	m.output.SetSize(w, max(h-2, 1))
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	layout := computeLayout(m.width, m.height, m.splitRatio)
	status := models.StatusStopped
	if m.hasActive {
		status = m.projects.Status(m.active)
	}
	header := renderHeader(m.active, m.hasActive, status, m.urls[m.active.Path], m.width)

	leftW, _ := layout.inner(layout.leftWidth)
	rightW, _ := layout.inner(layout.rightWidth)
	body := renderPanels(m.projects.View(leftW), m.outputPanel(rightW), layout, m.focused)

	view := lipgloss.JoinVertical(lipgloss.Left, header, body, renderStatusBar(&m, m.width))
	if m.showHelp {
		view = placeOverlay(view, renderHelp(m.width), m.width, m.height)
	}
	return view
}

func (m *Model) outputPanel(width int) string {
	p, ok := m.projects.Selected()
	if !ok {
		return ""
	}
	status := m.projects.Status(p)

	title := lipgloss.NewStyle().Bold(true).Render(p.DisplayName())
	if url := m.urls[p.Path]; url != "" && status == models.StatusRunning {
		title += "  " + urlStyle.Render(url)
	} else {
		title += "  " + dimStyle.Render(status.String())
	}
	rule := dimStyle.Render(strings.Repeat("─", max(width, 0)))

	return title + "\n" + rule + "\n" + m.output.View(status)
}
