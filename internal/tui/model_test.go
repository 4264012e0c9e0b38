package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberhearth/hearth/internal/broadcast"
	"github.com/emberhearth/hearth/internal/models"
)

type fakeBackend struct {
	mu        sync.Mutex
	projects  []models.Project
	active    string
	statuses  map[string]models.ServerStatus
	output    map[string][]string
	toggled   []models.Project
	toggleErr error
}

func newFakeBackend(projects ...models.Project) *fakeBackend {
	return &fakeBackend{
		projects: projects,
		statuses: make(map[string]models.ServerStatus),
		output:   make(map[string][]string),
	}
}

func (b *fakeBackend) Mode() models.Mode { return models.ModeDevelopment }

func (b *fakeBackend) Projects() []models.Project {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Project(nil), b.projects...)
}

func (b *fakeBackend) ActiveProject() (models.Project, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.projects {
		if p.Path == b.active {
			return p, true
		}
	}
	return models.Project{}, false
}

func (b *fakeBackend) ServerStatus(p models.Project) models.ServerStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statuses[p.Path]
}

func (b *fakeBackend) ServerURL(models.Project) string { return "" }

func (b *fakeBackend) ServerOutput(p models.Project) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.output[p.Path]
}

func (b *fakeBackend) Toggle(p models.Project) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toggled = append(b.toggled, p)
	return b.toggleErr
}

func (b *fakeBackend) Activate(p models.Project) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = p.Path
	return nil
}

var (
	appA = models.NewProject("app-a", "/tmp/a")
	appB = models.NewProject("app-b", "/tmp/b")
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(t *testing.T, b *fakeBackend) Model {
	t.Helper()
	m := NewModel(b)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = update(t, m, refreshCmd(b)())
	return m
}

func TestRefreshSelectsFirstProject(t *testing.T) {
	b := newFakeBackend(appA, appB)
	b.active = appB.Path
	b.statuses[appA.Path] = models.StatusErrored
	b.output[appA.Path] = []string{"Error: Cannot find module"}

	m := NewModel(b)
	m, cmd := update(t, m, refreshCmd(b)())

	selected, ok := m.projects.Selected()
	require.True(t, ok)
	assert.Equal(t, appA, selected)
	assert.Equal(t, models.StatusErrored, m.projects.Status(appA))
	assert.True(t, m.hasActive)
	assert.Equal(t, appB, m.active)

	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	assert.Equal(t, []string{"Error: Cannot find module"}, m.output.Lines())
}

func TestNavigationSwitchesOutput(t *testing.T) {
	b := newFakeBackend(appA, appB)
	b.output[appB.Path] = []string{"Serving on http://localhost:4200/"}
	m := loadedModel(t, b)

	m, cmd := update(t, m, runes("j"))

	selected, _ := m.projects.Selected()
	assert.Equal(t, appB, selected)
	assert.Equal(t, appB.Path, m.output.Path())
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, outputMsg{Path: appB.Path, Lines: []string{"Serving on http://localhost:4200/"}}, msg)

	// Output for a project that is no longer shown is dropped.
	m, _ = update(t, m, outputMsg{Path: appA.Path, Lines: []string{"stale"}})
	assert.Empty(t, m.output.Lines())

	m, _ = update(t, m, runes("k"))
	selected, _ = m.projects.Selected()
	assert.Equal(t, appA, selected)
}

func TestToggleRunsInCommand(t *testing.T) {
	b := newFakeBackend(appA, appB)
	m := loadedModel(t, b)

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, b.toggled, "toggle must not run inside Update")
	require.NotNil(t, cmd)
	assert.Equal(t, actionDoneMsg{}, cmd())
	assert.Equal(t, []models.Project{appA}, b.toggled)
}

func TestToggleErrorIsShown(t *testing.T) {
	b := newFakeBackend(appA)
	b.toggleErr = errors.New("server is already booting or running")
	m := loadedModel(t, b)

	_, cmd := update(t, m, runes("s"))
	msg := cmd()
	require.IsType(t, errorMsg{}, msg)

	m, clearCmd := update(t, m, msg)
	assert.NotNil(t, clearCmd)
	assert.Contains(t, ansi.Strip(m.View()), "app-a: server is already booting or running")

	m, _ = update(t, m, clearErrorMsg{})
	assert.NoError(t, m.err)
}

func TestActivate(t *testing.T) {
	b := newFakeBackend(appA, appB)
	m := loadedModel(t, b)
	m, _ = update(t, m, runes("j"))

	_, cmd := update(t, m, runes("a"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, appB.Path, b.active)

	m, _ = update(t, m, busEventMsg{Event: broadcast.Event{Kind: broadcast.ActiveProjectSet, Project: appB}})
	assert.True(t, m.hasActive)

	_, cmd = update(t, m, runes("a"))
	assert.Nil(t, cmd, "activating the active project is a no-op")
}

func TestServerEventsUpdateStatus(t *testing.T) {
	b := newFakeBackend(appA)
	m := loadedModel(t, b)

	_, cmd := update(t, m, runes("o"))
	assert.Nil(t, cmd, "nothing to open while stopped")

	m, cmd = update(t, m, busEventMsg{Event: broadcast.Event{
		Kind:    broadcast.ServerStarted,
		Project: appA,
		Status:  models.StatusRunning,
		URL:     "http://localhost:4200/",
	}})

	assert.Equal(t, models.StatusRunning, m.projects.Status(appA))
	assert.NotNil(t, cmd, "selected project output is refreshed")
	assert.Contains(t, ansi.Strip(m.View()), "http://localhost:4200/")

	_, cmd = update(t, m, runes("o"))
	assert.NotNil(t, cmd)

	m, _ = update(t, m, busEventMsg{Event: broadcast.Event{
		Kind:    broadcast.ServerStopped,
		Project: appA,
		Status:  models.StatusStopped,
	}})
	assert.Equal(t, models.StatusStopped, m.projects.Status(appA))
	assert.Empty(t, m.urls[appA.Path])
}

func TestQuitAsksWhileServersRun(t *testing.T) {
	b := newFakeBackend(appA)
	m := loadedModel(t, b)
	m, _ = update(t, m, busEventMsg{Event: broadcast.Event{Kind: broadcast.ServerStarting, Project: appA, Status: models.StatusBooting}})

	m, cmd := update(t, m, runes("q"))
	assert.Nil(t, cmd)
	assert.True(t, m.confirmQuit)
	assert.Contains(t, ansi.Strip(m.View()), "Stop them and quit?")

	m, _ = update(t, m, runes("n"))
	assert.False(t, m.confirmQuit)

	m, _ = update(t, m, runes("q"))
	_, cmd = update(t, m, runes("y"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestQuitWithoutServers(t *testing.T) {
	m := loadedModel(t, newFakeBackend(appA))

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHelpOverlay(t *testing.T) {
	m := loadedModel(t, newFakeBackend(appA))

	m, _ = update(t, m, runes("?"))
	require.True(t, m.showHelp)
	assert.Contains(t, ansi.Strip(m.View()), "Keyboard Shortcuts")

	// Keys other than close are swallowed while help is open.
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestViewListsProjects(t *testing.T) {
	b := newFakeBackend(appA, appB)
	b.active = appA.Path
	m := loadedModel(t, b)

	view := ansi.Strip(m.View())

	assert.Contains(t, view, "app-a")
	assert.Contains(t, view, "app-b")
	assert.Contains(t, view, "active: app-a")
	assert.LessOrEqual(t, len(strings.Split(view, "\n")), 30)
}

func TestViewWithoutProjects(t *testing.T) {
	m := loadedModel(t, newFakeBackend())

	view := ansi.Strip(m.View())

	assert.Contains(t, view, "No projects.")
	assert.Contains(t, view, "No active project")
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestProjectRemovedRefreshes(t *testing.T) {
	b := newFakeBackend(appA, appB)
	m := loadedModel(t, b)
	m, _ = update(t, m, runes("j"))

	b.projects = []models.Project{appA}
	_, cmd := update(t, m, busEventMsg{Event: broadcast.Event{Kind: broadcast.NoActiveProject}})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	selected, ok := m.projects.Selected()
	require.True(t, ok)
	assert.Equal(t, appA, selected)
}

func TestTruncateContent(t *testing.T) {
	got := truncateContent("abcdef\nghi\njkl", 3, 2)
	assert.Equal(t, "abc\nghi", got)
}
