// Package tui implements the interactive dashboard for hearthd.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emberhearth/hearth/internal/broadcast"
	"github.com/emberhearth/hearth/internal/models"
)

// Backend is the daemon state the dashboard reads and drives. Calls may
// block on the server control loop, so the model only makes them from
// commands, never from Update or View.
type Backend interface {
	Mode() models.Mode
	Projects() []models.Project
	ActiveProject() (models.Project, bool)
	ServerStatus(p models.Project) models.ServerStatus
	ServerURL(p models.Project) string
	ServerOutput(p models.Project) []string
	Toggle(p models.Project) error
	Activate(p models.Project) error
}

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Run shows the dashboard until the user quits. Status events from bus are
// forwarded to the model as they are published.
func Run(b Backend, bus *broadcast.Bus) error {
	ref := &programRef{}
	p := tea.NewProgram(NewModel(b), tea.WithAltScreen())
	ref.Set(p)

	subs := bus.SubscribeAll(func(e broadcast.Event) {
		ref.Send(busEventMsg{Event: e})
	})
	defer func() {
		ref.Clear()
		for _, s := range subs {
			bus.Unsubscribe(s)
		}
	}()

	_, err := p.Run()
	return err
}
