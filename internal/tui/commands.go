package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emberhearth/hearth/internal/models"
	"github.com/emberhearth/hearth/internal/notify"
)

const (
	tickInterval = 500 * time.Millisecond
	errorLinger  = 5 * time.Second
)

func refreshCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		projects := b.Projects()
		msg := refreshMsg{
			Projects: projects,
			Statuses: make(map[string]models.ServerStatus, len(projects)),
			URLs:     make(map[string]string, len(projects)),
		}
		for _, p := range projects {
			msg.Statuses[p.Path] = b.ServerStatus(p)
			msg.URLs[p.Path] = b.ServerURL(p)
		}
		msg.Active, msg.HasActive = b.ActiveProject()
		return msg
	}
}

func fetchOutputCmd(b Backend, p models.Project) tea.Cmd {
	return func() tea.Msg {
		return outputMsg{Path: p.Path, Lines: b.ServerOutput(p)}
	}
}

func toggleCmd(b Backend, p models.Project) tea.Cmd {
	return func() tea.Msg {
		if err := b.Toggle(p); err != nil {
			return errorMsg{Err: fmt.Errorf("%s: %w", p.DisplayName(), err)}
		}
		return actionDoneMsg{}
	}
}

func activateCmd(b Backend, p models.Project) tea.Cmd {
	return func() tea.Msg {
		if err := b.Activate(p); err != nil {
			return errorMsg{Err: err}
		}
		return actionDoneMsg{}
	}
}

func openURLCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := notify.OpenURL(url); err != nil {
			return errorMsg{Err: err}
		}
		return nil
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func clearErrorAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}
