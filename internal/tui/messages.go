package tui

import (
	"github.com/emberhearth/hearth/internal/broadcast"
	"github.com/emberhearth/hearth/internal/models"
)

// busEventMsg carries an event published by the server controller or the
// project registry.
type busEventMsg struct {
	Event broadcast.Event
}

// refreshMsg carries a full snapshot of projects and their servers.
type refreshMsg struct {
	Projects  []models.Project
	Active    models.Project
	HasActive bool
	Statuses  map[string]models.ServerStatus
	URLs      map[string]string
}

// outputMsg carries the recent server output of one project.
type outputMsg struct {
	Path  string
	Lines []string
}

// actionDoneMsg signals a toggle or activation finished.
type actionDoneMsg struct{}

// errorMsg carries an error to display.
type errorMsg struct {
	Err error
}

// clearErrorMsg clears the error display.
type clearErrorMsg struct{}

// tickMsg polls the selected server's output and advances the spinner.
type tickMsg struct{}
