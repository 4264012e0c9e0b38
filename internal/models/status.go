package models

import "fmt"

// ServerStatus is the lifecycle state of a project's development server.
type ServerStatus int

// Server statuses. Stopped is the zero value.
const (
	StatusStopped ServerStatus = iota
	StatusBooting
	StatusRunning
	StatusErrored
)

func (s ServerStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusBooting:
		return "booting"
	case StatusRunning:
		return "running"
	case StatusErrored:
		return "errored"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// CanStart reports whether a server may be started from this status.
func (s ServerStatus) CanStart() bool {
	return s == StatusStopped || s == StatusErrored
}

// Mode selects the ember build environment.
type Mode string

// Build modes.
const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// ParseMode parses a mode name. Short forms "dev" and "prod" are accepted.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "development", "dev":
		return ModeDevelopment, nil
	case "production", "prod":
		return ModeProduction, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want development or production)", s)
	}
}
