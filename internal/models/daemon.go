package models

import "time"

// Host names the kind of hearthd process that owns the servers.
type Host string

const (
	HostDaemon    Host = "daemon"
	HostDashboard Host = "dashboard"
)

// DaemonInfo describes the hearthd process that currently owns the
// servers. It is stored as daemon.yaml in the hearth directory.
type DaemonInfo struct {
	Version   int       `yaml:"version"`
	PID       int       `yaml:"pid"`
	Host      Host      `yaml:"host"`
	Tray      bool      `yaml:"tray"`
	Mode      Mode      `yaml:"mode"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewDaemonInfo describes the current process.
func NewDaemonInfo(pid int, host Host, tray bool, mode Mode) *DaemonInfo {
	return &DaemonInfo{
		Version:   1,
		PID:       pid,
		Host:      host,
		Tray:      tray,
		Mode:      mode,
		StartedAt: time.Now().UTC(),
	}
}

// Uptime returns how long the owner has been running at now.
func (i *DaemonInfo) Uptime(now time.Time) time.Duration {
	if i.StartedAt.IsZero() || now.Before(i.StartedAt) {
		return 0
	}
	return now.Sub(i.StartedAt).Truncate(time.Second)
}

// Describe returns a short human description, e.g. "daemon (status bar)".
func (i *DaemonInfo) Describe() string {
	switch {
	case i.Host == HostDashboard:
		return "dashboard"
	case i.Tray:
		return "daemon (status bar)"
	default:
		return "daemon (headless)"
	}
}
