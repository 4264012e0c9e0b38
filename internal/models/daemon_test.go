package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaemonInfoDescribe(t *testing.T) {
	tests := []struct {
		info *DaemonInfo
		want string
	}{
		{NewDaemonInfo(1, HostDaemon, true, ModeDevelopment), "daemon (status bar)"},
		{NewDaemonInfo(1, HostDaemon, false, ModeDevelopment), "daemon (headless)"},
		{NewDaemonInfo(1, HostDashboard, false, ModeProduction), "dashboard"},
		{&DaemonInfo{PID: 1, Tray: true}, "daemon (status bar)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.Describe())
		})
	}
}

func TestDaemonInfoUptime(t *testing.T) {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	info := &DaemonInfo{StartedAt: started}

	assert.Equal(t, 90*time.Second, info.Uptime(started.Add(90*time.Second+300*time.Millisecond)))
	assert.Zero(t, info.Uptime(started.Add(-time.Minute)))
	assert.Zero(t, (&DaemonInfo{}).Uptime(started))
}
