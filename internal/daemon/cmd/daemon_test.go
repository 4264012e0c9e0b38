package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberhearth/hearth/internal/config"
	"github.com/emberhearth/hearth/internal/daemon/server"
	"github.com/emberhearth/hearth/internal/models"
)

func TestShutdownTerminatesRunningServers(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PTY processes are not supported on windows")
	}
	t.Setenv(config.HomeEnv, t.TempDir())

	marker := filepath.Join(t.TempDir(), "terminated")
	script := filepath.Join(t.TempDir(), "ember")
	body := fmt.Sprintf(`#!/bin/sh
trap 'echo term > %q; exit 0' TERM
trap '' HUP
echo "Serving on http://localhost:4200/"
while true; do sleep 0.05; done
`, marker)
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))

	settings := models.NewSettings()
	settings.EmberPath = script
	settings.StopGracePeriod = 2 * time.Second
	ember, err := server.NewEmberCLI(settings)
	require.NoError(t, err)

	d, err := newDaemon(settings, ember, nil)
	require.NoError(t, err)
	t.Cleanup(d.shutdown)

	p, err := d.projects.Add(models.NewProject("my-app", t.TempDir()))
	require.NoError(t, err)
	require.NoError(t, d.servers.Start(p))
	if d.servers.Status(p) == models.StatusErrored {
		t.Skipf("cannot start PTY here: %v", d.servers.Output(p))
	}
	require.Eventually(t, func() bool {
		return d.servers.Status(p) == models.StatusRunning
	}, 5*time.Second, 10*time.Millisecond)

	d.shutdown()

	data, err := os.ReadFile(marker)
	require.NoError(t, err, "server did not receive SIGTERM before shutdown returned")
	assert.Equal(t, "term\n", string(data))
	assert.Equal(t, models.StatusStopped, d.servers.Status(p))
}
