package server

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberhearth/hearth/internal/broadcast"
	"github.com/emberhearth/hearth/internal/models"
)

const testURL = "http://localhost:4200/"

func newTestController(t *testing.T, spawner Spawner) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	bus := broadcast.New()
	bus.SubscribeAll(rec.handle)

	c := New(Options{Spawner: spawner, Bus: bus, Dispatcher: rec})
	t.Cleanup(c.Close)
	return c, rec
}

func waitStatus(t *testing.T, c *Controller, p models.Project, want models.ServerStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.Status(p) == want
	}, 2*time.Second, 5*time.Millisecond, "expected status %s, have %s", want, c.Status(p))
}

func startRunning(t *testing.T, c *Controller, spawner *fakeSpawner, p models.Project) *fakeProcess {
	t.Helper()
	require.NoError(t, c.Start(p))
	proc := spawner.last()
	require.NotNil(t, proc)
	proc.ready <- testURL
	waitStatus(t, c, p, models.StatusRunning)
	return proc
}

func TestUnknownProjectIsStopped(t *testing.T) {
	c, _ := newTestController(t, &fakeSpawner{})
	assert.Equal(t, models.StatusStopped, c.Status(models.NewProject("", "/tmp/app")))
	assert.Empty(t, c.URL(models.NewProject("", "/tmp/app")))
}

func TestStartBootsThenRunsOnReadiness(t *testing.T) {
	spawner := &fakeSpawner{}
	c, rec := newTestController(t, spawner)
	p := models.NewProject("my-app", "/tmp/app")

	require.NoError(t, c.Start(p))
	assert.Equal(t, models.StatusBooting, c.Status(p))
	assert.Equal(t, []broadcast.Kind{broadcast.ServerStarting}, rec.kinds())

	spawner.last().ready <- testURL
	waitStatus(t, c, p, models.StatusRunning)

	assert.Equal(t, []broadcast.Kind{broadcast.ServerStarting, broadcast.ServerStarted}, rec.kinds())
	started := rec.last()
	assert.Equal(t, testURL, started.URL)
	assert.Equal(t, "my-app", started.Project.Name)
	assert.Equal(t, testURL, c.URL(p))
}

func TestStartWhileBootingIsRejected(t *testing.T) {
	spawner := &fakeSpawner{}
	c, rec := newTestController(t, spawner)
	p := models.NewProject("my-app", "/tmp/app")

	require.NoError(t, c.Start(p))
	first := spawner.last()

	err := c.Start(p)

	assert.ErrorIs(t, err, ErrAlreadyActive)
	assert.Equal(t, 1, spawner.count())
	assert.Same(t, first, spawner.last())
	assert.Equal(t, models.StatusBooting, c.Status(p))
	assert.Equal(t, []broadcast.Kind{broadcast.ServerStarting}, rec.kinds())
}

func TestStartWhileRunningIsRejected(t *testing.T) {
	spawner := &fakeSpawner{}
	c, rec := newTestController(t, spawner)
	p := models.NewProject("my-app", "/tmp/app")
	proc := startRunning(t, c, spawner, p)
	rec.reset()

	err := c.Start(p)

	assert.ErrorIs(t, err, ErrAlreadyActive)
	assert.Equal(t, 1, spawner.count())
	assert.Zero(t, proc.terminated.Load())
	assert.Equal(t, models.StatusRunning, c.Status(p))
	assert.Empty(t, rec.kinds())
}

func TestSpawnFailureErrors(t *testing.T) {
	spawner := &fakeSpawner{}
	spawner.setErr(errors.New("ember not found"))
	c, rec := newTestController(t, spawner)
	p := models.NewProject("my-app", "/tmp/app")

	require.NoError(t, c.Start(p))

	assert.Equal(t, models.StatusErrored, c.Status(p))
	assert.Equal(t, []broadcast.Kind{broadcast.ServerStarting, broadcast.ServerStoppedWithError}, rec.kinds())
	assert.Equal(t, []string{"ember not found"}, c.Output(p))
}

func TestStartWithInvalidDirectory(t *testing.T) {
	c, rec := newTestController(t, &EmberCLI{Binary: "/bin/true"})
	p := models.NewProject("gone", filepath.Join(t.TempDir(), "missing"))

	require.NoError(t, c.Start(p))

	assert.Equal(t, models.StatusErrored, c.Status(p))
	assert.Equal(t, []broadcast.Kind{broadcast.ServerStarting, broadcast.ServerStoppedWithError}, rec.kinds())
	require.Len(t, c.Output(p), 1)
	assert.Contains(t, c.Output(p)[0], "invalid project directory")
}

func TestStopFromErroredKeepsError(t *testing.T) {
	spawner := &fakeSpawner{}
	spawner.setErr(errors.New("boom"))
	c, rec := newTestController(t, spawner)
	p := models.NewProject("my-app", "/tmp/app")
	require.NoError(t, c.Start(p))
	rec.reset()

	require.NoError(t, c.Stop(p))

	assert.Equal(t, models.StatusErrored, c.Status(p))
	assert.Empty(t, rec.kinds())
}

func TestStopUnknownProjectIsNoop(t *testing.T) {
	c, rec := newTestController(t, &fakeSpawner{})
	require.NoError(t, c.Stop(models.NewProject("", "/tmp/app")))
	assert.Empty(t, rec.kinds())
}

func TestStopWhileBooting(t *testing.T) {
	spawner := &fakeSpawner{}
	c, rec := newTestController(t, spawner)
	p := models.NewProject("my-app", "/tmp/app")
	require.NoError(t, c.Start(p))
	proc := spawner.last()

	require.NoError(t, c.Stop(p))

	assert.Equal(t, models.StatusStopped, c.Status(p))
	assert.EqualValues(t, 1, proc.terminated.Load())
	assert.Equal(t, []broadcast.Kind{broadcast.ServerStarting, broadcast.ServerStopped}, rec.kinds())

	// A late readiness signal from the terminated process is ignored.
	proc.ready <- testURL
	assert.Never(t, func() bool {
		return c.Status(p) != models.StatusStopped
	}, 100*time.Millisecond, 10*time.Millisecond)
	assert.Len(t, rec.kinds(), 2)
}

func TestStopWhileRunning(t *testing.T) {
	spawner := &fakeSpawner{}
	c, rec := newTestController(t, spawner)
	p := models.NewProject("my-app", "/tmp/app")
	proc := startRunning(t, c, spawner, p)
	rec.reset()

	require.NoError(t, c.Stop(p))

	assert.Equal(t, models.StatusStopped, c.Status(p))
	assert.Empty(t, c.URL(p))
	assert.EqualValues(t, 1, proc.terminated.Load())
	assert.Equal(t, []broadcast.Kind{broadcast.ServerStopped}, rec.kinds())
}

func TestToggle(t *testing.T) {
	spawner := &fakeSpawner{}
	c, rec := newTestController(t, spawner)
	p := models.NewProject("my-app", "/tmp/app")

	require.NoError(t, c.Toggle(p))
	assert.Equal(t, models.StatusBooting, c.Status(p))
	assert.Equal(t, 1, spawner.count())

	require.NoError(t, c.Toggle(p))
	assert.Equal(t, models.StatusStopped, c.Status(p))
	assert.EqualValues(t, 1, spawner.last().terminated.Load())

	require.NoError(t, c.Toggle(p))
	assert.Equal(t, models.StatusBooting, c.Status(p))
	assert.Equal(t, 2, spawner.count())

	assert.Equal(t, []broadcast.Kind{
		broadcast.ServerStarting,
		broadcast.ServerStopped,
		broadcast.ServerStarting,
	}, rec.kinds())
}

func TestToggleRestartsErroredServer(t *testing.T) {
	spawner := &fakeSpawner{}
	spawner.setErr(errors.New("boom"))
	c, _ := newTestController(t, spawner)
	p := models.NewProject("my-app", "/tmp/app")
	require.NoError(t, c.Start(p))
	require.Equal(t, models.StatusErrored, c.Status(p))

	spawner.setErr(nil)
	require.NoError(t, c.Toggle(p))

	assert.Equal(t, models.StatusBooting, c.Status(p))
	assert.Empty(t, c.Output(p))
}

func TestStopAllOnlyStopsActiveServers(t *testing.T) {
	spawner := &fakeSpawner{}
	c, rec := newTestController(t, spawner)
	running := models.NewProject("running", "/tmp/running")
	idle := models.NewProject("idle", "/tmp/idle")
	unknown := models.NewProject("unknown", "/tmp/unknown")

	proc := startRunning(t, c, spawner, running)
	require.NoError(t, c.Stop(idle))
	rec.reset()

	require.NoError(t, c.StopAll([]models.Project{running, idle, unknown}))

	assert.Equal(t, []broadcast.Kind{broadcast.ServerStopped}, rec.kinds())
	assert.Equal(t, "running", rec.last().Project.Name)
	assert.EqualValues(t, 1, proc.terminated.Load())
	assert.Equal(t, 1, spawner.count())
	for _, p := range []models.Project{running, idle, unknown} {
		assert.Equal(t, models.StatusStopped, c.Status(p))
	}
}

func TestStopAllWaitsForExit(t *testing.T) {
	spawner := &fakeSpawner{}
	c, _ := newTestController(t, spawner)
	p := models.NewProject("my-app", "/tmp/app")

	proc := startRunning(t, c, spawner, p)
	proc.lingering.Store(true)

	returned := make(chan error, 1)
	go func() { returned <- c.StopAll([]models.Project{p}) }()

	require.Eventually(t, func() bool {
		return proc.terminated.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return len(returned) > 0 }, 100*time.Millisecond, 5*time.Millisecond)

	// The loop stays responsive while StopAll waits.
	assert.Equal(t, models.StatusStopped, c.Status(p))
	assert.NoError(t, c.Stop(p))

	proc.exit(nil)
	select {
	case err := <-returned:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("StopAll did not return after the process exited")
	}
}

func TestExitWhileBootingErrors(t *testing.T) {
	spawner := &fakeSpawner{}
	c, rec := newTestController(t, spawner)
	p := models.NewProject("my-app", "/tmp/app")
	require.NoError(t, c.Start(p))

	proc := spawner.last()
	proc.mu.Lock()
	proc.output = []string{"Error: Cannot find module 'ember-source'"}
	proc.mu.Unlock()
	proc.exit(nil)

	waitStatus(t, c, p, models.StatusErrored)
	assert.Equal(t, []broadcast.Kind{broadcast.ServerStarting, broadcast.ServerStoppedWithError}, rec.kinds())
	assert.Equal(t, []string{"Error: Cannot find module 'ember-source'"}, c.Output(p))
}

func TestExitWhileRunning(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want models.ServerStatus
		kind broadcast.Kind
	}{
		{name: "clean exit", err: nil, want: models.StatusStopped, kind: broadcast.ServerStopped},
		{name: "crash", err: errors.New("exit status 1"), want: models.StatusErrored, kind: broadcast.ServerStoppedWithError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spawner := &fakeSpawner{}
			c, rec := newTestController(t, spawner)
			p := models.NewProject("my-app", "/tmp/app")
			proc := startRunning(t, c, spawner, p)
			rec.reset()

			proc.exit(tt.err)

			waitStatus(t, c, p, tt.want)
			assert.Equal(t, []broadcast.Kind{tt.kind}, rec.kinds())
			assert.Empty(t, c.URL(p))
		})
	}
}

func TestNotificationsFollowPublish(t *testing.T) {
	spawner := &fakeSpawner{}
	c, rec := newTestController(t, spawner)
	p := models.NewProject("my-app", "/tmp/app")

	startRunning(t, c, spawner, p)
	require.NoError(t, c.Stop(p))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{
		"publish:serverStarting",
		"dispatch:serverStarting",
		"publish:serverStarted",
		"dispatch:serverStarted",
		"publish:serverStopped",
		"dispatch:serverStopped",
	}, rec.sequence)
}

func TestProjectsAreIndependent(t *testing.T) {
	spawner := &fakeSpawner{}
	c, _ := newTestController(t, spawner)
	a := models.NewProject("a", "/tmp/a")
	b := models.NewProject("b", "/tmp/b")

	startRunning(t, c, spawner, a)
	require.NoError(t, c.Start(b))

	assert.Equal(t, models.StatusRunning, c.Status(a))
	assert.Equal(t, models.StatusBooting, c.Status(b))
	assert.Equal(t, []string{"/tmp/a", "/tmp/b"}, spawner.paths)
}

func TestClosedController(t *testing.T) {
	c, _ := newTestController(t, &fakeSpawner{})
	c.Close()
	c.Close()

	assert.ErrorIs(t, c.Start(models.NewProject("", "/tmp/app")), ErrClosed)
	assert.ErrorIs(t, c.Stop(models.NewProject("", "/tmp/app")), ErrClosed)
}

type panickingSpawner struct{}

func (panickingSpawner) Spawn(_ context.Context, _ string, _ models.Mode) (Process, error) {
	panic("spawner bug")
}

func TestSpawnerPanicErrors(t *testing.T) {
	c, rec := newTestController(t, panickingSpawner{})
	p := models.NewProject("my-app", "/tmp/app")

	require.NoError(t, c.Start(p))

	assert.Equal(t, models.StatusErrored, c.Status(p))
	assert.Equal(t, []broadcast.Kind{broadcast.ServerStarting, broadcast.ServerStoppedWithError}, rec.kinds())
}
