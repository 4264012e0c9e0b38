// Package server supervises the per-project development servers.
package server

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sasha-s/go-deadlock"

	"github.com/emberhearth/hearth/internal/broadcast"
	"github.com/emberhearth/hearth/internal/models"
)

var (
	// ErrAlreadyActive is returned by Start while a server is booting or running.
	ErrAlreadyActive = errors.New("server is already booting or running")
	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("server controller is closed")
)

// Dispatcher turns status events into user-facing notifications.
type Dispatcher interface {
	Dispatch(e broadcast.Event)
}

// Options configures a Controller.
type Options struct {
	Spawner    Spawner
	Bus        *broadcast.Bus
	Dispatcher Dispatcher // optional
	Mode       models.Mode
	Logger     *log.Logger
}

// serverState is owned by the control loop.
type serverState struct {
	project models.Project
	status  models.ServerStatus
	proc    Process
	url     string
	output  []string // output of the last exited process
}

type snapshot struct {
	status models.ServerStatus
	url    string
}

// Controller drives one development server per project.
//
// Every state mutation runs on a single control loop goroutine. Public
// methods enqueue work onto the loop and wait for it; process readiness and
// exit are posted to the loop by watcher goroutines. Event handlers run on
// the loop and must not call back into the controller synchronously.
type Controller struct {
	spawner    Spawner
	bus        *broadcast.Bus
	dispatcher Dispatcher
	mode       models.Mode
	logger     *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	cmds      chan func()
	done      chan struct{}
	closeOnce sync.Once

	servers map[string]*serverState // loop only

	snapMu deadlock.RWMutex
	snaps  map[string]snapshot
}

// New creates a controller and starts its control loop.
func New(opts Options) *Controller {
	mode := opts.Mode
	if mode == "" {
		mode = models.ModeDevelopment
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.WithPrefix("server")
	}
	bus := opts.Bus
	if bus == nil {
		bus = broadcast.New()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		spawner:    opts.Spawner,
		bus:        bus,
		dispatcher: opts.Dispatcher,
		mode:       mode,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		cmds:       make(chan func()),
		done:       make(chan struct{}),
		servers:    make(map[string]*serverState),
		snaps:      make(map[string]snapshot),
	}

	go c.loop()

	return c
}

func (c *Controller) loop() {
	for {
		select {
		case fn := <-c.cmds:
			fn()
		case <-c.done:
			return
		}
	}
}

// do runs fn on the control loop and waits for it to finish.
func (c *Controller) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case c.cmds <- func() {
		defer close(finished)
		fn()
	}:
	case <-c.done:
		return ErrClosed
	}
	<-finished
	return nil
}

// post enqueues fn without waiting for it to run.
func (c *Controller) post(fn func()) {
	select {
	case c.cmds <- fn:
	case <-c.done:
	}
}

// Start boots the server for p. It is only valid from Stopped or Errored;
// otherwise ErrAlreadyActive is returned and no process is spawned. A spawn
// failure moves the project to Errored and is not returned.
func (c *Controller) Start(p models.Project) error {
	var err error
	if doErr := c.do(func() { err = c.start(p) }); doErr != nil {
		return doErr
	}
	return err
}

// Stop terminates the server for p, if any. It does not wait for the exit.
func (c *Controller) Stop(p models.Project) error {
	return c.do(func() { c.stop(p) })
}

// Toggle starts a stopped or errored server and stops any other.
func (c *Controller) Toggle(p models.Project) error {
	var err error
	doErr := c.do(func() {
		if c.stateFor(p).status.CanStart() {
			err = c.start(p)
		} else {
			c.stop(p)
		}
	})
	if doErr != nil {
		return doErr
	}
	return err
}

// StopAll stops every given project and blocks until their processes have
// exited, escalation included. Projects without a server are left alone.
func (c *Controller) StopAll(projects []models.Project) error {
	var stopping []Process
	err := c.do(func() {
		for _, p := range projects {
			if proc := c.stop(p); proc != nil {
				stopping = append(stopping, proc)
			}
		}
	})
	// Waiting happens off the loop, which still has to reap the exits.
	for _, proc := range stopping {
		<-proc.Done()
	}
	if len(stopping) > 0 {
		c.logger.Info("servers stopped", "count", len(stopping))
	}
	return err
}

// Status returns the current status of p. Safe from any goroutine.
func (c *Controller) Status(p models.Project) models.ServerStatus {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	return c.snaps[p.Path].status
}

// URL returns the address p's server listens on, or "" if it is not running.
func (c *Controller) URL(p models.Project) string {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	return c.snaps[p.Path].url
}

// Output returns the recent output of p's current or last server process.
func (c *Controller) Output(p models.Project) []string {
	var out []string
	_ = c.do(func() {
		s, ok := c.servers[p.Path]
		if !ok {
			return
		}
		if s.proc != nil {
			out = s.proc.Output()
			return
		}
		out = append(out, s.output...)
	})
	return out
}

// Close stops the control loop. Running servers are not terminated; call
// StopAll first.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.done)
	})
}

// stateFor returns the loop-owned state for p, creating it as Stopped.
func (c *Controller) stateFor(p models.Project) *serverState {
	s, ok := c.servers[p.Path]
	if !ok {
		s = &serverState{project: p, status: models.StatusStopped}
		c.servers[p.Path] = s
	}
	if p.Name != "" {
		s.project.Name = p.Name
	}
	return s
}

func (c *Controller) start(p models.Project) error {
	s := c.stateFor(p)
	if !s.status.CanStart() {
		c.logger.Debug("start rejected", "project", p.DisplayName(), "status", s.status)
		return ErrAlreadyActive
	}

	s.output = nil
	c.transition(s, models.StatusBooting)

	proc, err := c.spawn(p)
	if err != nil {
		c.logger.Error("failed to start server", "project", p.DisplayName(), "err", err)
		s.output = []string{err.Error()}
		c.transition(s, models.StatusErrored)
		return nil
	}

	s.proc = proc
	go c.watch(p.Path, proc)
	return nil
}

func (c *Controller) spawn(p models.Project) (proc Process, err error) {
	if c.spawner == nil {
		return nil, errors.New("no spawner configured")
	}
	defer func() {
		if r := recover(); r != nil {
			proc, err = nil, errors.New("spawner panicked")
			c.logger.Error("spawner panicked", "panic", r)
		}
	}()
	proc, err = c.spawner.Spawn(c.ctx, p.Path, c.mode)
	if err == nil && proc == nil {
		err = errors.New("spawner returned no process")
	}
	return proc, err
}

// stop terminates p's process, if any, and returns it so callers can wait
// for the exit.
func (c *Controller) stop(p models.Project) Process {
	s, ok := c.servers[p.Path]
	if !ok {
		return nil
	}

	proc := s.proc
	if proc != nil {
		proc.Terminate()
		s.proc = nil
	}
	s.url = ""

	// An errored server keeps its error until the next start.
	if s.status == models.StatusErrored || s.status == models.StatusStopped {
		c.updateSnapshot(s)
		return proc
	}
	c.transition(s, models.StatusStopped)
	return proc
}

// watch forwards readiness and exit of proc onto the control loop.
func (c *Controller) watch(path string, proc Process) {
	select {
	case url := <-proc.Ready():
		c.post(func() { c.handleReady(path, proc, url) })
	case <-proc.Done():
		c.post(func() { c.handleExit(path, proc) })
		return
	case <-c.done:
		return
	}

	select {
	case <-proc.Done():
		c.post(func() { c.handleExit(path, proc) })
	case <-c.done:
	}
}

func (c *Controller) handleReady(path string, proc Process, url string) {
	s, ok := c.servers[path]
	if !ok || s.proc != proc || s.status != models.StatusBooting {
		c.logger.Debug("ignoring readiness of stale process", "path", path)
		return
	}
	s.url = url
	c.transition(s, models.StatusRunning)
}

func (c *Controller) handleExit(path string, proc Process) {
	s, ok := c.servers[path]
	if !ok || s.proc != proc {
		c.logger.Debug("reaped process no longer owned", "path", path)
		return
	}

	exitErr := proc.ExitErr()
	s.proc = nil
	s.url = ""
	s.output = proc.Output()

	switch s.status {
	case models.StatusBooting:
		c.logger.Error("server exited before it was ready", "project", s.project.DisplayName(), "err", exitErr)
		c.transition(s, models.StatusErrored)
	case models.StatusRunning:
		if exitErr != nil {
			c.logger.Error("server exited", "project", s.project.DisplayName(), "err", exitErr)
			c.transition(s, models.StatusErrored)
		} else {
			c.transition(s, models.StatusStopped)
		}
	}
}

// validTransitions lists the allowed status changes.
var validTransitions = map[models.ServerStatus][]models.ServerStatus{
	models.StatusStopped: {models.StatusBooting},
	models.StatusErrored: {models.StatusBooting},
	models.StatusBooting: {models.StatusRunning, models.StatusStopped, models.StatusErrored},
	models.StatusRunning: {models.StatusStopped, models.StatusErrored},
}

func canTransition(from, to models.ServerStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// transition validates and applies a status change, publishes exactly one
// event for it and then dispatches the notification.
func (c *Controller) transition(s *serverState, to models.ServerStatus) {
	from := s.status
	if !canTransition(from, to) {
		c.logger.Warn("invalid transition", "project", s.project.DisplayName(), "from", from, "to", to)
		return
	}

	s.status = to
	c.updateSnapshot(s)

	c.logger.Info("server status changed", "project", s.project.DisplayName(), "from", from, "to", to)

	e := broadcast.Event{
		Kind:    broadcast.KindForStatus(to),
		Project: s.project,
		Status:  to,
		URL:     s.url,
	}
	c.bus.Publish(e)
	if c.dispatcher != nil {
		c.dispatcher.Dispatch(e)
	}
}

func (c *Controller) updateSnapshot(s *serverState) {
	c.snapMu.Lock()
	defer c.snapMu.Unlock()
	c.snaps[s.project.Path] = snapshot{status: s.status, url: s.url}
}
