package server

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/emberhearth/hearth/internal/broadcast"
	"github.com/emberhearth/hearth/internal/models"
)

type fakeProcess struct {
	ready      chan string
	done       chan struct{}
	doneOnce   sync.Once
	terminated atomic.Int32
	// lingering processes keep running after Terminate until exit is called.
	lingering atomic.Bool

	mu      sync.Mutex
	exitErr error
	output  []string
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{
		ready: make(chan string, 1),
		done:  make(chan struct{}),
	}
}

func (p *fakeProcess) Ready() <-chan string  { return p.ready }
func (p *fakeProcess) Done() <-chan struct{} { return p.done }

func (p *fakeProcess) ExitErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitErr
}

func (p *fakeProcess) Terminate() {
	p.terminated.Add(1)
	if !p.lingering.Load() {
		p.exit(nil)
	}
}

func (p *fakeProcess) Output() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.output...)
}

func (p *fakeProcess) exit(err error) {
	p.doneOnce.Do(func() {
		p.mu.Lock()
		p.exitErr = err
		p.mu.Unlock()
		close(p.done)
	})
}

type fakeSpawner struct {
	mu    sync.Mutex
	err   error
	procs []*fakeProcess
	paths []string
}

func (s *fakeSpawner) Spawn(_ context.Context, path string, _ models.Mode) (Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
	if s.err != nil {
		return nil, s.err
	}
	p := newFakeProcess()
	s.procs = append(s.procs, p)
	return p, nil
}

func (s *fakeSpawner) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.paths)
}

func (s *fakeSpawner) last() *fakeProcess {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.procs) == 0 {
		return nil
	}
	return s.procs[len(s.procs)-1]
}

func (s *fakeSpawner) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// recorder collects bus events and dispatched notifications in one log.
type recorder struct {
	mu       sync.Mutex
	events   []broadcast.Event
	sequence []string
}

func (r *recorder) handle(e broadcast.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	r.sequence = append(r.sequence, "publish:"+e.Kind.String())
}

func (r *recorder) Dispatch(e broadcast.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence = append(r.sequence, "dispatch:"+e.Kind.String())
}

func (r *recorder) kinds() []broadcast.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]broadcast.Kind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recorder) last() broadcast.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	r.sequence = nil
}
