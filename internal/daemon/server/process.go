package server

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/creack/pty"
)

const maxScrollback = 500

// servingPattern matches ember-cli's readiness line, e.g.
// "Serving on http://localhost:4200/".
var servingPattern = regexp.MustCompile(`Serving on (https?://\S+)`)

// Process is a handle to a spawned development server.
type Process interface {
	// Ready yields the server URL once the server is listening.
	Ready() <-chan string
	// Done is closed when the process exits.
	Done() <-chan struct{}
	// ExitErr returns the exit error once Done is closed.
	ExitErr() error
	// Terminate asks the process to exit. It does not block and is safe
	// to call repeatedly or after the process has exited.
	Terminate()
	// Output returns the most recent output lines, ANSI stripped.
	Output() []string
}

// ptyProcess runs a command under a PTY and watches its output.
type ptyProcess struct {
	cmd     *exec.Cmd
	ptyFile *os.File
	grace   time.Duration
	logger  *log.Logger

	ready     chan string
	readyOnce sync.Once
	done      chan struct{}
	exitErr   error

	terminateOnce sync.Once
	cleanupOnce   sync.Once

	scrollMu   sync.RWMutex
	scrollback []string
	lineBuffer strings.Builder
}

// startProcess starts cmd in a PTY. The PTY makes the child a session
// leader, so its pid doubles as the process group id.
func startProcess(cmd *exec.Cmd, grace time.Duration, logger *log.Logger) (*ptyProcess, error) {
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 40, Cols: 160})
	if err != nil {
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	p := &ptyProcess{
		cmd:        cmd,
		ptyFile:    ptmx,
		grace:      grace,
		logger:     logger,
		ready:      make(chan string, 1),
		done:       make(chan struct{}),
		scrollback: make([]string, 0, 64),
	}

	go p.readLoop()

	return p, nil
}

// readLoop reads the PTY until the child goes away, then reaps it.
func (p *ptyProcess) readLoop() {
	buf := make([]byte, 32*1024)
	for {
		n, err := p.ptyFile.Read(buf)
		if n > 0 {
			p.consume(buf[:n])
		}
		if err != nil {
			break
		}
	}
	p.flushLine()

	p.exitErr = p.cmd.Wait()
	close(p.done)
	p.cleanup()
}

// consume splits data into lines, keeping the trailing partial line.
func (p *ptyProcess) consume(data []byte) {
	p.lineBuffer.Write(data)
	content := p.lineBuffer.String()
	lines := strings.Split(content, "\n")

	p.lineBuffer.Reset()
	p.lineBuffer.WriteString(lines[len(lines)-1])

	for _, line := range lines[:len(lines)-1] {
		p.handleLine(line)
	}
}

func (p *ptyProcess) flushLine() {
	if p.lineBuffer.Len() > 0 {
		p.handleLine(p.lineBuffer.String())
		p.lineBuffer.Reset()
	}
}

func (p *ptyProcess) handleLine(raw string) {
	line := strings.TrimSpace(ansi.Strip(strings.TrimRight(raw, "\r")))
	if line == "" {
		return
	}
	p.appendScrollback(line)
	p.logger.Debug(line)

	if url, ok := detectServing(line); ok {
		p.readyOnce.Do(func() {
			p.ready <- url
		})
	}
}

// detectServing extracts the server URL from an ember-cli output line.
func detectServing(line string) (string, bool) {
	m := servingPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (p *ptyProcess) appendScrollback(line string) {
	p.scrollMu.Lock()
	defer p.scrollMu.Unlock()

	p.scrollback = append(p.scrollback, line)
	if over := len(p.scrollback) - maxScrollback; over > 0 {
		p.scrollback = append(p.scrollback[:0], p.scrollback[over:]...)
	}
}

func (p *ptyProcess) Ready() <-chan string  { return p.ready }
func (p *ptyProcess) Done() <-chan struct{} { return p.done }

func (p *ptyProcess) ExitErr() error {
	select {
	case <-p.done:
		return p.exitErr
	default:
		return nil
	}
}

// Output returns a copy of the scrollback buffer.
func (p *ptyProcess) Output() []string {
	p.scrollMu.RLock()
	defer p.scrollMu.RUnlock()

	out := make([]string, len(p.scrollback))
	copy(out, p.scrollback)
	return out
}

// Terminate sends SIGTERM to the process group and escalates to SIGKILL
// after the grace period.
func (p *ptyProcess) Terminate() {
	p.terminateOnce.Do(func() {
		go p.terminate()
	})
}

func (p *ptyProcess) terminate() {
	if !p.isRunning() {
		return
	}

	_ = p.signal(syscall.SIGTERM)

	select {
	case <-p.done:
		return
	case <-time.After(p.grace):
	}

	p.logger.Warn("server ignored SIGTERM, killing", "pid", p.cmd.Process.Pid, "grace", p.grace)
	_ = p.signal(syscall.SIGKILL)
	<-p.done
}

// signal delivers sig to the whole process group so node workers spawned by
// ember go down with it.
func (p *ptyProcess) signal(sig syscall.Signal) error {
	if p.cmd.Process == nil {
		return nil
	}
	if err := syscall.Kill(-p.cmd.Process.Pid, sig); err != nil {
		return p.cmd.Process.Signal(sig)
	}
	return nil
}

func (p *ptyProcess) isRunning() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// cleanup releases the PTY. Safe to call multiple times.
func (p *ptyProcess) cleanup() {
	p.cleanupOnce.Do(func() {
		_ = p.ptyFile.Close()
	})
}
