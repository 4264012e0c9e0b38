package server

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/shell"

	"github.com/emberhearth/hearth/internal/models"
)

// DefaultBinary is looked up in PATH when no ember path is configured.
const DefaultBinary = "ember"

// Spawner launches development servers.
type Spawner interface {
	Spawn(ctx context.Context, path string, mode models.Mode) (Process, error)
}

// EmberCLI spawns `ember serve` in a project directory.
type EmberCLI struct {
	Binary      string   // empty = lookup DefaultBinary in PATH
	Port        int      // 0 = ember's default
	ExtraArgs   []string // appended to ember serve
	GracePeriod time.Duration
	Logger      *log.Logger
}

// NewEmberCLI builds a spawner from settings.
func NewEmberCLI(s *models.Settings) (*EmberCLI, error) {
	args, err := shell.Fields(s.ServeArgs, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid serve_args %q: %w", s.ServeArgs, err)
	}
	grace := s.StopGracePeriod
	if grace <= 0 {
		grace = 5 * time.Second
	}
	return &EmberCLI{
		Binary:      s.EmberPath,
		Port:        s.Port,
		ExtraArgs:   args,
		GracePeriod: grace,
		Logger:      log.WithPrefix("ember"),
	}, nil
}

// ResolveBinary returns the ember executable to run.
func (e *EmberCLI) ResolveBinary() (string, error) {
	if e.Binary != "" {
		info, err := os.Stat(e.Binary)
		if err != nil {
			return "", fmt.Errorf("ember not found at %s: %w", e.Binary, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("ember path %s is a directory", e.Binary)
		}
		return e.Binary, nil
	}
	path, err := exec.LookPath(DefaultBinary)
	if err != nil {
		return "", fmt.Errorf("ember not found in PATH: %w", err)
	}
	return path, nil
}

// ServeArgs returns the argument list for ember serve.
func (e *EmberCLI) ServeArgs(mode models.Mode) []string {
	args := []string{"serve", "--environment=" + string(mode)}
	if e.Port > 0 {
		args = append(args, "--port="+strconv.Itoa(e.Port))
	}
	return append(args, e.ExtraArgs...)
}

// Spawn starts ember serve rooted at path.
func (e *EmberCLI) Spawn(ctx context.Context, path string, mode models.Mode) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkProjectDir(path); err != nil {
		return nil, err
	}
	bin, err := e.ResolveBinary()
	if err != nil {
		return nil, err
	}

	// The server outlives ctx, so it is not bound with CommandContext.
	cmd := exec.Command(bin, e.ServeArgs(mode)...)
	cmd.Dir = path
	cmd.Env = os.Environ()

	logger := e.logger().With("path", path)
	proc, err := startProcess(cmd, e.GracePeriod, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("ember serve started", "pid", cmd.Process.Pid, "mode", mode)
	return proc, nil
}

// Build runs ember build to completion and returns its combined output.
func (e *EmberCLI) Build(ctx context.Context, path string, mode models.Mode) (string, error) {
	if err := checkProjectDir(path); err != nil {
		return "", err
	}
	bin, err := e.ResolveBinary()
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, bin, "build", "--environment="+string(mode))
	cmd.Dir = path
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("ember build failed: %w", err)
	}
	return string(out), nil
}

func (e *EmberCLI) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.WithPrefix("ember")
}

func checkProjectDir(path string) error {
	if path == "" {
		return fmt.Errorf("project has no path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("invalid project directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("invalid project directory: %s is not a directory", path)
	}
	return nil
}
