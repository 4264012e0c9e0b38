package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/emberhearth/hearth/internal/broadcast"
	"github.com/emberhearth/hearth/internal/config"
	"github.com/emberhearth/hearth/internal/daemon/project"
	"github.com/emberhearth/hearth/internal/daemon/server"
	"github.com/emberhearth/hearth/internal/daemon/tray"
	"github.com/emberhearth/hearth/internal/daemon/watcher"
	"github.com/emberhearth/hearth/internal/models"
	"github.com/emberhearth/hearth/internal/notify"
)

// daemon wires the long-lived components together. It is the only owner
// of the server controller; everything else receives it explicitly.
type daemon struct {
	settings *models.Settings
	bus      *broadcast.Bus
	notifier *notify.Dispatcher
	servers  *server.Controller
	projects *project.Registry
	watcher  *watcher.Watcher
	logger   *log.Logger

	shutdownOnce sync.Once
}

// newDaemon builds the component graph from settings.
func newDaemon(settings *models.Settings, spawner server.Spawner, sender notify.Sender) (*daemon, error) {
	bus := broadcast.New()
	notifier := notify.NewDispatcher(sender, nil, settings.Notifications)
	servers := server.New(server.Options{
		Spawner:    spawner,
		Bus:        bus,
		Dispatcher: notifier,
		Mode:       settings.Mode,
	})
	projects := project.NewRegistry(servers, bus)
	if err := projects.Load(); err != nil {
		servers.Close()
		notifier.Close()
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	d := &daemon{
		settings: settings,
		bus:      bus,
		notifier: notifier,
		servers:  servers,
		projects: projects,
		logger:   log.WithPrefix("hearthd"),
	}

	w, err := watcher.New(watcher.Handlers{
		ManifestChanged: d.refreshName,
		IndexChanged:    d.reloadProjects,
	})
	if err != nil {
		servers.Close()
		notifier.Close()
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	d.watcher = w

	bus.Subscribe(broadcast.ActiveProjectSet, d.persistActive)
	bus.Subscribe(broadcast.NoActiveProject, d.persistActive)

	return d, nil
}

// start begins watching and restores the last active project.
func (d *daemon) start() {
	if path, err := config.GlobalProjectsFile(); err == nil {
		if err := d.watcher.WatchIndex(path); err != nil {
			d.logger.Warn("failed to watch project list", "err", err)
		}
	}
	d.watchProjects()
	d.watcher.Start()

	if d.settings.ActiveProject != "" {
		if err := d.projects.SetActive(d.settings.ActiveProject); err != nil {
			d.logger.Warn("previous active project is gone", "path", d.settings.ActiveProject)
		}
	} else if list := d.projects.List(); len(list) == 1 {
		_ = d.projects.SetActive(list[0].Path)
	}
}

// shutdown stops every server and waits for the processes to exit before
// tearing down the rest. It runs once.
func (d *daemon) shutdown() {
	d.shutdownOnce.Do(func() {
		if err := d.projects.Shutdown(); err != nil {
			d.logger.Error("failed to stop servers", "err", err)
		}
		d.servers.Close()
		d.watcher.Stop()
		d.notifier.Close()
	})
}

func (d *daemon) watchProjects() {
	for _, p := range d.projects.List() {
		if p.Path == "" {
			continue
		}
		if err := d.watcher.WatchProject(p.Path); err != nil {
			d.logger.Warn("failed to watch project", "path", p.Path, "err", err)
		}
	}
}

func (d *daemon) refreshName(path string) {
	if err := d.projects.RefreshName(path); err != nil {
		d.logger.Warn("failed to refresh project name", "path", path, "err", err)
	}
}

// reloadProjects picks up edits made by `hearthd projects`.
func (d *daemon) reloadProjects() {
	before := d.projects.List()
	if err := d.projects.Load(); err != nil {
		d.logger.Warn("failed to reload projects", "err", err)
		return
	}
	after := d.projects.List()

	// Servers of projects removed from the file are stopped.
	var removed []models.Project
	for _, p := range before {
		if _, ok := d.projects.Find(p.Path); !ok {
			removed = append(removed, p)
			d.watcher.UnwatchProject(p.Path)
		}
	}
	if len(removed) > 0 {
		if err := d.servers.StopAll(removed); err != nil {
			d.logger.Warn("failed to stop removed projects", "err", err)
		}
	}
	if _, ok := d.projects.Active(); !ok && d.settings.ActiveProject != "" {
		_ = d.projects.SetActive("")
	}
	d.watchProjects()
	d.logger.Info("project list reloaded", "count", len(after))
}

func (d *daemon) persistActive(e broadcast.Event) {
	path := ""
	if e.Kind == broadcast.ActiveProjectSet {
		path = e.Project.Path
	}
	if d.settings.ActiveProject == path {
		return
	}
	d.settings.ActiveProject = path
	if err := config.SaveSettings(settingsPath, d.settings); err != nil {
		d.logger.Warn("failed to save active project", "err", err)
	}
}

// tray.App

func (d *daemon) ActiveProject() (models.Project, bool) { return d.projects.Active() }

func (d *daemon) ServerStatus(p models.Project) models.ServerStatus { return d.servers.Status(p) }

func (d *daemon) ServerURL(p models.Project) string { return d.servers.URL(p) }

func (d *daemon) ToggleServer() error { return d.projects.ToggleActive() }

// tui.Backend

func (d *daemon) Mode() models.Mode { return d.settings.Mode }

func (d *daemon) Projects() []models.Project { return d.projects.List() }

func (d *daemon) ServerOutput(p models.Project) []string { return d.servers.Output(p) }

func (d *daemon) Toggle(p models.Project) error { return d.servers.Toggle(p) }

func (d *daemon) Activate(p models.Project) error { return d.projects.SetActive(p.Path) }

// RequestShutdown sends SIGINT to the current process to trigger a graceful shutdown.
func (d *daemon) RequestShutdown() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(syscall.SIGINT)
}

// runDaemon runs hearthd until a signal or a tray quit.
func runDaemon(settings *models.Settings, foreground bool) error {
	logger := log.WithPrefix("hearthd")

	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}
	withTray := !foreground && !settings.HideStatusBarItem
	if err := config.ClaimDaemon(models.NewDaemonInfo(os.Getpid(), models.HostDaemon, withTray, settings.Mode)); err != nil {
		return err
	}
	defer func() {
		if err := config.ReleaseDaemon(os.Getpid()); err != nil {
			logger.Warn("failed to remove daemon info", "err", err)
		}
	}()

	ember, err := server.NewEmberCLI(settings)
	if err != nil {
		return err
	}
	d, err := newDaemon(settings, ember, &notify.Desktop{})
	if err != nil {
		return err
	}

	if !withTray {
		logger.Info("running without status bar item", "pid", os.Getpid())
		d.start()
		waitForSignal(logger)
		d.shutdown()
		return nil
	}

	logger.Info("running with status bar item", "pid", os.Getpid())
	// tray.Run must occupy the main goroutine on macOS (Cocoa requirement).
	tray.Run(d, d.bus, func() {
		d.start()
		go func() {
			waitForSignal(logger)
			tray.Quit()
		}()
	}, d.shutdown)
	return nil
}

func waitForSignal(logger *log.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	signal.Stop(sigCh)
	logger.Info("received signal, shutting down", "signal", sig)
}
