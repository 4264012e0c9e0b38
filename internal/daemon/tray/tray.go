package tray

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/getlantern/systray"

	"github.com/emberhearth/hearth/internal/broadcast"
	"github.com/emberhearth/hearth/internal/notify"
)

var (
	app     App
	bus     *broadcast.Bus
	onStart func()
	onExit  func()
	logger  *log.Logger

	renderMu    sync.Mutex
	projectItem *systray.MenuItem
	toggleItem  *systray.MenuItem
	openItem    *systray.MenuItem
	quitItem    *systray.MenuItem
)

// Run starts the status bar item. This blocks the calling goroutine, which
// must be main on macOS. onStartFn runs once the tray is ready; onExitFn
// runs when it exits.
func Run(a App, b *broadcast.Bus, onStartFn, onExitFn func()) {
	app = a
	bus = b
	logger = log.WithPrefix("tray")
	onStart = onStartFn
	onExit = onExitFn
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTemplateIcon(iconIdle, iconIdle)
	systray.SetTooltip("Hearth")

	projectItem = systray.AddMenuItem("No active project", "")
	projectItem.Disable()

	systray.AddSeparator()

	toggleItem = systray.AddMenuItem("Run Server", "Start or stop the development server")
	openItem = systray.AddMenuItem("Open in Browser", "Open the running server")

	systray.AddSeparator()

	quitItem = systray.AddMenuItem("Quit", "Stop all servers and quit Hearth")

	if bus != nil {
		bus.SubscribeAll(handleEvent)
	}

	if onStart != nil {
		onStart()
	}

	render()

	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

// handleEvent re-renders on any status or selection change. It runs on the
// publisher's goroutine, so it only reads state snapshots.
func handleEvent(e broadcast.Event) {
	logger.Debug("event", "kind", e.Kind, "project", e.Project.DisplayName())
	render()
}

func render() {
	if app == nil || toggleItem == nil {
		return
	}

	renderMu.Lock()
	defer renderMu.Unlock()

	p, ok := app.ActiveProject()
	v := viewFor(p, ok, app.ServerStatus(p))

	systray.SetTemplateIcon(v.Icon, v.Icon)
	systray.SetTooltip(v.Tooltip)
	projectItem.SetTitle(v.ProjectTitle)

	toggleItem.SetTitle(v.ToggleTitle)
	setEnabled(toggleItem, v.ToggleEnabled)

	if ok {
		toggleItem.Show()
		openItem.Show()
	} else {
		toggleItem.Hide()
		openItem.Hide()
	}
	setEnabled(openItem, v.OpenEnabled)
}

func setEnabled(item *systray.MenuItem, enabled bool) {
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}

func handleClicks() {
	for {
		select {
		case <-toggleItem.ClickedCh:
			if err := app.ToggleServer(); err != nil {
				logger.Warn("toggle server failed", "err", err)
			}

		case <-openItem.ClickedCh:
			p, ok := app.ActiveProject()
			if !ok {
				continue
			}
			if url := app.ServerURL(p); url != "" {
				if err := notify.OpenURL(url); err != nil {
					logger.Warn("open in browser failed", "err", err)
				}
			}

		case <-quitItem.ClickedCh:
			app.RequestShutdown()
			return
		}
	}
}
