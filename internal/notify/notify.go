// Package notify turns server status events into desktop notifications.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"

	"github.com/emberhearth/hearth/internal/broadcast"
)

// AppName is the notification title prefix.
const AppName = "Hearth"

// Notification is a single desktop alert.
type Notification struct {
	Title   string
	Message string
	// ActionURL is opened when the user acts on the notification.
	ActionURL string
}

// Sender delivers notifications.
type Sender interface {
	Send(n Notification) error
}

// FocusFunc reports whether the application currently has input focus.
type FocusFunc func() bool

// queueSize bounds notifications waiting for the sender.
const queueSize = 16

// Dispatcher decides which status events produce a notification. Accepted
// notifications are delivered in order by a worker goroutine, so Dispatch
// never waits on the OS notification service.
type Dispatcher struct {
	sender  Sender
	focused FocusFunc
	enabled bool
	logger  *log.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Notification
	done   chan struct{}
}

// NewDispatcher creates a dispatcher and starts its delivery worker. A nil
// focus func means the app never has focus, which is the case for the
// headless daemon. Call Close to flush pending notifications.
func NewDispatcher(sender Sender, focused FocusFunc, enabled bool) *Dispatcher {
	if focused == nil {
		focused = func() bool { return false }
	}
	d := &Dispatcher{
		sender:  sender,
		focused: focused,
		enabled: enabled,
		logger:  log.WithPrefix("notify"),
		queue:   make(chan Notification, queueSize),
		done:    make(chan struct{}),
	}
	go d.deliver()
	return d
}

// Dispatch queues the notification for e, if any. Booting and non-server
// events are silent, and nothing is sent while the app has focus.
func (d *Dispatcher) Dispatch(e broadcast.Event) {
	n, ok := ForEvent(e)
	if !ok || !d.enabled || d.sender == nil {
		return
	}
	if d.focused() {
		d.logger.Debug("app focused, skipping notification", "event", e.Kind)
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- n:
	default:
		d.logger.Warn("notification queue full, dropping", "event", e.Kind)
	}
}

// Close stops accepting notifications and waits for queued ones to be sent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) deliver() {
	defer close(d.done)
	for n := range d.queue {
		if err := d.sender.Send(n); err != nil {
			d.logger.Warn("failed to send notification", "message", n.Message, "err", err)
		}
	}
}

// ForEvent builds the notification for e. ok is false for events that are
// never announced.
func ForEvent(e broadcast.Event) (n Notification, ok bool) {
	name := e.Project.DisplayName()
	switch e.Kind {
	case broadcast.ServerStarted:
		n = Notification{
			Title:     AppName,
			Message:   fmt.Sprintf("Server for %s is running", name),
			ActionURL: e.URL,
		}
		if e.URL != "" {
			n.Message = fmt.Sprintf("Server for %s is running at %s", name, e.URL)
		}
		return n, true
	case broadcast.ServerStopped:
		return Notification{Title: AppName, Message: fmt.Sprintf("Server for %s stopped", name)}, true
	case broadcast.ServerStoppedWithError:
		return Notification{Title: AppName, Message: fmt.Sprintf("Server for %s stopped with an error", name)}, true
	default:
		return Notification{}, false
	}
}

// Desktop sends notifications through the OS notification center.
type Desktop struct {
	Icon string
}

// Send shows n. beeep has no action buttons, so the action URL is carried
// in the message and exposed through the tray's open-in-browser item.
func (d *Desktop) Send(n Notification) error {
	return beeep.Notify(n.Title, n.Message, d.Icon)
}

// OpenURL opens url in the default browser.
func OpenURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
