// Package broadcast implements the typed publish/subscribe channel that
// decouples the server controller from its observers.
package broadcast

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/emberhearth/hearth/internal/models"
)

// Kind identifies an event.
type Kind int

// Event kinds.
const (
	ServerStarting Kind = iota
	ServerStarted
	ServerStopped
	ServerStoppedWithError
	ActiveProjectSet
	NoActiveProject
	ProjectUpdated
)

// Kinds lists every event kind in declaration order.
var Kinds = []Kind{
	ServerStarting,
	ServerStarted,
	ServerStopped,
	ServerStoppedWithError,
	ActiveProjectSet,
	NoActiveProject,
	ProjectUpdated,
}

func (k Kind) String() string {
	switch k {
	case ServerStarting:
		return "serverStarting"
	case ServerStarted:
		return "serverStarted"
	case ServerStopped:
		return "serverStopped"
	case ServerStoppedWithError:
		return "serverStoppedWithError"
	case ActiveProjectSet:
		return "activeProjectSet"
	case NoActiveProject:
		return "noActiveProject"
	case ProjectUpdated:
		return "projectUpdated"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// KindForStatus returns the event published on a transition into s.
func KindForStatus(s models.ServerStatus) Kind {
	switch s {
	case models.StatusBooting:
		return ServerStarting
	case models.StatusRunning:
		return ServerStarted
	case models.StatusErrored:
		return ServerStoppedWithError
	default:
		return ServerStopped
	}
}

// Event is delivered to subscribers.
type Event struct {
	Kind    Kind
	Project models.Project
	Status  models.ServerStatus
	URL     string // set for ServerStarted
}

// Handler receives events.
type Handler func(Event)

// Subscription identifies a registered handler.
type Subscription struct {
	ID   string
	Kind Kind
}

type subscriber struct {
	id string
	fn Handler
}

// Bus is a synchronous, in-order event bus.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Kind][]subscriber
	logger *log.Logger
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{
		subs:   make(map[Kind][]subscriber),
		logger: log.WithPrefix("broadcast"),
	}
}

// Subscribe registers fn for events of the given kind.
func (b *Bus) Subscribe(kind Kind, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := subscriber{id: uuid.NewString(), fn: fn}
	b.subs[kind] = append(b.subs[kind], sub)
	return Subscription{ID: sub.id, Kind: kind}
}

// SubscribeAll registers fn for every kind.
func (b *Bus) SubscribeAll(fn Handler) []Subscription {
	subs := make([]Subscription, 0, len(Kinds))
	for _, k := range Kinds {
		subs = append(subs, b.Subscribe(k, fn))
	}
	return subs
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(s Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[s.Kind]
	for i, sub := range list {
		if sub.id == s.ID {
			// Copy so in-flight Publish snapshots keep their slice intact.
			next := make([]subscriber, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			b.subs[s.Kind] = next
			return
		}
	}
}

// Publish delivers e to the handlers registered for e.Kind, in registration
// order. A panicking handler is logged and does not stop delivery.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	list := b.subs[e.Kind]
	b.mu.RUnlock()

	for _, sub := range list {
		b.deliver(sub, e)
	}
}

func (b *Bus) deliver(sub subscriber, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("observer panicked", "event", e.Kind, "subscription", sub.id, "panic", r)
		}
	}()
	sub.fn(e)
}
