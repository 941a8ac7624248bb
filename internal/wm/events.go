package wm

import "hackdesk/internal/geometry"

// EventKind is the closed set of window events.
type EventKind int

const (
	EventCreated EventKind = iota
	EventClosed
	EventFocus
	EventMinimized
	EventRestored
	EventMaximized
	EventUnmaximized
	EventMoved
	EventResized
	EventTitleChanged
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventClosed:
		return "closed"
	case EventFocus:
		return "focus"
	case EventMinimized:
		return "minimized"
	case EventRestored:
		return "restored"
	case EventMaximized:
		return "maximized"
	case EventUnmaximized:
		return "unmaximized"
	case EventMoved:
		return "moved"
	case EventResized:
		return "resized"
	case EventTitleChanged:
		return "title-changed"
	}
	return "unknown"
}

// Event is one window notification.
type Event struct {
	Kind     EventKind
	WindowID string
	Title    string
	Bounds   geometry.Rect
}

type subscriber struct {
	id int
	fn func(Event)
}

// Bus delivers events to subscribers in subscription order. A subscriber
// that panics is isolated so it cannot break delivery to the others or
// crash the manager.
type Bus struct {
	nextID int
	subs   []subscriber
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns an unsubscribe func. Unsubscribing
// twice is harmless.
func (b *Bus) Subscribe(fn func(Event)) (unsubscribe func()) {
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers ev to every subscriber.
func (b *Bus) Publish(ev Event) {
	for _, s := range b.subs {
		deliver(s.fn, ev)
	}
}

func deliver(fn func(Event), ev Event) {
	defer func() {
		_ = recover()
	}()
	fn(ev)
}
