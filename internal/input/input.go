// Package input defines the pointer and key events the engine consumes and a small bus to fan
// them out. Events are produced by the display layer once per frame.
package input

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind identifies an event.
type Kind int

const (
	PointerDown Kind = iota
	PointerMove
	PointerUp
	ContextMenu
	Wheel
	Resize
	KeyPress
)

func (k Kind) String() string {
	switch k {
	case PointerDown:
		return "pointer-down"
	case PointerMove:
		return "pointer-move"
	case PointerUp:
		return "pointer-up"
	case ContextMenu:
		return "context-menu"
	case Wheel:
		return "wheel"
	case Resize:
		return "resize"
	case KeyPress:
		return "key"
	}
	return "unknown"
}

// Buttons is a set of held pointer buttons.
type Buttons uint8

const (
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonMiddle
)

// Key is an editor key binding, decoupled from the windowing library's key codes.
type Key int

const (
	KeyNone Key = iota
	KeyRotateLeft
	KeyRotateRight
	KeyDelete
)

// Event is one input occurrence. Pos is in window pixels from the top left. Delta is the wheel
// movement, positive away from the user's view. Width and Height are set for Resize.
type Event struct {
	Kind    Kind
	Pos     mgl32.Vec2
	Delta   float32
	Buttons Buttons
	Width   int
	Height  int
	Key     Key
}

// Handler consumes events.
type Handler func(Event)

// Bus delivers each published event to every subscriber in subscription order.
type Bus struct {
	mu   sync.Mutex
	next int
	subs []subscription
}

type subscription struct {
	id int
	h  Handler
}

// NewBus returns a bus with no subscribers.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h and returns a func that removes it. The returned func is safe to call
// more than once.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	b.subs = append(b.subs, subscription{id: id, h: h})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e. Handlers may subscribe or unsubscribe while it runs; such changes apply
// from the next event.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := b.subs
	b.mu.Unlock()
	for _, s := range subs {
		s.h(e)
	}
}

// Len returns the number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
