// Package input holds the shared keyboard model and the routing stack that
// decides who sees each key and click. The world reads held keys from the
// Model; a kiosk menu pushes a capturing Layer so its keys never reach it.
package input

import (
	"sort"
	"sync"

	"github.com/zyedidia/generic/mapset"

	"chosenoffset.com/arcade/internal/render"
)

// EventKind distinguishes router events
type EventKind int

const (
	// KeyDown is a key going down this frame
	KeyDown EventKind = iota
	// KeyUp is a key coming up this frame
	KeyUp
	// Click is a left mouse press at (X, Y) in screen pixels
	Click
)

func (k EventKind) String() string {
	switch k {
	case KeyDown:
		return "keydown"
	case KeyUp:
		return "keyup"
	case Click:
		return "click"
	default:
		return "unknown"
	}
}

// Event is one keyboard or pointer event
type Event struct {
	Kind EventKind
	Key  string
	X, Y int
}

// KeyEvent builds a key event named after a render key
func KeyEvent(kind EventKind, key render.Key) Event {
	return Event{Kind: kind, Key: key.String()}
}

// Consumer receives routed events. Returning true stops the event from
// reaching consumers further down the stack.
type Consumer interface {
	HandleEvent(ev Event) bool
}

// Model is the shared keyboard state keyed by key name. The world reads it to
// move the player; it sits at the bottom of every Router.
type Model struct {
	mu   sync.Mutex
	held mapset.Set[string]
}

// NewModel creates a model with nothing held
func NewModel() *Model {
	return &Model{held: mapset.New[string]()}
}

// IsDown reports whether the model thinks key is held
func (m *Model) IsDown(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held.Has(key)
}

// IsKeyDown is IsDown for a render key
func (m *Model) IsKeyDown(key render.Key) bool {
	return m.IsDown(key.String())
}

// AnyDown reports whether any of the keys is held
func (m *Model) AnyDown(keys ...string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		if m.held.Has(k) {
			return true
		}
	}
	return false
}

// Set records key as held or released
func (m *Model) Set(key string, down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if down {
		m.held.Put(key)
	} else {
		m.held.Remove(key)
	}
}

// Scrub forgets key so it no longer reads as held
func (m *Model) Scrub(key string) {
	m.Set(key, false)
}

// Clear forgets every key
func (m *Model) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held = mapset.New[string]()
}

// Held returns the held key names, sorted
func (m *Model) Held() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, m.held.Size())
	m.held.Each(func(k string) {
		keys = append(keys, k)
	})
	sort.Strings(keys)
	return keys
}

// HandleEvent records key events. The model is the last consumer and takes
// everything that reaches it.
func (m *Model) HandleEvent(ev Event) bool {
	switch ev.Kind {
	case KeyDown:
		m.Set(ev.Key, true)
	case KeyUp:
		m.Set(ev.Key, false)
	}
	return true
}
