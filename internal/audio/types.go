// Package audio synthesizes every kiosk sound at play time. Each event builds
// its own small graph of oscillators, noise, envelopes, filters and reverb on
// top of beep streamers, plays it once, and tears it down when it ends.
package audio

import "fmt"

// EventKind identifies a sound event
type EventKind int

const (
	Activate EventKind = iota
	Select
	Open
	Close
	Launch
	Proximity
	eventCount
)

var eventNames = [eventCount]string{
	Activate:  "activate",
	Select:    "select",
	Open:      "open",
	Close:     "close",
	Launch:    "launch",
	Proximity: "proximity",
}

func (k EventKind) String() string {
	if k < 0 || k >= eventCount {
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
	return eventNames[k]
}

// AllEvents lists every event kind in declaration order
func AllEvents() []EventKind {
	kinds := make([]EventKind, 0, eventCount)
	for k := EventKind(0); k < eventCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseEventKind looks an event up by name
func ParseEventKind(name string) (EventKind, bool) {
	for k, n := range eventNames {
		if n == name {
			return EventKind(k), true
		}
	}
	return 0, false
}

// Theme selects the recipe variant for every event
type Theme string

const (
	// ThemeArcade is square and sawtooth chiptune
	ThemeArcade Theme = "arcade"
	// ThemeTelevision is sine tones with shaped static
	ThemeTelevision Theme = "television"
)

// ParseTheme validates a theme name. Empty means arcade.
func ParseTheme(name string) (Theme, error) {
	switch Theme(name) {
	case "", ThemeArcade:
		return ThemeArcade, nil
	case ThemeTelevision:
		return ThemeTelevision, nil
	default:
		return "", fmt.Errorf("unknown sound theme %q", name)
	}
}
