package audio

import (
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
)

// Engine plays kiosk sounds. Play is fire-and-forget: each call builds an
// independent graph, hands it to the output bounded to its duration, and
// tears the graph down from a callback once it has streamed.
// An Engine is safe for concurrent use.
type Engine struct {
	cfg *Config
	out Output

	mu    sync.Mutex
	theme Theme

	active     atomic.Int64
	played     atomic.Int64
	seed       atomic.Int64
	outputDown atomic.Bool

	// OnTeardown, if set, is called after each graph is released
	OnTeardown func(g *Graph)
}

// NewEngine creates an engine for theme writing to out. A nil cfg uses the defaults.
func NewEngine(cfg *Config, theme Theme, out Output) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	e := &Engine{cfg: cfg, out: out, theme: theme}
	e.seed.Store(time.Now().UnixNano())
	return e
}

// Theme returns the current sound theme
func (e *Engine) Theme() Theme {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.theme
}

// SetTheme switches the recipe set for later plays
func (e *Engine) SetTheme(t Theme) {
	e.mu.Lock()
	e.theme = t
	e.mu.Unlock()
}

// Active returns the number of graphs still streaming
func (e *Engine) Active() int {
	return int(e.active.Load())
}

// Played returns the number of graphs handed to the output
func (e *Engine) Played() int {
	return int(e.played.Load())
}

// Play builds and starts the sound for kind. It never blocks on playback and
// never fails the caller; problems are logged and the sound is dropped.
func (e *Engine) Play(kind EventKind) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: audio: %v sound failed: %v", kind, r)
		}
	}()

	if e == nil || !e.cfg.Enabled || e.out == nil {
		return
	}

	rate := e.out.SampleRate()
	rnd := rand.New(rand.NewSource(e.seed.Add(7919)))
	g, err := Recipe(kind, e.Theme(), rate, rnd)
	if err != nil {
		log.Printf("Warning: audio: cannot build %v sound: %v", kind, err)
		return
	}

	var once sync.Once
	teardown := func() {
		once.Do(func() {
			g.Release()
			e.active.Add(-1)
			if e.OnTeardown != nil {
				e.OnTeardown(g)
			}
		})
	}

	body := newVolume(g.Streamer(), e.cfg.VolumeFor(kind))
	s := beep.Seq(beep.Take(rate.N(g.Duration), body), beep.Callback(teardown))

	e.active.Add(1)
	if err := e.out.Play(s); err != nil {
		if !e.outputDown.Swap(true) {
			log.Printf("Warning: audio: output unavailable, continuing silently: %v", err)
		}
		teardown()
		return
	}
	e.played.Add(1)
}
