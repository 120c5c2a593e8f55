package audio

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// Recipe durations must stay inside these bounds
const (
	MinDuration = 200 * time.Millisecond
	MaxDuration = 3000 * time.Millisecond
)

// Graph is one built sound: an unbounded streamer plus the precomputed time
// after which it has nothing left to say.
type Graph struct {
	Kind     EventKind
	Theme    Theme
	Duration time.Duration

	out      beep.Streamer
	nodes    int
	released bool
}

// Streamer returns the graph output, nil after Release
func (g *Graph) Streamer() beep.Streamer {
	return g.out
}

// Nodes returns how many nodes the graph was built from
func (g *Graph) Nodes() int {
	return g.nodes
}

// Release drops every node reference
func (g *Graph) Release() {
	g.out = nil
	g.released = true
}

// Released reports whether Release has run
func (g *Graph) Released() bool {
	return g.released
}

// builder counts nodes as a recipe wires them
type builder struct {
	rate  beep.SampleRate
	rnd   *rand.Rand
	nodes int
}

func (b *builder) osc(w Waveform, freq *Param) *Oscillator {
	b.nodes++
	return NewOscillator(w, freq, b.rate)
}

func (b *builder) noise(d time.Duration, shape NoiseShape) *NoiseBuffer {
	b.nodes++
	return NewNoiseBuffer(d, b.rate, b.rnd, shape)
}

func (b *builder) gain(src beep.Streamer, env *Param) beep.Streamer {
	b.nodes++
	return NewGain(src, env, b.rate)
}

func (b *builder) filter(src beep.Streamer, kind FilterType, freq *Param, q float64) beep.Streamer {
	b.nodes++
	return NewBiquad(src, kind, freq, q, b.rate)
}

func (b *builder) reverb(src beep.Streamer, decay time.Duration, wet float64) beep.Streamer {
	b.nodes++
	return NewConvolver(src, b.rate, decay, wet, b.rnd)
}

func (b *builder) mix(srcs ...beep.Streamer) beep.Streamer {
	b.nodes++
	return beep.Mix(srcs...)
}

// pluck rises to peak over attack seconds then decays exponentially to
// silence at end seconds
func pluck(peak, attack, end float64) *Param {
	return NewParam(0).LinearTo(peak, attack).ExponentialTo(minExpValue, end).SetAt(0, end)
}

func hz(v float64) *Param {
	return NewParam(v)
}

// Recipe builds the graph for an event in a theme. Every call returns fresh
// nodes that share nothing with other graphs.
func Recipe(kind EventKind, theme Theme, rate beep.SampleRate, rnd *rand.Rand) (*Graph, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", rate)
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	b := &builder{rate: rate, rnd: rnd}

	var (
		out beep.Streamer
		dur time.Duration
	)
	switch theme {
	case ThemeTelevision:
		out, dur = televisionRecipe(b, kind)
	case ThemeArcade, "":
		theme = ThemeArcade
		out, dur = arcadeRecipe(b, kind)
	default:
		return nil, fmt.Errorf("unknown sound theme %q", theme)
	}
	if out == nil {
		return nil, fmt.Errorf("no %s recipe for event %v", theme, kind)
	}

	return &Graph{
		Kind:     kind,
		Theme:    theme,
		Duration: dur,
		out:      softClip{src: out},
		nodes:    b.nodes + 1,
	}, nil
}

// arcadeRecipe is square and sawtooth chiptune
func arcadeRecipe(b *builder, kind EventKind) (beep.Streamer, time.Duration) {
	switch kind {
	case Activate:
		// Two-step coin blip
		f := hz(660).SetAt(990, 0.06)
		return b.gain(b.osc(Square, f), pluck(0.45, 0.005, 0.23)), 240 * time.Millisecond

	case Select:
		tick := b.filter(b.osc(Square, hz(880)), Lowpass, hz(3200), 0.9)
		return b.gain(tick, pluck(0.35, 0.004, 0.12)), 200 * time.Millisecond

	case Open:
		// Rising sawtooth sweep through an opening filter, with an arpeggio on top
		sweep := b.osc(Sawtooth, hz(220).ExponentialTo(880, 0.35))
		filtered := b.filter(sweep, Lowpass, hz(600).ExponentialTo(5000, 0.4), 4)
		body := b.gain(filtered, NewParam(0).LinearTo(0.4, 0.02).SetAt(0.4, 0.3).ExponentialTo(minExpValue, 0.55).SetAt(0, 0.55))
		arp := b.osc(Square, hz(440).SetAt(554.37, 0.1).SetAt(659.25, 0.2).SetAt(880, 0.3))
		arpEnv := b.gain(arp, NewParam(0).LinearTo(0.18, 0.01).ExponentialTo(minExpValue, 0.5).SetAt(0, 0.5))
		return b.reverb(b.mix(body, arpEnv), 500*time.Millisecond, 0.25), time.Second

	case Close:
		sweep := b.osc(Sawtooth, hz(880).ExponentialTo(110, 0.4))
		filtered := b.filter(sweep, Lowpass, hz(4000).ExponentialTo(300, 0.45), 3)
		return b.gain(filtered, pluck(0.45, 0.01, 0.5)), 600 * time.Millisecond

	case Launch:
		// C major arpeggio over a filtered bass, into a longer room
		lead := b.osc(Square, hz(523.25).SetAt(659.25, 0.08).SetAt(783.99, 0.16).SetAt(1046.5, 0.24))
		leadEnv := b.gain(lead, NewParam(0).LinearTo(0.35, 0.005).LinearTo(0.25, 0.3).ExponentialTo(minExpValue, 0.9).SetAt(0, 0.9))
		bass := b.filter(b.osc(Sawtooth, hz(130.81)), Lowpass, hz(800), 1)
		bassEnv := b.gain(bass, pluck(0.25, 0.01, 0.8))
		return b.reverb(b.mix(leadEnv, bassEnv), 800*time.Millisecond, 0.3), 1500 * time.Millisecond

	case Proximity:
		f := hz(440).LinearTo(660, 0.12)
		return b.gain(b.osc(Triangle, f), pluck(0.3, 0.01, 0.28)), 300 * time.Millisecond
	}
	return nil, 0
}

// televisionRecipe is sine tones with shaped static
func televisionRecipe(b *builder, kind EventKind) (beep.Streamer, time.Duration) {
	switch kind {
	case Activate:
		tone := b.gain(b.osc(Sine, hz(520)), pluck(0.4, 0.005, 0.2))
		click := b.filter(b.noise(20*time.Millisecond, Decaying(8)), Highpass, hz(2000), 0.7)
		return b.mix(tone, b.gain(click, hz(0.3))), 250 * time.Millisecond

	case Select:
		tone := b.gain(b.osc(Sine, hz(700).LinearTo(650, 0.1)), pluck(0.35, 0.004, 0.15))
		tick := b.filter(b.noise(40*time.Millisecond, Decaying(6)), Bandpass, hz(3000), 2)
		return b.mix(tone, b.gain(tick, hz(0.4))), 220 * time.Millisecond

	case Open:
		// CRT power-on: static swell, mains hum and a rising flyback whine
		static := b.filter(b.noise(900*time.Millisecond, Swell(0.3)), Highpass, hz(1200), 0.7)
		staticEnv := b.gain(static, hz(0.35))
		hum := b.gain(b.osc(Sine, hz(60)), pluck(0.2, 0.05, 0.9))
		whine := b.gain(b.osc(Sine, hz(2000).ExponentialTo(4000, 0.5)), pluck(0.06, 0.2, 0.9))
		return b.reverb(b.mix(staticEnv, hum, whine), 600*time.Millisecond, 0.2), 1200 * time.Millisecond

	case Close:
		// Power-down: collapsing tone and a burst of dull static
		tone := b.gain(b.osc(Sine, hz(900).ExponentialTo(40, 0.5)), pluck(0.4, 0.005, 0.6))
		burst := b.filter(b.noise(300*time.Millisecond, Decaying(6)), Lowpass, hz(1500), 0.7)
		return b.mix(tone, b.gain(burst, hz(0.3))), 800 * time.Millisecond

	case Launch:
		// Channel change: sweeping band of static, then a two-tone chime
		static := b.noise(350*time.Millisecond, Swell(0.6))
		swept := b.filter(static, Bandpass, hz(500).ExponentialTo(6000, 0.3), 1.5)
		chimeLow := b.osc(Sine, hz(880)).Window(350*time.Millisecond, 0)
		chimeHigh := b.osc(Sine, hz(1320)).Window(350*time.Millisecond, 0)
		chimeEnv := NewParam(0).SetAt(0, 0.35).LinearTo(0.3, 0.36).ExponentialTo(minExpValue, 1.3).SetAt(0, 1.3)
		chime := b.gain(b.mix(chimeLow, b.gain(chimeHigh, hz(0.5))), chimeEnv)
		return b.reverb(b.mix(b.gain(swept, hz(0.5)), chime), 900*time.Millisecond, 0.3), 1600 * time.Millisecond

	case Proximity:
		tone := b.gain(b.osc(Sine, hz(330)), NewParam(0).LinearTo(0.25, 0.1).ExponentialTo(minExpValue, 0.32).SetAt(0, 0.32))
		hiss := b.filter(b.noise(300*time.Millisecond, Swell(0.4)), Lowpass, hz(1200), 0.7)
		return b.mix(tone, b.gain(hiss, hz(0.08))), 350 * time.Millisecond
	}
	return nil, 0
}
