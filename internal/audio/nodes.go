package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// All nodes here stream forever (silence once their sound is over) so they can
// be mixed freely; the engine bounds the whole graph with beep.Take.

// Waveform is a periodic oscillator shape
type Waveform int

const (
	Sine Waveform = iota
	Square
	Triangle
	Sawtooth
)

// Oscillator is a periodic source with an automated frequency. It is silent
// outside its start/stop window.
type Oscillator struct {
	wave  Waveform
	freq  *Param
	rate  beep.SampleRate
	phase float64
	pos   int
	start int
	stop  int
}

// NewOscillator creates an oscillator that sounds from the start of the graph
func NewOscillator(wave Waveform, freq *Param, rate beep.SampleRate) *Oscillator {
	return &Oscillator{wave: wave, freq: freq, rate: rate, stop: -1}
}

// Window limits the oscillator to [start, stop). A zero stop means no end.
func (o *Oscillator) Window(start, stop time.Duration) *Oscillator {
	o.start = o.rate.N(start)
	o.stop = -1
	if stop > 0 {
		o.stop = o.rate.N(stop)
	}
	return o
}

func waveSample(w Waveform, phase float64) float64 {
	switch w {
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		return 1 - 4*math.Abs(phase-0.5)
	case Sawtooth:
		return 2 * (phase - 0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

func (o *Oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.pos < o.start || (o.stop >= 0 && o.pos >= o.stop) {
			samples[i] = [2]float64{}
			o.pos++
			continue
		}
		t := float64(o.pos) / float64(o.rate)
		v := waveSample(o.wave, o.phase)
		samples[i] = [2]float64{v, v}

		o.phase += o.freq.At(t) / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.pos++
	}
	return len(samples), true
}

func (o *Oscillator) Err() error { return nil }

// NoiseShape scales a noise sample by the ratio of elapsed to total samples
type NoiseShape func(ratio float64) float64

// Flat is unshaped noise
func Flat(float64) float64 { return 1 }

// Decaying fades noise out exponentially with the given steepness
func Decaying(steepness float64) NoiseShape {
	return func(r float64) float64 { return math.Exp(-steepness * r) }
}

// Swell rises then falls, peaking at the given ratio
func Swell(peak float64) NoiseShape {
	return func(r float64) float64 {
		if r < peak {
			return r / peak
		}
		return (1 - r) / (1 - peak)
	}
}

// NoiseBuffer is a precomputed buffer of shaped white noise, filled sample by
// sample when built and played once from its start offset.
type NoiseBuffer struct {
	buf    []float64
	offset int
	pos    int
}

// NewNoiseBuffer fills a buffer of the given duration with rnd noise scaled by shape
func NewNoiseBuffer(duration time.Duration, rate beep.SampleRate, rnd *rand.Rand, shape NoiseShape) *NoiseBuffer {
	n := rate.N(duration)
	buf := make([]float64, n)
	if shape == nil {
		shape = Flat
	}
	for i := range buf {
		buf[i] = (rnd.Float64()*2 - 1) * shape(float64(i)/float64(n))
	}
	return &NoiseBuffer{buf: buf}
}

// Delay starts playback after d
func (b *NoiseBuffer) Delay(d time.Duration, rate beep.SampleRate) *NoiseBuffer {
	b.offset = rate.N(d)
	return b
}

// Len returns the buffer length in samples
func (b *NoiseBuffer) Len() int {
	return len(b.buf)
}

func (b *NoiseBuffer) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		idx := b.pos - b.offset
		v := 0.0
		if idx >= 0 && idx < len(b.buf) {
			v = b.buf[idx]
		}
		samples[i] = [2]float64{v, v}
		b.pos++
	}
	return len(samples), true
}

func (b *NoiseBuffer) Err() error { return nil }

// Gain multiplies a streamer by an automated envelope
type Gain struct {
	src  beep.Streamer
	gain *Param
	rate beep.SampleRate
	pos  int
}

// NewGain applies the gain param to src
func NewGain(src beep.Streamer, gain *Param, rate beep.SampleRate) *Gain {
	return &Gain{src: src, gain: gain, rate: rate}
}

func (g *Gain) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = g.src.Stream(samples)
	for i := 0; i < n; i++ {
		v := g.gain.At(float64(g.pos) / float64(g.rate))
		samples[i][0] *= v
		samples[i][1] *= v
		g.pos++
	}
	return n, ok
}

func (g *Gain) Err() error { return g.src.Err() }

// softClip bounds the mix to (-1, 1) without hard edges
type softClip struct {
	src beep.Streamer
}

func (s softClip) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = s.src.Stream(samples)
	for i := 0; i < n; i++ {
		samples[i][0] = math.Tanh(samples[i][0])
		samples[i][1] = math.Tanh(samples[i][1])
	}
	return n, ok
}

func (s softClip) Err() error { return s.src.Err() }

// newVolume scales by a linear factor. math.Log2(0) is -Inf, so zero is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
