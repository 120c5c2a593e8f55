package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
)

// velvetDensity is the number of impulse-response taps per second
const velvetDensity = 600

type tap struct {
	delay int
	gain  float64
}

// Convolver is a convolution reverb whose impulse response is synthesized
// velvet noise: one randomly signed tap per grid cell, decaying
// exponentially to -60 dB at the decay time. Sparse taps keep the direct
// convolution affordable.
type Convolver struct {
	src      beep.Streamer
	taps     []tap
	history  [][2]float64
	head     int
	wet, dry float64
}

// NewConvolver wraps src in a reverb with the given decay and wet mix (0..1)
func NewConvolver(src beep.Streamer, rate beep.SampleRate, decay time.Duration, wet float64, rnd *rand.Rand) *Convolver {
	taps := velvetIR(rate, decay, rnd)
	maxDelay := 1
	for _, t := range taps {
		if t.delay >= maxDelay {
			maxDelay = t.delay + 1
		}
	}
	wet = math.Max(0, math.Min(1, wet))
	return &Convolver{
		src:     src,
		taps:    taps,
		history: make([][2]float64, maxDelay),
		wet:     wet,
		dry:     1 - wet,
	}
}

// velvetIR builds the sparse impulse response, normalized to unit energy
func velvetIR(rate beep.SampleRate, decay time.Duration, rnd *rand.Rand) []tap {
	length := rate.N(decay)
	grid := int(rate) / velvetDensity
	if grid < 1 {
		grid = 1
	}
	var taps []tap
	energy := 0.0
	for cell := 0; cell+grid <= length; cell += grid {
		d := cell + rnd.Intn(grid)
		sign := 1.0
		if rnd.Intn(2) == 0 {
			sign = -1
		}
		// ln(1000) = 6.91 gives -60 dB at the end
		g := sign * math.Exp(-6.91*float64(d)/float64(length))
		taps = append(taps, tap{delay: d, gain: g})
		energy += g * g
	}
	if energy > 0 {
		norm := 1 / math.Sqrt(energy)
		for i := range taps {
			taps[i].gain *= norm
		}
	}
	return taps
}

// Taps returns the number of impulse-response taps
func (c *Convolver) Taps() int {
	return len(c.taps)
}

func (c *Convolver) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = c.src.Stream(samples)
	size := len(c.history)
	for i := 0; i < n; i++ {
		c.history[c.head] = samples[i]
		var acc [2]float64
		for _, t := range c.taps {
			idx := c.head - t.delay
			if idx < 0 {
				idx += size
			}
			acc[0] += c.history[idx][0] * t.gain
			acc[1] += c.history[idx][1] * t.gain
		}
		samples[i][0] = c.dry*samples[i][0] + c.wet*acc[0]
		samples[i][1] = c.dry*samples[i][1] + c.wet*acc[1]
		c.head++
		if c.head == size {
			c.head = 0
		}
	}
	return n, ok
}

func (c *Convolver) Err() error { return c.src.Err() }
