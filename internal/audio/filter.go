package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// FilterType selects the biquad response
type FilterType int

const (
	Lowpass FilterType = iota
	Bandpass
	Highpass
)

// Biquad is a second-order IIR filter using the RBJ cookbook coefficients.
// The centre frequency may be automated; coefficients are recomputed only when
// it changes.
type Biquad struct {
	src  beep.Streamer
	kind FilterType
	freq *Param
	q    float64
	rate beep.SampleRate
	pos  int

	lastFreq           float64
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     [2]float64
}

// NewBiquad filters src around freq with resonance q
func NewBiquad(src beep.Streamer, kind FilterType, freq *Param, q float64, rate beep.SampleRate) *Biquad {
	if q <= 0 {
		q = math.Sqrt2 / 2
	}
	f := &Biquad{src: src, kind: kind, freq: freq, q: q, rate: rate, lastFreq: -1}
	f.update(freq.At(0))
	return f
}

func (f *Biquad) update(freq float64) {
	nyquist := float64(f.rate) / 2
	if freq < 10 {
		freq = 10
	}
	if freq > nyquist*0.95 {
		freq = nyquist * 0.95
	}
	if freq == f.lastFreq {
		return
	}
	f.lastFreq = freq

	w0 := 2 * math.Pi * freq / float64(f.rate)
	cosW, sinW := math.Cos(w0), math.Sin(w0)
	alpha := sinW / (2 * f.q)

	var b0, b1, b2 float64
	switch f.kind {
	case Highpass:
		b0 = (1 + cosW) / 2
		b1 = -(1 + cosW)
		b2 = (1 + cosW) / 2
	case Bandpass:
		// Constant 0 dB peak gain
		b0 = alpha
		b1 = 0
		b2 = -alpha
	default:
		b0 = (1 - cosW) / 2
		b1 = 1 - cosW
		b2 = (1 - cosW) / 2
	}
	a0 := 1 + alpha
	f.b0, f.b1, f.b2 = b0/a0, b1/a0, b2/a0
	f.a1 = -2 * cosW / a0
	f.a2 = (1 - alpha) / a0
}

func (f *Biquad) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.src.Stream(samples)
	for i := 0; i < n; i++ {
		f.update(f.freq.At(float64(f.pos) / float64(f.rate)))
		for c := 0; c < 2; c++ {
			x := samples[i][c]
			y := f.b0*x + f.b1*f.x1[c] + f.b2*f.x2[c] - f.a1*f.y1[c] - f.a2*f.y2[c]
			f.x2[c], f.x1[c] = f.x1[c], x
			f.y2[c], f.y1[c] = f.y1[c], y
			samples[i][c] = y
		}
		f.pos++
	}
	return n, ok
}

func (f *Biquad) Err() error { return f.src.Err() }
