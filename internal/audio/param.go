package audio

import (
	"math"
	"sort"
)

// minExpValue keeps exponential ramps away from zero, which they can never reach
const minExpValue = 1e-4

type rampKind int

const (
	rampSet rampKind = iota
	rampLinear
	rampExponential
)

type automationPoint struct {
	at    float64 // seconds from graph start
	value float64
	kind  rampKind
}

// Param is a value automated over time by explicit time-stamped points.
// A set point jumps at its time; a ramp point interpolates from the previous
// point to itself, linearly or exponentially.
type Param struct {
	initial float64
	points  []automationPoint
}

// NewParam creates a param holding v until the first point
func NewParam(v float64) *Param {
	return &Param{initial: v}
}

func (p *Param) add(pt automationPoint) *Param {
	p.points = append(p.points, pt)
	sort.SliceStable(p.points, func(i, j int) bool {
		return p.points[i].at < p.points[j].at
	})
	return p
}

// SetAt jumps to v at time t seconds
func (p *Param) SetAt(v, t float64) *Param {
	return p.add(automationPoint{at: t, value: v, kind: rampSet})
}

// LinearTo ramps linearly to v, arriving at t
func (p *Param) LinearTo(v, t float64) *Param {
	return p.add(automationPoint{at: t, value: v, kind: rampLinear})
}

// ExponentialTo ramps exponentially to v, arriving at t. Values are clamped
// to a small positive floor.
func (p *Param) ExponentialTo(v, t float64) *Param {
	if v < minExpValue {
		v = minExpValue
	}
	return p.add(automationPoint{at: t, value: v, kind: rampExponential})
}

// At returns the value at t seconds
func (p *Param) At(t float64) float64 {
	v, vt := p.initial, 0.0
	for _, pt := range p.points {
		if pt.at <= t {
			v, vt = pt.value, pt.at
			continue
		}
		span := pt.at - vt
		if span <= 0 {
			return v
		}
		frac := (t - vt) / span
		switch pt.kind {
		case rampLinear:
			return v + (pt.value-v)*frac
		case rampExponential:
			from := math.Max(v, minExpValue)
			return from * math.Pow(pt.value/from, frac)
		default:
			return v
		}
	}
	return v
}

// End returns the time of the last point
func (p *Param) End() float64 {
	if len(p.points) == 0 {
		return 0
	}
	return p.points[len(p.points)-1].at
}
