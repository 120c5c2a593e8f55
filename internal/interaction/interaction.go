// Package interaction decides when the player is close enough to use a kiosk
// and arbitrates which kiosk currently holds the player's attention.
package interaction

import "math"

// Vec2 is a position in world units
type Vec2 struct {
	X, Y float64
}

// Distance returns the Euclidean distance between two points
func Distance(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Result is the outcome of one proximity evaluation
type Result struct {
	Near         bool
	Transitioned bool
	Distance     float64
}

// Entered reports a far-to-near edge
func (r Result) Entered() bool {
	return r.Near && r.Transitioned
}

// Left reports a near-to-far edge
func (r Result) Left() bool {
	return !r.Near && r.Transitioned
}

// Proximity tracks whether the player is within a kiosk's radius.
// The boundary is inclusive and there is no hysteresis band, so a player
// standing exactly on the edge can flip state on floating-point noise.
type Proximity struct {
	near bool
}

// Evaluate recomputes the near flag and reports whether it changed since the
// previous call. The zero value starts out far.
func (p *Proximity) Evaluate(kioskPos, playerPos Vec2, radius float64) Result {
	d := Distance(kioskPos, playerPos)
	near := d <= radius
	res := Result{
		Near:         near,
		Transitioned: near != p.near,
		Distance:     d,
	}
	p.near = near
	return res
}

// Near returns the result of the last evaluation
func (p *Proximity) Near() bool {
	return p.near
}
