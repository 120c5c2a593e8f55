package input

import "chosenoffset.com/arcade/internal/render"

// Poller turns a frame-polled InputManager into router events
type Poller struct {
	in   render.InputManager
	keys []render.Key
	// down holds keys this poller reported pressed and not yet released
	down map[render.Key]bool
}

// NewPoller watches keys on in, or every known key when none are given
func NewPoller(in render.InputManager, keys ...render.Key) *Poller {
	if len(keys) == 0 {
		keys = render.AllKeys()
	}
	return &Poller{in: in, keys: keys, down: make(map[render.Key]bool)}
}

// Poll dispatches this frame's key edges and left clicks. Releases go out
// before presses so a key tapped between frames does not stick. A key
// reported down that is no longer pressed without a release edge, as after
// the window loses focus, is released too.
func (p *Poller) Poll(r *Router) int {
	n := 0
	for _, k := range p.keys {
		if p.in.IsKeyJustReleased(k) || (p.down[k] && !p.in.IsKeyPressed(k)) {
			delete(p.down, k)
			r.Dispatch(KeyEvent(KeyUp, k))
			n++
		}
	}
	for _, k := range p.keys {
		if p.in.IsKeyJustPressed(k) {
			p.down[k] = true
			r.Dispatch(KeyEvent(KeyDown, k))
			n++
		}
	}
	if p.in.IsMouseButtonJustPressed(render.MouseButtonLeft) {
		x, y := p.in.GetCursorPosition()
		r.Dispatch(Event{Kind: Click, X: x, Y: y})
		n++
	}
	return n
}
