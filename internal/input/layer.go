package input

// Handler receives the events a Layer captures
type Handler func(ev Event)

// Layer captures all input while installed. Every key event is swallowed and
// handed only to the handler, and the model's record of that key is scrubbed
// on both keydown and keyup so nothing reads as held once the layer goes away.
// Clicks are captured too since the layer backs a modal overlay.
type Layer struct {
	router    *Router
	handler   Handler
	installed bool
}

// NewLayer creates an uninstalled layer on router
func NewLayer(router *Router) *Layer {
	return &Layer{router: router}
}

// Install pushes the layer onto the router. Does nothing if already installed.
func (l *Layer) Install(h Handler) {
	if l.installed {
		return
	}
	l.handler = h
	l.installed = true
	l.router.Push(l)
}

// Uninstall removes the layer. Safe to call when not installed.
func (l *Layer) Uninstall() {
	if !l.installed {
		return
	}
	l.router.Remove(l)
	l.installed = false
	l.handler = nil
}

// Installed reports whether the layer is on the router
func (l *Layer) Installed() bool {
	return l.installed
}

// HandleEvent implements Consumer
func (l *Layer) HandleEvent(ev Event) bool {
	if !l.installed {
		return false
	}
	if ev.Kind == KeyDown || ev.Kind == KeyUp {
		l.router.Model().Scrub(ev.Key)
	}
	if l.handler != nil {
		l.handler(ev)
	}
	return true
}
