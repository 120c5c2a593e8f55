package input

import "sync"

// Router dispatches events to a stack of consumers, top first. The model is
// always the bottom entry and can never be removed.
type Router struct {
	mu    sync.Mutex
	model *Model
	stack []Consumer
}

// NewRouter creates a router whose only consumer is model
func NewRouter(model *Model) *Router {
	return &Router{
		model: model,
		stack: []Consumer{model},
	}
}

// Model returns the shared keyboard model at the bottom of the stack
func (r *Router) Model() *Model {
	return r.model
}

// Push puts c on top of the stack
func (r *Router) Push(c Consumer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stack = append(r.stack, c)
}

// Remove takes c off the stack wherever it is. Consumers are compared by
// identity so they must be pointers. Returns false if c was not present.
func (r *Router) Remove(c Consumer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.stack) - 1; i > 0; i-- {
		if r.stack[i] == c {
			r.stack = append(r.stack[:i], r.stack[i+1:]...)
			return true
		}
	}
	return false
}

// Depth returns the number of consumers including the model
func (r *Router) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stack)
}

// Dispatch offers ev to each consumer from the top down until one consumes it.
// Consumers may push or remove while handling; the change applies to the next event.
func (r *Router) Dispatch(ev Event) bool {
	r.mu.Lock()
	stack := make([]Consumer, len(r.stack))
	copy(stack, r.stack)
	r.mu.Unlock()

	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].HandleEvent(ev) {
			return true
		}
	}
	return false
}
