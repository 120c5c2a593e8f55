// Package overlay draws modal menus on a single full-screen surface that is
// composited above the game view.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"chosenoffset.com/arcade/internal/render"
)

var (
	// ErrSurfaceBusy is returned when another owner holds the overlay
	ErrSurfaceBusy = errors.New("overlay surface owned by another kiosk")
	// ErrNoReference is returned when there is no surface to size the overlay against
	ErrNoReference = errors.New("overlay has no reference surface")
)

// Manager owns the one overlay surface. Only one owner may hold it at a time;
// a second acquire is rejected instead of drawing over the first.
type Manager struct {
	mu       sync.Mutex
	renderer render.Renderer
	surface  render.Image
	owner    string
	bounds   image.Rectangle
	created  int
}

// NewManager creates a manager that allocates surfaces through r
func NewManager(r render.Renderer) *Manager {
	return &Manager{renderer: r}
}

// Acquire returns the overlay for owner, sized and positioned to cover
// reference. The surface is reused across frames and recreated if the
// reference changes size.
func (m *Manager) Acquire(owner string, reference render.Surface) (render.Image, error) {
	if reference == nil {
		return nil, ErrNoReference
	}
	bounds := reference.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrNoReference, bounds)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.surface != nil && m.owner != owner {
		return nil, fmt.Errorf("%s: %w (%s)", owner, ErrSurfaceBusy, m.owner)
	}

	if m.surface != nil && m.bounds.Size() != bounds.Size() {
		m.surface.Dispose()
		m.surface = nil
	}
	if m.surface == nil {
		m.surface = m.renderer.NewImage(bounds.Dx(), bounds.Dy())
		m.created++
	}
	m.owner = owner
	m.bounds = bounds
	return m.surface, nil
}

// Release disposes the surface if owner holds it. Releasing a free overlay is a no-op.
func (m *Manager) Release(owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.surface == nil {
		return nil
	}
	if m.owner != owner {
		return fmt.Errorf("%s: %w (%s)", owner, ErrSurfaceBusy, m.owner)
	}
	m.surface.Dispose()
	m.surface = nil
	m.owner = ""
	return nil
}

// Owner returns the current owner, or "" when free
func (m *Manager) Owner() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner
}

// Active reports whether a surface exists
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.surface != nil
}

// Bounds returns where the overlay sits in screen coordinates
func (m *Manager) Bounds() image.Rectangle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bounds
}

// Created returns how many surfaces have been allocated so far
func (m *Manager) Created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}

// Composite draws the overlay above screen at its origin
func (m *Manager) Composite(screen render.Image) {
	m.mu.Lock()
	surface, bounds := m.surface, m.bounds
	m.mu.Unlock()

	if surface == nil || screen == nil {
		return
	}
	opts := &render.DrawImageOptions{GeoM: render.NewGeoM()}
	opts.GeoM.Translate(float64(bounds.Min.X), float64(bounds.Min.Y))
	screen.DrawImage(surface, opts)
}
