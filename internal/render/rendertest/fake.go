// Package rendertest provides in-memory render backends for tests.
package rendertest

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"chosenoffset.com/arcade/internal/render"
)

func init() {
	if render.NewGeoM == nil {
		render.NewGeoM = func() render.GeoM { return &GeoM{} }
	}
}

// Call is one recorded draw operation.
type Call struct {
	Op   string
	Text string
	X, Y float32
	W, H float32
}

// Image is a fake render.Image that only tracks its size and disposal.
type Image struct {
	W, H     int
	Disposed bool
	Fills    int
	Clears   int
	Draws    int
}

// NewImage creates a fake image of the given size.
func NewImage(w, h int) *Image {
	return &Image{W: w, H: h}
}

func (i *Image) Bounds() image.Rectangle { return image.Rect(0, 0, i.W, i.H) }
func (i *Image) Size() (int, int) { return i.W, i.H }
func (i *Image) Fill(color.Color) { i.Fills++ }
func (i *Image) Clear() { i.Clears++ }
func (i *Image) Dispose() { i.Disposed = true }
func (i *Image) DrawImage(render.Image, *render.DrawImageOptions) { i.Draws++ }

// GeoM is a no-op transformation matrix.
type GeoM struct {
	TX, TY float64
}

func (g *GeoM) Translate(tx, ty float64) { g.TX += tx; g.TY += ty }
func (g *GeoM) Scale(sx, sy float64) {}

// Renderer records every draw call. Text is measured as 6x13 pixels per rune
// at scale 1, like the debug font.
type Renderer struct {
	mu     sync.Mutex
	Calls  []Call
	Images []*Image
}

// NewRenderer creates a recording renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) record(c Call) {
	r.mu.Lock()
	r.Calls = append(r.Calls, c)
	r.mu.Unlock()
}

func (r *Renderer) NewImage(width, height int) render.Image {
	img := NewImage(width, height)
	r.mu.Lock()
	r.Images = append(r.Images, img)
	r.mu.Unlock()
	return img
}

func (r *Renderer) NewImageFromImage(src image.Image) render.Image {
	b := src.Bounds()
	return r.NewImage(b.Dx(), b.Dy())
}

func (r *Renderer) FillRect(dst render.Image, x, y, w, h float32, clr color.Color) {
	r.record(Call{Op: "FillRect", X: x, Y: y, W: w, H: h})
}

func (r *Renderer) StrokeRect(dst render.Image, x, y, w, h, sw float32, clr color.Color) {
	r.record(Call{Op: "StrokeRect", X: x, Y: y, W: w, H: h})
}

func (r *Renderer) StrokeLine(dst render.Image, x0, y0, x1, y1, sw float32, clr color.Color) {
	r.record(Call{Op: "StrokeLine", X: x0, Y: y0, W: x1 - x0, H: y1 - y0})
}

func (r *Renderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	r.record(Call{Op: "FillCircle", X: x, Y: y, W: radius})
}

func (r *Renderer) StrokeCircle(dst render.Image, x, y, radius, sw float32, clr color.Color) {
	r.record(Call{Op: "StrokeCircle", X: x, Y: y, W: radius})
}

func (r *Renderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	w, h := r.MeasureText(text, scale)
	r.record(Call{Op: "DrawText", Text: text, X: float32(x), Y: float32(y), W: float32(w), H: float32(h)})
}

func (r *Renderer) MeasureText(text string, scale float64) (int, int) {
	if scale <= 0 {
		scale = 1
	}
	return int(float64(len([]rune(text))) * 6 * scale), int(13 * scale)
}

// Texts returns the strings drawn so far, in order.
func (r *Renderer) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.Calls {
		if c.Op == "DrawText" {
			out = append(out, c.Text)
		}
	}
	return out
}

// FindText returns the first DrawText call with exactly this text.
func (r *Renderer) FindText(text string) (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Calls {
		if c.Op == "DrawText" && c.Text == text {
			return c, true
		}
	}
	return Call{}, false
}

// Reset drops recorded calls.
func (r *Renderer) Reset() {
	r.mu.Lock()
	r.Calls = nil
	r.mu.Unlock()
}

// ErrMissing is returned by Loader for paths it does not know.
var ErrMissing = errors.New("rendertest: image not found")

// Loader serves images for a fixed set of paths and records every attempt.
type Loader struct {
	mu       sync.Mutex
	Known    map[string]bool
	Attempts []string
}

// NewLoader creates a loader that succeeds only for the given paths.
func NewLoader(known ...string) *Loader {
	l := &Loader{Known: make(map[string]bool)}
	for _, k := range known {
		l.Known[k] = true
	}
	return l
}

func (l *Loader) LoadImage(path string) (render.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Attempts = append(l.Attempts, path)
	if !l.Known[path] {
		return nil, fmt.Errorf("load %s: %w", path, ErrMissing)
	}
	return NewImage(32, 32), nil
}

// AttemptCount returns how many loads were attempted.
func (l *Loader) AttemptCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Attempts)
}

// Input is a scriptable render.InputManager. Tests set Held and call Step
// between frames so just-pressed/released edges are derived from the
// previous frame.
type Input struct {
	Held      map[render.Key]bool
	prev      map[render.Key]bool
	CursorX   int
	CursorY   int
	Click     bool
	prevClick bool
}

// NewInput creates an input with nothing held.
func NewInput() *Input {
	return &Input{Held: make(map[render.Key]bool), prev: make(map[render.Key]bool)}
}

// Step commits the current frame as the previous one.
func (in *Input) Step() {
	in.prev = make(map[render.Key]bool, len(in.Held))
	for k, v := range in.Held {
		in.prev[k] = v
	}
	in.prevClick = in.Click
}

func (in *Input) IsKeyPressed(k render.Key) bool { return in.Held[k] }
func (in *Input) IsKeyJustPressed(k render.Key) bool { return in.Held[k] && !in.prev[k] }
func (in *Input) IsKeyJustReleased(k render.Key) bool { return !in.Held[k] && in.prev[k] }
func (in *Input) GetCursorPosition() (int, int) { return in.CursorX, in.CursorY }
func (in *Input) IsMouseButtonJustPressed(b render.MouseButton) bool {
	return b == render.MouseButtonLeft && in.Click && !in.prevClick
}
