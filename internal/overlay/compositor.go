package overlay

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"time"

	"chosenoffset.com/arcade/internal/render"
)

// Clickable area kinds
const (
	KindExternalLink = "external-link"
	KindItem         = "item"
)

// Default debounce windows
const (
	DefaultClickCooldown = 200 * time.Millisecond
	DefaultURLCooldown   = 2000 * time.Millisecond
)

// Layout constants in overlay pixels
const (
	thumbWidth  = 96
	thumbHeight = 54
	rowHeight   = thumbHeight + 12
	rowPadding  = 10
)

// ClickableArea is a hit region rebuilt on every redraw
type ClickableArea struct {
	Rect
	Kind  string
	URL   string
	Index int
}

// Entry is one row of the menu
type Entry struct {
	Title       string
	Description string
	// Thumb is the loaded or synthesized image; nil draws a lettered stand-in
	Thumb render.Image
	// Action rows (like Close) have no thumbnail and draw as a button
	Action bool
}

// Link is a credit or attribution shown as a button
type Link struct {
	Label string
	URL   string
}

// Style is the colour scheme of a menu
type Style struct {
	Backdrop  color.RGBA
	Panel     color.RGBA
	Border    color.RGBA
	Header    color.RGBA
	Text      color.RGBA
	Dim       color.RGBA
	Highlight color.RGBA
	Link      color.RGBA
}

// DefaultStyle is a neutral dark scheme
func DefaultStyle() Style {
	return Style{
		Backdrop:  color.RGBA{0, 0, 0, 170},
		Panel:     color.RGBA{16, 16, 28, 240},
		Border:    color.RGBA{200, 200, 255, 255},
		Header:    color.RGBA{255, 255, 255, 255},
		Text:      color.RGBA{220, 220, 230, 255},
		Dim:       color.RGBA{140, 140, 160, 255},
		Highlight: color.RGBA{255, 255, 100, 255},
		Link:      color.RGBA{120, 200, 255, 255},
	}
}

// State is everything a redraw needs
type State struct {
	Header        string
	Footer        string
	Entries       []Entry
	SelectedIndex int
	Credits       []Link
	// Elapsed drives the highlight pulse
	Elapsed time.Duration
	Style   Style
}

// Compositor draws one kiosk's menu on the shared overlay and turns pointer
// clicks into actions. The per-URL open times survive Destroy so a link
// cannot be re-opened by reopening the menu within the cooldown.
type Compositor struct {
	name     string
	manager  *Manager
	renderer render.Renderer
	surface  render.Image
	areas    []ClickableArea

	first, last int

	lastClickX, lastClickY int
	lastClickAt            time.Time
	hasClicked             bool
	lastOpened             map[string]time.Time

	// Now is the clock used for debouncing
	Now           func() time.Time
	ClickCooldown time.Duration
	URLCooldown   time.Duration
}

// NewCompositor creates a compositor for the named kiosk
func NewCompositor(name string, manager *Manager, r render.Renderer) *Compositor {
	return &Compositor{
		name:          name,
		manager:       manager,
		renderer:      r,
		lastOpened:    make(map[string]time.Time),
		Now:           time.Now,
		ClickCooldown: DefaultClickCooldown,
		URLCooldown:   DefaultURLCooldown,
	}
}

// EnsureSurface acquires the overlay sized to reference
func (c *Compositor) EnsureSurface(reference render.Surface) (render.Image, error) {
	surface, err := c.manager.Acquire(c.name, reference)
	if err != nil {
		return nil, err
	}
	c.surface = surface
	return surface, nil
}

// Active reports whether this compositor currently holds a surface
func (c *Compositor) Active() bool {
	return c.surface != nil
}

// Window returns the entry range drawn by the last redraw
func (c *Compositor) Window() (first, last int) {
	return c.first, c.last
}

// Areas returns a copy of the hit regions from the last redraw
func (c *Compositor) Areas() []ClickableArea {
	return slices.Clone(c.areas)
}

// Redraw paints the whole menu and rebuilds the hit regions
func (c *Compositor) Redraw(st State) error {
	if c.surface == nil {
		return fmt.Errorf("%s: redraw without surface: %w", c.name, ErrNoReference)
	}
	dst := c.surface
	r := c.renderer
	s := st.Style
	w, h := dst.Size()
	c.areas = c.areas[:0]

	dst.Clear()
	r.FillRect(dst, 0, 0, float32(w), float32(h), s.Backdrop)

	marginX := max(20, w/10)
	marginY := max(16, h/12)
	px, py := marginX, marginY
	pw, ph := w-2*marginX, h-2*marginY
	r.FillRect(dst, float32(px), float32(py), float32(pw), float32(ph), s.Panel)
	r.StrokeRect(dst, float32(px), float32(py), float32(pw), float32(ph), 2, s.Border)

	// Header
	hw, hh := r.MeasureText(st.Header, 2)
	r.DrawText(dst, st.Header, px+(pw-hw)/2, py+rowPadding, s.Header, 2)
	top := py + rowPadding + hh + rowPadding
	r.StrokeLine(dst, float32(px+rowPadding), float32(top), float32(px+pw-rowPadding), float32(top), 1, s.Dim)
	top += rowPadding

	// Footer and credits are laid out from the bottom up
	bottom := py + ph - rowPadding
	fw, fh := r.MeasureText(st.Footer, 1)
	bottom -= fh
	r.DrawText(dst, st.Footer, px+(pw-fw)/2, bottom, s.Dim, 1)
	bottom -= rowPadding

	if len(st.Credits) > 0 {
		bottom = c.drawCredits(st, px, pw, bottom)
	}

	// Item list between header and footer, leaving room for the scroll arrows
	listTop := top + 12
	listBottom := bottom - 12
	fit := (listBottom - listTop) / rowHeight
	c.first, c.last = VisibleWindow(st.SelectedIndex, len(st.Entries), fit)

	pulse := 0.5 + 0.5*math.Sin(st.Elapsed.Seconds()*2*math.Pi*1.5)
	y := listTop
	for i := c.first; i < c.last; i++ {
		c.drawEntry(st, i, px+rowPadding, y, pw-2*rowPadding, i == st.SelectedIndex, pulse)
		y += rowHeight
	}

	// Scroll indicators
	cx := float32(px + pw/2)
	if c.first > 0 {
		drawArrow(r, dst, cx, float32(listTop-4), -1, s.Text)
	}
	if c.last < len(st.Entries) {
		drawArrow(r, dst, cx, float32(listBottom+4), 1, s.Text)
	}

	return nil
}

func (c *Compositor) drawEntry(st State, i, x, y, w int, selected bool, pulse float64) {
	r, dst, s := c.renderer, c.surface, st.Style
	e := st.Entries[i]
	rowH := rowHeight - 4

	if selected {
		hl := s.Highlight
		fill := color.NRGBA{hl.R, hl.G, hl.B, uint8(25 + 30*pulse)}
		r.FillRect(dst, float32(x), float32(y), float32(w), float32(rowH), fill)
		edge := color.NRGBA{hl.R, hl.G, hl.B, uint8(150 + 105*pulse)}
		r.StrokeRect(dst, float32(x), float32(y), float32(w), float32(rowH), float32(1.5+2*pulse), edge)
	}
	c.areas = append(c.areas, ClickableArea{
		Rect:  Rect{X: x, Y: y, W: w, H: rowH},
		Kind:  KindItem,
		Index: i,
	})

	if e.Action {
		label := "[ " + e.Title + " ]"
		lw, lh := r.MeasureText(label, 1.4)
		col := s.Text
		if selected {
			col = s.Highlight
		}
		r.DrawText(dst, label, x+(w-lw)/2, y+(rowH-lh)/2, col, 1.4)
		return
	}

	tx, ty := x+4, y+(rowH-thumbHeight)/2
	if e.Thumb != nil {
		tw, th := e.Thumb.Size()
		if tw > 0 && th > 0 {
			opts := &render.DrawImageOptions{GeoM: render.NewGeoM()}
			opts.GeoM.Scale(float64(thumbWidth)/float64(tw), float64(thumbHeight)/float64(th))
			opts.GeoM.Translate(float64(tx), float64(ty))
			dst.DrawImage(e.Thumb, opts)
		}
	} else {
		// Not resolved yet: lettered card in the menu colours
		r.FillRect(dst, float32(tx), float32(ty), thumbWidth, thumbHeight, s.Panel)
		r.StrokeRect(dst, float32(tx), float32(ty), thumbWidth, thumbHeight, 1, s.Dim)
		r.DrawText(dst, initials(e.Title), tx+8, ty+thumbHeight/2-8, s.Dim, 1.2)
	}
	r.StrokeRect(dst, float32(tx), float32(ty), thumbWidth, thumbHeight, 1, s.Border)

	textX := tx + thumbWidth + rowPadding
	textW := x + w - textX - rowPadding
	titleCol := s.Text
	if selected {
		titleCol = s.Highlight
	}
	title := c.fit(e.Title, textW, 1.4)
	r.DrawText(dst, title, textX, y+6, titleCol, 1.4)
	_, th := r.MeasureText(title, 1.4)
	r.DrawText(dst, c.fit(e.Description, textW, 1), textX, y+10+th, s.Dim, 1)
}

func (c *Compositor) drawCredits(st State, px, pw, bottom int) int {
	r, dst, s := c.renderer, c.surface, st.Style

	_, lh := r.MeasureText("Credits", 1)
	bottom -= lh + 8
	x := px + rowPadding
	label := "Credits:"
	cw, _ := r.MeasureText(label, 1)
	r.DrawText(dst, label, x, bottom+4, s.Dim, 1)
	x += cw + rowPadding

	for _, link := range st.Credits {
		tw, th := r.MeasureText(link.Label, 1)
		bw, bh := tw+8, th+8
		if x+bw > px+pw-rowPadding {
			break
		}
		r.StrokeRect(dst, float32(x), float32(bottom), float32(bw), float32(bh), 1, s.Link)
		r.DrawText(dst, link.Label, x+4, bottom+4, s.Link, 1)
		c.areas = append(c.areas, ClickableArea{
			Rect: Rect{X: x, Y: bottom, W: bw, H: bh},
			Kind: KindExternalLink,
			URL:  link.URL,
		})
		x += bw + rowPadding
	}
	return bottom - rowPadding
}

// fit trims text with an ellipsis until it is no wider than maxW
func (c *Compositor) fit(text string, maxW int, scale float64) string {
	if w, _ := c.renderer.MeasureText(text, scale); w <= maxW {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if w, _ := c.renderer.MeasureText(candidate, scale); w <= maxW {
			return candidate
		}
	}
	return ""
}

func initials(title string) string {
	out := []rune{}
	prevSpace := true
	for _, r := range title {
		if r == ' ' {
			prevSpace = true
			continue
		}
		if prevSpace {
			out = append(out, r)
			if len(out) == 3 {
				break
			}
		}
		prevSpace = false
	}
	return string(out)
}

// drawArrow draws a small triangle pointing up (dir -1) or down (dir 1)
func drawArrow(r render.Renderer, dst render.Image, cx, cy, dir float32, clr color.Color) {
	const size = 6
	tipY := cy + dir*size/2
	baseY := cy - dir*size/2
	r.StrokeLine(dst, cx-size, baseY, cx+size, baseY, 2, clr)
	r.StrokeLine(dst, cx-size, baseY, cx, tipY, 2, clr)
	r.StrokeLine(dst, cx+size, baseY, cx, tipY, 2, clr)
}

// HitTest maps client coordinates through the overlay's position and returns
// the first area containing the point
func (c *Compositor) HitTest(clientX, clientY int) (ClickableArea, bool) {
	if c.surface == nil {
		return ClickableArea{}, false
	}
	origin := c.manager.Bounds().Min
	lx, ly := clientX-origin.X, clientY-origin.Y
	for _, a := range c.areas {
		if a.Contains(lx, ly) {
			return a, true
		}
	}
	return ClickableArea{}, false
}

// HandleClick hit-tests a click and debounces it. A click is dropped when the
// same coordinate was actioned within ClickCooldown or the same URL within
// URLCooldown.
func (c *Compositor) HandleClick(clientX, clientY int) (ClickableArea, bool) {
	now := c.Now()
	if c.hasClicked && clientX == c.lastClickX && clientY == c.lastClickY && now.Sub(c.lastClickAt) < c.ClickCooldown {
		return ClickableArea{}, false
	}

	area, ok := c.HitTest(clientX, clientY)
	if !ok {
		return ClickableArea{}, false
	}
	if area.URL != "" {
		if at, seen := c.lastOpened[area.URL]; seen && now.Sub(at) < c.URLCooldown {
			return ClickableArea{}, false
		}
		c.lastOpened[area.URL] = now
	}

	c.lastClickX, c.lastClickY = clientX, clientY
	c.lastClickAt = now
	c.hasClicked = true
	return area, true
}

// Destroy releases the overlay and forgets the hit regions
func (c *Compositor) Destroy() {
	if c.surface != nil {
		_ = c.manager.Release(c.name)
	}
	c.surface = nil
	c.areas = nil
	c.first, c.last = 0, 0
}
