package overlay

import (
	"errors"
	"fmt"
	"image"
	"testing"
	"time"

	"chosenoffset.com/arcade/internal/render/rendertest"
)

type refSurface image.Rectangle

func (s refSurface) Bounds() image.Rectangle { return image.Rectangle(s) }

func screen() refSurface {
	return refSurface(image.Rect(0, 0, 800, 600))
}

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		selected, total, fit int
		first, last          int
	}{
		{0, 3, 5, 0, 3},
		{2, 3, 3, 0, 3},
		{0, 10, 4, 0, 4},
		{5, 10, 4, 3, 7},
		{9, 10, 4, 6, 10},
		{7, 10, 1, 7, 8},
		{3, 10, 0, 3, 4},
		{0, 0, 4, 0, 0},
	}
	for _, tt := range tests {
		first, last := VisibleWindow(tt.selected, tt.total, tt.fit)
		if first != tt.first || last != tt.last {
			t.Errorf("VisibleWindow(%d, %d, %d): expected [%d, %d), got [%d, %d)",
				tt.selected, tt.total, tt.fit, tt.first, tt.last, first, last)
		}
		if tt.total > 0 && (tt.selected < first || tt.selected >= last) {
			t.Errorf("VisibleWindow(%d, %d, %d) does not contain the selection", tt.selected, tt.total, tt.fit)
		}
	}
}

func TestManagerSingleOwner(t *testing.T) {
	r := rendertest.NewRenderer()
	m := NewManager(r)

	s1, err := m.Acquire("arcade", screen())
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if w, h := s1.Size(); w != 800 || h != 600 {
		t.Errorf("Expected 800x600 overlay, got %dx%d", w, h)
	}

	// Reused by the same owner across frames
	s2, err := m.Acquire("arcade", screen())
	if err != nil || s2 != s1 {
		t.Errorf("Expected the same surface on reacquire, got %v %v", s2, err)
	}

	if _, err := m.Acquire("television", screen()); !errors.Is(err, ErrSurfaceBusy) {
		t.Errorf("Expected ErrSurfaceBusy for a second owner, got %v", err)
	}
	if err := m.Release("television"); !errors.Is(err, ErrSurfaceBusy) {
		t.Errorf("Expected foreign release rejected, got %v", err)
	}

	if err := m.Release("arcade"); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if !s1.(*rendertest.Image).Disposed {
		t.Error("Expected surface disposed on release")
	}
	if m.Active() || m.Owner() != "" {
		t.Error("Expected manager free after release")
	}

	if _, err := m.Acquire("television", screen()); err != nil {
		t.Errorf("Expected acquire after release to succeed, got %v", err)
	}
	if m.Created() != 2 {
		t.Errorf("Expected 2 surfaces created, got %d", m.Created())
	}
}

func TestManagerRecreatesOnResize(t *testing.T) {
	m := NewManager(rendertest.NewRenderer())
	s1, _ := m.Acquire("arcade", screen())
	s2, err := m.Acquire("arcade", refSurface(image.Rect(0, 0, 1024, 768)))
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if s1 == s2 {
		t.Error("Expected a new surface after resize")
	}
	if !s1.(*rendertest.Image).Disposed {
		t.Error("Expected old surface disposed")
	}
	if w, _ := s2.Size(); w != 1024 {
		t.Errorf("Expected width 1024, got %d", w)
	}
}

func TestManagerNoReference(t *testing.T) {
	m := NewManager(rendertest.NewRenderer())
	if _, err := m.Acquire("arcade", nil); !errors.Is(err, ErrNoReference) {
		t.Errorf("Expected ErrNoReference for nil, got %v", err)
	}
	if _, err := m.Acquire("arcade", refSurface(image.Rectangle{})); !errors.Is(err, ErrNoReference) {
		t.Errorf("Expected ErrNoReference for empty bounds, got %v", err)
	}
	if m.Active() {
		t.Error("Expected no surface")
	}
}

func TestManagerComposite(t *testing.T) {
	m := NewManager(rendertest.NewRenderer())
	dst := rendertest.NewImage(800, 600)

	m.Composite(dst)
	if dst.Draws != 0 {
		t.Error("Expected nothing composited without an overlay")
	}

	m.Acquire("arcade", screen())
	m.Composite(dst)
	if dst.Draws != 1 {
		t.Errorf("Expected 1 composite draw, got %d", dst.Draws)
	}
}

func entries(n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = Entry{Title: fmt.Sprintf("Game %d", i), Description: "A game"}
	}
	return out
}

func newCompositor(t *testing.T) (*Compositor, *Manager, *rendertest.Renderer, *time.Time) {
	t.Helper()
	r := rendertest.NewRenderer()
	m := NewManager(r)
	c := NewCompositor("arcade", m, r)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.Now = func() time.Time { return now }
	if _, err := c.EnsureSurface(screen()); err != nil {
		t.Fatalf("EnsureSurface failed: %v", err)
	}
	return c, m, r, &now
}

func linkArea(t *testing.T, c *Compositor, url string) ClickableArea {
	t.Helper()
	for _, a := range c.Areas() {
		if a.Kind == KindExternalLink && a.URL == url {
			return a
		}
	}
	t.Fatalf("No clickable area for %s in %v", url, c.Areas())
	return ClickableArea{}
}

func TestRedrawRequiresSurface(t *testing.T) {
	r := rendertest.NewRenderer()
	c := NewCompositor("arcade", NewManager(r), r)
	if err := c.Redraw(State{}); !errors.Is(err, ErrNoReference) {
		t.Errorf("Expected ErrNoReference, got %v", err)
	}
}

func TestRedrawDrawsMenu(t *testing.T) {
	c, _, r, _ := newCompositor(t)

	st := State{
		Header:        "ARCADE",
		Footer:        "Up/Down select - Enter play - Esc close",
		Entries:       append(entries(3), Entry{Title: "Close", Action: true}),
		SelectedIndex: 1,
		Style:         DefaultStyle(),
	}
	if err := c.Redraw(st); err != nil {
		t.Fatalf("Redraw failed: %v", err)
	}

	for _, want := range []string{"ARCADE", st.Footer, "Game 0", "Game 2", "[ Close ]"} {
		if _, ok := r.FindText(want); !ok {
			t.Errorf("Expected %q drawn, got %v", want, r.Texts())
		}
	}
	if first, last := c.Window(); first != 0 || last != 4 {
		t.Errorf("Expected all 4 entries visible, got [%d, %d)", first, last)
	}

	items := 0
	for _, a := range c.Areas() {
		if a.Kind == KindItem {
			items++
		}
	}
	if items != 4 {
		t.Errorf("Expected 4 item areas, got %d", items)
	}

	// Areas are rebuilt, not accumulated
	c.Redraw(st)
	if len(c.Areas()) != 4 {
		t.Errorf("Expected 4 areas after second redraw, got %d", len(c.Areas()))
	}
}

func TestAreasSurviveLaterRedraw(t *testing.T) {
	c, _, _, _ := newCompositor(t)

	st := State{Entries: entries(3), Style: DefaultStyle()}
	if err := c.Redraw(st); err != nil {
		t.Fatalf("Redraw failed: %v", err)
	}
	kept := c.Areas()
	before := append([]ClickableArea(nil), kept...)

	st.Entries = entries(1)
	st.Credits = []Link{{Label: "Credits", URL: "https://example.com/credits"}}
	if err := c.Redraw(st); err != nil {
		t.Fatalf("Redraw failed: %v", err)
	}

	if len(kept) != len(before) {
		t.Fatalf("Expected %d kept areas, got %d", len(before), len(kept))
	}
	for i := range kept {
		if kept[i] != before[i] {
			t.Errorf("Area %d changed after redraw: %+v -> %+v", i, before[i], kept[i])
		}
	}
}

func TestRedrawSlidingWindow(t *testing.T) {
	c, _, r, _ := newCompositor(t)
	st := State{Header: "TV", Entries: entries(20), SelectedIndex: 19, Style: DefaultStyle()}

	c.Redraw(st)
	first, last := c.Window()
	if last != 20 || first == 0 {
		t.Errorf("Expected window ending at 20 and scrolled, got [%d, %d)", first, last)
	}
	if _, ok := r.FindText("Game 0"); ok {
		t.Error("Expected off-window entries not drawn")
	}

	lines := 0
	for _, call := range r.Calls {
		if call.Op == "StrokeLine" {
			lines++
		}
	}
	// Header rule plus one up arrow of three strokes
	if lines != 4 {
		t.Errorf("Expected header rule and up arrow only, got %d lines", lines)
	}
}

func TestHitTestTranslatesClientCoordinates(t *testing.T) {
	r := rendertest.NewRenderer()
	m := NewManager(r)
	c := NewCompositor("arcade", m, r)
	c.EnsureSurface(refSurface(image.Rect(100, 50, 900, 650)))
	c.Redraw(State{
		Header:  "ARCADE",
		Entries: entries(1),
		Credits: []Link{{Label: "Sprites", URL: "https://example.com/sprites"}},
		Style:   DefaultStyle(),
	})

	a := linkArea(t, c, "https://example.com/sprites")
	cx, cy := a.X+a.W/2, a.Y+a.H/2

	if hit, _ := c.HitTest(cx, cy); hit.URL == a.URL {
		t.Error("Expected untranslated coordinates to miss the link")
	}
	hit, ok := c.HitTest(cx+100, cy+50)
	if !ok || hit.URL != a.URL {
		t.Errorf("Expected client click to hit the link, got %+v %v", hit, ok)
	}
}

func TestHandleClickDebounce(t *testing.T) {
	c, _, _, now := newCompositor(t)
	c.Redraw(State{
		Header:  "ARCADE",
		Entries: entries(1),
		Credits: []Link{{Label: "Music", URL: "https://example.com/music"}},
		Style:   DefaultStyle(),
	})
	a := linkArea(t, c, "https://example.com/music")
	x, y := a.X+2, a.Y+2

	opens := 0
	click := func(cx, cy int) {
		if hit, ok := c.HandleClick(cx, cy); ok && hit.Kind == KindExternalLink {
			opens++
		}
	}

	click(x, y)
	*now = now.Add(50 * time.Millisecond)
	click(x, y) // same coordinate inside the general window
	*now = now.Add(300 * time.Millisecond)
	click(x+1, y+1) // new coordinate, same URL inside the per-URL window
	if opens != 1 {
		t.Fatalf("Expected exactly 1 open inside the cooldowns, got %d", opens)
	}

	*now = now.Add(2 * time.Second)
	click(x, y)
	if opens != 2 {
		t.Errorf("Expected a second open after the cooldown, got %d", opens)
	}
}

func TestHandleClickMissDoesNotArmDebounce(t *testing.T) {
	c, _, _, now := newCompositor(t)
	c.Redraw(State{Header: "ARCADE", Entries: entries(2), Style: DefaultStyle()})

	if _, ok := c.HandleClick(1, 1); ok {
		t.Error("Expected miss on the backdrop")
	}
	item := c.Areas()[0]
	*now = now.Add(10 * time.Millisecond)
	hit, ok := c.HandleClick(item.X+1, item.Y+1)
	if !ok || hit.Kind != KindItem || hit.Index != 0 {
		t.Errorf("Expected item 0 hit, got %+v %v", hit, ok)
	}
}

func TestDestroyAndRecreate(t *testing.T) {
	c, m, _, now := newCompositor(t)
	st := State{
		Header:  "ARCADE",
		Entries: entries(1),
		Credits: []Link{{Label: "Art", URL: "https://example.com/art"}},
		Style:   DefaultStyle(),
	}
	c.Redraw(st)
	a := linkArea(t, c, "https://example.com/art")
	if _, ok := c.HandleClick(a.X+1, a.Y+1); !ok {
		t.Fatal("Expected first click to open")
	}

	c.Destroy()
	if m.Active() || c.Active() {
		t.Error("Expected overlay gone after Destroy")
	}
	if len(c.Areas()) != 0 {
		t.Error("Expected no clickable areas after Destroy")
	}
	if _, ok := c.HitTest(a.X+1, a.Y+1); ok {
		t.Error("Expected no hits after Destroy")
	}
	c.Destroy()

	if _, err := c.EnsureSurface(screen()); err != nil {
		t.Fatalf("Expected clean recreate, got %v", err)
	}
	if m.Created() != 2 {
		t.Errorf("Expected a fresh surface, got %d created", m.Created())
	}

	// The per-URL history outlives the overlay
	c.Redraw(st)
	*now = now.Add(500 * time.Millisecond)
	if _, ok := c.HandleClick(a.X+3, a.Y+3); ok {
		t.Error("Expected URL still cooling down after reopen")
	}
}
