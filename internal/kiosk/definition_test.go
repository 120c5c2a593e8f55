package kiosk

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func TestLoadDefinitionsJSONOverDefaults(t *testing.T) {
	path := writeFile(t, "kiosks.json", `{
  "kiosks": [
    {
      "name": "tv-1",
      "theme": "television",
      "x": 120,
      "y": 40,
      "glow": {"color": "#00ff00"},
      "items": [
        {"title": "News", "description": "All day", "url": "https://example.com/news", "image": "thumbs/news.png", "fallbacks": ["thumbs/news.jpg"]},
        {"title": "Turn off", "action": "close"}
      ]
    }
  ]
}`)

	defs, err := LoadDefinitions(path)
	if err != nil {
		t.Fatalf("LoadDefinitions failed: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("Expected 1 definition, got %d", len(defs))
	}
	d := defs[0]
	tv := DefaultDefinition("television")

	if d.Prompt != tv.Prompt || d.Header != tv.Header {
		t.Errorf("Expected television texts by default, got %q / %q", d.Prompt, d.Header)
	}
	if d.Radius != tv.Radius || !d.Static {
		t.Errorf("Expected default radius and static, got %v %v", d.Radius, d.Static)
	}
	if d.Glow.Color != "#00ff00" {
		t.Errorf("Expected glow colour overridden, got %q", d.Glow.Color)
	}
	if d.Glow.Max != tv.Glow.Max || d.Glow.Speed != tv.Glow.Speed {
		t.Errorf("Expected untouched glow fields kept, got %+v", d.Glow)
	}
	if d.X != 120 || d.Y != 40 {
		t.Errorf("Expected position (120, 40), got (%v, %v)", d.X, d.Y)
	}
	if len(d.Items) != 2 || !d.Items[1].Closes() || d.Items[0].Fallbacks[0] != "thumbs/news.jpg" {
		t.Errorf("Unexpected items: %+v", d.Items)
	}
}

func TestLoadDefinitionsYAML(t *testing.T) {
	path := writeFile(t, "kiosks.yaml", `
kiosks:
  - name: cabinet-1
    x: 10
    y: 20
    radius: 64
    credits:
      - label: Sprites
        url: https://example.com/sprites
    items:
      - title: Asteroids
        url: https://example.com/asteroids
        image: thumbs/asteroids.png
`)

	defs, err := LoadDefinitions(path)
	if err != nil {
		t.Fatalf("LoadDefinitions failed: %v", err)
	}
	d := defs[0]
	if d.Theme != "arcade" {
		t.Errorf("Expected arcade theme by default, got %q", d.Theme)
	}
	if d.Radius != 64 {
		t.Errorf("Expected radius 64, got %v", d.Radius)
	}
	if d.Footer != arcadeTheme.Footer {
		t.Errorf("Expected default footer, got %q", d.Footer)
	}
	if len(d.Credits) != 1 || d.Credits[0].URL != "https://example.com/sprites" {
		t.Errorf("Unexpected credits: %+v", d.Credits)
	}
}

func TestLoadDefinitionsErrors(t *testing.T) {
	if _, err := LoadDefinitions(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := writeFile(t, "bad.json", `{"kiosks": [`)
	if _, err := LoadDefinitions(bad); err == nil {
		t.Error("Expected parse error")
	}

	dup := writeFile(t, "dup.json", `{"kiosks": [{"name": "a"}, {"name": "a"}]}`)
	if _, err := LoadDefinitions(dup); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("Expected ErrInvalidDefinition for duplicate names, got %v", err)
	}

	invalid := writeFile(t, "invalid.yml", "kiosks:\n  - name: a\n    radius: -1\n")
	if _, err := LoadDefinitions(invalid); !errors.Is(err, ErrInvalidDefinition) {
		t.Errorf("Expected ErrInvalidDefinition for negative radius, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() Definition {
		d := DefaultDefinition("arcade")
		d.Name = "k"
		return d
	}

	tests := []struct {
		name   string
		mutate func(d *Definition)
		ok     bool
	}{
		{"defaults", func(d *Definition) {}, true},
		{"empty catalog", func(d *Definition) { d.Items = nil }, true},
		{"no name", func(d *Definition) { d.Name = " " }, false},
		{"unknown theme", func(d *Definition) { d.Theme = "jukebox" }, false},
		{"zero radius", func(d *Definition) { d.Radius = 0 }, false},
		{"zero width", func(d *Definition) { d.Width = 0 }, false},
		{"sub-pixel width", func(d *Definition) { d.Width = 0.5 }, false},
		{"sub-pixel height", func(d *Definition) { d.Height = 0.99 }, false},
		{"one pixel footprint", func(d *Definition) { d.Width, d.Height = 1, 1 }, true},
		{"glow inverted", func(d *Definition) { d.Glow.Min, d.Glow.Max = 0.9, 0.1 }, false},
		{"glow over one", func(d *Definition) { d.Glow.Max = 1.5 }, false},
		{"bad colour", func(d *Definition) { d.Glow.Color = "pink" }, false},
		{"item without title", func(d *Definition) { d.Items = []Item{{URL: "https://x"}} }, false},
		{"item without url", func(d *Definition) { d.Items = []Item{{Title: "x"}} }, false},
		{"close item without url", func(d *Definition) { d.Items = []Item{{Title: "Close", Action: ActionClose}} }, true},
		{"unknown action", func(d *Definition) { d.Items = []Item{{Title: "x", URL: "https://x", Action: "rewind"}} }, false},
	}

	for _, tt := range tests {
		d := base()
		tt.mutate(&d)
		err := d.Validate()
		if tt.ok && err != nil {
			t.Errorf("%s: expected valid, got %v", tt.name, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidDefinition) {
			t.Errorf("%s: expected ErrInvalidDefinition, got %v", tt.name, err)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#ff00cc", color.RGBA{255, 0, 204, 255}, true},
		{"#f0c", color.RGBA{255, 0, 204, 255}, true},
		{"#11223344", color.RGBA{0x11, 0x22, 0x33, 0x44}, true},
		{"00ff00", color.RGBA{0, 255, 0, 255}, true},
		{"#12345", color.RGBA{}, false},
		{"#zzzzzz", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseColor(%q): expected %v, got %v %v", tt.in, tt.want, got, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseColor(%q): expected error", tt.in)
		}
	}
}

func TestLookupTheme(t *testing.T) {
	if th, err := LookupTheme(""); err != nil || th.Name != "arcade" {
		t.Errorf("Expected arcade for empty theme, got %v %v", th.Name, err)
	}
	if th, err := LookupTheme("television"); err != nil || th.Sound != "television" {
		t.Errorf("Expected television sound theme, got %v %v", th.Sound, err)
	}
	if _, err := LookupTheme("jukebox"); err == nil {
		t.Error("Expected error for unknown theme")
	}
}

func TestBundledDefinitionsLoad(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "data", "kiosks", "*"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(paths) == 0 {
		t.Skip("no bundled definitions")
	}
	for _, path := range paths {
		defs, err := LoadDefinitions(path)
		if err != nil {
			t.Errorf("%s: %v", path, err)
			continue
		}
		for _, def := range defs {
			if len(def.Items) == 0 {
				t.Errorf("%s: kiosk %s has an empty catalog", path, def.Name)
			}
		}
	}
}
