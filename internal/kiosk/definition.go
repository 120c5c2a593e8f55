// Package kiosk implements the proximity-triggered kiosks of the arcade world:
// cabinets and television sets that open a modal catalog menu when the player
// walks up and presses confirm. Every kiosk is the same type configured by a
// Definition loaded from a data file.
package kiosk

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidDefinition is returned when a definition fails validation
	ErrInvalidDefinition = errors.New("invalid kiosk definition")
	// ErrEmptyCatalog is logged when confirm is pressed on a kiosk with no items
	ErrEmptyCatalog = errors.New("kiosk catalog is empty")
)

// Item actions
const (
	ActionLaunch = "launch"
	ActionClose  = "close"
)

// File is the layout of a kiosk definitions file
type File struct {
	Kiosks []Definition `json:"kiosks" yaml:"kiosks" jsonschema:"description=Kiosks placed in the world"`
}

// Definition configures one kiosk
type Definition struct {
	Name  string `json:"name" yaml:"name" jsonschema:"required"`
	Theme string `json:"theme" yaml:"theme" jsonschema:"enum=arcade,enum=television"`

	// World placement; X and Y are the centre of the footprint
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Static bool    `json:"static" yaml:"static"`
	Radius float64 `json:"radius" yaml:"radius" jsonschema:"description=Interaction radius in world units"`

	Glow Glow `json:"glow" yaml:"glow"`

	Sprite          string   `json:"sprite" yaml:"sprite"`
	SpriteFallbacks []string `json:"sprite_fallbacks,omitempty" yaml:"sprite_fallbacks,omitempty"`

	Header string `json:"header" yaml:"header"`
	Footer string `json:"footer" yaml:"footer"`
	Prompt string `json:"prompt" yaml:"prompt"`

	Items   []Item   `json:"items" yaml:"items"`
	Credits []Credit `json:"credits,omitempty" yaml:"credits,omitempty"`
}

// Glow is the pulsing light around a kiosk
type Glow struct {
	Color     string  `json:"color" yaml:"color" jsonschema:"description=Hex colour like #ff00cc"`
	Intensity float64 `json:"intensity" yaml:"intensity"`
	Min       float64 `json:"min" yaml:"min"`
	Max       float64 `json:"max" yaml:"max"`
	Speed     float64 `json:"speed" yaml:"speed" jsonschema:"description=Glow change per second"`
	Direction int     `json:"direction" yaml:"direction" jsonschema:"enum=-1,enum=1"`
}

// Item is one catalog entry
type Item struct {
	Title       string   `json:"title" yaml:"title" jsonschema:"required"`
	Description string   `json:"description" yaml:"description"`
	URL         string   `json:"url" yaml:"url"`
	Image       string   `json:"image" yaml:"image"`
	Fallbacks   []string `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
	Action      string   `json:"action,omitempty" yaml:"action,omitempty" jsonschema:"enum=launch,enum=close"`
}

// Closes reports whether confirming this item closes the menu instead of launching
func (it Item) Closes() bool {
	return it.Action == ActionClose
}

// Credit is an attribution link shown at the bottom of the menu
type Credit struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// DefaultDefinition returns the values a definition file overrides
func DefaultDefinition(theme string) Definition {
	t, err := LookupTheme(theme)
	if err != nil {
		t = arcadeTheme
	}
	return Definition{
		Theme:  t.Name,
		Width:  48,
		Height: 72,
		Static: true,
		Radius: 80,
		Glow:   t.Glow,
		Header: t.Header,
		Footer: t.Footer,
		Prompt: t.Prompt,
	}
}

// Validate checks a definition for values the kiosk cannot work with.
// An empty catalog is allowed; confirm on such a kiosk does nothing.
func (d *Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidDefinition)
	}
	if _, err := LookupTheme(d.Theme); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, d.Name, err)
	}
	if d.Radius <= 0 {
		return fmt.Errorf("%w: %s: radius must be positive, got %v", ErrInvalidDefinition, d.Name, d.Radius)
	}
	if d.Width < 1 || d.Height < 1 {
		return fmt.Errorf("%w: %s: footprint must be at least 1x1, got %vx%v", ErrInvalidDefinition, d.Name, d.Width, d.Height)
	}
	if d.Glow.Min < 0 || d.Glow.Max > 1 || d.Glow.Min > d.Glow.Max {
		return fmt.Errorf("%w: %s: glow range [%v, %v] must lie within [0, 1]", ErrInvalidDefinition, d.Name, d.Glow.Min, d.Glow.Max)
	}
	if _, err := ParseColor(d.Glow.Color); err != nil {
		return fmt.Errorf("%w: %s: glow color: %v", ErrInvalidDefinition, d.Name, err)
	}
	for i, it := range d.Items {
		if strings.TrimSpace(it.Title) == "" {
			return fmt.Errorf("%w: %s: item %d has no title", ErrInvalidDefinition, d.Name, i)
		}
		switch it.Action {
		case "", ActionLaunch:
			if it.URL == "" {
				return fmt.Errorf("%w: %s: item %q has no url", ErrInvalidDefinition, d.Name, it.Title)
			}
		case ActionClose:
		default:
			return fmt.Errorf("%w: %s: item %q has unknown action %q", ErrInvalidDefinition, d.Name, it.Title, it.Action)
		}
	}
	return nil
}

// LoadDefinitions reads a JSON or YAML definitions file, chosen by extension.
// Each kiosk is decoded over DefaultDefinition for its theme and validated.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read kiosk definitions: %w", err)
	}

	var defs []Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		defs, err = decodeYAML(data)
	default:
		defs, err = decodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	seen := make(map[string]bool, len(defs))
	for i := range defs {
		if err := defs[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if seen[defs[i].Name] {
			return nil, fmt.Errorf("%s: %w: duplicate name %q", path, ErrInvalidDefinition, defs[i].Name)
		}
		seen[defs[i].Name] = true
	}
	return defs, nil
}

type themePeek struct {
	Theme string `json:"theme" yaml:"theme"`
}

func decodeJSON(data []byte) ([]Definition, error) {
	var raw struct {
		Kiosks []json.RawMessage `json:"kiosks"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	defs := make([]Definition, 0, len(raw.Kiosks))
	for i, msg := range raw.Kiosks {
		var peek themePeek
		if err := json.Unmarshal(msg, &peek); err != nil {
			return nil, fmt.Errorf("kiosk %d: %w", i, err)
		}
		def := DefaultDefinition(peek.Theme)
		if err := json.Unmarshal(msg, &def); err != nil {
			return nil, fmt.Errorf("kiosk %d: %w", i, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func decodeYAML(data []byte) ([]Definition, error) {
	var raw struct {
		Kiosks []yaml.Node `yaml:"kiosks"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	defs := make([]Definition, 0, len(raw.Kiosks))
	for i := range raw.Kiosks {
		node := &raw.Kiosks[i]
		var peek themePeek
		if err := node.Decode(&peek); err != nil {
			return nil, fmt.Errorf("kiosk %d: %w", i, err)
		}
		def := DefaultDefinition(peek.Theme)
		if err := node.Decode(&def); err != nil {
			return nil, fmt.Errorf("kiosk %d: %w", i, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// ParseColor parses #rgb, #rrggbb or #rrggbbaa
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	c := color.RGBA{A: 255}
	var err error
	switch len(hex) {
	case 3:
		_, err = fmt.Sscanf(hex, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	case 6:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		return c, fmt.Errorf("bad colour %q", s)
	}
	if err != nil {
		return c, fmt.Errorf("bad colour %q: %w", s, err)
	}
	return c, nil
}
