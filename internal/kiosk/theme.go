package kiosk

import (
	"fmt"
	"image/color"

	"chosenoffset.com/arcade/internal/audio"
	"chosenoffset.com/arcade/internal/overlay"
	"chosenoffset.com/arcade/internal/placeholders"
)

// Theme is the look and sound shared by kiosks of one kind
type Theme struct {
	Name    string
	Sound   audio.Theme
	Glow    Glow
	Prompt  string
	Header  string
	Footer  string
	Style   overlay.Style
	Palette placeholders.Palette
}

var arcadeTheme = Theme{
	Name:  "arcade",
	Sound: audio.ThemeArcade,
	Glow: Glow{
		Color:     "#ff00cc",
		Intensity: 0.8,
		Min:       0.35,
		Max:       1,
		Speed:     0.6,
		Direction: 1,
	},
	Prompt: "Press ENTER to play",
	Header: "ARCADE",
	Footer: "Up/Down: select   Enter: play   Esc: close",
	Style: overlay.Style{
		Backdrop:  color.RGBA{0, 0, 0, 180},
		Panel:     color.RGBA{18, 10, 40, 240},
		Border:    color.RGBA{255, 0, 200, 255},
		Header:    color.RGBA{255, 255, 120, 255},
		Text:      color.RGBA{220, 220, 255, 255},
		Dim:       color.RGBA{150, 130, 200, 255},
		Highlight: color.RGBA{0, 240, 255, 255},
		Link:      color.RGBA{255, 150, 230, 255},
	},
	Palette: placeholders.ArcadePalette,
}

var televisionTheme = Theme{
	Name:  "television",
	Sound: audio.ThemeTelevision,
	Glow: Glow{
		Color:     "#78ff8c",
		Intensity: 0.6,
		Min:       0.2,
		Max:       0.8,
		Speed:     0.35,
		Direction: 1,
	},
	Prompt: "Press ENTER to watch",
	Header: "NOW SHOWING",
	Footer: "Up/Down: channel   Enter: watch   Esc: off",
	Style: overlay.Style{
		Backdrop:  color.RGBA{0, 0, 0, 190},
		Panel:     color.RGBA{30, 34, 30, 240},
		Border:    color.RGBA{150, 120, 80, 255},
		Header:    color.RGBA{220, 255, 220, 255},
		Text:      color.RGBA{200, 230, 200, 255},
		Dim:       color.RGBA{120, 150, 120, 255},
		Highlight: color.RGBA{120, 255, 140, 255},
		Link:      color.RGBA{255, 210, 120, 255},
	},
	Palette: placeholders.TelevisionPalette,
}

var themes = map[string]Theme{
	arcadeTheme.Name:     arcadeTheme,
	televisionTheme.Name: televisionTheme,
}

// LookupTheme returns the preset for name. An empty name is the arcade theme.
func LookupTheme(name string) (Theme, error) {
	if name == "" {
		return arcadeTheme, nil
	}
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
	return t, nil
}
