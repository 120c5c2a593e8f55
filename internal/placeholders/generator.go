// Package placeholders draws procedural stand-in pictures: catalog thumbnail
// cards and cabinet sprites used when no image file could be loaded.
package placeholders

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Default thumbnail dimensions
const (
	ThumbWidth  = 160
	ThumbHeight = 90
)

// Palette is the colour set a placeholder is drawn with
type Palette struct {
	Background color.RGBA
	Border     color.RGBA
	Title      color.RGBA
	Body       color.RGBA
	Accent     color.RGBA
}

// ArcadePalette is the neon-on-black look of the arcade cabinets
var ArcadePalette = Palette{
	Background: color.RGBA{18, 10, 40, 255},
	Border:     color.RGBA{255, 0, 200, 255},
	Title:      color.RGBA{255, 255, 120, 255},
	Body:       color.RGBA{190, 190, 255, 255},
	Accent:     color.RGBA{0, 240, 255, 255},
}

// TelevisionPalette is the warm CRT look of the television sets
var TelevisionPalette = Palette{
	Background: color.RGBA{30, 34, 30, 255},
	Border:     color.RGBA{150, 120, 80, 255},
	Title:      color.RGBA{220, 255, 220, 255},
	Body:       color.RGBA{160, 200, 160, 255},
	Accent:     color.RGBA{120, 255, 140, 255},
}

// CreateSolid creates a solid-colored image
func CreateSolid(w, h int, col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
	return img
}

// CreateBordered creates an image with a border
func CreateBordered(w, h int, fillColor, borderColor color.RGBA, borderWidth int) *image.RGBA {
	img := CreateSolid(w, h, fillColor)

	for i := 0; i < borderWidth; i++ {
		// Top and bottom borders
		for x := 0; x < w; x++ {
			img.Set(x, i, borderColor)
			img.Set(x, h-1-i, borderColor)
		}
		// Left and right borders
		for y := 0; y < h; y++ {
			img.Set(i, y, borderColor)
			img.Set(w-1-i, y, borderColor)
		}
	}

	return img
}

// ThumbnailCard draws a catalog card with the item's title and a wrapped
// description. This is the terminal fallback for an item image.
func ThumbnailCard(title, description string, pal Palette, w, h int) *image.RGBA {
	if w <= 0 || h <= 0 {
		w, h = ThumbWidth, ThumbHeight
	}
	img := CreateBordered(w, h, pal.Background, pal.Border, 2)

	// Scanline stripes so the card reads as a screen
	stripe := Darken(pal.Background, 0.7)
	for y := 4; y < h-4; y += 4 {
		for x := 3; x < w-3; x++ {
			img.Set(x, y, stripe)
		}
	}

	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()
	maxChars := (w - 12) / 7
	if maxChars < 4 {
		maxChars = 4
	}

	y := 6 + face.Metrics().Ascent.Ceil()
	for _, line := range WrapText(strings.ToUpper(title), maxChars) {
		if y > h-4 {
			return img
		}
		drawString(img, line, 6, y, pal.Title)
		y += lineHeight
	}

	// Accent rule under the title
	for x := 6; x < w-6; x++ {
		img.Set(x, y-lineHeight+lineHeight/2+2, pal.Accent)
	}
	y += 4

	for _, line := range WrapText(description, maxChars) {
		if y > h-4 {
			break
		}
		drawString(img, line, 6, y, pal.Body)
		y += lineHeight
	}

	return img
}

// CabinetSprite draws a kiosk body when the sprite file is missing.
// Theme "television" draws a CRT set, anything else an upright arcade cabinet.
func CabinetSprite(theme string, pal Palette, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	if theme == "television" {
		body := CreateBordered(w, h*3/4, Darken(pal.Border, 0.6), pal.Border, 2)
		draw.Draw(img, image.Rect(0, h/4, w, h), body, image.Point{}, draw.Src)
		screen := image.Rect(w/8, h/4+h/10, w*5/8, h-h/8)
		draw.Draw(img, screen, &image.Uniform{pal.Background}, image.Point{}, draw.Src)
		// Knobs
		for i := 0; i < 2; i++ {
			cy := h/4 + h/5 + i*h/5
			fillDisc(img, w*13/16, cy, w/16, pal.Accent)
		}
		// Antennae
		for i := 0; i < h/4; i++ {
			img.Set(w/2-i/2, h/4-i, pal.Border)
			img.Set(w/2+i/2, h/4-i, pal.Border)
		}
		return img
	}

	body := CreateBordered(w, h, Darken(pal.Background, 0.8), pal.Border, 2)
	draw.Draw(img, img.Bounds(), body, image.Point{}, draw.Src)
	// Marquee
	marquee := image.Rect(3, 3, w-3, h/6)
	draw.Draw(img, marquee, &image.Uniform{pal.Accent}, image.Point{}, draw.Src)
	// Screen
	screen := image.Rect(w/8, h/5, w-w/8, h/2)
	draw.Draw(img, screen, &image.Uniform{pal.Background}, image.Point{}, draw.Src)
	// Control deck with a joystick and two buttons
	deck := image.Rect(3, h/2+h/12, w-3, h/2+h/5)
	draw.Draw(img, deck, &image.Uniform{Lighten(pal.Background, 0.2)}, image.Point{}, draw.Src)
	deckY := (deck.Min.Y + deck.Max.Y) / 2
	fillDisc(img, w/4, deckY, w/14+1, pal.Title)
	fillDisc(img, w*3/5, deckY, w/18+1, pal.Border)
	fillDisc(img, w*3/4, deckY, w/18+1, pal.Accent)
	return img
}

// WrapText splits text into lines of at most maxChars runes on word boundaries.
// Words longer than a line are hard-split.
func WrapText(text string, maxChars int) []string {
	if maxChars <= 0 {
		return nil
	}
	words := strings.Fields(text)
	var lines []string
	var current string

	for _, word := range words {
		for len([]rune(word)) > maxChars {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			r := []rune(word)
			lines = append(lines, string(r[:maxChars]))
			word = string(r[maxChars:])
		}
		if current == "" {
			current = word
			continue
		}
		if len([]rune(current))+1+len([]rune(word)) > maxChars {
			lines = append(lines, current)
			current = word
		} else {
			current += " " + word
		}
	}

	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func drawString(img *image.RGBA, s string, x, y int, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func fillDisc(img *image.RGBA, cx, cy, radius int, col color.RGBA) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, col)
			}
		}
	}
}

// SavePNG saves an image to a PNG file
func SavePNG(img image.Image, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// Darken returns a darker version of a color
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// Lighten returns a lighter version of a color
func Lighten(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) + (255-float64(c.R))*factor),
		G: uint8(float64(c.G) + (255-float64(c.G))*factor),
		B: uint8(float64(c.B) + (255-float64(c.B))*factor),
		A: c.A,
	}
}
