package ebiten

import (
	"bytes"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// baseFontSize is the pixel size of text drawn at scale 1.0
const baseFontSize = 13.0

// fontSet caches faces per scale so the overlay does not rebuild them every frame.
type fontSet struct {
	regular *text.GoTextFaceSource
	bold    *text.GoTextFaceSource
	faces   map[float64]*text.GoTextFace
}

// loadFonts loads the embedded Go fonts. Returns nil when the regular face
// cannot be parsed so callers fall back to the debug font.
func loadFonts() *fontSet {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Printf("[Font] Go Regular failed to load, using debug font: %v", err)
		return nil
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		log.Printf("[Font] Go Bold failed to load, headers use regular: %v", err)
		bold = regular
	}
	return &fontSet{
		regular: regular,
		bold:    bold,
		faces:   make(map[float64]*text.GoTextFace),
	}
}

// face returns the face for a scale. Scales of 1.5 and above are headings and
// use the bold source.
func (f *fontSet) face(scale float64) *text.GoTextFace {
	if scale <= 0 {
		scale = 1
	}
	// Quantize so animated scales do not grow the cache without bound
	key := math.Round(scale*4) / 4
	if face, ok := f.faces[key]; ok {
		return face
	}
	src := f.regular
	if key >= 1.5 {
		src = f.bold
	}
	face := &text.GoTextFace{Source: src, Size: baseFontSize * key}
	f.faces[key] = face
	return face
}

func (f *fontSet) draw(dst *ebiten.Image, str string, x, y int, clr color.Color, scale float64) {
	face := f.face(scale)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, str, face, op)
}

func (f *fontSet) measure(str string, scale float64) (int, int) {
	face := f.face(scale)
	w, h := text.Measure(str, face, face.Size*1.2)
	return int(math.Ceil(w)), int(math.Ceil(h))
}
