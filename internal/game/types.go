package game

import (
	"image"

	"chosenoffset.com/arcade/internal/interaction"
)

// Player represents the player's physical state in the world.
type Player struct {
	Pos    interaction.Vec2
	Speed  float64 // World units per second
	Radius float64
}

// Camera tracks the viewport position for scrolling large levels.
type Camera struct {
	X, Y float64 // Camera position (top-left corner of viewport in world coords)
}

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}

// screenSurface is the reference the overlay covers: the logical screen.
type screenSurface image.Rectangle

func (s screenSurface) Bounds() image.Rectangle { return image.Rectangle(s) }
