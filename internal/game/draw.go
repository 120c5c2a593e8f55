package game

import (
	"image/color"

	"chosenoffset.com/arcade/internal/render"
)

const tileSize = 48

var (
	floorA     = color.RGBA{28, 24, 44, 255}
	floorB     = color.RGBA{34, 30, 54, 255}
	wallColor  = color.RGBA{90, 70, 140, 255}
	playerFill = color.RGBA{255, 255, 100, 255}
	playerEdge = color.RGBA{200, 200, 50, 255}
	hintColor  = color.RGBA{200, 200, 220, 255}
)

// Draw renders the game to the screen.
func (g *Game) Draw(screen render.Image) {
	screen.Fill(color.Black)

	g.drawFloor(screen)
	g.drawKiosks(screen)
	g.drawPlayer(screen)

	// The open menu, if any, sits above the whole world
	g.Overlay.Composite(screen)

	g.drawUI(screen)
}

func (g *Game) drawFloor(screen render.Image) {
	cols := int(g.WorldWidth/tileSize) + 1
	rows := int(g.WorldHeight/tileSize) + 1
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			screenX := float64(x*tileSize) - g.Camera.X
			screenY := float64(y*tileSize) - g.Camera.Y
			if screenX+tileSize < 0 || screenY+tileSize < 0 || screenX > float64(g.ScreenWidth) || screenY > float64(g.ScreenHeight) {
				continue
			}
			clr := floorA
			if (x+y)%2 == 1 {
				clr = floorB
			}
			g.Renderer.FillRect(screen, float32(screenX), float32(screenY), tileSize, tileSize, clr)
		}
	}
	g.Renderer.StrokeRect(screen, float32(-g.Camera.X), float32(-g.Camera.Y), float32(g.WorldWidth), float32(g.WorldHeight), 4, wallColor)
}

func (g *Game) drawKiosks(screen render.Image) {
	for _, k := range g.Kiosks {
		pos := k.Position()
		k.Draw(screen, pos.X-g.Camera.X, pos.Y-g.Camera.Y)
	}
}

func (g *Game) drawPlayer(screen render.Image) {
	playerScreenX := g.Player.Pos.X - g.Camera.X
	playerScreenY := g.Player.Pos.Y - g.Camera.Y

	r := float32(g.Player.Radius)
	g.Renderer.FillCircle(screen, float32(playerScreenX), float32(playerScreenY), r, playerFill)
	g.Renderer.StrokeCircle(screen, float32(playerScreenX), float32(playerScreenY), r, 2, playerEdge)
}

func (g *Game) drawUI(screen render.Image) {
	// Draw on-screen messages
	y := 50.0
	for _, msg := range g.Messages {
		alpha := uint8(255 * (msg.TimeLeft / msg.MaxTime))
		g.Renderer.DrawText(screen, msg.Text, 20, int(y), color.NRGBA{255, 255, 255, alpha}, 1.0)
		y += 20
	}

	if !g.interactionActive {
		hint := "WASD / arrows: walk   Enter: use"
		_, th := g.Renderer.MeasureText(hint, 1)
		g.Renderer.DrawText(screen, hint, 20, g.ScreenHeight-th-12, hintColor, 1)
	}
}
