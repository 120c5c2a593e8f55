package game

import (
	"image"
	"log"
	"math"

	"chosenoffset.com/arcade/internal/input"
	"chosenoffset.com/arcade/internal/interaction"
	"chosenoffset.com/arcade/internal/kiosk"
	"chosenoffset.com/arcade/internal/overlay"
	"chosenoffset.com/arcade/internal/render"
)

// Game holds all world state and logic.
type Game struct {
	ScreenWidth  int
	ScreenHeight int
	WorldWidth   float64
	WorldHeight  float64
	Player       Player
	Camera       Camera
	Renderer     render.Renderer
	InputMgr     render.InputManager

	// Input routing: the poller feeds the router, the world reads the model
	Router *input.Router
	Poller *input.Poller

	// Shared kiosk resources
	Lock    *interaction.Lock
	Overlay *overlay.Manager
	Kiosks  []*kiosk.Kiosk

	// UI state
	Messages []Message

	// Set through the interaction lock while a kiosk menu is open
	interactionActive bool
}

// NewGame creates an empty world of the given size. Kiosks are added with AddKiosk.
func NewGame(r render.Renderer, in render.InputManager, screenWidth, screenHeight int, worldWidth, worldHeight float64) *Game {
	g := &Game{
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		WorldWidth:   worldWidth,
		WorldHeight:  worldHeight,
		Player: Player{
			Pos:    interaction.Vec2{X: worldWidth / 2, Y: worldHeight - 80},
			Speed:  180,
			Radius: 12,
		},
		Renderer: r,
		InputMgr: in,
		Router:   input.NewRouter(input.NewModel()),
		Overlay:  overlay.NewManager(r),
	}
	g.Lock = interaction.NewLock(g.SetInteractionActive)
	if in != nil {
		g.Poller = input.NewPoller(in)
	}
	return g
}

// AddKiosk registers a kiosk with the world
func (g *Game) AddKiosk(k *kiosk.Kiosk) {
	g.Kiosks = append(g.Kiosks, k)
}

// PlayerPosition returns the player's position in world units
func (g *Game) PlayerPosition() interaction.Vec2 {
	return g.Player.Pos
}

// SetInteractionActive suspends or resumes player movement. It is the
// interaction lock's change hook.
func (g *Game) SetInteractionActive(active bool) {
	g.interactionActive = active
	if !active {
		// Nothing the menu swallowed may read as held afterwards
		g.Router.Model().Clear()
	}
}

// InteractionActive reports whether a kiosk menu holds the player
func (g *Game) InteractionActive() bool {
	return g.interactionActive
}

// Reference returns the surface kiosk overlays must cover, or nil before
// the screen size is known.
func (g *Game) Reference() render.Surface {
	if g.ScreenWidth <= 0 || g.ScreenHeight <= 0 {
		return nil
	}
	return screenSurface(image.Rect(0, 0, g.ScreenWidth, g.ScreenHeight))
}

// Update handles game logic updates.
func (g *Game) Update() error {
	// Delta time for timers (assuming 60 FPS)
	dt := 1.0 / 60.0

	// Update message timers
	g.updateMessages(dt)

	// Key and click edges go to whoever is on top of the router
	if g.Poller != nil {
		g.Poller.Poll(g.Router)
	}

	if !g.interactionActive {
		g.movePlayer(dt)
	}

	player := g.PlayerPosition()
	for _, k := range g.Kiosks {
		if err := k.Update(dt, player); err != nil {
			return err
		}
	}

	// Update camera to follow player
	g.UpdateCamera()

	return nil
}

func (g *Game) movePlayer(dt float64) {
	m := g.Router.Model()
	var dx, dy float64
	if m.IsKeyDown(render.KeyW) || m.IsKeyDown(render.KeyUp) {
		dy--
	}
	if m.IsKeyDown(render.KeyS) || m.IsKeyDown(render.KeyDown) {
		dy++
	}
	if m.IsKeyDown(render.KeyA) || m.IsKeyDown(render.KeyLeft) {
		dx--
	}
	if m.IsKeyDown(render.KeyD) || m.IsKeyDown(render.KeyRight) {
		dx++
	}
	if dx == 0 && dy == 0 {
		return
	}

	// Diagonals are no faster than straight lines
	l := math.Hypot(dx, dy)
	step := g.Player.Speed * dt
	g.Player.Pos.X += dx / l * step
	g.Player.Pos.Y += dy / l * step

	r := g.Player.Radius
	g.Player.Pos.X = math.Max(r, math.Min(g.WorldWidth-r, g.Player.Pos.X))
	g.Player.Pos.Y = math.Max(r, math.Min(g.WorldHeight-r, g.Player.Pos.Y))
}

// Layout returns the game's logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.ScreenWidth, g.ScreenHeight
}

func (g *Game) updateMessages(dt float64) {
	var active []Message
	for _, msg := range g.Messages {
		msg.TimeLeft -= dt
		if msg.TimeLeft > 0 {
			active = append(active, msg)
		}
	}
	g.Messages = active
}

// ShowMessage adds a new message to be displayed on screen.
func (g *Game) ShowMessage(text string) {
	g.Messages = append(g.Messages, Message{
		Text:     text,
		TimeLeft: 3.0,
		MaxTime:  3.0,
	})

	log.Printf("Message: %s", text)
}

// UpdateCamera updates the camera to follow the player.
func (g *Game) UpdateCamera() {
	// Center camera on player
	g.Camera.X = g.Player.Pos.X - float64(g.ScreenWidth)/2
	g.Camera.Y = g.Player.Pos.Y - float64(g.ScreenHeight)/2

	// Clamp camera to world bounds; a world smaller than the screen is centred
	if g.WorldWidth <= float64(g.ScreenWidth) {
		g.Camera.X = (g.WorldWidth - float64(g.ScreenWidth)) / 2
	} else {
		g.Camera.X = math.Max(0, math.Min(g.WorldWidth-float64(g.ScreenWidth), g.Camera.X))
	}
	if g.WorldHeight <= float64(g.ScreenHeight) {
		g.Camera.Y = (g.WorldHeight - float64(g.ScreenHeight)) / 2
	} else {
		g.Camera.Y = math.Max(0, math.Min(g.WorldHeight-float64(g.ScreenHeight), g.Camera.Y))
	}
}

// Destroy tears down every kiosk
func (g *Game) Destroy() {
	for _, k := range g.Kiosks {
		k.Destroy()
	}
}
