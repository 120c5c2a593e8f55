package game

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"path/filepath"
	"time"

	"chosenoffset.com/arcade/internal/asset"
	"chosenoffset.com/arcade/internal/audio"
	"chosenoffset.com/arcade/internal/gamescanner"
	"chosenoffset.com/arcade/internal/kiosk"
	"chosenoffset.com/arcade/internal/render"
)

// Manager loads the world from the data directory and drives it.
type Manager struct {
	ScreenWidth  int
	ScreenHeight int
	Game         *Game
	Renderer     render.Renderer
	InputMgr     render.InputManager
	Loader       render.ResourceLoader

	// DataDir is where definitions live and asset paths resolve from
	DataDir string

	// Audio settings and the output every kiosk engine plays into
	Audio       *audio.Config
	AudioOutput audio.Output

	Launcher   kiosk.Launcher
	RetryDelay time.Duration
}

// NewManager creates a new game manager.
func NewManager(r render.Renderer, input render.InputManager, loader render.ResourceLoader, width, height int) *Manager {
	return &Manager{
		ScreenWidth:  width,
		ScreenHeight: height,
		Renderer:     r,
		InputMgr:     input,
		Loader:       loader,
		RetryDelay:   asset.DefaultRetryDelay,
	}
}

// ResolveAssetPath maps a logical asset path from a definition file to a
// path the loader can open. Relative paths are relative to the data directory.
func (m *Manager) ResolveAssetPath(logical string) string {
	if logical == "" || filepath.IsAbs(logical) {
		return logical
	}
	return filepath.Join(m.DataDir, filepath.FromSlash(logical))
}

// LoadWorld builds the world from every definitions file under dataDir.
// Files that fail to load are skipped with a warning.
func (m *Manager) LoadWorld(dataDir string) error {
	m.DataDir = dataDir

	log.Println("Scanning data directory for kiosk definitions...")
	files, err := gamescanner.ScanDataDirectory(dataDir)
	if err != nil {
		return err
	}

	var defs []kiosk.Definition
	seen := make(map[string]string)
	for _, f := range files {
		loaded, err := kiosk.LoadDefinitions(f.Path)
		if err != nil {
			log.Printf("Warning: Failed to load %s: %v", f.Path, err)
			continue
		}
		for _, def := range loaded {
			if prev, dup := seen[def.Name]; dup {
				log.Printf("Warning: kiosk %q in %s already defined in %s, skipping", def.Name, f.Path, prev)
				continue
			}
			seen[def.Name] = f.Path
			defs = append(defs, def)
		}
	}
	if len(defs) == 0 {
		return fmt.Errorf("no kiosk definitions found in %s", dataDir)
	}

	worldW, worldH := worldBounds(defs, m.ScreenWidth, m.ScreenHeight)
	g := NewGame(m.Renderer, m.InputMgr, m.ScreenWidth, m.ScreenHeight, worldW, worldH)

	for _, def := range defs {
		k, err := kiosk.New(def, kiosk.Deps{
			Renderer:         m.Renderer,
			Loader:           m.Loader,
			Router:           g.Router,
			Lock:             g.Lock,
			Overlay:          g.Overlay,
			Launcher:         m.Launcher,
			AudioConfig:      m.Audio,
			AudioOutput:      m.AudioOutput,
			ResolveAssetPath: m.ResolveAssetPath,
			RetryDelay:       m.RetryDelay,
			Reference:        g.Reference,
			Notify:           g.ShowMessage,
		})
		if err != nil {
			log.Printf("Warning: Failed to create kiosk %s: %v", def.Name, err)
			continue
		}
		g.AddKiosk(k)
	}

	if m.Game != nil {
		m.Game.Destroy()
	}
	m.Game = g
	g.UpdateCamera()

	log.Printf("World loaded: %d kiosks, %.0fx%.0f", len(g.Kiosks), worldW, worldH)
	return nil
}

// worldBounds sizes the world to hold every kiosk with room to walk around
func worldBounds(defs []kiosk.Definition, screenW, screenH int) (float64, float64) {
	w, h := float64(screenW), float64(screenH)
	for _, d := range defs {
		w = math.Max(w, d.X+d.Width/2+160)
		h = math.Max(h, d.Y+d.Height/2+240)
	}
	return w, h
}

// Update updates the game state.
func (m *Manager) Update() error {
	if m.Game == nil {
		return nil
	}
	return m.Game.Update()
}

// Draw draws the current state.
func (m *Manager) Draw(screen render.Image) {
	if m.Game == nil {
		screen.Fill(color.RGBA{20, 20, 40, 255})
		m.Renderer.DrawText(screen, "No world loaded", 50, 50, color.RGBA{255, 255, 255, 255}, 1.5)
		return
	}
	m.Game.Draw(screen)
}

// Layout handles window resize.
func (m *Manager) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != m.ScreenWidth || outsideHeight != m.ScreenHeight {
		m.ScreenWidth = outsideWidth
		m.ScreenHeight = outsideHeight
		if m.Game != nil {
			m.Game.ScreenWidth = outsideWidth
			m.Game.ScreenHeight = outsideHeight
			m.Game.UpdateCamera()
		}
	}
	return outsideWidth, outsideHeight
}

// Close tears the world down and releases the audio device
func (m *Manager) Close() {
	if m.Game != nil {
		m.Game.Destroy()
	}
	if c, ok := m.AudioOutput.(interface{ Close() }); ok {
		c.Close()
	}
}
