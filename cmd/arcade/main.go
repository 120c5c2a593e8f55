package main

import (
	"flag"
	"log"
	"os"

	"github.com/gopxl/beep"

	"chosenoffset.com/arcade/internal/audio"
	"chosenoffset.com/arcade/internal/game"
	"chosenoffset.com/arcade/internal/kiosk"
	ebitenrender "chosenoffset.com/arcade/internal/render/ebiten"
)

func main() {
	dataDir := flag.String("data", "data", "Data directory holding kiosk definitions and assets")
	screenWidth := flag.Int("width", 1280, "Window width")
	screenHeight := flag.Int("height", 800, "Window height")
	mute := flag.Bool("mute", false, "Disable all sound")
	flag.Parse()

	os.Exit(run(*dataDir, *screenWidth, *screenHeight, *mute))
}

// run plays the world and returns the process exit code. Deferred cleanup
// runs before main exits.
func run(dataDir string, screenWidth, screenHeight int, mute bool) int {
	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	loader := ebitenrender.NewResourceLoader()
	engine := ebitenrender.NewEngine()

	audioCfg := audio.LoadConfig()
	if mute {
		audioCfg.Enabled = false
	}

	gameManager := game.NewManager(renderer, inputMgr, loader, screenWidth, screenHeight)
	gameManager.Audio = audioCfg
	gameManager.AudioOutput = audio.NewSpeakerOutput(beep.SampleRate(audioCfg.SampleRate))
	gameManager.Launcher = kiosk.NewBrowserLauncher()
	defer gameManager.Close()

	if err := gameManager.LoadWorld(dataDir); err != nil {
		log.Printf("Failed to load world: %v", err)
		return 1
	}

	// Set up the window
	engine.SetWindowSize(screenWidth, screenHeight)
	engine.SetWindowTitle("Arcade")
	engine.SetWindowResizable(true)

	log.Println("Starting game...")
	if err := engine.RunGame(gameManager); err != nil {
		log.Printf("Game exited with error: %v", err)
		return 1
	}
	return 0
}
