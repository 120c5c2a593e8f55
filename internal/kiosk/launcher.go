package kiosk

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// Launcher opens a launch URL outside the game
type Launcher interface {
	Open(url string) error
}

// BrowserLauncher opens URLs in the system browser
type BrowserLauncher struct{}

// NewBrowserLauncher creates a launcher that keeps the browser's own output
// off the game's terminal
func NewBrowserLauncher() BrowserLauncher {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return BrowserLauncher{}
}

// Open implements Launcher
func (BrowserLauncher) Open(url string) error {
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}
