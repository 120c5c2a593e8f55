package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"chosenoffset.com/arcade/internal/gamescanner"
	"chosenoffset.com/arcade/internal/kiosk"
	"chosenoffset.com/arcade/internal/placeholders"
)

func main() {
	dataDir := flag.String("data", "data", "Data directory holding kiosk definitions")
	outDir := flag.String("out", "", "Directory to write images to (defaults to the data directory)")
	force := flag.Bool("force", false, "Overwrite images that already exist")
	flag.Parse()

	if *outDir == "" {
		*outDir = *dataDir
	}

	fmt.Println("Arcade Placeholder Graphics Generator")
	fmt.Println("=====================================")
	fmt.Println()

	written, err := generate(*dataDir, *outDir, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Done! Wrote %d placeholder images.\n", written)
}

func generate(dataDir, outDir string, force bool) (int, error) {
	files, err := gamescanner.ScanDataDirectory(dataDir)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, f := range files {
		defs, err := kiosk.LoadDefinitions(f.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", f.Path, err)
			continue
		}
		for _, def := range defs {
			n, err := generateKiosk(def, outDir, force)
			written += n
			if err != nil {
				return written, fmt.Errorf("kiosk %s: %w", def.Name, err)
			}
		}
	}
	return written, nil
}

// generateKiosk writes the cabinet sprite and one card per launchable item.
// Paths named in the definition are used as is, otherwise a slug of the name.
func generateKiosk(def kiosk.Definition, outDir string, force bool) (int, error) {
	theme, err := kiosk.LookupTheme(def.Theme)
	if err != nil {
		return 0, err
	}

	written := 0
	spritePath := def.Sprite
	if spritePath == "" {
		spritePath = filepath.Join("sprites", slug(def.Name)+".png")
	}
	ok, err := writeIfMissing(filepath.Join(outDir, spritePath), force, func(path string) error {
		return placeholders.SavePNG(placeholders.CabinetSprite(theme.Name, theme.Palette, int(def.Width), int(def.Height)), path)
	})
	if err != nil {
		return written, err
	}
	if ok {
		written++
	}

	for _, it := range def.Items {
		if it.Closes() {
			continue
		}
		thumbPath := it.Image
		if thumbPath == "" {
			thumbPath = filepath.Join("thumbs", slug(def.Name)+"-"+slug(it.Title)+".png")
		}
		it := it
		ok, err := writeIfMissing(filepath.Join(outDir, thumbPath), force, func(path string) error {
			card := placeholders.ThumbnailCard(it.Title, it.Description, theme.Palette, placeholders.ThumbWidth, placeholders.ThumbHeight)
			return placeholders.SavePNG(card, path)
		})
		if err != nil {
			return written, err
		}
		if ok {
			written++
		}
	}
	return written, nil
}

func writeIfMissing(path string, force bool, write func(string) error) (bool, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("  exists  %s\n", path)
			return false, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := write(path); err != nil {
		return false, err
	}
	fmt.Printf("  wrote   %s\n", path)
	return true, nil
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
