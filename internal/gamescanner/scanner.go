package gamescanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WorldEntry represents a discoverable kiosk definitions file in the data directory
type WorldEntry struct {
	Name string // Display name (file name without extension)
	Dir  string // Directory path relative to data/
	Path string // Full path to the definitions file
}

// ScanDataDirectory scans the data directory for kiosk definition files.
// Files directly in dataPath and one directory level down are considered.
func ScanDataDirectory(dataPath string) ([]WorldEntry, error) {
	entries, err := os.ReadDir(dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	var worlds []WorldEntry

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		if !entry.IsDir() {
			if isDefinitionFile(name) {
				worlds = append(worlds, newEntry(dataPath, "", name))
			}
			continue
		}

		// Skip asset directories
		if name == "assets" || name == "thumbs" || name == "sprites" {
			continue
		}

		files, err := scanDefinitionFiles(filepath.Join(dataPath, name))
		if err != nil {
			// Skip directories that can't be read
			continue
		}
		for _, f := range files {
			worlds = append(worlds, newEntry(dataPath, name, f))
		}
	}

	sort.Slice(worlds, func(i, j int) bool { return worlds[i].Path < worlds[j].Path })
	return worlds, nil
}

func newEntry(dataPath, dir, file string) WorldEntry {
	return WorldEntry{
		Name: strings.TrimSuffix(file, filepath.Ext(file)),
		Dir:  dir,
		Path: filepath.Join(dataPath, dir, file),
	}
}

// scanDefinitionFiles finds all definition files in a directory
func scanDefinitionFiles(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if isDefinitionFile(entry.Name()) {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

func isDefinitionFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
