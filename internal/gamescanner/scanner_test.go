package gamescanner

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestScanDataDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "lobby.json"))
	touch(t, filepath.Join(root, "kiosks", "arcade.yaml"))
	touch(t, filepath.Join(root, "kiosks", "tv.yml"))
	touch(t, filepath.Join(root, "kiosks", "notes.txt"))
	touch(t, filepath.Join(root, "kiosks", ".hidden.json"))
	touch(t, filepath.Join(root, "assets", "atlas.json"))
	touch(t, filepath.Join(root, "kiosks", "deep", "nested.json"))

	worlds, err := ScanDataDirectory(root)
	if err != nil {
		t.Fatalf("ScanDataDirectory failed: %v", err)
	}

	want := []string{
		filepath.Join(root, "kiosks", "arcade.yaml"),
		filepath.Join(root, "kiosks", "tv.yml"),
		filepath.Join(root, "lobby.json"),
	}
	if len(worlds) != len(want) {
		t.Fatalf("Expected %d files, got %d: %+v", len(want), len(worlds), worlds)
	}
	for i, w := range worlds {
		if w.Path != want[i] {
			t.Errorf("Entry %d: expected %s, got %s", i, want[i], w.Path)
		}
	}
	if worlds[0].Name != "arcade" || worlds[0].Dir != "kiosks" {
		t.Errorf("Expected name arcade in kiosks, got %+v", worlds[0])
	}
	if worlds[2].Dir != "" {
		t.Errorf("Expected top-level file to have no dir, got %q", worlds[2].Dir)
	}
}

func TestScanMissingDirectory(t *testing.T) {
	if _, err := ScanDataDirectory(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for missing directory")
	}
}
