package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	c := New[string, string](time.Hour)
	c.Put("guntur", "clear")
	c.Put("delhi", "haze")

	if err := SaveFile(path, c); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	restored := New[string, string](time.Hour)
	if err := LoadFile(path, restored); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	for key, want := range map[string]string{"guntur": "clear", "delhi": "haze"} {
		got, ok := restored.Get(key)
		if !ok || got != want {
			t.Errorf("Get(%q) = %q, %v; want %q, true", key, got, ok, want)
		}
	}
}

func TestLoadFileMissingIsNotAnError(t *testing.T) {
	c := New[string, int](time.Hour)

	if err := LoadFile(filepath.Join(t.TempDir(), "nope.json"), c); err != nil {
		t.Errorf("LoadFile() error = %v, want nil for missing file", err)
	}
}

func TestLoadFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New[string, int](time.Hour)
	if err := LoadFile(path, c); err == nil {
		t.Error("LoadFile() expected error for corrupt file")
	}
}
