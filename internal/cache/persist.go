package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// The durable slot backing the cache across restarts: a JSON file, the
// server-side stand-in for the browser localStorage slot the web client used.

// SaveFile persists the cache's current entries to path.
func SaveFile[V any](path string, c *TTLCache[string, V]) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	data, err := json.Marshal(c.Snapshot())
	if err != nil {
		return fmt.Errorf("encoding cache entries: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// LoadFile restores entries previously written by SaveFile. A missing file is
// not an error; a corrupt one is ignored after reporting, since the cache is
// advisory and will simply refetch.
func LoadFile[V any](path string, c *TTLCache[string, V]) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading cache file: %w", err)
	}

	var entries map[string]Entry[V]
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decoding cache file: %w", err)
	}

	c.Restore(entries)
	return nil
}
