// Package cache keeps the last scan snapshot on disk so the list can be
// shown immediately on startup, before the first scan cycle completes.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"wifiscan/scanner"
)

const cacheFileName = "wifiscan-cache.json"

// DefaultPath returns the cache location in the temp directory.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), cacheFileName)
}

// Cache reads and writes one snapshot file.
type Cache struct {
	path   string
	logger *zap.Logger
}

func New(path string, logger *zap.Logger) *Cache {
	if path == "" {
		path = DefaultPath()
	}
	return &Cache{path: path, logger: logger}
}

func (c *Cache) Path() string { return c.path }

// Load returns the cached snapshot. A missing file is not an error and
// reports ok=false.
func (c *Cache) Load() (snap scanner.Snapshot, ok bool, err error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		c.logger.Debug("no cache file found", zap.String("path", c.path))
		return scanner.Snapshot{}, false, nil
	}
	if err != nil {
		return scanner.Snapshot{}, false, fmt.Errorf("read cache: %w", err)
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return scanner.Snapshot{}, false, fmt.Errorf("parse cache %s: %w", c.path, err)
	}
	c.logger.Debug("loaded cached snapshot",
		zap.String("path", c.path), zap.Int("networks", len(snap.Records)))
	return snap, true, nil
}

// Save writes snap, replacing any previous cache.
func (c *Cache) Save(snap scanner.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}
