package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a store path from config, env or flags.
// A leading "~" is replaced with the user's home directory; ":memory:" and
// every other path are returned cleaned but otherwise unchanged.
func ExpandPath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}

	return filepath.Clean(path), nil
}

// ResolvePaths expands DBPath in place
func (c *Config) ResolvePaths() error {
	dbPath, err := ExpandPath(c.DBPath)
	if err != nil {
		return err
	}
	c.DBPath = dbPath
	return nil
}
