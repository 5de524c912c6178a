package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// findUp walks up from startDir and returns the first path named name.
func findUp(startDir, name string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindConfig walks up from startDir to locate daymacro.toml.
func FindConfig(startDir string) (string, bool, error) {
	return findUp(startDir, FileName)
}

// FindGoMod walks up from startDir to locate go.mod.
func FindGoMod(startDir string) (string, bool, error) {
	return findUp(startDir, "go.mod")
}
