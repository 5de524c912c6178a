package config

import (
	"fmt"
	"os"

	"golang.org/x/mod/modfile"
)

// ModulePath reads the module path declared in the go.mod at path.
func ModulePath(path string) (string, error) {
	// #nosec G304 -- path is discovered by FindGoMod
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mod, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if mod.Module == nil || mod.Module.Mod.Path == "" {
		return "", fmt.Errorf("%s: missing module directive", path)
	}
	return mod.Module.Mod.Path, nil
}
