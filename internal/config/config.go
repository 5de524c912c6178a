// Package config loads daymacro.toml and the surrounding go.mod.
package config

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"daymacro/internal/calendar"
	"daymacro/internal/invocation"
)

// FileName is the project configuration file looked up from the target.
const FileName = "daymacro.toml"

// Config is the merged project configuration.
type Config struct {
	// Path is the daymacro.toml that was loaded, "" for defaults.
	Path string `toml:"-"`
	// Module is the module path of the nearest go.mod, "" outside a module.
	Module string `toml:"-"`

	Macro  MacroConfig  `toml:"macro"`
	Expand ExpandConfig `toml:"expand"`
}

type MacroConfig struct {
	// ImportPath may start with "./", it is then relative to Module.
	ImportPath  string `toml:"import_path"`
	Func        string `toml:"func"`
	Constructor string `toml:"constructor"`
}

type ExpandConfig struct {
	Overflow     string `toml:"overflow"`
	IncludeTests bool   `toml:"include_tests"`
	Jobs         int    `toml:"jobs"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Macro: MacroConfig{
			ImportPath:  invocation.DefaultImportPath,
			Func:        invocation.DefaultFunc,
			Constructor: "SinceReferenceDate",
		},
		Expand: ExpandConfig{Overflow: calendar.OverflowNormalize.String()},
	}
}

// Load decodes the file at path on top of Default.
func Load(file string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(file, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", file, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", file, undecoded[0])
	}
	for _, field := range []struct{ key, value string }{
		{"import_path", cfg.Macro.ImportPath},
		{"func", cfg.Macro.Func},
		{"constructor", cfg.Macro.Constructor},
	} {
		if meta.IsDefined("macro", field.key) && strings.TrimSpace(field.value) == "" {
			return Config{}, fmt.Errorf("%s: [macro].%s must not be empty", file, field.key)
		}
	}
	if _, err := calendar.ParseOverflowPolicy(cfg.Expand.Overflow); err != nil {
		return Config{}, fmt.Errorf("%s: [expand].overflow: %w", file, err)
	}
	if cfg.Expand.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [expand].jobs must not be negative", file)
	}
	cfg.Path = file
	return cfg, nil
}

// Discover loads the nearest daymacro.toml above startDir, falling back to
// Default, and records the module path of the nearest go.mod. An explicit
// path skips the lookup.
func Discover(startDir, explicit string) (Config, error) {
	cfg := Default()
	file := explicit
	if file == "" {
		found, ok, err := FindConfig(startDir)
		if err != nil {
			return Config{}, err
		}
		if ok {
			file = found
		}
	}
	if file != "" {
		loaded, err := Load(file)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	modStart := startDir
	if cfg.Path != "" {
		modStart = filepath.Dir(cfg.Path)
	}
	if gomod, ok, err := FindGoMod(modStart); err != nil {
		return Config{}, err
	} else if ok {
		module, err := ModulePath(gomod)
		if err != nil {
			return Config{}, err
		}
		cfg.Module = module
	}
	return cfg, nil
}

// OverflowPolicy returns the parsed [expand].overflow value.
func (c Config) OverflowPolicy() calendar.OverflowPolicy {
	p, err := calendar.ParseOverflowPolicy(c.Expand.Overflow)
	if err != nil {
		return calendar.OverflowNormalize
	}
	return p
}

// ResolvedImportPath expands a "./" import path against Module.
func (c Config) ResolvedImportPath() string {
	ip := c.Macro.ImportPath
	if !strings.HasPrefix(ip, "./") {
		return ip
	}
	if c.Module == "" {
		return strings.TrimPrefix(ip, "./")
	}
	return path.Join(c.Module, ip)
}
