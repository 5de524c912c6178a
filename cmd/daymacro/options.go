package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"daymacro/internal/calendar"
	"daymacro/internal/config"
	"daymacro/internal/driver"
	"daymacro/internal/observ"
)

// addExpandFlags registers the flags shared by diag, expand and fix.
func addExpandFlags(cmd *cobra.Command) {
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().String("overflow", "", "day overflow policy (normalize|reject), overrides daymacro.toml")
	cmd.Flags().Bool("tests", false, "include _test.go files when expanding a directory")
}

// driverOptions merges daymacro.toml with command flags. The config is
// looked up from target unless --config names a file.
func driverOptions(cmd *cobra.Command, target string) (driver.Options, *config.Config, error) {
	root := cmd.Root().PersistentFlags()

	configPath, err := root.GetString("config")
	if err != nil {
		return driver.Options{}, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Discover(target, configPath)
	if err != nil {
		return driver.Options{}, nil, err
	}

	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := root.GetBool("timings")
	if err != nil {
		return driver.Options{}, nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	useCache, err := root.GetBool("cache")
	if err != nil {
		return driver.Options{}, nil, fmt.Errorf("failed to get cache flag: %w", err)
	}

	opts := driver.Options{
		ImportPath:     cfg.ResolvedImportPath(),
		Func:           cfg.Macro.Func,
		Constructor:    cfg.Macro.Constructor,
		Overflow:       cfg.OverflowPolicy(),
		IncludeTests:   cfg.Expand.IncludeTests,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           cfg.Expand.Jobs,
	}

	if f := cmd.Flags().Lookup("jobs"); f != nil && f.Changed {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return driver.Options{}, nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if f := cmd.Flags().Lookup("overflow"); f != nil && f.Changed {
		if opts.Overflow, err = calendar.ParseOverflowPolicy(f.Value.String()); err != nil {
			return driver.Options{}, nil, err
		}
	}
	if f := cmd.Flags().Lookup("tests"); f != nil && f.Changed {
		if opts.IncludeTests, err = cmd.Flags().GetBool("tests"); err != nil {
			return driver.Options{}, nil, fmt.Errorf("failed to get tests flag: %w", err)
		}
	}

	if showTimings {
		opts.Timer = observ.NewTimer()
	}
	clearCache, err := root.GetBool("cache-clear")
	if err != nil {
		return driver.Options{}, nil, fmt.Errorf("failed to get cache-clear flag: %w", err)
	}
	if useCache || clearCache {
		cache, err := driver.OpenDiskCache("daymacro")
		if err != nil {
			return driver.Options{}, nil, fmt.Errorf("failed to open cache: %w", err)
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return driver.Options{}, nil, fmt.Errorf("failed to clear cache: %w", err)
			}
		}
		if useCache {
			opts.Cache = cache
		}
	}
	return opts, &cfg, nil
}

// useColor resolves --color against stream.
func useColor(cmd *cobra.Command, stream *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(stream), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
}

// isDir reports whether path names a directory.
func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat path: %w", err)
	}
	return info.IsDir(), nil
}

func displayName(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil && !filepath.IsAbs(rel) && rel != "" && rel[0] != '.' {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}
