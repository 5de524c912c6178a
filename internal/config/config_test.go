package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"daymacro/internal/calendar"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "go.mod"), "module example.com/app\n\ngo 1.22\n")
	writeFile(t, filepath.Join(root, FileName), `
[macro]
import_path = "./internal/day"
func = "Date"

[expand]
overflow = "reject"
include_tests = true
jobs = 3
`)
	nested := filepath.Join(root, "cmd", "app")
	writeFile(t, filepath.Join(nested, "main.go"), "package main\n")

	cfg, err := Discover(filepath.Join(nested, "main.go"), "")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != filepath.Join(root, FileName) {
		t.Fatalf("Path = %q", cfg.Path)
	}
	if cfg.Module != "example.com/app" {
		t.Fatalf("Module = %q", cfg.Module)
	}
	if got := cfg.ResolvedImportPath(); got != "example.com/app/internal/day" {
		t.Fatalf("ResolvedImportPath = %q", got)
	}
	if cfg.Macro.Func != "Date" || cfg.Macro.Constructor != "SinceReferenceDate" {
		t.Fatalf("macro = %+v", cfg.Macro)
	}
	if cfg.OverflowPolicy() != calendar.OverflowReject || !cfg.Expand.IncludeTests || cfg.Expand.Jobs != 3 {
		t.Fatalf("expand = %+v", cfg.Expand)
	}
}

func TestDiscoverDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Discover(dir, "")
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != "" {
		t.Fatalf("unexpected config file %q", cfg.Path)
	}
	if cfg.ResolvedImportPath() != "daymacro/day" || cfg.Macro.Func != "Day" {
		t.Fatalf("defaults = %+v", cfg.Macro)
	}
	if cfg.OverflowPolicy() != calendar.OverflowNormalize {
		t.Fatalf("default overflow policy = %s", cfg.OverflowPolicy())
	}
}

func TestDiscoverExplicitPath(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "other.toml")
	writeFile(t, explicit, "[macro]\nfunc = \"When\"\n")
	writeFile(t, filepath.Join(dir, "sub", FileName), "[macro]\nfunc = \"Ignored\"\n")

	cfg, err := Discover(filepath.Join(dir, "sub"), explicit)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Macro.Func != "When" || cfg.Macro.ImportPath != "daymacro/day" {
		t.Fatalf("macro = %+v", cfg.Macro)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[macro\n", "failed to parse TOML"},
		{"unknown key", "[macro]\nfunction = \"Day\"\n", "unknown key macro.function"},
		{"empty func", "[macro]\nfunc = \" \"\n", "[macro].func must not be empty"},
		{"bad overflow", "[expand]\noverflow = \"lenient\"\n", "[expand].overflow"},
		{"negative jobs", "[expand]\njobs = -1\n", "[expand].jobs must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestModulePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module daymacro\n\ngo 1.25.1\n\nrequire github.com/spf13/cobra v1.10.1\n")
	got, err := ModulePath(filepath.Join(dir, "go.mod"))
	if err != nil || got != "daymacro" {
		t.Fatalf("ModulePath = %q, %v", got, err)
	}

	writeFile(t, filepath.Join(dir, "bad", "go.mod"), "go 1.22\n")
	if _, err := ModulePath(filepath.Join(dir, "bad", "go.mod")); err == nil {
		t.Fatalf("expected missing module error")
	}
}
