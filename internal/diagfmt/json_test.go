package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"daymacro/internal/diag"
	"daymacro/internal/fix"
	"daymacro/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	bag := invalidBag(fs, "main.go")

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got count=%d len=%d", output.Count, len(output.Diagnostics))
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" {
		t.Errorf("Expected severity=ERROR, got %s", d.Severity)
	}
	if d.Code != "DAY1005" {
		t.Errorf("Expected code=DAY1005, got %s", d.Code)
	}
	if d.Message != "Invalid day expression: 2024-13-31" {
		t.Errorf("Unexpected message %q", d.Message)
	}
	if d.Location.File != "main.go" {
		t.Errorf("Expected file=main.go, got %s", d.Location.File)
	}
	if d.Location.StartByte != 31 || d.Location.EndByte != 41 {
		t.Errorf("Unexpected byte range %d..%d", d.Location.StartByte, d.Location.EndByte)
	}
	if d.Location.StartLine != 3 || d.Location.StartCol != 18 || d.Location.EndCol != 28 {
		t.Errorf("Unexpected position %+v", d.Location)
	}
}

func TestJSONWithNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("main.go", []byte(`var a = day.Day("2024-01-26", "x")`))

	bag := diag.NewBag(10)
	d := diag.NewError(diag.DayTooManyArguments, source.Span{File: fileID, Start: 8, End: 34},
		"Extra arguments in macro expansion: expected at most 1, got 2")
	d = d.WithNote(source.Span{File: fileID, Start: 28, End: 33}, "extra arguments start here")
	d = d.WithFixSuggestion(fix.DeleteSpan("Remove extra arguments", source.Span{File: fileID, Start: 28, End: 33}, `, "x"`,
		fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics)))
	d = d.WithFixSuggestion(fix.ReplaceSpan("Keep first argument", source.Span{File: fileID, Start: 8, End: 34}, `day.Day("2024-01-26")`, "",
		fix.Preferred(), fix.WithKind(diag.FixKindRefactorRewrite)))
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{PathMode: PathModeBasename, IncludeNotes: true, IncludeFixes: true}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	got := output.Diagnostics[0]

	if len(got.Notes) != 1 || got.Notes[0].Message != "extra arguments start here" {
		t.Fatalf("Unexpected notes %+v", got.Notes)
	}
	if len(got.Fixes) != 2 {
		t.Fatalf("Expected 2 fixes, got %d", len(got.Fixes))
	}

	preferred := got.Fixes[0]
	if preferred.Title != "Keep first argument" || !preferred.IsPreferred {
		t.Errorf("preferred fix must come first, got %+v", preferred)
	}
	if preferred.Kind != "refactor.rewrite" || preferred.Applicability != "always-safe" {
		t.Errorf("Unexpected metadata %s/%s", preferred.Kind, preferred.Applicability)
	}

	removal := got.Fixes[1]
	if removal.Applicability != "safe-with-heuristics" || removal.Kind != "quickfix" {
		t.Errorf("Unexpected metadata %s/%s", removal.Kind, removal.Applicability)
	}
	if len(removal.Edits) != 1 || removal.Edits[0].NewText != "" || removal.Edits[0].OldText != `, "x"` {
		t.Errorf("Unexpected edits %+v", removal.Edits)
	}
}

func TestJSONNotesHiddenByDefault(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("main.go", []byte("var a = day.Day(x)"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.DayInvalidArgumentType, source.Span{File: fileID, Start: 16, End: 17}, "Invalid type of argument: Identifier").
		WithNote(source.Span{File: fileID, Start: 16, End: 17}, "hidden"))
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{File: fileID}, "timings").
		WithNote(source.Span{File: fileID}, "parse 1.00ms"))

	output := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if len(output.Diagnostics[0].Notes) != 0 {
		t.Errorf("notes must be omitted without IncludeNotes")
	}
	if len(output.Diagnostics[1].Notes) != 1 {
		t.Errorf("timing notes must always be kept")
	}
	if output.Diagnostics[0].Location.StartLine != 0 {
		t.Errorf("Expected start_line to be omitted (0), got %d", output.Diagnostics[0].Location.StartLine)
	}
	if output.Diagnostics[0].Location.StartByte != 16 {
		t.Errorf("Expected start_byte=16, got %d", output.Diagnostics[0].Location.StartByte)
	}
}

func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("main.go", []byte("test content"))

	bag := diag.NewBag(10)
	for i := range 5 {
		bag.Add(diag.NewError(diag.DayInvalidExpression, source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, "Error message"))
	}

	output := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 3})
	if output.Count != 3 || len(output.Diagnostics) != 3 {
		t.Errorf("Expected 3 diagnostics (limited), got count=%d len=%d", output.Count, len(output.Diagnostics))
	}
	if bag.Len() != 5 {
		t.Errorf("Max must not truncate the bag")
	}
}

func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")
	fileID := fs.AddVirtual("/home/user/project/internal/app/main.go", []byte("test"))

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.DayInvalidExpression, source.Span{File: fileID, Start: 0, End: 1}, "Error"))
	bag.Add(diag.NewError(diag.DayInvalidExpression, source.Span{File: fileID + 7}, "Unknown file"))

	tests := []struct {
		name     string
		pathMode PathMode
		expected string
	}{
		{"Absolute", PathModeAbsolute, "/home/user/project/internal/app/main.go"},
		{"Relative", PathModeRelative, "internal/app/main.go"},
		{"Basename", PathModeBasename, "main.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: tt.pathMode})
			if output.Diagnostics[0].Location.File != tt.expected {
				t.Errorf("Expected file=%s, got %s", tt.expected, output.Diagnostics[0].Location.File)
			}
			if output.Diagnostics[1].Location.File != "<unknown>" {
				t.Errorf("Expected <unknown> for a missing file, got %s", output.Diagnostics[1].Location.File)
			}
		})
	}
}

func TestJSONFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("main.go", []byte("var a = day.Day()\n"))

	bag := diag.NewBag(2)
	call := source.Span{File: fileID, Start: 8, End: 17}
	d := diag.NewError(diag.DayMissingArgument, call, "Missing argument for parameter in macro expansion")
	d = d.WithFixSuggestion(fix.ReplaceSpan(`Insert “"<YYYY>-<MM>-<DD>"”`, call, `day.Day("<YYYY>-<MM>-<DD>")`, "day.Day()",
		fix.WithApplicability(diag.FixApplicabilityManualReview)))
	bag.Add(d)

	output := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeFixes: true, IncludePreviews: true})
	edit := output.Diagnostics[0].Fixes[0].Edits[0]
	if len(edit.BeforeLines) != 1 || edit.BeforeLines[0] != "var a = day.Day()" {
		t.Errorf("Unexpected before lines %q", edit.BeforeLines)
	}
	if len(edit.AfterLines) != 1 || edit.AfterLines[0] != `var a = day.Day("<YYYY>-<MM>-<DD>")` {
		t.Errorf("Unexpected after lines %q", edit.AfterLines)
	}
}

func TestYAML(t *testing.T) {
	fs := source.NewFileSet()
	bag := invalidBag(fs, "main.go")

	var buf bytes.Buffer
	if err := YAML(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename, IncludePositions: true}); err != nil {
		t.Fatalf("YAML() error: %v", err)
	}
	if !strings.Contains(buf.String(), "code: DAY1005") {
		t.Fatalf("unexpected YAML:\n%s", buf.String())
	}

	var output DiagnosticsOutput
	if err := yaml.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid YAML output: %v", err)
	}
	if output.Count != 1 || output.Diagnostics[0].Location.StartCol != 18 {
		t.Fatalf("unexpected document %+v", output)
	}
}
