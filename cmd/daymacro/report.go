package main

import (
	"fmt"
	"io"

	"daymacro/internal/diag"
	"daymacro/internal/diagfmt"
	"daymacro/internal/driver"
	"daymacro/internal/observ"
	"daymacro/internal/source"
)

type reportOptions struct {
	format           string // pretty|short|json|yaml
	withNotes        bool
	suggest          bool
	preview          bool
	noWarnings       bool
	warningsAsErrors bool
	color            bool
	pathMode         diagfmt.PathMode
	timer            *observ.Timer
}

func (o reportOptions) validate() error {
	switch o.format {
	case "pretty", "short", "json", "yaml":
	default:
		return fmt.Errorf("unknown format: %s", o.format)
	}
	if o.noWarnings && o.warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	return nil
}

// noFile is a span target outside every FileSet.
const noFile = ^source.FileID(0)

// collectBag merges the per-file bags and applies the warning filters.
func collectBag(res *driver.Result, ro reportOptions) *diag.Bag {
	bag := diag.NewBag(0)
	for i := range res.Files {
		bag.Merge(res.Files[i].Bag)
	}
	if ro.noWarnings {
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
	}
	if ro.warningsAsErrors {
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}
	bag.Sort()
	bag.Dedup()
	return bag
}

// timingDiagnostic renders the timer as an OBS6001 info with one note per phase.
func timingDiagnostic(timer *observ.Timer) (diag.Diagnostic, bool) {
	report := timer.Report()
	if len(report.Phases) == 0 {
		return diag.Diagnostic{}, false
	}
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{File: noFile}, fmt.Sprintf("pipeline timings: %.2fms", report.TotalMS))
	for _, p := range report.Phases {
		msg := fmt.Sprintf("%s: %.2fms", p.Name, p.DurationMS)
		if p.Count > 1 {
			msg += fmt.Sprintf(" x%d", p.Count)
		}
		if p.Note != "" {
			msg += " (" + p.Note + ")"
		}
		d = d.WithNote(source.Span{File: noFile}, msg)
	}
	return d, true
}

// writeReport prints the diagnostics of res to out and the timing summary
// to errOut. It reports whether any error remains after filtering.
func writeReport(out, errOut io.Writer, res *driver.Result, ro reportOptions) (bool, error) {
	bag := collectBag(res, ro)
	showFixes := ro.suggest || ro.preview

	switch ro.format {
	case "pretty":
		diagfmt.Pretty(out, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       ro.color,
			Context:     1,
			PathMode:    ro.pathMode,
			ShowNotes:   ro.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: ro.preview,
		})
		diagfmt.Summary(out, bag, ro.color)
		printTimings(errOut, ro.timer)
	case "short":
		if output := diag.FormatGoldenDiagnostics(bag.Items(), res.FileSet, ro.withNotes); output != "" {
			fmt.Fprintln(out, output)
		}
		printTimings(errOut, ro.timer)
	case "json", "yaml":
		if d, ok := timingDiagnostic(ro.timer); ok {
			bag.Merge(singleBag(d))
		}
		opts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         ro.pathMode,
			IncludeNotes:     ro.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  ro.preview,
		}
		var err error
		if ro.format == "json" {
			err = diagfmt.JSON(out, bag, res.FileSet, opts)
		} else {
			err = diagfmt.YAML(out, bag, res.FileSet, opts)
		}
		if err != nil {
			return false, fmt.Errorf("failed to format diagnostics: %w", err)
		}
	}
	return bag.HasErrors(), nil
}

func singleBag(d diag.Diagnostic) *diag.Bag {
	b := diag.NewBag(1)
	b.Add(d)
	return b
}
