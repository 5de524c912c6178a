package driver

import (
	"daymacro/internal/diag"
	"daymacro/internal/source"
)

// FileResult is the outcome for one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	// Invocations counts recognised calls, Expanded those that were rewritten.
	Invocations int
	Expanded    int
	// Output is the expanded, gofmt'ed source. It is nil when the file has
	// errors and equals the input when nothing was expanded.
	Output []byte
	Cached bool

	// all holds every diagnostic produced for the file, before Bag's limit
	// applies. It is what the disk cache stores.
	all []diag.Diagnostic
}

func (r *FileResult) report(ds ...diag.Diagnostic) {
	r.all = append(r.all, ds...)
	r.Bag.AddAll(ds)
}

// Changed reports whether Output differs from the input.
func (r *FileResult) Changed() bool {
	return r.Output != nil && r.Expanded > 0
}

// Result aggregates a run.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Diagnostics returns every diagnostic in file order.
func (r *Result) Diagnostics() []diag.Diagnostic {
	if r == nil {
		return nil
	}
	var out []diag.Diagnostic
	for i := range r.Files {
		if r.Files[i].Bag != nil {
			out = append(out, r.Files[i].Bag.Items()...)
		}
	}
	return out
}

// HasErrors reports whether any file produced an error.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for i := range r.Files {
		if r.Files[i].Bag != nil && r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Counts sums invocations and expansions across files.
func (r *Result) Counts() (invocations, expanded int) {
	if r == nil {
		return 0, 0
	}
	for i := range r.Files {
		invocations += r.Files[i].Invocations
		expanded += r.Files[i].Expanded
	}
	return invocations, expanded
}
