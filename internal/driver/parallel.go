package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"daymacro/internal/source"
	"daymacro/internal/trace"
)

// ExpandPath dispatches to ExpandDir or ExpandFile.
func ExpandPath(ctx context.Context, path string, opts Options) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return ExpandDir(ctx, path, opts)
	}
	return ExpandFile(ctx, path, opts)
}

// ListGoFiles returns the sorted *.go files under dir. vendor, testdata and
// directories starting with "." or "_" are skipped, as are _test.go files
// unless includeTests is set.
func ListGoFiles(dir string, includeTests bool) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && (name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") {
			return nil
		}
		if !includeTests && strings.HasSuffix(name, "_test.go") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ExpandDir expands every Go file under dir in parallel. Files are loaded up
// front so FileIDs follow path order.
func ExpandDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	span, ctx := trace.Start(ctx, trace.ScopePass, "expand-dir")
	defer span.End(dir)

	files, err := ListGoFiles(dir, opts.IncludeTests)
	if err != nil {
		return nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return &Result{FileSet: fileSet}, nil
	}

	loadIdx := opts.Timer.Begin("load")
	ids := make([]source.FileID, len(files))
	loadErrs := make([]error, len(files))
	for i, path := range files {
		ids[i], loadErrs[i] = load(fileSet, path)
		opts.emit(Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}
	opts.Timer.End(loadIdx, fmt.Sprintf("%d files", len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each index is written by exactly one goroutine
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = processFile(gctx, fileSet, ids[i], loadErrs[i], opts)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	span.WithExtra("files", fmt.Sprint(len(files)))
	return &Result{FileSet: fileSet, Files: results}, nil
}
