package driver

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/scanner"
	"go/token"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"daymacro/internal/diag"
	"daymacro/internal/expand"
	"daymacro/internal/invocation"
	"daymacro/internal/source"
	"daymacro/internal/trace"
)

// ExpandFile expands a single file from disk.
func ExpandFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSetWithBase(filepath.Dir(path))
	id, loadErr := load(fs, path)
	res := &Result{FileSet: fs, Files: []FileResult{processFile(ctx, fs, id, loadErr, opts)}}
	return res, ctx.Err()
}

// ExpandSource expands in-memory source registered under name.
func ExpandSource(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	res := &Result{FileSet: fs, Files: []FileResult{processFile(ctx, fs, id, nil, opts)}}
	return res, ctx.Err()
}

// load reads path into fs. On failure the path is registered as an empty
// virtual file so the IO diagnostic can still point at it.
func load(fs *source.FileSet, path string) (source.FileID, error) {
	id, err := fs.Load(path)
	if err == nil {
		return id, nil
	}
	return fs.Add(path, nil, source.FileVirtual), err
}

func processFile(ctx context.Context, fs *source.FileSet, id source.FileID, loadErr error, opts Options) FileResult {
	file := fs.Get(id)
	res := FileResult{Path: file.Path, FileID: id, Bag: diag.NewBag(opts.MaxDiagnostics)}

	span, ctx := trace.Start(ctx, trace.ScopeFile, "file:"+file.Path)
	defer func() {
		span.WithExtra("invocations", strconv.Itoa(res.Invocations)).
			WithExtra("expanded", strconv.Itoa(res.Expanded)).
			End(statusDetail(&res))
	}()

	if loadErr != nil {
		trace.Fail(ctx, "load", loadErr)
		res.report(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+loadErr.Error()))
		opts.emit(Event{File: file.Path, Stage: StageLoad, Status: StatusError, Err: loadErr})
		return res
	}

	key, keyErr := cacheKey(file.Content, opts)
	if opts.Cache != nil && keyErr == nil {
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok {
			fromPayload(&payload, &res)
			opts.emit(Event{File: file.Path, Stage: StageExpand, Status: StatusCached})
			return res
		}
	}

	ok := expandInto(ctx, fs, file, opts, &res)
	if ok && opts.Cache != nil && keyErr == nil {
		if err := opts.Cache.Put(key, toPayload(&res)); err != nil {
			trace.Fail(ctx, "cache", err)
		}
	}
	status := StatusDone
	if res.Bag.HasErrors() {
		status = StatusError
	}
	opts.emit(Event{File: file.Path, Stage: StageFormat, Status: status})
	return res
}

// expandInto runs parse, expand, splice and format. It returns false when
// the outcome must not be cached (cancellation).
func expandInto(ctx context.Context, fs *source.FileSet, file *source.File, opts Options, res *FileResult) bool {
	opts.emit(Event{File: file.Path, Stage: StageParse, Status: StatusWorking})
	started := time.Now()
	fset := token.NewFileSet()
	astFile, err := parser.ParseFile(fset, file.Path, file.Content, parser.ParseComments|parser.SkipObjectResolution)
	opts.Timer.Add("parse", time.Since(started))
	if err != nil {
		reportParseError(res, file.ID, err)
		return true
	}

	opts.emit(Event{File: file.Path, Stage: StageExpand, Status: StatusWorking})
	started = time.Now()
	matcher := invocation.NewMatcher(astFile, invocation.WithTarget(opts.importPath(), opts.funcName()))
	loc := invocation.FileLocator{Fset: fset, File: file.ID}
	eopts := opts.expandOptions()

	var replacements []expand.Replacement
	blocked := false
	if matcher.Active() {
		ast.Inspect(astFile, func(n ast.Node) bool {
			if ctx.Err() != nil {
				return false
			}
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			inv, ok := matcher.Match(call, loc)
			if !ok {
				return true
			}
			res.Invocations++
			out := expand.Expand(inv, eopts)
			trace.Point(ctx, trace.ScopeInvocation, "invocation", fs.Text(inv.Span))
			res.report(out.Diagnostics...)
			if out.HasErrors() {
				blocked = true
			}
			if out.Replacement != nil {
				replacements = append(replacements, *out.Replacement)
			}
			return true
		})
	}
	opts.Timer.Add("expand", time.Since(started))
	if ctx.Err() != nil {
		return false
	}

	if blocked {
		return true
	}
	if len(replacements) == 0 {
		res.Output = file.Content
		return true
	}

	started = time.Now()
	spliced := Splice(file.Content, replacements)
	formatted, err := format.Source(spliced)
	opts.Timer.Add("format", time.Since(started))
	if err != nil {
		trace.Fail(ctx, "format", err)
		formatted = spliced
	}
	res.Output = formatted
	res.Expanded = len(replacements)
	return true
}

// Splice applies replacements right to left. Replacements must not overlap.
func Splice(content []byte, replacements []expand.Replacement) []byte {
	sorted := append([]expand.Replacement(nil), replacements...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Span.Start > sorted[j].Span.Start })

	out := append([]byte(nil), content...)
	for _, r := range sorted {
		if int(r.Span.End) > len(out) || r.Span.Start > r.Span.End {
			continue
		}
		tail := append([]byte(nil), out[r.Span.End:]...)
		out = append(append(out[:r.Span.Start], r.Expr...), tail...)
	}
	return out
}

func reportParseError(res *FileResult, id source.FileID, err error) {
	var list scanner.ErrorList
	if !errors.As(err, &list) {
		res.report(diag.NewError(diag.SynParseError, source.Span{File: id}, err.Error()))
		return
	}
	for _, e := range list {
		off := max(e.Pos.Offset, 0)
		res.report(diag.NewError(diag.SynParseError, source.SpanOf(id, off, off), e.Msg))
	}
}

func statusDetail(res *FileResult) string {
	switch {
	case res.Cached:
		return "cached"
	case res.Bag.HasErrors():
		return fmt.Sprintf("%d diagnostics", res.Bag.Len())
	}
	return ""
}
