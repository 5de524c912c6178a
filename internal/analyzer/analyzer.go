// Package analyzer reports day macro diagnostics as a go/analysis pass.
package analyzer

import (
	"flag"
	"go/ast"
	"go/token"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"daymacro/internal/calendar"
	"daymacro/internal/diag"
	"daymacro/internal/expand"
	"daymacro/internal/invocation"
)

const doc = `check day macro invocations

Every call of the marker function (daymacro/day.Day by default) must pass
a single non-interpolated "YYYY-MM-DD" string literal. Each problem comes
with the fixes that daymacro fix would offer. With -suggest-expand every
valid call also gets a fix replacing it with its precomputed value.`

// Options configures New.
type Options struct {
	ImportPath    string
	Func          string
	Constructor   string
	Overflow      calendar.OverflowPolicy
	SuggestExpand bool
}

// Analyzer uses the default options, overridable with flags.
var Analyzer = New(Options{})

// New returns an analyzer for opts. The returned analyzer binds its options
// to its flag set.
func New(opts Options) *analysis.Analyzer {
	r := &runner{opts: opts, overflow: opts.Overflow.String()}
	a := &analysis.Analyzer{
		Name:     "daymacro",
		Doc:      doc,
		URL:      "https://pkg.go.dev/daymacro/internal/analyzer",
		Requires: []*analysis.Analyzer{inspect.Analyzer},
		Run:      r.run,
	}
	r.bind(&a.Flags)
	return a
}

type runner struct {
	opts     Options
	overflow string
}

func (r *runner) bind(fs *flag.FlagSet) {
	fs.StringVar(&r.opts.ImportPath, "import_path", r.opts.ImportPath, "import path of the day runtime package")
	fs.StringVar(&r.opts.Func, "func", r.opts.Func, "name of the marker function")
	fs.StringVar(&r.opts.Constructor, "constructor", r.opts.Constructor, "constructor emitted by the expansion")
	fs.StringVar(&r.overflow, "overflow", r.overflow, "day overflow policy: normalize|reject")
	fs.BoolVar(&r.opts.SuggestExpand, "suggest-expand", r.opts.SuggestExpand, "offer an expansion fix for every valid call")
}

func (r *runner) run(pass *analysis.Pass) (any, error) {
	policy, err := calendar.ParseOverflowPolicy(r.overflow)
	if err != nil {
		return nil, err
	}
	eopts := expand.Options{Overflow: policy, Constructor: r.opts.Constructor}

	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	filter := []ast.Node{(*ast.File)(nil), (*ast.CallExpr)(nil)}

	var (
		matcher *invocation.Matcher
		tf      *token.File
	)
	insp.Preorder(filter, func(n ast.Node) {
		switch n := n.(type) {
		case *ast.File:
			matcher = invocation.NewMatcher(n,
				invocation.WithTarget(r.opts.ImportPath, r.opts.Func),
				invocation.WithTypesInfo(pass.TypesInfo),
			)
			tf = pass.Fset.File(n.FileStart)
		case *ast.CallExpr:
			if matcher == nil || !matcher.Active() || tf == nil {
				return
			}
			inv, ok := matcher.Match(n, invocation.FileLocator{Fset: pass.Fset})
			if !ok {
				return
			}
			r.report(pass, tf, inv, expand.Expand(inv, eopts))
		}
	})
	return nil, nil
}

func (r *runner) report(pass *analysis.Pass, tf *token.File, inv invocation.Invocation, res expand.Result) {
	var expansion *analysis.SuggestedFix
	if res.Replacement != nil {
		expansion = &analysis.SuggestedFix{
			Message: "Expand to " + res.Replacement.Expr,
			TextEdits: []analysis.TextEdit{{
				Pos:     pos(tf, res.Replacement.Span.Start),
				End:     pos(tf, res.Replacement.Span.End),
				NewText: []byte(res.Replacement.Expr),
			}},
		}
	}

	for _, d := range res.Diagnostics {
		ad := convert(tf, d)
		if expansion != nil && !d.IsError() {
			ad.SuggestedFixes = append(ad.SuggestedFixes, *expansion)
		}
		pass.Report(ad)
	}

	if len(res.Diagnostics) == 0 && expansion != nil && r.opts.SuggestExpand {
		pass.Report(analysis.Diagnostic{
			Pos:            pos(tf, inv.Span.Start),
			End:            pos(tf, inv.Span.End),
			Category:       diag.DayInfo.ID(),
			Message:        inv.Callee() + " can be expanded at compile time",
			SuggestedFixes: []analysis.SuggestedFix{*expansion},
		})
	}
}

func convert(tf *token.File, d diag.Diagnostic) analysis.Diagnostic {
	out := analysis.Diagnostic{
		Pos:      pos(tf, d.Primary.Start),
		End:      pos(tf, d.Primary.End),
		Category: d.Code.ID(),
		Message:  d.Message,
	}
	for _, n := range d.Notes {
		out.Related = append(out.Related, analysis.RelatedInformation{
			Pos:     pos(tf, n.Span.Start),
			End:     pos(tf, n.Span.End),
			Message: n.Msg,
		})
	}
	for _, f := range d.Fixes {
		sf := analysis.SuggestedFix{Message: f.Title}
		for _, e := range f.Edits {
			sf.TextEdits = append(sf.TextEdits, analysis.TextEdit{
				Pos:     pos(tf, e.Span.Start),
				End:     pos(tf, e.Span.End),
				NewText: []byte(e.NewText),
			})
		}
		out.SuggestedFixes = append(out.SuggestedFixes, sf)
	}
	return out
}

func pos(tf *token.File, off uint32) token.Pos {
	if int(off) > tf.Size() {
		return tf.Pos(tf.Size())
	}
	return tf.Pos(int(off))
}
