package invocation

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"strconv"
	"strings"
)

const (
	DefaultImportPath = "daymacro/day"
	DefaultFunc       = "Day"
)

// Matcher recognises invocations of the marker function in one file.
type Matcher struct {
	importPath string
	funcName   string
	qualifier  string
	dotImport  bool
	imported   bool
	fmtName    string
	info       *types.Info
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithTarget overrides the runtime import path and marker function name.
func WithTarget(importPath, funcName string) Option {
	return func(m *Matcher) {
		if importPath != "" {
			m.importPath = importPath
		}
		if funcName != "" {
			m.funcName = funcName
		}
	}
}

// WithTypesInfo makes the matcher resolve callees through type information
// instead of import names, so shadowed identifiers are not matched.
func WithTypesInfo(info *types.Info) Option {
	return func(m *Matcher) {
		m.info = info
	}
}

// NewMatcher inspects the imports of file and returns a matcher for it.
func NewMatcher(file *ast.File, opts ...Option) *Matcher {
	m := &Matcher{
		importPath: DefaultImportPath,
		funcName:   DefaultFunc,
		fmtName:    "fmt",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if file == nil {
		return m
	}
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		local := ""
		if spec.Name != nil {
			local = spec.Name.Name
		}
		switch p {
		case m.importPath:
			switch local {
			case "_":
				continue
			case ".":
				m.dotImport = true
			case "":
				m.qualifier = path.Base(p)
			default:
				m.qualifier = local
			}
			m.imported = true
		case "fmt":
			if local != "" && local != "_" && local != "." {
				m.fmtName = local
			}
		}
	}
	return m
}

// Active reports whether the file imports the runtime package at all.
func (m *Matcher) Active() bool {
	return m.imported
}

// Match returns the invocation for call, or false when call does not
// invoke the marker function.
func (m *Matcher) Match(call *ast.CallExpr, loc Locator) (Invocation, bool) {
	qualifier, ok := m.callee(call.Fun)
	if !ok {
		return Invocation{}, false
	}
	inv := Invocation{
		Qualifier: qualifier,
		Name:      m.funcName,
		Span:      loc.Span(call.Pos(), call.End()),
	}
	inv.Shape = m.shape(call, loc)
	return inv, true
}

func (m *Matcher) callee(fun ast.Expr) (string, bool) {
	switch fn := ast.Unparen(fun).(type) {
	case *ast.SelectorExpr:
		id, ok := fn.X.(*ast.Ident)
		if !ok || fn.Sel.Name != m.funcName {
			return "", false
		}
		if m.info != nil {
			pkgName, ok := m.info.Uses[id].(*types.PkgName)
			if !ok || pkgName.Imported().Path() != m.importPath {
				return "", false
			}
			return id.Name, true
		}
		if m.dotImport || m.qualifier == "" || id.Name != m.qualifier {
			return "", false
		}
		return id.Name, true
	case *ast.Ident:
		if fn.Name != m.funcName {
			return "", false
		}
		if m.info != nil {
			obj, ok := m.info.Uses[fn].(*types.Func)
			return "", ok && obj.Pkg() != nil && obj.Pkg().Path() == m.importPath
		}
		return "", m.dotImport
	}
	return "", false
}

func (m *Matcher) shape(call *ast.CallExpr, loc Locator) Shape {
	switch n := len(call.Args); {
	case n == 0:
		return NoArgument{}
	case n > 1:
		return TooManyArguments{
			Count: n,
			Extra: loc.Span(call.Args[0].End(), call.Args[n-1].End()),
		}
	}

	arg := call.Args[0]
	span := loc.Span(arg.Pos(), arg.End())
	if call.Ellipsis.IsValid() {
		return OtherArgument{Kind: "Variadic expansion", Mapped: true, Span: span}
	}
	// parentheses do not change the argument: ("2024-01-26") is a literal
	if lit, ok := ast.Unparen(arg).(*ast.BasicLit); ok && lit.Kind == token.STRING {
		return LiteralArgument{
			Text:    lit.Value[1 : len(lit.Value)-1],
			Span:    span,
			Content: loc.Span(lit.Pos()+1, lit.End()-1),
		}
	}
	if m.interpolated(arg) {
		return InterpolatedArgument{Span: span}
	}
	kind, mapped := kindLabel(arg)
	return OtherArgument{Kind: kind, Mapped: mapped, Span: span}
}

// interpolated reports a string assembled from segments: a + chain or a
// fmt.Sprint* call with at least one string literal operand.
func (m *Matcher) interpolated(e ast.Expr) bool {
	switch x := ast.Unparen(e).(type) {
	case *ast.BinaryExpr:
		return x.Op == token.ADD && (hasStringLit(x.X) || hasStringLit(x.Y))
	case *ast.CallExpr:
		sel, ok := x.Fun.(*ast.SelectorExpr)
		if !ok || !strings.HasPrefix(sel.Sel.Name, "Sprint") {
			return false
		}
		if pkg, ok := sel.X.(*ast.Ident); !ok || pkg.Name != m.fmtName {
			return false
		}
		for _, a := range x.Args {
			if hasStringLit(a) {
				return true
			}
		}
	}
	return false
}

func hasStringLit(e ast.Expr) bool {
	switch x := ast.Unparen(e).(type) {
	case *ast.BasicLit:
		return x.Kind == token.STRING
	case *ast.BinaryExpr:
		return x.Op == token.ADD && (hasStringLit(x.X) || hasStringLit(x.Y))
	}
	return false
}

var literalKinds = map[token.Token]string{
	token.INT:   "Integer",
	token.FLOAT: "Float",
	token.IMAG:  "Imaginary",
	token.CHAR:  "Character",
}

func kindLabel(e ast.Expr) (string, bool) {
	e = ast.Unparen(e)
	switch x := e.(type) {
	case *ast.BasicLit:
		if label, ok := literalKinds[x.Kind]; ok {
			return label, true
		}
	case *ast.Ident:
		return "Identifier", true
	case *ast.CallExpr:
		return "Call", true
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", e), "*ast."), false
}
