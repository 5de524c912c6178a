package invocation

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"daymacro/internal/source"
)

type parsed struct {
	fs    *source.FileSet
	id    source.FileID
	file  *ast.File
	loc   FileLocator
	calls []*ast.CallExpr
}

func parse(t *testing.T, src string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.go", []byte(src))
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "main.go", src, parser.SkipObjectResolution)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := parsed{fs: fs, id: id, file: file, loc: FileLocator{Fset: fset, File: id}}
	ast.Inspect(file, func(n ast.Node) bool {
		if call, ok := n.(*ast.CallExpr); ok {
			p.calls = append(p.calls, call)
		}
		return true
	})
	return p
}

func matchOne(t *testing.T, src string) (Invocation, parsed) {
	t.Helper()
	p := parse(t, src)
	m := NewMatcher(p.file)
	var found []Invocation
	for _, call := range p.calls {
		if inv, ok := m.Match(call, p.loc); ok {
			found = append(found, inv)
		}
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 invocation, got %d", len(found))
	}
	return found[0], p
}

func wrap(expr string) string {
	return "package p\n\nimport (\n\t\"fmt\"\n\n\t\"daymacro/day\"\n)\n\nvar _ = fmt.Sprint\n\nvar x = " + expr + "\n"
}

func TestMatchShapes(t *testing.T) {
	tests := []struct {
		expr  string
		check func(t *testing.T, s Shape, p parsed)
	}{
		{`day.Day()`, func(t *testing.T, s Shape, _ parsed) {
			if _, ok := s.(NoArgument); !ok {
				t.Fatalf("got %#v", s)
			}
		}},
		{`day.Day("2024-01-26")`, func(t *testing.T, s Shape, p parsed) {
			lit, ok := s.(LiteralArgument)
			if !ok {
				t.Fatalf("got %#v", s)
			}
			if lit.Text != "2024-01-26" || p.fs.Text(lit.Content) != "2024-01-26" {
				t.Fatalf("text=%q content=%q", lit.Text, p.fs.Text(lit.Content))
			}
			if p.fs.Text(lit.Span) != `"2024-01-26"` {
				t.Fatalf("span=%q", p.fs.Text(lit.Span))
			}
		}},
		{"day.Day(`2024-01-26`)", func(t *testing.T, s Shape, _ parsed) {
			if lit, ok := s.(LiteralArgument); !ok || lit.Text != "2024-01-26" {
				t.Fatalf("got %#v", s)
			}
		}},
		{`day.Day(("2024-01-26"))`, func(t *testing.T, s Shape, p parsed) {
			lit, ok := s.(LiteralArgument)
			if !ok || lit.Text != "2024-01-26" || p.fs.Text(lit.Content) != "2024-01-26" {
				t.Fatalf("got %#v", s)
			}
		}},
		{`day.Day((42))`, expectKind("Integer", true)},
		{`day.Day("")`, func(t *testing.T, s Shape, _ parsed) {
			lit, ok := s.(LiteralArgument)
			if !ok || lit.Text != "" || !lit.Content.Empty() {
				t.Fatalf("got %#v", s)
			}
			if lit.Content.Start != lit.Span.Start+1 {
				t.Fatalf("content should sit after the opening quote: %v in %v", lit.Content, lit.Span)
			}
		}},
		{`day.Day("2024-" + "01-26")`, expectInterpolated},
		{`day.Day(("2024-" + m) + "-26")`, expectInterpolated},
		{`day.Day(fmt.Sprintf("%d-01-26", 2024))`, expectInterpolated},
		{`day.Day(20240126)`, expectKind("Integer", true)},
		{`day.Day(1.5)`, expectKind("Float", true)},
		{`day.Day(2i)`, expectKind("Imaginary", true)},
		{`day.Day('x')`, expectKind("Character", true)},
		{`day.Day(today)`, expectKind("Identifier", true)},
		{`day.Day(now())`, expectKind("Call", true)},
		{`day.Day(fmt.Sprint(year))`, expectKind("Call", true)},
		{`day.Day(1 + 2)`, expectKind("BinaryExpr", false)},
		{`day.Day([]string{"a"}[0])`, expectKind("IndexExpr", false)},
		{`day.Day(dates...)`, expectKind("Variadic expansion", true)},
		{`day.Day("2024-01-26", "x")`, func(t *testing.T, s Shape, p parsed) {
			tm, ok := s.(TooManyArguments)
			if !ok || tm.Count != 2 {
				t.Fatalf("got %#v", s)
			}
			if got := p.fs.Text(tm.Extra); got != `, "x"` {
				t.Fatalf("extra=%q", got)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			inv, p := matchOne(t, wrap(tt.expr))
			if p.fs.Text(inv.Span) != tt.expr {
				t.Fatalf("invocation span %q", p.fs.Text(inv.Span))
			}
			if inv.Callee() != "day.Day" {
				t.Fatalf("callee %q", inv.Callee())
			}
			tt.check(t, inv.Shape, p)
		})
	}
}

func expectInterpolated(t *testing.T, s Shape, _ parsed) {
	t.Helper()
	if _, ok := s.(InterpolatedArgument); !ok {
		t.Fatalf("got %#v", s)
	}
}

func expectKind(kind string, mapped bool) func(*testing.T, Shape, parsed) {
	return func(t *testing.T, s Shape, _ parsed) {
		t.Helper()
		other, ok := s.(OtherArgument)
		if !ok {
			t.Fatalf("got %#v", s)
		}
		if other.Kind != kind || other.Mapped != mapped {
			t.Fatalf("kind=%q mapped=%v", other.Kind, other.Mapped)
		}
	}
}

func TestMatchImportNames(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		want      int
		qualifier string
	}{
		{
			name:      "alias",
			src:       "package p\nimport d \"daymacro/day\"\nvar a = d.Day(\"2024-01-26\")\nvar b = day.Day(\"2024-01-26\")\n",
			want:      1,
			qualifier: "d",
		},
		{
			name: "dot import",
			src:  "package p\nimport . \"daymacro/day\"\nvar a = Day(\"2024-01-26\")\n",
			want: 1,
		},
		{
			name: "not imported",
			src:  "package p\nvar a = day.Day(\"2024-01-26\")\n",
			want: 0,
		},
		{
			name: "blank import",
			src:  "package p\nimport _ \"daymacro/day\"\nvar a = day.Day(\"2024-01-26\")\n",
			want: 0,
		},
		{
			name:      "other function",
			src:       "package p\nimport \"daymacro/day\"\nvar a = day.SinceReferenceDate(0)\nvar b = day.Day()\n",
			want:      1,
			qualifier: "day",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parse(t, tt.src)
			m := NewMatcher(p.file)
			got := 0
			for _, call := range p.calls {
				inv, ok := m.Match(call, p.loc)
				if !ok {
					continue
				}
				got++
				if inv.Qualifier != tt.qualifier {
					t.Fatalf("qualifier %q, want %q", inv.Qualifier, tt.qualifier)
				}
			}
			if got != tt.want {
				t.Fatalf("matched %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMatchCustomTarget(t *testing.T) {
	src := "package p\nimport \"example.com/cal\"\nvar a = cal.Date(\"2024-01-26\")\n"
	p := parse(t, src)
	m := NewMatcher(p.file, WithTarget("example.com/cal", "Date"))
	if !m.Active() {
		t.Fatalf("matcher should be active")
	}
	inv, ok := m.Match(p.calls[0], p.loc)
	if !ok || inv.Callee() != "cal.Date" {
		t.Fatalf("got %+v ok=%v", inv, ok)
	}
}
