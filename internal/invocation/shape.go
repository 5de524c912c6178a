package invocation

import "daymacro/internal/source"

// Shape is the argument form of one invocation. The set of shapes is closed:
// NoArgument, LiteralArgument, InterpolatedArgument, OtherArgument and
// TooManyArguments.
type Shape interface {
	isShape()
}

// NoArgument is a call with an empty argument list.
type NoArgument struct{}

// LiteralArgument is a single plain string literal.
type LiteralArgument struct {
	// Text is the raw source text between the delimiters; escapes are kept.
	Text string
	// Span covers the literal including its delimiters.
	Span source.Span
	// Content covers Text only. It is empty for "".
	Content source.Span
}

// InterpolatedArgument is a string assembled from several segments.
type InterpolatedArgument struct {
	Span source.Span
}

// OtherArgument is a single argument of any other kind.
type OtherArgument struct {
	Kind string
	// Mapped is false when Kind is the fallback AST node type name.
	Mapped bool
	Span   source.Span
}

// TooManyArguments is a call with two or more arguments.
type TooManyArguments struct {
	Count int
	// Extra runs from the end of the first argument to the end of the last.
	Extra source.Span
}

func (NoArgument) isShape()           {}
func (LiteralArgument) isShape()      {}
func (InterpolatedArgument) isShape() {}
func (OtherArgument) isShape()        {}
func (TooManyArguments) isShape()     {}

// Invocation is one recognised macro call.
type Invocation struct {
	// Qualifier is the local package name used at the call site, "" when the
	// runtime package is dot-imported.
	Qualifier string
	// Name is the marker function name.
	Name  string
	Span  source.Span
	Shape Shape
}

// Callee renders the callee as written: "day.Day" or "Day".
func (inv Invocation) Callee() string {
	return Qualify(inv.Qualifier, inv.Name)
}

// Qualify joins a package qualifier and an identifier.
func Qualify(qualifier, name string) string {
	if qualifier == "" {
		return name
	}
	return qualifier + "." + name
}
