// Package expand decides what a single day invocation turns into: a
// replacement expression, diagnostics, or both when the only findings are
// warnings.
package expand

import (
	"fmt"

	"daymacro/internal/calendar"
	"daymacro/internal/diag"
	"daymacro/internal/fix"
	"daymacro/internal/invocation"
	"daymacro/internal/source"
)

// Placeholder is the template date inserted by placeholder fix-its. It can
// never parse as a date.
const Placeholder = "<YYYY>-<MM>-<DD>"

// DefaultConstructor is the runtime function the replacement calls.
const DefaultConstructor = "SinceReferenceDate"

type Options struct {
	Overflow    calendar.OverflowPolicy
	Constructor string
}

// Replacement substitutes Expr for the bytes under Span.
type Replacement struct {
	Span source.Span
	Expr string
}

// Result is either a replacement with warnings only, or no replacement
// and at least one error.
type Result struct {
	Replacement *Replacement
	Diagnostics []diag.Diagnostic
}

// HasErrors reports whether any diagnostic blocks expansion.
func (r Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Expand evaluates one invocation. It never fails: every problem is a
// diagnostic in the result.
func Expand(inv invocation.Invocation, opts Options) Result {
	switch shape := inv.Shape.(type) {
	case invocation.NoArgument:
		return missingArgument(inv)
	case invocation.OtherArgument:
		return invalidType(shape)
	case invocation.InterpolatedArgument:
		return failed(diag.NewError(diag.DayStringInterpolation, inv.Span,
			fmt.Sprintf("%s() does not support string interpolation, use a non-interpolated literal instead.", inv.Callee())))
	case invocation.TooManyArguments:
		return tooManyArguments(shape)
	case invocation.LiteralArgument:
		return literal(inv, shape, opts)
	}
	return failed(diag.NewError(diag.UnknownCode, inv.Span, fmt.Sprintf("unsupported invocation shape %T", inv.Shape)))
}

func failed(d diag.Diagnostic) Result {
	return Result{Diagnostics: []diag.Diagnostic{d}}
}

func missingArgument(inv invocation.Invocation) Result {
	quoted := `"` + Placeholder + `"`
	return failed(diag.NewError(diag.DayMissingArgument, inv.Span, "Missing argument for parameter in macro expansion").
		WithFixSuggestion(fix.ReplaceSpan(
			fmt.Sprintf("Insert “%s”", quoted),
			inv.Span,
			inv.Callee()+"("+quoted+")",
			"",
			fix.WithApplicability(diag.FixApplicabilityManualReview),
		)))
}

func invalidType(arg invocation.OtherArgument) Result {
	d := diag.NewError(diag.DayInvalidArgumentType, arg.Span, "Invalid type of argument: "+arg.Kind)
	if !arg.Mapped {
		d = d.WithNote(arg.Span, "Update type mapping for "+arg.Kind)
	}
	return failed(d)
}

func tooManyArguments(shape invocation.TooManyArguments) Result {
	return failed(diag.NewError(diag.DayTooManyArguments, shape.Extra,
		fmt.Sprintf("Extra arguments in macro expansion: expected at most 1, got %d", shape.Count)).
		WithFixSuggestion(fix.DeleteSpan("Remove extra arguments", shape.Extra, "",
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics))))
}

func literal(inv invocation.Invocation, lit invocation.LiteralArgument, opts Options) Result {
	if lit.Text == "" {
		return failed(diag.NewError(diag.DayEmptyLiteral, lit.Content, "String Literal is empty").
			WithFixSuggestion(fix.InsertText(
				fmt.Sprintf("Insert “%s”", Placeholder),
				lit.Content,
				Placeholder,
				"",
				fix.WithApplicability(diag.FixApplicabilityManualReview),
			)))
	}

	date, err := calendar.Parse(lit.Text, opts.Overflow)
	if err != nil {
		return failed(diag.NewError(diag.DayInvalidExpression, lit.Content, "Invalid day expression: "+lit.Text))
	}

	res := Result{Replacement: &Replacement{
		Span: inv.Span,
		Expr: constructorCall(inv.Qualifier, opts.Constructor, date),
	}}
	if canonical := date.String(); canonical != lit.Text {
		res.Diagnostics = append(res.Diagnostics,
			diag.NewWarning(diag.DayNonCanonical, lit.Content, "Invalid day expression: "+lit.Text).
				WithFixSuggestion(fix.ReplaceSpan(
					fmt.Sprintf("Replace “%s” with “%s”", lit.Text, canonical),
					lit.Content,
					canonical,
					lit.Text,
					fix.Preferred(),
				)))
	}
	return res
}

func constructorCall(qualifier, constructor string, date calendar.Date) string {
	if constructor == "" {
		constructor = DefaultConstructor
	}
	return invocation.Qualify(qualifier, constructor) + "(" + calendar.FormatOffset(date.ReferenceOffset()) + ")"
}
