package expand

import (
	"strings"
	"testing"

	"daymacro/internal/calendar"
	"daymacro/internal/diag"
	"daymacro/internal/invocation"
	"daymacro/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

// literalCall builds day.Day("<text>") positioned at offset 0.
func literalCall(text string) invocation.Invocation {
	n := uint32(len(text))
	return invocation.Invocation{
		Qualifier: "day",
		Name:      "Day",
		Span:      sp(0, 8+n+3),
		Shape: invocation.LiteralArgument{
			Text:    text,
			Span:    sp(8, 8+n+2),
			Content: sp(9, 9+n),
		},
	}
}

func onlyDiagnostic(t *testing.T, res Result) diag.Diagnostic {
	t.Helper()
	if len(res.Diagnostics) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", len(res.Diagnostics), res.Diagnostics)
	}
	return res.Diagnostics[0]
}

func TestExpandCanonicalDate(t *testing.T) {
	res := Expand(literalCall("2024-01-26"), Options{})
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Diagnostics)
	}
	if res.Replacement == nil {
		t.Fatalf("expected replacement")
	}
	if got, want := res.Replacement.Expr, "day.SinceReferenceDate(727920000.0)"; got != want {
		t.Fatalf("replacement = %q, want %q", got, want)
	}
	if res.Replacement.Span != sp(0, 21) {
		t.Fatalf("replacement span = %v", res.Replacement.Span)
	}
}

func TestExpandCanonicalDatesNeverDiagnose(t *testing.T) {
	days := []string{"0001-01-01", "1970-01-01", "2000-02-29", "2001-01-01", "2024-12-31", "9999-12-31"}
	for _, policy := range []calendar.OverflowPolicy{calendar.OverflowNormalize, calendar.OverflowReject} {
		for _, text := range days {
			res := Expand(literalCall(text), Options{Overflow: policy})
			if len(res.Diagnostics) != 0 || res.Replacement == nil {
				t.Errorf("%s/%s: diagnostics=%+v replacement=%v", policy, text, res.Diagnostics, res.Replacement)
			}
		}
	}
}

func TestExpandDotImportAndCustomConstructor(t *testing.T) {
	inv := literalCall("2001-01-02")
	inv.Qualifier = ""
	res := Expand(inv, Options{Constructor: "FromOffset"})
	if res.Replacement == nil || res.Replacement.Expr != "FromOffset(86400.0)" {
		t.Fatalf("unexpected replacement %+v", res.Replacement)
	}
}

func TestExpandOverflowNormalize(t *testing.T) {
	res := Expand(literalCall("2024-02-30"), Options{Overflow: calendar.OverflowNormalize})
	d := onlyDiagnostic(t, res)
	if d.Severity != diag.SevWarning || d.Code != diag.DayNonCanonical {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Message != "Invalid day expression: 2024-02-30" {
		t.Fatalf("message %q", d.Message)
	}
	if d.Primary != sp(9, 19) {
		t.Fatalf("primary %v", d.Primary)
	}
	if len(d.Fixes) != 1 {
		t.Fatalf("expected 1 fix, got %d", len(d.Fixes))
	}
	f := d.Fixes[0]
	if f.Title != "Replace “2024-02-30” with “2024-03-01”" {
		t.Fatalf("fix title %q", f.Title)
	}
	if f.Applicability != diag.FixApplicabilityAlwaysSafe {
		t.Fatalf("fix applicability %s", f.Applicability)
	}
	if f.Edits[0].NewText != "2024-03-01" || f.Edits[0].Span != sp(9, 19) {
		t.Fatalf("fix edit %+v", f.Edits[0])
	}
	if res.Replacement == nil || res.Replacement.Expr != "day.SinceReferenceDate(730944000.0)" {
		t.Fatalf("replacement %+v", res.Replacement)
	}
	if res.HasErrors() {
		t.Fatalf("warning must not block expansion")
	}
}

func TestExpandOverflowReject(t *testing.T) {
	res := Expand(literalCall("2024-02-30"), Options{Overflow: calendar.OverflowReject})
	d := onlyDiagnostic(t, res)
	if d.Severity != diag.SevError || d.Code != diag.DayInvalidExpression || len(d.Fixes) != 0 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if res.Replacement != nil {
		t.Fatalf("unexpected replacement")
	}
}

func TestExpandShortFieldsNormalize(t *testing.T) {
	res := Expand(literalCall("2024-1-5"), Options{})
	d := onlyDiagnostic(t, res)
	if d.Fixes[0].Title != "Replace “2024-1-5” with “2024-01-05”" {
		t.Fatalf("fix title %q", d.Fixes[0].Title)
	}
	if d.Fixes[0].Edits[0].OldText != "2024-1-5" {
		t.Fatalf("fix guard %q", d.Fixes[0].Edits[0].OldText)
	}
}

func TestExpandInvalidDates(t *testing.T) {
	inputs := []string{"2024-13-31", "2024-00-01", "2024-01-32", "2024/01/26", "tomorrow", "2024-01-26T00:00:00Z", `2024\x2d01-26`}
	for _, policy := range []calendar.OverflowPolicy{calendar.OverflowNormalize, calendar.OverflowReject} {
		for _, text := range inputs {
			res := Expand(literalCall(text), Options{Overflow: policy})
			d := onlyDiagnostic(t, res)
			if d.Severity != diag.SevError || d.Code != diag.DayInvalidExpression {
				t.Errorf("%s/%s: unexpected diagnostic %+v", policy, text, d)
			}
			if d.Message != "Invalid day expression: "+text {
				t.Errorf("%s/%s: message %q", policy, text, d.Message)
			}
			if len(d.Fixes) != 0 || res.Replacement != nil {
				t.Errorf("%s/%s: expected no fix and no replacement", policy, text)
			}
		}
	}
}

func TestExpandEmptyLiteral(t *testing.T) {
	res := Expand(literalCall(""), Options{})
	d := onlyDiagnostic(t, res)
	if d.Code != diag.DayEmptyLiteral || d.Message != "String Literal is empty" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Primary != sp(9, 9) {
		t.Fatalf("primary %v", d.Primary)
	}
	if len(d.Fixes) != 1 {
		t.Fatalf("expected exactly 1 fix, got %d", len(d.Fixes))
	}
	f := d.Fixes[0]
	if f.Title != "Insert “<YYYY>-<MM>-<DD>”" || f.Edits[0].NewText != Placeholder {
		t.Fatalf("unexpected fix %+v", f)
	}
	if f.Applicability != diag.FixApplicabilityManualReview {
		t.Fatalf("placeholder fix should need review, got %s", f.Applicability)
	}
	if res.Replacement != nil {
		t.Fatalf("unexpected replacement")
	}
}

func TestExpandMissingArgument(t *testing.T) {
	inv := invocation.Invocation{Qualifier: "day", Name: "Day", Span: sp(4, 13), Shape: invocation.NoArgument{}}
	res := Expand(inv, Options{})
	d := onlyDiagnostic(t, res)
	if d.Code != diag.DayMissingArgument || d.Message != "Missing argument for parameter in macro expansion" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Primary != inv.Span {
		t.Fatalf("primary %v", d.Primary)
	}
	if len(d.Fixes) != 1 {
		t.Fatalf("expected exactly 1 fix, got %d", len(d.Fixes))
	}
	f := d.Fixes[0]
	if f.Title != `Insert “"<YYYY>-<MM>-<DD>"”` {
		t.Fatalf("fix title %q", f.Title)
	}
	if f.Edits[0].Span != inv.Span || f.Edits[0].NewText != `day.Day("<YYYY>-<MM>-<DD>")` {
		t.Fatalf("fix edit %+v", f.Edits[0])
	}
}

func TestExpandOtherArgument(t *testing.T) {
	tests := []struct {
		shape   invocation.OtherArgument
		message string
		hasNote bool
	}{
		{invocation.OtherArgument{Kind: "Integer", Mapped: true, Span: sp(8, 16)}, "Invalid type of argument: Integer", false},
		{invocation.OtherArgument{Kind: "CompositeLit", Span: sp(8, 16)}, "Invalid type of argument: CompositeLit", true},
	}
	for _, tt := range tests {
		inv := invocation.Invocation{Qualifier: "day", Name: "Day", Span: sp(0, 17), Shape: tt.shape}
		d := onlyDiagnostic(t, Expand(inv, Options{}))
		if d.Code != diag.DayInvalidArgumentType || d.Message != tt.message {
			t.Errorf("unexpected diagnostic %+v", d)
		}
		if d.Primary != tt.shape.Span || len(d.Fixes) != 0 {
			t.Errorf("primary=%v fixes=%d", d.Primary, len(d.Fixes))
		}
		if got := len(d.Notes) == 1; got != tt.hasNote {
			t.Errorf("notes %+v", d.Notes)
		}
		if tt.hasNote && !strings.HasPrefix(d.Notes[0].Msg, "Update type mapping for ") {
			t.Errorf("note %q", d.Notes[0].Msg)
		}
	}
}

func TestExpandInterpolation(t *testing.T) {
	inv := invocation.Invocation{Qualifier: "day", Name: "Day", Span: sp(0, 30), Shape: invocation.InterpolatedArgument{Span: sp(8, 29)}}
	d := onlyDiagnostic(t, Expand(inv, Options{}))
	want := "day.Day() does not support string interpolation, use a non-interpolated literal instead."
	if d.Code != diag.DayStringInterpolation || d.Message != want {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Primary != inv.Span || len(d.Fixes) != 0 {
		t.Fatalf("primary=%v fixes=%d", d.Primary, len(d.Fixes))
	}
}

func TestExpandTooManyArguments(t *testing.T) {
	inv := invocation.Invocation{Qualifier: "day", Name: "Day", Span: sp(0, 26), Shape: invocation.TooManyArguments{Count: 3, Extra: sp(20, 25)}}
	res := Expand(inv, Options{})
	d := onlyDiagnostic(t, res)
	if d.Message != "Extra arguments in macro expansion: expected at most 1, got 3" {
		t.Fatalf("message %q", d.Message)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Title != "Remove extra arguments" || d.Fixes[0].Edits[0].NewText != "" {
		t.Fatalf("fixes %+v", d.Fixes)
	}
	if res.Replacement != nil || !res.HasErrors() {
		t.Fatalf("expected a blocking error")
	}
}

func TestResultInvariant(t *testing.T) {
	shapes := []invocation.Invocation{
		literalCall("2024-01-26"),
		literalCall("2024-02-30"),
		literalCall("2024-13-31"),
		literalCall(""),
		{Span: sp(0, 9), Shape: invocation.NoArgument{}},
		{Span: sp(0, 9), Shape: invocation.OtherArgument{Kind: "Integer", Mapped: true}},
		{Span: sp(0, 9), Shape: invocation.InterpolatedArgument{}},
		{Span: sp(0, 9), Shape: invocation.TooManyArguments{Count: 2}},
	}
	for _, policy := range []calendar.OverflowPolicy{calendar.OverflowNormalize, calendar.OverflowReject} {
		for i, inv := range shapes {
			res := Expand(inv, Options{Overflow: policy})
			if res.Replacement != nil && res.HasErrors() {
				t.Errorf("%s/%d: replacement together with errors", policy, i)
			}
			if res.Replacement == nil && !res.HasErrors() {
				t.Errorf("%s/%d: no replacement and no error", policy, i)
			}
		}
	}
}
