package diag

import (
	"testing"

	"daymacro/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewWarning(DayNonCanonical, span(0, 0, 1), "a")) {
		t.Fatalf("first add rejected")
	}
	if !b.Add(NewWarning(DayNonCanonical, span(0, 1, 2), "b")) {
		t.Fatalf("second add rejected")
	}
	if b.Add(NewError(DayInvalidExpression, span(0, 2, 3), "c")) {
		t.Fatalf("add past limit accepted")
	}
	if b.Len() != 2 || b.HasErrors() {
		t.Fatalf("len=%d errors=%v", b.Len(), b.HasErrors())
	}
	if !b.HasWarnings() {
		t.Fatalf("expected warnings")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	b := NewBag(0)
	b.Add(NewWarning(DayNonCanonical, span(1, 0, 4), "w"))
	b.Add(NewError(DayInvalidExpression, span(0, 5, 9), "late"))
	b.Add(NewError(DayEmptyLiteral, span(0, 1, 2), "early"))
	b.Add(NewError(DayEmptyLiteral, span(0, 1, 2), "early"))

	b.Dedup()
	if b.Len() != 3 {
		t.Fatalf("dedup kept %d items", b.Len())
	}
	b.Sort()
	got := []string{}
	for _, d := range b.Items() {
		got = append(got, d.Message)
	}
	want := []string{"early", "late", "w"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(DayInvalidExpression, span(0, 0, 1), "a"))
	other := NewBag(2)
	other.Add(NewError(DayInvalidExpression, span(0, 1, 2), "b"))
	other.Add(NewError(DayInvalidExpression, span(0, 2, 3), "c"))

	a.Merge(other)
	if a.Len() != 3 || a.Cap() != 3 {
		t.Fatalf("len=%d cap=%d", a.Len(), a.Cap())
	}
}

func TestBagFilter(t *testing.T) {
	b := NewBag(0)
	b.Add(NewWarning(DayNonCanonical, span(0, 0, 1), "w"))
	b.Add(NewError(DayInvalidExpression, span(0, 1, 2), "e"))
	b.Filter(Diagnostic.IsError)
	if b.Len() != 1 || b.Items()[0].Message != "e" {
		t.Fatalf("filter kept %+v", b.Items())
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		DayMissingArgument: "DAY1001",
		SynParseError:      "SYN2001",
		IOLoadFileError:    "IO4001",
		ObsTimings:         "OBS6001",
		UnknownCode:        "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if DayTooManyArguments.Title() != "Too many day arguments" {
		t.Errorf("unexpected title %q", DayTooManyArguments.Title())
	}
}
