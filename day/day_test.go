package day

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDay(t *testing.T) {
	got := Day("2024-01-26")
	assert.Equal(t, time.Date(2024, time.January, 26, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestDayMatchesExpansion(t *testing.T) {
	// the expanded form of Day("2024-01-26")
	assert.True(t, Day("2024-01-26").Equal(SinceReferenceDate(727920000.0)))
	assert.True(t, Day("2024-02-30").Equal(Day("2024-03-01")))
}

func TestDayPanics(t *testing.T) {
	assert.Panics(t, func() { Day() })
	assert.Panics(t, func() { Day("2024-01-26", "2024-01-27") })
	assert.Panics(t, func() { Day("") })
	assert.Panics(t, func() { Day("2024-13-31") })
}

func TestSinceReferenceDate(t *testing.T) {
	assert.Equal(t, ReferenceDate, SinceReferenceDate(0))
	assert.Equal(t, time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC), SinceReferenceDate(-978307200))
	assert.Equal(t, time.Date(2001, time.January, 1, 0, 0, 1, 500_000_000, time.UTC), SinceReferenceDate(1.5))
	assert.Equal(t, time.Date(2000, time.December, 31, 23, 59, 59, 500_000_000, time.UTC), SinceReferenceDate(-0.5))
	assert.Equal(t, time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC), Day("0001-01-01"))
	assert.Equal(t, time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC), Day("9999-12-31"))
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 727920000.0, Offset(Day("2024-01-26")))
	assert.Equal(t, 1.5, Offset(SinceReferenceDate(1.5)))
}
