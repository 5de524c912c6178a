// Package day is the runtime side of the day macro.
//
// Source code writes day.Day("2024-01-26"). Running daymacro expand over it
// rewrites the call into day.SinceReferenceDate(727920000.0), so no parsing
// happens at run time. Unexpanded calls still work: Day parses its argument
// and panics on invalid input, like regexp.MustCompile.
package day

import (
	"fmt"
	"math"
	"time"

	"daymacro/internal/calendar"
)

// ReferenceDate is 2001-01-01T00:00:00Z.
var ReferenceDate = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// Day returns UTC midnight of the given YYYY-MM-DD date. Surplus days roll
// over into the next month. It takes exactly one argument; the variadic
// form exists so the macro pass can diagnose a missing one.
func Day(value ...string) time.Time {
	if len(value) != 1 {
		panic(fmt.Sprintf("day: Day expects exactly one argument, got %d", len(value)))
	}
	d, err := calendar.Parse(value[0], calendar.OverflowNormalize)
	if err != nil {
		panic(fmt.Sprintf("day: Day(%q): %v", value[0], err))
	}
	return SinceReferenceDate(d.ReferenceOffset())
}

// SinceReferenceDate returns the instant seconds after ReferenceDate, in UTC.
func SinceReferenceDate(seconds float64) time.Time {
	whole := math.Floor(seconds)
	nanos := math.Round((seconds - whole) * 1e9)
	return time.Unix(ReferenceDate.Unix()+int64(whole), int64(nanos)).UTC()
}

// Offset is the inverse of SinceReferenceDate.
func Offset(t time.Time) float64 {
	return float64(t.Unix()-ReferenceDate.Unix()) + float64(t.Nanosecond())/1e9
}
