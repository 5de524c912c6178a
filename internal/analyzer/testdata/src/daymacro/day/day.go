package day

import "time"

// Day takes ...any on purpose. The real runtime takes ...string, so real
// code never type-checks with day.Day(42); the wider signature only lets
// the testdata reach the non-string diagnostics.
func Day(value ...any) time.Time { return time.Time{} }

func SinceReferenceDate(seconds float64) time.Time { return time.Time{} }
