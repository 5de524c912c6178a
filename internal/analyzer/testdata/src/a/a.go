package a

import (
	"fmt"

	"daymacro/day"
)

var (
	ok      = day.Day("2024-01-26")
	bad     = day.Day("2024-13-31")                   // want `Invalid day expression: 2024-13-31`
	soon    = day.Day("2024-1-5")                     // want `Invalid day expression: 2024-1-5`
	empty   = day.Day("")                             // want `String Literal is empty`
	missing = day.Day()                               // want `Missing argument for parameter in macro expansion`
	many    = day.Day("2024-01-26", "2024-01-27")     // want `Extra arguments in macro expansion: expected at most 1, got 2`
	typed   = day.Day(42)                             // want `Invalid type of argument: Integer`
	interp  = day.Day(fmt.Sprintf("%d-01-01", 2024)) // want `day\.Day\(\) does not support string interpolation`
)

func shadowed() {
	day := struct{ Day func(string) int }{}
	_ = day.Day("not a date")
}
