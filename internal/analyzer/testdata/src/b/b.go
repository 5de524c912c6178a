package b

import "daymacro/day"

var start = day.Day("2024-01-26") // want `day\.Day can be expanded at compile time`

var before = day.Day("2000-12-31") // want `day\.Day can be expanded at compile time`
