package c

import (
	"daymacro/day"
	w "example.com/when"
)

var (
	leap   = w.On("2024-02-29")
	spring = w.On("2024-02-30") // want `Invalid day expression: 2024-02-30`
	other  = day.Day("2024-02-30")
)
