package main

import (
	"fmt"
	"io"

	"daymacro/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	if summary := timer.Summary(); summary != "" {
		fmt.Fprint(out, summary)
	}
}
