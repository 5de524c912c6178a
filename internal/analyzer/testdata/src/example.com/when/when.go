package when

func On(value string) int64 { return 0 }

func FromOffset(seconds float64) int64 { return 0 }
