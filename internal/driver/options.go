package driver

import (
	"daymacro/internal/calendar"
	"daymacro/internal/expand"
	"daymacro/internal/invocation"
	"daymacro/internal/observ"
)

// Options configures an expansion run. Workers share it read-only.
type Options struct {
	// ImportPath and Func name the marker function.
	ImportPath string
	Func       string
	// Constructor is the runtime function the replacement calls.
	Constructor string
	Overflow    calendar.OverflowPolicy

	// IncludeTests makes ExpandDir visit _test.go files.
	IncludeTests   bool
	MaxDiagnostics int
	// Jobs bounds ExpandDir parallelism; <= 0 means GOMAXPROCS.
	Jobs int

	Cache  *DiskCache
	Events ProgressSink
	Timer  *observ.Timer
}

func (o Options) importPath() string {
	if o.ImportPath == "" {
		return invocation.DefaultImportPath
	}
	return o.ImportPath
}

func (o Options) funcName() string {
	if o.Func == "" {
		return invocation.DefaultFunc
	}
	return o.Func
}

func (o Options) constructor() string {
	if o.Constructor == "" {
		return expand.DefaultConstructor
	}
	return o.Constructor
}

func (o Options) expandOptions() expand.Options {
	return expand.Options{Overflow: o.Overflow, Constructor: o.constructor()}
}

// fingerprint covers every option that changes the outcome for a file.
func (o Options) fingerprint() string {
	return o.importPath() + "\x00" + o.funcName() + "\x00" + o.constructor() + "\x00" + o.Overflow.String()
}
