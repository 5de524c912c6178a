package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"daymacro/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "daymacro",
	Short:         "Compile-time expansion of day.Day(\"YYYY-MM-DD\") calls",
	Long:          `daymacro validates day.Day("YYYY-MM-DD") calls and rewrites them into precomputed day.SinceReferenceDate offsets`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		stopTracing, err := setupTracing(cmd)
		if err != nil {
			stopProfiling()
			return err
		}
		traceCleanup = func() {
			stopTracing()
			stopProfiling()
		}
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		runTraceCleanup()
	},
}

// traceCleanup stops tracing and profiling. It is set by PersistentPreRunE
// and must run on every exit path.
var traceCleanup func()

func runTraceCleanup() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}

// exitError carries a process exit code without an extra message; the
// command already reported what went wrong.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "text", "trace format (text|ndjson)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
	rootCmd.PersistentFlags().String("config", "", "path to daymacro.toml (default: searched upwards from the target)")
	rootCmd.PersistentFlags().Bool("cache", false, "reuse expansion results from the on-disk cache")
	rootCmd.PersistentFlags().Bool("cache-clear", false, "drop the on-disk cache before running")
}

// main executes the root command. Commands signal a plain non-zero exit
// with exitError; other errors are printed first.
func main() {
	err := rootCmd.Execute()
	runTraceCleanup()
	if err == nil {
		return
	}
	var exit exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	fmt.Fprintf(os.Stderr, "daymacro: %v\n", err)
	os.Exit(1)
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
