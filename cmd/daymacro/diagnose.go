package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"daymacro/internal/diagfmt"
	"daymacro/internal/driver"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.go|directory>",
	Short: "Check day macro invocations in a Go file or directory",
	Long:  `Report every invalid day.Day call in a Go source file or in all *.go files within a directory, without modifying anything`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json|yaml)")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "preview the lines each fix would change")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	addExpandFlags(diagCmd)
}

// readReportOptions collects the output flags of diag.
func readReportOptions(cmd *cobra.Command) (reportOptions, error) {
	var ro reportOptions
	var err error
	flags := cmd.Flags()
	if ro.format, err = flags.GetString("format"); err != nil {
		return ro, fmt.Errorf("failed to get format flag: %w", err)
	}
	if ro.noWarnings, err = flags.GetBool("no-warnings"); err != nil {
		return ro, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if ro.warningsAsErrors, err = flags.GetBool("warnings-as-errors"); err != nil {
		return ro, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if ro.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return ro, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if ro.suggest, err = flags.GetBool("suggest"); err != nil {
		return ro, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if ro.preview, err = flags.GetBool("preview"); err != nil {
		return ro, fmt.Errorf("failed to get preview flag: %w", err)
	}
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return ro, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	ro.pathMode = diagfmt.PathModeRelative
	if fullPath {
		ro.pathMode = diagfmt.PathModeAbsolute
	}
	if ro.color, err = useColor(cmd, os.Stdout); err != nil {
		return ro, err
	}
	return ro, ro.validate()
}

// runDiagnose expands the target in memory and prints the diagnostics.
// The exit status is 1 when any error remains after filtering.
func runDiagnose(cmd *cobra.Command, args []string) error {
	target := args[0]

	ro, err := readReportOptions(cmd)
	if err != nil {
		return err
	}
	opts, _, err := driverOptions(cmd, target)
	if err != nil {
		return err
	}
	ro.timer = opts.Timer

	res, err := driver.ExpandPath(cmd.Context(), target, opts)
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	hasErrors, err := writeReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), res, ro)
	if err != nil {
		return err
	}
	if hasErrors {
		return exitError{code: 1}
	}
	return nil
}
