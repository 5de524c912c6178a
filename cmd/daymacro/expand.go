package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"daymacro/internal/diagfmt"
	"daymacro/internal/driver"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] <file.go|directory>",
	Short: "Rewrite day macro invocations into precomputed dates",
	Long: `Replace every day.Day("YYYY-MM-DD") call with day.SinceReferenceDate(seconds).
Without -w the expanded sources are printed; files with errors are never rewritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

var expandUI = uiModeAuto

func init() {
	expandCmd.Flags().BoolP("write", "w", false, "write the result back to the source files")
	expandCmd.Flags().Var(&expandUI, "ui", "progress view for directories (auto|on|off)")
	addExpandFlags(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	target := args[0]

	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}
	opts, _, err := driverOptions(cmd, target)
	if err != nil {
		return err
	}
	dir, err := isDir(target)
	if err != nil {
		return err
	}

	var res *driver.Result
	// the view owns the terminal, so it is only shown when nothing is printed to stdout
	if dir && write && expandUI.interactive() {
		res, err = runExpandDirWithUI(cmd.Context(), "expanding "+target, target, opts)
	} else {
		res, err = driver.ExpandPath(cmd.Context(), target, opts)
	}
	if err != nil {
		return fmt.Errorf("expansion failed: %w", err)
	}

	colored, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	hasErrors, err := writeReport(cmd.ErrOrStderr(), cmd.ErrOrStderr(), res, reportOptions{
		format:   "pretty",
		color:    colored,
		pathMode: diagfmt.PathModeRelative,
		timer:    opts.Timer,
	})
	if err != nil {
		return err
	}

	if write {
		written, err := driver.Write(res)
		for _, path := range written {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
		}
		if err != nil {
			return err
		}
	} else {
		printExpanded(cmd, res, dir)
	}

	invocations, expanded := res.Counts()
	fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d invocations expanded in %d files\n", expanded, invocations, len(res.Files))
	if hasErrors {
		return exitError{code: 1}
	}
	return nil
}

// printExpanded writes the expanded sources to stdout. Directory runs print
// changed files only, each under a "// == path ==" header.
func printExpanded(cmd *cobra.Command, res *driver.Result, dir bool) {
	out := cmd.OutOrStdout()
	for i := range res.Files {
		fr := &res.Files[i]
		if fr.Output == nil {
			continue
		}
		if dir {
			if !fr.Changed() {
				continue
			}
			fmt.Fprintf(out, "// == %s ==\n", displayName(res.FileSet.BaseDir(), fr.Path))
		}
		_, _ = out.Write(fr.Output)
	}
}
