// Command domcheck tells whether the Hamburger Dom fair is currently open.
//
// The schedule is written with day.Day so `daymacro expand -w` can fold
// every date into a constant.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"daymacro/day"
)

// Period is a half-open interval [FirstDay, FirstDayAfter).
type Period struct {
	Name          string
	FirstDay      time.Time
	FirstDayAfter time.Time
}

var schedule = []Period{
	{Name: "Spring Dom 2024", FirstDay: day.Day("2024-03-21"), FirstDayAfter: day.Day("2024-04-22")},
	{Name: "Summer Dom 2024", FirstDay: day.Day("2024-07-26"), FirstDayAfter: day.Day("2024-08-26")},
	{Name: "Winter Dom 2024", FirstDay: day.Day("2024-11-08"), FirstDayAfter: day.Day("2024-12-09")},
}

// errOutdated means every period in the schedule is over.
var errOutdated = errors.New("could not find any period in the future")

// currentPeriod returns the period containing now. It returns nil when the
// next period has not started yet.
func currentPeriod(periods []Period, now time.Time) (*Period, error) {
	for i := range periods {
		next := &periods[i]
		if !next.FirstDayAfter.After(now) {
			continue
		}
		if next.FirstDay.Before(now) {
			return next, nil
		}
		return nil, nil
	}
	return nil, errOutdated
}

func run(out io.Writer, now time.Time) error {
	p, err := currentPeriod(schedule, now)
	if err != nil {
		fmt.Fprintln(out, "Could not find any period in the future.  Code seems to be outdated.")
		return err
	}
	if p != nil {
		fmt.Fprintln(out, "Yes.  Enjoy Dom! 🎠")
	} else {
		fmt.Fprintln(out, "No.  You'll have to wait for it.")
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var nowFlag string
	cmd := &cobra.Command{
		Use:           "domcheck",
		Short:         "Is it Dom time again?",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if nowFlag != "" {
				parsed, err := time.Parse(time.DateOnly, nowFlag)
				if err != nil {
					return fmt.Errorf("invalid --now value %q: %w", nowFlag, err)
				}
				now = parsed
			}
			return run(cmd.OutOrStdout(), now)
		},
	}
	cmd.Flags().StringVar(&nowFlag, "now", "", "pretend today is `YYYY-MM-DD`")
	return cmd
}

func main() {
	err := newRootCmd().Execute()
	switch {
	case err == nil:
	case errors.Is(err, errOutdated):
		os.Exit(int(syscall.ENOTSUP))
	default:
		fmt.Fprintf(os.Stderr, "domcheck: %v\n", err)
		os.Exit(1)
	}
}
