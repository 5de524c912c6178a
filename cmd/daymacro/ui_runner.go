package main

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"daymacro/internal/driver"
	"daymacro/internal/ui"
)

type expandOutcome struct {
	result *driver.Result
	err    error
}

// runExpandDirWithUI runs ExpandDir while a progress view consumes its events.
func runExpandDirWithUI(ctx context.Context, title, dir string, opts driver.Options) (*driver.Result, error) {
	files, err := driver.ListGoFiles(dir, opts.IncludeTests)
	if err != nil {
		return nil, err
	}
	// event paths are slash-cleaned like source.FileSet paths
	for i, f := range files {
		files[i] = filepath.ToSlash(filepath.Clean(f))
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan expandOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = driver.ChannelSink{Ch: events}
		res, err := driver.ExpandDir(ctx, dir, optsCopy)
		outcomeCh <- expandOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// keep the producer from blocking on a dead view
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
