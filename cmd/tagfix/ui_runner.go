package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tagfix/internal/driver"
	"tagfix/internal/progress"
	"tagfix/internal/ui"
)

type dirOutcome struct {
	result *driver.DirResult
	err    error
}

func runDirWithUI(ctx context.Context, title, dir string, opts driver.Options, jobs int) (*driver.DirResult, error) {
	files, err := driver.ListTemplates(dir, opts.Config)
	if err != nil {
		return nil, err
	}
	events := make(chan progress.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = progress.ChannelSink{Ch: events}
		res, err := driver.MigrateDir(ctx, dir, optsCopy, jobs)
		outcomeCh <- dirOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, progress.DisplayFiles(files, dir), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// UI упал раньше драйвера: дочитываем события, чтобы тот не заблокировался
		for range events {
		}
		outcome := <-outcomeCh
		return outcome.result, uiErr
	}
	outcome := <-outcomeCh
	return outcome.result, outcome.err
}
