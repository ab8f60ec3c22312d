package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tagfix/internal/diag"
	"tagfix/internal/driver"
	"tagfix/internal/fix"
	"tagfix/internal/observ"
	"tagfix/internal/project"
)

// runOutcome is what diag and fix print from.
type runOutcome struct {
	results []*driver.Result
	fixes   *fix.ApplyResult
	timing  observ.Report
	isDir   bool
}

func (o runOutcome) hasErrors() bool {
	for _, r := range o.results {
		if r.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// loadConfig reads --config or discovers tagfix.toml above target.
func loadConfig(cmd *cobra.Command, target string) (*project.Config, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if explicit != "" {
		return project.Load(explicit)
	}
	dir := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		dir = filepath.Dir(target)
	}
	return project.Discover(dir)
}

// baseOptions fills the driver options shared by diag and fix.
func baseOptions(cmd *cobra.Command, target string) (driver.Options, error) {
	var opts driver.Options
	cfg, err := loadConfig(cmd, target)
	if err != nil {
		return opts, err
	}
	opts.Config = cfg

	if opts.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.Timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f := cmd.Flags().Lookup("cache"); f != nil {
		useCache, err := cmd.Flags().GetBool("cache")
		if err != nil {
			return opts, fmt.Errorf("failed to get cache flag: %w", err)
		}
		if useCache {
			cache, err := driver.OpenDiskCache("tagfix")
			if err != nil {
				return opts, fmt.Errorf("failed to open cache: %w", err)
			}
			opts.Cache = cache
		}
	}
	return opts, nil
}

// runTarget migrates a file or a directory; directories get the progress UI when enabled.
func runTarget(cmd *cobra.Command, target string, opts driver.Options, jobs int, title string) (runOutcome, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	info, err := os.Stat(target)
	if err != nil {
		return runOutcome{}, err
	}
	if !info.IsDir() {
		res, fixes, err := driver.MigrateFile(ctx, target, opts)
		if err != nil {
			return runOutcome{}, err
		}
		return runOutcome{results: []*driver.Result{res}, fixes: fixes, timing: res.Timing}, nil
	}

	uiValue, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return runOutcome{}, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return runOutcome{}, err
	}

	var dir *driver.DirResult
	if shouldUseTUI(mode) {
		dir, err = runDirWithUI(ctx, title, target, opts, jobs)
	} else {
		dir, err = driver.MigrateDir(ctx, target, opts, jobs)
	}
	if err != nil {
		return runOutcome{}, err
	}
	return runOutcome{results: dir.Results, fixes: dir.Fixes, timing: dir.Timing, isDir: true}, nil
}

func sortedItems(bag *diag.Bag) []diag.Diagnostic {
	bag.Sort()
	return bag.Items()
}
