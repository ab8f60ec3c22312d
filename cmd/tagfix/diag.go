package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tagfix/internal/diag"
	"tagfix/internal/diagfmt"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.marko|directory>",
	Short: "Report deprecated template syntax",
	Long:  `Report deprecated template syntax in a template or in every template below a directory, without changing files`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	diagCmd.Flags().Bool("cache", false, "reuse results of unchanged templates from the disk cache")
	diagCmd.Flags().Int("context", 0, "source lines shown around each diagnostic (pretty format)")
}

type renderOptions struct {
	format    string
	withNotes bool
	suggest   bool
	fullPath  bool
	context   int
}

// runDiagnose executes "diag": it migrates the target with fixes turned off, prints the
// diagnostics in the chosen format and fails when any of them is an error.
func runDiagnose(cmd *cobra.Command, args []string) error {
	target := args[0]

	var ro renderOptions
	var err error
	if ro.format, err = cmd.Flags().GetString("format"); err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	ro.format = strings.ToLower(ro.format)
	switch ro.format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format %q (expected pretty|json|short)", ro.format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if ro.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if ro.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if ro.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if ro.context, err = cmd.Flags().GetInt("context"); err != nil {
		return fmt.Errorf("failed to get context flag: %w", err)
	}

	opts, err := baseOptions(cmd, target)
	if err != nil {
		return err
	}
	opts.FixMode = "none"

	outcome, err := runTarget(cmd, target, opts, jobs, "diagnosing")
	if err != nil {
		return fmt.Errorf("diag: %w", err)
	}
	if err := renderDiagnostics(cmd.OutOrStdout(), outcome, ro); err != nil {
		return err
	}
	if outcome.isDir && opts.Timings {
		fmt.Fprintln(cmd.ErrOrStderr(), "timings: "+outcome.timing.Summary())
	}
	if outcome.hasErrors() {
		return errDiagnostics
	}
	return nil
}

func renderDiagnostics(w io.Writer, outcome runOutcome, ro renderOptions) error {
	pathMode := diagfmt.PathModeRelative
	if ro.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch ro.format {
	case "json":
		merged := diagfmt.DiagnosticsOutput{Diagnostics: []diagfmt.DiagnosticJSON{}}
		for _, r := range outcome.results {
			out := diagfmt.BuildDiagnosticsOutput(sortedItems(r.Bag), r.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         pathMode,
				IncludeNotes:     ro.withNotes,
				IncludeFixes:     ro.suggest,
			})
			merged.Diagnostics = append(merged.Diagnostics, out.Diagnostics...)
		}
		merged.Count = len(merged.Diagnostics)
		return writeJSON(w, merged)

	case "short":
		for _, r := range outcome.results {
			if err := diagfmt.Short(w, sortedItems(r.Bag), r.FileSet); err != nil {
				return err
			}
		}
		return nil
	}

	total := 0
	counts := map[diag.Severity]int{}
	for _, r := range outcome.results {
		items := sortedItems(r.Bag)
		if len(items) == 0 {
			continue
		}
		if total > 0 {
			fmt.Fprintln(w)
		}
		diagfmt.Pretty(w, items, r.FileSet, diagfmt.PrettyOpts{
			Color:     !color.NoColor,
			Context:   int8(min(max(ro.context, 0), 16)), // #nosec G115 -- clamped above
			PathMode:  pathMode,
			ShowNotes: ro.withNotes,
			ShowFixes: ro.suggest,
		})
		total += len(items)
		for sev, n := range r.Bag.CountBySeverity() {
			counts[sev] += n
		}
	}
	if total == 0 {
		fmt.Fprintf(w, "no deprecated syntax found in %d template(s)\n", len(outcome.results))
		return nil
	}
	fmt.Fprintf(w, "\n%d template(s): %d deprecation(s), %d error(s)\n",
		len(outcome.results), counts[diag.SevDeprecation], counts[diag.SevError])
	return nil
}
