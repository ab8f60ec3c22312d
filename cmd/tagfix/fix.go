package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tagfix/internal/diag"
	"tagfix/internal/diagfmt"
	"tagfix/internal/fix"
	"tagfix/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.marko|directory>",
	Short: "Rewrite deprecated template syntax",
	Long:  "Run the migration rules, apply their fixes according to the chosen strategy and write the templates back.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes (default unless tagfix.toml says otherwise)")
	fixCmd.Flags().Bool("once", false, "apply the first available fix only")
	fixCmd.Flags().String("id", "", "apply the fix with a specific identifier (see diag --suggest)")
	fixCmd.Flags().Bool("dry-run", false, "report what would change without writing files")
	fixCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	fixCmd.Flags().Bool("cache", false, "reuse results of unchanged templates from the disk cache")
}

func runFix(cmd *cobra.Command, args []string) error {
	target := args[0]

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	opts, err := baseOptions(cmd, target)
	if err != nil {
		return err
	}
	switch {
	case targetID != "":
		opts.TargetID = targetID
	case applyAll:
		opts.FixMode = "all"
	case applyOnce:
		opts.FixMode = "once"
	}
	opts.Write = true
	opts.DryRun = dryRun

	outcome, err := runTarget(cmd, target, opts, jobs, "fixing")
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}

	// ошибки (например, битый <invoke>) показываем, даже если что-то исправили
	for _, r := range outcome.results {
		errs := errorsOnly(sortedItems(r.Bag))
		if len(errs) > 0 {
			diagfmt.Pretty(cmd.ErrOrStderr(), errs, r.FileSet, diagfmt.PrettyOpts{Color: !color.NoColor, PathMode: diagfmt.PathModeRelative})
		}
	}

	var fs *source.FileSet
	if len(outcome.results) > 0 {
		fs = outcome.results[0].FileSet
	}
	if err := handleApplyResult(cmd.OutOrStdout(), outcome.fixes, fs, dryRun); err != nil {
		return err
	}
	if outcome.hasErrors() {
		return errDiagnostics
	}
	return nil
}

func errorsOnly(items []diag.Diagnostic) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range items {
		if d.Severity == diag.SevError {
			out = append(out, d)
		}
	}
	return out
}

func handleApplyResult(w io.Writer, res *fix.ApplyResult, fs *source.FileSet, dryRun bool) error {
	if res == nil {
		return nil
	}

	if len(res.Applied) > 0 {
		if _, err := fmt.Fprintf(w, "Applied %d fix(es):\n", len(res.Applied)); err != nil {
			return err
		}
		for _, item := range res.Applied {
			if _, err := fmt.Fprintf(w, "  %s [%s] %s (%s)\n", item.Title, item.ID, location(fs, item.Primary), item.Applicability); err != nil {
				return err
			}
		}
	}

	changed := 0
	for _, change := range res.FileChanges {
		if change.Written || dryRun {
			changed++
		}
	}
	if changed > 0 {
		header := "Updated files:"
		if dryRun {
			header = "Would update (dry run):"
		}
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		for _, change := range res.FileChanges {
			if !change.Written && !dryRun {
				continue
			}
			if _, err := fmt.Fprintf(w, "  %s (%d fixes)\n", change.Path, change.FixCount); err != nil {
				return err
			}
		}
	}

	if len(res.Skipped) > 0 {
		if _, err := fmt.Fprintln(w, "Skipped fixes:"); err != nil {
			return err
		}
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if _, err := fmt.Fprintf(w, "  %s [%s]: %s\n", skip.Title, id, skip.Reason); err != nil {
				return err
			}
		}
	}

	if len(res.Applied) == 0 {
		if _, err := fmt.Fprintln(w, fix.ErrNoFixes.Error()+"."); err != nil {
			return err
		}
	}
	return nil
}

func location(fs *source.FileSet, span source.Span) string {
	if fs == nil || int(span.File) >= fs.Len() {
		return "(unknown location)"
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", fs.Get(span.File).FormatPath("relative", fs.BaseDir()), start.Line, start.Col)
}
