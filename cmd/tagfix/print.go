package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tagfix/internal/diag"
	"tagfix/internal/diagfmt"
	"tagfix/internal/driver"
	"tagfix/internal/format"
	"tagfix/internal/parser"
	"tagfix/internal/source"
)

var printCmd = &cobra.Command{
	Use:   "print [flags] <file.marko>",
	Short: "Print a template after migration",
	Long:  "Print the migrated template to stdout without touching the file. With --raw the template is only parsed and printed back.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrint,
}

func init() {
	printCmd.Flags().Bool("raw", false, "print the parsed template without migrating it")
}

func runPrint(cmd *cobra.Command, args []string) error {
	path := args[0]
	raw, err := cmd.Flags().GetBool("raw")
	if err != nil {
		return err
	}

	if raw {
		fs := source.NewFileSet()
		id, err := fs.Load(path)
		if err != nil {
			return fmt.Errorf("print: %w", err)
		}
		bag := diag.NewBag(0)
		tree := parser.ParseFile(fs, id, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
		if bag.HasErrors() {
			if err := diagfmt.Short(cmd.ErrOrStderr(), sortedItems(bag), fs); err != nil {
				return err
			}
			return errDiagnostics
		}
		out, err := format.FormatTree(tree)
		if err != nil {
			return fmt.Errorf("print: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	opts, err := baseOptions(cmd, path)
	if err != nil {
		return err
	}
	opts.FixMode = "all"
	res, _, err := driver.MigrateFile(cmd.Context(), path, opts)
	if err != nil {
		return fmt.Errorf("print: %w", err)
	}
	if err := diagfmt.Short(cmd.ErrOrStderr(), sortedItems(res.Bag), res.FileSet); err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(res.Output); err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
