package diagfmt

import (
	"fmt"
	"io"

	"tagfix/internal/diag"
	"tagfix/internal/source"
)

// Short prints one sorted line per diagnostic: `<sev> <CODE> <path>:<line>:<col> <message>`.
func Short(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet) error {
	out := diag.FormatShortDiagnostics(diags, fs)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
