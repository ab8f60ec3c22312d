package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tagfix/internal/diag"
	"tagfix/internal/source"
)

type palette struct {
	err, warn, depr, info *color.Color
	code, path, caret     *color.Color
	note, gutter          *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		depr:   color.New(color.FgMagenta, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgBlue),
		gutter: color.New(color.FgBlue, color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.depr, p.info, p.code, p.path, p.caret, p.note, p.gutter} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	case diag.SevDeprecation:
		return p.depr
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид, в порядке diags.
// Для каждой печатает:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строки контекста с подчёркиванием ^~~~ по Span, затем Notes и Fixes по опциям.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i := range diags {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &diags[i], fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := lookup(fs, d.Primary)
	loc := "<unknown>"
	if f != nil {
		start, _ := fs.Resolve(d.Primary)
		loc = fmt.Sprintf("%s:%d:%d", formatPath(fs, f, opts.PathMode), start.Line, start.Col)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(loc),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)
	if f != nil && d.Code != diag.ObsTimings {
		excerpt(w, fs, f, d.Primary, int(opts.Context), p)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := lookup(fs, n.Span)
			if nf == nil {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
				continue
			}
			start, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), formatPath(fs, nf, opts.PathMode), start.Line, start.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fx := range sortedFixes(d.Fixes) {
			fmt.Fprintf(w, "  %s %s (%s", p.note.Sprintf("fix #%d:", i+1), fx.Title, fx.Applicability)
			if fx.ID != "" {
				fmt.Fprintf(w, ", id=%s", fx.ID)
			}
			fmt.Fprintln(w, ")")
		}
	}
}

// excerpt prints the primary line plus ctx lines around it and underlines the span.
func excerpt(w io.Writer, fs *source.FileSet, f *source.File, span source.Span, ctx int, p palette) {
	start, end := fs.Resolve(span)
	first := max(int(start.Line)-ctx, 1)
	last := min(int(start.Line)+ctx, len(f.LineIdx)+1)
	width := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		text := f.GetLine(uint32(n)) // #nosec G115 -- line numbers come from LineIdx
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", width, n), text)
		if n != int(start.Line) {
			continue
		}
		col := int(start.Col) - 1
		length := 1
		if end.Line == start.Line && end.Col > start.Col {
			length = int(end.Col - start.Col)
		} else if end.Line != start.Line {
			length = max(len(text)-col, 1)
		}
		pad := padding(text, col)
		mark := "^" + strings.Repeat("~", length-1)
		fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), pad, p.caret.Sprint(mark))
	}
}

// padding keeps tabs so the caret lines up with the source line.
func padding(line string, col int) string {
	col = min(max(col, 0), len(line))
	var b strings.Builder
	for _, r := range line[:col] {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
