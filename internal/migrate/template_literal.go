package migrate

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"tagfix/internal/ast"
	"tagfix/internal/diag"
	"tagfix/internal/source"
)

const templateLiteralMessage = "Non standard template literals have been deprecated, please use a regular template literal instead. See: " +
	wikiBase + "non-standard-template-literals"

// TemplateLiterals rewrites "a ${b}" string values into `a ${b}` template literals.
// Only attribute values and placeholder values are looked at.
func TemplateLiterals() Rule {
	return Rule{
		Name: "non-standard-template-literals",
		Visitors: map[ast.NodeKind]Visitor{
			ast.NodeAttr:        {Enter: checkAttrTemplate},
			ast.NodePlaceholder: {Enter: checkPlaceholderTemplate},
		},
	}
}

func checkAttrTemplate(c *Context, attr ast.Path) {
	a, ok := attr.Attr()
	if !ok || a.Dynamic {
		return
	}
	if tag := attr.Parent(); tag.IsValid() && c.IsExempt(tag) {
		return
	}
	reportTemplate(c, attr, a.Value, func(t *ast.Tree, old, repl ast.ExprID) {
		if a, ok := t.Nodes.Attr(attr.ID()); ok && a.Value == old {
			a.Value = repl
		}
	})
}

func checkPlaceholderTemplate(c *Context, ph ast.Path) {
	d, ok := c.Tree.Nodes.Placeholder(ph.ID())
	if !ok {
		return
	}
	reportTemplate(c, ph, d.Value, func(t *ast.Tree, old, repl ast.ExprID) {
		if d, ok := t.Nodes.Placeholder(ph.ID()); ok && d.Value == old {
			d.Value = repl
		}
	})
}

func reportTemplate(c *Context, p ast.Path, value ast.ExprID, set func(t *ast.Tree, old, repl ast.ExprID)) {
	s, ok := c.Tree.Exprs.StringLit(value)
	if !ok {
		return
	}
	parts, ok := splitTemplate(s.Raw)
	if !ok {
		return
	}
	c.Deprecate(p, Label{
		Code:     diag.MigTemplateLiteral,
		Message:  templateLiteralMessage,
		FixTitle: "use template literal",
		Fix: func() {
			if !p.Attached() {
				return
			}
			set(c.Tree, value, buildTemplate(c.Tree, value, parts))
		},
	})
}

// templatePart is one `${...}` hole of a string literal, offsets relative to Raw.
type templatePart struct {
	start, end int // expression text, without ${ and }
}

// splitTemplate finds unescaped ${...} holes in the raw text of a quoted string.
// It reports false when there is none or when a hole is not closed.
func splitTemplate(raw string) ([]templatePart, bool) {
	var parts []templatePart
	for i := 0; i < len(raw); i++ {
		switch {
		case raw[i] == '\\':
			i++
		case raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{':
			end, ok := closeBrace(raw, i+2)
			if !ok {
				return nil, false
			}
			parts = append(parts, templatePart{start: i + 2, end: end})
			i = end
		}
	}
	return parts, len(parts) > 0
}

// closeBrace returns the index of the } closing a hole that starts at from.
func closeBrace(raw string, from int) (int, bool) {
	depth := 0
	var quote byte
	for i := from; i < len(raw); i++ {
		ch := raw[i]
		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"', '`':
			quote = ch
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i, true
			}
			depth--
		}
	}
	return 0, false
}

// buildTemplate converts the string literal lit into an equivalent template literal.
// Holes become raw expressions located inside the original literal.
func buildTemplate(t *ast.Tree, lit ast.ExprID, parts []templatePart) ast.ExprID {
	expr := *t.Exprs.Get(lit)
	s, _ := t.Exprs.StringLit(lit)
	raw := s.Raw

	quasis := make([]string, 0, len(parts)+1)
	holes := make([]ast.ExprID, 0, len(parts))
	prev := 0
	for _, part := range parts {
		quasis = append(quasis, escapeQuasi(raw[prev:part.start-2]))
		holes = append(holes, t.Exprs.NewRaw(innerSpan(expr.Span, part), expr.HasLoc, raw[part.start:part.end]))
		prev = part.end + 1
	}
	quasis = append(quasis, escapeQuasi(raw[prev:]))
	return t.Exprs.NewTemplate(expr.Span, expr.HasLoc, quasis, holes)
}

// innerSpan maps a hole back into the source: +1 skips the opening quote.
func innerSpan(lit source.Span, part templatePart) source.Span {
	start, err := safecast.Conv[uint32](part.start + 1)
	if err != nil {
		panic(fmt.Errorf("template hole offset overflow: %w", err))
	}
	end, err := safecast.Conv[uint32](part.end + 1)
	if err != nil {
		panic(fmt.Errorf("template hole offset overflow: %w", err))
	}
	return source.Span{File: lit.File, Start: lit.Start + start, End: lit.Start + end}
}

// escapeQuasi escapes backticks that were plain characters inside a quoted string.
func escapeQuasi(s string) string {
	if !strings.Contains(s, "`") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s):
			b.WriteByte(s[i])
			b.WriteByte(s[i+1])
			i++
		case s[i] == '`':
			b.WriteString("\\`")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
