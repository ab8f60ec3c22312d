package format

import (
	"strings"

	"tagfix/internal/ast"
)

// Expr prints an expression as template source.
func Expr(t *ast.Tree, id ast.ExprID) string {
	var b strings.Builder
	writeExpr(&b, t, id)
	return b.String()
}

func exprList(t *ast.Tree, ids []ast.ExprID) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(&b, t, id)
	}
	return b.String()
}

func writeExpr(b *strings.Builder, t *ast.Tree, id ast.ExprID) {
	expr := t.Exprs.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.ExprIdent:
		d, _ := t.Exprs.Ident(id)
		b.WriteString(d.Name)
	case ast.ExprString:
		d, _ := t.Exprs.StringLit(id)
		b.WriteByte(d.Quote)
		b.WriteString(d.Raw)
		b.WriteByte(d.Quote)
	case ast.ExprTemplate:
		d, _ := t.Exprs.Template(id)
		b.WriteByte('`')
		for i, q := range d.Quasis {
			b.WriteString(q)
			if i < len(d.Exprs) {
				b.WriteString("${")
				writeExpr(b, t, d.Exprs[i])
				b.WriteString("}")
			}
		}
		b.WriteByte('`')
	case ast.ExprNumber:
		d, _ := t.Exprs.Number(id)
		b.WriteString(d.Raw)
	case ast.ExprBool:
		d, _ := t.Exprs.Bool(id)
		if d.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case ast.ExprNull:
		b.WriteString("null")
	case ast.ExprCall:
		d, _ := t.Exprs.Call(id)
		writeExpr(b, t, d.Callee)
		b.WriteString("(")
		b.WriteString(exprList(t, d.Args))
		b.WriteString(")")
	case ast.ExprConditional:
		d, _ := t.Exprs.Conditional(id)
		if test := t.Exprs.Get(d.Test); test != nil && test.Kind == ast.ExprConditional {
			b.WriteString("(")
			writeExpr(b, t, d.Test)
			b.WriteString(")")
		} else {
			writeExpr(b, t, d.Test)
		}
		b.WriteString(" ? ")
		writeExpr(b, t, d.Consequent)
		b.WriteString(" : ")
		writeExpr(b, t, d.Alternate)
	case ast.ExprRaw:
		d, _ := t.Exprs.Raw(id)
		b.WriteString(d.Text)
	}
}
