package migrate

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"tagfix/internal/ast"
	"tagfix/internal/diag"
	"tagfix/internal/source"
)

// Invoke turns <invoke fn(a, b)/> into the scriptlet `$ fn(a, b);`.
// A malformed <invoke> is an error and is removed from the tree.
func Invoke() Rule {
	return Rule{
		Name: "invoke",
		Visitors: map[ast.NodeKind]Visitor{
			ast.NodeTag: {Exit: exitInvoke},
		},
	}
}

func exitInvoke(c *Context, tag ast.Path) {
	if name, ok := tag.TagName(); !ok || name != "invoke" {
		return
	}

	attrs := tag.Attrs()
	failed := false
	if len(attrs) == 0 {
		c.Error(tag, diag.MigInvokeMissingValue, "The <invoke> tag requires a value.")
		failed = true
	} else {
		if !isCallAttr(c.Tree, attrs[0]) {
			c.Error(attrs[0], diag.MigInvokeNotCall, "The <invoke> tag requires a function call.")
			failed = true
		}
		if len(attrs) > 1 {
			c.Error(attrs[1], diag.MigInvokeExtraAttrs, "The <invoke> tag does not support other attributes.")
			failed = true
		}
	}
	if failed {
		tag.Remove()
		return
	}

	a, _ := attrs[0].Attr()
	call := callExpr(c.Tree, attrs[0].Span(), a.Name, a.Args)
	tag.ReplaceWith(c.Tree.NewScriptlet(tag.Span(), []ast.ExprID{call}, false))
}

// isCallAttr: fn(args) without a value.
func isCallAttr(t *ast.Tree, p ast.Path) bool {
	a, ok := p.Attr()
	return ok && !a.Dynamic && a.Args != nil && t.Exprs.IsDefaultValue(a.Value)
}

// callExpr builds name(args) located at the attribute: the callee covers the name,
// the call covers the whole attribute.
func callExpr(t *ast.Tree, attr source.Span, name string, args []ast.ExprID) ast.ExprID {
	n, err := safecast.Conv[uint32](len(name))
	if err != nil {
		panic(fmt.Errorf("callee name length overflow: %w", err))
	}
	callee := t.Exprs.NewIdent(source.Span{File: attr.File, Start: attr.Start, End: attr.Start + n}, true, name)
	return t.Exprs.NewCall(attr, true, callee, slices.Clone(args))
}
