package migrate

import (
	"tagfix/internal/ast"
	"tagfix/internal/diag"
)

const bodyOnlyIfMessage = `The "body-only-if(x)" directive is deprecated. Please use a dynamic tag "<${x ? null : tag}>" instead. See: ` +
	wikiBase + "body-only-if"

// BodyOnlyIf rewrites <div body-only-if(x)> into <${x ? null : "div"}>.
// Tags that are already dynamic are left alone.
func BodyOnlyIf() Rule {
	return Rule{
		Name: "body-only-if",
		Visitors: map[ast.NodeKind]Visitor{
			ast.NodeAttr: {Enter: checkBodyOnlyIf},
		},
	}
}

func checkBodyOnlyIf(c *Context, attr ast.Path) {
	a, ok := attr.Attr()
	if !ok || a.Dynamic || a.Name != "body-only-if" || len(a.Args) != 1 {
		return
	}
	tag := attr.Parent()
	if !tag.IsValid() || tag.Kind() != ast.NodeTag {
		return
	}
	if _, static := tag.TagName(); !static || c.IsExempt(tag) {
		return
	}

	cond := a.Args[0]
	c.Deprecate(attr, Label{
		Code:     diag.MigBodyOnlyIf,
		Message:  bodyOnlyIfMessage,
		FixTitle: "use dynamic tag",
		Fix: func() {
			makeBodyOnly(c.Tree, attr.ID(), tag.ID(), cond)
		},
	})
}

func makeBodyOnly(t *ast.Tree, attr, tag ast.NodeID, cond ast.ExprID) {
	if _, static := t.TagName(tag); !static {
		return
	}
	if !t.Remove(attr) {
		return
	}
	sp := t.Nodes.Get(attr).Span
	data, _ := t.Nodes.Tag(tag)
	null := t.Exprs.NewNull(sp, true)
	data.Name = t.Exprs.NewConditional(sp, true, cond, null, data.Name)
}
