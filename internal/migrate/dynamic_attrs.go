package migrate

import (
	"tagfix/internal/ast"
	"tagfix/internal/diag"
)

const dynamicAttrsMessage = `The "${attrs}" syntax is deprecated. Please use "...attrs" modifier instead. See: ` +
	wikiBase + "dynamic-attributes"

// DynamicAttributes rewrites <div ${attrs}> into <div ...attrs>.
func DynamicAttributes() Rule {
	return Rule{
		Name: "dynamic-attributes",
		Visitors: map[ast.NodeKind]Visitor{
			ast.NodeAttr: {Enter: checkDynamicAttr},
		},
	}
}

func checkDynamicAttr(c *Context, attr ast.Path) {
	a, ok := attr.Attr()
	if !ok || !a.Dynamic || a.Name != "" || a.Args != nil || c.Tree.Exprs.IsDefaultValue(a.Value) {
		return
	}
	if tag := attr.Parent(); tag.IsValid() && c.IsExempt(tag) {
		return
	}
	value := a.Value
	c.Deprecate(attr, Label{
		Code:     diag.MigDynamicAttributes,
		Message:  dynamicAttrsMessage,
		FixTitle: "use spread attribute",
		Fix: func() {
			if !attr.Attached() {
				return
			}
			attr.ReplaceWith(c.Tree.NewSpreadAttr(attr.Span(), value))
		},
	})
}
