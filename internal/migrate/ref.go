package migrate

import (
	"tagfix/internal/ast"
	"tagfix/internal/diag"
)

const refMessage = `The "ref" attribute is deprecated. Please use the "key" attribute instead. See: ` + wikiBase + "ref-attribute"

// RefAttribute renames ref="..." to key="...".
func RefAttribute() Rule {
	return Rule{
		Name: "ref-attribute",
		Visitors: map[ast.NodeKind]Visitor{
			ast.NodeAttr: {Enter: func(c *Context, attr ast.Path) {
				a, ok := attr.Attr()
				if !ok || a.Dynamic || a.Name != "ref" {
					return
				}
				if tag := attr.Parent(); tag.IsValid() && c.IsExempt(tag) {
					return
				}
				c.Deprecate(attr, Label{
					Code:     diag.MigRefAttribute,
					Message:  refMessage,
					FixTitle: `rename to "key"`,
					Fix: func() {
						renameRef(c.Tree, attr.ID())
					},
				})
			}},
		},
	}
}

// renameRef re-reads the payload: arena pointers do not survive allocations.
func renameRef(t *ast.Tree, attr ast.NodeID) {
	a, ok := t.Nodes.Attr(attr)
	if ok && t.Attached(attr) && a.Name == "ref" {
		a.Name = "key"
	}
}
