package migrate

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"tagfix/internal/ast"
	"tagfix/internal/diag"
)

type directive struct {
	code diag.Code
	// bare - директива без аргументов (else).
	bare bool
}

var directives = map[string]directive{
	"for":     {code: diag.MigForDirective},
	"if":      {code: diag.MigIfDirective},
	"else-if": {code: diag.MigElseIfDirective},
	"else":    {code: diag.MigElseDirective, bare: true},
}

// IfDirective rewrites <tag if(x)>, <tag else-if(x)> and <tag else> into wrapper tags.
func IfDirective() Rule {
	return directiveRule("if-directive", "if", "else-if", "else")
}

// ForDirective rewrites <tag for(x)> into <for(x)><tag/></for>.
func ForDirective() Rule {
	return directiveRule("for-directive", "for")
}

func directiveRule(name string, names ...string) Rule {
	return Rule{
		Name: name,
		Visitors: map[ast.NodeKind]Visitor{
			ast.NodeAttr: {Enter: func(c *Context, attr ast.Path) {
				a, ok := attr.Attr()
				if !ok || a.Dynamic || !slices.Contains(names, a.Name) {
					return
				}
				checkDirective(c, attr, a)
			}},
		},
	}
}

func checkDirective(c *Context, attr ast.Path, a *ast.AttrData) {
	d := directives[a.Name]
	if d.bare {
		if a.Args != nil || !c.Tree.Exprs.IsDefaultValue(a.Value) {
			return
		}
	} else if len(a.Args) == 0 {
		return
	}

	tag := attr.Parent()
	if !tag.IsValid() || tag.Kind() != ast.NodeTag || c.IsExempt(tag) {
		return
	}

	name, args := a.Name, slices.Clone(a.Args)
	c.Deprecate(attr, Label{
		Code:     d.code,
		Message:  directiveMessage(name, d.bare),
		FixTitle: fmt.Sprintf("wrap in <%s>", name),
		Fix: func() {
			wrapInTag(c.Tree, attr.ID(), tag.ID(), name, args)
		},
	})
}

func directiveMessage(name string, bare bool) string {
	legacy := name + "(x)"
	if bare {
		legacy = name
	}
	return fmt.Sprintf(`The "%s" directive is deprecated. Please use "<%s>" tag instead. See: %scontrol-flow-attributes`,
		legacy, name, wikiBase)
}

// wrapInTag moves tag into the body of a new <name(args)> tag that takes its slot.
// The tag node itself is kept, only re-parented.
func wrapInTag(t *ast.Tree, attr, tag ast.NodeID, name string, args []ast.ExprID) {
	if !t.Remove(attr) {
		return
	}
	tagSpan := t.Nodes.Get(tag).Span
	attrSpan := t.Nodes.Get(attr).Span
	n, err := safecast.Conv[uint32](len(name))
	if err != nil {
		panic(fmt.Errorf("directive name length overflow: %w", err))
	}
	nameExpr := t.Exprs.NewString(attrSpan.Prefix(n), true, name, '"')
	wrapper := t.NewTag(tagSpan, nameExpr, args, nil, nil, false)
	if !t.ReplaceWith(tag, wrapper) {
		return
	}
	t.AppendBody(wrapper, tag)
}
