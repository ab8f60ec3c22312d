package format

import (
	"errors"
	"strings"

	"tagfix/internal/ast"
)

type printer struct {
	tree   *ast.Tree
	writer *Writer
}

// FormatTree prints the whole tree.
func FormatTree(t *ast.Tree) ([]byte, error) {
	if t == nil {
		return nil, errors.New("format: nil tree")
	}
	if !t.Root.IsValid() {
		return nil, errors.New("format: tree without root")
	}
	root := t.Nodes.Get(t.Root)
	pr := printer{
		tree:   t,
		writer: NewWriter(int(root.Span.Len()) + 64),
	}
	pr.printNode(t.Root)
	return pr.writer.Bytes(), nil
}

// Node prints a single subtree; handy for messages and tests.
func Node(t *ast.Tree, id ast.NodeID) string {
	pr := printer{tree: t, writer: NewWriter(64)}
	pr.printNode(id)
	return string(pr.writer.Bytes())
}

func (p *printer) printNode(id ast.NodeID) {
	node := p.tree.Nodes.Get(id)
	if node == nil {
		return
	}
	w := p.writer
	switch node.Kind {
	case ast.NodeProgram:
		prog, _ := p.tree.Nodes.Program(id)
		for _, child := range prog.Body {
			p.printNode(child)
		}
	case ast.NodeTag:
		p.printTag(id)
	case ast.NodeAttr:
		p.printAttr(id)
	case ast.NodeSpreadAttr:
		spread, _ := p.tree.Nodes.SpreadAttr(id)
		w.WriteString("...")
		w.WriteString(Expr(p.tree, spread.Value))
	case ast.NodeText:
		text, _ := p.tree.Nodes.Text(id)
		w.WriteString(text.Value)
	case ast.NodePlaceholder:
		ph, _ := p.tree.Nodes.Placeholder(id)
		if ph.Escape {
			w.WriteString("${")
		} else {
			w.WriteString("$!{")
		}
		w.WriteString(Expr(p.tree, ph.Value))
		w.WriteString("}")
	case ast.NodeScriptlet:
		sc, _ := p.tree.Nodes.Scriptlet(id)
		for _, stmt := range sc.Body {
			w.EnsureLineStart()
			if sc.Static {
				w.WriteString("static ")
			} else {
				w.WriteString("$ ")
			}
			w.WriteString(Expr(p.tree, stmt))
			w.WriteString(";")
			w.EndLine()
		}
	case ast.NodeComment:
		c, _ := p.tree.Nodes.Comment(id)
		w.WriteString("<!--")
		w.WriteString(c.Value)
		w.WriteString("-->")
	}
}

func (p *printer) printTag(id ast.NodeID) {
	tag, _ := p.tree.Nodes.Tag(id)
	w := p.writer
	name, static := p.tree.TagName(id)

	w.WriteString("<")
	if static {
		w.WriteString(name)
	} else {
		w.WriteString("${")
		w.WriteString(Expr(p.tree, tag.Name))
		w.WriteString("}")
	}
	p.printArgs(tag.Args)
	for _, attr := range tag.Attrs {
		w.WriteString(" ")
		p.printNode(attr)
	}

	if len(tag.Body) == 0 {
		switch {
		case tag.SelfClosing:
			w.WriteString("/>")
			return
		case static && isVoid(name):
			w.WriteString(">")
			return
		}
	}
	w.WriteString(">")
	for _, child := range tag.Body {
		p.printNode(child)
	}
	if static {
		w.WriteString("</" + name + ">")
	} else {
		w.WriteString("</>")
	}
}

func (p *printer) printAttr(id ast.NodeID) {
	attr, _ := p.tree.Nodes.Attr(id)
	w := p.writer
	if attr.Dynamic {
		w.WriteString("${")
		w.WriteString(Expr(p.tree, attr.Value))
		w.WriteString("}")
		return
	}
	w.WriteString(attr.Name)
	p.printArgs(attr.Args)
	if !p.tree.Exprs.IsDefaultValue(attr.Value) {
		w.WriteString("=")
		w.WriteString(Expr(p.tree, attr.Value))
	}
}

func (p *printer) printArgs(args []ast.ExprID) {
	if args == nil {
		return
	}
	p.writer.WriteString("(")
	p.writer.WriteString(exprList(p.tree, args))
	p.writer.WriteString(")")
}

func isVoid(name string) bool {
	switch strings.ToLower(name) {
	case "area", "base", "br", "col", "embed", "hr", "img", "input", "link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}
