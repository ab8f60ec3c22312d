package ast

import (
	"tagfix/internal/source"
)

// Path is a non-owning cursor over a node of a Tree. Mutations through a Path
// whose node is no longer attached do nothing.
type Path struct {
	tree *Tree
	id   NodeID
}

func NewPath(t *Tree, id NodeID) Path {
	return Path{tree: t, id: id}
}

func (p Path) Tree() *Tree   { return p.tree }
func (p Path) ID() NodeID    { return p.id }
func (p Path) IsValid() bool { return p.tree != nil && p.id.IsValid() }

func (p Path) Node() *Node {
	if p.tree == nil {
		return nil
	}
	return p.tree.Nodes.Get(p.id)
}

func (p Path) Kind() NodeKind {
	return p.Node().Kind
}

func (p Path) Span() source.Span {
	return p.Node().Span
}

// Parent returns the path of the owning node; the result is invalid for the root and for detached nodes.
func (p Path) Parent() Path {
	n := p.Node()
	if n == nil || !n.Parent.IsValid() {
		return Path{tree: p.tree}
	}
	return Path{tree: p.tree, id: n.Parent}
}

func (p Path) Attrs() []Path {
	return p.paths(FieldAttrs)
}

func (p Path) Body() []Path {
	return p.paths(FieldBody)
}

func (p Path) paths(field Field) []Path {
	ids := p.tree.Children(p.id, field)
	out := make([]Path, 0, len(ids))
	for _, id := range ids {
		out = append(out, Path{tree: p.tree, id: id})
	}
	return out
}

func (p Path) Attached() bool {
	return p.tree != nil && p.tree.Attached(p.id)
}

func (p Path) Remove() bool {
	return p.tree.Remove(p.id)
}

func (p Path) ReplaceWith(repl NodeID) bool {
	return p.tree.ReplaceWith(p.id, repl)
}

// Tag returns the tag payload when the path points at a tag.
func (p Path) Tag() (*TagData, bool) {
	return p.tree.Nodes.Tag(p.id)
}

func (p Path) Attr() (*AttrData, bool) {
	return p.tree.Nodes.Attr(p.id)
}

// TagName returns the static name of the tag under p.
func (p Path) TagName() (string, bool) {
	return p.tree.TagName(p.id)
}
