package ast

import (
	"fmt"
	"slices"

	"tagfix/internal/source"
)

type Hints struct{ Nodes, Exprs uint }

// Observer получает уведомления об изменении контейнеров дерева.
// index is the slot inside parent's field at the moment of the change.
type Observer interface {
	NodeRemoved(parent NodeID, field Field, index int)
	NodeReplaced(parent NodeID, field Field, index int)
	NodeInserted(parent NodeID, field Field, index int)
}

// Tree is a single template: node and expression arenas plus the Program root.
type Tree struct {
	File  source.FileID
	Nodes *Nodes
	Exprs *Exprs
	Root  NodeID

	observer Observer
	edits    uint64
}

func NewTree(file source.FileID, span source.Span, hints Hints) *Tree {
	t := &Tree{
		File:  file,
		Nodes: NewNodes(hints.Nodes),
		Exprs: NewExprs(hints.Exprs),
	}
	payload := t.Nodes.Programs.Allocate(ProgramData{})
	t.Root = t.Nodes.new(NodeProgram, span, payload)
	return t
}

// Edits counts structural changes (append, remove, replace) made so far.
// Payload updates done in place are not counted.
func (t *Tree) Edits() uint64 { return t.edits }

// SetObserver installs o and returns the previously installed observer.
func (t *Tree) SetObserver(o Observer) Observer {
	prev := t.observer
	t.observer = o
	return prev
}

// NewTag allocates a tag and adopts attrs and body.
func (t *Tree) NewTag(span source.Span, name ExprID, args []ExprID, attrs, body []NodeID, selfClosing bool) NodeID {
	payload := t.Nodes.Tags.Allocate(TagData{
		Name:        name,
		Args:        args,
		SelfClosing: selfClosing,
	})
	id := t.Nodes.new(NodeTag, span, payload)
	for _, a := range attrs {
		t.AppendAttr(id, a)
	}
	for _, b := range body {
		t.AppendBody(id, b)
	}
	return id
}

// NewAttr allocates an attribute. A missing value becomes the default value.
func (t *Tree) NewAttr(span source.Span, name string, value ExprID, args []ExprID) NodeID {
	if !value.IsValid() {
		value = t.Exprs.NewDefaultValue()
	}
	payload := t.Nodes.Attrs.Allocate(AttrData{Name: name, Value: value, Args: args})
	return t.Nodes.new(NodeAttr, span, payload)
}

// NewDynamicAttr allocates the `${expr}` attribute form.
func (t *Tree) NewDynamicAttr(span source.Span, value ExprID) NodeID {
	payload := t.Nodes.Attrs.Allocate(AttrData{Value: value, Dynamic: true})
	return t.Nodes.new(NodeAttr, span, payload)
}

func (t *Tree) NewSpreadAttr(span source.Span, value ExprID) NodeID {
	payload := t.Nodes.Spreads.Allocate(SpreadAttrData{Value: value})
	return t.Nodes.new(NodeSpreadAttr, span, payload)
}

func (t *Tree) NewText(span source.Span, value string) NodeID {
	payload := t.Nodes.Texts.Allocate(TextData{Value: value})
	return t.Nodes.new(NodeText, span, payload)
}

func (t *Tree) NewPlaceholder(span source.Span, value ExprID, escape bool) NodeID {
	payload := t.Nodes.Placeholders.Allocate(PlaceholderData{Value: value, Escape: escape})
	return t.Nodes.new(NodePlaceholder, span, payload)
}

func (t *Tree) NewScriptlet(span source.Span, body []ExprID, static bool) NodeID {
	payload := t.Nodes.Scriptlets.Allocate(ScriptletData{Body: body, Static: static})
	return t.Nodes.new(NodeScriptlet, span, payload)
}

func (t *Tree) NewComment(span source.Span, value string) NodeID {
	payload := t.Nodes.Comments.Allocate(CommentData{Value: value})
	return t.Nodes.new(NodeComment, span, payload)
}

// Children returns the container field of parent. The slice must not be retained across mutations.
func (t *Tree) Children(parent NodeID, field Field) []NodeID {
	if c := t.container(parent, field); c != nil {
		return *c
	}
	return nil
}

func (t *Tree) container(parent NodeID, field Field) *[]NodeID {
	switch field {
	case FieldBody:
		if p, ok := t.Nodes.Program(parent); ok {
			return &p.Body
		}
		if tag, ok := t.Nodes.Tag(parent); ok {
			return &tag.Body
		}
	case FieldAttrs:
		if tag, ok := t.Nodes.Tag(parent); ok {
			return &tag.Attrs
		}
	}
	return nil
}

// AppendBody moves a detached child to the end of parent's body.
func (t *Tree) AppendBody(parent, child NodeID) {
	t.append(parent, FieldBody, child)
}

// AppendAttr moves a detached attribute to the end of tag's attribute list.
func (t *Tree) AppendAttr(tag, attr NodeID) {
	t.append(tag, FieldAttrs, attr)
}

func (t *Tree) append(parent NodeID, field Field, child NodeID) {
	c := t.container(parent, field)
	if c == nil {
		panic(fmt.Sprintf("ast: node %d has no %s container", parent, field))
	}
	t.adopt(parent, field, child)
	*c = append(*c, child)
	t.edits++
	if t.observer != nil {
		t.observer.NodeInserted(parent, field, len(*c)-1)
	}
}

func (t *Tree) adopt(parent NodeID, field Field, child NodeID) {
	node := t.Nodes.Get(child)
	if node == nil {
		panic(fmt.Sprintf("ast: unknown node %d", child))
	}
	if node.Parent.IsValid() || child == t.Root {
		panic(fmt.Sprintf("ast: node %d is already attached", child))
	}
	node.Parent = parent
	node.Field = field
}

// IndexOf returns the slot of id inside its parent container, or -1.
func (t *Tree) IndexOf(id NodeID) int {
	node := t.Nodes.Get(id)
	if node == nil || !node.Parent.IsValid() {
		return -1
	}
	return slices.Index(t.Children(node.Parent, node.Field), id)
}

// Attached reports whether id is still reachable from the root.
func (t *Tree) Attached(id NodeID) bool {
	for id.IsValid() {
		if id == t.Root {
			return true
		}
		node := t.Nodes.Get(id)
		if node == nil {
			return false
		}
		id = node.Parent
	}
	return false
}

// Remove detaches id from its parent. It returns false when id was not attached.
func (t *Tree) Remove(id NodeID) bool {
	if !t.Attached(id) || id == t.Root {
		return false
	}
	node := t.Nodes.Get(id)
	parent, field := node.Parent, node.Field
	idx := t.IndexOf(id)
	if idx < 0 {
		return false
	}
	c := t.container(parent, field)
	*c = slices.Delete(*c, idx, idx+1)
	node.Parent = NoNodeID
	node.Field = FieldNone
	t.edits++
	if t.observer != nil {
		t.observer.NodeRemoved(parent, field, idx)
	}
	return true
}

// ReplaceWith puts the detached node repl into old's slot and detaches old.
// It returns false when old was not attached.
func (t *Tree) ReplaceWith(old, repl NodeID) bool {
	if old == repl || !t.Attached(old) || old == t.Root {
		return false
	}
	node := t.Nodes.Get(old)
	parent, field := node.Parent, node.Field
	idx := t.IndexOf(old)
	if idx < 0 {
		return false
	}
	t.adopt(parent, field, repl)
	c := t.container(parent, field)
	(*c)[idx] = repl
	node.Parent = NoNodeID
	node.Field = FieldNone
	t.edits++
	if t.observer != nil {
		t.observer.NodeReplaced(parent, field, idx)
	}
	return true
}

// TagName returns the static name of a tag. Dynamic tags report ok == false.
func (t *Tree) TagName(id NodeID) (string, bool) {
	tag, ok := t.Nodes.Tag(id)
	if !ok {
		return "", false
	}
	s, ok := t.Exprs.StringLit(tag.Name)
	if !ok {
		return "", false
	}
	return s.Raw, true
}

// Walk visits every attached node in pre-order without an observer.
// fn returning false skips the node's children.
func (t *Tree) Walk(fn func(id NodeID) bool) {
	var rec func(id NodeID)
	rec = func(id NodeID) {
		if !fn(id) {
			return
		}
		for _, c := range slices.Clone(t.Children(id, FieldAttrs)) {
			rec(c)
		}
		for _, c := range slices.Clone(t.Children(id, FieldBody)) {
			rec(c)
		}
	}
	rec(t.Root)
}
