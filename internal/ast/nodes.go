package ast

import (
	"tagfix/internal/source"
)

// Nodes manages allocation of structural nodes and their payloads.
type Nodes struct {
	Arena        *Arena[Node]
	Programs     *Arena[ProgramData]
	Tags         *Arena[TagData]
	Attrs        *Arena[AttrData]
	Spreads      *Arena[SpreadAttrData]
	Texts        *Arena[TextData]
	Placeholders *Arena[PlaceholderData]
	Scriptlets   *Arena[ScriptletData]
	Comments     *Arena[CommentData]
}

func NewNodes(capHint uint) *Nodes {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Nodes{
		Arena:        NewArena[Node](capHint),
		Programs:     NewArena[ProgramData](1),
		Tags:         NewArena[TagData](capHint >> 1),
		Attrs:        NewArena[AttrData](capHint >> 1),
		Spreads:      NewArena[SpreadAttrData](0),
		Texts:        NewArena[TextData](capHint >> 1),
		Placeholders: NewArena[PlaceholderData](capHint >> 2),
		Scriptlets:   NewArena[ScriptletData](0),
		Comments:     NewArena[CommentData](0),
	}
}

func (n *Nodes) new(kind NodeKind, span source.Span, payload uint32) NodeID {
	return NodeID(n.Arena.Allocate(Node{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the node header for id, or nil.
func (n *Nodes) Get(id NodeID) *Node {
	return n.Arena.Get(uint32(id))
}

func (n *Nodes) payload(id NodeID, kind NodeKind) (uint32, bool) {
	node := n.Get(id)
	if node == nil || node.Kind != kind {
		return 0, false
	}
	return uint32(node.Payload), true
}

func (n *Nodes) Program(id NodeID) (*ProgramData, bool) {
	p, ok := n.payload(id, NodeProgram)
	if !ok {
		return nil, false
	}
	return n.Programs.Get(p), true
}

func (n *Nodes) Tag(id NodeID) (*TagData, bool) {
	p, ok := n.payload(id, NodeTag)
	if !ok {
		return nil, false
	}
	return n.Tags.Get(p), true
}

func (n *Nodes) Attr(id NodeID) (*AttrData, bool) {
	p, ok := n.payload(id, NodeAttr)
	if !ok {
		return nil, false
	}
	return n.Attrs.Get(p), true
}

func (n *Nodes) SpreadAttr(id NodeID) (*SpreadAttrData, bool) {
	p, ok := n.payload(id, NodeSpreadAttr)
	if !ok {
		return nil, false
	}
	return n.Spreads.Get(p), true
}

func (n *Nodes) Text(id NodeID) (*TextData, bool) {
	p, ok := n.payload(id, NodeText)
	if !ok {
		return nil, false
	}
	return n.Texts.Get(p), true
}

func (n *Nodes) Placeholder(id NodeID) (*PlaceholderData, bool) {
	p, ok := n.payload(id, NodePlaceholder)
	if !ok {
		return nil, false
	}
	return n.Placeholders.Get(p), true
}

func (n *Nodes) Scriptlet(id NodeID) (*ScriptletData, bool) {
	p, ok := n.payload(id, NodeScriptlet)
	if !ok {
		return nil, false
	}
	return n.Scriptlets.Get(p), true
}

func (n *Nodes) Comment(id NodeID) (*CommentData, bool) {
	p, ok := n.payload(id, NodeComment)
	if !ok {
		return nil, false
	}
	return n.Comments.Get(p), true
}
