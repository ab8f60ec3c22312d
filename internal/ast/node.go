package ast

import (
	"tagfix/internal/source"
)

type NodeKind uint8

const (
	NodeProgram NodeKind = iota
	NodeTag
	NodeAttr
	NodeSpreadAttr
	NodeText
	NodePlaceholder
	NodeScriptlet
	NodeComment
)

func (k NodeKind) String() string {
	switch k {
	case NodeProgram:
		return "Program"
	case NodeTag:
		return "Tag"
	case NodeAttr:
		return "Attr"
	case NodeSpreadAttr:
		return "SpreadAttr"
	case NodeText:
		return "Text"
	case NodePlaceholder:
		return "Placeholder"
	case NodeScriptlet:
		return "Scriptlet"
	case NodeComment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// Field names the parent container that holds a node.
type Field uint8

const (
	FieldNone Field = iota
	FieldBody
	FieldAttrs
)

func (f Field) String() string {
	switch f {
	case FieldBody:
		return "body"
	case FieldAttrs:
		return "attrs"
	default:
		return "none"
	}
}

// Node is the header shared by all structural nodes. Parent is NoNodeID for the
// root and for nodes that were removed or replaced.
type Node struct {
	Kind    NodeKind
	Span    source.Span
	Parent  NodeID
	Field   Field
	Payload PayloadID
}

type ProgramData struct {
	Body []NodeID
}

// TagData: Name is a string literal for static tags and any other expression for dynamic ones.
type TagData struct {
	Name        ExprID
	Args        []ExprID
	Attrs       []NodeID
	Body        []NodeID
	SelfClosing bool
}

// AttrData описывает атрибут тега. Value всегда задан; Args == nil, если атрибут не вызов.
// Dynamic помечает устаревшую форму `${attrs}` в позиции атрибута.
type AttrData struct {
	Name    string
	Value   ExprID
	Args    []ExprID
	Dynamic bool
}

type SpreadAttrData struct {
	Value ExprID
}

type TextData struct {
	Value string
}

type PlaceholderData struct {
	Value  ExprID
	Escape bool
}

type ScriptletData struct {
	Body   []ExprID
	Static bool
}

type CommentData struct {
	Value string
}
