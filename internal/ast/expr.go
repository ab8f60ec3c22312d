package ast

import (
	"tagfix/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprString
	ExprTemplate
	ExprNumber
	ExprBool
	ExprCall
	ExprConditional
	ExprNull
	// ExprRaw keeps source text the reader did not break down further.
	ExprRaw
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "Ident"
	case ExprString:
		return "String"
	case ExprTemplate:
		return "Template"
	case ExprNumber:
		return "Number"
	case ExprBool:
		return "Bool"
	case ExprCall:
		return "Call"
	case ExprConditional:
		return "Conditional"
	case ExprNull:
		return "Null"
	case ExprRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// Expr is the common header of every expression. Synthesized expressions have HasLoc == false
// and a zero Span.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	HasLoc  bool
	Payload PayloadID
}

type ExprIdentData struct {
	Name string
}

// ExprStringData хранит содержимое между кавычками как есть, без раскрытия escape-последовательностей.
type ExprStringData struct {
	Raw   string
	Quote byte
}

// ExprTemplateData: len(Quasis) == len(Exprs)+1.
type ExprTemplateData struct {
	Quasis []string
	Exprs  []ExprID
}

type ExprNumberData struct {
	Raw string
}

type ExprBoolData struct {
	Value bool
}

type ExprCallData struct {
	Callee ExprID
	Args   []ExprID
}

type ExprConditionalData struct {
	Test       ExprID
	Consequent ExprID
	Alternate  ExprID
}

type ExprRawData struct {
	Text string
}
