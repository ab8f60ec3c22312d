package ast

import (
	"tagfix/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena        *Arena[Expr]
	Idents       *Arena[ExprIdentData]
	Strings      *Arena[ExprStringData]
	Templates    *Arena[ExprTemplateData]
	Numbers      *Arena[ExprNumberData]
	Bools        *Arena[ExprBoolData]
	Calls        *Arena[ExprCallData]
	Conditionals *Arena[ExprConditionalData]
	Raws         *Arena[ExprRawData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Exprs{
		Arena:        NewArena[Expr](capHint),
		Idents:       NewArena[ExprIdentData](capHint),
		Strings:      NewArena[ExprStringData](capHint),
		Templates:    NewArena[ExprTemplateData](capHint >> 2),
		Numbers:      NewArena[ExprNumberData](capHint >> 2),
		Bools:        NewArena[ExprBoolData](capHint),
		Calls:        NewArena[ExprCallData](capHint >> 1),
		Conditionals: NewArena[ExprConditionalData](capHint >> 2),
		Raws:         NewArena[ExprRawData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, hasLoc bool, payload PayloadID) ExprID {
	if !hasLoc {
		span = source.Span{}
	}
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		HasLoc:  hasLoc,
		Payload: payload,
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, hasLoc bool, name string) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name})
	return e.new(ExprIdent, span, hasLoc, PayloadID(payload))
}

// Ident returns the identifier data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	p, ok := e.payload(id, ExprIdent)
	if !ok {
		return nil, false
	}
	return e.Idents.Get(p), true
}

// NewString creates a quoted string literal; raw is the text between the quotes.
func (e *Exprs) NewString(span source.Span, hasLoc bool, raw string, quote byte) ExprID {
	payload := e.Strings.Allocate(ExprStringData{Raw: raw, Quote: quote})
	return e.new(ExprString, span, hasLoc, PayloadID(payload))
}

func (e *Exprs) StringLit(id ExprID) (*ExprStringData, bool) {
	p, ok := e.payload(id, ExprString)
	if !ok {
		return nil, false
	}
	return e.Strings.Get(p), true
}

func (e *Exprs) NewTemplate(span source.Span, hasLoc bool, quasis []string, exprs []ExprID) ExprID {
	if len(quasis) != len(exprs)+1 {
		panic("ast: template quasis must outnumber expressions by one")
	}
	payload := e.Templates.Allocate(ExprTemplateData{Quasis: quasis, Exprs: exprs})
	return e.new(ExprTemplate, span, hasLoc, PayloadID(payload))
}

func (e *Exprs) Template(id ExprID) (*ExprTemplateData, bool) {
	p, ok := e.payload(id, ExprTemplate)
	if !ok {
		return nil, false
	}
	return e.Templates.Get(p), true
}

func (e *Exprs) NewNumber(span source.Span, hasLoc bool, raw string) ExprID {
	payload := e.Numbers.Allocate(ExprNumberData{Raw: raw})
	return e.new(ExprNumber, span, hasLoc, PayloadID(payload))
}

func (e *Exprs) Number(id ExprID) (*ExprNumberData, bool) {
	p, ok := e.payload(id, ExprNumber)
	if !ok {
		return nil, false
	}
	return e.Numbers.Get(p), true
}

func (e *Exprs) NewBool(span source.Span, hasLoc bool, value bool) ExprID {
	payload := e.Bools.Allocate(ExprBoolData{Value: value})
	return e.new(ExprBool, span, hasLoc, PayloadID(payload))
}

func (e *Exprs) Bool(id ExprID) (*ExprBoolData, bool) {
	p, ok := e.payload(id, ExprBool)
	if !ok {
		return nil, false
	}
	return e.Bools.Get(p), true
}

// NewDefaultValue creates the value given to an attribute written without one:
// a `true` literal with no source location.
func (e *Exprs) NewDefaultValue() ExprID {
	return e.NewBool(source.Span{}, false, true)
}

// IsDefaultValue reports whether id is an attribute default value.
func (e *Exprs) IsDefaultValue(id ExprID) bool {
	expr := e.Get(id)
	if expr == nil || expr.HasLoc {
		return false
	}
	b, ok := e.Bool(id)
	return ok && b.Value
}

// NewCall creates a new call expression.
func (e *Exprs) NewCall(span source.Span, hasLoc bool, callee ExprID, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Callee: callee, Args: args})
	return e.new(ExprCall, span, hasLoc, PayloadID(payload))
}

// Call returns the call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewConditional(span source.Span, hasLoc bool, test, consequent, alternate ExprID) ExprID {
	payload := e.Conditionals.Allocate(ExprConditionalData{Test: test, Consequent: consequent, Alternate: alternate})
	return e.new(ExprConditional, span, hasLoc, PayloadID(payload))
}

func (e *Exprs) Conditional(id ExprID) (*ExprConditionalData, bool) {
	p, ok := e.payload(id, ExprConditional)
	if !ok {
		return nil, false
	}
	return e.Conditionals.Get(p), true
}

func (e *Exprs) NewNull(span source.Span, hasLoc bool) ExprID {
	return e.new(ExprNull, span, hasLoc, NoPayloadID)
}

func (e *Exprs) NewRaw(span source.Span, hasLoc bool, text string) ExprID {
	payload := e.Raws.Allocate(ExprRawData{Text: text})
	return e.new(ExprRaw, span, hasLoc, PayloadID(payload))
}

func (e *Exprs) Raw(id ExprID) (*ExprRawData, bool) {
	p, ok := e.payload(id, ExprRaw)
	if !ok {
		return nil, false
	}
	return e.Raws.Get(p), true
}
