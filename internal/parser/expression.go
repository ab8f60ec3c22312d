package parser

import (
	"tagfix/internal/ast"
	"tagfix/internal/diag"
	"tagfix/internal/lexer"
)

// parseBraced reads the rest of a `${...}` whose opener is already consumed.
func (p *Parser) parseBraced(start lexer.Mark) (ast.ExprID, bool) {
	es := p.c.Off
	if !lexer.ScanBalanced(&p.c, lexer.StopAtCloseBrace) || !p.c.Eat('}') {
		p.err(diag.SynUnclosedPlaceholder, p.c.SpanFrom(start), "unclosed '${'")
		p.c.Reset(lexer.Mark(es))
		return ast.NoExprID, false
	}
	return p.parseExtent(es, p.c.Off-1), true
}

// parseExtent превращает участок исходника в выражение. Всё, что не разобрано
// целиком маленькой грамматикой ниже, сохраняется как ExprRaw.
func (p *Parser) parseExtent(start, end uint32) ast.ExprID {
	start, end = trimSpaces(p.c.File.Content, start, end)
	if start < end {
		e := exprParser{p: p, c: p.c.Sub(start, end)}
		if id, ok := e.parseExpr(); ok {
			e.c.SkipSpaces()
			if e.c.EOF() {
				return id
			}
		}
	}
	return p.tree.Exprs.NewRaw(p.span(start, end), true, string(p.c.File.Content[start:end]))
}

func trimSpaces(content []byte, start, end uint32) (s, e uint32) {
	for start < end && lexer.IsSpace(content[start]) {
		start++
	}
	for end > start && lexer.IsSpace(content[end-1]) {
		end--
	}
	return start, end
}

// exprParser разбирает подмножество JS:
//
//	expr    = call [ "?" expr ":" expr ]
//	call    = primary { "(" args ")" }
//	primary = ident{"."ident} | string | template | number | true | false | null
type exprParser struct {
	p *Parser
	c lexer.Cursor
}

func (e *exprParser) parseExpr() (ast.ExprID, bool) {
	e.c.SkipSpaces()
	start := e.c.Off
	test, ok := e.parseCall()
	if !ok {
		return ast.NoExprID, false
	}
	e.c.SkipSpaces()
	if e.c.Peek() != '?' {
		return test, true
	}
	if _, b1, ok2 := e.c.Peek2(); ok2 && (b1 == '?' || b1 == '.') {
		return ast.NoExprID, false
	}
	e.c.Bump()
	cons, ok := e.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	e.c.SkipSpaces()
	if !e.c.Eat(':') {
		return ast.NoExprID, false
	}
	alt, ok := e.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return e.p.tree.Exprs.NewConditional(e.p.span(start, e.c.Off), true, test, cons, alt), true
}

func (e *exprParser) parseCall() (ast.ExprID, bool) {
	start := e.c.Off
	callee, ok := e.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	for e.c.Peek() == '(' {
		e.c.Bump()
		args := make([]ast.ExprID, 0, 2)
		for {
			e.c.SkipSpaces()
			if e.c.Eat(')') {
				break
			}
			as := e.c.Off
			if !lexer.ScanBalanced(&e.c, lexer.StopAtArgEnd) || e.c.EOF() {
				return ast.NoExprID, false
			}
			if s, end := trimSpaces(e.c.File.Content, as, e.c.Off); end > s {
				args = append(args, e.p.parseExtent(s, end))
			}
			e.c.Eat(',')
		}
		callee = e.p.tree.Exprs.NewCall(e.p.span(start, e.c.Off), true, callee, args)
	}
	return callee, true
}

func (e *exprParser) parsePrimary() (ast.ExprID, bool) {
	e.c.SkipSpaces()
	start := e.c.Mark()
	exprs := e.p.tree.Exprs
	switch b := e.c.Peek(); {
	case b == '"' || b == '\'':
		if !lexer.ScanQuoted(&e.c) {
			return ast.NoExprID, false
		}
		sp := e.c.SpanFrom(start)
		raw := string(e.c.File.Content[sp.Start+1 : sp.End-1])
		return exprs.NewString(sp, true, raw, b), true
	case b == '`':
		return e.parseTemplate()
	case lexer.IsDigit(b):
		for !e.c.EOF() && (lexer.IsIdentContinue(e.c.Peek()) || e.c.Peek() == '.') {
			e.c.Bump()
		}
		return exprs.NewNumber(e.c.SpanFrom(start), true, e.c.TextFrom(start)), true
	case lexer.IsIdentStart(b):
		name, ok := e.scanDotted()
		if !ok {
			return ast.NoExprID, false
		}
		sp := e.c.SpanFrom(start)
		switch name {
		case "true", "false":
			return exprs.NewBool(sp, true, name == "true"), true
		case "null":
			return exprs.NewNull(sp, true), true
		}
		return exprs.NewIdent(sp, true, name), true
	}
	return ast.NoExprID, false
}

func (e *exprParser) scanDotted() (string, bool) {
	start := e.c.Mark()
	for {
		if e.c.EOF() || !lexer.IsIdentStart(e.c.Peek()) {
			return "", false
		}
		for !e.c.EOF() && lexer.IsIdentContinue(e.c.Peek()) {
			e.c.Bump()
		}
		if e.c.Peek() != '.' {
			return e.c.TextFrom(start), true
		}
		e.c.Bump()
	}
}

func (e *exprParser) parseTemplate() (ast.ExprID, bool) {
	start := e.c.Mark()
	e.c.Bump() // '`'
	var quasis []string
	var parts []ast.ExprID
	qs := e.c.Mark()
	for !e.c.EOF() {
		switch {
		case e.c.Peek() == '\\':
			e.c.Bump()
			e.c.Bump()
		case e.c.Peek() == '`':
			quasis = append(quasis, e.c.TextFrom(qs))
			e.c.Bump()
			return e.p.tree.Exprs.NewTemplate(e.c.SpanFrom(start), true, quasis, parts), true
		case e.c.HasPrefix("${"):
			quasis = append(quasis, e.c.TextFrom(qs))
			e.c.EatString("${")
			es := e.c.Off
			if !lexer.ScanBalanced(&e.c, lexer.StopAtCloseBrace) || !e.c.Eat('}') {
				return ast.NoExprID, false
			}
			parts = append(parts, e.p.parseExtent(es, e.c.Off-1))
			qs = e.c.Mark()
		default:
			e.c.Bump()
		}
	}
	return ast.NoExprID, false
}
