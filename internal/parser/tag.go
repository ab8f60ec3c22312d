package parser

import (
	"fmt"

	"tagfix/internal/ast"
	"tagfix/internal/diag"
	"tagfix/internal/lexer"
)

// теги без тела
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// теги, тело которых читается как текст
var rawTextTags = map[string]bool{
	"script": true, "style": true,
}

func (p *Parser) parseTag(parent ast.NodeID) {
	start := p.c.Mark()
	p.c.Bump() // '<'

	ot := &openTag{start: uint32(start)}
	var name ast.ExprID
	if p.c.HasPrefix("${") {
		ms := p.c.Mark()
		p.c.EatString("${")
		expr, ok := p.parseBraced(ms)
		if !ok {
			return
		}
		name = expr
		ot.dynamic = true
	} else {
		ms := p.c.Mark()
		ot.name = lexer.ScanName(&p.c)
		name = p.tree.Exprs.NewString(p.c.SpanFrom(ms), true, ot.name, '"')
	}

	var args []ast.ExprID
	if p.c.Peek() == '(' {
		args = p.parseArgs()
	}

	tag := p.tree.NewTag(p.c.SpanFrom(start), name, args, nil, nil, false)
	ot.id = tag
	p.tree.AppendBody(parent, tag)
	defer func() {
		p.tree.Nodes.Get(tag).Span = p.c.SpanFrom(start)
	}()

	if !p.parseAttrs(tag, ot) {
		return
	}

	switch {
	case !ot.dynamic && voidTags[ot.name]:
		return
	case !ot.dynamic && rawTextTags[ot.name]:
		p.parseRawText(tag, ot)
	default:
		p.parseBody(tag, ot)
	}
}

// parseAttrs returns true when the start tag ended with `>` and a body follows.
func (p *Parser) parseAttrs(tag ast.NodeID, ot *openTag) bool {
	for {
		p.c.SkipSpaces()
		switch {
		case p.c.EOF():
			p.err(diag.SynUnclosedTag, p.span(ot.start, p.c.Off), "unexpected end of file inside start tag")
			return false
		case p.c.EatString("/>"):
			td, _ := p.tree.Nodes.Tag(tag)
			td.SelfClosing = true
			return false
		case p.c.Eat('>'):
			return true
		case p.c.Eat(','):
			// старый синтаксис `<div a=1, b=2>`
		case p.c.HasPrefix("${"):
			ms := p.c.Mark()
			p.c.EatString("${")
			if expr, ok := p.parseBraced(ms); ok {
				p.tree.AppendAttr(tag, p.tree.NewDynamicAttr(p.c.SpanFrom(ms), expr))
			}
		case p.c.HasPrefix("..."):
			p.parseSpread(tag)
		default:
			p.parseAttr(tag)
		}
	}
}

func (p *Parser) parseAttr(tag ast.NodeID) {
	start := p.c.Mark()
	name := lexer.ScanName(&p.c)
	if name == "" {
		bad := p.c.Mark()
		b := p.c.Bump()
		p.err(diag.SynUnexpectedChar, p.c.SpanFrom(bad), fmt.Sprintf("unexpected character %q in start tag", b))
		return
	}

	var args []ast.ExprID
	if p.c.Peek() == '(' {
		args = p.parseArgs()
	}

	afterName := p.c.Mark()
	var value ast.ExprID
	p.c.SkipSpaces()
	if p.c.Peek() == '=' {
		p.c.Bump()
		p.c.SkipSpaces()
		vs := p.c.Off
		if !lexer.ScanBalanced(&p.c, lexer.StopAtAttrValueEnd) || p.c.Off == vs {
			p.err(diag.SynExpectAttrValue, p.c.SpanFrom(start), fmt.Sprintf("expected value for attribute %q", name))
		} else {
			value = p.parseExtent(vs, p.c.Off)
		}
	} else {
		p.c.Reset(afterName)
	}

	p.tree.AppendAttr(tag, p.tree.NewAttr(p.c.SpanFrom(start), name, value, args))
}

func (p *Parser) parseSpread(tag ast.NodeID) {
	start := p.c.Mark()
	p.c.EatString("...")
	vs := p.c.Off
	if !lexer.ScanBalanced(&p.c, lexer.StopAtAttrValueEnd) || p.c.Off == vs {
		p.err(diag.SynExpectAttrValue, p.c.SpanFrom(start), "expected expression after '...'")
		return
	}
	p.tree.AppendAttr(tag, p.tree.NewSpreadAttr(p.c.SpanFrom(start), p.parseExtent(vs, p.c.Off)))
}

// parseArgs reads `(a, b)`; the result is non-nil even for `()`.
func (p *Parser) parseArgs() []ast.ExprID {
	open := p.c.Mark()
	p.c.Bump() // '('
	args := make([]ast.ExprID, 0, 2)
	for {
		p.c.SkipSpaces()
		if p.c.Eat(')') {
			return args
		}
		as := p.c.Off
		if !lexer.ScanBalanced(&p.c, lexer.StopAtArgEnd) || p.c.EOF() {
			p.err(diag.SynUnclosedParen, p.c.SpanFrom(open), "unclosed '('")
			return args
		}
		if s, e := trimSpaces(p.c.File.Content, as, p.c.Off); e > s {
			args = append(args, p.parseExtent(s, e))
		}
		p.c.Eat(',')
	}
}

func (p *Parser) parseCloseTag(owner *openTag) {
	start := p.c.Mark()
	p.c.EatString("</")
	name := lexer.ScanName(&p.c)
	p.c.SkipSpaces()
	if !p.c.Eat('>') {
		p.err(diag.SynUnexpectedChar, p.c.SpanFrom(start), "expected '>' to end closing tag")
		for !p.c.EOF() && p.c.Peek() != '>' && p.c.Peek() != '<' {
			p.c.Bump()
		}
		p.c.Eat('>')
	}
	if name == "" {
		return
	}
	if owner.dynamic || name != owner.name {
		want := owner.name
		if owner.dynamic {
			want = "/"
		}
		p.err(diag.SynMismatchedCloseTag, p.c.SpanFrom(start),
			fmt.Sprintf("closing tag </%s> does not match <%s>", name, want))
	}
}

func (p *Parser) skipStrayCloseTag() {
	start := p.c.Mark()
	for !p.c.EOF() && p.c.Peek() != '>' {
		p.c.Bump()
	}
	p.c.Eat('>')
	p.err(diag.SynUnexpectedCloseTag, p.c.SpanFrom(start), "closing tag without matching start tag")
}

func (p *Parser) parseRawText(tag ast.NodeID, ot *openTag) {
	start := p.c.Mark()
	closer := "</" + ot.name
	for !p.c.EOF() && !p.c.HasPrefix(closer) {
		p.c.Bump()
	}
	if p.c.Off > uint32(start) {
		p.tree.AppendBody(tag, p.tree.NewText(p.c.SpanFrom(start), p.c.TextFrom(start)))
	}
	if p.c.EOF() {
		p.err(diag.SynUnclosedTag, p.span(ot.start, p.c.Off), "unclosed <"+ot.name+">")
		return
	}
	p.parseCloseTag(ot)
}
