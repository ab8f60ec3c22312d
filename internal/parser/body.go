package parser

import (
	"strings"

	"tagfix/internal/ast"
	"tagfix/internal/diag"
)

// openTag - описание незакрытого тега, в теле которого мы находимся.
type openTag struct {
	id      ast.NodeID
	name    string // пусто для динамических тегов
	dynamic bool
	start   uint32
}

// parseBody читает содержимое до закрывающего тега owner (или до конца файла для корня).
// Возвращает true, если закрывающий тег был найден.
func (p *Parser) parseBody(parent ast.NodeID, owner *openTag) bool {
	for !p.c.EOF() {
		switch {
		case p.c.HasPrefix("</"):
			if owner != nil {
				p.parseCloseTag(owner)
				return true
			}
			p.skipStrayCloseTag()
		case p.c.HasPrefix("<!--"):
			p.parseComment(parent)
		case p.atTagStart():
			p.parseTag(parent)
		case p.c.HasPrefix("${") || p.c.HasPrefix("$!{"):
			p.parsePlaceholder(parent)
		case p.atScriptlet():
			p.parseScriptlet(parent)
		default:
			p.parseText(parent)
		}
	}
	if owner != nil {
		name := owner.name
		if owner.dynamic {
			name = "dynamic tag"
		}
		p.err(diag.SynUnclosedTag, p.span(owner.start, p.c.Off), "unclosed <"+name+">")
	}
	return false
}

func (p *Parser) atTagStart() bool {
	b0, b1, ok := p.c.Peek2()
	if !ok || b0 != '<' {
		return false
	}
	return p.c.HasPrefix("<${") || isNameStart(b1)
}

func isNameStart(b byte) bool {
	// `<@header>` - тег-атрибут
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_' || b == '@' || b >= 0x80
}

func (p *Parser) atScriptlet() bool {
	return (p.c.HasPrefix("$ ") || p.c.HasPrefix("static ")) && p.c.AtLineStart()
}

func (p *Parser) parseText(parent ast.NodeID) {
	start := p.c.Mark()
	p.c.Bump()
	for !p.c.EOF() {
		if p.c.Peek() == '<' && (p.c.HasPrefix("</") || p.c.HasPrefix("<!--") || p.atTagStart()) {
			break
		}
		if p.c.HasPrefix("${") || p.c.HasPrefix("$!{") || p.atScriptlet() {
			break
		}
		p.c.Bump()
	}
	sp := p.c.SpanFrom(start)
	p.tree.AppendBody(parent, p.tree.NewText(sp, p.c.TextFrom(start)))
}

func (p *Parser) parseComment(parent ast.NodeID) {
	start := p.c.Mark()
	p.c.EatString("<!--")
	body := p.c.Mark()
	for !p.c.EOF() && !p.c.HasPrefix("-->") {
		p.c.Bump()
	}
	value := p.c.TextFrom(body)
	if !p.c.EatString("-->") {
		p.err(diag.SynUnclosedComment, p.c.SpanFrom(start), "unclosed comment")
	}
	p.tree.AppendBody(parent, p.tree.NewComment(p.c.SpanFrom(start), value))
}

func (p *Parser) parsePlaceholder(parent ast.NodeID) {
	start := p.c.Mark()
	escape := true
	if p.c.EatString("$!{") {
		escape = false
	} else {
		p.c.EatString("${")
	}
	value, ok := p.parseBraced(start)
	if !ok {
		return
	}
	p.tree.AppendBody(parent, p.tree.NewPlaceholder(p.c.SpanFrom(start), value, escape))
}

// parseScriptlet reads `$ stmt;` or `static stmt;` up to the end of the line.
func (p *Parser) parseScriptlet(parent ast.NodeID) {
	start := p.c.Mark()
	static := p.c.EatString("static ")
	if !static {
		p.c.EatString("$ ")
	}
	body := p.c.Mark()
	for !p.c.EOF() && p.c.Peek() != '\n' {
		p.c.Bump()
	}
	text := p.c.TextFrom(body)
	trimmed := strings.TrimRight(text, " \t;")
	exprStart := uint32(body)
	exprEnd := exprStart + uint32(len(trimmed))
	// ведущие пробелы не входят в выражение
	for exprStart < exprEnd && (p.c.File.Content[exprStart] == ' ' || p.c.File.Content[exprStart] == '\t') {
		exprStart++
	}
	var stmts []ast.ExprID
	if exprStart < exprEnd {
		stmts = append(stmts, p.parseExtent(exprStart, exprEnd))
	}
	p.tree.AppendBody(parent, p.tree.NewScriptlet(p.c.SpanFrom(start), stmts, static))
}
