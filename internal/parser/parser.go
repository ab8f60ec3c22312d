package parser

import (
	"tagfix/internal/ast"
	"tagfix/internal/diag"
	"tagfix/internal/lexer"
	"tagfix/internal/source"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser - состояние парсера на один шаблон
type Parser struct {
	c    lexer.Cursor
	tree *ast.Tree
	opts Options
}

// ParseFile reads the template file into a fresh tree. Syntax problems are reported
// through opts.Reporter; the returned tree holds whatever could be recovered.
func ParseFile(fs *source.FileSet, file source.FileID, opts Options) *ast.Tree {
	f := fs.Get(file)
	c := lexer.NewCursor(f)
	whole := source.Span{File: file, Start: 0, End: c.Limit}
	p := Parser{
		c: c,
		tree: ast.NewTree(file, whole, ast.Hints{
			Nodes: uint(len(f.Content)/16 + 1),
			Exprs: uint(len(f.Content)/24 + 1),
		}),
		opts: opts,
	}
	p.parseBody(p.tree.Root, nil)
	return p.tree
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

func (p *Parser) err(code diag.Code, sp source.Span, msg string) {
	if p.opts.Enough() {
		return
	}
	p.opts.CurrentErrors++
	if p.opts.Reporter != nil {
		diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
	}
}

func (p *Parser) span(start, end uint32) source.Span {
	return source.Span{File: p.tree.File, Start: start, End: end}
}
