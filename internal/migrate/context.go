package migrate

import (
	"fmt"

	"tagfix/internal/ast"
	"tagfix/internal/diag"
	"tagfix/internal/fix"
	"tagfix/internal/source"
	"tagfix/internal/taglib"
	"tagfix/internal/trace"
)

// Context is threaded through every handler of one Run.
type Context struct {
	Tree       *ast.Tree
	Resolver   *taglib.Resolver
	Reporter   diag.Reporter
	Exemptions Exemptions

	tracer trace.Tracer
	parent uint64
	rule   string
	stats  *Stats
}

// Rule returns the name of the rule whose handler is running.
func (c *Context) Rule() string {
	return c.rule
}

// ResolveTagDefinition resolves the tag under p. It panics when the context has no resolver.
func (c *Context) ResolveTagDefinition(p ast.Path) (*taglib.TagDefinition, bool) {
	if c.Resolver == nil {
		panic("migrate: context without tag resolver")
	}
	return c.Resolver.ResolveTagDefinition(p)
}

// IsExempt reports whether deprecation rules must skip the tag under p.
func (c *Context) IsExempt(tag ast.Path) bool {
	def, _ := c.ResolveTagDefinition(tag)
	return c.Exemptions.exempt(tag, def)
}

// Deprecate reports a deprecation at p with an optional fix. Whether the fix runs
// is decided by the reporter chain, not by the rule.
func (c *Context) Deprecate(p ast.Path, l Label) {
	primary := p.Span()
	b := diag.ReportDeprecation(c.Reporter, l.Code, primary, l.Message)
	if l.Fix != nil {
		title := l.FixTitle
		if title == "" {
			title = c.rule
		}
		b.WithFix(fix.New(title, l.Fix, fix.WithID(fix.ID(l.Code, primary, 0)), fix.Preferred()))
	}
	b.Emit()
}

// Error reports a structural error at p.
func (c *Context) Error(p ast.Path, code diag.Code, msg string) {
	primary := p.Span()
	diag.ReportError(c.Reporter, code, primary, msg).Emit()
}

func (c *Context) emit(sev diag.Severity, code diag.Code, sp source.Span) {
	trace.Point(c.tracer, trace.ScopeRule, c.rule, fmt.Sprintf("%s %s at %s", sev, code.ID(), sp), c.parent)
}
