package migrate

import (
	"context"
	"fmt"
	"sort"

	"tagfix/internal/ast"
	"tagfix/internal/diag"
	"tagfix/internal/source"
	"tagfix/internal/taglib"
	"tagfix/internal/trace"
)

// Options configure one Run. Resolver is required.
type Options struct {
	Resolver *taglib.Resolver
	Reporter diag.Reporter
	// Exemptions defaults to DefaultExemptions when nil.
	Exemptions *Exemptions
}

// RuleStats counts what one rule reported during a run.
type RuleStats struct {
	Deprecations int
	Errors       int
}

// Stats summarises a run.
type Stats struct {
	Visited int
	ByRule  map[string]RuleStats
}

// Rules returns the names of rules that reported something, sorted.
func (s *Stats) Rules() []string {
	out := make([]string, 0, len(s.ByRule))
	for name := range s.ByRule {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Stats) count(rule string, sev diag.Severity) {
	if s == nil {
		return
	}
	if s.ByRule == nil {
		s.ByRule = make(map[string]RuleStats)
	}
	rs := s.ByRule[rule]
	if sev == diag.SevError {
		rs.Errors++
	} else {
		rs.Deprecations++
	}
	s.ByRule[rule] = rs
}

// Run applies reg to tree in a single traversal. Handlers of a node run in rule order
// until one of them removes or replaces the node; a replacement is visited in the same slot.
// Fixes mutate the tree only if the fix policy behind opts.Reporter applies them.
func Run(ctx context.Context, tree *ast.Tree, reg *Registry, opts Options) (Stats, error) {
	if opts.Resolver == nil {
		panic("migrate: Run without tag resolver")
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	ex := DefaultExemptions()
	if opts.Exemptions != nil {
		ex = *opts.Exemptions
	}

	span, ctx := trace.Start(ctx, trace.ScopeFile, "migrate")
	stats := Stats{ByRule: make(map[string]RuleStats)}
	c := &Context{
		Resolver:   opts.Resolver,
		Tree:       tree,
		Exemptions: ex,
		tracer:     trace.FromContext(ctx),
		parent:     span.ID(),
		stats:      &stats,
	}
	c.Reporter = &countingReporter{next: opts.Reporter, c: c, seen: make(map[countKey]struct{})}
	r := &runner{ctx: ctx, reg: reg, c: c}
	ast.Traverse(tree, r)

	span.End(fmt.Sprintf("visited=%d", stats.Visited))
	if r.err != nil {
		return stats, r.err
	}
	return stats, nil
}

type runner struct {
	ctx context.Context
	reg *Registry
	c   *Context
	err error
}

func (r *runner) Enter(p ast.Path) {
	if r.cancelled() {
		return
	}
	r.c.stats.Visited++
	trace.Point(r.c.tracer, trace.ScopeNode, p.Kind().String(), p.Span().String(), r.c.parent)
	r.dispatch(r.reg.enter[p.Kind()], p)
}

func (r *runner) Exit(p ast.Path) {
	if r.cancelled() {
		return
	}
	r.dispatch(r.reg.exit[p.Kind()], p)
}

func (r *runner) dispatch(handlers []entry, p ast.Path) {
	if len(handlers) == 0 {
		return
	}
	parent := p.Node().Parent
	for _, h := range handlers {
		r.c.rule = h.rule
		h.fn(r.c, p)
		if !stillThere(p, parent) {
			return
		}
	}
}

func (r *runner) cancelled() bool {
	if r.err != nil {
		return true
	}
	if err := r.ctx.Err(); err != nil {
		r.err = err
		return true
	}
	return false
}

// stillThere: узел не удалён и не заменён текущим обработчиком.
func stillThere(p ast.Path, parent ast.NodeID) bool {
	if p.ID() == p.Tree().Root {
		return true
	}
	return p.Node().Parent == parent && p.Attached()
}

type countKey struct {
	code  diag.Code
	start uint32
	end   uint32
}

// countingReporter drops repeats of a diagnostic at the same place and counts the rest
// per rule. A fix that re-parents a subtree makes the traversal see its nodes twice.
type countingReporter struct {
	next diag.Reporter
	c    *Context
	seen map[countKey]struct{}
}

func (r *countingReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []*diag.Fix) {
	key := countKey{code: code, start: primary.Start, end: primary.End}
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	r.c.stats.count(r.c.rule, sev)
	r.c.emit(sev, code, primary)
	r.next.Report(code, sev, primary, msg, notes, fixes)
}
