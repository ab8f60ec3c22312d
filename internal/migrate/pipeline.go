package migrate

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"tagfix/internal/ast"
)

// ErrUnknownRule is returned by Select for a name no rule has.
var ErrUnknownRule = errors.New("unknown migration rule")

// Pipeline is an ordered list of rules.
type Pipeline struct {
	rules []Rule
}

func NewPipeline(rules ...Rule) *Pipeline {
	return &Pipeline{rules: rules}
}

// DefaultPipeline returns every rule in the order they must run:
// control-flow directives first, <invoke>, then attribute level rewrites.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		IfDirective(),
		ForDirective(),
		Invoke(),
		DynamicAttributes(),
		BodyOnlyIf(),
		TemplateLiterals(),
		RefAttribute(),
	)
}

func (p *Pipeline) Rules() []Rule {
	return p.rules
}

func (p *Pipeline) Names() []string {
	out := make([]string, len(p.rules))
	for i, r := range p.rules {
		out[i] = r.Name
	}
	return out
}

// Select keeps the named rules in pipeline order. An empty list keeps everything.
func (p *Pipeline) Select(names []string) (*Pipeline, error) {
	if len(names) == 0 {
		return p, nil
	}
	known := p.Names()
	var unknown []string
	for _, name := range names {
		if !slices.Contains(known, name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s (known: %s)", ErrUnknownRule,
			strings.Join(unknown, ", "), strings.Join(known, ", "))
	}
	out := &Pipeline{}
	for _, r := range p.rules {
		if slices.Contains(names, r.Name) {
			out.rules = append(out.rules, r)
		}
	}
	return out, nil
}

type entry struct {
	rule string
	fn   Handler
}

// Registry is a composed pipeline: per node kind, the handlers of all rules in rule order.
type Registry struct {
	enter map[ast.NodeKind][]entry
	exit  map[ast.NodeKind][]entry
	rules []string
}

// Compose merges the visitors of all rules so Run can apply them in one traversal.
func (p *Pipeline) Compose() *Registry {
	reg := &Registry{
		enter: make(map[ast.NodeKind][]entry),
		exit:  make(map[ast.NodeKind][]entry),
		rules: p.Names(),
	}
	for _, r := range p.rules {
		// map order не важен: для одного правила на kind один Visitor
		for kind, v := range r.Visitors {
			if v.Enter != nil {
				reg.enter[kind] = append(reg.enter[kind], entry{rule: r.Name, fn: v.Enter})
			}
			if v.Exit != nil {
				reg.exit[kind] = append(reg.exit[kind], entry{rule: r.Name, fn: v.Exit})
			}
		}
	}
	return reg
}

// Rules returns the names of the composed rules in order.
func (r *Registry) Rules() []string {
	return r.rules
}

// Handlers reports how many enter and exit handlers are registered for kind.
func (r *Registry) Handlers(kind ast.NodeKind) (enter, exit int) {
	return len(r.enter[kind]), len(r.exit[kind])
}
