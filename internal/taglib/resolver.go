package taglib

import (
	"tagfix/internal/ast"
)

type cached struct {
	def *TagDefinition
	ok  bool
}

// Resolver looks up tag definitions for tags of one tree. It caches by name and is
// not safe for concurrent use; create one per migrated file.
type Resolver struct {
	reg   *Registry
	cache map[string]cached
}

func NewResolver(reg *Registry) *Resolver {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Resolver{reg: reg, cache: make(map[string]cached)}
}

// ResolveTagDefinition returns the definition of the tag under p. Dynamic tags,
// non-tag nodes and unknown names report ok == false.
func (r *Resolver) ResolveTagDefinition(p ast.Path) (*TagDefinition, bool) {
	if r == nil {
		panic("taglib: nil resolver")
	}
	name, ok := p.TagName()
	if !ok {
		return nil, false
	}
	if c, hit := r.cache[name]; hit {
		return c.def, c.ok
	}
	def, found := r.reg.Lookup(name)
	r.cache[name] = cached{def: def, ok: found}
	return def, found
}
