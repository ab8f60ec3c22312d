package migrate

import (
	"tagfix/internal/ast"
	"tagfix/internal/taglib"
)

// Exemptions says which tags the deprecation rules leave alone.
type Exemptions struct {
	// Taglibs - идентификаторы библиотек, чьи теги не мигрируются.
	Taglibs map[string]bool
	// Predicate is an extra hook; returning true exempts the tag.
	Predicate func(p ast.Path) bool
}

// DefaultExemptions exempts tags from the legacy widgets library and from the compat layer.
func DefaultExemptions() Exemptions {
	return NewExemptions([]string{taglib.WidgetsTaglibID, taglib.CompatTaglibID})
}

func NewExemptions(taglibs []string) Exemptions {
	m := make(map[string]bool, len(taglibs))
	for _, id := range taglibs {
		m[id] = true
	}
	return Exemptions{Taglibs: m}
}

// exempt reports whether the tag under p is skipped. def is its resolved definition, if any.
func (e Exemptions) exempt(p ast.Path, def *taglib.TagDefinition) bool {
	if e.Predicate != nil && e.Predicate(p) {
		return true
	}
	if def == nil {
		return false
	}
	return def.Migrate || e.Taglibs[def.TaglibID]
}
