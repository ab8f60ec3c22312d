package migrate

import (
	"tagfix/internal/ast"
	"tagfix/internal/diag"
)

// Handler reacts to one node. It may report diagnostics through c and mutate the tree
// only through fixes or, for structural errors, directly.
type Handler func(c *Context, p ast.Path)

// Visitor holds the handlers a rule registers for one node kind.
type Visitor struct {
	Enter Handler
	Exit  Handler
}

// Rule is a stateless migration. Name is the key used in tagfix.toml `rules`.
type Rule struct {
	Name     string
	Visitors map[ast.NodeKind]Visitor
}

// Label is what a rule reports for a deprecated construct.
type Label struct {
	Code    diag.Code
	Message string
	// Fix rewrites the construct; nil means report only.
	Fix func()
	// FixTitle defaults to the rule name.
	FixTitle string
}

const wikiBase = "https://github.com/marko-js/marko/wiki/Deprecation:-"
