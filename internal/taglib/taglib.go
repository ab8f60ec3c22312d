// Package taglib resolves tag names to the taglib that defines them.
package taglib

import (
	"path"
	"sort"
)

// TagDefinition is the read-only view rules get for a resolved tag.
type TagDefinition struct {
	Name     string
	TaglibID string
	Path     string
	// Migrate - у тега есть собственный мигратор, общие правила его не трогают.
	Migrate bool
}

// Taglib describes one tag library as configured in tagfix.toml.
type Taglib struct {
	ID      string
	Path    string
	Tags    []string
	Migrate []string
}

const (
	CoreTaglibID    = "marko"
	WidgetsTaglibID = "marko-widgets"
	CompatTaglibID  = "@marko/compat-v4"
)

// Builtin returns the taglibs every registry starts from.
func Builtin() []Taglib {
	return []Taglib{
		{
			ID:   CoreTaglibID,
			Path: "marko/src/core-tags",
			Tags: []string{
				"for", "if", "else-if", "else", "while", "macro", "include", "include-text",
				"include-html", "await", "body", "head", "html", "layout-use", "layout-put",
				"layout-placeholder", "module-code", "get", "set", "return", "style",
			},
		},
		{
			ID:      WidgetsTaglibID,
			Path:    "marko-widgets/taglib",
			Tags:    []string{"invoke", "widget-types", "init-widgets", "widget"},
			Migrate: []string{"invoke"},
		},
	}
}

// Registry maps tag names to definitions. Later taglibs override earlier ones.
type Registry struct {
	byName map[string]*TagDefinition
}

func NewRegistry(libs ...Taglib) *Registry {
	r := &Registry{byName: make(map[string]*TagDefinition)}
	for _, lib := range libs {
		r.Add(lib)
	}
	return r
}

// DefaultRegistry is NewRegistry(Builtin()...).
func DefaultRegistry() *Registry {
	return NewRegistry(Builtin()...)
}

func (r *Registry) Add(lib Taglib) {
	migrate := make(map[string]bool, len(lib.Migrate))
	for _, name := range lib.Migrate {
		migrate[name] = true
	}
	for _, name := range lib.Tags {
		r.byName[name] = &TagDefinition{
			Name:     name,
			TaglibID: lib.ID,
			Path:     path.Join(lib.Path, name),
			Migrate:  migrate[name],
		}
	}
}

func (r *Registry) Lookup(name string) (*TagDefinition, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// Names returns all registered tag names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
