package testkit

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"tagfix/internal/ast"
	"tagfix/internal/source"
)

// CheckTreeInvariants walks the attached part of a tree and checks:
// 1) every child records the parent and field that hold it
// 2) no node is held by two containers
// 3) located nodes lie inside the file content
// 4) attribute containers hold only attributes and spreads
func CheckTreeInvariants(t *ast.Tree, sf *source.File) error {
	if t == nil {
		return fmt.Errorf("nil tree")
	}
	if !t.Root.IsValid() {
		return fmt.Errorf("tree without root")
	}
	var limit uint32
	if sf != nil {
		n, err := safecast.Conv[uint32](len(sf.Content))
		if err != nil {
			return fmt.Errorf("len content overflow: %w", err)
		}
		limit = n
	}

	seen := make(map[ast.NodeID]bool)
	var check func(id ast.NodeID) error
	check = func(id ast.NodeID) error {
		if seen[id] {
			return fmt.Errorf("node %d reachable twice", id)
		}
		seen[id] = true
		node := t.Nodes.Get(id)
		if node == nil {
			return fmt.Errorf("nil node for id=%d", id)
		}
		if sf != nil && node.Span.End > limit {
			return fmt.Errorf("%s %d span %v beyond content (%d bytes)", node.Kind, id, node.Span, limit)
		}
		if node.Span.End < node.Span.Start {
			return fmt.Errorf("%s %d has inverted span %v", node.Kind, id, node.Span)
		}
		for _, field := range []ast.Field{ast.FieldAttrs, ast.FieldBody} {
			for _, child := range slices.Clone(t.Children(id, field)) {
				cn := t.Nodes.Get(child)
				if cn == nil {
					return fmt.Errorf("node %d holds unknown child %d", id, child)
				}
				if cn.Parent != id || cn.Field != field {
					return fmt.Errorf("%s %d: parent=%d field=%s, held by %d in %s",
						cn.Kind, child, cn.Parent, cn.Field, id, field)
				}
				if field == ast.FieldAttrs && cn.Kind != ast.NodeAttr && cn.Kind != ast.NodeSpreadAttr {
					return fmt.Errorf("%s %d in attribute list of %d", cn.Kind, child, id)
				}
				if err := check(child); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return check(t.Root)
}
