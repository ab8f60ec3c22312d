package parser

import (
	"fmt"
	"strings"
	"testing"

	"tagfix/internal/ast"
	"tagfix/internal/diag"
	"tagfix/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.marko", []byte(src))
	bag := diag.NewBag(100)
	tree := ParseFile(fs, id, Options{Reporter: &diag.BagReporter{Bag: bag}})
	return tree, bag
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func firstTag(t *testing.T, tree *ast.Tree) ast.NodeID {
	t.Helper()
	var found ast.NodeID
	tree.Walk(func(id ast.NodeID) bool {
		if found.IsValid() {
			return false
		}
		if tree.Nodes.Get(id).Kind == ast.NodeTag {
			found = id
			return false
		}
		return true
	})
	if !found.IsValid() {
		t.Fatalf("no tag in tree")
	}
	return found
}
