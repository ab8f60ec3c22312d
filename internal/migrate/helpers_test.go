package migrate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"tagfix/internal/ast"
	"tagfix/internal/diag"
	"tagfix/internal/fix"
	"tagfix/internal/format"
	"tagfix/internal/parser"
	"tagfix/internal/source"
	"tagfix/internal/taglib"
	"tagfix/internal/testkit"
)

type result struct {
	fs     *source.FileSet
	tree   *ast.Tree
	out    string
	diags  []diag.Diagnostic
	stats  Stats
	policy *fix.Policy
}

type runOpts struct {
	mode       fix.ApplyMode
	target     string
	pipeline   *Pipeline
	registry   *taglib.Registry
	exemptions *Exemptions
}

func migrateSource(t *testing.T, src string, o runOpts) result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.marko", []byte(src))
	parseBag := diag.NewBag(100)
	tree := parser.ParseFile(fs, id, parser.Options{Reporter: &diag.BagReporter{Bag: parseBag}})
	if parseBag.Len() != 0 {
		t.Fatalf("parse %q: %s", src, summary(parseBag.Items()))
	}

	if o.pipeline == nil {
		o.pipeline = DefaultPipeline()
	}
	bag := diag.NewBag(0)
	policy := fix.NewPolicy(fix.ApplyOptions{Mode: o.mode, TargetID: o.target})
	stats, err := Run(context.Background(), tree, o.pipeline.Compose(), Options{
		Resolver:   taglib.NewResolver(o.registry),
		Reporter:   fix.Reporter{Next: &diag.BagReporter{Bag: bag}, Policy: policy},
		Exemptions: o.exemptions,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := testkit.CheckTreeInvariants(tree, fs.Get(id)); err != nil {
		t.Fatalf("tree invariants after migrating %q: %v", src, err)
	}
	out, err := format.FormatTree(tree)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	return result{fs: fs, tree: tree, out: string(out), diags: bag.Items(), stats: stats, policy: policy}
}

func summary(diags []diag.Diagnostic) string {
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s %s] %s", d.Severity, d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// nodeView is a comparable dump of one attached node.
type nodeView struct {
	Kind   string
	Parent ast.NodeID
	Field  string
	Text   string
}

func dumpTree(tree *ast.Tree) []nodeView {
	var out []nodeView
	tree.Walk(func(id ast.NodeID) bool {
		n := tree.Nodes.Get(id)
		v := nodeView{Kind: n.Kind.String(), Parent: n.Parent, Field: n.Field.String()}
		if n.Kind != ast.NodeProgram {
			v.Text = format.Node(tree, id)
		}
		out = append(out, v)
		return true
	})
	return out
}

func findKind(tree *ast.Tree, kind ast.NodeKind) ast.NodeID {
	var found ast.NodeID
	tree.Walk(func(id ast.NodeID) bool {
		if found.IsValid() {
			return false
		}
		if tree.Nodes.Get(id).Kind == kind {
			found = id
			return false
		}
		return true
	})
	return found
}
