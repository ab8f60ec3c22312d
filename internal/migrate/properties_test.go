package migrate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tagfix/internal/ast"
	"tagfix/internal/diag"
	"tagfix/internal/fix"
	"tagfix/internal/format"
	"tagfix/internal/source"
	"tagfix/internal/taglib"
)

var legacySources = []string{
	"<box for(item, list)>content</box>",
	`<div ref="myRef"/>`,
	"<invoke compute(a,b)/>",
	"<div if(a)>A</div><div else-if(b)>B</div><div else>C</div>",
	"<li for(x in xs) if(x.ok) ref=\"r\">${x}</li>",
	"<div body-only-if(input.show) ${attrs} title=\"a ${b}\">hi</div>",
	"<ul>\n  <li for(x in xs)>${'item ${x}'}</li>\n</ul>\n",
}

func TestMigrationIsIdempotent(t *testing.T) {
	for _, src := range legacySources {
		first := migrateSource(t, src, runOpts{mode: fix.ApplyModeAll})
		second := migrateSource(t, first.out, runOpts{mode: fix.ApplyModeAll})
		if len(second.diags) != 0 {
			t.Fatalf("%q: second run reported %s", src, summary(second.diags))
		}
		if second.out != first.out {
			t.Fatalf("%q: second run changed output\nfirst:  %q\nsecond: %q", src, first.out, second.out)
		}
	}
}

func TestFixAppliedTwiceIsNoop(t *testing.T) {
	for _, src := range legacySources {
		res := migrateSource(t, src, runOpts{mode: fix.ApplyModeNone})
		if len(res.diags) == 0 {
			// <invoke> переписывается без фикса
			continue
		}
		for _, d := range res.diags {
			for _, f := range d.Fixes {
				f.Apply()
			}
		}
		once, err := format.FormatTree(res.tree)
		if err != nil {
			t.Fatal(err)
		}
		for _, d := range res.diags {
			for _, f := range d.Fixes {
				f.Apply()
			}
		}
		twice, err := format.FormatTree(res.tree)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(string(once), string(twice)); diff != "" {
			t.Fatalf("%q: second application changed the tree (-once +twice):\n%s", src, diff)
		}
	}
}

func TestCanonicalTreeUntouched(t *testing.T) {
	src := "<for(item in input.items)>\n  <li key=item.id class=`c-${item.kind}` ...item.attrs>${item.label}</li>\n</for>\n<${input.tag}/>\n"
	res := migrateSource(t, src, runOpts{mode: fix.ApplyModeNone})
	before := dumpTree(res.tree)

	again := migrateSource(t, src, runOpts{mode: fix.ApplyModeAll})
	if len(again.diags) != 0 {
		t.Fatalf("unexpected diagnostics %s", summary(again.diags))
	}
	if diff := cmp.Diff(before, dumpTree(again.tree)); diff != "" {
		t.Fatalf("canonical tree changed (-want +got):\n%s", diff)
	}
}

func TestExemptTaglibs(t *testing.T) {
	reg := taglib.DefaultRegistry()
	reg.Add(taglib.Taglib{ID: "legacy-ui", Path: "legacy-ui", Tags: []string{"fancy"}})
	ex := NewExemptions([]string{"legacy-ui"})

	src := "<fancy for(x in xs) if(a) ref=\"r\" ${attrs} body-only-if(c) title=\"a ${b}\">x</fancy>"
	res := migrateSource(t, src, runOpts{mode: fix.ApplyModeAll, registry: reg, exemptions: &ex})
	if len(res.diags) != 0 {
		t.Fatalf("exempt tag reported %s", summary(res.diags))
	}
	if res.out != src {
		t.Fatalf("exempt tag changed:\nwant: %q\ngot:  %q", src, res.out)
	}

	// без исключения тот же тег мигрирует
	res = migrateSource(t, src, runOpts{mode: fix.ApplyModeNone, registry: reg})
	if len(res.diags) == 0 {
		t.Fatalf("non-exempt tag must be reported")
	}
}

func TestDefaultExemptions(t *testing.T) {
	for _, src := range []string{
		`<widget ref="w" if(a)/>`,
		`<init-widgets ${attrs}/>`,
	} {
		res := migrateSource(t, src, runOpts{mode: fix.ApplyModeAll})
		if len(res.diags) != 0 || res.out != src {
			t.Fatalf("%q: widgets tags must be exempt, got %s / %q", src, summary(res.diags), res.out)
		}
	}
}

func TestExemptPredicate(t *testing.T) {
	ex := DefaultExemptions()
	ex.Predicate = func(p ast.Path) bool {
		name, _ := p.TagName()
		return name == "legacy"
	}
	src := `<legacy ref="a"/><div ref="b"/>`
	res := migrateSource(t, src, runOpts{mode: fix.ApplyModeAll, exemptions: &ex})
	if want := `<legacy ref="a"/><div key="b"/>`; res.out != want {
		t.Fatalf("want %q, got %q", want, res.out)
	}
	if len(res.diags) != 1 {
		t.Fatalf("want 1 diagnostic, got %s", summary(res.diags))
	}
}

func TestSynthesizedNodesAreLocated(t *testing.T) {
	src := `<box for(item, list) title="x ${y}">c</box><invoke go(1)/>`
	res := migrateSource(t, src, runOpts{mode: fix.ApplyModeAll})

	res.tree.Walk(func(id ast.NodeID) bool {
		n := res.tree.Nodes.Get(id)
		if n.Kind != ast.NodeProgram && n.Span.Empty() {
			t.Fatalf("%s %d has no span", n.Kind, id)
		}
		if tag, ok := res.tree.Nodes.Tag(id); ok {
			if name := res.tree.Exprs.Get(tag.Name); !name.HasLoc {
				t.Fatalf("tag name of %q has no location", format.Node(res.tree, id))
			}
		}
		return true
	})

	wrapper := res.tree.Children(res.tree.Root, ast.FieldBody)[0]
	wd, _ := res.tree.Nodes.Tag(wrapper)
	if got := res.fs.Text(res.tree.Exprs.Get(wd.Name).Span); got != "for" {
		t.Fatalf("wrapper name located at %q", got)
	}
	box := res.tree.Children(wrapper, ast.FieldBody)[0]
	title := res.tree.Children(box, ast.FieldAttrs)[0]
	ad, _ := res.tree.Nodes.Attr(title)
	tpl, ok := res.tree.Exprs.Template(ad.Value)
	if !ok || len(tpl.Exprs) != 1 {
		t.Fatalf("title value is not a template literal")
	}
	if got := res.fs.Text(res.tree.Exprs.Get(tpl.Exprs[0]).Span); got != "y" {
		t.Fatalf("template hole located at %q", got)
	}
}

func TestApplyModes(t *testing.T) {
	src := `<box for(item, list) ref="r">c</box>`

	none := migrateSource(t, src, runOpts{mode: fix.ApplyModeNone})
	if none.out != src || len(none.diags) != 2 {
		t.Fatalf("none: got %q with %s", none.out, summary(none.diags))
	}
	if res := none.policy.Result(); len(res.Applied) != 0 {
		t.Fatalf("none: applied %d fixes", len(res.Applied))
	}

	once := migrateSource(t, src, runOpts{mode: fix.ApplyModeOnce})
	if want := `<for(item, list)><box ref="r">c</box></for>`; once.out != want {
		t.Fatalf("once: want %q, got %q", want, once.out)
	}

	refFix := none.diags[1].Fixes[0].ID
	byID := migrateSource(t, src, runOpts{mode: fix.ApplyModeID, target: refFix})
	if want := `<box for(item, list) key="r">c</box>`; byID.out != want {
		t.Fatalf("id: want %q, got %q", want, byID.out)
	}
	if got := byID.policy.Result().Applied; len(got) != 1 || got[0].Code != diag.MigRefAttribute {
		t.Fatalf("id: applied %+v", got)
	}
}

func TestSelectRules(t *testing.T) {
	p, err := DefaultPipeline().Select([]string{"ref-attribute"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	res := migrateSource(t, `<div for(x) ref="r"/>`, runOpts{mode: fix.ApplyModeAll, pipeline: p})
	if want := `<div for(x) key="r"/>`; res.out != want {
		t.Fatalf("want %q, got %q", want, res.out)
	}

	if _, err := DefaultPipeline().Select([]string{"ref-attribute", "nope"}); !errors.Is(err, ErrUnknownRule) {
		t.Fatalf("want ErrUnknownRule, got %v", err)
	}
}

func TestDefaultPipelineOrder(t *testing.T) {
	want := []string{
		"if-directive", "for-directive", "invoke", "dynamic-attributes",
		"body-only-if", "non-standard-template-literals", "ref-attribute",
	}
	if diff := cmp.Diff(want, DefaultPipeline().Names()); diff != "" {
		t.Fatalf("pipeline order (-want +got):\n%s", diff)
	}
	reg := DefaultPipeline().Compose()
	if enter, exit := reg.Handlers(ast.NodeAttr); enter != 6 || exit != 0 {
		t.Fatalf("attr handlers: enter=%d exit=%d", enter, exit)
	}
	if enter, exit := reg.Handlers(ast.NodeTag); enter != 0 || exit != 1 {
		t.Fatalf("tag handlers: enter=%d exit=%d", enter, exit)
	}
}

func TestRunCancelled(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("c.marko", []byte("x"))
	tree := ast.NewTree(id, source.Span{File: id, End: 1}, ast.Hints{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, tree, DefaultPipeline().Compose(), Options{Resolver: taglib.NewResolver(nil)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestRunWithoutResolverPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.marko", nil)
	tree := ast.NewTree(id, source.Span{File: id}, ast.Hints{})
	_, _ = Run(context.Background(), tree, DefaultPipeline().Compose(), Options{Reporter: diag.NopReporter{}})
}
