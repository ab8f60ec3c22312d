package migrate

import (
	"strings"
	"testing"

	"tagfix/internal/ast"
	"tagfix/internal/diag"
	"tagfix/internal/fix"
)

func TestForDirectiveWrapsTag(t *testing.T) {
	res := migrateSource(t, "<box for(item, list)>content</box>", runOpts{mode: fix.ApplyModeAll})

	if want := "<for(item, list)><box>content</box></for>"; res.out != want {
		t.Fatalf("output mismatch:\nwant: %q\ngot:  %q", want, res.out)
	}
	if len(res.diags) != 1 {
		t.Fatalf("want 1 diagnostic, got %s", summary(res.diags))
	}
	d := res.diags[0]
	if d.Severity != diag.SevDeprecation || d.Code != diag.MigForDirective {
		t.Fatalf("unexpected diagnostic %s", summary(res.diags))
	}
	if !strings.Contains(d.Message, `"for(x)" directive`) || !strings.HasSuffix(d.Message, "Deprecation:-control-flow-attributes") {
		t.Fatalf("unexpected label %q", d.Message)
	}
	if got := res.fs.Text(d.Primary); got != "for(item, list)" {
		t.Fatalf("diagnostic points at %q", got)
	}
	if got := res.stats.ByRule["for-directive"].Deprecations; got != 1 {
		t.Fatalf("stats: want 1 deprecation for for-directive, got %d", got)
	}
}

func TestForDirectiveKeepsTagIdentity(t *testing.T) {
	res := migrateSource(t, "<box for(item, list)>content</box>", runOpts{mode: fix.ApplyModeNone})
	box := findKind(res.tree, ast.NodeTag)
	if len(res.diags) != 1 || len(res.diags[0].Fixes) != 1 {
		t.Fatalf("want one diagnostic with a fix, got %s", summary(res.diags))
	}

	res.diags[0].Fixes[0].Apply()

	wrapper := res.tree.Children(res.tree.Root, ast.FieldBody)[0]
	if name, _ := res.tree.TagName(wrapper); name != "for" {
		t.Fatalf("want wrapper <for>, got <%s>", name)
	}
	body := res.tree.Children(wrapper, ast.FieldBody)
	if len(body) != 1 || body[0] != box {
		t.Fatalf("wrapper body must hold the original node %d, got %v", box, body)
	}
	if got := res.tree.Nodes.Get(wrapper).Span; got != res.tree.Nodes.Get(box).Span {
		t.Fatalf("wrapper span %v, want the tag span %v", got, res.tree.Nodes.Get(box).Span)
	}
}

func TestRefRenamedToKey(t *testing.T) {
	res := migrateSource(t, `<div ref="myRef" class="a"/>`, runOpts{mode: fix.ApplyModeAll})

	if want := `<div key="myRef" class="a"/>`; res.out != want {
		t.Fatalf("output mismatch:\nwant: %q\ngot:  %q", want, res.out)
	}
	if len(res.diags) != 1 || res.diags[0].Code != diag.MigRefAttribute {
		t.Fatalf("want one ref deprecation, got %s", summary(res.diags))
	}
	if !strings.HasSuffix(res.diags[0].Message, "Deprecation:-ref-attribute") {
		t.Fatalf("unexpected label %q", res.diags[0].Message)
	}
}

func TestInvokeWithoutValue(t *testing.T) {
	res := migrateSource(t, "<div/><invoke/><span/>", runOpts{mode: fix.ApplyModeAll})

	if want := "<div/><span/>"; res.out != want {
		t.Fatalf("output mismatch:\nwant: %q\ngot:  %q", want, res.out)
	}
	if len(res.diags) != 1 {
		t.Fatalf("want 1 diagnostic, got %s", summary(res.diags))
	}
	d := res.diags[0]
	if d.Severity != diag.SevError || d.Message != "The <invoke> tag requires a value." {
		t.Fatalf("unexpected diagnostic %s", summary(res.diags))
	}
	if got := res.fs.Text(d.Primary); got != "<invoke/>" {
		t.Fatalf("error points at %q, want the tag", got)
	}
}

func TestInvokeExtraAttribute(t *testing.T) {
	res := migrateSource(t, `<invoke doThing(1,2) extra="x"/>`, runOpts{mode: fix.ApplyModeAll})

	if res.out != "" {
		t.Fatalf("tag must be removed, got %q", res.out)
	}
	if len(res.diags) != 1 {
		t.Fatalf("want 1 diagnostic, got %s", summary(res.diags))
	}
	d := res.diags[0]
	if d.Code != diag.MigInvokeExtraAttrs || d.Message != "The <invoke> tag does not support other attributes." {
		t.Fatalf("unexpected diagnostic %s", summary(res.diags))
	}
	if got := res.fs.Text(d.Primary); got != `extra="x"` {
		t.Fatalf("error points at %q, want the second attribute", got)
	}
}

func TestInvokeNotACall(t *testing.T) {
	tests := []struct {
		src   string
		codes []diag.Code
	}{
		{src: `<invoke foo/>`, codes: []diag.Code{diag.MigInvokeNotCall}},
		{src: `<invoke foo=1/>`, codes: []diag.Code{diag.MigInvokeNotCall}},
		{src: `<invoke foo(1)=x/>`, codes: []diag.Code{diag.MigInvokeNotCall}},
		{src: `<invoke ...rest/>`, codes: []diag.Code{diag.MigInvokeNotCall}},
		{src: `<invoke a b/>`, codes: []diag.Code{diag.MigInvokeNotCall, diag.MigInvokeExtraAttrs}},
	}
	for _, tt := range tests {
		res := migrateSource(t, tt.src, runOpts{mode: fix.ApplyModeAll})
		if res.out != "" {
			t.Fatalf("%s: tag must be removed, got %q", tt.src, res.out)
		}
		if len(res.diags) != len(tt.codes) {
			t.Fatalf("%s: got %s", tt.src, summary(res.diags))
		}
		for i, code := range tt.codes {
			if res.diags[i].Code != code || res.diags[i].Severity != diag.SevError {
				t.Fatalf("%s: diagnostic %d: got %s", tt.src, i, summary(res.diags))
			}
		}
	}
}

func TestInvokeBecomesScriptlet(t *testing.T) {
	src := "<invoke compute(a,b)/>"
	res := migrateSource(t, src, runOpts{mode: fix.ApplyModeAll})

	if len(res.diags) != 0 {
		t.Fatalf("unexpected diagnostics %s", summary(res.diags))
	}
	if want := "$ compute(a, b);"; res.out != want {
		t.Fatalf("output mismatch:\nwant: %q\ngot:  %q", want, res.out)
	}

	sc, ok := res.tree.Nodes.Scriptlet(findKind(res.tree, ast.NodeScriptlet))
	if !ok || len(sc.Body) != 1 {
		t.Fatalf("want a scriptlet with one statement")
	}
	call := res.tree.Exprs.Get(sc.Body[0])
	if call.Kind != ast.ExprCall || !call.HasLoc {
		t.Fatalf("want a located call, got %s", call.Kind)
	}
	if got := res.fs.Text(call.Span); got != "compute(a,b)" {
		t.Fatalf("call span covers %q", got)
	}
	cd, _ := res.tree.Exprs.Call(sc.Body[0])
	callee := res.tree.Exprs.Get(cd.Callee)
	if got := res.fs.Text(callee.Span); got != "compute" || !callee.HasLoc {
		t.Fatalf("callee span covers %q", got)
	}
	if len(cd.Args) != 2 {
		t.Fatalf("want 2 args, got %d", len(cd.Args))
	}
}

func TestInvokeIgnoresExemption(t *testing.T) {
	// invoke принадлежит marko-widgets, но у него свой мигратор
	res := migrateSource(t, "<invoke run()/>", runOpts{mode: fix.ApplyModeAll})
	if res.out != "$ run();" {
		t.Fatalf("got %q", res.out)
	}
}
