package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tagfix/internal/ast"
	"tagfix/internal/format"
)

func TestParseTagAttributes(t *testing.T) {
	tree, bag := parseSource(t, `<box for(item, list) ref="x" disabled ${attrs} ...rest class=a ? "b" : "c">hi</box>`)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	tag := firstTag(t, tree)
	if name, ok := tree.TagName(tag); !ok || name != "box" {
		t.Fatalf("tag name: got %q (static=%v)", name, ok)
	}
	data, _ := tree.Nodes.Tag(tag)

	type attrView struct {
		Kind    string
		Name    string
		Args    int
		Default bool
		Dynamic bool
		Value   string
	}
	var got []attrView
	for _, id := range data.Attrs {
		if spread, ok := tree.Nodes.SpreadAttr(id); ok {
			got = append(got, attrView{Kind: "spread", Value: format.Expr(tree, spread.Value)})
			continue
		}
		a, _ := tree.Nodes.Attr(id)
		v := attrView{Kind: "attr", Name: a.Name, Dynamic: a.Dynamic, Default: tree.Exprs.IsDefaultValue(a.Value)}
		if a.Args != nil {
			v.Args = len(a.Args)
		}
		if !v.Default {
			v.Value = format.Expr(tree, a.Value)
		}
		got = append(got, v)
	}
	want := []attrView{
		{Kind: "attr", Name: "for", Args: 2, Default: true},
		{Kind: "attr", Name: "ref", Value: `"x"`},
		{Kind: "attr", Name: "disabled", Default: true},
		{Kind: "attr", Dynamic: true, Value: "attrs"},
		{Kind: "spread", Value: "rest"},
		{Kind: "attr", Name: "class", Value: `a ? "b" : "c"`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("attrs mismatch (-want +got):\n%s", diff)
	}

	classAttr, _ := tree.Nodes.Attr(data.Attrs[5])
	if tree.Exprs.Get(classAttr.Value).Kind != ast.ExprConditional {
		t.Fatalf("class value should parse as a conditional")
	}
}

func TestParseAttrSpans(t *testing.T) {
	src := `<invoke foo(a, "b")/>`
	tree, bag := parseSource(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	tag := firstTag(t, tree)
	data, _ := tree.Nodes.Tag(tag)
	if !data.SelfClosing {
		t.Fatalf("expected self-closing tag")
	}
	attr := tree.Nodes.Get(data.Attrs[0])
	if got := src[attr.Span.Start:attr.Span.End]; got != `foo(a, "b")` {
		t.Fatalf("attr span covers %q", got)
	}
	a, _ := tree.Nodes.Attr(data.Attrs[0])
	if len(a.Args) != 2 || tree.Exprs.Get(a.Args[1]).Kind != ast.ExprString {
		t.Fatalf("unexpected args: %+v", a.Args)
	}
	if tagSpan := tree.Nodes.Get(tag).Span; tagSpan.Start != 0 || int(tagSpan.End) != len(src) {
		t.Fatalf("tag span: %v", tagSpan)
	}
}

func TestParseDynamicTagAndPlaceholders(t *testing.T) {
	tree, bag := parseSource(t, "<${input.show ? null : \"div\"}>Hello ${name} $!{html}</>")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	tag := firstTag(t, tree)
	if _, ok := tree.TagName(tag); ok {
		t.Fatalf("dynamic tag must not have a static name")
	}
	data, _ := tree.Nodes.Tag(tag)
	kinds := make([]ast.NodeKind, 0, len(data.Body))
	for _, id := range data.Body {
		kinds = append(kinds, tree.Nodes.Get(id).Kind)
	}
	want := []ast.NodeKind{ast.NodeText, ast.NodePlaceholder, ast.NodeText, ast.NodePlaceholder}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("body kinds (-want +got):\n%s", diff)
	}
	ph, _ := tree.Nodes.Placeholder(data.Body[3])
	if ph.Escape {
		t.Fatalf("$!{} must not escape")
	}
}

func TestParseVoidAndRawText(t *testing.T) {
	tree, bag := parseSource(t, "<div><input value=x><script>if (a < b) {}</script></div>")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	div := firstTag(t, tree)
	data, _ := tree.Nodes.Tag(div)
	if len(data.Body) != 2 {
		t.Fatalf("div body: want 2 children, got %d", len(data.Body))
	}
	script, _ := tree.Nodes.Tag(data.Body[1])
	text, ok := tree.Nodes.Text(script.Body[0])
	if !ok || text.Value != "if (a < b) {}" {
		t.Fatalf("script body: %+v", text)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"unclosed tag", "<div><span></span>", "SYN2002"},
		{"mismatched close", "<div></span>", "SYN2003"},
		{"unclosed placeholder", "a ${b", "SYN2005"},
		{"unclosed comment", "<!-- x", "SYN2006"},
		{"stray close", "text</div>", "SYN2010"},
		{"missing value", "<div a=></div>", "SYN2009"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := parseSource(t, tt.src)
			if !bag.HasErrors() {
				t.Fatalf("expected an error")
			}
			if got := bag.Items()[0].Code.ID(); got != tt.code {
				t.Fatalf("code: want %s, got %s (%s)", tt.code, got, diagnosticsSummary(bag))
			}
		})
	}
}
