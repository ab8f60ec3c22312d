package migrate

import (
	"strings"
	"testing"

	"tagfix/internal/diag"
	"tagfix/internal/fix"
)

func TestRuleRewrites(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  string
		codes []diag.Code
	}{
		{
			name:  "if chain",
			src:   "<div if(a)>A</div><div else-if(b)>B</div><div else>C</div>",
			want:  "<if(a)><div>A</div></if><else-if(b)><div>B</div></else-if><else><div>C</div></else>",
			codes: []diag.Code{diag.MigIfDirective, diag.MigElseIfDirective, diag.MigElseDirective},
		},
		{
			name:  "for and if on one tag",
			src:   "<li for(x in xs) if(x.ok)>${x}</li>",
			want:  "<for(x in xs)><if(x.ok)><li>${x}</li></if></for>",
			codes: []diag.Code{diag.MigForDirective, diag.MigIfDirective},
		},
		{
			name:  "directive keeps other attributes",
			src:   `<box class="a" if(show) id="b"/>`,
			want:  `<if(show)><box class="a" id="b"/></if>`,
			codes: []diag.Code{diag.MigIfDirective},
		},
		{
			name:  "body-only-if",
			src:   "<div body-only-if(input.show)>hi</div>",
			want:  `<${input.show ? null : "div"}>hi</>`,
			codes: []diag.Code{diag.MigBodyOnlyIf},
		},
		{
			name:  "body-only-if on custom tag",
			src:   "<my-wrapper body-only-if(!input.wrap) x=1>hi</my-wrapper>",
			want:  `<${!input.wrap ? null : "my-wrapper"} x=1>hi</>`,
			codes: []diag.Code{diag.MigBodyOnlyIf},
		},
		{
			name:  "dynamic attributes",
			src:   "<div ${input.attrs} class=\"x\"/>",
			want:  "<div ...input.attrs class=\"x\"/>",
			codes: []diag.Code{diag.MigDynamicAttributes},
		},
		{
			name:  "template literal in attribute",
			src:   `<div title="Hello ${input.name}!"/>`,
			want:  "<div title=`Hello ${input.name}!`/>",
			codes: []diag.Code{diag.MigTemplateLiteral},
		},
		{
			name:  "template literal in placeholder",
			src:   `<p>${'a ${b} c ${d}'}</p>`,
			want:  "<p>${`a ${b} c ${d}`}</p>",
			codes: []diag.Code{diag.MigTemplateLiteral},
		},
		{
			name:  "template literal escapes backticks",
			src:   "<div title=\"`${x}`\"/>",
			want:  "<div title=`\\`${x}\\``/>",
			codes: []diag.Code{diag.MigTemplateLiteral},
		},
		{
			name:  "ref inside directive",
			src:   `<div if(a) ref="r"/>`,
			want:  `<if(a)><div key="r"/></if>`,
			codes: []diag.Code{diag.MigIfDirective, diag.MigRefAttribute},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := migrateSource(t, tt.src, runOpts{mode: fix.ApplyModeAll})
			if res.out != tt.want {
				t.Fatalf("output mismatch:\nwant: %q\ngot:  %q", tt.want, res.out)
			}
			if len(res.diags) != len(tt.codes) {
				t.Fatalf("want %d diagnostics, got %s", len(tt.codes), summary(res.diags))
			}
			for i, code := range tt.codes {
				d := res.diags[i]
				if d.Code != code || d.Severity != diag.SevDeprecation {
					t.Fatalf("diagnostic %d: want %s, got %s", i, code.ID(), summary(res.diags))
				}
				if !strings.Contains(d.Message, "See: https://github.com/marko-js/marko/wiki/Deprecation:-") {
					t.Fatalf("label without link: %q", d.Message)
				}
			}
		})
	}
}

func TestNoMatchLeavesSourceAlone(t *testing.T) {
	sources := []string{
		"<for(item in input.items)><li key=item.id>${item.label}</li></for>",
		"<if(x)>a</if><else>b</else>",
		`<div for="not a directive" if=true else=1 key="k"/>`,
		"<div title=`ok ${x}` alt='no holes' raw=\"\\${escaped}\"/>",
		"<div ...attrs on-click(\"handle\")/>",
		"<${input.show ? Component : null} body-only-if(x)/>",
		"$ const x = 1;\n<span>${x}</span>",
		"<!-- ref=\"x\" for(a) -->",
	}
	for _, src := range sources {
		res := migrateSource(t, src, runOpts{mode: fix.ApplyModeAll})
		if len(res.diags) != 0 {
			t.Fatalf("%q: unexpected diagnostics %s", src, summary(res.diags))
		}
		if res.out != src {
			t.Fatalf("%q: source changed to %q", src, res.out)
		}
	}
}
