package diag

import (
	"testing"

	"tagfix/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/components/card.marko", []byte("<div ref=\"x\"/>\n<for>\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     MigInvokeMissingValue,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 15, End: 20},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 5, End: 8}, Msg: "note line"},
			},
		},
		{
			Severity: SevDeprecation,
			Code:     MigRefAttribute,
			Message:  "ref",
			Primary:  source.Span{File: file, Start: 5, End: 12},
		},
	}

	expected := "deprecation MIG3006 components/card.marko:1:6 ref\n" +
		"note MIG3101 components/card.marko:1:6 note line\n" +
		"error MIG3101 components/card.marko:2:1 first line second"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagSortAndCounts(t *testing.T) {
	b := NewBag(0)
	b.Add(New(SevDeprecation, MigRefAttribute, source.Span{Start: 9, End: 10}, "b"))
	b.Add(New(SevError, MigInvokeNotCall, source.Span{Start: 1, End: 2}, "a"))
	b.Add(New(SevDeprecation, MigForDirective, source.Span{Start: 1, End: 2}, "c"))
	b.Sort()

	got := []Code{b.Items()[0].Code, b.Items()[1].Code, b.Items()[2].Code}
	want := []Code{MigInvokeNotCall, MigForDirective, MigRefAttribute}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sort order: want %v, got %v", want, got)
		}
	}
	if !b.HasErrors() || !b.HasDeprecations() {
		t.Fatalf("expected errors and deprecations")
	}
	if n := b.CountBySeverity()[SevDeprecation]; n != 2 {
		t.Fatalf("deprecations: want 2, got %d", n)
	}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(1)
	if !b.Add(Diagnostic{}) {
		t.Fatalf("first add must succeed")
	}
	if b.Add(Diagnostic{}) {
		t.Fatalf("second add must hit the limit")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 3, End: 7}
	r.Report(MigRefAttribute, SevDeprecation, sp, "m", nil, nil)
	r.Report(MigRefAttribute, SevDeprecation, sp, "m", nil, nil)
	r.Report(MigRefAttribute, SevDeprecation, source.Span{Start: 8, End: 9}, "m", nil, nil)
	if bag.Len() != 2 {
		t.Fatalf("dedup: want 2, got %d", bag.Len())
	}
}

func TestMultiReporterFansOut(t *testing.T) {
	first, second := NewBag(0), NewBag(0)
	r := MultiReporter{BagReporter{Bag: first}, NopReporter{}, BagReporter{Bag: second}}
	ReportDeprecation(r, MigRefAttribute, source.Span{Start: 1, End: 4}, "ref").Emit()
	if first.Len() != 1 || second.Len() != 1 {
		t.Fatalf("want one diagnostic in each bag, got %d and %d", first.Len(), second.Len())
	}
}
