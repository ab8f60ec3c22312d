package fuzztests

import (
	"context"
	"testing"
	"time"

	"tagfix/internal/diag"
	"tagfix/internal/parser"
	"tagfix/internal/source"
	"tagfix/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
const parseTimeout = 5 * time.Second

func FuzzParserKeepsTreeInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.marko", input)

		bag := diag.NewBag(128)
		tree := parser.ParseFile(fs, fileID, parser.Options{
			Reporter:  diag.BagReporter{Bag: bag},
			MaxErrors: 128,
		})
		if err := testkit.CheckTreeInvariants(tree, fs.Get(fileID)); err != nil {
			t.Fatalf("broken tree for %q: %v", truncateForLog(input, 200), err)
		}
	})
}

// FuzzParserNoHang checks that error recovery always makes progress.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("<div"))                    // unterminated start tag
	f.Add([]byte("<div for(x in list"))      // unterminated argument
	f.Add([]byte("<a b=${c"))                // unterminated placeholder
	f.Add([]byte("<a b=\"${'}'}\"/>"))       // brace inside string inside placeholder
	f.Add([]byte("</div></span>"))           // stray closing tags
	f.Add([]byte("<x><y><z></x>"))           // mismatched nesting
	f.Add([]byte("<a title=`x ${`y`} z`/>")) // nested backticks

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			fileID := fs.AddVirtual("fuzz.marko", input)
			bag := diag.NewBag(128)
			_ = parser.ParseFile(fs, fileID, parser.Options{
				Reporter:  diag.BagReporter{Bag: bag},
				MaxErrors: 128,
			})
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
