package fuzztests

import (
	"path/filepath"
	"testing"

	"tagfix/internal/testkit"
)

const (
	maxFuzzInput = 1 << 16 // 64 KiB
	maxSeedBytes = 64 << 10
)

func addCorpusSeeds(f *testing.F) {
	addFixtureSeeds(f)
	// хотя бы минимальные примеры на случай пустого testdata
	f.Add([]byte{})
	f.Add([]byte("<div for(x in list)>${x}</div>\n"))
	f.Add([]byte("<if(a)>x</if><else-if(b)>y</else-if><else>z</else>"))
	f.Add([]byte("<invoke data.fn(1, 'a')/>"))
	f.Add([]byte(`<a title="Hello ${name}!" ${attrs}/>`))
}

// addFixtureSeeds adds every template from the migrate fixtures.
func addFixtureSeeds(f *testing.F) {
	cases, err := testkit.LoadDir(filepath.Join("..", "migrate", "testdata"))
	if err != nil {
		return
	}
	for _, c := range cases {
		f.Add(clampSeed([]byte(c.Input)))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
