package testhelpers

import (
	"math/rand"
	"strings"
)

// SampleLines is a small file-path corpus with separators, mixed case and
// repeated runes.
var SampleLines = []string{
	"cmd/flx/main.go",
	"cmd/flx/main_test.go",
	"internal/charclass/charclass.go",
	"internal/lineindex/record.go",
	"internal/lineindex/record_test.go",
	"internal/match/match.go",
	"internal/ranking/corpus.go",
	"internal/ranking/topn.go",
	"internal/config/kdl_config.go",
	"README.md",
	"Makefile",
	"go.mod",
	"foo_bar",
	"foobar",
	"fb",
}

// RandomLines returns n reproducible lines of 1..maxLen runes drawn from alphabet.
func RandomLines(seed int64, n, maxLen int, alphabet string) []string {
	rng := rand.New(rand.NewSource(seed))
	runes := []rune(alphabet)
	lines := make([]string, n)
	var b strings.Builder
	for i := range lines {
		b.Reset()
		length := 1 + rng.Intn(maxLen)
		for j := 0; j < length; j++ {
			b.WriteRune(runes[rng.Intn(len(runes))])
		}
		lines[i] = b.String()
	}
	return lines
}
