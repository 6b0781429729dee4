package lineindex

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/flx/internal/config"
)

func build(t *testing.T, raw string) *Record {
	t.Helper()
	return Build(raw, 0, config.DefaultScoring())
}

func TestBuild_Empty(t *testing.T) {
	rec := build(t, "")

	assert.Equal(t, "", rec.Text())
	assert.Equal(t, 0, rec.Len())
	assert.Equal(t, 0, rec.Keys())
	assert.Empty(t, rec.HeatProfile())
}

func TestBuild_HeatProfile(t *testing.T) {
	tests := []struct {
		line     string
		expected []float64
	}{
		// first rune: first boost + class boost, held one step by the class-change flag
		{"foobar", []float64{6, 6, 3, 1.5, 0.75, 0.375}},
		// rune after a separator gets the after-separator and class boosts
		{"foo_bar", []float64{6, 6, 3, 3.5, 13.75, 13.25, 6.625}},
		// leading whitespace defers the first boost to the first visible rune
		{"  ab", []float64{2, 2, 17, 16.5}},
		// a leading separator is the first non-whitespace rune
		{"-ab", []float64{6, 15, 14.5}},
		// every rune changes class; the flag suppresses repeated boosts
		{"a1b2", []float64{6, 6, 6, 6}},
		// a vowel sign continues the letter run
		{"\u0915\u093f\u0915", []float64{6, 6, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			rec := build(t, tt.line)
			require.Len(t, rec.HeatProfile(), len(tt.expected))
			for i, want := range tt.expected {
				assert.InDelta(t, want, rec.Heat(i), 1e-9, "heat[%d] of %q", i, tt.line)
			}
		})
	}
}

func TestBuild_PositionsAscending(t *testing.T) {
	rec := build(t, "abracadabra")

	positions, ok := rec.Positions('a')
	require.True(t, ok)
	assert.Equal(t, []int{0, 3, 5, 7, 10}, positions)

	positions, ok = rec.Positions('b')
	require.True(t, ok)
	assert.Equal(t, []int{1, 8}, positions)

	_, ok = rec.Positions('z')
	assert.False(t, ok)
}

func TestBuild_UppercaseDualRegistration(t *testing.T) {
	rec := build(t, "HeLLo")

	h, ok := rec.Positions('h')
	require.True(t, ok, "lowercase query rune must find an uppercase line rune")
	assert.Equal(t, []int{0}, h)

	upperH, ok := rec.Positions('H')
	require.True(t, ok)
	assert.Equal(t, []int{0}, upperH)

	l, ok := rec.Positions('l')
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, l)

	// lowercase line runes are not registered under their uppercase form
	_, ok = rec.Positions('E')
	assert.False(t, ok)
}

func TestBuild_MultiRuneFold(t *testing.T) {
	// U+0130 lowercases to "i" followed by a combining dot
	rec := build(t, "\u0130x")

	i, ok := rec.Positions('i')
	require.True(t, ok)
	assert.Equal(t, []int{0}, i)
}

func TestBuild_NFKC(t *testing.T) {
	t.Run("composition", func(t *testing.T) {
		rec := build(t, "e\u0301a") // e + combining acute
		assert.Equal(t, "\u00e9a", rec.Text())
		assert.Equal(t, 2, rec.Len())

		a, ok := rec.Positions('a')
		require.True(t, ok)
		assert.Equal(t, []int{1}, a, "positions index normalized runes")
	})

	t.Run("compatibility", func(t *testing.T) {
		rec := build(t, "\ufb01le") // fi ligature
		assert.Equal(t, "file", rec.Text())
		_, ok := rec.Positions('f')
		assert.True(t, ok)
	})

	t.Run("raw is preserved", func(t *testing.T) {
		rec := build(t, "\ufb01le")
		assert.Equal(t, "\ufb01le", rec.Raw())
	})
}

func TestBuild_MaxLen(t *testing.T) {
	cfg := config.DefaultScoring()
	cfg.MaxLen = 3

	rec := Build("abcdef", 0, cfg)

	assert.Equal(t, "abcdef", rec.Text())
	assert.Equal(t, 3, rec.Len())
	assert.Equal(t, []rune("abc"), rec.Runes())
	_, ok := rec.Positions('d')
	assert.False(t, ok, "runes past MaxLen are not indexed")
}

func TestBuild_SeparatorPolicy(t *testing.T) {
	t.Run("index", func(t *testing.T) {
		rec := build(t, "a-b c")
		dash, ok := rec.Positions('-')
		require.True(t, ok)
		assert.Equal(t, []int{1}, dash)
		space, ok := rec.Positions(' ')
		require.True(t, ok)
		assert.Equal(t, []int{3}, space)
	})

	t.Run("skip", func(t *testing.T) {
		cfg := config.DefaultScoring()
		cfg.SeparatorPolicy = config.SkipSeparators
		rec := Build("a-b c", 0, cfg)

		_, ok := rec.Positions('-')
		assert.False(t, ok)
		_, ok = rec.Positions(' ')
		assert.False(t, ok)
		assert.Equal(t, 5, rec.Len(), "heat still covers separator positions")

		b, ok := rec.Positions('b')
		require.True(t, ok)
		assert.Equal(t, []int{2}, b)
	})
}

func TestRecord_Factor(t *testing.T) {
	rec := Build("line", 1.5, config.DefaultScoring())
	assert.Equal(t, 1.5, rec.Factor())
	assert.Equal(t, uint64(0), rec.Version())

	rec.SetFactor(-2.25)
	assert.Equal(t, -2.25, rec.Factor())
	assert.Equal(t, uint64(1), rec.Version())
}

func TestRecord_ConcurrentFactorUpdates(t *testing.T) {
	rec := build(t, "line")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(f float64) {
			defer wg.Done()
			rec.SetFactor(f)
		}(float64(i))
		go func() {
			defer wg.Done()
			_ = rec.Factor()
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(8), rec.Version())
}

func TestRecord_Fingerprint(t *testing.T) {
	a := build(t, "\ufb01le")
	b := build(t, "file")
	c := build(t, "files")

	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "fingerprint covers normalized text")
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		query    string
		expected []rune
	}{
		{"", []rune{}},
		{"   ", []rune{}},
		{"fb", []rune("fb")},
		{" f b\t", []rune("fb")},
		{"\ufb01", []rune("fi")},
		{"e\u0301", []rune("\u00e9")},
		{"a\u3000b", []rune("ab")}, // ideographic space
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeQuery(tt.query))
		})
	}
}

func BenchmarkBuild(b *testing.B) {
	cfg := config.DefaultScoring()
	line := "internal/lineindex/record_test.go: func BenchmarkBuild(b *testing.B)"
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Build(line, 0, cfg)
	}
}
