package ranking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/flx/internal/config"
	flxerrors "github.com/standardbeagle/flx/internal/errors"
	"github.com/standardbeagle/flx/internal/lineindex"
	"github.com/standardbeagle/flx/testhelpers"
)

func TestCorpus_Query(t *testing.T) {
	c := New([]string{"foobar", "foo_bar", "fb"}, nil)

	assert.Equal(t, []string{"fb", "foo_bar", "foobar"}, c.Query("fb", 10))
	assert.Equal(t, []string{"fb"}, c.Query("fb", 1))
	assert.Equal(t, []string{"foo_bar", "foobar"}, c.Query("ob", 10))
	assert.Empty(t, c.Query("fz", 10))
}

func TestCorpus_ScoringConfig(t *testing.T) {
	skip := New([]string{"foo_bar", "foobar"}, testhelpers.NewTestConfigBuilder().
		WithSeparatorPolicy(config.SkipSeparators).
		Build())
	assert.Empty(t, skip.Query("_", 10))
	assert.Equal(t, []string{"foo_bar", "foobar"}, skip.Query("fb", 10))

	short := New([]string{"abcdef"}, testhelpers.NewTestConfigBuilder().WithMaxLen(3).Build())
	assert.Equal(t, []string{"abcdef"}, short.Query("ac", 10), "results keep the whole line")
	assert.Empty(t, short.Query("ad", 10), "runes past max_len are not indexed")
}

func TestCorpus_QueryMatches(t *testing.T) {
	c := New([]string{"foobar", "foo_bar", "fb"}, nil)

	matches, err := c.QueryMatches(context.Background(), "fb", 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	// the exact line carries the exact-match bonus on top of its alignment
	assert.Equal(t, Match{Index: 2, Text: "fb", Score: 11 + config.DefaultExactMatchFactor, Positions: []int{0, 1}}, matches[0])
	assert.Equal(t, Match{Index: 1, Text: "foo_bar", Score: 15.75, Positions: []int{0, 4}}, matches[1])
	assert.Equal(t, 0, matches[2].Index)
	assert.InDelta(t, 4.5, matches[2].Score, 1e-9)
}

func TestCorpus_DegenerateQueries(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		query string
		limit int
	}{
		{"empty query", testhelpers.SampleLines, "", 10},
		{"whitespace query", testhelpers.SampleLines, " \t", 10},
		{"zero limit", testhelpers.SampleLines, "go", 0},
		{"negative limit", testhelpers.SampleLines, "go", -3},
		{"empty corpus", nil, "go", 10},
		{"only empty lines", []string{"", ""}, "a", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.lines, nil)
			assert.Empty(t, c.Query(tt.query, tt.limit))

			matches, err := c.QueryMatches(context.Background(), tt.query, tt.limit)
			assert.NoError(t, err)
			assert.Empty(t, matches)
		})
	}
}

func TestCorpus_ReturnsOriginalText(t *testing.T) {
	c := New([]string{"\ufb01le", "other"}, nil)
	assert.Equal(t, []string{"\ufb01le"}, c.Query("fi", 10))
}

func TestCorpus_FactorBreaksTies(t *testing.T) {
	w := config.DefaultScoring()

	plain := New([]string{"xabc", "yabc"}, nil)
	assert.Equal(t, []string{"xabc", "yabc"}, plain.Query("abc", 10), "equal score and factor keeps corpus order")

	favored := NewFromRecords([]*lineindex.Record{
		lineindex.Build("xabc", 0, w),
		lineindex.Build("yabc", 1, w),
	}, nil)
	assert.Equal(t, []string{"yabc", "xabc"}, favored.Query("abc", 10))
	assert.Equal(t, []string{"yabc"}, favored.Query("abc", 1))
}

func TestCorpus_BoundedEqualsSortAndTruncate(t *testing.T) {
	lines := testhelpers.RandomLines(3, 100, 10, "ab_c.xyz")
	c := New(lines, nil)

	for _, query := range []string{"a", "ab", "abc", "a_c", "x.y"} {
		full, err := c.QueryMatches(context.Background(), query, len(lines))
		require.NoError(t, err)

		for i := 1; i < len(full); i++ {
			assert.False(t, better(asCandidate(full[i]), asCandidate(full[i-1])),
				"%q: result %d ranks above result %d", query, i, i-1)
		}

		for _, limit := range []int{1, 5, 10} {
			got, err := c.QueryMatches(context.Background(), query, limit)
			require.NoError(t, err)
			assert.Equal(t, full[:min(limit, len(full))], got, "%q limit %d", query, limit)
		}
	}
}

func asCandidate(m Match) candidate {
	return candidate{index: m.Index, score: m.Score, factor: m.Factor}
}

func TestCorpus_Idempotent(t *testing.T) {
	c := New(testhelpers.SampleLines, nil)

	first := c.Query("mgo", 5)
	require.NotEmpty(t, first)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, c.Query("mgo", 5))
	}
}

func TestCorpus_ShardedMatchesSequential(t *testing.T) {
	lines := testhelpers.RandomLines(11, 500, 14, "abc_-. AB1")

	sequential := New(lines, testhelpers.NewTestConfigBuilder().Build())
	sharded := New(lines, testhelpers.NewTestConfigBuilder().WithWorkers(4).WithShardSize(16).Build())
	require.True(t, sharded.sharded())
	require.False(t, sequential.sharded())

	for _, query := range []string{"a", "ab", "abc", "b_", "A", "ca", "a1", "zz"} {
		for _, limit := range []int{1, 10, 1000} {
			want, err := sequential.QueryMatches(context.Background(), query, limit)
			require.NoError(t, err)
			got, err := sharded.QueryMatches(context.Background(), query, limit)
			require.NoError(t, err)
			assert.Equal(t, want, got, "%q limit %d", query, limit)
		}
	}
}

func TestCorpus_Cancelled(t *testing.T) {
	lines := testhelpers.RandomLines(5, 200, 8, "abc")

	configs := map[string]*config.Config{
		"sequential": testhelpers.NewTestConfigBuilder().Build(),
		"sharded":    testhelpers.NewTestConfigBuilder().WithWorkers(2).WithShardSize(10).Build(),
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			c := New(lines, cfg)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			texts, err := c.QueryContext(ctx, "ab", 10)
			require.Error(t, err)
			assert.Nil(t, texts)
			assert.True(t, errors.Is(err, context.Canceled))

			var qe *flxerrors.QueryError
			require.True(t, errors.As(err, &qe))
			assert.Equal(t, "ab", qe.Pattern)
			assert.Equal(t, 10, qe.Limit)
		})
	}
}

func TestCorpus_CacheNeverStaleAfterSetFactor(t *testing.T) {
	c := New([]string{"xabc", "yabc"}, testhelpers.NewTestConfigBuilder().WithCache(8).Build())

	assert.Equal(t, []string{"xabc", "yabc"}, c.Query("abc", 10))
	assert.Equal(t, []string{"xabc", "yabc"}, c.Query("abc", 10))
	assert.Equal(t, int64(1), c.CacheStats().Hits)

	c.Record(1).SetFactor(5)

	matches, err := c.QueryMatches(context.Background(), "abc", 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "yabc", matches[0].Text)
	assert.Equal(t, 5.0, matches[0].Factor)
	assert.InDelta(t, matches[1].Score+5, matches[0].Score, 1e-9)
	assert.Equal(t, int64(1), c.CacheStats().Hits, "the factor change must miss")
}

func TestCorpus_CachedResultsAreCopies(t *testing.T) {
	c := New(testhelpers.SampleLines, testhelpers.NewTestConfigBuilder().WithCache(8).Build())

	first, err := c.QueryMatches(context.Background(), "fb", 3)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	want := first[0].Text
	first[0].Text = "mutated"

	second, err := c.QueryMatches(context.Background(), "fb", 3)
	require.NoError(t, err)
	assert.Equal(t, want, second[0].Text)
	assert.Equal(t, int64(1), c.CacheStats().Hits)
}

func TestCorpus_ConcurrentQueriesAndFactorUpdates(t *testing.T) {
	lines := testhelpers.RandomLines(9, 300, 10, "abc_")
	c := New(lines, testhelpers.NewTestConfigBuilder().WithWorkers(3).WithShardSize(32).WithCache(16).Build())

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_ = c.Query("ab", 10)
			}
		}()
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				c.Record((g*20 + i) % c.Len()).SetFactor(float64(i))
			}
		}(g)
	}
	wg.Wait()

	// once writers are done the cache must agree with a fresh corpus
	fresh := make([]*lineindex.Record, c.Len())
	for i := range fresh {
		fresh[i] = c.Record(i)
	}
	uncached := NewFromRecords(fresh, testhelpers.NewTestConfigBuilder().Build())
	assert.Equal(t, uncached.Query("ab", 10), c.Query("ab", 10))
}

func TestCorpus_Fingerprint(t *testing.T) {
	a := New([]string{"\ufb01le", "x"}, nil)
	b := New([]string{"file", "x"}, nil)
	c := New([]string{"x", "file"}, nil)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestNewFromRecords_CopiesSlice(t *testing.T) {
	w := config.DefaultScoring()
	records := []*lineindex.Record{lineindex.Build("abc", 0, w)}
	c := NewFromRecords(records, nil)

	records[0] = lineindex.Build("zzz", 0, w)
	assert.Equal(t, []string{"abc"}, c.Query("abc", 1))
	assert.Equal(t, 1, c.Len())
}

func BenchmarkCorpus_Query(b *testing.B) {
	lines := testhelpers.RandomLines(1, 10000, 40, "abcdefghij_/.")
	cfgs := map[string]*config.Config{
		"sequential": testhelpers.NewTestConfigBuilder().Build(),
		"sharded":    testhelpers.NewTestConfigBuilder().WithWorkers(4).WithShardSize(1024).Build(),
	}
	for name, cfg := range cfgs {
		c := New(lines, cfg)
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = c.Query("abj", 20)
			}
		})
	}
}
