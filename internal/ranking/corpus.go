// Package ranking runs a query over a corpus of indexed lines and returns
// the best matches, best first.
package ranking

import (
	"context"
	"encoding/binary"
	"slices"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/flx/internal/cache"
	"github.com/standardbeagle/flx/internal/config"
	"github.com/standardbeagle/flx/internal/debug"
	flxerrors "github.com/standardbeagle/flx/internal/errors"
	"github.com/standardbeagle/flx/internal/lineindex"
	"github.com/standardbeagle/flx/internal/match"
)

// Match is one ranked result.
type Match struct {
	Index     int     // position of the line in the corpus
	Text      string  // the line as supplied by the caller
	Score     float64 // alignment score, plus the exact-match bonus for a line equal to the query
	Factor    float64 // line factor the score was computed with
	Positions []int   // matched rune positions in the normalized line
}

// Corpus is an immutable collection of indexed lines. Queries may run
// concurrently with each other and with Record(i).SetFactor.
type Corpus struct {
	records []*lineindex.Record
	cfg     config.Config
	results *cache.LRU[[]Match]
}

// New indexes lines with factor 0. A nil cfg uses config.Default().
func New(lines []string, cfg *config.Config) *Corpus {
	c := newCorpus(cfg)
	start := time.Now()
	c.records = make([]*lineindex.Record, len(lines))
	for i, line := range lines {
		c.records[i] = lineindex.Build(line, 0, c.cfg.Scoring)
	}
	debug.LogIndex("indexed %d lines in %v\n", len(lines), time.Since(start))
	return c
}

// NewFromRecords wraps records that are already indexed. The slice is
// copied; the records themselves are shared with the caller.
func NewFromRecords(records []*lineindex.Record, cfg *config.Config) *Corpus {
	c := newCorpus(cfg)
	c.records = slices.Clone(records)
	return c
}

func newCorpus(cfg *config.Config) *Corpus {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Corpus{
		cfg:     *cfg,
		results: cache.NewLRU[[]Match](cfg.Ranking.CacheSize),
	}
}

// Len returns the number of lines.
func (c *Corpus) Len() int { return len(c.records) }

// Record returns the i-th indexed line.
func (c *Corpus) Record(i int) *lineindex.Record { return c.records[i] }

// Config returns the configuration the corpus was built with.
func (c *Corpus) Config() config.Config { return c.cfg }

// CacheStats reports result cache usage. All fields are zero when the
// cache is disabled.
func (c *Corpus) CacheStats() cache.Stats { return c.results.Stats() }

// Fingerprint hashes the normalized text of every line in order. Two
// corpora with equal fingerprints answer every query identically, given
// equal factors and configuration.
func (c *Corpus) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, rec := range c.records {
		binary.LittleEndian.PutUint64(buf[:], rec.Fingerprint())
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// Query returns the text of the best limit lines for q, best first.
// An empty query or a non-positive limit yields no results.
func (c *Corpus) Query(q string, limit int) []string {
	texts, _ := c.QueryContext(context.Background(), q, limit)
	return texts
}

// QueryContext is Query with cancellation. A cancelled query returns a
// *errors.QueryError wrapping ctx.Err().
func (c *Corpus) QueryContext(ctx context.Context, q string, limit int) ([]string, error) {
	matches, err := c.QueryMatches(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Text
	}
	return texts, nil
}

// QueryMatches returns the best limit matches for q with their scores and
// positions. The returned slice is owned by the caller; the Positions
// slices must not be modified.
func (c *Corpus) QueryMatches(ctx context.Context, q string, limit int) ([]Match, error) {
	query := lineindex.NormalizeQuery(q)
	if len(query) == 0 || limit <= 0 || len(c.records) == 0 {
		return nil, nil
	}

	// Stamp before matching: a factor change during the query leaves the
	// result under a stamp no later query will ask for.
	key := cache.Key{Query: cache.QueryHash(query), Limit: limit, Stamp: c.factorStamp()}
	if cached, ok := c.results.Get(key); ok {
		debug.LogQuery("cache hit for %q (limit %d)\n", q, limit)
		return slices.Clone(cached), nil
	}

	start := time.Now()
	var (
		ranked []candidate
		err    error
	)
	if c.sharded() {
		ranked, err = c.rankSharded(ctx, query, limit)
	} else {
		ranked, err = c.rankRange(ctx, query, limit, 0, len(c.records))
	}
	if err != nil {
		return nil, flxerrors.NewQueryError(q, limit, err)
	}

	matches := make([]Match, len(ranked))
	for i, cand := range ranked {
		matches[i] = Match{
			Index:     cand.index,
			Text:      c.records[cand.index].Raw(),
			Score:     cand.score,
			Factor:    cand.factor,
			Positions: cand.positions,
		}
	}
	debug.LogQuery("%q (limit %d): %d matches over %d lines in %v\n",
		q, limit, len(matches), len(c.records), time.Since(start))

	c.results.Put(key, matches)
	return slices.Clone(matches), nil
}

// factorStamp changes whenever any record's factor is set.
func (c *Corpus) factorStamp() uint64 {
	if c.results == nil {
		return 0
	}
	var stamp uint64
	for _, rec := range c.records {
		stamp += rec.Version()
	}
	return stamp
}

func (c *Corpus) sharded() bool {
	return c.cfg.Ranking.Workers > 1 && len(c.records) > c.shardSize()
}

func (c *Corpus) shardSize() int {
	if c.cfg.Ranking.ShardSize > 0 {
		return c.cfg.Ranking.ShardSize
	}
	return config.DefaultShardSize
}

// rankRange matches records[from:to] and keeps the best limit. A line whose
// normalized text equals the query gets ExactMatchFactor on top of its own
// factor, as flx.Score does.
func (c *Corpus) rankRange(ctx context.Context, query []rune, limit, from, to int) ([]candidate, error) {
	best := newTopN(limit)
	exact := string(query)
	w := &c.cfg.Scoring
	for i := from; i < to; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec := c.records[i]
		res, ok := match.Best(rec, query, *w)
		if !ok {
			continue
		}
		score := res.Score
		if rec.Text() == exact {
			score += w.ExactMatchFactor * w.FactorWeight
		}
		best.offer(candidate{index: i, score: score, factor: res.Factor, positions: res.Positions})
	}
	return best.drain(), nil
}

// rankSharded splits the corpus into shards matched concurrently, then
// merges the per-shard winners with the same bounded insert.
func (c *Corpus) rankSharded(ctx context.Context, query []rune, limit int) ([]candidate, error) {
	size := c.shardSize()
	n := (len(c.records) + size - 1) / size
	shards := make([][]candidate, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Ranking.Workers)
	for s := 0; s < n; s++ {
		from := s * size
		to := min(from+size, len(c.records))
		g.Go(func() error {
			ranked, err := c.rankRange(gctx, query, limit, from, to)
			if err != nil {
				return err
			}
			shards[s] = ranked
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	debug.LogQuery("merged %d shards of up to %d lines\n", n, size)

	best := newTopN(limit)
	for _, shard := range shards {
		for _, cand := range shard {
			best.offer(cand)
		}
	}
	return best.drain(), nil
}
