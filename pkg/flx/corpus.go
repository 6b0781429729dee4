package flx

import (
	"context"
	"iter"

	"github.com/standardbeagle/flx/internal/lineindex"
	"github.com/standardbeagle/flx/internal/ranking"
)

// Corpus is a fixed set of lines that can be queried any number of times,
// concurrently.
type Corpus struct {
	c *ranking.Corpus
}

// NewCorpus indexes lines, each with factor 0.
func NewCorpus(lines []string, opts ...Option) *Corpus {
	o := buildOptions(opts)
	return &Corpus{c: ranking.New(lines, o.cfg)}
}

// NewCorpusFromLines builds a corpus over lines that are already indexed.
// The lines stay shared: SetFactor on one of them affects later queries.
// Their heat profiles keep the weights they were indexed with.
func NewCorpusFromLines(lines []*Line, opts ...Option) *Corpus {
	o := buildOptions(opts)
	records := make([]*lineindex.Record, len(lines))
	for i, l := range lines {
		records[i] = l.rec
	}
	return &Corpus{c: ranking.NewFromRecords(records, o.cfg)}
}

// FromSeq indexes every line produced by seq.
func FromSeq(seq iter.Seq[string], opts ...Option) *Corpus {
	var lines []string
	for line := range seq {
		lines = append(lines, line)
	}
	return NewCorpus(lines, opts...)
}

// Len returns the number of lines.
func (c *Corpus) Len() int { return c.c.Len() }

// Line returns the i-th line. It shares state with the corpus.
func (c *Corpus) Line(i int) *Line {
	return &Line{rec: c.c.Record(i), scoring: c.c.Config().Scoring}
}

// Query returns up to limit lines that match q, best first.
func (c *Corpus) Query(q string, limit int) []string {
	return c.c.Query(q, limit)
}

// QueryContext is Query with cancellation.
func (c *Corpus) QueryContext(ctx context.Context, q string, limit int) ([]string, error) {
	return c.c.QueryContext(ctx, q, limit)
}

// QueryMatches is QueryContext returning scores and matched positions.
func (c *Corpus) QueryMatches(ctx context.Context, q string, limit int) ([]Match, error) {
	return c.c.QueryMatches(ctx, q, limit)
}

// Fingerprint identifies the corpus content, independent of factors.
func (c *Corpus) Fingerprint() uint64 { return c.c.Fingerprint() }

// CacheStats reports result cache usage.
func (c *Corpus) CacheStats() CacheStats { return c.c.CacheStats() }
