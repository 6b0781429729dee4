// Package flx ranks lines by how well they fuzzy-match a short query.
//
// A line matches when it contains every query character in order, not
// necessarily adjacent. Matches are scored by where the characters land:
// word starts, runes right after a separator, class boundaries and tight
// clusters score higher. Lowercase query characters also match uppercase
// line characters; uppercase query characters only match themselves.
//
//	corpus := flx.NewCorpus([]string{"foobar", "foo_bar", "fb"})
//	corpus.Query("fb", 10) // ["fb" "foo_bar" "foobar"]
//
// A corpus line equal to the query gets the exact-match factor, so it ranks
// first.
package flx

import (
	"github.com/standardbeagle/flx/internal/cache"
	"github.com/standardbeagle/flx/internal/config"
	"github.com/standardbeagle/flx/internal/lineindex"
	"github.com/standardbeagle/flx/internal/match"
	"github.com/standardbeagle/flx/internal/ranking"
)

type (
	// Config holds the scoring weights and ranking settings.
	Config = config.Config
	// Scoring holds the line indexing and alignment weights.
	Scoring = config.Scoring
	// Ranking controls corpus query execution.
	Ranking = config.Ranking
	// SeparatorPolicy decides whether separator runes are searchable.
	SeparatorPolicy = config.SeparatorPolicy
	// Match is one ranked corpus result.
	Match = ranking.Match
	// CacheStats reports corpus result cache usage.
	CacheStats = cache.Stats
)

const (
	// IndexSeparators makes separator runes searchable. It is the default.
	IndexSeparators = config.IndexSeparators
	// SkipSeparators leaves separators out of the index; a pattern
	// containing one never matches.
	SkipSeparators = config.SkipSeparators
)

// DefaultConfig returns the reference configuration.
func DefaultConfig() *Config { return config.Default() }

// LoadConfig reads a .flx.kdl or flx.toml file (or a directory holding
// one) over the defaults and validates it.
func LoadConfig(path string) (*Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.NewValidator().ValidateAndSetDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Score scores pattern against a single line without building a corpus.
// ok is false when either is empty or pattern is not a subsequence of
// line. A line equal to pattern gets the configured exact-match factor,
// so a full self-match outranks any partial query.
func Score(line, pattern string, opts ...Option) (score float64, ok bool) {
	if line == "" || pattern == "" {
		return 0, false
	}
	o := buildOptions(opts)

	var factor float64
	if line == pattern {
		factor = o.cfg.Scoring.ExactMatchFactor
	}
	rec := lineindex.Build(line, factor, o.cfg.Scoring)
	return match.Score(rec, lineindex.NormalizeQuery(pattern), o.cfg.Scoring)
}
