package flx

import "github.com/standardbeagle/flx/internal/config"

// Option configures a Corpus or a standalone Score.
type Option func(*options)

type options struct {
	cfg *config.Config
}

func buildOptions(opts []Option) *options {
	o := &options{cfg: config.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithConfig replaces the whole configuration. The config is copied; later
// options still apply on top of it.
func WithConfig(cfg *Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		c := *cfg
		o.cfg = &c
	}
}

// WithWorkers sets how many shards of a large corpus are matched at once.
// 1 matches sequentially.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.cfg.Ranking.Workers = n
	}
}

// WithCache sets how many query results a corpus remembers; 0 disables
// the cache.
func WithCache(size int) Option {
	return func(o *options) {
		o.cfg.Ranking.CacheSize = size
	}
}

// WithScoring replaces the scoring weights.
func WithScoring(s Scoring) Option {
	return func(o *options) {
		o.cfg.Scoring = s
	}
}
