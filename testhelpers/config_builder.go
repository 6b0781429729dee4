package testhelpers

import (
	"github.com/standardbeagle/flx/internal/config"
)

// TestConfigBuilder provides a fluent API for building test configs.
// Usage:
//
//	cfg := testhelpers.NewTestConfigBuilder().
//		WithWorkers(4).
//		WithShardSize(16).
//		Build()
type TestConfigBuilder struct {
	cfg *config.Config
}

// NewTestConfigBuilder starts from the reference configuration with the
// result cache disabled, so tests observe the matching path unless they
// opt in with WithCache.
func NewTestConfigBuilder() *TestConfigBuilder {
	cfg := config.Default()
	cfg.Ranking.CacheSize = 0
	return &TestConfigBuilder{cfg: cfg}
}

func (b *TestConfigBuilder) WithWorkers(n int) *TestConfigBuilder {
	b.cfg.Ranking.Workers = n
	return b
}

func (b *TestConfigBuilder) WithShardSize(n int) *TestConfigBuilder {
	b.cfg.Ranking.ShardSize = n
	return b
}

func (b *TestConfigBuilder) WithCache(size int) *TestConfigBuilder {
	b.cfg.Ranking.CacheSize = size
	return b
}

func (b *TestConfigBuilder) WithSeparatorPolicy(p config.SeparatorPolicy) *TestConfigBuilder {
	b.cfg.Scoring.SeparatorPolicy = p
	return b
}

func (b *TestConfigBuilder) WithMaxLen(n int) *TestConfigBuilder {
	b.cfg.Scoring.MaxLen = n
	return b
}

// Build returns a copy, so one builder can produce several configs.
func (b *TestConfigBuilder) Build() *config.Config {
	cfg := *b.cfg
	return &cfg
}
