package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/flx/internal/debug"
)

// Scoring defaults. These are the reference values: changing them changes
// every score the engine produces, so tests and callers comparing scores
// across builds must use the same set.
const (
	DefaultMaxLen              = 256
	DefaultSeparatorFactor     = 2.0
	DefaultSeparatorReduce     = 0.5
	DefaultClassFactor         = 2.0
	DefaultClassReduce         = 0.5
	DefaultFirstFactor         = 4.0
	DefaultAfterSeparatorBoost = 10.0
	DefaultDistWeight          = -1.0
	DefaultHeatWeight          = 1.0
	DefaultFactorWeight        = 1.0
	DefaultExactMatchFactor    = 10000.0
)

// Ranking defaults
const (
	DefaultWorkers      = 1
	DefaultShardSize    = 4096
	DefaultCacheSize    = 128
	DefaultLimit        = 20
	ConfigFileName      = ".flx.kdl"
	TOMLConfigFileName  = "flx.toml"
	CurrentConfigFormat = 1
)

type Config struct {
	Version int     `toml:"version"`
	Scoring Scoring `toml:"scoring"`
	Ranking Ranking `toml:"ranking"`
}

// Scoring holds the line-indexing and alignment-scoring tunables.
type Scoring struct {
	MaxLen int `toml:"max_len"` // Positions indexed per line; later runes are ignored

	SeparatorFactor     float64 `toml:"separator_factor"`      // Separator score set on every separator
	SeparatorReduce     float64 `toml:"separator_reduce"`      // Per-position decay of the separator score
	ClassFactor         float64 `toml:"class_factor"`          // Boost at a class transition
	ClassReduce         float64 `toml:"class_reduce"`          // Per-position decay of the class score
	FirstFactor         float64 `toml:"first_factor"`          // Boost at the first non-whitespace rune
	AfterSeparatorBoost float64 `toml:"after_separator_boost"` // Boost for a rune right after a separator

	DistWeight       float64 `toml:"dist_weight"`        // Weight of the average gap between matched positions
	HeatWeight       float64 `toml:"heat_weight"`        // Weight of the summed heat of matched positions
	FactorWeight     float64 `toml:"factor_weight"`      // Weight of the line factor
	ExactMatchFactor float64 `toml:"exact_match_factor"` // Factor given to a line equal to the pattern (standalone scoring)

	SeparatorPolicy SeparatorPolicy `toml:"separator_policy"`
}

// Ranking controls how a corpus query is executed.
type Ranking struct {
	Workers      int `toml:"workers"`       // Concurrent shards; 1 = sequential, 0 = NumCPU
	ShardSize    int `toml:"shard_size"`    // Minimum records per shard before sharding kicks in
	CacheSize    int `toml:"cache_size"`    // Cached query results; 0 disables the cache
	DefaultLimit int `toml:"default_limit"` // Limit used by callers that do not pass one
}

// SeparatorPolicy decides whether separator runes are searchable.
type SeparatorPolicy int

const (
	// IndexSeparators registers separators so a query may contain them.
	IndexSeparators SeparatorPolicy = iota
	// SkipSeparators leaves separators out of the index; queries containing one never match.
	SkipSeparators
)

func (p SeparatorPolicy) String() string {
	switch p {
	case IndexSeparators:
		return "index"
	case SkipSeparators:
		return "skip"
	default:
		return fmt.Sprintf("SeparatorPolicy(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler
func (p SeparatorPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *SeparatorPolicy) UnmarshalText(text []byte) error {
	policy, err := ParseSeparatorPolicy(string(text))
	if err != nil {
		return err
	}
	*p = policy
	return nil
}

// ParseSeparatorPolicy parses "index" or "skip" (case-insensitive).
func ParseSeparatorPolicy(s string) (SeparatorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "index", "include":
		return IndexSeparators, nil
	case "skip", "exclude":
		return SkipSeparators, nil
	default:
		return IndexSeparators, fmt.Errorf("unknown separator policy %q (must be index or skip)", s)
	}
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		Version: CurrentConfigFormat,
		Scoring: DefaultScoring(),
		Ranking: Ranking{
			Workers:      DefaultWorkers,
			ShardSize:    DefaultShardSize,
			CacheSize:    DefaultCacheSize,
			DefaultLimit: DefaultLimit,
		},
	}
}

// DefaultScoring returns the reference scoring weights.
func DefaultScoring() Scoring {
	return Scoring{
		MaxLen:              DefaultMaxLen,
		SeparatorFactor:     DefaultSeparatorFactor,
		SeparatorReduce:     DefaultSeparatorReduce,
		ClassFactor:         DefaultClassFactor,
		ClassReduce:         DefaultClassReduce,
		FirstFactor:         DefaultFirstFactor,
		AfterSeparatorBoost: DefaultAfterSeparatorBoost,
		DistWeight:          DefaultDistWeight,
		HeatWeight:          DefaultHeatWeight,
		FactorWeight:        DefaultFactorWeight,
		ExactMatchFactor:    DefaultExactMatchFactor,
		SeparatorPolicy:     IndexSeparators,
	}
}

// Load reads the configuration at path on top of the defaults.
// The format is chosen by extension (.toml, otherwise KDL). A directory is
// searched for .flx.kdl, then flx.toml. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		debug.LogConfig("no config at %s, using defaults\n", path)
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	if info.IsDir() {
		return LoadDir(path)
	}

	if err := applyFile(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDir loads .flx.kdl (preferred) or flx.toml from dir over the defaults.
func LoadDir(dir string) (*Config, error) {
	cfg := Default()
	for _, name := range []string{ConfigFileName, TOMLConfigFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	debug.LogConfig("no config in %s, using defaults\n", dir)
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = applyTOML(cfg, content)
	} else {
		err = applyKDL(cfg, string(content))
	}
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}

	debug.LogConfig("loaded %s: %+v\n", path, *cfg)
	return nil
}

// Merge overlays the fields of override that differ from the defaults onto
// base. Used to let a project config refine a user-wide one.
//
// A field override sets to its default value is indistinguishable from an
// unset one, so override cannot reset a value base changed back to the
// default.
func Merge(base, override *Config) *Config {
	merged := *base
	def := Default()

	if override.Version != def.Version {
		merged.Version = override.Version
	}

	mergeInt(&merged.Scoring.MaxLen, override.Scoring.MaxLen, def.Scoring.MaxLen)
	mergeFloat(&merged.Scoring.SeparatorFactor, override.Scoring.SeparatorFactor, def.Scoring.SeparatorFactor)
	mergeFloat(&merged.Scoring.SeparatorReduce, override.Scoring.SeparatorReduce, def.Scoring.SeparatorReduce)
	mergeFloat(&merged.Scoring.ClassFactor, override.Scoring.ClassFactor, def.Scoring.ClassFactor)
	mergeFloat(&merged.Scoring.ClassReduce, override.Scoring.ClassReduce, def.Scoring.ClassReduce)
	mergeFloat(&merged.Scoring.FirstFactor, override.Scoring.FirstFactor, def.Scoring.FirstFactor)
	mergeFloat(&merged.Scoring.AfterSeparatorBoost, override.Scoring.AfterSeparatorBoost, def.Scoring.AfterSeparatorBoost)
	mergeFloat(&merged.Scoring.DistWeight, override.Scoring.DistWeight, def.Scoring.DistWeight)
	mergeFloat(&merged.Scoring.HeatWeight, override.Scoring.HeatWeight, def.Scoring.HeatWeight)
	mergeFloat(&merged.Scoring.FactorWeight, override.Scoring.FactorWeight, def.Scoring.FactorWeight)
	mergeFloat(&merged.Scoring.ExactMatchFactor, override.Scoring.ExactMatchFactor, def.Scoring.ExactMatchFactor)
	if override.Scoring.SeparatorPolicy != def.Scoring.SeparatorPolicy {
		merged.Scoring.SeparatorPolicy = override.Scoring.SeparatorPolicy
	}

	mergeInt(&merged.Ranking.Workers, override.Ranking.Workers, def.Ranking.Workers)
	mergeInt(&merged.Ranking.ShardSize, override.Ranking.ShardSize, def.Ranking.ShardSize)
	mergeInt(&merged.Ranking.CacheSize, override.Ranking.CacheSize, def.Ranking.CacheSize)
	mergeInt(&merged.Ranking.DefaultLimit, override.Ranking.DefaultLimit, def.Ranking.DefaultLimit)

	return &merged
}

func mergeInt(dst *int, v, def int) {
	if v != def {
		*dst = v
	}
}

func mergeFloat(dst *float64, v, def float64) {
	if v != def {
		*dst = v
	}
}
