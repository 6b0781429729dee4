package config

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"

	flxerrors "github.com/standardbeagle/flx/internal/errors"
)

// maxMaxLen bounds the per-line index. The matcher is exponential in the
// number of occurrences per query rune, so unbounded lines are refused.
const maxMaxLen = 1 << 16

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// All problems are reported together as a *MultiError of *ConfigError.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	var errs []error
	errs = append(errs, v.validateScoringConfig(&cfg.Scoring)...)
	errs = append(errs, v.validateRankingConfig(&cfg.Ranking)...)

	if err := flxerrors.NewMultiError(errs).ErrorOrNil(); err != nil {
		return err
	}

	v.setSmartDefaults(cfg)
	return nil
}

// validateScoringConfig validates scoring weights
func (v *Validator) validateScoringConfig(s *Scoring) []error {
	var errs []error

	if s.MaxLen <= 0 || s.MaxLen > maxMaxLen {
		errs = append(errs, flxerrors.NewConfigError("scoring.max_len", strconv.Itoa(s.MaxLen),
			fmt.Errorf("must be between 1 and %d", maxMaxLen)))
	}

	for _, r := range []struct {
		field string
		value float64
	}{
		{"scoring.separator_reduce", s.SeparatorReduce},
		{"scoring.class_reduce", s.ClassReduce},
	} {
		if math.IsNaN(r.value) || r.value < 0 || r.value > 1 {
			errs = append(errs, flxerrors.NewConfigError(r.field, formatFloat(r.value),
				errors.New("decay factor must be between 0 and 1")))
		}
	}

	for _, w := range []struct {
		field string
		value float64
	}{
		{"scoring.separator_factor", s.SeparatorFactor},
		{"scoring.class_factor", s.ClassFactor},
		{"scoring.first_factor", s.FirstFactor},
		{"scoring.after_separator_boost", s.AfterSeparatorBoost},
		{"scoring.dist_weight", s.DistWeight},
		{"scoring.heat_weight", s.HeatWeight},
		{"scoring.factor_weight", s.FactorWeight},
		{"scoring.exact_match_factor", s.ExactMatchFactor},
	} {
		if math.IsNaN(w.value) || math.IsInf(w.value, 0) {
			errs = append(errs, flxerrors.NewConfigError(w.field, formatFloat(w.value),
				errors.New("weight must be a finite number")))
		}
	}

	if s.SeparatorPolicy != IndexSeparators && s.SeparatorPolicy != SkipSeparators {
		errs = append(errs, flxerrors.NewConfigError("scoring.separator_policy", s.SeparatorPolicy.String(),
			errors.New("must be index or skip")))
	}

	return errs
}

// validateRankingConfig validates ranking configuration
func (v *Validator) validateRankingConfig(r *Ranking) []error {
	var errs []error

	// Workers: 0 means auto-detect (will be set by smart defaults)
	if r.Workers < 0 {
		errs = append(errs, flxerrors.NewConfigError("ranking.workers", strconv.Itoa(r.Workers),
			errors.New("cannot be negative")))
	}

	if r.ShardSize < 0 {
		errs = append(errs, flxerrors.NewConfigError("ranking.shard_size", strconv.Itoa(r.ShardSize),
			errors.New("cannot be negative")))
	}

	if r.CacheSize < 0 {
		errs = append(errs, flxerrors.NewConfigError("ranking.cache_size", strconv.Itoa(r.CacheSize),
			errors.New("cannot be negative")))
	}

	if r.DefaultLimit < 0 {
		errs = append(errs, flxerrors.NewConfigError("ranking.default_limit", strconv.Itoa(r.DefaultLimit),
			errors.New("cannot be negative")))
	}

	return errs
}

// setSmartDefaults applies smart defaults based on system capabilities
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Ranking.Workers == 0 {
		cfg.Ranking.Workers = runtime.NumCPU()
	}

	if cfg.Ranking.ShardSize == 0 {
		cfg.Ranking.ShardSize = DefaultShardSize
	}

	if cfg.Ranking.DefaultLimit == 0 {
		cfg.Ranking.DefaultLimit = DefaultLimit
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
