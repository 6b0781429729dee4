// Package lineindex turns a raw line into a searchable Record: the NFKC
// normalized text, a rune -> positions index and a per-position heat profile.
package lineindex

import (
	"math"
	"sync/atomic"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/standardbeagle/flx/internal/charclass"
	"github.com/standardbeagle/flx/internal/config"
)

// Record is an indexed line. Everything except the factor is immutable
// after Build; the factor may be changed concurrently with readers.
type Record struct {
	raw         string
	text        string
	runes       []rune // normalized runes, capped at MaxLen
	index       map[rune][]int
	heat        []float64
	fingerprint uint64

	factor  atomic.Uint64 // math.Float64bits
	version atomic.Uint64 // bumped on every SetFactor
}

// Build indexes raw with the given factor.
func Build(raw string, factor float64, cfg config.Scoring) *Record {
	text := norm.NFKC.String(raw)

	rec := &Record{
		raw:         raw,
		text:        text,
		index:       make(map[rune][]int),
		fingerprint: xxhash.Sum64String(text),
	}
	rec.factor.Store(math.Float64bits(factor))

	var (
		st    heatState
		lower cases.Caser
		ready bool
	)
	for _, r := range text {
		pos := len(rec.runes)
		if pos >= cfg.MaxLen {
			break
		}
		rec.runes = append(rec.runes, r)
		rec.heat = append(rec.heat, st.step(r, &cfg))

		if cfg.SeparatorPolicy == config.SkipSeparators && charclass.IsSeparator(r) {
			continue
		}

		rec.index[r] = append(rec.index[r], pos)
		if unicode.IsUpper(r) {
			if !ready {
				lower = cases.Lower(language.Und)
				ready = true
			}
			for _, lr := range lower.String(string(r)) {
				if lr == r {
					continue
				}
				rec.register(lr, pos)
			}
		}
	}

	return rec
}

// register appends pos under r unless it is already the last entry. A fold
// may yield the same rune twice (or a rune already registered at pos).
func (rec *Record) register(r rune, pos int) {
	list := rec.index[r]
	if n := len(list); n > 0 && list[n-1] == pos {
		return
	}
	rec.index[r] = append(list, pos)
}

// heatState is the running fold over the normalized runes of a line.
type heatState struct {
	separatorScore float64
	classScore     float64
	lastClass      charclass.Class // charclass.First before the first rune
	classChange    bool            // a transition boost was applied to the current run
	seenNonSpace   bool
}

// step consumes r and returns its heat.
func (st *heatState) step(r rune, cfg *config.Scoring) float64 {
	cur := charclass.Classify(r)

	if !st.seenNonSpace && !unicode.IsSpace(r) {
		st.classScore += cfg.FirstFactor
		st.seenNonSpace = true
	}

	if cur == charclass.Separator {
		st.separatorScore = cfg.SeparatorFactor
	} else {
		if st.lastClass == charclass.Separator {
			st.classScore += cfg.AfterSeparatorBoost
		}
		if cur != st.lastClass {
			if !st.classChange {
				st.classScore += cfg.ClassFactor
				st.classChange = true
			}
		} else {
			st.classChange = false
		}
	}
	st.lastClass = cur

	heat := st.separatorScore + st.classScore

	st.separatorScore *= cfg.SeparatorReduce
	if !st.classChange {
		st.classScore *= cfg.ClassReduce
	}
	return heat
}

// Raw returns the line exactly as supplied by the caller.
func (rec *Record) Raw() string { return rec.raw }

// Text returns the NFKC normalized line, including runes past MaxLen.
func (rec *Record) Text() string { return rec.text }

// Runes returns the indexed runes. The slice must not be modified.
func (rec *Record) Runes() []rune { return rec.runes }

// Len returns the number of indexed positions.
func (rec *Record) Len() int { return len(rec.heat) }

// Positions returns the ascending positions registered for r.
// The slice must not be modified.
func (rec *Record) Positions(r rune) ([]int, bool) {
	list, ok := rec.index[r]
	return list, ok
}

// Heat returns the heat at pos.
func (rec *Record) Heat(pos int) float64 { return rec.heat[pos] }

// HeatProfile returns a copy of the heat profile.
func (rec *Record) HeatProfile() []float64 {
	out := make([]float64, len(rec.heat))
	copy(out, rec.heat)
	return out
}

// Keys returns the number of distinct indexed runes.
func (rec *Record) Keys() int { return len(rec.index) }

// Fingerprint is the xxhash of the normalized text.
func (rec *Record) Fingerprint() uint64 { return rec.fingerprint }

// Factor returns the tie-break factor.
func (rec *Record) Factor() float64 {
	return math.Float64frombits(rec.factor.Load())
}

// SetFactor replaces the tie-break factor without re-indexing. Queries that
// start after SetFactor returns observe the new value.
func (rec *Record) SetFactor(factor float64) {
	rec.factor.Store(math.Float64bits(factor))
	rec.version.Add(1)
}

// Version counts factor updates. Result caches use it to detect staleness.
func (rec *Record) Version() uint64 { return rec.version.Load() }

// NormalizeQuery NFKC normalizes q and drops whitespace.
func NormalizeQuery(q string) []rune {
	composed := norm.NFKC.String(q)
	out := make([]rune, 0, len(composed))
	for _, r := range composed {
		if unicode.IsSpace(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}
