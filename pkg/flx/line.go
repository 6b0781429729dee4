package flx

import (
	"github.com/standardbeagle/flx/internal/config"
	"github.com/standardbeagle/flx/internal/lineindex"
	"github.com/standardbeagle/flx/internal/match"
)

// Line is an indexed line. Its factor breaks ties between equally scored
// matches and may be changed at any time, including while a corpus that
// holds the line is being queried.
type Line struct {
	rec     *lineindex.Record
	scoring config.Scoring
}

// Alignment is the best placement of a pattern on a line.
type Alignment struct {
	Score     float64
	Positions []int // rune offsets into Text()
}

// NewLine indexes text with factor 0 and the reference weights.
func NewLine(text string) *Line {
	return NewLineWithFactor(text, 0)
}

// NewLineWithFactor indexes text with the given factor.
func NewLineWithFactor(text string, factor float64, opts ...Option) *Line {
	o := buildOptions(opts)
	return &Line{rec: lineindex.Build(text, factor, o.cfg.Scoring), scoring: o.cfg.Scoring}
}

// Text returns the normalized line.
func (l *Line) Text() string { return l.rec.Text() }

// Raw returns the line as it was given.
func (l *Line) Raw() string { return l.rec.Raw() }

// Factor returns the tie-break factor added to every score of the line.
func (l *Line) Factor() float64 { return l.rec.Factor() }

// SetFactor changes the tie-break factor. Queries that start afterwards
// see the new value.
func (l *Line) SetFactor(f float64) { l.rec.SetFactor(f) }

// Heat returns the per-rune heat profile of the indexed prefix.
func (l *Line) Heat() []float64 { return l.rec.HeatProfile() }

// Align finds the best placement of pattern on the line.
func (l *Line) Align(pattern string) (Alignment, bool) {
	res, ok := match.Best(l.rec, lineindex.NormalizeQuery(pattern), l.scoring)
	if !ok {
		return Alignment{}, false
	}
	return Alignment{Score: res.Score, Positions: res.Positions}, true
}
