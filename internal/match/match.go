// Package match finds the best alignment of a query against an indexed line.
//
// A line matches when every query rune occurs in it in order. Among all
// strictly increasing position assignments the matcher returns the one with
// the highest score, enumerating them exhaustively: the scoring function
// rewards both heat and compactness, so no greedy choice is safe. The cost is
// the product of per-rune occurrence counts, which stays small for
// interactive queries over lines capped at MaxLen runes.
package match

import (
	"sort"

	"github.com/standardbeagle/flx/internal/config"
	"github.com/standardbeagle/flx/internal/lineindex"
)

// Result is the best alignment of a query against a line.
type Result struct {
	Score     float64
	Factor    float64 // the line factor the score was computed with
	Positions []int   // one ascending rune position per query rune
}

// Best returns the highest scoring alignment of query against rec.
// ok is false when the line does not contain the query as a subsequence,
// including the degenerate empty-query and empty-line cases.
func Best(rec *lineindex.Record, query []rune, w config.Scoring) (Result, bool) {
	m, ok := newMatcher(rec, query, w)
	if !ok {
		return Result{}, false
	}

	m.search(0)
	if !m.found {
		return Result{}, false
	}
	return Result{Score: m.bestScore, Factor: m.factor, Positions: m.best}, true
}

// Score is Best without the positions.
func Score(rec *lineindex.Record, query []rune, w config.Scoring) (float64, bool) {
	res, ok := Best(rec, query, w)
	return res.Score, ok
}

// ScorePositions scores one alignment:
//
//	avgGap*DistWeight + sum(heat[p])*HeatWeight + factor*FactorWeight
//
// where avgGap is the mean distance between consecutive positions
// (0 for fewer than two).
func ScorePositions(rec *lineindex.Record, positions []int, w config.Scoring) float64 {
	return scoreAlignment(rec, positions, rec.Factor(), &w)
}

func scoreAlignment(rec *lineindex.Record, positions []int, factor float64, w *config.Scoring) float64 {
	var avgGap float64
	if n := len(positions); n >= 2 {
		// consecutive differences telescope to last - first
		avgGap = float64(positions[n-1]-positions[0]) / float64(n-1)
	}

	var heatSum float64
	for _, p := range positions {
		heatSum += rec.Heat(p)
	}

	return avgGap*w.DistWeight + heatSum*w.HeatWeight + factor*w.FactorWeight
}

type matcher struct {
	rec    *lineindex.Record
	w      *config.Scoring
	factor float64
	lists  [][]int

	positions []int
	best      []int
	bestScore float64
	found     bool
}

func newMatcher(rec *lineindex.Record, query []rune, w config.Scoring) (*matcher, bool) {
	if len(query) == 0 || rec.Len() == 0 {
		return nil, false
	}

	lists := make([][]int, len(query))
	for i, r := range query {
		list, ok := rec.Positions(r)
		if !ok {
			return nil, false
		}
		lists[i] = list
	}

	return &matcher{
		rec:       rec,
		w:         &w,
		factor:    rec.Factor(),
		lists:     lists,
		positions: make([]int, len(query)),
	}, true
}

// search assigns a position to query rune idx and recurses. Every complete
// assignment is scored; the first one seen wins ties.
func (m *matcher) search(idx int) {
	if idx == len(m.lists) {
		score := scoreAlignment(m.rec, m.positions, m.factor, m.w)
		if !m.found || score > m.bestScore {
			m.bestScore = score
			m.best = append(m.best[:0], m.positions...)
			m.found = true
		}
		return
	}

	list := m.lists[idx]
	start := 0
	if idx > 0 {
		// positions must strictly increase; lists are ascending
		start = sort.SearchInts(list, m.positions[idx-1]+1)
	}
	for _, p := range list[start:] {
		m.positions[idx] = p
		m.search(idx + 1)
	}
}
