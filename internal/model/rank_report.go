package model

import (
	"math"
	"time"

	"github.com/nao1215/pagerank/internal/graph"
	"github.com/nao1215/pagerank/internal/rank"
)

// RankReport is the result of ranking one corpus with both estimators.
// It is what the report writers print and what the history database stores.
type RankReport struct {
	// ID is the history database row ID. Zero until the run is saved.
	ID int64 `json:"id,omitempty"`

	// Corpus is the directory the pages were loaded from.
	Corpus string `json:"corpus"`

	// Digest identifies the link graph. Two runs with the same digest
	// ranked the same graph.
	Digest string `json:"digest"`

	// Pages is the number of pages in the graph.
	Pages int `json:"pages"`

	// Parameters are the estimator settings of the run.
	Parameters Parameters `json:"parameters"`

	// Sampling holds the ranks of the sampling estimator, sorted by page.
	Sampling []RankEntry `json:"sampling"`

	// Iteration holds the ranks of the iterative estimator, sorted by page.
	Iteration []RankEntry `json:"iteration"`

	// Passes is the number of relaxation passes the iterative estimator ran.
	Passes int `json:"passes"`

	// Converged is false when the iterative estimator stopped at its cap.
	Converged bool `json:"converged"`

	// GeneratedAt is when the run finished.
	GeneratedAt time.Time `json:"generated_at"`
}

// Parameters are the estimator settings a report was produced with.
type Parameters struct {
	Damping       float64 `json:"damping"`
	Samples       int     `json:"samples"`
	Chains        int     `json:"chains"`
	Seed          uint64  `json:"seed"`
	ExcludeStart  bool    `json:"exclude_start"`
	Threshold     float64 `json:"threshold"`
	MaxIterations int     `json:"max_iterations"`
}

// RankEntry is the rank of one page.
type RankEntry struct {
	Page string  `json:"page"`
	Rank float64 `json:"rank"`
}

// NewRankReport creates a report for the given corpus and graph.
// Ranks are filled in with SetSampling and SetIteration.
func NewRankReport(corpus string, g *graph.Graph, params Parameters) *RankReport {
	return &RankReport{
		Corpus:      corpus,
		Digest:      g.Digest(),
		Pages:       g.Len(),
		Parameters:  params,
		Sampling:    make([]RankEntry, 0),
		Iteration:   make([]RankEntry, 0),
		GeneratedAt: time.Now(),
	}
}

// SetSampling stores the ranks of the sampling estimator.
func (r *RankReport) SetSampling(ranks rank.Ranks) {
	r.Sampling = Entries(ranks)
}

// SetIteration stores the ranks of the iterative estimator and how it ended.
func (r *RankReport) SetIteration(ranks rank.Ranks, passes int, converged bool) {
	r.Iteration = Entries(ranks)
	r.Passes = passes
	r.Converged = converged
}

// Entries converts ranks to entries sorted by page name.
func Entries(ranks rank.Ranks) []RankEntry {
	sorted := ranks.Sorted()
	entries := make([]RankEntry, len(sorted))
	for i, e := range sorted {
		entries[i] = RankEntry{Page: string(e.Page), Rank: e.Rank}
	}
	return entries
}

// MaxDifference returns the largest absolute difference between the two
// estimates of the same page. Pages missing from either side are skipped.
func (r *RankReport) MaxDifference() float64 {
	iterated := make(map[string]float64, len(r.Iteration))
	for _, e := range r.Iteration {
		iterated[e.Page] = e.Rank
	}

	var maxDiff float64
	for _, e := range r.Sampling {
		v, ok := iterated[e.Page]
		if !ok {
			continue
		}
		maxDiff = math.Max(maxDiff, math.Abs(e.Rank-v))
	}
	return maxDiff
}
