package rank

import (
	"cmp"
	"slices"

	"github.com/nao1215/pagerank/internal/graph"
)

// Distribution is the probability of visiting each page next.
// It always holds an entry for every page of the graph.
type Distribution map[graph.Page]float64

// Ranks maps every page of the graph to its estimated PageRank.
type Ranks map[graph.Page]float64

// Entry is a single page and its rank.
type Entry struct {
	Page graph.Page
	Rank float64
}

// Sum returns the total of all values.
func (d Distribution) Sum() float64 {
	return sum(d)
}

// Sum returns the total rank across all pages.
func (r Ranks) Sum() float64 {
	return sum(r)
}

// Sorted returns the entries ordered by page name.
func (r Ranks) Sorted() []Entry {
	entries := r.entries()
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Page, b.Page)
	})
	return entries
}

// ByRank returns the entries ordered from highest to lowest rank.
// Pages with equal rank are ordered by name.
func (r Ranks) ByRank() []Entry {
	entries := r.entries()
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Rank, a.Rank); c != 0 {
			return c
		}
		return cmp.Compare(a.Page, b.Page)
	})
	return entries
}

func (r Ranks) entries() []Entry {
	entries := make([]Entry, 0, len(r))
	for page, value := range r {
		entries = append(entries, Entry{Page: page, Rank: value})
	}
	return entries
}

// sum adds values in key order so the result does not depend on map
// iteration order.
func sum[M ~map[graph.Page]float64](m M) float64 {
	keys := make([]graph.Page, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var total float64
	for _, k := range keys {
		total += m[k]
	}
	return total
}
