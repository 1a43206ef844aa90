package rank

import (
	"math"
	"testing"

	"github.com/nao1215/pagerank/internal/graph"
)

// Test graphs shared across the package tests.
var (
	// threePage is A -> B, B -> {A, C}, C -> A.
	threePage = map[graph.Page][]graph.Page{
		"A": {"B"},
		"B": {"A", "C"},
		"C": {"A"},
	}

	// withSink has D as a sink that nothing links to.
	withSink = map[graph.Page][]graph.Page{
		"A": {"B", "C"},
		"B": {"C"},
		"C": {"A"},
		"D": nil,
	}

	// corpus0 mirrors the four-page example corpus.
	corpus0 = map[graph.Page][]graph.Page{
		"1.html": {"2.html"},
		"2.html": {"1.html", "3.html"},
		"3.html": {"2.html", "4.html"},
		"4.html": {"2.html"},
	}
)

// solvePageRank solves (I - d*M) x = (1-d)/N directly by Gaussian
// elimination, where M is the column-stochastic link matrix with sinks
// linking to every page.
func solvePageRank(t *testing.T, g *graph.Graph, damping float64) Ranks {
	t.Helper()

	pages := g.Pages()
	n := len(pages)
	index := make(map[graph.Page]int, n)
	for i, p := range pages {
		index[p] = i
	}

	// Augmented matrix [A | b].
	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n+1)
		a[i][i] = 1
		a[i][n] = (1 - damping) / float64(n)
	}
	for _, q := range pages {
		links := g.Links(q)
		if len(links) == 0 {
			for i := range n {
				a[i][index[q]] -= damping / float64(n)
			}
			continue
		}
		for _, p := range links {
			a[index[p]][index[q]] -= damping / float64(len(links))
		}
	}

	for col := range n {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		a[col], a[pivot] = a[pivot], a[col]
		for row := range n {
			if row == col {
				continue
			}
			f := a[row][col] / a[col][col]
			for k := col; k <= n; k++ {
				a[row][k] -= f * a[col][k]
			}
		}
	}

	x := make([]float64, n)
	var total float64
	for i := range n {
		x[i] = a[i][n] / a[i][i]
		total += x[i]
	}

	out := make(Ranks, n)
	for i, p := range pages {
		out[p] = x[i] / total
	}
	return out
}

// assertSum fails the test if values do not sum to want within tolerance.
func assertSum(t *testing.T, got, want, tolerance float64) {
	t.Helper()
	if math.Abs(got-want) > tolerance {
		t.Errorf("sum = %.12f, want %.12f (tolerance %g)", got, want, tolerance)
	}
}
