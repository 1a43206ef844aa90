package rank

import (
	"fmt"
	"math"

	"github.com/nao1215/pagerank/internal/graph"
)

// Transition returns the probability distribution over the next page for a
// random surfer currently on page.
//
// With probability damping the surfer follows one of page's links, chosen
// uniformly; otherwise it jumps to any page of the graph. A sink behaves as
// if it linked to every page, which makes its distribution uniform.
func Transition(g *graph.Graph, page graph.Page, damping float64) (Distribution, error) {
	if err := checkInputs(g, damping); err != nil {
		return nil, err
	}
	if !g.Has(page) {
		return nil, &graph.UnknownPageError{Page: page}
	}
	return transition(g, page, damping), nil
}

// transition builds the distribution without validating its inputs.
func transition(g *graph.Graph, page graph.Page, damping float64) Distribution {
	n := float64(g.Len())
	dist := make(Distribution, g.Len())

	if g.IsSink(page) {
		for _, p := range g.Pages() {
			dist[p] = 1 / n
		}
		return dist
	}

	teleport := (1 - damping) / n
	follow := damping / float64(g.OutDegree(page))
	for _, p := range g.Pages() {
		dist[p] = teleport
	}
	for _, p := range g.Links(page) {
		dist[p] += follow
	}
	return dist
}

// checkInputs validates the arguments shared by every estimator.
func checkInputs(g *graph.Graph, damping float64) error {
	if g == nil || g.Len() == 0 {
		return graph.ErrEmptyGraph
	}
	if math.IsNaN(damping) || damping < 0 || damping > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidDamping, damping)
	}
	return g.Validate()
}
