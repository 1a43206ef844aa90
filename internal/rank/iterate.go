package rank

import (
	"context"
	"log/slog"
	"math"

	"github.com/nao1215/pagerank/internal/graph"
)

const (
	// DefaultThreshold is the largest per-page change that still counts
	// as converged.
	DefaultThreshold = 1e-3

	// DefaultMaxIterations caps the number of relaxation passes.
	DefaultMaxIterations = 10000
)

// State is a phase of the iterative estimator.
type State int

const (
	// StateInitializing is reported once, before the first pass.
	StateInitializing State = iota
	// StateRelaxing is reported after every pass that did not converge.
	StateRelaxing
	// StateConverged is reported after the final, converged pass.
	StateConverged
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRelaxing:
		return "relaxing"
	case StateConverged:
		return "converged"
	default:
		return "unknown"
	}
}

// Pass describes one step of the iterative estimator.
type Pass struct {
	// Number is 0 for the initial state and counts passes from 1.
	Number int

	// MaxDelta is the largest absolute rank change of any page in this
	// pass. It is zero for the initial state.
	MaxDelta float64

	// State is the estimator state after this pass.
	State State
}

type iterateConfig struct {
	threshold     float64
	maxIterations int
	observer      func(Pass)
	logger        *slog.Logger
}

// IterateOption configures Iterate.
type IterateOption func(*iterateConfig)

// WithThreshold sets the convergence threshold. Non-positive values are
// ignored.
func WithThreshold(threshold float64) IterateOption {
	return func(c *iterateConfig) {
		if threshold > 0 {
			c.threshold = threshold
		}
	}
}

// WithMaxIterations caps the number of relaxation passes. Non-positive
// values are ignored.
func WithMaxIterations(n int) IterateOption {
	return func(c *iterateConfig) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithObserver registers fn to be called with the initial state and after
// every pass. fn runs on the calling goroutine.
func WithObserver(fn func(Pass)) IterateOption {
	return func(c *iterateConfig) {
		c.observer = fn
	}
}

// WithIterateLogger sets the logger used for debug output.
func WithIterateLogger(logger *slog.Logger) IterateOption {
	return func(c *iterateConfig) {
		c.logger = logger
	}
}

// Iterate computes PageRank by relaxation:
//
//	PR(p) = (1-d)/N + d * Σ PR(q)/L(q)
//
// summed over the pages q linking to p, where L(q) is q's out-degree. A
// sink spreads its rank evenly over all N pages. Every pass starts from the
// previous pass's ranks and is renormalized to sum to 1. Iteration stops
// once no page changes by DefaultThreshold (or WithThreshold) or more.
//
// If the pass limit is reached first, Iterate returns the last ranks and a
// *NotConvergedError. The result is deterministic.
func Iterate(ctx context.Context, g *graph.Graph, damping float64, opts ...IterateOption) (Ranks, error) {
	if err := checkInputs(g, damping); err != nil {
		return nil, err
	}

	cfg := &iterateConfig{
		threshold:     DefaultThreshold,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	observe := func(p Pass) {
		if cfg.observer != nil {
			cfg.observer(p)
		}
	}

	pages := g.Pages()
	n := len(pages)
	index := make(map[graph.Page]int, n)
	for i, p := range pages {
		index[p] = i
	}

	// inbound[i] lists the pages linking to page i; sinks are kept apart
	// because they link to every page.
	inbound := make([][]int, n)
	outDegree := make([]float64, n)
	var sinks []int
	for i, p := range pages {
		links := g.Links(p)
		if len(links) == 0 {
			sinks = append(sinks, i)
			continue
		}
		outDegree[i] = float64(len(links))
		for _, target := range links {
			inbound[index[target]] = append(inbound[index[target]], i)
		}
	}

	teleport := (1 - damping) / float64(n)
	initial := teleport
	if initial == 0 {
		// With damping 1 the teleport share is zero and would leave no
		// mass to renormalize; start from the uniform distribution.
		initial = 1 / float64(n)
	}

	prev := make([]float64, n)
	next := make([]float64, n)
	for i := range prev {
		prev[i] = initial
	}
	observe(Pass{Number: 0, State: StateInitializing})

	var delta float64
	for pass := 1; pass <= cfg.maxIterations; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var sinkMass float64
		for _, s := range sinks {
			sinkMass += prev[s]
		}
		base := teleport + damping*sinkMass/float64(n)

		var total float64
		for i := range next {
			r := base
			for _, q := range inbound[i] {
				r += damping * prev[q] / outDegree[q]
			}
			next[i] = r
			total += r
		}

		delta = 0
		for i := range next {
			next[i] /= total
			delta = math.Max(delta, math.Abs(next[i]-prev[i]))
		}

		if delta < cfg.threshold {
			observe(Pass{Number: pass, MaxDelta: delta, State: StateConverged})
			cfg.logger.Debug("iteration converged",
				"pages", n,
				"passes", pass,
				"maxDelta", delta,
			)
			return toRanks(pages, next), nil
		}

		observe(Pass{Number: pass, MaxDelta: delta, State: StateRelaxing})
		prev, next = next, prev
	}

	cfg.logger.Warn("iteration stopped before convergence",
		"passes", cfg.maxIterations,
		"maxDelta", delta,
		"threshold", cfg.threshold,
	)
	return toRanks(pages, prev), &NotConvergedError{
		Passes:    cfg.maxIterations,
		MaxDelta:  delta,
		Threshold: cfg.threshold,
	}
}

func toRanks(pages []graph.Page, values []float64) Ranks {
	out := make(Ranks, len(pages))
	for i, p := range pages {
		out[p] = values[i]
	}
	return out
}
