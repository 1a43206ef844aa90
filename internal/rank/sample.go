package rank

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"sort"

	"github.com/nao1215/pagerank/internal/graph"
	"golang.org/x/sync/errgroup"
)

// cancelCheckInterval is how many walk steps run between context checks.
const cancelCheckInterval = 4096

// chainSeedStep spreads per-chain seeds apart (the 64-bit golden ratio).
const chainSeedStep = 0x9e3779b97f4a7c15

// sampleConfig holds the options of Sample and SampleChains.
type sampleConfig struct {
	seed              uint64
	seeded            bool
	originalWeighting bool
	concurrency       int
	logger            *slog.Logger
}

// SampleOption configures Sample and SampleChains.
type SampleOption func(*sampleConfig)

// WithSeed pins the random sequence so that repeated calls with the same
// graph, damping factor and sample count return identical ranks.
func WithSeed(seed uint64) SampleOption {
	return func(c *sampleConfig) {
		c.seed = seed
		c.seeded = true
	}
}

// WithOriginalWeighting leaves the randomly chosen start page of each walk
// uncounted, so only the n-1 drawn pages contribute 1/n each and the ranks
// sum to (n-1)/n. By default the start page is counted as a visit too.
func WithOriginalWeighting() SampleOption {
	return func(c *sampleConfig) {
		c.originalWeighting = true
	}
}

// WithConcurrency limits how many chains SampleChains runs at once.
// The default is runtime.GOMAXPROCS(0).
func WithConcurrency(n int) SampleOption {
	return func(c *sampleConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithSampleLogger sets the logger used for debug output.
func WithSampleLogger(logger *slog.Logger) SampleOption {
	return func(c *sampleConfig) {
		c.logger = logger
	}
}

func newSampleConfig(opts []SampleOption) *sampleConfig {
	c := &sampleConfig{
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.seeded {
		c.seed = rand.Uint64()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Sample estimates PageRank by walking n pages of the graph as a random
// surfer and returning the fraction of visits each page received.
//
// The walk starts on a uniformly random page and takes n-1 steps, each
// drawn from Transition of the current page. Every visit is worth 1/n.
// The result is stochastic; pass WithSeed for a reproducible walk.
func Sample(ctx context.Context, g *graph.Graph, damping float64, n int, opts ...SampleOption) (Ranks, error) {
	if err := checkInputs(g, damping); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleCount, n)
	}

	cfg := newSampleConfig(opts)
	w := newWalker(g, damping)

	counts, err := w.walk(ctx, n, cfg.seed, !cfg.originalWeighting)
	if err != nil {
		return nil, err
	}

	cfg.logger.Debug("sampling complete",
		"pages", g.Len(),
		"samples", n,
		"seed", cfg.seed,
	)

	return w.ranks(counts, n), nil
}

// SampleChains runs chains independent walks in parallel and combines
// their visit counts. The n samples are split as evenly as possible across
// chains; a chain count larger than n is reduced to n.
//
// Chain i is seeded from the base seed and i, so a fixed WithSeed still
// gives a reproducible result regardless of scheduling.
func SampleChains(ctx context.Context, g *graph.Graph, damping float64, n, chains int, opts ...SampleOption) (Ranks, error) {
	if err := checkInputs(g, damping); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSampleCount, n)
	}
	if chains < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChains, chains)
	}
	chains = min(chains, n)

	cfg := newSampleConfig(opts)
	w := newWalker(g, damping)

	// Each chain writes only its own slot, so no locking is needed.
	results := make([][]int, chains)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.concurrency)

	for i := range chains {
		size := n / chains
		if i < n%chains {
			size++
		}
		seed := cfg.seed + uint64(i)*chainSeedStep

		eg.Go(func() error {
			counts, err := w.walk(ctx, size, seed, !cfg.originalWeighting)
			if err != nil {
				return err
			}
			results[i] = counts
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	total := make([]int, g.Len())
	for _, counts := range results {
		for i, c := range counts {
			total[i] += c
		}
	}

	cfg.logger.Debug("chain sampling complete",
		"pages", g.Len(),
		"samples", n,
		"chains", chains,
		"seed", cfg.seed,
	)

	return w.ranks(total, n), nil
}

// walker holds the read-only tables used by a random walk. It is safe to
// share between goroutines once built.
type walker struct {
	pages []graph.Page

	// cumulative[i][j] is the probability of moving from page i to any of
	// pages 0..j.
	cumulative [][]float64
}

// newWalker precomputes the cumulative transition table of every page.
// The graph cannot change during a walk, so each distribution is built
// once instead of once per step.
func newWalker(g *graph.Graph, damping float64) *walker {
	pages := g.Pages()
	w := &walker{
		pages:      pages,
		cumulative: make([][]float64, len(pages)),
	}

	for i, page := range pages {
		dist := transition(g, page, damping)
		row := make([]float64, len(pages))
		var acc float64
		for j, p := range pages {
			acc += dist[p]
			row[j] = acc
		}
		w.cumulative[i] = row
	}
	return w
}

// walk performs one random walk of n samples and returns the visit count
// of every page, indexed like w.pages.
func (w *walker) walk(ctx context.Context, n int, seed uint64, countStart bool) ([]int, error) {
	rng := rand.New(rand.NewPCG(seed, seed^chainSeedStep))
	counts := make([]int, len(w.pages))

	current := rng.IntN(len(w.pages))
	if countStart {
		counts[current]++
	}

	for step := 1; step < n; step++ {
		if step%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		current = w.next(rng, current)
		counts[current]++
	}
	return counts, nil
}

// next draws the page that follows current.
func (w *walker) next(rng *rand.Rand, current int) int {
	row := w.cumulative[current]
	// Scaling by the last entry absorbs rounding so the row need not end
	// at exactly 1.
	r := rng.Float64() * row[len(row)-1]
	return sort.Search(len(row), func(j int) bool {
		return row[j] > r
	})
}

// ranks converts visit counts into ranks worth 1/n per visit.
func (w *walker) ranks(counts []int, n int) Ranks {
	out := make(Ranks, len(w.pages))
	for i, page := range w.pages {
		out[page] = float64(counts[i]) / float64(n)
	}
	return out
}
