package rank

import (
	"errors"
	"math"
	"testing"

	"github.com/nao1215/pagerank/internal/graph"
)

func TestTransition(t *testing.T) {
	t.Parallel()

	t.Run("corpus0 page 1", func(t *testing.T) {
		t.Parallel()

		g := graph.New(corpus0)
		dist, err := Transition(g, "1.html", 0.85)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := Distribution{
			"1.html": 0.0375,
			"2.html": 0.8875,
			"3.html": 0.0375,
			"4.html": 0.0375,
		}
		for page, p := range want {
			if math.Abs(dist[page]-p) > 1e-12 {
				t.Errorf("dist[%s] = %v, want %v", page, dist[page], p)
			}
		}
	})

	t.Run("page with two links", func(t *testing.T) {
		t.Parallel()

		g := graph.New(corpus0)
		dist, err := Transition(g, "2.html", 0.85)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(dist["1.html"]-0.4625) > 1e-12 {
			t.Errorf("dist[1.html] = %v, want 0.4625", dist["1.html"])
		}
		if math.Abs(dist["2.html"]-0.0375) > 1e-12 {
			t.Errorf("dist[2.html] = %v, want 0.0375", dist["2.html"])
		}
	})

	t.Run("sink is uniform", func(t *testing.T) {
		t.Parallel()

		g := graph.New(withSink)
		dist, err := Transition(g, "D", 0.85)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, page := range g.Pages() {
			if math.Abs(dist[page]-0.25) > 1e-12 {
				t.Errorf("dist[%s] = %v, want 0.25", page, dist[page])
			}
		}
	})

	t.Run("single isolated page", func(t *testing.T) {
		t.Parallel()

		g := graph.New(map[graph.Page][]graph.Page{"A": nil})
		dist, err := Transition(g, "A", 0.85)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dist["A"] != 1 {
			t.Errorf("dist[A] = %v, want 1", dist["A"])
		}
	})

	t.Run("zero damping is uniform", func(t *testing.T) {
		t.Parallel()

		g := graph.New(corpus0)
		dist, err := Transition(g, "3.html", 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, page := range g.Pages() {
			if dist[page] != 0.25 {
				t.Errorf("dist[%s] = %v, want 0.25", page, dist[page])
			}
		}
	})

	t.Run("full damping follows links only", func(t *testing.T) {
		t.Parallel()

		g := graph.New(threePage)
		dist, err := Transition(g, "B", 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dist["A"] != 0.5 || dist["C"] != 0.5 || dist["B"] != 0 {
			t.Errorf("unexpected distribution %v", dist)
		}
	})

	t.Run("does not modify the graph", func(t *testing.T) {
		t.Parallel()

		g := graph.New(threePage)
		before := g.Digest()
		for _, page := range g.Pages() {
			if _, err := Transition(g, page, 0.85); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if g.Digest() != before {
			t.Error("graph changed after Transition")
		}
	})
}

// TestTransitionSumsToOne checks every page of several graphs over a range
// of damping factors.
func TestTransitionSumsToOne(t *testing.T) {
	t.Parallel()

	graphs := map[string]map[graph.Page][]graph.Page{
		"three page": threePage,
		"with sink":  withSink,
		"corpus0":    corpus0,
		"isolated":   {"A": nil},
	}
	dampings := []float64{0, 0.1, 0.5, 0.85, 0.99}

	for name, adjacency := range graphs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			g := graph.New(adjacency)
			for _, d := range dampings {
				for _, page := range g.Pages() {
					dist, err := Transition(g, page, d)
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					if len(dist) != g.Len() {
						t.Errorf("distribution has %d entries, want %d", len(dist), g.Len())
					}
					assertSum(t, dist.Sum(), 1, 1e-9)
					for p, v := range dist {
						if v < 0 {
							t.Errorf("negative probability %v for %s", v, p)
						}
					}
				}
			}
		})
	}
}

func TestTransitionErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		graph   *graph.Graph
		page    graph.Page
		damping float64
		wantErr error
	}{
		{
			name:    "unknown page",
			graph:   graph.New(threePage),
			page:    "Z",
			damping: 0.85,
			wantErr: graph.ErrUnknownPage,
		},
		{
			name:    "empty graph",
			graph:   graph.New(nil),
			page:    "A",
			damping: 0.85,
			wantErr: graph.ErrEmptyGraph,
		},
		{
			name:    "nil graph",
			graph:   nil,
			page:    "A",
			damping: 0.85,
			wantErr: graph.ErrEmptyGraph,
		},
		{
			name:    "negative damping",
			graph:   graph.New(threePage),
			page:    "A",
			damping: -0.1,
			wantErr: ErrInvalidDamping,
		},
		{
			name:    "damping above one",
			graph:   graph.New(threePage),
			page:    "A",
			damping: 1.5,
			wantErr: ErrInvalidDamping,
		},
		{
			name:    "NaN damping",
			graph:   graph.New(threePage),
			page:    "A",
			damping: math.NaN(),
			wantErr: ErrInvalidDamping,
		},
		{
			name:    "malformed graph",
			graph:   graph.New(map[graph.Page][]graph.Page{"A": {"missing"}}),
			page:    "A",
			damping: 0.85,
			wantErr: graph.ErrMalformedGraph,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dist, err := Transition(tt.graph, tt.page, tt.damping)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if dist != nil {
				t.Errorf("expected nil distribution on error, got %v", dist)
			}
		})
	}

	t.Run("unknown page error names the page", func(t *testing.T) {
		t.Parallel()

		_, err := Transition(graph.New(threePage), "Z", 0.85)
		var unknown *graph.UnknownPageError
		if !errors.As(err, &unknown) {
			t.Fatalf("expected *graph.UnknownPageError, got %T", err)
		}
		if unknown.Page != "Z" {
			t.Errorf("expected page Z, got %q", unknown.Page)
		}
	})
}
