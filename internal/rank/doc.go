// Package rank estimates PageRank values on a graph.Graph.
//
// Two estimators are provided and both share a single transition model:
//
//   - Sample runs a random-surfer walk and ranks pages by visit frequency.
//     SampleChains splits the walk into independent chains run in parallel.
//   - Iterate solves the PageRank equations by repeated relaxation until no
//     page moves by more than a threshold between passes.
//
// A sink (a page with no outbound links) is treated as linking to every
// page. Transition encodes that rule and Iterate applies the same rule when
// redistributing rank, so total rank is conserved by both estimators.
//
// # Usage
//
//	g := graph.New(map[graph.Page][]graph.Page{"a": {"b"}, "b": {"a", "c"}, "c": {"a"}})
//
//	sampled, err := rank.Sample(ctx, g, 0.85, 10000, rank.WithSeed(42))
//	iterated, err := rank.Iterate(ctx, g, 0.85)
//
// Estimators never modify the graph, so one graph can be ranked from
// several goroutines at once.
package rank
