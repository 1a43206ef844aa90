// Package graph defines the directed page graph that both PageRank
// estimators operate on.
//
// A Graph maps every Page to the set of Pages it links to. Graphs are built
// once (usually by the corpus loader) and never mutated afterwards, so a
// single *Graph can be shared by any number of concurrent readers without
// locking.
//
// The loader guarantees that the graph is closed: every link target is
// itself a page of the graph. Validate reports a *MalformedGraphError when
// that guarantee has been broken by a hand-built graph.
package graph
