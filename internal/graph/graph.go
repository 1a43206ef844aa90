package graph

import (
	"encoding/hex"
	"slices"

	"golang.org/x/crypto/sha3"
)

// Page identifies a page of the corpus. The ranking code never inspects
// its contents; it is only compared and used as a map key.
type Page string

// Graph is an immutable directed graph of pages.
type Graph struct {
	// links holds the outbound link set of every page.
	links map[Page]map[Page]struct{}

	// pages is the sorted list of all pages.
	pages []Page

	// sorted holds each page's links in sorted order.
	sorted map[Page][]Page
}

// New builds a Graph from an adjacency list.
//
// The input is copied, so later changes to adjacency do not affect the
// Graph. Duplicate targets collapse into one link and self-links are
// dropped. Targets that are not keys of adjacency are kept as they are;
// use Validate to detect them.
func New(adjacency map[Page][]Page) *Graph {
	g := &Graph{
		links:  make(map[Page]map[Page]struct{}, len(adjacency)),
		pages:  make([]Page, 0, len(adjacency)),
		sorted: make(map[Page][]Page, len(adjacency)),
	}

	for page, targets := range adjacency {
		set := make(map[Page]struct{}, len(targets))
		for _, target := range targets {
			if target == page {
				continue
			}
			set[target] = struct{}{}
		}
		g.links[page] = set
		g.pages = append(g.pages, page)

		out := make([]Page, 0, len(set))
		for target := range set {
			out = append(out, target)
		}
		slices.Sort(out)
		g.sorted[page] = out
	}
	slices.Sort(g.pages)

	return g
}

// Len returns the number of pages in the graph.
func (g *Graph) Len() int {
	return len(g.pages)
}

// Pages returns all pages in ascending order.
// The returned slice is a copy and may be modified by the caller.
func (g *Graph) Pages() []Page {
	return slices.Clone(g.pages)
}

// Has reports whether page is part of the graph.
func (g *Graph) Has(page Page) bool {
	_, ok := g.links[page]
	return ok
}

// Links returns the pages linked to by page, in ascending order.
// It returns nil for sinks and for pages not in the graph.
func (g *Graph) Links(page Page) []Page {
	out := g.sorted[page]
	if len(out) == 0 {
		return nil
	}
	return slices.Clone(out)
}

// LinksTo reports whether from has an outbound link to to.
func (g *Graph) LinksTo(from, to Page) bool {
	_, ok := g.links[from][to]
	return ok
}

// OutDegree returns the number of outbound links of page.
func (g *Graph) OutDegree(page Page) int {
	return len(g.links[page])
}

// IsSink reports whether page is in the graph and has no outbound links.
func (g *Graph) IsSink(page Page) bool {
	links, ok := g.links[page]
	return ok && len(links) == 0
}

// Validate checks that every link target is a page of the graph.
// The first dangling link found, in page order, is returned as a
// *MalformedGraphError.
func (g *Graph) Validate() error {
	for _, page := range g.pages {
		for _, target := range g.sorted[page] {
			if !g.Has(target) {
				return &MalformedGraphError{Page: page, Target: target}
			}
		}
	}
	return nil
}

// Digest returns a hex-encoded SHA3-256 fingerprint of the link structure.
// Two graphs with the same pages and links have the same digest regardless
// of how they were built.
func (g *Graph) Digest() string {
	h := sha3.New256()
	for _, page := range g.pages {
		h.Write([]byte(page))
		h.Write([]byte{0})
		for _, target := range g.sorted[page] {
			h.Write([]byte(target))
			h.Write([]byte{0})
		}
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
