package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyGraph is returned when an operation needs at least one page
	// and the graph has none. Rank values are divided by the page count,
	// so an empty graph has no meaningful result.
	ErrEmptyGraph = errors.New("graph has no pages")

	// ErrUnknownPage is the sentinel wrapped by UnknownPageError.
	ErrUnknownPage = errors.New("unknown page")

	// ErrMalformedGraph is the sentinel wrapped by MalformedGraphError.
	ErrMalformedGraph = errors.New("malformed graph")
)

// UnknownPageError is returned when a page that is not part of the graph
// is passed where a member page is required.
type UnknownPageError struct {
	Page Page
}

// Error implements the error interface.
func (e *UnknownPageError) Error() string {
	return fmt.Sprintf("unknown page %q: not present in graph", string(e.Page))
}

// Unwrap allows errors.Is(err, ErrUnknownPage).
func (e *UnknownPageError) Unwrap() error {
	return ErrUnknownPage
}

// MalformedGraphError reports a link whose target is not a page of the
// graph. Ranks computed on such a graph are undefined.
type MalformedGraphError struct {
	// Page is the page holding the dangling link.
	Page Page

	// Target is the link target missing from the graph.
	Target Page
}

// Error implements the error interface.
func (e *MalformedGraphError) Error() string {
	return fmt.Sprintf("malformed graph: page %q links to %q which is not in the graph",
		string(e.Page), string(e.Target))
}

// Unwrap allows errors.Is(err, ErrMalformedGraph).
func (e *MalformedGraphError) Unwrap() error {
	return ErrMalformedGraph
}
