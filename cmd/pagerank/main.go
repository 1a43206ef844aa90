// Package main provides the entry point for the pagerank CLI.
//
// pagerank estimates the PageRank of every page in a directory of HTML
// files, once by sampling a random surfer and once by iteration.
//
// Usage:
//
//	pagerank <corpus-dir>
//	pagerank history [corpus-dir]
//	pagerank compare <corpus-dir>
//
// See --help for all available options.
package main

// main is the entry point for pagerank.
func main() {
	Execute()
}
