// Package database provides SQLite-based run history for pagerank.
//
// HistoryDB stores one row per saved run: the corpus, the digest of its
// link graph, the estimator parameters, and the full report as JSON. Runs
// can be listed per corpus and loaded back by ID, which makes it possible
// to see how ranks move as a corpus changes or as parameters are tuned.
//
// SQLite (via modernc.org/sqlite) keeps the history in a single file with
// a CGO-free driver. Nothing is written unless the caller opts in.
package database
