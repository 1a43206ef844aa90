// Package log builds the slog loggers used across pagerank.
//
// Loggers write warnings and errors by default and everything down to
// debug in verbose mode. Float attributes, such as per-pass deltas of the
// iterative estimator, are rounded to a fixed number of significant digits
// by RoundingHandler so that debug output stays readable.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("pass complete", "pass", 3, "max_delta", 0.000812345678)
//	// ... max_delta=0.000812346
package log
