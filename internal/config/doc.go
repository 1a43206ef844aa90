// Package config provides the configuration of a PageRank run: estimator
// parameters, report output options, and run history settings.
//
// Values come from three layers, later layers winning: the defaults of
// NewConfig, an optional .pagerank.yaml file, and command-line flags.
package config
