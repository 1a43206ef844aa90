package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and let callers use
// errors.Is() to tell which setting is wrong.
var (
	// ErrNoCorpus is returned when no corpus directory is specified.
	ErrNoCorpus = errors.New("no corpus specified: provide a corpus directory")

	// ErrInvalidDamping is returned when the damping factor is outside [0, 1].
	ErrInvalidDamping = errors.New("invalid damping factor: must be between 0 and 1")

	// ErrInvalidSamples is returned when the sample count is not positive.
	ErrInvalidSamples = errors.New("invalid sample count: must be positive")

	// ErrInvalidThreshold is returned when the convergence threshold is not positive.
	// A zero threshold can never be met by floating point arithmetic.
	ErrInvalidThreshold = errors.New("invalid threshold: must be positive")

	// ErrInvalidMaxIterations is returned when the iteration cap is not positive.
	ErrInvalidMaxIterations = errors.New("invalid max iterations: must be positive")

	// ErrInvalidChains is returned when the number of sampling chains is not positive.
	ErrInvalidChains = errors.New("invalid chain count: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
