package config

import (
	"math"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultDamping is the probability that the random surfer follows a
	// link instead of jumping to a random page.
	DefaultDamping = 0.85

	// DefaultSamples is the number of pages drawn by the sampling estimator.
	DefaultSamples = 100000

	// DefaultThreshold is the largest per-page change at which the
	// iterative estimator is considered converged.
	DefaultThreshold = 1e-3

	// DefaultMaxIterations bounds the iterative estimator. Convergence on a
	// graph with a positive teleport share takes far fewer passes.
	DefaultMaxIterations = 10000

	// DefaultChains is the number of independent sampling chains.
	DefaultChains = 1

	// AppName is the application name used for XDG directory paths.
	AppName = "pagerank"
)

// Config holds all configuration options for a PageRank run.
// It is populated from defaults, the config file and CLI flags, then passed
// down explicitly rather than held in global state.
type Config struct {
	// Corpus is the directory holding the HTML pages to rank.
	Corpus string

	// Damping is the damping factor d in [0, 1].
	Damping float64

	// Samples is the number of pages the sampling estimator draws.
	Samples int

	// Threshold is the convergence threshold of the iterative estimator.
	Threshold float64

	// MaxIterations caps the passes of the iterative estimator.
	MaxIterations int

	// Seed pins the random sequence of the sampling estimator.
	// Zero means a fresh random seed per run.
	Seed uint64

	// Chains is the number of independent walks the samples are split
	// across. The walks run concurrently.
	Chains int

	// ExcludeStart leaves the random start page of each walk uncounted,
	// so sampled ranks sum to (n-1)/n instead of 1.
	ExcludeStart bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .pagerank.yaml in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// JSONReport enables JSON output instead of the plain text report.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown output instead of the plain text report.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory holding the run history database.
	// Defaults to the XDG data directory (~/.local/share/pagerank on Linux).
	DBDir string

	// SaveToDB stores every run in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Damping:       DefaultDamping,
		Samples:       DefaultSamples,
		Threshold:     DefaultThreshold,
		MaxIterations: DefaultMaxIterations,
		Chains:        DefaultChains,
		DBDir:         XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for pagerank.
// On Linux: ~/.local/share/pagerank
// On macOS: ~/Library/Application Support/pagerank
// On Windows: %LOCALAPPDATA%\pagerank
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the package's sentinel errors.
func (c *Config) Validate() error {
	if c.Corpus == "" {
		return ErrNoCorpus
	}

	// NaN fails both comparisons, so test for it explicitly.
	if math.IsNaN(c.Damping) || c.Damping < 0 || c.Damping > 1 {
		return ErrInvalidDamping
	}

	if c.Samples < 1 {
		return ErrInvalidSamples
	}

	if math.IsNaN(c.Threshold) || c.Threshold <= 0 {
		return ErrInvalidThreshold
	}

	if c.MaxIterations < 1 {
		return ErrInvalidMaxIterations
	}

	if c.Chains < 1 {
		return ErrInvalidChains
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
