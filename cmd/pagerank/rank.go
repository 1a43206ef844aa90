package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/pagerank/internal/config"
	"github.com/nao1215/pagerank/internal/corpus"
	"github.com/nao1215/pagerank/internal/database"
	"github.com/nao1215/pagerank/internal/graph"
	applog "github.com/nao1215/pagerank/internal/log"
	"github.com/nao1215/pagerank/internal/model"
	"github.com/nao1215/pagerank/internal/rank"
	"github.com/nao1215/pagerank/internal/report"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// addRankFlags registers the flags of the rank command.
func addRankFlags(cmd *cobra.Command) {
	// Estimator flags
	cmd.Flags().Float64P("damping", "d", config.DefaultDamping,
		"Probability of following a link instead of jumping to a random page")
	cmd.Flags().IntP("samples", "n", config.DefaultSamples,
		"Number of pages drawn by the sampling estimator")
	cmd.Flags().Float64("threshold", config.DefaultThreshold,
		"Convergence threshold of the iterative estimator")
	cmd.Flags().Int("max-iterations", config.DefaultMaxIterations,
		"Maximum passes of the iterative estimator")
	cmd.Flags().Uint64("seed", 0,
		"Seed for the sampling estimator (0 picks a random seed)")
	cmd.Flags().Int("chains", config.DefaultChains,
		"Number of concurrent random walks the samples are split across")
	cmd.Flags().Bool("exclude-start", false,
		"Do not count the random start page of a walk as a visit")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pagerank.yaml in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("save", false,
		"Store the run in the history database")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
}

// runRankCmd executes the rank command.
func runRankCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, err := newLogger(cmd, cfg.Verbose)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runRank(ctx, cfg, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// newLogger creates the logger for a run, writing text or JSON records to
// the command's stderr.
func newLogger(cmd *cobra.Command, verbose bool) (*slog.Logger, error) {
	jsonLog, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		return nil, err
	}
	if jsonLog {
		return applog.NewJSONLogger(cmd.ErrOrStderr(), verbose), nil
	}
	return applog.NewLogger(cmd.ErrOrStderr(), verbose), nil
}

// buildConfig creates a Config from defaults, the configuration file and
// the command flags. A flag overrides the file only when it was set.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named config file must exist; the default locations
	// are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	if flags.Changed("damping") {
		if cfg.Damping, err = flags.GetFloat64("damping"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("samples") {
		if cfg.Samples, err = flags.GetInt("samples"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("threshold") {
		if cfg.Threshold, err = flags.GetFloat64("threshold"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-iterations") {
		if cfg.MaxIterations, err = flags.GetInt("max-iterations"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("seed") {
		if cfg.Seed, err = flags.GetUint64("seed"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("chains") {
		if cfg.Chains, err = flags.GetInt("chains"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("exclude-start") {
		if cfg.ExcludeStart, err = flags.GetBool("exclude-start"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("save") {
		if cfg.SaveToDB, err = flags.GetBool("save"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if len(args) > 0 {
		cfg.Corpus = args[0]
	}

	return cfg, nil
}

// runRank loads the corpus, runs both estimators concurrently and writes
// the report.
func runRank(ctx context.Context, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	corpusPath, err := filepath.Abs(cfg.Corpus)
	if err != nil {
		return fmt.Errorf("failed to resolve corpus path: %w", err)
	}

	g, err := corpus.Load(ctx, corpusPath, corpus.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	seed := cfg.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}

	rep := model.NewRankReport(corpusPath, g, model.Parameters{
		Damping:       cfg.Damping,
		Samples:       cfg.Samples,
		Chains:        cfg.Chains,
		Seed:          seed,
		ExcludeStart:  cfg.ExcludeStart,
		Threshold:     cfg.Threshold,
		MaxIterations: cfg.MaxIterations,
	})

	logger.Info("ranking corpus",
		"corpus", corpusPath,
		"pages", g.Len(),
		"damping", cfg.Damping,
		"samples", cfg.Samples,
		"chains", cfg.Chains,
		"seed", seed,
	)

	if err := estimate(ctx, g, cfg, seed, rep, logger); err != nil {
		return err
	}

	if cfg.SaveToDB {
		if err := saveRun(ctx, cfg.DBDir, rep, logger); err != nil {
			return err
		}
	}

	return outputReport(cfg, rep, stdout)
}

// estimate runs the sampling and iterative estimators concurrently and
// stores their ranks in rep. Only the read-only graph is shared.
func estimate(ctx context.Context, g *graph.Graph, cfg *config.Config, seed uint64, rep *model.RankReport, logger *slog.Logger) error {
	var sampled, iterated rank.Ranks
	var passes int
	converged := true

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		opts := []rank.SampleOption{
			rank.WithSeed(seed),
			rank.WithSampleLogger(logger),
		}
		if cfg.ExcludeStart {
			opts = append(opts, rank.WithOriginalWeighting())
		}

		ranks, err := rank.SampleChains(ctx, g, cfg.Damping, cfg.Samples, cfg.Chains, opts...)
		if err != nil {
			return fmt.Errorf("sampling failed: %w", err)
		}
		sampled = ranks
		return nil
	})

	eg.Go(func() error {
		ranks, err := rank.Iterate(ctx, g, cfg.Damping,
			rank.WithThreshold(cfg.Threshold),
			rank.WithMaxIterations(cfg.MaxIterations),
			rank.WithIterateLogger(logger),
			rank.WithObserver(func(p rank.Pass) {
				passes = p.Number
				logger.Debug("iteration pass",
					"pass", p.Number,
					"state", p.State.String(),
					"max_delta", p.MaxDelta,
				)
			}),
		)

		// Hitting the pass cap still yields usable ranks; the report
		// marks them as not converged.
		var notConverged *rank.NotConvergedError
		if errors.As(err, &notConverged) {
			converged = false
			passes = notConverged.Passes
			err = nil
		}
		if err != nil {
			return fmt.Errorf("iteration failed: %w", err)
		}
		iterated = ranks
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	rep.SetSampling(sampled)
	rep.SetIteration(iterated, passes, converged)
	return nil
}

// saveRun stores the report in the history database and logs whether the
// corpus graph changed since its previous saved run.
func saveRun(ctx context.Context, dbDir string, rep *model.RankReport, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	previous, err := db.LatestRun(ctx, rep.Corpus)
	switch {
	case errors.Is(err, database.ErrRunNotFound):
		logger.Info("first saved run for corpus", "corpus", rep.Corpus)
	case err != nil:
		return fmt.Errorf("failed to read history: %w", err)
	case previous.Digest != rep.Digest:
		logger.Info("corpus links changed since previous run", "previous_id", previous.ID)
	}

	id, err := db.SaveRun(ctx, rep)
	if err != nil {
		return err
	}

	logger.Info("run saved to database", "id", id, "db", db.Path())
	return nil
}

// outputReport writes the report in the requested format to the report
// file, or to stdout when no file is set.
func outputReport(cfg *config.Config, rep *model.RankReport, stdout io.Writer) error {
	output, closeOutput, err := openOutput(cfg.ReportFile, stdout)
	if err != nil {
		return err
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewTextWriter(output, report.WithVerbose(cfg.Verbose))
	}

	if _, err := writer.Write(rep); err != nil {
		_ = closeOutput()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return closeOutput()
}

// openOutput opens the report destination. An empty path selects stdout.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
