package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/pagerank/internal/config"
	"github.com/nao1215/pagerank/internal/database"
	"github.com/nao1215/pagerank/internal/report"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [corpus-dir]",
		Short: "List runs stored in the history database",
		Long: `History lists the runs saved with --save, newest first.

With a corpus directory only the runs of that corpus are listed. Use --show
to print the full report of one stored run.

Examples:
  # List every stored run
  pagerank history

  # List the runs of one corpus
  pagerank history corpus0

  # Print the report of run 3 as Markdown
  pagerank history --show 3 -m`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("show", "s", 0,
		"Print the full report of the run with this ID")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	writer, err := historyWriter(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	dbDir, err := historyDBDir(cmd)
	if err != nil {
		return err
	}

	var corpusPath string
	if len(args) == 1 {
		if corpusPath, err = filepath.Abs(args[0]); err != nil {
			return fmt.Errorf("failed to resolve corpus path: %w", err)
		}
	}

	db, err := openHistory(dbDir)
	if errors.Is(err, os.ErrNotExist) {
		if showID != 0 {
			return fmt.Errorf("%w: id %d (no history database)", database.ErrRunNotFound, showID)
		}
		_, err = writer.WriteHistory(nil)
		return err
	}
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if showID != 0 {
		return showRun(ctx, db, showID, writer)
	}

	runs, err := db.ListRuns(ctx, corpusPath)
	if err != nil {
		return err
	}
	_, err = writer.WriteHistory(runs)
	return err
}

// showRun writes the stored report with the given ID.
func showRun(ctx context.Context, db *database.HistoryDB, id int64, writer report.Writer) error {
	rep, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	_, err = writer.Write(rep)
	return err
}

// historyWriter selects the report writer from the --json and --markdown flags.
func historyWriter(cmd *cobra.Command, out io.Writer) (report.Writer, error) {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	switch {
	case jsonOutput && markdownOutput:
		return nil, config.ErrConflictingReportFormats
	case jsonOutput:
		return report.NewJSONWriter(out, report.WithPrettyPrint()), nil
	case markdownOutput:
		return report.NewMarkdownWriter(out), nil
	default:
		return report.NewTextWriter(out, report.WithVerbose(getVerboseFlag(cmd))), nil
	}
}

// historyDBDir returns the database directory: the --db-dir flag, else the
// dbDir of the configuration file, else the XDG data directory.
func historyDBDir(cmd *cobra.Command) (string, error) {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return "", err
	}
	if dbDir != "" {
		return dbDir, nil
	}

	cfg := config.NewConfig()
	if configPath := config.FindConfigFile(""); configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return "", fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	}
	return cfg.DBDir, nil
}

// openHistory opens an existing history database without creating one.
func openHistory(dbDir string) (*database.HistoryDB, error) {
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
