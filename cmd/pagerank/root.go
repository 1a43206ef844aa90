package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errUsage is returned when the command line has the wrong number of arguments.
var errUsage = errors.New("invalid arguments")

// NewRootCmd creates the root command for pagerank. Run with a corpus
// directory, the root command ranks it.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagerank <corpus-dir>",
		Short: "Estimate PageRank for a directory of HTML pages",
		Long: `pagerank ranks the pages of a corpus, a directory of HTML files that link
to each other, with the PageRank algorithm.

Ranks are computed twice: by sampling the pages visited by a random surfer,
and by iterating the PageRank formula until the ranks converge. Both results
are printed so they can be compared.

Examples:
  # Rank the pages in corpus0
  pagerank corpus0

  # Use a different damping factor and a reproducible sample
  pagerank -d 0.9 --seed 42 corpus0

  # Split the samples across four concurrent walks
  pagerank --chains 4 -n 1000000 corpus0

  # Write a Markdown report and keep the run in the history database
  pagerank -m -o report.md --save corpus0`,
		Version:       getVersion(),
		Args:          corpusArg,
		RunE:          runRankCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write log records as JSON lines")

	addRankFlags(cmd)

	// Add subcommands
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// corpusArg accepts exactly one positional argument, the corpus directory.
func corpusArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected exactly one corpus directory, got %d\nUsage: %s",
			errUsage, len(args), cmd.UseLine())
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
