package main

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/pagerank/internal/config"
	"github.com/nao1215/pagerank/internal/database"
	"github.com/nao1215/pagerank/internal/model"
	"github.com/spf13/cobra"
)

// Page change states.
const (
	pageStatusAdded     = "added"
	pageStatusRemoved   = "removed"
	pageStatusChanged   = "changed"
	pageStatusUnchanged = "unchanged"
)

// rankEpsilon is the smallest rank delta reported as a change.
const rankEpsilon = 5e-5

var (
	errNotEnoughRuns  = errors.New("at least two stored runs are required to compare")
	errCorpusMismatch = errors.New("runs belong to different corpora")
	errSameRun        = errors.New("cannot compare a run with itself")
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <corpus-dir>",
		Short: "Compare the ranks of two stored runs",
		Long: `Compare shows how the iterative ranks of a corpus changed between runs.

By default the latest run of the corpus is compared with the run before it.
Runs are stored with 'pagerank --save'. The comparison lists pages that were
added or removed and the rank change of every other page.

Examples:
  # Compare the latest two runs of a corpus
  pagerank compare corpus0

  # Compare the latest run with run 2
  pagerank compare --with-run-id 2 corpus0

  # Output the comparison as JSON
  pagerank compare -j corpus0`,
		Args: cobra.ExactArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare the latest run with the run of this ID (see 'pagerank history')")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	withID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	corpusPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve corpus path: %w", err)
	}

	dbDir, err := historyDBDir(cmd)
	if err != nil {
		return err
	}
	db, err := openHistory(dbDir)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: no history database in %s", errNotEnoughRuns, dbDir)
	}
	if err != nil {
		return err
	}
	defer db.Close()

	previous, current, err := selectRuns(cmd.Context(), db, corpusPath, withID)
	if err != nil {
		return err
	}

	result := compareReports(previous, current)

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		return outputComparisonJSON(out, result)
	case markdownOutput:
		return outputComparisonMarkdown(out, result)
	default:
		return outputComparisonText(out, result)
	}
}

// selectRuns returns the two reports to compare. The current report is
// always the latest run of the corpus.
func selectRuns(ctx context.Context, db *database.HistoryDB, corpusPath string, withID int64) (*model.RankReport, *model.RankReport, error) {
	current, err := db.LatestRun(ctx, corpusPath)
	if errors.Is(err, database.ErrRunNotFound) {
		return nil, nil, fmt.Errorf("%w: corpus %s has no stored runs", errNotEnoughRuns, corpusPath)
	}
	if err != nil {
		return nil, nil, err
	}

	if withID != 0 {
		if withID == current.ID {
			return nil, nil, fmt.Errorf("%w: run %d is the latest run of %s", errSameRun, withID, corpusPath)
		}
		previous, err := db.GetRun(ctx, withID)
		if err != nil {
			return nil, nil, err
		}
		if previous.Corpus != current.Corpus {
			return nil, nil, fmt.Errorf("%w: run %d ranked %s", errCorpusMismatch, withID, previous.Corpus)
		}
		return previous, current, nil
	}

	runs, err := db.ListRuns(ctx, corpusPath)
	if err != nil {
		return nil, nil, err
	}
	if len(runs) < 2 {
		return nil, nil, fmt.Errorf("%w: corpus %s has %d", errNotEnoughRuns, corpusPath, len(runs))
	}

	previous, err := db.GetRun(ctx, runs[1].ID)
	if err != nil {
		return nil, nil, err
	}
	return previous, current, nil
}

// ComparisonResult holds the differences between two runs of a corpus.
type ComparisonResult struct {
	// Corpus is the directory both runs ranked.
	Corpus string `json:"corpus"`

	// Previous and Current identify the compared runs.
	Previous RunMetadata `json:"previous"`
	Current  RunMetadata `json:"current"`

	// DigestChanged is true when the link graph differs between the runs.
	DigestChanged bool `json:"digest_changed"`

	// Pages holds the per-page changes, largest change first.
	Pages []PageChange `json:"pages"`

	// MaxChange is the largest absolute iterative rank change of a page
	// present in both runs.
	MaxChange float64 `json:"max_change"`
}

// RunMetadata summarizes one side of a comparison.
type RunMetadata struct {
	ID          int64     `json:"id"`
	Digest      string    `json:"digest"`
	Pages       int       `json:"pages"`
	Damping     float64   `json:"damping"`
	Seed        uint64    `json:"seed"`
	Converged   bool      `json:"converged"`
	GeneratedAt time.Time `json:"generated_at"`
}

// PageChange is the rank change of one page between two runs.
type PageChange struct {
	Page   string `json:"page"`
	Status string `json:"status"`

	// Previous and Current are iterative ranks. They are zero on the side
	// where the page does not exist.
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
	Delta    float64 `json:"delta"`

	// SamplingDelta is the change of the sampling rank.
	SamplingDelta float64 `json:"sampling_delta"`
}

// newRunMetadata extracts the comparison metadata from a report.
func newRunMetadata(r *model.RankReport) RunMetadata {
	return RunMetadata{
		ID:          r.ID,
		Digest:      r.Digest,
		Pages:       r.Pages,
		Damping:     r.Parameters.Damping,
		Seed:        r.Parameters.Seed,
		Converged:   r.Converged,
		GeneratedAt: r.GeneratedAt,
	}
}

// compareReports computes the page-by-page differences between two reports.
func compareReports(previous, current *model.RankReport) *ComparisonResult {
	result := &ComparisonResult{
		Corpus:        current.Corpus,
		Previous:      newRunMetadata(previous),
		Current:       newRunMetadata(current),
		DigestChanged: previous.Digest != current.Digest,
	}

	prevIter := rankMap(previous.Iteration)
	currIter := rankMap(current.Iteration)
	prevSample := rankMap(previous.Sampling)
	currSample := rankMap(current.Sampling)

	for page, curr := range currIter {
		change := PageChange{Page: page, Current: curr}
		prev, ok := prevIter[page]
		if !ok {
			change.Status = pageStatusAdded
			change.Delta = curr
			change.SamplingDelta = currSample[page]
			result.Pages = append(result.Pages, change)
			continue
		}

		change.Previous = prev
		change.Delta = curr - prev
		change.SamplingDelta = currSample[page] - prevSample[page]
		change.Status = pageStatusUnchanged
		if math.Abs(change.Delta) >= rankEpsilon {
			change.Status = pageStatusChanged
		}
		result.MaxChange = math.Max(result.MaxChange, math.Abs(change.Delta))
		result.Pages = append(result.Pages, change)
	}

	for page, prev := range prevIter {
		if _, ok := currIter[page]; ok {
			continue
		}
		result.Pages = append(result.Pages, PageChange{
			Page:          page,
			Status:        pageStatusRemoved,
			Previous:      prev,
			Delta:         -prev,
			SamplingDelta: -prevSample[page],
		})
	}

	slices.SortFunc(result.Pages, func(a, b PageChange) int {
		if c := cmp.Compare(math.Abs(b.Delta), math.Abs(a.Delta)); c != 0 {
			return c
		}
		return strings.Compare(a.Page, b.Page)
	})

	return result
}

// rankMap indexes rank entries by page.
func rankMap(entries []model.RankEntry) map[string]float64 {
	m := make(map[string]float64, len(entries))
	for _, e := range entries {
		m[e.Page] = e.Rank
	}
	return m
}

// countStatus returns the number of pages with the given status.
func (r *ComparisonResult) countStatus(status string) int {
	n := 0
	for _, p := range r.Pages {
		if p.Status == status {
			n++
		}
	}
	return n
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(w io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(w io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(w)

	md.H1("Run Comparison: " + result.Corpus)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Previous", "Current"},
		Rows: [][]string{
			{"Run", strconv.FormatInt(result.Previous.ID, 10), strconv.FormatInt(result.Current.ID, 10)},
			{"Date", result.Previous.GeneratedAt.Format("2006-01-02 15:04"), result.Current.GeneratedAt.Format("2006-01-02 15:04")},
			{"Pages", strconv.Itoa(result.Previous.Pages), strconv.Itoa(result.Current.Pages)},
			{"Damping", formatDamping(result.Previous.Damping), formatDamping(result.Current.Damping)},
			{"Digest", "`" + shortDigest(result.Previous.Digest) + "`", "`" + shortDigest(result.Current.Digest) + "`"},
		},
	})
	md.PlainText("")

	if result.DigestChanged {
		md.Note("The link graph changed between the runs.")
	} else {
		md.Note("The link graph is identical in both runs.")
	}
	md.PlainText("")

	rows := make([][]string, 0, len(result.Pages))
	for _, p := range result.Pages {
		rows = append(rows, []string{
			"`" + p.Page + "`",
			p.Status,
			formatComparedRank(p.Previous, p.Status != pageStatusAdded),
			formatComparedRank(p.Current, p.Status != pageStatusRemoved),
			formatRankDelta(p.Delta),
		})
	}

	md.H2(fmt.Sprintf("Pages (%d)", len(result.Pages)))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Page", "Status", "Previous", "Current", "Change"},
		Rows:   rows,
	})
	md.PlainText("")
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Largest rank change: %s*", formatRankDelta(result.MaxChange))

	return md.Build()
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(w io.Writer, result *ComparisonResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Run Comparison: %s\n", result.Corpus)
	b.WriteString(strings.Repeat("=", 60) + "\n")

	fmt.Fprintf(&b, "\nPrevious run: #%d  %s  (%s)\n",
		result.Previous.ID,
		result.Previous.GeneratedAt.Format("2006-01-02 15:04:05"),
		shortDigest(result.Previous.Digest))
	fmt.Fprintf(&b, "Current run:  #%d  %s  (%s)\n",
		result.Current.ID,
		result.Current.GeneratedAt.Format("2006-01-02 15:04:05"),
		shortDigest(result.Current.Digest))

	if result.DigestChanged {
		b.WriteString("\nLink graph: CHANGED\n")
	} else {
		b.WriteString("\nLink graph: UNCHANGED\n")
	}

	fmt.Fprintf(&b, "\nPages: %d added, %d removed, %d changed, %d unchanged\n",
		result.countStatus(pageStatusAdded),
		result.countStatus(pageStatusRemoved),
		result.countStatus(pageStatusChanged),
		result.countStatus(pageStatusUnchanged))

	if len(result.Pages) > 0 {
		fmt.Fprintf(&b, "\n  %-24s  %-9s  %-8s  %-8s  %-8s\n", "Page", "Status", "Previous", "Current", "Change")
		b.WriteString("  " + strings.Repeat("-", 66) + "\n")
		for _, p := range result.Pages {
			fmt.Fprintf(&b, "  %-24s  %-9s  %-8s  %-8s  %-8s\n",
				p.Page,
				p.Status,
				formatComparedRank(p.Previous, p.Status != pageStatusAdded),
				formatComparedRank(p.Current, p.Status != pageStatusRemoved),
				formatRankDelta(p.Delta))
		}
	}

	fmt.Fprintf(&b, "\nLargest rank change: %s\n", formatRankDelta(result.MaxChange))

	_, err := io.WriteString(w, b.String())
	return err
}

// formatComparedRank formats a rank, or "-" when the page is absent.
func formatComparedRank(v float64, present bool) string {
	if !present {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// formatRankDelta formats a rank delta with sign for display.
func formatRankDelta(delta float64) string {
	if math.Abs(delta) < rankEpsilon {
		return "0"
	}
	if delta > 0 {
		return "+" + strconv.FormatFloat(delta, 'f', 4, 64)
	}
	return strconv.FormatFloat(delta, 'f', 4, 64)
}

// formatDamping formats a damping factor in its shortest form.
func formatDamping(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// shortDigest returns the first 12 hex digits of a digest.
func shortDigest(digest string) string {
	return model.RunSummary{Digest: digest}.ShortDigest()
}
