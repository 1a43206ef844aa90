package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/pagerank/internal/model"
)

// TextWriter outputs the plain text report:
//
//	PageRank Results from Sampling (n = 10000)
//	  1.html: 0.2202
//	  ...
//	PageRank Results from Iteration
//	  1.html: 0.2198
//	  ...
//
// Pages are listed in name order with four decimal places.
type TextWriter struct {
	baseWriter

	// verbose appends run details after the rank listings.
	verbose bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithVerbose appends run details (graph digest, seed, relaxation passes
// and the gap between the estimates) after the rank listings.
func WithVerbose(verbose bool) TextWriterOption {
	return func(w *TextWriter) {
		w.verbose = verbose
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in plain text.
func (w *TextWriter) Write(report *model.RankReport) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "PageRank Results from Sampling (n = %d)\n", report.Parameters.Samples)
	writeRanks(&sb, report.Sampling)

	sb.WriteString("PageRank Results from Iteration\n")
	writeRanks(&sb, report.Iteration)

	if w.verbose {
		w.writeDetails(&sb, report)
	}

	return io.WriteString(w.output, sb.String())
}

// writeRanks writes one "  page: rank" line per entry.
func writeRanks(sb *strings.Builder, entries []model.RankEntry) {
	for _, e := range entries {
		fmt.Fprintf(sb, "  %s: %.4f\n", e.Page, e.Rank)
	}
}

// writeDetails writes the run details shown in verbose mode.
func (w *TextWriter) writeDetails(sb *strings.Builder, report *model.RankReport) {
	p := report.Parameters

	sb.WriteString("\n")
	fmt.Fprintf(sb, "Corpus:         %s (%d pages)\n", report.Corpus, report.Pages)
	fmt.Fprintf(sb, "Digest:         %s\n", report.Digest)
	fmt.Fprintf(sb, "Damping:        %g\n", p.Damping)
	fmt.Fprintf(sb, "Seed:           %d (%d chain(s))\n", p.Seed, p.Chains)
	if report.Converged {
		fmt.Fprintf(sb, "Iteration:      converged after %d pass(es) (threshold %g)\n", report.Passes, p.Threshold)
	} else {
		fmt.Fprintf(sb, "Iteration:      NOT converged after %d pass(es) (threshold %g)\n", report.Passes, p.Threshold)
	}
	fmt.Fprintf(sb, "Max difference: %.4f\n", report.MaxDifference())
}

// WriteHistory outputs stored runs, newest first, one per line.
func (w *TextWriter) WriteHistory(runs []model.RunSummary) (int, error) {
	if len(runs) == 0 {
		return io.WriteString(w.output, "No runs recorded.\n")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-6s %-23s %-12s %6s %8s %8s  %s\n",
		"ID", "DATE", "DIGEST", "PAGES", "DAMPING", "SAMPLES", "CORPUS")
	for _, run := range runs {
		fmt.Fprintf(&sb, "%-6d %-23s %-12s %6d %8g %8d  %s\n",
			run.ID,
			run.GeneratedAt.Format(timeLayout),
			run.ShortDigest(),
			run.Pages,
			run.Damping,
			run.Samples,
			run.Corpus)
	}
	return io.WriteString(w.output, sb.String())
}
