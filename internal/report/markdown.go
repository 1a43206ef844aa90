package report

import (
	"io"
	"math"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/pagerank/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RankReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeRanks(md, report)
	w.writeVisits(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RankReport) {
	p := report.Parameters

	md.H1("PageRank Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Corpus", "`" + report.Corpus + "`"},
			{"Pages", strconv.Itoa(report.Pages)},
			{"Digest", "`" + report.Digest + "`"},
			{"Generated", report.GeneratedAt.Format(timeLayout)},
			{"Damping", formatFloat(p.Damping)},
			{"Samples", strconv.Itoa(p.Samples)},
			{"Chains", strconv.Itoa(p.Chains)},
			{"Seed", strconv.FormatUint(p.Seed, 10)},
			{"Threshold", formatFloat(p.Threshold)},
			{"Passes", strconv.Itoa(report.Passes)},
		},
	})
	md.PlainText("")

	if !report.Converged {
		md.Warningf(
			"The iterative estimate did not converge within %d passes; its ranks are the last pass.",
			report.Passes,
		)
		md.PlainText("")
	}
}

// writeRanks writes both estimates side by side.
func (w *MarkdownWriter) writeRanks(md *markdown.Markdown, report *model.RankReport) {
	md.H2("Ranks")
	md.PlainText("")

	iterated := make(map[string]float64, len(report.Iteration))
	for _, e := range report.Iteration {
		iterated[e.Page] = e.Rank
	}

	rows := make([][]string, 0, len(report.Sampling))
	for _, e := range report.Sampling {
		iter, ok := iterated[e.Page]
		if !ok {
			rows = append(rows, []string{"`" + e.Page + "`", formatRank(e.Rank), "-", "-"})
			continue
		}
		rows = append(rows, []string{
			"`" + e.Page + "`",
			formatRank(e.Rank),
			formatRank(iter),
			formatRank(math.Abs(e.Rank - iter)),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Page", "Sampling", "Iteration", "Difference"},
		Rows:   rows,
	})
	md.PlainText("")

	md.Note("Sampling ranks are Monte Carlo estimates and vary with the seed. " +
		"Iteration ranks are deterministic for a given graph and damping factor.")
	md.PlainText("")
}

// writeVisits writes a mermaid pie chart of how often each page was
// visited by the random surfer.
func (w *MarkdownWriter) writeVisits(md *markdown.Markdown, report *model.RankReport) {
	if len(report.Sampling) == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Random Surfer Visits"),
		piechart.WithShowData(true),
	)

	n := float64(report.Parameters.Samples)
	for _, e := range report.Sampling {
		visits := math.Round(e.Rank * n)
		if visits <= 0 {
			continue
		}
		chart.LabelAndIntValue(e.Page, uint64(visits))
	}

	md.H2("Visits")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [pagerank](https://github.com/nao1215/pagerank)*")
}

// WriteHistory outputs stored runs as a Markdown table.
func (w *MarkdownWriter) WriteHistory(runs []model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("PageRank History")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			strconv.FormatInt(run.ID, 10),
			run.GeneratedAt.Format(timeLayout),
			"`" + run.ShortDigest() + "`",
			strconv.Itoa(run.Pages),
			formatFloat(run.Damping),
			strconv.Itoa(run.Samples),
			"`" + run.Corpus + "`",
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "Date", "Digest", "Pages", "Damping", "Samples", "Corpus"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}

// formatRank formats a rank the way the text report does.
func formatRank(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// formatFloat formats a parameter value in its shortest form.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
