package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/pagerank/internal/model"
)

// JSONWriter writes rank reports and run lists as JSON, one document per
// call, followed by a newline.
type JSONWriter struct {
	baseWriter

	prefix string
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent indents nested values with indent, starting every line after
// the first with prefix. Output is compact when both are empty.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
	}
}

// WithPrettyPrint indents with two spaces.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a compact JSONWriter unless an indent option is
// given.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the rank report.
func (w *JSONWriter) Write(report *model.RankReport) (int, error) {
	return w.encode(report)
}

// WriteHistory outputs the run list as an array, which is empty rather
// than null when there are no runs.
func (w *JSONWriter) WriteHistory(runs []model.RunSummary) (int, error) {
	if runs == nil {
		runs = []model.RunSummary{}
	}
	return w.encode(runs)
}

// encode buffers the whole document so a marshal error leaves the output
// untouched.
func (w *JSONWriter) encode(v any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent(w.prefix, w.indent)
	if err := enc.Encode(v); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}

// JSONReport is the document written by FullJSONWriter.
type JSONReport struct {
	Version string            `json:"version"`
	Report  *model.RankReport `json:"report"`
}

// NewJSONReport pairs a report with the version that produced it.
func NewJSONReport(report *model.RankReport, version string) *JSONReport {
	return &JSONReport{Version: version, Report: report}
}

// FullJSONWriter is a JSONWriter that stamps each report with the pagerank
// version. Run lists are written unchanged.
type FullJSONWriter struct {
	*JSONWriter
	version string
}

// NewFullJSONWriter creates a FullJSONWriter for the given version.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the report inside a JSONReport.
func (w *FullJSONWriter) Write(report *model.RankReport) (int, error) {
	return w.encode(NewJSONReport(report, w.version))
}
