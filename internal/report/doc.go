// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - TextWriter: the plain text layout printed to the terminal by default
//   - JSONWriter: structured JSON output for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with rank tables
//
// Report data lives in the model package so that the history database can
// store the same structures the writers print.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
