// Package report renders a session state for people and tools.
//
// This package contains writers for different output formats:
//   - SimpleWriter: terminal output with a keyword frequency chart and a
//     results table
//   - MarkdownWriter: Markdown with tables and a mermaid pie chart
//   - JSONWriter: the data/analysis payload plus status for tool integration
//
// Writers are pure functions of model.SessionState. They never mutate the
// state they are given, so the same snapshot can be written to several
// destinations through MultiWriter.
package report
