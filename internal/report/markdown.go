package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/serpclient/internal/model"
)

// MarkdownWriter outputs the state as a Markdown document.
type MarkdownWriter struct {
	baseWriter

	// query, when set, is shown in the header.
	query string
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithQuery records the query that produced the state.
func WithQuery(q string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.query = q
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the state in Markdown format.
func (w *MarkdownWriter) Write(state model.SessionState) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, state)
	w.writeStatus(md, state)
	if !state.IsEmpty() {
		w.writeAnalysis(md, state)
		w.writeResults(md, state)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, state model.SessionState) {
	md.H1("SERP Analysis")
	md.PlainText("")

	rows := [][]string{}
	if w.query != "" {
		rows = append(rows, []string{"Query", escapeCell(w.query)})
	}
	rows = append(rows,
		[]string{"Status", state.Status.String()},
		[]string{"Results", strconv.Itoa(len(state.Results))},
		[]string{"Keywords", strconv.Itoa(len(state.Analysis))},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeStatus(md *markdown.Markdown, state model.SessionState) {
	switch {
	case state.HasError():
		md.Cautionf("%s", state.ErrorMessage)
	case state.Status == model.StatusLoading:
		md.Note("Scraping in progress.")
	case state.IsEmpty():
		md.Tip(EmptyMessage)
	default:
		return
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeAnalysis(md *markdown.Markdown, state model.SessionState) {
	md.H2("Keyword Frequency")
	md.PlainText("")

	if len(state.Analysis) == 0 {
		md.PlainText("No keyword analysis available.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(state.Analysis))
	for i, e := range state.Analysis {
		rows[i] = []string{escapeCell(e.Name), strconv.Itoa(e.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Keyword", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if state.MaxCount() > 0 {
		w.writePieChart(md, state)
	}
}

// writePieChart writes a mermaid pie chart of the keyword distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, state model.SessionState) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Keyword Distribution"),
		piechart.WithShowData(true),
	)
	for _, e := range state.Analysis {
		if e.Count > 0 {
			chart.LabelAndIntValue(e.Name, uint64(e.Count))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, state model.SessionState) {
	md.H2("Literature Sources")
	md.PlainText("")

	if len(state.Results) == 0 {
		md.PlainText(EmptyMessage)
		md.PlainText("")
		return
	}

	rows := make([][]string, len(state.Results))
	for i, r := range state.Results {
		rows[i] = []string{
			escapeCell(r.Query),
			escapeCell(r.Title),
			"[Open](" + r.Link + ")",
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Document Title", "Access"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [serpclient](https://github.com/nao1215/serpclient)*")
}

// escapeCell keeps pipes and newlines from breaking table rows.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
