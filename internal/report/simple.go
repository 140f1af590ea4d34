package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"

	"github.com/nao1215/serpclient/internal/model"
)

const (
	defaultBarWidth   = 40
	defaultTitleWidth = 60
	ruleWidth         = 70
	barRune           = "#"
)

// SimpleWriter outputs plain text for terminal display.
type SimpleWriter struct {
	baseWriter

	// barWidth is the length of the bar for the largest count.
	barWidth int

	// titleWidth is the display width document titles are cut to.
	titleWidth int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithBarWidth sets the length of the longest frequency bar.
func WithBarWidth(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if n > 0 {
			w.barWidth = n
		}
	}
}

// WithTitleWidth sets the display width titles are truncated to.
func WithTitleWidth(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if n > 0 {
			w.titleWidth = n
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		barWidth:   defaultBarWidth,
		titleWidth: defaultTitleWidth,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the state in human-readable format.
func (w *SimpleWriter) Write(state model.SessionState) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, state)
	w.writeChart(&sb, state)
	w.writeResults(&sb, state)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, state model.SessionState) {
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                        SERP ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")

	status := cases.Title(language.English).String(state.Status.String())
	fmt.Fprintf(sb, "Status: %s\n", status)

	switch state.Status {
	case model.StatusLoading:
		sb.WriteString("Scraping in progress...\n")
	case model.StatusError:
		fmt.Fprintf(sb, "[ERROR] %s\n", state.ErrorMessage)
	}
	sb.WriteString("\n")
}

// writeChart draws one bar per analysis entry in backend order.
func (w *SimpleWriter) writeChart(sb *strings.Builder, state model.SessionState) {
	if len(state.Analysis) == 0 {
		return
	}

	sb.WriteString("KEYWORD FREQUENCY\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")

	labelWidth := 0
	for _, e := range state.Analysis {
		labelWidth = max(labelWidth, displayWidth(e.Name))
	}

	maxCount := state.MaxCount()
	for _, e := range state.Analysis {
		sb.WriteString(padRight(e.Name, labelWidth))
		sb.WriteString(" | ")
		sb.WriteString(strings.Repeat(barRune, barLength(e.Count, maxCount, w.barWidth)))
		fmt.Fprintf(sb, " %d\n", e.Count)
	}
	sb.WriteString("\n")
}

// writeResults prints EmptyMessage in place of the table when there are no
// results, even if analysis entries exist.
func (w *SimpleWriter) writeResults(sb *strings.Builder, state model.SessionState) {
	fmt.Fprintf(sb, "LITERATURE SOURCES (%d)\n", len(state.Results))
	if len(state.Results) == 0 {
		sb.WriteString(EmptyMessage)
		sb.WriteString("\n")
		return
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Category", "Document Title", "Access"})
	for i, r := range state.Results {
		t.AppendRow(table.Row{
			i + 1,
			r.Query,
			truncateWidth(r.Title, w.titleWidth),
			r.Link,
		})
	}
	sb.WriteString(t.Render())
	sb.WriteString("\n")
}

// barLength scales count to at most full. A positive count always gets
// at least one cell.
func barLength(count, maxCount, full int) int {
	if count <= 0 || maxCount <= 0 {
		return 0
	}
	n := count * full / maxCount
	if n == 0 {
		return 1
	}
	return n
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// displayWidth returns the number of terminal cells s occupies.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		n += runeWidth(r)
	}
	return n
}

// truncateWidth cuts s to at most limit cells, ending with "..." when cut.
func truncateWidth(s string, limit int) string {
	if displayWidth(s) <= limit {
		return s
	}

	const ellipsis = "..."
	budget := limit - len(ellipsis)
	suffix := ellipsis
	if budget < 0 {
		budget = limit
		suffix = ""
	}

	var sb strings.Builder
	used := 0
	for _, r := range s {
		rw := runeWidth(r)
		if used+rw > budget {
			break
		}
		sb.WriteRune(r)
		used += rw
	}
	sb.WriteString(suffix)
	return sb.String()
}

func padRight(s string, n int) string {
	if pad := n - displayWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
