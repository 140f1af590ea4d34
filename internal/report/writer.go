package report

import (
	"io"

	"github.com/nao1215/serpclient/internal/model"
)

// EmptyMessage is shown when there is nothing to render.
const EmptyMessage = "Ready for analysis. Select a category and start scraping."

// Writer renders a session state.
type Writer interface {
	// Write outputs the state to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(state model.SessionState) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the state to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(state model.SessionState) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(state)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
