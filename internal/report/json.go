package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/serpclient/internal/model"
)

// JSONWriter outputs the state as JSON for tool integration.
//
// The data and analysis arrays use the backend field names, so the output
// can be fed back to anything that consumes the backend payload.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the state in JSON format.
func (w *JSONWriter) Write(state model.SessionState) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Titles and links are shown verbatim.
	enc.SetEscapeHTML(false)
	if w.indent {
		enc.SetIndent("", "  ")
	}

	// Clone guarantees [] instead of null for empty arrays.
	if err := enc.Encode(state.Clone()); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
