package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/serpclient/internal/model"
)

// createTestState creates a state with sample data for testing.
func createTestState() model.SessionState {
	return model.SessionState{
		Results: []model.ScrapeResult{
			{Query: "CNN", Title: "Deep CNN for crime scene analysis", Link: "https://example.com/a"},
			{Query: "YOLO", Title: "Real-time detection with YOLO | v8", Link: "#"},
		},
		Analysis: []model.AnalysisEntry{
			{Name: "CNN", Count: 4},
			{Name: "YOLO", Count: 2},
			{Name: "BERT", Count: 0},
		},
		Status: model.StatusIdle,
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes empty message for empty state", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(model.NewSessionState()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, EmptyMessage) {
			t.Errorf("expected empty message, got %q", output)
		}
		if strings.Contains(output, "KEYWORD FREQUENCY") {
			t.Error("expected no chart for empty state")
		}
	})

	t.Run("writes chart and results", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithBarWidth(10))
		if _, err := w.Write(createTestState()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Status: Idle",
			"KEYWORD FREQUENCY",
			"CNN  | ########## 4",
			"YOLO | ##### 2",
			"BERT |  0",
			"LITERATURE SOURCES (2)",
			"Deep CNN for crime scene analysis",
			"https://example.com/a",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
		if !strings.Contains(strings.ToUpper(output), "DOCUMENT TITLE") {
			t.Error("expected results table header")
		}
		if strings.Contains(output, EmptyMessage) {
			t.Error("expected no empty message when data exists")
		}
	})

	t.Run("writes empty message when only analysis exists", func(t *testing.T) {
		t.Parallel()

		state := createTestState()
		state.Results = []model.ScrapeResult{}

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"KEYWORD FREQUENCY", "LITERATURE SOURCES (0)", EmptyMessage} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
		if strings.Index(output, "LITERATURE SOURCES (0)") > strings.Index(output, EmptyMessage) {
			t.Error("expected empty message inside the sources section")
		}
	})

	t.Run("keeps backend order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestState()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		cnn := strings.Index(output, "CNN  |")
		yolo := strings.Index(output, "YOLO |")
		bert := strings.Index(output, "BERT |")
		if cnn >= yolo || yolo >= bert {
			t.Errorf("expected CNN, YOLO, BERT order, got %d %d %d", cnn, yolo, bert)
		}
	})

	t.Run("writes error banner and keeps data", func(t *testing.T) {
		t.Parallel()

		state := createTestState()
		state.Status = model.StatusError
		state.ErrorMessage = "Backend error or rate limited"

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[ERROR] Backend error or rate limited") {
			t.Error("expected error banner")
		}
		if !strings.Contains(output, "LITERATURE SOURCES (2)") {
			t.Error("expected previous results to be shown")
		}
	})

	t.Run("writes loading indicator", func(t *testing.T) {
		t.Parallel()

		state := model.NewSessionState()
		state.Status = model.StatusLoading

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Scraping in progress") {
			t.Error("expected loading indicator")
		}
	})

	t.Run("does not mutate state", func(t *testing.T) {
		t.Parallel()

		state := createTestState()
		before := state.Clone()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithTitleWidth(5)).Write(state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(before, state); diff != "" {
			t.Errorf("state mutated (-before +after):\n%s", diff)
		}
	})
}

func TestBarLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		count    int
		maxCount int
		full     int
		want     int
	}{
		{name: "max count fills the bar", count: 8, maxCount: 8, full: 40, want: 40},
		{name: "half", count: 4, maxCount: 8, full: 40, want: 20},
		{name: "small count gets one cell", count: 1, maxCount: 1000, full: 40, want: 1},
		{name: "zero count", count: 0, maxCount: 8, full: 40, want: 0},
		{name: "all zero", count: 0, maxCount: 0, full: 40, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := barLength(tt.count, tt.maxCount, tt.full); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "short string unchanged", input: "YOLO", limit: 10, want: "YOLO"},
		{name: "exact fit unchanged", input: "abcdef", limit: 6, want: "abcdef"},
		{name: "ascii cut", input: "abcdefghij", limit: 8, want: "abcde..."},
		{name: "wide runes count double", input: "犯罪検出の論文", limit: 7, want: "犯罪..."},
		{name: "tiny limit has no ellipsis", input: "abcdef", limit: 2, want: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := truncateWidth(tt.input, tt.limit)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if displayWidth(got) > tt.limit {
				t.Errorf("expected width <= %d, got %d", tt.limit, displayWidth(got))
			}
		})
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables and pie chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf, WithQuery("CNN and YOLO deep learning models in crime detection papers"))
		if _, err := w.Write(createTestState()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# SERP Analysis",
			"CNN and YOLO deep learning models in crime detection papers",
			"## Keyword Frequency",
			"```mermaid",
			"Keyword Distribution",
			"## Literature Sources",
			"[Open](https://example.com/a)",
			"[Open](#)",
			`Real-time detection with YOLO \| v8`,
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
	})

	t.Run("writes caution on error", func(t *testing.T) {
		t.Parallel()

		state := createTestState()
		state.Status = model.StatusError
		state.ErrorMessage = "Backend error or rate limited"

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!CAUTION]") {
			t.Error("expected caution alert")
		}
		if !strings.Contains(output, "Backend error or rate limited") {
			t.Error("expected error message")
		}
	})

	t.Run("writes empty message when only analysis exists", func(t *testing.T) {
		t.Parallel()

		state := createTestState()
		state.Results = []model.ScrapeResult{}

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Literature Sources") || !strings.Contains(output, EmptyMessage) {
			t.Errorf("expected empty sources section\n%s", output)
		}
	})

	t.Run("writes tip for empty state", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(model.NewSessionState()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, EmptyMessage) {
			t.Error("expected empty message")
		}
		if strings.Contains(output, "```mermaid") {
			t.Error("expected no pie chart for empty state")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes data and analysis with backend field names", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestState()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got model.Payload
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		want := createTestState().Payload()
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("payload mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty state has empty arrays", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(model.SessionState{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := `{"data":[],"analysis":[],"status":"idle"}` + "\n"
		if buf.String() != want {
			t.Errorf("expected %q, got %q", want, buf.String())
		}
	})

	t.Run("does not escape HTML characters", func(t *testing.T) {
		t.Parallel()

		state := model.NewSessionState()
		state.Results = []model.ScrapeResult{{Query: "q", Title: "A <b> & C", Link: "https://x?a=1&b=2"}}

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "https://x?a=1&b=2") {
			t.Errorf("expected raw link, got %s", buf.String())
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestState()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"data\"") {
			t.Errorf("expected indented output, got %s", buf.String())
		}
	})

	t.Run("writes error message", func(t *testing.T) {
		t.Parallel()

		state := createTestState()
		state.Status = model.StatusError
		state.ErrorMessage = "Backend error or rate limited"

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(state); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"status":"error","error":"Backend error or rate limited"`) {
			t.Errorf("unexpected output %s", buf.String())
		}
	})
}

type failingWriter struct{}

func (failingWriter) Write(model.SessionState) (int, error) {
	return 0, errors.New("write failed")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var text, js bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

		n, err := mw.Write(createTestState())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != text.Len()+js.Len() {
			t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
		}
		if text.Len() == 0 || js.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var js bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewJSONWriter(&js))

		if _, err := mw.Write(createTestState()); err == nil {
			t.Error("expected error")
		}
		if js.Len() != 0 {
			t.Error("expected later writers to be skipped")
		}
	})
}
