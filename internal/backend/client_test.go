package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/serpclient/internal/catalog"
	"github.com/nao1215/serpclient/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClientResults(t *testing.T) {
	t.Parallel()

	t.Run("returns raw body on success", func(t *testing.T) {
		t.Parallel()

		const body = `{"data":[],"analysis":[]}`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != PathResults {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		}))
		defer srv.Close()

		raw, err := NewClient(srv.URL, srv.Client(), WithLogger(quietLogger())).Results(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(raw) != body {
			t.Errorf("expected %s, got %s", body, raw)
		}
	})

	t.Run("non-2xx becomes StatusError", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error": "Failed to read data: boom"}`, http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, srv.Client(), WithLogger(quietLogger())).Results(context.Background())
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
		}
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("expected *StatusError, got %T", err)
		}
		if se.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", se.StatusCode)
		}
	})

	t.Run("connection failure becomes ErrRequestFailed", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewClient(url, nil, WithLogger(quietLogger())).Results(context.Background())
		if !errors.Is(err, ErrRequestFailed) {
			t.Errorf("expected ErrRequestFailed, got %v", err)
		}
	})
}

func TestClientScrape(t *testing.T) {
	t.Parallel()

	for _, q := range catalog.All() {
		t.Run("sends queries as JSON body: "+q.String(), func(t *testing.T) {
			t.Parallel()

			var (
				mu          sync.Mutex
				got         model.ScrapeRequest
				contentType string
				posts       int
			)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != PathScrape {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				mu.Lock()
				defer mu.Unlock()
				posts++
				contentType = r.Header.Get("Content-Type")
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Errorf("failed to decode body: %v", err)
				}
				_, _ = io.WriteString(w, `{"data":[],"analysis":[]}`)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL+"/", srv.Client(), WithLogger(quietLogger())).Scrape(context.Background(), []catalog.Query{q})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			mu.Lock()
			defer mu.Unlock()
			if posts != 1 {
				t.Errorf("expected one POST, got %d", posts)
			}
			if diff := cmp.Diff(model.ScrapeRequest{Queries: []string{q.String()}}, got); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
			if contentType != "application/json" {
				t.Errorf("expected JSON content type, got %q", contentType)
			}
		})
	}

	t.Run("rate limit becomes StatusError", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, srv.Client(), WithLogger(quietLogger())).Scrape(context.Background(), []catalog.Query{catalog.Default()})
		var se *StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusTooManyRequests {
			t.Errorf("expected 429 StatusError, got %v", err)
		}
	})

	t.Run("rejects empty query list without a request", func(t *testing.T) {
		t.Parallel()

		_, err := NewClient("http://127.0.0.1:1", nil, WithLogger(quietLogger())).Scrape(context.Background(), nil)
		if !errors.Is(err, ErrNoQueries) {
			t.Errorf("expected ErrNoQueries, got %v", err)
		}
	})
}

func TestClientHealth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"message": "SERP Analyzer API is operational.", "status": "active"}`)
	}))
	defer srv.Close()

	h, err := NewClient(srv.URL, srv.Client(), WithLogger(quietLogger())).Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Status != "active" {
		t.Errorf("expected status active, got %q", h.Status)
	}
}
