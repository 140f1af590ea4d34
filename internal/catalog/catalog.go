// Package catalog holds the fixed set of research queries a user may submit.
//
// The catalog is a closed enumeration: queries are not free text. The same
// list is hardcoded independently on the backend, and nothing guarantees the
// two stay in sync, so the client only ever validates against its own copy.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownQuery is returned when a query or selector does not name a
// catalog entry.
var ErrUnknownQuery = errors.New("unknown query: not in catalog")

// Query is a research query string that belongs to the catalog.
type Query string

// String returns the query text.
func (q Query) String() string {
	return string(q)
}

// queries is ordered; the first entry is the default selection.
var queries = []Query{
	"CNN and YOLO deep learning models in crime detection papers",
	"RNN and LSTM architectures for criminal profiling research",
	"Transformer and BERT networks for forensic text classification",
	"GAN models for synthetic forensic data generation papers",
}

// All returns every catalog query in display order.
// The returned slice is a copy.
func All() []Query {
	out := make([]Query, len(queries))
	copy(out, queries)
	return out
}

// Len returns the number of catalog entries.
func Len() int {
	return len(queries)
}

// Default returns the preselected query.
func Default() Query {
	return queries[0]
}

// Contains reports whether q is a catalog entry.
func Contains(q Query) bool {
	for _, c := range queries {
		if c == q {
			return true
		}
	}
	return false
}

// Lookup resolves a selector to a catalog query.
// The selector is either a 1-based index into All() or the exact query text.
// An empty selector resolves to Default().
func Lookup(selector string) (Query, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return Default(), nil
	}

	if n, err := strconv.Atoi(selector); err == nil {
		if n < 1 || n > len(queries) {
			return "", fmt.Errorf("%w: index %d out of range 1-%d", ErrUnknownQuery, n, len(queries))
		}
		return queries[n-1], nil
	}

	q := Query(selector)
	if !Contains(q) {
		return "", fmt.Errorf("%w: %q", ErrUnknownQuery, selector)
	}
	return q, nil
}
