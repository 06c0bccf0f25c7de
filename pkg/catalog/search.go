package catalog

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrStaleResult is returned when a search response arrives after a
// newer search has already been issued.
var ErrStaleResult = errors.New("search result superseded by a newer query")

// searcher is the subset of Client the Searcher needs.
type searcher interface {
	Search(ctx context.Context, query string) ([]Product, error)
}

// Searcher serializes overlapping search requests so only the most
// recent call may publish results. Keystroke-driven UIs fire a search
// per edit; without ordering, a slow early response can overwrite a
// fast later one.
type Searcher struct {
	client searcher
	gen    atomic.Uint64
}

// NewSearcher wraps a catalog client with last-call-wins ordering.
func NewSearcher(client searcher) *Searcher {
	return &Searcher{client: client}
}

// Search runs the query. If a newer Search call starts before this one
// finishes, the stale results are dropped and ErrStaleResult returned,
// so callers never render superseded results.
func (s *Searcher) Search(ctx context.Context, query string) ([]Product, error) {
	gen := s.gen.Add(1)

	products, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.gen.Load() != gen {
		return nil, ErrStaleResult
	}
	return products, nil
}
