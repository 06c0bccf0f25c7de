package catalog

import (
	"context"
	"testing"
)

type blockingSearcher struct {
	started  chan string
	release  map[string]chan struct{}
	products map[string][]Product
}

func (b *blockingSearcher) Search(_ context.Context, query string) ([]Product, error) {
	b.started <- query
	<-b.release[query]
	return b.products[query], nil
}

func TestSearcher_LastCallWins(t *testing.T) {
	fake := &blockingSearcher{
		started: make(chan string, 2),
		release: map[string]chan struct{}{
			"old": make(chan struct{}),
			"new": make(chan struct{}),
		},
		products: map[string][]Product{
			"old": {{ID: 1, Title: "Old"}},
			"new": {{ID: 2, Title: "New"}},
		},
	}
	s := NewSearcher(fake)

	oldDone := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), "old")
		oldDone <- err
	}()
	<-fake.started

	newDone := make(chan []Product, 1)
	go func() {
		products, err := s.Search(context.Background(), "new")
		if err != nil {
			t.Errorf("newer Search() error: %v", err)
		}
		newDone <- products
	}()
	<-fake.started

	// Let the newer query finish first, then the stale one
	close(fake.release["new"])
	products := <-newDone
	if len(products) != 1 || products[0].Title != "New" {
		t.Errorf("newer Search() = %+v", products)
	}

	close(fake.release["old"])
	if err := <-oldDone; err != ErrStaleResult {
		t.Errorf("stale Search() error = %v, want ErrStaleResult", err)
	}
}

type staticSearcher struct {
	products []Product
}

func (s *staticSearcher) Search(context.Context, string) ([]Product, error) {
	return s.products, nil
}

func TestSearcher_SingleCall(t *testing.T) {
	s := NewSearcher(&staticSearcher{products: []Product{{ID: 1}}})

	products, err := s.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(products) != 1 {
		t.Errorf("got %d products, want 1", len(products))
	}
}
