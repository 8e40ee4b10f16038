// Package liststore caches one entity collection for one table view and
// keeps it fresh: every refresh-token bump triggers a re-fetch. Fetches are
// cancellable; issuing a new fetch cancels the one in flight and only the
// most recently issued fetch ever applies its result, so a late response
// from before a navigation or refresh can never overwrite newer state.
package liststore

import (
	"context"
	"sync"

	"github.com/sheetdesk/sheetdesk/internal/core"
	"github.com/sheetdesk/sheetdesk/internal/modal"
)

// Fetcher loads the collection from the backend.
type Fetcher func(ctx context.Context) ([]core.Record, error)

// Store holds the fetched rows for one view.
type Store struct {
	mu      sync.Mutex
	fetch   Fetcher
	rows    []core.Record
	loading bool
	err     error

	gen    int
	cancel context.CancelFunc

	unsubscribe func()
	onChange    func()
}

// New creates a store bound to the coordinator's refresh token. onChange
// is invoked after every state transition (load start, result, error) and
// may be nil. The store does not fetch until Refetch or the first bump.
func New(fetch Fetcher, coord *modal.Coordinator, onChange func()) *Store {
	s := &Store{fetch: fetch, onChange: onChange}
	if coord != nil {
		s.unsubscribe = coord.OnRefresh(func(modal.RefreshToken) {
			s.Refetch()
		})
	}
	return s
}

// Refetch starts a new fetch, cancelling any fetch still in flight. The
// call returns immediately; the result lands through onChange.
func (s *Store) Refetch() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.gen++
	gen := s.gen
	s.loading = true
	fetch := s.fetch
	s.mu.Unlock()

	s.notify()

	go func() {
		rows, err := fetch(ctx)

		s.mu.Lock()
		if gen != s.gen {
			// A newer fetch superseded this one; discard.
			s.mu.Unlock()
			return
		}
		if ctx.Err() != nil {
			s.loading = false
			s.mu.Unlock()
			s.notify()
			return
		}
		s.loading = false
		if err != nil {
			s.err = err
		} else {
			s.rows = rows
			s.err = nil
		}
		s.mu.Unlock()

		s.notify()
	}()
}

// Rows returns the cached collection.
func (s *Store) Rows() []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error of the most recent completed fetch, nil after a
// success.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close cancels any in-flight fetch and detaches from the refresh token.
// The store must not be used afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
