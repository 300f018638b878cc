// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package client

import (
	"context"
	"strings"
	"sync"

	"github.com/pdiddy/paperrank/pkg/types"
)

// Session sequences searches for an interactive caller. Each submission
// gets a monotonically increasing generation; a response is applied to the
// session state only while its generation is still the newest, so a slow
// early response can never overwrite the results of a later search.
type Session struct {
	client *Client

	mu      sync.Mutex
	gen     uint64
	loading bool
	results []types.PaperResult
	err     error
}

// NewSession returns an empty session over c.
func NewSession(c *Client) *Session {
	return &Session{client: c}
}

// Outcome reports how one submission settled. Stale outcomes lost the race
// to a newer submission and did not change session state.
type Outcome struct {
	Results []types.PaperResult
	Err     error
	Stale   bool
}

// Submit starts a search. Blank queries are ignored: no network call, no
// state change, and the second return is false.
//
// Otherwise the displayed results are cleared and the loading flag raised
// immediately, before any response arrives. The search runs in the
// background; the returned channel delivers exactly one Outcome when it
// settles. The loading flag is cleared when the newest outstanding request
// settles, whatever its outcome.
func (s *Session) Submit(ctx context.Context, query string) (<-chan Outcome, bool) {
	if strings.TrimSpace(query) == "" {
		return nil, false
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.results = nil
	s.err = nil
	s.loading = true
	s.mu.Unlock()

	ch := make(chan Outcome, 1)
	go func() {
		results, err := s.client.Search(ctx, query)
		applied := s.apply(gen, results, err)
		ch <- Outcome{Results: results, Err: err, Stale: !applied}
	}()
	return ch, true
}

func (s *Session) apply(gen uint64, results []types.PaperResult, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	if err != nil {
		results = nil
	}
	s.results = results
	s.err = err
	s.loading = false
	return true
}

// Loading reports whether the newest submission is still in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Results returns the currently displayed result list.
func (s *Session) Results() []types.PaperResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Err returns the error from the newest settled submission, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
