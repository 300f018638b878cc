// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/paperrank/pkg/types"
)

// sessionServer answers each query with a single result named after it.
// Queries found in the block map stall until their channel is closed.
func sessionServer(t *testing.T, block map[string]chan struct{}) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req types.SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if ch, ok := block[req.Query]; ok {
			<-ch
		}
		resp := types.SearchResponse{Results: []types.PaperResult{{PaperID: req.Query}}}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func waitOutcome(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case out := <-ch:
		return out
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for outcome")
		return Outcome{}
	}
}

func TestSessionIgnoresBlankQuery(t *testing.T) {
	ts := sessionServer(t, nil)
	sess := NewSession(New(ts.URL))

	ch, ok := sess.Submit(context.Background(), "   ")
	if ok || ch != nil {
		t.Error("blank submission should be a no-op")
	}
	if sess.Loading() {
		t.Error("blank submission must not raise the loading flag")
	}
}

func TestSessionClearsStateBeforeResponse(t *testing.T) {
	release := make(chan struct{})
	ts := sessionServer(t, map[string]chan struct{}{"slow": release})
	sess := NewSession(New(ts.URL))

	// Seed the session with displayed results.
	ch, _ := sess.Submit(context.Background(), "first")
	waitOutcome(t, ch)
	if len(sess.Results()) != 1 {
		t.Fatalf("seed results = %d, want 1", len(sess.Results()))
	}

	// While the second search is in flight the old results are already
	// gone and the loading flag is up.
	ch, _ = sess.Submit(context.Background(), "slow")
	if !sess.Loading() {
		t.Error("loading flag should be raised before the response arrives")
	}
	if sess.Results() != nil {
		t.Errorf("stale results still displayed: %v", sess.Results())
	}

	close(release)
	out := waitOutcome(t, ch)
	if out.Err != nil || out.Stale {
		t.Fatalf("outcome = %+v", out)
	}
	if sess.Loading() {
		t.Error("loading flag should drop once the response settles")
	}
	if got := sess.Results(); len(got) != 1 || got[0].PaperID != "slow" {
		t.Errorf("results = %v", got)
	}
}

func TestSessionLatestWins(t *testing.T) {
	release := make(chan struct{})
	ts := sessionServer(t, map[string]chan struct{}{"slow": release})
	sess := NewSession(New(ts.URL))

	slowCh, _ := sess.Submit(context.Background(), "slow")
	fastCh, _ := sess.Submit(context.Background(), "fast")

	fast := waitOutcome(t, fastCh)
	if fast.Stale || fast.Err != nil {
		t.Fatalf("fast outcome = %+v", fast)
	}
	if got := sess.Results(); len(got) != 1 || got[0].PaperID != "fast" {
		t.Fatalf("results after fast = %v", got)
	}

	// The slow response arrives last but lost the race: it must be
	// reported stale and must not disturb the displayed results.
	close(release)
	slow := waitOutcome(t, slowCh)
	if !slow.Stale {
		t.Error("slow outcome should be stale")
	}
	if got := sess.Results(); len(got) != 1 || got[0].PaperID != "fast" {
		t.Errorf("results overwritten by stale response: %v", got)
	}
	if sess.Loading() {
		t.Error("loading flag should stay down after a stale settle")
	}
}

func TestSessionErrorClearsResults(t *testing.T) {
	var fail atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"results": [{"paper_id": "p1"}]}`)
	}))
	t.Cleanup(ts.Close)
	sess := NewSession(New(ts.URL))

	ch, _ := sess.Submit(context.Background(), "ok")
	waitOutcome(t, ch)
	if len(sess.Results()) != 1 {
		t.Fatal("seed search did not populate results")
	}

	fail.Store(true)
	ch, _ = sess.Submit(context.Background(), "broken")
	out := waitOutcome(t, ch)
	if out.Err == nil {
		t.Fatal("expected error outcome")
	}
	var se *StatusError
	if !errors.As(out.Err, &se) || se.Code != http.StatusInternalServerError {
		t.Errorf("err = %v, want 500 StatusError", out.Err)
	}
	if sess.Results() != nil {
		t.Errorf("results should be cleared on error, got %v", sess.Results())
	}
	if sess.Err() == nil {
		t.Error("session error should be recorded")
	}
	if sess.Loading() {
		t.Error("loading flag should drop after an error")
	}
}
