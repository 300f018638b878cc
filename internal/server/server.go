// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the search engine over HTTP: a JSON search
// endpoint, health checks, and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/pdiddy/paperrank/internal/citegraph"
	"github.com/pdiddy/paperrank/internal/index"
	"github.com/pdiddy/paperrank/internal/logger"
	"github.com/pdiddy/paperrank/internal/metrics"
	"github.com/pdiddy/paperrank/internal/rank"
	"github.com/pdiddy/paperrank/internal/retrieval"
	"github.com/pdiddy/paperrank/pkg/types"
)

// maxRequestBody bounds the search request body size.
const maxRequestBody = 1 << 20

// Server serves search requests from an index and a citation graph.
type Server struct {
	cfg      types.ServerConfig
	retrCfg  types.RetrievalConfig
	store    *index.Store
	pagerank map[string]float64
	limiter  *rate.Limiter
}

// New builds a server over the given store and citation graph. PageRank
// scores are computed once here; re-run indexing and restart to refresh
// them.
func New(cfg types.ServerConfig, retrCfg types.RetrievalConfig, store *index.Store, graph *citegraph.Graph) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 20
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 40
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	pr := map[string]float64{}
	if graph != nil {
		pr = graph.WeightedPageRank(citegraph.DefaultPageRankOptions())
	}

	return &Server{
		cfg:      cfg,
		retrCfg:  retrCfg,
		store:    store,
		pagerank: pr,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}
}

// Handler returns the full HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHealth)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/search", s.handleSearch)
	mux.Handle("/metrics", promhttp.Handler())
	return withObservability(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.For(ctx).Infof("search server listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("search server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/healthz" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}
	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}
	if s.cfg.APIKey != "" && r.Header.Get("X-API-Key") != s.cfg.APIKey {
		writeError(w, http.StatusUnauthorized, "missing or invalid API key")
		return
	}

	var req types.SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is empty")
		return
	}

	ctx := r.Context()
	defer logger.Track(ctx, "search")()

	out, err := retrieval.Retrieve(ctx, s.store, query, retrieval.Options{
		KChunks:       s.retrCfg.KChunks,
		KDocs:         s.retrCfg.KDocs,
		MaxExpansions: s.retrCfg.MaxExpansions,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.For(ctx).WithError(err).Error("retrieval failed")
		writeError(w, http.StatusInternalServerError, "retrieval failed")
		return
	}

	scored := rank.Fuse(out.Papers, s.pagerank, s.retrCfg.RRFK)

	results := make([]types.PaperResult, 0, len(scored))
	for _, sc := range scored {
		paper, err := s.store.PaperByID(ctx, sc.PaperID)
		if err != nil {
			logger.For(ctx).WithError(err).Warnf("dropping result %s", sc.PaperID)
			continue
		}
		results = append(results, types.PaperResult{
			PaperID:  paper.ID,
			Title:    paper.Title,
			Authors:  strings.Join(paper.Authors, ", "),
			Abstract: paper.Abstract,
			Score:    types.Float64(sc.Score),
			URL:      paper.URL,
		})
	}

	metrics.SearchResults.Observe(float64(len(results)))
	writeJSON(w, http.StatusOK, types.SearchResponse{Results: results})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
