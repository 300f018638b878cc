// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval turns chunk-level full-text hits into ranked papers.
// A query first fans out to a small chunk lookup; when the hits do not
// cover enough distinct papers the chunk budget is widened and the lookup
// repeated, then chunks are aggregated per paper and papers ranked by how
// many relevant chunks they contributed.
package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/pdiddy/paperrank/internal/index"
)

// Searcher is the chunk index the pipeline runs against. *index.Store
// implements it; tests substitute fakes.
type Searcher interface {
	SearchChunks(ctx context.Context, query string, k int) ([]index.ChunkHit, error)
	ChunkCount(ctx context.Context) (int, error)
}

// Options holds the pipeline parameters.
type Options struct {
	// KChunks is the initial chunk fan-out (default 5).
	KChunks int

	// KDocs is the number of distinct papers to return (default 3).
	KDocs int

	// ExpandStep is the chunk-budget increase per expansion round (default 25).
	ExpandStep int

	// MaxExpansions bounds the expansion rounds so a small corpus cannot
	// loop forever (default 4).
	MaxExpansions int
}

func (o Options) withDefaults() Options {
	if o.KChunks <= 0 {
		o.KChunks = 5
	}
	if o.KDocs <= 0 {
		o.KDocs = 3
	}
	if o.ExpandStep <= 0 {
		o.ExpandStep = 25
	}
	if o.MaxExpansions <= 0 {
		o.MaxExpansions = 4
	}
	return o
}

// PaperHit is one paper with the relevant chunks retrieved for it.
type PaperHit struct {
	PaperID string
	Chunks  []index.ChunkHit

	// BestRank is the position of the paper's best chunk in the combined
	// chunk ranking. Used to break chunk-count ties.
	BestRank int
}

// Output holds the ranked papers and expansion statistics.
type Output struct {
	Papers []PaperHit
	Rounds int
}

// Ranking returns the paper IDs in ranked order.
func (o Output) Ranking() []string {
	ids := make([]string, len(o.Papers))
	for i, p := range o.Papers {
		ids[i] = p.PaperID
	}
	return ids
}

// Retrieve runs the retrieval pipeline for one query.
func Retrieve(ctx context.Context, s Searcher, query string, opts Options) (Output, error) {
	if query == "" {
		return Output{}, fmt.Errorf("query is empty")
	}
	opts = opts.withDefaults()

	total, err := s.ChunkCount(ctx)
	if err != nil {
		return Output{}, err
	}

	k := opts.KChunks
	hits, err := s.SearchChunks(ctx, query, k)
	if err != nil {
		return Output{}, fmt.Errorf("initial retrieval: %w", err)
	}

	rounds := 0
	for distinctPapers(hits) < opts.KDocs && rounds < opts.MaxExpansions && k < total {
		k += opts.ExpandStep
		more, err := s.SearchChunks(ctx, query, k)
		if err != nil {
			return Output{}, fmt.Errorf("expanded retrieval (k=%d): %w", k, err)
		}
		hits = append(hits, more...)
		rounds++
	}

	papers := aggregate(hits)

	sort.SliceStable(papers, func(i, j int) bool {
		if len(papers[i].Chunks) != len(papers[j].Chunks) {
			return len(papers[i].Chunks) > len(papers[j].Chunks)
		}
		return papers[i].BestRank < papers[j].BestRank
	})

	if len(papers) > opts.KDocs {
		papers = papers[:opts.KDocs]
	}

	return Output{Papers: papers, Rounds: rounds}, nil
}

// aggregate groups chunk hits per paper, dropping chunks re-returned by
// expansion rounds.
func aggregate(hits []index.ChunkHit) []PaperHit {
	seenChunk := make(map[string]bool)
	byPaper := make(map[string]int)
	var papers []PaperHit

	pos := 0
	for _, h := range hits {
		if seenChunk[h.ChunkID] {
			continue
		}
		seenChunk[h.ChunkID] = true

		idx, ok := byPaper[h.PaperID]
		if !ok {
			idx = len(papers)
			byPaper[h.PaperID] = idx
			papers = append(papers, PaperHit{PaperID: h.PaperID, BestRank: pos})
		}
		papers[idx].Chunks = append(papers[idx].Chunks, h)
		pos++
	}
	return papers
}

func distinctPapers(hits []index.ChunkHit) int {
	seen := make(map[string]bool)
	for _, h := range hits {
		seen[h.PaperID] = true
	}
	return len(seen)
}
