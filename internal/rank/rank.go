// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank fuses the retrieval ranking with citation-graph PageRank
// into the final per-paper scores returned to clients.
package rank

import (
	"sort"

	"github.com/pdiddy/paperrank/internal/retrieval"
)

// Scored is one paper with its fused relevance score.
type Scored struct {
	PaperID string

	// Score is the fused score normalized into (0, 1].
	Score float64

	// ChunkCount is the number of relevant chunks retrieval found.
	ChunkCount int
}

// Fuse combines the retrieval ordering with the PageRank scores of the
// retrieved papers using reciprocal rank fusion, then normalizes so the
// top paper scores 1.0. Papers absent from the citation graph rank last
// in the graph ordering but keep their retrieval contribution.
func Fuse(retrieved []retrieval.PaperHit, pagerank map[string]float64, rrfK int) []Scored {
	if len(retrieved) == 0 {
		return nil
	}

	retrievalRanking := make([]string, len(retrieved))
	chunkCounts := make(map[string]int, len(retrieved))
	for i, p := range retrieved {
		retrievalRanking[i] = p.PaperID
		chunkCounts[p.PaperID] = len(p.Chunks)
	}

	// Graph ordering over the same papers: PageRank descending, retrieval
	// order as the tiebreak.
	graphRanking := make([]string, len(retrievalRanking))
	copy(graphRanking, retrievalRanking)
	sort.SliceStable(graphRanking, func(i, j int) bool {
		return pagerank[graphRanking[i]] > pagerank[graphRanking[j]]
	})

	fused := retrieval.RRF([][]string{retrievalRanking, graphRanking}, rrfK)

	var max float64
	for _, s := range fused {
		if s > max {
			max = s
		}
	}

	scored := make([]Scored, len(retrievalRanking))
	for i, id := range retrievalRanking {
		scored[i] = Scored{
			PaperID:    id,
			Score:      fused[id] / max,
			ChunkCount: chunkCounts[id],
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}
