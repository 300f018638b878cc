// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citegraph

import "time"

// PageRankOptions parameterizes WeightedPageRank.
type PageRankOptions struct {
	// Alpha is the damping factor (default 0.85).
	Alpha float64

	// RecencyBoost scales the bonus for citations of recent papers
	// (default 1.5). An edge into a paper of age a is weighted by
	// 1 + RecencyBoost/(1+a).
	RecencyBoost float64

	// SelfCitePenalty multiplies the weight of self-citation edges
	// (default 0.2).
	SelfCitePenalty float64

	// CurrentYear anchors paper ages (default: the wall-clock year).
	CurrentYear int

	// MaxIterations and Tolerance control power-iteration convergence.
	MaxIterations int
	Tolerance     float64
}

// DefaultPageRankOptions returns the standard scoring parameters.
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		Alpha:           0.85,
		RecencyBoost:    1.5,
		SelfCitePenalty: 0.2,
		CurrentYear:     time.Now().Year(),
		MaxIterations:   100,
		Tolerance:       1e-6,
	}
}

func (o PageRankOptions) withDefaults() PageRankOptions {
	if o.Alpha <= 0 || o.Alpha >= 1 {
		o.Alpha = 0.85
	}
	if o.RecencyBoost <= 0 {
		o.RecencyBoost = 1.5
	}
	if o.SelfCitePenalty <= 0 {
		o.SelfCitePenalty = 0.2
	}
	if o.CurrentYear <= 0 {
		o.CurrentYear = time.Now().Year()
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = 100
	}
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-6
	}
	return o
}

// WeightedPageRank scores papers by power iteration over the weighted
// citation graph. Edge weights start at 1.0, self-citations are penalized,
// and citations into recent papers are boosted by the age of the cited
// paper. Only papers incident to at least one citation participate;
// an edgeless graph yields an empty map. Scores sum to 1.
func (g *Graph) WeightedPageRank(opts PageRankOptions) map[string]float64 {
	opts = opts.withDefaults()

	// Collect weighted edges; the node set is the edge endpoints.
	type edge struct {
		from, to string
		weight   float64
	}
	var edges []edge
	nodes := make(map[string]bool)

	for u, outs := range g.out {
		for v := range outs {
			w := 1.0
			if u == v {
				w *= opts.SelfCitePenalty
			}
			if year := g.years[v]; year != 0 {
				age := opts.CurrentYear - year
				if age < 0 {
					age = 0
				}
				w *= 1 + opts.RecencyBoost/float64(1+age)
			}
			edges = append(edges, edge{from: u, to: v, weight: w})
			nodes[u] = true
			nodes[v] = true
		}
	}

	n := len(nodes)
	if n == 0 {
		return map[string]float64{}
	}

	// Out-weight totals for transition normalization.
	outWeight := make(map[string]float64, n)
	for _, e := range edges {
		outWeight[e.from] += e.weight
	}

	rank := make(map[string]float64, n)
	for id := range nodes {
		rank[id] = 1.0 / float64(n)
	}

	base := (1 - opts.Alpha) / float64(n)
	for i := 0; i < opts.MaxIterations; i++ {
		next := make(map[string]float64, n)
		for id := range nodes {
			next[id] = base
		}

		// Rank held by nodes without outgoing edges is redistributed
		// uniformly.
		var danglesum float64
		for id := range nodes {
			if outWeight[id] == 0 {
				danglesum += rank[id]
			}
		}
		share := opts.Alpha * danglesum / float64(n)
		for id := range nodes {
			next[id] += share
		}

		for _, e := range edges {
			next[e.to] += opts.Alpha * rank[e.from] * e.weight / outWeight[e.from]
		}

		var diff float64
		for id := range nodes {
			d := next[id] - rank[id]
			if d < 0 {
				d = -d
			}
			diff += d
		}
		rank = next
		if diff < float64(n)*opts.Tolerance {
			break
		}
	}

	return rank
}
