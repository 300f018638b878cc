// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citegraph maintains the directed citation graph between indexed
// papers and scores papers with a weighted PageRank that favors recently
// published, independently cited work.
package citegraph

import (
	"sort"

	"github.com/pdiddy/paperrank/pkg/types"
)

// Graph is a directed citation graph. An edge citing → cited records one
// citation; parallel citations collapse into a single edge.
type Graph struct {
	out   map[string]map[string]struct{}
	in    map[string]map[string]struct{}
	years map[string]int
}

// NewGraph returns an empty citation graph.
func NewGraph() *Graph {
	return &Graph{
		out:   make(map[string]map[string]struct{}),
		in:    make(map[string]map[string]struct{}),
		years: make(map[string]int),
	}
}

// AddPaper adds a node. A zero year means the publication year is unknown.
func (g *Graph) AddPaper(id string, year int) {
	g.ensure(id)
	if year != 0 {
		g.years[id] = year
	}
}

// AddCitation adds the edge citing → cited, creating missing nodes.
func (g *Graph) AddCitation(citing, cited string) {
	g.ensure(citing)
	g.ensure(cited)
	g.out[citing][cited] = struct{}{}
	g.in[cited][citing] = struct{}{}
}

func (g *Graph) ensure(id string) {
	if _, ok := g.out[id]; !ok {
		g.out[id] = make(map[string]struct{})
		g.in[id] = make(map[string]struct{})
	}
}

// HasPaper reports whether id is a node in the graph.
func (g *Graph) HasPaper(id string) bool {
	_, ok := g.out[id]
	return ok
}

// Len returns the number of papers in the graph.
func (g *Graph) Len() int {
	return len(g.out)
}

// Papers returns all paper IDs in the graph, sorted.
func (g *Graph) Papers() []string {
	ids := make([]string, 0, len(g.out))
	for id := range g.out {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Year returns the recorded publication year for id, zero when unknown.
func (g *Graph) Year(id string) int {
	return g.years[id]
}

// Citations returns the papers cited by id, sorted.
func (g *Graph) Citations(id string) []string {
	return sortedKeys(g.out[id])
}

// CitedBy returns the papers citing id, sorted.
func (g *Graph) CitedBy(id string) []string {
	return sortedKeys(g.in[id])
}

// CitationCount returns the number of papers citing id.
func (g *Graph) CitationCount(id string) int {
	return len(g.in[id])
}

// CitedCount pairs a paper with its incoming citation count.
type CitedCount struct {
	PaperID string
	Count   int
}

// MostCited returns up to n papers ordered by citation count descending,
// ties broken by paper ID for determinism.
func (g *Graph) MostCited(n int) []CitedCount {
	counts := make([]CitedCount, 0, len(g.in))
	for id, citers := range g.in {
		counts = append(counts, CitedCount{PaperID: id, Count: len(citers)})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].PaperID < counts[j].PaperID
	})
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// BuildFromMetadata populates the graph from paper metadata records:
// one node per paper and one edge per reference. Referenced papers that
// are not themselves indexed become year-less nodes.
func BuildFromMetadata(papers []types.Paper) *Graph {
	g := NewGraph()
	for _, p := range papers {
		g.AddPaper(p.ID, p.Year)
		for _, ref := range p.References {
			g.AddPaper(ref, 0)
			g.AddCitation(p.ID, ref)
		}
	}
	return g
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
