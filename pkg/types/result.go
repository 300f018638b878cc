// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// SearchRequest is the JSON body accepted by the search endpoint.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse is the JSON body returned by the search endpoint.
type SearchResponse struct {
	Results []PaperResult `json:"results"`
}

// PaperResult is one paper record returned per query. Every field is
// optional on the wire; clients render fallbacks through the Display
// methods instead of validating or rewriting the record.
type PaperResult struct {
	// PaperID identifies the paper in the index.
	PaperID string `json:"paper_id,omitempty"`

	// Title is the paper title, empty when the source had none.
	Title string `json:"title,omitempty"`

	// Authors is the pre-joined author list for display.
	Authors string `json:"authors,omitempty"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract,omitempty"`

	// Score is the fused relevance score in (0, 1]. Nil when the backend
	// did not score the result.
	Score *float64 `json:"score,omitempty"`

	// URL points at the paper's landing page, when known.
	URL string `json:"url,omitempty"`
}

// DisplayTitle returns the title or the "No Title" fallback.
func (r PaperResult) DisplayTitle() string {
	if r.Title == "" {
		return "No Title"
	}
	return r.Title
}

// DisplayAuthors returns the author line or the "Unknown Authors" fallback.
func (r PaperResult) DisplayAuthors() string {
	if r.Authors == "" {
		return "Unknown Authors"
	}
	return r.Authors
}

// DisplayAbstract returns the abstract or the "No abstract available" fallback.
func (r PaperResult) DisplayAbstract() string {
	if r.Abstract == "" {
		return "No abstract available"
	}
	return r.Abstract
}

// DisplayScore formats the score to two decimals, or "Score: N/A" when
// the result carries none.
func (r PaperResult) DisplayScore() string {
	if r.Score == nil {
		return "Score: N/A"
	}
	return fmt.Sprintf("Score: %.2f", *r.Score)
}

// Float64 returns a pointer to v. Convenience for building results.
func Float64(v float64) *float64 { return &v }
