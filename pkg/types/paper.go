// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paperrank engine:
// indexed paper metadata, the wire-level search request/response, and the
// configuration tree loaded by the CLI.
package types

// Paper holds the metadata record for one indexed paper. Records live as
// YAML files under papers/metadata/ with the converted full text alongside
// in papers/markdown/[id].md.
type Paper struct {
	// ID is a slug derived from the paper identifier (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year, zero when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Abstract is the paper abstract. May contain markup from the source;
	// the index sanitizes it before storage.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// URL points at the canonical landing page for the paper.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// References lists the IDs of papers this paper cites, when known.
	// The citation graph is built from these edges.
	References []string `json:"references,omitempty" yaml:"references,omitempty"`
}
