// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paperrank/internal/client"
	"github.com/pdiddy/paperrank/pkg/types"
)

// abstractPreviewWords caps how much of an abstract a result card shows.
const abstractPreviewWords = 60

// renderResults prints one card per paper result. Missing fields fall back
// to placeholder text rather than being dropped.
func renderResults(w io.Writer, results []types.PaperResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	for i, r := range results {
		fmt.Fprintf(w, "%d. %s\n", i+1, r.DisplayTitle())
		fmt.Fprintf(w, "   %s\n", r.DisplayAuthors())
		fmt.Fprintf(w, "   %s\n", truncateWords(r.DisplayAbstract(), abstractPreviewWords))
		fmt.Fprintf(w, "   %s\n", r.DisplayScore())
		if r.URL != "" {
			fmt.Fprintf(w, "   %s\n", r.URL)
		}
		fmt.Fprintln(w)
	}
}

// renderJSON prints the result list as indented JSON.
func renderJSON(w io.Writer, results []types.PaperResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// renderSearchError prints a user-facing line for a failed search. Server
// rejections surface the HTTP status code; everything else collapses to a
// generic connectivity message.
func renderSearchError(w io.Writer, err error) {
	var se *client.StatusError
	switch {
	case errors.Is(err, client.ErrEmptyQuery):
		// Blank queries are dropped upstream; nothing to report.
	case errors.As(err, &se):
		fmt.Fprintf(w, "Search failed: server returned HTTP %d.\n", se.Code)
	default:
		fmt.Fprintln(w, "Search failed: could not reach the search server.")
	}
}

func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ") + "..."
}
