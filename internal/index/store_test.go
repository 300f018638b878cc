// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperrank/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()

	papersDir := filepath.Join(tmpDir, "papers")
	for _, dir := range []string{
		filepath.Join(papersDir, metadataDir),
		filepath.Join(papersDir, markdownDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	cfg := types.IndexConfig{
		DataDir:      filepath.Join(tmpDir, "data"),
		PapersDir:    papersDir,
		ChunkWords:   20,
		ChunkOverlap: 5,
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store, tmpDir
}

func writePaperMeta(t *testing.T, tmpDir string, paper types.Paper) string {
	t.Helper()
	data, err := yaml.Marshal(&paper)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(tmpDir, "papers", metadataDir, paper.ID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeMarkdown(t *testing.T, tmpDir, paperID, content string) {
	t.Helper()
	path := filepath.Join(tmpDir, "papers", markdownDir, paperID+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func samplePaper(id string) types.Paper {
	return types.Paper{
		ID:       id,
		Title:    "Efficient Attention for Long Sequences",
		Authors:  []string{"A. Researcher", "B. Scientist"},
		Year:     2024,
		Abstract: "We propose an efficient attention mechanism for transformers.",
		URL:      "https://example.org/" + id,
		References: []string{
			"paper-foundations",
		},
	}
}

// --- tests ---

func TestIngestFileAndLookup(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	paper := samplePaper("paper-attn")
	path := writePaperMeta(t, tmpDir, paper)
	writeMarkdown(t, tmpDir, paper.ID,
		"attention mechanisms let transformers focus on relevant tokens while "+
			"processing long sequences of text efficiently and accurately")

	status, chunks, err := store.IngestFile(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if status != StatusIndexed {
		t.Errorf("status = %q, want %q", status, StatusIndexed)
	}
	if chunks == 0 {
		t.Error("expected at least one chunk")
	}

	got, err := store.PaperByID(ctx, paper.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != paper.Title {
		t.Errorf("Title = %q, want %q", got.Title, paper.Title)
	}
	if len(got.Authors) != 2 || got.Authors[0] != "A. Researcher" {
		t.Errorf("Authors = %v", got.Authors)
	}
	if len(got.References) != 1 || got.References[0] != "paper-foundations" {
		t.Errorf("References = %v", got.References)
	}
	if got.Year != 2024 {
		t.Errorf("Year = %d, want 2024", got.Year)
	}
}

func TestIngestFileSkipsUnchanged(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	path := writePaperMeta(t, tmpDir, samplePaper("paper-skip"))

	if _, _, err := store.IngestFile(ctx, path); err != nil {
		t.Fatal(err)
	}
	status, _, err := store.IngestFile(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if status != StatusSkipped {
		t.Errorf("second ingest status = %q, want %q", status, StatusSkipped)
	}
}

func TestIngestFileUpdatesChanged(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	paper := samplePaper("paper-upd")
	path := writePaperMeta(t, tmpDir, paper)
	if _, _, err := store.IngestFile(ctx, path); err != nil {
		t.Fatal(err)
	}

	paper.Title = "Revised Title"
	writePaperMeta(t, tmpDir, paper)
	// Force a newer mod time so the skip check misses.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	status, _, err := store.IngestFile(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if status != StatusUpdated {
		t.Errorf("status = %q, want %q", status, StatusUpdated)
	}

	got, err := store.PaperByID(ctx, paper.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Revised Title" {
		t.Errorf("Title = %q after update", got.Title)
	}
}

func TestIngestFallsBackToAbstract(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	// No markdown file: the abstract becomes the single chunk.
	paper := samplePaper("paper-abs-only")
	path := writePaperMeta(t, tmpDir, paper)

	_, chunks, err := store.IngestFile(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if chunks != 1 {
		t.Errorf("chunks = %d, want 1", chunks)
	}

	hits, err := store.SearchChunks(ctx, "efficient attention mechanism", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].PaperID != paper.ID {
		t.Errorf("PaperID = %q", hits[0].PaperID)
	}
}

func TestIngestSanitizesAbstractMarkup(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	paper := samplePaper("paper-html")
	paper.Abstract = "<p>We study <b>graph</b> ranking.</p>"
	path := writePaperMeta(t, tmpDir, paper)

	if _, _, err := store.IngestFile(ctx, path); err != nil {
		t.Fatal(err)
	}
	got, err := store.PaperByID(ctx, paper.ID)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got.Abstract, "<") {
		t.Errorf("abstract still contains markup: %q", got.Abstract)
	}
	if !strings.Contains(got.Abstract, "graph") {
		t.Errorf("abstract lost text content: %q", got.Abstract)
	}
}

func TestSearchChunksRanksAndLimits(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	for i, id := range []string{"paper-a", "paper-b", "paper-c"} {
		p := samplePaper(id)
		path := writePaperMeta(t, tmpDir, p)
		body := "generic words about science methods and data"
		if i == 0 {
			body = "pagerank pagerank pagerank centrality on citation graphs"
		}
		writeMarkdown(t, tmpDir, id, body)
		if _, _, err := store.IngestFile(ctx, path); err != nil {
			t.Fatal(err)
		}
	}

	hits, err := store.SearchChunks(ctx, "pagerank", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) == 0 {
		t.Fatal("expected hits for pagerank")
	}
	if hits[0].PaperID != "paper-a" {
		t.Errorf("best hit paper = %q, want paper-a", hits[0].PaperID)
	}
	if len(hits) > 2 {
		t.Errorf("hits = %d, want at most 2", len(hits))
	}
}

func TestSearchChunksEmptyQuery(t *testing.T) {
	store, _ := testSetup(t)

	hits, err := store.SearchChunks(context.Background(), "  !!! ", 5)
	if err != nil {
		t.Fatal(err)
	}
	if hits != nil {
		t.Errorf("expected no hits for punctuation-only query, got %d", len(hits))
	}
}

func TestPaperByIDNotFound(t *testing.T) {
	store, _ := testSetup(t)

	_, err := store.PaperByID(context.Background(), "missing")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not-found error", err)
	}
}

func TestPapersOrderedByID(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	for _, id := range []string{"paper-z", "paper-a", "paper-m"} {
		path := writePaperMeta(t, tmpDir, samplePaper(id))
		if _, _, err := store.IngestFile(ctx, path); err != nil {
			t.Fatal(err)
		}
	}

	papers, err := store.Papers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 3 {
		t.Fatalf("papers = %d, want 3", len(papers))
	}
	want := []string{"paper-a", "paper-m", "paper-z"}
	for i, p := range papers {
		if p.ID != want[i] {
			t.Errorf("papers[%d].ID = %q, want %q", i, p.ID, want[i])
		}
	}
}

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name    string
		words   int
		size    int
		overlap int
		want    int
	}{
		{"empty", 0, 10, 2, 0},
		{"single window", 5, 10, 2, 1},
		{"exact window", 10, 10, 2, 1},
		{"two windows", 15, 10, 5, 2},
		{"no overlap", 20, 10, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.TrimSpace(strings.Repeat("word ", tt.words))
			chunks := splitChunks(text, tt.size, tt.overlap)
			if len(chunks) != tt.want {
				t.Errorf("chunks = %d, want %d", len(chunks), tt.want)
			}
		})
	}
}

func TestFTSQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"single term", "pagerank", `"pagerank"`},
		{"quotes injection", `"foo" OR bar`, `"bar" OR "foo" OR "or"`},
		{"dedup", "graph graph", `"graph"`},
		{"punctuation only", "?!.,", ""},
		{"mixed case", "PageRank Graph", `"graph" OR "pagerank"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ftsQuery(tt.query); got != tt.want {
				t.Errorf("ftsQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestIngestWritesProgress(t *testing.T) {
	store, tmpDir := testSetup(t)
	ctx := context.Background()

	writePaperMeta(t, tmpDir, samplePaper("paper-one"))
	writePaperMeta(t, tmpDir, samplePaper("paper-two"))

	var buf strings.Builder
	summary, err := store.Ingest(ctx, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Indexed != 2 {
		t.Errorf("Indexed = %d, want 2", summary.Indexed)
	}
	if summary.Total() != 2 {
		t.Errorf("Total = %d, want 2", summary.Total())
	}
	out := buf.String()
	if !strings.Contains(out, "paper-one.yaml") || !strings.Contains(out, "paper-two.yaml") {
		t.Errorf("progress output missing paper lines:\n%s", out)
	}
}
