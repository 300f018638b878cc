// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperrank/pkg/types"
)

// abstractPolicy strips any markup carried over from source APIs; indexed
// abstracts are plain text.
var abstractPolicy = bluemonday.StrictPolicy()

// IngestStatus reports what happened to a single paper during ingestion.
type IngestStatus string

const (
	StatusIndexed IngestStatus = "indexed"
	StatusUpdated IngestStatus = "updated"
	StatusSkipped IngestStatus = "skipped"
)

// IngestSummary holds counts from an index ingestion run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of papers processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// MetadataFiles lists the metadata YAML files under papersDir/metadata/.
func (s *Store) MetadataFiles() ([]string, error) {
	metaDir := filepath.Join(s.papersDir, metadataDir)
	entries, err := os.ReadDir(metaDir)
	if err != nil {
		return nil, fmt.Errorf("reading metadata directory %s: %w", metaDir, err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		files = append(files, filepath.Join(metaDir, name))
	}
	return files, nil
}

// Ingest indexes every metadata file under papersDir, writing one progress
// line per paper to w. Unchanged papers are skipped based on the metadata
// file's modification time.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	files, err := s.MetadataFiles()
	if err != nil {
		return IngestSummary{}, err
	}

	var summary IngestSummary
	for _, path := range files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		status, chunks, err := s.IngestFile(ctx, path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", filepath.Base(path), err)
			summary.Failed++
			continue
		}

		switch status {
		case StatusSkipped:
			fmt.Fprintf(w, "skipped %s\n", filepath.Base(path))
			summary.Skipped++
		case StatusUpdated:
			fmt.Fprintf(w, "updated %s (%d chunks)\n", filepath.Base(path), chunks)
			summary.Updated++
		default:
			fmt.Fprintf(w, "indexed %s (%d chunks)\n", filepath.Base(path), chunks)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

// IngestFile indexes a single metadata YAML file and the markdown full
// text next to it. It returns the resulting status and the number of
// chunks written (zero for skips).
func (s *Store) IngestFile(ctx context.Context, path string) (IngestStatus, int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("stat %s: %w", path, err)
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("reading %s: %w", path, err)
	}

	var paper types.Paper
	if err := yaml.Unmarshal(data, &paper); err != nil {
		return "", 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	if paper.ID == "" {
		paper.ID = strings.TrimSuffix(strings.TrimSuffix(filepath.Base(path), ".yaml"), ".yml")
	}
	paper.Abstract = strings.TrimSpace(abstractPolicy.Sanitize(paper.Abstract))

	// Skip papers whose metadata has not changed since the last run.
	var storedModTime string
	err = s.db.QueryRowContext(ctx,
		`SELECT file_mod_time FROM indexing_status WHERE paper_id = ?`, paper.ID,
	).Scan(&storedModTime)
	if err == nil && storedModTime == modTime {
		return StatusSkipped, 0, nil
	}
	isUpdate := err == nil

	chunks := s.chunkPaper(paper)

	if err := s.writePaper(ctx, paper, chunks, modTime, isUpdate); err != nil {
		return "", 0, err
	}

	if isUpdate {
		return StatusUpdated, len(chunks), nil
	}
	return StatusIndexed, len(chunks), nil
}

// chunkPaper produces the chunk texts for a paper: the markdown full text
// split into overlapping word windows, or the abstract alone when no
// markdown file exists.
func (s *Store) chunkPaper(paper types.Paper) []string {
	mdPath := filepath.Join(s.papersDir, markdownDir, paper.ID+".md")
	text, err := os.ReadFile(mdPath)
	if err != nil {
		if paper.Abstract == "" {
			return nil
		}
		return []string{paper.Abstract}
	}
	return splitChunks(string(text), s.chunkWords, s.chunkOverlap)
}

// splitChunks windows text into chunks of size words with overlap words
// shared between consecutive chunks.
func splitChunks(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

func (s *Store) writePaper(ctx context.Context, paper types.Paper, chunks []string, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE paper_id = ?`, paper.ID); err != nil {
			return fmt.Errorf("deleting old chunks: %w", err)
		}
	}

	authorsJSON := mustJSON(paper.Authors)
	refsJSON := mustJSON(paper.References)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers (id, title, authors, year, abstract, url, refs)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, year=excluded.year,
			abstract=excluded.abstract, url=excluded.url, refs=excluded.refs`,
		paper.ID, paper.Title, authorsJSON, paper.Year, paper.Abstract, paper.URL, refsJSON,
	)
	if err != nil {
		return fmt.Errorf("upserting paper: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO chunks (id, paper_id, seq, content) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for i, content := range chunks {
		chunkID := fmt.Sprintf("%s-%04d", paper.ID, i)
		if _, err := stmt.ExecContext(ctx, chunkID, paper.ID, i, content); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunkID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (paper_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(paper_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		paper.ID, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

func mustJSON(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}
