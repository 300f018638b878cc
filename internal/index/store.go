// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index persists paper metadata and full-text chunks in SQLite
// and serves ranked chunk lookups through an FTS5 index.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paperrank/pkg/types"
)

const (
	metadataDir = "metadata"
	markdownDir = "markdown"
	indexDir    = "index"
	dbFile      = "paperrank.db"
)

// Store manages the paper index SQLite database.
type Store struct {
	db           *sql.DB
	papersDir    string
	chunkWords   int
	chunkOverlap int
}

// NewStore opens or creates the index database at dataDir/index/paperrank.db
// and creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	chunkWords := cfg.ChunkWords
	if chunkWords <= 0 {
		chunkWords = 180
	}
	chunkOverlap := cfg.ChunkOverlap
	if chunkOverlap < 0 || chunkOverlap >= chunkWords {
		chunkOverlap = 30
	}

	s := &Store{
		db:           db,
		papersDir:    cfg.PapersDir,
		chunkWords:   chunkWords,
		chunkOverlap: chunkOverlap,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			authors TEXT,
			year INTEGER,
			abstract TEXT,
			url TEXT,
			refs TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS chunks (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			paper_id TEXT NOT NULL REFERENCES papers(id),
			seq INTEGER NOT NULL,
			content TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_paper_id ON chunks(paper_id)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			paper_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='chunks_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE chunks_fts USING fts5(content, content=chunks, content_rowid=rowid)`,
			`CREATE TRIGGER chunks_ai AFTER INSERT ON chunks BEGIN
				INSERT INTO chunks_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
			`CREATE TRIGGER chunks_ad AFTER DELETE ON chunks BEGIN
				INSERT INTO chunks_fts(chunks_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			END`,
			`CREATE TRIGGER chunks_au AFTER UPDATE ON chunks BEGIN
				INSERT INTO chunks_fts(chunks_fts, rowid, content) VALUES('delete', old.rowid, old.content);
				INSERT INTO chunks_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// ChunkHit is one ranked chunk returned by a full-text lookup.
type ChunkHit struct {
	ChunkID string
	PaperID string
	Seq     int
	Content string

	// Rank is the FTS5 bm25 rank; lower is better.
	Rank float64
}

// SearchChunks runs a full-text query over the chunk index and returns up
// to k hits, best rank first. The raw query is reduced to quoted terms
// joined with OR so user punctuation cannot break FTS5 syntax.
func (s *Store) SearchChunks(ctx context.Context, query string, k int) ([]ChunkHit, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	if k <= 0 {
		k = 5
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.paper_id, c.seq, c.content, chunks_fts.rank
		 FROM chunks_fts
		 JOIN chunks c ON c.rowid = chunks_fts.rowid
		 WHERE chunks_fts MATCH ?
		 ORDER BY chunks_fts.rank
		 LIMIT ?`, match, k)
	if err != nil {
		return nil, fmt.Errorf("querying chunk index: %w", err)
	}
	defer rows.Close()

	var hits []ChunkHit
	for rows.Next() {
		var h ChunkHit
		if err := rows.Scan(&h.ChunkID, &h.PaperID, &h.Seq, &h.Content, &h.Rank); err != nil {
			return nil, fmt.Errorf("scanning chunk row: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// ChunkCount returns the total number of indexed chunks.
func (s *Store) ChunkCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// PaperByID returns the stored metadata for one paper.
func (s *Store) PaperByID(ctx context.Context, id string) (*types.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, authors, year, abstract, url, refs FROM papers WHERE id = ?`, id)
	p, err := scanPaper(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("paper %s not found", id)
		}
		return nil, fmt.Errorf("looking up paper %s: %w", id, err)
	}
	return p, nil
}

// Papers returns all stored paper records ordered by ID.
func (s *Store) Papers(ctx context.Context) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, year, abstract, url, refs FROM papers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning paper row: %w", err)
		}
		papers = append(papers, *p)
	}
	return papers, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (*types.Paper, error) {
	var (
		p           types.Paper
		authorsJSON sql.NullString
		refsJSON    sql.NullString
		title       sql.NullString
		abstract    sql.NullString
		url         sql.NullString
		year        sql.NullInt64
	)
	if err := row.Scan(&p.ID, &title, &authorsJSON, &year, &abstract, &url, &refsJSON); err != nil {
		return nil, err
	}
	p.Title = title.String
	p.Abstract = abstract.String
	p.URL = url.String
	p.Year = int(year.Int64)
	if authorsJSON.Valid {
		json.Unmarshal([]byte(authorsJSON.String), &p.Authors)
	}
	if refsJSON.Valid {
		json.Unmarshal([]byte(refsJSON.String), &p.References)
	}
	return &p, nil
}

// ftsQuery reduces free text to an FTS5 match expression: each
// alphanumeric term double-quoted, terms joined with OR, deduplicated.
func ftsQuery(query string) string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r > 127)
	})

	seen := make(map[string]bool)
	var terms []string
	for _, f := range fields {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, `"`+f+`"`)
	}
	sort.Strings(terms)
	return strings.Join(terms, " OR ")
}
