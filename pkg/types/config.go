package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperrank/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ClientConfig holds settings for the search client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the full URL of the search endpoint
	// (default "http://localhost:8080/search").
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// APIKey is sent as X-API-Key when non-empty.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries bounds 429 retries (0 = library default).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// IndexConfig holds settings for the paper index.
type IndexConfig struct {
	// DataDir is the base directory for the index (contains index/paperrank.db).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// PapersDir is the base directory for papers (contains metadata/, markdown/).
	PapersDir string `json:"papers_dir" yaml:"papers_dir"`

	// ChunkWords is the chunk size in words (default 180).
	ChunkWords int `json:"chunk_words" yaml:"chunk_words"`

	// ChunkOverlap is the word overlap between consecutive chunks (default 30).
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`
}

// RetrievalConfig holds settings for the retrieval pipeline.
type RetrievalConfig struct {
	// KChunks is the initial chunk fan-out per query (default 5).
	KChunks int `json:"k_chunks" yaml:"k_chunks"`

	// KDocs is the number of distinct papers to return (default 3).
	KDocs int `json:"k_docs" yaml:"k_docs"`

	// MaxExpansions bounds the k-expansion rounds (default 4).
	MaxExpansions int `json:"max_expansions" yaml:"max_expansions"`

	// RRFK is the reciprocal-rank-fusion constant (default 60).
	RRFK int `json:"rrf_k" yaml:"rrf_k"`
}

// ServerConfig holds settings for the HTTP search server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// RateLimit is the sustained requests-per-second budget (default 20).
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`

	// RateBurst is the token-bucket burst size (default 40).
	RateBurst int `json:"rate_burst" yaml:"rate_burst"`

	// APIKey, when non-empty, is required in the X-API-Key header of
	// search requests.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// EngineConfig groups all component configurations.
type EngineConfig struct {
	Client    ClientConfig    `json:"client" yaml:"client"`
	Index     IndexConfig     `json:"index" yaml:"index"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Server    ServerConfig    `json:"server" yaml:"server"`
}
