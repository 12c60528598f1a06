// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// EmbeddingConfig holds settings for the embedding service.
type EmbeddingConfig struct {
	// Model is the embedding model identifier (e.g. "text-embedding-3-small").
	Model string `json:"model" yaml:"model"`

	// Endpoint is the embedding API base URL. Empty selects the built-in
	// deterministic local model (useful for offline runs and tests).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// APIKey authenticates against the embedding API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Dimensions is the expected vector dimensionality.
	Dimensions int `json:"dimensions" yaml:"dimensions"`

	// Workers caps concurrent embedding generation (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// Timeout is the per-request embedding timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// CacheConfig holds settings for the two-tier embedding cache.
type CacheConfig struct {
	// MemoryEntries caps the in-memory LRU tier (default 10000).
	MemoryEntries int `json:"memory_entries" yaml:"memory_entries"`

	// Path locates the persistent sqlite tier. Empty disables the tier.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// TTL evicts persistent entries older than this age (default 30 days).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// RerankConfig holds settings for the semantic reranker.
type RerankConfig struct {
	// RecallSize is the lexical top-K subset the reranker works on (default 1000).
	RecallSize int `json:"recall_size" yaml:"recall_size"`

	// MinEmbeddedFraction is the fraction of the recall subset that must embed
	// successfully before semantic scores are used; below it the stage
	// degrades to the lexical ordering (default 0.5).
	MinEmbeddedFraction float64 `json:"min_embedded_fraction" yaml:"min_embedded_fraction"`
}

// RankConfig groups the configuration for one ranking pipeline instance.
type RankConfig struct {
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Rerank    RerankConfig    `json:"rerank" yaml:"rerank"`

	// WeightsFile points at a YAML purpose weight/threshold table. Empty uses
	// the built-in defaults.
	WeightsFile string `json:"weights_file,omitempty" yaml:"weights_file,omitempty"`
}

// ApplyDefaults fills zero-valued fields with the documented defaults.
func (c *RankConfig) ApplyDefaults() {
	if c.Embedding.Model == "" {
		c.Embedding.Model = "local-hash-v1"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 384
	}
	if c.Embedding.Workers <= 0 {
		c.Embedding.Workers = 4
	}
	if c.Embedding.Timeout <= 0 {
		c.Embedding.Timeout = 30 * time.Second
	}
	if c.Cache.MemoryEntries <= 0 {
		c.Cache.MemoryEntries = 10000
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 30 * 24 * time.Hour
	}
	if c.Rerank.RecallSize <= 0 {
		c.Rerank.RecallSize = 1000
	}
	if c.Rerank.MinEmbeddedFraction <= 0 {
		c.Rerank.MinEmbeddedFraction = 0.5
	}
}
