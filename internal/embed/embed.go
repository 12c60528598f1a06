// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed turns text into fixed-length vectors behind a deterministic
// two-tier cache. The semantic reranker is its only in-pipeline caller, but the
// service is shared across concurrent runs: the cache is the one piece of state
// that outlives a single pipeline invocation.
package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Model generates a raw vector for one text. Implementations must be
// deterministic per model version: the same text always yields the same vector.
// They must also be safe for concurrent use.
type Model interface {
	// Name identifies the model and version (part of every cache key).
	Name() string

	// Dimensions is the fixed output dimensionality.
	Dimensions() int

	// Embed generates the vector for text. Text is already normalized and
	// non-empty when the service calls this.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Service is the embedding front door: validation, normalization, cache
// lookup, bounded-concurrency batch generation.
type Service struct {
	model   Model
	cache   *Cache
	pool    *ants.Pool
	timeout time.Duration
}

// NewService wires a model to a cache with a bounded worker pool of the given
// size. Callers own the cache lifecycle; Close releases only the pool.
func NewService(model Model, cache *Cache, workers int, timeout time.Duration) (*Service, error) {
	if model == nil {
		return nil, fmt.Errorf("embedding model required")
	}
	if cache == nil {
		return nil, fmt.Errorf("embedding cache required")
	}
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("creating embedding worker pool: %w", err)
	}

	return &Service{
		model:   model,
		cache:   cache,
		pool:    pool,
		timeout: timeout,
	}, nil
}

// Close releases the worker pool.
func (s *Service) Close() {
	s.pool.Release()
}

// Model returns the wired model's identifier.
func (s *Service) Model() string { return s.model.Name() }

// Embed returns the embedding for text, generating and caching it on a miss.
// Empty or whitespace-only text is ErrInvalidInput.
func (s *Service) Embed(ctx context.Context, text string) (types.Embedding, error) {
	norm := normalizeText(text)
	if norm == "" {
		return types.Embedding{}, fmt.Errorf("%w: empty text", types.ErrInvalidInput)
	}
	return s.embedNormalized(ctx, norm)
}

// embedNormalized is the shared miss path. Generation is deterministic, so a
// write race on the same key is idempotent: whichever writer wins, the stored
// value is the same.
func (s *Service) embedNormalized(ctx context.Context, norm string) (types.Embedding, error) {
	key := cacheKey(s.model.Name(), norm)
	if emb, ok := s.cache.Get(key); ok {
		return emb, nil
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vec, err := s.model.Embed(genCtx, norm)
	if err != nil {
		return types.Embedding{}, fmt.Errorf("%w: %v", types.ErrEmbeddingFailed, err)
	}
	if len(vec) != s.model.Dimensions() {
		return types.Embedding{}, fmt.Errorf("%w: model %s returned %d dimensions, want %d",
			types.ErrEmbeddingFailed, s.model.Name(), len(vec), s.model.Dimensions())
	}

	emb := types.NewEmbedding(vec, s.model.Name())
	s.cache.Put(key, emb)
	return emb, nil
}

// normalizeText collapses whitespace so formatting differences between sources
// do not fragment the cache.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// cacheKey hashes (model identifier, normalized text). The NUL separator keeps
// distinct (model, text) pairs from colliding.
func cacheKey(model, normText string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + normText))
	return hex.EncodeToString(sum[:])
}
