// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rerank computes higher-precision relevance scores with embedding
// similarity over a bounded recall subset of the lexically ranked pool.
// Semantic scoring is best-effort: when the subset is empty or too few of its
// members embed successfully the stage reports degradation and the pipeline
// continues on lexical scores alone.
package rerank

import (
	"context"
	"fmt"
	"sort"

	"github.com/pdiddy/relevance-engine/internal/embed"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Reranker scores the lexical top-K against the query embedding.
type Reranker struct {
	svc                 *embed.Service
	recallSize          int
	minEmbeddedFraction float64
}

// New builds a reranker over the shared embedding service.
func New(svc *embed.Service, cfg types.RerankConfig) *Reranker {
	recall := cfg.RecallSize
	if recall <= 0 {
		recall = 1000
	}
	minFrac := cfg.MinEmbeddedFraction
	if minFrac <= 0 {
		minFrac = 0.5
	}
	return &Reranker{svc: svc, recallSize: recall, minEmbeddedFraction: minFrac}
}

// QueryEmbedding embeds the raw query once per run.
func (r *Reranker) QueryEmbedding(ctx context.Context, qc *types.QueryContext) (types.Embedding, error) {
	return r.svc.Embed(ctx, qc.RawQuery)
}

// Result reports what the reranker did with the pool.
type Result struct {
	// Scored is how many candidates received a semantic score.
	Scored int

	// Degraded is true when no semantic scores are usable and later stages
	// must rank by lexical score. This is a normal, reported outcome.
	Degraded bool

	// Note explains a degradation for stage statistics.
	Note string
}

// Rerank sets SemanticScore on the recall subset in place. Embeddings are
// generated in a bounded batch; a candidate whose embedding fails is simply
// excluded from semantic scoring. When fewer than the configured fraction of
// the subset embeds, all partial scores are cleared so the ordering falls back
// to pure lexical rather than mixing scales.
func (r *Reranker) Rerank(ctx context.Context, candidates []*types.Candidate, queryEmb types.Embedding) Result {
	subset := r.recallSubset(candidates)
	if len(subset) == 0 {
		return Result{Degraded: true, Note: "recall subset is empty"}
	}
	if queryEmb.IsZero() {
		return Result{Degraded: true, Note: "query embedding unavailable"}
	}

	texts := make([]string, len(subset))
	byID := make(map[string]*types.Candidate, len(subset))
	ids := make([]string, len(subset))
	for i, c := range subset {
		texts[i] = embedText(c)
		ids[i] = c.ID
		byID[c.ID] = c
	}

	// Batch results come back per index in no guaranteed completion order;
	// scores are merged by candidate identifier, never by position.
	embedded := 0
	for _, res := range r.svc.EmbedBatch(ctx, texts) {
		if res.Err != nil {
			continue
		}
		c, ok := byID[ids[res.Index]]
		if !ok {
			continue
		}
		score := types.CosineSimilarity(queryEmb, res.Embedding)
		c.SemanticScore = &score
		embedded++
	}

	if float64(embedded) < r.minEmbeddedFraction*float64(len(subset)) {
		for _, c := range subset {
			c.SemanticScore = nil
		}
		return Result{
			Degraded: true,
			Note: fmt.Sprintf("only %d/%d recall candidates embedded (minimum fraction %.2f)",
				embedded, len(subset), r.minEmbeddedFraction),
		}
	}

	return Result{Scored: embedded}
}

// recallSubset returns the top-K candidates by lexical score. Ties break on
// identifier so the subset is deterministic across runs.
func (r *Reranker) recallSubset(candidates []*types.Candidate) []*types.Candidate {
	subset := make([]*types.Candidate, len(candidates))
	copy(subset, candidates)
	sort.Slice(subset, func(i, j int) bool {
		if subset[i].LexicalScore != subset[j].LexicalScore {
			return subset[i].LexicalScore > subset[j].LexicalScore
		}
		return subset[i].ID < subset[j].ID
	})
	if len(subset) > r.recallSize {
		subset = subset[:r.recallSize]
	}
	return subset
}

// embedText is the candidate text handed to the embedding model: title plus
// abstract, the fields every source populates most reliably.
func embedText(c *types.Candidate) string {
	if c.Abstract == "" {
		return c.Title
	}
	return c.Title + " " + c.Abstract
}
