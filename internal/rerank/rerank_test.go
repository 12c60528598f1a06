// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rerank

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pdiddy/relevance-engine/internal/embed"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

type failingModel struct{ dim int }

func (m *failingModel) Name() string    { return "failing-v1" }
func (m *failingModel) Dimensions() int { return m.dim }
func (m *failingModel) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("model unavailable")
}

func newService(t *testing.T, model embed.Model) *embed.Service {
	t.Helper()
	cache, err := embed.NewCache(types.CacheConfig{MemoryEntries: 1000})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cache.Close() })

	svc, err := embed.NewService(model, cache, 4, 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(svc.Close)
	return svc
}

func pool(n int) []*types.Candidate {
	cands := make([]*types.Candidate, n)
	for i := range cands {
		cands[i] = &types.Candidate{
			ID:           fmt.Sprintf("c%03d", i),
			Title:        fmt.Sprintf("climate adaptation study %d", i),
			Abstract:     "urban resilience and adaptation planning",
			LexicalScore: float64(n - i),
		}
	}
	return cands
}

func TestRerankScoresRecallSubsetOnly(t *testing.T) {
	svc := newService(t, embed.NewLocalModel(32))
	r := New(svc, types.RerankConfig{RecallSize: 5, MinEmbeddedFraction: 0.5})

	cands := pool(20)
	queryEmb, err := svc.Embed(context.Background(), "climate adaptation")
	if err != nil {
		t.Fatal(err)
	}

	res := r.Rerank(context.Background(), cands, queryEmb)
	if res.Degraded {
		t.Fatalf("unexpected degradation: %s", res.Note)
	}
	if res.Scored != 5 {
		t.Errorf("Scored = %d, want 5", res.Scored)
	}

	// Top 5 by lexical score carry semantic scores; the rest do not.
	for i, c := range cands {
		hasScore := c.SemanticScore != nil
		wantScore := i < 5
		if hasScore != wantScore {
			t.Errorf("candidate %s (rank %d): semantic score set = %v, want %v", c.ID, i, hasScore, wantScore)
		}
	}
}

func TestRerankEmptyPoolDegrades(t *testing.T) {
	svc := newService(t, embed.NewLocalModel(32))
	r := New(svc, types.RerankConfig{})

	queryEmb, err := svc.Embed(context.Background(), "anything")
	if err != nil {
		t.Fatal(err)
	}

	res := r.Rerank(context.Background(), nil, queryEmb)
	if !res.Degraded {
		t.Error("empty pool must degrade, not score")
	}
}

func TestRerankAllEmbeddingsFailingDegrades(t *testing.T) {
	// The query embedding comes from a working service; candidate embedding
	// uses the failing model, so every item fails and the stage degrades.
	working := newService(t, embed.NewLocalModel(32))
	queryEmb, err := working.Embed(context.Background(), "climate adaptation")
	if err != nil {
		t.Fatal(err)
	}

	failing := newService(t, &failingModel{dim: 32})
	r := New(failing, types.RerankConfig{RecallSize: 10})

	cands := pool(10)
	res := r.Rerank(context.Background(), cands, queryEmb)

	if !res.Degraded {
		t.Fatal("total embedding failure must degrade the stage")
	}
	for _, c := range cands {
		if c.SemanticScore != nil {
			t.Errorf("candidate %s kept a partial semantic score after degradation", c.ID)
		}
	}
}

func TestRerankZeroQueryEmbeddingDegrades(t *testing.T) {
	svc := newService(t, embed.NewLocalModel(32))
	r := New(svc, types.RerankConfig{})

	res := r.Rerank(context.Background(), pool(5), types.Embedding{})
	if !res.Degraded {
		t.Error("zero query embedding must degrade the stage")
	}
}

func TestRerankSimilarityUsesStoredNorms(t *testing.T) {
	svc := newService(t, embed.NewLocalModel(32))
	r := New(svc, types.RerankConfig{RecallSize: 3})

	cands := pool(3)
	queryEmb, err := svc.Embed(context.Background(), "climate adaptation study 0")
	if err != nil {
		t.Fatal(err)
	}

	res := r.Rerank(context.Background(), cands, queryEmb)
	if res.Degraded {
		t.Fatalf("unexpected degradation: %s", res.Note)
	}

	for _, c := range cands {
		if c.SemanticScore == nil {
			t.Fatalf("candidate %s missing semantic score", c.ID)
		}
		if *c.SemanticScore < -1.0001 || *c.SemanticScore > 1.0001 {
			t.Errorf("cosine similarity %f outside [-1,1]", *c.SemanticScore)
		}
	}
}

func TestRecallSubsetDeterministicOnTies(t *testing.T) {
	svc := newService(t, embed.NewLocalModel(32))
	r := New(svc, types.RerankConfig{RecallSize: 2})

	tied := []*types.Candidate{
		{ID: "b", Title: "x", LexicalScore: 5},
		{ID: "a", Title: "y", LexicalScore: 5},
		{ID: "c", Title: "z", LexicalScore: 5},
	}
	subset := r.recallSubset(tied)

	if subset[0].ID != "a" || subset[1].ID != "b" {
		t.Errorf("tie-break by ID broken: got %s, %s", subset[0].ID, subset[1].ID)
	}
}
