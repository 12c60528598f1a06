// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"fmt"
	"sync"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// BatchResult is the outcome for one item of an EmbedBatch call. Results are
// reported per input index; callers merge them back by their own identifiers,
// never by completion order.
type BatchResult struct {
	Index     int
	Embedding types.Embedding
	Err       error
}

// EmbedBatch embeds texts concurrently, bounded by the service's worker pool.
// A failed item is retried once on another worker slot, then generated
// synchronously in the calling goroutine; only when all three attempts fail
// does its result carry ErrEmbeddingFailed. The batch itself never fails for
// per-item errors — the returned slice always has len(texts) entries.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) []BatchResult {
	results := make([]BatchResult, len(texts))

	// Validate up front; invalid items never reach a worker.
	pending := make([]int, 0, len(texts))
	norms := make([]string, len(texts))
	for i, text := range texts {
		results[i].Index = i
		norms[i] = normalizeText(text)
		if norms[i] == "" {
			results[i].Err = fmt.Errorf("%w: empty text at index %d", types.ErrInvalidInput, i)
			continue
		}
		pending = append(pending, i)
	}

	// Two pooled waves: the initial attempt plus one retry on a fresh slot.
	for attempt := 0; attempt < 2 && len(pending) > 0; attempt++ {
		pending = s.runWave(ctx, norms, results, pending)
	}

	// Last resort: synchronous, in-process generation.
	for _, i := range pending {
		results[i].Embedding, results[i].Err = s.embedNormalized(ctx, norms[i])
	}

	return results
}

// runWave submits the pending indices to the pool and returns those that
// failed. When the pool rejects a submission the item falls through to the
// next wave rather than erroring out.
func (s *Service) runWave(ctx context.Context, norms []string, results []BatchResult, pending []int) []int {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed []int

	for _, i := range pending {
		if ctx.Err() != nil {
			// Cancelled mid-batch: surface the context error on the rest.
			mu.Lock()
			failed = append(failed, i)
			mu.Unlock()
			continue
		}

		i := i
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			emb, err := s.embedNormalized(ctx, norms[i])
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, i)
				return
			}
			results[i].Embedding = emb
			results[i].Err = nil
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			failed = append(failed, i)
			mu.Unlock()
		}
	}

	wg.Wait()
	return failed
}
