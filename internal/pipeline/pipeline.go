// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the ranking stages over one candidate pool:
// lexical recall → semantic rerank → domain/aspect filter → quality scoring →
// adaptive threshold → diversity sampling. The orchestrator records stage
// statistics, contains per-stage failures as logged pass-throughs, honors
// cancellation between stages, and never returns more candidates than the
// query's band maximum.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/pdiddy/relevance-engine/internal/diversity"
	"github.com/pdiddy/relevance-engine/internal/embed"
	"github.com/pdiddy/relevance-engine/internal/filter"
	"github.com/pdiddy/relevance-engine/internal/lexical"
	"github.com/pdiddy/relevance-engine/internal/quality"
	"github.com/pdiddy/relevance-engine/internal/rerank"
	"github.com/pdiddy/relevance-engine/internal/threshold"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Pipeline holds the per-process collaborators. The embedding service (and
// its cache) is the only state shared across runs; everything per-request
// lives in the QueryContext and the candidate slice.
type Pipeline struct {
	reranker *rerank.Reranker
	scorer   *quality.Scorer
	logger   *slog.Logger
}

// Option configures optional pipeline behavior.
type Option func(*Pipeline)

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New assembles a pipeline over a shared embedding service and a validated
// quality scorer.
func New(svc *embed.Service, rerankCfg types.RerankConfig, scorer *quality.Scorer, opts ...Option) *Pipeline {
	p := &Pipeline{
		reranker: rerank.New(svc, rerankCfg),
		scorer:   scorer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the pipeline's output contract: a bounded, ordered candidate list
// plus the per-stage statistics and reported conditions for the run.
type Result struct {
	// Candidates is ordered best-first and never longer than the band maximum.
	Candidates []*types.Candidate `json:"candidates" yaml:"candidates"`

	// Stats lists one record per stage, in execution order.
	Stats []StageStats `json:"stats" yaml:"stats"`

	// DegradedStages names the stages that produced pass-through output.
	DegradedStages []string `json:"degraded_stages,omitempty" yaml:"degraded_stages,omitempty"`

	// Threshold reports where the adaptive controller stopped, including the
	// exhausted condition.
	Threshold threshold.Result `json:"threshold" yaml:"threshold"`
}

// stageFunc transforms the candidate set. A degraded stage returns its reason;
// the orchestrator records it and keeps the returned (usually unchanged) set.
type stageFunc func(in []*types.Candidate) (out []*types.Candidate, degraded bool, note string)

// Run executes the full pipeline for one request.
//
// Hard errors are limited to malformed top-level input and cancellation;
// everything else degrades per stage. An empty candidate pool runs every
// stage with zero counts and returns an empty result, not an error.
func (p *Pipeline) Run(ctx context.Context, candidates []*types.Candidate, qc *types.QueryContext) (*Result, error) {
	return p.run(ctx, candidates, qc, nil)
}

func (p *Pipeline) run(ctx context.Context, candidates []*types.Candidate, qc *types.QueryContext, emit func(StageStats)) (*Result, error) {
	if err := qc.Validate(); err != nil {
		return nil, err
	}
	profile, err := p.scorer.Tables().Profile(qc.Purpose)
	if err != nil {
		return nil, err
	}

	for _, c := range candidates {
		c.EnsureID()
	}

	res := &Result{}
	current := candidates

	stages := []struct {
		name string
		fn   stageFunc
	}{
		{StageLexical, func(in []*types.Candidate) ([]*types.Candidate, bool, string) {
			lexical.Score(in, qc)
			return in, false, ""
		}},
		{StageSemantic, func(in []*types.Candidate) ([]*types.Candidate, bool, string) {
			return p.runSemantic(ctx, in, qc)
		}},
		{StageFilter, func(in []*types.Candidate) ([]*types.Candidate, bool, string) {
			return filter.Apply(in, qc), false, ""
		}},
		{StageQuality, func(in []*types.Candidate) ([]*types.Candidate, bool, string) {
			floor := profile.Thresholds[len(profile.Thresholds)-1]
			kept, _, err := p.scorer.ScoreBatch(in, qc.Purpose, floor)
			if err != nil {
				return in, true, err.Error()
			}
			return kept, false, ""
		}},
		{StageThreshold, func(in []*types.Candidate) ([]*types.Candidate, bool, string) {
			ctrl := threshold.New(profile.Thresholds, qc.Band)
			out, tr := ctrl.Run(in)
			res.Threshold = tr
			if tr.State == threshold.StateExhausted {
				return out, false, fmt.Sprintf("threshold exhausted: %d survivors at %.0f", tr.Survivors, tr.Threshold)
			}
			return out, false, ""
		}},
		{StageDiversity, func(in []*types.Candidate) ([]*types.Candidate, bool, string) {
			if !profile.RequireDiversity {
				return in, false, ""
			}
			return diversity.Sample(in, qc.Band, profile.DiversityFloor), false, ""
		}},
	}

	for _, st := range stages {
		// Cancellation is checked before every stage so a cancelled request
		// terminates at the next boundary instead of completing the pipeline.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stats := p.runStage(st.name, st.fn, &current)
		res.Stats = append(res.Stats, stats)
		if stats.Degraded {
			res.DegradedStages = append(res.DegradedStages, st.name)
		}
		if emit != nil {
			emit(stats)
		}
	}

	res.Candidates = finalize(current, qc.Band.Max)
	return res, nil
}

// runStage times one stage and contains its failures: a panic inside a stage
// is logged with stage identity and treated as "stage produced its input
// unchanged" rather than aborting the run.
func (p *Pipeline) runStage(name string, fn stageFunc, current *[]*types.Candidate) (stats StageStats) {
	in := *current
	start := time.Now()

	stats = StageStats{Stage: name, In: len(in)}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("stage panicked, passing input through",
				"stage", name, "panic", r)
			stats.Degraded = true
			stats.Note = fmt.Sprintf("stage failure: %v", r)
			stats.Out = len(in)
			stats.Elapsed = time.Since(start)
			*current = in
		}
	}()

	out, degraded, note := fn(in)

	stats.Out = len(out)
	stats.Elapsed = time.Since(start)
	stats.Degraded = degraded
	stats.Note = note
	if degraded {
		p.logger.Warn("stage degraded", "stage", name, "note", note)
	}

	*current = out
	return stats
}

// runSemantic embeds the query, then reranks the recall subset. Any
// degradation leaves the pool unchanged and lexically ordered.
func (p *Pipeline) runSemantic(ctx context.Context, in []*types.Candidate, qc *types.QueryContext) ([]*types.Candidate, bool, string) {
	queryEmb, err := p.reranker.QueryEmbedding(ctx, qc)
	if err != nil {
		return in, true, fmt.Sprintf("query embedding: %v", err)
	}

	rr := p.reranker.Rerank(ctx, in, queryEmb)
	if rr.Degraded {
		return in, true, rr.Note
	}
	return in, false, ""
}

// finalize orders candidates and enforces the collection-level invariant:
// never more results than the requested maximum.
//
// Semantic and lexical scores are different scales (cosine in [-1,1] vs.
// unbounded term frequency), so they are never compared across candidates:
// candidates the reranker scored rank as a block ahead of unscored ones, each
// block ordered by its own score. A fully degraded rerank leaves every
// candidate unscored, which reduces to the pure lexical ordering.
func finalize(candidates []*types.Candidate, max int) []*types.Candidate {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if scored, other := a.SemanticScore != nil, b.SemanticScore != nil; scored != other {
			return scored
		}
		if ra, rb := a.RelevanceScore(), b.RelevanceScore(); ra != rb {
			return ra > rb
		}
		if a.QualityScore != b.QualityScore {
			return a.QualityScore > b.QualityScore
		}
		return a.ID < b.ID
	})
	if max > 0 && len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates
}
