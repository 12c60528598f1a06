// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "time"

// Stage names, in execution order.
const (
	StageLexical   = "lexical"
	StageSemantic  = "semantic_rerank"
	StageFilter    = "domain_filter"
	StageQuality   = "quality"
	StageThreshold = "adaptive_threshold"
	StageDiversity = "diversity"
)

// StageStats is one observability record, appended by the orchestrator after
// each stage and read-only once written.
type StageStats struct {
	// Stage is the stage name.
	Stage string `json:"stage" yaml:"stage"`

	// In and Out are the candidate counts entering and leaving the stage.
	In  int `json:"in" yaml:"in"`
	Out int `json:"out" yaml:"out"`

	// Elapsed is the stage's wall-clock duration.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`

	// Degraded is true when the stage produced a pass-through result instead
	// of its normal output (e.g. semantic reranking unavailable).
	Degraded bool `json:"degraded,omitempty" yaml:"degraded,omitempty"`

	// Note explains a degradation or reported condition.
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}
