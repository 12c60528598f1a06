// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/pdiddy/relevance-engine/internal/lexical"
	"github.com/pdiddy/relevance-engine/internal/threshold"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

func TestRequestFileRoundTrip(t *testing.T) {
	qc := &types.QueryContext{
		RawQuery:        "climate adaptation",
		Terms:           lexical.CompileQuery("climate adaptation"),
		TargetDomains:   []string{"ecology"},
		ExcludedDomains: []string{"economics"},
		TargetAspects:   []string{"policy"},
		Purpose:         types.PurposeQMethodology,
		Band:            types.Band{Min: 30, Max: 80},
	}

	sem := 0.91
	res := &Result{
		Candidates: []*types.Candidate{
			{
				ID:            "10.1234/a",
				Title:         "Adaptation strategies",
				Year:          2023,
				LexicalScore:  12,
				SemanticScore: &sem,
				QualityScore:  44,
			},
		},
		Stats: []StageStats{
			{Stage: StageLexical, In: 10, Out: 10},
			{Stage: StageThreshold, In: 8, Out: 1, Note: "converged"},
		},
		DegradedStages: []string{StageSemantic},
		Threshold:      threshold.Result{State: threshold.StateConverged, Threshold: 30, Steps: 3, Survivors: 1},
	}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := WriteRequestFile(path, qc, res); err != nil {
		t.Fatal(err)
	}

	rf, err := ReadRequestFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if rf.Request.Query != qc.RawQuery || rf.Request.Purpose != string(qc.Purpose) {
		t.Errorf("request round-trip lost query fields: %+v", rf.Request)
	}
	if rf.Request.MinResults != 30 || rf.Request.MaxResults != 80 {
		t.Errorf("band round-trip: got [%d,%d]", rf.Request.MinResults, rf.Request.MaxResults)
	}

	if len(rf.Results) != 1 || rf.Results[0].ID != "10.1234/a" {
		t.Fatalf("results round-trip: %+v", rf.Results)
	}
	if rf.Results[0].SemanticScore == nil || *rf.Results[0].SemanticScore != 0.91 {
		t.Error("semantic score lost in round-trip")
	}

	if rf.Summary.Total != 1 || rf.Summary.ThresholdState != string(threshold.StateConverged) {
		t.Errorf("summary round-trip: %+v", rf.Summary)
	}
	if len(rf.Summary.Stats) != 2 || rf.Summary.Stats[1].Note != "converged" {
		t.Errorf("stage stats round-trip: %+v", rf.Summary.Stats)
	}
	if rf.Summary.Timestamp.IsZero() {
		t.Error("summary timestamp not set")
	}
}

func TestRequestParamsToQueryContext(t *testing.T) {
	params := RequestParams{
		Query:      "urban heat islands",
		Purpose:    "literature_review",
		MinResults: 10,
		MaxResults: 40,
	}

	qc, err := params.ToQueryContext()
	if err != nil {
		t.Fatal(err)
	}
	if qc.Purpose != types.PurposeLiteratureReview {
		t.Errorf("purpose = %s", qc.Purpose)
	}
	if len(qc.Terms) != 3 {
		t.Errorf("compiled %d terms, want 3", len(qc.Terms))
	}

	bad := params
	bad.Purpose = "skim"
	if _, err := bad.ToQueryContext(); err == nil {
		t.Error("ToQueryContext accepted an unknown purpose")
	}

	inverted := params
	inverted.MinResults = 50
	inverted.MaxResults = 10
	if _, err := inverted.ToQueryContext(); err == nil {
		t.Error("ToQueryContext accepted an inverted band")
	}
}
