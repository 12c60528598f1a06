// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"testing"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		candidates []*types.Candidate
		qc         types.QueryContext
		wantIDs    []string
	}{
		{
			name: "no constraints keeps everything",
			candidates: []*types.Candidate{
				{ID: "a", Domains: []string{"ecology"}},
				{ID: "b"},
			},
			wantIDs: []string{"a", "b"},
		},
		{
			name: "target domain keeps matches and untagged",
			candidates: []*types.Candidate{
				{ID: "a", Domains: []string{"ecology"}},
				{ID: "b", Domains: []string{"economics"}},
				{ID: "c"},
			},
			qc:      types.QueryContext{TargetDomains: []string{"ecology"}},
			wantIDs: []string{"a", "c"},
		},
		{
			name: "excluded domain always drops",
			candidates: []*types.Candidate{
				{ID: "a", Domains: []string{"ecology", "economics"}},
				{ID: "b", Domains: []string{"ecology"}},
			},
			qc: types.QueryContext{
				TargetDomains:   []string{"ecology"},
				ExcludedDomains: []string{"economics"},
			},
			wantIDs: []string{"b"},
		},
		{
			name: "exclusion wins over target match",
			candidates: []*types.Candidate{
				{ID: "a", Domains: []string{"ecology"}},
			},
			qc: types.QueryContext{
				TargetDomains:   []string{"ecology"},
				ExcludedDomains: []string{"ecology"},
			},
			wantIDs: []string{},
		},
		{
			name: "required aspects must all be covered",
			candidates: []*types.Candidate{
				{ID: "a", Aspects: []string{"methodology", "policy"}},
				{ID: "b", Aspects: []string{"methodology"}},
				{ID: "c"},
			},
			qc:      types.QueryContext{TargetAspects: []string{"methodology", "policy"}},
			wantIDs: []string{"a"},
		},
		{
			name: "matching is case and whitespace insensitive",
			candidates: []*types.Candidate{
				{ID: "a", Domains: []string{" Ecology "}, Aspects: []string{"METHODOLOGY"}},
			},
			qc: types.QueryContext{
				TargetDomains: []string{"ecology"},
				TargetAspects: []string{"methodology"},
			},
			wantIDs: []string{"a"},
		},
		{
			name:       "empty pool stays empty",
			candidates: nil,
			qc:         types.QueryContext{TargetDomains: []string{"ecology"}},
			wantIDs:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.candidates, &tt.qc)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Apply kept %d candidates, want %d", len(got), len(tt.wantIDs))
			}
			for i, c := range got {
				if c.ID != tt.wantIDs[i] {
					t.Errorf("kept[%d] = %s, want %s", i, c.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestApplyPreservesOrder(t *testing.T) {
	cands := []*types.Candidate{
		{ID: "z", Domains: []string{"ecology"}},
		{ID: "a", Domains: []string{"ecology"}},
		{ID: "m", Domains: []string{"ecology"}},
	}
	got := Apply(cands, &types.QueryContext{TargetDomains: []string{"ecology"}})

	for i, c := range got {
		if c.ID != cands[i].ID {
			t.Errorf("order changed at %d: got %s, want %s", i, c.ID, cands[i].ID)
		}
	}
}
