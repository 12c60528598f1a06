// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package threshold

import (
	"fmt"
	"testing"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// poolWithScores builds n candidates with the given quality scores repeated
// round-robin, so tests can shape score distributions precisely.
func poolWithScores(counts map[float64]int) []*types.Candidate {
	var cands []*types.Candidate
	i := 0
	for score, n := range counts {
		for j := 0; j < n; j++ {
			cands = append(cands, &types.Candidate{
				ID:           fmt.Sprintf("c%04d", i),
				QualityScore: score,
			})
			i++
		}
	}
	return cands
}

func TestRunConvergesOnFallbackWalk(t *testing.T) {
	// 40 at 80+, another 80 at 70+, 160 at 60+, 301 at 50+. With band
	// [280, 320] the controller relaxes three times and settles at 50.
	cands := poolWithScores(map[float64]int{
		85: 40,
		75: 40,
		65: 80,
		55: 141,
	})
	ctrl := New([]float64{80, 70, 60, 50}, types.Band{Min: 280, Max: 320})

	kept, res := ctrl.Run(cands)

	if res.State != StateConverged {
		t.Fatalf("state = %s, want converged", res.State)
	}
	if res.Threshold != 50 {
		t.Errorf("threshold = %.0f, want 50", res.Threshold)
	}
	if res.Steps != 4 {
		t.Errorf("steps = %d, want 4", res.Steps)
	}
	if res.Survivors != 301 || len(kept) != 301 {
		t.Errorf("survivors = %d (kept %d), want 301", res.Survivors, len(kept))
	}
	for _, c := range kept {
		if c.QualityScore < 50 {
			t.Fatalf("candidate %s below the chosen threshold: %.1f", c.ID, c.QualityScore)
		}
	}
}

func TestRunAcceptsCountAboveBand(t *testing.T) {
	// The first threshold already yields more than band.Max. The controller
	// accepts; it never raises a threshold above its starting value.
	cands := poolWithScores(map[float64]int{90: 120})
	ctrl := New([]float64{80, 70}, types.Band{Min: 30, Max: 80})

	kept, res := ctrl.Run(cands)

	if res.State != StateConverged {
		t.Fatalf("state = %s, want converged", res.State)
	}
	if res.Steps != 1 {
		t.Errorf("steps = %d, want 1", res.Steps)
	}
	if len(kept) != 120 {
		t.Errorf("kept %d, want all 120 passing the first threshold", len(kept))
	}
}

func TestRunExhaustsAndKeepsLowestSurvivors(t *testing.T) {
	cands := poolWithScores(map[float64]int{45: 5, 15: 10})
	ctrl := New([]float64{80, 60, 40}, types.Band{Min: 30, Max: 80})

	kept, res := ctrl.Run(cands)

	if res.State != StateExhausted {
		t.Fatalf("state = %s, want exhausted", res.State)
	}
	if res.Threshold != 40 {
		t.Errorf("threshold = %.0f, want the lowest in the list", res.Threshold)
	}
	if res.Steps != 3 {
		t.Errorf("steps = %d, want the full list walked", res.Steps)
	}
	if len(kept) != 5 || res.Survivors != 5 {
		t.Errorf("kept %d survivors (reported %d), want the 5 above the lowest threshold", len(kept), res.Survivors)
	}
	if ctrl.State() != StateExhausted {
		t.Errorf("controller state = %s, want exhausted", ctrl.State())
	}
}

func TestRunEmptyPoolExhausts(t *testing.T) {
	ctrl := New([]float64{60, 40}, types.Band{Min: 10, Max: 50})
	kept, res := ctrl.Run(nil)

	if res.State != StateExhausted || len(kept) != 0 {
		t.Errorf("empty pool: state = %s, kept = %d; want exhausted with none", res.State, len(kept))
	}
}

func TestRunStepsBoundedByListLength(t *testing.T) {
	thresholds := []float64{90, 80, 70, 60, 50, 40, 30, 20, 10}
	ctrl := New(thresholds, types.Band{Min: 1000, Max: 2000})

	_, res := ctrl.Run(poolWithScores(map[float64]int{50: 3}))
	if res.Steps > len(thresholds) {
		t.Errorf("steps = %d exceeds the fallback list length %d", res.Steps, len(thresholds))
	}
}

func TestRunKeepsDescendingQualityOrder(t *testing.T) {
	cands := poolWithScores(map[float64]int{90: 3, 70: 3, 50: 3})
	ctrl := New([]float64{50}, types.Band{Min: 5, Max: 20})

	kept, _ := ctrl.Run(cands)
	for i := 1; i < len(kept); i++ {
		if kept[i].QualityScore > kept[i-1].QualityScore {
			t.Fatalf("selection not quality-ordered at %d", i)
		}
	}
}
