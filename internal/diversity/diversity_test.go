// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package diversity

import (
	"fmt"
	"testing"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

func stancePool(stances []string, perStance int, baseScore float64) []*types.Candidate {
	var cands []*types.Candidate
	for si, stance := range stances {
		for i := 0; i < perStance; i++ {
			cands = append(cands, &types.Candidate{
				ID:        fmt.Sprintf("%s-%02d", stance, i),
				StanceTag: stance,
				// Each stance's candidates score slightly apart so ordering
				// inside a bucket is deterministic and distinct.
				QualityScore: baseScore - float64(si)*2 - float64(i),
			})
		}
	}
	return cands
}

func TestSampleNeverShrinksAFittingSet(t *testing.T) {
	cands := stancePool([]string{"supports"}, 10, 90)
	got := Sample(cands, types.Band{Min: 5, Max: 30}, 20)

	if len(got) != len(cands) {
		t.Fatalf("sampler shrank a fitting set: %d -> %d", len(cands), len(got))
	}
}

func TestSampleCoversAllBuckets(t *testing.T) {
	// Three stances, 20 candidates each; only 12 slots. Every stance must be
	// represented, and with equal bucket depth, represented evenly.
	cands := stancePool([]string{"supports", "contests", "neutral"}, 20, 90)
	got := Sample(cands, types.Band{Min: 6, Max: 12}, 0)

	if len(got) != 12 {
		t.Fatalf("selected %d, want 12", len(got))
	}

	perStance := map[string]int{}
	for _, c := range got {
		perStance[c.StanceTag]++
	}
	for _, stance := range []string{"supports", "contests", "neutral"} {
		if perStance[stance] != 4 {
			t.Errorf("stance %s got %d slots, want 4 (even coverage)", stance, perStance[stance])
		}
	}
}

func TestSampleTakesBestWithinEachBucket(t *testing.T) {
	cands := stancePool([]string{"supports", "contests"}, 10, 90)
	got := Sample(cands, types.Band{Min: 2, Max: 4}, 0)

	want := map[string]bool{
		"supports-00": true, "supports-01": true,
		"contests-00": true, "contests-01": true,
	}
	for _, c := range got {
		if !want[c.ID] {
			t.Errorf("selected %s; each bucket should contribute its best candidates", c.ID)
		}
	}
}

func TestSampleEnforcesQualityFloor(t *testing.T) {
	cands := stancePool([]string{"supports", "contests"}, 5, 90)
	// A third viewpoint exists only below the floor.
	for i := 0; i < 5; i++ {
		cands = append(cands, &types.Candidate{
			ID:           fmt.Sprintf("fringe-%02d", i),
			StanceTag:    "fringe",
			QualityScore: 10,
		})
	}

	got := Sample(cands, types.Band{Min: 2, Max: 6}, 20)

	for _, c := range got {
		if c.QualityScore < 20 {
			t.Errorf("candidate %s admitted below the floor (%.1f)", c.ID, c.QualityScore)
		}
		if c.StanceTag == "fringe" {
			t.Errorf("below-floor bucket %s gained representation", c.ID)
		}
	}
}

func TestSampleResultIsQualityOrdered(t *testing.T) {
	cands := stancePool([]string{"supports", "contests", "neutral"}, 10, 90)
	got := Sample(cands, types.Band{Min: 3, Max: 9}, 0)

	for i := 1; i < len(got); i++ {
		if got[i].QualityScore > got[i-1].QualityScore {
			t.Fatalf("selection not quality-ordered at index %d", i)
		}
	}
}

func TestSampleSetsDiversityKey(t *testing.T) {
	cands := stancePool([]string{"supports", "contests"}, 5, 90)
	got := Sample(cands, types.Band{Min: 2, Max: 4}, 0)

	for _, c := range got {
		if c.DiversityKey != c.StanceTag {
			t.Errorf("candidate %s has key %q, want its stance tag", c.ID, c.DiversityKey)
		}
	}
}

func TestKeyFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		c    types.Candidate
		want string
	}{
		{"stance wins", types.Candidate{StanceTag: "supports", Domains: []string{"ecology"}, Year: 2021}, "supports"},
		{"first domain next", types.Candidate{Domains: []string{"ecology", "economics"}, Year: 2021}, "ecology"},
		{"year band next", types.Candidate{Year: 2021}, "years:2020-2024"},
		{"year band edge", types.Candidate{Year: 2020}, "years:2020-2024"},
		{"untagged last", types.Candidate{}, "untagged"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(&tt.c); got != tt.want {
				t.Errorf("Key = %q, want %q", got, tt.want)
			}
		})
	}
}
