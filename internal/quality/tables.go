// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quality

import (
	"fmt"
	"math"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// weightSumTolerance is how far from 1.0 a purpose's weights may sum.
const weightSumTolerance = 1e-6

// Weights holds the normalized sub-score weights for one purpose. They must
// be non-negative and sum to 1.0 within tolerance.
type Weights struct {
	Content     float64 `yaml:"content"`
	Citation    float64 `yaml:"citation"`
	Venue       float64 `yaml:"venue"`
	Methodology float64 `yaml:"methodology"`
	Diversity   float64 `yaml:"diversity"`
}

// Sum returns the weight total.
func (w Weights) Sum() float64 {
	return w.Content + w.Citation + w.Venue + w.Methodology + w.Diversity
}

// Profile is the complete per-purpose configuration: quality weights, the
// full-text bonus, the adaptive threshold schedule, and the diversity policy.
type Profile struct {
	Weights Weights `yaml:"weights"`

	// FullTextBonus is added (not reweighted) to the composite score when the
	// candidate has verified full text. The composite is clamped afterwards.
	FullTextBonus float64 `yaml:"full_text_bonus"`

	// Thresholds is the ordered fallback list the adaptive controller walks,
	// strictly descending.
	Thresholds []float64 `yaml:"thresholds"`

	// RequireDiversity turns on the diversity sampler for this purpose.
	RequireDiversity bool `yaml:"require_diversity"`

	// DiversityFloor is the minimum composite score the sampler may admit.
	DiversityFloor float64 `yaml:"diversity_floor"`
}

// Tables maps every purpose to its profile. Loaded once at startup, validated,
// then treated as immutable.
type Tables struct {
	Profiles map[types.Purpose]Profile `yaml:"purposes"`

	// MinVenuePrestige is the venue-prestige floor retained across all
	// purposes: below it the venue sub-score contributes nothing.
	MinVenuePrestige float64 `yaml:"min_venue_prestige"`
}

// DefaultTables returns the built-in purpose configuration.
func DefaultTables() *Tables {
	return &Tables{
		MinVenuePrestige: 10,
		Profiles: map[types.Purpose]Profile{
			types.PurposeSystematicReview: {
				Weights:       Weights{Content: 0.20, Citation: 0.25, Venue: 0.30, Methodology: 0.20, Diversity: 0.05},
				FullTextBonus: 5,
				Thresholds:    []float64{80, 70, 60, 50, 40},
			},
			types.PurposeLiteratureReview: {
				Weights:       Weights{Content: 0.30, Citation: 0.30, Venue: 0.20, Methodology: 0.10, Diversity: 0.10},
				FullTextBonus: 5,
				Thresholds:    []float64{70, 60, 50, 40},
			},
			types.PurposeQMethodology: {
				Weights:          Weights{Content: 0.25, Citation: 0.10, Venue: 0.10, Methodology: 0.15, Diversity: 0.40},
				FullTextBonus:    3,
				Thresholds:       []float64{40, 35, 30, 25, 20},
				RequireDiversity: true,
				DiversityFloor:   20,
			},
			types.PurposeHypothesisGeneration: {
				Weights:       Weights{Content: 0.40, Citation: 0.10, Venue: 0.10, Methodology: 0.20, Diversity: 0.20},
				FullTextBonus: 8,
				Thresholds:    []float64{60, 50, 40, 30},
			},
		},
	}
}

// LoadTables reads a YAML purpose table from path, or returns the defaults
// for an empty path. The result is validated; a bad table fails here, at
// startup, never mid-request.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		t := DefaultTables()
		if err := t.Validate(); err != nil {
			return nil, err
		}
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading weight tables: %v", types.ErrConfigInvalid, err)
	}

	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: parsing weight tables: %v", types.ErrConfigInvalid, err)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks the table exhaustively: every purpose present, weights
// non-negative and summing to 1.0 within tolerance, a usable descending
// threshold list, floors in range.
func (t *Tables) Validate() error {
	if t.MinVenuePrestige < 0 || t.MinVenuePrestige > 100 {
		return fmt.Errorf("%w: min_venue_prestige %.2f outside [0,100]", types.ErrConfigInvalid, t.MinVenuePrestige)
	}

	for _, purpose := range types.Purposes() {
		p, ok := t.Profiles[purpose]
		if !ok {
			return fmt.Errorf("%w: purpose %s has no profile", types.ErrConfigInvalid, purpose)
		}

		for name, w := range map[string]float64{
			"content":     p.Weights.Content,
			"citation":    p.Weights.Citation,
			"venue":       p.Weights.Venue,
			"methodology": p.Weights.Methodology,
			"diversity":   p.Weights.Diversity,
		} {
			if w < 0 {
				return fmt.Errorf("%w: purpose %s: %s weight is negative", types.ErrConfigInvalid, purpose, name)
			}
		}

		if math.Abs(p.Weights.Sum()-1.0) > weightSumTolerance {
			return fmt.Errorf("%w: purpose %s: weights sum to %.6f, want 1.0", types.ErrConfigInvalid, purpose, p.Weights.Sum())
		}

		if p.FullTextBonus < 0 {
			return fmt.Errorf("%w: purpose %s: full_text_bonus is negative", types.ErrConfigInvalid, purpose)
		}

		if len(p.Thresholds) == 0 {
			return fmt.Errorf("%w: purpose %s: empty threshold list", types.ErrConfigInvalid, purpose)
		}
		for i, th := range p.Thresholds {
			if th < 0 || th > 100 {
				return fmt.Errorf("%w: purpose %s: threshold %.2f outside [0,100]", types.ErrConfigInvalid, purpose, th)
			}
			if i > 0 && th >= p.Thresholds[i-1] {
				return fmt.Errorf("%w: purpose %s: thresholds must be strictly descending", types.ErrConfigInvalid, purpose)
			}
		}

		if p.DiversityFloor < 0 || p.DiversityFloor > 100 {
			return fmt.Errorf("%w: purpose %s: diversity_floor %.2f outside [0,100]", types.ErrConfigInvalid, purpose, p.DiversityFloor)
		}
		// A floor above the lowest threshold would let the sampler shrink a
		// converged set below the band minimum.
		if lowest := p.Thresholds[len(p.Thresholds)-1]; p.DiversityFloor > lowest {
			return fmt.Errorf("%w: purpose %s: diversity_floor %.2f above lowest threshold %.2f",
				types.ErrConfigInvalid, purpose, p.DiversityFloor, lowest)
		}
	}

	return nil
}

// Profile returns the profile for purpose. The tables are validated at load,
// so a miss here means the purpose never passed input validation.
func (t *Tables) Profile(purpose types.Purpose) (Profile, error) {
	p, ok := t.Profiles[purpose]
	if !ok {
		return Profile{}, fmt.Errorf("%w: unknown purpose %q", types.ErrInvalidInput, purpose)
	}
	return p, nil
}
