// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality computes the purpose-aware composite quality score: five
// independent sub-scores in [0,100], combined by a purpose-selected weight
// table, plus an additive full-text bonus, clamped to [0,100].
package quality

import (
	"math"
	"strings"
	"time"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// methodologyCues are structural phrases that signal methodological rigor.
// Distinct cue hits accumulate; repeats of one cue count once.
var methodologyCues = []string{
	"randomized", "controlled trial", "sample size", "participants",
	"survey", "interview", "regression", "statistical significance",
	"confidence interval", "systematic review", "meta-analysis",
	"qualitative analysis", "quantitative analysis", "methodology",
}

// structureCues mark sectioned full text.
var structureCues = []string{"introduction", "method", "results", "discussion", "conclusion"}

// Scorer computes composite quality scores against a validated table set.
type Scorer struct {
	tables *Tables

	// now is the clock used for citation-age normalization. Tests pin it.
	now func() time.Time
}

// NewScorer wraps validated tables.
func NewScorer(tables *Tables) *Scorer {
	return &Scorer{tables: tables, now: time.Now}
}

// Tables exposes the scorer's table set (the pipeline reads threshold
// schedules and diversity policy from the same profiles).
func (s *Scorer) Tables() *Tables { return s.tables }

// Score computes the composite score and its breakdown for one candidate.
func (s *Scorer) Score(c *types.Candidate, purpose types.Purpose) (float64, types.QualityBreakdown, error) {
	profile, err := s.tables.Profile(purpose)
	if err != nil {
		return 0, types.QualityBreakdown{}, err
	}
	score, breakdown := s.scoreWithProfile(c, profile)
	return score, breakdown, nil
}

// ScoreBatch scores candidates in place and partitions them against floor in
// a single pass. The purpose profile is resolved once for the whole batch.
func (s *Scorer) ScoreBatch(candidates []*types.Candidate, purpose types.Purpose, floor float64) (kept, rejected []*types.Candidate, err error) {
	profile, err := s.tables.Profile(purpose)
	if err != nil {
		return nil, nil, err
	}

	kept = make([]*types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		c.QualityScore, c.QualityBreakdown = s.scoreWithProfile(c, profile)
		if c.QualityScore >= floor {
			kept = append(kept, c)
		} else {
			rejected = append(rejected, c)
		}
	}
	return kept, rejected, nil
}

func (s *Scorer) scoreWithProfile(c *types.Candidate, profile Profile) (float64, types.QualityBreakdown) {
	breakdown := types.QualityBreakdown{
		Content:     contentDepth(c),
		Citation:    s.citationImpact(c),
		Venue:       venuePrestige(c, s.tables.MinVenuePrestige),
		Methodology: methodologySignal(c),
		Diversity:   diversityPotential(c),
	}
	if c.HasFullText() {
		breakdown.FullTextBonus = profile.FullTextBonus
	}
	return Combine(breakdown, profile.Weights), breakdown
}

// Combine applies the weighted sum and the additive full-text bonus, clamping
// the result to [0,100]. Exposed so the composite math is testable against
// hand-built breakdowns.
func Combine(b types.QualityBreakdown, w Weights) float64 {
	score := b.Content*w.Content +
		b.Citation*w.Citation +
		b.Venue*w.Venue +
		b.Methodology*w.Methodology +
		b.Diversity*w.Diversity
	score += b.FullTextBonus
	return clamp(score)
}

// contentDepth scores length and structure signals: abstract substance, full
// text presence, and section cues.
func contentDepth(c *types.Candidate) float64 {
	var score float64

	// Abstract substance: full credit (50) around 200 words.
	words := len(strings.Fields(c.Abstract))
	score += math.Min(1, float64(words)/200) * 50

	if c.HasFullText() {
		score += 30

		lower := strings.ToLower(c.FullText)
		for _, cue := range structureCues {
			if strings.Contains(lower, cue) {
				score += 4
			}
		}
	}

	return clamp(score)
}

// citationImpact normalizes citation count by paper age, then log-scales so
// heavily cited classics do not saturate everything else.
func (s *Scorer) citationImpact(c *types.Candidate) float64 {
	if c.CitationCount <= 0 {
		return 0
	}

	age := 1
	if c.Year > 0 {
		if a := s.now().Year() - c.Year + 1; a > age {
			age = a
		}
	}

	perYear := float64(c.CitationCount) / float64(age)
	return clamp(20 * math.Log2(1+perYear))
}

// venuePrestige passes the venue percentile through, zeroed below the floor,
// with a small h-index supplement.
func venuePrestige(c *types.Candidate, floor float64) float64 {
	prestige := clamp(c.Venue.Prestige)
	if prestige < floor {
		return 0
	}
	if c.Venue.HIndex > 0 {
		prestige += math.Min(10, float64(c.Venue.HIndex)/10)
	}
	return clamp(prestige)
}

// methodologySignal counts distinct methodological cue phrases in the
// abstract and full text.
func methodologySignal(c *types.Candidate) float64 {
	text := strings.ToLower(c.Abstract)
	if c.HasFullText() {
		text += " " + strings.ToLower(c.FullText)
	}
	if text == "" {
		return 0
	}

	hits := 0
	for _, cue := range methodologyCues {
		if strings.Contains(text, cue) {
			hits++
		}
	}
	return clamp(15 * float64(hits))
}

// diversityPotential scores stance/subfield signal: an explicit stance tag is
// the strongest indicator, breadth of domain and aspect tags supplements it.
func diversityPotential(c *types.Candidate) float64 {
	var score float64
	if c.StanceTag != "" {
		score += 60
	}
	if extra := len(c.Domains) - 1; extra > 0 {
		score += math.Min(30, float64(extra)*15)
	}
	if len(c.Aspects) > 1 {
		score += 10
	}
	return clamp(score)
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
