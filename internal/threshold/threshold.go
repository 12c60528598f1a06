// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package threshold converges on a quality cutoff that lands the surviving
// candidate count inside a purpose-specific target band, walking an ordered
// fallback list instead of applying one fixed number.
package threshold

import (
	"sort"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// State is the controller's position in its run.
type State string

const (
	StateInitial    State = "initial"
	StateEvaluating State = "evaluating"

	// StateConverged means a threshold produced a count inside the band, or
	// above it (more than enough high-quality results is acceptable; the
	// controller never raises a threshold above its starting value).
	StateConverged State = "converged"

	// StateExhausted means even the most permissive threshold missed the band
	// minimum. The survivors of that lowest threshold are still returned;
	// exhaustion is a reported condition, not a failure.
	StateExhausted State = "exhausted"
)

// Controller walks one purpose's fallback threshold list.
type Controller struct {
	thresholds []float64
	band       types.Band

	state State
	step  int
}

// New builds a controller for the given descending threshold list and band.
func New(thresholds []float64, band types.Band) *Controller {
	return &Controller{thresholds: thresholds, band: band, state: StateInitial}
}

// Result reports where the controller stopped.
type Result struct {
	State State

	// Threshold is the cutoff the controller settled on.
	Threshold float64

	// Steps is how many thresholds were evaluated; never more than the
	// fallback list length.
	Steps int

	// Survivors is the count at the chosen threshold.
	Survivors int
}

// Run selects candidates by quality score. Candidates are sorted by score
// once; each step is then a binary search over the sorted order, so the whole
// run is O(n log n) regardless of list length. Terminates in at most
// len(thresholds) steps.
func (c *Controller) Run(candidates []*types.Candidate) ([]*types.Candidate, Result) {
	sorted := make([]*types.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].QualityScore != sorted[j].QualityScore {
			return sorted[i].QualityScore > sorted[j].QualityScore
		}
		return sorted[i].ID < sorted[j].ID
	})

	c.state = StateEvaluating

	var (
		chosen    float64
		survivors int
	)
	for _, th := range c.thresholds {
		c.step++
		chosen = th
		survivors = countAtLeast(sorted, th)

		if survivors >= c.band.Min {
			// Inside the band, or above it: accept and stop.
			c.state = StateConverged
			return sorted[:survivors], c.result(chosen, survivors)
		}
		// Below the band: relax to the next threshold.
	}

	c.state = StateExhausted
	return sorted[:survivors], c.result(chosen, survivors)
}

// State returns the controller's current state.
func (c *Controller) State() State { return c.state }

func (c *Controller) result(threshold float64, survivors int) Result {
	return Result{
		State:     c.state,
		Threshold: threshold,
		Steps:     c.step,
		Survivors: survivors,
	}
}

// countAtLeast returns how many of the score-descending candidates meet th.
func countAtLeast(sorted []*types.Candidate, th float64) int {
	return sort.Search(len(sorted), func(i int) bool {
		return sorted[i].QualityScore < th
	})
}
