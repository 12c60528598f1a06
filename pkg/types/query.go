// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"regexp"
)

// Purpose identifies the downstream research use-case. It selects the quality
// weight table, the threshold fallback list, and whether diversity sampling runs.
type Purpose string

const (
	// PurposeSystematicReview favors methodological rigor and venue prestige.
	PurposeSystematicReview Purpose = "systematic_review"

	// PurposeLiteratureReview balances content depth and citation impact.
	PurposeLiteratureReview Purpose = "literature_review"

	// PurposeQMethodology is breadth-oriented: it weights diversity potential
	// highly, starts from permissive thresholds, and requires diversity sampling.
	PurposeQMethodology Purpose = "q_methodology"

	// PurposeHypothesisGeneration favors recent, content-rich material over
	// citation pedigree.
	PurposeHypothesisGeneration Purpose = "hypothesis_generation"
)

// Purposes lists every valid purpose, in a stable order for validation and help text.
func Purposes() []Purpose {
	return []Purpose{
		PurposeSystematicReview,
		PurposeLiteratureReview,
		PurposeQMethodology,
		PurposeHypothesisGeneration,
	}
}

// ParsePurpose validates a purpose string from config or CLI input.
func ParsePurpose(s string) (Purpose, error) {
	for _, p := range Purposes() {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown purpose %q", ErrInvalidInput, s)
}

// Band is the target result-count band the adaptive threshold controller
// converges on. Max also bounds the pipeline's final output.
type Band struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Valid reports whether the band is usable: positive bounds, Min ≤ Max.
func (b Band) Valid() bool {
	return b.Min > 0 && b.Max >= b.Min
}

// Term is one compiled query term: the normalized text plus a precompiled
// word-boundary pattern so field matching never recompiles per candidate.
type Term struct {
	Text    string
	Pattern *regexp.Regexp
}

// QueryContext carries everything the pipeline needs for one run. It is
// immutable for the lifetime of the run; cancellation travels separately as a
// context.Context.
type QueryContext struct {
	// RawQuery is the query string as entered.
	RawQuery string

	// Terms is the compiled term list: normalized, case-folded, deduplicated,
	// each with a precompiled match pattern.
	Terms []Term

	// TargetDomains restricts candidates to these declared domains. Empty
	// means no domain constraint.
	TargetDomains []string

	// ExcludedDomains removes candidates declaring any of these domains even
	// when TargetDomains is empty.
	ExcludedDomains []string

	// TargetAspects lists topical aspects a candidate must cover. Empty means
	// no aspect constraint.
	TargetAspects []string

	// Purpose selects the weight table and threshold schedule.
	Purpose Purpose

	// Band is the target output-count band.
	Band Band
}

// Validate rejects malformed top-level input before any stage runs.
func (qc *QueryContext) Validate() error {
	if qc.RawQuery == "" && len(qc.Terms) == 0 {
		return fmt.Errorf("%w: query is empty", ErrInvalidInput)
	}
	if _, err := ParsePurpose(string(qc.Purpose)); err != nil {
		return err
	}
	if !qc.Band.Valid() {
		return fmt.Errorf("%w: target band [%d,%d] is invalid", ErrInvalidInput, qc.Band.Min, qc.Band.Max)
	}
	return nil
}
