// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter removes candidates whose declared domains or aspects do not
// match the query's targets. An empty target set means "no constraint on that
// axis", never "match nothing".
package filter

import (
	"strings"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Apply returns the candidates surviving the domain and aspect constraints.
//
// Domain rule: a candidate is dropped when it declares a domain in the
// excluded set, or when a non-empty target set exists and none of its declared
// domains are in it. Candidates declaring no domains pass target filtering —
// absence of a tag is not a declaration.
//
// Aspect rule: with a non-empty required-aspect set, a candidate must cover
// every required aspect.
func Apply(candidates []*types.Candidate, qc *types.QueryContext) []*types.Candidate {
	targets := toSet(qc.TargetDomains)
	excluded := toSet(qc.ExcludedDomains)
	aspects := toSet(qc.TargetAspects)

	kept := candidates[:0:0]
	for _, c := range candidates {
		if !domainOK(c, targets, excluded) {
			continue
		}
		if !aspectsOK(c, aspects) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func domainOK(c *types.Candidate, targets, excluded map[string]bool) bool {
	for _, d := range c.Domains {
		if excluded[normalize(d)] {
			return false
		}
	}
	if len(targets) == 0 || len(c.Domains) == 0 {
		return true
	}
	for _, d := range c.Domains {
		if targets[normalize(d)] {
			return true
		}
	}
	return false
}

func aspectsOK(c *types.Candidate, required map[string]bool) bool {
	if len(required) == 0 {
		return true
	}
	have := make(map[string]bool, len(c.Aspects))
	for _, a := range c.Aspects {
		have[normalize(a)] = true
	}
	for a := range required {
		if !have[a] {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if n := normalize(v); n != "" {
			set[n] = true
		}
	}
	return set
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
