// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package diversity replaces pure top-N selection with coverage-first
// sampling for purposes where breadth of viewpoint matters more than raw
// score. Selection round-robins across diversity-dimension buckets in quality
// order, subject to a minimum per-candidate quality floor.
package diversity

import (
	"fmt"
	"sort"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Sample selects up to band.Max candidates maximizing coverage of distinct
// diversity-key values.
//
// Two hard rules: an input set that already fits within band.Max passes
// through untouched (the sampler never shrinks a correctly sized set), and no
// candidate below floor is ever admitted, not even to cover an otherwise
// empty bucket.
func Sample(candidates []*types.Candidate, band types.Band, floor float64) []*types.Candidate {
	if len(candidates) <= band.Max {
		return candidates
	}

	// Bucket by diversity key, each bucket in descending quality order.
	buckets := make(map[string][]*types.Candidate)
	var keys []string
	for _, c := range candidates {
		if c.QualityScore < floor {
			continue
		}
		key := Key(c)
		c.DiversityKey = key
		if _, ok := buckets[key]; !ok {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], c)
	}
	for _, key := range keys {
		sortByQuality(buckets[key])
	}

	// Visit buckets best-first for a deterministic round-robin order.
	sort.Slice(keys, func(i, j int) bool {
		a, b := buckets[keys[i]], buckets[keys[j]]
		if a[0].QualityScore != b[0].QualityScore {
			return a[0].QualityScore > b[0].QualityScore
		}
		return keys[i] < keys[j]
	})

	// Round-robin: one candidate per bucket per pass until band.Max.
	selected := make([]*types.Candidate, 0, band.Max)
	for len(selected) < band.Max {
		took := false
		for _, key := range keys {
			if len(buckets[key]) == 0 {
				continue
			}
			selected = append(selected, buckets[key][0])
			buckets[key] = buckets[key][1:]
			took = true
			if len(selected) == band.Max {
				break
			}
		}
		if !took {
			break
		}
	}

	sortByQuality(selected)
	return selected
}

// Key returns the diversity dimension value for a candidate: the stance tag
// when declared, else the first (subfield) domain, else a publication-year
// band so breadth-oriented purposes still get temporal spread.
func Key(c *types.Candidate) string {
	if c.StanceTag != "" {
		return c.StanceTag
	}
	if len(c.Domains) > 0 {
		return c.Domains[0]
	}
	if c.Year > 0 {
		decade := c.Year - c.Year%5
		return fmt.Sprintf("years:%d-%d", decade, decade+4)
	}
	return "untagged"
}

func sortByQuality(cands []*types.Candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].QualityScore != cands[j].QualityScore {
			return cands[i].QualityScore > cands[j].QualityScore
		}
		return cands[i].ID < cands[j].ID
	})
}
