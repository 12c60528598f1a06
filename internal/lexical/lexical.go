// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lexical compiles query terms and computes the cheap, full-pool
// recall score every later stage builds on. Scoring is term-frequency based
// with field weighting, an exact-phrase bonus, and a distinct-term coverage
// multiplier; cost is O(terms × text length) per candidate.
package lexical

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// Field weights: a title match is worth three abstract matches; full text is
// discounted because long documents match almost anything.
const (
	titleWeight    = 3.0
	abstractWeight = 1.0
	fullTextWeight = 0.5

	// maxFieldMatches caps the per-term, per-field frequency contribution so a
	// term repeated through a long abstract cannot dominate the score.
	maxFieldMatches = 5

	// phraseBonus rewards the whole query appearing verbatim in a field.
	phraseBonus = 10.0
)

// CompileQuery turns a raw query into the normalized, deduplicated term list
// stored in the QueryContext. Terms are case-folded, punctuation-stripped,
// and each carries a precompiled word-boundary pattern. An empty or
// whitespace-only query compiles to zero terms.
func CompileQuery(raw string) []types.Term {
	seen := make(map[string]bool)
	var terms []types.Term

	for _, field := range strings.Fields(strings.ToLower(raw)) {
		word := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if word == "" || seen[word] {
			continue
		}
		seen[word] = true
		terms = append(terms, types.Term{
			Text:    word,
			Pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`),
		})
	}
	return terms
}

// Score sets LexicalScore on every candidate in place. A query that compiled
// to zero terms scores everything 0 rather than failing; a candidate missing
// a field is scored from the fields it has.
func Score(candidates []*types.Candidate, qc *types.QueryContext) {
	if len(qc.Terms) == 0 {
		for _, c := range candidates {
			c.LexicalScore = 0
		}
		return
	}

	phrase := strings.ToLower(strings.TrimSpace(qc.RawQuery))

	for _, c := range candidates {
		c.LexicalScore = scoreOne(c, qc.Terms, phrase)
	}
}

// scoreOne computes one candidate's score. Distinct-term coverage uses a set,
// not a running counter: a term matched in title and abstract covers once.
func scoreOne(c *types.Candidate, terms []types.Term, phrase string) float64 {
	fields := []struct {
		text   string
		weight float64
	}{
		{strings.ToLower(c.Title), titleWeight},
		{strings.ToLower(c.Abstract), abstractWeight},
		{strings.ToLower(c.FullText), fullTextWeight},
	}

	var base float64
	covered := make(map[string]bool, len(terms))

	for _, f := range fields {
		if f.text == "" {
			continue
		}
		for _, term := range terms {
			n := countMatches(term.Pattern, f.text)
			if n == 0 {
				continue
			}
			covered[term.Text] = true
			if n > maxFieldMatches {
				n = maxFieldMatches
			}
			base += f.weight * float64(n)
		}

		if phrase != "" && strings.Contains(f.text, phrase) {
			base += phraseBonus * f.weight
		}
	}

	if base == 0 {
		return 0
	}

	// Coverage multiplier: scales with the fraction of distinct terms covered,
	// topping out at 2.0 when every term matched. Repeat matches never raise it.
	multiplier := 1 + float64(len(covered))/float64(len(terms))
	return base * multiplier
}

// countMatches counts non-overlapping pattern occurrences, bounded so a
// pathological field cannot force unbounded work.
func countMatches(p *regexp.Regexp, text string) int {
	matches := p.FindAllStringIndex(text, maxFieldMatches+1)
	return len(matches)
}
