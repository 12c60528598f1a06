// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the relevance-engine pipeline:
// the Candidate record flowing through every stage, the per-run QueryContext, the
// Embedding value produced by the embedding service, and the configuration structs
// consumed at startup.
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Venue describes the journal or venue a candidate was published in.
type Venue struct {
	// Name is the venue or journal title as reported by the source.
	Name string `json:"name" yaml:"name"`

	// Prestige is a 0-100 percentile metric for the venue (e.g. SJR percentile).
	Prestige float64 `json:"prestige" yaml:"prestige"`

	// HIndex is the venue h-index when the source provides one.
	HIndex int `json:"h_index,omitempty" yaml:"h_index,omitempty"`
}

// QualityBreakdown holds the five independent sub-scores behind a composite
// quality score. Every sub-score is in [0,100] before weighting.
type QualityBreakdown struct {
	Content     float64 `json:"content" yaml:"content"`
	Citation    float64 `json:"citation" yaml:"citation"`
	Venue       float64 `json:"venue" yaml:"venue"`
	Methodology float64 `json:"methodology" yaml:"methodology"`
	Diversity   float64 `json:"diversity" yaml:"diversity"`

	// FullTextBonus is the additive bonus applied when verified full text is
	// present. Recorded so the composite score is reproducible from the breakdown.
	FullTextBonus float64 `json:"full_text_bonus,omitempty" yaml:"full_text_bonus,omitempty"`
}

// Candidate represents one retrieved document flowing through the pipeline.
//
// The identity and metadata fields are set by the (external) collection stage
// and are read-only here. Each scoring field is written by exactly one pipeline
// stage; once set, later stages only read it.
type Candidate struct {
	// ID is the stable identifier: a persistent external identifier (DOI,
	// arXiv ID) when available, otherwise a normalized title hash (EnsureID).
	ID string `json:"id" yaml:"id"`

	// Title is the document title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Abstract is the abstract or summary, possibly empty.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// FullText is the verified full text when the collector acquired one.
	FullText string `json:"full_text,omitempty" yaml:"full_text,omitempty"`

	// Year is the publication year, zero when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Venue describes the publication venue and its prestige metrics.
	Venue Venue `json:"venue,omitempty" yaml:"venue,omitempty"`

	// CitationCount is the citation count reported by the source.
	CitationCount int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`

	// Source identifies which backend found this candidate (e.g. "openalex").
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Domains lists the declared subject domain tags.
	Domains []string `json:"domains,omitempty" yaml:"domains,omitempty"`

	// Aspects lists the declared topical aspect tags.
	Aspects []string `json:"aspects,omitempty" yaml:"aspects,omitempty"`

	// StanceTag is an optional stance or subfield tag used as the primary
	// diversity dimension for breadth-oriented purposes.
	StanceTag string `json:"stance_tag,omitempty" yaml:"stance_tag,omitempty"`

	// LexicalScore is written by the lexical recall scorer.
	LexicalScore float64 `json:"lexical_score" yaml:"lexical_score"`

	// SemanticScore is written by the semantic reranker. Nil means the
	// candidate never received a semantic score (stage degraded, candidate
	// outside the recall subset, or its embedding failed).
	SemanticScore *float64 `json:"semantic_score,omitempty" yaml:"semantic_score,omitempty"`

	// QualityScore is the composite 0-100 score written by the quality scorer.
	QualityScore float64 `json:"quality_score" yaml:"quality_score"`

	// QualityBreakdown holds the sub-scores behind QualityScore.
	QualityBreakdown QualityBreakdown `json:"quality_breakdown" yaml:"quality_breakdown"`

	// DiversityKey is the dimension value the diversity sampler bucketed this
	// candidate under, written only when the sampler ran.
	DiversityKey string `json:"diversity_key,omitempty" yaml:"diversity_key,omitempty"`
}

// RelevanceScore returns the best available relevance score: the semantic
// score when the reranker produced one, otherwise the lexical score. The two
// scales are not comparable, so orderings over mixed sets must group
// candidates by which score is present before comparing this value.
func (c *Candidate) RelevanceScore() float64 {
	if c.SemanticScore != nil {
		return *c.SemanticScore
	}
	return c.LexicalScore
}

// HasFullText reports whether the candidate carries verified full text rather
// than only an abstract.
func (c *Candidate) HasFullText() bool {
	return strings.TrimSpace(c.FullText) != ""
}

// EnsureID fills in a stable fallback identifier derived from the normalized
// title when the collector supplied none. Candidates with neither an external
// identifier nor a title keep an empty ID and are rejected at the pipeline
// boundary.
func (c *Candidate) EnsureID() {
	if c.ID != "" || c.Title == "" {
		return
	}
	sum := sha256.Sum256([]byte(NormalizeTitle(c.Title)))
	c.ID = "title:" + hex.EncodeToString(sum[:8])
}

// NormalizeTitle returns a lowercased, punctuation-stripped, space-collapsed
// version of the title, used for fallback identifiers.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
