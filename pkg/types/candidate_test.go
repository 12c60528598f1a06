package types

import (
	"math"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"mixed case and punctuation", "Attention Is All You Need!", "attention is all you need"},
		{"extra whitespace", "  Deep   Learning  ", "deep learning"},
		{"digits kept", "GPT-4 Technical Report", "gpt4 technical report"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.title); got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestEnsureID(t *testing.T) {
	c := Candidate{Title: "Climate Adaptation Strategies"}
	c.EnsureID()
	if c.ID == "" {
		t.Fatal("EnsureID left ID empty")
	}

	// Same normalized title, same fallback identifier.
	dup := Candidate{Title: "climate adaptation strategies!"}
	dup.EnsureID()
	if dup.ID != c.ID {
		t.Errorf("fallback IDs differ: %q vs %q", c.ID, dup.ID)
	}

	// An existing identifier is never overwritten.
	keep := Candidate{ID: "10.1234/x", Title: "Climate Adaptation Strategies"}
	keep.EnsureID()
	if keep.ID != "10.1234/x" {
		t.Errorf("EnsureID overwrote existing ID: %q", keep.ID)
	}

	// No title, no fallback.
	blank := Candidate{}
	blank.EnsureID()
	if blank.ID != "" {
		t.Errorf("EnsureID invented an ID for a blank candidate: %q", blank.ID)
	}
}

func TestRelevanceScoreFallsBackToLexical(t *testing.T) {
	c := Candidate{LexicalScore: 12.5}
	if got := c.RelevanceScore(); got != 12.5 {
		t.Errorf("RelevanceScore() = %f, want lexical 12.5", got)
	}

	sem := 0.83
	c.SemanticScore = &sem
	if got := c.RelevanceScore(); got != 0.83 {
		t.Errorf("RelevanceScore() = %f, want semantic 0.83", got)
	}
}

func TestParsePurpose(t *testing.T) {
	for _, p := range Purposes() {
		got, err := ParsePurpose(string(p))
		if err != nil || got != p {
			t.Errorf("ParsePurpose(%q) = %v, %v", p, got, err)
		}
	}

	if _, err := ParsePurpose("speedreading"); err == nil {
		t.Error("ParsePurpose accepted an unknown purpose")
	}
}

func TestBandValid(t *testing.T) {
	tests := []struct {
		band Band
		want bool
	}{
		{Band{Min: 30, Max: 80}, true},
		{Band{Min: 1, Max: 1}, true},
		{Band{Min: 0, Max: 80}, false},
		{Band{Min: 50, Max: 30}, false},
	}
	for _, tt := range tests {
		if got := tt.band.Valid(); got != tt.want {
			t.Errorf("Band{%d,%d}.Valid() = %v, want %v", tt.band.Min, tt.band.Max, got, tt.want)
		}
	}
}

func TestQueryContextValidate(t *testing.T) {
	valid := QueryContext{
		RawQuery: "climate adaptation",
		Purpose:  PurposeQMethodology,
		Band:     Band{Min: 30, Max: 80},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v for a valid context", err)
	}

	empty := valid
	empty.RawQuery = ""
	if err := empty.Validate(); err == nil {
		t.Error("Validate accepted an empty query")
	}

	badPurpose := valid
	badPurpose.Purpose = "skim"
	if err := badPurpose.Validate(); err == nil {
		t.Error("Validate accepted an unknown purpose")
	}

	badBand := valid
	badBand.Band = Band{Min: 10, Max: 5}
	if err := badBand.Validate(); err == nil {
		t.Error("Validate accepted an inverted band")
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := NewEmbedding([]float32{1, 0, 0}, "m")
	b := NewEmbedding([]float32{1, 0, 0}, "m")
	if got := CosineSimilarity(a, b); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("identical vectors: similarity = %f, want 1.0", got)
	}

	c := NewEmbedding([]float32{0, 1, 0}, "m")
	if got := CosineSimilarity(a, c); math.Abs(got) > 1e-9 {
		t.Errorf("orthogonal vectors: similarity = %f, want 0", got)
	}

	// Mismatched dimensionality and zero vectors degrade to 0, never panic.
	short := NewEmbedding([]float32{1, 0}, "m")
	if got := CosineSimilarity(a, short); got != 0 {
		t.Errorf("mismatched dims: similarity = %f, want 0", got)
	}
	if got := CosineSimilarity(a, Embedding{}); got != 0 {
		t.Errorf("zero embedding: similarity = %f, want 0", got)
	}
}

func TestNewEmbeddingPrecomputesNorm(t *testing.T) {
	e := NewEmbedding([]float32{3, 4}, "m")
	if math.Abs(e.Norm-5) > 1e-9 {
		t.Errorf("Norm = %f, want 5", e.Norm)
	}
	if e.Dim != 2 {
		t.Errorf("Dim = %d, want 2", e.Dim)
	}
	if e.Model != "m" {
		t.Errorf("Model = %q, want m", e.Model)
	}
}
