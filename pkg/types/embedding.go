// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "math"

// Embedding is a fixed-length vector plus the values downstream similarity
// math needs without re-deriving them: the precomputed L2 norm, the generating
// model's identifier, and the dimensionality.
type Embedding struct {
	Vector []float32 `json:"vector" yaml:"vector"`
	Norm   float64   `json:"norm" yaml:"norm"`
	Model  string    `json:"model" yaml:"model"`
	Dim    int       `json:"dim" yaml:"dim"`
}

// NewEmbedding wraps a raw vector, computing its norm once.
func NewEmbedding(vec []float32, model string) Embedding {
	return Embedding{
		Vector: vec,
		Norm:   L2Norm(vec),
		Model:  model,
		Dim:    len(vec),
	}
}

// IsZero reports whether the embedding is unset or degenerate (zero norm
// vectors cannot participate in cosine similarity).
func (e Embedding) IsZero() bool {
	return len(e.Vector) == 0 || e.Norm == 0
}

// L2Norm returns the Euclidean norm of vec.
func L2Norm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// CosineSimilarity computes dot(a,b) / (|a|·|b|) using the stored norms.
// Returns 0 for mismatched dimensionality or zero-norm inputs.
func CosineSimilarity(a, b Embedding) float64 {
	if a.IsZero() || b.IsZero() || a.Dim != b.Dim {
		return 0
	}
	var dot float64
	for i := range a.Vector {
		dot += float64(a.Vector[i]) * float64(b.Vector[i])
	}
	return dot / (a.Norm * b.Norm)
}
