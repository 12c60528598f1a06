// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// LocalModel is a deterministic, dependency-free embedding model: token
// hashes seed a linear congruential generator whose outputs fill the vector.
// It captures coarse lexical overlap only — texts sharing tokens land nearer
// in the space — and exists so the pipeline runs offline and so determinism
// can be tested without a network model. Production deployments configure a
// RemoteModel instead.
type LocalModel struct {
	name string
	dim  int
}

// NewLocalModel returns a local model with the given dimensionality.
func NewLocalModel(dim int) *LocalModel {
	if dim <= 0 {
		dim = 384
	}
	return &LocalModel{name: "local-hash-v1", dim: dim}
}

// Name returns the model identifier.
func (m *LocalModel) Name() string { return m.name }

// Dimensions returns the fixed output dimensionality.
func (m *LocalModel) Dimensions() int { return m.dim }

// Embed generates the vector for text. Same text, same vector, always.
func (m *LocalModel) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, m.dim)

	// Each token contributes a pseudo-random unit pattern seeded by its hash,
	// so shared tokens produce correlated vectors.
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == ' ' {
			if i > start {
				addTokenPattern(vec, text[start:i])
			}
			start = i + 1
		}
	}

	normalize(vec)
	return vec, nil
}

func addTokenPattern(vec []float32, token string) {
	sum := sha256.Sum256([]byte(token))
	seed := binary.LittleEndian.Uint64(sum[:8])
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		// Map the top bits to [-1, 1).
		vec[i] += float32(int64(seed>>11))/float32(1<<52) - 1
	}
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) * inv)
	}
}
