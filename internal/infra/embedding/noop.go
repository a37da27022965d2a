package embedding

import (
	"context"
	"hash/fnv"
)

// NoOp is an embedding provider that derives a deterministic vector from
// the input text. Useful for testing and development without API access;
// identical texts map to identical vectors, so cosine ordering is stable.
type NoOp struct{}

// NewNoOp creates a new NoOp embedding provider.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Embed returns a deterministic pseudo-embedding of the configured
// dimension.
func (n *NoOp) Embed(_ context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()

	vec := make([]float32, Dimension)
	for i := range vec {
		// xorshift keeps the sequence cheap and reproducible
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		vec[i] = float32(seed%2000)/1000.0 - 1.0
	}
	return vec, nil
}
