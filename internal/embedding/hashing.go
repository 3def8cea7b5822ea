// Package embedding provides a local, deterministic embedding provider.
package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/spigell/hr-signals/internal/ai"
)

// DefaultDimension matches the dimension the psychological scorer expects by default.
const DefaultDimension = 384

// Hashing embeds text by hashing lowercase word tokens into signed buckets
// and L2-normalizing the result. It never fails and needs no network.
type Hashing struct {
	dim int
}

// NewHashing returns a hashing embedder of the given dimension.
func NewHashing(dim int) *Hashing {
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &Hashing{dim: dim}
}

// Dim returns the vector length.
func (h *Hashing) Dim() int { return h.dim }

func (h *Hashing) Status() ai.Status {
	return ai.Status{
		Name:    "embedding",
		Enabled: true,
		Details: map[string]string{"provider": "hashing", "dimension": strconv.Itoa(h.dim)},
	}
}

// Embed implements ai.Embedder. Empty text yields the zero vector.
func (h *Hashing) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, h.dim)

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	for _, tok := range tokens {
		hasher := fnv.New64a()
		_, _ = hasher.Write([]byte(tok))
		sum := hasher.Sum64()

		idx := int(sum % uint64(h.dim))
		sign := 1.0
		if (sum>>63)&1 == 1 {
			sign = -1.0
		}
		vec[idx] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec, nil
	}

	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}

	return vec, nil
}
