package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrCountMismatch = errors.New("embedding count does not match input count")

// Provider turns texts into vectors. Output order and count follow the input,
// and every vector of one provider has the same dimension.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Timed bounds every Embed call of the wrapped provider.
type Timed struct {
	Provider Provider
	Timeout  time.Duration
}

func (t Timed) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if t.Timeout <= 0 {
		return t.Provider.Embed(ctx, texts)
	}
	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()
	return t.Provider.Embed(ctx, texts)
}

// CheckBatch validates the shape of a provider response.
func CheckBatch(texts []string, vectors [][]float32) error {
	if len(vectors) != len(texts) {
		return fmt.Errorf("%w: got %d, want %d", ErrCountMismatch, len(vectors), len(texts))
	}
	for i := 1; i < len(vectors); i++ {
		if len(vectors[i]) != len(vectors[0]) {
			return fmt.Errorf("embedding %d has dimension %d, want %d", i, len(vectors[i]), len(vectors[0]))
		}
	}
	return nil
}

// Normalize scales a vector to unit length. A zero vector is returned as is.
func Normalize(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}

// ToFloat32 narrows a float64 vector as returned by most HTTP APIs.
func ToFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
