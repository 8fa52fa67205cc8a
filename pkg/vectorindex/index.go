package vectorindex

import (
	"fmt"
	"sort"
)

// Index is an immutable flat L2 index over the sentence chunks of one document.
// Position i of the vectors corresponds to position i of the chunks.
type Index struct {
	vectors   [][]float32
	chunks    []string
	dimension int
}

type Match struct {
	Position int
	Chunk    string
	Distance float64 // squared L2
}

func Build(vectors [][]float32, chunks []string) (*Index, error) {
	if len(vectors) == 0 || len(chunks) == 0 {
		return nil, ErrEmptyInput
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("%w: %d vectors, %d chunks", ErrLengthMismatch, len(vectors), len(chunks))
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-length vector", ErrDimensionMismatch)
	}

	vs := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d, expected %d", ErrDimensionMismatch, i, len(v), dim)
		}
		vs[i] = append([]float32(nil), v...)
	}

	return &Index{
		vectors:   vs,
		chunks:    append([]string(nil), chunks...),
		dimension: dim,
	}, nil
}

func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.chunks)
}

func (i *Index) Dimension() int {
	return i.dimension
}

func (i *Index) Chunks() []string {
	return append([]string(nil), i.chunks...)
}

// Search returns the min(k, Len()) nearest chunks, closest first. Equal
// distances keep insertion order.
func (i *Index) Search(query []float32, k int) ([]Match, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}
	if i.Len() == 0 {
		return nil, ErrEmptyIndex
	}
	if len(query) != i.dimension {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), i.dimension)
	}

	matches := make([]Match, len(i.vectors))
	for pos, v := range i.vectors {
		matches[pos] = Match{
			Position: pos,
			Chunk:    i.chunks[pos],
			Distance: squaredL2(v, query),
		}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Distance < matches[b].Distance
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for j := range a {
		d := float64(a[j]) - float64(b[j])
		sum += d * d
	}
	return sum
}
