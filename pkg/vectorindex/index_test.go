package vectorindex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Build(
		[][]float32{{0, 0}, {1, 0}, {0, 3}, {1, 0}},
		[]string{"origin", "east", "north", "east again"},
	)
	require.NoError(t, err)
	return idx
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		vectors [][]float32
		chunks  []string
		want    error
	}{
		{"empty", nil, nil, ErrEmptyInput},
		{"no chunks", [][]float32{{1}}, nil, ErrEmptyInput},
		{"length mismatch", [][]float32{{1}, {2}}, []string{"a"}, ErrLengthMismatch},
		{"ragged", [][]float32{{1, 2}, {3}}, []string{"a", "b"}, ErrDimensionMismatch},
		{"zero dim", [][]float32{{}}, []string{"a"}, ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := Build(tt.vectors, tt.chunks)
			assert.Nil(t, idx)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestSearchSortedAscending(t *testing.T) {
	idx := sampleIndex(t)

	matches, err := idx.Search([]float32{0.9, 0}, 4)
	require.NoError(t, err)
	require.Len(t, matches, 4)

	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i-1].Distance, matches[i].Distance)
	}
	// equal distances keep insertion order
	assert.Equal(t, "east", matches[0].Chunk)
	assert.Equal(t, 1, matches[0].Position)
	assert.Equal(t, "east again", matches[1].Chunk)
	assert.Equal(t, "origin", matches[2].Chunk)
	assert.Equal(t, "north", matches[3].Chunk)
	assert.InDelta(t, 0.01, matches[0].Distance, 1e-6)
}

func TestSearchKLargerThanIndex(t *testing.T) {
	idx := sampleIndex(t)

	matches, err := idx.Search([]float32{0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, matches, 4)
}

func TestSearchTopK(t *testing.T) {
	idx := sampleIndex(t)

	matches, err := idx.Search([]float32{0, 3}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "north", matches[0].Chunk)
	assert.Zero(t, matches[0].Distance)
}

func TestSearchErrors(t *testing.T) {
	idx := sampleIndex(t)

	_, err := idx.Search([]float32{1, 2, 3}, 3)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))

	_, err = idx.Search([]float32{1, 2}, 0)
	assert.True(t, errors.Is(err, ErrInvalidK))

	var empty *Index
	_, err = empty.Search([]float32{1}, 1)
	assert.True(t, errors.Is(err, ErrEmptyIndex))
}

func TestBuildCopiesInput(t *testing.T) {
	vectors := [][]float32{{1, 1}}
	chunks := []string{"a"}
	idx, err := Build(vectors, chunks)
	require.NoError(t, err)

	vectors[0][0] = 99
	chunks[0] = "mutated"

	matches, err := idx.Search([]float32{1, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, "a", matches[0].Chunk)
	assert.Zero(t, matches[0].Distance)
}
