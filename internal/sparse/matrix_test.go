package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSRBuildsFromUnorderedTriplets(t *testing.T) {
	entries := []Triplet{
		{Row: 2, Col: 0, Val: 5},
		{Row: 0, Col: 0, Val: 1},
		{Row: 1, Col: 2, Val: -3},
		{Row: 0, Col: 1, Val: 2},
	}

	m, err := NewCSR(3, 3, entries)
	require.NoError(t, err)

	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 4, m.NNZ())

	assert.Equal(t, 1.0, m.At(0, 0))
	assert.Equal(t, 2.0, m.At(0, 1))
	assert.Equal(t, -3.0, m.At(1, 2))
	assert.Equal(t, 5.0, m.At(2, 0))
	assert.Equal(t, 0.0, m.At(2, 2))
}

func TestNewCSRSumsDuplicateEntries(t *testing.T) {
	entries := []Triplet{
		{Row: 1, Col: 1, Val: 1},
		{Row: 1, Col: 1, Val: 0.5},
		{Row: 1, Col: 1, Val: -0.25},
	}

	m, err := NewCSR(2, 2, entries)
	require.NoError(t, err)

	assert.Equal(t, 1, m.NNZ())
	assert.InDelta(t, 1.25, m.At(1, 1), 1e-15)
}

func TestNewCSRRejectsOutOfRangeEntries(t *testing.T) {
	_, err := NewCSR(2, 2, []Triplet{{Row: 2, Col: 0, Val: 1}})
	assert.Error(t, err)

	_, err = NewCSR(2, 2, []Triplet{{Row: 0, Col: -1, Val: 1}})
	assert.Error(t, err)

	_, err = NewCSR(0, 3, nil)
	assert.Error(t, err)
}

func TestCSRMulVecTo(t *testing.T) {
	// | 2  0 -1 |
	// | 0  3  0 |
	// | 1  0  4 |
	m, err := NewCSR(3, 3, []Triplet{
		{Row: 0, Col: 0, Val: 2},
		{Row: 0, Col: 2, Val: -1},
		{Row: 1, Col: 1, Val: 3},
		{Row: 2, Col: 0, Val: 1},
		{Row: 2, Col: 2, Val: 4},
	})
	require.NoError(t, err)

	dst := make([]float64, 3)
	m.MulVecTo(dst, []float64{1, 2, 3})

	assert.InDelta(t, -1.0, dst[0], 1e-15)
	assert.InDelta(t, 6.0, dst[1], 1e-15)
	assert.InDelta(t, 13.0, dst[2], 1e-15)
}

func TestCSRDiagonal(t *testing.T) {
	m, err := NewCSR(3, 3, []Triplet{
		{Row: 0, Col: 0, Val: 2},
		{Row: 1, Col: 0, Val: 7},
		{Row: 2, Col: 2, Val: -4},
	})
	require.NoError(t, err)

	diag := m.Diagonal(nil)
	assert.Equal(t, []float64{2, 0, -4}, diag)
}
