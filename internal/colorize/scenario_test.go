package colorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"scribble-colorizer/internal/sparse"
)

func solvePlanes(t *testing.T, y, u, v []float64, mask []bool, rows, cols int) (*mat.VecDense, *mat.VecDense) {
	t.Helper()

	a, bu, bv, err := buildSystem(y, u, v, mask, rows, cols, 2.0)
	require.NoError(t, err)

	solver, err := sparse.NewBiCGStab(a, sparse.Settings{})
	require.NoError(t, err)

	uSolved, err := solver.Solve(bu)
	require.NoError(t, err)
	vSolved, err := solver.Solve(bv)
	require.NoError(t, err)

	return uSolved, vSolved
}

func TestSingleScribblePropagatesAcross2x2(t *testing.T) {
	// Uniform luminance, one scribble at (0,0) with chrominance (10,-10).
	// On a fully connected 2x2 grid the unique solution carries the
	// scribbled chrominance to every pixel exactly.
	y := flatPlane(4, 128)
	u := []float64{10, 0, 0, 0}
	v := []float64{-10, 0, 0, 0}
	mask := []bool{true, false, false, false}

	uSolved, vSolved := solvePlanes(t, y, u, v, mask, 2, 2)

	for _, r := range []int{1, 2, 3} {
		assert.InDelta(t, 10.0, uSolved.AtVec(r), 1e-6, "U at pixel %d", r)
		assert.InDelta(t, -10.0, vSolved.AtVec(r), 1e-6, "V at pixel %d", r)
	}

	// Pixels sharing an edge with the scribble receive at least as much
	// chrominance as the diagonal pixel.
	assert.GreaterOrEqual(t, uSolved.AtVec(1)+1e-9, uSolved.AtVec(3))
	assert.GreaterOrEqual(t, uSolved.AtVec(2)+1e-9, uSolved.AtVec(3))
}

func TestSingleScribblePropagatesUniformlyOnFlatLuminance(t *testing.T) {
	// Because every weight row is normalized to 1, folding the single
	// scribble into the right-hand side leaves the constant field equal
	// to the scribbled chrominance as the exact solution: on a flat
	// image one scribble recolors everything uniformly.
	const rows, cols = 3, 3
	n := rows * cols
	y := flatPlane(n, 100)
	u := make([]float64, n)
	v := make([]float64, n)
	u[0] = 10
	v[0] = -10
	mask := make([]bool, n)
	mask[0] = true

	uSolved, vSolved := solvePlanes(t, y, u, v, mask, rows, cols)

	for r := 0; r < n; r++ {
		assert.InDelta(t, 10.0, uSolved.AtVec(r), 1e-6, "U at pixel %d", r)
		assert.InDelta(t, -10.0, vSolved.AtVec(r), 1e-6, "V at pixel %d", r)
	}
}

func TestChrominanceInterpolatesBetweenCompetingScribbles(t *testing.T) {
	// 3x3 flat luminance with U=10 scribbled at (0,0) and U=0 at (2,2).
	// With uniform weights the system solves to
	//   6 at (0,1)/(1,0), 5 at (0,2)/(1,1)/(2,0), 4 at (1,2)/(2,1),
	// so chrominance falls off with distance from the stronger scribble.
	const rows, cols = 3, 3
	n := rows * cols
	y := flatPlane(n, 100)
	u := make([]float64, n)
	v := make([]float64, n)
	u[0] = 10
	mask := make([]bool, n)
	mask[0] = true
	mask[8] = true

	uSolved, _ := solvePlanes(t, y, u, v, mask, rows, cols)

	assert.InDelta(t, 6.0, uSolved.AtVec(1), 1e-6)
	assert.InDelta(t, 6.0, uSolved.AtVec(3), 1e-6)
	assert.InDelta(t, 5.0, uSolved.AtVec(2), 1e-6)
	assert.InDelta(t, 5.0, uSolved.AtVec(4), 1e-6)
	assert.InDelta(t, 5.0, uSolved.AtVec(6), 1e-6)
	assert.InDelta(t, 4.0, uSolved.AtVec(5), 1e-6)
	assert.InDelta(t, 4.0, uSolved.AtVec(7), 1e-6)

	// Closer to the U=10 scribble means more of its chrominance.
	assert.Greater(t, uSolved.AtVec(1), uSolved.AtVec(7))
}
