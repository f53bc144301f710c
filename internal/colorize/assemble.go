package colorize

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"scribble-colorizer/internal/sparse"
)

// buildSystem assembles the shared coefficient matrix and the two
// right-hand sides for one colorization. Every pixel row carries a unit
// diagonal. A coupling to an unscribbled neighbor stays in the matrix as
// -w(r,s); a coupling to a scribbled neighbor is folded into bu[r]/bv[r]
// as w(r,s) times that neighbor's known chrominance. Scribbled pixels
// keep their full weighted rows rather than being pinned with identity
// equations; the constraint acts through the neighbor weighting, which is
// what makes the propagation behave like the classical formulation.
func buildSystem(y, u, v []float64, hasColor []bool, rows, cols int, gamma float64) (*sparse.CSR, *mat.VecDense, *mat.VecDense, error) {
	nPixels := rows * cols
	if len(y) != nPixels || len(u) != nPixels || len(v) != nPixels || len(hasColor) != nPixels {
		return nil, nil, nil, fmt.Errorf("plane length mismatch: want %d pixels, got y=%d u=%d v=%d mask=%d",
			nPixels, len(y), len(u), len(v), len(hasColor))
	}

	coefficients := make([]sparse.Triplet, 0, nPixels*3)
	bu := make([]float64, nPixels)
	bv := make([]float64, nPixels)

	const maxNeighbors = 8
	neighbors := make([]int, 0, maxNeighbors)
	weights := make([]float64, 0, maxNeighbors)
	valuesBuf := make([]float64, 0, maxNeighbors+1)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			r := i*cols + j
			neighbors = neighborsOf(i, j, rows, cols, neighbors)
			weights = affinityWeights(y, r, neighbors, gamma, weights, valuesBuf)

			coefficients = append(coefficients, sparse.Triplet{Row: r, Col: r, Val: 1})
			for k, s := range neighbors {
				w := weights[k]
				if hasColor[s] {
					// Known chrominance moves to the right-hand side.
					bu[r] += w * u[s]
					bv[r] += w * v[s]
				} else {
					coefficients = append(coefficients, sparse.Triplet{Row: r, Col: s, Val: -w})
				}
			}
		}
	}

	a, err := sparse.NewCSR(nPixels, nPixels, coefficients)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("assemble coefficient matrix: %w", err)
	}

	return a, mat.NewVecDense(nPixels, bu), mat.NewVecDense(nPixels, bv), nil
}
