package colorize

import (
	"math"
)

// varianceFloor keeps the kernel denominator away from zero in
// near-constant luminance regions.
const varianceFloor = 0.01

// neighborsOf appends to buf the flattened indices of the pixels in the
// 3x3 window around (i,j), excluding (i,j) itself and clipping at the
// image borders. Interior pixels have 8 neighbors, edges 5, corners 3.
func neighborsOf(i, j, rows, cols int, buf []int) []int {
	buf = buf[:0]
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dy == 0 && dx == 0 {
				continue
			}
			m := i + dy
			n := j + dx
			if m < 0 || n < 0 || m >= rows || n >= cols {
				continue
			}
			buf = append(buf, m*cols+n)
		}
	}
	return buf
}

// populationVariance computes E[X^2]-E[X]^2 over vals plus the variance
// floor. The biased population form matches the affinity kernel, which
// only needs a local intensity scale, not an unbiased estimate.
func populationVariance(vals []float64) float64 {
	var sum, squaredSum float64
	for _, v := range vals {
		sum += v
		squaredSum += v * v
	}
	n := float64(len(vals))
	return squaredSum/n - (sum*sum)/(n*n) + varianceFloor
}

// affinityWeights fills weights with one normalized affinity per neighbor
// of pixel r: exp(-gamma*(Y[r]-Y[s])^2 / (2*variance)) scaled so the row
// sums to 1. The variance is taken over the neighbor luminances plus the
// center pixel itself. valuesBuf is scratch space for that set.
func affinityWeights(y []float64, r int, neighbors []int, gamma float64, weights, valuesBuf []float64) []float64 {
	weights = weights[:0]
	valuesBuf = valuesBuf[:0]

	for _, s := range neighbors {
		d := y[r] - y[s]
		weights = append(weights, d*d)
		valuesBuf = append(valuesBuf, y[s])
	}
	valuesBuf = append(valuesBuf, y[r])

	variance := populationVariance(valuesBuf)

	normalizer := 0.0
	for k, d := range weights {
		w := math.Exp(-gamma * d / (2 * variance))
		weights[k] = w
		normalizer += w
	}

	// The exponential keeps every term positive, so the normalizer is
	// non-zero whenever the neighbor set is non-empty.
	for k := range weights {
		weights[k] /= normalizer
	}

	return weights
}
