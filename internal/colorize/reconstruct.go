package colorize

import (
	"fmt"

	"scribble-colorizer/internal/opencv/conversion"
	"scribble-colorizer/internal/opencv/safe"
)

// reconstruct merges the original luminance with the solved chrominance
// planes and converts the result back to an 8-bit BGR image of the same
// dimensions.
func reconstruct(y, u, v []float64, rows, cols int) (*safe.Mat, error) {
	yuv, err := conversion.PlanesToYUV(y, u, v, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("merge channel planes: %w", err)
	}
	defer yuv.Close()

	out, err := conversion.FromYUV(yuv)
	if err != nil {
		return nil, fmt.Errorf("convert to BGR: %w", err)
	}

	return out, nil
}
