package conversion

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"scribble-colorizer/internal/opencv/safe"
)

// ChannelPlanes flattens a 3-channel 8-bit Mat into three float64 planes
// in row-major pixel order, so that pixel (i,j) lands at index i*cols+j.
func ChannelPlanes(src *safe.Mat) ([]float64, []float64, []float64, error) {
	if err := validateColorMat(src, "channel plane extraction"); err != nil {
		return nil, nil, nil, err
	}

	rows := src.Rows()
	cols := src.Cols()
	c0 := make([]float64, rows*cols)
	c1 := make([]float64, rows*cols)
	c2 := make([]float64, rows*cols)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			r := i*cols + j
			for ch, plane := range [3][]float64{c0, c1, c2} {
				value, err := src.GetUCharAt3(i, j, ch)
				if err != nil {
					return nil, nil, nil, fmt.Errorf("channel %d access failed at (%d,%d): %w", ch, j, i, err)
				}
				plane[r] = float64(value)
			}
		}
	}

	return c0, c1, c2, nil
}

// MaskBits flattens a single-channel mask into a bool slice in row-major
// pixel order; any non-zero value marks the pixel as constrained.
func MaskBits(mask *safe.Mat) ([]bool, error) {
	if err := safe.ValidateMatForOperation(mask, "mask flattening"); err != nil {
		return nil, err
	}
	if err := safe.ValidateChannels(mask, 1, "mask flattening"); err != nil {
		return nil, err
	}

	rows := mask.Rows()
	cols := mask.Cols()
	bits := make([]bool, rows*cols)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			value, err := mask.GetUCharAt(i, j)
			if err != nil {
				return nil, fmt.Errorf("mask access failed at (%d,%d): %w", j, i, err)
			}
			bits[i*cols+j] = value != 0
		}
	}

	return bits, nil
}

// PlanesToYUV packs three row-major float64 planes into an 8-bit YUV Mat,
// rounding to nearest and saturating to [0,255] per channel.
func PlanesToYUV(y, u, v []float64, rows, cols int) (*safe.Mat, error) {
	if len(y) != rows*cols || len(u) != rows*cols || len(v) != rows*cols {
		return nil, fmt.Errorf("plane length mismatch: want %d, got y=%d u=%d v=%d",
			rows*cols, len(y), len(u), len(v))
	}

	dst, err := safe.NewMat(rows, cols, gocv.MatTypeCV8UC3)
	if err != nil {
		return nil, err
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			r := i*cols + j
			for ch, plane := range [3][]float64{y, u, v} {
				if err := dst.SetUCharAt3(i, j, ch, saturateUChar(plane[r])); err != nil {
					dst.Close()
					return nil, fmt.Errorf("plane write failed at (%d,%d): %w", j, i, err)
				}
			}
		}
	}

	return dst, nil
}

func saturateUChar(value float64) uint8 {
	rounded := math.Round(value)
	if rounded < 0 {
		return 0
	}
	if rounded > 255 {
		return 255
	}
	return uint8(rounded)
}
