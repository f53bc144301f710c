package colorize

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"scribble-colorizer/internal/opencv/safe"
)

// scribbleMask marks the pixels the user painted: the per-channel absolute
// difference between the image and the scribbles is summed across channels
// (saturating 8-bit addition), thresholded at eps, then shrunk by
// nErosions erosions with a 3x3 rectangular structuring element. Erosion
// removes thin anti-aliasing fringes at scribble edges so partially
// blended border pixels do not become hard constraints.
func scribbleMask(img, scribbles *safe.Mat, eps float64, nErosions int) (*safe.Mat, error) {
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(img.GetMat(), scribbles.GetMat(), &diff)

	channels := gocv.Split(diff)
	defer func() {
		for i := range channels {
			channels[i].Close()
		}
	}()
	if len(channels) != 3 {
		return nil, fmt.Errorf("expected 3 difference channels, got %d", len(channels))
	}

	sum := gocv.NewMat()
	defer sum.Close()
	gocv.Add(channels[0], channels[1], &sum)
	gocv.Add(sum, channels[2], &sum)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(sum, &mask, float32(eps), 255, gocv.ThresholdBinary)

	if nErosions > 0 {
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
		defer kernel.Close()

		eroded := gocv.NewMat()
		defer eroded.Close()
		gocv.ErodeWithParams(mask, &eroded, kernel, image.Pt(-1, -1), nErosions, int(gocv.BorderConstant))
		return safe.NewMatFromMat(eroded)
	}

	return safe.NewMatFromMat(mask)
}
