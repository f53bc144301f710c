package pipeline

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"scribble-colorizer/internal/opencv/safe"
)

// LuminancePSNR measures how well the colorized image preserves the
// luminance of the original. Both images are reduced to grayscale and
// compared pixel by pixel; the result is the peak signal-to-noise ratio
// in dB, +Inf for a perfect match. Colorization only replaces
// chrominance, so a low value signals a reconstruction problem.
func LuminancePSNR(original, colorized *safe.Mat) (float64, error) {
	if err := safe.ValidateMatForOperation(original, "luminance PSNR"); err != nil {
		return 0, err
	}
	if err := safe.ValidateMatForOperation(colorized, "luminance PSNR"); err != nil {
		return 0, err
	}
	if err := safe.ValidateSameShape(original, colorized, "luminance PSNR"); err != nil {
		return 0, err
	}

	origGray, err := toGray(original)
	if err != nil {
		return 0, err
	}
	defer origGray.Close()

	colorGray, err := toGray(colorized)
	if err != nil {
		return 0, err
	}
	defer colorGray.Close()

	rows := origGray.Rows()
	cols := origGray.Cols()

	sum := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			a := float64(origGray.GetUCharAt(i, j))
			b := float64(colorGray.GetUCharAt(i, j))
			d := a - b
			sum += d * d
		}
	}
	mse := sum / float64(rows*cols)

	if mse == 0 {
		return math.Inf(1), nil
	}
	return 20.0 * math.Log10(255.0/math.Sqrt(mse)), nil
}

func toGray(src *safe.Mat) (gocv.Mat, error) {
	gray := gocv.NewMat()
	switch src.Channels() {
	case 1:
		src.GetMat().CopyTo(&gray)
	case 3:
		gocv.CvtColor(src.GetMat(), &gray, gocv.ColorBGRToGray)
	default:
		gray.Close()
		return gocv.Mat{}, fmt.Errorf("luminance PSNR requires 1 or 3 channels, got %d", src.Channels())
	}
	return gray, nil
}
