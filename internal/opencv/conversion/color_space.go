package conversion

import (
	"gocv.io/x/gocv"

	"scribble-colorizer/internal/opencv/safe"
)

// ToYUV converts a 3-channel BGR image to YUV.
func ToYUV(src *safe.Mat) (*safe.Mat, error) {
	if err := validateColorMat(src, "BGR to YUV conversion"); err != nil {
		return nil, err
	}

	dst, err := safe.NewMat(src.Rows(), src.Cols(), gocv.MatTypeCV8UC3)
	if err != nil {
		return nil, err
	}

	srcMat := src.GetMat()
	dstMat := dst.GetMat()
	gocv.CvtColor(srcMat, &dstMat, gocv.ColorBGRToYUV)

	return dst, nil
}

// FromYUV converts a 3-channel YUV image back to BGR.
func FromYUV(src *safe.Mat) (*safe.Mat, error) {
	if err := validateColorMat(src, "YUV to BGR conversion"); err != nil {
		return nil, err
	}

	dst, err := safe.NewMat(src.Rows(), src.Cols(), gocv.MatTypeCV8UC3)
	if err != nil {
		return nil, err
	}

	srcMat := src.GetMat()
	dstMat := dst.GetMat()
	gocv.CvtColor(srcMat, &dstMat, gocv.ColorYUVToBGR)

	return dst, nil
}

func validateColorMat(mat *safe.Mat, operation string) error {
	if err := safe.ValidateMatForOperation(mat, operation); err != nil {
		return err
	}
	return safe.ValidateChannels(mat, 3, operation)
}
