package pipeline

import (
	"fmt"

	"gocv.io/x/gocv"

	"scribble-colorizer/internal/opencv/safe"
)

type ImageSaver struct {
	logger Logger
}

func NewImageSaver(logger Logger) *ImageSaver {
	return &ImageSaver{logger: logger}
}

// SaveToFile encodes the Mat into the format implied by the file
// extension and writes it to path.
func (s *ImageSaver) SaveToFile(path string, mat *safe.Mat) error {
	if err := safe.ValidateMatForOperation(mat, "image save"); err != nil {
		return err
	}

	if ok := gocv.IMWrite(path, mat.GetMat()); !ok {
		err := fmt.Errorf("failed to write image to %s", path)
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"path": path,
		})
		return err
	}

	s.logger.Info("ImageSaver", "image saved", map[string]interface{}{
		"path":   path,
		"width":  mat.Cols(),
		"height": mat.Rows(),
	})

	return nil
}
