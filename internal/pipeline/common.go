package pipeline

import (
	"image"

	"scribble-colorizer/internal/opencv/safe"
)

// Logger is the structured logging interface used by pipeline components.
type Logger interface {
	Debug(component string, message string, fields map[string]interface{})
	Info(component string, message string, fields map[string]interface{})
	Warning(component string, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// ImageData couples a decoded image with its OpenCV representation.
type ImageData struct {
	Image    image.Image
	Mat      *safe.Mat
	Width    int
	Height   int
	Channels int
	Format   string
}

// Close releases the OpenCV side of the image data.
func (d *ImageData) Close() {
	if d != nil && d.Mat != nil {
		d.Mat.Close()
	}
}
