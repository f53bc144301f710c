package pipeline

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"gocv.io/x/gocv"

	"scribble-colorizer/internal/opencv/safe"
)

type ImageLoader struct {
	logger Logger
}

func NewImageLoader(logger Logger) *ImageLoader {
	return &ImageLoader{logger: logger}
}

// LoadFromFile reads and decodes a 3-channel color image.
func (l *ImageLoader) LoadFromFile(path string) (*ImageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	l.logger.Debug("ImageLoader", "loading image", map[string]interface{}{
		"path":       path,
		"size_bytes": len(data),
	})

	return l.LoadFromBytes(data, strings.ToLower(filepath.Ext(path)))
}

// LoadFromBytes decodes image bytes twice: with the standard library for
// the Go image interface and format detection, and with OpenCV for Mat
// operations.
func (l *ImageLoader) LoadFromBytes(data []byte, extension string) (*ImageData, error) {
	img, standardLibFormat, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image with standard library: %w", err)
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image with OpenCV: %w", err)
	}

	safeMat, err := safe.NewMatFromMat(mat)
	mat.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to create safe Mat: %w", err)
	}

	actualFormat := determineActualFormat(extension, standardLibFormat)
	bounds := img.Bounds()

	imageData := &ImageData{
		Image:    img,
		Mat:      safeMat,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Channels: safeMat.Channels(),
		Format:   actualFormat,
	}

	l.logger.Info("ImageLoader", "image loaded successfully", map[string]interface{}{
		"width":    imageData.Width,
		"height":   imageData.Height,
		"channels": imageData.Channels,
		"format":   actualFormat,
	})

	return imageData, nil
}

// LoadMaskFromFile reads and decodes a single-channel constraint mask.
func (l *ImageLoader) LoadMaskFromFile(path string) (*safe.Mat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mask file: %w", err)
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadGrayScale)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mask with OpenCV: %w", err)
	}

	safeMat, err := safe.NewMatFromMat(mat)
	mat.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to create safe Mat: %w", err)
	}

	l.logger.Info("ImageLoader", "mask loaded successfully", map[string]interface{}{
		"path":   path,
		"width":  safeMat.Cols(),
		"height": safeMat.Rows(),
	})

	return safeMat, nil
}

func determineActualFormat(extension, stdLibFormat string) string {
	switch extension {
	case ".tiff", ".tif":
		return "tiff"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	default:
		if stdLibFormat != "" {
			return stdLibFormat
		}
		return "unknown"
	}
}
