// Package colorize propagates user-supplied color scribbles across a
// grayscale image by solving one sparse linear system per chrominance
// channel, weighted by local luminance similarity.
package colorize

import (
	"fmt"
	"math"
	"time"

	"scribble-colorizer/internal/opencv/conversion"
	"scribble-colorizer/internal/opencv/safe"
	"scribble-colorizer/internal/sparse"
)

const component = "Colorizer"

// Logger is the narrow logging interface the colorizer needs.
type Logger interface {
	Debug(component string, message string, fields map[string]interface{})
	Info(component string, message string, fields map[string]interface{})
	Warning(component string, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// Options control the affinity kernel and the iterative solver.
type Options struct {
	// Gamma controls kernel sharpness: higher values make the affinity
	// fall off faster with luminance difference, producing sharper color
	// boundaries. Must be positive.
	Gamma float64
	// MaxIterations bounds each per-channel solve. Zero selects the
	// solver default of twice the pixel count.
	MaxIterations int
	// Tolerance is the relative residual target of each solve. Zero
	// selects the solver default.
	Tolerance float64
}

// DefaultOptions returns the parameters of the classical formulation.
func DefaultOptions() Options {
	return Options{Gamma: 2.0}
}

// Default mask extraction parameters.
const (
	DefaultMaskEps      = 1.0
	DefaultMaskErosions = 1
)

// Colorizer runs the scribble propagation pipeline. Each call allocates
// its own system and shares nothing, so one Colorizer may serve
// concurrent calls as long as every call owns its input Mats.
type Colorizer struct {
	logger Logger
}

func New(logger Logger) *Colorizer {
	return &Colorizer{logger: logger}
}

// ScribbleMask derives the constraint mask from the difference between
// the original image and the scribbled image, as described on scribbleMask.
// Both images must be 3-channel and of identical dimensions.
func (c *Colorizer) ScribbleMask(img, scribbles *safe.Mat, eps float64, nErosions int) (*safe.Mat, error) {
	if err := validatePair(img, scribbles, "scribble mask extraction"); err != nil {
		return nil, err
	}
	if !(eps > 0) {
		return nil, fmt.Errorf("eps must be positive, got %g", eps)
	}
	if nErosions < 0 {
		return nil, fmt.Errorf("nErosions must be non-negative, got %d", nErosions)
	}

	mask, err := scribbleMask(img, scribbles, eps, nErosions)
	if err != nil {
		return nil, err
	}

	c.logger.Debug(component, "scribble mask extracted", map[string]interface{}{
		"width":    mask.Cols(),
		"height":   mask.Rows(),
		"eps":      eps,
		"erosions": nErosions,
	})

	return mask, nil
}

// Colorize propagates the chrominance of the scribbled pixels across the
// whole image. img and scribbles are 3-channel 8-bit BGR images of equal
// size; mask is a single-channel image of the same size whose non-zero
// pixels carry hard color constraints (typically from ScribbleMask, but
// any caller-supplied constraint mask works). The result is a 3-channel
// 8-bit BGR image of the same dimensions. If either per-channel solve
// fails to converge, no image is returned.
func (c *Colorizer) Colorize(img, scribbles, mask *safe.Mat, opt Options) (*safe.Mat, error) {
	if err := validateInputs(img, scribbles, mask, opt.Gamma); err != nil {
		return nil, err
	}

	start := time.Now()
	rows := img.Rows()
	cols := img.Cols()

	yuvImage, err := conversion.ToYUV(img)
	if err != nil {
		return nil, fmt.Errorf("convert image to YUV: %w", err)
	}
	defer yuvImage.Close()

	y, _, _, err := conversion.ChannelPlanes(yuvImage)
	if err != nil {
		return nil, fmt.Errorf("extract luminance plane: %w", err)
	}

	yuvScribbles, err := conversion.ToYUV(scribbles)
	if err != nil {
		return nil, fmt.Errorf("convert scribbles to YUV: %w", err)
	}
	defer yuvScribbles.Close()

	_, u, v, err := conversion.ChannelPlanes(yuvScribbles)
	if err != nil {
		return nil, fmt.Errorf("extract scribble chrominance planes: %w", err)
	}

	hasColor, err := conversion.MaskBits(mask)
	if err != nil {
		return nil, fmt.Errorf("flatten mask: %w", err)
	}

	constrained := 0
	for _, b := range hasColor {
		if b {
			constrained++
		}
	}
	if constrained == 0 {
		// Degenerate but accepted: the system becomes a free-floating
		// Laplacian and the solve may not be unique.
		c.logger.Warning(component, "mask has no constrained pixels", map[string]interface{}{
			"width":  cols,
			"height": rows,
		})
	}

	a, bu, bv, err := buildSystem(y, u, v, hasColor, rows, cols, opt.Gamma)
	if err != nil {
		return nil, err
	}

	c.logger.Debug(component, "linear system assembled", map[string]interface{}{
		"pixels":      rows * cols,
		"nonzeros":    a.NNZ(),
		"constrained": constrained,
		"gamma":       opt.Gamma,
	})

	solver, err := sparse.NewBiCGStab(a, sparse.Settings{
		MaxIterations: opt.MaxIterations,
		Tolerance:     opt.Tolerance,
	})
	if err != nil {
		return nil, fmt.Errorf("prepare solver: %w", err)
	}

	c.logger.Info(component, "solving for U channel", nil)
	uSolved, err := solver.Solve(bu)
	if err != nil {
		return nil, fmt.Errorf("solve U channel: %w", err)
	}
	c.logChannelSolve("U", solver)

	c.logger.Info(component, "solving for V channel", nil)
	vSolved, err := solver.Solve(bv)
	if err != nil {
		return nil, fmt.Errorf("solve V channel: %w", err)
	}
	c.logChannelSolve("V", solver)

	out, err := reconstruct(y, uSolved.RawVector().Data, vSolved.RawVector().Data, rows, cols)
	if err != nil {
		return nil, err
	}

	c.logger.Info(component, "colorization finished", map[string]interface{}{
		"width":       cols,
		"height":      rows,
		"elapsed_ms":  time.Since(start).Milliseconds(),
		"constrained": constrained,
	})

	return out, nil
}

func (c *Colorizer) logChannelSolve(channel string, solver *sparse.BiCGStab) {
	c.logger.Debug(component, "channel solved", map[string]interface{}{
		"channel":    channel,
		"iterations": solver.Iterations(),
		"residual":   solver.Residual(),
	})
}

func validateInputs(img, scribbles, mask *safe.Mat, gamma float64) error {
	if err := validatePair(img, scribbles, "colorize"); err != nil {
		return err
	}
	if err := safe.ValidateMatForOperation(mask, "colorize"); err != nil {
		return err
	}
	if err := safe.ValidateChannels(mask, 1, "colorize"); err != nil {
		return err
	}
	if err := safe.ValidateSameShape(img, mask, "colorize"); err != nil {
		return err
	}
	if !(gamma > 0) || math.IsInf(gamma, 1) {
		return fmt.Errorf("gamma must be positive and finite, got %g", gamma)
	}
	return nil
}

func validatePair(img, scribbles *safe.Mat, operation string) error {
	if err := safe.ValidateMatForOperation(img, operation); err != nil {
		return err
	}
	if err := safe.ValidateMatForOperation(scribbles, operation); err != nil {
		return err
	}
	if err := safe.ValidateChannels(img, 3, operation); err != nil {
		return err
	}
	if err := safe.ValidateChannels(scribbles, 3, operation); err != nil {
		return err
	}
	return safe.ValidateSameShape(img, scribbles, operation)
}
