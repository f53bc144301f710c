// Command scribble-colorizer propagates user-painted color scribbles
// across a grayscale image and writes the colorized result.
package main

import (
	"flag"
	"fmt"
	"os"

	"scribble-colorizer/internal/colorize"
	"scribble-colorizer/internal/logger"
	"scribble-colorizer/internal/opencv/safe"
	"scribble-colorizer/internal/pipeline"
)

type config struct {
	imagePath     string
	scribblesPath string
	maskPath      string
	outputPath    string
	saveMaskPath  string
	gamma         float64
	eps           float64
	erosions      int
	maxIterations int
	tolerance     float64
}

func main() {
	var cfg config
	flag.StringVar(&cfg.imagePath, "image", "", "path to the grayscale input image (required)")
	flag.StringVar(&cfg.scribblesPath, "scribbles", "", "path to the scribbled copy of the input image (required)")
	flag.StringVar(&cfg.maskPath, "mask", "", "path to an external constraint mask; derived from the scribbles when empty")
	flag.StringVar(&cfg.outputPath, "output", "colorized.png", "path for the colorized output image")
	flag.StringVar(&cfg.saveMaskPath, "save-mask", "", "optional path to write the derived scribble mask")
	flag.Float64Var(&cfg.gamma, "gamma", colorize.DefaultOptions().Gamma, "affinity kernel sharpness, must be positive")
	flag.Float64Var(&cfg.eps, "eps", colorize.DefaultMaskEps, "scribble detection threshold on the summed channel difference")
	flag.IntVar(&cfg.erosions, "erosions", colorize.DefaultMaskErosions, "number of 3x3 erosions applied to the raw scribble mask")
	flag.IntVar(&cfg.maxIterations, "max-iterations", 0, "solver iteration limit per channel, 0 for automatic")
	flag.Float64Var(&cfg.tolerance, "tolerance", 0, "solver relative residual target, 0 for the default")
	flag.Parse()

	appLogger := logger.NewConsoleLogger(logger.LevelFromEnv())

	if cfg.imagePath == "" || cfg.scribblesPath == "" {
		fmt.Fprintln(os.Stderr, "both -image and -scribbles are required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("Main", err, nil)
		os.Exit(1)
	}
}

func run(cfg config, appLogger logger.Logger) error {
	loader := pipeline.NewImageLoader(appLogger)
	saver := pipeline.NewImageSaver(appLogger)

	imageData, err := loader.LoadFromFile(cfg.imagePath)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}
	defer imageData.Close()

	scribblesData, err := loader.LoadFromFile(cfg.scribblesPath)
	if err != nil {
		return fmt.Errorf("load scribbles: %w", err)
	}
	defer scribblesData.Close()

	colorizer := colorize.New(appLogger)

	var mask *safe.Mat
	if cfg.maskPath != "" {
		mask, err = loader.LoadMaskFromFile(cfg.maskPath)
		if err != nil {
			return fmt.Errorf("load mask: %w", err)
		}
	} else {
		mask, err = colorizer.ScribbleMask(imageData.Mat, scribblesData.Mat, cfg.eps, cfg.erosions)
		if err != nil {
			return fmt.Errorf("extract scribble mask: %w", err)
		}
	}
	defer mask.Close()

	if cfg.saveMaskPath != "" {
		if err := saver.SaveToFile(cfg.saveMaskPath, mask); err != nil {
			return fmt.Errorf("save mask: %w", err)
		}
	}

	opt := colorize.DefaultOptions()
	opt.Gamma = cfg.gamma
	opt.MaxIterations = cfg.maxIterations
	opt.Tolerance = cfg.tolerance

	result, err := colorizer.Colorize(imageData.Mat, scribblesData.Mat, mask, opt)
	if err != nil {
		return fmt.Errorf("colorize: %w", err)
	}
	defer result.Close()

	if psnr, err := pipeline.LuminancePSNR(imageData.Mat, result); err == nil {
		appLogger.Debug("Main", "luminance preservation", map[string]interface{}{
			"psnr_db": psnr,
		})
	}

	if err := saver.SaveToFile(cfg.outputPath, result); err != nil {
		return fmt.Errorf("save output: %w", err)
	}

	return nil
}
