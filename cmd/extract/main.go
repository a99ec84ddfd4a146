// Package main extracts rendered sensor observations from a scene directory
// and writes them to disk as images, using the in-memory fake engine. It is a
// reference driver for the extraction pipeline; swap the fake constructor for
// a native engine binding to extract from real scenes.
package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/edaniels/golog"
	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/scenedata/extractor"
	"go.viam.com/scenedata/simulator"
	"go.viam.com/scenedata/simulator/fake"
	"go.viam.com/scenedata/topdown"
)

const (
	flagScene   = "scene"
	flagOut     = "out"
	flagHeight  = "height"
	flagWidth   = "width"
	flagOutputs = "outputs"
	flagTrain   = "train"
	flagTest    = "test"
	flagShuffle = "shuffle"
	flagMode    = "mode"
	flagCount   = "count"
	flagSeed    = "seed"
	flagDebug   = "debug"
)

func main() {
	var logger golog.Logger

	app := &cli.App{
		Name:  "extract",
		Usage: "extract sensor observation datasets from 3D scenes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagScene,
				Usage:    "scene asset file, or directory searched recursively for scenes",
				Required: true,
			},
			&cli.StringFlag{
				Name:  flagOut,
				Value: "extraction_out",
				Usage: "directory observations are written to",
			},
			&cli.IntFlag{
				Name:  flagHeight,
				Value: 512,
				Usage: "observation height in pixels",
			},
			&cli.IntFlag{
				Name:  flagWidth,
				Value: 512,
				Usage: "observation width in pixels",
			},
			&cli.StringSliceFlag{
				Name:  flagOutputs,
				Value: cli.NewStringSlice("rgba"),
				Usage: "outputs to request (rgba, depth, semantic)",
			},
			&cli.IntFlag{
				Name:  flagTrain,
				Value: 70,
				Usage: "train split percentage",
			},
			&cli.IntFlag{
				Name:  flagTest,
				Value: 30,
				Usage: "test split percentage",
			},
			&cli.BoolFlag{
				Name:  flagShuffle,
				Value: true,
				Usage: "shuffle poses before splitting",
			},
			&cli.StringFlag{
				Name:  flagMode,
				Value: "full",
				Usage: "partition to extract (full, train, test)",
			},
			&cli.IntFlag{
				Name:  flagCount,
				Usage: "max samples to extract (0 means all)",
			},
			&cli.Int64Flag{
				Name:  flagSeed,
				Value: 1,
				Usage: "seed for the fake engine and shuffling",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = golog.NewDebugLogger("extract")
			} else {
				logger = golog.NewDevelopmentLogger("extract")
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			return runExtraction(c, logger)
		},
	}

	if err := app.Run(os.Args); err != nil {
		golog.Global().Fatal(err)
	}
}

func runExtraction(c *cli.Context, logger golog.Logger) error {
	ctx := c.Context
	outDir := c.String(flagOut)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	seed := c.Int64(flagSeed)
	conf := extractor.Config{
		ScenePath: c.String(flagScene),
		ImageSize: simulator.ImageSize{Height: c.Int(flagHeight), Width: c.Int(flagWidth)},
		Outputs:   c.StringSlice(flagOutputs),
		NewSimulator: func(ctx context.Context, cfg simulator.Config) (simulator.Simulator, error) {
			return fake.NewSimulator(cfg, seed)
		},
		Shuffle: c.Bool(flagShuffle),
		Rand:    rand.New(rand.NewSource(seed)),
		Split:   [2]int{c.Int(flagTrain), c.Int(flagTest)},
	}

	ext, err := extractor.New(ctx, conf, logger)
	if err != nil {
		return err
	}
	defer goutils.UncheckedErrorFunc(func() error {
		return ext.Close(ctx)
	})

	if err := ext.SetMode(c.String(flagMode)); err != nil {
		return err
	}

	for i, view := range ext.Views() {
		fn := filepath.Join(outDir, fmt.Sprintf("topdown_%03d.png", i))
		if err := saveTopdownPreview(view, fn); err != nil {
			return err
		}
	}

	total := ext.Len()
	count := c.Int(flagCount)
	if count <= 0 || count > total {
		count = total
	}
	logger.Infow("extracting", "samples", count, "total", total, "mode", c.String(flagMode))

	for i := 0; i < count; i++ {
		sample, err := ext.Get(ctx, i)
		if err != nil {
			return err
		}
		if err := saveSample(sample, outDir, i); err != nil {
			return err
		}
	}
	logger.Infow("done", "out", outDir)
	return nil
}

func saveSample(sample extractor.Sample, outDir string, idx int) error {
	var err error
	for name, obs := range sample {
		fn := filepath.Join(outDir, fmt.Sprintf("%s_%06d.png", name, idx))
		err = multierr.Append(err, saveObservation(obs, fn))
	}
	return err
}

func saveObservation(obs simulator.Observation, fn string) error {
	switch o := obs.(type) {
	case *simulator.ColorObservation:
		return imaging.Save(o.Frame, fn)
	case *simulator.DepthObservation:
		return imaging.Save(depthToGray(o), fn)
	case *simulator.SemanticObservation:
		return imaging.Save(semanticToGray(o), fn)
	default:
		return errors.Errorf("cannot save observation of type %T", obs)
	}
}

// depthToGray maps the depth range onto 8-bit grayscale, near is dark.
func depthToGray(o *simulator.DepthObservation) *image.Gray {
	rows, cols := o.Depth.Dims()
	minD, maxD := math.Inf(1), math.Inf(-1)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			d := o.Depth.At(r, c)
			minD = math.Min(minD, d)
			maxD = math.Max(maxD, d)
		}
	}
	span := maxD - minD
	if span == 0 {
		span = 1
	}
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			img.SetGray(c, r, color.Gray{Y: uint8(255 * (o.Depth.At(r, c) - minD) / span)})
		}
	}
	return img
}

// semanticToGray spreads instance ids across the 8-bit range so adjacent ids
// stay distinguishable by eye.
func semanticToGray(o *simulator.SemanticObservation) *image.Gray {
	shape := o.Shape()
	rows, cols := shape[0], shape[1]
	maxID := 1
	for _, row := range o.Instances {
		for _, id := range row {
			if id > maxID {
				maxID = id
			}
		}
	}
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for r, row := range o.Instances {
		for c, id := range row {
			img.SetGray(c, r, color.Gray{Y: uint8(255 * id / maxID)})
		}
	}
	return img
}

func saveTopdownPreview(view *topdown.View, fn string) error {
	rows, cols := view.Dims()
	dc := gg.NewContext(cols, rows)
	dc.SetColor(color.White)
	dc.Clear()
	raster := view.Raster()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if raster.At(r, c) != 0 {
				dc.SetColor(color.RGBA{R: 255, A: 255})
				dc.SetPixel(c, r)
			}
		}
	}
	return dc.SavePNG(fn)
}
