// Package polycrop prepares polygon-annotated image datasets for detection and
// segmentation training.
//
// Images are cropped to a target aspect ratio and resized. Where the crop is
// taken is chosen to destroy as little annotated polygon area as possible,
// and every label is rewritten in the coordinate space of the output image.
//
// Basic usage:
//
//	cropper, err := polycrop.NewWithConfig(polycrop.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := cropper.ProcessImageFile("images/frame_001.jpg", "labels", "out")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("crop %+v lost %.0f px²\n", result.Plan.Rect, result.Loss)
//
// The package consists of these components:
//
// 1. Labels (pkg/labels): reads and writes the polygon label format
// 2. Geometry (pkg/geometry): polygon area and vertex clamping
// 3. Cropper (pkg/cropper): crop loss, crop split search and label remapping
// 4. Processing (pkg/processing): image decode, crop, resize, encode and previews
// 5. Pipeline (pkg/pipeline): runs the above for one image/label pair
//
// Besides cropping, images can be letterboxed (Crop.Mode "letterbox") and
// single objects can be cut out for classification datasets (ExtractObject).
package polycrop

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/menta2k/polycrop/internal/config"
	"github.com/menta2k/polycrop/internal/utils"
	"github.com/menta2k/polycrop/pkg/labels"
	"github.com/menta2k/polycrop/pkg/pipeline"
	"github.com/menta2k/polycrop/pkg/processing"
	"github.com/menta2k/polycrop/pkg/types"
)

// Version of the polycrop library
const Version = "1.0.0"

// Config is the library configuration
type Config = config.Config

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig reads a JSON or YAML configuration file
func LoadConfig(path string) (*Config, error) {
	return config.LoadFromFile(path)
}

// Cropper crops annotated images and rewrites their labels
type Cropper struct {
	config    *Config
	processor *processing.Processor
	pipeline  *pipeline.Pipeline
}

// New creates a Cropper with default settings and the given output size
func New(target types.Dimensions) (*Cropper, error) {
	cfg := DefaultConfig()
	cfg.Crop.TargetWidth = target.Width
	cfg.Crop.TargetHeight = target.Height
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Cropper from a validated configuration
func NewWithConfig(cfg *Config) (*Cropper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	filter, err := processing.ParseFilter(cfg.Crop.ResampleFilter)
	if err != nil {
		return nil, err
	}
	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(os.Stderr, "[polycrop] ", log.Ltime|log.Lmsgprefix)
	}

	processor := processing.NewProcessorWithConfig(processing.Config{
		Filter:    filter,
		Quality:   cfg.Output.Quality,
		Lossless:  cfg.Output.Lossless,
		Grayscale: cfg.Crop.Grayscale,
		Logger:    logger,
	})

	return &Cropper{
		config:    cfg,
		processor: processor,
		pipeline:  pipeline.New(processor, pipeline.Options{Target: cfg.Target(), Logger: logger}),
	}, nil
}

// ProcessPair crops one image and its labels using explicit paths
func (c *Cropper) ProcessPair(pair pipeline.Pair) (pipeline.Result, error) {
	return c.pipeline.ProcessPair(pair)
}

// ProcessImageFile crops, or letterboxes when Crop.Mode is "letterbox", the
// image at imagePath together with its label file from labelDir (next to the
// image when empty) and writes both to outputDir. A preview overlay is written
// as well when previews are enabled.
func (c *Cropper) ProcessImageFile(imagePath, labelDir, outputDir string) (pipeline.Result, error) {
	imageOut := filepath.Join(outputDir, "images")
	labelOut := filepath.Join(outputDir, "labels")
	for _, dir := range []string{imageOut, labelOut} {
		if err := utils.EnsureDir(dir); err != nil {
			return pipeline.Result{}, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	out := c.config.Output
	outImagePath := utils.GenerateOutputFilename(imagePath, imageOut, out.Prefix, out.Suffix, out.ImageFormat)
	pair := pipeline.Pair{
		ImagePath:    imagePath,
		LabelPath:    utils.LabelPathFor(imagePath, labelDir),
		OutImagePath: outImagePath,
		OutLabelPath: utils.LabelPathFor(outImagePath, labelOut),
	}

	process := c.pipeline.ProcessPair
	if c.config.Crop.Mode == config.ModeLetterbox {
		process = c.pipeline.LetterboxPair
	}
	result, err := process(pair)
	if err != nil {
		return pipeline.Result{}, err
	}

	if c.config.Preview.Enabled {
		previewDir := filepath.Join(outputDir, "previews")
		if err := utils.EnsureDir(previewDir); err != nil {
			return result, fmt.Errorf("failed to create preview directory: %w", err)
		}
		path := utils.GenerateOutputFilename(imagePath, previewDir, "preview_", "", c.config.Preview.Format)
		if err := c.WritePreview(result, path); err != nil {
			return result, err
		}
	}

	return result, nil
}

// PlanImageFile chooses the crop for an image without decoding its pixels.
// Only the image header is read.
func (c *Cropper) PlanImageFile(imagePath, labelDir string) (types.CropPlan, float64, error) {
	w, h, err := c.processor.Dimensions(imagePath)
	if err != nil {
		return types.CropPlan{}, 0, err
	}

	objects, err := labels.ReadFile(utils.LabelPathFor(imagePath, labelDir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return types.CropPlan{}, 0, err
	}

	return c.pipeline.Plan(types.Dimensions{Width: w, Height: h}, objects)
}

// ExtractObject cuts the first labelled object out of the image at imagePath,
// padded by Classify.Padding and centred on a black square, and writes it to
// outputDir/<class id>/. It returns the written path, or pipeline.ErrNoObjects
// when the image has no labels.
func (c *Cropper) ExtractObject(imagePath, labelDir, outputDir string) (string, error) {
	obj, err := c.pipeline.ExtractObject(imagePath, utils.LabelPathFor(imagePath, labelDir), c.config.Classify.Padding)
	if err != nil {
		return "", err
	}

	classDir := filepath.Join(outputDir, strconv.Itoa(obj.ClassID))
	if err := utils.EnsureDir(classDir); err != nil {
		return "", fmt.Errorf("failed to create class directory: %w", err)
	}
	out := c.config.Output
	path := utils.GenerateOutputFilename(imagePath, classDir, out.Prefix, out.Suffix, out.ImageFormat)
	if err := c.processor.Encode(obj.Image, path); err != nil {
		return "", err
	}
	return path, nil
}

// WritePreview draws the transformed labels of result over its output image.
func (c *Cropper) WritePreview(result pipeline.Result, path string) error {
	preview := c.processor.CreatePreview(result.Image, result.Objects, c.config.Preview.Opacity)
	return c.processor.Encode(preview, path)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
