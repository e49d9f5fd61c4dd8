// Package pipeline crops and resizes one image/label pair at a time, choosing
// the crop that loses the least annotated area and rewriting the labels for
// the output image.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/menta2k/polycrop/pkg/cropper"
	"github.com/menta2k/polycrop/pkg/labels"
	"github.com/menta2k/polycrop/pkg/types"
)

// ImageCodec is the pixel-level collaborator. The pipeline never inspects
// pixel content itself.
type ImageCodec interface {
	Decode(path string) (image.Image, error)
	Crop(img image.Image, r image.Rectangle) image.Image
	Resize(img image.Image, width, height int) image.Image
	Pad(img image.Image, canvas types.Dimensions, at image.Point) image.Image
	Encode(img image.Image, path string) error
}

// Options configures a Pipeline
type Options struct {
	Target types.Dimensions
	Logger *log.Logger // nil discards log output
}

// Pair names the input and output files for one image.
type Pair struct {
	ImagePath    string
	LabelPath    string // a missing file means the image has no objects
	OutImagePath string // empty skips writing the image
	OutLabelPath string // empty skips writing the labels
}

// Result describes what was done to one pair. Plan and Loss are set by
// ProcessPair, Letterbox by LetterboxPair.
type Result struct {
	Plan      types.CropPlan
	Loss      float64 // annotated pixel area removed by the crop
	Letterbox types.LetterboxPlan
	Objects   []types.LabeledObject
	Image     image.Image
}

// Pipeline processes image/label pairs. It holds no per-pair state, so one
// Pipeline may be shared by goroutines as long as its codec allows that.
type Pipeline struct {
	codec  ImageCodec
	target types.Dimensions
	logger *log.Logger
}

// New creates a pipeline that writes target-sized images.
func New(codec ImageCodec, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Pipeline{codec: codec, target: opts.Target, logger: logger}
}

// Plan chooses the crop for an image of the given size holding objects and
// reports the annotated area it removes.
func (p *Pipeline) Plan(original types.Dimensions, objects []types.LabeledObject) (types.CropPlan, float64, error) {
	polygons := cropper.PixelPolygons(objects, original)
	plan, err := cropper.NewPlan(original, p.target, polygons)
	if err != nil {
		return types.CropPlan{}, 0, err
	}
	loss := cropper.Loss(plan.Rect, polygons, original.Width, original.Height)
	return plan, loss, nil
}

// ProcessPair crops, resizes and relabels a single image. Errors abort this
// pair only; the caller decides whether to continue with the next one.
func (p *Pipeline) ProcessPair(pair Pair) (Result, error) {
	if p.target.Width <= 0 || p.target.Height <= 0 {
		return Result{}, types.NewDimensionError("target size %dx%d", p.target.Width, p.target.Height)
	}

	objects, err := p.readObjects(pair.LabelPath)
	if err != nil {
		return Result{}, err
	}

	img, err := p.codec.Decode(pair.ImagePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load image: %w", err)
	}
	original := types.Dimensions{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}

	plan, loss, err := p.Plan(original, objects)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", pair.ImagePath, err)
	}
	p.logger.Printf("%s: %dx%d -> %dx%d crop=%+v loss=%.1f objects=%d",
		pair.ImagePath, original.Width, original.Height, p.target.Width, p.target.Height,
		plan.Rect, loss, len(objects))

	out := p.codec.Resize(p.codec.Crop(img, plan.Bounds()), p.target.Width, p.target.Height)
	transformed := cropper.TransformObjects(objects, plan)

	if err := p.write(pair, out, transformed); err != nil {
		return Result{}, err
	}

	return Result{Plan: plan, Loss: loss, Objects: transformed, Image: out}, nil
}

// write stores the output image and then its labels. If the labels cannot be
// written the image is removed again, so a failed pair leaves nothing behind.
func (p *Pipeline) write(pair Pair, img image.Image, objects []types.LabeledObject) error {
	if pair.OutImagePath != "" {
		if err := p.codec.Encode(img, pair.OutImagePath); err != nil {
			return err
		}
		p.logger.Printf("wrote %s", pair.OutImagePath)
	}
	if pair.OutLabelPath != "" {
		if err := labels.WriteFile(pair.OutLabelPath, objects); err != nil {
			if pair.OutImagePath != "" {
				if rmErr := os.Remove(pair.OutImagePath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
					p.logger.Printf("failed to remove %s: %v", pair.OutImagePath, rmErr)
				}
			}
			return err
		}
		p.logger.Printf("wrote %s", pair.OutLabelPath)
	}
	return nil
}

func (p *Pipeline) readObjects(path string) ([]types.LabeledObject, error) {
	if path == "" {
		return nil, nil
	}
	objects, err := labels.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		p.logger.Printf("no label file at %s, processing without objects", path)
		return nil, nil
	}
	return objects, err
}
