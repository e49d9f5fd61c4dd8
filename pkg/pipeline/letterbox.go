package pipeline

import (
	"fmt"

	"github.com/menta2k/polycrop/pkg/cropper"
	"github.com/menta2k/polycrop/pkg/types"
)

// LetterboxPair fits a whole image into the target size by padding it with
// black bars instead of cropping, then rewrites its labels for the padded
// image. No annotated area is lost.
func (p *Pipeline) LetterboxPair(pair Pair) (Result, error) {
	objects, err := p.readObjects(pair.LabelPath)
	if err != nil {
		return Result{}, err
	}

	img, err := p.codec.Decode(pair.ImagePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load image: %w", err)
	}
	original := types.Dimensions{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}

	plan, err := cropper.NewLetterbox(original, p.target)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", pair.ImagePath, err)
	}
	p.logger.Printf("%s: %dx%d -> %dx%d letterbox canvas=%dx%d pad=%d,%d objects=%d",
		pair.ImagePath, original.Width, original.Height, p.target.Width, p.target.Height,
		plan.Canvas.Width, plan.Canvas.Height, plan.PadX, plan.PadY, len(objects))

	out := p.codec.Resize(p.codec.Pad(img, plan.Canvas, plan.Offset()), p.target.Width, p.target.Height)
	transformed := cropper.LetterboxObjects(objects, plan)

	if err := p.write(pair, out, transformed); err != nil {
		return Result{}, err
	}

	return Result{Letterbox: plan, Objects: transformed, Image: out}, nil
}
