package pipeline

import (
	"errors"
	"fmt"
	"image"

	"github.com/menta2k/polycrop/pkg/cropper"
	"github.com/menta2k/polycrop/pkg/types"
)

// ErrNoObjects is returned by ExtractObject for images without labels.
var ErrNoObjects = errors.New("image has no labelled objects")

// ObjectResult is a single object cut out of an image for a classification
// dataset.
type ObjectResult struct {
	ClassID int
	Bounds  image.Rectangle // region taken from the original image
	Image   image.Image     // square, object centred on black
}

// ExtractObject cuts the first labelled object of an image out along its
// bounding box grown by padding pixels and centres it on a black square.
// Nothing is written; the caller decides where each class goes.
func (p *Pipeline) ExtractObject(imagePath, labelPath string, padding int) (ObjectResult, error) {
	objects, err := p.readObjects(labelPath)
	if err != nil {
		return ObjectResult{}, err
	}
	if len(objects) == 0 {
		return ObjectResult{}, ErrNoObjects
	}
	obj := objects[0]

	img, err := p.codec.Decode(imagePath)
	if err != nil {
		return ObjectResult{}, fmt.Errorf("failed to load image: %w", err)
	}
	dims := types.Dimensions{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}

	bounds, err := cropper.ObjectBounds(obj.Polygon, dims, padding)
	if err != nil {
		return ObjectResult{}, fmt.Errorf("%s: %w", imagePath, err)
	}
	side, at := cropper.SquareCanvas(bounds)
	p.logger.Printf("%s: class %d object %v -> %dx%d", imagePath, obj.ClassID, bounds, side, side)

	out := p.codec.Pad(p.codec.Crop(img, bounds), types.Dimensions{Width: side, Height: side}, at)
	return ObjectResult{ClassID: obj.ClassID, Bounds: bounds, Image: out}, nil
}
