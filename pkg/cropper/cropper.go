// Package cropper decides where to crop an annotated image so that it matches
// a target aspect ratio while destroying as little annotated area as
// possible, and remaps polygon labels into the cropped and resized image.
package cropper

import (
	"math"

	"github.com/menta2k/polycrop/pkg/types"
)

// WorkingRect computes the symmetric pre-crop that brings original to the
// aspect ratio of target. Exactly one of cropX and cropY can be non-zero: a
// relatively wider image is cropped horizontally, anything else vertically.
func WorkingRect(original, target types.Dimensions) (working types.Dimensions, cropX, cropY int, err error) {
	if err := validateDimensions(original, target); err != nil {
		return types.Dimensions{}, 0, 0, err
	}

	targetRatio := target.AspectRatio()
	if original.AspectRatio() > targetRatio {
		w := int(math.Round(float64(original.Height) * targetRatio))
		if w < 1 {
			return types.Dimensions{}, 0, 0, types.NewDimensionError(
				"%dx%d cannot be cropped to ratio %.4f", original.Width, original.Height, targetRatio)
		}
		working = types.Dimensions{Width: w, Height: original.Height}
		cropX = (original.Width - w) / 2
	} else {
		h := int(math.Round(float64(original.Width) / targetRatio))
		if h < 1 {
			return types.Dimensions{}, 0, 0, types.NewDimensionError(
				"%dx%d cannot be cropped to ratio %.4f", original.Width, original.Height, targetRatio)
		}
		working = types.Dimensions{Width: original.Width, Height: h}
		cropY = (original.Height - h) / 2
	}

	return working, cropX, cropY, nil
}

// NewPlan builds the crop plan for an image. polygons must be in the original
// image's pixel space.
func NewPlan(original, target types.Dimensions, polygons []types.Polygon) (types.CropPlan, error) {
	working, cropX, cropY, err := WorkingRect(original, target)
	if err != nil {
		return types.CropPlan{}, err
	}

	rect, err := Optimize(original.Width, original.Height, 2*cropX, 2*cropY, polygons)
	if err != nil {
		return types.CropPlan{}, err
	}

	return types.CropPlan{
		Original: original,
		Working:  working,
		Target:   target,
		CropX:    cropX,
		CropY:    cropY,
		Rect:     rect,
	}, nil
}

// PixelPolygons denormalizes the polygons of objects against dims.
func PixelPolygons(objects []types.LabeledObject, dims types.Dimensions) []types.Polygon {
	polygons := make([]types.Polygon, len(objects))
	for i, obj := range objects {
		polygons[i] = obj.Polygon.Denormalize(dims.Width, dims.Height)
	}
	return polygons
}

func validateDimensions(original, target types.Dimensions) error {
	if target.Width <= 0 || target.Height <= 0 {
		return types.NewDimensionError("target size %dx%d", target.Width, target.Height)
	}
	if original.Width <= 0 || original.Height <= 0 {
		return types.NewDimensionError("image size %dx%d", original.Width, original.Height)
	}
	return nil
}
