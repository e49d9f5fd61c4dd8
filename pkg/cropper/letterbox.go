package cropper

import (
	"math"

	"github.com/menta2k/polycrop/pkg/types"
)

// NewLetterbox plans padding original with black bars so it matches the
// aspect ratio of target. A relatively wider image gets bars above and below,
// anything else gets bars left and right. The bars are split evenly, with
// the odd pixel going to the bottom or right.
func NewLetterbox(original, target types.Dimensions) (types.LetterboxPlan, error) {
	if err := validateDimensions(original, target); err != nil {
		return types.LetterboxPlan{}, err
	}

	plan := types.LetterboxPlan{Original: original, Canvas: original, Target: target}
	targetRatio := target.AspectRatio()
	if original.AspectRatio() > targetRatio {
		h := int(math.Round(float64(original.Width) / targetRatio))
		if h < original.Height {
			h = original.Height
		}
		plan.Canvas.Height = h
		plan.PadY = (h - original.Height) / 2
	} else {
		w := int(math.Round(float64(original.Height) * targetRatio))
		if w < original.Width {
			w = original.Width
		}
		plan.Canvas.Width = w
		plan.PadX = (w - original.Width) / 2
	}

	return plan, nil
}

// LetterboxVertex maps a normalized vertex of the original image onto the
// padded canvas. Resizing the canvas does not change normalized positions.
func LetterboxVertex(pt types.Point, plan types.LetterboxPlan) types.Point {
	return types.Point{
		X: (pt.X*float64(plan.Original.Width) + float64(plan.PadX)) / float64(plan.Canvas.Width),
		Y: (pt.Y*float64(plan.Original.Height) + float64(plan.PadY)) / float64(plan.Canvas.Height),
	}
}

// LetterboxObjects maps every object onto the canvas, keeping class ids and
// vertex order.
func LetterboxObjects(objects []types.LabeledObject, plan types.LetterboxPlan) []types.LabeledObject {
	out := make([]types.LabeledObject, len(objects))
	for i, obj := range objects {
		p := make(types.Polygon, len(obj.Polygon))
		for j, pt := range obj.Polygon {
			p[j] = LetterboxVertex(pt, plan)
		}
		out[i] = types.LabeledObject{ClassID: obj.ClassID, Polygon: p}
	}
	return out
}
