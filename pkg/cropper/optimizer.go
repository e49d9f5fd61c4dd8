package cropper

import (
	"math"

	"github.com/menta2k/polycrop/pkg/types"
)

// Optimize chooses how to split cropXTotal pixels between the left and right
// edges and cropYTotal pixels between the top and bottom edges of a width x
// height image so that the least polygon area is lost.
//
// The four one-sided placements are tried first and returned as soon as one
// loses nothing. Otherwise every integer split is evaluated with left
// ascending in the outer loop and top ascending in the inner loop. The first
// zero-loss split wins, else the first split with minimal loss. Losses can be
// negative: clamping a self-intersecting polygon may grow its area.
func Optimize(width, height, cropXTotal, cropYTotal int, polygons []types.Polygon) (types.CropRectangle, error) {
	if width <= 0 || height <= 0 {
		return types.CropRectangle{}, types.NewDimensionError("image size %dx%d", width, height)
	}
	if cropXTotal < 0 || cropYTotal < 0 {
		return types.CropRectangle{}, types.NewDimensionError("negative crop totals %d,%d", cropXTotal, cropYTotal)
	}
	if cropXTotal > width || cropYTotal > height {
		return types.CropRectangle{}, types.NewDimensionError(
			"crop totals %d,%d exceed image size %dx%d", cropXTotal, cropYTotal, width, height)
	}

	fastPaths := []types.CropRectangle{
		{Left: cropXTotal, Right: 0, Top: cropYTotal, Bottom: 0},
		{Left: 0, Right: cropXTotal, Top: cropYTotal, Bottom: 0},
		{Left: cropXTotal, Right: 0, Top: 0, Bottom: cropYTotal},
		{Left: 0, Right: cropXTotal, Top: 0, Bottom: cropYTotal},
	}
	for _, rect := range fastPaths {
		if Loss(rect, polygons, width, height) == 0 {
			return rect, nil
		}
	}

	var best types.CropRectangle
	bestLoss := math.Inf(1)
	for left := 0; left <= cropXTotal; left++ {
		for top := 0; top <= cropYTotal; top++ {
			rect := types.CropRectangle{
				Left:   left,
				Right:  cropXTotal - left,
				Top:    top,
				Bottom: cropYTotal - top,
			}
			loss := Loss(rect, polygons, width, height)
			if loss == 0 {
				return rect, nil
			}
			if loss < bestLoss {
				best, bestLoss = rect, loss
			}
		}
	}

	return best, nil
}
