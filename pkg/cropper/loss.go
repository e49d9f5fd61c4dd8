package cropper

import (
	"github.com/menta2k/polycrop/pkg/geometry"
	"github.com/menta2k/polycrop/pkg/types"
)

// Loss returns the total polygon area, in pixels squared, removed when rect is
// cropped from a width x height image. Each polygon is clamped vertex-wise to
// the kept region and the difference in area is summed.
//
// Shape distortion of the retained part is not counted, only lost area.
func Loss(rect types.CropRectangle, polygons []types.Polygon, width, height int) float64 {
	minX, maxX := float64(rect.Left), float64(width-rect.Right)
	minY, maxY := float64(rect.Top), float64(height-rect.Bottom)

	var total float64
	for _, p := range polygons {
		if len(p) < 3 {
			continue
		}
		clamped := geometry.Clamp(p, minX, maxX, minY, maxY)
		total += geometry.Area(p) - geometry.Area(clamped)
	}
	return total
}
