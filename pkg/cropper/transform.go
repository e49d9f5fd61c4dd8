package cropper

import (
	"github.com/menta2k/polycrop/pkg/types"
)

// TransformVertex maps one normalized vertex of the original image into the
// normalized space of the target image described by plan. Vertices outside
// the kept region are clamped to its edge, using the same bounds as Loss.
func TransformVertex(pt types.Point, plan types.CropPlan) types.Point {
	cropW := float64(plan.CropWidth())
	cropH := float64(plan.CropHeight())

	x := clamp(pt.X*float64(plan.Original.Width)-float64(plan.Rect.Left), 0, cropW)
	y := clamp(pt.Y*float64(plan.Original.Height)-float64(plan.Rect.Top), 0, cropH)

	// Scaling to target pixels and normalizing by the target size cancel out,
	// so divide by the crop size directly. This keeps edge vertices at exactly
	// 0 and 1.
	return types.Point{X: x / cropW, Y: y / cropH}
}

// Transform returns a new polygon with every vertex mapped by TransformVertex.
// Vertex order is preserved.
func Transform(p types.Polygon, plan types.CropPlan) types.Polygon {
	out := make(types.Polygon, len(p))
	for i, pt := range p {
		out[i] = TransformVertex(pt, plan)
	}
	return out
}

// TransformObjects applies Transform to every object, keeping class ids and order.
func TransformObjects(objects []types.LabeledObject, plan types.CropPlan) []types.LabeledObject {
	out := make([]types.LabeledObject, len(objects))
	for i, obj := range objects {
		out[i] = types.LabeledObject{ClassID: obj.ClassID, Polygon: Transform(obj.Polygon, plan)}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
