package labels

import (
	"fmt"
	"strings"

	"github.com/menta2k/polycrop/pkg/geometry"
	"github.com/menta2k/polycrop/pkg/types"
)

// BoundingBox is a normalized center/size box for detection datasets
type BoundingBox struct {
	ClassID int     `json:"class_id"`
	CX      float64 `json:"cx"`
	CY      float64 `json:"cy"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
}

// ToBoundingBoxes converts each object's polygon to its enclosing box.
func ToBoundingBoxes(objects []types.LabeledObject) []BoundingBox {
	boxes := make([]BoundingBox, len(objects))
	for i, obj := range objects {
		minX, minY, maxX, maxY := geometry.Bounds(obj.Polygon)
		boxes[i] = BoundingBox{
			ClassID: obj.ClassID,
			CX:      (minX + maxX) / 2,
			CY:      (minY + maxY) / 2,
			W:       maxX - minX,
			H:       maxY - minY,
		}
	}
	return boxes
}

// SerializeBoxes writes one "class cx cy w h" line per box.
func SerializeBoxes(boxes []BoundingBox) string {
	var b strings.Builder
	for _, box := range boxes {
		fmt.Fprintf(&b, "%d %.6f %.6f %.6f %.6f\n", box.ClassID, box.CX, box.CY, box.W, box.H)
	}
	return b.String()
}
