package types

import "image"

// Point is a single polygon vertex. Whether it is normalized or in pixels
// depends on the Polygon it belongs to.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is an ordered list of vertices. Vertex order defines the boundary
// and is preserved by every transform in this module.
type Polygon []Point

// Denormalize converts a normalized polygon into pixel space for an image of
// the given size.
func (p Polygon) Denormalize(width, height int) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = Point{X: pt.X * float64(width), Y: pt.Y * float64(height)}
	}
	return out
}

// Flatten returns the vertices as [x0, y0, x1, y1, ...].
func (p Polygon) Flatten() []float64 {
	coords := make([]float64, 0, len(p)*2)
	for _, pt := range p {
		coords = append(coords, pt.X, pt.Y)
	}
	return coords
}

// LabeledObject is one line of a label file: a class id and its normalized polygon.
type LabeledObject struct {
	ClassID int     `json:"class_id"`
	Polygon Polygon `json:"polygon"`
}

// Dimensions holds an image size in pixels
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AspectRatio returns width/height
func (d Dimensions) AspectRatio() float64 {
	return float64(d.Width) / float64(d.Height)
}

// CropRectangle is the number of pixels removed from each edge of an image.
type CropRectangle struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// CropPlan describes how one image is cropped and resized. CropX and CropY are
// the symmetric aspect-ratio offsets that define the working rectangle; Rect is
// the split of 2*CropX and 2*CropY across the edges of the original image.
type CropPlan struct {
	Original Dimensions    `json:"original"`
	Working  Dimensions    `json:"working"`
	Target   Dimensions    `json:"target"`
	CropX    int           `json:"crop_x"`
	CropY    int           `json:"crop_y"`
	Rect     CropRectangle `json:"rect"`
}

// CropWidth is the width of the region kept from the original image.
func (p CropPlan) CropWidth() int {
	return p.Original.Width - p.Rect.Left - p.Rect.Right
}

// CropHeight is the height of the region kept from the original image.
func (p CropPlan) CropHeight() int {
	return p.Original.Height - p.Rect.Top - p.Rect.Bottom
}

// Bounds returns the kept region in original image pixel coordinates.
func (p CropPlan) Bounds() image.Rectangle {
	return image.Rect(p.Rect.Left, p.Rect.Top,
		p.Original.Width-p.Rect.Right, p.Original.Height-p.Rect.Bottom)
}

// LetterboxPlan describes padding an image onto a larger canvas with the
// target's aspect ratio, then resizing the canvas to Target. Nothing is cut
// away. PadX and PadY locate the original image on the canvas.
type LetterboxPlan struct {
	Original Dimensions `json:"original"`
	Canvas   Dimensions `json:"canvas"`
	Target   Dimensions `json:"target"`
	PadX     int        `json:"pad_x"`
	PadY     int        `json:"pad_y"`
}

// Offset is the position of the original image on the canvas.
func (p LetterboxPlan) Offset() image.Point {
	return image.Pt(p.PadX, p.PadY)
}
