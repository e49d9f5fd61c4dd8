package processing

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rclancey/earcut"

	"github.com/menta2k/polycrop/pkg/types"
)

// CreatePreview fills every labelled polygon with its class colour and blends
// the result over img at the given opacity.
func (p *Processor) CreatePreview(img image.Image, objects []types.LabeledObject, opacity float64) image.Image {
	base := imaging.Clone(img)
	overlay := imaging.Clone(img)
	w := base.Bounds().Dx()
	h := base.Bounds().Dy()

	for _, obj := range objects {
		if len(obj.Polygon) < 3 {
			continue
		}
		c := ClassColor(obj.ClassID)
		triangles, err := triangulate(obj.Polygon.Denormalize(w, h))
		if err != nil {
			p.config.Logger.Printf("preview: skipping class %d object: %v", obj.ClassID, err)
			continue
		}
		if len(triangles) == 0 {
			p.config.Logger.Printf("preview: class %d object has no area to fill", obj.ClassID)
			continue
		}
		for _, tri := range triangles {
			fillTriangle(overlay, tri, c)
		}
	}

	return imaging.Overlay(base, overlay, image.Pt(0, 0), clamp(opacity, 0, 1))
}

// ClassColor returns a stable, well separated colour for a class id.
func ClassColor(classID int) color.NRGBA {
	hue := math.Mod(float64(classID)*137.508, 360)
	r, g, b := colorful.Hsv(hue, 0.65, 0.95).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// triangulate splits a pixel-space polygon into triangles using earcut.
func triangulate(p types.Polygon) ([][3]types.Point, error) {
	coords := p.Flatten()
	indices, err := earcut.Earcut(coords, nil /* holeIndices */, 2 /* dim */)
	if err != nil {
		return nil, fmt.Errorf("triangulating %d-vertex polygon: %w", len(p), err)
	}

	triangles := make([][3]types.Point, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		var tri [3]types.Point
		for k := 0; k < 3; k++ {
			idx := indices[i+k]
			tri[k] = types.Point{X: coords[idx*2], Y: coords[idx*2+1]}
		}
		triangles = append(triangles, tri)
	}
	return triangles, nil
}

// fillTriangle paints every pixel whose centre lies inside tri.
func fillTriangle(img *image.NRGBA, tri [3]types.Point, c color.NRGBA) {
	b := img.Bounds()
	minX := int(math.Floor(math.Min(tri[0].X, math.Min(tri[1].X, tri[2].X))))
	maxX := int(math.Ceil(math.Max(tri[0].X, math.Max(tri[1].X, tri[2].X))))
	minY := int(math.Floor(math.Min(tri[0].Y, math.Min(tri[1].Y, tri[2].Y))))
	maxY := int(math.Ceil(math.Max(tri[0].Y, math.Max(tri[1].Y, tri[2].Y))))
	minX, maxX = maxInt(minX, 0), minInt(maxX, b.Dx())
	minY, maxY = maxInt(minY, 0), minInt(maxY, b.Dy())

	area := edge(tri[0], tri[1], tri[2])
	if area == 0 {
		return
	}

	for y := minY; y < maxY; y++ {
		i := y*img.Stride + minX*4
		for x := minX; x < maxX; x, i = x+1, i+4 {
			pt := types.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			w0 := edge(tri[1], tri[2], pt) / area
			w1 := edge(tri[2], tri[0], pt) / area
			w2 := edge(tri[0], tri[1], pt) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
}

// edge is twice the signed area of triangle (a, b, c).
func edge(a, b, c types.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// Helper functions
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
