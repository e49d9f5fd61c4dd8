// Package geometry implements the polygon measurements used to score crops.
// All functions expect pixel-space polygons.
package geometry

import (
	"math"

	"github.com/menta2k/polycrop/pkg/types"
)

// SignedArea returns the Shoelace sum for p divided by two. The sign depends
// on winding direction. Polygons with fewer than 3 vertices have area 0.
func SignedArea(p types.Polygon) float64 {
	n := len(p)
	if n < 3 {
		return 0
	}

	var sum float64
	prev := p[n-1]
	for _, cur := range p {
		sum += cur.X*prev.Y - cur.Y*prev.X
		prev = cur
	}
	return sum / 2
}

// Area returns the absolute area of p. Self-intersecting polygons are
// undercounted since overlapping lobes cancel in the Shoelace sum.
func Area(p types.Polygon) float64 {
	return math.Abs(SignedArea(p))
}

// Clamp pulls every vertex of p into [minX, maxX] x [minY, maxY]. This is
// vertex-wise clamping, not polygon clipping: edges crossing the rectangle at
// an angle are distorted.
func Clamp(p types.Polygon, minX, maxX, minY, maxY float64) types.Polygon {
	out := make(types.Polygon, len(p))
	for i, pt := range p {
		out[i] = types.Point{
			X: clamp(pt.X, minX, maxX),
			Y: clamp(pt.Y, minY, maxY),
		}
	}
	return out
}

// Bounds returns the axis-aligned extent of p. An empty polygon yields zeros.
func Bounds(p types.Polygon) (minX, minY, maxX, maxY float64) {
	if len(p) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = p[0].X, p[0].Y
	maxX, maxY = p[0].X, p[0].Y
	for _, pt := range p[1:] {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	return minX, minY, maxX, maxY
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
