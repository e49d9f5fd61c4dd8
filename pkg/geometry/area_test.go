package geometry

import (
	"math"
	"testing"

	"github.com/menta2k/polycrop/pkg/types"
)

func square(x0, y0, x1, y1 float64) types.Polygon {
	return types.Polygon{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func TestAreaSquare(t *testing.T) {
	area := Area(square(300, 100, 700, 900))
	if area != 400*800 {
		t.Errorf("Expected area %d, got %f", 400*800, area)
	}
}

func TestAreaTriangle(t *testing.T) {
	tri := types.Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 6}}
	if area := Area(tri); area != 30 {
		t.Errorf("Expected area 30, got %f", area)
	}
}

func TestAreaDegenerate(t *testing.T) {
	cases := []types.Polygon{
		nil,
		{{X: 1, Y: 1}},
		{{X: 1, Y: 1}, {X: 5, Y: 9}},
	}
	for _, p := range cases {
		if area := Area(p); area != 0 {
			t.Errorf("Expected area 0 for %d vertices, got %f", len(p), area)
		}
	}
}

func TestAreaRotationAndReversalInvariant(t *testing.T) {
	poly := types.Polygon{{X: 2, Y: 1}, {X: 9, Y: 2}, {X: 11, Y: 7}, {X: 6, Y: 12}, {X: 1, Y: 8}}
	want := Area(poly)

	for shift := 1; shift < len(poly); shift++ {
		rotated := append(append(types.Polygon{}, poly[shift:]...), poly[:shift]...)
		if got := Area(rotated); math.Abs(got-want) > 1e-9 {
			t.Errorf("Rotation by %d changed area: %f != %f", shift, got, want)
		}
	}

	reversed := make(types.Polygon, len(poly))
	for i, pt := range poly {
		reversed[len(poly)-1-i] = pt
	}
	if got := Area(reversed); math.Abs(got-want) > 1e-9 {
		t.Errorf("Reversal changed area: %f != %f", got, want)
	}
}

func TestSignedAreaWinding(t *testing.T) {
	ccw := square(0, 0, 2, 2)
	cw := types.Polygon{ccw[0], ccw[3], ccw[2], ccw[1]}

	if SignedArea(ccw) != -SignedArea(cw) {
		t.Errorf("Expected opposite signs, got %f and %f", SignedArea(ccw), SignedArea(cw))
	}
}

func TestClamp(t *testing.T) {
	poly := square(-50, 20, 150, 300)
	clamped := Clamp(poly, 0, 100, 0, 200)

	want := square(0, 20, 100, 200)
	for i := range want {
		if clamped[i] != want[i] {
			t.Errorf("Vertex %d: expected %v, got %v", i, want[i], clamped[i])
		}
	}

	// The input must not be modified.
	if poly[0].X != -50 {
		t.Error("Clamp modified its input")
	}
}

func TestBounds(t *testing.T) {
	poly := types.Polygon{{X: 5, Y: 9}, {X: -1, Y: 3}, {X: 7, Y: 4}}
	minX, minY, maxX, maxY := Bounds(poly)
	if minX != -1 || minY != 3 || maxX != 7 || maxY != 9 {
		t.Errorf("Unexpected bounds (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}

	if a, b, c, d := Bounds(nil); a != 0 || b != 0 || c != 0 || d != 0 {
		t.Error("Expected zero bounds for an empty polygon")
	}
}
