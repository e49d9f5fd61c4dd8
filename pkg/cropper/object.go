package cropper

import (
	"image"

	"github.com/menta2k/polycrop/pkg/types"
)

// ObjectBounds returns the pixel rectangle around a normalized polygon,
// grown by padding on every side and clipped to the image. Vertices are
// truncated to whole pixels before the bounds are taken.
func ObjectBounds(p types.Polygon, dims types.Dimensions, padding int) (image.Rectangle, error) {
	if dims.Width <= 0 || dims.Height <= 0 {
		return image.Rectangle{}, types.NewDimensionError("image size %dx%d", dims.Width, dims.Height)
	}
	if len(p) == 0 {
		return image.Rectangle{}, types.NewDimensionError("object has no vertices")
	}
	if padding < 0 {
		return image.Rectangle{}, types.NewDimensionError("negative padding %d", padding)
	}

	r := image.Rectangle{Min: pixel(p[0], dims), Max: pixel(p[0], dims)}
	for _, pt := range p[1:] {
		px := pixel(pt, dims)
		r.Min.X, r.Max.X = min(r.Min.X, px.X), max(r.Max.X, px.X)
		r.Min.Y, r.Max.Y = min(r.Min.Y, px.Y), max(r.Max.Y, px.Y)
	}

	r = r.Inset(-padding).Intersect(image.Rect(0, 0, dims.Width, dims.Height))
	if r.Empty() {
		return image.Rectangle{}, types.NewDimensionError("object bounds %v are empty", r)
	}
	return r, nil
}

// SquareCanvas returns the side of the smallest square holding r and where r
// sits on it when centred. Odd leftovers go to the bottom or right.
func SquareCanvas(r image.Rectangle) (side int, at image.Point) {
	side = max(r.Dx(), r.Dy())
	return side, image.Pt((side-r.Dx())/2, (side-r.Dy())/2)
}

func pixel(pt types.Point, dims types.Dimensions) image.Point {
	return image.Pt(int(pt.X*float64(dims.Width)), int(pt.Y*float64(dims.Height)))
}
