package pipeline

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/menta2k/polycrop/pkg/labels"
	"github.com/menta2k/polycrop/pkg/processing"
	"github.com/menta2k/polycrop/pkg/types"
)

// fakeCodec records the calls made by the pipeline
type fakeCodec struct {
	width, height int
	decodeErr     error
	cropped       image.Rectangle
	resized       [2]int
	padded        types.Dimensions
	pastedAt      image.Point
	encoded       []string
}

func (f *fakeCodec) Decode(path string) (image.Image, error) {
	if f.decodeErr != nil {
		return nil, f.decodeErr
	}
	return image.NewGray(image.Rect(0, 0, f.width, f.height)), nil
}

func (f *fakeCodec) Crop(img image.Image, r image.Rectangle) image.Image {
	f.cropped = r
	return image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
}

func (f *fakeCodec) Resize(img image.Image, width, height int) image.Image {
	f.resized = [2]int{width, height}
	return image.NewGray(image.Rect(0, 0, width, height))
}

func (f *fakeCodec) Pad(img image.Image, canvas types.Dimensions, at image.Point) image.Image {
	f.padded, f.pastedAt = canvas, at
	return image.NewGray(image.Rect(0, 0, canvas.Width, canvas.Height))
}

func (f *fakeCodec) Encode(img image.Image, path string) error {
	f.encoded = append(f.encoded, path)
	return os.WriteFile(path, nil, 0o644)
}

func writeLabels(t *testing.T, dir, text string) string {
	t.Helper()
	path := filepath.Join(dir, "sample.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcessPair(t *testing.T) {
	dir := t.TempDir()
	labelPath := writeLabels(t, dir, "0 0.15 0.25 0.85 0.25 0.85 0.75 0.15 0.75\n")
	outLabel := filepath.Join(dir, "out.txt")

	codec := &fakeCodec{width: 1000, height: 800}
	var logs bytes.Buffer
	p := New(codec, Options{
		Target: types.Dimensions{Width: 800, Height: 800},
		Logger: log.New(&logs, "", 0),
	})

	result, err := p.ProcessPair(Pair{
		ImagePath:    "sample.jpg",
		LabelPath:    labelPath,
		OutImagePath: filepath.Join(dir, "out.jpg"),
		OutLabelPath: outLabel,
	})
	if err != nil {
		t.Fatalf("ProcessPair failed: %v", err)
	}

	if result.Loss != 0 {
		t.Errorf("Expected zero loss, got %f", result.Loss)
	}
	if codec.cropped != image.Rect(50, 0, 850, 800) {
		t.Errorf("Unexpected crop %v", codec.cropped)
	}
	if codec.resized != [2]int{800, 800} {
		t.Errorf("Unexpected resize %v", codec.resized)
	}
	if len(codec.encoded) != 1 {
		t.Errorf("Expected one encoded image, got %d", len(codec.encoded))
	}

	written, err := labels.ReadFile(outLabel)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(written) != 1 || written[0].ClassID != 0 {
		t.Fatalf("Unexpected labels %+v", written)
	}
	if math.Abs(written[0].Polygon[0].X-0.125) > 1e-12 || math.Abs(written[0].Polygon[1].X-1) > 1e-12 {
		t.Errorf("Unexpected transformed polygon %v", written[0].Polygon)
	}
	if !strings.Contains(logs.String(), "loss=0.0") {
		t.Errorf("Expected the plan to be logged, got %q", logs.String())
	}
}

func TestProcessPairMissingLabels(t *testing.T) {
	dir := t.TempDir()
	outLabel := filepath.Join(dir, "out.txt")
	codec := &fakeCodec{width: 800, height: 800}
	p := New(codec, Options{Target: types.Dimensions{Width: 800, Height: 600}})

	result, err := p.ProcessPair(Pair{
		ImagePath:    "sample.jpg",
		LabelPath:    filepath.Join(dir, "missing.txt"),
		OutLabelPath: outLabel,
	})
	if err != nil {
		t.Fatalf("ProcessPair failed: %v", err)
	}
	if len(result.Objects) != 0 {
		t.Errorf("Expected no objects, got %d", len(result.Objects))
	}
	if result.Plan.CropY != 100 || result.Plan.Rect.Top != 200 {
		t.Errorf("Expected the first fast path with 200 rows from the top, got %+v", result.Plan)
	}

	data, err := os.ReadFile(outLabel)
	if err != nil {
		t.Fatalf("Expected an empty label file: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Expected an empty label file, got %q", data)
	}
}

func TestProcessPairErrors(t *testing.T) {
	dir := t.TempDir()
	badLabels := writeLabels(t, dir, "0 0.1 0.2 0.3\n")

	p := New(&fakeCodec{width: 100, height: 100}, Options{Target: types.Dimensions{Width: 50, Height: 50}})
	if _, err := p.ProcessPair(Pair{ImagePath: "a.jpg", LabelPath: badLabels}); !errors.Is(err, types.ErrFormat) {
		t.Errorf("Expected ErrFormat, got %v", err)
	}

	p = New(&fakeCodec{width: 100, height: 100}, Options{Target: types.Dimensions{Width: 0, Height: 50}})
	if _, err := p.ProcessPair(Pair{ImagePath: "a.jpg"}); !errors.Is(err, types.ErrDimension) {
		t.Errorf("Expected ErrDimension for a zero target, got %v", err)
	}

	p = New(&fakeCodec{width: 0, height: 100}, Options{Target: types.Dimensions{Width: 50, Height: 50}})
	if _, err := p.ProcessPair(Pair{ImagePath: "a.jpg"}); !errors.Is(err, types.ErrDimension) {
		t.Errorf("Expected ErrDimension for an empty image, got %v", err)
	}

	decodeErr := errors.New("corrupt")
	p = New(&fakeCodec{decodeErr: decodeErr}, Options{Target: types.Dimensions{Width: 50, Height: 50}})
	if _, err := p.ProcessPair(Pair{ImagePath: "a.jpg"}); !errors.Is(err, decodeErr) {
		t.Errorf("Expected the decode error, got %v", err)
	}
}

func TestProcessPairLabelWriteFailure(t *testing.T) {
	dir := t.TempDir()
	labelPath := writeLabels(t, dir, "0 0.5 0.5 0.6 0.5 0.6 0.6\n")
	outImage := filepath.Join(dir, "out.jpg")

	p := New(&fakeCodec{width: 100, height: 100}, Options{Target: types.Dimensions{Width: 50, Height: 50}})
	_, err := p.ProcessPair(Pair{
		ImagePath:    "sample.jpg",
		LabelPath:    labelPath,
		OutImagePath: outImage,
		OutLabelPath: filepath.Join(dir, "no-such-dir", "out.txt"),
	})
	if err == nil {
		t.Fatal("Expected an error when the label file cannot be written")
	}
	if _, statErr := os.Stat(outImage); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("Expected %s to be removed, stat returned %v", outImage, statErr)
	}
}

func TestLetterboxPair(t *testing.T) {
	dir := t.TempDir()
	labelPath := writeLabels(t, dir, "3 0 0 1 0 1 1 0 1\n")
	outLabel := filepath.Join(dir, "out.txt")

	codec := &fakeCodec{width: 800, height: 600}
	p := New(codec, Options{Target: types.Dimensions{Width: 800, Height: 800}})
	result, err := p.LetterboxPair(Pair{
		ImagePath:    "sample.jpg",
		LabelPath:    labelPath,
		OutImagePath: filepath.Join(dir, "out.jpg"),
		OutLabelPath: outLabel,
	})
	if err != nil {
		t.Fatalf("LetterboxPair failed: %v", err)
	}

	if codec.padded != (types.Dimensions{Width: 800, Height: 800}) || codec.pastedAt != image.Pt(0, 100) {
		t.Errorf("Unexpected padding to %v at %v", codec.padded, codec.pastedAt)
	}
	if codec.resized != [2]int{800, 800} {
		t.Errorf("Unexpected resize %v", codec.resized)
	}
	if result.Letterbox.PadY != 100 {
		t.Errorf("Expected 100 rows of padding, got %+v", result.Letterbox)
	}

	written, err := labels.ReadFile(outLabel)
	if err != nil {
		t.Fatal(err)
	}
	p0, p2 := written[0].Polygon[0], written[0].Polygon[2]
	if p0.X != 0 || p0.Y != 0.125 || p2.X != 1 || p2.Y != 0.875 {
		t.Errorf("Unexpected letterboxed polygon %v", written[0].Polygon)
	}
}

func TestExtractObject(t *testing.T) {
	dir := t.TempDir()
	labelPath := writeLabels(t, dir, "4 0.2 0.5 0.3 0.5 0.3 0.9\n1 0 0 1 0 1 1\n")

	codec := &fakeCodec{width: 200, height: 100}
	p := New(codec, Options{})
	obj, err := p.ExtractObject("sample.jpg", labelPath, 10)
	if err != nil {
		t.Fatalf("ExtractObject failed: %v", err)
	}

	// Pixel bounds 40..60 x 50..90, grown by 10 and clipped at the bottom.
	if obj.ClassID != 4 || obj.Bounds != image.Rect(30, 40, 70, 100) {
		t.Errorf("Unexpected object %d %v", obj.ClassID, obj.Bounds)
	}
	if codec.cropped != obj.Bounds {
		t.Errorf("Expected crop %v, got %v", obj.Bounds, codec.cropped)
	}
	if codec.padded != (types.Dimensions{Width: 60, Height: 60}) || codec.pastedAt != image.Pt(10, 0) {
		t.Errorf("Unexpected square %v at %v", codec.padded, codec.pastedAt)
	}

	if _, err := p.ExtractObject("sample.jpg", filepath.Join(dir, "missing.txt"), 10); !errors.Is(err, ErrNoObjects) {
		t.Errorf("Expected ErrNoObjects, got %v", err)
	}
}

func TestPlan(t *testing.T) {
	p := New(&fakeCodec{}, Options{Target: types.Dimensions{Width: 100, Height: 100}})
	objects := []types.LabeledObject{
		// Spans the whole width, so some area must be lost.
		{ClassID: 1, Polygon: types.Polygon{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}},
	}

	plan, loss, err := p.Plan(types.Dimensions{Width: 200, Height: 100}, objects)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.CropWidth() != 100 || plan.CropHeight() != 100 {
		t.Errorf("Expected a 100x100 crop, got %dx%d", plan.CropWidth(), plan.CropHeight())
	}
	if loss != 100*100 {
		t.Errorf("Expected loss %d, got %f", 100*100, loss)
	}
}

func TestProcessPairWithProcessor(t *testing.T) {
	dir := t.TempDir()
	proc := processing.NewProcessor()

	src := image.NewNRGBA(image.Rect(0, 0, 120, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			src.Set(x, y, color.NRGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	imagePath := filepath.Join(dir, "frame.png")
	if err := proc.Encode(src, imagePath); err != nil {
		t.Fatal(err)
	}
	labelPath := writeLabels(t, dir, "2 0.5 0.25 0.75 0.75 0.25 0.75")

	p := New(proc, Options{Target: types.Dimensions{Width: 40, Height: 40}})
	outImage := filepath.Join(dir, "frame_out.png")
	result, err := p.ProcessPair(Pair{
		ImagePath:    imagePath,
		LabelPath:    labelPath,
		OutImagePath: outImage,
		OutLabelPath: filepath.Join(dir, "frame_out.txt"),
	})
	if err != nil {
		t.Fatalf("ProcessPair failed: %v", err)
	}

	w, h, err := proc.Dimensions(outImage)
	if err != nil || w != 40 || h != 40 {
		t.Errorf("Expected a 40x40 output, got %dx%d (%v)", w, h, err)
	}
	for _, pt := range result.Objects[0].Polygon {
		if pt.X < 0 || pt.X > 1 || pt.Y < 0 || pt.Y > 1 {
			t.Errorf("Vertex %v outside the output image", pt)
		}
	}
}
