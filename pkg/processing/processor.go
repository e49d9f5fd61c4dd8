package processing

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/menta2k/polycrop/pkg/types"
)

// Processor handles image decoding, cropping, resizing and encoding
type Processor struct {
	config Config
}

// Config holds the processor settings
type Config struct {
	Filter    imaging.ResampleFilter
	Quality   int
	Lossless  bool
	Grayscale bool
	Logger    *log.Logger // nil discards log output
}

// NewProcessor creates a processor with Lanczos resampling and quality 90
func NewProcessor() *Processor {
	return &Processor{
		config: Config{
			Filter:  imaging.Lanczos,
			Quality: 90,
			Logger:  log.New(io.Discard, "", 0),
		},
	}
}

// NewProcessorWithConfig creates a processor with custom settings
func NewProcessorWithConfig(config Config) *Processor {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard, "", 0)
	}
	return &Processor{config: config}
}

// ParseFilter maps a filter name to its imaging resampling filter.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	switch strings.ToLower(name) {
	case "nearest":
		return imaging.NearestNeighbor, nil
	case "box":
		return imaging.Box, nil
	case "linear":
		return imaging.Linear, nil
	case "catmullrom":
		return imaging.CatmullRom, nil
	case "lanczos", "":
		return imaging.Lanczos, nil
	default:
		return imaging.ResampleFilter{}, fmt.Errorf("unknown resampling filter %q", name)
	}
}

// Decode loads an image from a file path with WebP support
func (p *Processor) Decode(path string) (image.Image, error) {
	// Try imaging.Open (registered decoders)
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// Fallback: explicit WebP decode
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		if img, err := webp.Decode(f); err == nil {
			return img, nil
		}
	}
	if _, err := f.Seek(0, 0); err == nil {
		if img, _, err := image.Decode(f); err == nil {
			return img, nil
		}
	}
	return nil, fmt.Errorf("image: unknown format for %s", path)
}

// Dimensions reads only the image header and returns its size.
func (p *Processor) Dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Crop returns the part of img inside r, with r relative to img's origin.
func (p *Processor) Crop(img image.Image, r image.Rectangle) image.Image {
	origin := img.Bounds().Min
	return imaging.Crop(img, r.Add(origin))
}

// Pad places img at the given position on a black canvas of the given size.
// Parts of img falling outside the canvas are dropped.
func (p *Processor) Pad(img image.Image, canvas types.Dimensions, at image.Point) image.Image {
	bg := imaging.New(canvas.Width, canvas.Height, color.Black)
	return imaging.Paste(bg, img, at)
}

// Resize scales img to exactly width x height. Greyscale conversion is
// applied here when configured so the output is written once.
func (p *Processor) Resize(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		img = imaging.Resize(img, width, height, p.config.Filter)
	}
	if p.config.Grayscale {
		img = imaging.Grayscale(img)
	}
	return img
}

// Encode saves img to path, choosing the format from the file extension.
func (p *Processor) Encode(img image.Image, path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if err := p.SaveImage(img, path, format, p.config.Quality, p.config.Lossless); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// SaveImage saves an image to a file with the specified format and quality
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	switch strings.ToLower(format) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts := &webp.Options{Lossless: lossless, Quality: float32(quality)}
		return webp.Encode(f, img, opts)
	case "png":
		return imaging.Save(img, path)
	case "jpg", "jpeg":
		return imaging.Save(img, path, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
