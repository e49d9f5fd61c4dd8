package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/menta2k/polycrop"
	"github.com/menta2k/polycrop/internal/config"
	"github.com/menta2k/polycrop/internal/utils"
	"github.com/menta2k/polycrop/pkg/labels"
	"github.com/menta2k/polycrop/pkg/pipeline"
)

func main() {
	var in, labelDir, outDir, cfgPath, ext, filter, mode string
	var width, height, quality, padding int
	var preview, boxes, gray, verbose, writeCfg, dryRun, classify bool

	flag.StringVar(&in, "in", "", "input image path (jpg/png/webp)")
	flag.StringVar(&labelDir, "labels", "", "directory holding the polygon label file (default: next to the image)")
	flag.StringVar(&outDir, "out", "out", "output directory")
	flag.StringVar(&cfgPath, "config", "", "configuration file (json or yaml)")

	flag.IntVar(&width, "width", 0, "target width in pixels (overrides config)")
	flag.IntVar(&height, "height", 0, "target height in pixels (overrides config)")
	flag.StringVar(&mode, "mode", "", "crop|letterbox (overrides config)")
	flag.StringVar(&filter, "filter", "", "resample filter: nearest|box|linear|catmullrom|lanczos")
	flag.BoolVar(&gray, "gray", false, "convert output images to greyscale")

	flag.StringVar(&ext, "ext", "", "output format: jpg|png|webp")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality (1-100)")

	flag.BoolVar(&preview, "preview", false, "write an annotation overlay for each output image")
	flag.BoolVar(&boxes, "boxes", false, "also write axis-aligned bounding box labels")
	flag.BoolVar(&dryRun, "dry-run", false, "print the crop plan without reading pixels or writing files")
	flag.BoolVar(&classify, "classify", false, "cut the first labelled object out into <out>/<class>/ instead of cropping")
	flag.IntVar(&padding, "padding", -1, "pixels around the object for -classify (overrides config)")
	flag.BoolVar(&verbose, "verbose", false, "log crop decisions")
	flag.BoolVar(&writeCfg, "write-config", false, "save the effective configuration to -config and exit")

	flag.Parse()

	cfg := config.Default()
	if cfgPath != "" && !writeCfg {
		loaded, err := config.LoadFromFile(cfgPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	if width > 0 {
		cfg.Crop.TargetWidth = width
	}
	if height > 0 {
		cfg.Crop.TargetHeight = height
	}
	if mode != "" {
		cfg.Crop.Mode = mode
	}
	if padding >= 0 {
		cfg.Classify.Padding = padding
	}
	if filter != "" {
		cfg.Crop.ResampleFilter = filter
	}
	if ext != "" {
		cfg.Output.ImageFormat = ext
	}
	if quality > 0 {
		cfg.Output.Quality = quality
	}
	cfg.Crop.Grayscale = cfg.Crop.Grayscale || gray
	cfg.Preview.Enabled = cfg.Preview.Enabled || preview
	cfg.Verbose = cfg.Verbose || verbose

	if writeCfg {
		if cfgPath == "" {
			cfgPath = config.GetConfigPath()
		}
		if err := cfg.SaveToFile(cfgPath); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", cfgPath)
		return
	}

	if in == "" {
		log.Fatalf("usage: %s -in image.jpg [-labels dir] [-out outdir] [-width 800 -height 800] [-config polycrop.yaml] [-mode crop|letterbox] [-classify] [-dry-run] [-preview] [-boxes]", filepath.Base(os.Args[0]))
	}
	if !utils.IsImageFile(in) {
		log.Fatalf("%s does not look like an image file", in)
	}
	if !utils.FileExists(in) {
		log.Fatalf("%s does not exist", in)
	}

	cropper, err := polycrop.NewWithConfig(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if dryRun {
		plan, loss, err := cropper.PlanImageFile(in, labelDir)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("%s: %dx%d -> %dx%d working=%dx%d crop=%+v loss=%.1f",
			filepath.Base(in), plan.Original.Width, plan.Original.Height,
			plan.Target.Width, plan.Target.Height, plan.Working.Width, plan.Working.Height,
			plan.Rect, loss)
		return
	}

	if classify {
		path, err := cropper.ExtractObject(in, labelDir, outDir)
		if errors.Is(err, pipeline.ErrNoObjects) {
			log.Printf("%s: no labelled objects, skipped", filepath.Base(in))
			return
		}
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", path)
		return
	}

	result, err := cropper.ProcessImageFile(in, labelDir, outDir)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Crop.Mode == config.ModeLetterbox {
		lb := result.Letterbox
		log.Printf("%s: %dx%d -> %dx%d letterbox pad=%d,%d objects=%d",
			filepath.Base(in), lb.Original.Width, lb.Original.Height,
			lb.Target.Width, lb.Target.Height, lb.PadX, lb.PadY, len(result.Objects))
	} else {
		log.Printf("%s: %dx%d -> %dx%d crop=%+v loss=%.1f objects=%d",
			filepath.Base(in),
			result.Plan.Original.Width, result.Plan.Original.Height,
			result.Plan.Target.Width, result.Plan.Target.Height,
			result.Plan.Rect, result.Loss, len(result.Objects))
	}

	if boxes {
		boxDir := filepath.Join(outDir, "boxes")
		if err := utils.EnsureDir(boxDir); err != nil {
			log.Fatal(err)
		}
		boxPath := utils.LabelPathFor(in, boxDir)
		data := labels.SerializeBoxes(labels.ToBoundingBoxes(result.Objects))
		if err := os.WriteFile(boxPath, []byte(data), 0o644); err != nil {
			log.Printf("save %s failed: %v", boxPath, err)
		} else {
			log.Printf("wrote %s", boxPath)
		}
	}
}
