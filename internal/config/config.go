package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/menta2k/polycrop/pkg/types"
)

// Config holds the application configuration
type Config struct {
	Crop     CropConfig     `json:"crop" yaml:"crop"`
	Output   OutputConfig   `json:"output" yaml:"output"`
	Preview  PreviewConfig  `json:"preview" yaml:"preview"`
	Classify ClassifyConfig `json:"classify" yaml:"classify"`
	Verbose  bool           `json:"verbose" yaml:"verbose"`
}

// CropConfig holds the target size and how pixels are resampled. Mode is
// "crop" to cut the image to the target aspect ratio or "letterbox" to pad it.
type CropConfig struct {
	TargetWidth    int    `json:"target_width" yaml:"target_width"`
	TargetHeight   int    `json:"target_height" yaml:"target_height"`
	Mode           string `json:"mode" yaml:"mode"`
	ResampleFilter string `json:"resample_filter" yaml:"resample_filter"`
	Grayscale      bool   `json:"grayscale" yaml:"grayscale"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	ImageFormat string `json:"image_format" yaml:"image_format"`
	Quality     int    `json:"quality" yaml:"quality"`
	Lossless    bool   `json:"lossless" yaml:"lossless"`
	Prefix      string `json:"prefix" yaml:"prefix"`
	Suffix      string `json:"suffix" yaml:"suffix"`
}

// PreviewConfig controls the annotation overlay images
type PreviewConfig struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Opacity float64 `json:"opacity" yaml:"opacity"`
	Format  string  `json:"format" yaml:"format"`
}

// ClassifyConfig controls object extraction for classification datasets
type ClassifyConfig struct {
	Padding int `json:"padding" yaml:"padding"`
}

// Mode names
const (
	ModeCrop      = "crop"
	ModeLetterbox = "letterbox"
)

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Crop: CropConfig{
			TargetWidth:    800,
			TargetHeight:   800,
			Mode:           ModeCrop,
			ResampleFilter: "lanczos",
		},
		Output: OutputConfig{
			ImageFormat: "jpg",
			Quality:     90,
		},
		Preview: PreviewConfig{
			Opacity: 0.5,
			Format:  "png",
		},
		Classify: ClassifyConfig{
			Padding: 10,
		},
	}
}

// Target returns the configured output size
func (c *Config) Target() types.Dimensions {
	return types.Dimensions{Width: c.Crop.TargetWidth, Height: c.Crop.TargetHeight}
}

// LoadFromFile loads configuration from a JSON or YAML file, chosen by extension.
// Fields missing from the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if isYAML(filename) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON or YAML file, chosen by extension.
func (c *Config) SaveToFile(filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isYAML(filename) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Crop.TargetWidth <= 0 || c.Crop.TargetHeight <= 0 {
		return types.NewDimensionError("crop target %dx%d must be positive",
			c.Crop.TargetWidth, c.Crop.TargetHeight)
	}

	switch c.Crop.Mode {
	case "", ModeCrop, ModeLetterbox:
	default:
		return fmt.Errorf("crop.mode %q is not supported", c.Crop.Mode)
	}

	switch strings.ToLower(c.Crop.ResampleFilter) {
	case "", "nearest", "box", "linear", "catmullrom", "lanczos":
	default:
		return fmt.Errorf("crop.resample_filter %q is not supported", c.Crop.ResampleFilter)
	}

	if !supportedFormat(c.Output.ImageFormat) {
		return fmt.Errorf("output.image_format %q is not supported", c.Output.ImageFormat)
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	if c.Preview.Opacity < 0 || c.Preview.Opacity > 1 {
		return fmt.Errorf("preview.opacity must be between 0 and 1")
	}

	if c.Classify.Padding < 0 {
		return fmt.Errorf("classify.padding must not be negative")
	}

	if c.Preview.Enabled && !supportedFormat(c.Preview.Format) {
		return fmt.Errorf("preview.format %q is not supported", c.Preview.Format)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./polycrop.yaml"
	}
	return filepath.Join(home, ".config", "polycrop", "config.yaml")
}

func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

func supportedFormat(format string) bool {
	switch strings.ToLower(format) {
	case "jpg", "jpeg", "png", "webp":
		return true
	}
	return false
}
