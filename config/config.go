// Package config provides configuration loading and access for the noise tools.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all tool configuration parameters.
type Config struct {
	Noise     NoiseConfig     `yaml:"noise" toml:"noise"`
	Image     ImageConfig     `yaml:"image" toml:"image"`
	Cloud     CloudConfig     `yaml:"cloud" toml:"cloud"`
	Workers   int             `yaml:"workers" toml:"workers"` // 0 = GOMAXPROCS
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`
	Preview   PreviewConfig   `yaml:"preview" toml:"preview"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" toml:"-"`
}

// Vec is a 3-component vector in config files.
type Vec struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
	Z float64 `yaml:"z" toml:"z"`
}

// NoiseConfig holds the noise basis and fractal parameters.
type NoiseConfig struct {
	Basis       string     `yaml:"basis" toml:"basis"` // alligator, perlin, simplex
	Seed        int64      `yaml:"seed" toml:"seed"`
	Frequency   Vec        `yaml:"frequency" toml:"frequency"`
	Offset      Vec        `yaml:"offset" toml:"offset"`
	Amplitude   float64    `yaml:"amplitude" toml:"amplitude"`
	Roughness   float64    `yaml:"roughness" toml:"roughness"`     // Amplitude multiplier per octave
	Lacunarity  float64    `yaml:"lacunarity" toml:"lacunarity"`   // Frequency multiplier per octave
	Octaves     int        `yaml:"octaves" toml:"octaves"`
	Attenuation float64    `yaml:"attenuation" toml:"attenuation"` // Exponent applied to the octave sum
	Warp        WarpConfig `yaml:"warp" toml:"warp"`
}

// WarpConfig holds domain warp parameters. Amount 0 disables warping.
type WarpConfig struct {
	Amount    float64 `yaml:"amount" toml:"amount"`
	Frequency float64 `yaml:"frequency" toml:"frequency"`
}

// ImageConfig holds raster output parameters.
type ImageConfig struct {
	Width     int      `yaml:"width" toml:"width"`
	Height    int      `yaml:"height" toml:"height"`
	Depth     int      `yaml:"depth" toml:"depth"`     // Number of z slices
	Origin    Vec      `yaml:"origin" toml:"origin"`   // Domain position of pixel (0,0,0)
	Spacing   float64  `yaml:"spacing" toml:"spacing"` // Domain units per pixel
	Format    string   `yaml:"format" toml:"format"`   // png, tiff, bmp
	Ramp      []string `yaml:"ramp" toml:"ramp"`       // Hex colour stops, empty = grayscale
	Normalize bool     `yaml:"normalize" toml:"normalize"`
}

// CloudConfig holds point cloud scatter parameters.
type CloudConfig struct {
	Count int   `yaml:"count" toml:"count"`
	Seed  int64 `yaml:"seed" toml:"seed"`
	Min   Vec   `yaml:"min" toml:"min"`
	Max   Vec   `yaml:"max" toml:"max"`
}

// TelemetryConfig holds statistics and perf parameters.
type TelemetryConfig struct {
	HistogramBins int `yaml:"histogram_bins" toml:"histogram_bins"`
	HashSamples   int `yaml:"hash_samples" toml:"hash_samples"`
	PerfWindow    int `yaml:"perf_window" toml:"perf_window"`
}

// PreviewConfig holds interactive preview settings.
type PreviewConfig struct {
	Width     int `yaml:"width" toml:"width"`
	Height    int `yaml:"height" toml:"height"`
	GridSize  int `yaml:"grid_size" toml:"grid_size"` // Sample resolution of the preview texture
	TargetFPS int `yaml:"target_fps" toml:"target_fps"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Workers  int  // Workers resolved against GOMAXPROCS
	Warped   bool // Noise.Warp.Amount != 0
	NumVoxel int  // Image.Width * Image.Height * Image.Depth
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	cfg.computeDerived()
	return cfg, nil
}

// Load loads configuration from a YAML or TOML file, merging with embedded defaults.
// Files ending in .toml are decoded as TOML. If path is empty, only embedded
// defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks parameter ranges.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Noise.Basis) {
	case "alligator", "perlin", "simplex":
	default:
		return fmt.Errorf("%w: noise.basis %q", ErrInvalidConfig, c.Noise.Basis)
	}
	if c.Noise.Octaves < 1 {
		return fmt.Errorf("%w: noise.octaves must be >= 1, got %d", ErrInvalidConfig, c.Noise.Octaves)
	}
	if c.Noise.Lacunarity <= 0 {
		return fmt.Errorf("%w: noise.lacunarity must be > 0", ErrInvalidConfig)
	}
	if c.Noise.Attenuation <= 0 {
		return fmt.Errorf("%w: noise.attenuation must be > 0", ErrInvalidConfig)
	}
	if c.Image.Width < 1 || c.Image.Height < 1 || c.Image.Depth < 1 {
		return fmt.Errorf("%w: image dimensions must be positive, got %dx%dx%d",
			ErrInvalidConfig, c.Image.Width, c.Image.Height, c.Image.Depth)
	}
	if c.Image.Spacing <= 0 {
		return fmt.Errorf("%w: image.spacing must be > 0", ErrInvalidConfig)
	}
	if c.Cloud.Count < 0 {
		return fmt.Errorf("%w: cloud.count must be >= 0", ErrInvalidConfig)
	}
	if c.Cloud.Max.X < c.Cloud.Min.X || c.Cloud.Max.Y < c.Cloud.Min.Y || c.Cloud.Max.Z < c.Cloud.Min.Z {
		return fmt.Errorf("%w: cloud.max must not be below cloud.min", ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0", ErrInvalidConfig)
	}
	if c.Telemetry.HistogramBins < 1 || c.Telemetry.PerfWindow < 1 {
		return fmt.Errorf("%w: telemetry.histogram_bins and telemetry.perf_window must be >= 1", ErrInvalidConfig)
	}
	if c.Telemetry.HashSamples < 2 {
		return fmt.Errorf("%w: telemetry.hash_samples must be >= 2", ErrInvalidConfig)
	}
	if c.Preview.GridSize < 1 {
		return fmt.Errorf("%w: preview.grid_size must be >= 1", ErrInvalidConfig)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Workers = c.Workers
	if c.Derived.Workers == 0 {
		c.Derived.Workers = runtime.GOMAXPROCS(0)
	}
	c.Derived.Warped = c.Noise.Warp.Amount != 0
	c.Derived.NumVoxel = c.Image.Width * c.Image.Height * c.Image.Depth
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// NoiseYAML renders n as a standalone noise section that Load accepts.
func NoiseYAML(n NoiseConfig) ([]byte, error) {
	data, err := yaml.Marshal(struct {
		Noise NoiseConfig `yaml:"noise"`
	}{n})
	if err != nil {
		return nil, fmt.Errorf("marshaling noise config: %w", err)
	}
	return data, nil
}
