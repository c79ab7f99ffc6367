package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGridSize    = 1000.0
	DefaultTicks       = 3600
	DefaultSampleEvery = 1
	DefaultFPS         = 60
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"

	// minGridSize is the largest body in the fixed population.
	minGridSize = 50.0
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	GridSize    float64       `yaml:"grid_size"`
	Ticks       int           `yaml:"ticks"`
	SampleEvery int           `yaml:"sample_every"`
	Seed        int64         `yaml:"seed"`
	Headings    HeadingConfig `yaml:"headings"`
	Metrics     []string      `yaml:"metrics,omitempty"`
	Display     DisplayConfig `yaml:"display"`
	Log         LogConfig     `yaml:"log"`
}

// HeadingConfig pins the initial direction (radians) of each mobile block.
// Leave both unset to draw them from the seed.
type HeadingConfig struct {
	Red  *float64 `yaml:"red,omitempty"`
	Blue *float64 `yaml:"blue,omitempty"`
}

type DisplayConfig struct {
	FPS     int    `yaml:"fps"`
	SaveDir string `yaml:"save_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		GridSize:    DefaultGridSize,
		Ticks:       DefaultTicks,
		SampleEvery: DefaultSampleEvery,
		Display: DisplayConfig{
			FPS:     DefaultFPS,
			SaveDir: ".",
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes the file on top of cfg, so keys missing from the file
// keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.GridSize <= minGridSize {
		return fmt.Errorf("%w: grid_size must exceed %v, got %v", ErrInvalid, minGridSize, c.GridSize)
	}
	if c.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", ErrInvalid, c.Ticks)
	}
	if c.SampleEvery < 1 {
		return fmt.Errorf("%w: sample_every must be at least 1, got %d", ErrInvalid, c.SampleEvery)
	}
	if (c.Headings.Red == nil) != (c.Headings.Blue == nil) {
		return fmt.Errorf("%w: headings.red and headings.blue must be set together", ErrInvalid)
	}
	if c.Display.FPS <= 0 {
		return fmt.Errorf("%w: display.fps must be positive, got %d", ErrInvalid, c.Display.FPS)
	}
	return nil
}

// Clone returns a deep copy, so presets can be handed out safely.
func (c *Config) Clone() *Config {
	out := *c
	if c.Headings.Red != nil {
		r := *c.Headings.Red
		out.Headings.Red = &r
	}
	if c.Headings.Blue != nil {
		b := *c.Headings.Blue
		out.Headings.Blue = &b
	}
	if c.Metrics != nil {
		out.Metrics = append([]string(nil), c.Metrics...)
	}
	return &out
}
