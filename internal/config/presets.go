package config

import (
	"math"
	"sort"
)

func angle(v float64) *float64 { return &v }

func preset(mut func(c *Config)) *Config {
	c := DefaultConfig()
	mut(c)
	return c
}

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"small": preset(func(c *Config) {
		c.GridSize = 400
		c.Ticks = 2000
	}),
	// Both blocks aim straight at the center block.
	"crossing": preset(func(c *Config) {
		c.Headings = HeadingConfig{Red: angle(math.Pi / 4), Blue: angle(5 * math.Pi / 4)}
		c.Ticks = 1200
	}),
	// Horizontal travel only, blocks on mirrored rows.
	"headon": preset(func(c *Config) {
		c.Headings = HeadingConfig{Red: angle(0), Blue: angle(math.Pi)}
		c.Ticks = 2400
	}),
	"long": preset(func(c *Config) {
		c.Ticks = 36000
		c.SampleEvery = 10
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
