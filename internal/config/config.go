// Package config loads testplot settings from defaults, an optional config
// file and TESTPLOT_* environment variables.
package config

import (
	"errors"

	"github.com/matzehuels/testplot/pkg/cache"
	"github.com/matzehuels/testplot/pkg/dataset"
	"github.com/matzehuels/testplot/pkg/layout"
	"github.com/matzehuels/testplot/pkg/render"
	"github.com/matzehuels/testplot/pkg/render/gnuplot"
)

// Defaults.
const (
	DefaultGnuplot    = render.DefaultBinary
	DefaultFont       = gnuplot.DefaultFont
	DefaultHeightCM   = layout.DefaultHeightCM
	DefaultMinWidthCM = layout.DefaultMinWidthCM
	DefaultCMPerUnit  = layout.DefaultCMPerUnit
	DefaultWorkers    = dataset.DefaultWorkers
)

// Validation errors.
var (
	ErrInvalidHeight    = errors.New("render.height_cm must be positive")
	ErrInvalidMinWidth  = errors.New("render.min_width_cm must be positive")
	ErrInvalidCMPerUnit = errors.New("render.cm_per_unit must be positive")
	ErrInvalidWorkers   = errors.New("merge.workers must be positive")
	ErrEmptyGnuplot     = errors.New("render.gnuplot must not be empty")
)

// Config is the top-level configuration.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Render RenderConfig `mapstructure:"render"`
	Merge  MergeConfig  `mapstructure:"merge"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

// RenderConfig holds engine and canvas settings.
type RenderConfig struct {
	Gnuplot    string  `mapstructure:"gnuplot"`
	Args       string  `mapstructure:"args"` // shell-quoted
	Font       string  `mapstructure:"font"`
	HeightCM   float64 `mapstructure:"height_cm"`
	MinWidthCM float64 `mapstructure:"min_width_cm"`
	CMPerUnit  float64 `mapstructure:"cm_per_unit"`
}

// MergeConfig holds data merger settings.
type MergeConfig struct {
	Workers int `mapstructure:"workers"`
}

// CacheConfig holds render cache settings.
type CacheConfig struct {
	Disabled bool   `mapstructure:"disabled"`
	Dir      string `mapstructure:"dir"` // cache.DefaultDir when empty
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Gnuplot:    DefaultGnuplot,
			Font:       DefaultFont,
			HeightCM:   DefaultHeightCM,
			MinWidthCM: DefaultMinWidthCM,
			CMPerUnit:  DefaultCMPerUnit,
		},
		Merge: MergeConfig{Workers: DefaultWorkers},
	}
}

// Validate rejects settings no run can use.
func (c *Config) Validate() error {
	switch {
	case c.Render.Gnuplot == "":
		return ErrEmptyGnuplot
	case c.Render.HeightCM <= 0:
		return ErrInvalidHeight
	case c.Render.MinWidthCM <= 0:
		return ErrInvalidMinWidth
	case c.Render.CMPerUnit <= 0:
		return ErrInvalidCMPerUnit
	case c.Merge.Workers <= 0:
		return ErrInvalidWorkers
	}
	return nil
}

// ScaleOptions returns the canvas settings for the layout engine.
func (c *Config) ScaleOptions() layout.ScaleOptions {
	return layout.ScaleOptions{
		HeightCM:   c.Render.HeightCM,
		MinWidthCM: c.Render.MinWidthCM,
		CMPerUnit:  c.Render.CMPerUnit,
	}
}

// CacheDir returns the configured cache directory.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	return cache.DefaultDir()
}
