// Package config loads the portal tool's settings file and merges CLI
// overrides into it.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"filter-portal/internal/filter"
	"filter-portal/internal/portal"
	"filter-portal/internal/spatial"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid setting")

// Config holds output paths, engine tuning and batch settings.
type Config struct {
	// Output
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	Format    string `json:"format" yaml:"format"`   // webp, png or jpeg
	Quality   int    `json:"quality" yaml:"quality"` // JPEG quality 1-100
	Workers   int    `json:"workers" yaml:"workers"`

	// Engine
	EnterThreshold float64 `json:"enter_threshold" yaml:"enter_threshold"`
	ExitThreshold  float64 `json:"exit_threshold" yaml:"exit_threshold"`
	DefaultFilter  string  `json:"default_filter" yaml:"default_filter"`
	PortalWidth    float64 `json:"portal_width" yaml:"portal_width"`
	PortalHeight   float64 `json:"portal_height" yaml:"portal_height"`
	RetainBuffers  bool    `json:"retain_buffers" yaml:"retain_buffers"`
}

// Load reads a JSON or YAML (by extension) config file.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir string
	Format    string
	Quality   int
	Workers   int
	Filter    string
	Retain    bool
}

// Resolve applies flag overrides and fills empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Quality > 0 {
		c.Quality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Filter != "" {
		c.DefaultFilter = flags.Filter
	}
	if flags.Retain {
		c.RetainBuffers = true
	}

	if c.OutputDir == "" {
		c.OutputDir = "portal-out"
	}
	if c.Format == "" {
		c.Format = "webp"
	}
	if c.Quality <= 0 {
		c.Quality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.EnterThreshold <= 0 {
		c.EnterThreshold = spatial.DefaultEnter
	}
	if c.ExitThreshold <= 0 {
		c.ExitThreshold = spatial.DefaultExit
	}
	if c.DefaultFilter == "" {
		c.DefaultFilter = filter.DefaultSpecs()[filter.DefaultIndex].Name
	}
	if c.PortalWidth <= 0 {
		c.PortalWidth = portal.DefaultWidth
	}
	if c.PortalHeight <= 0 {
		c.PortalHeight = portal.DefaultHeight
	}
}

// Validate checks a resolved config.
func (c Config) Validate() error {
	switch {
	case c.EnterThreshold >= c.ExitThreshold:
		return fmt.Errorf("%w: enter threshold %v not below exit threshold %v", ErrInvalid, c.EnterThreshold, c.ExitThreshold)
	case c.Quality > 100:
		return fmt.Errorf("%w: quality %d", ErrInvalid, c.Quality)
	}
	return nil
}
