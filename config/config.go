// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads filter chain descriptions from YAML.
//
// Example:
//
//	filters: [bgra, grayscale]
//	dimensions: {width: 1280, height: 720}
//	transform:
//	  scale: [1, 1]
//	  rotate: 90          # degrees, around the frame centre
//	  translate: [0, 0]   # normalized device units
//
// An explicit transform.matrix of 16 column-major values replaces
// scale, rotate and translate.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/vfilter"
	"github.com/gogpu/vfilter/chain"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config describes a filter chain.
type Config struct {
	Filters    []string   `yaml:"filters"`
	Dimensions Dimensions `yaml:"dimensions"`
	Transform  Transform  `yaml:"transform"`
}

// Dimensions are the frame dimensions. Zero means unset.
type Dimensions struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// IsZero reports whether no dimensions were given.
func (d Dimensions) IsZero() bool { return d.Width == 0 && d.Height == 0 }

// Transform describes the frame transform.
type Transform struct {
	Scale     []float32 `yaml:"scale"`
	Rotate    float64   `yaml:"rotate"`
	Translate []float32 `yaml:"translate"`
	Matrix    []float32 `yaml:"matrix"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML configuration. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks filter names, dimensions and transform values.
func (c *Config) Validate() error {
	if len(c.Filters) == 0 {
		return fmt.Errorf("%w: no filters", ErrInvalidConfig)
	}
	for _, name := range c.Filters {
		if !vfilter.IsRegistered(name) {
			return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, vfilter.ErrUnknownFilter, name)
		}
	}

	if !c.Dimensions.IsZero() {
		d := vfilter.Dimensions{Width: c.Dimensions.Width, Height: c.Dimensions.Height}
		if !d.Valid() {
			return fmt.Errorf("%w: dimensions %vx%v", ErrInvalidConfig, d.Width, d.Height)
		}
	}

	t := c.Transform
	if n := len(t.Matrix); n != 0 {
		if n != 16 {
			return fmt.Errorf("%w: matrix needs 16 values, got %d", ErrInvalidConfig, n)
		}
		if len(t.Scale) != 0 || len(t.Translate) != 0 || t.Rotate != 0 {
			return fmt.Errorf("%w: matrix excludes scale, rotate and translate", ErrInvalidConfig)
		}
	}
	if n := len(t.Scale); n != 0 && n != 2 {
		return fmt.Errorf("%w: scale needs 2 values, got %d", ErrInvalidConfig, n)
	}
	for _, s := range t.Scale {
		if s == 0 {
			return fmt.Errorf("%w: zero scale", ErrInvalidConfig)
		}
	}
	if n := len(t.Translate); n != 0 && n != 2 {
		return fmt.Errorf("%w: translate needs 2 values, got %d", ErrInvalidConfig, n)
	}
	if math.IsNaN(t.Rotate) || math.IsInf(t.Rotate, 0) {
		return fmt.Errorf("%w: rotate must be finite", ErrInvalidConfig)
	}
	if !c.Matrix().IsFinite() {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, vfilter.ErrInvalidMatrix)
	}
	return nil
}

// Matrix returns the configured transform. Rotation is about the frame
// centre and keeps the frame's aspect ratio when dimensions are set.
func (c *Config) Matrix() vfilter.Matrix4 {
	t := c.Transform
	if len(t.Matrix) == 16 {
		var m vfilter.Matrix4
		copy(m[:], t.Matrix)
		return m
	}

	m := vfilter.Identity4()
	if len(t.Scale) == 2 {
		m = vfilter.Scale4(t.Scale[0], t.Scale[1], 1)
	}
	if t.Rotate != 0 {
		aspect := float32(1)
		d := vfilter.Dimensions{Width: c.Dimensions.Width, Height: c.Dimensions.Height}
		if r, ok := d.AspectRatio(); ok {
			aspect = r
		}
		// Rotate in pixel-proportional space, then return to NDC.
		rot := vfilter.Scale4(1/aspect, 1, 1).
			Multiply(vfilter.RotateZ4(t.Rotate * math.Pi / 180)).
			Multiply(vfilter.Scale4(aspect, 1, 1))
		m = rot.Multiply(m)
	}
	if len(t.Translate) == 2 {
		m = vfilter.Translate4(t.Translate[0], t.Translate[1], 0).Multiply(m)
	}
	return m
}

// Build creates the configured filters, adds them to a new chain and queues
// the transform and dimensions.
func (c *Config) Build(opts ...chain.Option) (*chain.Chain, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ch, err := chain.New(opts...)
	if err != nil {
		return nil, err
	}
	for _, name := range c.Filters {
		f, err := vfilter.New(name)
		if err != nil {
			return nil, err
		}
		ch.Add(f)
	}
	if err := ch.SetMatrix(c.Matrix()); err != nil {
		return nil, err
	}
	if !c.Dimensions.IsZero() {
		if err := ch.SetDimensions(c.Dimensions.Width, c.Dimensions.Height); err != nil {
			return nil, err
		}
	}
	return ch, nil
}
