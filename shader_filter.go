// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vfilter

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/vfilter/shader"
)

// ShaderFilter implements VideoFilter for a fixed kernel pair.
// The built-in filters embed it; custom filters can construct one with
// NewShaderFilter.
//
// A ShaderFilter is not safe for concurrent use. Pipelines that update the
// transform from another goroutine must hand the value over themselves
// (see the chain package).
type ShaderFilter struct {
	name        string
	vertex      string
	pixel       string
	colorMatrix ColorMatrix
	opts        options

	transform  Matrix4
	dimensions Dimensions

	program     Program
	initialized bool
	closed      bool
}

// NewShaderFilter creates a filter from a vertex and pixel kernel.
// cm describes the pixel kernel's effect for backends that render on the CPU.
func NewShaderFilter(name, vertexKernel, pixelKernel string, cm ColorMatrix, opts ...Option) *ShaderFilter {
	o := defaultOptions(name)
	for _, opt := range opts {
		opt(&o)
	}
	return &ShaderFilter{
		name:        name,
		vertex:      vertexKernel,
		pixel:       pixelKernel,
		colorMatrix: cm,
		opts:        o,
		transform:   Identity4(),
	}
}

// Name returns the filter name.
func (f *ShaderFilter) Name() string { return f.name }

// VertexKernel returns the WGSL vertex kernel.
func (f *ShaderFilter) VertexKernel() string { return f.vertex }

// PixelKernel returns the WGSL pixel kernel.
func (f *ShaderFilter) PixelKernel() string { return f.pixel }

// ColorMatrix returns the color matrix equivalent of the pixel kernel.
func (f *ShaderFilter) ColorMatrix() ColorMatrix { return f.colorMatrix }

// Initialized reports whether Initialize has succeeded.
func (f *ShaderFilter) Initialized() bool { return f.initialized }

// Matrix returns a copy of the stored transform.
func (f *ShaderFilter) Matrix() Matrix4 { return f.transform }

// Dimensions returns the stored frame dimensions.
func (f *ShaderFilter) Dimensions() Dimensions { return f.dimensions }

func (f *ShaderFilter) logger() *slog.Logger {
	if f.opts.logger != nil {
		return f.opts.logger
	}
	return Logger()
}

// Initialize compiles both kernels and creates the program on rc.
// It is a no-op if the filter is already initialized. A closed filter
// cannot be initialized again.
func (f *ShaderFilter) Initialize(rc RenderContext) error {
	if f.initialized {
		return nil
	}
	if f.closed {
		return fmt.Errorf("%w: %s", ErrClosed, f.name)
	}
	if rc == nil {
		return ErrNilContext
	}

	vs, err := shader.Compile(shader.Vertex, f.vertex)
	if err != nil {
		return &ShaderCompileError{Filter: f.name, Stage: shader.Vertex, Err: err}
	}
	ps, err := shader.Compile(shader.Pixel, f.pixel)
	if err != nil {
		return &ShaderCompileError{Filter: f.name, Stage: shader.Pixel, Err: err}
	}

	program, err := rc.CreateProgram(&ProgramDescriptor{
		Label:       f.opts.label,
		Vertex:      vs,
		Pixel:       ps,
		ColorMatrix: f.colorMatrix,
	})
	if err != nil {
		return fmt.Errorf("vfilter: %s: create program: %w", f.name, err)
	}

	f.program = program
	f.initialized = true
	f.logger().Info("vfilter: filter initialized",
		"filter", f.name,
		"label", f.opts.label,
		"vertexWords", len(vs.SPIRV),
		"pixelWords", len(ps.SPIRV))
	return nil
}

// Apply draws the bound frame with the stored transform and dimensions.
func (f *ShaderFilter) Apply(rc RenderContext) error {
	if !f.initialized {
		return fmt.Errorf("%w: %s", ErrNotInitialized, f.name)
	}
	if f.closed {
		return fmt.Errorf("%w: %s", ErrClosed, f.name)
	}
	if rc == nil {
		return ErrNilContext
	}

	u := Uniforms{Transform: f.transform, Dimensions: f.dimensions}
	if err := rc.Draw(f.program, u); err != nil {
		return fmt.Errorf("vfilter: %s: draw: %w", f.name, err)
	}
	f.logger().Debug("vfilter: filter applied",
		"filter", f.name,
		"width", f.dimensions.Width,
		"height", f.dimensions.Height)
	return nil
}

// IncomingMatrix replaces the stored transform.
func (f *ShaderFilter) IncomingMatrix(m Matrix4) error {
	if !m.IsFinite() {
		return ErrInvalidMatrix
	}
	f.transform = m
	return nil
}

// ImageDimensions replaces the stored frame dimensions.
func (f *ShaderFilter) ImageDimensions(w, h float32) error {
	d := Dimensions{Width: w, Height: h}
	if !d.Valid() {
		return fmt.Errorf("%w: got %vx%v", ErrInvalidDimensions, w, h)
	}
	f.dimensions = d
	return nil
}

// Close releases the program created by Initialize. The filter keeps
// reporting Initialized, but Apply fails with ErrClosed afterwards.
// Close is idempotent.
func (f *ShaderFilter) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.program != nil {
		f.program.Destroy()
		f.program = nil
		f.logger().Info("vfilter: program released", "filter", f.name)
	}
	return nil
}
