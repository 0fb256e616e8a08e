// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vfilter

// KernelSource exposes the immutable shader pair of a filter type.
// Render backends read it during Initialize; pipelines never call it.
type KernelSource interface {
	// VertexKernel returns the WGSL source of the vertex stage.
	VertexKernel() string

	// PixelKernel returns the WGSL source of the pixel (fragment) stage.
	PixelKernel() string
}

// VideoFilter is the capability set every filter implements so that a
// pipeline can drive heterogeneous filters interchangeably.
//
// Initialize and Apply must run on the goroutine that owns the render
// context. IncomingMatrix and ImageDimensions only mutate stored parameters;
// they take effect on the next Apply. A VideoFilter performs no locking.
type VideoFilter interface {
	KernelSource

	// Name returns the registry name of the filter type.
	Name() string

	// Initialize compiles the kernels and creates the program on rc.
	// On failure the filter stays uninitialized. Calling Initialize on an
	// initialized filter is a no-op.
	Initialize(rc RenderContext) error

	// Initialized reports whether Initialize has succeeded.
	Initialized() bool

	// Apply draws the current frame through the filter program using the
	// stored transform and dimensions. It returns an error wrapping
	// ErrNotInitialized if called before Initialize.
	Apply(rc RenderContext) error

	// IncomingMatrix replaces the transform. Non-finite values are rejected
	// with ErrInvalidMatrix and the previous transform is kept.
	IncomingMatrix(m Matrix4) error

	// ImageDimensions replaces the frame dimensions. Non-positive or
	// non-finite values are rejected with ErrInvalidDimensions and the
	// previous dimensions are kept.
	ImageDimensions(w, h float32) error
}
