// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vfilter

import (
	"errors"
	"fmt"

	"github.com/gogpu/vfilter/shader"
)

// Package errors.
var (
	// ErrNotInitialized is returned by Apply when Initialize has not succeeded.
	ErrNotInitialized = errors.New("vfilter: filter not initialized")

	// ErrInvalidParameter is the parent of all parameter validation errors.
	ErrInvalidParameter = errors.New("vfilter: invalid parameter")

	// ErrInvalidMatrix is returned when a transform contains NaN or Inf.
	ErrInvalidMatrix = fmt.Errorf("%w: matrix must contain 16 finite values", ErrInvalidParameter)

	// ErrInvalidDimensions is returned for non-positive or non-finite sizes.
	ErrInvalidDimensions = fmt.Errorf("%w: dimensions must be positive and finite", ErrInvalidParameter)

	// ErrNilContext is returned when a nil RenderContext is supplied.
	ErrNilContext = errors.New("vfilter: nil render context")

	// ErrClosed is returned by Apply after Close released the program.
	ErrClosed = errors.New("vfilter: filter closed")

	// ErrUnknownFilter is returned by New for names that are not registered.
	ErrUnknownFilter = errors.New("vfilter: unknown filter")
)

// ShaderCompileError reports a kernel that failed to compile while a filter
// was being initialized. The filter stays uninitialized.
type ShaderCompileError struct {
	// Filter is the name of the filter that owns the kernel.
	Filter string

	// Stage is the pipeline stage of the failing kernel.
	Stage shader.Stage

	// Err is the underlying compiler diagnostic.
	Err error
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("vfilter: %s: compile %s kernel: %v", e.Filter, e.Stage, e.Err)
}

func (e *ShaderCompileError) Unwrap() error { return e.Err }
