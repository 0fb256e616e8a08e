// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package vfilter provides pluggable video filters that render a raw frame
// through a WGSL vertex/pixel kernel pair.
//
// # Overview
//
// A filter turns a captured frame (BGRA pixel layout) into a rendered frame.
// The vertex kernel positions a full-frame quad with a 4x4 transform; the
// pixel kernel computes the output color. Kernels are compiled with the pure
// Go naga compiler and executed by a RenderContext.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/vfilter"
//	    "github.com/gogpu/vfilter/backend/software"
//	)
//
//	rc := software.New()
//	rc.Bind(src, dst)
//
//	f := vfilter.NewBasicBGRA()
//	if err := f.Initialize(rc); err != nil {
//	    return err
//	}
//	_ = f.ImageDimensions(640, 480)
//	_ = f.IncomingMatrix(vfilter.Identity4())
//	if err := f.Apply(rc); err != nil {
//	    return err
//	}
//
// # Lifecycle
//
// A filter starts uninitialized. Initialize moves it to the initialized state
// and never back. Apply fails with ErrNotInitialized before that. A second
// Initialize call is a no-op. IncomingMatrix and ImageDimensions are valid in
// both states; they only store values for the next Apply.
//
// # Threading
//
// Initialize and Apply must run on the goroutine that owns the render
// context. Filters do no locking. The chain package provides a hand-off for
// parameter updates produced on other goroutines.
//
// # Architecture
//
//   - vfilter: the VideoFilter contract, built-in filters, registry
//   - shader: WGSL kernel compilation (naga)
//   - backend/wgpu: RenderContext on a gogpu/wgpu HAL device
//   - backend/software: CPU RenderContext for tests and offline use
//   - chain: filter sequencing with failure isolation and metrics
//   - config: YAML chain configuration
package vfilter
