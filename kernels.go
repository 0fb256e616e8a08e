// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vfilter

import _ "embed"

// WGSL kernels shared by the built-in filters.
var (
	//go:embed kernels/quad.vert.wgsl
	quadVertexKernel string

	//go:embed kernels/bgra.frag.wgsl
	bgraPixelKernel string

	//go:embed kernels/grayscale.frag.wgsl
	grayscalePixelKernel string

	//go:embed kernels/invert.frag.wgsl
	invertPixelKernel string

	//go:embed kernels/sepia.frag.wgsl
	sepiaPixelKernel string
)
