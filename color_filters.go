// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vfilter

// Registry names of the color filters.
const (
	NameGrayscale = "grayscale"
	NameInvert    = "invert"
	NameSepia     = "sepia"
)

// Grayscale replaces every pixel with its Rec. 709 luminance.
type Grayscale struct {
	*ShaderFilter
}

// NewGrayscale creates an uninitialized grayscale filter.
func NewGrayscale(opts ...Option) *Grayscale {
	return &Grayscale{
		ShaderFilter: NewShaderFilter(NameGrayscale, quadVertexKernel, grayscalePixelKernel,
			GrayscaleColorMatrix(), opts...),
	}
}

// Invert inverts the color channels and keeps alpha.
type Invert struct {
	*ShaderFilter
}

// NewInvert creates an uninitialized invert filter.
func NewInvert(opts ...Option) *Invert {
	return &Invert{
		ShaderFilter: NewShaderFilter(NameInvert, quadVertexKernel, invertPixelKernel,
			InvertColorMatrix(), opts...),
	}
}

// Sepia applies a sepia tone.
type Sepia struct {
	*ShaderFilter
}

// NewSepia creates an uninitialized sepia filter.
func NewSepia(opts ...Option) *Sepia {
	return &Sepia{
		ShaderFilter: NewShaderFilter(NameSepia, quadVertexKernel, sepiaPixelKernel,
			SepiaColorMatrix(), opts...),
	}
}
