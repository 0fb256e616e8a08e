// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vfilter

// NameBGRA is the registry name of BasicBGRA.
const NameBGRA = "bgra"

// BasicBGRA draws a BGRA-ordered frame to the render target unchanged,
// positioned by the incoming transform.
type BasicBGRA struct {
	*ShaderFilter
}

// NewBasicBGRA creates an uninitialized passthrough filter.
func NewBasicBGRA(opts ...Option) *BasicBGRA {
	return &BasicBGRA{
		ShaderFilter: NewShaderFilter(NameBGRA, quadVertexKernel, bgraPixelKernel,
			IdentityColorMatrix(), opts...),
	}
}
