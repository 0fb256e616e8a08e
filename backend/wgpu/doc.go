// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu provides a vfilter.RenderContext on a gogpu/wgpu HAL device.
//
// The context receives its device from the host application (New or
// NewFromProvider) or opens a standalone one (Open). Each filter program
// owns two shader modules compiled from SPIR-V, a bind group layout, a
// pipeline layout, a triangle-strip render pipeline and an 80-byte uniform
// buffer. Draw clears the bound target and draws the frame quad in a single
// render pass.
//
// Typical frame loop:
//
//	rc, err := wgpu.NewFromProvider(provider)
//	src, _ := rc.NewFrameTexture("camera", 1280, 720)
//	dst, _ := rc.NewFrameTexture("output", 1280, 720)
//	rc.Bind(src.View(), dst.View())
//
//	f := vfilter.NewBasicBGRA()
//	_ = f.Initialize(rc)
//	for frame := range frames {
//	    _ = rc.Upload(src, frame)
//	    _ = f.Apply(rc)
//	}
package wgpu
