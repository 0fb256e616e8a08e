// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vfilter"
)

// FrameTexture is a BGRA8 texture sized for a video frame, usable both as
// a filter source and as a render target.
type FrameTexture struct {
	device  hal.Device
	texture hal.Texture
	view    hal.TextureView

	Width  uint32
	Height uint32
}

// NewFrameTexture allocates a frame texture on the context's device.
func (c *Context) NewFrameTexture(label string, width, height uint32) (*FrameTexture, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("wgpu: frame texture %q: size %dx%d: %w", label, width, height, vfilter.ErrInvalidDimensions)
	}
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage: gputypes.TextureUsageTextureBinding | gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create frame texture: %w", err)
	}
	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		c.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create frame texture view: %w", err)
	}
	return &FrameTexture{
		device:  c.device,
		texture: tex,
		view:    view,
		Width:   width,
		Height:  height,
	}, nil
}

// View returns the texture view to pass to Context.Bind.
func (t *FrameTexture) View() hal.TextureView { return t.view }

// Upload copies a CPU frame into the texture. The frame must match the
// texture size.
func (c *Context) Upload(t *FrameTexture, f *vfilter.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if uint32(f.Width) != t.Width || uint32(f.Height) != t.Height { //nolint:gosec // validated positive
		return fmt.Errorf("wgpu: upload %dx%d frame into %dx%d texture: %w",
			f.Width, f.Height, t.Width, t.Height, vfilter.ErrInvalidFrame)
	}
	err := c.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.texture, Aspect: gputypes.TextureAspectAll},
		f.Pix,
		&hal.ImageDataLayout{BytesPerRow: uint32(f.Stride), RowsPerImage: t.Height}, //nolint:gosec // validated positive
		&hal.Extent3D{Width: t.Width, Height: t.Height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("wgpu: upload frame: %w", err)
	}
	return nil
}

// Destroy releases the texture and its view.
func (t *FrameTexture) Destroy() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}
