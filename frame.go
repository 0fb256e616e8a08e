// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vfilter

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/clone"
)

// BytesPerPixel is the size of a BGRA pixel.
const BytesPerPixel = 4

// ErrInvalidFrame is returned for frames whose buffer does not match their size.
var ErrInvalidFrame = errors.New("vfilter: invalid frame")

// Frame is a CPU video frame in BGRA byte order (B, G, R, A per pixel),
// the layout produced by most camera and screen capture APIs.
type Frame struct {
	Width  int
	Height int

	// Stride is the number of bytes between the starts of two rows.
	Stride int

	Pix []byte
}

// NewFrame allocates a zeroed (transparent black) frame.
func NewFrame(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{
		Width:  width,
		Height: height,
		Stride: width * BytesPerPixel,
		Pix:    make([]byte, width*height*BytesPerPixel),
	}
}

// FrameFromImage converts an image to a BGRA frame.
func FrameFromImage(img image.Image) *Frame {
	rgba := clone.AsRGBA(img)
	b := rgba.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	for y := 0; y < f.Height; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+f.Width*BytesPerPixel]
		dst := f.Pix[y*f.Stride : y*f.Stride+f.Width*BytesPerPixel]
		for i := 0; i < len(src); i += BytesPerPixel {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
	return f
}

// Validate checks that the buffer holds Height rows of Stride bytes.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil", ErrInvalidFrame)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	if f.Stride < f.Width*BytesPerPixel {
		return fmt.Errorf("%w: stride %d too small for width %d", ErrInvalidFrame, f.Stride, f.Width)
	}
	if len(f.Pix) < (f.Height-1)*f.Stride+f.Width*BytesPerPixel {
		return fmt.Errorf("%w: buffer of %d bytes too small", ErrInvalidFrame, len(f.Pix))
	}
	return nil
}

// Dimensions returns the frame size as filter dimensions.
func (f *Frame) Dimensions() Dimensions {
	return Dimensions{Width: float32(f.Width), Height: float32(f.Height)}
}

// ToRGBA converts the frame to an RGBA image. Channel bytes are copied
// unchanged.
func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		src := f.Pix[y*f.Stride : y*f.Stride+f.Width*BytesPerPixel]
		dst := img.Pix[y*img.Stride : y*img.Stride+f.Width*BytesPerPixel]
		for i := 0; i < len(src); i += BytesPerPixel {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
	return img
}
