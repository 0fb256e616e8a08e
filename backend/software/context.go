// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software provides a CPU vfilter.RenderContext.
//
// It reproduces what the GPU pipeline draws without a device: the frame
// quad is positioned with the 2D affine part of the transform and resampled
// with golang.org/x/image/draw, then the pixel kernel's effect is applied
// through the program's color matrix. It is used by vfdemo, by tests and
// wherever no GPU is available.
package software

import (
	"errors"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/vfilter"
)

// Errors returned by the software render context.
var (
	// ErrNotBound is returned by Draw when no frames are bound.
	ErrNotBound = errors.New("software: source and target frames must be bound")

	// ErrUnsupportedTransform is returned for transforms with a perspective
	// component, which cannot be expressed as a 2D affine resampling.
	ErrUnsupportedTransform = errors.New("software: transform is not 2D affine")

	// ErrForeignProgram is returned when a program from another context is drawn.
	ErrForeignProgram = errors.New("software: program was not created by this context")

	// ErrProgramDestroyed is returned when a destroyed program is drawn.
	ErrProgramDestroyed = errors.New("software: program destroyed")
)

// Option configures a Context.
type Option func(*Context)

// WithInterpolator sets the resampling kernel. Defaults to draw.BiLinear.
func WithInterpolator(i draw.Interpolator) Option {
	return func(c *Context) {
		if i != nil {
			c.interp = i
		}
	}
}

// WithWorkers post-processes frames in horizontal bands on n goroutines.
// n <= 0 uses GOMAXPROCS. Without this option frames are processed on the
// calling goroutine. A context with workers must be closed.
func WithWorkers(n int) Option {
	return func(c *Context) {
		c.workers = n
		c.parallel = true
	}
}

// Context renders filters on the CPU into a bound target frame.
// It is not safe for concurrent use.
type Context struct {
	interp   draw.Interpolator
	workers  int
	parallel bool
	pool     *bandPool

	src *vfilter.Frame
	dst *vfilter.Frame

	draws int
}

// New creates a software render context.
func New(opts ...Option) *Context {
	c := &Context{interp: draw.BiLinear}
	for _, opt := range opts {
		opt(c)
	}
	if c.parallel {
		c.pool = newBandPool(c.workers)
	}
	return c
}

// Close stops the worker goroutines started by WithWorkers.
func (c *Context) Close() error {
	c.pool.close()
	return nil
}

// Bind selects the frame sampled by filters and the frame drawn into.
// src and dst may have different sizes but must not be the same frame.
func (c *Context) Bind(src, dst *vfilter.Frame) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("software: bind source: %w", err)
	}
	if err := dst.Validate(); err != nil {
		return fmt.Errorf("software: bind target: %w", err)
	}
	if src == dst {
		return fmt.Errorf("software: %w: source and target are the same frame", vfilter.ErrInvalidFrame)
	}
	c.src, c.dst = src, dst
	return nil
}

// Draws returns the number of successful draws.
func (c *Context) Draws() int { return c.draws }

// program is the CPU form of a filter program: its color matrix.
type program struct {
	ctx       *Context
	label     string
	matrix    vfilter.ColorMatrix
	destroyed bool
}

func (p *program) Destroy() { p.destroyed = true }

// CreateProgram records the program's color matrix. The compiled kernels
// are not executed on the CPU.
func (c *Context) CreateProgram(desc *vfilter.ProgramDescriptor) (vfilter.Program, error) {
	if desc == nil {
		return nil, errors.New("software: nil program descriptor")
	}
	return &program{ctx: c, label: desc.Label, matrix: desc.ColorMatrix}, nil
}

// Draw clears the target to transparent black, resamples the source quad
// through the transform and applies the program's color matrix.
func (c *Context) Draw(p vfilter.Program, u vfilter.Uniforms) error {
	prog, ok := p.(*program)
	if !ok || prog.ctx != c {
		return ErrForeignProgram
	}
	if prog.destroyed {
		return ErrProgramDestroyed
	}
	if c.src == nil || c.dst == nil {
		return ErrNotBound
	}
	if !u.Transform.IsAffine2D() {
		return ErrUnsupportedTransform
	}

	src := c.src.ToRGBA()
	dst := image.NewRGBA(image.Rect(0, 0, c.dst.Width, c.dst.Height))

	s2d := sourceToTarget(u.Transform, src.Bounds().Size(), dst.Bounds().Size())
	if dp, ok := integerTranslation(s2d); ok {
		draw.Copy(dst, dp, src, src.Bounds(), draw.Src, nil)
	} else {
		c.interp.Transform(dst, s2d, src, src.Bounds(), draw.Src, nil)
	}

	identity := prog.matrix.IsIdentity()
	c.pool.rows(c.dst.Height, func(y0, y1 int) {
		if !identity {
			applyColorMatrix(dst, prog.matrix, y0, y1)
		}
		storeBGRA(c.dst, dst, y0, y1)
	})

	c.draws++
	vfilter.Logger().Debug("software: frame drawn",
		"program", prog.label,
		"width", c.dst.Width,
		"height", c.dst.Height)
	return nil
}

// sourceToTarget maps source pixel coordinates to target pixel coordinates
// the way the vertex kernel does: source pixel -> quad corner in normalized
// device coordinates -> transform -> target pixel.
func sourceToTarget(m vfilter.Matrix4, src, dst image.Point) f64.Aff3 {
	sw, sh := float64(src.X), float64(src.Y)
	dw, dh := float64(dst.X), float64(dst.Y)

	toNDC := f64.Aff3{
		2 / sw, 0, -1,
		0, -2 / sh, 1,
	}
	transform := f64.Aff3{
		float64(m.At(0, 0)), float64(m.At(0, 1)), float64(m.At(0, 3)),
		float64(m.At(1, 0)), float64(m.At(1, 1)), float64(m.At(1, 3)),
	}
	toPixels := f64.Aff3{
		dw / 2, 0, dw / 2,
		0, -dh / 2, dh / 2,
	}
	return mul(toPixels, mul(transform, toNDC))
}

// mul returns the affine transform a after b.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

// integerTranslation reports whether s2d is a translation by whole pixels.
func integerTranslation(s2d f64.Aff3) (image.Point, bool) {
	const eps = 1e-9
	if math.Abs(s2d[0]-1) > eps || math.Abs(s2d[1]) > eps ||
		math.Abs(s2d[3]) > eps || math.Abs(s2d[4]-1) > eps {
		return image.Point{}, false
	}
	tx, ty := math.Round(s2d[2]), math.Round(s2d[5])
	if math.Abs(s2d[2]-tx) > eps || math.Abs(s2d[5]-ty) > eps {
		return image.Point{}, false
	}
	return image.Point{X: int(tx), Y: int(ty)}, true
}

func applyColorMatrix(img *image.RGBA, cm vfilter.ColorMatrix, y0, y1 int) {
	w := img.Bounds().Dx()
	for y := y0; y < y1; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+1], row[i+2], row[i+3] = cm.TransformBytes(row[i], row[i+1], row[i+2], row[i+3])
		}
	}
}

// storeBGRA writes rows [y0, y1) of an RGBA image into a BGRA frame of the
// same size.
func storeBGRA(f *vfilter.Frame, img *image.RGBA, y0, y1 int) {
	for y := y0; y < y1; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+f.Width*4]
		dst := f.Pix[y*f.Stride : y*f.Stride+f.Width*4]
		for i := 0; i < len(src); i += 4 {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
}
