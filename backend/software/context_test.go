// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"errors"
	"testing"

	"golang.org/x/image/draw"

	"github.com/gogpu/vfilter"
)

// patternFrame returns an opaque BGRA frame with a distinct color per pixel.
func patternFrame(w, h int) *vfilter.Frame {
	f := vfilter.NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*f.Stride + x*4
			f.Pix[i+0] = uint8(x * 40)
			f.Pix[i+1] = uint8(y * 50)
			f.Pix[i+2] = uint8(200 - x*10 - y*5)
			f.Pix[i+3] = 255
		}
	}
	return f
}

func pixel(f *vfilter.Frame, x, y int) [4]uint8 {
	i := y*f.Stride + x*4
	return [4]uint8{f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]}
}

// setup binds a pattern source and an empty target of the same size.
func setup(t *testing.T, w, h int, opts ...Option) (*Context, *vfilter.Frame, *vfilter.Frame) {
	t.Helper()
	c := New(opts...)
	src := patternFrame(w, h)
	dst := vfilter.NewFrame(w, h)
	if err := c.Bind(src, dst); err != nil {
		t.Fatalf("Bind() = %v", err)
	}
	return c, src, dst
}

func initialized(t *testing.T, c *Context, name string) vfilter.VideoFilter {
	t.Helper()
	f, err := vfilter.New(name)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Initialize(c); err != nil {
		t.Fatalf("Initialize(%s) = %v", name, err)
	}
	return f
}

func TestIdentityPassthroughIsExact(t *testing.T) {
	c, src, dst := setup(t, 7, 5)
	f := initialized(t, c, vfilter.NameBGRA)
	if err := f.ImageDimensions(7, 5); err != nil {
		t.Fatal(err)
	}
	if err := f.IncomingMatrix(vfilter.Identity4()); err != nil {
		t.Fatal(err)
	}
	if err := f.Apply(c); err != nil {
		t.Fatalf("Apply() = %v", err)
	}

	for i := range src.Pix {
		if dst.Pix[i] != src.Pix[i] {
			t.Fatalf("byte %d = %d, want %d", i, dst.Pix[i], src.Pix[i])
		}
	}
	if c.Draws() != 1 {
		t.Errorf("Draws() = %d, want 1", c.Draws())
	}
}

func TestColorFilters(t *testing.T) {
	tests := []struct {
		name string
		cm   vfilter.ColorMatrix
	}{
		{vfilter.NameGrayscale, vfilter.GrayscaleColorMatrix()},
		{vfilter.NameInvert, vfilter.InvertColorMatrix()},
		{vfilter.NameSepia, vfilter.SepiaColorMatrix()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, src, dst := setup(t, 4, 3)
			f := initialized(t, c, tt.name)
			if err := f.Apply(c); err != nil {
				t.Fatalf("Apply() = %v", err)
			}

			for y := 0; y < 3; y++ {
				for x := 0; x < 4; x++ {
					s := pixel(src, x, y)
					// Frames are BGRA; the matrix works on RGBA.
					r, g, b, a := tt.cm.TransformBytes(s[2], s[1], s[0], s[3])
					want := [4]uint8{b, g, r, a}
					if got := pixel(dst, x, y); got != want {
						t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestTranslateByWholePixels(t *testing.T) {
	c, src, dst := setup(t, 4, 2)
	f := initialized(t, c, vfilter.NameBGRA)

	// 0.5 NDC units on a 4 pixel wide target is one pixel.
	if err := f.IncomingMatrix(vfilter.Translate4(0.5, 0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := f.Apply(c); err != nil {
		t.Fatalf("Apply() = %v", err)
	}

	for y := 0; y < 2; y++ {
		if got := pixel(dst, 0, y); got != ([4]uint8{}) {
			t.Errorf("pixel (0,%d) = %v, want cleared", y, got)
		}
		for x := 1; x < 4; x++ {
			if got, want := pixel(dst, x, y), pixel(src, x-1, y); got != want {
				t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestVerticalFlip(t *testing.T) {
	c, src, dst := setup(t, 3, 4)
	f := initialized(t, c, vfilter.NameBGRA)
	if err := f.IncomingMatrix(vfilter.Scale4(1, -1, 1)); err != nil {
		t.Fatal(err)
	}
	if err := f.Apply(c); err != nil {
		t.Fatalf("Apply() = %v", err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 3; x++ {
			got, want := pixel(dst, x, y), pixel(src, x, 3-y)
			for ch := range got {
				d := int(got[ch]) - int(want[ch])
				if d < -1 || d > 1 {
					t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
				}
			}
		}
	}
}

func TestScaleDownLeavesBorderCleared(t *testing.T) {
	c, _, dst := setup(t, 8, 8, WithInterpolator(draw.ApproxBiLinear))
	f := initialized(t, c, vfilter.NameBGRA)
	if err := f.IncomingMatrix(vfilter.Scale4(0.5, 0.5, 1)); err != nil {
		t.Fatal(err)
	}
	if err := f.Apply(c); err != nil {
		t.Fatalf("Apply() = %v", err)
	}

	if got := pixel(dst, 0, 0); got != ([4]uint8{}) {
		t.Errorf("corner = %v, want cleared", got)
	}
	if got := pixel(dst, 7, 7); got != ([4]uint8{}) {
		t.Errorf("corner = %v, want cleared", got)
	}
	if got := pixel(dst, 4, 4); got[3] != 255 {
		t.Errorf("centre alpha = %d, want 255", got[3])
	}
}

func TestDifferentTargetSize(t *testing.T) {
	c := New()
	src := patternFrame(4, 4)
	dst := vfilter.NewFrame(8, 8)
	if err := c.Bind(src, dst); err != nil {
		t.Fatal(err)
	}
	f := initialized(t, c, vfilter.NameBGRA)
	if err := f.Apply(c); err != nil {
		t.Fatalf("Apply() = %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if pixel(dst, x, y)[3] != 255 {
				t.Fatalf("pixel (%d,%d) not covered by the stretched quad", x, y)
			}
		}
	}
}

func TestPerspectiveRejected(t *testing.T) {
	c, _, dst := setup(t, 4, 4)
	f := initialized(t, c, vfilter.NameBGRA)

	m := vfilter.Identity4()
	m[3] = 0.5
	if err := f.IncomingMatrix(m); err != nil {
		t.Fatal(err)
	}
	if err := f.Apply(c); !errors.Is(err, ErrUnsupportedTransform) {
		t.Fatalf("Apply() = %v, want ErrUnsupportedTransform", err)
	}
	for _, b := range dst.Pix {
		if b != 0 {
			t.Fatal("target modified by rejected draw")
		}
	}
}

func TestDrawErrors(t *testing.T) {
	t.Run("not bound", func(t *testing.T) {
		c := New()
		f := initialized(t, c, vfilter.NameBGRA)
		if err := f.Apply(c); !errors.Is(err, ErrNotBound) {
			t.Errorf("Apply() = %v, want ErrNotBound", err)
		}
	})
	t.Run("foreign program", func(t *testing.T) {
		a := New()
		b, _, _ := setup(t, 2, 2)
		f := initialized(t, a, vfilter.NameBGRA)
		if err := f.Apply(b); !errors.Is(err, ErrForeignProgram) {
			t.Errorf("Apply() = %v, want ErrForeignProgram", err)
		}
	})
	t.Run("destroyed program", func(t *testing.T) {
		c, _, _ := setup(t, 2, 2)
		p, err := c.CreateProgram(&vfilter.ProgramDescriptor{ColorMatrix: vfilter.IdentityColorMatrix()})
		if err != nil {
			t.Fatal(err)
		}
		p.Destroy()
		if err := c.Draw(p, vfilter.Uniforms{Transform: vfilter.Identity4()}); !errors.Is(err, ErrProgramDestroyed) {
			t.Errorf("Draw() = %v, want ErrProgramDestroyed", err)
		}
	})
}

func TestBindValidation(t *testing.T) {
	c := New()
	f := vfilter.NewFrame(2, 2)
	tests := []struct {
		name     string
		src, dst *vfilter.Frame
	}{
		{"nil source", nil, f},
		{"nil target", f, nil},
		{"same frame", f, f},
		{"empty target", f, vfilter.NewFrame(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Bind(tt.src, tt.dst); !errors.Is(err, vfilter.ErrInvalidFrame) {
				t.Errorf("Bind() = %v, want ErrInvalidFrame", err)
			}
		})
	}
}

func TestWorkersMatchSerial(t *testing.T) {
	render := func(opts ...Option) *vfilter.Frame {
		c, _, dst := setup(t, 64, 100, opts...)
		defer c.Close()
		f := initialized(t, c, vfilter.NameSepia)
		if err := f.IncomingMatrix(vfilter.RotateZ4(0.3)); err != nil {
			t.Fatal(err)
		}
		if err := f.Apply(c); err != nil {
			t.Fatalf("Apply() = %v", err)
		}
		return dst
	}

	serial := render()
	parallel := render(WithWorkers(4))
	for i := range serial.Pix {
		if serial.Pix[i] != parallel.Pix[i] {
			t.Fatalf("byte %d differs: serial %d, parallel %d", i, serial.Pix[i], parallel.Pix[i])
		}
	}
}
