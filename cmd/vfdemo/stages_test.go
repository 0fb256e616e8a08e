// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"testing"

	"github.com/gogpu/vfilter"
	"github.com/gogpu/vfilter/config"
)

func testFrame() *vfilter.Frame {
	f := vfilter.NewFrame(4, 2)
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i+0] = uint8(i * 7)
		f.Pix[i+1] = uint8(i * 3)
		f.Pix[i+2] = uint8(255 - i*5)
		f.Pix[i+3] = 255
	}
	return f
}

func TestRunComposesStages(t *testing.T) {
	in := testFrame()
	out, err := run(&config.Config{Filters: []string{vfilter.NameGrayscale, vfilter.NameInvert}}, in)
	if err != nil {
		t.Fatalf("run() = %v", err)
	}

	gray, inv := vfilter.GrayscaleColorMatrix(), vfilter.InvertColorMatrix()
	for i := 0; i < len(in.Pix); i += 4 {
		r, g, b, a := gray.TransformBytes(in.Pix[i+2], in.Pix[i+1], in.Pix[i], in.Pix[i+3])
		r, g, b, a = inv.TransformBytes(r, g, b, a)
		want := [4]uint8{b, g, r, a}
		got := [4]uint8{out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3]}
		if got != want {
			t.Errorf("pixel %d = %v, want %v", i/4, got, want)
		}
	}
}

func TestRunAppliesTransformOnce(t *testing.T) {
	in := testFrame()
	cfg := &config.Config{
		Filters:   []string{vfilter.NameBGRA, vfilter.NameBGRA},
		Transform: config.Transform{Translate: []float32{0.5, 0}},
	}
	out, err := run(cfg, in)
	if err != nil {
		t.Fatalf("run() = %v", err)
	}

	// 0.5 NDC units is one pixel at width 4.
	for y := 0; y < in.Height; y++ {
		for x := 1; x < in.Width; x++ {
			o := y*out.Stride + x*4
			i := y*in.Stride + (x-1)*4
			for c := 0; c < 4; c++ {
				if out.Pix[o+c] != in.Pix[i+c] {
					t.Fatalf("pixel (%d,%d) not shifted by exactly one pixel", x, y)
				}
			}
		}
	}
}

func TestRunWithoutFiltersFails(t *testing.T) {
	if _, err := run(&config.Config{}, testFrame()); err == nil {
		t.Error("run() with no filters succeeded")
	}
}
