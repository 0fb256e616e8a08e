// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vfilter

import "math"

// Dimensions is the logical size of the image being filtered.
// The zero value means no size has been provided yet.
type Dimensions struct {
	Width  float32
	Height float32
}

// Valid reports whether both sides are positive and finite.
func (d Dimensions) Valid() bool {
	return positiveFinite(d.Width) && positiveFinite(d.Height)
}

// AspectRatio returns width/height. ok is false when the dimensions are not
// valid, in which case any aspect-dependent computation is undefined.
func (d Dimensions) AspectRatio() (ratio float32, ok bool) {
	if !d.Valid() {
		return 0, false
	}
	return d.Width / d.Height, true
}

func positiveFinite(v float32) bool {
	f := float64(v)
	return f > 0 && !math.IsInf(f, 1)
}
