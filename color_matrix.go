// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vfilter

// ColorMatrix is a 4x5 color transformation applied per pixel:
//
//	[R']   [a00 a01 a02 a03 a04]   [R]
//	[G'] = [a10 a11 a12 a13 a14] * [G]
//	[B']   [a20 a21 a22 a23 a24]   [B]
//	[A']   [a30 a31 a32 a33 a34]   [A]
//	                               [1]
//
// Elements are row-major. Channel values are in the [0, 1] range during the
// transformation and the result is clamped back to [0, 1].
type ColorMatrix [20]float32

// Luminance weights (Rec. 709).
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// IdentityColorMatrix passes colors through unchanged.
func IdentityColorMatrix() ColorMatrix {
	return ColorMatrix{
		1, 0, 0, 0, 0, // R
		0, 1, 0, 0, 0, // G
		0, 0, 1, 0, 0, // B
		0, 0, 0, 1, 0, // A
	}
}

// GrayscaleColorMatrix replaces each color with its luminance.
func GrayscaleColorMatrix() ColorMatrix {
	return ColorMatrix{
		lumR, lumG, lumB, 0, 0,
		lumR, lumG, lumB, 0, 0,
		lumR, lumG, lumB, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// SepiaColorMatrix applies a sepia tone.
func SepiaColorMatrix() ColorMatrix {
	return ColorMatrix{
		0.393, 0.769, 0.189, 0, 0,
		0.349, 0.686, 0.168, 0, 0,
		0.272, 0.534, 0.131, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// InvertColorMatrix inverts the color channels and keeps alpha.
func InvertColorMatrix() ColorMatrix {
	return ColorMatrix{
		-1, 0, 0, 0, 1,
		0, -1, 0, 0, 1,
		0, 0, -1, 0, 1,
		0, 0, 0, 1, 0,
	}
}

// IsIdentity reports whether the matrix leaves colors unchanged.
func (cm ColorMatrix) IsIdentity() bool {
	return cm == IdentityColorMatrix()
}

// Transform applies the matrix to straight (non-premultiplied) channels.
func (cm ColorMatrix) Transform(r, g, b, a float32) (float32, float32, float32, float32) {
	nr := cm[0]*r + cm[1]*g + cm[2]*b + cm[3]*a + cm[4]
	ng := cm[5]*r + cm[6]*g + cm[7]*b + cm[8]*a + cm[9]
	nb := cm[10]*r + cm[11]*g + cm[12]*b + cm[13]*a + cm[14]
	na := cm[15]*r + cm[16]*g + cm[17]*b + cm[18]*a + cm[19]
	return clamp01(nr), clamp01(ng), clamp01(nb), clamp01(na)
}

// TransformBytes applies the matrix to 8-bit channels.
func (cm ColorMatrix) TransformBytes(r, g, b, a uint8) (uint8, uint8, uint8, uint8) {
	nr, ng, nb, na := cm.Transform(
		float32(r)/255, float32(g)/255, float32(b)/255, float32(a)/255)
	return toByte(nr), toByte(ng), toByte(nb), toByte(na)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func toByte(v float32) uint8 {
	return uint8(v*255 + 0.5)
}
