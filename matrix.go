// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vfilter

import (
	"encoding/binary"
	"math"
)

// Matrix4 is a 4x4 transform applied to the vertex positions of the frame
// quad. Elements are stored column-major, the memory layout of a WGSL
// mat4x4<f32>:
//
//	| m[0] m[4] m[8]  m[12] |
//	| m[1] m[5] m[9]  m[13] |
//	| m[2] m[6] m[10] m[14] |
//	| m[3] m[7] m[11] m[15] |
//
// Matrix4 is a value type; passing it copies all 16 elements.
type Matrix4 [16]float32

// Identity4 returns the identity transform.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate4 creates a translation matrix.
func Translate4(x, y, z float32) Matrix4 {
	m := Identity4()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale4 creates a scaling matrix.
func Scale4(x, y, z float32) Matrix4 {
	m := Identity4()
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotateZ4 creates a rotation around the Z axis (angle in radians).
func RotateZ4(angle float64) Matrix4 {
	cos := float32(math.Cos(angle))
	sin := float32(math.Sin(angle))
	m := Identity4()
	m[0], m[1] = cos, sin
	m[4], m[5] = -sin, cos
	return m
}

// Ortho4 creates an orthographic projection mapping the box
// [left,right]x[bottom,top]x[near,far] to WebGPU clip space
// (x,y in [-1,1], z in [0,1]).
func Ortho4(left, right, bottom, top, near, far float32) Matrix4 {
	m := Matrix4{}
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = 1 / (near - far)
	m[12] = (right + left) / (left - right)
	m[13] = (top + bottom) / (bottom - top)
	m[14] = near / (near - far)
	m[15] = 1
	return m
}

// At returns the element at the given row and column.
func (m Matrix4) At(row, col int) float32 {
	return m[col*4+row]
}

// Multiply multiplies two matrices (m * other).
func (m Matrix4) Multiply(other Matrix4) Matrix4 {
	var r Matrix4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// TransformPoint applies the matrix to the point (x, y, z, w).
func (m Matrix4) TransformPoint(x, y, z, w float32) (float32, float32, float32, float32) {
	return m[0]*x + m[4]*y + m[8]*z + m[12]*w,
		m[1]*x + m[5]*y + m[9]*z + m[13]*w,
		m[2]*x + m[6]*y + m[10]*z + m[14]*w,
		m[3]*x + m[7]*y + m[11]*z + m[15]*w
}

// IsFinite reports whether every element is neither NaN nor Inf.
func (m Matrix4) IsFinite() bool {
	for _, v := range m {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// IsIdentity returns true if the matrix is exactly the identity matrix.
func (m Matrix4) IsIdentity() bool {
	return m == Identity4()
}

// IsAffine2D reports whether the matrix maps the z=0 plane with an affine
// transform in x and y, i.e. the w row is (0, 0, *, 1).
func (m Matrix4) IsAffine2D() bool {
	return m[3] == 0 && m[7] == 0 && m[15] == 1
}

// AppendBytes appends the matrix as 64 little-endian bytes, column by column.
func (m Matrix4) AppendBytes(buf []byte) []byte {
	for _, v := range m {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
