// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vfilter

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/vfilter/shader"
)

// UniformSize is the byte size of the per-draw uniform block:
//
//	transform  (mat4x4<f32>) = 64 bytes
//	dimensions (vec2<f32>)   =  8 bytes
//	padding    (vec2<f32>)   =  8 bytes
const UniformSize = 80

// RenderContext is the rendering backend a filter is initialized and applied
// against. It is passed explicitly to make thread affinity visible at the
// call site; the filter uses it but never owns it.
//
// Implementations live in backend/wgpu (GPU) and backend/software (CPU).
type RenderContext interface {
	// CreateProgram builds a draw program from a compiled kernel pair.
	CreateProgram(desc *ProgramDescriptor) (Program, error)

	// Draw renders the currently bound frame with the program.
	Draw(p Program, u Uniforms) error
}

// Program is a backend-specific draw program created by a RenderContext.
type Program interface {
	// Destroy releases the resources held by the program.
	Destroy()
}

// ProgramDescriptor describes a program to create.
type ProgramDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Vertex is the compiled vertex kernel.
	Vertex *shader.Module

	// Pixel is the compiled pixel kernel.
	Pixel *shader.Module

	// ColorMatrix is the effect of the pixel kernel expressed as a color
	// matrix. Backends that cannot execute kernels use it instead.
	ColorMatrix ColorMatrix
}

// Uniforms is the per-draw parameter block.
type Uniforms struct {
	Transform  Matrix4
	Dimensions Dimensions
}

// Bytes encodes the uniform block in the std140-compatible layout
// expected by the vertex kernel.
func (u Uniforms) Bytes() []byte {
	buf := make([]byte, 0, UniformSize)
	buf = u.Transform.AppendBytes(buf)
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(u.Dimensions.Width))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(u.Dimensions.Height))
	buf = binary.LittleEndian.AppendUint64(buf, 0)
	return buf
}
