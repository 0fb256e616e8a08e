// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vfilter"
	"github.com/gogpu/vfilter/shader"
)

// quadVertexCount is the number of vertices of the frame quad
// (one triangle strip).
const quadVertexCount = 4

// ErrMissingKernel is returned when a program descriptor lacks a kernel.
var ErrMissingKernel = errors.New("wgpu: program descriptor needs vertex and pixel kernels")

// program is the GPU state of one initialized filter.
type program struct {
	ctx   *Context
	label string

	vertex     hal.ShaderModule
	pixel      hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	uniforms   hal.Buffer

	destroyed bool
}

// CreateProgram creates the shader modules, layouts, render pipeline and
// uniform buffer of a filter.
//
// Bind group 0 layout:
//
//	@binding(0) uniform FrameUniforms (vertex)
//	@binding(1) texture_2d<f32>        (fragment)
//	@binding(2) sampler                (fragment)
func (c *Context) CreateProgram(desc *vfilter.ProgramDescriptor) (vfilter.Program, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	if desc == nil || desc.Vertex == nil || desc.Pixel == nil {
		return nil, ErrMissingKernel
	}

	label := desc.Label
	if label == "" {
		label = "vfilter"
	}
	p := &program{ctx: c, label: label}
	if err := p.create(desc.Vertex, desc.Pixel); err != nil {
		p.release()
		return nil, err
	}

	if c.programs == nil {
		c.programs = make(map[*program]struct{})
	}
	c.programs[p] = struct{}{}
	vfilter.Logger().Debug("wgpu: program created", "program", label, "format", c.format)
	return p, nil
}

func (p *program) create(vs, ps *shader.Module) error {
	device := p.ctx.device

	var err error
	p.vertex, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.label + "_vertex",
		Source: hal.ShaderSource{WGSL: vs.Source, SPIRV: vs.SPIRV},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create vertex module: %w", err)
	}
	p.pixel, err = device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  p.label + "_pixel",
		Source: hal.ShaderSource{WGSL: ps.Source, SPIRV: ps.SPIRV},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pixel module: %w", err)
	}

	p.bindLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: p.label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group layout: %w", err)
	}

	p.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            p.label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}

	replace := gputypes.BlendStateReplace()
	p.pipeline, err = device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.vertex,
			EntryPoint: vs.EntryPoint,
		},
		Fragment: &hal.FragmentState{
			Module:     p.pixel,
			EntryPoint: ps.EntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.ctx.format,
					Blend:     &replace,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create render pipeline: %w", err)
	}

	p.uniforms, err = device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.label + "_uniforms",
		Size:  vfilter.UniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create uniform buffer: %w", err)
	}
	return nil
}

// Destroy releases the GPU objects of the program. Safe to call more than
// once. After the context is closed the objects are already gone and no
// device calls are made.
func (p *program) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	if p.ctx.closed {
		return
	}
	delete(p.ctx.programs, p)
	if err := p.ctx.device.WaitIdle(); err != nil {
		vfilter.Logger().Warn("wgpu: wait idle before program release", "program", p.label, "error", err)
	}
	p.ctx.reclaim()
	p.release()
}

// release destroys GPU objects in reverse creation order.
func (p *program) release() {
	device := p.ctx.device
	if p.uniforms != nil {
		device.DestroyBuffer(p.uniforms)
		p.uniforms = nil
	}
	if p.pipeline != nil {
		device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.pixel != nil {
		device.DestroyShaderModule(p.pixel)
		p.pixel = nil
	}
	if p.vertex != nil {
		device.DestroyShaderModule(p.vertex)
		p.vertex = nil
	}
}
