// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vfilter"
)

// Errors returned by the wgpu render context.
var (
	// ErrNoDevice is returned when the device or queue is nil.
	ErrNoDevice = errors.New("wgpu: nil device or queue")

	// ErrNoHAL is returned when a device provider does not expose HAL types.
	ErrNoHAL = errors.New("wgpu: provider does not expose hal.Device and hal.Queue")

	// ErrNotBound is returned by Draw when no source or target view is bound.
	ErrNotBound = errors.New("wgpu: source and target views must be bound")

	// ErrForeignProgram is returned when a program from another context is drawn.
	ErrForeignProgram = errors.New("wgpu: program was not created by this context")

	// ErrProgramDestroyed is returned when a destroyed program is drawn.
	ErrProgramDestroyed = errors.New("wgpu: program destroyed")

	// ErrContextClosed is returned after Close.
	ErrContextClosed = errors.New("wgpu: context closed")
)

// Option configures a Context.
type Option func(*Context)

// WithTargetFormat sets the color format of the target views.
// Defaults to BGRA8Unorm.
func WithTargetFormat(format gputypes.TextureFormat) Option {
	return func(c *Context) {
		c.format = format
	}
}

// WithClearColor sets the color the target is cleared to before each draw.
// Defaults to transparent black.
func WithClearColor(color gputypes.Color) Option {
	return func(c *Context) {
		c.clear = color
	}
}

// Context is a vfilter.RenderContext backed by a gogpu/wgpu HAL device.
//
// Every Draw records one render pass that clears the bound target and draws
// the filter quad sampling the bound source. Context is not safe for
// concurrent use; it belongs to the goroutine that owns the device.
type Context struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
	clear  gputypes.Color

	sampler hal.Sampler

	source hal.TextureView
	target hal.TextureView

	// In-flight per-draw resources, released once the queue reports
	// their submission as completed.
	inflight []frameResources

	// Programs not yet destroyed; Close releases them.
	programs map[*program]struct{}

	// Set when the context opened its own device.
	instance hal.Instance
	owned    bool
	closed   bool
}

type frameResources struct {
	submission uint64
	bindGroup  hal.BindGroup
	cmdBuf     hal.CommandBuffer
}

// New creates a context on an existing device and queue.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Context, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	c := &Context{
		device: device,
		queue:  queue,
		format: gputypes.TextureFormatBGRA8Unorm,
	}
	for _, opt := range opts {
		opt(c)
	}

	sampler, err := device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "vfilter_frame_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
		LodMaxClamp:  32,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create sampler: %w", err)
	}
	c.sampler = sampler
	return c, nil
}

// NewFromProvider creates a context on the device shared by a host
// application. The provider must expose HAL handles, either through
// HalDevice() any and HalQueue() any or directly from Device and Queue.
// The target format defaults to the provider's surface format.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Context, error) {
	if provider == nil {
		return nil, ErrNoDevice
	}
	device, queue, ok := halFromProvider(provider)
	if !ok {
		return nil, ErrNoHAL
	}

	if format := provider.SurfaceFormat(); format != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithTargetFormat(format)}, opts...)
	}
	c, err := New(device, queue, opts...)
	if err != nil {
		return nil, err
	}
	vfilter.Logger().Info("wgpu: using shared device", "adapter", provider.AdapterInfo().Name)
	return c, nil
}

func halFromProvider(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, bool) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if hp, ok := provider.(halProvider); ok {
		device, dok := hp.HalDevice().(hal.Device)
		queue, qok := hp.HalQueue().(hal.Queue)
		if dok && qok && device != nil && queue != nil {
			return device, queue, true
		}
	}
	device, dok := provider.Device().(hal.Device)
	queue, qok := provider.Queue().(hal.Queue)
	if dok && qok && device != nil && queue != nil {
		return device, queue, true
	}
	return nil, nil, false
}

// Device returns the HAL device.
func (c *Context) Device() hal.Device { return c.device }

// Queue returns the HAL queue.
func (c *Context) Queue() hal.Queue { return c.queue }

// TargetFormat returns the color format programs render to.
func (c *Context) TargetFormat() gputypes.TextureFormat { return c.format }

// Bind selects the source frame view sampled by the pixel kernel and the
// target view the quad is drawn into.
func (c *Context) Bind(source, target hal.TextureView) {
	c.source = source
	c.target = target
}

// Draw renders the bound source into the bound target with p.
func (c *Context) Draw(p vfilter.Program, u vfilter.Uniforms) error {
	if c.closed {
		return ErrContextClosed
	}
	prog, ok := p.(*program)
	if !ok || prog.ctx != c {
		return ErrForeignProgram
	}
	if prog.destroyed {
		return ErrProgramDestroyed
	}
	if c.source == nil || c.target == nil {
		return ErrNotBound
	}

	c.reclaim()

	if err := c.queue.WriteBuffer(prog.uniforms, 0, u.Bytes()); err != nil {
		return fmt.Errorf("wgpu: write uniforms: %w", err)
	}

	bindGroup, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  prog.label + "_bind",
		Layout: prog.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: prog.uniforms.NativeHandle(), Offset: 0, Size: vfilter.UniformSize,
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: c.source.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: c.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group: %w", err)
	}

	cmdBuf, err := c.encode(prog, bindGroup)
	if err != nil {
		c.device.DestroyBindGroup(bindGroup)
		return err
	}

	submission, err := c.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		c.device.FreeCommandBuffer(cmdBuf)
		c.device.DestroyBindGroup(bindGroup)
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	c.inflight = append(c.inflight, frameResources{
		submission: submission,
		bindGroup:  bindGroup,
		cmdBuf:     cmdBuf,
	})

	vfilter.Logger().Debug("wgpu: frame submitted",
		"program", prog.label,
		"submission", submission)
	return nil
}

// encode records the clear-and-draw render pass.
func (c *Context) encode(prog *program, bindGroup hal.BindGroup) (hal.CommandBuffer, error) {
	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: prog.label + "_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(prog.label); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: prog.label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       c.target,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: c.clear,
			},
		},
	})
	rp.SetPipeline(prog.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.Draw(quadVertexCount, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("wgpu: end encoding: %w", err)
	}
	return cmdBuf, nil
}

// reclaim releases per-draw resources of completed submissions.
func (c *Context) reclaim() {
	if len(c.inflight) == 0 {
		return
	}
	completed := c.queue.PollCompleted()
	n := 0
	for _, fr := range c.inflight {
		if fr.submission <= completed {
			c.release(fr)
			continue
		}
		c.inflight[n] = fr
		n++
	}
	c.inflight = c.inflight[:n]
}

func (c *Context) release(fr frameResources) {
	c.device.FreeCommandBuffer(fr.cmdBuf)
	c.device.DestroyBindGroup(fr.bindGroup)
}

// Close waits for the device to go idle and releases the context's
// resources, including programs that were not destroyed. A device opened by
// Open is destroyed as well.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var waitErr error
	if err := c.device.WaitIdle(); err != nil {
		waitErr = fmt.Errorf("wgpu: wait idle: %w", err)
	}
	for _, fr := range c.inflight {
		c.release(fr)
	}
	c.inflight = nil

	for p := range c.programs {
		p.destroyed = true
		p.release()
	}
	c.programs = nil

	if c.sampler != nil {
		c.device.DestroySampler(c.sampler)
		c.sampler = nil
	}
	c.source, c.target = nil, nil

	if c.owned {
		c.device.Destroy()
		if c.instance != nil {
			c.instance.Destroy()
			c.instance = nil
		}
	}
	return waitErr
}
