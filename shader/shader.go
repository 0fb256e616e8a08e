// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader compiles filter kernels written in WGSL.
//
// Kernels are compiled with the pure Go naga compiler: the source is parsed,
// lowered to IR, validated, checked for an entry point of the expected stage
// and finally emitted as SPIR-V words ready for hal.ShaderSource.
package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
)

// Stage identifies the pipeline stage a kernel runs in.
type Stage uint8

const (
	// Vertex is the vertex stage (positions the frame quad).
	Vertex Stage = iota

	// Pixel is the fragment stage (computes output colors).
	Pixel
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Pixel:
		return "pixel"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

func (s Stage) irStage() ir.ShaderStage {
	if s == Pixel {
		return ir.StageFragment
	}
	return ir.StageVertex
}

var (
	// ErrEmptySource is returned when a kernel source is empty.
	ErrEmptySource = errors.New("shader: empty kernel source")

	// ErrMissingEntryPoint is returned when the module has no entry point
	// for the requested stage.
	ErrMissingEntryPoint = errors.New("shader: no entry point for stage")

	// ErrUnknownStage is returned for a Stage other than Vertex or Pixel.
	ErrUnknownStage = errors.New("shader: unknown stage")
)

// Module is a compiled kernel. Modules are immutable once compiled.
type Module struct {
	// Stage is the stage the kernel was compiled for.
	Stage Stage

	// EntryPoint is the name of the first entry point of that stage.
	EntryPoint string

	// Source is the WGSL the module was compiled from.
	Source string

	// SPIRV is the compiled code as little-endian 32-bit words.
	SPIRV []uint32
}

var defaultCache = NewCache(DefaultCacheLimit)

// DefaultCache returns the cache used by Compile.
func DefaultCache() *Cache { return defaultCache }

// Compile compiles a WGSL kernel for the given stage. Results are shared
// through DefaultCache, so the returned Module must not be modified.
func Compile(stage Stage, source string) (*Module, error) {
	return defaultCache.Compile(stage, source)
}

func compile(stage Stage, source string) (*Module, error) {
	if stage != Vertex && stage != Pixel {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStage, stage)
	}
	if source == "" {
		return nil, ErrEmptySource
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("lower: %w", err)
	}

	validationErrors, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	if len(validationErrors) > 0 {
		return nil, fmt.Errorf("validate: %w", validationErrors[0])
	}

	entry := ""
	for i := range module.EntryPoints {
		if module.EntryPoints[i].Stage == stage.irStage() {
			entry = module.EntryPoints[i].Name
			break
		}
	}
	if entry == "" {
		return nil, fmt.Errorf("%w %s", ErrMissingEntryPoint, stage)
	}

	code, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, err
	}

	return &Module{
		Stage:      stage,
		EntryPoint: entry,
		Source:     source,
		SPIRV:      words(code),
	}, nil
}

// words converts SPIR-V bytes to little-endian 32-bit words.
func words(code []byte) []uint32 {
	out := make([]uint32, len(code)/4)
	for i := range out {
		out[i] = uint32(code[i*4]) |
			uint32(code[i*4+1])<<8 |
			uint32(code[i*4+2])<<16 |
			uint32(code[i*4+3])<<24
	}
	return out
}
