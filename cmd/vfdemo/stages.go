// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/gogpu/vfilter"
	"github.com/gogpu/vfilter/backend/software"
)

// stages feeds each draw's output into the next draw by ping-ponging two
// frames. The transform is applied by the first stage only; later stages
// see identity so geometry is not compounded.
type stages struct {
	*software.Context

	input   *vfilter.Frame
	buffers [2]*vfilter.Frame
	last    *vfilter.Frame
	n       int
}

func newStages(ctx *software.Context, input *vfilter.Frame) *stages {
	return &stages{
		Context: ctx,
		input:   input,
		buffers: [2]*vfilter.Frame{
			vfilter.NewFrame(input.Width, input.Height),
			vfilter.NewFrame(input.Width, input.Height),
		},
	}
}

func (s *stages) Draw(p vfilter.Program, u vfilter.Uniforms) error {
	src := s.input
	if s.last != nil {
		src = s.last
		u.Transform = vfilter.Identity4()
	}
	dst := s.buffers[s.n%2]
	if err := s.Bind(src, dst); err != nil {
		return err
	}
	if err := s.Context.Draw(p, u); err != nil {
		return err
	}
	s.last = dst
	s.n++
	return nil
}

// result returns the output of the last successful draw, or the input when
// nothing was drawn.
func (s *stages) result() *vfilter.Frame {
	if s.last == nil {
		return s.input
	}
	return s.last
}
