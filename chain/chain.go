// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package chain runs a sequence of video filters on one render context.
//
// A Chain owns its filters. Parameter updates may come from any goroutine
// (a capture callback, a UI thread) and are handed to the filters at the
// start of the next Render, on the render-context thread. A filter that
// fails is isolated: its error is logged and returned, and the remaining
// filters still run.
package chain

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/vfilter"
)

// Option configures a Chain.
type Option func(*Chain)

// WithLogger sets the chain's logger. Defaults to vfilter.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(c *Chain) {
		c.logger = l
	}
}

// WithRegisterer enables Prometheus metrics registered with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Chain) {
		c.reg = reg
	}
}

type entry struct {
	filter   vfilter.VideoFilter
	disabled bool
}

// update is a parameter change waiting for the next Render.
type update struct {
	matrix     *vfilter.Matrix4
	dimensions *vfilter.Dimensions
}

// Chain applies filters in insertion order.
type Chain struct {
	entries []*entry
	logger  *slog.Logger
	reg     prometheus.Registerer
	metrics *metrics

	mu      sync.Mutex
	pending update
}

// New creates an empty chain.
func New(opts ...Option) (*Chain, error) {
	c := &Chain{}
	for _, opt := range opts {
		opt(c)
	}
	if c.reg != nil {
		m, err := newMetrics(c.reg)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}
	return c, nil
}

func (c *Chain) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return vfilter.Logger()
}

// Add appends filters to the chain.
func (c *Chain) Add(filters ...vfilter.VideoFilter) {
	for _, f := range filters {
		if f != nil {
			c.entries = append(c.entries, &entry{filter: f})
		}
	}
}

// Filters returns the chain's filters in order.
func (c *Chain) Filters() []vfilter.VideoFilter {
	out := make([]vfilter.VideoFilter, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.filter
	}
	return out
}

// Len returns the number of filters.
func (c *Chain) Len() int { return len(c.entries) }

// Enabled reports whether the i-th filter takes part in Render.
func (c *Chain) Enabled(i int) bool {
	return i >= 0 && i < len(c.entries) && !c.entries[i].disabled
}

// SetMatrix queues a transform for every filter. It is safe to call from
// any goroutine; the last value wins.
func (c *Chain) SetMatrix(m vfilter.Matrix4) error {
	if !m.IsFinite() {
		return vfilter.ErrInvalidMatrix
	}
	c.mu.Lock()
	c.pending.matrix = &m
	c.mu.Unlock()
	return nil
}

// SetDimensions queues frame dimensions for every filter. It is safe to
// call from any goroutine; the last value wins.
func (c *Chain) SetDimensions(w, h float32) error {
	d := vfilter.Dimensions{Width: w, Height: h}
	if !d.Valid() {
		return fmt.Errorf("%w: got %vx%v", vfilter.ErrInvalidDimensions, w, h)
	}
	c.mu.Lock()
	c.pending.dimensions = &d
	c.mu.Unlock()
	return nil
}

func (c *Chain) takePending() update {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := c.pending
	c.pending = update{}
	return u
}

// Initialize initializes every filter on rc. Filters that fail are
// disabled; their errors are returned together.
func (c *Chain) Initialize(rc vfilter.RenderContext) error {
	var result *multierror.Error
	for _, e := range c.entries {
		if err := e.filter.Initialize(rc); err != nil {
			e.disabled = true
			c.log().Warn("chain: filter disabled", "filter", e.filter.Name(), "err", err)
			result = multierror.Append(result, fmt.Errorf("initialize %s: %w", e.filter.Name(), err))
			continue
		}
		e.disabled = false
	}
	c.log().Info("chain: initialized", "filters", len(c.entries))
	return result.ErrorOrNil()
}

// Render hands pending parameter updates to the filters and applies each
// enabled filter in order.
func (c *Chain) Render(rc vfilter.RenderContext) error {
	var result *multierror.Error

	u := c.takePending()
	for _, e := range c.entries {
		if u.matrix != nil {
			if err := e.filter.IncomingMatrix(*u.matrix); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", e.filter.Name(), err))
			}
		}
		if u.dimensions != nil {
			if err := e.filter.ImageDimensions(u.dimensions.Width, u.dimensions.Height); err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", e.filter.Name(), err))
			}
		}
	}

	for _, e := range c.entries {
		if e.disabled {
			continue
		}
		name := e.filter.Name()
		start := time.Now()
		err := e.filter.Apply(rc)
		c.metrics.observe(name, time.Since(start), err)
		if err != nil {
			c.log().Warn("chain: filter failed", "filter", name, "err", err)
			result = multierror.Append(result, fmt.Errorf("apply %s: %w", name, err))
		}
	}
	return result.ErrorOrNil()
}

// Close releases filters that hold render resources.
func (c *Chain) Close() error {
	var result *multierror.Error
	for _, e := range c.entries {
		if cl, ok := e.filter.(io.Closer); ok {
			if err := cl.Close(); err != nil {
				result = multierror.Append(result, fmt.Errorf("close %s: %w", e.filter.Name(), err))
			}
		}
	}
	return result.ErrorOrNil()
}
