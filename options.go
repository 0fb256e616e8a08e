// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vfilter

import "log/slog"

// Option configures a filter during creation.
//
// Example:
//
//	f := vfilter.NewBasicBGRA(vfilter.WithLabel("camera"))
type Option func(*options)

// options holds optional configuration for filter creation.
type options struct {
	logger *slog.Logger
	label  string
}

func defaultOptions(name string) options {
	return options{label: name}
}

// WithLogger sets a logger for a single filter instead of the package logger
// returned by Logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithLabel sets the debug label used for backend objects and log records.
// Defaults to the filter name.
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}
