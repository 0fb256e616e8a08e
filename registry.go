// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vfilter

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a new, uninitialized filter.
type Factory func(opts ...Option) VideoFilter

// registry holds registered filter factories.
var (
	registryMu sync.RWMutex
	factories  = map[string]Factory{
		NameBGRA:      func(opts ...Option) VideoFilter { return NewBasicBGRA(opts...) },
		NameGrayscale: func(opts ...Option) VideoFilter { return NewGrayscale(opts...) },
		NameInvert:    func(opts ...Option) VideoFilter { return NewInvert(opts...) },
		NameSepia:     func(opts ...Option) VideoFilter { return NewSepia(opts...) },
	}
)

// Register registers a filter factory with the given name.
// If a filter with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a filter from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the sorted names of all registered filters.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a filter with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// New creates a filter by registry name.
func New(name string, opts ...Option) (VideoFilter, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	return factory(opts...), nil
}
