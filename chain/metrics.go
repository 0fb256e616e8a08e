// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package chain

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	applies  *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		applies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vfilter_chain_apply_total",
			Help: "Filter applications attempted by the chain.",
		}, []string{"filter"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vfilter_chain_apply_failures_total",
			Help: "Filter applications that returned an error.",
		}, []string{"filter"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vfilter_chain_apply_seconds",
			Help:    "Time spent in a filter's Apply.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"filter"}),
	}

	var err error
	if m.applies, err = register(reg, m.applies); err != nil {
		return nil, err
	}
	if m.failures, err = register(reg, m.failures); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, reusing an identical collector registered by
// another chain.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) observe(filter string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.applies.WithLabelValues(filter).Inc()
	if err != nil {
		m.failures.WithLabelValues(filter).Inc()
	}
	m.duration.WithLabelValues(filter).Observe(d.Seconds())
}
