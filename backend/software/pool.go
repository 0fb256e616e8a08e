// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// minBandRows keeps bands large enough to amortize scheduling.
const minBandRows = 16

// bandPool processes horizontal bands of a frame on a fixed set of
// goroutines. Each worker owns a queue and steals from the others when it
// runs dry.
type bandPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

func newBandPool(workers int) *bandPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &bandPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), 4)
	}
	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *bandPool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case <-p.done:
			return
		case work := <-own:
			work()
			continue
		default:
		}
		if work := p.steal(id); work != nil {
			work()
			continue
		}
		select {
		case <-p.done:
			return
		case work := <-own:
			work()
		}
	}
}

func (p *bandPool) steal(id int) func() {
	for i := range p.queues {
		if i == id {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// rows splits [0, height) into bands and calls fn for each, returning when
// all bands are done. A closed pool, or a frame too small to split, runs
// fn on the calling goroutine.
func (p *bandPool) rows(height int, fn func(y0, y1 int)) {
	if p == nil || !p.running.Load() || height < 2*minBandRows {
		fn(0, height)
		return
	}

	bands := p.workers
	if n := height / minBandRows; n < bands {
		bands = n
	}
	step := (height + bands - 1) / bands

	var wg sync.WaitGroup
	for i, y0 := 0, 0; y0 < height; i, y0 = i+1, y0+step {
		y1 := min(y0+step, height)
		wg.Add(1)
		work := func() {
			defer wg.Done()
			fn(y0, y1)
		}
		select {
		case p.queues[i%p.workers] <- work:
		case <-p.done:
			work()
		}
	}
	wg.Wait()
}

// close stops the workers. It is safe to call more than once.
func (p *bandPool) close() {
	if p == nil || !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}
