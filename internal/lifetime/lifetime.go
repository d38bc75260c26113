// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package lifetime defers the release of native objects until the GPU is
// done with them.
//
// Each submit queue exposes a Timeline: a monotonically increasing value
// bumped on every submission and a completed value read back from the
// GPU. Destroying a resource snapshots the submitted value of every
// timeline; the native release runs once every completed value has caught
// up with its snapshot.
package lifetime

import (
	"sync"

	"github.com/gogpu/vireo"
)

// Timeline is the submission counter of one queue.
type Timeline interface {
	// Submitted returns the value signaled by the most recent submission.
	Submitted() uint64

	// Completed returns the highest value the GPU has signaled.
	Completed() uint64
}

type pending struct {
	name    string
	waits   []uint64
	release func()
}

// Deferrer queues releases behind a set of timelines.
//
// Deferrer is safe for concurrent use.
type Deferrer struct {
	mu        sync.Mutex
	timelines []Timeline
	queue     []pending
}

// New returns a deferrer with no timelines. Until a timeline is added
// every release runs on the next Collect.
func New() *Deferrer { return &Deferrer{} }

// AddTimeline registers a queue timeline.
func (d *Deferrer) AddTimeline(t Timeline) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timelines = append(d.timelines, t)
}

// RemoveTimeline unregisters a queue timeline. Releases already waiting on
// it no longer wait for it.
func (d *Deferrer) RemoveTimeline(t Timeline) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, tl := range d.timelines {
		if tl == t {
			d.timelines = append(d.timelines[:i], d.timelines[i+1:]...)
			for j := range d.queue {
				if i < len(d.queue[j].waits) {
					d.queue[j].waits = append(d.queue[j].waits[:i], d.queue[j].waits[i+1:]...)
				}
			}
			return
		}
	}
}

// Defer queues release until the work submitted so far has completed.
func (d *Deferrer) Defer(name string, release func()) {
	if release == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	waits := make([]uint64, len(d.timelines))
	for i, t := range d.timelines {
		waits[i] = t.Submitted()
	}
	d.queue = append(d.queue, pending{name: name, waits: waits, release: release})
}

// Collect runs every release whose timelines have completed and returns
// how many ran. Releases run in the order they were deferred.
func (d *Deferrer) Collect() int {
	d.mu.Lock()
	completed := make([]uint64, len(d.timelines))
	for i, t := range d.timelines {
		completed[i] = t.Completed()
	}
	var due []pending
	kept := d.queue[:0]
	for _, p := range d.queue {
		if p.ready(completed) {
			due = append(due, p)
		} else {
			kept = append(kept, p)
		}
	}
	clear(d.queue[len(kept):])
	d.queue = kept
	d.mu.Unlock()

	for _, p := range due {
		vireo.Logger().Debug("vireo: deferred release", "name", p.name)
		p.release()
	}
	return len(due)
}

func (p pending) ready(completed []uint64) bool {
	for i, w := range p.waits {
		if i < len(completed) && completed[i] < w {
			return false
		}
	}
	return true
}

// Flush runs every queued release regardless of timelines. Callers must
// have waited for the device to go idle.
func (d *Deferrer) Flush() int {
	d.mu.Lock()
	due := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, p := range due {
		p.release()
	}
	return len(due)
}

// Pending returns the number of queued releases.
func (d *Deferrer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}
