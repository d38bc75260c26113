// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package framesync implements the swap chain frame protocol shared by the
// backends.
//
// A swap chain owns FramesInFlight slots, each with an in-flight fence and
// a pair of semaphores. Acquire blocks on the fence of the current slot
// until the GPU has finished the frame submitted FramesInFlight frames
// earlier, then asks the native swap chain for the next image. A stale
// swap chain triggers a rebuild and the frame is skipped. Present advances
// the slot cursor.
package framesync

import (
	"fmt"
	"sync"

	"github.com/gogpu/vireo"
)

// Status is the result of a native acquire or present.
type Status int

const (
	// StatusOK means the image was acquired or presented.
	StatusOK Status = iota
	// StatusSuboptimal means the operation succeeded but the swap chain no
	// longer matches the surface exactly.
	StatusSuboptimal
	// StatusOutOfDate means the swap chain can no longer be used.
	StatusOutOfDate
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusSuboptimal:
		return "Suboptimal"
	case StatusOutOfDate:
		return "OutOfDate"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Presenter is the native half of a swap chain.
type Presenter interface {
	// WaitFence blocks until the in-flight fence of slot is signaled.
	WaitFence(slot int) error

	// ResetFence unsignals the in-flight fence of slot.
	ResetFence(slot int) error

	// AcquireImage requests the next presentable image, signaling the
	// image-available semaphore of slot when it is ready.
	AcquireImage(slot int) (uint32, Status, error)

	// PresentImage queues image for presentation after the
	// render-finished semaphore of slot.
	PresentImage(slot int, image uint32) (Status, error)

	// Rebuild destroys and recreates the swap chain images for extent.
	Rebuild(extent vireo.Extent) error

	// WaitIdle blocks until the device has no pending work.
	WaitIdle() error
}

// Loop drives a Presenter through acquire, present and recreate.
type Loop struct {
	mu      sync.Mutex
	p       Presenter
	query   func() vireo.Extent
	frames  int
	slot    int
	image   uint32
	frame   uint64
	extent  vireo.Extent
	rebuilt int
}

// New returns a loop over frames slots whose swap chain was built for
// extent. query reports the current drawable extent of the window.
func New(p Presenter, frames int, extent vireo.Extent, query func() vireo.Extent) (*Loop, error) {
	if frames < 1 || frames > vireo.MaxFramesInFlight {
		return nil, fmt.Errorf("framesync: %d frames in flight, want 1..%d", frames, vireo.MaxFramesInFlight)
	}
	if query == nil {
		query = func() vireo.Extent { return extent }
	}
	return &Loop{p: p, query: query, frames: frames, extent: extent}, nil
}

// FramesInFlight returns the number of slots.
func (l *Loop) FramesInFlight() int { return l.frames }

// CurrentFrameIndex returns the slot of the frame being recorded.
func (l *Loop) CurrentFrameIndex() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.slot
}

// CurrentImageIndex returns the image acquired by the last Acquire.
func (l *Loop) CurrentImageIndex() uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.image
}

// Frame returns the number of frames presented so far.
func (l *Loop) Frame() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame
}

// Extent returns the extent the swap chain images were built for.
func (l *Loop) Extent() vireo.Extent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.extent
}

// Rebuilds returns how many times the swap chain images were rebuilt.
func (l *Loop) Rebuilds() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rebuilt
}

// Acquire waits for the current slot to be free and acquires the next
// image. It returns false when the frame must be skipped because the swap
// chain was stale; the swap chain has been recreated by then.
//
// The fence is reset only once an image was acquired, so a skipped frame
// leaves it signaled for the next attempt.
func (l *Loop) Acquire() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.extent.IsZero() {
		if _, err := l.recreate(false); err != nil {
			return false, err
		}
		if l.extent.IsZero() {
			return false, nil
		}
	}

	if err := l.p.WaitFence(l.slot); err != nil {
		return false, fmt.Errorf("framesync: wait slot %d: %w", l.slot, err)
	}
	image, status, err := l.p.AcquireImage(l.slot)
	if err != nil {
		return false, fmt.Errorf("framesync: acquire slot %d: %w", l.slot, err)
	}
	if status == StatusOutOfDate {
		vireo.Logger().Debug("vireo: swap chain out of date on acquire", "slot", l.slot)
		if _, err := l.recreate(true); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := l.p.ResetFence(l.slot); err != nil {
		return false, fmt.Errorf("framesync: reset slot %d: %w", l.slot, err)
	}
	l.image = image
	return true, nil
}

// Present presents the current image and advances to the next slot. A
// stale or suboptimal result recreates the swap chain.
func (l *Loop) Present() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	status, err := l.p.PresentImage(l.slot, l.image)
	l.slot = (l.slot + 1) % l.frames
	l.frame++
	if err != nil {
		return fmt.Errorf("framesync: present: %w", err)
	}
	if status != StatusOK {
		vireo.Logger().Debug("vireo: swap chain stale on present", "status", status)
		if _, err := l.recreate(status == StatusOutOfDate); err != nil {
			return err
		}
	}
	return nil
}

// Recreate rebuilds the swap chain images if the drawable extent changed.
// It reports whether a rebuild happened. A zero extent, as reported for a
// minimized window, leaves the swap chain untouched.
func (l *Loop) Recreate() (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.recreate(false)
}

func (l *Loop) recreate(force bool) (bool, error) {
	ext := l.query()
	if ext.IsZero() {
		return false, nil
	}
	if ext == l.extent && !force {
		return false, nil
	}
	if err := l.p.WaitIdle(); err != nil {
		return false, fmt.Errorf("framesync: wait idle before recreate: %w", err)
	}
	if err := l.p.Rebuild(ext); err != nil {
		return false, fmt.Errorf("framesync: rebuild %s: %w", ext, err)
	}
	vireo.Logger().Info("vireo: swap chain recreated", "from", l.extent, "to", ext)
	l.extent = ext
	l.rebuilt++
	return true, nil
}

// WaitIdle blocks until every slot's fence is signaled.
func (l *Loop) WaitIdle() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for slot := 0; slot < l.frames; slot++ {
		if err := l.p.WaitFence(slot); err != nil {
			return fmt.Errorf("framesync: wait slot %d: %w", slot, err)
		}
	}
	return nil
}
