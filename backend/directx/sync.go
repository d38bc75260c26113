//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
)

// Fence is an ID3D12Fence with the value that counts as signaled. Every
// submission signaling it moves the target to a fresh value; Reset moves
// it past the last signal so the fence reads unsignaled until the next
// submission.
type Fence struct {
	device *Device
	handle *d3d12.ID3D12Fence
	name   string

	mu     sync.Mutex
	next   uint64
	target uint64
}

func (d *Device) createFence(signaled bool, name string) (*Fence, error) {
	handle, err := d.handle.CreateFence(0, d3d12.D3D12_FENCE_FLAG_NONE)
	if err != nil {
		return nil, hresultError("CreateFence "+name, err)
	}
	f := &Fence{device: d, handle: handle, name: name}
	if !signaled {
		f.target = 1
	}
	return f, nil
}

// signalValue returns the value the next submission signals and makes it
// the target.
func (f *Fence) signalValue() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next = max(f.next, f.target) + 1
	f.target = f.next
	return f.target
}

// Wait blocks until the GPU reached the target.
func (f *Fence) Wait() error {
	f.mu.Lock()
	target := f.target
	f.mu.Unlock()
	return waitFence(f.handle, target, f.name)
}

func (f *Fence) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handle.GetCompletedValue() >= f.target {
		f.target = max(f.next, f.target) + 1
	}
	return nil
}

func (f *Fence) Destroy() {
	if f.handle == nil {
		return
	}
	d, handle := f.device, f.handle
	f.handle = nil
	d.release("fence "+f.name, func() { handle.Release() })
}

// Semaphore is an ID3D12Fence waited on and signaled by queues. A binary
// semaphore moves to a fresh value on every signal and waits on the last
// one.
type Semaphore struct {
	device  *Device
	handle  *d3d12.ID3D12Fence
	semType vireo.SemaphoreType
	value   atomic.Uint64
	name    string
}

func (d *Device) createSemaphore(t vireo.SemaphoreType, name string) (*Semaphore, error) {
	handle, err := d.handle.CreateFence(0, d3d12.D3D12_FENCE_FLAG_NONE)
	if err != nil {
		return nil, hresultError("CreateFence "+name, err)
	}
	return &Semaphore{device: d, handle: handle, semType: t, name: name}, nil
}

func (s *Semaphore) Type() vireo.SemaphoreType { return s.semType }
func (s *Semaphore) Value() uint64             { return s.value.Load() }
func (s *Semaphore) SetValue(v uint64)         { s.value.Store(v) }
func (s *Semaphore) IncrementValue()           { s.value.Add(1) }

// signalValue returns the value a submission signals.
func (s *Semaphore) signalValue() uint64 {
	if s.semType == vireo.SemaphoreTypeBinary {
		return s.value.Add(1)
	}
	return s.value.Load()
}

// Wait blocks until the timeline reached Value.
func (s *Semaphore) Wait() error {
	if s.semType != vireo.SemaphoreTypeTimeline {
		return fmt.Errorf("directx: wait on binary semaphore %q", s.name)
	}
	return waitFence(s.handle, s.Value(), s.name)
}

func (s *Semaphore) Destroy() {
	if s.handle == nil {
		return
	}
	d, handle := s.device, s.handle
	s.handle = nil
	d.release("semaphore "+s.name, func() { handle.Release() })
}
