//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
)

// SubmitQueue submits to the command queue of its type. Every submission
// also signals a private fence, which is the queue's lifetime.Timeline for
// deferred releases.
type SubmitQueue struct {
	device    *Device
	native    *nativeQueue
	cmdType   vireo.CommandType
	name      string
	timeline  *d3d12.ID3D12Fence
	submitted atomic.Uint64
}

func (d *Device) createSubmitQueue(t vireo.CommandType, name string) (*SubmitQueue, error) {
	native := d.queues[t]
	if native == nil {
		return nil, fmt.Errorf("directx: no queue for %s", t)
	}
	timeline, err := d.handle.CreateFence(0, d3d12.D3D12_FENCE_FLAG_NONE)
	if err != nil {
		return nil, hresultError("CreateFence "+name+" timeline", err)
	}
	q := &SubmitQueue{device: d, native: native, cmdType: t, name: name, timeline: timeline}
	d.deferred.AddTimeline(q)
	return q, nil
}

func (q *SubmitQueue) Type() vireo.CommandType { return q.cmdType }

// Submitted implements lifetime.Timeline.
func (q *SubmitQueue) Submitted() uint64 { return q.submitted.Load() }

// Completed implements lifetime.Timeline. A lost device reports
// everything complete so pending releases still run.
func (q *SubmitQueue) Completed() uint64 {
	v := q.timeline.GetCompletedValue()
	if v == fenceLost {
		return q.submitted.Load()
	}
	return v
}

// fenceValue is a fence and the value a submission waits for or signals.
type fenceValue struct {
	fence *d3d12.ID3D12Fence
	value uint64
}

// submission accumulates the GPU-side waits and signals around one
// ExecuteCommandLists.
type submission struct {
	waits   []fenceValue
	signals []fenceValue
}

func (s *submission) wait(fence *d3d12.ID3D12Fence, value uint64) {
	s.waits = append(s.waits, fenceValue{fence, value})
}

func (s *submission) signal(fence *d3d12.ID3D12Fence, value uint64) {
	s.signals = append(s.signals, fenceValue{fence, value})
}

// batch is the validated content of one submission.
type batch struct {
	handles []*d3d12.ID3D12GraphicsCommandList
	writes  []hostWrite
}

// commandLists checks that every list is closed and gathers the native
// handles. Submissions call it before reserving any signal value, so a
// rejected submission leaves every fence waitable.
func commandLists(lists []vireo.CommandList) (batch, error) {
	b := batch{handles: make([]*d3d12.ID3D12GraphicsCommandList, len(lists))}
	for i, l := range lists {
		dl, err := asCommandList(l)
		if err != nil {
			return batch{}, err
		}
		b.handles[i] = dl.handle
		b.writes = append(b.writes, dl.writes...)
	}
	return b, nil
}

func (q *SubmitQueue) submit(s *submission, b batch) error {
	q.native.mu.Lock()
	defer q.native.mu.Unlock()

	for _, w := range s.waits {
		if err := q.native.handle.Wait(w.fence, w.value); err != nil {
			return hresultError("ID3D12CommandQueue.Wait "+q.name, err)
		}
	}
	for _, w := range b.writes {
		w.apply()
	}
	if len(b.handles) > 0 {
		q.native.handle.ExecuteCommandLists(uint32(len(b.handles)), &b.handles[0])
	}
	value := q.submitted.Load() + 1
	s.signal(q.timeline, value)
	for _, sig := range s.signals {
		if err := q.native.handle.Signal(sig.fence, sig.value); err != nil {
			q.device.drainMessages()
			return hresultError("ID3D12CommandQueue.Signal "+q.name, err)
		}
	}
	q.submitted.Store(value)
	return nil
}

func (q *SubmitQueue) Submit(lists ...vireo.CommandList) error {
	b, err := commandLists(lists)
	if err != nil {
		return err
	}
	return q.submit(&submission{}, b)
}

func (q *SubmitQueue) SubmitWithFence(fence vireo.Fence, lists ...vireo.CommandList) error {
	f, err := asFence(fence)
	if err != nil {
		return err
	}
	b, err := commandLists(lists)
	if err != nil {
		return err
	}
	sub := &submission{}
	sub.signal(f.handle, f.signalValue())
	return q.submit(sub, b)
}

// SubmitFrame signals the frame fence of the current slot. Flip model
// back buffers need no acquire wait.
func (q *SubmitQueue) SubmitFrame(sc vireo.SwapChain, lists ...vireo.CommandList) error {
	s, err := asSwapChain(sc)
	if err != nil {
		return fmt.Errorf("directx: submit frame: %w", err)
	}
	b, err := commandLists(lists)
	if err != nil {
		return err
	}
	p := s.p
	sub := &submission{}
	sub.signal(p.fence, p.frameValue(s.CurrentFrameIndex()))
	return q.submit(sub, b)
}

// SubmitWithSync waits on every semaphore before executing. A binary
// semaphore signals a fresh value and is waited on at its last one.
// Wait stages have no D3D12 equivalent; queue waits block the whole queue.
func (q *SubmitQueue) SubmitWithSync(sync vireo.SubmitSync, lists ...vireo.CommandList) error {
	waits := make([]*Semaphore, len(sync.Wait))
	for i, w := range sync.Wait {
		sem, err := asSemaphore(w.Semaphore)
		if err != nil {
			return err
		}
		waits[i] = sem
	}
	signals := make([]*Semaphore, len(sync.Signal))
	for i, sig := range sync.Signal {
		sem, err := asSemaphore(sig)
		if err != nil {
			return err
		}
		signals[i] = sem
	}
	var f *Fence
	if sync.Fence != nil {
		var err error
		if f, err = asFence(sync.Fence); err != nil {
			return err
		}
	}
	b, err := commandLists(lists)
	if err != nil {
		return err
	}

	sub := &submission{}
	for _, sem := range waits {
		sub.wait(sem.handle, sem.Value())
	}
	for _, sem := range signals {
		sub.signal(sem.handle, sem.signalValue())
	}
	if f != nil {
		sub.signal(f.handle, f.signalValue())
	}
	return q.submit(sub, b)
}

// WaitIdle blocks until every submission to this queue completed and runs
// the releases that became due.
func (q *SubmitQueue) WaitIdle() error {
	if err := waitFence(q.timeline, q.submitted.Load(), q.name); err != nil {
		return err
	}
	q.device.deferred.Collect()
	q.device.drainMessages()
	return nil
}

// Destroy waits for the queue, then drops its timeline.
func (q *SubmitQueue) Destroy() {
	if q.timeline == nil {
		return
	}
	if err := q.WaitIdle(); err != nil {
		vireo.Logger().Warn("directx: queue wait on destroy failed", "queue", q.name, "err", err)
	}
	q.device.deferred.RemoveTimeline(q)
	q.timeline.Release()
	q.timeline = nil
}

func asFence(f vireo.Fence) (*Fence, error) {
	df, ok := f.(*Fence)
	if !ok || df == nil || df.handle == nil {
		return nil, fmt.Errorf("directx: fence: %w", vireo.ErrDestroyed)
	}
	return df, nil
}

func asSemaphore(s vireo.Semaphore) (*Semaphore, error) {
	ds, ok := s.(*Semaphore)
	if !ok || ds == nil || ds.handle == nil {
		return nil, fmt.Errorf("directx: semaphore: %w", vireo.ErrDestroyed)
	}
	return ds, nil
}
