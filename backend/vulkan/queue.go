//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// SubmitQueue submits to the native queue of its command type. Every
// submission also signals a private timeline semaphore, which is the
// queue's lifetime.Timeline for deferred releases.
type SubmitQueue struct {
	device    *Device
	native    *nativeQueue
	cmdType   vireo.CommandType
	name      string
	timeline  vk.Semaphore
	submitted atomic.Uint64
}

func (d *Device) createSubmitQueue(t vireo.CommandType, name string) (*SubmitQueue, error) {
	native := d.queue(t)
	if native == nil {
		return nil, fmt.Errorf("vulkan: no queue for %s", t)
	}
	typeInfo := vk.SemaphoreTypeCreateInfo{
		SType:         vk.StructureTypeSemaphoreTypeCreateInfo,
		SemaphoreType: vk.SemaphoreTypeTimeline,
	}
	info := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
		PNext: (*uintptr)(unsafe.Pointer(&typeInfo)),
	}
	q := &SubmitQueue{device: d, native: native, cmdType: t, name: name}
	if r := d.cmds.CreateSemaphore(d.handle, &info, nil, &q.timeline); r != vk.Success {
		return nil, resultError("vkCreateSemaphore "+name+" timeline", r)
	}
	d.setObjectName(vk.ObjectTypeQueue, uint64(native.handle), name)
	d.setObjectName(vk.ObjectTypeSemaphore, uint64(q.timeline), name+" timeline")
	d.deferred.AddTimeline(q)
	return q, nil
}

func (q *SubmitQueue) Type() vireo.CommandType { return q.cmdType }

// Submitted implements lifetime.Timeline.
func (q *SubmitQueue) Submitted() uint64 { return q.submitted.Load() }

// Completed implements lifetime.Timeline.
func (q *SubmitQueue) Completed() uint64 { return q.device.timelineValue(q.timeline) }

// submission accumulates the semaphores and values of one vkQueueSubmit.
type submission struct {
	waits        []vk.Semaphore
	waitStages   []vk.PipelineStageFlags
	waitValues   []uint64
	signals      []vk.Semaphore
	signalValues []uint64
	fence        vk.Fence
}

func (s *submission) wait(sem vk.Semaphore, stage vk.PipelineStageFlags, value uint64) {
	s.waits = append(s.waits, sem)
	s.waitStages = append(s.waitStages, stage)
	s.waitValues = append(s.waitValues, value)
}

func (s *submission) signal(sem vk.Semaphore, value uint64) {
	s.signals = append(s.signals, sem)
	s.signalValues = append(s.signalValues, value)
}

// commandBuffers checks that every list is closed and returns the native
// command buffers.
func commandBuffers(lists []vireo.CommandList) ([]vk.CommandBuffer, error) {
	buffers := make([]vk.CommandBuffer, len(lists))
	for i, l := range lists {
		vl, err := asCommandList(l)
		if err != nil {
			return nil, err
		}
		buffers[i] = vl.handle
	}
	return buffers, nil
}

func (q *SubmitQueue) submit(s *submission, buffers []vk.CommandBuffer) error {
	q.native.mu.Lock()
	defer q.native.mu.Unlock()

	value := q.submitted.Load() + 1
	s.signal(q.timeline, value)

	timeline := vk.TimelineSemaphoreSubmitInfo{
		SType:                     vk.StructureTypeTimelineSemaphoreSubmitInfo,
		WaitSemaphoreValueCount:   uint32(len(s.waitValues)),
		SignalSemaphoreValueCount: uint32(len(s.signalValues)),
		PSignalSemaphoreValues:    &s.signalValues[0],
	}
	info := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		PNext:                (*uintptr)(unsafe.Pointer(&timeline)),
		WaitSemaphoreCount:   uint32(len(s.waits)),
		CommandBufferCount:   uint32(len(buffers)),
		SignalSemaphoreCount: uint32(len(s.signals)),
		PSignalSemaphores:    &s.signals[0],
	}
	if len(s.waits) > 0 {
		timeline.PWaitSemaphoreValues = &s.waitValues[0]
		info.PWaitSemaphores = &s.waits[0]
		info.PWaitDstStageMask = &s.waitStages[0]
	}
	if len(buffers) > 0 {
		info.PCommandBuffers = &buffers[0]
	}
	r := q.device.cmds.QueueSubmit(q.native.handle, 1, &info, s.fence)
	runtime.KeepAlive(buffers)
	runtime.KeepAlive(s)
	if r != vk.Success {
		return resultError("vkQueueSubmit "+q.name, r)
	}
	q.submitted.Store(value)
	return nil
}

func (q *SubmitQueue) Submit(lists ...vireo.CommandList) error {
	buffers, err := commandBuffers(lists)
	if err != nil {
		return err
	}
	return q.submit(&submission{}, buffers)
}

func (q *SubmitQueue) SubmitWithFence(fence vireo.Fence, lists ...vireo.CommandList) error {
	f, err := asFence(fence)
	if err != nil {
		return err
	}
	buffers, err := commandBuffers(lists)
	if err != nil {
		return err
	}
	return q.submit(&submission{fence: f.handle}, buffers)
}

// SubmitFrame waits for the image of the current frame slot, signals the
// image's render-finished semaphore and the slot's in-flight fence.
//
// Acquire already reset the slot fence and armed the image semaphore, so
// rejected lists are replaced by an empty batch carrying the same waits and
// signals. The slot stays usable and the error is returned.
func (q *SubmitQueue) SubmitFrame(sc vireo.SwapChain, lists ...vireo.CommandList) error {
	s, ok := sc.(*SwapChain)
	if !ok || s == nil || s.p.handle == 0 {
		return fmt.Errorf("vulkan: submit frame: swap chain: %w", vireo.ErrDestroyed)
	}
	buffers, listErr := commandBuffers(lists)
	sub := frameSubmission(s.p, s.CurrentFrameIndex(), s.CurrentImageIndex())
	if err := q.submit(sub, buffers); err != nil {
		return errors.Join(listErr, err)
	}
	return listErr
}

// frameSubmission returns the waits and signals of a frame submitted in
// slot for image.
func frameSubmission(p *presenter, slot int, image uint32) *submission {
	sub := &submission{fence: p.inFlight[slot]}
	sub.wait(p.imageAvailable[slot], vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit|vk.PipelineStageTransferBit), 0)
	sub.signal(p.renderFinished[image], 0)
	return sub
}

func (q *SubmitQueue) SubmitWithSync(sync vireo.SubmitSync, lists ...vireo.CommandList) error {
	sub := &submission{}
	for _, w := range sync.Wait {
		sem, err := asSemaphore(w.Semaphore)
		if err != nil {
			return err
		}
		var value uint64
		if sem.semType == vireo.SemaphoreTypeTimeline {
			value = sem.Value()
		}
		sub.wait(sem.handle, waitStageToVk(w.Stage), value)
	}
	for _, sig := range sync.Signal {
		sem, err := asSemaphore(sig)
		if err != nil {
			return err
		}
		var value uint64
		if sem.semType == vireo.SemaphoreTypeTimeline {
			value = sem.Value()
		}
		sub.signal(sem.handle, value)
	}
	if sync.Fence != nil {
		f, err := asFence(sync.Fence)
		if err != nil {
			return err
		}
		sub.fence = f.handle
	}
	buffers, err := commandBuffers(lists)
	if err != nil {
		return err
	}
	return q.submit(sub, buffers)
}

// WaitIdle blocks until every submission to this queue completed and runs
// the releases that became due.
func (q *SubmitQueue) WaitIdle() error {
	q.native.mu.Lock()
	r := q.device.cmds.QueueWaitIdle(q.native.handle)
	q.native.mu.Unlock()
	if r != vk.Success {
		return resultError("vkQueueWaitIdle "+q.name, r)
	}
	q.device.deferred.Collect()
	return nil
}

// Destroy waits for the queue, then drops its timeline.
func (q *SubmitQueue) Destroy() {
	if q.timeline == 0 {
		return
	}
	if err := q.WaitIdle(); err != nil {
		vireo.Logger().Warn("vulkan: queue wait on destroy failed", "queue", q.name, "err", err)
	}
	d := q.device
	d.deferred.RemoveTimeline(q)
	d.cmds.DestroySemaphore(d.handle, q.timeline, nil)
	q.timeline = 0
}

func asFence(f vireo.Fence) (*Fence, error) {
	vf, ok := f.(*Fence)
	if !ok || vf == nil || vf.handle == 0 {
		return nil, fmt.Errorf("vulkan: fence: %w", vireo.ErrDestroyed)
	}
	return vf, nil
}

func asSemaphore(s vireo.Semaphore) (*Semaphore, error) {
	vs, ok := s.(*Semaphore)
	if !ok || vs == nil || vs.handle == 0 {
		return nil, fmt.Errorf("vulkan: semaphore: %w", vireo.ErrDestroyed)
	}
	return vs, nil
}
