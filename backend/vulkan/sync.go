//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// waitForever is the timeout of waits that only end when the GPU signals.
const waitForever = ^uint64(0)

// Fence is a VkFence.
type Fence struct {
	device *Device
	handle vk.Fence
	name   string
}

func (d *Device) createFence(signaled bool, name string) (*Fence, error) {
	info := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	if signaled {
		info.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var handle vk.Fence
	if r := d.cmds.CreateFence(d.handle, &info, nil, &handle); r != vk.Success {
		return nil, resultError("vkCreateFence "+name, r)
	}
	d.setObjectName(vk.ObjectTypeFence, uint64(handle), name)
	return &Fence{device: d, handle: handle, name: name}, nil
}

// Wait blocks until the fence is signaled. A timeout means the device is
// lost.
func (f *Fence) Wait() error {
	d := f.device
	switch r := d.cmds.WaitForFences(d.handle, 1, &f.handle, vk.Bool32(vk.True), waitForever); r {
	case vk.Success:
		return nil
	case vk.Timeout:
		return fmt.Errorf("vulkan: wait fence %q: %w", f.name, vireo.ErrDeviceLost)
	default:
		return resultError("vkWaitForFences "+f.name, r)
	}
}

func (f *Fence) Reset() error {
	d := f.device
	if r := d.cmds.ResetFences(d.handle, 1, &f.handle); r != vk.Success {
		return resultError("vkResetFences "+f.name, r)
	}
	return nil
}

func (f *Fence) Destroy() {
	if f.handle == 0 {
		return
	}
	d, handle := f.device, f.handle
	f.handle = 0
	d.release("fence "+f.name, func() { d.cmds.DestroyFence(d.handle, handle, nil) })
}

// Semaphore is a binary or timeline VkSemaphore.
type Semaphore struct {
	device  *Device
	handle  vk.Semaphore
	semType vireo.SemaphoreType
	value   atomic.Uint64
	name    string
}

func (d *Device) createSemaphore(t vireo.SemaphoreType, name string) (*Semaphore, error) {
	info := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	typeInfo := vk.SemaphoreTypeCreateInfo{
		SType:         vk.StructureTypeSemaphoreTypeCreateInfo,
		SemaphoreType: vk.SemaphoreTypeTimeline,
	}
	if t == vireo.SemaphoreTypeTimeline {
		info.PNext = (*uintptr)(unsafe.Pointer(&typeInfo))
	}
	var handle vk.Semaphore
	if r := d.cmds.CreateSemaphore(d.handle, &info, nil, &handle); r != vk.Success {
		return nil, resultError("vkCreateSemaphore "+name, r)
	}
	d.setObjectName(vk.ObjectTypeSemaphore, uint64(handle), name)
	return &Semaphore{device: d, handle: handle, semType: t, name: name}, nil
}

func (s *Semaphore) Type() vireo.SemaphoreType { return s.semType }
func (s *Semaphore) Value() uint64             { return s.value.Load() }
func (s *Semaphore) SetValue(v uint64)         { s.value.Store(v) }
func (s *Semaphore) IncrementValue()           { s.value.Add(1) }

// Wait blocks until the timeline reached Value.
func (s *Semaphore) Wait() error {
	if s.semType != vireo.SemaphoreTypeTimeline {
		return fmt.Errorf("vulkan: wait on binary semaphore %q", s.name)
	}
	return s.device.waitTimeline(s.handle, s.Value(), s.name)
}

func (s *Semaphore) Destroy() {
	if s.handle == 0 {
		return
	}
	d, handle := s.device, s.handle
	s.handle = 0
	d.release("semaphore "+s.name, func() { d.cmds.DestroySemaphore(d.handle, handle, nil) })
}

// waitTimeline blocks until the timeline semaphore reached value.
func (d *Device) waitTimeline(sem vk.Semaphore, value uint64, name string) error {
	info := vk.SemaphoreWaitInfo{
		SType:          vk.StructureTypeSemaphoreWaitInfo,
		SemaphoreCount: 1,
		PSemaphores:    &sem,
		PValues:        &value,
	}
	switch r := d.cmds.WaitSemaphores(d.handle, &info, waitForever); r {
	case vk.Success:
		return nil
	case vk.Timeout:
		return fmt.Errorf("vulkan: wait semaphore %q: %w", name, vireo.ErrDeviceLost)
	default:
		return resultError("vkWaitSemaphores "+name, r)
	}
}

// timelineValue returns the value the GPU last signaled.
func (d *Device) timelineValue(sem vk.Semaphore) uint64 {
	var v uint64
	r := d.cmds.GetSemaphoreCounterValue(d.handle, sem, &v)
	return completedValue(v, r)
}

// completedValue maps a counter query to the completed value. On a lost
// device every value reads as completed.
func completedValue(v uint64, r vk.Result) uint64 {
	switch r {
	case vk.Success:
		return v
	case vk.ErrorDeviceLost:
		return ^uint64(0)
	default:
		return 0
	}
}
