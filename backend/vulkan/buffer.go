//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/memory"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// Buffer is a VkBuffer bound to a suballocated memory block. Host-visible
// buffers keep their memory persistently mapped; Map and Unmap only attach
// the mapping and handle coherency.
type Buffer struct {
	vireo.BufferState
	device  *Device
	handle  vk.Buffer
	block   *memory.MemoryBlock
	trackID uint64
}

func (d *Device) createBuffer(desc vireo.BufferDesc, kind vireo.AllocationKind) (*Buffer, error) {
	state, err := vireo.NewBufferState(desc, d.physical.limits.MinUniformBufferOffsetAlignment)
	if err != nil {
		return nil, err
	}
	info := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(state.Size()),
		Usage:       bufferUsageToVk(desc.Type),
		SharingMode: vk.SharingModeExclusive,
	}
	var handle vk.Buffer
	if r := d.cmds.CreateBuffer(d.handle, &info, nil, &handle); r != vk.Success {
		return nil, resultError("vkCreateBuffer "+desc.Name, r)
	}

	var reqs vk.MemoryRequirements
	d.cmds.GetBufferMemoryRequirements(d.handle, handle, &reqs)
	usage := bufferMemoryUsage(desc.Type)
	block, err := d.allocator.Alloc(memory.AllocationRequest{
		Size:           uint64(reqs.Size),
		Alignment:      uint64(reqs.Alignment),
		Usage:          usage,
		MemoryTypeBits: reqs.MemoryTypeBits,
	})
	if err != nil {
		d.cmds.DestroyBuffer(d.handle, handle, nil)
		return nil, fmt.Errorf("vulkan: buffer %q memory: %w: %v", desc.Name, vireo.ErrOutOfMemory, err)
	}
	if r := d.cmds.BindBufferMemory(d.handle, handle, block.Memory, vk.DeviceSize(block.Offset)); r != vk.Success {
		_ = d.allocator.Free(block)
		d.cmds.DestroyBuffer(d.handle, handle, nil)
		return nil, resultError("vkBindBufferMemory "+desc.Name, r)
	}
	if usage&memory.UsageHostAccess != 0 {
		if err := d.mapBlock(block); err != nil {
			_ = d.allocator.Free(block)
			d.cmds.DestroyBuffer(d.handle, handle, nil)
			return nil, err
		}
	}
	d.setObjectName(vk.ObjectTypeBuffer, uint64(handle), desc.Name)

	return &Buffer{
		BufferState: state,
		device:      d,
		handle:      handle,
		block:       block,
		trackID:     d.tracker.Register(kind, desc.Name, block.Size),
	}, nil
}

// Map attaches the persistent mapping, invalidating non-coherent memory
// so GPU writes are visible.
func (b *Buffer) Map() error {
	if err := b.CheckMappable(); err != nil {
		return err
	}
	if b.block.MappedPtr == 0 {
		return fmt.Errorf("vulkan: buffer %q has no host mapping: %w", b.Name(), vireo.ErrNotHostVisible)
	}
	if err := b.device.invalidate(b.block); err != nil {
		return err
	}
	b.SetMapped(mappedSlice(b.block.MappedPtr, b.Size()))
	return nil
}

// Unmap flushes non-coherent memory and detaches the mapping.
func (b *Buffer) Unmap() {
	if b.Mapped() == nil {
		return
	}
	if err := b.device.flush(b.block); err != nil {
		vireo.Logger().Warn("vulkan: flush on unmap failed", "buffer", b.Name(), "err", err)
	}
	b.SetMapped(nil)
}

// Destroy releases the buffer once the GPU no longer uses it.
func (b *Buffer) Destroy() {
	if b.handle == 0 {
		return
	}
	b.SetMapped(nil)
	d, handle, block := b.device, b.handle, b.block
	b.handle, b.block = 0, nil
	d.tracker.Unregister(b.trackID)
	d.release("buffer "+b.Name(), func() {
		d.cmds.DestroyBuffer(d.handle, handle, nil)
		_ = d.allocator.Free(block)
	})
}
