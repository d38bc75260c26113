//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
)

// Buffer is a committed buffer resource. Upload and readback buffers stay
// mapped for their whole life; Map and Unmap only attach the mapping.
type Buffer struct {
	vireo.BufferState
	device  *Device
	handle  *d3d12.ID3D12Resource
	heap    bufferHeap
	mapped  unsafe.Pointer
	width   uint64
	trackID uint64
}

func (d *Device) createBuffer(desc vireo.BufferDesc, kind vireo.AllocationKind) (*Buffer, error) {
	state, err := vireo.NewBufferState(desc, constantBufferAlignment)
	if err != nil {
		return nil, err
	}
	heap := bufferHeapFor(desc.Type)
	// Constant buffer views cover whole 256 byte blocks.
	width := alignUp(state.Size(), constantBufferAlignment)
	res := d3d12.D3D12_RESOURCE_DESC{
		Dimension:        d3d12.D3D12_RESOURCE_DIMENSION_BUFFER,
		Width:            width,
		Height:           1,
		DepthOrArraySize: 1,
		MipLevels:        1,
		Format:           d3d12.DXGI_FORMAT_UNKNOWN,
		SampleDesc:       d3d12.DXGI_SAMPLE_DESC{Count: 1},
		Layout:           d3d12.D3D12_TEXTURE_LAYOUT_ROW_MAJOR,
		Flags:            heap.flags,
	}
	props := d3d12.D3D12_HEAP_PROPERTIES{Type: heap.heap}
	handle, err := d.handle.CreateCommittedResource(&props, d3d12.D3D12_HEAP_FLAG_NONE, &res, heap.state, nil)
	if err != nil {
		return nil, hresultError("CreateCommittedResource buffer "+desc.Name, err)
	}

	b := &Buffer{
		BufferState: state,
		device:      d,
		handle:      handle,
		heap:        heap,
		width:       width,
	}
	if heap.heap != d3d12.D3D12_HEAP_TYPE_DEFAULT {
		// An empty read range tells the driver the CPU will not read an
		// upload heap; readback heaps are read in full.
		var readRange *d3d12.D3D12_RANGE
		if heap.heap == d3d12.D3D12_HEAP_TYPE_UPLOAD {
			readRange = &d3d12.D3D12_RANGE{}
		}
		ptr, err := handle.Map(0, readRange)
		if err != nil {
			handle.Release()
			return nil, hresultError("ID3D12Resource.Map "+desc.Name, err)
		}
		b.mapped = ptr
	}
	b.trackID = d.tracker.Register(kind, desc.Name, width)
	return b, nil
}

// Map attaches the persistent mapping.
func (b *Buffer) Map() error {
	if err := b.CheckMappable(); err != nil {
		return err
	}
	if b.mapped == nil {
		return fmt.Errorf("directx: buffer %q has no host mapping: %w", b.Name(), vireo.ErrNotHostVisible)
	}
	b.SetMapped(mappedSlice(b.mapped, b.Size()))
	return nil
}

// Unmap detaches the mapping. Upload and readback heaps are coherent.
func (b *Buffer) Unmap() { b.SetMapped(nil) }

// address returns the GPU virtual address of offset.
func (b *Buffer) address(offset uint64) uint64 {
	return b.handle.GetGPUVirtualAddress() + offset
}

// Destroy releases the buffer once the GPU no longer uses it.
func (b *Buffer) Destroy() {
	if b.handle == nil {
		return
	}
	b.SetMapped(nil)
	d, handle, mapped := b.device, b.handle, b.mapped
	b.handle, b.mapped = nil, nil
	d.tracker.Unregister(b.trackID)
	d.release("buffer "+b.Name(), func() {
		if mapped != nil {
			handle.Unmap(0, nil)
		}
		handle.Release()
	})
}

func asBuffer(b vireo.Buffer) (*Buffer, error) {
	db, ok := b.(*Buffer)
	if !ok || db == nil || db.handle == nil {
		return nil, fmt.Errorf("directx: buffer: %w", vireo.ErrDestroyed)
	}
	return db, nil
}

func alignUp(v, alignment uint64) uint64 {
	return (v + alignment - 1) / alignment * alignment
}
