//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/vireo"
	"github.com/gogpu/vireo/internal/descheap"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
)

// DescriptorLayout has no native object in D3D12. Its bindings become a
// descriptor table of every root signature using it.
type DescriptorLayout struct {
	vireo.DescriptorLayoutState
	device *Device
}

func (d *Device) newDescriptorLayout(name string, samplers bool) *DescriptorLayout {
	return &DescriptorLayout{DescriptorLayoutState: vireo.NewDescriptorLayoutState(name, samplers), device: d}
}

func (l *DescriptorLayout) Build() error {
	if err := l.CheckBuild(); err != nil {
		return err
	}
	l.MarkBuilt()
	return nil
}

func (l *DescriptorLayout) Destroy() {}

// ranges returns the descriptor ranges of the table of l bound as set
// space. A range starts at the table offset of its binding index so a
// set addresses slot i of the layout at heap slot i of its range.
func (l *DescriptorLayout) ranges(space uint32) []d3d12.D3D12_DESCRIPTOR_RANGE {
	bindings := l.Bindings()
	out := make([]d3d12.D3D12_DESCRIPTOR_RANGE, len(bindings))
	for i, b := range bindings {
		out[i] = d3d12.D3D12_DESCRIPTOR_RANGE{
			RangeType:                         descriptorRangeMap[b.Type],
			NumDescriptors:                    b.Count,
			BaseShaderRegister:                b.Index,
			RegisterSpace:                     space,
			OffsetInDescriptorsFromTableStart: b.Index,
		}
		// The table of a dynamic set starts at the selected instance view.
		if b.Type == vireo.DescriptorTypeUniformDynamic {
			out[i].NumDescriptors = 1
			out[i].OffsetInDescriptorsFromTableStart = 0
		}
	}
	return out
}

// DescriptorSet is a range of the shader-visible heap of its kind. Sets of
// a dynamic uniform layout hold one constant buffer view per instance of
// the bound buffer; their range is allocated on UpdateBuffer.
type DescriptorSet struct {
	layout *DescriptorLayout
	span   descheap.Range
	stride uint32
	name   string
	live   bool
}

func (d *Device) createDescriptorSet(l *DescriptorLayout, name string) (*DescriptorSet, error) {
	if !l.Built() {
		return nil, fmt.Errorf("%w: %q for set %q", vireo.ErrLayoutNotBuilt, l.Name(), name)
	}
	s := &DescriptorSet{layout: l, name: name, live: true}
	if l.IsDynamicUniform() {
		return s, nil
	}
	span, err := s.heap().slots.Alloc(l.Span())
	if err != nil {
		return nil, fmt.Errorf("directx: descriptor set %q: %w", name, err)
	}
	s.span = span
	return s, nil
}

func (s *DescriptorSet) heap() *descriptorHeap {
	return s.layout.device.descriptors.heap(s.layout.IsSamplers())
}

func (s *DescriptorSet) Layout() vireo.DescriptorLayout { return s.layout }

// Handle returns the GPU descriptor handle of slot index.
func (s *DescriptorSet) Handle(index uint32) (uint64, error) {
	return s.heap().slots.Handle(s.span, index)
}

// table returns the descriptor table start. dynamicOffset selects the
// instance view of a dynamic uniform set.
func (s *DescriptorSet) table(dynamicOffset uint32) (d3d12.D3D12_GPU_DESCRIPTOR_HANDLE, error) {
	if !s.live {
		return d3d12.D3D12_GPU_DESCRIPTOR_HANDLE{}, fmt.Errorf("directx: set %q: %w", s.name, vireo.ErrDestroyed)
	}
	if !s.layout.IsDynamicUniform() {
		return s.heap().gpu(s.span, 0), nil
	}
	if s.span.Count == 0 {
		return d3d12.D3D12_GPU_DESCRIPTOR_HANDLE{}, fmt.Errorf("directx: dynamic set %q has no buffer", s.name)
	}
	instance := dynamicOffset / s.stride
	if dynamicOffset%s.stride != 0 || instance >= s.span.Count {
		return d3d12.D3D12_GPU_DESCRIPTOR_HANDLE{}, fmt.Errorf("directx: set %q: dynamic offset %d: %w",
			s.name, dynamicOffset, vireo.ErrOutOfRange)
	}
	return s.heap().gpu(s.span, instance), nil
}

// bufferSRV is the Buffer member of the SRV description union.
type bufferSRV struct {
	FirstElement        uint64
	NumElements         uint32
	StructureByteStride uint32
	Flags               uint32
}

// bufferUAVDesc mirrors D3D12_UNORDERED_ACCESS_VIEW_DESC with its Buffer
// member, which the bound union type is too small for.
type bufferUAVDesc struct {
	Format               d3d12.DXGI_FORMAT
	ViewDimension        d3d12.D3D12_UAV_DIMENSION
	FirstElement         uint64
	NumElements          uint32
	StructureByteStride  uint32
	CounterOffsetInBytes uint64
	Flags                uint32
	_                    uint32
}

func (s *DescriptorSet) UpdateBuffer(index uint32, buf vireo.Buffer) error {
	return s.UpdateBuffers(index, []vireo.Buffer{buf})
}

func (s *DescriptorSet) UpdateBuffers(index uint32, bufs []vireo.Buffer) error {
	if len(bufs) == 0 {
		return nil
	}
	b, elem, err := s.layout.ResolveBuffers(index, uint32(len(bufs)))
	if err != nil {
		return err
	}
	if b.Type == vireo.DescriptorTypeUniformDynamic {
		db, err := asBuffer(bufs[0])
		if err != nil {
			return fmt.Errorf("directx: set %q slot %d: %w", s.name, index, err)
		}
		return s.writeDynamic(db)
	}
	d := s.layout.device
	for i, buf := range bufs {
		db, err := asBuffer(buf)
		if err != nil {
			return fmt.Errorf("directx: set %q slot %d: %w", s.name, index+uint32(i), err)
		}
		dst := s.heap().cpu(s.span, b.Index+elem+uint32(i))
		switch b.Type {
		case vireo.DescriptorTypeUniform:
			cbv := d3d12.D3D12_CONSTANT_BUFFER_VIEW_DESC{BufferLocation: db.address(0), SizeInBytes: uint32(db.width)}
			d.handle.CreateConstantBufferView(&cbv, dst)
		case vireo.DescriptorTypeBuffer:
			srv := d3d12.D3D12_SHADER_RESOURCE_VIEW_DESC{
				Format:                  d3d12.DXGI_FORMAT_R32_TYPELESS,
				ViewDimension:           d3d12.D3D12_SRV_DIMENSION_BUFFER,
				Shader4ComponentMapping: d3d12.D3D12_DEFAULT_SHADER_4_COMPONENT_MAPPING,
			}
			*(*bufferSRV)(unsafe.Pointer(&srv.Union[0])) = bufferSRV{
				NumElements: uint32(db.width / 4),
				Flags:       bufferSRVFlagRaw,
			}
			d.handle.CreateShaderResourceView(db.handle, &srv, dst)
		case vireo.DescriptorTypeReadWriteBuffer:
			uav := bufferUAVDesc{
				Format:        d3d12.DXGI_FORMAT_R32_TYPELESS,
				ViewDimension: d3d12.D3D12_UAV_DIMENSION_BUFFER,
				NumElements:   uint32(db.width / 4),
				Flags:         bufferUAVFlagRaw,
			}
			d.handle.CreateUnorderedAccessView(db.handle, nil,
				(*d3d12.D3D12_UNORDERED_ACCESS_VIEW_DESC)(unsafe.Pointer(&uav)), dst)
		}
	}
	return nil
}

// writeDynamic replaces the instance views of a dynamic set with one
// constant buffer view per instance of buf.
func (s *DescriptorSet) writeDynamic(buf *Buffer) error {
	heap := s.heap()
	span, err := heap.slots.Alloc(buf.InstanceCount())
	if err != nil {
		return fmt.Errorf("directx: dynamic set %q: %w", s.name, err)
	}
	if s.span.Count > 0 {
		old := s.span
		s.layout.device.release("descriptor set views "+s.name, func() { heap.free(old) })
	}
	s.span = span
	s.stride = buf.InstanceSizeAligned()
	d := s.layout.device
	for i := range buf.InstanceCount() {
		cbv := d3d12.D3D12_CONSTANT_BUFFER_VIEW_DESC{
			BufferLocation: buf.address(uint64(i) * uint64(s.stride)),
			SizeInBytes:    s.stride,
		}
		d.handle.CreateConstantBufferView(&cbv, heap.cpu(span, i))
	}
	return nil
}

func (s *DescriptorSet) UpdateImage(index uint32, img vireo.Image) error {
	return s.UpdateImages(index, []vireo.Image{img})
}

func (s *DescriptorSet) UpdateImages(index uint32, imgs []vireo.Image) error {
	if len(imgs) == 0 {
		return nil
	}
	b, elem, err := s.layout.ResolveImages(index, uint32(len(imgs)))
	if err != nil {
		return err
	}
	d := s.layout.device
	for i, img := range imgs {
		di, err := asImage(img)
		if err != nil {
			return fmt.Errorf("directx: set %q slot %d: %w", s.name, index+uint32(i), err)
		}
		dst := s.heap().cpu(s.span, b.Index+elem+uint32(i))
		if b.Type == vireo.DescriptorTypeReadWriteImage {
			uav := di.uavDesc()
			d.handle.CreateUnorderedAccessView(di.handle, nil, &uav, dst)
			continue
		}
		srv := di.srvDesc()
		d.handle.CreateShaderResourceView(di.handle, &srv, dst)
	}
	return nil
}

func (s *DescriptorSet) UpdateSampler(index uint32, smp vireo.Sampler) error {
	return s.UpdateSamplers(index, []vireo.Sampler{smp})
}

func (s *DescriptorSet) UpdateSamplers(index uint32, ss []vireo.Sampler) error {
	if len(ss) == 0 {
		return nil
	}
	b, elem, err := s.layout.ResolveSamplers(index, uint32(len(ss)))
	if err != nil {
		return err
	}
	d := s.layout.device
	for i, smp := range ss {
		ds, ok := smp.(*Sampler)
		if !ok || ds == nil {
			return fmt.Errorf("directx: set %q slot %d: %w", s.name, index+uint32(i), vireo.ErrDestroyed)
		}
		d.handle.CreateSampler(&ds.native, s.heap().cpu(s.span, b.Index+elem+uint32(i)))
	}
	return nil
}

// Destroy returns the range to the heap once the GPU no longer uses it.
func (s *DescriptorSet) Destroy() {
	if !s.live {
		return
	}
	s.live = false
	heap, span := s.heap(), s.span
	s.span = descheap.Range{}
	s.layout.device.release("descriptor set "+s.name, func() { heap.free(span) })
}
