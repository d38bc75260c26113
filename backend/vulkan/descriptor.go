//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/gogpu/vireo"
	"github.com/gogpu/vireo/internal/descheap"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// allStages is the visibility of every binding.
var allStages = vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit | vk.ShaderStageComputeBit)

// descriptorPool is the device-wide VkDescriptorPool every set comes from.
// The heaps account the descriptor space per kind and give each set a
// stable range for Handle.
type descriptorPool struct {
	mu        sync.Mutex
	handle    vk.DescriptorPool
	resources *descheap.Heap
	samplers  *descheap.Heap
}

func (d *Device) createDescriptorPool(capacity vireo.DescriptorCapacity) (*descriptorPool, error) {
	sizes := []vk.DescriptorPoolSize{
		{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: capacity.Resources},
		{Type: vk.DescriptorTypeUniformBufferDynamic, DescriptorCount: capacity.Resources},
		{Type: vk.DescriptorTypeStorageBuffer, DescriptorCount: capacity.Resources},
		{Type: vk.DescriptorTypeSampledImage, DescriptorCount: capacity.Resources},
		{Type: vk.DescriptorTypeStorageImage, DescriptorCount: capacity.Resources},
		{Type: vk.DescriptorTypeSampler, DescriptorCount: capacity.Samplers},
	}
	info := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       capacity.Resources + capacity.Samplers,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    &sizes[0],
	}
	p := &descriptorPool{
		resources: descheap.New("resources", capacity.Resources, 0, 1),
		samplers:  descheap.New("samplers", capacity.Samplers, 0, 1),
	}
	if r := d.cmds.CreateDescriptorPool(d.handle, &info, nil, &p.handle); r != vk.Success {
		return nil, resultError("vkCreateDescriptorPool", r)
	}
	return p, nil
}

// reserve allocates the slots of a set of l. Bindings may leave gaps, so the
// range covers every index up to the highest binding.
func (p *descriptorPool) reserve(l *DescriptorLayout) (descheap.Range, error) {
	return p.heap(l.IsSamplers()).Alloc(l.Span())
}

func (p *descriptorPool) heap(samplers bool) *descheap.Heap {
	if samplers {
		return p.samplers
	}
	return p.resources
}

func (d *Device) destroyDescriptorPool(p *descriptorPool) {
	if p == nil || p.handle == 0 {
		return
	}
	vireo.Logger().Debug("vulkan: descriptor space", "resources", p.resources.Stats(), "samplers", p.samplers.Stats())
	d.cmds.DestroyDescriptorPool(d.handle, p.handle, nil)
	p.handle = 0
}

// DescriptorLayout is a VkDescriptorSetLayout built from the bindings
// added to it.
type DescriptorLayout struct {
	vireo.DescriptorLayoutState
	device *Device
	handle vk.DescriptorSetLayout
}

func (d *Device) newDescriptorLayout(name string, samplers bool) *DescriptorLayout {
	return &DescriptorLayout{DescriptorLayoutState: vireo.NewDescriptorLayoutState(name, samplers), device: d}
}

// Build creates the native layout. Bindings can no longer be added.
func (l *DescriptorLayout) Build() error {
	if err := l.CheckBuild(); err != nil {
		return err
	}
	bindings := l.Bindings()
	native := make([]vk.DescriptorSetLayoutBinding, len(bindings))
	for i, b := range bindings {
		native[i] = vk.DescriptorSetLayoutBinding{
			Binding:         b.Index,
			DescriptorType:  descriptorTypeMap[b.Type],
			DescriptorCount: b.Count,
			StageFlags:      allStages,
		}
	}
	info := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(native)),
	}
	if len(native) > 0 {
		info.PBindings = &native[0]
	}
	d := l.device
	if r := d.cmds.CreateDescriptorSetLayout(d.handle, &info, nil, &l.handle); r != vk.Success {
		return resultError("vkCreateDescriptorSetLayout "+l.Name(), r)
	}
	runtime.KeepAlive(native)
	d.setObjectName(vk.ObjectTypeDescriptorSetLayout, uint64(l.handle), l.Name())
	l.MarkBuilt()
	return nil
}

func (l *DescriptorLayout) Destroy() {
	if l.handle == 0 {
		return
	}
	d, handle := l.device, l.handle
	l.handle = 0
	d.release("descriptor layout "+l.Name(), func() { d.cmds.DestroyDescriptorSetLayout(d.handle, handle, nil) })
}

// DescriptorSet is a VkDescriptorSet allocated from the device pool.
type DescriptorSet struct {
	layout *DescriptorLayout
	handle vk.DescriptorSet
	span   descheap.Range
	name   string
}

func (d *Device) createDescriptorSet(l *DescriptorLayout, name string) (*DescriptorSet, error) {
	if !l.Built() {
		return nil, fmt.Errorf("%w: %q for set %q", vireo.ErrLayoutNotBuilt, l.Name(), name)
	}
	pool := d.descriptors
	heap := pool.heap(l.IsSamplers())
	span, err := pool.reserve(l)
	if err != nil {
		return nil, fmt.Errorf("vulkan: descriptor set %q: %w", name, err)
	}

	info := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     pool.handle,
		DescriptorSetCount: 1,
		PSetLayouts:        &l.handle,
	}
	var handle vk.DescriptorSet
	pool.mu.Lock()
	r := d.cmds.AllocateDescriptorSets(d.handle, &info, &handle)
	pool.mu.Unlock()
	if r != vk.Success {
		_ = heap.Free(span)
		return nil, resultError("vkAllocateDescriptorSets "+name, r)
	}
	d.setObjectName(vk.ObjectTypeDescriptorSet, uint64(handle), name)
	return &DescriptorSet{layout: l, handle: handle, span: span, name: name}, nil
}

func (s *DescriptorSet) Layout() vireo.DescriptorLayout { return s.layout }

// Handle returns the slot address of index within the device descriptor
// space.
func (s *DescriptorSet) Handle(index uint32) (uint64, error) {
	heap := s.layout.device.descriptors.heap(s.layout.IsSamplers())
	return heap.Handle(s.span, index)
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
	infos := make([]vk.DescriptorBufferInfo, len(bufs))
	for i, buf := range bufs {
		vb, ok := buf.(*Buffer)
		if !ok || vb.handle == 0 {
			return fmt.Errorf("vulkan: set %q slot %d: %w", s.name, index+uint32(i), vireo.ErrDestroyed)
		}
		infos[i] = vk.DescriptorBufferInfo{Buffer: vb.handle, Range: vk.DeviceSize(vk.WholeSize)}
		if b.Type == vireo.DescriptorTypeUniformDynamic {
			infos[i].Range = vk.DeviceSize(vb.InstanceSize())
		}
	}
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          s.handle,
		DstBinding:      b.Index,
		DstArrayElement: elem,
		DescriptorCount: uint32(len(infos)),
		DescriptorType:  descriptorTypeMap[b.Type],
		PBufferInfo:     &infos[0],
	}
	s.write(&write)
	runtime.KeepAlive(infos)
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
	layout := vk.ImageLayoutShaderReadOnlyOptimal
	if b.Type == vireo.DescriptorTypeReadWriteImage {
		layout = vk.ImageLayoutGeneral
	}
	infos := make([]vk.DescriptorImageInfo, len(imgs))
	for i, img := range imgs {
		vi, ok := img.(*Image)
		if !ok || vi.view == 0 {
			return fmt.Errorf("vulkan: set %q slot %d: %w", s.name, index+uint32(i), vireo.ErrDestroyed)
		}
		infos[i] = vk.DescriptorImageInfo{ImageView: vi.view, ImageLayout: layout}
	}
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          s.handle,
		DstBinding:      b.Index,
		DstArrayElement: elem,
		DescriptorCount: uint32(len(infos)),
		DescriptorType:  descriptorTypeMap[b.Type],
		PImageInfo:      &infos[0],
	}
	s.write(&write)
	runtime.KeepAlive(infos)
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
	infos := make([]vk.DescriptorImageInfo, len(ss))
	for i, smp := range ss {
		vs, ok := smp.(*Sampler)
		if !ok || vs.handle == 0 {
			return fmt.Errorf("vulkan: set %q slot %d: %w", s.name, index+uint32(i), vireo.ErrDestroyed)
		}
		infos[i] = vk.DescriptorImageInfo{Sampler: vs.handle}
	}
	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          s.handle,
		DstBinding:      b.Index,
		DstArrayElement: elem,
		DescriptorCount: uint32(len(infos)),
		DescriptorType:  vk.DescriptorTypeSampler,
		PImageInfo:      &infos[0],
	}
	s.write(&write)
	runtime.KeepAlive(infos)
	return nil
}

func (s *DescriptorSet) write(w *vk.WriteDescriptorSet) {
	d := s.layout.device
	d.cmds.UpdateDescriptorSets(d.handle, 1, w, 0, nil)
}

// Destroy returns the set and its descriptor range to the pool once the
// GPU no longer uses it.
func (s *DescriptorSet) Destroy() {
	if s.handle == 0 {
		return
	}
	d, handle, span := s.layout.device, s.handle, s.span
	heap := d.descriptors.heap(s.layout.IsSamplers())
	s.handle = 0
	d.release("descriptor set "+s.name, func() {
		pool := d.descriptors
		pool.mu.Lock()
		_ = d.cmds.FreeDescriptorSets(d.handle, pool.handle, 1, &handle)
		pool.mu.Unlock()
		_ = heap.Free(span)
	})
}
