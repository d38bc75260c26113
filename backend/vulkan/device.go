//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
	"github.com/gogpu/vireo"
	"github.com/gogpu/vireo/internal/lifetime"
	"github.com/gogpu/wgpu/hal/vulkan/memory"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// structureTypePhysicalDeviceVulkan13Features is
// VK_STRUCTURE_TYPE_PHYSICAL_DEVICE_VULKAN_1_3_FEATURES.
const structureTypePhysicalDeviceVulkan13Features vk.StructureType = 53

// Device is the Vulkan logical device together with its memory allocator
// and the deferred release queue shared by every object it creates.
type Device struct {
	handle   vk.Device
	cmds     vk.Commands
	instance *Instance
	physical *PhysicalDevice
	families queueFamilies
	queues   map[uint32]*nativeQueue

	allocator *memory.GpuAllocator
	mappedMu  sync.Mutex
	mapped    map[vk.DeviceMemory]uintptr
	atomSize  uint64

	descriptors *descriptorPool
	deferred    *lifetime.Deferrer
	tracker     *vireo.MemoryTracker

	// Entry points without a vk.Commands wrapper.
	beginRendering unsafe.Pointer
	endRendering   unsafe.Pointer
	pushConstants  unsafe.Pointer
	pushCIF        types.CallInterface

	nameMu  sync.Mutex
	nameBuf []byte
}

// nativeQueue is one VkQueue. Submissions to it are serialized.
type nativeQueue struct {
	mu     sync.Mutex
	handle vk.Queue
	family uint32
}

// QueueFamily returns the queue family serving t.
func (d *Device) QueueFamily(t vireo.CommandType) uint32 { return d.families.forType(t) }

// WaitIdle blocks until the device finished all submitted work.
func (d *Device) WaitIdle() error {
	if r := d.cmds.DeviceWaitIdle(d.handle); r != vk.Success {
		return resultError("vkDeviceWaitIdle", r)
	}
	return nil
}

// queue returns the native queue of a command type.
func (d *Device) queue(t vireo.CommandType) *nativeQueue {
	return d.queues[d.families.forType(t)]
}

// optionalFeatures lists the core features enabled when supported.
func optionalFeatures(supported *vk.PhysicalDeviceFeatures) vk.PhysicalDeviceFeatures {
	on := func(b vk.Bool32) vk.Bool32 {
		if b != 0 {
			return vk.Bool32(vk.True)
		}
		return vk.Bool32(vk.False)
	}
	return vk.PhysicalDeviceFeatures{
		GeometryShader:            on(supported.GeometryShader),
		SamplerAnisotropy:         on(supported.SamplerAnisotropy),
		FillModeNonSolid:          on(supported.FillModeNonSolid),
		TextureCompressionBC:      on(supported.TextureCompressionBC),
		MultiDrawIndirect:         on(supported.MultiDrawIndirect),
		DrawIndirectFirstInstance: on(supported.DrawIndirectFirstInstance),
		IndependentBlend:          on(supported.IndependentBlend),
		DepthBiasClamp:            on(supported.DepthBiasClamp),
	}
}

func newDevice(inst *Instance, pd *PhysicalDevice, tracker *vireo.MemoryTracker) (*Device, error) {
	flags := make([]vk.QueueFlags, len(pd.families))
	for i, f := range pd.families {
		flags[i] = f.QueueFlags
	}
	var canPresent func(uint32) bool
	if inst.surface != 0 {
		canPresent = func(f uint32) bool { return inst.supportsPresent(pd, f) }
	}
	families, err := pickQueueFamilies(flags, canPresent)
	if err != nil {
		return nil, err
	}

	priority := float32(1)
	unique := families.unique()
	queueInfos := make([]vk.DeviceQueueCreateInfo, len(unique))
	for i, f := range unique {
		queueInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: f,
			QueueCount:       1,
			PQueuePriorities: &priority,
		}
	}

	var extensions []string
	if inst.surface != 0 {
		extensions = append(extensions, swapchainExtension)
	}
	extBufs, extPtrs := cStrings(extensions)

	// Vulkan 1.3 feature chain: timeline semaphores from 1.2, dynamic
	// rendering and synchronization2 from 1.3.
	var supported12 vk.PhysicalDeviceVulkan12Features
	supported12.SType = vk.StructureTypePhysicalDeviceVulkan12Features
	if inst.cmds.HasPhysicalDeviceFeatures2() {
		query := vk.PhysicalDeviceFeatures2{
			SType: vk.StructureTypePhysicalDeviceFeatures2,
			PNext: (*uintptr)(unsafe.Pointer(&supported12)),
		}
		inst.cmds.GetPhysicalDeviceFeatures2(pd.handle, &query)
	}
	features13 := vk.PhysicalDeviceVulkan13Features{
		SType:            structureTypePhysicalDeviceVulkan13Features,
		DynamicRendering: vk.Bool32(vk.True),
		Synchronization2: vk.Bool32(vk.True),
	}
	features12 := vk.PhysicalDeviceVulkan12Features{
		SType:                           vk.StructureTypePhysicalDeviceVulkan12Features,
		PNext:                           (*uintptr)(unsafe.Pointer(&features13)),
		TimelineSemaphore:               vk.Bool32(vk.True),
		DescriptorBindingPartiallyBound: supported12.DescriptorBindingPartiallyBound,
	}
	enabled := optionalFeatures(&pd.features)

	info := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		PNext:                   (*uintptr)(unsafe.Pointer(&features12)),
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       &queueInfos[0],
		EnabledExtensionCount:   uint32(len(extPtrs)),
		PpEnabledExtensionNames: ptrArray(extPtrs),
		PEnabledFeatures:        &enabled,
	}

	var handle vk.Device
	r := inst.cmds.CreateDevice(pd.handle, &info, nil, &handle)
	runtime.KeepAlive(extBufs)
	runtime.KeepAlive(&features13)
	if r != vk.Success {
		return nil, resultError("vkCreateDevice", r)
	}

	d := &Device{
		handle:   handle,
		cmds:     inst.cmds,
		instance: inst,
		physical: pd,
		families: families,
		queues:   make(map[uint32]*nativeQueue, len(unique)),
		mapped:   make(map[vk.DeviceMemory]uintptr),
		atomSize: uint64(pd.props.Limits.NonCoherentAtomSize),
		deferred: lifetime.New(),
		tracker:  tracker,
	}
	if d.atomSize == 0 {
		d.atomSize = 256
	}
	if err := d.cmds.LoadDevice(handle); err != nil {
		d.destroyHandle()
		return nil, fmt.Errorf("vulkan: load device commands: %w", err)
	}
	for _, f := range unique {
		q := &nativeQueue{family: f}
		d.cmds.GetDeviceQueue(handle, f, 0, &q.handle)
		d.queues[f] = q
	}
	if err := d.loadProcs(); err != nil {
		d.destroyHandle()
		return nil, err
	}
	if err := d.initAllocator(); err != nil {
		d.destroyHandle()
		return nil, err
	}

	vireo.Logger().Info("vulkan: device created",
		"graphics", families.graphics,
		"compute", families.compute,
		"transfer", families.transfer,
		"present", families.present,
		"anisotropy", enabled.SamplerAnisotropy != 0,
	)
	return d, nil
}

// loadProcs resolves the device entry points vk.Commands does not wrap.
func (d *Device) loadProcs() error {
	d.beginRendering = vk.GetDeviceProcAddr(d.handle, "vkCmdBeginRendering")
	d.endRendering = vk.GetDeviceProcAddr(d.handle, "vkCmdEndRendering")
	d.pushConstants = vk.GetDeviceProcAddr(d.handle, "vkCmdPushConstants")
	if d.beginRendering == nil || d.endRendering == nil {
		return fmt.Errorf("%w: vkCmdBeginRendering", vireo.ErrMissingExtension)
	}
	if d.pushConstants == nil {
		return fmt.Errorf("%w: vkCmdPushConstants", vireo.ErrBackendNotAvailable)
	}
	// void vkCmdPushConstants(VkCommandBuffer, VkPipelineLayout,
	// VkShaderStageFlags, uint32_t offset, uint32_t size, const void*)
	err := ffi.PrepareCallInterface(&d.pushCIF, types.DefaultCall, types.VoidTypeDescriptor,
		[]*types.TypeDescriptor{
			types.UInt64TypeDescriptor,
			types.UInt64TypeDescriptor,
			types.UInt32TypeDescriptor,
			types.UInt32TypeDescriptor,
			types.UInt32TypeDescriptor,
			types.PointerTypeDescriptor,
		})
	if err != nil {
		return fmt.Errorf("vulkan: prepare vkCmdPushConstants: %w", err)
	}
	return nil
}

func (d *Device) initAllocator() error {
	var vkProps vk.PhysicalDeviceMemoryProperties
	d.instance.cmds.GetPhysicalDeviceMemoryProperties(d.physical.handle, &vkProps)

	props := memory.DeviceMemoryProperties{
		MemoryTypes: make([]memory.MemoryType, vkProps.MemoryTypeCount),
		MemoryHeaps: make([]memory.MemoryHeap, vkProps.MemoryHeapCount),
	}
	for i := uint32(0); i < vkProps.MemoryTypeCount; i++ {
		props.MemoryTypes[i] = memory.MemoryType{
			PropertyFlags: vkProps.MemoryTypes[i].PropertyFlags,
			HeapIndex:     vkProps.MemoryTypes[i].HeapIndex,
		}
	}
	for i := uint32(0); i < vkProps.MemoryHeapCount; i++ {
		props.MemoryHeaps[i] = memory.MemoryHeap{
			Size:  uint64(vkProps.MemoryHeaps[i].Size),
			Flags: vkProps.MemoryHeaps[i].Flags,
		}
	}

	allocator, err := memory.NewGpuAllocator(d.handle, &d.cmds, props, 0, memory.DefaultConfig())
	if err != nil {
		return fmt.Errorf("vulkan: memory allocator: %w", err)
	}
	// A freed VkDeviceMemory handle may be recycled by the driver, so its
	// cached mapping must go with it.
	allocator.SetOnFreeCallback(func(mem vk.DeviceMemory) {
		d.mappedMu.Lock()
		delete(d.mapped, mem)
		d.mappedMu.Unlock()
	})
	d.allocator = allocator
	return nil
}

// mapBlock maps the VkDeviceMemory behind block once and points the block
// at its sub-range. Suballocated blocks share one mapping.
func (d *Device) mapBlock(block *memory.MemoryBlock) error {
	d.mappedMu.Lock()
	defer d.mappedMu.Unlock()

	base, ok := d.mapped[block.Memory]
	if !ok {
		var ptr uintptr
		r := d.cmds.MapMemory(d.handle, block.Memory, 0, vk.DeviceSize(vk.WholeSize), 0, uintptr(unsafe.Pointer(&ptr)))
		if r != vk.Success {
			return resultError("vkMapMemory", r)
		}
		if ptr == 0 {
			return fmt.Errorf("vulkan: vkMapMemory returned a null pointer: %w", vireo.ErrOutOfMemory)
		}
		d.mapped[block.Memory] = ptr
		base = ptr
	}
	block.MappedPtr = base + uintptr(block.Offset)
	block.MappedSize = block.Size
	return nil
}

// mappedRange returns the range of block aligned to nonCoherentAtomSize.
func (d *Device) mappedRange(block *memory.MemoryBlock) vk.MappedMemoryRange {
	mask := d.atomSize - 1
	start := block.Offset &^ mask
	end := (block.Offset + block.Size + mask) &^ mask
	return vk.MappedMemoryRange{
		SType:  vk.StructureTypeMappedMemoryRange,
		Memory: block.Memory,
		Offset: vk.DeviceSize(start),
		Size:   vk.DeviceSize(end - start),
	}
}

// invalidate makes GPU writes to non-coherent memory visible to the CPU.
func (d *Device) invalidate(block *memory.MemoryBlock) error {
	if block.IsCoherent {
		return nil
	}
	rng := d.mappedRange(block)
	if r := d.cmds.InvalidateMappedMemoryRanges(d.handle, 1, &rng); r != vk.Success {
		return resultError("vkInvalidateMappedMemoryRanges", r)
	}
	return nil
}

// flush makes CPU writes to non-coherent memory visible to the GPU.
func (d *Device) flush(block *memory.MemoryBlock) error {
	if block.IsCoherent {
		return nil
	}
	rng := d.mappedRange(block)
	if r := d.cmds.FlushMappedMemoryRanges(d.handle, 1, &rng); r != vk.Success {
		return resultError("vkFlushMappedMemoryRanges", r)
	}
	return nil
}

// release defers fn until the GPU finished every submission made so far
// and collects releases that became due.
func (d *Device) release(name string, fn func()) {
	d.deferred.Defer(name, fn)
	d.deferred.Collect()
}

func (d *Device) destroyHandle() {
	if d.handle != 0 {
		d.cmds.DestroyDevice(d.handle, nil)
		d.handle = 0
	}
}

// destroy waits for the device and releases everything it still owns.
func (d *Device) destroy() {
	if d.handle == 0 {
		return
	}
	_ = d.WaitIdle()
	if n := d.deferred.Flush(); n > 0 {
		vireo.Logger().Debug("vulkan: flushed deferred releases", "count", n)
	}
	if d.allocator != nil {
		d.allocator.Destroy()
		d.allocator = nil
	}
	d.destroyHandle()
}
