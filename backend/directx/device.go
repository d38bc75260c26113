//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/gogpu/vireo"
	"github.com/gogpu/vireo/internal/descheap"
	"github.com/gogpu/vireo/internal/lifetime"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
)

// Capacities of the CPU-only render target and depth-stencil view heaps.
const (
	renderTargetViews = 1024
	depthStencilViews = 256
)

// maxSamplerHeap is the largest shader-visible sampler heap D3D12 allows.
const maxSamplerHeap = 2048

// Strides of the indirect command records.
const (
	drawIndirectStride        = uint32(unsafe.Sizeof(vireo.DrawIndirectCommand{}))
	drawIndexedIndirectStride = uint32(unsafe.Sizeof(vireo.DrawIndexedIndirectCommand{}))
	dispatchIndirectStride    = 12
)

// fenceLost is the value a fence reports after device removal.
const fenceLost = ^uint64(0)

// Device is the D3D12 device with its queues, descriptor heaps and the
// deferred release queue shared by every object it creates.
type Device struct {
	handle   *d3d12.ID3D12Device
	instance *Instance
	physical *PhysicalDevice
	queues   map[vireo.CommandType]*nativeQueue

	descriptors *descriptorPool
	rtvs        *descriptorHeap
	dsvs        *descriptorHeap
	signatures  commandSignatures

	infoQueue *d3d12.ID3D12InfoQueue
	deferred  *lifetime.Deferrer
	tracker   *vireo.MemoryTracker
}

// nativeQueue is one ID3D12CommandQueue. Submissions to it are
// serialized; idle is signaled only by WaitIdle.
type nativeQueue struct {
	mu       sync.Mutex
	handle   *d3d12.ID3D12CommandQueue
	listType d3d12.D3D12_COMMAND_LIST_TYPE
	idle     *d3d12.ID3D12Fence
	value    uint64
}

// commandSignatures are the ExecuteIndirect layouts of the three indirect
// commands.
type commandSignatures struct {
	draw        *d3d12.ID3D12CommandSignature
	drawIndexed *d3d12.ID3D12CommandSignature
	dispatch    *d3d12.ID3D12CommandSignature
}

// QueueFamily returns the D3D12_COMMAND_LIST_TYPE serving t.
func (d *Device) QueueFamily(t vireo.CommandType) uint32 {
	return uint32(commandListTypeMap[t])
}

// WaitIdle blocks until every queue finished its submitted work.
func (d *Device) WaitIdle() error {
	for _, t := range []vireo.CommandType{vireo.CommandTypeGraphic, vireo.CommandTypeCompute, vireo.CommandTypeTransfer} {
		if err := d.queues[t].waitIdle(); err != nil {
			return err
		}
	}
	d.drainMessages()
	return nil
}

func newDevice(inst *Instance, pd *PhysicalDevice, tracker *vireo.MemoryTracker) (*Device, error) {
	handle, err := inst.d3d12Lib.CreateDevice(unsafe.Pointer(pd.adapter), featureLevel)
	if err != nil {
		return nil, hresultError("D3D12CreateDevice", err)
	}
	d := &Device{
		handle:   handle,
		instance: inst,
		physical: pd,
		queues:   make(map[vireo.CommandType]*nativeQueue, 3),
		deferred: lifetime.New(),
		tracker:  tracker,
	}
	for t, lt := range commandListTypeMap {
		q, err := d.createNativeQueue(lt)
		if err != nil {
			d.destroy()
			return nil, err
		}
		d.queues[t] = q
	}
	if d.rtvs, err = d.createDescriptorHeap("render targets", d3d12.D3D12_DESCRIPTOR_HEAP_TYPE_RTV, renderTargetViews, false); err != nil {
		d.destroy()
		return nil, err
	}
	if d.dsvs, err = d.createDescriptorHeap("depth stencils", d3d12.D3D12_DESCRIPTOR_HEAP_TYPE_DSV, depthStencilViews, false); err != nil {
		d.destroy()
		return nil, err
	}
	if err := d.createCommandSignatures(); err != nil {
		d.destroy()
		return nil, err
	}
	if inst.debug {
		d.infoQueue = handle.QueryInfoQueue()
	}

	vireo.Logger().Info("directx: device created",
		"featureLevel", featureLevelRequirement,
		"infoQueue", d.infoQueue != nil,
	)
	return d, nil
}

func (d *Device) createNativeQueue(t d3d12.D3D12_COMMAND_LIST_TYPE) (*nativeQueue, error) {
	desc := d3d12.D3D12_COMMAND_QUEUE_DESC{
		Type:     t,
		Priority: int32(d3d12.D3D12_COMMAND_QUEUE_PRIORITY_NORMAL),
		Flags:    d3d12.D3D12_COMMAND_QUEUE_FLAG_NONE,
	}
	handle, err := d.handle.CreateCommandQueue(&desc)
	if err != nil {
		return nil, hresultError("CreateCommandQueue", err)
	}
	idle, err := d.handle.CreateFence(0, d3d12.D3D12_FENCE_FLAG_NONE)
	if err != nil {
		handle.Release()
		return nil, hresultError("CreateFence", err)
	}
	return &nativeQueue{handle: handle, listType: t, idle: idle}, nil
}

// waitIdle signals the queue's idle fence and waits for it.
func (q *nativeQueue) waitIdle() error {
	q.mu.Lock()
	q.value++
	value := q.value
	err := q.handle.Signal(q.idle, value)
	q.mu.Unlock()
	if err != nil {
		return hresultError("ID3D12CommandQueue.Signal", err)
	}
	return waitFence(q.idle, value, "queue idle")
}

func (q *nativeQueue) destroy() {
	if q.idle != nil {
		q.idle.Release()
		q.idle = nil
	}
	if q.handle != nil {
		q.handle.Release()
		q.handle = nil
	}
}

// waitFence blocks until fence reached value. A fence reporting the
// removed value means the device is lost.
func waitFence(fence *d3d12.ID3D12Fence, value uint64, name string) error {
	completed := fence.GetCompletedValue()
	if completed == fenceLost {
		return fmt.Errorf("directx: wait %q: %w", name, vireo.ErrDeviceLost)
	}
	if completed >= value {
		return nil
	}
	event, err := windows.CreateEvent(nil, 0, 0, nil)
	if err != nil {
		return fmt.Errorf("directx: wait %q: CreateEvent: %w", name, err)
	}
	defer windows.CloseHandle(event)
	if err := fence.SetEventOnCompletion(value, uintptr(event)); err != nil {
		return hresultError("SetEventOnCompletion "+name, err)
	}
	if _, err := windows.WaitForSingleObject(event, windows.INFINITE); err != nil {
		return fmt.Errorf("directx: wait %q: %w", name, err)
	}
	if fence.GetCompletedValue() == fenceLost {
		return fmt.Errorf("directx: wait %q: %w", name, vireo.ErrDeviceLost)
	}
	return nil
}

func (d *Device) createCommandSignatures() error {
	var err error
	if d.signatures.draw, err = d.createCommandSignature(d3d12.D3D12_INDIRECT_ARGUMENT_TYPE_DRAW, drawIndirectStride); err != nil {
		return err
	}
	if d.signatures.drawIndexed, err = d.createCommandSignature(d3d12.D3D12_INDIRECT_ARGUMENT_TYPE_DRAW_INDEXED, drawIndexedIndirectStride); err != nil {
		return err
	}
	// Three uint32 thread group counts.
	if d.signatures.dispatch, err = d.createCommandSignature(d3d12.D3D12_INDIRECT_ARGUMENT_TYPE_DISPATCH, dispatchIndirectStride); err != nil {
		return err
	}
	return nil
}

func (d *Device) createCommandSignature(t d3d12.D3D12_INDIRECT_ARGUMENT_TYPE, stride uint32) (*d3d12.ID3D12CommandSignature, error) {
	arg := d3d12.D3D12_INDIRECT_ARGUMENT_DESC{Type: t}
	desc := d3d12.D3D12_COMMAND_SIGNATURE_DESC{
		ByteStride:       stride,
		NumArgumentDescs: 1,
		ArgumentDescs:    &arg,
	}
	sig, err := d.handle.CreateCommandSignature(&desc, nil)
	if err != nil {
		return nil, hresultError("CreateCommandSignature", err)
	}
	return sig, nil
}

// descriptorHeap is an ID3D12DescriptorHeap whose slots are handed out in
// ranges. Shader-visible heaps address ranges by GPU handle, the others
// by CPU handle.
type descriptorHeap struct {
	heap      *d3d12.ID3D12DescriptorHeap
	slots     *descheap.Heap
	cpuStart  d3d12.D3D12_CPU_DESCRIPTOR_HANDLE
	gpuStart  d3d12.D3D12_GPU_DESCRIPTOR_HANDLE
	increment uint32
}

func (d *Device) createDescriptorHeap(name string, t d3d12.D3D12_DESCRIPTOR_HEAP_TYPE, capacity uint32, shaderVisible bool) (*descriptorHeap, error) {
	desc := d3d12.D3D12_DESCRIPTOR_HEAP_DESC{Type: t, NumDescriptors: capacity}
	if shaderVisible {
		desc.Flags = d3d12.D3D12_DESCRIPTOR_HEAP_FLAG_SHADER_VISIBLE
	}
	heap, err := d.handle.CreateDescriptorHeap(&desc)
	if err != nil {
		return nil, hresultError("CreateDescriptorHeap "+name, err)
	}
	h := &descriptorHeap{
		heap:      heap,
		cpuStart:  heap.GetCPUDescriptorHandleForHeapStart(),
		increment: d.handle.GetDescriptorHandleIncrementSize(t),
	}
	base := uint64(h.cpuStart.Ptr)
	if shaderVisible {
		h.gpuStart = heap.GetGPUDescriptorHandleForHeapStart()
		base = h.gpuStart.Ptr
	}
	h.slots = descheap.New(name, capacity, base, uint64(h.increment))
	return h, nil
}

// cpu returns the CPU handle of slot index of r.
func (h *descriptorHeap) cpu(r descheap.Range, index uint32) d3d12.D3D12_CPU_DESCRIPTOR_HANDLE {
	return h.cpuStart.Offset(int(r.Offset+index), h.increment)
}

// gpu returns the GPU handle of slot index of r.
func (h *descriptorHeap) gpu(r descheap.Range, index uint32) d3d12.D3D12_GPU_DESCRIPTOR_HANDLE {
	return h.gpuStart.Offset(int(r.Offset+index), h.increment)
}

// view allocates a single slot of a CPU-only heap.
func (h *descriptorHeap) view() (descheap.Range, d3d12.D3D12_CPU_DESCRIPTOR_HANDLE, error) {
	r, err := h.slots.Alloc(1)
	if err != nil {
		return r, d3d12.D3D12_CPU_DESCRIPTOR_HANDLE{}, err
	}
	return r, h.cpu(r, 0), nil
}

func (h *descriptorHeap) free(r descheap.Range) {
	if r.Count == 0 {
		return
	}
	if err := h.slots.Free(r); err != nil {
		vireo.Logger().Warn("directx: descriptor free failed", "heap", h.slots.Name(), "err", err)
	}
}

func (h *descriptorHeap) destroy() {
	if h != nil && h.heap != nil {
		h.heap.Release()
		h.heap = nil
	}
}

// descriptorPool holds the two shader-visible heaps every descriptor set
// is a range of.
type descriptorPool struct {
	resources *descriptorHeap
	samplers  *descriptorHeap
}

func (d *Device) createDescriptorPool(capacity vireo.DescriptorCapacity) (*descriptorPool, error) {
	samplers := min(capacity.Samplers, maxSamplerHeap)
	res, err := d.createDescriptorHeap("resources", d3d12.D3D12_DESCRIPTOR_HEAP_TYPE_CBV_SRV_UAV, capacity.Resources, true)
	if err != nil {
		return nil, err
	}
	smp, err := d.createDescriptorHeap("samplers", d3d12.D3D12_DESCRIPTOR_HEAP_TYPE_SAMPLER, samplers, true)
	if err != nil {
		res.destroy()
		return nil, err
	}
	return &descriptorPool{resources: res, samplers: smp}, nil
}

func (p *descriptorPool) heap(samplers bool) *descriptorHeap {
	if samplers {
		return p.samplers
	}
	return p.resources
}

// bind makes both heaps current on a list. Copy lists bind no heaps.
func (p *descriptorPool) bind(list *d3d12.ID3D12GraphicsCommandList) {
	heaps := [2]*d3d12.ID3D12DescriptorHeap{p.resources.heap, p.samplers.heap}
	list.SetDescriptorHeaps(2, &heaps[0])
}

func (d *Device) destroyDescriptorPool(p *descriptorPool) {
	if p == nil {
		return
	}
	vireo.Logger().Debug("directx: descriptor space",
		"resources", p.resources.slots.Stats(),
		"samplers", p.samplers.slots.Stats(),
	)
	p.resources.destroy()
	p.samplers.destroy()
}

// drainMessages forwards the debug layer's stored messages to the logger.
func (d *Device) drainMessages() {
	if d.infoQueue == nil {
		return
	}
	n := d.infoQueue.GetNumStoredMessages()
	for i := uint64(0); i < n; i++ {
		msg := d.infoQueue.GetMessage(i)
		if msg == nil {
			continue
		}
		vireo.Logger().Warn("directx: debug layer", "severity", msg.Severity, "id", msg.ID, "msg", msg.Description())
	}
	if n > 0 {
		d.infoQueue.ClearStoredMessages()
	}
}

// release defers fn until the GPU finished every submission made so far
// and collects releases that became due.
func (d *Device) release(name string, fn func()) {
	d.deferred.Defer(name, fn)
	d.deferred.Collect()
}

// destroy waits for the queues and releases everything the device owns.
func (d *Device) destroy() {
	if d.handle == nil {
		return
	}
	for _, q := range d.queues {
		if q.handle != nil {
			_ = q.waitIdle()
		}
	}
	if n := d.deferred.Flush(); n > 0 {
		vireo.Logger().Debug("directx: flushed deferred releases", "count", n)
	}
	for _, sig := range []*d3d12.ID3D12CommandSignature{d.signatures.draw, d.signatures.drawIndexed, d.signatures.dispatch} {
		if sig != nil {
			sig.Release()
		}
	}
	d.signatures = commandSignatures{}
	d.rtvs.destroy()
	d.dsvs.destroy()
	for _, q := range d.queues {
		q.destroy()
	}
	d.drainMessages()
	if d.infoQueue != nil {
		d.infoQueue.Release()
		d.infoQueue = nil
	}
	d.handle.Release()
	d.handle = nil
}

// mappedSlice views n bytes of mapped memory at ptr.
func mappedSlice(ptr unsafe.Pointer, n uint64) []byte {
	return unsafe.Slice((*byte)(ptr), n)
}
