// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import "github.com/gogpu/gputypes"

// Vireo is the root object of a backend. It owns the instance, the
// selected physical device and the logical device, and creates every other
// object. All Create methods are safe to call from one goroutine at a time;
// descriptor allocation is internally synchronized.
type Vireo interface {
	Backend() Backend
	Instance() Instance
	PhysicalDevice() PhysicalDevice
	Device() Device
	Tracker() *MemoryTracker
	FramesInFlight() int

	CreateSubmitQueue(t CommandType, name string) (SubmitQueue, error)
	CreateFence(signaled bool, name string) (Fence, error)
	CreateSemaphore(t SemaphoreType, name string) (Semaphore, error)
	CreateCommandAllocator(t CommandType) (CommandAllocator, error)
	CreateSwapChain(cfg SwapChainConfig) (SwapChain, error)

	CreateBuffer(desc BufferDesc) (Buffer, error)
	CreateImage(desc ImageDesc) (Image, error)
	CreateRenderTarget(desc RenderTargetDesc) (RenderTarget, error)
	CreateSampler(desc SamplerDesc) (Sampler, error)

	CreateDescriptorLayout(name string) (DescriptorLayout, error)
	CreateSamplerDescriptorLayout(name string) (DescriptorLayout, error)
	CreateDescriptorSet(layout DescriptorLayout, name string) (DescriptorSet, error)

	CreateShaderModule(desc ShaderModuleDesc) (ShaderModule, error)
	CreatePipelineResources(layouts []DescriptorLayout, pushConstants PushConstantsDesc, name string) (PipelineResources, error)
	CreateGraphicPipeline(cfg GraphicPipelineConfig) (Pipeline, error)
	CreateComputePipeline(resources PipelineResources, shader ShaderModule, name string) (Pipeline, error)

	// WaitIdle blocks until every queue is idle and runs all deferred
	// releases.
	WaitIdle() error

	// Destroy waits for the GPU and releases the device, physical device
	// and instance, in that order. Every object created from this Vireo
	// must have been destroyed first.
	Destroy()
}

// Instance is the process-wide native API context.
type Instance interface {
	Backend() Backend
	// Debug reports whether validation layers are active.
	Debug() bool
}

// PhysicalDevice is the GPU selected at creation time.
type PhysicalDevice interface {
	Info() gputypes.AdapterInfo
	Limits() gputypes.Limits
	// Score is the suitability score the device won selection with.
	Score() uint32
}

// Device is the logical device.
type Device interface {
	// QueueFamily returns the native queue family serving t. Backends
	// without queue families return 0.
	QueueFamily(t CommandType) uint32
	// WaitIdle blocks until the device finished all submitted work.
	WaitIdle() error
}

// SubmitQueue executes command lists of one CommandType.
// Submission to a queue is not safe for concurrent use.
type SubmitQueue interface {
	Type() CommandType

	// Submit submits lists without any synchronization primitive.
	Submit(lists ...CommandList) error

	// SubmitWithFence signals fence when the lists completed.
	SubmitWithFence(fence Fence, lists ...CommandList) error

	// SubmitFrame waits on the swap chain's image-available semaphore for
	// the current frame, signals its render-finished semaphore and its
	// in-flight fence.
	SubmitFrame(sc SwapChain, lists ...CommandList) error

	// SubmitWithSync waits on and signals explicit semaphores, for
	// dependency chains between queues.
	SubmitWithSync(sync SubmitSync, lists ...CommandList) error

	// WaitIdle blocks until all work submitted to this queue completed.
	WaitIdle() error

	Destroy()
}

// SemaphoreWait is one semaphore a submission waits on and the stage at
// which it waits. Timeline semaphores wait for their current Value.
type SemaphoreWait struct {
	Semaphore Semaphore
	Stage     WaitStage
}

// SubmitSync describes the semaphores of SubmitWithSync. Timeline
// semaphores in Signal are signaled with their current Value.
type SubmitSync struct {
	Wait   []SemaphoreWait
	Signal []Semaphore
	// Fence is optional.
	Fence Fence
}

// CommandAllocator owns the native memory of the command lists it creates.
type CommandAllocator interface {
	Type() CommandType
	CreateCommandList(name string) (CommandList, error)
	// Reset recycles the memory of every list. No list may be pending.
	Reset() error
	Destroy()
}

// CommandList records GPU work between Begin and End.
//
// Recording operations return ErrNotRecording outside the Recording state.
// Lists from different allocators may be recorded concurrently.
type CommandList interface {
	State() CommandListState

	// Begin enters Recording, resetting the list if it was used before.
	Begin() error
	// End closes the list. It fails with ErrNotOpened if Begin was never
	// called.
	End() error
	// Cleanup frees staging buffers created by uploads. Call it only after
	// the GPU finished executing the list.
	Cleanup()

	// Upload fills dst from data. data is captured when recorded and
	// reaches dst when the list executes.
	Upload(dst Buffer, data []byte) error
	UploadImage(dst Image, data []byte) error
	CopyBuffer(src, dst Buffer, size, srcOffset, dstOffset uint64) error
	CopyBufferToImage(src Buffer, dst Image, mip, layer uint32) error
	CopyImageToBuffer(src Image, dst Buffer, mip, layer uint32) error
	CopyToSwapChain(src Image, dst SwapChain) error

	Barrier(img Image, from, to ResourceState) error
	BarrierSwapChain(sc SwapChain, from, to ResourceState) error
	BarrierBuffer(buf Buffer, from, to ResourceState) error

	BeginRendering(cfg RenderingConfig) error
	EndRendering() error
	SetViewport(vp Viewport) error
	SetScissor(r Rect) error

	BindPipeline(p Pipeline) error
	BindVertexBuffer(buf Buffer, offset uint64) error
	BindVertexBuffers(bufs []Buffer, offsets []uint64) error
	BindIndexBuffer(buf Buffer, t IndexType, offset uint64) error
	BindDescriptors(p Pipeline, sets []DescriptorSet, firstSet uint32) error
	// BindDescriptor binds one set at setIndex. Sets of dynamic uniform
	// layouts take one dynamic offset.
	BindDescriptor(p Pipeline, set DescriptorSet, setIndex uint32, dynamicOffsets ...uint32) error
	PushConstants(resources PipelineResources, stage ShaderStage, data []byte) error

	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) error
	DrawIndirect(buf Buffer, offset uint64, drawCount, stride uint32) error
	DrawIndexedIndirect(buf Buffer, offset uint64, drawCount, stride uint32) error
	Dispatch(x, y, z uint32) error
}

// Buffer is a linear GPU allocation.
type Buffer interface {
	Type() BufferType
	Size() uint64
	InstanceSize() uint32
	InstanceSizeAligned() uint32
	InstanceCount() uint32

	// Map makes the memory CPU writable. Mapping twice fails with
	// ErrAlreadyMapped. Not safe for concurrent use on one buffer.
	Map() error
	Unmap()
	// Mapped returns the mapped memory or nil.
	Mapped() []byte
	// Write copies data into mapped memory. With size WholeSize it expands
	// InstanceCount tightly packed instances to aligned strides; otherwise
	// it copies size bytes at offset.
	Write(data []byte, size, offset uint64) error

	Name() string
	Destroy()
}

// Image is a 2D texture, optionally with mips and array layers.
type Image interface {
	Format() ImageFormat
	Width() uint32
	Height() uint32
	MipLevels() uint32
	ArraySize() uint32
	RowPitch(mip uint32) uint32
	RowLength(mip uint32) uint32
	ImageSize(mip uint32) uint64
	IsReadWrite() bool
	Name() string
	Destroy()
}

// RenderTarget is an image that can be rendered to.
type RenderTarget interface {
	Image() Image
	Type() RenderTargetType
	ClearValue() ClearValue
	Destroy()
}

// Sampler holds texture sampling state.
type Sampler interface {
	Desc() SamplerDesc
	Destroy()
}

// DescriptorLayout declares the bindings of a descriptor set. Bindings are
// added with Add and frozen by Build; Build must precede any set or
// pipeline resources using the layout.
type DescriptorLayout interface {
	Add(index uint32, t DescriptorType, count uint32) error
	Build() error
	Built() bool
	// Capacity is the sum of every count passed to Add.
	Capacity() uint32
	Bindings() []DescriptorBinding
	IsSamplers() bool
	IsDynamicUniform() bool
	Name() string
	Destroy()
}

// DescriptorSet is an allocation of a DescriptorLayout. Updates overwrite
// slots in place and take effect immediately; updating a slot still in use
// by the GPU is a data race the caller must avoid.
type DescriptorSet interface {
	Layout() DescriptorLayout

	UpdateBuffer(index uint32, buf Buffer) error
	UpdateBuffers(index uint32, bufs []Buffer) error
	UpdateImage(index uint32, img Image) error
	UpdateImages(index uint32, imgs []Image) error
	UpdateSampler(index uint32, s Sampler) error
	UpdateSamplers(index uint32, ss []Sampler) error

	// Handle returns the descriptor address of slot index.
	Handle(index uint32) (uint64, error)
	Destroy()
}

// ShaderModule is loaded shader bytecode.
type ShaderModule interface {
	EntryPoint() string
	Destroy()
}

// PipelineResources is the bindable resource signature of pipelines:
// the descriptor layouts, one per set or register space, and an optional
// push-constant range.
type PipelineResources interface {
	Layouts() []DescriptorLayout
	PushConstants() PushConstantsDesc
	Destroy()
}

// Pipeline is a compiled graphic or compute pipeline state object.
type Pipeline interface {
	Type() PipelineType
	Resources() PipelineResources
	Name() string
	Destroy()
}

// SwapChain owns the presentable images of a window and the per-frame
// synchronization of the acquire, submit and present cycle.
type SwapChain interface {
	Extent() Extent
	AspectRatio() float32
	Format() ImageFormat
	FramesInFlight() int
	CurrentFrameIndex() int
	CurrentImageIndex() uint32

	// Acquire waits for the current frame slot's fence, resets it and
	// acquires the next image. It returns false when the swap chain was
	// recreated and the frame must be skipped.
	Acquire() (bool, error)
	// Present presents the acquired image and advances the frame slot.
	Present() error
	// Recreate rebuilds the images if the window extent changed.
	Recreate() error
	// WaitIdle waits for every frame slot's fence.
	WaitIdle() error
	Destroy()
}

// Fence is a CPU-waitable synchronization primitive.
type Fence interface {
	// Wait blocks until the fence is signaled. A fence that never signals
	// means the device is lost.
	Wait() error
	Reset() error
	Destroy()
}

// Semaphore is a GPU-waitable synchronization primitive. Timeline
// semaphores carry a value that submissions wait on and signal and that
// the CPU can wait on.
type Semaphore interface {
	Type() SemaphoreType
	Value() uint64
	SetValue(v uint64)
	IncrementValue()
	// Wait blocks until a timeline semaphore reached Value. Binary
	// semaphores return an error.
	Wait() error
	Destroy()
}
