// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import "fmt"

// Backend identifies a native graphics API implementation.
type Backend int

const (
	// BackendUndefined is the zero value and never names a real backend.
	BackendUndefined Backend = iota
	// BackendDirectX is the Direct3D 12 backend (Windows only).
	BackendDirectX
	// BackendVulkan is the Vulkan backend.
	BackendVulkan
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case BackendUndefined:
		return "undefined"
	case BackendDirectX:
		return "directx"
	case BackendVulkan:
		return "vulkan"
	default:
		return fmt.Sprintf("Unknown(%d)", int(b))
	}
}

// ParseBackend converts a backend name as printed by String back to a
// Backend. "dx12" and "d3d12" are accepted for DirectX, "vk" for Vulkan.
func ParseBackend(name string) (Backend, error) {
	switch name {
	case "directx", "dx12", "d3d12":
		return BackendDirectX, nil
	case "vulkan", "vk":
		return BackendVulkan, nil
	default:
		return BackendUndefined, fmt.Errorf("%w: %q", ErrUnsupportedBackend, name)
	}
}

// CommandType is the category of a command stream and of the queue that
// executes it.
type CommandType int

const (
	CommandTypeGraphic CommandType = iota
	CommandTypeTransfer
	CommandTypeCompute
)

// String returns the command type name.
func (t CommandType) String() string {
	switch t {
	case CommandTypeGraphic:
		return "Graphic"
	case CommandTypeTransfer:
		return "Transfer"
	case CommandTypeCompute:
		return "Compute"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// BufferType selects the usage and memory placement of a Buffer.
type BufferType int

const (
	BufferTypeVertex BufferType = iota
	BufferTypeIndex
	BufferTypeIndirect
	BufferTypeUniform
	BufferTypeStorage
	BufferTypeDeviceStorage
	BufferTypeReadWriteStorage
	BufferTypeBufferUpload
	BufferTypeBufferDownload
	BufferTypeImageUpload
	BufferTypeImageDownload
)

// String returns the buffer type name.
func (t BufferType) String() string {
	switch t {
	case BufferTypeVertex:
		return "Vertex"
	case BufferTypeIndex:
		return "Index"
	case BufferTypeIndirect:
		return "Indirect"
	case BufferTypeUniform:
		return "Uniform"
	case BufferTypeStorage:
		return "Storage"
	case BufferTypeDeviceStorage:
		return "DeviceStorage"
	case BufferTypeReadWriteStorage:
		return "ReadWriteStorage"
	case BufferTypeBufferUpload:
		return "BufferUpload"
	case BufferTypeBufferDownload:
		return "BufferDownload"
	case BufferTypeImageUpload:
		return "ImageUpload"
	case BufferTypeImageDownload:
		return "ImageDownload"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// HostVisible reports whether buffers of this type live in CPU-mappable
// memory. Other types are device local and are filled through staging
// uploads recorded in a CommandList.
func (t BufferType) HostVisible() bool {
	switch t {
	case BufferTypeUniform, BufferTypeStorage,
		BufferTypeBufferUpload, BufferTypeBufferDownload,
		BufferTypeImageUpload, BufferTypeImageDownload:
		return true
	default:
		return false
	}
}

// NeedsAlignment reports whether instances of this buffer type are padded
// to the device minimum offset alignment. Only uniform buffers are.
func (t BufferType) NeedsAlignment() bool { return t == BufferTypeUniform }

// DescriptorType is the kind of resource bound in a descriptor slot.
type DescriptorType int

const (
	DescriptorTypeUniform DescriptorType = iota
	DescriptorTypeUniformDynamic
	DescriptorTypeBuffer
	DescriptorTypeReadWriteBuffer
	DescriptorTypeSampledImage
	DescriptorTypeReadWriteImage
	DescriptorTypeSampler
)

// String returns the descriptor type name.
func (t DescriptorType) String() string {
	switch t {
	case DescriptorTypeUniform:
		return "Uniform"
	case DescriptorTypeUniformDynamic:
		return "UniformDynamic"
	case DescriptorTypeBuffer:
		return "Buffer"
	case DescriptorTypeReadWriteBuffer:
		return "ReadWriteBuffer"
	case DescriptorTypeSampledImage:
		return "SampledImage"
	case DescriptorTypeReadWriteImage:
		return "ReadWriteImage"
	case DescriptorTypeSampler:
		return "Sampler"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// IsBuffer reports whether the slot holds a Buffer.
func (t DescriptorType) IsBuffer() bool {
	switch t {
	case DescriptorTypeUniform, DescriptorTypeUniformDynamic,
		DescriptorTypeBuffer, DescriptorTypeReadWriteBuffer:
		return true
	}
	return false
}

// IsImage reports whether the slot holds an Image or RenderTarget.
func (t DescriptorType) IsImage() bool {
	return t == DescriptorTypeSampledImage || t == DescriptorTypeReadWriteImage
}

// ResourceState is the abstract usage state of a resource. Backends
// translate every value into their native state, layout, access mask and
// pipeline stage.
type ResourceState int

const (
	ResourceStateUndefined ResourceState = iota
	ResourceStateGeneral
	ResourceStateRenderTargetColor
	ResourceStateRenderTargetDepth
	ResourceStateRenderTargetDepthRead
	ResourceStateRenderTargetDepthStencil
	ResourceStateRenderTargetDepthStencilRead
	ResourceStatePresent
	ResourceStateCopySrc
	ResourceStateCopyDst
	ResourceStateShaderRead
	ResourceStateComputeRead
	ResourceStateComputeWrite
	ResourceStateIndirectDraw
	ResourceStateVertexInput
	ResourceStateUniform

	resourceStateCount
)

// ResourceStates lists every abstract state, in declaration order.
func ResourceStates() []ResourceState {
	out := make([]ResourceState, 0, resourceStateCount)
	for s := ResourceStateUndefined; s < resourceStateCount; s++ {
		out = append(out, s)
	}
	return out
}

// String returns the state name.
func (s ResourceState) String() string {
	switch s {
	case ResourceStateUndefined:
		return "Undefined"
	case ResourceStateGeneral:
		return "General"
	case ResourceStateRenderTargetColor:
		return "RenderTargetColor"
	case ResourceStateRenderTargetDepth:
		return "RenderTargetDepth"
	case ResourceStateRenderTargetDepthRead:
		return "RenderTargetDepthRead"
	case ResourceStateRenderTargetDepthStencil:
		return "RenderTargetDepthStencil"
	case ResourceStateRenderTargetDepthStencilRead:
		return "RenderTargetDepthStencilRead"
	case ResourceStatePresent:
		return "Present"
	case ResourceStateCopySrc:
		return "CopySrc"
	case ResourceStateCopyDst:
		return "CopyDst"
	case ResourceStateShaderRead:
		return "ShaderRead"
	case ResourceStateComputeRead:
		return "ComputeRead"
	case ResourceStateComputeWrite:
		return "ComputeWrite"
	case ResourceStateIndirectDraw:
		return "IndirectDraw"
	case ResourceStateVertexInput:
		return "VertexInput"
	case ResourceStateUniform:
		return "Uniform"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// IsDepth reports whether s is one of the depth attachment states.
func (s ResourceState) IsDepth() bool {
	switch s {
	case ResourceStateRenderTargetDepth, ResourceStateRenderTargetDepthRead,
		ResourceStateRenderTargetDepthStencil, ResourceStateRenderTargetDepthStencilRead:
		return true
	}
	return false
}

// PresentMode controls how presented images are synchronized with the
// display refresh.
type PresentMode int

const (
	PresentModeImmediate PresentMode = iota
	PresentModeVSync
)

// String returns the present mode name.
func (m PresentMode) String() string {
	switch m {
	case PresentModeImmediate:
		return "Immediate"
	case PresentModeVSync:
		return "VSync"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// SemaphoreType selects binary or timeline semantics.
type SemaphoreType int

const (
	SemaphoreTypeBinary SemaphoreType = iota
	SemaphoreTypeTimeline
)

// String returns the semaphore type name.
func (t SemaphoreType) String() string {
	switch t {
	case SemaphoreTypeBinary:
		return "Binary"
	case SemaphoreTypeTimeline:
		return "Timeline"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// WaitStage is the pipeline stage at which a submission waits on a
// semaphore.
type WaitStage int

const (
	WaitStagePipelineTop WaitStage = iota
	WaitStageVertexInput
	WaitStageVertexShader
	WaitStageDepthStencilTestBefore
	WaitStageDepthStencilTestAfter
	WaitStageFragmentShader
	WaitStageColorOutput
	WaitStageComputeShader
	WaitStageTransfer
	WaitStagePipelineBottom
	WaitStageAllGraphics
	WaitStageAllCommands
)

// String returns the stage name.
func (s WaitStage) String() string {
	switch s {
	case WaitStagePipelineTop:
		return "PipelineTop"
	case WaitStageVertexInput:
		return "VertexInput"
	case WaitStageVertexShader:
		return "VertexShader"
	case WaitStageDepthStencilTestBefore:
		return "DepthStencilTestBefore"
	case WaitStageDepthStencilTestAfter:
		return "DepthStencilTestAfter"
	case WaitStageFragmentShader:
		return "FragmentShader"
	case WaitStageColorOutput:
		return "ColorOutput"
	case WaitStageComputeShader:
		return "ComputeShader"
	case WaitStageTransfer:
		return "Transfer"
	case WaitStagePipelineBottom:
		return "PipelineBottom"
	case WaitStageAllGraphics:
		return "AllGraphics"
	case WaitStageAllCommands:
		return "AllCommands"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ShaderStage is a bit set of programmable stages.
type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
	ShaderStageCompute

	ShaderStageAll = ShaderStageVertex | ShaderStageFragment | ShaderStageCompute
)

// String returns the stage names joined by "|".
func (s ShaderStage) String() string {
	if s == 0 {
		return "None"
	}
	out := ""
	add := func(name string) {
		if out != "" {
			out += "|"
		}
		out += name
	}
	if s&ShaderStageVertex != 0 {
		add("Vertex")
	}
	if s&ShaderStageFragment != 0 {
		add("Fragment")
	}
	if s&ShaderStageCompute != 0 {
		add("Compute")
	}
	if rest := s &^ ShaderStageAll; rest != 0 {
		add(fmt.Sprintf("Unknown(%d)", uint32(rest)))
	}
	return out
}

// PipelineType distinguishes graphic and compute pipelines.
type PipelineType int

const (
	PipelineTypeGraphic PipelineType = iota
	PipelineTypeCompute
)

// String returns the pipeline type name.
func (t PipelineType) String() string {
	switch t {
	case PipelineTypeGraphic:
		return "Graphic"
	case PipelineTypeCompute:
		return "Compute"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// IndexType is the element type of an index buffer.
type IndexType int

const (
	IndexTypeUint16 IndexType = iota
	IndexTypeUint32
)

// Size returns the byte size of one index.
func (t IndexType) Size() uint32 {
	if t == IndexTypeUint16 {
		return 2
	}
	return 4
}

// RenderTargetType selects color or depth usage of a render target.
type RenderTargetType int

const (
	RenderTargetTypeColor RenderTargetType = iota
	RenderTargetTypeDepth
	RenderTargetTypeDepthStencil
)

// String returns the render target type name.
func (t RenderTargetType) String() string {
	switch t {
	case RenderTargetTypeColor:
		return "Color"
	case RenderTargetTypeDepth:
		return "Depth"
	case RenderTargetTypeDepthStencil:
		return "DepthStencil"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// MSAA is the multisample count.
type MSAA uint32

const (
	MSAANone MSAA = 1
	MSAA2x   MSAA = 2
	MSAA4x   MSAA = 4
	MSAA8x   MSAA = 8
)

// Filter is a texel filtering mode.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// MipMapMode is the filtering between mip levels.
type MipMapMode int

const (
	MipMapModeNearest MipMapMode = iota
	MipMapModeLinear
)

// AddressMode controls sampling outside [0, 1].
type AddressMode int

const (
	AddressModeRepeat AddressMode = iota
	AddressModeMirroredRepeat
	AddressModeClampToEdge
	AddressModeClampToBorder
)

// CompareOp is a depth, stencil or sampler comparison.
type CompareOp int

const (
	CompareOpNever CompareOp = iota
	CompareOpLess
	CompareOpEqual
	CompareOpLessOrEqual
	CompareOpGreater
	CompareOpNotEqual
	CompareOpGreaterOrEqual
	CompareOpAlways
)

// CullMode selects which faces are discarded.
type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

// PolygonMode selects fill or wireframe rasterization.
type PolygonMode int

const (
	PolygonModeFill PolygonMode = iota
	PolygonModeWireframe
)

// PrimitiveTopology is the input assembly topology.
type PrimitiveTopology int

const (
	PrimitiveTopologyPointList PrimitiveTopology = iota
	PrimitiveTopologyLineList
	PrimitiveTopologyLineStrip
	PrimitiveTopologyTriangleList
	PrimitiveTopologyTriangleStrip
)

// BlendFactor is a color blend factor.
type BlendFactor int

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSrcColor
	BlendFactorOneMinusSrcColor
	BlendFactorDstColor
	BlendFactorOneMinusDstColor
	BlendFactorSrcAlpha
	BlendFactorOneMinusSrcAlpha
	BlendFactorDstAlpha
	BlendFactorOneMinusDstAlpha
)

// BlendOp combines source and destination terms.
type BlendOp int

const (
	BlendOpAdd BlendOp = iota
	BlendOpSubtract
	BlendOpReverseSubtract
	BlendOpMin
	BlendOpMax
)

// ColorWriteMask selects written color channels.
type ColorWriteMask uint8

const (
	ColorWriteRed ColorWriteMask = 1 << iota
	ColorWriteGreen
	ColorWriteBlue
	ColorWriteAlpha

	ColorWriteAll = ColorWriteRed | ColorWriteGreen | ColorWriteBlue | ColorWriteAlpha
)

// StencilOp is the action applied to the stencil buffer.
type StencilOp int

const (
	StencilOpKeep StencilOp = iota
	StencilOpZero
	StencilOpReplace
	StencilOpIncrementAndClamp
	StencilOpDecrementAndClamp
	StencilOpInvert
	StencilOpIncrementAndWrap
	StencilOpDecrementAndWrap
)
