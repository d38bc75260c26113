//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
)

// Alignments of D3D12 buffer/texture copies.
const (
	textureDataPitchAlignment     = 256
	textureDataPlacementAlignment = 512
	constantBufferAlignment       = 256
)

// Raw buffer view flags, absent from the bindings.
const (
	bufferSRVFlagRaw = 1
	bufferUAVFlagRaw = 1
)

var imageFormatMap = map[vireo.ImageFormat]d3d12.DXGI_FORMAT{
	vireo.ImageFormatR8Unorm: d3d12.DXGI_FORMAT_R8_UNORM,
	vireo.ImageFormatR8Snorm: d3d12.DXGI_FORMAT_R8_SNORM,
	vireo.ImageFormatR8Uint:  d3d12.DXGI_FORMAT_R8_UINT,
	vireo.ImageFormatR8Sint:  d3d12.DXGI_FORMAT_R8_SINT,

	vireo.ImageFormatR8G8Unorm: d3d12.DXGI_FORMAT_R8G8_UNORM,
	vireo.ImageFormatR8G8Snorm: d3d12.DXGI_FORMAT_R8G8_SNORM,
	vireo.ImageFormatR8G8Uint:  d3d12.DXGI_FORMAT_R8G8_UINT,
	vireo.ImageFormatR8G8Sint:  d3d12.DXGI_FORMAT_R8G8_SINT,

	vireo.ImageFormatR8G8B8A8Unorm: d3d12.DXGI_FORMAT_R8G8B8A8_UNORM,
	vireo.ImageFormatR8G8B8A8Snorm: d3d12.DXGI_FORMAT_R8G8B8A8_SNORM,
	vireo.ImageFormatR8G8B8A8Uint:  d3d12.DXGI_FORMAT_R8G8B8A8_UINT,
	vireo.ImageFormatR8G8B8A8Sint:  d3d12.DXGI_FORMAT_R8G8B8A8_SINT,
	vireo.ImageFormatR8G8B8A8Srgb:  d3d12.DXGI_FORMAT_R8G8B8A8_UNORM_SRGB,

	vireo.ImageFormatB8G8R8A8Unorm: d3d12.DXGI_FORMAT_B8G8R8A8_UNORM,
	vireo.ImageFormatB8G8R8A8Srgb:  d3d12.DXGI_FORMAT_B8G8R8A8_UNORM_SRGB,
	vireo.ImageFormatB8G8R8X8Unorm: d3d12.DXGI_FORMAT_B8G8R8X8_UNORM,
	vireo.ImageFormatB8G8R8X8Srgb:  d3d12.DXGI_FORMAT_B8G8R8X8_UNORM_SRGB,

	vireo.ImageFormatA2B10G10R10Unorm: d3d12.DXGI_FORMAT_R10G10B10A2_UNORM,
	vireo.ImageFormatA2B10G10R10Uint:  d3d12.DXGI_FORMAT_R10G10B10A2_UINT,

	vireo.ImageFormatR16Unorm:  d3d12.DXGI_FORMAT_R16_UNORM,
	vireo.ImageFormatR16Snorm:  d3d12.DXGI_FORMAT_R16_SNORM,
	vireo.ImageFormatR16Uint:   d3d12.DXGI_FORMAT_R16_UINT,
	vireo.ImageFormatR16Sint:   d3d12.DXGI_FORMAT_R16_SINT,
	vireo.ImageFormatR16Sfloat: d3d12.DXGI_FORMAT_R16_FLOAT,

	vireo.ImageFormatR16G16Unorm:  d3d12.DXGI_FORMAT_R16G16_UNORM,
	vireo.ImageFormatR16G16Snorm:  d3d12.DXGI_FORMAT_R16G16_SNORM,
	vireo.ImageFormatR16G16Uint:   d3d12.DXGI_FORMAT_R16G16_UINT,
	vireo.ImageFormatR16G16Sint:   d3d12.DXGI_FORMAT_R16G16_SINT,
	vireo.ImageFormatR16G16Sfloat: d3d12.DXGI_FORMAT_R16G16_FLOAT,

	vireo.ImageFormatR16G16B16A16Unorm:  d3d12.DXGI_FORMAT_R16G16B16A16_UNORM,
	vireo.ImageFormatR16G16B16A16Snorm:  d3d12.DXGI_FORMAT_R16G16B16A16_SNORM,
	vireo.ImageFormatR16G16B16A16Uint:   d3d12.DXGI_FORMAT_R16G16B16A16_UINT,
	vireo.ImageFormatR16G16B16A16Sint:   d3d12.DXGI_FORMAT_R16G16B16A16_SINT,
	vireo.ImageFormatR16G16B16A16Sfloat: d3d12.DXGI_FORMAT_R16G16B16A16_FLOAT,

	vireo.ImageFormatR32Uint:   d3d12.DXGI_FORMAT_R32_UINT,
	vireo.ImageFormatR32Sint:   d3d12.DXGI_FORMAT_R32_SINT,
	vireo.ImageFormatR32Sfloat: d3d12.DXGI_FORMAT_R32_FLOAT,

	vireo.ImageFormatR32G32Uint:   d3d12.DXGI_FORMAT_R32G32_UINT,
	vireo.ImageFormatR32G32Sint:   d3d12.DXGI_FORMAT_R32G32_SINT,
	vireo.ImageFormatR32G32Sfloat: d3d12.DXGI_FORMAT_R32G32_FLOAT,

	vireo.ImageFormatR32G32B32Uint:   d3d12.DXGI_FORMAT_R32G32B32_UINT,
	vireo.ImageFormatR32G32B32Sint:   d3d12.DXGI_FORMAT_R32G32B32_SINT,
	vireo.ImageFormatR32G32B32Sfloat: d3d12.DXGI_FORMAT_R32G32B32_FLOAT,

	vireo.ImageFormatR32G32B32A32Uint:   d3d12.DXGI_FORMAT_R32G32B32A32_UINT,
	vireo.ImageFormatR32G32B32A32Sint:   d3d12.DXGI_FORMAT_R32G32B32A32_SINT,
	vireo.ImageFormatR32G32B32A32Sfloat: d3d12.DXGI_FORMAT_R32G32B32A32_FLOAT,

	vireo.ImageFormatD16Unorm:        d3d12.DXGI_FORMAT_D16_UNORM,
	vireo.ImageFormatD24UnormS8Uint:  d3d12.DXGI_FORMAT_D24_UNORM_S8_UINT,
	vireo.ImageFormatD32Sfloat:       d3d12.DXGI_FORMAT_D32_FLOAT,
	vireo.ImageFormatD32SfloatS8Uint: d3d12.DXGI_FORMAT_D32_FLOAT_S8X24_UINT,

	vireo.ImageFormatBC1Unorm:     d3d12.DXGI_FORMAT_BC1_UNORM,
	vireo.ImageFormatBC1UnormSrgb: d3d12.DXGI_FORMAT_BC1_UNORM_SRGB,
	vireo.ImageFormatBC2Unorm:     d3d12.DXGI_FORMAT_BC2_UNORM,
	vireo.ImageFormatBC2UnormSrgb: d3d12.DXGI_FORMAT_BC2_UNORM_SRGB,
	vireo.ImageFormatBC3Unorm:     d3d12.DXGI_FORMAT_BC3_UNORM,
	vireo.ImageFormatBC3UnormSrgb: d3d12.DXGI_FORMAT_BC3_UNORM_SRGB,
	vireo.ImageFormatBC4Unorm:     d3d12.DXGI_FORMAT_BC4_UNORM,
	vireo.ImageFormatBC4Snorm:     d3d12.DXGI_FORMAT_BC4_SNORM,
	vireo.ImageFormatBC5Unorm:     d3d12.DXGI_FORMAT_BC5_UNORM,
	vireo.ImageFormatBC5Snorm:     d3d12.DXGI_FORMAT_BC5_SNORM,
	vireo.ImageFormatBC6HUfloat:   d3d12.DXGI_FORMAT_BC6H_UF16,
	vireo.ImageFormatBC6HSfloat:   d3d12.DXGI_FORMAT_BC6H_SF16,
	vireo.ImageFormatBC7Unorm:     d3d12.DXGI_FORMAT_BC7_UNORM,
	vireo.ImageFormatBC7UnormSrgb: d3d12.DXGI_FORMAT_BC7_UNORM_SRGB,
}

// imageFormatToDX converts an image format, returning DXGI_FORMAT_UNKNOWN
// for unknown values.
func imageFormatToDX(f vireo.ImageFormat) d3d12.DXGI_FORMAT {
	if df, ok := imageFormatMap[f]; ok {
		return df
	}
	return d3d12.DXGI_FORMAT_UNKNOWN
}

// depthFormats are the three faces of a sampleable depth format: the
// typeless resource format, the depth-stencil view format and the shader
// resource view format.
type depthFormats struct {
	resource d3d12.DXGI_FORMAT
	dsv      d3d12.DXGI_FORMAT
	srv      d3d12.DXGI_FORMAT
}

var depthFormatMap = map[vireo.ImageFormat]depthFormats{
	vireo.ImageFormatD16Unorm: {
		resource: d3d12.DXGI_FORMAT_R16_TYPELESS,
		dsv:      d3d12.DXGI_FORMAT_D16_UNORM,
		srv:      d3d12.DXGI_FORMAT_R16_UNORM,
	},
	vireo.ImageFormatD24UnormS8Uint: {
		resource: d3d12.DXGI_FORMAT_R24G8_TYPELESS,
		dsv:      d3d12.DXGI_FORMAT_D24_UNORM_S8_UINT,
		srv:      d3d12.DXGI_FORMAT_R24_UNORM_X8_TYPELESS,
	},
	vireo.ImageFormatD32Sfloat: {
		resource: d3d12.DXGI_FORMAT_R32_TYPELESS,
		dsv:      d3d12.DXGI_FORMAT_D32_FLOAT,
		srv:      d3d12.DXGI_FORMAT_R32_FLOAT,
	},
	vireo.ImageFormatD32SfloatS8Uint: {
		resource: d3d12.DXGI_FORMAT_R32G8X24_TYPELESS,
		dsv:      d3d12.DXGI_FORMAT_D32_FLOAT_S8X24_UINT,
		srv:      d3d12.DXGI_FORMAT_R32_FLOAT_X8X24_TYPELESS,
	},
}

// viewFormats returns the resource, render/depth view and shader view
// formats of f. Color formats use one format for all three.
func viewFormats(f vireo.ImageFormat) depthFormats {
	if df, ok := depthFormatMap[f]; ok {
		return df
	}
	native := imageFormatToDX(f)
	return depthFormats{resource: native, dsv: native, srv: native}
}

// resourceStateMap translates every vireo.ResourceState.
var resourceStateMap = map[vireo.ResourceState]d3d12.D3D12_RESOURCE_STATES{
	vireo.ResourceStateUndefined:                d3d12.D3D12_RESOURCE_STATE_COMMON,
	vireo.ResourceStateGeneral:                  d3d12.D3D12_RESOURCE_STATE_COMMON,
	vireo.ResourceStateRenderTargetColor:        d3d12.D3D12_RESOURCE_STATE_RENDER_TARGET,
	vireo.ResourceStateRenderTargetDepth:        d3d12.D3D12_RESOURCE_STATE_DEPTH_WRITE,
	vireo.ResourceStateRenderTargetDepthRead:    d3d12.D3D12_RESOURCE_STATE_DEPTH_READ | d3d12.D3D12_RESOURCE_STATE_ALL_SHADER_RESOURCE,
	vireo.ResourceStateRenderTargetDepthStencil: d3d12.D3D12_RESOURCE_STATE_DEPTH_WRITE,
	vireo.ResourceStateRenderTargetDepthStencilRead: d3d12.D3D12_RESOURCE_STATE_DEPTH_READ |
		d3d12.D3D12_RESOURCE_STATE_ALL_SHADER_RESOURCE,
	vireo.ResourceStatePresent:      d3d12.D3D12_RESOURCE_STATE_PRESENT,
	vireo.ResourceStateCopySrc:      d3d12.D3D12_RESOURCE_STATE_COPY_SOURCE,
	vireo.ResourceStateCopyDst:      d3d12.D3D12_RESOURCE_STATE_COPY_DEST,
	vireo.ResourceStateShaderRead:   d3d12.D3D12_RESOURCE_STATE_ALL_SHADER_RESOURCE,
	vireo.ResourceStateComputeRead:  d3d12.D3D12_RESOURCE_STATE_NON_PIXEL_SHADER_RESOURCE,
	vireo.ResourceStateComputeWrite: d3d12.D3D12_RESOURCE_STATE_UNORDERED_ACCESS,
	vireo.ResourceStateIndirectDraw: d3d12.D3D12_RESOURCE_STATE_INDIRECT_ARGUMENT,
	vireo.ResourceStateVertexInput:  d3d12.D3D12_RESOURCE_STATE_VERTEX_AND_CONSTANT_BUFFER | d3d12.D3D12_RESOURCE_STATE_INDEX_BUFFER,
	vireo.ResourceStateUniform:      d3d12.D3D12_RESOURCE_STATE_VERTEX_AND_CONSTANT_BUFFER,
}

// transition returns the barrier moving res between two abstract states.
// ok is false when both states map to the same native state and no
// barrier is needed; UAV to UAV yields a UAV barrier.
func transition(res *d3d12.ID3D12Resource, from, to vireo.ResourceState) (b d3d12.D3D12_RESOURCE_BARRIER, ok bool) {
	before, after := resourceStateMap[from], resourceStateMap[to]
	if before == after {
		if after == d3d12.D3D12_RESOURCE_STATE_UNORDERED_ACCESS {
			return d3d12.NewUAVBarrier(res), true
		}
		return b, false
	}
	return d3d12.NewTransitionBarrier(res, before, after, d3d12.D3D12_RESOURCE_BARRIER_ALL_SUBRESOURCES), true
}

var commandListTypeMap = map[vireo.CommandType]d3d12.D3D12_COMMAND_LIST_TYPE{
	vireo.CommandTypeGraphic:  d3d12.D3D12_COMMAND_LIST_TYPE_DIRECT,
	vireo.CommandTypeCompute:  d3d12.D3D12_COMMAND_LIST_TYPE_COMPUTE,
	vireo.CommandTypeTransfer: d3d12.D3D12_COMMAND_LIST_TYPE_COPY,
}

// descriptorRangeMap maps descriptor types to root signature range types.
var descriptorRangeMap = map[vireo.DescriptorType]d3d12.D3D12_DESCRIPTOR_RANGE_TYPE{
	vireo.DescriptorTypeUniform:         d3d12.D3D12_DESCRIPTOR_RANGE_TYPE_CBV,
	vireo.DescriptorTypeUniformDynamic:  d3d12.D3D12_DESCRIPTOR_RANGE_TYPE_CBV,
	vireo.DescriptorTypeBuffer:          d3d12.D3D12_DESCRIPTOR_RANGE_TYPE_SRV,
	vireo.DescriptorTypeReadWriteBuffer: d3d12.D3D12_DESCRIPTOR_RANGE_TYPE_UAV,
	vireo.DescriptorTypeSampledImage:    d3d12.D3D12_DESCRIPTOR_RANGE_TYPE_SRV,
	vireo.DescriptorTypeReadWriteImage:  d3d12.D3D12_DESCRIPTOR_RANGE_TYPE_UAV,
	vireo.DescriptorTypeSampler:         d3d12.D3D12_DESCRIPTOR_RANGE_TYPE_SAMPLER,
}

// bufferHeap is where a buffer type lives and the state it starts in.
type bufferHeap struct {
	heap  d3d12.D3D12_HEAP_TYPE
	state d3d12.D3D12_RESOURCE_STATES
	flags d3d12.D3D12_RESOURCE_FLAGS
}

func bufferHeapFor(t vireo.BufferType) bufferHeap {
	switch t {
	case vireo.BufferTypeBufferDownload, vireo.BufferTypeImageDownload:
		return bufferHeap{heap: d3d12.D3D12_HEAP_TYPE_READBACK, state: d3d12.D3D12_RESOURCE_STATE_COPY_DEST}
	case vireo.BufferTypeIndirect, vireo.BufferTypeDeviceStorage, vireo.BufferTypeReadWriteStorage:
		return bufferHeap{
			heap:  d3d12.D3D12_HEAP_TYPE_DEFAULT,
			state: d3d12.D3D12_RESOURCE_STATE_COMMON,
			flags: d3d12.D3D12_RESOURCE_FLAG_ALLOW_UNORDERED_ACCESS,
		}
	}
	if t.HostVisible() {
		return bufferHeap{heap: d3d12.D3D12_HEAP_TYPE_UPLOAD, state: d3d12.D3D12_RESOURCE_STATE_GENERIC_READ}
	}
	return bufferHeap{heap: d3d12.D3D12_HEAP_TYPE_DEFAULT, state: d3d12.D3D12_RESOURCE_STATE_COMMON}
}

// filterToDX encodes a D3D12_FILTER: two bits each for min, mag and mip
// with linear as 1, the anisotropic pattern 0x55, and 0x80 for
// comparison sampling.
func filterToDX(desc vireo.SamplerDesc) d3d12.D3D12_FILTER {
	var f uint32
	if desc.MaxAnisotropy > 1 {
		f = 0x55
	} else {
		if desc.MinFilter == vireo.FilterLinear {
			f |= 1 << 4
		}
		if desc.MagFilter == vireo.FilterLinear {
			f |= 1 << 2
		}
		if desc.MipMapMode == vireo.MipMapModeLinear {
			f |= 1
		}
	}
	if desc.CompareEnable {
		f |= 0x80
	}
	return d3d12.D3D12_FILTER(f)
}

var addressModeMap = map[vireo.AddressMode]d3d12.D3D12_TEXTURE_ADDRESS_MODE{
	vireo.AddressModeRepeat:         d3d12.D3D12_TEXTURE_ADDRESS_MODE_WRAP,
	vireo.AddressModeMirroredRepeat: d3d12.D3D12_TEXTURE_ADDRESS_MODE_MIRROR,
	vireo.AddressModeClampToEdge:    d3d12.D3D12_TEXTURE_ADDRESS_MODE_CLAMP,
	vireo.AddressModeClampToBorder:  d3d12.D3D12_TEXTURE_ADDRESS_MODE_BORDER,
}

var compareFuncMap = map[vireo.CompareOp]d3d12.D3D12_COMPARISON_FUNC{
	vireo.CompareOpNever:          d3d12.D3D12_COMPARISON_FUNC_NEVER,
	vireo.CompareOpLess:           d3d12.D3D12_COMPARISON_FUNC_LESS,
	vireo.CompareOpEqual:          d3d12.D3D12_COMPARISON_FUNC_EQUAL,
	vireo.CompareOpLessOrEqual:    d3d12.D3D12_COMPARISON_FUNC_LESS_EQUAL,
	vireo.CompareOpGreater:        d3d12.D3D12_COMPARISON_FUNC_GREATER,
	vireo.CompareOpNotEqual:       d3d12.D3D12_COMPARISON_FUNC_NOT_EQUAL,
	vireo.CompareOpGreaterOrEqual: d3d12.D3D12_COMPARISON_FUNC_GREATER_EQUAL,
	vireo.CompareOpAlways:         d3d12.D3D12_COMPARISON_FUNC_ALWAYS,
}

func compareFuncToDX(op vireo.CompareOp) d3d12.D3D12_COMPARISON_FUNC {
	if f, ok := compareFuncMap[op]; ok {
		return f
	}
	return d3d12.D3D12_COMPARISON_FUNC_ALWAYS
}

func cullModeToDX(m vireo.CullMode) d3d12.D3D12_CULL_MODE {
	switch m {
	case vireo.CullModeFront:
		return d3d12.D3D12_CULL_MODE_FRONT
	case vireo.CullModeBack:
		return d3d12.D3D12_CULL_MODE_BACK
	default:
		return d3d12.D3D12_CULL_MODE_NONE
	}
}

func fillModeToDX(m vireo.PolygonMode) d3d12.D3D12_FILL_MODE {
	if m == vireo.PolygonModeWireframe {
		return d3d12.D3D12_FILL_MODE_WIREFRAME
	}
	return d3d12.D3D12_FILL_MODE_SOLID
}

// topology pairs the input assembler topology with the pipeline's
// topology class.
type topology struct {
	primitive d3d12.D3D_PRIMITIVE_TOPOLOGY
	class     d3d12.D3D12_PRIMITIVE_TOPOLOGY_TYPE
}

var topologyMap = map[vireo.PrimitiveTopology]topology{
	vireo.PrimitiveTopologyPointList:     {d3d12.D3D_PRIMITIVE_TOPOLOGY_POINTLIST, d3d12.D3D12_PRIMITIVE_TOPOLOGY_TYPE_POINT},
	vireo.PrimitiveTopologyLineList:      {d3d12.D3D_PRIMITIVE_TOPOLOGY_LINELIST, d3d12.D3D12_PRIMITIVE_TOPOLOGY_TYPE_LINE},
	vireo.PrimitiveTopologyLineStrip:     {d3d12.D3D_PRIMITIVE_TOPOLOGY_LINESTRIP, d3d12.D3D12_PRIMITIVE_TOPOLOGY_TYPE_LINE},
	vireo.PrimitiveTopologyTriangleList:  {d3d12.D3D_PRIMITIVE_TOPOLOGY_TRIANGLELIST, d3d12.D3D12_PRIMITIVE_TOPOLOGY_TYPE_TRIANGLE},
	vireo.PrimitiveTopologyTriangleStrip: {d3d12.D3D_PRIMITIVE_TOPOLOGY_TRIANGLESTRIP, d3d12.D3D12_PRIMITIVE_TOPOLOGY_TYPE_TRIANGLE},
}

var blendFactorMap = map[vireo.BlendFactor]d3d12.D3D12_BLEND{
	vireo.BlendFactorZero:             d3d12.D3D12_BLEND_ZERO,
	vireo.BlendFactorOne:              d3d12.D3D12_BLEND_ONE,
	vireo.BlendFactorSrcColor:         d3d12.D3D12_BLEND_SRC_COLOR,
	vireo.BlendFactorOneMinusSrcColor: d3d12.D3D12_BLEND_INV_SRC_COLOR,
	vireo.BlendFactorDstColor:         d3d12.D3D12_BLEND_DEST_COLOR,
	vireo.BlendFactorOneMinusDstColor: d3d12.D3D12_BLEND_INV_DEST_COLOR,
	vireo.BlendFactorSrcAlpha:         d3d12.D3D12_BLEND_SRC_ALPHA,
	vireo.BlendFactorOneMinusSrcAlpha: d3d12.D3D12_BLEND_INV_SRC_ALPHA,
	vireo.BlendFactorDstAlpha:         d3d12.D3D12_BLEND_DEST_ALPHA,
	vireo.BlendFactorOneMinusDstAlpha: d3d12.D3D12_BLEND_INV_DEST_ALPHA,
}

// alphaBlendFactor converts a factor used for the alpha channel. D3D12
// rejects color factors there, so they become their alpha counterparts.
func alphaBlendFactor(f vireo.BlendFactor) d3d12.D3D12_BLEND {
	switch f {
	case vireo.BlendFactorSrcColor:
		return d3d12.D3D12_BLEND_SRC_ALPHA
	case vireo.BlendFactorOneMinusSrcColor:
		return d3d12.D3D12_BLEND_INV_SRC_ALPHA
	case vireo.BlendFactorDstColor:
		return d3d12.D3D12_BLEND_DEST_ALPHA
	case vireo.BlendFactorOneMinusDstColor:
		return d3d12.D3D12_BLEND_INV_DEST_ALPHA
	}
	return blendFactorMap[f]
}

var blendOpMap = map[vireo.BlendOp]d3d12.D3D12_BLEND_OP{
	vireo.BlendOpAdd:             d3d12.D3D12_BLEND_OP_ADD,
	vireo.BlendOpSubtract:        d3d12.D3D12_BLEND_OP_SUBTRACT,
	vireo.BlendOpReverseSubtract: d3d12.D3D12_BLEND_OP_REV_SUBTRACT,
	vireo.BlendOpMin:             d3d12.D3D12_BLEND_OP_MIN,
	vireo.BlendOpMax:             d3d12.D3D12_BLEND_OP_MAX,
}

func blendToDX(b vireo.ColorBlendDesc) d3d12.D3D12_RENDER_TARGET_BLEND_DESC {
	return d3d12.D3D12_RENDER_TARGET_BLEND_DESC{
		BlendEnable:           bool32(b.BlendEnable),
		SrcBlend:              blendFactorMap[b.SrcColorBlendFactor],
		DestBlend:             blendFactorMap[b.DstColorBlendFactor],
		BlendOp:               blendOpMap[b.ColorBlendOp],
		SrcBlendAlpha:         alphaBlendFactor(b.SrcAlphaBlendFactor),
		DestBlendAlpha:        alphaBlendFactor(b.DstAlphaBlendFactor),
		BlendOpAlpha:          blendOpMap[b.AlphaBlendOp],
		LogicOp:               d3d12.D3D12_LOGIC_OP_NOOP,
		RenderTargetWriteMask: uint8(b.WriteMask),
	}
}

var stencilOpMap = map[vireo.StencilOp]d3d12.D3D12_STENCIL_OP{
	vireo.StencilOpKeep:              d3d12.D3D12_STENCIL_OP_KEEP,
	vireo.StencilOpZero:              d3d12.D3D12_STENCIL_OP_ZERO,
	vireo.StencilOpReplace:           d3d12.D3D12_STENCIL_OP_REPLACE,
	vireo.StencilOpIncrementAndClamp: d3d12.D3D12_STENCIL_OP_INCR_SAT,
	vireo.StencilOpDecrementAndClamp: d3d12.D3D12_STENCIL_OP_DECR_SAT,
	vireo.StencilOpInvert:            d3d12.D3D12_STENCIL_OP_INVERT,
	vireo.StencilOpIncrementAndWrap:  d3d12.D3D12_STENCIL_OP_INCR,
	vireo.StencilOpDecrementAndWrap:  d3d12.D3D12_STENCIL_OP_DECR,
}

func stencilOpToDX(s vireo.StencilOpState) d3d12.D3D12_DEPTH_STENCILOP_DESC {
	return d3d12.D3D12_DEPTH_STENCILOP_DESC{
		StencilFailOp:      stencilOpMap[s.FailOp],
		StencilDepthFailOp: stencilOpMap[s.DepthFailOp],
		StencilPassOp:      stencilOpMap[s.PassOp],
		StencilFunc:        compareFuncToDX(s.Compare),
	}
}

var attributeFormatMap = map[vireo.AttributeFormat]d3d12.DXGI_FORMAT{
	vireo.AttributeFormatR32Float:          d3d12.DXGI_FORMAT_R32_FLOAT,
	vireo.AttributeFormatR32G32Float:       d3d12.DXGI_FORMAT_R32G32_FLOAT,
	vireo.AttributeFormatR32G32B32Float:    d3d12.DXGI_FORMAT_R32G32B32_FLOAT,
	vireo.AttributeFormatR32G32B32A32Float: d3d12.DXGI_FORMAT_R32G32B32A32_FLOAT,
	vireo.AttributeFormatR32Sint:           d3d12.DXGI_FORMAT_R32_SINT,
	vireo.AttributeFormatR32G32Sint:        d3d12.DXGI_FORMAT_R32G32_SINT,
	vireo.AttributeFormatR32G32B32Sint:     d3d12.DXGI_FORMAT_R32G32B32_SINT,
	vireo.AttributeFormatR32G32B32A32Sint:  d3d12.DXGI_FORMAT_R32G32B32A32_SINT,
	vireo.AttributeFormatR32Uint:           d3d12.DXGI_FORMAT_R32_UINT,
	vireo.AttributeFormatR32G32Uint:        d3d12.DXGI_FORMAT_R32G32_UINT,
	vireo.AttributeFormatR32G32B32Uint:     d3d12.DXGI_FORMAT_R32G32B32_UINT,
	vireo.AttributeFormatR32G32B32A32Uint:  d3d12.DXGI_FORMAT_R32G32B32A32_UINT,
}

func indexFormatToDX(t vireo.IndexType) d3d12.DXGI_FORMAT {
	if t == vireo.IndexTypeUint16 {
		return d3d12.DXGI_FORMAT_R16_UINT
	}
	return d3d12.DXGI_FORMAT_R32_UINT
}

// shaderVisibility narrows root constants to a single stage when only one
// graphics stage reads them.
func shaderVisibility(s vireo.ShaderStage) d3d12.D3D12_SHADER_VISIBILITY {
	switch s {
	case vireo.ShaderStageVertex:
		return d3d12.D3D12_SHADER_VISIBILITY_VERTEX
	case vireo.ShaderStageFragment:
		return d3d12.D3D12_SHADER_VISIBILITY_PIXEL
	default:
		return d3d12.D3D12_SHADER_VISIBILITY_ALL
	}
}

func sampleCount(m vireo.MSAA) uint32 {
	if m == 0 {
		return 1
	}
	return uint32(m)
}

// subresource returns the D3D12 subresource index of mip in layer.
func subresource(mip, layer, mipLevels uint32) uint32 {
	return mip + layer*mipLevels
}

func bool32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// swapChainBufferMap lists the formats flip model back buffers support.
// sRGB formats present through a UNORM buffer and an sRGB view.
var swapChainBufferMap = map[vireo.ImageFormat]d3d12.DXGI_FORMAT{
	vireo.ImageFormatB8G8R8A8Unorm:      d3d12.DXGI_FORMAT_B8G8R8A8_UNORM,
	vireo.ImageFormatB8G8R8A8Srgb:       d3d12.DXGI_FORMAT_B8G8R8A8_UNORM,
	vireo.ImageFormatR8G8B8A8Unorm:      d3d12.DXGI_FORMAT_R8G8B8A8_UNORM,
	vireo.ImageFormatR8G8B8A8Srgb:       d3d12.DXGI_FORMAT_R8G8B8A8_UNORM,
	vireo.ImageFormatA2B10G10R10Unorm:   d3d12.DXGI_FORMAT_R10G10B10A2_UNORM,
	vireo.ImageFormatR16G16B16A16Sfloat: d3d12.DXGI_FORMAT_R16G16B16A16_FLOAT,
}

// swapChainFormat returns the back buffer format for f and the image
// format the swap chain reports, falling back to B8G8R8A8 sRGB.
func swapChainFormat(f vireo.ImageFormat) (d3d12.DXGI_FORMAT, vireo.ImageFormat, bool) {
	if buf, ok := swapChainBufferMap[f]; ok {
		return buf, f, true
	}
	return d3d12.DXGI_FORMAT_B8G8R8A8_UNORM, vireo.ImageFormatB8G8R8A8Srgb, false
}
