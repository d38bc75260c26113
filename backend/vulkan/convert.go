//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/memory"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// imageFormatMap maps vireo image formats to Vulkan formats.
var imageFormatMap = map[vireo.ImageFormat]vk.Format{
	vireo.ImageFormatR8Unorm: vk.FormatR8Unorm,
	vireo.ImageFormatR8Snorm: vk.FormatR8Snorm,
	vireo.ImageFormatR8Uint:  vk.FormatR8Uint,
	vireo.ImageFormatR8Sint:  vk.FormatR8Sint,

	vireo.ImageFormatR8G8Unorm: vk.FormatR8g8Unorm,
	vireo.ImageFormatR8G8Snorm: vk.FormatR8g8Snorm,
	vireo.ImageFormatR8G8Uint:  vk.FormatR8g8Uint,
	vireo.ImageFormatR8G8Sint:  vk.FormatR8g8Sint,

	vireo.ImageFormatR8G8B8A8Unorm: vk.FormatR8g8b8a8Unorm,
	vireo.ImageFormatR8G8B8A8Snorm: vk.FormatR8g8b8a8Snorm,
	vireo.ImageFormatR8G8B8A8Uint:  vk.FormatR8g8b8a8Uint,
	vireo.ImageFormatR8G8B8A8Sint:  vk.FormatR8g8b8a8Sint,
	vireo.ImageFormatR8G8B8A8Srgb:  vk.FormatR8g8b8a8Srgb,
	vireo.ImageFormatB8G8R8A8Unorm: vk.FormatB8g8r8a8Unorm,
	vireo.ImageFormatB8G8R8A8Srgb:  vk.FormatB8g8r8a8Srgb,
	// Vulkan has no X8 variant; the alpha channel is ignored by convention.
	vireo.ImageFormatB8G8R8X8Unorm: vk.FormatB8g8r8a8Unorm,
	vireo.ImageFormatB8G8R8X8Srgb:  vk.FormatB8g8r8a8Srgb,

	vireo.ImageFormatA2B10G10R10Unorm: vk.FormatA2b10g10r10UnormPack32,
	vireo.ImageFormatA2B10G10R10Uint:  vk.FormatA2b10g10r10UintPack32,

	vireo.ImageFormatR16Unorm:  vk.FormatR16Unorm,
	vireo.ImageFormatR16Snorm:  vk.FormatR16Snorm,
	vireo.ImageFormatR16Uint:   vk.FormatR16Uint,
	vireo.ImageFormatR16Sint:   vk.FormatR16Sint,
	vireo.ImageFormatR16Sfloat: vk.FormatR16Sfloat,

	vireo.ImageFormatR16G16Unorm:  vk.FormatR16g16Unorm,
	vireo.ImageFormatR16G16Snorm:  vk.FormatR16g16Snorm,
	vireo.ImageFormatR16G16Uint:   vk.FormatR16g16Uint,
	vireo.ImageFormatR16G16Sint:   vk.FormatR16g16Sint,
	vireo.ImageFormatR16G16Sfloat: vk.FormatR16g16Sfloat,

	vireo.ImageFormatR16G16B16A16Unorm:  vk.FormatR16g16b16a16Unorm,
	vireo.ImageFormatR16G16B16A16Snorm:  vk.FormatR16g16b16a16Snorm,
	vireo.ImageFormatR16G16B16A16Uint:   vk.FormatR16g16b16a16Uint,
	vireo.ImageFormatR16G16B16A16Sint:   vk.FormatR16g16b16a16Sint,
	vireo.ImageFormatR16G16B16A16Sfloat: vk.FormatR16g16b16a16Sfloat,

	vireo.ImageFormatR32Uint:   vk.FormatR32Uint,
	vireo.ImageFormatR32Sint:   vk.FormatR32Sint,
	vireo.ImageFormatR32Sfloat: vk.FormatR32Sfloat,

	vireo.ImageFormatR32G32Uint:   vk.FormatR32g32Uint,
	vireo.ImageFormatR32G32Sint:   vk.FormatR32g32Sint,
	vireo.ImageFormatR32G32Sfloat: vk.FormatR32g32Sfloat,

	vireo.ImageFormatR32G32B32Uint:   vk.FormatR32g32b32Uint,
	vireo.ImageFormatR32G32B32Sint:   vk.FormatR32g32b32Sint,
	vireo.ImageFormatR32G32B32Sfloat: vk.FormatR32g32b32Sfloat,

	vireo.ImageFormatR32G32B32A32Uint:   vk.FormatR32g32b32a32Uint,
	vireo.ImageFormatR32G32B32A32Sint:   vk.FormatR32g32b32a32Sint,
	vireo.ImageFormatR32G32B32A32Sfloat: vk.FormatR32g32b32a32Sfloat,

	vireo.ImageFormatD16Unorm:        vk.FormatD16Unorm,
	vireo.ImageFormatD24UnormS8Uint:  vk.FormatD24UnormS8Uint,
	vireo.ImageFormatD32Sfloat:       vk.FormatD32Sfloat,
	vireo.ImageFormatD32SfloatS8Uint: vk.FormatD32SfloatS8Uint,

	vireo.ImageFormatBC1Unorm:     vk.FormatBc1RgbaUnormBlock,
	vireo.ImageFormatBC1UnormSrgb: vk.FormatBc1RgbaSrgbBlock,
	vireo.ImageFormatBC2Unorm:     vk.FormatBc2UnormBlock,
	vireo.ImageFormatBC2UnormSrgb: vk.FormatBc2SrgbBlock,
	vireo.ImageFormatBC3Unorm:     vk.FormatBc3UnormBlock,
	vireo.ImageFormatBC3UnormSrgb: vk.FormatBc3SrgbBlock,
	vireo.ImageFormatBC4Unorm:     vk.FormatBc4UnormBlock,
	vireo.ImageFormatBC4Snorm:     vk.FormatBc4SnormBlock,
	vireo.ImageFormatBC5Unorm:     vk.FormatBc5UnormBlock,
	vireo.ImageFormatBC5Snorm:     vk.FormatBc5SnormBlock,
	vireo.ImageFormatBC6HUfloat:   vk.FormatBc6hUfloatBlock,
	vireo.ImageFormatBC6HSfloat:   vk.FormatBc6hSfloatBlock,
	vireo.ImageFormatBC7Unorm:     vk.FormatBc7UnormBlock,
	vireo.ImageFormatBC7UnormSrgb: vk.FormatBc7SrgbBlock,
}

// imageFormatToVk converts an image format, returning FormatUndefined for
// unknown values.
func imageFormatToVk(f vireo.ImageFormat) vk.Format {
	if vf, ok := imageFormatMap[f]; ok {
		return vf
	}
	return vk.FormatUndefined
}

// imageFormatFromVk is the reverse of imageFormatToVk for swap chain
// surface formats. X8 variants are never returned.
func imageFormatFromVk(f vk.Format) vireo.ImageFormat {
	switch f {
	case vk.FormatB8g8r8a8Unorm:
		return vireo.ImageFormatB8G8R8A8Unorm
	case vk.FormatB8g8r8a8Srgb:
		return vireo.ImageFormatB8G8R8A8Srgb
	}
	for vf, nf := range imageFormatMap {
		if nf == f {
			return vf
		}
	}
	return vireo.ImageFormatUndefined
}

// barrierState is the Vulkan expression of one abstract resource state.
type barrierState struct {
	layout vk.ImageLayout
	access vk.AccessFlags
	stage  vk.PipelineStageFlags
}

func access(bits ...vk.AccessFlagBits) vk.AccessFlags {
	var f vk.AccessFlags
	for _, b := range bits {
		f |= vk.AccessFlags(b)
	}
	return f
}

func stages(bits ...vk.PipelineStageFlagBits) vk.PipelineStageFlags {
	var f vk.PipelineStageFlags
	for _, b := range bits {
		f |= vk.PipelineStageFlags(b)
	}
	return f
}

// barrierStates translates every vireo.ResourceState. Buffers use the access
// and stage columns only.
var barrierStates = map[vireo.ResourceState]barrierState{
	vireo.ResourceStateUndefined: {
		layout: vk.ImageLayoutUndefined,
		stage:  stages(vk.PipelineStageTopOfPipeBit),
	},
	vireo.ResourceStateGeneral: {
		layout: vk.ImageLayoutGeneral,
		access: access(vk.AccessMemoryReadBit, vk.AccessMemoryWriteBit),
		stage:  stages(vk.PipelineStageAllCommandsBit),
	},
	vireo.ResourceStateRenderTargetColor: {
		layout: vk.ImageLayoutColorAttachmentOptimal,
		access: access(vk.AccessColorAttachmentReadBit, vk.AccessColorAttachmentWriteBit),
		stage:  stages(vk.PipelineStageColorAttachmentOutputBit),
	},
	vireo.ResourceStateRenderTargetDepth: {
		layout: vk.ImageLayoutDepthStencilAttachmentOptimal,
		access: access(vk.AccessDepthStencilAttachmentReadBit, vk.AccessDepthStencilAttachmentWriteBit),
		stage:  stages(vk.PipelineStageEarlyFragmentTestsBit, vk.PipelineStageLateFragmentTestsBit),
	},
	vireo.ResourceStateRenderTargetDepthRead: {
		layout: vk.ImageLayoutDepthStencilReadOnlyOptimal,
		access: access(vk.AccessDepthStencilAttachmentReadBit, vk.AccessShaderReadBit),
		stage:  stages(vk.PipelineStageEarlyFragmentTestsBit, vk.PipelineStageLateFragmentTestsBit, vk.PipelineStageFragmentShaderBit),
	},
	vireo.ResourceStateRenderTargetDepthStencil: {
		layout: vk.ImageLayoutDepthStencilAttachmentOptimal,
		access: access(vk.AccessDepthStencilAttachmentReadBit, vk.AccessDepthStencilAttachmentWriteBit),
		stage:  stages(vk.PipelineStageEarlyFragmentTestsBit, vk.PipelineStageLateFragmentTestsBit),
	},
	vireo.ResourceStateRenderTargetDepthStencilRead: {
		layout: vk.ImageLayoutDepthStencilReadOnlyOptimal,
		access: access(vk.AccessDepthStencilAttachmentReadBit, vk.AccessShaderReadBit),
		stage:  stages(vk.PipelineStageEarlyFragmentTestsBit, vk.PipelineStageLateFragmentTestsBit, vk.PipelineStageFragmentShaderBit),
	},
	vireo.ResourceStatePresent: {
		layout: vk.ImageLayoutPresentSrcKhr,
		stage:  stages(vk.PipelineStageBottomOfPipeBit),
	},
	vireo.ResourceStateCopySrc: {
		layout: vk.ImageLayoutTransferSrcOptimal,
		access: access(vk.AccessTransferReadBit),
		stage:  stages(vk.PipelineStageTransferBit),
	},
	vireo.ResourceStateCopyDst: {
		layout: vk.ImageLayoutTransferDstOptimal,
		access: access(vk.AccessTransferWriteBit),
		stage:  stages(vk.PipelineStageTransferBit),
	},
	vireo.ResourceStateShaderRead: {
		layout: vk.ImageLayoutShaderReadOnlyOptimal,
		access: access(vk.AccessShaderReadBit),
		stage:  stages(vk.PipelineStageVertexShaderBit, vk.PipelineStageFragmentShaderBit),
	},
	vireo.ResourceStateComputeRead: {
		layout: vk.ImageLayoutGeneral,
		access: access(vk.AccessShaderReadBit),
		stage:  stages(vk.PipelineStageComputeShaderBit),
	},
	vireo.ResourceStateComputeWrite: {
		layout: vk.ImageLayoutGeneral,
		access: access(vk.AccessShaderWriteBit),
		stage:  stages(vk.PipelineStageComputeShaderBit),
	},
	vireo.ResourceStateIndirectDraw: {
		layout: vk.ImageLayoutGeneral,
		access: access(vk.AccessIndirectCommandReadBit),
		stage:  stages(vk.PipelineStageDrawIndirectBit),
	},
	vireo.ResourceStateVertexInput: {
		layout: vk.ImageLayoutGeneral,
		access: access(vk.AccessVertexAttributeReadBit, vk.AccessIndexReadBit),
		stage:  stages(vk.PipelineStageVertexInputBit),
	},
	vireo.ResourceStateUniform: {
		layout: vk.ImageLayoutGeneral,
		access: access(vk.AccessUniformReadBit),
		stage:  stages(vk.PipelineStageVertexShaderBit, vk.PipelineStageFragmentShaderBit, vk.PipelineStageComputeShaderBit),
	},
}

// waitStageMap maps semaphore wait stages.
var waitStageMap = map[vireo.WaitStage]vk.PipelineStageFlagBits{
	vireo.WaitStagePipelineTop:            vk.PipelineStageTopOfPipeBit,
	vireo.WaitStageVertexInput:            vk.PipelineStageVertexInputBit,
	vireo.WaitStageVertexShader:           vk.PipelineStageVertexShaderBit,
	vireo.WaitStageDepthStencilTestBefore: vk.PipelineStageEarlyFragmentTestsBit,
	vireo.WaitStageDepthStencilTestAfter:  vk.PipelineStageLateFragmentTestsBit,
	vireo.WaitStageFragmentShader:         vk.PipelineStageFragmentShaderBit,
	vireo.WaitStageColorOutput:            vk.PipelineStageColorAttachmentOutputBit,
	vireo.WaitStageComputeShader:          vk.PipelineStageComputeShaderBit,
	vireo.WaitStageTransfer:               vk.PipelineStageTransferBit,
	vireo.WaitStagePipelineBottom:         vk.PipelineStageBottomOfPipeBit,
	vireo.WaitStageAllGraphics:            vk.PipelineStageAllGraphicsBit,
	vireo.WaitStageAllCommands:            vk.PipelineStageAllCommandsBit,
}

func waitStageToVk(s vireo.WaitStage) vk.PipelineStageFlags {
	if b, ok := waitStageMap[s]; ok {
		return vk.PipelineStageFlags(b)
	}
	return vk.PipelineStageFlags(vk.PipelineStageAllCommandsBit)
}

// descriptorTypeMap maps descriptor types.
var descriptorTypeMap = map[vireo.DescriptorType]vk.DescriptorType{
	vireo.DescriptorTypeUniform:         vk.DescriptorTypeUniformBuffer,
	vireo.DescriptorTypeUniformDynamic:  vk.DescriptorTypeUniformBufferDynamic,
	vireo.DescriptorTypeBuffer:          vk.DescriptorTypeStorageBuffer,
	vireo.DescriptorTypeReadWriteBuffer: vk.DescriptorTypeStorageBuffer,
	vireo.DescriptorTypeSampledImage:    vk.DescriptorTypeSampledImage,
	vireo.DescriptorTypeReadWriteImage:  vk.DescriptorTypeStorageImage,
	vireo.DescriptorTypeSampler:         vk.DescriptorTypeSampler,
}

func bufferUsageToVk(t vireo.BufferType) vk.BufferUsageFlags {
	var bit vk.BufferUsageFlagBits
	switch t {
	case vireo.BufferTypeVertex:
		bit = vk.BufferUsageVertexBufferBit | vk.BufferUsageTransferDstBit
	case vireo.BufferTypeIndex:
		bit = vk.BufferUsageIndexBufferBit | vk.BufferUsageTransferDstBit
	case vireo.BufferTypeIndirect:
		bit = vk.BufferUsageIndirectBufferBit | vk.BufferUsageStorageBufferBit | vk.BufferUsageTransferDstBit
	case vireo.BufferTypeUniform:
		bit = vk.BufferUsageUniformBufferBit
	case vireo.BufferTypeStorage:
		bit = vk.BufferUsageStorageBufferBit
	case vireo.BufferTypeDeviceStorage, vireo.BufferTypeReadWriteStorage:
		bit = vk.BufferUsageStorageBufferBit | vk.BufferUsageTransferSrcBit | vk.BufferUsageTransferDstBit
	case vireo.BufferTypeBufferUpload, vireo.BufferTypeImageUpload:
		bit = vk.BufferUsageTransferSrcBit
	case vireo.BufferTypeBufferDownload, vireo.BufferTypeImageDownload:
		bit = vk.BufferUsageTransferDstBit
	}
	return vk.BufferUsageFlags(bit)
}

// bufferMemoryUsage selects the allocator usage of a buffer type.
// Host-visible buffers are persistently mapped.
func bufferMemoryUsage(t vireo.BufferType) memory.UsageFlags {
	switch t {
	case vireo.BufferTypeBufferDownload, vireo.BufferTypeImageDownload:
		return memory.UsageHostAccess | memory.UsageDownload
	}
	if t.HostVisible() {
		return memory.UsageHostAccess | memory.UsageUpload
	}
	return memory.UsageFastDeviceAccess
}

func shaderStagesToVk(s vireo.ShaderStage) vk.ShaderStageFlags {
	var f vk.ShaderStageFlags
	if s&vireo.ShaderStageVertex != 0 {
		f |= vk.ShaderStageFlags(vk.ShaderStageVertexBit)
	}
	if s&vireo.ShaderStageFragment != 0 {
		f |= vk.ShaderStageFlags(vk.ShaderStageFragmentBit)
	}
	if s&vireo.ShaderStageCompute != 0 {
		f |= vk.ShaderStageFlags(vk.ShaderStageComputeBit)
	}
	return f
}

func filterToVk(f vireo.Filter) vk.Filter {
	if f == vireo.FilterNearest {
		return vk.FilterNearest
	}
	return vk.FilterLinear
}

func mipMapModeToVk(m vireo.MipMapMode) vk.SamplerMipmapMode {
	if m == vireo.MipMapModeNearest {
		return vk.SamplerMipmapModeNearest
	}
	return vk.SamplerMipmapModeLinear
}

var addressModeMap = map[vireo.AddressMode]vk.SamplerAddressMode{
	vireo.AddressModeRepeat:         vk.SamplerAddressModeRepeat,
	vireo.AddressModeMirroredRepeat: vk.SamplerAddressModeMirroredRepeat,
	vireo.AddressModeClampToEdge:    vk.SamplerAddressModeClampToEdge,
	vireo.AddressModeClampToBorder:  vk.SamplerAddressModeClampToBorder,
}

var compareOpMap = map[vireo.CompareOp]vk.CompareOp{
	vireo.CompareOpNever:          vk.CompareOpNever,
	vireo.CompareOpLess:           vk.CompareOpLess,
	vireo.CompareOpEqual:          vk.CompareOpEqual,
	vireo.CompareOpLessOrEqual:    vk.CompareOpLessOrEqual,
	vireo.CompareOpGreater:        vk.CompareOpGreater,
	vireo.CompareOpNotEqual:       vk.CompareOpNotEqual,
	vireo.CompareOpGreaterOrEqual: vk.CompareOpGreaterOrEqual,
	vireo.CompareOpAlways:         vk.CompareOpAlways,
}

func cullModeToVk(m vireo.CullMode) vk.CullModeFlags {
	switch m {
	case vireo.CullModeFront:
		return vk.CullModeFlags(vk.CullModeFrontBit)
	case vireo.CullModeBack:
		return vk.CullModeFlags(vk.CullModeBackBit)
	default:
		return vk.CullModeFlags(vk.CullModeNone)
	}
}

func polygonModeToVk(m vireo.PolygonMode) vk.PolygonMode {
	if m == vireo.PolygonModeWireframe {
		return vk.PolygonModeLine
	}
	return vk.PolygonModeFill
}

var topologyMap = map[vireo.PrimitiveTopology]vk.PrimitiveTopology{
	vireo.PrimitiveTopologyPointList:     vk.PrimitiveTopologyPointList,
	vireo.PrimitiveTopologyLineList:      vk.PrimitiveTopologyLineList,
	vireo.PrimitiveTopologyLineStrip:     vk.PrimitiveTopologyLineStrip,
	vireo.PrimitiveTopologyTriangleList:  vk.PrimitiveTopologyTriangleList,
	vireo.PrimitiveTopologyTriangleStrip: vk.PrimitiveTopologyTriangleStrip,
}

var blendFactorMap = map[vireo.BlendFactor]vk.BlendFactor{
	vireo.BlendFactorZero:             vk.BlendFactorZero,
	vireo.BlendFactorOne:              vk.BlendFactorOne,
	vireo.BlendFactorSrcColor:         vk.BlendFactorSrcColor,
	vireo.BlendFactorOneMinusSrcColor: vk.BlendFactorOneMinusSrcColor,
	vireo.BlendFactorDstColor:         vk.BlendFactorDstColor,
	vireo.BlendFactorOneMinusDstColor: vk.BlendFactorOneMinusDstColor,
	vireo.BlendFactorSrcAlpha:         vk.BlendFactorSrcAlpha,
	vireo.BlendFactorOneMinusSrcAlpha: vk.BlendFactorOneMinusSrcAlpha,
	vireo.BlendFactorDstAlpha:         vk.BlendFactorDstAlpha,
	vireo.BlendFactorOneMinusDstAlpha: vk.BlendFactorOneMinusDstAlpha,
}

var blendOpMap = map[vireo.BlendOp]vk.BlendOp{
	vireo.BlendOpAdd:             vk.BlendOpAdd,
	vireo.BlendOpSubtract:        vk.BlendOpSubtract,
	vireo.BlendOpReverseSubtract: vk.BlendOpReverseSubtract,
	vireo.BlendOpMin:             vk.BlendOpMin,
	vireo.BlendOpMax:             vk.BlendOpMax,
}

func colorWriteMaskToVk(m vireo.ColorWriteMask) vk.ColorComponentFlags {
	var f vk.ColorComponentFlags
	if m&vireo.ColorWriteRed != 0 {
		f |= vk.ColorComponentFlags(vk.ColorComponentRBit)
	}
	if m&vireo.ColorWriteGreen != 0 {
		f |= vk.ColorComponentFlags(vk.ColorComponentGBit)
	}
	if m&vireo.ColorWriteBlue != 0 {
		f |= vk.ColorComponentFlags(vk.ColorComponentBBit)
	}
	if m&vireo.ColorWriteAlpha != 0 {
		f |= vk.ColorComponentFlags(vk.ColorComponentABit)
	}
	return f
}

var stencilOpMap = map[vireo.StencilOp]vk.StencilOp{
	vireo.StencilOpKeep:              vk.StencilOpKeep,
	vireo.StencilOpZero:              vk.StencilOpZero,
	vireo.StencilOpReplace:           vk.StencilOpReplace,
	vireo.StencilOpIncrementAndClamp: vk.StencilOpIncrementAndClamp,
	vireo.StencilOpDecrementAndClamp: vk.StencilOpDecrementAndClamp,
	vireo.StencilOpInvert:            vk.StencilOpInvert,
	vireo.StencilOpIncrementAndWrap:  vk.StencilOpIncrementAndWrap,
	vireo.StencilOpDecrementAndWrap:  vk.StencilOpDecrementAndWrap,
}

func stencilStateToVk(s vireo.StencilOpState) vk.StencilOpState {
	return vk.StencilOpState{
		FailOp:      stencilOpMap[s.FailOp],
		PassOp:      stencilOpMap[s.PassOp],
		DepthFailOp: stencilOpMap[s.DepthFailOp],
		CompareOp:   compareOpMap[s.Compare],
		CompareMask: s.CompareMask,
		WriteMask:   s.WriteMask,
		Reference:   s.Reference,
	}
}

var attributeFormatMap = map[vireo.AttributeFormat]vk.Format{
	vireo.AttributeFormatR32Float:          vk.FormatR32Sfloat,
	vireo.AttributeFormatR32G32Float:       vk.FormatR32g32Sfloat,
	vireo.AttributeFormatR32G32B32Float:    vk.FormatR32g32b32Sfloat,
	vireo.AttributeFormatR32G32B32A32Float: vk.FormatR32g32b32a32Sfloat,
	vireo.AttributeFormatR32Sint:           vk.FormatR32Sint,
	vireo.AttributeFormatR32G32Sint:        vk.FormatR32g32Sint,
	vireo.AttributeFormatR32G32B32Sint:     vk.FormatR32g32b32Sint,
	vireo.AttributeFormatR32G32B32A32Sint:  vk.FormatR32g32b32a32Sint,
	vireo.AttributeFormatR32Uint:           vk.FormatR32Uint,
	vireo.AttributeFormatR32G32Uint:        vk.FormatR32g32Uint,
	vireo.AttributeFormatR32G32B32Uint:     vk.FormatR32g32b32Uint,
	vireo.AttributeFormatR32G32B32A32Uint:  vk.FormatR32g32b32a32Uint,
}

func presentModeToVk(m vireo.PresentMode) vk.PresentModeKHR {
	if m == vireo.PresentModeImmediate {
		return vk.PresentModeImmediateKhr
	}
	return vk.PresentModeFifoKhr
}

func indexTypeToVk(t vireo.IndexType) vk.IndexType {
	if t == vireo.IndexTypeUint16 {
		return vk.IndexTypeUint16
	}
	return vk.IndexTypeUint32
}

func sampleCount(m vireo.MSAA) vk.SampleCountFlagBits {
	if m == 0 {
		return vk.SampleCountFlagBits(1)
	}
	return vk.SampleCountFlagBits(m)
}

// aspectMask returns the image aspects of a format.
func aspectMask(f vireo.ImageFormat) vk.ImageAspectFlags {
	switch {
	case f.HasStencil():
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit | vk.ImageAspectStencilBit)
	case f.IsDepth():
		return vk.ImageAspectFlags(vk.ImageAspectDepthBit)
	default:
		return vk.ImageAspectFlags(vk.ImageAspectColorBit)
	}
}

func bool32(b bool) vk.Bool32 {
	if b {
		return vk.Bool32(vk.True)
	}
	return vk.Bool32(vk.False)
}
