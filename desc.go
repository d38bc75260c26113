// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"fmt"

	"github.com/gogpu/vireo/internal/color"
)

// Extent is a 2D size in pixels.
type Extent struct {
	Width  uint32
	Height uint32
}

// String returns "WxH".
func (e Extent) String() string { return fmt.Sprintf("%dx%d", e.Width, e.Height) }

// IsZero reports whether either dimension is zero (a minimized window).
func (e Extent) IsZero() bool { return e.Width == 0 || e.Height == 0 }

// Rect is an integer rectangle.
type Rect struct {
	X, Y          int32
	Width, Height uint32
}

// Viewport maps normalized device coordinates to the framebuffer.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

// FullViewport returns a viewport covering e with depth range [0, 1].
func FullViewport(e Extent) Viewport {
	return Viewport{Width: float32(e.Width), Height: float32(e.Height), MaxDepth: 1}
}

// ClearValue is the clear color or depth/stencil value of an attachment.
type ClearValue struct {
	Color   [4]float32
	Depth   float32
	Stencil uint32
}

// ClearColorSRGB returns a color clear value for sRGB-encoded components,
// as picked in a color chooser. Clear values are linear on both backends.
func ClearColorSRGB(r, g, b, a float32) ClearValue {
	return ClearValue{Color: [4]float32{
		color.SRGBToLinear(r),
		color.SRGBToLinear(g),
		color.SRGBToLinear(b),
		a,
	}}
}

// BufferDesc describes a buffer for Vireo.CreateBuffer.
type BufferDesc struct {
	Type          BufferType
	InstanceSize  uint32
	InstanceCount uint32 // defaults to 1
	Name          string
}

// ImageDesc describes an image for Vireo.CreateImage.
type ImageDesc struct {
	Format    ImageFormat
	Width     uint32
	Height    uint32
	MipLevels uint32 // defaults to 1
	ArraySize uint32 // defaults to 1
	// ReadWrite allows compute shaders to write the image.
	ReadWrite bool
	Name      string
}

// RenderTargetDesc describes a render target for Vireo.CreateRenderTarget.
type RenderTargetDesc struct {
	Type       RenderTargetType
	Format     ImageFormat
	Width      uint32
	Height     uint32
	ClearValue ClearValue
	MSAA       MSAA // defaults to MSAANone
	Name       string
}

// Samples returns the sample count, MSAANone for the zero value.
func (d RenderTargetDesc) Samples() MSAA {
	if d.MSAA == 0 {
		return MSAANone
	}
	return d.MSAA
}

// Validate checks that the format matches the target type and that the
// sample count is supported.
func (d RenderTargetDesc) Validate() error {
	switch d.Samples() {
	case MSAANone, MSAA2x, MSAA4x, MSAA8x:
	default:
		return fmt.Errorf("vireo: render target %q: unsupported sample count %d", d.Name, d.MSAA)
	}
	switch d.Type {
	case RenderTargetTypeColor:
		if d.Format.IsDepth() {
			return fmt.Errorf("vireo: render target %q: color target with depth format %s", d.Name, d.Format)
		}
	case RenderTargetTypeDepth:
		if !d.Format.IsDepth() {
			return fmt.Errorf("vireo: render target %q: depth target with format %s", d.Name, d.Format)
		}
	case RenderTargetTypeDepthStencil:
		if !d.Format.HasStencil() {
			return fmt.Errorf("vireo: render target %q: depth-stencil target with format %s", d.Name, d.Format)
		}
	default:
		return fmt.Errorf("vireo: render target %q: unknown type %d", d.Name, int(d.Type))
	}
	return nil
}

// ImageDesc returns the description of the image backing the target.
func (d RenderTargetDesc) ImageDesc() ImageDesc {
	return ImageDesc{Format: d.Format, Width: d.Width, Height: d.Height, Name: d.Name}
}

// SamplerDesc describes sampling state.
type SamplerDesc struct {
	MinFilter     Filter
	MagFilter     Filter
	MipMapMode    MipMapMode
	AddressU      AddressMode
	AddressV      AddressMode
	AddressW      AddressMode
	MinLOD        float32
	MaxLOD        float32
	MaxAnisotropy uint32 // 0 or 1 disables anisotropic filtering
	// Compare enables comparison sampling when CompareEnable is set.
	CompareEnable bool
	Compare       CompareOp
	Name          string
}

// LODClampNone disables the mip level upper clamp.
const LODClampNone = 1000.0

// DefaultSamplerDesc returns a trilinear repeating sampler.
func DefaultSamplerDesc() SamplerDesc {
	return SamplerDesc{
		MinFilter:  FilterLinear,
		MagFilter:  FilterLinear,
		MipMapMode: MipMapModeLinear,
		MaxLOD:     LODClampNone,
	}
}

// ShaderModuleDesc describes shader bytecode for Vireo.CreateShaderModule.
type ShaderModuleDesc struct {
	Code       []byte
	EntryPoint string // defaults to "main"
	Name       string
}

// DefaultEntryPoint is the shader entry point used when none is given.
const DefaultEntryPoint = "main"

// PushConstantsDesc is the push-constant range of pipeline resources.
// A zero Size declares no push constants.
type PushConstantsDesc struct {
	Stage  ShaderStage
	Size   uint32
	Offset uint32
}

// DescriptorBinding is one binding of a descriptor layout: count slots of
// one type starting at Index.
type DescriptorBinding struct {
	Index uint32
	Type  DescriptorType
	Count uint32
}

// ColorBlendDesc is the blend state of one color attachment.
type ColorBlendDesc struct {
	BlendEnable         bool
	SrcColorBlendFactor BlendFactor
	DstColorBlendFactor BlendFactor
	ColorBlendOp        BlendOp
	SrcAlphaBlendFactor BlendFactor
	DstAlphaBlendFactor BlendFactor
	AlphaBlendOp        BlendOp
	WriteMask           ColorWriteMask
}

// DefaultColorBlend returns an opaque blend state writing all channels.
func DefaultColorBlend() ColorBlendDesc {
	return ColorBlendDesc{
		SrcColorBlendFactor: BlendFactorOne,
		DstColorBlendFactor: BlendFactorZero,
		SrcAlphaBlendFactor: BlendFactorOne,
		DstAlphaBlendFactor: BlendFactorZero,
		WriteMask:           ColorWriteAll,
	}
}

// AlphaBlend returns straight alpha blending.
func AlphaBlend() ColorBlendDesc {
	return ColorBlendDesc{
		BlendEnable:         true,
		SrcColorBlendFactor: BlendFactorSrcAlpha,
		DstColorBlendFactor: BlendFactorOneMinusSrcAlpha,
		SrcAlphaBlendFactor: BlendFactorOne,
		DstAlphaBlendFactor: BlendFactorOneMinusSrcAlpha,
		WriteMask:           ColorWriteAll,
	}
}

// StencilOpState is the stencil test of one face.
type StencilOpState struct {
	FailOp      StencilOp
	PassOp      StencilOp
	DepthFailOp StencilOp
	Compare     CompareOp
	CompareMask uint32
	WriteMask   uint32
	Reference   uint32
}

// GraphicPipelineConfig holds everything compiled into a graphic pipeline.
// Changing any field requires a new pipeline.
type GraphicPipelineConfig struct {
	Resources      PipelineResources
	VertexLayout   *VertexInputLayout // nil for pipelines without vertex input
	VertexShader   ShaderModule
	FragmentShader ShaderModule

	ColorFormats []ImageFormat
	// ColorBlend has one entry per color format; missing entries use
	// DefaultColorBlend.
	ColorBlend []ColorBlendDesc

	DepthFormat       ImageFormat // ImageFormatUndefined for no depth
	DepthTestEnable   bool
	DepthWriteEnable  bool
	DepthCompare      CompareOp
	DepthBiasEnable   bool
	DepthBias         float32
	DepthBiasSlope    float32
	StencilTestEnable bool
	FrontStencil      StencilOpState
	BackStencil       StencilOpState

	Topology         PrimitiveTopology
	CullMode         CullMode
	PolygonMode      PolygonMode
	FrontFaceCCW     bool
	MSAA             MSAA
	AlphaToCoverage  bool
	Name             string
}

// ColorAttachment is one color attachment of a rendering pass. Exactly
// one of RenderTarget and SwapChain is set; a swap chain attachment
// renders to its currently acquired image.
type ColorAttachment struct {
	RenderTarget RenderTarget
	SwapChain    SwapChain
	Clear        bool
	ClearValue   ClearValue
	// Resolve receives the multisample resolve when set.
	Resolve RenderTarget
}

// RenderingConfig describes the attachments of BeginRendering.
type RenderingConfig struct {
	Color        []ColorAttachment
	Depth        RenderTarget // optional
	ClearDepth   bool
	ClearStencil bool
	DepthClear   ClearValue
	// DepthReadOnly binds the depth attachment without writes.
	DepthReadOnly bool
}

// DrawIndirectCommand is the layout of one DrawIndirect record.
type DrawIndirectCommand struct {
	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
}

// DrawIndexedIndirectCommand is the layout of one DrawIndexedIndirect record.
type DrawIndexedIndirectCommand struct {
	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	VertexOffset  int32
	FirstInstance uint32
}
