//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
)

// ShaderModule holds compiled DXBC or DXIL bytecode.
type ShaderModule struct {
	code       []byte
	entryPoint string
	name       string
}

func (d *Device) createShaderModule(desc vireo.ShaderModuleDesc) (*ShaderModule, error) {
	if err := vireo.ValidateShaderCode(vireo.BackendDirectX, desc.Code); err != nil {
		return nil, fmt.Errorf("directx: shader %q: %w", desc.Name, err)
	}
	entry := desc.EntryPoint
	if entry == "" {
		entry = vireo.DefaultEntryPoint
	}
	code := make([]byte, len(desc.Code))
	copy(code, desc.Code)
	return &ShaderModule{code: code, entryPoint: entry, name: desc.Name}, nil
}

func (m *ShaderModule) EntryPoint() string { return m.entryPoint }

func (m *ShaderModule) Destroy() { m.code = nil }

func (m *ShaderModule) bytecode() d3d12.D3D12_SHADER_BYTECODE {
	return d3d12.D3D12_SHADER_BYTECODE{
		ShaderBytecode: unsafe.Pointer(&m.code[0]),
		BytecodeLength: uintptr(len(m.code)),
	}
}

// PipelineResources is a root signature. Root parameter i is the
// descriptor table of set i; push constants follow the tables as root
// constants in register space len(layouts).
type PipelineResources struct {
	device        *Device
	handle        *d3d12.ID3D12RootSignature
	layouts       []vireo.DescriptorLayout
	pushConstants vireo.PushConstantsDesc
	pushIndex     uint32
	name          string
}

func (d *Device) createPipelineResources(layouts []vireo.DescriptorLayout, push vireo.PushConstantsDesc, name string) (*PipelineResources, error) {
	if push.Size%4 != 0 || push.Offset%4 != 0 {
		return nil, fmt.Errorf("directx: pipeline resources %q: push constants must be 4 byte aligned", name)
	}
	if push.Offset+push.Size > d.physical.limits.MaxPushConstantSize {
		return nil, fmt.Errorf("directx: pipeline resources %q: %d push constant bytes exceed %d",
			name, push.Offset+push.Size, d.physical.limits.MaxPushConstantSize)
	}
	params := make([]d3d12.D3D12_ROOT_PARAMETER, 0, len(layouts)+1)
	// Ranges are referenced by pointer until the signature is serialized.
	ranges := make([][]d3d12.D3D12_DESCRIPTOR_RANGE, len(layouts))
	for i, l := range layouts {
		dl, ok := l.(*DescriptorLayout)
		if !ok {
			return nil, fmt.Errorf("directx: pipeline resources %q: set %d is not a DirectX layout", name, i)
		}
		if !dl.Built() {
			return nil, fmt.Errorf("%w: %q in pipeline resources %q", vireo.ErrLayoutNotBuilt, dl.Name(), name)
		}
		ranges[i] = dl.ranges(uint32(i))
		param := d3d12.D3D12_ROOT_PARAMETER{
			ParameterType:    d3d12.D3D12_ROOT_PARAMETER_TYPE_DESCRIPTOR_TABLE,
			ShaderVisibility: d3d12.D3D12_SHADER_VISIBILITY_ALL,
		}
		table := (*d3d12.D3D12_ROOT_DESCRIPTOR_TABLE)(unsafe.Pointer(&param.Union[0]))
		table.NumDescriptorRanges = uint32(len(ranges[i]))
		if len(ranges[i]) > 0 {
			table.DescriptorRanges = &ranges[i][0]
		}
		params = append(params, param)
	}
	if push.Size > 0 {
		param := d3d12.D3D12_ROOT_PARAMETER{
			ParameterType:    d3d12.D3D12_ROOT_PARAMETER_TYPE_32BIT_CONSTANTS,
			ShaderVisibility: shaderVisibility(push.Stage),
		}
		constants := (*d3d12.D3D12_ROOT_CONSTANTS)(unsafe.Pointer(&param.Union[0]))
		constants.RegisterSpace = uint32(len(layouts))
		constants.Num32BitValues = (push.Offset + push.Size) / 4
		params = append(params, param)
	}

	desc := d3d12.D3D12_ROOT_SIGNATURE_DESC{
		Flags: d3d12.D3D12_ROOT_SIGNATURE_FLAG_ALLOW_INPUT_ASSEMBLER_INPUT_LAYOUT,
	}
	if len(params) > 0 {
		desc.NumParameters = uint32(len(params))
		desc.Parameters = &params[0]
	}
	blob, errBlob, err := d.instance.d3d12Lib.SerializeRootSignature(&desc, d3d12.D3D_ROOT_SIGNATURE_VERSION_1_0)
	runtime.KeepAlive(ranges)
	if err != nil {
		msg := ""
		if errBlob != nil {
			msg = blobString(errBlob)
			errBlob.Release()
		}
		return nil, fmt.Errorf("directx: serialize root signature %q: %w %s", name, err, msg)
	}
	defer blob.Release()
	handle, err := d.handle.CreateRootSignature(0, blob.GetBufferPointer(), blob.GetBufferSize())
	if err != nil {
		return nil, hresultError("CreateRootSignature "+name, err)
	}
	kept := make([]vireo.DescriptorLayout, len(layouts))
	copy(kept, layouts)
	return &PipelineResources{
		device:        d,
		handle:        handle,
		layouts:       kept,
		pushConstants: push,
		pushIndex:     uint32(len(layouts)),
		name:          name,
	}, nil
}

// blobString reads the text of a serializer error blob.
func blobString(b *d3d12.ID3DBlob) string {
	n := b.GetBufferSize()
	if n == 0 {
		return ""
	}
	return strings.TrimRight(string(unsafe.Slice((*byte)(b.GetBufferPointer()), n)), "\x00\n")
}

func (p *PipelineResources) Layouts() []vireo.DescriptorLayout       { return p.layouts }
func (p *PipelineResources) PushConstants() vireo.PushConstantsDesc { return p.pushConstants }

func (p *PipelineResources) Destroy() {
	if p.handle == nil {
		return
	}
	d, handle := p.device, p.handle
	p.handle = nil
	d.release("pipeline resources "+p.name, func() { handle.Release() })
}

// Pipeline is a graphic or compute pipeline state object.
type Pipeline struct {
	device       *Device
	handle       *d3d12.ID3D12PipelineState
	pipelineType vireo.PipelineType
	resources    *PipelineResources
	topology     d3d12.D3D_PRIMITIVE_TOPOLOGY
	stencilRef   uint32
	name         string
}

func (p *Pipeline) Type() vireo.PipelineType            { return p.pipelineType }
func (p *Pipeline) Resources() vireo.PipelineResources { return p.resources }
func (p *Pipeline) Name() string                       { return p.name }

func (p *Pipeline) Destroy() {
	if p.handle == nil {
		return
	}
	d, handle := p.device, p.handle
	p.handle = nil
	d.release("pipeline "+p.name, func() { handle.Release() })
}

func asShader(m vireo.ShaderModule, what, name string) (*ShaderModule, error) {
	s, ok := m.(*ShaderModule)
	if !ok || s == nil || len(s.code) == 0 {
		return nil, fmt.Errorf("directx: pipeline %q: %s shader: %w", name, what, vireo.ErrDestroyed)
	}
	return s, nil
}

func asResources(r vireo.PipelineResources, name string) (*PipelineResources, error) {
	res, ok := r.(*PipelineResources)
	if !ok || res == nil || res.handle == nil {
		return nil, fmt.Errorf("directx: pipeline %q: resources: %w", name, vireo.ErrDestroyed)
	}
	return res, nil
}

// semantic splits an HLSL semantic such as TEXCOORD1 into its name and
// index.
func semantic(s string) (string, uint32) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) || i == 0 {
		return s, 0
	}
	n, err := strconv.ParseUint(s[i:], 10, 32)
	if err != nil {
		return s, 0
	}
	return s[:i], uint32(n)
}

// inputLayout translates a vertex layout into per-vertex elements of slot
// 0. Attribute names are HLSL semantics.
func inputLayout(l *vireo.VertexInputLayout) ([]d3d12.D3D12_INPUT_ELEMENT_DESC, error) {
	if l == nil {
		return nil, nil
	}
	attrs := l.Attributes()
	out := make([]d3d12.D3D12_INPUT_ELEMENT_DESC, len(attrs))
	for i, a := range attrs {
		name, index := semantic(a.Binding)
		ptr, err := windows.BytePtrFromString(name)
		if err != nil {
			return nil, fmt.Errorf("directx: vertex attribute %q: %w", a.Binding, err)
		}
		out[i] = d3d12.D3D12_INPUT_ELEMENT_DESC{
			SemanticName:      ptr,
			SemanticIndex:     index,
			Format:            attributeFormatMap[a.Format],
			AlignedByteOffset: a.Offset,
			InputSlotClass:    d3d12.D3D12_INPUT_CLASSIFICATION_PER_VERTEX_DATA,
		}
	}
	return out, nil
}

// blendState returns the blend state of every color target.
func blendState(cfg vireo.GraphicPipelineConfig) d3d12.D3D12_BLEND_DESC {
	out := d3d12.D3D12_BLEND_DESC{
		AlphaToCoverageEnable:  bool32(cfg.AlphaToCoverage),
		IndependentBlendEnable: bool32(len(cfg.ColorBlend) > 1),
	}
	for i := range min(len(cfg.ColorFormats), len(out.RenderTarget)) {
		b := vireo.DefaultColorBlend()
		if i < len(cfg.ColorBlend) {
			b = cfg.ColorBlend[i]
		}
		out.RenderTarget[i] = blendToDX(b)
	}
	return out
}

func (d *Device) createGraphicPipeline(cfg vireo.GraphicPipelineConfig) (*Pipeline, error) {
	res, err := asResources(cfg.Resources, cfg.Name)
	if err != nil {
		return nil, err
	}
	vs, err := asShader(cfg.VertexShader, "vertex", cfg.Name)
	if err != nil {
		return nil, err
	}
	fs, err := asShader(cfg.FragmentShader, "fragment", cfg.Name)
	if err != nil {
		return nil, err
	}
	if len(cfg.ColorFormats) > 8 {
		return nil, fmt.Errorf("directx: pipeline %q: %d color targets exceed 8", cfg.Name, len(cfg.ColorFormats))
	}
	elements, err := inputLayout(cfg.VertexLayout)
	if err != nil {
		return nil, err
	}
	topo, ok := topologyMap[cfg.Topology]
	if !ok {
		return nil, fmt.Errorf("directx: pipeline %q: unsupported topology %d", cfg.Name, cfg.Topology)
	}

	desc := d3d12.D3D12_GRAPHICS_PIPELINE_STATE_DESC{
		RootSignature: res.handle,
		VS:            vs.bytecode(),
		PS:            fs.bytecode(),
		BlendState:    blendState(cfg),
		SampleMask:    ^uint32(0),
		RasterizerState: d3d12.D3D12_RASTERIZER_DESC{
			FillMode:              fillModeToDX(cfg.PolygonMode),
			CullMode:              cullModeToDX(cfg.CullMode),
			FrontCounterClockwise: bool32(cfg.FrontFaceCCW),
			DepthClipEnable:       1,
			MultisampleEnable:     bool32(cfg.MSAA > 1),
			ConservativeRaster:    d3d12.D3D12_CONSERVATIVE_RASTERIZATION_MODE_OFF,
		},
		DepthStencilState: d3d12.D3D12_DEPTH_STENCIL_DESC{
			DepthEnable:      bool32(cfg.DepthTestEnable),
			DepthWriteMask:   d3d12.D3D12_DEPTH_WRITE_MASK_ZERO,
			DepthFunc:        compareFuncToDX(cfg.DepthCompare),
			StencilEnable:    bool32(cfg.StencilTestEnable),
			StencilReadMask:  uint8(cfg.FrontStencil.CompareMask),
			StencilWriteMask: uint8(cfg.FrontStencil.WriteMask),
			FrontFace:        stencilOpToDX(cfg.FrontStencil),
			BackFace:         stencilOpToDX(cfg.BackStencil),
		},
		IBStripCutValue:       d3d12.D3D12_INDEX_BUFFER_STRIP_CUT_VALUE_DISABLED,
		PrimitiveTopologyType: topo.class,
		NumRenderTargets:      uint32(len(cfg.ColorFormats)),
		SampleDesc:            d3d12.DXGI_SAMPLE_DESC{Count: sampleCount(cfg.MSAA)},
	}
	if cfg.DepthWriteEnable {
		desc.DepthStencilState.DepthWriteMask = d3d12.D3D12_DEPTH_WRITE_MASK_ALL
	}
	if cfg.DepthBiasEnable {
		desc.RasterizerState.DepthBias = int32(cfg.DepthBias)
		desc.RasterizerState.SlopeScaledDepthBias = cfg.DepthBiasSlope
	}
	if len(elements) > 0 {
		desc.InputLayout = d3d12.D3D12_INPUT_LAYOUT_DESC{
			InputElementDescs: &elements[0],
			NumElements:       uint32(len(elements)),
		}
	}
	for i, f := range cfg.ColorFormats {
		desc.RTVFormats[i] = imageFormatToDX(f)
	}
	if cfg.DepthFormat != vireo.ImageFormatUndefined {
		desc.DSVFormat = viewFormats(cfg.DepthFormat).dsv
	}

	handle, err := d.handle.CreateGraphicsPipelineState(&desc)
	runtime.KeepAlive(elements)
	runtime.KeepAlive(vs.code)
	runtime.KeepAlive(fs.code)
	if err != nil {
		d.drainMessages()
		return nil, hresultError("CreateGraphicsPipelineState "+cfg.Name, err)
	}
	return &Pipeline{
		device:       d,
		handle:       handle,
		pipelineType: vireo.PipelineTypeGraphic,
		resources:    res,
		topology:     topo.primitive,
		stencilRef:   cfg.FrontStencil.Reference,
		name:         cfg.Name,
	}, nil
}

func (d *Device) createComputePipeline(resources vireo.PipelineResources, shader vireo.ShaderModule, name string) (*Pipeline, error) {
	res, err := asResources(resources, name)
	if err != nil {
		return nil, err
	}
	cs, err := asShader(shader, "compute", name)
	if err != nil {
		return nil, err
	}
	desc := d3d12.D3D12_COMPUTE_PIPELINE_STATE_DESC{
		RootSignature: res.handle,
		CS:            cs.bytecode(),
	}
	handle, err := d.handle.CreateComputePipelineState(&desc)
	runtime.KeepAlive(cs.code)
	if err != nil {
		d.drainMessages()
		return nil, hresultError("CreateComputePipelineState "+name, err)
	}
	return &Pipeline{device: d, handle: handle, pipelineType: vireo.PipelineTypeCompute, resources: res, name: name}, nil
}
