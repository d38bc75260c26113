//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// ShaderModule is a VkShaderModule created from SPIR-V.
type ShaderModule struct {
	device     *Device
	handle     vk.ShaderModule
	entryPoint string
	name       string
}

func (d *Device) createShaderModule(desc vireo.ShaderModuleDesc) (*ShaderModule, error) {
	if err := vireo.ValidateShaderCode(vireo.BackendVulkan, desc.Code); err != nil {
		return nil, fmt.Errorf("vulkan: shader %q: %w", desc.Name, err)
	}
	// SPIR-V is consumed as 32-bit words; copying keeps the pointer aligned.
	words := make([]uint32, len(desc.Code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(desc.Code[i*4:])
	}
	info := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uintptr(len(words) * 4),
		PCode:    &words[0],
	}
	var handle vk.ShaderModule
	r := d.cmds.CreateShaderModule(d.handle, &info, nil, &handle)
	runtime.KeepAlive(words)
	if r != vk.Success {
		return nil, resultError("vkCreateShaderModule "+desc.Name, r)
	}
	d.setObjectName(vk.ObjectTypeShaderModule, uint64(handle), desc.Name)
	entry := desc.EntryPoint
	if entry == "" {
		entry = vireo.DefaultEntryPoint
	}
	return &ShaderModule{device: d, handle: handle, entryPoint: entry, name: desc.Name}, nil
}

func (m *ShaderModule) EntryPoint() string { return m.entryPoint }

// Destroy releases the module. Pipelines created from it stay valid.
func (m *ShaderModule) Destroy() {
	if m.handle == 0 {
		return
	}
	d := m.device
	d.cmds.DestroyShaderModule(d.handle, m.handle, nil)
	m.handle = 0
}

// PipelineResources is a VkPipelineLayout.
type PipelineResources struct {
	device        *Device
	handle        vk.PipelineLayout
	layouts       []vireo.DescriptorLayout
	pushConstants vireo.PushConstantsDesc
	name          string
}

func (d *Device) createPipelineResources(layouts []vireo.DescriptorLayout, push vireo.PushConstantsDesc, name string) (*PipelineResources, error) {
	handles := make([]vk.DescriptorSetLayout, len(layouts))
	for i, l := range layouts {
		vl, ok := l.(*DescriptorLayout)
		if !ok {
			return nil, fmt.Errorf("vulkan: pipeline resources %q: set %d is not a Vulkan layout", name, i)
		}
		if !vl.Built() {
			return nil, fmt.Errorf("%w: %q in pipeline resources %q", vireo.ErrLayoutNotBuilt, vl.Name(), name)
		}
		handles[i] = vl.handle
	}
	info := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(handles)),
	}
	if len(handles) > 0 {
		info.PSetLayouts = &handles[0]
	}
	var pushRange vk.PushConstantRange
	if push.Size > 0 {
		pushRange = vk.PushConstantRange{
			StageFlags: shaderStagesToVk(push.Stage),
			Offset:     push.Offset,
			Size:       push.Size,
		}
		info.PushConstantRangeCount = 1
		info.PPushConstantRanges = &pushRange
	}
	var handle vk.PipelineLayout
	r := d.cmds.CreatePipelineLayout(d.handle, &info, nil, &handle)
	runtime.KeepAlive(handles)
	if r != vk.Success {
		return nil, resultError("vkCreatePipelineLayout "+name, r)
	}
	d.setObjectName(vk.ObjectTypePipelineLayout, uint64(handle), name)
	kept := make([]vireo.DescriptorLayout, len(layouts))
	copy(kept, layouts)
	return &PipelineResources{device: d, handle: handle, layouts: kept, pushConstants: push, name: name}, nil
}

func (p *PipelineResources) Layouts() []vireo.DescriptorLayout       { return p.layouts }
func (p *PipelineResources) PushConstants() vireo.PushConstantsDesc { return p.pushConstants }

func (p *PipelineResources) Destroy() {
	if p.handle == 0 {
		return
	}
	d, handle := p.device, p.handle
	p.handle = 0
	d.release("pipeline resources "+p.name, func() { d.cmds.DestroyPipelineLayout(d.handle, handle, nil) })
}

// Pipeline is a graphic or compute VkPipeline.
type Pipeline struct {
	device       *Device
	handle       vk.Pipeline
	pipelineType vireo.PipelineType
	resources    *PipelineResources
	name         string
}

func (p *Pipeline) Type() vireo.PipelineType            { return p.pipelineType }
func (p *Pipeline) Resources() vireo.PipelineResources { return p.resources }
func (p *Pipeline) Name() string                       { return p.name }

func (p *Pipeline) bindPoint() vk.PipelineBindPoint {
	if p.pipelineType == vireo.PipelineTypeCompute {
		return vk.PipelineBindPointCompute
	}
	return vk.PipelineBindPointGraphics
}

func (p *Pipeline) Destroy() {
	if p.handle == 0 {
		return
	}
	d, handle := p.device, p.handle
	p.handle = 0
	d.release("pipeline "+p.name, func() { d.cmds.DestroyPipeline(d.handle, handle, nil) })
}

func asShader(m vireo.ShaderModule, what, name string) (*ShaderModule, error) {
	s, ok := m.(*ShaderModule)
	if !ok || s == nil || s.handle == 0 {
		return nil, fmt.Errorf("vulkan: pipeline %q: %s shader: %w", name, what, vireo.ErrDestroyed)
	}
	return s, nil
}

func asResources(r vireo.PipelineResources, name string) (*PipelineResources, error) {
	res, ok := r.(*PipelineResources)
	if !ok || res == nil || res.handle == 0 {
		return nil, fmt.Errorf("vulkan: pipeline %q: resources: %w", name, vireo.ErrDestroyed)
	}
	return res, nil
}

// vertexInput translates a vertex layout into one per-vertex binding with
// attribute locations in declaration order.
func vertexInput(l *vireo.VertexInputLayout) ([]vk.VertexInputBindingDescription, []vk.VertexInputAttributeDescription) {
	if l == nil {
		return nil, nil
	}
	bindings := []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    l.Stride(),
		InputRate: vk.VertexInputRateVertex,
	}}
	attrs := l.Attributes()
	out := make([]vk.VertexInputAttributeDescription, len(attrs))
	for i, a := range attrs {
		out[i] = vk.VertexInputAttributeDescription{
			Location: uint32(i),
			Binding:  0,
			Format:   attributeFormatMap[a.Format],
			Offset:   a.Offset,
		}
	}
	return bindings, out
}

// blendAttachments returns one blend state per color format.
func blendAttachments(cfg vireo.GraphicPipelineConfig) []vk.PipelineColorBlendAttachmentState {
	out := make([]vk.PipelineColorBlendAttachmentState, len(cfg.ColorFormats))
	for i := range out {
		b := vireo.DefaultColorBlend()
		if i < len(cfg.ColorBlend) {
			b = cfg.ColorBlend[i]
		}
		out[i] = vk.PipelineColorBlendAttachmentState{
			BlendEnable:         bool32(b.BlendEnable),
			SrcColorBlendFactor: blendFactorMap[b.SrcColorBlendFactor],
			DstColorBlendFactor: blendFactorMap[b.DstColorBlendFactor],
			ColorBlendOp:        blendOpMap[b.ColorBlendOp],
			SrcAlphaBlendFactor: blendFactorMap[b.SrcAlphaBlendFactor],
			DstAlphaBlendFactor: blendFactorMap[b.DstAlphaBlendFactor],
			AlphaBlendOp:        blendOpMap[b.AlphaBlendOp],
			ColorWriteMask:      colorWriteMaskToVk(b.WriteMask),
		}
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

	vsEntry, fsEntry := cString(vs.entryPoint), cString(fs.entryPoint)
	shaderStages := []vk.PipelineShaderStageCreateInfo{
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: vs.handle,
			PName:  uintptr(unsafe.Pointer(&vsEntry[0])),
		},
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: fs.handle,
			PName:  uintptr(unsafe.Pointer(&fsEntry[0])),
		},
	}

	bindings, attrs := vertexInput(cfg.VertexLayout)
	vertexState := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(bindings)),
		VertexAttributeDescriptionCount: uint32(len(attrs)),
	}
	if len(bindings) > 0 {
		vertexState.PVertexBindingDescriptions = &bindings[0]
	}
	if len(attrs) > 0 {
		vertexState.PVertexAttributeDescriptions = &attrs[0]
	}

	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology: topologyMap[cfg.Topology],
	}
	// Viewport and scissor are dynamic; only the counts are baked in.
	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}
	frontFace := vk.FrontFaceClockwise
	if cfg.FrontFaceCCW {
		frontFace = vk.FrontFaceCounterClockwise
	}
	raster := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		PolygonMode:             polygonModeToVk(cfg.PolygonMode),
		CullMode:                cullModeToVk(cfg.CullMode),
		FrontFace:               frontFace,
		DepthBiasEnable:         bool32(cfg.DepthBiasEnable),
		DepthBiasConstantFactor: cfg.DepthBias,
		DepthBiasSlopeFactor:    cfg.DepthBiasSlope,
		LineWidth:               1,
	}
	multisample := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples:  sampleCount(cfg.MSAA),
		AlphaToCoverageEnable: bool32(cfg.AlphaToCoverage),
	}
	depthStencil := vk.PipelineDepthStencilStateCreateInfo{
		SType:             vk.StructureTypePipelineDepthStencilStateCreateInfo,
		DepthTestEnable:   bool32(cfg.DepthTestEnable),
		DepthWriteEnable:  bool32(cfg.DepthWriteEnable),
		DepthCompareOp:    compareOpMap[cfg.DepthCompare],
		StencilTestEnable: bool32(cfg.StencilTestEnable),
		Front:             stencilStateToVk(cfg.FrontStencil),
		Back:              stencilStateToVk(cfg.BackStencil),
		MaxDepthBounds:    1,
	}
	blends := blendAttachments(cfg)
	colorBlend := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		AttachmentCount: uint32(len(blends)),
	}
	if len(blends) > 0 {
		colorBlend.PAttachments = &blends[0]
	}
	dynamicStates := []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}
	dynamic := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(dynamicStates)),
		PDynamicStates:    &dynamicStates[0],
	}

	colorFormats := make([]vk.Format, len(cfg.ColorFormats))
	for i, f := range cfg.ColorFormats {
		colorFormats[i] = imageFormatToVk(f)
	}
	rendering := vk.PipelineRenderingCreateInfo{
		SType:                vk.StructureTypePipelineRenderingCreateInfo,
		ColorAttachmentCount: uint32(len(colorFormats)),
	}
	if len(colorFormats) > 0 {
		rendering.PColorAttachmentFormats = &colorFormats[0]
	}
	if cfg.DepthFormat != vireo.ImageFormatUndefined {
		rendering.DepthAttachmentFormat = imageFormatToVk(cfg.DepthFormat)
		if cfg.DepthFormat.HasStencil() {
			rendering.StencilAttachmentFormat = rendering.DepthAttachmentFormat
		}
	}

	info := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		PNext:               (*uintptr)(unsafe.Pointer(&rendering)),
		StageCount:          uint32(len(shaderStages)),
		PStages:             &shaderStages[0],
		PVertexInputState:   &vertexState,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &raster,
		PMultisampleState:   &multisample,
		PDepthStencilState:  &depthStencil,
		PColorBlendState:    &colorBlend,
		PDynamicState:       &dynamic,
		Layout:              res.handle,
		BasePipelineIndex:   -1,
	}
	var handle vk.Pipeline
	r := d.cmds.CreateGraphicsPipelines(d.handle, 0, 1, &info, nil, &handle)
	runtime.KeepAlive(vsEntry)
	runtime.KeepAlive(fsEntry)
	runtime.KeepAlive(bindings)
	runtime.KeepAlive(attrs)
	runtime.KeepAlive(blends)
	runtime.KeepAlive(dynamicStates)
	runtime.KeepAlive(colorFormats)
	if r != vk.Success {
		return nil, resultError("vkCreateGraphicsPipelines "+cfg.Name, r)
	}
	d.setObjectName(vk.ObjectTypePipeline, uint64(handle), cfg.Name)
	return &Pipeline{device: d, handle: handle, pipelineType: vireo.PipelineTypeGraphic, resources: res, name: cfg.Name}, nil
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
	entry := cString(cs.entryPoint)
	info := vk.ComputePipelineCreateInfo{
		SType: vk.StructureTypeComputePipelineCreateInfo,
		Stage: vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageComputeBit,
			Module: cs.handle,
			PName:  uintptr(unsafe.Pointer(&entry[0])),
		},
		Layout:            res.handle,
		BasePipelineIndex: -1,
	}
	var handle vk.Pipeline
	r := d.cmds.CreateComputePipelines(d.handle, 0, 1, &info, nil, &handle)
	runtime.KeepAlive(entry)
	if r != vk.Success {
		return nil, resultError("vkCreateComputePipelines "+name, r)
	}
	d.setObjectName(vk.ObjectTypePipeline, uint64(handle), name)
	return &Pipeline{device: d, handle: handle, pipelineType: vireo.PipelineTypeCompute, resources: res, name: name}, nil
}
