//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"testing"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
)

func TestFilterToDX(t *testing.T) {
	tests := []struct {
		name string
		desc vireo.SamplerDesc
		want d3d12.D3D12_FILTER
	}{
		{"point", vireo.SamplerDesc{}, d3d12.D3D12_FILTER_MIN_MAG_MIP_POINT},
		{"linear", vireo.SamplerDesc{
			MinFilter:  vireo.FilterLinear,
			MagFilter:  vireo.FilterLinear,
			MipMapMode: vireo.MipMapModeLinear,
		}, d3d12.D3D12_FILTER_MIN_MAG_MIP_LINEAR},
		{"min only", vireo.SamplerDesc{MinFilter: vireo.FilterLinear}, d3d12.D3D12_FILTER_MIN_LINEAR_MAG_MIP_POINT},
		{"anisotropic", vireo.SamplerDesc{MaxAnisotropy: 8}, d3d12.D3D12_FILTER_ANISOTROPIC},
		{"comparison", vireo.SamplerDesc{
			MinFilter:     vireo.FilterLinear,
			MagFilter:     vireo.FilterLinear,
			MipMapMode:    vireo.MipMapModeLinear,
			CompareEnable: true,
		}, d3d12.D3D12_FILTER_COMPARISON_MIN_MAG_MIP_LINEAR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filterToDX(tt.desc); got != tt.want {
				t.Errorf("filterToDX = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestAlphaBlendFactorDropsColor(t *testing.T) {
	tests := []struct {
		in   vireo.BlendFactor
		want d3d12.D3D12_BLEND
	}{
		{vireo.BlendFactorSrcColor, d3d12.D3D12_BLEND_SRC_ALPHA},
		{vireo.BlendFactorOneMinusSrcColor, d3d12.D3D12_BLEND_INV_SRC_ALPHA},
		{vireo.BlendFactorDstColor, d3d12.D3D12_BLEND_DEST_ALPHA},
		{vireo.BlendFactorOneMinusDstColor, d3d12.D3D12_BLEND_INV_DEST_ALPHA},
		{vireo.BlendFactorOne, d3d12.D3D12_BLEND_ONE},
		{vireo.BlendFactorOneMinusSrcAlpha, d3d12.D3D12_BLEND_INV_SRC_ALPHA},
	}
	for _, tt := range tests {
		if got := alphaBlendFactor(tt.in); got != tt.want {
			t.Errorf("alphaBlendFactor(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestResourceStatesComplete(t *testing.T) {
	states := []vireo.ResourceState{
		vireo.ResourceStateUndefined,
		vireo.ResourceStateGeneral,
		vireo.ResourceStateRenderTargetColor,
		vireo.ResourceStateRenderTargetDepth,
		vireo.ResourceStateRenderTargetDepthRead,
		vireo.ResourceStateRenderTargetDepthStencil,
		vireo.ResourceStateRenderTargetDepthStencilRead,
		vireo.ResourceStatePresent,
		vireo.ResourceStateCopySrc,
		vireo.ResourceStateCopyDst,
		vireo.ResourceStateShaderRead,
		vireo.ResourceStateComputeRead,
		vireo.ResourceStateComputeWrite,
		vireo.ResourceStateIndirectDraw,
		vireo.ResourceStateVertexInput,
		vireo.ResourceStateUniform,
	}
	for _, s := range states {
		if _, ok := resourceStateMap[s]; !ok {
			t.Errorf("no native state for %s", s)
		}
	}
}

func TestTransitionSkipsEqualStates(t *testing.T) {
	if _, ok := transition(nil, vireo.ResourceStateUndefined, vireo.ResourceStateGeneral); ok {
		t.Error("Undefined -> General should need no barrier")
	}
	if _, ok := transition(nil, vireo.ResourceStateCopyDst, vireo.ResourceStateShaderRead); !ok {
		t.Error("CopyDst -> ShaderRead should need a barrier")
	}
	b, ok := transition(nil, vireo.ResourceStateComputeWrite, vireo.ResourceStateComputeWrite)
	if !ok || b.Type != d3d12.D3D12_RESOURCE_BARRIER_TYPE_UAV {
		t.Errorf("ComputeWrite -> ComputeWrite = %v, %v, want a UAV barrier", b.Type, ok)
	}
}

func TestViewFormats(t *testing.T) {
	depth := viewFormats(vireo.ImageFormatD32Sfloat)
	if depth.resource != d3d12.DXGI_FORMAT_R32_TYPELESS ||
		depth.dsv != d3d12.DXGI_FORMAT_D32_FLOAT ||
		depth.srv != d3d12.DXGI_FORMAT_R32_FLOAT {
		t.Errorf("D32Sfloat formats = %+v", depth)
	}
	color := viewFormats(vireo.ImageFormatR8G8B8A8Srgb)
	if color.resource != d3d12.DXGI_FORMAT_R8G8B8A8_UNORM_SRGB || color.srv != color.resource || color.dsv != color.resource {
		t.Errorf("R8G8B8A8Srgb formats = %+v", color)
	}
}

func TestSwapChainFormat(t *testing.T) {
	buf, img, ok := swapChainFormat(vireo.ImageFormatB8G8R8A8Srgb)
	if !ok || buf != d3d12.DXGI_FORMAT_B8G8R8A8_UNORM || img != vireo.ImageFormatB8G8R8A8Srgb {
		t.Errorf("B8G8R8A8Srgb = %d, %s, %v", buf, img, ok)
	}
	buf, img, ok = swapChainFormat(vireo.ImageFormatR32Sfloat)
	if ok || buf != d3d12.DXGI_FORMAT_B8G8R8A8_UNORM || img != vireo.ImageFormatB8G8R8A8Srgb {
		t.Errorf("R32Sfloat fallback = %d, %s, %v", buf, img, ok)
	}
}

func TestBufferHeapFor(t *testing.T) {
	tests := []struct {
		t    vireo.BufferType
		heap d3d12.D3D12_HEAP_TYPE
		uav  bool
	}{
		{vireo.BufferTypeVertex, d3d12.D3D12_HEAP_TYPE_DEFAULT, false},
		{vireo.BufferTypeUniform, d3d12.D3D12_HEAP_TYPE_UPLOAD, false},
		{vireo.BufferTypeBufferDownload, d3d12.D3D12_HEAP_TYPE_READBACK, false},
		{vireo.BufferTypeImageDownload, d3d12.D3D12_HEAP_TYPE_READBACK, false},
		{vireo.BufferTypeDeviceStorage, d3d12.D3D12_HEAP_TYPE_DEFAULT, true},
		{vireo.BufferTypeReadWriteStorage, d3d12.D3D12_HEAP_TYPE_DEFAULT, true},
		{vireo.BufferTypeIndirect, d3d12.D3D12_HEAP_TYPE_DEFAULT, true},
	}
	for _, tt := range tests {
		t.Run(tt.t.String(), func(t *testing.T) {
			h := bufferHeapFor(tt.t)
			if h.heap != tt.heap {
				t.Errorf("heap = %d, want %d", h.heap, tt.heap)
			}
			if uav := h.flags&d3d12.D3D12_RESOURCE_FLAG_ALLOW_UNORDERED_ACCESS != 0; uav != tt.uav {
				t.Errorf("unordered access = %v, want %v", uav, tt.uav)
			}
		})
	}
}

func TestSemantic(t *testing.T) {
	tests := []struct {
		in    string
		name  string
		index uint32
	}{
		{"POSITION", "POSITION", 0},
		{"TEXCOORD1", "TEXCOORD", 1},
		{"COLOR12", "COLOR", 12},
		{"42", "42", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			name, index := semantic(tt.in)
			if name != tt.name || index != tt.index {
				t.Errorf("semantic(%q) = %q, %d, want %q, %d", tt.in, name, index, tt.name, tt.index)
			}
		})
	}
}

func TestPackWords(t *testing.T) {
	got := packWords([]byte{1, 2, 3, 4, 5})
	want := []uint32{0x04030201, 0x05}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestPlanCopyAlignsRows(t *testing.T) {
	state, err := vireo.NewImageState(vireo.ImageDesc{
		Format:    vireo.ImageFormatR8G8B8A8Unorm,
		Width:     100,
		Height:    10,
		MipLevels: 2,
		Name:      "plan",
	})
	if err != nil {
		t.Fatal(err)
	}
	img := &Image{ImageState: state, formats: viewFormats(vireo.ImageFormatR8G8B8A8Unorm)}
	plan := planCopy(img, img.UploadLayout())

	// 400 byte rows pad to 512, 200 byte rows to 256.
	if plan.pitches[0] != 512 || plan.pitches[1] != 256 {
		t.Errorf("pitches = %v, want [512 256]", plan.pitches)
	}
	if plan.offsets[0] != 0 || plan.offsets[1] != 5120 {
		t.Errorf("offsets = %v, want [0 5120]", plan.offsets)
	}
	if plan.size != 5120+5*256 {
		t.Errorf("size = %d, want %d", plan.size, 5120+5*256)
	}
	for i, off := range plan.offsets {
		if off%textureDataPlacementAlignment != 0 {
			t.Errorf("offset %d = %d is not placement aligned", i, off)
		}
	}
}
