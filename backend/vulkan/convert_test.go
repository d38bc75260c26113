//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"testing"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

func TestImageFormatRoundTrip(t *testing.T) {
	tests := []struct {
		format vireo.ImageFormat
		native vk.Format
	}{
		{vireo.ImageFormatR8G8B8A8Unorm, vk.FormatR8g8b8a8Unorm},
		{vireo.ImageFormatB8G8R8A8Srgb, vk.FormatB8g8r8a8Srgb},
		{vireo.ImageFormatD32Sfloat, vk.FormatD32Sfloat},
		{vireo.ImageFormatBC7Unorm, vk.FormatBc7UnormBlock},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := imageFormatToVk(tt.format); got != tt.native {
				t.Errorf("imageFormatToVk = %d, want %d", got, tt.native)
			}
			if got := imageFormatFromVk(tt.native); got != tt.format {
				t.Errorf("imageFormatFromVk = %s, want %s", got, tt.format)
			}
		})
	}
}

func TestImageFormatX8MapsToA8(t *testing.T) {
	if got := imageFormatToVk(vireo.ImageFormatB8G8R8X8Unorm); got != vk.FormatB8g8r8a8Unorm {
		t.Errorf("B8G8R8X8Unorm -> %d, want B8g8r8a8Unorm", got)
	}
	if got := imageFormatFromVk(vk.FormatB8g8r8a8Unorm); got != vireo.ImageFormatB8G8R8A8Unorm {
		t.Errorf("reverse = %s, want B8G8R8A8Unorm", got)
	}
	if got := imageFormatToVk(vireo.ImageFormat(250)); got != vk.FormatUndefined {
		t.Errorf("unknown format -> %d, want FormatUndefined", got)
	}
}

func TestBarrierStatesComplete(t *testing.T) {
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
		b, ok := barrierStates[s]
		if !ok {
			t.Errorf("%s has no barrier state", s)
			continue
		}
		if b.stage == 0 {
			t.Errorf("%s has no pipeline stage", s)
		}
	}
	if got := barrierStates[vireo.ResourceStatePresent].layout; got != vk.ImageLayoutPresentSrcKhr {
		t.Errorf("Present layout = %d, want PresentSrcKhr", got)
	}
}

func TestBufferUsage(t *testing.T) {
	tests := []struct {
		t    vireo.BufferType
		want vk.BufferUsageFlagBits
	}{
		{vireo.BufferTypeVertex, vk.BufferUsageVertexBufferBit | vk.BufferUsageTransferDstBit},
		{vireo.BufferTypeUniform, vk.BufferUsageUniformBufferBit},
		{vireo.BufferTypeBufferUpload, vk.BufferUsageTransferSrcBit},
		{vireo.BufferTypeImageDownload, vk.BufferUsageTransferDstBit},
	}
	for _, tt := range tests {
		t.Run(tt.t.String(), func(t *testing.T) {
			if got := bufferUsageToVk(tt.t); got != vk.BufferUsageFlags(tt.want) {
				t.Errorf("bufferUsageToVk = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestShaderStages(t *testing.T) {
	got := shaderStagesToVk(vireo.ShaderStageVertex | vireo.ShaderStageCompute)
	want := vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageComputeBit)
	if got != want {
		t.Errorf("shaderStagesToVk = %#x, want %#x", got, want)
	}
	if shaderStagesToVk(0) != 0 {
		t.Error("no stages should map to 0")
	}
}

func TestAspectMask(t *testing.T) {
	tests := []struct {
		f    vireo.ImageFormat
		want vk.ImageAspectFlagBits
	}{
		{vireo.ImageFormatR8G8B8A8Unorm, vk.ImageAspectColorBit},
		{vireo.ImageFormatD32Sfloat, vk.ImageAspectDepthBit},
		{vireo.ImageFormatD24UnormS8Uint, vk.ImageAspectDepthBit | vk.ImageAspectStencilBit},
	}
	for _, tt := range tests {
		if got := aspectMask(tt.f); got != vk.ImageAspectFlags(tt.want) {
			t.Errorf("aspectMask(%s) = %#x, want %#x", tt.f, got, tt.want)
		}
	}
}

func TestSampleCount(t *testing.T) {
	if got := sampleCount(0); got != vk.SampleCountFlagBits(1) {
		t.Errorf("sampleCount(0) = %d, want 1", got)
	}
	if got := sampleCount(vireo.MSAA4x); got != vk.SampleCountFlagBits(4) {
		t.Errorf("sampleCount(4x) = %d, want 4", got)
	}
}

func TestPresentMode(t *testing.T) {
	if got := presentModeToVk(vireo.PresentModeImmediate); got != vk.PresentModeImmediateKhr {
		t.Errorf("Immediate -> %d", got)
	}
	if got := presentModeToVk(vireo.PresentModeVSync); got != vk.PresentModeFifoKhr {
		t.Errorf("VSync -> %d", got)
	}
}
