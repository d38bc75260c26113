//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"testing"

	"github.com/gogpu/vireo"
	"github.com/gogpu/vireo/internal/framesync"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

func TestVertexInput(t *testing.T) {
	layout, err := vireo.NewVertexLayout(20, []vireo.VertexAttributeDesc{
		{Binding: "POSITION", Format: vireo.AttributeFormatR32G32B32Float, Offset: 0},
		{Binding: "TEXCOORD", Format: vireo.AttributeFormatR32G32Float, Offset: 12},
	})
	if err != nil {
		t.Fatal(err)
	}
	bindings, attrs := vertexInput(layout)
	if len(bindings) != 1 || bindings[0].Stride != 20 || bindings[0].InputRate != vk.VertexInputRateVertex {
		t.Fatalf("bindings = %+v", bindings)
	}
	if len(attrs) != 2 {
		t.Fatalf("len(attrs) = %d, want 2", len(attrs))
	}
	if attrs[1].Location != 1 || attrs[1].Offset != 12 || attrs[1].Format != vk.FormatR32g32Sfloat {
		t.Errorf("attrs[1] = %+v", attrs[1])
	}

	if b, a := vertexInput(nil); b != nil || a != nil {
		t.Error("nil layout should have no vertex input")
	}
}

func TestBlendAttachmentsDefault(t *testing.T) {
	custom := vireo.DefaultColorBlend()
	custom.BlendEnable = true
	custom.SrcColorBlendFactor = vireo.BlendFactorSrcAlpha
	custom.DstColorBlendFactor = vireo.BlendFactorOneMinusSrcAlpha

	cfg := vireo.GraphicPipelineConfig{
		ColorFormats: []vireo.ImageFormat{vireo.ImageFormatR8G8B8A8Unorm, vireo.ImageFormatR16G16B16A16Sfloat},
		ColorBlend:   []vireo.ColorBlendDesc{custom},
	}
	got := blendAttachments(cfg)
	if len(got) != 2 {
		t.Fatalf("len = %d, want one per color format", len(got))
	}
	if got[0].BlendEnable != vk.Bool32(vk.True) || got[0].DstColorBlendFactor != vk.BlendFactorOneMinusSrcAlpha {
		t.Errorf("attachment 0 = %+v", got[0])
	}
	def := vireo.DefaultColorBlend()
	if got[1].BlendEnable != bool32(def.BlendEnable) || got[1].ColorWriteMask != colorWriteMaskToVk(def.WriteMask) {
		t.Errorf("attachment 1 does not use the default blend: %+v", got[1])
	}
}

func TestClampExtent(t *testing.T) {
	fixed := vk.SurfaceCapabilitiesKHR{CurrentExtent: vk.Extent2D{Width: 800, Height: 600}}
	if got := clampExtent(vireo.Extent{Width: 1024, Height: 768}, &fixed); got != fixed.CurrentExtent {
		t.Errorf("fixed surface: got %+v, want current extent", got)
	}

	free := vk.SurfaceCapabilitiesKHR{
		CurrentExtent:  vk.Extent2D{Width: ^uint32(0), Height: ^uint32(0)},
		MinImageExtent: vk.Extent2D{Width: 16, Height: 16},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 2048},
	}
	tests := []struct {
		in   vireo.Extent
		want vk.Extent2D
	}{
		{vireo.Extent{Width: 1024, Height: 768}, vk.Extent2D{Width: 1024, Height: 768}},
		{vireo.Extent{Width: 8, Height: 9000}, vk.Extent2D{Width: 16, Height: 2048}},
	}
	for _, tt := range tests {
		if got := clampExtent(tt.in, &free); got != tt.want {
			t.Errorf("clampExtent(%s) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestImageCount(t *testing.T) {
	tests := []struct {
		min, max, want uint32
	}{
		{2, 0, 3},
		{2, 8, 3},
		{3, 3, 3},
	}
	for _, tt := range tests {
		caps := vk.SurfaceCapabilitiesKHR{MinImageCount: tt.min, MaxImageCount: tt.max}
		if got := imageCount(&caps); got != tt.want {
			t.Errorf("imageCount(min %d, max %d) = %d, want %d", tt.min, tt.max, got, tt.want)
		}
	}
}

func TestPresentStatus(t *testing.T) {
	tests := []struct {
		r    vk.Result
		want framesync.Status
		ok   bool
	}{
		{vk.Success, framesync.StatusOK, true},
		{vk.SuboptimalKhr, framesync.StatusSuboptimal, true},
		{vk.ErrorOutOfDateKhr, framesync.StatusOutOfDate, true},
		{vk.ErrorDeviceLost, 0, false},
	}
	for _, tt := range tests {
		got, ok := presentStatus(tt.r)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("presentStatus(%d) = %s, %v; want %s, %v", tt.r, got, ok, tt.want, tt.ok)
		}
	}
}
