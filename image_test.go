// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"errors"
	"testing"
)

func TestRowPitch(t *testing.T) {
	tests := []struct {
		f         ImageFormat
		width     uint32
		pitch     uint32
		rowLength uint32
	}{
		{ImageFormatR8G8B8A8Unorm, 100, 400, 100},
		{ImageFormatR8Unorm, 3, 3, 3},
		{ImageFormatR32G32B32A32Sfloat, 7, 112, 7},
		{ImageFormatD32Sfloat, 640, 2560, 640},
		{ImageFormatBC1Unorm, 1, 8, 4},
		{ImageFormatBC1Unorm, 4, 8, 4},
		{ImageFormatBC1Unorm, 5, 16, 8},
		{ImageFormatBC3Unorm, 256, 1024, 256},
		{ImageFormatBC7Unorm, 13, 64, 16},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			if got := RowPitch(tt.f, tt.width); got != tt.pitch {
				t.Errorf("RowPitch(%d) = %d, want %d", tt.width, got, tt.pitch)
			}
			if got := RowLength(tt.f, tt.width); got != tt.rowLength {
				t.Errorf("RowLength(%d) = %d, want %d", tt.width, got, tt.rowLength)
			}
		})
	}
}

func TestRowPitchProperties(t *testing.T) {
	for f := ImageFormatR8Unorm; f < imageFormatCount; f++ {
		prev := uint32(0)
		for w := uint32(1); w <= 64; w++ {
			pitch := RowPitch(f, w)
			if pitch < prev {
				t.Fatalf("%s: RowPitch(%d) = %d < RowPitch(%d) = %d", f, w, pitch, w-1, prev)
			}
			prev = pitch

			var want uint32
			if f.IsBlockCompressed() {
				want = (w + 3) / 4 * f.PixelSize()
			} else {
				want = w * f.PixelSize()
			}
			if pitch != want {
				t.Fatalf("%s: RowPitch(%d) = %d, want %d", f, w, pitch, want)
			}
		}

		a, _ := NewImageState(ImageDesc{Format: f, Width: 37, Height: 1})
		b, _ := NewImageState(ImageDesc{Format: f, Width: 37, Height: 512})
		if a.RowPitch(0) != b.RowPitch(0) {
			t.Errorf("%s: row pitch depends on height", f)
		}
	}
}

func TestNewImageState(t *testing.T) {
	s, err := NewImageState(ImageDesc{Format: ImageFormatR8G8B8A8Unorm, Width: 256, Height: 128, Name: "albedo"})
	if err != nil {
		t.Fatal(err)
	}
	if s.MipLevels() != 1 || s.ArraySize() != 1 {
		t.Errorf("mips = %d, layers = %d; want defaults 1, 1", s.MipLevels(), s.ArraySize())
	}
	if got := s.MipExtent(3); got != (Extent{Width: 32, Height: 16}) {
		t.Errorf("MipExtent(3) = %v", got)
	}
	if got := s.MipExtent(20); got != (Extent{Width: 1, Height: 1}) {
		t.Errorf("MipExtent(20) = %v, want 1x1", got)
	}
	if got := s.ImageSize(0); got != 256*128*4 {
		t.Errorf("ImageSize(0) = %d", got)
	}

	tests := []struct {
		name string
		desc ImageDesc
	}{
		{"undefined format", ImageDesc{Width: 4, Height: 4}},
		{"zero width", ImageDesc{Format: ImageFormatR8Unorm, Height: 4}},
		{"too many mips", ImageDesc{Format: ImageFormatR8Unorm, Width: 4, Height: 4, MipLevels: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewImageState(tt.desc); err == nil {
				t.Error("NewImageState() error = nil")
			}
		})
	}
	_, err = NewImageState(ImageDesc{Format: ImageFormatR8Unorm, Width: 4, Height: 4, MipLevels: 4})
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("too many mips error = %v, want ErrOutOfRange", err)
	}
}

func TestBlockImageSize(t *testing.T) {
	s, err := NewImageState(ImageDesc{Format: ImageFormatBC1Unorm, Width: 10, Height: 6})
	if err != nil {
		t.Fatal(err)
	}
	// 3x2 blocks of 8 bytes.
	if got := s.ImageSize(0); got != 48 {
		t.Errorf("ImageSize(0) = %d, want 48", got)
	}
	if got := s.RowLength(0); got != 12 {
		t.Errorf("RowLength(0) = %d, want 12", got)
	}
}

func TestMaxMipLevels(t *testing.T) {
	tests := []struct{ w, h, want uint32 }{
		{1, 1, 1},
		{2, 1, 2},
		{256, 256, 9},
		{1024, 512, 11},
		{1000, 1, 10},
	}
	for _, tt := range tests {
		if got := MaxMipLevels(tt.w, tt.h); got != tt.want {
			t.Errorf("MaxMipLevels(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderTargetDescValidate(t *testing.T) {
	tests := []struct {
		name    string
		desc    RenderTargetDesc
		wantErr bool
	}{
		{"color", RenderTargetDesc{Type: RenderTargetTypeColor, Format: ImageFormatR8G8B8A8Unorm}, false},
		{"color msaa", RenderTargetDesc{Type: RenderTargetTypeColor, Format: ImageFormatR16G16B16A16Sfloat, MSAA: MSAA4x}, false},
		{"depth", RenderTargetDesc{Type: RenderTargetTypeDepth, Format: ImageFormatD32Sfloat}, false},
		{"depth with stencil format", RenderTargetDesc{Type: RenderTargetTypeDepth, Format: ImageFormatD24UnormS8Uint}, false},
		{"depth stencil", RenderTargetDesc{Type: RenderTargetTypeDepthStencil, Format: ImageFormatD32SfloatS8Uint}, false},
		{"color with depth format", RenderTargetDesc{Type: RenderTargetTypeColor, Format: ImageFormatD32Sfloat}, true},
		{"depth with color format", RenderTargetDesc{Type: RenderTargetTypeDepth, Format: ImageFormatR8G8B8A8Unorm}, true},
		{"depth stencil without stencil", RenderTargetDesc{Type: RenderTargetTypeDepthStencil, Format: ImageFormatD32Sfloat}, true},
		{"three samples", RenderTargetDesc{Type: RenderTargetTypeColor, Format: ImageFormatR8G8B8A8Unorm, MSAA: 3}, true},
		{"unknown type", RenderTargetDesc{Type: RenderTargetType(9), Format: ImageFormatR8G8B8A8Unorm}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.desc.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	if (RenderTargetDesc{}).Samples() != MSAANone {
		t.Error("zero MSAA is not MSAANone")
	}
}

func TestUploadLayout(t *testing.T) {
	s, err := NewImageState(ImageDesc{Format: ImageFormatR8G8B8A8Unorm, Width: 4, Height: 4, MipLevels: 3, ArraySize: 2})
	if err != nil {
		t.Fatal(err)
	}
	want := []Subresource{
		{Mip: 0, Layer: 0, Offset: 0, Size: 64},
		{Mip: 1, Layer: 0, Offset: 64, Size: 16},
		{Mip: 2, Layer: 0, Offset: 80, Size: 4},
		{Mip: 0, Layer: 1, Offset: 84, Size: 64},
		{Mip: 1, Layer: 1, Offset: 148, Size: 16},
		{Mip: 2, Layer: 1, Offset: 164, Size: 4},
	}
	got := s.UploadLayout()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if size := s.UploadSize(); size != 168 {
		t.Errorf("UploadSize = %d, want 168", size)
	}
}
