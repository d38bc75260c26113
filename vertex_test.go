// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
)

func TestAttributeFormatSize(t *testing.T) {
	tests := []struct {
		f          AttributeFormat
		size       uint32
		components uint32
	}{
		{AttributeFormatR32Float, 4, 1},
		{AttributeFormatR32G32Float, 8, 2},
		{AttributeFormatR32G32B32Float, 12, 3},
		{AttributeFormatR32G32B32A32Float, 16, 4},
		{AttributeFormatR32G32Sint, 8, 2},
		{AttributeFormatR32G32B32A32Uint, 16, 4},
		{AttributeFormat(99), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			if got := tt.f.Size(); got != tt.size {
				t.Errorf("Size() = %d, want %d", got, tt.size)
			}
			if got := tt.f.Components(); got != tt.components {
				t.Errorf("Components() = %d, want %d", got, tt.components)
			}
		})
	}
}

func TestNewVertexLayout(t *testing.T) {
	attrs := []VertexAttributeDesc{
		{Binding: "POSITION", Format: AttributeFormatR32G32B32Float, Offset: 0},
		{Binding: "TEXCOORD", Format: AttributeFormatR32G32Float, Offset: 12},
		{Binding: "COLOR", Format: AttributeFormatR32G32B32A32Float, Offset: 20},
	}
	l, err := NewVertexLayout(36, attrs)
	if err != nil {
		t.Fatalf("NewVertexLayout() error = %v", err)
	}
	if l.Stride() != 36 || len(l.Attributes()) != 3 {
		t.Errorf("stride = %d, attributes = %d", l.Stride(), len(l.Attributes()))
	}
	attrs[0].Binding = "CHANGED"
	if l.Attributes()[0].Binding != "POSITION" {
		t.Error("layout aliases the caller's slice")
	}

	if _, err := NewVertexLayout(32, attrs); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("attribute past stride error = %v, want ErrOutOfRange", err)
	}
	if _, err := NewVertexLayout(0, nil); err == nil {
		t.Error("zero stride accepted")
	}
	bad := []VertexAttributeDesc{{Binding: "X", Format: AttributeFormat(-1)}}
	if _, err := NewVertexLayout(16, bad); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestDrawableExtent(t *testing.T) {
	tests := []struct {
		name string
		w    gpucontext.WindowProvider
		want Extent
	}{
		{"nil", nil, Extent{}},
		{"plain", gpucontext.NullWindowProvider{W: 800, H: 600}, Extent{Width: 800, Height: 600}},
		{"hidpi", gpucontext.NullWindowProvider{W: 512, H: 384, SF: 2}, Extent{Width: 1024, Height: 768}},
		{"minimized", gpucontext.NullWindowProvider{W: 0, H: 0}, Extent{}},
		{"negative", gpucontext.NullWindowProvider{W: -1, H: 10}, Extent{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DrawableExtent(tt.w); got != tt.want {
				t.Errorf("DrawableExtent() = %v, want %v", got, tt.want)
			}
		})
	}
}
