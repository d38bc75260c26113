//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"errors"
	"testing"

	"github.com/gogpu/vireo"
)

func TestCheckImageCopy(t *testing.T) {
	state, err := vireo.NewImageState(vireo.ImageDesc{
		Format: vireo.ImageFormatR8G8B8A8Unorm, Width: 16, Height: 16, MipLevels: 2, Name: "tex",
	})
	if err != nil {
		t.Fatal(err)
	}
	img := &Image{ImageState: state}
	buffer := func(size uint32) *Buffer {
		bs, err := vireo.NewBufferState(vireo.BufferDesc{Type: vireo.BufferTypeImageUpload, InstanceSize: size, Name: "staging"}, 256)
		if err != nil {
			t.Fatal(err)
		}
		return &Buffer{BufferState: bs}
	}

	tests := []struct {
		name       string
		size       uint32
		mip, layer uint32
		wantErr    bool
	}{
		{"full mip 0", 16 * 16 * 4, 0, 0, false},
		{"larger buffer", 4096, 0, 0, false},
		{"short buffer", 16*16*4 - 1, 0, 0, true},
		{"short buffer fits mip 1", 8 * 8 * 4, 1, 0, false},
		{"one byte", 1, 0, 0, true},
		{"missing mip", 4096, 2, 0, true},
		{"missing layer", 4096, 0, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkImageCopy(img, buffer(tt.size), tt.mip, tt.layer)
			if tt.wantErr {
				if !errors.Is(err, vireo.ErrOutOfRange) {
					t.Fatalf("err = %v, want ErrOutOfRange", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
		})
	}
}
