//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"errors"
	"testing"

	"github.com/gogpu/vireo"
	"github.com/gogpu/vireo/internal/descheap"
)

func TestReserveCoversGappedBindings(t *testing.T) {
	pool := &descriptorPool{
		resources: descheap.New("resources", 16, 0, 1),
		samplers:  descheap.New("samplers", 16, 0, 1),
	}
	l := &DescriptorLayout{DescriptorLayoutState: vireo.NewDescriptorLayoutState("gapped", false)}
	if err := l.Add(0, vireo.DescriptorTypeUniform, 1); err != nil {
		t.Fatal(err)
	}
	if err := l.Add(4, vireo.DescriptorTypeSampledImage, 1); err != nil {
		t.Fatal(err)
	}

	span, err := pool.reserve(l)
	if err != nil {
		t.Fatal(err)
	}
	if span.Count != 5 {
		t.Errorf("reserved %d slots, want 5", span.Count)
	}
	tests := []struct {
		index   uint32
		wantErr error
	}{
		{0, nil},
		{4, nil},
		{5, vireo.ErrOutOfRange},
	}
	for _, tt := range tests {
		_, err := pool.resources.Handle(span, tt.index)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Handle(%d) = %v, want %v", tt.index, err, tt.wantErr)
		}
	}

	// A second set starts after the first one's last slot.
	next, err := pool.reserve(l)
	if err != nil {
		t.Fatal(err)
	}
	if next.Offset < span.End() {
		t.Errorf("second set at %d overlaps first [%d, %d)", next.Offset, span.Offset, span.End())
	}
}
