//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

func qflags(bits ...vk.QueueFlagBits) vk.QueueFlags {
	var f vk.QueueFlags
	for _, b := range bits {
		f |= vk.QueueFlags(b)
	}
	return f
}

func TestPickQueueFamilies(t *testing.T) {
	gfx := qflags(vk.QueueGraphicsBit, vk.QueueComputeBit, vk.QueueTransferBit)
	comp := qflags(vk.QueueComputeBit, vk.QueueTransferBit)
	xfer := qflags(vk.QueueTransferBit)

	tests := []struct {
		name       string
		flags      []vk.QueueFlags
		canPresent func(uint32) bool
		want       queueFamilies
	}{
		{
			name:  "single family",
			flags: []vk.QueueFlags{gfx},
			want:  queueFamilies{},
		},
		{
			name:  "dedicated compute and transfer",
			flags: []vk.QueueFlags{gfx, comp, xfer},
			want:  queueFamilies{graphics: 0, compute: 1, transfer: 2, present: 0},
		},
		{
			name:  "transfer falls back to compute",
			flags: []vk.QueueFlags{gfx, comp},
			want:  queueFamilies{graphics: 0, compute: 1, transfer: 1, present: 0},
		},
		{
			name:       "graphics prefers a presenting family",
			flags:      []vk.QueueFlags{gfx, gfx},
			canPresent: func(f uint32) bool { return f == 1 },
			want:       queueFamilies{graphics: 1, compute: 1, transfer: 1, present: 1},
		},
		{
			name:       "separate present family",
			flags:      []vk.QueueFlags{gfx, xfer},
			canPresent: func(f uint32) bool { return f == 1 },
			want:       queueFamilies{graphics: 0, compute: 0, transfer: 1, present: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pickQueueFamilies(tt.flags, tt.canPresent)
			if err != nil {
				t.Fatalf("pickQueueFamilies: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPickQueueFamiliesErrors(t *testing.T) {
	if _, err := pickQueueFamilies([]vk.QueueFlags{qflags(vk.QueueComputeBit)}, nil); !errors.Is(err, vireo.ErrNoSuitableDevice) {
		t.Errorf("no graphics: err = %v, want ErrNoSuitableDevice", err)
	}
	never := func(uint32) bool { return false }
	if _, err := pickQueueFamilies([]vk.QueueFlags{qflags(vk.QueueGraphicsBit)}, never); !errors.Is(err, vireo.ErrNoSuitableDevice) {
		t.Errorf("no present: err = %v, want ErrNoSuitableDevice", err)
	}
}

func TestQueueFamiliesUnique(t *testing.T) {
	q := queueFamilies{graphics: 2, compute: 0, transfer: 2, present: 1}
	if got, want := q.unique(), []uint32{0, 1, 2}; !slices.Equal(got, want) {
		t.Errorf("unique = %v, want %v", got, want)
	}
	if got := q.forType(vireo.CommandTypeCompute); got != 0 {
		t.Errorf("forType(Compute) = %d, want 0", got)
	}
	if got := q.forType(vireo.CommandTypeTransfer); got != 2 {
		t.Errorf("forType(Transfer) = %d, want 2", got)
	}
	if got := q.forType(vireo.CommandTypeGraphic); got != 2 {
		t.Errorf("forType(Graphic) = %d, want 2", got)
	}
}
