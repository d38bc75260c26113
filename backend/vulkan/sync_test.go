//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"testing"

	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

func TestCompletedValue(t *testing.T) {
	tests := []struct {
		name string
		v    uint64
		r    vk.Result
		want uint64
	}{
		{"success", 42, vk.Success, 42},
		{"device lost", 7, vk.ErrorDeviceLost, ^uint64(0)},
		{"out of memory", 7, vk.ErrorOutOfHostMemory, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := completedValue(tt.v, tt.r); got != tt.want {
				t.Errorf("completedValue(%d, %v) = %d, want %d", tt.v, tt.r, got, tt.want)
			}
		})
	}
}
