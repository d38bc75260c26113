// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpuselect

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/vireo"
)

const swapchainExt = "VK_KHR_swapchain"

func candidate(name string, typ gputypes.DeviceType, maxDim uint32, geometry bool, exts ...string) Candidate {
	return Candidate{
		Info:           gputypes.AdapterInfo{Name: name, DeviceType: typ},
		Limits:         gputypes.Limits{MaxTextureDimension2D: maxDim},
		GeometryShader: geometry,
		GraphicsQueue:  true,
		Extensions:     exts,
		SwapChain:      true,
	}
}

func TestScore(t *testing.T) {
	req := Requirements{Extensions: []string{swapchainExt}, Present: true}

	tests := []struct {
		name string
		c    Candidate
		want uint32
	}{
		{"discrete", candidate("d", gputypes.DeviceTypeDiscreteGPU, 16384, true, swapchainExt), 16384 + PreferredTypeBonus},
		{"integrated", candidate("i", gputypes.DeviceTypeIntegratedGPU, 8192, true, swapchainExt), 8192 + SecondaryTypeBonus},
		{"cpu", candidate("c", gputypes.DeviceTypeCPU, 4096, true, swapchainExt), 4096},
		{"no geometry shader", candidate("g", gputypes.DeviceTypeDiscreteGPU, 16384, false, swapchainExt), 0},
		{"missing extension", candidate("e", gputypes.DeviceTypeDiscreteGPU, 16384, true), 0},
		{"zero limit still suitable", candidate("z", gputypes.DeviceTypeOther, 0, true, swapchainExt), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.c, req); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreSwapChainSupport(t *testing.T) {
	c := candidate("d", gputypes.DeviceTypeDiscreteGPU, 4096, true)
	c.SwapChain = false

	if got := Score(c, Requirements{Present: true}); got != 0 {
		t.Errorf("Score() with Present and no swap chain = %d, want 0", got)
	}
	if got := Score(c, Requirements{}); got == 0 {
		t.Error("Score() headless = 0, want > 0")
	}
}

func TestScorePreferLowPower(t *testing.T) {
	discrete := candidate("d", gputypes.DeviceTypeDiscreteGPU, 8192, true)
	integrated := candidate("i", gputypes.DeviceTypeIntegratedGPU, 8192, true)

	req := Requirements{PreferLowPower: true}
	if Score(integrated, req) <= Score(discrete, req) {
		t.Errorf("low power: integrated %d <= discrete %d", Score(integrated, req), Score(discrete, req))
	}
}

func TestSelect(t *testing.T) {
	req := Requirements{Extensions: []string{swapchainExt}, Present: true}

	tests := []struct {
		name      string
		devices   []Candidate
		wantIndex int
	}{
		{
			name: "discrete beats larger integrated",
			devices: []Candidate{
				candidate("igpu", gputypes.DeviceTypeIntegratedGPU, 16384, true, swapchainExt),
				candidate("dgpu", gputypes.DeviceTypeDiscreteGPU, 16384, true, swapchainExt),
			},
			wantIndex: 1,
		},
		{
			name: "unsuitable discrete skipped",
			devices: []Candidate{
				candidate("dgpu", gputypes.DeviceTypeDiscreteGPU, 32768, false, swapchainExt),
				candidate("igpu", gputypes.DeviceTypeIntegratedGPU, 8192, true, swapchainExt),
			},
			wantIndex: 1,
		},
		{
			name: "tie keeps enumeration order",
			devices: []Candidate{
				candidate("first", gputypes.DeviceTypeDiscreteGPU, 16384, true, swapchainExt),
				candidate("second", gputypes.DeviceTypeDiscreteGPU, 16384, true, swapchainExt),
			},
			wantIndex: 0,
		},
		{
			name: "larger image dimension wins",
			devices: []Candidate{
				candidate("small", gputypes.DeviceTypeDiscreteGPU, 8192, true, swapchainExt),
				candidate("large", gputypes.DeviceTypeDiscreteGPU, 16384, true, swapchainExt),
			},
			wantIndex: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, score, err := Select(tt.devices, req)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if idx != tt.wantIndex {
				t.Errorf("Select() index = %d, want %d", idx, tt.wantIndex)
			}
			if want := Score(tt.devices[tt.wantIndex], req); score != want {
				t.Errorf("Select() score = %d, want %d", score, want)
			}
		})
	}
}

func TestSelectAllUnsuitable(t *testing.T) {
	devices := []Candidate{
		candidate("no-gs", gputypes.DeviceTypeDiscreteGPU, 16384, false, swapchainExt),
		candidate("no-ext", gputypes.DeviceTypeIntegratedGPU, 8192, true),
	}
	_, _, err := Select(devices, Requirements{Extensions: []string{swapchainExt}})
	if !errors.Is(err, vireo.ErrNoSuitableDevice) {
		t.Fatalf("Select() error = %v, want ErrNoSuitableDevice", err)
	}
	for _, want := range []string{"no-gs: missing geometry shader", "no-ext: missing " + swapchainExt} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestSelectEmpty(t *testing.T) {
	if _, _, err := Select(nil, Requirements{}); !errors.Is(err, vireo.ErrNoSuitableDevice) {
		t.Errorf("Select(nil) error = %v, want ErrNoSuitableDevice", err)
	}
}
