// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"errors"
	"testing"
)

var errFactory = errors.New("factory failed")

func TestNewUnsupportedBackend(t *testing.T) {
	for _, b := range []Backend{BackendUndefined, Backend(42)} {
		if _, err := New(Config{Backend: b}); !errors.Is(err, ErrUnsupportedBackend) {
			t.Errorf("New(%s) error = %v, want ErrUnsupportedBackend", b, err)
		}
	}
}

func TestNewBackendNotAvailable(t *testing.T) {
	Unregister(BackendDirectX)
	if _, err := New(Config{Backend: BackendDirectX}); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("New(directx) error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Setenv("VIREO_DEBUG", "1")

	var got Config
	Register(BackendVulkan, func(cfg Config) (Vireo, error) {
		got = cfg
		return nil, errFactory
	})
	t.Cleanup(func() { Unregister(BackendVulkan) })

	_, err := New(Config{Backend: BackendVulkan, FramesInFlight: 7})
	if !errors.Is(err, errFactory) {
		t.Fatalf("New() error = %v, want factory error", err)
	}
	if got.FramesInFlight != MaxFramesInFlight {
		t.Errorf("FramesInFlight = %d, want %d", got.FramesInFlight, MaxFramesInFlight)
	}
	if !got.Debug {
		t.Error("VIREO_DEBUG=1 did not enable Debug")
	}
	if got.Tracker == nil {
		t.Error("Tracker not created")
	}
	if got.AppName != "vireo" {
		t.Errorf("AppName = %q", got.AppName)
	}
	if got.Descriptors.Resources != DefaultResourceDescriptors || got.Descriptors.Samplers != DefaultSamplerDescriptors {
		t.Errorf("Descriptors = %+v", got.Descriptors)
	}
}

func TestAvailablePriority(t *testing.T) {
	nop := func(Config) (Vireo, error) { return nil, errFactory }
	Register(BackendDirectX, nop)
	Register(BackendVulkan, nop)
	t.Cleanup(func() {
		Unregister(BackendDirectX)
		Unregister(BackendVulkan)
	})

	got := Available()
	if len(got) != 2 || got[0] != BackendVulkan || got[1] != BackendDirectX {
		t.Errorf("Available() = %v, want [vulkan directx]", got)
	}
	if DefaultBackend() != BackendVulkan {
		t.Errorf("DefaultBackend() = %s, want vulkan", DefaultBackend())
	}

	Unregister(BackendVulkan)
	if DefaultBackend() != BackendDirectX {
		t.Errorf("DefaultBackend() = %s, want directx", DefaultBackend())
	}
}

func TestConfigFramesInFlight(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultFramesInFlight},
		{-1, DefaultFramesInFlight},
		{1, 1},
		{3, 3},
		{9, MaxFramesInFlight},
	}
	for _, tt := range tests {
		if got := (Config{FramesInFlight: tt.in}).withDefaults().FramesInFlight; got != tt.want {
			t.Errorf("FramesInFlight(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestConfigKeepsTracker(t *testing.T) {
	tr := NewMemoryTracker()
	if got := (Config{Tracker: tr}).withDefaults().Tracker; got != tr {
		t.Error("withDefaults replaced a supplied tracker")
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		name    string
		want    Backend
		wantErr bool
	}{
		{"vulkan", BackendVulkan, false},
		{"vk", BackendVulkan, false},
		{"directx", BackendDirectX, false},
		{"dx12", BackendDirectX, false},
		{"d3d12", BackendDirectX, false},
		{"metal", BackendUndefined, true},
		{"", BackendUndefined, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBackend(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBackend() error = %v", err)
			}
			if err != nil && !errors.Is(err, ErrUnsupportedBackend) {
				t.Errorf("error = %v, want ErrUnsupportedBackend", err)
			}
			if got != tt.want {
				t.Errorf("ParseBackend() = %s, want %s", got, tt.want)
			}
			if err == nil && got.String() != tt.name && tt.name != "vk" && tt.name != "dx12" && tt.name != "d3d12" {
				t.Errorf("String() = %q does not round trip", got.String())
			}
		})
	}
}
