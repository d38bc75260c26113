// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"fmt"
	"sort"

	"github.com/gogpu/gpucontext"
)

// Factory creates a Vireo for a backend. cfg has its defaults applied.
type Factory func(cfg Config) (Vireo, error)

// backends holds the registered backend factories. Backend packages
// register themselves from init; import github.com/gogpu/vireo/backend/all
// to link every backend available on the platform.
var backends = gpucontext.NewRegistry[Factory](
	gpucontext.WithPriority(BackendVulkan.String(), BackendDirectX.String()),
)

// Register registers the factory of backend b, replacing any previous one.
// It is typically called from init functions of backend packages.
func Register(b Backend, f Factory) {
	backends.Register(b.String(), func() Factory { return f })
}

// Unregister removes a backend. This is useful for testing.
func Unregister(b Backend) {
	backends.Unregister(b.String())
}

// Available returns the registered backends in priority order.
func Available() []Backend {
	var out []Backend
	for _, name := range backends.Available() {
		if b, err := ParseBackend(name); err == nil {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

// DefaultBackend returns the preferred registered backend, or
// BackendUndefined when none is registered.
func DefaultBackend() Backend {
	b, err := ParseBackend(backends.BestName())
	if err != nil {
		return BackendUndefined
	}
	return b
}

// New creates the instance, physical device and device of cfg.Backend.
//
// An unknown backend fails with ErrUnsupportedBackend and a known backend
// that is not registered on this platform fails with
// ErrBackendNotAvailable; there is no silent fallback to another backend.
func New(cfg Config) (Vireo, error) {
	switch cfg.Backend {
	case BackendDirectX, BackendVulkan:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, cfg.Backend)
	}
	name := cfg.Backend.String()
	if !backends.Has(name) {
		return nil, fmt.Errorf("%w: %s (registered: %v)", ErrBackendNotAvailable, name, Available())
	}
	factory := backends.Get(name)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackendNotAvailable, name)
	}

	cfg = cfg.withDefaults()
	v, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("vireo: create %s backend: %w", name, err)
	}

	info := v.PhysicalDevice().Info()
	Logger().Info("vireo: backend created",
		"backend", name,
		"adapter", info.Name,
		"type", info.DeviceType,
		"framesInFlight", cfg.FramesInFlight,
		"debug", cfg.Debug)
	return v, nil
}
