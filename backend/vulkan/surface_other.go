//go:build !linux && !windows && !darwin && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

func platformSurfaceExtension() string { return "VK_KHR_xlib_surface" }

func (i *Instance) createSurface(vireo.WindowHandle) (vk.SurfaceKHR, error) {
	return 0, fmt.Errorf("%w: no window surface support on this platform", vireo.ErrMissingExtension)
}
