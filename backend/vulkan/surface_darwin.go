//go:build darwin && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

func platformSurfaceExtension() string { return "VK_EXT_metal_surface" }

// createSurface creates a surface for the CAMetalLayer passed as the
// window handle.
func (i *Instance) createSurface(w vireo.WindowHandle) (vk.SurfaceKHR, error) {
	if !i.cmds.HasCreateMetalSurfaceEXT() {
		return 0, fmt.Errorf("%w: VK_EXT_metal_surface", vireo.ErrMissingExtension)
	}
	info := vk.MetalSurfaceCreateInfoEXT{SType: vk.StructureTypeMetalSurfaceCreateInfoExt}
	*(*uintptr)(unsafe.Pointer(&info.PLayer)) = w.Window
	var surface vk.SurfaceKHR
	if r := i.cmds.CreateMetalSurfaceEXT(i.handle, &info, nil, &surface); r != vk.Success {
		return 0, resultError("vkCreateMetalSurfaceEXT", r)
	}
	return surface, nil
}
