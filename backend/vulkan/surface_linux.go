//go:build linux && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

func isWayland() bool { return os.Getenv("WAYLAND_DISPLAY") != "" }

func platformSurfaceExtension() string {
	if isWayland() {
		return "VK_KHR_wayland_surface"
	}
	return "VK_KHR_xlib_surface"
}

// createSurface creates a Wayland surface from a wl_display and wl_surface
// pair, or an Xlib surface from a Display and Window.
func (i *Instance) createSurface(w vireo.WindowHandle) (vk.SurfaceKHR, error) {
	var surface vk.SurfaceKHR
	if isWayland() && i.cmds.HasCreateWaylandSurfaceKHR() {
		info := vk.WaylandSurfaceCreateInfoKHR{SType: vk.StructureTypeWaylandSurfaceCreateInfoKhr}
		*(*uintptr)(unsafe.Pointer(&info.Display)) = w.Display
		*(*uintptr)(unsafe.Pointer(&info.Surface)) = w.Window
		if r := i.cmds.CreateWaylandSurfaceKHR(i.handle, &info, nil, &surface); r != vk.Success {
			return 0, resultError("vkCreateWaylandSurfaceKHR", r)
		}
		return surface, nil
	}
	if !i.cmds.HasCreateXlibSurfaceKHR() {
		return 0, fmt.Errorf("%w: VK_KHR_xlib_surface", vireo.ErrMissingExtension)
	}
	info := vk.XlibSurfaceCreateInfoKHR{
		SType:  vk.StructureTypeXlibSurfaceCreateInfoKhr,
		Window: vk.XlibWindow(w.Window),
	}
	*(*uintptr)(unsafe.Pointer(&info.Dpy)) = w.Display
	if r := i.cmds.CreateXlibSurfaceKHR(i.handle, &info, nil, &surface); r != vk.Success {
		return 0, resultError("vkCreateXlibSurfaceKHR", r)
	}
	return surface, nil
}
