//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
	"golang.org/x/sys/windows"
)

func platformSurfaceExtension() string { return "VK_KHR_win32_surface" }

// createSurface creates a Win32 surface. A zero Instance uses the module
// handle of the running executable.
func (i *Instance) createSurface(w vireo.WindowHandle) (vk.SurfaceKHR, error) {
	if !i.cmds.HasCreateWin32SurfaceKHR() {
		return 0, fmt.Errorf("%w: VK_KHR_win32_surface", vireo.ErrMissingExtension)
	}
	hinstance := w.Instance
	if hinstance == 0 {
		var h windows.Handle
		if err := windows.GetModuleHandleEx(0, nil, &h); err != nil {
			return 0, fmt.Errorf("vulkan: GetModuleHandleEx: %w", err)
		}
		hinstance = uintptr(h)
	}
	info := vk.Win32SurfaceCreateInfoKHR{
		SType:     vk.StructureTypeWin32SurfaceCreateInfoKhr,
		Hinstance: hinstance,
		Hwnd:      w.Window,
	}
	var surface vk.SurfaceKHR
	if r := i.cmds.CreateWin32SurfaceKHR(i.handle, &info, nil, &surface); r != vk.Success {
		return 0, resultError("vkCreateWin32SurfaceKHR", r)
	}
	return surface, nil
}
