//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

// Instance is the Vulkan instance and, when a window was configured, the
// presentation surface of that window.
type Instance struct {
	handle    vk.Instance
	cmds      vk.Commands
	messenger vk.DebugUtilsMessengerEXT
	surface   vk.SurfaceKHR
	debug     bool
}

// Backend returns vireo.BackendVulkan.
func (i *Instance) Backend() vireo.Backend { return vireo.BackendVulkan }

// Debug reports whether the validation layer is active.
func (i *Instance) Debug() bool { return i.debug }

func newInstance(cfg vireo.Config) (*Instance, error) {
	if err := vk.Init(); err != nil {
		return nil, fmt.Errorf("%w: vulkan: %v", vireo.ErrBackendNotAvailable, err)
	}
	cmds := vk.NewCommands()
	if err := cmds.LoadGlobal(); err != nil {
		return nil, fmt.Errorf("%w: vulkan: load global commands: %v", vireo.ErrBackendNotAvailable, err)
	}

	appName := cString(cfg.AppName)
	engineName := cString("vireo")
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   uintptr(unsafe.Pointer(&appName[0])),
		ApplicationVersion: vkMakeVersion(1, 0, 0),
		PEngineName:        uintptr(unsafe.Pointer(&engineName[0])),
		EngineVersion:      vkMakeVersion(vireo.VersionMajor, vireo.VersionMinor, vireo.VersionPatch),
		ApiVersion:         vkMakeVersion(1, 3, 0),
	}

	extensions := []string{"VK_KHR_surface", platformSurfaceExtension()}
	var layers []string
	if cfg.Debug {
		if !isLayerAvailable(cmds, validationLayer) {
			return nil, fmt.Errorf("%w: %s", vireo.ErrValidationLayer, validationLayer)
		}
		layers = append(layers, validationLayer)
		extensions = append(extensions, "VK_EXT_debug_utils")
	}
	extBufs, extPtrs := cStrings(extensions)
	layerBufs, layerPtrs := cStrings(layers)

	info := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extPtrs)),
		PpEnabledExtensionNames: ptrArray(extPtrs),
		EnabledLayerCount:       uint32(len(layerPtrs)),
		PpEnabledLayerNames:     ptrArray(layerPtrs),
	}

	var handle vk.Instance
	r := cmds.CreateInstance(&info, nil, &handle)
	runtime.KeepAlive(appName)
	runtime.KeepAlive(engineName)
	runtime.KeepAlive(extBufs)
	runtime.KeepAlive(layerBufs)
	if r == vk.ErrorExtensionNotPresent {
		return nil, fmt.Errorf("%w: vkCreateInstance: %v", vireo.ErrMissingExtension, extensions)
	}
	if r != vk.Success {
		return nil, resultError("vkCreateInstance", r)
	}
	if err := cmds.LoadInstance(handle); err != nil {
		cmds.DestroyInstance(handle, nil)
		return nil, fmt.Errorf("vulkan: load instance commands: %w", err)
	}
	vk.SetDeviceProcAddr(handle)

	inst := &Instance{handle: handle, cmds: *cmds, debug: cfg.Debug}
	if cfg.Debug {
		inst.createMessenger()
	}
	if !cfg.Window.IsZero() {
		surface, err := inst.createSurface(cfg.Window)
		if err != nil {
			inst.destroy()
			return nil, err
		}
		inst.surface = surface
	}

	vireo.Logger().Info("vulkan: instance created",
		"api", versionString(appInfo.ApiVersion),
		"validation", cfg.Debug,
		"surface", inst.surface != 0,
	)
	return inst, nil
}

func (i *Instance) destroy() {
	if i.handle == 0 {
		return
	}
	if i.surface != 0 {
		i.cmds.DestroySurfaceKHR(i.handle, i.surface, nil)
		i.surface = 0
	}
	i.destroyMessenger()
	i.cmds.DestroyInstance(i.handle, nil)
	i.handle = 0
}

func isLayerAvailable(cmds *vk.Commands, name string) bool {
	var count uint32
	cmds.EnumerateInstanceLayerProperties(&count, nil)
	if count == 0 {
		return false
	}
	layers := make([]vk.LayerProperties, count)
	cmds.EnumerateInstanceLayerProperties(&count, &layers[0])
	for i := range layers[:count] {
		if cStringToGo(layers[i].LayerName[:]) == name {
			return true
		}
	}
	return false
}

func vkMakeVersion(major, minor, patch uint32) uint32 {
	return major<<22 | minor<<12 | patch
}

func vkVersionMajor(v uint32) uint32 { return v >> 22 }
func vkVersionMinor(v uint32) uint32 { return (v >> 12) & 0x3FF }
func vkVersionPatch(v uint32) uint32 { return v & 0xFFF }

func versionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", vkVersionMajor(v), vkVersionMinor(v), vkVersionPatch(v))
}
