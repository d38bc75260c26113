//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// errorOutOfPoolMemory is VK_ERROR_OUT_OF_POOL_MEMORY (Vulkan 1.1).
const errorOutOfPoolMemory vk.Result = -1000069000

// resultError wraps a failed VkResult in a vireo.NativeError whose Kind
// is the matching sentinel.
func resultError(op string, r vk.Result) error {
	return &vireo.NativeError{Op: "vulkan: " + op, Code: int64(r), Kind: resultKind(r)}
}

func resultKind(r vk.Result) error {
	switch r {
	case vk.ErrorOutOfHostMemory, vk.ErrorOutOfDeviceMemory, vk.ErrorTooManyObjects:
		return vireo.ErrOutOfMemory
	case vk.ErrorDeviceLost, vk.ErrorSurfaceLostKhr, vk.Timeout:
		return vireo.ErrDeviceLost
	case vk.ErrorOutOfDateKhr:
		return vireo.ErrSwapChainOutOfDate
	case vk.ErrorFragmentedPool, errorOutOfPoolMemory:
		return vireo.ErrOutOfDescriptors
	case vk.ErrorExtensionNotPresent, vk.ErrorFeatureNotPresent:
		return vireo.ErrMissingExtension
	case vk.ErrorLayerNotPresent:
		return vireo.ErrValidationLayer
	case vk.ErrorIncompatibleDriver, vk.ErrorInitializationFailed:
		return vireo.ErrBackendNotAvailable
	default:
		return nil
	}
}
