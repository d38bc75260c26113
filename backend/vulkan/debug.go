//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

var (
	debugCallbackOnce sync.Once
	debugCallbackPtr  uintptr
)

// validationCallback receives validation layer messages. Every argument is
// pointer sized for ffi.NewCallback.
func validationCallback(severity, types, callbackData, _ uintptr) uintptr {
	if callbackData == 0 {
		return vk.False
	}
	data := *(**vk.DebugUtilsMessengerCallbackDataEXT)(unsafe.Pointer(&callbackData))

	msg := "(no message)"
	if data.PMessage != 0 {
		msg = cStringFromPtr(data.PMessage)
	}

	bits := vk.DebugUtilsMessageSeverityFlagBitsEXT(severity)
	var level slog.Level
	switch {
	case bits&vk.DebugUtilsMessageSeverityErrorBitExt != 0:
		level = slog.LevelError
	case bits&vk.DebugUtilsMessageSeverityWarningBitExt != 0:
		level = slog.LevelWarn
	default:
		level = slog.LevelInfo
	}

	attrs := []slog.Attr{slog.String("type", messageType(types))}
	if data.PMessageIdName != 0 {
		attrs = append(attrs, slog.String("id", cStringFromPtr(data.PMessageIdName)))
	}
	vireo.Logger().LogAttrs(context.Background(), level, "vulkan: "+msg, attrs...)
	return vk.False
}

func messageType(types uintptr) string {
	bits := vk.DebugUtilsMessageTypeFlagBitsEXT(types)
	switch {
	case bits&vk.DebugUtilsMessageTypeValidationBitExt != 0:
		return "validation"
	case bits&vk.DebugUtilsMessageTypePerformanceBitExt != 0:
		return "performance"
	default:
		return "general"
	}
}

// createMessenger installs validationCallback for warnings and errors.
// Failure only loses the messages, so it is logged and not returned.
func (i *Instance) createMessenger() {
	debugCallbackOnce.Do(func() {
		debugCallbackPtr = ffi.NewCallback(validationCallback)
	})

	info := vk.DebugUtilsMessengerCreateInfoEXT{
		SType: vk.StructureTypeDebugUtilsMessengerCreateInfoExt,
		MessageSeverity: vk.DebugUtilsMessageSeverityFlagsEXT(
			vk.DebugUtilsMessageSeverityWarningBitExt | vk.DebugUtilsMessageSeverityErrorBitExt),
		MessageType: vk.DebugUtilsMessageTypeFlagsEXT(
			vk.DebugUtilsMessageTypeGeneralBitExt |
				vk.DebugUtilsMessageTypeValidationBitExt |
				vk.DebugUtilsMessageTypePerformanceBitExt),
		PfnUserCallback: debugCallbackPtr,
	}
	if r := i.cmds.CreateDebugUtilsMessengerEXT(i.handle, &info, nil, &i.messenger); r != vk.Success {
		vireo.Logger().Warn("vulkan: debug messenger not created", "result", r)
		i.messenger = 0
	}
}

func (i *Instance) destroyMessenger() {
	if i.messenger != 0 {
		i.cmds.DestroyDebugUtilsMessengerEXT(i.handle, i.messenger, nil)
		i.messenger = 0
	}
}

// setObjectName labels a native object for validation messages and
// capture tools. It does nothing without VK_EXT_debug_utils.
func (d *Device) setObjectName(t vk.ObjectType, handle uint64, name string) {
	if name == "" || handle == 0 || !d.cmds.HasDebugUtils() {
		return
	}
	d.nameMu.Lock()
	defer d.nameMu.Unlock()

	if cap(d.nameBuf) < len(name)+1 {
		d.nameBuf = make([]byte, len(name)+1)
	}
	d.nameBuf = d.nameBuf[:len(name)+1]
	copy(d.nameBuf, name)
	d.nameBuf[len(name)] = 0

	info := vk.DebugUtilsObjectNameInfoEXT{
		SType:        vk.StructureTypeDebugUtilsObjectNameInfoExt,
		ObjectType:   t,
		ObjectHandle: handle,
		PObjectName:  uintptr(unsafe.Pointer(&d.nameBuf[0])),
	}
	_ = d.cmds.SetDebugUtilsObjectNameEXT(d.handle, &info)
	runtime.KeepAlive(d.nameBuf)
}
