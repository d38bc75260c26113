//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import "unsafe"

// ptrFromUintptr converts a native address to *byte without a uintptr to
// unsafe.Pointer conversion that go vet rejects.
func ptrFromUintptr(ptr uintptr) *byte {
	return *(**byte)(unsafe.Pointer(&ptr))
}

// mappedSlice returns size bytes of host-mapped device memory at ptr.
func mappedSlice(ptr uintptr, size uint64) []byte {
	if ptr == 0 || size == 0 {
		return nil
	}
	return unsafe.Slice(ptrFromUintptr(ptr), size)
}

// cString returns s as a NUL-terminated byte slice.
func cString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// cStrings converts names into NUL-terminated strings and the pointer
// array the native API expects. Both slices must stay alive for the call.
func cStrings(names []string) ([][]byte, []uintptr) {
	bufs := make([][]byte, len(names))
	ptrs := make([]uintptr, len(names))
	for i, n := range names {
		bufs[i] = cString(n)
		ptrs[i] = uintptr(unsafe.Pointer(&bufs[i][0]))
	}
	return bufs, ptrs
}

func cStringToGo(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// cStringFromPtr reads a NUL-terminated string from a native address.
func cStringFromPtr(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	const maxLen = 4096
	buf := unsafe.Slice(ptrFromUintptr(ptr), maxLen)
	return cStringToGo(buf)
}

// ptrArray returns the address of the first element of s, or 0 when s is
// empty.
func ptrArray[T any](s []T) uintptr {
	if len(s) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&s[0]))
}
