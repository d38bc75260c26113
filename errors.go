// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"errors"
	"fmt"
)

// Backend selection errors.
var (
	// ErrBackendNotAvailable is returned when the requested backend is known
	// but was not compiled in or not registered on this platform.
	ErrBackendNotAvailable = errors.New("vireo: backend not available")

	// ErrUnsupportedBackend is returned for a Backend value no
	// implementation exists for.
	ErrUnsupportedBackend = errors.New("vireo: unsupported backend")
)

// Initialization errors.
var (
	// ErrNoSuitableDevice is returned when every adapter scores 0.
	ErrNoSuitableDevice = errors.New("vireo: no suitable GPU found")

	// ErrMissingExtension is returned when a mandatory instance or device
	// extension is not supported.
	ErrMissingExtension = errors.New("vireo: missing required extension")

	// ErrValidationLayer is returned when debug mode is requested but the
	// validation layer cannot be loaded.
	ErrValidationLayer = errors.New("vireo: validation layer not available")
)

// Command recording errors.
var (
	// ErrNotRecording is returned by recording operations called outside
	// the Recording state.
	ErrNotRecording = errors.New("vireo: command list is not recording")

	// ErrNotOpened is returned by End on a list that was never begun.
	ErrNotOpened = errors.New("vireo: command list was never opened")
)

// Resource errors.
var (
	// ErrLayoutBuilt is returned by Add or Build after Build succeeded.
	ErrLayoutBuilt = errors.New("vireo: descriptor layout already built")

	// ErrLayoutNotBuilt is returned when a descriptor set or pipeline
	// resources reference a layout that was never built.
	ErrLayoutNotBuilt = errors.New("vireo: descriptor layout not built")

	// ErrWrongDescriptorType is returned when a descriptor update does not
	// match the type declared for the slot.
	ErrWrongDescriptorType = errors.New("vireo: descriptor type mismatch")

	// ErrOutOfRange is returned for writes or slots beyond a resource's
	// bounds.
	ErrOutOfRange = errors.New("vireo: out of range")

	// ErrAlreadyMapped is returned by Map on a mapped buffer.
	ErrAlreadyMapped = errors.New("vireo: buffer already mapped")

	// ErrNotMapped is returned by Write on an unmapped buffer.
	ErrNotMapped = errors.New("vireo: buffer not mapped")

	// ErrNotHostVisible is returned by Map on a device-local buffer.
	ErrNotHostVisible = errors.New("vireo: buffer is not host visible")

	// ErrInvalidShader is returned for missing files or bytecode with the
	// wrong magic number.
	ErrInvalidShader = errors.New("vireo: invalid shader bytecode")

	// ErrOutOfDescriptors is returned when the device descriptor space
	// cannot satisfy an allocation.
	ErrOutOfDescriptors = errors.New("vireo: out of descriptors")

	// ErrOutOfMemory is returned when a native allocation fails for lack
	// of host or device memory.
	ErrOutOfMemory = errors.New("vireo: out of memory")

	// ErrDestroyed is returned when using a destroyed object.
	ErrDestroyed = errors.New("vireo: object destroyed")
)

// Synchronization errors.
var (
	// ErrDeviceLost is returned when the GPU hung, was removed, or a wait
	// that should never time out did.
	ErrDeviceLost = errors.New("vireo: device lost")

	// ErrSwapChainOutOfDate is reported when the swap chain no longer
	// matches the window surface. It is recoverable through Recreate.
	ErrSwapChainOutOfDate = errors.New("vireo: swap chain out of date")

	// ErrTimeout is returned by bounded waits that expired.
	ErrTimeout = errors.New("vireo: wait timed out")
)

// NativeError carries the raw result of a failed native API call.
// Kind is the sentinel the result maps to (for errors.Is) and may be nil.
type NativeError struct {
	Op   string
	Code int64
	Kind error
}

// Error implements error.
func (e *NativeError) Error() string {
	if e.Kind != nil {
		return fmt.Sprintf("%s: native result %d: %v", e.Op, e.Code, e.Kind)
	}
	return fmt.Sprintf("%s: native result %d", e.Op, e.Code)
}

// Unwrap returns the sentinel kind.
func (e *NativeError) Unwrap() error { return e.Kind }

// Must panics if err is non-nil and returns v otherwise. It is meant for
// initialization code that cannot proceed without the value:
//
//	v := vireo.Must(vireo.New(cfg))
func Must[T any](v T, err error) T {
	if err != nil {
		Logger().Error("vireo: fatal error", "err", err)
		panic(err)
	}
	return v
}
