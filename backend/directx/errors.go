//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"errors"
	"fmt"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
)

// hresultError wraps a failed COM call in a vireo.NativeError whose Kind
// is the matching sentinel. Errors without an HRESULT are wrapped as is.
func hresultError(op string, err error) error {
	var hr d3d12.HRESULTError
	if !errors.As(err, &hr) {
		return fmt.Errorf("directx: %s: %w", op, err)
	}
	return &vireo.NativeError{Op: "directx: " + op, Code: int64(hr.Code()), Kind: hresultKind(hr)}
}

func hresultKind(hr d3d12.HRESULTError) error {
	switch hr {
	case d3d12.E_OUTOFMEMORY:
		return vireo.ErrOutOfMemory
	case d3d12.DXGI_ERROR_DEVICE_REMOVED, d3d12.DXGI_ERROR_DEVICE_HUNG,
		d3d12.DXGI_ERROR_DEVICE_RESET, d3d12.DXGI_ERROR_DRIVER_INTERNAL_ERROR:
		return vireo.ErrDeviceLost
	case d3d12.DXGI_ERROR_UNSUPPORTED:
		return vireo.ErrBackendNotAvailable
	default:
		return nil
	}
}
