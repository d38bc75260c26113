//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
	"github.com/gogpu/wgpu/hal/dx12/dxgi"
)

// Instance is the DXGI factory and the loaded D3D12 library.
type Instance struct {
	dxgiLib  *dxgi.DXGILib
	d3d12Lib *d3d12.D3D12Lib
	factory  *dxgi.IDXGIFactory6
	debugger *d3d12.ID3D12Debug
	hwnd     uintptr
	tearing  bool
	debug    bool
}

// Backend returns vireo.BackendDirectX.
func (i *Instance) Backend() vireo.Backend { return vireo.BackendDirectX }

// Debug reports whether the D3D12 debug layer is active.
func (i *Instance) Debug() bool { return i.debug }

func newInstance(cfg vireo.Config) (*Instance, error) {
	dxgiLib, err := dxgi.LoadDXGI()
	if err != nil {
		return nil, fmt.Errorf("%w: directx: %v", vireo.ErrBackendNotAvailable, err)
	}
	d3d12Lib, err := d3d12.LoadD3D12()
	if err != nil {
		return nil, fmt.Errorf("%w: directx: %v", vireo.ErrBackendNotAvailable, err)
	}
	inst := &Instance{dxgiLib: dxgiLib, d3d12Lib: d3d12Lib, hwnd: cfg.Window.Window}

	var flags uint32
	if cfg.Debug {
		// The debug layer must be enabled before any device exists.
		debugger, err := d3d12Lib.GetDebugInterface()
		if err != nil {
			return nil, fmt.Errorf("%w: D3D12 debug layer: %v", vireo.ErrValidationLayer, err)
		}
		debugger.EnableDebugLayer()
		inst.debugger = debugger
		inst.debug = true
		flags |= dxgi.DXGI_CREATE_FACTORY_DEBUG
	}

	factory, err := dxgiLib.CreateFactory2(flags)
	if err != nil {
		inst.destroy()
		return nil, hresultError("CreateDXGIFactory2", err)
	}
	inst.factory = factory

	var allowTearing int32
	if err := factory.CheckFeatureSupport(dxgi.DXGI_FEATURE_PRESENT_ALLOW_TEARING, unsafe.Pointer(&allowTearing), 4); err == nil {
		inst.tearing = allowTearing != 0
	}

	vireo.Logger().Info("directx: instance created",
		"debug", inst.debug,
		"tearing", inst.tearing,
		"window", inst.hwnd != 0,
	)
	return inst, nil
}

func (i *Instance) destroy() {
	if i.factory != nil {
		i.factory.Release()
		i.factory = nil
	}
	if i.debugger != nil {
		i.debugger.Release()
		i.debugger = nil
	}
}
