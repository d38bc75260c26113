//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vireo"
	"github.com/gogpu/vireo/internal/gpuselect"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
	"github.com/gogpu/wgpu/hal/dx12/dxgi"
)

// featureLevelRequirement is listed as a capability of adapters that can
// create a device at featureLevel.
const featureLevelRequirement = "D3D_FEATURE_LEVEL_11_0"

const featureLevel = d3d12.D3D_FEATURE_LEVEL_11_0

// discreteMemoryThreshold separates discrete from integrated adapters by
// dedicated video memory; DXGI does not report the adapter type.
const discreteMemoryThreshold = 512 << 20

// PhysicalDevice is the selected DXGI adapter.
type PhysicalDevice struct {
	adapter *dxgi.IDXGIAdapter4
	desc    dxgi.DXGI_ADAPTER_DESC1
	options d3d12.D3D12_FEATURE_DATA_D3D12_OPTIONS
	info    gputypes.AdapterInfo
	limits  gputypes.Limits
	score   uint32
}

func (p *PhysicalDevice) Info() gputypes.AdapterInfo { return p.info }
func (p *PhysicalDevice) Limits() gputypes.Limits    { return p.limits }
func (p *PhysicalDevice) Score() uint32              { return p.score }

func (p *PhysicalDevice) destroy() {
	if p.adapter != nil {
		p.adapter.Release()
		p.adapter = nil
	}
}

// selectPhysicalDevice enumerates the adapters of inst, ordered by the
// requested GPU preference, and returns the best scoring one.
func selectPhysicalDevice(inst *Instance, preferLowPower bool) (*PhysicalDevice, error) {
	preference := dxgi.DXGI_GPU_PREFERENCE_HIGH_PERFORMANCE
	if preferLowPower {
		preference = dxgi.DXGI_GPU_PREFERENCE_MINIMUM_POWER
	}

	var devices []*PhysicalDevice
	var candidates []gpuselect.Candidate
	for idx := uint32(0); ; idx++ {
		adapter, err := inst.factory.EnumAdapterByGpuPreference(idx, preference)
		if errors.Is(err, d3d12.DXGI_ERROR_NOT_FOUND) {
			break
		}
		if err != nil {
			releaseAll(devices)
			return nil, hresultError("EnumAdapterByGpuPreference", err)
		}
		d, c, err := inst.describe(adapter)
		if err != nil {
			adapter.Release()
			vireo.Logger().Debug("directx: adapter skipped", "index", idx, "err", err)
			continue
		}
		devices = append(devices, d)
		candidates = append(candidates, c)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("%w: no DXGI adapters", vireo.ErrNoSuitableDevice)
	}

	idx, score, err := gpuselect.Select(candidates, gpuselect.Requirements{
		Extensions:     []string{featureLevelRequirement},
		Present:        inst.hwnd != 0,
		PreferLowPower: preferLowPower,
	})
	if err != nil {
		releaseAll(devices)
		return nil, err
	}
	d := devices[idx]
	d.score = score
	devices[idx] = nil
	releaseAll(devices)

	vireo.Logger().Info("directx: adapter selected",
		"name", d.info.Name,
		"type", d.info.DeviceType,
		"vendor", d.info.Vendor,
		"memory", d.desc.DedicatedVideoMemory,
		"bindingTier", d.options.ResourceBindingTier,
		"score", score,
	)
	return d, nil
}

func releaseAll(devices []*PhysicalDevice) {
	for _, d := range devices {
		if d != nil {
			d.destroy()
		}
	}
}

// describe queries one adapter. A probe device is created and released to
// check the feature level and read the options.
func (i *Instance) describe(adapter *dxgi.IDXGIAdapter4) (*PhysicalDevice, gpuselect.Candidate, error) {
	desc, err := adapter.GetDesc1()
	if err != nil {
		return nil, gpuselect.Candidate{}, hresultError("GetDesc1", err)
	}
	d := &PhysicalDevice{adapter: adapter, desc: desc}
	d.info = gputypes.AdapterInfo{
		Name:       desc.DescriptionString(),
		Vendor:     vendorName(desc.VendorID),
		VendorID:   desc.VendorID,
		DeviceID:   desc.DeviceID,
		DeviceType: adapterType(&desc),
		Driver:     "Direct3D 12",
		DriverInfo: "feature level 11_0",
		Backend:    gputypes.BackendDX12,
	}
	d.limits = defaultLimits()

	c := gpuselect.Candidate{
		Info:   d.info,
		Limits: d.limits,
		// Feature level 11_0 guarantees geometry shaders and a direct queue.
		GeometryShader: true,
		GraphicsQueue:  true,
		// Every hardware adapter can present through a flip model swap chain.
		SwapChain: i.hwnd != 0,
	}

	probe, err := i.d3d12Lib.CreateDevice(unsafe.Pointer(adapter), featureLevel)
	if err != nil {
		return d, c, nil
	}
	_ = probe.CheckFeatureSupport(d3d12.D3D12_FEATURE_D3D12_OPTIONS,
		unsafe.Pointer(&d.options), uint32(unsafe.Sizeof(d.options)))
	probe.Release()
	c.Extensions = append(c.Extensions, featureLevelRequirement)
	return d, c, nil
}

func adapterType(desc *dxgi.DXGI_ADAPTER_DESC1) gputypes.DeviceType {
	switch {
	case desc.Flags&dxgi.DXGI_ADAPTER_FLAG_SOFTWARE != 0:
		return gputypes.DeviceTypeCPU
	case desc.DedicatedVideoMemory > discreteMemoryThreshold:
		return gputypes.DeviceTypeDiscreteGPU
	default:
		return gputypes.DeviceTypeIntegratedGPU
	}
}

func vendorName(id uint32) string {
	switch id {
	case 0x1002:
		return "AMD"
	case 0x10DE:
		return "NVIDIA"
	case 0x8086:
		return "Intel"
	case 0x1414:
		return "Microsoft"
	case 0x5143:
		return "Qualcomm"
	default:
		return fmt.Sprintf("0x%04X", id)
	}
}

// defaultLimits returns the limits every feature level 11_0 device meets.
func defaultLimits() gputypes.Limits {
	out := gputypes.DefaultLimits()
	out.MaxTextureDimension1D = 16384
	out.MaxTextureDimension2D = 16384
	out.MaxTextureDimension3D = 2048
	out.MaxTextureArrayLayers = 2048
	out.MaxUniformBufferBindingSize = 64 << 10
	out.MaxStorageBufferBindingSize = 128 << 20
	out.MinUniformBufferOffsetAlignment = constantBufferAlignment
	out.MinStorageBufferOffsetAlignment = 16
	out.MaxVertexAttributes = 32
	out.MaxColorAttachments = 8
	out.MaxComputeWorkgroupStorageSize = 32 << 10
	out.MaxComputeInvocationsPerWorkgroup = 1024
	out.MaxComputeWorkgroupSizeX = 1024
	out.MaxComputeWorkgroupSizeY = 1024
	out.MaxComputeWorkgroupSizeZ = 64
	out.MaxComputeWorkgroupsPerDimension = 65535
	// Root signatures hold 64 DWORDs; descriptor tables cost one each.
	out.MaxPushConstantSize = 128
	return out
}
