//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package directx implements vireo on Direct3D 12 through pure Go COM
// bindings.
//
// Descriptor sets are ranges of two shader-visible heaps, pipeline
// resources are root signatures with one descriptor table per layout, and
// every queue signals a private fence that gates deferred releases.
// Importing the package registers the backend:
//
//	import _ "github.com/gogpu/vireo/backend/directx"
package directx

import (
	"fmt"

	"github.com/gogpu/vireo"
)

func init() {
	vireo.Register(vireo.BackendDirectX, New)
}

// Vireo is the DirectX backend root.
type Vireo struct {
	instance *Instance
	physical *PhysicalDevice
	device   *Device
	tracker  *vireo.MemoryTracker
	frames   int
}

var _ vireo.Vireo = (*Vireo)(nil)

// New loads D3D12 and DXGI, selects an adapter and creates the device.
// cfg is expected to carry defaults already.
func New(cfg vireo.Config) (vireo.Vireo, error) {
	inst, err := newInstance(cfg)
	if err != nil {
		return nil, err
	}
	pd, err := selectPhysicalDevice(inst, cfg.PreferLowPower)
	if err != nil {
		inst.destroy()
		return nil, err
	}
	tracker := cfg.Tracker
	if tracker == nil {
		tracker = vireo.NewMemoryTracker()
	}
	dev, err := newDevice(inst, pd, tracker)
	if err != nil {
		pd.destroy()
		inst.destroy()
		return nil, err
	}
	pool, err := dev.createDescriptorPool(cfg.Descriptors)
	if err != nil {
		dev.destroy()
		pd.destroy()
		inst.destroy()
		return nil, err
	}
	dev.descriptors = pool

	frames := cfg.FramesInFlight
	if frames <= 0 {
		frames = vireo.DefaultFramesInFlight
	}
	return &Vireo{instance: inst, physical: pd, device: dev, tracker: tracker, frames: frames}, nil
}

func (v *Vireo) Backend() vireo.Backend               { return vireo.BackendDirectX }
func (v *Vireo) Instance() vireo.Instance             { return v.instance }
func (v *Vireo) PhysicalDevice() vireo.PhysicalDevice { return v.physical }
func (v *Vireo) Device() vireo.Device                 { return v.device }
func (v *Vireo) Tracker() *vireo.MemoryTracker        { return v.tracker }
func (v *Vireo) FramesInFlight() int                  { return v.frames }

func (v *Vireo) CreateSubmitQueue(t vireo.CommandType, name string) (vireo.SubmitQueue, error) {
	return v.device.createSubmitQueue(t, name)
}

func (v *Vireo) CreateFence(signaled bool, name string) (vireo.Fence, error) {
	return v.device.createFence(signaled, name)
}

func (v *Vireo) CreateSemaphore(t vireo.SemaphoreType, name string) (vireo.Semaphore, error) {
	return v.device.createSemaphore(t, name)
}

func (v *Vireo) CreateCommandAllocator(t vireo.CommandType) (vireo.CommandAllocator, error) {
	return v.device.createCommandAllocator(t)
}

func (v *Vireo) CreateSwapChain(cfg vireo.SwapChainConfig) (vireo.SwapChain, error) {
	return v.device.createSwapChain(cfg, v.frames)
}

func (v *Vireo) CreateBuffer(desc vireo.BufferDesc) (vireo.Buffer, error) {
	return v.device.createBuffer(desc, vireo.AllocationBuffer)
}

func (v *Vireo) CreateImage(desc vireo.ImageDesc) (vireo.Image, error) {
	return v.device.createImage(desc, imageTarget{}, vireo.AllocationImage)
}

func (v *Vireo) CreateRenderTarget(desc vireo.RenderTargetDesc) (vireo.RenderTarget, error) {
	return v.device.createRenderTarget(desc)
}

func (v *Vireo) CreateSampler(desc vireo.SamplerDesc) (vireo.Sampler, error) {
	return v.device.createSampler(desc), nil
}

func (v *Vireo) CreateDescriptorLayout(name string) (vireo.DescriptorLayout, error) {
	return v.device.newDescriptorLayout(name, false), nil
}

func (v *Vireo) CreateSamplerDescriptorLayout(name string) (vireo.DescriptorLayout, error) {
	return v.device.newDescriptorLayout(name, true), nil
}

func (v *Vireo) CreateDescriptorSet(layout vireo.DescriptorLayout, name string) (vireo.DescriptorSet, error) {
	l, ok := layout.(*DescriptorLayout)
	if !ok {
		return nil, fmt.Errorf("directx: descriptor set %q: layout is not a DirectX layout", name)
	}
	return v.device.createDescriptorSet(l, name)
}

func (v *Vireo) CreateShaderModule(desc vireo.ShaderModuleDesc) (vireo.ShaderModule, error) {
	return v.device.createShaderModule(desc)
}

func (v *Vireo) CreatePipelineResources(layouts []vireo.DescriptorLayout, pushConstants vireo.PushConstantsDesc, name string) (vireo.PipelineResources, error) {
	return v.device.createPipelineResources(layouts, pushConstants, name)
}

func (v *Vireo) CreateGraphicPipeline(cfg vireo.GraphicPipelineConfig) (vireo.Pipeline, error) {
	return v.device.createGraphicPipeline(cfg)
}

func (v *Vireo) CreateComputePipeline(resources vireo.PipelineResources, shader vireo.ShaderModule, name string) (vireo.Pipeline, error) {
	return v.device.createComputePipeline(resources, shader, name)
}

// WaitIdle waits for every queue and runs every deferred release.
func (v *Vireo) WaitIdle() error {
	if err := v.device.WaitIdle(); err != nil {
		return err
	}
	v.device.deferred.Flush()
	return nil
}

// Destroy releases the device, the adapter, then the factory.
func (v *Vireo) Destroy() {
	if v.device == nil {
		return
	}
	if n := v.tracker.Count(); n > 0 {
		vireo.Logger().Warn("directx: allocations alive at destroy", "count", n, "bytes", v.tracker.TotalBytes())
	}
	_ = v.device.WaitIdle()
	v.device.deferred.Flush()
	v.device.destroyDescriptorPool(v.device.descriptors)
	v.device.destroy()
	v.physical.destroy()
	v.instance.destroy()
	v.device = nil
	vireo.Logger().Info("directx: destroyed")
}
