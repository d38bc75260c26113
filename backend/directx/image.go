//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/vireo"
	"github.com/gogpu/vireo/internal/descheap"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
)

// imageTarget carries what render targets add to a plain image: the
// attachment flag, the sample count and the optimized clear value.
type imageTarget struct {
	flags   d3d12.D3D12_RESOURCE_FLAGS
	samples uint32
	clear   *d3d12.D3D12_CLEAR_VALUE
}

// Image is a committed 2D texture resource. Swap chain images are not
// owned and are not released by Destroy.
type Image struct {
	vireo.ImageState
	device  *Device
	handle  *d3d12.ID3D12Resource
	formats depthFormats
	samples uint32
	owned   bool
	trackID uint64
}

func (d *Device) createImage(desc vireo.ImageDesc, target imageTarget, kind vireo.AllocationKind) (*Image, error) {
	state, err := vireo.NewImageState(desc)
	if err != nil {
		return nil, err
	}
	formats := viewFormats(desc.Format)
	if formats.resource == d3d12.DXGI_FORMAT_UNKNOWN {
		return nil, fmt.Errorf("directx: image %q: format %s has no DXGI equivalent", desc.Name, desc.Format)
	}
	samples := max(target.samples, 1)
	flags := target.flags
	if desc.ReadWrite {
		flags |= d3d12.D3D12_RESOURCE_FLAG_ALLOW_UNORDERED_ACCESS
	}
	res := d3d12.D3D12_RESOURCE_DESC{
		Dimension:        d3d12.D3D12_RESOURCE_DIMENSION_TEXTURE2D,
		Width:            uint64(desc.Width),
		Height:           desc.Height,
		DepthOrArraySize: uint16(state.ArraySize()),
		MipLevels:        uint16(state.MipLevels()),
		Format:           formats.resource,
		SampleDesc:       d3d12.DXGI_SAMPLE_DESC{Count: samples},
		Layout:           d3d12.D3D12_TEXTURE_LAYOUT_UNKNOWN,
		Flags:            flags,
	}
	props := d3d12.D3D12_HEAP_PROPERTIES{Type: d3d12.D3D12_HEAP_TYPE_DEFAULT}
	handle, err := d.handle.CreateCommittedResource(&props, d3d12.D3D12_HEAP_FLAG_NONE, &res,
		d3d12.D3D12_RESOURCE_STATE_COMMON, target.clear)
	if err != nil {
		return nil, hresultError("CreateCommittedResource image "+desc.Name, err)
	}
	info := d.handle.GetResourceAllocationInfo(0, 1, &res)
	return &Image{
		ImageState: state,
		device:     d,
		handle:     handle,
		formats:    formats,
		samples:    samples,
		owned:      true,
		trackID:    d.tracker.Register(kind, desc.Name, info.SizeInBytes),
	}, nil
}

// wrapImage adopts a swap chain back buffer.
func (d *Device) wrapImage(handle *d3d12.ID3D12Resource, desc vireo.ImageDesc) (*Image, error) {
	state, err := vireo.NewImageState(desc)
	if err != nil {
		return nil, err
	}
	return &Image{ImageState: state, device: d, handle: handle, formats: viewFormats(desc.Format), samples: 1}, nil
}

// subresource returns the subresource index of mip in layer.
func (img *Image) subresource(mip, layer uint32) uint32 {
	return subresource(mip, layer, img.MipLevels())
}

// srvDesc describes a shader resource view over every mip and layer.
func (img *Image) srvDesc() d3d12.D3D12_SHADER_RESOURCE_VIEW_DESC {
	desc := d3d12.D3D12_SHADER_RESOURCE_VIEW_DESC{
		Format:                  img.formats.srv,
		Shader4ComponentMapping: d3d12.D3D12_DEFAULT_SHADER_4_COMPONENT_MAPPING,
	}
	switch {
	case img.samples > 1:
		desc.ViewDimension = d3d12.D3D12_SRV_DIMENSION_TEXTURE2DMS
	case img.ArraySize() > 1:
		desc.SetTexture2DArray(0, img.MipLevels(), 0, img.ArraySize(), 0, 0)
	default:
		desc.SetTexture2D(0, img.MipLevels(), 0, 0)
	}
	return desc
}

// textureUAV is the Texture2DArray member of the UAV description union.
type textureUAV struct {
	MipSlice        uint32
	FirstArraySlice uint32
	ArraySize       uint32
	PlaneSlice      uint32
}

// uavDesc describes an unordered access view of mip 0.
func (img *Image) uavDesc() d3d12.D3D12_UNORDERED_ACCESS_VIEW_DESC {
	desc := d3d12.D3D12_UNORDERED_ACCESS_VIEW_DESC{
		Format:        img.formats.srv,
		ViewDimension: d3d12.D3D12_UAV_DIMENSION_TEXTURE2D,
	}
	if img.ArraySize() > 1 {
		desc.ViewDimension = d3d12.D3D12_UAV_DIMENSION_TEXTURE2DARRAY
		u := (*textureUAV)(unsafe.Pointer(&desc.Union[0]))
		u.ArraySize = img.ArraySize()
	}
	return desc
}

// Destroy releases the image once the GPU no longer uses it.
func (img *Image) Destroy() {
	if img.handle == nil {
		return
	}
	d, handle := img.device, img.handle
	img.handle = nil
	if !img.owned {
		return
	}
	d.tracker.Unregister(img.trackID)
	d.release("image "+img.Name(), func() { handle.Release() })
}

func asImage(i vireo.Image) (*Image, error) {
	di, ok := i.(*Image)
	if !ok || di == nil || di.handle == nil {
		return nil, fmt.Errorf("directx: image: %w", vireo.ErrDestroyed)
	}
	return di, nil
}

// RenderTarget is an Image with a render target or depth-stencil view.
// Depth targets carry a second, read-only view.
type RenderTarget struct {
	image      *Image
	targetType vireo.RenderTargetType
	clear      vireo.ClearValue
	samples    vireo.MSAA
	view       descheap.Range
	handle     d3d12.D3D12_CPU_DESCRIPTOR_HANDLE
	readOnly   descheap.Range
	readHandle d3d12.D3D12_CPU_DESCRIPTOR_HANDLE
}

func (d *Device) createRenderTarget(desc vireo.RenderTargetDesc) (*RenderTarget, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	formats := viewFormats(desc.Format)
	clear := d3d12.D3D12_CLEAR_VALUE{Format: formats.dsv}
	target := imageTarget{samples: uint32(desc.Samples()), clear: &clear}
	if desc.Type == vireo.RenderTargetTypeColor {
		target.flags = d3d12.D3D12_RESOURCE_FLAG_ALLOW_RENDER_TARGET
		clear.SetColor(desc.ClearValue.Color)
	} else {
		target.flags = d3d12.D3D12_RESOURCE_FLAG_ALLOW_DEPTH_STENCIL
		clear.SetDepthStencil(desc.ClearValue.Depth, uint8(desc.ClearValue.Stencil))
	}
	img, err := d.createImage(desc.ImageDesc(), target, vireo.AllocationRenderTarget)
	if err != nil {
		return nil, err
	}
	rt := &RenderTarget{image: img, targetType: desc.Type, clear: desc.ClearValue, samples: desc.Samples()}
	if err := rt.createViews(); err != nil {
		img.Destroy()
		return nil, fmt.Errorf("directx: render target %q views: %w", desc.Name, err)
	}
	return rt, nil
}

func (rt *RenderTarget) createViews() error {
	d, img := rt.image.device, rt.image
	var err error
	if rt.targetType == vireo.RenderTargetTypeColor {
		if rt.view, rt.handle, err = d.rtvs.view(); err != nil {
			return err
		}
		d.createRenderTargetView(img, rt.handle)
		return nil
	}
	if rt.view, rt.handle, err = d.dsvs.view(); err != nil {
		return err
	}
	if rt.readOnly, rt.readHandle, err = d.dsvs.view(); err != nil {
		d.dsvs.free(rt.view)
		return err
	}
	dsv := d3d12.D3D12_DEPTH_STENCIL_VIEW_DESC{Format: img.formats.dsv}
	if img.samples > 1 {
		dsv.ViewDimension = d3d12.D3D12_DSV_DIMENSION_TEXTURE2DMS
	} else {
		dsv.SetTexture2D(0)
	}
	d.handle.CreateDepthStencilView(img.handle, &dsv, rt.handle)
	dsv.Flags = d3d12.D3D12_DSV_FLAG_READ_ONLY_DEPTH
	if img.Format().HasStencil() {
		dsv.Flags |= d3d12.D3D12_DSV_FLAG_READ_ONLY_STENCIL
	}
	d.handle.CreateDepthStencilView(img.handle, &dsv, rt.readHandle)
	return nil
}

// createRenderTargetView writes a view of mip 0 of img to dst.
func (d *Device) createRenderTargetView(img *Image, dst d3d12.D3D12_CPU_DESCRIPTOR_HANDLE) {
	rtv := d3d12.D3D12_RENDER_TARGET_VIEW_DESC{Format: img.formats.dsv}
	if img.samples > 1 {
		rtv.ViewDimension = d3d12.D3D12_RTV_DIMENSION_TEXTURE2DMS
	} else {
		rtv.SetTexture2D(0, 0)
	}
	d.handle.CreateRenderTargetView(img.handle, &rtv, dst)
}

func (rt *RenderTarget) Image() vireo.Image           { return rt.image }
func (rt *RenderTarget) Type() vireo.RenderTargetType { return rt.targetType }
func (rt *RenderTarget) ClearValue() vireo.ClearValue { return rt.clear }

// Destroy releases the views with the image.
func (rt *RenderTarget) Destroy() {
	if rt.image.handle == nil {
		return
	}
	d := rt.image.device
	heap := d.rtvs
	if rt.targetType != vireo.RenderTargetTypeColor {
		heap = d.dsvs
	}
	view, readOnly := rt.view, rt.readOnly
	rt.view, rt.readOnly = descheap.Range{}, descheap.Range{}
	d.release("render target views "+rt.image.Name(), func() {
		heap.free(view)
		heap.free(readOnly)
	})
	rt.image.Destroy()
}

func asRenderTarget(r vireo.RenderTarget) (*RenderTarget, error) {
	rt, ok := r.(*RenderTarget)
	if !ok || rt == nil || rt.image.handle == nil {
		return nil, fmt.Errorf("directx: render target: %w", vireo.ErrDestroyed)
	}
	return rt, nil
}

// Sampler is a sampler description. D3D12 samplers are not objects; the
// description is written into every descriptor set slot it is bound to.
type Sampler struct {
	desc   vireo.SamplerDesc
	native d3d12.D3D12_SAMPLER_DESC
}

func (d *Device) createSampler(desc vireo.SamplerDesc) *Sampler {
	native := d3d12.D3D12_SAMPLER_DESC{
		Filter:         filterToDX(desc),
		AddressU:       addressModeMap[desc.AddressU],
		AddressV:       addressModeMap[desc.AddressV],
		AddressW:       addressModeMap[desc.AddressW],
		MaxAnisotropy:  min(max(desc.MaxAnisotropy, 1), 16),
		ComparisonFunc: d3d12.D3D12_COMPARISON_FUNC_NEVER,
		BorderColor:    [4]float32{0, 0, 0, 1},
		MinLOD:         desc.MinLOD,
		MaxLOD:         desc.MaxLOD,
	}
	if desc.CompareEnable {
		native.ComparisonFunc = compareFuncToDX(desc.Compare)
	}
	return &Sampler{desc: desc, native: native}
}

func (s *Sampler) Desc() vireo.SamplerDesc { return s.desc }

// Destroy is a no-op; slots holding the sampler stay valid.
func (s *Sampler) Destroy() {}
