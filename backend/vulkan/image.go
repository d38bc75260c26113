//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/memory"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// Image is a 2D VkImage with a view over all its mips and layers. Swap
// chain images have no memory block and are not destroyed by Destroy.
type Image struct {
	vireo.ImageState
	device  *Device
	handle  vk.Image
	view    vk.ImageView
	format  vk.Format
	block   *memory.MemoryBlock
	trackID uint64
}

func (d *Device) createImage(desc vireo.ImageDesc, usage vk.ImageUsageFlags, samples vk.SampleCountFlagBits, kind vireo.AllocationKind) (*Image, error) {
	state, err := vireo.NewImageState(desc)
	if err != nil {
		return nil, err
	}
	format := imageFormatToVk(desc.Format)
	if format == vk.FormatUndefined {
		return nil, fmt.Errorf("vulkan: image %q: format %s has no Vulkan equivalent", desc.Name, desc.Format)
	}
	info := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    format,
		Extent: vk.Extent3D{
			Width:  desc.Width,
			Height: desc.Height,
			Depth:  1,
		},
		MipLevels:     state.MipLevels(),
		ArrayLayers:   state.ArraySize(),
		Samples:       samples,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         usage,
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}
	var handle vk.Image
	if r := d.cmds.CreateImage(d.handle, &info, nil, &handle); r != vk.Success {
		return nil, resultError("vkCreateImage "+desc.Name, r)
	}

	var reqs vk.MemoryRequirements
	d.cmds.GetImageMemoryRequirements(d.handle, handle, &reqs)
	block, err := d.allocator.Alloc(memory.AllocationRequest{
		Size:           uint64(reqs.Size),
		Alignment:      uint64(reqs.Alignment),
		Usage:          memory.UsageFastDeviceAccess,
		MemoryTypeBits: reqs.MemoryTypeBits,
	})
	if err != nil {
		d.cmds.DestroyImage(d.handle, handle, nil)
		return nil, fmt.Errorf("vulkan: image %q memory: %w: %v", desc.Name, vireo.ErrOutOfMemory, err)
	}
	if r := d.cmds.BindImageMemory(d.handle, handle, block.Memory, vk.DeviceSize(block.Offset)); r != vk.Success {
		_ = d.allocator.Free(block)
		d.cmds.DestroyImage(d.handle, handle, nil)
		return nil, resultError("vkBindImageMemory "+desc.Name, r)
	}

	img := &Image{
		ImageState: state,
		device:     d,
		handle:     handle,
		format:     format,
		block:      block,
	}
	if err := img.createView(); err != nil {
		_ = d.allocator.Free(block)
		d.cmds.DestroyImage(d.handle, handle, nil)
		return nil, err
	}
	d.setObjectName(vk.ObjectTypeImage, uint64(handle), desc.Name)
	img.trackID = d.tracker.Register(kind, desc.Name, block.Size)
	return img, nil
}

// wrapImage adopts an image owned by a swap chain.
func (d *Device) wrapImage(handle vk.Image, format vk.Format, desc vireo.ImageDesc) (*Image, error) {
	state, err := vireo.NewImageState(desc)
	if err != nil {
		return nil, err
	}
	img := &Image{ImageState: state, device: d, handle: handle, format: format}
	if err := img.createView(); err != nil {
		return nil, err
	}
	return img, nil
}

func (img *Image) createView() error {
	viewType := vk.ImageViewType2d
	if img.ArraySize() > 1 {
		viewType = vk.ImageViewType2dArray
	}
	info := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    img.handle,
		ViewType: viewType,
		Format:   img.format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: img.fullRange(),
	}
	d := img.device
	if r := d.cmds.CreateImageView(d.handle, &info, nil, &img.view); r != vk.Success {
		return resultError("vkCreateImageView "+img.Name(), r)
	}
	d.setObjectName(vk.ObjectTypeImageView, uint64(img.view), img.Name())
	return nil
}

// fullRange covers every mip and layer.
func (img *Image) fullRange() vk.ImageSubresourceRange {
	return vk.ImageSubresourceRange{
		AspectMask: aspectMask(img.Format()),
		LevelCount: img.MipLevels(),
		LayerCount: img.ArraySize(),
	}
}

// Destroy releases the image once the GPU no longer uses it.
func (img *Image) Destroy() {
	if img.handle == 0 {
		return
	}
	d, handle, view, block := img.device, img.handle, img.view, img.block
	img.handle, img.view, img.block = 0, 0, nil
	if block == nil {
		if view != 0 {
			d.cmds.DestroyImageView(d.handle, view, nil)
		}
		return
	}
	d.tracker.Unregister(img.trackID)
	d.release("image "+img.Name(), func() {
		if view != 0 {
			d.cmds.DestroyImageView(d.handle, view, nil)
		}
		d.cmds.DestroyImage(d.handle, handle, nil)
		_ = d.allocator.Free(block)
	})
}

func imageUsage(readWrite bool) vk.ImageUsageFlags {
	u := vk.ImageUsageFlags(vk.ImageUsageSampledBit | vk.ImageUsageTransferSrcBit | vk.ImageUsageTransferDstBit)
	if readWrite {
		u |= vk.ImageUsageFlags(vk.ImageUsageStorageBit)
	}
	return u
}

// RenderTarget is an Image usable as a color or depth attachment.
type RenderTarget struct {
	image      *Image
	targetType vireo.RenderTargetType
	clear      vireo.ClearValue
	samples    vireo.MSAA
}

func (d *Device) createRenderTarget(desc vireo.RenderTargetDesc) (*RenderTarget, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	usage := vk.ImageUsageFlags(vk.ImageUsageSampledBit | vk.ImageUsageTransferSrcBit)
	if desc.Type == vireo.RenderTargetTypeColor {
		usage |= vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit)
	} else {
		usage |= vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit)
	}
	img, err := d.createImage(desc.ImageDesc(), usage, sampleCount(desc.Samples()), vireo.AllocationRenderTarget)
	if err != nil {
		return nil, err
	}
	return &RenderTarget{image: img, targetType: desc.Type, clear: desc.ClearValue, samples: desc.Samples()}, nil
}

func (rt *RenderTarget) Image() vireo.Image           { return rt.image }
func (rt *RenderTarget) Type() vireo.RenderTargetType { return rt.targetType }
func (rt *RenderTarget) ClearValue() vireo.ClearValue { return rt.clear }
func (rt *RenderTarget) Destroy()                     { rt.image.Destroy() }

// Sampler is a VkSampler.
type Sampler struct {
	device *Device
	handle vk.Sampler
	desc   vireo.SamplerDesc
}

func (d *Device) createSampler(desc vireo.SamplerDesc) (*Sampler, error) {
	info := vk.SamplerCreateInfo{
		SType:        vk.StructureTypeSamplerCreateInfo,
		MagFilter:    filterToVk(desc.MagFilter),
		MinFilter:    filterToVk(desc.MinFilter),
		MipmapMode:   mipMapModeToVk(desc.MipMapMode),
		AddressModeU: addressModeMap[desc.AddressU],
		AddressModeV: addressModeMap[desc.AddressV],
		AddressModeW: addressModeMap[desc.AddressW],
		MinLod:       desc.MinLOD,
		MaxLod:       desc.MaxLOD,
		BorderColor:  vk.BorderColorFloatOpaqueBlack,
	}
	if desc.MaxAnisotropy > 1 && d.physical.features.SamplerAnisotropy != 0 {
		info.AnisotropyEnable = vk.Bool32(vk.True)
		info.MaxAnisotropy = min(float32(desc.MaxAnisotropy), d.physical.props.Limits.MaxSamplerAnisotropy)
	}
	if desc.CompareEnable {
		info.CompareEnable = vk.Bool32(vk.True)
		info.CompareOp = compareOpMap[desc.Compare]
	}
	var handle vk.Sampler
	if r := d.cmds.CreateSampler(d.handle, &info, nil, &handle); r != vk.Success {
		return nil, resultError("vkCreateSampler "+desc.Name, r)
	}
	d.setObjectName(vk.ObjectTypeSampler, uint64(handle), desc.Name)
	return &Sampler{device: d, handle: handle, desc: desc}, nil
}

func (s *Sampler) Desc() vireo.SamplerDesc { return s.desc }

func (s *Sampler) Destroy() {
	if s.handle == 0 {
		return
	}
	d, handle := s.device, s.handle
	s.handle = 0
	d.release("sampler "+s.desc.Name, func() { d.cmds.DestroySampler(d.handle, handle, nil) })
}
