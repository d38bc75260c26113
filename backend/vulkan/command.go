//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// CommandAllocator is a VkCommandPool on the queue family of its command
// type.
type CommandAllocator struct {
	device  *Device
	pool    vk.CommandPool
	cmdType vireo.CommandType
}

func (d *Device) createCommandAllocator(t vireo.CommandType) (*CommandAllocator, error) {
	info := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: d.QueueFamily(t),
	}
	var pool vk.CommandPool
	if r := d.cmds.CreateCommandPool(d.handle, &info, nil, &pool); r != vk.Success {
		return nil, resultError("vkCreateCommandPool "+t.String(), r)
	}
	d.setObjectName(vk.ObjectTypeCommandPool, uint64(pool), t.String())
	return &CommandAllocator{device: d, pool: pool, cmdType: t}, nil
}

func (a *CommandAllocator) Type() vireo.CommandType { return a.cmdType }

func (a *CommandAllocator) CreateCommandList(name string) (vireo.CommandList, error) {
	d := a.device
	info := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        a.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}
	var handle vk.CommandBuffer
	if r := d.cmds.AllocateCommandBuffers(d.handle, &info, &handle); r != vk.Success {
		return nil, resultError("vkAllocateCommandBuffers "+name, r)
	}
	d.setObjectName(vk.ObjectTypeCommandBuffer, uint64(handle), name)
	return &CommandList{
		Recorder:  vireo.NewRecorder(name),
		device:    d,
		allocator: a,
		handle:    handle,
		name:      name,
	}, nil
}

func (a *CommandAllocator) Reset() error {
	d := a.device
	if r := d.cmds.ResetCommandPool(d.handle, a.pool, 0); r != vk.Success {
		return resultError("vkResetCommandPool", r)
	}
	return nil
}

// Destroy frees the pool and every list allocated from it.
func (a *CommandAllocator) Destroy() {
	if a.pool == 0 {
		return
	}
	d, pool := a.device, a.pool
	a.pool = 0
	d.release("command pool "+a.cmdType.String(), func() { d.cmds.DestroyCommandPool(d.handle, pool, nil) })
}

// CommandList is a primary VkCommandBuffer.
type CommandList struct {
	vireo.Recorder
	device    *Device
	allocator *CommandAllocator
	handle    vk.CommandBuffer
	name      string
}

func (c *CommandList) Begin() error {
	d := c.device
	if c.StartRecording() {
		if r := d.cmds.ResetCommandBuffer(c.handle, 0); r != vk.Success {
			return resultError("vkResetCommandBuffer "+c.name, r)
		}
	}
	info := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if r := d.cmds.BeginCommandBuffer(c.handle, &info); r != vk.Success {
		return resultError("vkBeginCommandBuffer "+c.name, r)
	}
	return nil
}

func (c *CommandList) End() error {
	if err := c.StopRecording(); err != nil {
		return err
	}
	if r := c.device.cmds.EndCommandBuffer(c.handle); r != vk.Success {
		return resultError("vkEndCommandBuffer "+c.name, r)
	}
	return nil
}

// staging creates a mapped upload buffer holding data and retains it
// until Cleanup.
func (c *CommandList) staging(t vireo.BufferType, data []byte, name string) (*Buffer, error) {
	buf, err := c.device.createBuffer(vireo.BufferDesc{
		Type:         t,
		InstanceSize: uint32(len(data)),
		Name:         name,
	}, vireo.AllocationStaging)
	if err != nil {
		return nil, err
	}
	if err := buf.Map(); err != nil {
		buf.Destroy()
		return nil, err
	}
	if err := buf.Write(data, uint64(len(data)), 0); err != nil {
		buf.Unmap()
		buf.Destroy()
		return nil, err
	}
	buf.Unmap()
	c.KeepStaging(buf.Destroy)
	return buf, nil
}

// Upload copies data into dst through a staging buffer.
func (c *CommandList) Upload(dst vireo.Buffer, data []byte) error {
	if err := c.CheckRecording("Upload"); err != nil {
		return err
	}
	vb, err := asBuffer(dst)
	if err != nil {
		return err
	}
	if uint64(len(data)) > vb.Size() {
		return fmt.Errorf("vulkan: upload %d bytes to %q of %d: %w", len(data), vb.Name(), vb.Size(), vireo.ErrOutOfRange)
	}
	if len(data) == 0 {
		return nil
	}
	src, err := c.staging(vireo.BufferTypeBufferUpload, data, vb.Name()+" staging")
	if err != nil {
		return err
	}
	region := vk.BufferCopy{Size: vk.DeviceSize(len(data))}
	c.device.cmds.CmdCopyBuffer(c.handle, src.handle, vb.handle, 1, &region)
	return nil
}

// UploadImage copies every mip and layer of dst from data, packed as
// described by ImageState.UploadLayout. dst must be in
// ResourceStateCopyDst.
func (c *CommandList) UploadImage(dst vireo.Image, data []byte) error {
	if err := c.CheckRecording("UploadImage"); err != nil {
		return err
	}
	img, err := asImage(dst)
	if err != nil {
		return err
	}
	if want := img.UploadSize(); uint64(len(data)) != want {
		return fmt.Errorf("vulkan: upload image %q: %d bytes, want %d: %w", img.Name(), len(data), want, vireo.ErrOutOfRange)
	}
	src, err := c.staging(vireo.BufferTypeImageUpload, data, img.Name()+" staging")
	if err != nil {
		return err
	}
	layout := img.UploadLayout()
	regions := make([]vk.BufferImageCopy, len(layout))
	for i, sub := range layout {
		regions[i] = img.copyRegion(sub.Mip, sub.Layer, sub.Offset)
	}
	c.device.cmds.CmdCopyBufferToImage(c.handle, src.handle, img.handle, vk.ImageLayoutTransferDstOptimal, uint32(len(regions)), &regions[0])
	runtime.KeepAlive(regions)
	return nil
}

func (img *Image) copyRegion(mip, layer uint32, offset uint64) vk.BufferImageCopy {
	e := img.MipExtent(mip)
	return vk.BufferImageCopy{
		BufferOffset:    vk.DeviceSize(offset),
		BufferRowLength: img.RowLength(mip),
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask:     aspectMask(img.Format()),
			MipLevel:       mip,
			BaseArrayLayer: layer,
			LayerCount:     1,
		},
		ImageExtent: vk.Extent3D{Width: e.Width, Height: e.Height, Depth: 1},
	}
}

func (c *CommandList) CopyBuffer(src, dst vireo.Buffer, size, srcOffset, dstOffset uint64) error {
	if err := c.CheckRecording("CopyBuffer"); err != nil {
		return err
	}
	s, err := asBuffer(src)
	if err != nil {
		return err
	}
	t, err := asBuffer(dst)
	if err != nil {
		return err
	}
	size, err = vireo.CopyExtent(size, srcOffset, s.Size(), dstOffset, t.Size())
	if err != nil {
		return fmt.Errorf("vulkan: %q -> %q: %w", s.Name(), t.Name(), err)
	}
	region := vk.BufferCopy{
		SrcOffset: vk.DeviceSize(srcOffset),
		DstOffset: vk.DeviceSize(dstOffset),
		Size:      vk.DeviceSize(size),
	}
	c.device.cmds.CmdCopyBuffer(c.handle, s.handle, t.handle, 1, &region)
	return nil
}

func (c *CommandList) CopyBufferToImage(src vireo.Buffer, dst vireo.Image, mip, layer uint32) error {
	if err := c.CheckRecording("CopyBufferToImage"); err != nil {
		return err
	}
	b, err := asBuffer(src)
	if err != nil {
		return err
	}
	img, err := asImage(dst)
	if err != nil {
		return err
	}
	if err := checkImageCopy(img, b, mip, layer); err != nil {
		return err
	}
	region := img.copyRegion(mip, layer, 0)
	c.device.cmds.CmdCopyBufferToImage(c.handle, b.handle, img.handle, vk.ImageLayoutTransferDstOptimal, 1, &region)
	return nil
}

func (c *CommandList) CopyImageToBuffer(src vireo.Image, dst vireo.Buffer, mip, layer uint32) error {
	if err := c.CheckRecording("CopyImageToBuffer"); err != nil {
		return err
	}
	img, err := asImage(src)
	if err != nil {
		return err
	}
	b, err := asBuffer(dst)
	if err != nil {
		return err
	}
	if err := checkImageCopy(img, b, mip, layer); err != nil {
		return err
	}
	region := img.copyRegion(mip, layer, 0)
	c.device.cmds.CmdCopyImageToBuffer(c.handle, img.handle, vk.ImageLayoutTransferSrcOptimal, b.handle, 1, &region)
	return nil
}

// CopyToSwapChain copies src into the acquired swap chain image. src must
// be in ResourceStateCopySrc and the swap chain image in
// ResourceStateCopyDst.
func (c *CommandList) CopyToSwapChain(src vireo.Image, dst vireo.SwapChain) error {
	if err := c.CheckRecording("CopyToSwapChain"); err != nil {
		return err
	}
	img, err := asImage(src)
	if err != nil {
		return err
	}
	target, err := asSwapChainImage(dst)
	if err != nil {
		return err
	}
	layers := vk.ImageSubresourceLayers{AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit), LayerCount: 1}
	region := vk.ImageCopy{
		SrcSubresource: layers,
		DstSubresource: layers,
		Extent: vk.Extent3D{
			Width:  min(img.Width(), target.Width()),
			Height: min(img.Height(), target.Height()),
			Depth:  1,
		},
	}
	c.device.cmds.CmdCopyImage(c.handle,
		img.handle, vk.ImageLayoutTransferSrcOptimal,
		target.handle, vk.ImageLayoutTransferDstOptimal,
		1, &region)
	return nil
}

func checkSubresource(img *Image, mip, layer uint32) error {
	if mip >= img.MipLevels() || layer >= img.ArraySize() {
		return fmt.Errorf("vulkan: image %q has no mip %d layer %d: %w", img.Name(), mip, layer, vireo.ErrOutOfRange)
	}
	return nil
}

// checkImageCopy fails unless b holds one tightly packed layer of mip
// of img.
func checkImageCopy(img *Image, b *Buffer, mip, layer uint32) error {
	if err := checkSubresource(img, mip, layer); err != nil {
		return err
	}
	if need := img.ImageSize(mip); need > b.Size() {
		return fmt.Errorf("vulkan: copy %q mip %d needs %d bytes, %q has %d: %w",
			img.Name(), mip, need, b.Name(), b.Size(), vireo.ErrOutOfRange)
	}
	return nil
}

func (c *CommandList) Barrier(img vireo.Image, from, to vireo.ResourceState) error {
	if err := c.CheckRecording("Barrier"); err != nil {
		return err
	}
	vi, err := asImage(img)
	if err != nil {
		return err
	}
	c.imageBarrier(vi, from, to)
	return nil
}

func (c *CommandList) BarrierSwapChain(sc vireo.SwapChain, from, to vireo.ResourceState) error {
	if err := c.CheckRecording("BarrierSwapChain"); err != nil {
		return err
	}
	img, err := asSwapChainImage(sc)
	if err != nil {
		return err
	}
	c.imageBarrier(img, from, to)
	return nil
}

func (c *CommandList) imageBarrier(img *Image, from, to vireo.ResourceState) {
	src, dst := barrierStates[from], barrierStates[to]
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       src.access,
		DstAccessMask:       dst.access,
		OldLayout:           src.layout,
		NewLayout:           dst.layout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img.handle,
		SubresourceRange:    img.fullRange(),
	}
	c.device.cmds.CmdPipelineBarrier(c.handle, src.stage, dst.stage, 0, 0, nil, 0, nil, 1, &barrier)
}

func (c *CommandList) BarrierBuffer(buf vireo.Buffer, from, to vireo.ResourceState) error {
	if err := c.CheckRecording("BarrierBuffer"); err != nil {
		return err
	}
	b, err := asBuffer(buf)
	if err != nil {
		return err
	}
	src, dst := barrierStates[from], barrierStates[to]
	barrier := vk.BufferMemoryBarrier{
		SType:               vk.StructureTypeBufferMemoryBarrier,
		SrcAccessMask:       src.access,
		DstAccessMask:       dst.access,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Buffer:              b.handle,
		Size:                vk.DeviceSize(vk.WholeSize),
	}
	c.device.cmds.CmdPipelineBarrier(c.handle, src.stage, dst.stage, 0, 0, nil, 1, &barrier, 0, nil)
	return nil
}

// colorAttachment resolves the image a color attachment renders to.
func colorAttachment(a vireo.ColorAttachment) (*Image, error) {
	if a.SwapChain != nil {
		return asSwapChainImage(a.SwapChain)
	}
	if a.RenderTarget == nil {
		return nil, fmt.Errorf("vulkan: color attachment without target: %w", vireo.ErrDestroyed)
	}
	return asImage(a.RenderTarget.Image())
}

func loadOp(clear bool) vk.AttachmentLoadOp {
	if clear {
		return vk.AttachmentLoadOpClear
	}
	return vk.AttachmentLoadOpLoad
}

// BeginRendering opens a dynamic rendering pass over the attachments.
// Attachments must already be in their render target states.
func (c *CommandList) BeginRendering(cfg vireo.RenderingConfig) error {
	if err := c.StartRendering(); err != nil {
		return err
	}
	colors := make([]vk.RenderingAttachmentInfo, len(cfg.Color))
	var area vireo.Extent
	for i, a := range cfg.Color {
		img, err := colorAttachment(a)
		if err != nil {
			_ = c.StopRendering()
			return err
		}
		if i == 0 {
			area = img.MipExtent(0)
		}
		colors[i] = vk.RenderingAttachmentInfo{
			SType:       vk.StructureTypeRenderingAttachmentInfo,
			ImageView:   img.view,
			ImageLayout: vk.ImageLayoutColorAttachmentOptimal,
			ResolveMode: vk.ResolveModeNone,
			LoadOp:      loadOp(a.Clear),
			StoreOp:     vk.AttachmentStoreOpStore,
			ClearValue:  vk.ClearValueColor(a.ClearValue.Color[0], a.ClearValue.Color[1], a.ClearValue.Color[2], a.ClearValue.Color[3]),
		}
		if a.Resolve != nil {
			resolve, err := asImage(a.Resolve.Image())
			if err != nil {
				_ = c.StopRendering()
				return err
			}
			colors[i].ResolveMode = vk.ResolveModeAverageBit
			colors[i].ResolveImageView = resolve.view
			colors[i].ResolveImageLayout = vk.ImageLayoutColorAttachmentOptimal
		}
	}

	info := vk.RenderingInfo{
		SType:                vk.StructureTypeRenderingInfo,
		LayerCount:           1,
		ColorAttachmentCount: uint32(len(colors)),
	}
	if len(colors) > 0 {
		info.PColorAttachments = &colors[0]
	}
	var depth vk.RenderingAttachmentInfo
	if cfg.Depth != nil {
		img, err := asImage(cfg.Depth.Image())
		if err != nil {
			_ = c.StopRendering()
			return err
		}
		if len(colors) == 0 {
			area = img.MipExtent(0)
		}
		layout := vk.ImageLayoutDepthStencilAttachmentOptimal
		store := vk.AttachmentStoreOpStore
		if cfg.DepthReadOnly {
			layout = vk.ImageLayoutDepthStencilReadOnlyOptimal
			store = vk.AttachmentStoreOpDontCare
		}
		depth = vk.RenderingAttachmentInfo{
			SType:       vk.StructureTypeRenderingAttachmentInfo,
			ImageView:   img.view,
			ImageLayout: layout,
			ResolveMode: vk.ResolveModeNone,
			LoadOp:      loadOp(cfg.ClearDepth),
			StoreOp:     store,
			ClearValue:  vk.ClearValueDepthStencil(cfg.DepthClear.Depth, cfg.DepthClear.Stencil),
		}
		info.PDepthAttachment = &depth
		if img.Format().HasStencil() {
			stencil := depth
			stencil.LoadOp = loadOp(cfg.ClearStencil)
			info.PStencilAttachment = &stencil
		}
	}
	info.RenderArea = vk.Rect2D{Extent: vk.Extent2D{Width: area.Width, Height: area.Height}}

	infoPtr := unsafe.Pointer(&info)
	cb := c.handle
	_ = ffi.CallFunction(&vk.SigVoidHandlePtr, c.device.beginRendering, nil, []unsafe.Pointer{
		unsafe.Pointer(&cb),
		unsafe.Pointer(&infoPtr),
	})
	runtime.KeepAlive(colors)
	runtime.KeepAlive(&depth)
	return nil
}

func (c *CommandList) EndRendering() error {
	if err := c.StopRendering(); err != nil {
		return err
	}
	cb := c.handle
	_ = ffi.CallFunction(&vk.SigVoidHandle, c.device.endRendering, nil, []unsafe.Pointer{unsafe.Pointer(&cb)})
	return nil
}

func (c *CommandList) SetViewport(vp vireo.Viewport) error {
	if err := c.CheckRecording("SetViewport"); err != nil {
		return err
	}
	// Flip Y so clip space matches the DirectX convention.
	native := vk.Viewport{
		X:        vp.X,
		Y:        vp.Y + vp.Height,
		Width:    vp.Width,
		Height:   -vp.Height,
		MinDepth: vp.MinDepth,
		MaxDepth: vp.MaxDepth,
	}
	c.device.cmds.CmdSetViewport(c.handle, 0, 1, &native)
	return nil
}

func (c *CommandList) SetScissor(r vireo.Rect) error {
	if err := c.CheckRecording("SetScissor"); err != nil {
		return err
	}
	native := vk.Rect2D{
		Offset: vk.Offset2D{X: r.X, Y: r.Y},
		Extent: vk.Extent2D{Width: r.Width, Height: r.Height},
	}
	c.device.cmds.CmdSetScissor(c.handle, 0, 1, &native)
	return nil
}

func (c *CommandList) BindPipeline(p vireo.Pipeline) error {
	if err := c.CheckRecording("BindPipeline"); err != nil {
		return err
	}
	vp, err := asPipeline(p)
	if err != nil {
		return err
	}
	c.device.cmds.CmdBindPipeline(c.handle, vp.bindPoint(), vp.handle)
	return nil
}

func (c *CommandList) BindVertexBuffer(buf vireo.Buffer, offset uint64) error {
	return c.BindVertexBuffers([]vireo.Buffer{buf}, []uint64{offset})
}

func (c *CommandList) BindVertexBuffers(bufs []vireo.Buffer, offsets []uint64) error {
	if err := c.CheckRecording("BindVertexBuffers"); err != nil {
		return err
	}
	if len(bufs) != len(offsets) {
		return fmt.Errorf("vulkan: %d vertex buffers with %d offsets: %w", len(bufs), len(offsets), vireo.ErrOutOfRange)
	}
	if len(bufs) == 0 {
		return nil
	}
	handles := make([]vk.Buffer, len(bufs))
	sizes := make([]vk.DeviceSize, len(bufs))
	for i, b := range bufs {
		vb, err := asBuffer(b)
		if err != nil {
			return err
		}
		handles[i] = vb.handle
		sizes[i] = vk.DeviceSize(offsets[i])
	}
	c.device.cmds.CmdBindVertexBuffers(c.handle, 0, uint32(len(handles)), &handles[0], &sizes[0])
	runtime.KeepAlive(handles)
	runtime.KeepAlive(sizes)
	return nil
}

func (c *CommandList) BindIndexBuffer(buf vireo.Buffer, t vireo.IndexType, offset uint64) error {
	if err := c.CheckRecording("BindIndexBuffer"); err != nil {
		return err
	}
	vb, err := asBuffer(buf)
	if err != nil {
		return err
	}
	c.device.cmds.CmdBindIndexBuffer(c.handle, vb.handle, vk.DeviceSize(offset), indexTypeToVk(t))
	return nil
}

func (c *CommandList) BindDescriptors(p vireo.Pipeline, sets []vireo.DescriptorSet, firstSet uint32) error {
	if err := c.CheckRecording("BindDescriptors"); err != nil {
		return err
	}
	vp, err := asPipeline(p)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		return nil
	}
	handles := make([]vk.DescriptorSet, len(sets))
	for i, s := range sets {
		vs, err := asDescriptorSet(s)
		if err != nil {
			return err
		}
		if vs.layout.IsDynamicUniform() {
			return fmt.Errorf("vulkan: set %q needs a dynamic offset, bind it with BindDescriptor", vs.name)
		}
		handles[i] = vs.handle
	}
	c.device.cmds.CmdBindDescriptorSets(c.handle, vp.bindPoint(), vp.resources.handle, firstSet, uint32(len(handles)), &handles[0], 0, nil)
	runtime.KeepAlive(handles)
	return nil
}

func (c *CommandList) BindDescriptor(p vireo.Pipeline, set vireo.DescriptorSet, setIndex uint32, dynamicOffsets ...uint32) error {
	if err := c.CheckRecording("BindDescriptor"); err != nil {
		return err
	}
	vp, err := asPipeline(p)
	if err != nil {
		return err
	}
	vs, err := asDescriptorSet(set)
	if err != nil {
		return err
	}
	var offsets *uint32
	if len(dynamicOffsets) > 0 {
		offsets = &dynamicOffsets[0]
	}
	c.device.cmds.CmdBindDescriptorSets(c.handle, vp.bindPoint(), vp.resources.handle, setIndex, 1, &vs.handle, uint32(len(dynamicOffsets)), offsets)
	return nil
}

func (c *CommandList) PushConstants(resources vireo.PipelineResources, stage vireo.ShaderStage, data []byte) error {
	if err := c.CheckRecording("PushConstants"); err != nil {
		return err
	}
	res, err := asResources(resources, "push constants")
	if err != nil {
		return err
	}
	push := res.PushConstants()
	if uint32(len(data)) > push.Size {
		return fmt.Errorf("vulkan: push %d bytes into a %d byte range: %w", len(data), push.Size, vireo.ErrOutOfRange)
	}
	if len(data) == 0 {
		return nil
	}
	cb := c.handle
	layout := res.handle
	stages := uint32(shaderStagesToVk(stage))
	offset := push.Offset
	size := uint32(len(data))
	ptr := unsafe.Pointer(&data[0])
	_ = ffi.CallFunction(&c.device.pushCIF, c.device.pushConstants, nil, []unsafe.Pointer{
		unsafe.Pointer(&cb),
		unsafe.Pointer(&layout),
		unsafe.Pointer(&stages),
		unsafe.Pointer(&offset),
		unsafe.Pointer(&size),
		unsafe.Pointer(&ptr),
	})
	runtime.KeepAlive(data)
	return nil
}

func (c *CommandList) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	if err := c.CheckRecording("Draw"); err != nil {
		return err
	}
	c.device.cmds.CmdDraw(c.handle, vertexCount, instanceCount, firstVertex, firstInstance)
	return nil
}

func (c *CommandList) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) error {
	if err := c.CheckRecording("DrawIndexed"); err != nil {
		return err
	}
	c.device.cmds.CmdDrawIndexed(c.handle, indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
	return nil
}

func (c *CommandList) DrawIndirect(buf vireo.Buffer, offset uint64, drawCount, stride uint32) error {
	if err := c.CheckRecording("DrawIndirect"); err != nil {
		return err
	}
	vb, err := asBuffer(buf)
	if err != nil {
		return err
	}
	c.device.cmds.CmdDrawIndirect(c.handle, vb.handle, vk.DeviceSize(offset), drawCount, stride)
	return nil
}

func (c *CommandList) DrawIndexedIndirect(buf vireo.Buffer, offset uint64, drawCount, stride uint32) error {
	if err := c.CheckRecording("DrawIndexedIndirect"); err != nil {
		return err
	}
	vb, err := asBuffer(buf)
	if err != nil {
		return err
	}
	c.device.cmds.CmdDrawIndexedIndirect(c.handle, vb.handle, vk.DeviceSize(offset), drawCount, stride)
	return nil
}

func (c *CommandList) Dispatch(x, y, z uint32) error {
	if err := c.CheckRecording("Dispatch"); err != nil {
		return err
	}
	c.device.cmds.CmdDispatch(c.handle, x, y, z)
	return nil
}

func asBuffer(b vireo.Buffer) (*Buffer, error) {
	vb, ok := b.(*Buffer)
	if !ok || vb == nil || vb.handle == 0 {
		return nil, fmt.Errorf("vulkan: buffer: %w", vireo.ErrDestroyed)
	}
	return vb, nil
}

func asImage(img vireo.Image) (*Image, error) {
	vi, ok := img.(*Image)
	if !ok || vi == nil || vi.handle == 0 {
		return nil, fmt.Errorf("vulkan: image: %w", vireo.ErrDestroyed)
	}
	return vi, nil
}

func asPipeline(p vireo.Pipeline) (*Pipeline, error) {
	vp, ok := p.(*Pipeline)
	if !ok || vp == nil || vp.handle == 0 {
		return nil, fmt.Errorf("vulkan: pipeline: %w", vireo.ErrDestroyed)
	}
	return vp, nil
}

func asDescriptorSet(s vireo.DescriptorSet) (*DescriptorSet, error) {
	vs, ok := s.(*DescriptorSet)
	if !ok || vs == nil || vs.handle == 0 {
		return nil, fmt.Errorf("vulkan: descriptor set: %w", vireo.ErrDestroyed)
	}
	return vs, nil
}

func asCommandList(l vireo.CommandList) (*CommandList, error) {
	vl, ok := l.(*CommandList)
	if !ok || vl == nil {
		return nil, fmt.Errorf("vulkan: command list: %w", vireo.ErrDestroyed)
	}
	if vl.State() != vireo.CommandListClosed {
		return nil, fmt.Errorf("vulkan: submit %q (%s): %w", vl.name, vl.State(), vireo.ErrNotRecording)
	}
	return vl, nil
}
