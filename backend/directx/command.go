//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"bytes"
	"fmt"

	"github.com/gogpu/vireo"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
)

// CommandAllocator is an ID3D12CommandAllocator of the list type serving
// its command type. Every list it creates records into it.
type CommandAllocator struct {
	device   *Device
	handle   *d3d12.ID3D12CommandAllocator
	cmdType  vireo.CommandType
	listType d3d12.D3D12_COMMAND_LIST_TYPE
	lists    []*CommandList
}

func (d *Device) createCommandAllocator(t vireo.CommandType) (*CommandAllocator, error) {
	lt := commandListTypeMap[t]
	handle, err := d.handle.CreateCommandAllocator(lt)
	if err != nil {
		return nil, hresultError("CreateCommandAllocator "+t.String(), err)
	}
	return &CommandAllocator{device: d, handle: handle, cmdType: t, listType: lt}, nil
}

func (a *CommandAllocator) Type() vireo.CommandType { return a.cmdType }

// CreateCommandList creates a closed list; Begin resets it onto the
// allocator.
func (a *CommandAllocator) CreateCommandList(name string) (vireo.CommandList, error) {
	handle, err := a.device.handle.CreateCommandList(0, a.listType, a.handle, nil)
	if err != nil {
		return nil, hresultError("CreateCommandList "+name, err)
	}
	if err := handle.Close(); err != nil {
		handle.Release()
		return nil, hresultError("ID3D12GraphicsCommandList.Close "+name, err)
	}
	l := &CommandList{
		Recorder:  vireo.NewRecorder(name),
		device:    a.device,
		allocator: a,
		handle:    handle,
		name:      name,
	}
	a.lists = append(a.lists, l)
	return l, nil
}

// Reset reclaims the memory of every list recorded from a. The lists must
// have finished executing.
func (a *CommandAllocator) Reset() error {
	if err := a.handle.Reset(); err != nil {
		return hresultError("ID3D12CommandAllocator.Reset", err)
	}
	return nil
}

// Destroy releases the allocator and every list created from it.
func (a *CommandAllocator) Destroy() {
	if a.handle == nil {
		return
	}
	for _, l := range a.lists {
		l.destroy()
	}
	a.lists = nil
	d, handle := a.device, a.handle
	a.handle = nil
	d.release("command allocator "+a.cmdType.String(), func() { handle.Release() })
}

// resolve is a multisample resolve performed when rendering ends.
type resolve struct {
	src, dst *Image
	format   d3d12.DXGI_FORMAT
}

// CommandList is an ID3D12GraphicsCommandList.
type CommandList struct {
	vireo.Recorder
	device    *Device
	allocator *CommandAllocator
	handle    *d3d12.ID3D12GraphicsCommandList
	pipeline  *Pipeline
	resolves  []resolve
	writes    []hostWrite
	name      string
}

// hostWrite is an Upload into a mapped upload heap buffer. It is applied
// by the CPU each time the list is submitted, before the list executes.
type hostWrite struct {
	dst  []byte
	data []byte
}

func (w hostWrite) apply() { copy(w.dst, w.data) }

func (c *CommandList) Begin() error {
	if c.handle == nil {
		return fmt.Errorf("directx: begin %q: %w", c.name, vireo.ErrDestroyed)
	}
	// A list begun twice is still open and must be closed before Reset.
	if c.State() == vireo.CommandListRecording {
		_ = c.handle.Close()
	}
	c.StartRecording()
	if err := c.handle.Reset(c.allocator.handle, nil); err != nil {
		return hresultError("ID3D12GraphicsCommandList.Reset "+c.name, err)
	}
	c.pipeline = nil
	c.resolves = c.resolves[:0]
	c.writes = c.writes[:0]
	if c.allocator.listType != d3d12.D3D12_COMMAND_LIST_TYPE_COPY {
		c.device.descriptors.bind(c.handle)
	}
	return nil
}

func (c *CommandList) End() error {
	if err := c.StopRecording(); err != nil {
		return err
	}
	if err := c.handle.Close(); err != nil {
		return hresultError("ID3D12GraphicsCommandList.Close "+c.name, err)
	}
	return nil
}

// destroy releases the native list once the GPU no longer uses it.
func (c *CommandList) destroy() {
	if c.handle == nil {
		return
	}
	handle := c.handle
	c.handle = nil
	c.Cleanup()
	c.device.release("command list "+c.name, func() { handle.Release() })
}

// staging creates a mapped upload buffer of size bytes and retains it
// until Cleanup.
func (c *CommandList) staging(t vireo.BufferType, size uint64, name string) (*Buffer, error) {
	buf, err := c.device.createBuffer(vireo.BufferDesc{
		Type:         t,
		InstanceSize: uint32(size),
		Name:         name,
	}, vireo.AllocationStaging)
	if err != nil {
		return nil, err
	}
	if err := buf.Map(); err != nil {
		buf.Destroy()
		return nil, err
	}
	c.KeepStaging(buf.Destroy)
	return buf, nil
}

// Upload copies data into dst through a staging buffer. Upload heap
// destinations are written through their mapping at each submission of
// the list instead.
func (c *CommandList) Upload(dst vireo.Buffer, data []byte) error {
	if err := c.CheckRecording("Upload"); err != nil {
		return err
	}
	b, err := asBuffer(dst)
	if err != nil {
		return err
	}
	if uint64(len(data)) > b.Size() {
		return fmt.Errorf("directx: upload %d bytes to %q of %d: %w", len(data), b.Name(), b.Size(), vireo.ErrOutOfRange)
	}
	if len(data) == 0 {
		return nil
	}
	// Upload heap buffers cannot be copy destinations; they are written
	// through their mapping when the list is submitted.
	if b.heap.heap == d3d12.D3D12_HEAP_TYPE_UPLOAD {
		c.writes = append(c.writes, hostWrite{
			dst:  mappedSlice(b.mapped, b.Size()),
			data: bytes.Clone(data),
		})
		return nil
	}
	src, err := c.staging(vireo.BufferTypeBufferUpload, uint64(len(data)), b.Name()+" staging")
	if err != nil {
		return err
	}
	copy(src.Mapped(), data)
	c.handle.CopyBufferRegion(b.handle, 0, src.handle, 0, uint64(len(data)))
	return nil
}

// footprint describes mip of img placed at offset of a buffer with rows
// pitch bytes apart.
func (img *Image) footprint(mip uint32, offset uint64, pitch uint32) d3d12.D3D12_PLACED_SUBRESOURCE_FOOTPRINT {
	e := img.MipExtent(mip)
	return d3d12.D3D12_PLACED_SUBRESOURCE_FOOTPRINT{
		Offset: offset,
		Footprint: d3d12.D3D12_SUBRESOURCE_FOOTPRINT{
			Format:   img.formats.resource,
			Width:    e.Width,
			Height:   e.Height,
			Depth:    1,
			RowPitch: pitch,
		},
	}
}

// rows returns the number of pitch rows of mip: block rows for
// block-compressed formats.
func (img *Image) rows(mip uint32) uint32 {
	h := img.MipExtent(mip).Height
	if img.Format().IsBlockCompressed() {
		return (h + 3) / 4
	}
	return h
}

// copyPlan is the placement of every subresource in a buffer whose rows
// are padded to the texture data pitch alignment.
type copyPlan struct {
	offsets []uint64
	pitches []uint32
	size    uint64
}

func planCopy(img *Image, layout []vireo.Subresource) copyPlan {
	p := copyPlan{offsets: make([]uint64, len(layout)), pitches: make([]uint32, len(layout))}
	for i, sub := range layout {
		p.size = alignUp(p.size, textureDataPlacementAlignment)
		p.offsets[i] = p.size
		p.pitches[i] = uint32(alignUp(uint64(img.RowPitch(sub.Mip)), textureDataPitchAlignment))
		p.size += uint64(p.pitches[i]) * uint64(img.rows(sub.Mip))
	}
	return p
}

// UploadImage copies every mip and layer of dst from data, packed as
// described by ImageState.UploadLayout. Rows are repacked to the pitch
// alignment D3D12 requires. dst must be in ResourceStateCopyDst.
func (c *CommandList) UploadImage(dst vireo.Image, data []byte) error {
	if err := c.CheckRecording("UploadImage"); err != nil {
		return err
	}
	img, err := asImage(dst)
	if err != nil {
		return err
	}
	if want := img.UploadSize(); uint64(len(data)) != want {
		return fmt.Errorf("directx: upload image %q: %d bytes, want %d: %w", img.Name(), len(data), want, vireo.ErrOutOfRange)
	}
	layout := img.UploadLayout()
	plan := planCopy(img, layout)
	src, err := c.staging(vireo.BufferTypeImageUpload, plan.size, img.Name()+" staging")
	if err != nil {
		return err
	}
	mem := src.Mapped()
	for i, sub := range layout {
		row := uint64(img.RowPitch(sub.Mip))
		for r := range uint64(img.rows(sub.Mip)) {
			from := sub.Offset + r*row
			copy(mem[plan.offsets[i]+r*uint64(plan.pitches[i]):], data[from:from+row])
		}
		var to, from d3d12.D3D12_TEXTURE_COPY_LOCATION
		to.Resource = img.handle
		to.SetSubresourceIndex(img.subresource(sub.Mip, sub.Layer))
		from.Resource = src.handle
		from.SetPlacedFootprint(img.footprint(sub.Mip, plan.offsets[i], plan.pitches[i]))
		c.handle.CopyTextureRegion(&to, 0, 0, 0, &from, nil)
	}
	return nil
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
		return fmt.Errorf("directx: %q -> %q: %w", s.Name(), t.Name(), err)
	}
	c.handle.CopyBufferRegion(t.handle, dstOffset, s.handle, srcOffset, size)
	return nil
}

func checkSubresource(img *Image, mip, layer uint32) error {
	if mip >= img.MipLevels() || layer >= img.ArraySize() {
		return fmt.Errorf("directx: image %q has no mip %d layer %d: %w", img.Name(), mip, layer, vireo.ErrOutOfRange)
	}
	return nil
}

// pitched returns a buffer holding the tightly packed rows of src with
// each row at an aligned pitch. A pitch that is already aligned needs no
// copy and src itself is returned.
func (c *CommandList) pitched(src *Buffer, img *Image, mip uint32) (*Buffer, uint32, error) {
	row := img.RowPitch(mip)
	pitch := uint32(alignUp(uint64(row), textureDataPitchAlignment))
	if pitch == row {
		return src, pitch, nil
	}
	tmp, err := c.device.createBuffer(vireo.BufferDesc{
		Type:         vireo.BufferTypeDeviceStorage,
		InstanceSize: pitch * img.rows(mip),
		Name:         img.Name() + " pitched",
	}, vireo.AllocationStaging)
	if err != nil {
		return nil, 0, err
	}
	c.KeepStaging(tmp.Destroy)
	return tmp, pitch, nil
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
	if err := checkSubresource(img, mip, layer); err != nil {
		return err
	}
	if need := img.ImageSize(mip); need > b.Size() {
		return fmt.Errorf("directx: upload %q needs %d bytes, %q has %d: %w", img.Name(), need, b.Name(), b.Size(), vireo.ErrOutOfRange)
	}
	from, pitch, err := c.pitched(b, img, mip)
	if err != nil {
		return err
	}
	if from != b {
		row := uint64(img.RowPitch(mip))
		for r := range uint64(img.rows(mip)) {
			c.handle.CopyBufferRegion(from.handle, r*uint64(pitch), b.handle, r*row, row)
		}
		barrier := d3d12.NewTransitionBarrier(from.handle, d3d12.D3D12_RESOURCE_STATE_COPY_DEST,
			d3d12.D3D12_RESOURCE_STATE_COPY_SOURCE, d3d12.D3D12_RESOURCE_BARRIER_ALL_SUBRESOURCES)
		c.handle.ResourceBarrier(1, &barrier)
	}
	var to, loc d3d12.D3D12_TEXTURE_COPY_LOCATION
	to.Resource = img.handle
	to.SetSubresourceIndex(img.subresource(mip, layer))
	loc.Resource = from.handle
	loc.SetPlacedFootprint(img.footprint(mip, 0, pitch))
	c.handle.CopyTextureRegion(&to, 0, 0, 0, &loc, nil)
	return nil
}

// CopyImageToBuffer reads mip of layer back into dst, tightly packed.
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
	if err := checkSubresource(img, mip, layer); err != nil {
		return err
	}
	if need := img.ImageSize(mip); need > b.Size() {
		return fmt.Errorf("directx: read back %q needs %d bytes, %q has %d: %w", img.Name(), need, b.Name(), b.Size(), vireo.ErrOutOfRange)
	}
	to, pitch, err := c.pitched(b, img, mip)
	if err != nil {
		return err
	}
	var loc, from d3d12.D3D12_TEXTURE_COPY_LOCATION
	loc.Resource = to.handle
	loc.SetPlacedFootprint(img.footprint(mip, 0, pitch))
	from.Resource = img.handle
	from.SetSubresourceIndex(img.subresource(mip, layer))
	c.handle.CopyTextureRegion(&loc, 0, 0, 0, &from, nil)
	if to != b {
		barrier := d3d12.NewTransitionBarrier(to.handle, d3d12.D3D12_RESOURCE_STATE_COPY_DEST,
			d3d12.D3D12_RESOURCE_STATE_COPY_SOURCE, d3d12.D3D12_RESOURCE_BARRIER_ALL_SUBRESOURCES)
		c.handle.ResourceBarrier(1, &barrier)
		row := uint64(img.RowPitch(mip))
		for r := range uint64(img.rows(mip)) {
			c.handle.CopyBufferRegion(b.handle, r*row, to.handle, r*uint64(pitch), row)
		}
	}
	return nil
}

// CopyToSwapChain copies src into the current back buffer. src must be in
// ResourceStateCopySrc and the back buffer in ResourceStateCopyDst.
func (c *CommandList) CopyToSwapChain(src vireo.Image, dst vireo.SwapChain) error {
	if err := c.CheckRecording("CopyToSwapChain"); err != nil {
		return err
	}
	img, err := asImage(src)
	if err != nil {
		return err
	}
	sc, err := asSwapChain(dst)
	if err != nil {
		return err
	}
	target, _ := sc.current()
	var to, from d3d12.D3D12_TEXTURE_COPY_LOCATION
	to.Resource = target.handle
	to.SetSubresourceIndex(0)
	from.Resource = img.handle
	from.SetSubresourceIndex(0)
	box := d3d12.D3D12_BOX{
		Right:  min(img.Width(), target.Width()),
		Bottom: min(img.Height(), target.Height()),
		Back:   1,
	}
	c.handle.CopyTextureRegion(&to, 0, 0, 0, &from, &box)
	return nil
}

func (c *CommandList) barrier(res *d3d12.ID3D12Resource, from, to vireo.ResourceState) {
	if b, ok := transition(res, from, to); ok {
		c.handle.ResourceBarrier(1, &b)
	}
}

func (c *CommandList) Barrier(img vireo.Image, from, to vireo.ResourceState) error {
	if err := c.CheckRecording("Barrier"); err != nil {
		return err
	}
	di, err := asImage(img)
	if err != nil {
		return err
	}
	c.barrier(di.handle, from, to)
	return nil
}

func (c *CommandList) BarrierSwapChain(sc vireo.SwapChain, from, to vireo.ResourceState) error {
	if err := c.CheckRecording("BarrierSwapChain"); err != nil {
		return err
	}
	s, err := asSwapChain(sc)
	if err != nil {
		return err
	}
	img, _ := s.current()
	c.barrier(img.handle, from, to)
	return nil
}

func (c *CommandList) BarrierBuffer(buf vireo.Buffer, from, to vireo.ResourceState) error {
	if err := c.CheckRecording("BarrierBuffer"); err != nil {
		return err
	}
	b, err := asBuffer(buf)
	if err != nil {
		return err
	}
	// Upload and readback heaps never leave their initial state.
	if b.heap.heap != d3d12.D3D12_HEAP_TYPE_DEFAULT {
		return nil
	}
	c.barrier(b.handle, from, to)
	return nil
}

// colorAttachment resolves the image and view a color attachment renders
// to.
func colorAttachment(a vireo.ColorAttachment) (*Image, d3d12.D3D12_CPU_DESCRIPTOR_HANDLE, error) {
	if a.SwapChain != nil {
		sc, err := asSwapChain(a.SwapChain)
		if err != nil {
			return nil, d3d12.D3D12_CPU_DESCRIPTOR_HANDLE{}, err
		}
		img, rtv := sc.current()
		return img, rtv, nil
	}
	if a.RenderTarget == nil {
		return nil, d3d12.D3D12_CPU_DESCRIPTOR_HANDLE{}, fmt.Errorf("directx: color attachment without target: %w", vireo.ErrDestroyed)
	}
	rt, err := asRenderTarget(a.RenderTarget)
	if err != nil {
		return nil, d3d12.D3D12_CPU_DESCRIPTOR_HANDLE{}, err
	}
	return rt.image, rt.handle, nil
}

// BeginRendering binds and clears the attachments. Attachments must
// already be in their render target states; multisample resolves run in
// EndRendering.
func (c *CommandList) BeginRendering(cfg vireo.RenderingConfig) error {
	if err := c.StartRendering(); err != nil {
		return err
	}
	if len(cfg.Color) > 8 {
		_ = c.StopRendering()
		return fmt.Errorf("directx: %d color attachments exceed 8: %w", len(cfg.Color), vireo.ErrOutOfRange)
	}
	var rtvs [8]d3d12.D3D12_CPU_DESCRIPTOR_HANDLE
	c.resolves = c.resolves[:0]
	for i, a := range cfg.Color {
		img, rtv, err := colorAttachment(a)
		if err != nil {
			_ = c.StopRendering()
			return err
		}
		rtvs[i] = rtv
		if a.Clear {
			color := a.ClearValue.Color
			c.handle.ClearRenderTargetView(rtv, &color, 0, nil)
		}
		if a.Resolve != nil {
			dst, err := asRenderTarget(a.Resolve)
			if err != nil {
				_ = c.StopRendering()
				return err
			}
			c.resolves = append(c.resolves, resolve{src: img, dst: dst.image, format: img.formats.resource})
		}
	}

	var dsv *d3d12.D3D12_CPU_DESCRIPTOR_HANDLE
	if cfg.Depth != nil {
		rt, err := asRenderTarget(cfg.Depth)
		if err != nil {
			_ = c.StopRendering()
			return err
		}
		handle := rt.handle
		if cfg.DepthReadOnly {
			handle = rt.readHandle
		}
		dsv = &handle
		var flags d3d12.D3D12_CLEAR_FLAGS
		if cfg.ClearDepth {
			flags |= d3d12.D3D12_CLEAR_FLAG_DEPTH
		}
		if cfg.ClearStencil && rt.image.Format().HasStencil() {
			flags |= d3d12.D3D12_CLEAR_FLAG_STENCIL
		}
		if flags != 0 && !cfg.DepthReadOnly {
			c.handle.ClearDepthStencilView(rt.handle, flags, cfg.DepthClear.Depth, uint8(cfg.DepthClear.Stencil), 0, nil)
		}
	}
	var first *d3d12.D3D12_CPU_DESCRIPTOR_HANDLE
	if len(cfg.Color) > 0 {
		first = &rtvs[0]
	}
	c.handle.OMSetRenderTargets(uint32(len(cfg.Color)), first, 0, dsv)
	return nil
}

// EndRendering resolves multisampled attachments. Both images of a
// resolve return to the render target state.
func (c *CommandList) EndRendering() error {
	if err := c.StopRendering(); err != nil {
		return err
	}
	for _, r := range c.resolves {
		barriers := [2]d3d12.D3D12_RESOURCE_BARRIER{
			d3d12.NewTransitionBarrier(r.src.handle, d3d12.D3D12_RESOURCE_STATE_RENDER_TARGET,
				d3d12.D3D12_RESOURCE_STATE_RESOLVE_SOURCE, d3d12.D3D12_RESOURCE_BARRIER_ALL_SUBRESOURCES),
			d3d12.NewTransitionBarrier(r.dst.handle, d3d12.D3D12_RESOURCE_STATE_RENDER_TARGET,
				d3d12.D3D12_RESOURCE_STATE_RESOLVE_DEST, d3d12.D3D12_RESOURCE_BARRIER_ALL_SUBRESOURCES),
		}
		c.handle.ResourceBarrier(2, &barriers[0])
		c.handle.ResolveSubresource(r.dst.handle, 0, r.src.handle, 0, r.format)
		back := [2]d3d12.D3D12_RESOURCE_BARRIER{
			d3d12.NewTransitionBarrier(r.src.handle, d3d12.D3D12_RESOURCE_STATE_RESOLVE_SOURCE,
				d3d12.D3D12_RESOURCE_STATE_RENDER_TARGET, d3d12.D3D12_RESOURCE_BARRIER_ALL_SUBRESOURCES),
			d3d12.NewTransitionBarrier(r.dst.handle, d3d12.D3D12_RESOURCE_STATE_RESOLVE_DEST,
				d3d12.D3D12_RESOURCE_STATE_RENDER_TARGET, d3d12.D3D12_RESOURCE_BARRIER_ALL_SUBRESOURCES),
		}
		c.handle.ResourceBarrier(2, &back[0])
	}
	c.resolves = c.resolves[:0]
	return nil
}

func (c *CommandList) SetViewport(vp vireo.Viewport) error {
	if err := c.CheckRecording("SetViewport"); err != nil {
		return err
	}
	native := d3d12.D3D12_VIEWPORT{
		TopLeftX: vp.X,
		TopLeftY: vp.Y,
		Width:    vp.Width,
		Height:   vp.Height,
		MinDepth: vp.MinDepth,
		MaxDepth: vp.MaxDepth,
	}
	c.handle.RSSetViewports(1, &native)
	return nil
}

func (c *CommandList) SetScissor(r vireo.Rect) error {
	if err := c.CheckRecording("SetScissor"); err != nil {
		return err
	}
	native := d3d12.D3D12_RECT{
		Left:   r.X,
		Top:    r.Y,
		Right:  r.X + int32(r.Width),
		Bottom: r.Y + int32(r.Height),
	}
	c.handle.RSSetScissorRects(1, &native)
	return nil
}

// BindPipeline sets the pipeline state with its root signature.
func (c *CommandList) BindPipeline(p vireo.Pipeline) error {
	if err := c.CheckRecording("BindPipeline"); err != nil {
		return err
	}
	dp, err := asPipeline(p)
	if err != nil {
		return err
	}
	if dp.pipelineType == vireo.PipelineTypeCompute {
		c.handle.SetComputeRootSignature(dp.resources.handle)
	} else {
		c.handle.SetGraphicsRootSignature(dp.resources.handle)
		c.handle.IASetPrimitiveTopology(dp.topology)
		c.handle.OMSetStencilRef(dp.stencilRef)
	}
	c.handle.SetPipelineState(dp.handle)
	c.pipeline = dp
	return nil
}

func (c *CommandList) BindVertexBuffer(buf vireo.Buffer, offset uint64) error {
	return c.BindVertexBuffers([]vireo.Buffer{buf}, []uint64{offset})
}

// BindVertexBuffers binds bufs to consecutive slots from 0. The stride of
// a slot is the instance size of its buffer.
func (c *CommandList) BindVertexBuffers(bufs []vireo.Buffer, offsets []uint64) error {
	if err := c.CheckRecording("BindVertexBuffers"); err != nil {
		return err
	}
	if len(bufs) != len(offsets) {
		return fmt.Errorf("directx: %d vertex buffers with %d offsets: %w", len(bufs), len(offsets), vireo.ErrOutOfRange)
	}
	if len(bufs) == 0 {
		return nil
	}
	views := make([]d3d12.D3D12_VERTEX_BUFFER_VIEW, len(bufs))
	for i, buf := range bufs {
		b, err := asBuffer(buf)
		if err != nil {
			return err
		}
		if offsets[i] > b.Size() {
			return fmt.Errorf("directx: vertex buffer %q offset %d: %w", b.Name(), offsets[i], vireo.ErrOutOfRange)
		}
		views[i] = d3d12.D3D12_VERTEX_BUFFER_VIEW{
			BufferLocation: b.address(offsets[i]),
			SizeInBytes:    uint32(b.Size() - offsets[i]),
			StrideInBytes:  b.InstanceSize(),
		}
	}
	c.handle.IASetVertexBuffers(0, uint32(len(views)), &views[0])
	return nil
}

func (c *CommandList) BindIndexBuffer(buf vireo.Buffer, t vireo.IndexType, offset uint64) error {
	if err := c.CheckRecording("BindIndexBuffer"); err != nil {
		return err
	}
	b, err := asBuffer(buf)
	if err != nil {
		return err
	}
	if offset > b.Size() {
		return fmt.Errorf("directx: index buffer %q offset %d: %w", b.Name(), offset, vireo.ErrOutOfRange)
	}
	view := d3d12.D3D12_INDEX_BUFFER_VIEW{
		BufferLocation: b.address(offset),
		SizeInBytes:    uint32(b.Size() - offset),
		Format:         indexFormatToDX(t),
	}
	c.handle.IASetIndexBuffer(&view)
	return nil
}

// bindTable sets root parameter index of the signature of p.
func (c *CommandList) bindTable(p *Pipeline, index uint32, table d3d12.D3D12_GPU_DESCRIPTOR_HANDLE) error {
	if index >= uint32(len(p.resources.layouts)) {
		return fmt.Errorf("directx: pipeline %q has no set %d: %w", p.name, index, vireo.ErrOutOfRange)
	}
	if p.pipelineType == vireo.PipelineTypeCompute {
		c.handle.SetComputeRootDescriptorTable(index, table)
	} else {
		c.handle.SetGraphicsRootDescriptorTable(index, table)
	}
	return nil
}

func (c *CommandList) BindDescriptors(p vireo.Pipeline, sets []vireo.DescriptorSet, firstSet uint32) error {
	if err := c.CheckRecording("BindDescriptors"); err != nil {
		return err
	}
	dp, err := asPipeline(p)
	if err != nil {
		return err
	}
	for i, s := range sets {
		ds, err := asDescriptorSet(s)
		if err != nil {
			return err
		}
		if ds.layout.IsDynamicUniform() {
			return fmt.Errorf("directx: set %q needs a dynamic offset, bind it with BindDescriptor", ds.name)
		}
		table, err := ds.table(0)
		if err != nil {
			return err
		}
		if err := c.bindTable(dp, firstSet+uint32(i), table); err != nil {
			return err
		}
	}
	return nil
}

func (c *CommandList) BindDescriptor(p vireo.Pipeline, set vireo.DescriptorSet, setIndex uint32, dynamicOffsets ...uint32) error {
	if err := c.CheckRecording("BindDescriptor"); err != nil {
		return err
	}
	dp, err := asPipeline(p)
	if err != nil {
		return err
	}
	ds, err := asDescriptorSet(set)
	if err != nil {
		return err
	}
	var offset uint32
	if len(dynamicOffsets) > 0 {
		offset = dynamicOffsets[0]
	}
	table, err := ds.table(offset)
	if err != nil {
		return err
	}
	return c.bindTable(dp, setIndex, table)
}

// PushConstants writes data as root constants after the push constant
// offset of resources.
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
		return fmt.Errorf("directx: push %d bytes into a %d byte range: %w", len(data), push.Size, vireo.ErrOutOfRange)
	}
	words := packWords(data)
	base := push.Offset / 4
	for i, w := range words {
		if stage == vireo.ShaderStageCompute {
			c.handle.SetComputeRoot32BitConstant(res.pushIndex, w, base+uint32(i))
		} else {
			c.handle.SetGraphicsRoot32BitConstant(res.pushIndex, w, base+uint32(i))
		}
	}
	return nil
}

// packWords splits data into little-endian 32-bit values, zero padding
// the last one.
func packWords(data []byte) []uint32 {
	out := make([]uint32, (len(data)+3)/4)
	for i, b := range data {
		out[i/4] |= uint32(b) << (8 * (i % 4))
	}
	return out
}

func (c *CommandList) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	if err := c.CheckRecording("Draw"); err != nil {
		return err
	}
	c.handle.DrawInstanced(vertexCount, instanceCount, firstVertex, firstInstance)
	return nil
}

func (c *CommandList) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) error {
	if err := c.CheckRecording("DrawIndexed"); err != nil {
		return err
	}
	c.handle.DrawIndexedInstanced(indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
	return nil
}

// executeIndirect issues drawCount commands. Records laid out at the
// signature stride go in one call, others one call each.
func (c *CommandList) executeIndirect(sig *d3d12.ID3D12CommandSignature, natural uint32, buf vireo.Buffer, offset uint64, drawCount, stride uint32) error {
	b, err := asBuffer(buf)
	if err != nil {
		return err
	}
	if drawCount == 0 {
		return nil
	}
	if stride == 0 {
		stride = natural
	}
	if end := offset + uint64(drawCount-1)*uint64(stride) + uint64(natural); end > b.Size() {
		return fmt.Errorf("directx: %d indirect commands overflow %q: %w", drawCount, b.Name(), vireo.ErrOutOfRange)
	}
	if stride == natural {
		c.handle.ExecuteIndirect(sig, drawCount, b.handle, offset, nil, 0)
		return nil
	}
	for i := range uint64(drawCount) {
		c.handle.ExecuteIndirect(sig, 1, b.handle, offset+i*uint64(stride), nil, 0)
	}
	return nil
}

func (c *CommandList) DrawIndirect(buf vireo.Buffer, offset uint64, drawCount, stride uint32) error {
	if err := c.CheckRecording("DrawIndirect"); err != nil {
		return err
	}
	return c.executeIndirect(c.device.signatures.draw, drawIndirectStride, buf, offset, drawCount, stride)
}

func (c *CommandList) DrawIndexedIndirect(buf vireo.Buffer, offset uint64, drawCount, stride uint32) error {
	if err := c.CheckRecording("DrawIndexedIndirect"); err != nil {
		return err
	}
	return c.executeIndirect(c.device.signatures.drawIndexed, drawIndexedIndirectStride, buf, offset, drawCount, stride)
}

func (c *CommandList) Dispatch(x, y, z uint32) error {
	if err := c.CheckRecording("Dispatch"); err != nil {
		return err
	}
	c.handle.Dispatch(x, y, z)
	return nil
}

func asPipeline(p vireo.Pipeline) (*Pipeline, error) {
	dp, ok := p.(*Pipeline)
	if !ok || dp == nil || dp.handle == nil {
		return nil, fmt.Errorf("directx: pipeline: %w", vireo.ErrDestroyed)
	}
	return dp, nil
}

func asDescriptorSet(s vireo.DescriptorSet) (*DescriptorSet, error) {
	ds, ok := s.(*DescriptorSet)
	if !ok || ds == nil || !ds.live {
		return nil, fmt.Errorf("directx: descriptor set: %w", vireo.ErrDestroyed)
	}
	return ds, nil
}

func asCommandList(l vireo.CommandList) (*CommandList, error) {
	dl, ok := l.(*CommandList)
	if !ok || dl == nil || dl.handle == nil {
		return nil, fmt.Errorf("directx: command list: %w", vireo.ErrDestroyed)
	}
	if dl.State() != vireo.CommandListClosed {
		return nil, fmt.Errorf("directx: submit %q (%s): %w", dl.name, dl.State(), vireo.ErrNotRecording)
	}
	return dl, nil
}
