//go:build !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vulkan

import (
	"fmt"

	"github.com/gogpu/vireo"
	"github.com/gogpu/vireo/internal/framesync"
	"github.com/gogpu/wgpu/hal/vulkan/vk"
)

// SwapChain is a VkSwapchainKHR on the instance surface driven by the
// shared frame loop.
type SwapChain struct {
	*framesync.Loop
	p *presenter
}

// presenter holds the native swap chain and its per-frame objects:
// image-available semaphores and in-flight fences per frame slot,
// render-finished semaphores per image.
type presenter struct {
	device      *Device
	queue       *nativeQueue
	handle      vk.SwapchainKHR
	format      vk.Format
	imageFormat vireo.ImageFormat
	presentMode vk.PresentModeKHR
	name        string

	images         []*Image
	imageAvailable []vk.Semaphore
	renderFinished []vk.Semaphore
	inFlight       []vk.Fence
}

func (d *Device) createSwapChain(cfg vireo.SwapChainConfig, frames int) (*SwapChain, error) {
	if d.instance.surface == 0 {
		return nil, fmt.Errorf("vulkan: swap chain %q: no window surface configured", cfg.Name)
	}
	if cfg.Queue != nil && cfg.Queue.Type() != vireo.CommandTypeGraphic {
		return nil, fmt.Errorf("vulkan: swap chain %q: present queue is %s, want graphic", cfg.Name, cfg.Queue.Type())
	}
	format, err := d.surfaceFormat(imageFormatToVk(cfg.Format))
	if err != nil {
		return nil, err
	}
	p := &presenter{
		device:      d,
		queue:       d.queues[d.families.present],
		format:      format,
		imageFormat: imageFormatFromVk(format),
		presentMode: d.presentMode(presentModeToVk(cfg.PresentMode)),
		name:        cfg.Name,
	}
	for range frames {
		sem, err := p.newSemaphore()
		if err != nil {
			p.destroy()
			return nil, err
		}
		p.imageAvailable = append(p.imageAvailable, sem)
		fence, err := d.createFence(true, cfg.Name+" in flight")
		if err != nil {
			p.destroy()
			return nil, err
		}
		p.inFlight = append(p.inFlight, fence.handle)
	}

	extent := vireo.DrawableExtent(cfg.Window)
	if extent.IsZero() {
		var caps vk.SurfaceCapabilitiesKHR
		d.instance.cmds.GetPhysicalDeviceSurfaceCapabilitiesKHR(d.physical.handle, d.instance.surface, &caps)
		extent = vireo.Extent{Width: caps.CurrentExtent.Width, Height: caps.CurrentExtent.Height}
	}
	if err := p.Rebuild(extent); err != nil {
		p.destroy()
		return nil, err
	}
	query := func() vireo.Extent { return p.currentExtent() }
	if cfg.Window != nil {
		query = func() vireo.Extent { return vireo.DrawableExtent(cfg.Window) }
	}
	loop, err := framesync.New(p, frames, extent, query)
	if err != nil {
		p.destroy()
		return nil, err
	}
	vireo.Logger().Info("vulkan: swap chain created",
		"name", cfg.Name,
		"extent", extent,
		"format", p.imageFormat,
		"images", len(p.images),
		"frames", frames,
	)
	return &SwapChain{Loop: loop, p: p}, nil
}

// surfaceFormat returns want when the surface supports it with an sRGB
// color space, and the first supported format otherwise.
func (d *Device) surfaceFormat(want vk.Format) (vk.Format, error) {
	inst := d.instance
	var count uint32
	inst.cmds.GetPhysicalDeviceSurfaceFormatsKHR(d.physical.handle, inst.surface, &count, nil)
	if count == 0 {
		return vk.FormatUndefined, fmt.Errorf("vulkan: surface reports no formats: %w", vireo.ErrNoSuitableDevice)
	}
	formats := make([]vk.SurfaceFormatKHR, count)
	inst.cmds.GetPhysicalDeviceSurfaceFormatsKHR(d.physical.handle, inst.surface, &count, &formats[0])
	for _, f := range formats[:count] {
		if f.Format == want && f.ColorSpace == vk.ColorSpaceSrgbNonlinearKhr {
			return want, nil
		}
	}
	vireo.Logger().Warn("vulkan: surface format not supported, falling back",
		"want", imageFormatFromVk(want), "using", imageFormatFromVk(formats[0].Format))
	return formats[0].Format, nil
}

// presentMode returns want when supported and FIFO, which is always
// available, otherwise.
func (d *Device) presentMode(want vk.PresentModeKHR) vk.PresentModeKHR {
	inst := d.instance
	var count uint32
	inst.cmds.GetPhysicalDeviceSurfacePresentModesKHR(d.physical.handle, inst.surface, &count, nil)
	if count == 0 {
		return vk.PresentModeFifoKhr
	}
	modes := make([]vk.PresentModeKHR, count)
	inst.cmds.GetPhysicalDeviceSurfacePresentModesKHR(d.physical.handle, inst.surface, &count, &modes[0])
	for _, m := range modes[:count] {
		if m == want {
			return want
		}
	}
	return vk.PresentModeFifoKhr
}

func (p *presenter) newSemaphore() (vk.Semaphore, error) {
	d := p.device
	info := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	var sem vk.Semaphore
	if r := d.cmds.CreateSemaphore(d.handle, &info, nil, &sem); r != vk.Success {
		return 0, resultError("vkCreateSemaphore "+p.name, r)
	}
	return sem, nil
}

func (p *presenter) currentExtent() vireo.Extent {
	d := p.device
	var caps vk.SurfaceCapabilitiesKHR
	d.instance.cmds.GetPhysicalDeviceSurfaceCapabilitiesKHR(d.physical.handle, d.instance.surface, &caps)
	return vireo.Extent{Width: caps.CurrentExtent.Width, Height: caps.CurrentExtent.Height}
}

// clampExtent fits extent into the surface limits. A current extent other
// than the 0xFFFFFFFF wildcard is authoritative.
func clampExtent(extent vireo.Extent, caps *vk.SurfaceCapabilitiesKHR) vk.Extent2D {
	if caps.CurrentExtent.Width != ^uint32(0) {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  min(max(extent.Width, caps.MinImageExtent.Width), caps.MaxImageExtent.Width),
		Height: min(max(extent.Height, caps.MinImageExtent.Height), caps.MaxImageExtent.Height),
	}
}

// imageCount asks for one image more than the minimum, within the maximum
// when there is one.
func imageCount(caps *vk.SurfaceCapabilitiesKHR) uint32 {
	n := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && n > caps.MaxImageCount {
		n = caps.MaxImageCount
	}
	return n
}

// Rebuild implements framesync.Presenter. The previous swap chain is
// retired through OldSwapchain.
func (p *presenter) Rebuild(extent vireo.Extent) error {
	d := p.device
	inst := d.instance
	var caps vk.SurfaceCapabilitiesKHR
	if r := inst.cmds.GetPhysicalDeviceSurfaceCapabilitiesKHR(d.physical.handle, inst.surface, &caps); r != vk.Success {
		return resultError("vkGetPhysicalDeviceSurfaceCapabilitiesKHR", r)
	}
	native := clampExtent(extent, &caps)

	old := p.handle
	info := vk.SwapchainCreateInfoKHR{
		SType:            vk.StructureTypeSwapchainCreateInfoKhr,
		Surface:          inst.surface,
		MinImageCount:    imageCount(&caps),
		ImageFormat:      p.format,
		ImageColorSpace:  vk.ColorSpaceSrgbNonlinearKhr,
		ImageExtent:      native,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit | vk.ImageUsageTransferDstBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBitKhr,
		PresentMode:      p.presentMode,
		Clipped:          vk.Bool32(vk.True),
		OldSwapchain:     old,
	}
	var handle vk.SwapchainKHR
	if r := d.cmds.CreateSwapchainKHR(d.handle, &info, nil, &handle); r != vk.Success {
		return resultError("vkCreateSwapchainKHR "+p.name, r)
	}
	p.destroyImages()
	if old != 0 {
		d.cmds.DestroySwapchainKHR(d.handle, old, nil)
	}
	p.handle = handle
	d.setObjectName(vk.ObjectTypeSwapchainKhr, uint64(handle), p.name)

	var count uint32
	d.cmds.GetSwapchainImagesKHR(d.handle, handle, &count, nil)
	handles := make([]vk.Image, count)
	if count > 0 {
		d.cmds.GetSwapchainImagesKHR(d.handle, handle, &count, &handles[0])
	}
	for i, h := range handles[:count] {
		img, err := d.wrapImage(h, p.format, vireo.ImageDesc{
			Format: p.imageFormat,
			Width:  native.Width,
			Height: native.Height,
			Name:   fmt.Sprintf("%s image %d", p.name, i),
		})
		if err != nil {
			return err
		}
		p.images = append(p.images, img)
		sem, err := p.newSemaphore()
		if err != nil {
			return err
		}
		p.renderFinished = append(p.renderFinished, sem)
	}
	return nil
}

func (p *presenter) WaitFence(slot int) error {
	d := p.device
	switch r := d.cmds.WaitForFences(d.handle, 1, &p.inFlight[slot], vk.Bool32(vk.True), waitForever); r {
	case vk.Success:
		return nil
	case vk.Timeout:
		return fmt.Errorf("vulkan: %s slot %d: %w", p.name, slot, vireo.ErrDeviceLost)
	default:
		return resultError("vkWaitForFences", r)
	}
}

func (p *presenter) ResetFence(slot int) error {
	d := p.device
	if r := d.cmds.ResetFences(d.handle, 1, &p.inFlight[slot]); r != vk.Success {
		return resultError("vkResetFences", r)
	}
	return nil
}

func presentStatus(r vk.Result) (framesync.Status, bool) {
	switch r {
	case vk.Success:
		return framesync.StatusOK, true
	case vk.SuboptimalKhr:
		return framesync.StatusSuboptimal, true
	case vk.ErrorOutOfDateKhr:
		return framesync.StatusOutOfDate, true
	default:
		return 0, false
	}
}

func (p *presenter) AcquireImage(slot int) (uint32, framesync.Status, error) {
	d := p.device
	var index uint32
	r := d.cmds.AcquireNextImageKHR(d.handle, p.handle, waitForever, p.imageAvailable[slot], 0, &index)
	status, ok := presentStatus(r)
	if !ok {
		return 0, 0, resultError("vkAcquireNextImageKHR "+p.name, r)
	}
	return index, status, nil
}

func (p *presenter) PresentImage(_ int, image uint32) (framesync.Status, error) {
	info := vk.PresentInfoKHR{
		SType:              vk.StructureTypePresentInfoKhr,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    &p.renderFinished[image],
		SwapchainCount:     1,
		PSwapchains:        &p.handle,
		PImageIndices:      &image,
	}
	p.queue.mu.Lock()
	r := p.device.cmds.QueuePresentKHR(p.queue.handle, &info)
	p.queue.mu.Unlock()
	status, ok := presentStatus(r)
	if !ok {
		return 0, resultError("vkQueuePresentKHR "+p.name, r)
	}
	return status, nil
}

func (p *presenter) WaitIdle() error { return p.device.WaitIdle() }

func (p *presenter) destroyImages() {
	d := p.device
	for _, img := range p.images {
		img.Destroy()
	}
	p.images = p.images[:0]
	for _, sem := range p.renderFinished {
		d.cmds.DestroySemaphore(d.handle, sem, nil)
	}
	p.renderFinished = p.renderFinished[:0]
}

func (p *presenter) destroy() {
	d := p.device
	p.destroyImages()
	for _, sem := range p.imageAvailable {
		d.cmds.DestroySemaphore(d.handle, sem, nil)
	}
	for _, f := range p.inFlight {
		d.cmds.DestroyFence(d.handle, f, nil)
	}
	p.imageAvailable, p.inFlight = nil, nil
	if p.handle != 0 {
		d.cmds.DestroySwapchainKHR(d.handle, p.handle, nil)
		p.handle = 0
	}
}

func (s *SwapChain) AspectRatio() float32 {
	e := s.Extent()
	if e.Height == 0 {
		return 1
	}
	return float32(e.Width) / float32(e.Height)
}

func (s *SwapChain) Format() vireo.ImageFormat { return s.p.imageFormat }

// Recreate rebuilds the images if the window extent changed.
func (s *SwapChain) Recreate() error {
	_, err := s.Loop.Recreate()
	return err
}

// Destroy waits for every frame in flight and releases the swap chain.
func (s *SwapChain) Destroy() {
	if s.p.handle == 0 {
		return
	}
	if err := s.p.device.WaitIdle(); err != nil {
		vireo.Logger().Warn("vulkan: wait before swap chain destroy failed", "name", s.p.name, "err", err)
	}
	s.p.destroy()
}

// asSwapChainImage returns the image acquired by the last Acquire.
func asSwapChainImage(sc vireo.SwapChain) (*Image, error) {
	s, ok := sc.(*SwapChain)
	if !ok || s == nil || s.p.handle == 0 {
		return nil, fmt.Errorf("vulkan: swap chain: %w", vireo.ErrDestroyed)
	}
	index := s.CurrentImageIndex()
	if int(index) >= len(s.p.images) {
		return nil, fmt.Errorf("vulkan: swap chain %q image %d: %w", s.p.name, index, vireo.ErrOutOfRange)
	}
	return s.p.images[index], nil
}
