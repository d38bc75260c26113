//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gogpu/vireo"
	"github.com/gogpu/vireo/internal/descheap"
	"github.com/gogpu/vireo/internal/framesync"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
	"github.com/gogpu/wgpu/hal/dx12/dxgi"
)

// SwapChain is a flip-discard IDXGISwapChain4 on the instance window driven
// by the shared frame loop.
type SwapChain struct {
	*framesync.Loop
	p *presenter
}

// presenter holds the native swap chain, one render target view per back
// buffer and the fence the frame slots are paced with. Each slot remembers
// the fence value its last submission signals.
type presenter struct {
	device      *Device
	queue       *nativeQueue
	handle      *dxgi.IDXGISwapChain4
	buffer      d3d12.DXGI_FORMAT
	imageFormat vireo.ImageFormat
	presentMode vireo.PresentMode
	flags       uint32
	count       uint32
	extent      vireo.Extent
	name        string

	images []*Image
	views  []descheap.Range
	rtvs   []d3d12.D3D12_CPU_DESCRIPTOR_HANDLE

	fence *d3d12.ID3D12Fence
	mu    sync.Mutex
	next  uint64
	slots []uint64
}

func (d *Device) createSwapChain(cfg vireo.SwapChainConfig, frames int) (*SwapChain, error) {
	if d.instance.hwnd == 0 {
		return nil, fmt.Errorf("directx: swap chain %q: no window configured", cfg.Name)
	}
	if cfg.Queue != nil && cfg.Queue.Type() != vireo.CommandTypeGraphic {
		return nil, fmt.Errorf("directx: swap chain %q: present queue is %s, want graphic", cfg.Name, cfg.Queue.Type())
	}
	buffer, format, ok := swapChainFormat(cfg.Format)
	if !ok {
		vireo.Logger().Warn("directx: swap chain format not supported, falling back",
			"want", cfg.Format, "using", format)
	}
	fence, err := d.handle.CreateFence(0, d3d12.D3D12_FENCE_FLAG_NONE)
	if err != nil {
		return nil, hresultError("CreateFence "+cfg.Name+" frames", err)
	}
	p := &presenter{
		device:      d,
		queue:       d.queues[vireo.CommandTypeGraphic],
		buffer:      buffer,
		imageFormat: format,
		presentMode: cfg.PresentMode,
		count:       uint32(frames) + 1,
		name:        cfg.Name,
		fence:       fence,
		slots:       make([]uint64, frames),
	}
	if cfg.PresentMode == vireo.PresentModeImmediate && d.instance.tearing {
		p.flags = uint32(dxgi.DXGI_SWAP_CHAIN_FLAG_ALLOW_TEARING)
	}

	// A zero extent lets DXGI size the buffers to the client area.
	if err := p.Rebuild(vireo.DrawableExtent(cfg.Window)); err != nil {
		p.destroy()
		return nil, err
	}
	query := func() vireo.Extent { return p.extent }
	if cfg.Window != nil {
		query = func() vireo.Extent { return vireo.DrawableExtent(cfg.Window) }
	}
	loop, err := framesync.New(p, frames, p.extent, query)
	if err != nil {
		p.destroy()
		return nil, err
	}
	vireo.Logger().Info("directx: swap chain created",
		"name", cfg.Name,
		"extent", p.extent,
		"format", p.imageFormat,
		"images", len(p.images),
		"frames", frames,
		"tearing", p.flags != 0,
	)
	return &SwapChain{Loop: loop, p: p}, nil
}

func (p *presenter) create(extent vireo.Extent) error {
	inst := p.device.instance
	desc := dxgi.DXGI_SWAP_CHAIN_DESC1{
		Width:       extent.Width,
		Height:      extent.Height,
		Format:      dxgi.DXGI_FORMAT(p.buffer),
		SampleDesc:  dxgi.DXGI_SAMPLE_DESC{Count: 1},
		BufferUsage: dxgi.DXGI_USAGE_RENDER_TARGET_OUTPUT,
		BufferCount: p.count,
		Scaling:     dxgi.DXGI_SCALING_STRETCH,
		SwapEffect:  dxgi.DXGI_SWAP_EFFECT_FLIP_DISCARD,
		AlphaMode:   dxgi.DXGI_ALPHA_MODE_IGNORE,
		Flags:       p.flags,
	}
	sc1, err := inst.factory.CreateSwapChainForHwnd(unsafe.Pointer(p.queue.handle), inst.hwnd, &desc, nil, nil)
	if err != nil {
		return hresultError("CreateSwapChainForHwnd "+p.name, err)
	}
	sc4, err := sc1.QueryInterface()
	sc1.Release()
	if err != nil {
		return hresultError("QueryInterface IDXGISwapChain4 "+p.name, err)
	}
	p.handle = sc4
	if err := inst.factory.MakeWindowAssociation(inst.hwnd, dxgi.DXGI_MWA_NO_ALT_ENTER); err != nil {
		vireo.Logger().Debug("directx: MakeWindowAssociation failed", "err", err)
	}
	return nil
}

// Rebuild implements framesync.Presenter. The frame loop waits for the
// queue first, so the back buffers can be released at once.
func (p *presenter) Rebuild(extent vireo.Extent) error {
	if p.handle == nil {
		if err := p.create(extent); err != nil {
			return err
		}
	} else {
		p.destroyImages()
		if err := p.handle.ResizeBuffers(0, extent.Width, extent.Height, dxgi.DXGI_FORMAT(p.buffer), p.flags); err != nil {
			return hresultError("ResizeBuffers "+p.name, err)
		}
	}
	desc, err := p.handle.GetDesc1()
	if err != nil {
		return hresultError("GetDesc1 "+p.name, err)
	}
	p.extent = vireo.Extent{Width: desc.Width, Height: desc.Height}
	return p.createImages(desc.BufferCount)
}

func (p *presenter) createImages(count uint32) error {
	d := p.device
	for i := range count {
		ptr, err := p.handle.GetBuffer(i, &dxgi.IID_ID3D12Resource)
		if err != nil {
			return hresultError(fmt.Sprintf("GetBuffer %d %s", i, p.name), err)
		}
		res := (*d3d12.ID3D12Resource)(ptr)
		img, err := d.wrapImage(res, vireo.ImageDesc{
			Format: p.imageFormat,
			Width:  p.extent.Width,
			Height: p.extent.Height,
			Name:   fmt.Sprintf("%s image %d", p.name, i),
		})
		if err != nil {
			res.Release()
			return err
		}
		view, rtv, err := d.rtvs.view()
		if err != nil {
			res.Release()
			return fmt.Errorf("directx: swap chain %q view %d: %w", p.name, i, err)
		}
		d.createRenderTargetView(img, rtv)
		p.images = append(p.images, img)
		p.views = append(p.views, view)
		p.rtvs = append(p.rtvs, rtv)
	}
	return nil
}

// frameValue returns the fence value the submission of slot signals.
func (p *presenter) frameValue(slot int) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	p.slots[slot] = p.next
	return p.next
}

func (p *presenter) WaitFence(slot int) error {
	p.mu.Lock()
	value := p.slots[slot]
	p.mu.Unlock()
	return waitFence(p.fence, value, fmt.Sprintf("%s slot %d", p.name, slot))
}

// ResetFence is a no-op; the next submission of the slot signals a new
// value.
func (p *presenter) ResetFence(int) error { return nil }

// AcquireImage returns the back buffer DXGI will present next. Flip model
// swap chains report staleness on present only.
func (p *presenter) AcquireImage(int) (uint32, framesync.Status, error) {
	return p.handle.GetCurrentBackBufferIndex(), framesync.StatusOK, nil
}

// PresentImage presents with a sync interval of one for vsync, and of
// zero with tearing allowed otherwise. An occluded window counts as
// presented.
func (p *presenter) PresentImage(int, uint32) (framesync.Status, error) {
	var interval, flags uint32 = 1, 0
	if p.presentMode == vireo.PresentModeImmediate {
		interval = 0
		if p.flags != 0 {
			flags = uint32(dxgi.DXGI_PRESENT_ALLOW_TEARING)
		}
	}
	p.queue.mu.Lock()
	err := p.handle.Present(interval, flags)
	p.queue.mu.Unlock()
	switch {
	case err == nil, dxgi.IsOccluded(err):
		return framesync.StatusOK, nil
	case dxgi.IsModeChanged(err):
		return framesync.StatusSuboptimal, nil
	default:
		p.device.drainMessages()
		return 0, hresultError("Present "+p.name, err)
	}
}

func (p *presenter) WaitIdle() error { return p.queue.waitIdle() }

func (p *presenter) destroyImages() {
	d := p.device
	for i, img := range p.images {
		if img.handle != nil {
			img.handle.Release()
		}
		img.Destroy()
		d.rtvs.free(p.views[i])
	}
	p.images, p.views, p.rtvs = p.images[:0], p.views[:0], p.rtvs[:0]
}

func (p *presenter) destroy() {
	p.destroyImages()
	if p.handle != nil {
		p.handle.Release()
		p.handle = nil
	}
	if p.fence != nil {
		p.fence.Release()
		p.fence = nil
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

// Recreate rebuilds the back buffers if the window extent changed.
func (s *SwapChain) Recreate() error {
	_, err := s.Loop.Recreate()
	return err
}

// Destroy waits for the present queue and releases the swap chain.
func (s *SwapChain) Destroy() {
	if s.p.handle == nil {
		return
	}
	if err := s.p.WaitIdle(); err != nil {
		vireo.Logger().Warn("directx: wait before swap chain destroy failed", "name", s.p.name, "err", err)
	}
	s.p.destroy()
}

// asSwapChain checks sc is a live DirectX swap chain with an acquired
// image.
func asSwapChain(sc vireo.SwapChain) (*SwapChain, error) {
	s, ok := sc.(*SwapChain)
	if !ok || s == nil || s.p.handle == nil {
		return nil, fmt.Errorf("directx: swap chain: %w", vireo.ErrDestroyed)
	}
	if index := s.CurrentImageIndex(); int(index) >= len(s.p.images) {
		return nil, fmt.Errorf("directx: swap chain %q image %d: %w", s.p.name, index, vireo.ErrOutOfRange)
	}
	return s, nil
}

// current returns the acquired back buffer and its render target view.
func (s *SwapChain) current() (*Image, d3d12.D3D12_CPU_DESCRIPTOR_HANDLE) {
	index := s.CurrentImageIndex()
	return s.p.images[index], s.p.rtvs[index]
}
