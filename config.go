// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"os"

	"github.com/gogpu/gpucontext"
)

// Frame pacing limits.
const (
	// DefaultFramesInFlight is the number of frames the CPU may record
	// ahead of the GPU when Config.FramesInFlight is zero.
	DefaultFramesInFlight = 2

	// MaxFramesInFlight is the upper bound for Config.FramesInFlight.
	MaxFramesInFlight = 3
)

// Default descriptor space sizes.
const (
	DefaultResourceDescriptors = 65536
	DefaultSamplerDescriptors  = 2048
)

// WindowHandle is the opaque native window a swap chain presents to.
// Window is the HWND, X11 Window or wl_surface pointer. Display is the X11
// Display or wl_display pointer and Instance the HINSTANCE; both may be
// zero where the platform does not need them.
type WindowHandle struct {
	Window   uintptr
	Display  uintptr
	Instance uintptr
}

// IsZero reports whether no window was supplied.
func (w WindowHandle) IsZero() bool { return w.Window == 0 }

// DescriptorCapacity sizes the device-owned descriptor space shared by
// every DescriptorSet.
type DescriptorCapacity struct {
	// Resources is the number of buffer and image descriptors.
	Resources uint32
	// Samplers is the number of sampler descriptors.
	Samplers uint32
}

// Config holds configuration for New.
type Config struct {
	// Backend selects the native API. Required.
	Backend Backend

	// AppName is reported to the native API and used in logs.
	AppName string

	// Debug enables native validation layers. Also enabled by VIREO_DEBUG=1.
	Debug bool

	// FramesInFlight is the number of frame slots per swap chain.
	// Defaults to DefaultFramesInFlight and is clamped to MaxFramesInFlight.
	FramesInFlight int

	// Window is the window the instance must be able to present to. A zero
	// handle creates a headless instance and disables swap chain support
	// checks during adapter selection.
	Window WindowHandle

	// Tracker receives every buffer and image allocation. A new tracker is
	// created when nil.
	Tracker *MemoryTracker

	// Descriptors sizes the device descriptor space.
	Descriptors DescriptorCapacity

	// PreferLowPower orders integrated adapters first when enumerating.
	PreferLowPower bool
}

// withDefaults returns a copy of c with zero fields filled in.
func (c Config) withDefaults() Config {
	if c.AppName == "" {
		c.AppName = "vireo"
	}
	if os.Getenv("VIREO_DEBUG") == "1" {
		c.Debug = true
	}
	switch {
	case c.FramesInFlight <= 0:
		c.FramesInFlight = DefaultFramesInFlight
	case c.FramesInFlight > MaxFramesInFlight:
		c.FramesInFlight = MaxFramesInFlight
	}
	if c.Tracker == nil {
		c.Tracker = NewMemoryTracker()
	}
	if c.Descriptors.Resources == 0 {
		c.Descriptors.Resources = DefaultResourceDescriptors
	}
	if c.Descriptors.Samplers == 0 {
		c.Descriptors.Samplers = DefaultSamplerDescriptors
	}
	return c
}

// SwapChainConfig holds configuration for Vireo.CreateSwapChain.
type SwapChainConfig struct {
	// Format of the presentable images.
	Format ImageFormat

	// Queue presents the images. It must be a graphic queue.
	Queue SubmitQueue

	// Window reports the drawable extent. The swap chain queries it on
	// every recreate and only rebuilds its images when the size changed.
	Window gpucontext.WindowProvider

	// PresentMode selects immediate or vsync presentation.
	PresentMode PresentMode

	// Name is used for debug names and logs.
	Name string
}

// DrawableExtent returns the window's current size in physical pixels.
// A nil provider or a negative size yields a zero extent.
func DrawableExtent(w gpucontext.WindowProvider) Extent {
	if w == nil {
		return Extent{}
	}
	width, height := w.Size()
	if width <= 0 || height <= 0 {
		return Extent{}
	}
	scale := w.ScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	return Extent{
		Width:  uint32(float64(width) * scale),
		Height: uint32(float64(height) * scale),
	}
}
