// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command vireoinfo prints the adapter a backend selects, its limits, and
// the memory tracker report after a buffer round trip through the GPU.
//
// Usage:
//
//	vireoinfo [-backend vulkan|directx] [-debug] [-low-power] [-v]
//
// VIREO_BACKEND overrides the default backend, VIREO_DEBUG=1 enables
// validation layers.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/vireo"
	_ "github.com/gogpu/vireo/backend/all"
)

func main() {
	var (
		backend  = flag.String("backend", os.Getenv("VIREO_BACKEND"), "backend: vulkan or directx (default: best available)")
		debug    = flag.Bool("debug", false, "enable validation layers")
		lowPower = flag.Bool("low-power", false, "prefer integrated adapters")
		size     = flag.Int("size", 64<<10, "round trip buffer size in bytes")
		verbose  = flag.Bool("v", false, "log at debug level")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	vireo.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	b := vireo.DefaultBackend()
	if *backend != "" {
		var err error
		if b, err = vireo.ParseBackend(*backend); err != nil {
			log.Fatal(err)
		}
	}
	if b == vireo.BackendUndefined {
		log.Fatal("no backend is available on this platform")
	}

	v, err := vireo.New(vireo.Config{
		Backend:        b,
		AppName:        "vireoinfo",
		Debug:          *debug,
		PreferLowPower: *lowPower,
	})
	if err != nil {
		log.Fatalf("create %s: %v", b, err)
	}
	defer v.Destroy()

	printDevice(v)
	if err := roundTrip(v, *size); err != nil {
		log.Fatalf("round trip: %v", err)
	}
	fmt.Println()
	fmt.Print(v.Tracker().Report())
}

func printDevice(v vireo.Vireo) {
	pd := v.PhysicalDevice()
	info := pd.Info()
	limits := pd.Limits()
	fmt.Printf("Backend:     %s (validation %v)\n", v.Backend(), v.Instance().Debug())
	fmt.Printf("Adapter:     %s\n", info.Name)
	fmt.Printf("Vendor:      %s (%#04x), device %#04x\n", info.Vendor, info.VendorID, info.DeviceID)
	fmt.Printf("Type:        %s\n", info.DeviceType)
	if info.Driver != "" {
		fmt.Printf("Driver:      %s %s\n", info.Driver, info.DriverInfo)
	}
	fmt.Printf("Score:       %d\n", pd.Score())
	fmt.Printf("Frames:      %d in flight\n", v.FramesInFlight())
	fmt.Println()
	fmt.Println("Limits:")
	fmt.Printf("  image 2D:            %d\n", limits.MaxTextureDimension2D)
	fmt.Printf("  array layers:        %d\n", limits.MaxTextureArrayLayers)
	fmt.Printf("  descriptor sets:     %d\n", limits.MaxBindGroups)
	fmt.Printf("  uniform binding:     %d\n", limits.MaxUniformBufferBindingSize)
	fmt.Printf("  storage binding:     %d\n", limits.MaxStorageBufferBindingSize)
	fmt.Printf("  uniform alignment:   %d\n", limits.MinUniformBufferOffsetAlignment)
	fmt.Printf("  push constants:      %d\n", limits.MaxPushConstantSize)
	fmt.Printf("  color attachments:   %d\n", limits.MaxColorAttachments)
	fmt.Printf("  workgroup size:      %d x %d x %d\n",
		limits.MaxComputeWorkgroupSizeX, limits.MaxComputeWorkgroupSizeY, limits.MaxComputeWorkgroupSizeZ)
	for _, t := range []vireo.CommandType{vireo.CommandTypeGraphic, vireo.CommandTypeCompute, vireo.CommandTypeTransfer} {
		fmt.Printf("  %-8s queue family %d\n", t, v.Device().QueueFamily(t))
	}
}

// roundTrip uploads a pattern to a device buffer and reads it back through
// a download buffer on the transfer queue.
func roundTrip(v vireo.Vireo, size int) error {
	pattern := make([]byte, size)
	for i := range pattern {
		pattern[i] = byte(i * 7)
	}

	device, err := v.CreateBuffer(vireo.BufferDesc{
		Type: vireo.BufferTypeDeviceStorage, InstanceSize: uint32(size), Name: "round trip device",
	})
	if err != nil {
		return err
	}
	defer device.Destroy()
	readback, err := v.CreateBuffer(vireo.BufferDesc{
		Type: vireo.BufferTypeBufferDownload, InstanceSize: uint32(size), Name: "round trip readback",
	})
	if err != nil {
		return err
	}
	defer readback.Destroy()

	queue, err := v.CreateSubmitQueue(vireo.CommandTypeTransfer, "round trip")
	if err != nil {
		return err
	}
	defer queue.Destroy()
	alloc, err := v.CreateCommandAllocator(vireo.CommandTypeTransfer)
	if err != nil {
		return err
	}
	defer alloc.Destroy()
	list, err := alloc.CreateCommandList("round trip")
	if err != nil {
		return err
	}
	fence, err := v.CreateFence(false, "round trip")
	if err != nil {
		return err
	}
	defer fence.Destroy()

	if err := list.Begin(); err != nil {
		return err
	}
	if err := list.Upload(device, pattern); err != nil {
		return err
	}
	if err := list.BarrierBuffer(device, vireo.ResourceStateCopyDst, vireo.ResourceStateCopySrc); err != nil {
		return err
	}
	if err := list.CopyBuffer(device, readback, uint64(size), 0, 0); err != nil {
		return err
	}
	if err := list.End(); err != nil {
		return err
	}
	if err := queue.SubmitWithFence(fence, list); err != nil {
		return err
	}
	if err := fence.Wait(); err != nil {
		return err
	}
	list.Cleanup()

	if err := readback.Map(); err != nil {
		return err
	}
	defer readback.Unmap()
	if !bytes.Equal(readback.Mapped()[:size], pattern) {
		return fmt.Errorf("read back data differs from the upload")
	}
	fmt.Printf("\nRound trip:  %d bytes verified\n", size)
	return nil
}
