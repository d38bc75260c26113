// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package vireo provides one explicit graphics API over Vulkan and
// Direct3D 12.
//
// # Overview
//
// vireo exposes the objects modern GPU APIs share: devices, queues, command
// lists, buffers, images, descriptor sets, pipelines, swap chains and
// synchronization primitives. Applications record and submit work through
// the interfaces of this package; a backend package supplies the
// implementation for one native API.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/vireo"
//		_ "github.com/gogpu/vireo/backend/all"
//	)
//
//	v, err := vireo.New(vireo.Config{Backend: vireo.DefaultBackend()})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer v.Destroy()
//
//	queue, _ := v.CreateSubmitQueue(vireo.CommandTypeGraphic, "main")
//	alloc, _ := v.CreateCommandAllocator(vireo.CommandTypeGraphic)
//	list, _ := alloc.CreateCommandList("frame")
//
// # Frames
//
// A swap chain owns FramesInFlight frame slots. Each frame calls
// SwapChain.Acquire, records into the slot's command list, submits with
// SubmitQueue.SubmitFrame and calls SwapChain.Present. Acquire returns
// false when the window changed size and the frame must be skipped.
//
// # Resource Lifetime
//
// Destroy on any resource defers the native release until every queue
// finished the work submitted before the call, so resources may be
// destroyed while frames are in flight. Vireo.WaitIdle runs all pending
// releases.
//
// # Errors
//
// Every failure is returned as an error wrapping one of the Err sentinels.
// Native result codes are carried by *NativeError. Must panics on error
// for call sites that cannot recover.
//
// # Logging
//
// The package is silent by default. SetLogger installs a *slog.Logger
// shared by every backend.
package vireo

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
