// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package all registers every backend compiled for the target platform.
//
//	import _ "github.com/gogpu/vireo/backend/all"
//
// The DirectX backend is registered on Windows only.
package all

import (
	_ "github.com/gogpu/vireo/backend/directx"
	_ "github.com/gogpu/vireo/backend/vulkan"
)
