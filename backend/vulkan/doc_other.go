//go:build js && wasm

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package vulkan implements vireo on Vulkan. It is empty on js/wasm;
// importing it there registers nothing.
package vulkan
