//go:build !windows || (js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package directx implements vireo on Direct3D 12. It is empty outside
// Windows; importing it there registers nothing.
package directx
