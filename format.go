// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import "fmt"

// ImageFormat is the pixel format of an image, render target or swap chain.
// The numeric values are stable and shared by every backend.
type ImageFormat uint8

// Image formats.
const (
	ImageFormatUndefined ImageFormat = iota

	ImageFormatR8Unorm
	ImageFormatR8Snorm
	ImageFormatR8Uint
	ImageFormatR8Sint

	ImageFormatR8G8Unorm
	ImageFormatR8G8Snorm
	ImageFormatR8G8Uint
	ImageFormatR8G8Sint

	ImageFormatR8G8B8A8Unorm
	ImageFormatR8G8B8A8Snorm
	ImageFormatR8G8B8A8Uint
	ImageFormatR8G8B8A8Sint
	ImageFormatR8G8B8A8Srgb

	ImageFormatB8G8R8A8Unorm
	ImageFormatB8G8R8A8Srgb
	ImageFormatB8G8R8X8Unorm
	ImageFormatB8G8R8X8Srgb

	ImageFormatA2B10G10R10Unorm
	ImageFormatA2B10G10R10Uint

	ImageFormatR16Unorm
	ImageFormatR16Snorm
	ImageFormatR16Uint
	ImageFormatR16Sint
	ImageFormatR16Sfloat

	ImageFormatR16G16Unorm
	ImageFormatR16G16Snorm
	ImageFormatR16G16Uint
	ImageFormatR16G16Sint
	ImageFormatR16G16Sfloat

	ImageFormatR16G16B16A16Unorm
	ImageFormatR16G16B16A16Snorm
	ImageFormatR16G16B16A16Uint
	ImageFormatR16G16B16A16Sint
	ImageFormatR16G16B16A16Sfloat

	ImageFormatR32Uint
	ImageFormatR32Sint
	ImageFormatR32Sfloat

	ImageFormatR32G32Uint
	ImageFormatR32G32Sint
	ImageFormatR32G32Sfloat

	ImageFormatR32G32B32Uint
	ImageFormatR32G32B32Sint
	ImageFormatR32G32B32Sfloat

	ImageFormatR32G32B32A32Uint
	ImageFormatR32G32B32A32Sint
	ImageFormatR32G32B32A32Sfloat

	ImageFormatD16Unorm
	ImageFormatD24UnormS8Uint
	ImageFormatD32Sfloat
	ImageFormatD32SfloatS8Uint

	ImageFormatBC1Unorm
	ImageFormatBC1UnormSrgb
	ImageFormatBC2Unorm
	ImageFormatBC2UnormSrgb
	ImageFormatBC3Unorm
	ImageFormatBC3UnormSrgb
	ImageFormatBC4Unorm
	ImageFormatBC4Snorm
	ImageFormatBC5Unorm
	ImageFormatBC5Snorm
	ImageFormatBC6HUfloat
	ImageFormatBC6HSfloat
	ImageFormatBC7Unorm
	ImageFormatBC7UnormSrgb

	imageFormatCount
)

// formatInfo describes one entry of the format table. For block-compressed
// formats size is the byte size of a 4x4 block, otherwise of one pixel.
type formatInfo struct {
	name    string
	size    uint32
	block   bool
	depth   bool
	stencil bool
}

var formatTable = [imageFormatCount]formatInfo{
	ImageFormatUndefined: {name: "Undefined"},

	ImageFormatR8Unorm: {name: "R8Unorm", size: 1},
	ImageFormatR8Snorm: {name: "R8Snorm", size: 1},
	ImageFormatR8Uint:  {name: "R8Uint", size: 1},
	ImageFormatR8Sint:  {name: "R8Sint", size: 1},

	ImageFormatR8G8Unorm: {name: "R8G8Unorm", size: 2},
	ImageFormatR8G8Snorm: {name: "R8G8Snorm", size: 2},
	ImageFormatR8G8Uint:  {name: "R8G8Uint", size: 2},
	ImageFormatR8G8Sint:  {name: "R8G8Sint", size: 2},

	ImageFormatR8G8B8A8Unorm: {name: "R8G8B8A8Unorm", size: 4},
	ImageFormatR8G8B8A8Snorm: {name: "R8G8B8A8Snorm", size: 4},
	ImageFormatR8G8B8A8Uint:  {name: "R8G8B8A8Uint", size: 4},
	ImageFormatR8G8B8A8Sint:  {name: "R8G8B8A8Sint", size: 4},
	ImageFormatR8G8B8A8Srgb:  {name: "R8G8B8A8Srgb", size: 4},

	ImageFormatB8G8R8A8Unorm: {name: "B8G8R8A8Unorm", size: 4},
	ImageFormatB8G8R8A8Srgb:  {name: "B8G8R8A8Srgb", size: 4},
	ImageFormatB8G8R8X8Unorm: {name: "B8G8R8X8Unorm", size: 4},
	ImageFormatB8G8R8X8Srgb:  {name: "B8G8R8X8Srgb", size: 4},

	ImageFormatA2B10G10R10Unorm: {name: "A2B10G10R10Unorm", size: 4},
	ImageFormatA2B10G10R10Uint:  {name: "A2B10G10R10Uint", size: 4},

	ImageFormatR16Unorm:  {name: "R16Unorm", size: 2},
	ImageFormatR16Snorm:  {name: "R16Snorm", size: 2},
	ImageFormatR16Uint:   {name: "R16Uint", size: 2},
	ImageFormatR16Sint:   {name: "R16Sint", size: 2},
	ImageFormatR16Sfloat: {name: "R16Sfloat", size: 2},

	ImageFormatR16G16Unorm:  {name: "R16G16Unorm", size: 4},
	ImageFormatR16G16Snorm:  {name: "R16G16Snorm", size: 4},
	ImageFormatR16G16Uint:   {name: "R16G16Uint", size: 4},
	ImageFormatR16G16Sint:   {name: "R16G16Sint", size: 4},
	ImageFormatR16G16Sfloat: {name: "R16G16Sfloat", size: 4},

	ImageFormatR16G16B16A16Unorm:  {name: "R16G16B16A16Unorm", size: 8},
	ImageFormatR16G16B16A16Snorm:  {name: "R16G16B16A16Snorm", size: 8},
	ImageFormatR16G16B16A16Uint:   {name: "R16G16B16A16Uint", size: 8},
	ImageFormatR16G16B16A16Sint:   {name: "R16G16B16A16Sint", size: 8},
	ImageFormatR16G16B16A16Sfloat: {name: "R16G16B16A16Sfloat", size: 8},

	ImageFormatR32Uint:   {name: "R32Uint", size: 4},
	ImageFormatR32Sint:   {name: "R32Sint", size: 4},
	ImageFormatR32Sfloat: {name: "R32Sfloat", size: 4},

	ImageFormatR32G32Uint:   {name: "R32G32Uint", size: 8},
	ImageFormatR32G32Sint:   {name: "R32G32Sint", size: 8},
	ImageFormatR32G32Sfloat: {name: "R32G32Sfloat", size: 8},

	ImageFormatR32G32B32Uint:   {name: "R32G32B32Uint", size: 12},
	ImageFormatR32G32B32Sint:   {name: "R32G32B32Sint", size: 12},
	ImageFormatR32G32B32Sfloat: {name: "R32G32B32Sfloat", size: 12},

	ImageFormatR32G32B32A32Uint:   {name: "R32G32B32A32Uint", size: 16},
	ImageFormatR32G32B32A32Sint:   {name: "R32G32B32A32Sint", size: 16},
	ImageFormatR32G32B32A32Sfloat: {name: "R32G32B32A32Sfloat", size: 16},

	ImageFormatD16Unorm:        {name: "D16Unorm", size: 2, depth: true},
	ImageFormatD24UnormS8Uint:  {name: "D24UnormS8Uint", size: 4, depth: true, stencil: true},
	ImageFormatD32Sfloat:       {name: "D32Sfloat", size: 4, depth: true},
	ImageFormatD32SfloatS8Uint: {name: "D32SfloatS8Uint", size: 8, depth: true, stencil: true},

	ImageFormatBC1Unorm:     {name: "BC1Unorm", size: 8, block: true},
	ImageFormatBC1UnormSrgb: {name: "BC1UnormSrgb", size: 8, block: true},
	ImageFormatBC2Unorm:     {name: "BC2Unorm", size: 16, block: true},
	ImageFormatBC2UnormSrgb: {name: "BC2UnormSrgb", size: 16, block: true},
	ImageFormatBC3Unorm:     {name: "BC3Unorm", size: 16, block: true},
	ImageFormatBC3UnormSrgb: {name: "BC3UnormSrgb", size: 16, block: true},
	ImageFormatBC4Unorm:     {name: "BC4Unorm", size: 8, block: true},
	ImageFormatBC4Snorm:     {name: "BC4Snorm", size: 8, block: true},
	ImageFormatBC5Unorm:     {name: "BC5Unorm", size: 16, block: true},
	ImageFormatBC5Snorm:     {name: "BC5Snorm", size: 16, block: true},
	ImageFormatBC6HUfloat:   {name: "BC6HUfloat", size: 16, block: true},
	ImageFormatBC6HSfloat:   {name: "BC6HSfloat", size: 16, block: true},
	ImageFormatBC7Unorm:     {name: "BC7Unorm", size: 16, block: true},
	ImageFormatBC7UnormSrgb: {name: "BC7UnormSrgb", size: 16, block: true},
}

func (f ImageFormat) info() formatInfo {
	if f >= imageFormatCount {
		return formatInfo{}
	}
	return formatTable[f]
}

// String returns the format name.
func (f ImageFormat) String() string {
	if f >= imageFormatCount {
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
	return formatTable[f].name
}

// Valid reports whether f is a defined, non-undefined format.
func (f ImageFormat) Valid() bool {
	return f > ImageFormatUndefined && f < imageFormatCount
}

// PixelSize returns the size in bytes of one pixel, or of one 4x4 block
// for block-compressed formats. Unknown formats report 0.
func (f ImageFormat) PixelSize() uint32 { return f.info().size }

// IsBlockCompressed reports whether f is one of the BC1-BC7 formats.
func (f ImageFormat) IsBlockCompressed() bool { return f.info().block }

// IsDepth reports whether f carries a depth component.
func (f ImageFormat) IsDepth() bool { return f.info().depth }

// HasStencil reports whether f carries a stencil component.
func (f ImageFormat) HasStencil() bool { return f.info().stencil }

// IsSrgb reports whether f stores color in the sRGB transfer function.
func (f ImageFormat) IsSrgb() bool {
	switch f {
	case ImageFormatR8G8B8A8Srgb, ImageFormatB8G8R8A8Srgb, ImageFormatB8G8R8X8Srgb,
		ImageFormatBC1UnormSrgb, ImageFormatBC2UnormSrgb, ImageFormatBC3UnormSrgb,
		ImageFormatBC7UnormSrgb:
		return true
	default:
		return false
	}
}
