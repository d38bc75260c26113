// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import "fmt"

// ImageState is the backend-independent part of an Image: its format,
// dimensions and row layout. Backends embed it.
type ImageState struct {
	format    ImageFormat
	width     uint32
	height    uint32
	mipLevels uint32
	arraySize uint32
	readWrite bool
	name      string
}

// NewImageState validates desc and fills defaults.
func NewImageState(desc ImageDesc) (ImageState, error) {
	if !desc.Format.Valid() {
		return ImageState{}, fmt.Errorf("vireo: image %q: invalid format %s", desc.Name, desc.Format)
	}
	if desc.Width == 0 || desc.Height == 0 {
		return ImageState{}, fmt.Errorf("vireo: image %q: zero extent %dx%d", desc.Name, desc.Width, desc.Height)
	}
	mips := desc.MipLevels
	if mips == 0 {
		mips = 1
	}
	if limit := MaxMipLevels(desc.Width, desc.Height); mips > limit {
		return ImageState{}, fmt.Errorf("vireo: image %q: %d mip levels, at most %d: %w", desc.Name, mips, limit, ErrOutOfRange)
	}
	layers := desc.ArraySize
	if layers == 0 {
		layers = 1
	}
	return ImageState{
		format:    desc.Format,
		width:     desc.Width,
		height:    desc.Height,
		mipLevels: mips,
		arraySize: layers,
		readWrite: desc.ReadWrite,
		name:      desc.Name,
	}, nil
}

// MaxMipLevels returns the length of the full mip chain of a w x h image.
func MaxMipLevels(w, h uint32) uint32 {
	n := uint32(1)
	for w > 1 || h > 1 {
		w >>= 1
		h >>= 1
		n++
	}
	return n
}

func (s *ImageState) Format() ImageFormat { return s.format }
func (s *ImageState) Width() uint32       { return s.width }
func (s *ImageState) Height() uint32      { return s.height }
func (s *ImageState) MipLevels() uint32   { return s.mipLevels }
func (s *ImageState) ArraySize() uint32   { return s.arraySize }
func (s *ImageState) IsReadWrite() bool   { return s.readWrite }
func (s *ImageState) Name() string        { return s.name }

// MipExtent returns the size of mip level mip, never below 1x1.
func (s *ImageState) MipExtent(mip uint32) Extent {
	return Extent{Width: max(s.width>>mip, 1), Height: max(s.height>>mip, 1)}
}

// RowPitch returns the byte size of one row of mip level mip: of one row
// of 4x4 blocks for block-compressed formats.
func (s *ImageState) RowPitch(mip uint32) uint32 {
	return RowPitch(s.format, s.MipExtent(mip).Width)
}

// RowLength returns the row length of mip level mip in texels, rounded up
// to whole blocks for block-compressed formats.
func (s *ImageState) RowLength(mip uint32) uint32 {
	return RowLength(s.format, s.MipExtent(mip).Width)
}

// ImageSize returns the tightly packed byte size of one layer of mip level
// mip.
func (s *ImageState) ImageSize(mip uint32) uint64 {
	e := s.MipExtent(mip)
	rows := e.Height
	if s.format.IsBlockCompressed() {
		rows = (rows + 3) / 4
	}
	return uint64(RowPitch(s.format, e.Width)) * uint64(rows)
}

// Subresource is one mip of one array layer inside a tightly packed
// upload buffer.
type Subresource struct {
	Mip, Layer uint32
	Offset     uint64
	Size       uint64
}

// UploadLayout lists every subresource in upload order: layer-major, mips
// ascending within a layer. The last element ends at the total size.
func (s *ImageState) UploadLayout() []Subresource {
	out := make([]Subresource, 0, s.arraySize*s.mipLevels)
	var off uint64
	for layer := range s.arraySize {
		for mip := range s.mipLevels {
			size := s.ImageSize(mip)
			out = append(out, Subresource{Mip: mip, Layer: layer, Offset: off, Size: size})
			off += size
		}
	}
	return out
}

// UploadSize is the byte size of data UploadImage expects.
func (s *ImageState) UploadSize() uint64 {
	var total uint64
	for mip := range s.mipLevels {
		total += s.ImageSize(mip)
	}
	return total * uint64(s.arraySize)
}

// RowPitch returns the byte size of a row of width texels of format f.
// Block-compressed rows hold ceil(width/4) blocks.
func RowPitch(f ImageFormat, width uint32) uint32 {
	if f.IsBlockCompressed() {
		return (width + 3) / 4 * f.PixelSize()
	}
	return width * f.PixelSize()
}

// RowLength returns width rounded up to whole 4x4 blocks for
// block-compressed formats, and width otherwise.
func RowLength(f ImageFormat, width uint32) uint32 {
	if f.IsBlockCompressed() {
		return (width + 3) &^ 3
	}
	return width
}
