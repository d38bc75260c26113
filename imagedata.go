// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/vireo/internal/color"
	"golang.org/x/image/draw"
)

// ImageData converts src to tightly packed texels for an image of format
// f: one of the R8G8B8A8 or B8G8R8A8 Unorm/Srgb formats, or
// R16G16B16A16Sfloat or R32G32B32A32Sfloat. The color channels of src are
// taken as sRGB encoded and decoded to linear for the float formats. Alpha
// is not premultiplied. When width and height are non-zero and differ from
// the bounds of src, src is resampled with Catmull-Rom. The result can be
// passed to CommandList.UploadImage.
func ImageData(src image.Image, f ImageFormat, width, height uint32) ([]byte, error) {
	swap := false
	switch f {
	case ImageFormatR8G8B8A8Unorm, ImageFormatR8G8B8A8Srgb:
	case ImageFormatR16G16B16A16Sfloat, ImageFormatR32G32B32A32Sfloat:
	case ImageFormatB8G8R8A8Unorm, ImageFormatB8G8R8A8Srgb:
		swap = true
	default:
		return nil, fmt.Errorf("vireo: image data: unsupported format %s", f)
	}

	sb := src.Bounds()
	if width == 0 || height == 0 {
		width, height = uint32(sb.Dx()), uint32(sb.Dy())
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("vireo: image data: empty image")
	}

	dst := image.NewNRGBA(image.Rect(0, 0, int(width), int(height)))
	if sb.Dx() == int(width) && sb.Dy() == int(height) {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	}

	switch {
	case swap:
		for i := 0; i+3 < len(dst.Pix); i += 4 {
			dst.Pix[i], dst.Pix[i+2] = dst.Pix[i+2], dst.Pix[i]
		}
	case f == ImageFormatR16G16B16A16Sfloat:
		return linearTexels(dst.Pix, 2, func(b []byte, v float32) {
			binary.LittleEndian.PutUint16(b, color.Half(v))
		}), nil
	case f == ImageFormatR32G32B32A32Sfloat:
		return linearTexels(dst.Pix, 4, func(b []byte, v float32) {
			binary.LittleEndian.PutUint32(b, math.Float32bits(v))
		}), nil
	}
	return dst.Pix, nil
}

// linearTexels widens 8-bit sRGB RGBA to components of size bytes written
// by put, decoding color to linear and scaling alpha to [0,1].
func linearTexels(pix []byte, size int, put func([]byte, float32)) []byte {
	out := make([]byte, len(pix)*size)
	for i, c := range pix {
		v := color.Decode8(c)
		if i%4 == 3 {
			v = float32(c) / 255
		}
		put(out[i*size:], v)
	}
	return out
}

// ImageDescFor returns the description of a single-mip image holding src
// in format f.
func ImageDescFor(src image.Image, f ImageFormat, name string) ImageDesc {
	b := src.Bounds()
	return ImageDesc{
		Format: f,
		Width:  uint32(b.Dx()),
		Height: uint32(b.Dy()),
		Name:   name,
	}
}
