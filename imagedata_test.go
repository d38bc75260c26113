// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"math"
	"testing"

	srgb "github.com/gogpu/vireo/internal/color"
)

func twoPixels() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	return img
}

func TestImageData(t *testing.T) {
	tests := []struct {
		f    ImageFormat
		want []byte
	}{
		{ImageFormatR8G8B8A8Unorm, []byte{10, 20, 30, 255, 200, 100, 50, 128}},
		{ImageFormatR8G8B8A8Srgb, []byte{10, 20, 30, 255, 200, 100, 50, 128}},
		{ImageFormatB8G8R8A8Unorm, []byte{30, 20, 10, 255, 50, 100, 200, 128}},
		{ImageFormatB8G8R8A8Srgb, []byte{30, 20, 10, 255, 50, 100, 200, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			got, err := ImageData(twoPixels(), tt.f, 0, 0)
			if err != nil {
				t.Fatalf("ImageData() error = %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("ImageData() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImageDataResample(t *testing.T) {
	got, err := ImageData(twoPixels(), ImageFormatR8G8B8A8Unorm, 8, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 8*4*4 {
		t.Errorf("len = %d, want %d", len(got), 8*4*4)
	}
	if want := RowPitch(ImageFormatR8G8B8A8Unorm, 8) * 4; uint32(len(got)) != want {
		t.Errorf("len = %d, want row pitch * height = %d", len(got), want)
	}
}

func TestImageDataErrors(t *testing.T) {
	if _, err := ImageData(twoPixels(), ImageFormatBC1Unorm, 0, 0); err == nil {
		t.Error("block-compressed target accepted")
	}
	empty := image.NewNRGBA(image.Rectangle{})
	if _, err := ImageData(empty, ImageFormatR8G8B8A8Unorm, 0, 0); err == nil {
		t.Error("empty image accepted")
	}
}

func TestImageDescFor(t *testing.T) {
	d := ImageDescFor(image.NewRGBA(image.Rect(4, 4, 36, 20)), ImageFormatR8G8B8A8Srgb, "icon")
	if d.Width != 32 || d.Height != 16 || d.Format != ImageFormatR8G8B8A8Srgb || d.Name != "icon" {
		t.Errorf("ImageDescFor() = %+v", d)
	}
	if _, err := NewImageState(d); err != nil {
		t.Errorf("NewImageState(ImageDescFor()) = %v", err)
	}
}

func TestImageDataFloat(t *testing.T) {
	want := [8]float32{
		srgb.Decode8(10), srgb.Decode8(20), srgb.Decode8(30), 1,
		srgb.Decode8(200), srgb.Decode8(100), srgb.Decode8(50), 128.0 / 255,
	}

	got, err := ImageData(twoPixels(), ImageFormatR32G32B32A32Sfloat, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2*16 {
		t.Fatalf("len = %d, want 32", len(got))
	}
	for i, w := range want {
		if v := math.Float32frombits(binary.LittleEndian.Uint32(got[i*4:])); v != w {
			t.Errorf("component %d = %v, want %v", i, v, w)
		}
	}

	half, err := ImageData(twoPixels(), ImageFormatR16G16B16A16Sfloat, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(half) != 2*8 {
		t.Fatalf("len = %d, want 16", len(half))
	}
	for i, w := range want {
		if v := binary.LittleEndian.Uint16(half[i*2:]); v != srgb.Half(w) {
			t.Errorf("component %d = %#04x, want %#04x", i, v, srgb.Half(w))
		}
	}
}

func TestClearColorSRGB(t *testing.T) {
	v := ClearColorSRGB(1, 0.5, 0, 0.25)
	if v.Color[0] != 1 || v.Color[2] != 0 || v.Color[3] != 0.25 {
		t.Errorf("ClearColorSRGB = %v", v.Color)
	}
	if g := v.Color[1]; g < 0.21 || g > 0.22 {
		t.Errorf("green = %v, want about 0.214", g)
	}
}
