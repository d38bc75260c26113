// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package color

import (
	"math"
	"testing"
)

func TestTransferRoundTrip(t *testing.T) {
	for i := range 256 {
		s := float32(i) / 255
		if got := LinearToSRGB(SRGBToLinear(s)); math.Abs(float64(got-s)) > 1e-5 {
			t.Errorf("round trip of %v = %v", s, got)
		}
	}
}

func TestDecode8(t *testing.T) {
	tests := []struct {
		in   uint8
		want float32
	}{
		{0, 0},
		{255, 1},
		{128, 0.2158605},
		{10, 10.0 / 255 / 12.92},
	}
	for _, tt := range tests {
		if got := Decode8(tt.in); math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("Decode8(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEncode8InvertsDecode8(t *testing.T) {
	for i := range 256 {
		if got := Encode8(Decode8(uint8(i))); got != uint8(i) {
			t.Errorf("Encode8(Decode8(%d)) = %d", i, got)
		}
	}
	if Encode8(-1) != 0 || Encode8(2) != 255 || Encode8(float32(math.NaN())) != 0 {
		t.Error("Encode8 does not clamp")
	}
}

func TestUnorm8(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 128},
		{1, 255},
		{7, 255},
	}
	for _, tt := range tests {
		if got := Unorm8(tt.in); got != tt.want {
			t.Errorf("Unorm8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHalf(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want uint16
	}{
		{"zero", 0, 0x0000},
		{"negative zero", float32(math.Copysign(0, -1)), 0x8000},
		{"one", 1, 0x3c00},
		{"minus two", -2, 0xc000},
		{"half", 0.5, 0x3800},
		{"max", 65504, 0x7bff},
		{"overflow", 1e6, 0x7c00},
		{"infinity", float32(math.Inf(1)), 0x7c00},
		{"smallest subnormal", 5.9604645e-8, 0x0001},
		{"largest subnormal", 6.0975552e-5, 0x03ff},
		{"smallest normal", 6.1035156e-5, 0x0400},
		{"underflow", 1e-10, 0x0000},
		{"round to even", 1 + 1.0/2048, 0x3c00},
		{"round up", 1 + 3.0/2048, 0x3c02},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Half(tt.in); got != tt.want {
				t.Errorf("Half(%v) = %#04x, want %#04x", tt.in, got, tt.want)
			}
		})
	}
	if got := Half(float32(math.NaN())); got&0x7c00 != 0x7c00 || got&0x3ff == 0 {
		t.Errorf("Half(NaN) = %#04x, want a NaN", got)
	}
}
