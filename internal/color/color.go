// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package color converts texel components between the sRGB transfer
// function, linear float and the packed formats uploaded to images.
package color

import "math"

// SRGBToLinear applies the sRGB EOTF to s in [0,1].
func SRGBToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return float32(math.Pow(float64((s+0.055)/1.055), 2.4))
}

// LinearToSRGB applies the sRGB OETF to l in [0,1].
func LinearToSRGB(l float32) float32 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*float32(math.Pow(float64(l), 1/2.4)) - 0.055
}

var (
	decode8 [256]float32
	encode8 [4096]uint8
)

func init() {
	for i := range decode8 {
		decode8[i] = SRGBToLinear(float32(i) / 255)
	}
	for i := range encode8 {
		encode8[i] = Unorm8(LinearToSRGB(float32(i) / 4095))
	}
}

// Decode8 returns the linear value of the sRGB-encoded byte s.
func Decode8(s uint8) float32 { return decode8[s] }

// Encode8 returns the sRGB-encoded byte of the linear value l, with 12
// bits of input precision.
func Encode8(l float32) uint8 {
	if !(l > 0) {
		return 0
	}
	if l >= 1 {
		return 255
	}
	return encode8[int(l*4095+0.5)]
}

// Unorm8 clamps v to [0,1] and rounds it to a byte.
func Unorm8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Half converts f to IEEE 754 binary16 bits, rounding to nearest even.
// Values too large become infinity and NaN stays NaN.
func Half(f float32) uint16 {
	b := math.Float32bits(f)
	sign := uint16(b>>16) & 0x8000
	exp := int32(b>>23&0xff) - 127 + 15
	mant := b & 0x7fffff

	switch {
	case b&0x7fffffff > 0x7f800000:
		return sign | 0x7e00
	case exp >= 0x1f:
		return sign | 0x7c00
	case exp <= 0:
		if exp < -10 {
			return sign
		}
		// Subnormal: shift the implicit bit into the mantissa.
		mant |= 0x800000
		shift := uint32(14 - exp)
		half := mant >> shift
		rem := mant & (1<<shift - 1)
		mid := uint32(1) << (shift - 1)
		if rem > mid || rem == mid && half&1 != 0 {
			half++
		}
		return sign | uint16(half)
	}
	half := uint32(exp)<<10 | mant>>13
	rem := mant & 0x1fff
	if rem > 0x1000 || rem == 0x1000 && half&1 != 0 {
		// A carry into the exponent rounds up to the next binade or
		// infinity, both of which are the correct result.
		half++
	}
	return sign | uint16(half)
}
