// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"bytes"
	"errors"
	"testing"
)

func TestAlignSize(t *testing.T) {
	tests := []struct {
		size, align, want uint32
	}{
		{0, 256, 0},
		{1, 256, 256},
		{64, 256, 256},
		{256, 256, 256},
		{257, 256, 512},
		{100, 64, 128},
		{12, 4, 12},
		{13, 0, 13},
		{13, 1, 13},
	}
	for _, tt := range tests {
		if got := AlignSize(tt.size, tt.align); got != tt.want {
			t.Errorf("AlignSize(%d, %d) = %d, want %d", tt.size, tt.align, got, tt.want)
		}
	}
}

// AlignSize is the smallest multiple of the alignment not below size.
func TestAlignSizeSmallestMultiple(t *testing.T) {
	for _, align := range []uint32{2, 4, 16, 64, 256} {
		for size := uint32(0); size < 1024; size++ {
			got := AlignSize(size, align)
			if got%align != 0 || got < size || (got >= align && got-align >= size) {
				t.Fatalf("AlignSize(%d, %d) = %d", size, align, got)
			}
		}
	}
}

func TestNewBufferStateAlignment(t *testing.T) {
	tests := []struct {
		typ         BufferType
		wantAligned uint32
	}{
		{BufferTypeUniform, 256},
		{BufferTypeStorage, 64},
		{BufferTypeVertex, 64},
		{BufferTypeIndex, 64},
		{BufferTypeBufferUpload, 64},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			s, err := NewBufferState(BufferDesc{Type: tt.typ, InstanceSize: 64, InstanceCount: 4}, 256)
			if err != nil {
				t.Fatalf("NewBufferState() error = %v", err)
			}
			if s.InstanceSizeAligned() != tt.wantAligned {
				t.Errorf("InstanceSizeAligned() = %d, want %d", s.InstanceSizeAligned(), tt.wantAligned)
			}
			if want := uint64(tt.wantAligned) * 4; s.Size() != want {
				t.Errorf("Size() = %d, want %d", s.Size(), want)
			}
		})
	}
}

func TestNewBufferStateDefaults(t *testing.T) {
	s, err := NewBufferState(BufferDesc{Type: BufferTypeVertex, InstanceSize: 12}, 256)
	if err != nil {
		t.Fatal(err)
	}
	if s.InstanceCount() != 1 || s.Size() != 12 {
		t.Errorf("count = %d, size = %d; want 1, 12", s.InstanceCount(), s.Size())
	}
	if _, err := NewBufferState(BufferDesc{Type: BufferTypeVertex}, 256); err == nil {
		t.Error("zero instance size accepted")
	}
}

func uniformPayloads(n, size int) []byte {
	data := make([]byte, n*size)
	for i := range data {
		data[i] = byte(i/size*16 + i%size)
	}
	return data
}

func TestBufferRoundTrip(t *testing.T) {
	s, err := NewBufferState(BufferDesc{Type: BufferTypeUniform, InstanceSize: 64, InstanceCount: 4, Name: "ubo"}, 256)
	if err != nil {
		t.Fatal(err)
	}
	if s.InstanceSizeAligned() != 256 || s.Size() != 1024 {
		t.Fatalf("aligned = %d, size = %d; want 256, 1024", s.InstanceSizeAligned(), s.Size())
	}

	mem := make([]byte, s.Size())
	s.SetMapped(mem)
	data := uniformPayloads(4, 64)
	if err := s.Write(data, WholeSize, 0); err != nil {
		t.Fatalf("Write(WholeSize) error = %v", err)
	}
	for i := 0; i < 4; i++ {
		got := mem[i*256 : i*256+64]
		if !bytes.Equal(got, data[i*64:(i+1)*64]) {
			t.Errorf("instance %d = %v, want %v", i, got[:4], data[i*64:i*64+4])
		}
	}
}

func TestBufferWholeSizeIdempotent(t *testing.T) {
	for _, typ := range []BufferType{BufferTypeUniform, BufferTypeStorage} {
		t.Run(typ.String(), func(t *testing.T) {
			s, _ := NewBufferState(BufferDesc{Type: typ, InstanceSize: 48, InstanceCount: 3}, 256)
			mem := make([]byte, s.Size())
			s.SetMapped(mem)
			data := uniformPayloads(3, 48)

			if err := s.Write(data, WholeSize, 0); err != nil {
				t.Fatal(err)
			}
			first := bytes.Clone(mem)
			if err := s.Write(data, WholeSize, 0); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(first, mem) {
				t.Error("second WholeSize write changed mapped memory")
			}
		})
	}
}

func TestBufferFlatWrite(t *testing.T) {
	s, _ := NewBufferState(BufferDesc{Type: BufferTypeStorage, InstanceSize: 16, InstanceCount: 4}, 256)
	mem := make([]byte, s.Size())
	s.SetMapped(mem)

	tests := []struct {
		name         string
		size, offset uint64
		wantErr      bool
	}{
		{"start", 16, 0, false},
		{"end", 16, 48, false},
		{"whole", 64, 0, false},
		{"overflow", 16, 49, true},
		{"offset past end", 1, 65, true},
		{"size past end", 65, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := bytes.Repeat([]byte{0xAB}, int(min(tt.size, 128)))
			err := s.Write(data, tt.size, tt.offset)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Errorf("Write() error = %v, want ErrOutOfRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if mem[tt.offset] != 0xAB || mem[tt.offset+tt.size-1] != 0xAB {
				t.Error("bytes not written at offset")
			}
		})
	}
}

func TestBufferMapping(t *testing.T) {
	device, _ := NewBufferState(BufferDesc{Type: BufferTypeVertex, InstanceSize: 4}, 256)
	if err := device.CheckMappable(); !errors.Is(err, ErrNotHostVisible) {
		t.Errorf("CheckMappable() on vertex buffer = %v, want ErrNotHostVisible", err)
	}

	s, _ := NewBufferState(BufferDesc{Type: BufferTypeBufferUpload, InstanceSize: 4}, 256)
	if err := s.Write([]byte{1, 2, 3, 4}, 4, 0); !errors.Is(err, ErrNotMapped) {
		t.Errorf("Write() unmapped = %v, want ErrNotMapped", err)
	}
	if err := s.CheckMappable(); err != nil {
		t.Fatalf("CheckMappable() = %v", err)
	}
	s.SetMapped(make([]byte, 16))
	if len(s.Mapped()) != 4 {
		t.Errorf("Mapped() len = %d, want 4", len(s.Mapped()))
	}
	if err := s.CheckMappable(); !errors.Is(err, ErrAlreadyMapped) {
		t.Errorf("CheckMappable() while mapped = %v, want ErrAlreadyMapped", err)
	}
	s.SetMapped(nil)
	if s.Mapped() != nil {
		t.Error("Mapped() after detach != nil")
	}
}

func TestCopyExtent(t *testing.T) {
	const big = ^uint64(0) - 8
	tests := []struct {
		name                 string
		size, srcOff, srcLen uint64
		dstOff, dstLen       uint64
		want                 uint64
		wantErr              bool
	}{
		{"exact", 64, 0, 64, 0, 64, 64, false},
		{"offsets", 16, 48, 64, 112, 128, 16, false},
		{"whole", WholeSize, 16, 64, 0, 32, 32, false},
		{"whole at end", WholeSize, 64, 64, 0, 64, 0, false},
		{"src overrun", 17, 48, 64, 0, 128, 0, true},
		{"dst overrun", 32, 0, 64, 100, 128, 0, true},
		{"src offset past end", 1, 65, 64, 0, 64, 0, true},
		{"whole offset past end", WholeSize, 0, 64, 65, 64, 0, true},
		{"wrapping size", big, 16, 64, 16, 64, 0, true},
		{"wrapping offset", 16, big, 64, 0, 64, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CopyExtent(tt.size, tt.srcOff, tt.srcLen, tt.dstOff, tt.dstLen)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Fatalf("err = %v, want ErrOutOfRange", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("CopyExtent = %d, want %d", got, tt.want)
			}
		})
	}
}
