// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import "fmt"

// WholeSize passed as the size of Buffer.Write selects the per-instance
// aligned copy of the whole buffer.
const WholeSize = ^uint64(0)

// AlignSize rounds size up to the next multiple of alignment. An alignment
// of 0 or 1 returns size unchanged.
func AlignSize(size, alignment uint32) uint32 {
	if alignment <= 1 {
		return size
	}
	return (size + alignment - 1) / alignment * alignment
}

// BufferState is the backend-independent part of a Buffer: its layout and
// mapping. Backends embed it and attach the native mapping with SetMapped.
type BufferState struct {
	bufferType          BufferType
	size                uint64
	instanceSize        uint32
	instanceSizeAligned uint32
	instanceCount       uint32
	name                string

	mapped []byte
}

// NewBufferState computes the layout of desc. minOffsetAlignment is the
// device minimum uniform buffer offset alignment; only uniform buffers are
// padded to it.
func NewBufferState(desc BufferDesc, minOffsetAlignment uint32) (BufferState, error) {
	if desc.InstanceSize == 0 {
		return BufferState{}, fmt.Errorf("vireo: buffer %q: zero instance size", desc.Name)
	}
	count := desc.InstanceCount
	if count == 0 {
		count = 1
	}
	aligned := desc.InstanceSize
	if desc.Type.NeedsAlignment() {
		aligned = AlignSize(desc.InstanceSize, minOffsetAlignment)
	}
	return BufferState{
		bufferType:          desc.Type,
		size:                uint64(aligned) * uint64(count),
		instanceSize:        desc.InstanceSize,
		instanceSizeAligned: aligned,
		instanceCount:       count,
		name:                desc.Name,
	}, nil
}

func (s *BufferState) Type() BufferType            { return s.bufferType }
func (s *BufferState) Size() uint64                { return s.size }
func (s *BufferState) InstanceSize() uint32        { return s.instanceSize }
func (s *BufferState) InstanceSizeAligned() uint32 { return s.instanceSizeAligned }
func (s *BufferState) InstanceCount() uint32       { return s.instanceCount }
func (s *BufferState) Name() string                { return s.name }

// Mapped returns the mapped memory, nil while unmapped.
func (s *BufferState) Mapped() []byte { return s.mapped }

// CheckMappable returns the error Map must fail with, if any.
func (s *BufferState) CheckMappable() error {
	if !s.bufferType.HostVisible() {
		return fmt.Errorf("%w: %q (%s)", ErrNotHostVisible, s.name, s.bufferType)
	}
	if s.mapped != nil {
		return fmt.Errorf("%w: %q", ErrAlreadyMapped, s.name)
	}
	return nil
}

// SetMapped attaches host memory; nil detaches it. mem is truncated to
// the buffer size.
func (s *BufferState) SetMapped(mem []byte) {
	if mem != nil && uint64(len(mem)) > s.size {
		mem = mem[:s.size]
	}
	s.mapped = mem
}

// Write copies data into the mapped memory.
//
// With size WholeSize, InstanceCount instances of InstanceSize bytes are
// read tightly packed from data and written at InstanceSizeAligned strides;
// offset is ignored. Otherwise size bytes are copied at offset, and
// offset+size must not exceed Size.
func (s *BufferState) Write(data []byte, size, offset uint64) error {
	if s.mapped == nil {
		return fmt.Errorf("%w: %q", ErrNotMapped, s.name)
	}
	if size == WholeSize {
		packed := uint64(s.instanceSize) * uint64(s.instanceCount)
		if uint64(len(data)) < packed {
			return fmt.Errorf("vireo: write %q: %d bytes of data, need %d: %w", s.name, len(data), packed, ErrOutOfRange)
		}
		if s.instanceSize == s.instanceSizeAligned {
			copy(s.mapped, data[:packed])
			return nil
		}
		stride := uint64(s.instanceSizeAligned)
		n := uint64(s.instanceSize)
		for i := uint64(0); i < uint64(s.instanceCount); i++ {
			copy(s.mapped[i*stride:i*stride+n], data[i*n:(i+1)*n])
		}
		return nil
	}
	if offset > s.size || size > s.size-offset {
		return fmt.Errorf("vireo: write %q: [%d, %d) beyond size %d: %w", s.name, offset, offset+size, s.size, ErrOutOfRange)
	}
	if uint64(len(data)) < size {
		return fmt.Errorf("vireo: write %q: %d bytes of data, need %d: %w", s.name, len(data), size, ErrOutOfRange)
	}
	copy(s.mapped[offset:offset+size], data[:size])
	return nil
}

// CopyExtent resolves the byte count of a buffer to buffer copy of size
// bytes from srcOffset of a srcSize buffer to dstOffset of a dstSize one.
// WholeSize copies as much as both buffers hold past their offsets.
func CopyExtent(size, srcOffset, srcSize, dstOffset, dstSize uint64) (uint64, error) {
	if srcOffset > srcSize || dstOffset > dstSize {
		return 0, fmt.Errorf("vireo: copy offsets %d -> %d beyond sizes %d -> %d: %w",
			srcOffset, dstOffset, srcSize, dstSize, ErrOutOfRange)
	}
	if size == WholeSize {
		return min(srcSize-srcOffset, dstSize-dstOffset), nil
	}
	if size > srcSize-srcOffset || size > dstSize-dstOffset {
		return 0, fmt.Errorf("vireo: copy %d bytes at %d -> %d beyond sizes %d -> %d: %w",
			size, srcOffset, dstOffset, srcSize, dstSize, ErrOutOfRange)
	}
	return size, nil
}
