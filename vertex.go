// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// AttributeFormat is the element format of a vertex attribute.
type AttributeFormat int

const (
	AttributeFormatR32Float AttributeFormat = iota
	AttributeFormatR32G32Float
	AttributeFormatR32G32B32Float
	AttributeFormatR32G32B32A32Float
	AttributeFormatR32Sint
	AttributeFormatR32G32Sint
	AttributeFormatR32G32B32Sint
	AttributeFormatR32G32B32A32Sint
	AttributeFormatR32Uint
	AttributeFormatR32G32Uint
	AttributeFormatR32G32B32Uint
	AttributeFormatR32G32B32A32Uint
)

var attributeVertexFormats = [...]gputypes.VertexFormat{
	AttributeFormatR32Float:          gputypes.VertexFormatFloat32,
	AttributeFormatR32G32Float:       gputypes.VertexFormatFloat32x2,
	AttributeFormatR32G32B32Float:    gputypes.VertexFormatFloat32x3,
	AttributeFormatR32G32B32A32Float: gputypes.VertexFormatFloat32x4,
	AttributeFormatR32Sint:           gputypes.VertexFormatSint32,
	AttributeFormatR32G32Sint:        gputypes.VertexFormatSint32x2,
	AttributeFormatR32G32B32Sint:     gputypes.VertexFormatSint32x3,
	AttributeFormatR32G32B32A32Sint:  gputypes.VertexFormatSint32x4,
	AttributeFormatR32Uint:           gputypes.VertexFormatUint32,
	AttributeFormatR32G32Uint:        gputypes.VertexFormatUint32x2,
	AttributeFormatR32G32B32Uint:     gputypes.VertexFormatUint32x3,
	AttributeFormatR32G32B32A32Uint:  gputypes.VertexFormatUint32x4,
}

// VertexFormat returns the equivalent WebGPU vertex format.
func (f AttributeFormat) VertexFormat() gputypes.VertexFormat {
	if f < 0 || int(f) >= len(attributeVertexFormats) {
		return gputypes.VertexFormatUndefined
	}
	return attributeVertexFormats[f]
}

// Size returns the byte size of the attribute, 0 for unknown formats.
func (f AttributeFormat) Size() uint32 {
	return uint32(f.VertexFormat().Size())
}

// Components returns the number of 32-bit components.
func (f AttributeFormat) Components() uint32 { return f.Size() / 4 }

// String returns the format name.
func (f AttributeFormat) String() string {
	vf := f.VertexFormat()
	if vf == gputypes.VertexFormatUndefined {
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
	return vf.String()
}

// VertexAttributeDesc describes one vertex attribute. Binding is the
// semantic name used by HLSL; SPIR-V uses the attribute's position in the
// layout as its location.
type VertexAttributeDesc struct {
	Binding string
	Format  AttributeFormat
	Offset  uint32
}

// VertexInputLayout is an immutable per-vertex input description.
type VertexInputLayout struct {
	stride     uint32
	attributes []VertexAttributeDesc
}

// NewVertexLayout validates attrs against stride and returns the layout.
func NewVertexLayout(stride uint32, attrs []VertexAttributeDesc) (*VertexInputLayout, error) {
	if stride == 0 {
		return nil, fmt.Errorf("vireo: vertex layout: zero stride")
	}
	for i, a := range attrs {
		size := a.Format.Size()
		if size == 0 {
			return nil, fmt.Errorf("vireo: vertex layout: attribute %d (%s): unknown format %d", i, a.Binding, int(a.Format))
		}
		if a.Offset+size > stride {
			return nil, fmt.Errorf("vireo: vertex layout: attribute %d (%s) ends at %d past stride %d: %w",
				i, a.Binding, a.Offset+size, stride, ErrOutOfRange)
		}
	}
	out := make([]VertexAttributeDesc, len(attrs))
	copy(out, attrs)
	return &VertexInputLayout{stride: stride, attributes: out}, nil
}

// Stride returns the byte distance between consecutive vertices.
func (l *VertexInputLayout) Stride() uint32 { return l.stride }

// Attributes returns a copy of the attribute list.
func (l *VertexInputLayout) Attributes() []VertexAttributeDesc {
	out := make([]VertexAttributeDesc, len(l.attributes))
	copy(out, l.attributes)
	return out
}
