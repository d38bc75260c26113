// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"fmt"
	"sort"
)

// DescriptorLayoutState is the backend-independent bookkeeping of a
// DescriptorLayout. Backends embed it, call CheckBuild before creating the
// native layout and MarkBuilt after.
type DescriptorLayoutState struct {
	bindings map[uint32]DescriptorBinding
	capacity uint32
	built    bool
	samplers bool
	dynamic  bool
	name     string
}

// NewDescriptorLayoutState returns an empty layout. Sampler layouts accept
// only DescriptorTypeSampler bindings and other layouts reject them.
func NewDescriptorLayoutState(name string, samplers bool) DescriptorLayoutState {
	return DescriptorLayoutState{
		bindings: make(map[uint32]DescriptorBinding),
		samplers: samplers,
		name:     name,
	}
}

// Add registers count slots of type t at index. A later Add at the same
// index replaces the binding but its count still adds to the capacity.
func (s *DescriptorLayoutState) Add(index uint32, t DescriptorType, count uint32) error {
	if s.built {
		return fmt.Errorf("%w: add %s at %d to %q", ErrLayoutBuilt, t, index, s.name)
	}
	if count == 0 {
		return fmt.Errorf("vireo: layout %q: zero count at %d", s.name, index)
	}
	if (t == DescriptorTypeSampler) != s.samplers {
		return fmt.Errorf("%w: %s in %s layout %q", ErrWrongDescriptorType, t, s.kind(), s.name)
	}
	if t == DescriptorTypeUniformDynamic {
		s.dynamic = true
	}
	s.bindings[index] = DescriptorBinding{Index: index, Type: t, Count: count}
	s.capacity += count
	return nil
}

func (s *DescriptorLayoutState) kind() string {
	if s.samplers {
		return "sampler"
	}
	return "resource"
}

// CheckBuild returns the error Build must fail with, if any.
func (s *DescriptorLayoutState) CheckBuild() error {
	if s.built {
		return fmt.Errorf("%w: %q", ErrLayoutBuilt, s.name)
	}
	if s.dynamic && len(s.bindings) != 1 {
		return fmt.Errorf("vireo: layout %q: a dynamic uniform layout holds exactly one binding, has %d",
			s.name, len(s.bindings))
	}
	return nil
}

// MarkBuilt freezes the layout.
func (s *DescriptorLayoutState) MarkBuilt() { s.built = true }

func (s *DescriptorLayoutState) Built() bool            { return s.built }
func (s *DescriptorLayoutState) Capacity() uint32       { return s.capacity }
func (s *DescriptorLayoutState) IsSamplers() bool       { return s.samplers }
func (s *DescriptorLayoutState) IsDynamicUniform() bool { return s.dynamic }
func (s *DescriptorLayoutState) Name() string           { return s.name }

// Bindings returns the bindings ordered by index.
func (s *DescriptorLayoutState) Bindings() []DescriptorBinding {
	out := make([]DescriptorBinding, 0, len(s.bindings))
	for _, b := range s.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Span returns the number of descriptor slots a set of this layout
// occupies: one past the highest slot of any binding.
func (s *DescriptorLayoutState) Span() uint32 {
	var span uint32
	for _, b := range s.bindings {
		span = max(span, b.Index+b.Count)
	}
	return span
}

// Resolve finds the binding holding slots [index, index+n) and returns it
// with the array element of index within it.
func (s *DescriptorLayoutState) Resolve(index, n uint32) (DescriptorBinding, uint32, error) {
	if n == 0 {
		n = 1
	}
	candidates := s.Bindings()
	if b, ok := s.bindings[index]; ok {
		candidates = append([]DescriptorBinding{b}, candidates...)
	}
	for _, b := range candidates {
		if index >= b.Index && index < b.Index+b.Count {
			if index+n > b.Index+b.Count {
				return DescriptorBinding{}, 0, fmt.Errorf("vireo: layout %q: slots [%d, %d) overflow binding %d of %d: %w",
					s.name, index, index+n, b.Index, b.Count, ErrOutOfRange)
			}
			return b, index - b.Index, nil
		}
	}
	return DescriptorBinding{}, 0, fmt.Errorf("vireo: layout %q: no binding at %d: %w", s.name, index, ErrOutOfRange)
}

// resourceKind groups descriptor types by the object written into them.
type resourceKind int

const (
	kindBuffer resourceKind = iota
	kindImage
	kindSampler
)

func (k resourceKind) matches(t DescriptorType) bool {
	switch k {
	case kindBuffer:
		return t.IsBuffer()
	case kindImage:
		return t.IsImage()
	default:
		return t == DescriptorTypeSampler
	}
}

// ResolveBuffers resolves an update of n buffers at index.
func (s *DescriptorLayoutState) ResolveBuffers(index, n uint32) (DescriptorBinding, uint32, error) {
	return s.resolveKind(index, n, kindBuffer)
}

// ResolveImages resolves an update of n images at index.
func (s *DescriptorLayoutState) ResolveImages(index, n uint32) (DescriptorBinding, uint32, error) {
	return s.resolveKind(index, n, kindImage)
}

// ResolveSamplers resolves an update of n samplers at index.
func (s *DescriptorLayoutState) ResolveSamplers(index, n uint32) (DescriptorBinding, uint32, error) {
	return s.resolveKind(index, n, kindSampler)
}

func (s *DescriptorLayoutState) resolveKind(index, n uint32, k resourceKind) (DescriptorBinding, uint32, error) {
	if !s.built {
		return DescriptorBinding{}, 0, fmt.Errorf("%w: %q", ErrLayoutNotBuilt, s.name)
	}
	b, elem, err := s.Resolve(index, n)
	if err != nil {
		return DescriptorBinding{}, 0, err
	}
	if !k.matches(b.Type) {
		return DescriptorBinding{}, 0, fmt.Errorf("%w: slot %d of %q is %s", ErrWrongDescriptorType, index, s.name, b.Type)
	}
	return b, elem, nil
}
