// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"errors"
	"testing"
)

type layoutAdd struct {
	index uint32
	typ   DescriptorType
	count uint32
}

func TestLayoutCapacityIsSumOfCounts(t *testing.T) {
	tests := []struct {
		name string
		adds []layoutAdd
		want uint32
	}{
		{"empty", nil, 0},
		{"single", []layoutAdd{{0, DescriptorTypeUniform, 1}}, 1},
		{"ascending", []layoutAdd{{0, DescriptorTypeUniform, 1}, {1, DescriptorTypeSampledImage, 2}}, 3},
		{"descending", []layoutAdd{{1, DescriptorTypeSampledImage, 2}, {0, DescriptorTypeUniform, 1}}, 3},
		{"overlapping", []layoutAdd{{0, DescriptorTypeBuffer, 4}, {2, DescriptorTypeReadWriteImage, 3}}, 7},
		{"same index twice", []layoutAdd{{5, DescriptorTypeBuffer, 2}, {5, DescriptorTypeReadWriteBuffer, 6}}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewDescriptorLayoutState(tt.name, false)
			for _, a := range tt.adds {
				if err := s.Add(a.index, a.typ, a.count); err != nil {
					t.Fatalf("Add(%d, %s, %d) error = %v", a.index, a.typ, a.count, err)
				}
			}
			if got := s.Capacity(); got != tt.want {
				t.Errorf("Capacity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLayoutAddAfterBuild(t *testing.T) {
	s := NewDescriptorLayoutState("frozen", false)
	if err := s.Add(0, DescriptorTypeUniform, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.CheckBuild(); err != nil {
		t.Fatalf("CheckBuild() = %v", err)
	}
	s.MarkBuilt()

	if err := s.Add(1, DescriptorTypeBuffer, 1); !errors.Is(err, ErrLayoutBuilt) {
		t.Errorf("Add after build = %v, want ErrLayoutBuilt", err)
	}
	if err := s.CheckBuild(); !errors.Is(err, ErrLayoutBuilt) {
		t.Errorf("second CheckBuild() = %v, want ErrLayoutBuilt", err)
	}
	if s.Capacity() != 1 {
		t.Errorf("Capacity() = %d, want 1", s.Capacity())
	}
}

func TestLayoutKinds(t *testing.T) {
	samplers := NewDescriptorLayoutState("samplers", true)
	if err := samplers.Add(0, DescriptorTypeSampler, 4); err != nil {
		t.Errorf("sampler layout rejected sampler: %v", err)
	}
	if err := samplers.Add(4, DescriptorTypeSampledImage, 1); !errors.Is(err, ErrWrongDescriptorType) {
		t.Errorf("sampler layout accepted image: %v", err)
	}

	resources := NewDescriptorLayoutState("resources", false)
	if err := resources.Add(0, DescriptorTypeSampler, 1); !errors.Is(err, ErrWrongDescriptorType) {
		t.Errorf("resource layout accepted sampler: %v", err)
	}
	if err := resources.Add(0, DescriptorTypeUniform, 0); err == nil {
		t.Error("zero count accepted")
	}
}

func TestLayoutDynamicUniform(t *testing.T) {
	s := NewDescriptorLayoutState("dynamic", false)
	_ = s.Add(0, DescriptorTypeUniformDynamic, 1)
	if !s.IsDynamicUniform() {
		t.Fatal("IsDynamicUniform() = false")
	}
	if err := s.CheckBuild(); err != nil {
		t.Errorf("CheckBuild() single dynamic binding = %v", err)
	}
	_ = s.Add(1, DescriptorTypeUniform, 1)
	if err := s.CheckBuild(); err == nil {
		t.Error("CheckBuild() accepted a dynamic layout with two bindings")
	}
}

// A uniform at slot 0 and a two-image array at slots 1-2.
func sceneLayout(t *testing.T) *DescriptorLayoutState {
	t.Helper()
	s := NewDescriptorLayoutState("scene", false)
	if err := s.Add(0, DescriptorTypeUniform, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(1, DescriptorTypeSampledImage, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.CheckBuild(); err != nil {
		t.Fatal(err)
	}
	s.MarkBuilt()
	return &s
}

func TestLayoutResolve(t *testing.T) {
	s := sceneLayout(t)
	if s.Span() != 3 {
		t.Errorf("Span() = %d, want 3", s.Span())
	}

	b, elem, err := s.ResolveBuffers(0, 1)
	if err != nil || b.Index != 0 || elem != 0 {
		t.Errorf("ResolveBuffers(0, 1) = %+v, %d, %v", b, elem, err)
	}
	b, elem, err = s.ResolveImages(1, 2)
	if err != nil || b.Index != 1 || elem != 0 {
		t.Errorf("ResolveImages(1, 2) = %+v, %d, %v", b, elem, err)
	}
	b, elem, err = s.ResolveImages(2, 1)
	if err != nil || b.Index != 1 || elem != 1 {
		t.Errorf("ResolveImages(2, 1) = %+v, %d, %v", b, elem, err)
	}

	tests := []struct {
		name    string
		resolve func() error
		want    error
	}{
		{"image into uniform", func() error { _, _, err := s.ResolveImages(0, 1); return err }, ErrWrongDescriptorType},
		{"buffer into image", func() error { _, _, err := s.ResolveBuffers(1, 1); return err }, ErrWrongDescriptorType},
		{"array overflow", func() error { _, _, err := s.ResolveImages(2, 2); return err }, ErrOutOfRange},
		{"unbound slot", func() error { _, _, err := s.ResolveBuffers(3, 1); return err }, ErrOutOfRange},
		{"sampler into resources", func() error { _, _, err := s.ResolveSamplers(0, 1); return err }, ErrWrongDescriptorType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.resolve(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLayoutResolveBeforeBuild(t *testing.T) {
	s := NewDescriptorLayoutState("open", false)
	_ = s.Add(0, DescriptorTypeBuffer, 1)
	if _, _, err := s.ResolveBuffers(0, 1); !errors.Is(err, ErrLayoutNotBuilt) {
		t.Errorf("ResolveBuffers() before build = %v, want ErrLayoutNotBuilt", err)
	}
}

func TestLayoutBindingsSorted(t *testing.T) {
	s := NewDescriptorLayoutState("sorted", false)
	for _, i := range []uint32{7, 2, 5, 0} {
		_ = s.Add(i, DescriptorTypeBuffer, 1)
	}
	got := s.Bindings()
	for i := 1; i < len(got); i++ {
		if got[i-1].Index >= got[i].Index {
			t.Fatalf("Bindings() not sorted: %+v", got)
		}
	}
}
