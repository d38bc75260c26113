// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package descheap

import (
	"errors"
	"testing"

	"github.com/gogpu/vireo"
)

func TestAllocFirstFit(t *testing.T) {
	h := New("test", 16, 0x1000, 32)

	a, err := h.Alloc(4)
	if err != nil {
		t.Fatalf("Alloc(4) error = %v", err)
	}
	b, err := h.Alloc(8)
	if err != nil {
		t.Fatalf("Alloc(8) error = %v", err)
	}
	if a != (Range{0, 4}) || b != (Range{4, 8}) {
		t.Fatalf("ranges = %v, %v; want {0 4}, {4 8}", a, b)
	}

	if err := h.Free(a); err != nil {
		t.Fatalf("Free(a) error = %v", err)
	}
	c, err := h.Alloc(2)
	if err != nil {
		t.Fatalf("Alloc(2) error = %v", err)
	}
	if c.Offset != 0 {
		t.Errorf("reused range offset = %d, want 0", c.Offset)
	}
}

func TestAllocExhaustion(t *testing.T) {
	h := New("small", 4, 0, 1)
	if _, err := h.Alloc(4); err != nil {
		t.Fatalf("Alloc(4) error = %v", err)
	}
	if _, err := h.Alloc(1); !errors.Is(err, vireo.ErrOutOfDescriptors) {
		t.Errorf("Alloc on full heap error = %v, want ErrOutOfDescriptors", err)
	}
	if _, err := h.Alloc(0); err == nil {
		t.Error("Alloc(0) error = nil")
	}
}

func TestFreeCoalesces(t *testing.T) {
	tests := []struct {
		name  string
		order []int
	}{
		{"forward", []int{0, 1, 2}},
		{"backward", []int{2, 1, 0}},
		{"middle last", []int{0, 2, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New("coalesce", 12, 0, 1)
			var rs []Range
			for i := 0; i < 3; i++ {
				r, err := h.Alloc(4)
				if err != nil {
					t.Fatalf("Alloc error = %v", err)
				}
				rs = append(rs, r)
			}
			for _, i := range tt.order {
				if err := h.Free(rs[i]); err != nil {
					t.Fatalf("Free(%v) error = %v", rs[i], err)
				}
			}
			s := h.Stats()
			if s.FreeRanges != 1 || s.LargestFree != 12 || s.Used != 0 {
				t.Errorf("Stats() = %+v, want one free range of 12", s)
			}
			if s.Peak != 12 {
				t.Errorf("Peak = %d, want 12", s.Peak)
			}
			if _, err := h.Alloc(12); err != nil {
				t.Errorf("Alloc(12) after coalescing error = %v", err)
			}
		})
	}
}

func TestFreeErrors(t *testing.T) {
	h := New("errors", 8, 0, 1)
	r, _ := h.Alloc(4)
	if err := h.Free(r); err != nil {
		t.Fatalf("Free error = %v", err)
	}
	if err := h.Free(r); err == nil {
		t.Error("double Free error = nil")
	}
	if err := h.Free(Range{Offset: 6, Count: 4}); !errors.Is(err, vireo.ErrOutOfRange) {
		t.Errorf("Free outside capacity error = %v, want ErrOutOfRange", err)
	}
}

// A layout with a uniform at slot 0 and a two-image array at slots 1-2
// resolves to three distinct handles.
func TestHandlesDistinctPerSlot(t *testing.T) {
	const base, inc = 0x8000, 64
	h := New("resources", 1024, base, inc)

	other, _ := h.Alloc(5)
	set, err := h.Alloc(3)
	if err != nil {
		t.Fatalf("Alloc error = %v", err)
	}

	seen := make(map[uint64]uint32)
	for slot := uint32(0); slot < 3; slot++ {
		handle, err := h.Handle(set, slot)
		if err != nil {
			t.Fatalf("Handle(%d) error = %v", slot, err)
		}
		if want := uint64(base + (other.Count+slot)*inc); handle != want {
			t.Errorf("Handle(%d) = %#x, want %#x", slot, handle, want)
		}
		if prev, dup := seen[handle]; dup {
			t.Errorf("slots %d and %d share handle %#x", prev, slot, handle)
		}
		seen[handle] = slot
	}
	if _, err := h.Handle(set, 3); !errors.Is(err, vireo.ErrOutOfRange) {
		t.Errorf("Handle past range error = %v, want ErrOutOfRange", err)
	}
}

func TestConcurrentAlloc(t *testing.T) {
	h := New("concurrent", 1000, 0, 1)
	done := make(chan Range, 100)
	for i := 0; i < 100; i++ {
		go func() {
			r, err := h.Alloc(10)
			if err != nil {
				t.Error(err)
			}
			done <- r
		}()
	}
	owner := make([]bool, 1000)
	for i := 0; i < 100; i++ {
		r := <-done
		for s := r.Offset; s < r.End(); s++ {
			if owner[s] {
				t.Fatalf("slot %d allocated twice", s)
			}
			owner[s] = true
		}
	}
	if s := h.Stats(); s.Used != 1000 {
		t.Errorf("Used = %d, want 1000", s.Used)
	}
}
