// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package descheap sub-allocates a device-owned descriptor space.
//
// Both backends reserve one large descriptor space per kind at device
// creation (two shader-visible heaps on DirectX, one free-capable pool on
// Vulkan) and hand out contiguous slot ranges to descriptor sets. A Heap
// tracks those ranges with a first-fit free list; freed ranges coalesce
// with their neighbors.
package descheap

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/vireo"
)

// Range is a contiguous run of descriptor slots.
type Range struct {
	Offset uint32
	Count  uint32
}

// End returns one past the last slot of r.
func (r Range) End() uint32 { return r.Offset + r.Count }

// Heap is a range allocator over Capacity descriptor slots.
//
// The native handle of slot i is Base + i*Increment, which matches the
// CPU/GPU descriptor handle arithmetic of D3D12 and the per-set slot
// addressing used on Vulkan.
//
// Heap is safe for concurrent use.
type Heap struct {
	mu        sync.Mutex
	name      string
	capacity  uint32
	base      uint64
	increment uint64
	free      []Range // sorted by Offset, never adjacent
	used      uint32
	peak      uint32
}

// New returns a heap of capacity slots starting at base with a stride of
// increment between slots.
func New(name string, capacity uint32, base, increment uint64) *Heap {
	h := &Heap{
		name:      name,
		capacity:  capacity,
		base:      base,
		increment: max(increment, 1),
	}
	if capacity > 0 {
		h.free = []Range{{Offset: 0, Count: capacity}}
	}
	return h
}

// Name returns the heap name.
func (h *Heap) Name() string { return h.name }

// Capacity returns the number of slots managed by h.
func (h *Heap) Capacity() uint32 { return h.capacity }

// Increment returns the handle stride between slots.
func (h *Heap) Increment() uint64 { return h.increment }

// Alloc reserves count contiguous slots. It fails with
// vireo.ErrOutOfDescriptors when no free range is large enough.
func (h *Heap) Alloc(count uint32) (Range, error) {
	if count == 0 {
		return Range{}, fmt.Errorf("descheap %q: zero-sized allocation", h.name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, fr := range h.free {
		if fr.Count < count {
			continue
		}
		r := Range{Offset: fr.Offset, Count: count}
		if fr.Count == count {
			h.free = append(h.free[:i], h.free[i+1:]...)
		} else {
			h.free[i] = Range{Offset: fr.Offset + count, Count: fr.Count - count}
		}
		h.used += count
		h.peak = max(h.peak, h.used)
		return r, nil
	}
	return Range{}, fmt.Errorf("%w: %q needs %d slots, %d of %d in use",
		vireo.ErrOutOfDescriptors, h.name, count, h.used, h.capacity)
}

// Free returns r to the heap. Freeing a range that is not fully allocated
// is an error and leaves the heap unchanged.
func (h *Heap) Free(r Range) error {
	if r.Count == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if r.End() > h.capacity || r.End() < r.Offset {
		return fmt.Errorf("descheap %q: free [%d, %d) outside capacity %d: %w",
			h.name, r.Offset, r.End(), h.capacity, vireo.ErrOutOfRange)
	}

	i := sort.Search(len(h.free), func(i int) bool { return h.free[i].Offset >= r.Offset })
	if i < len(h.free) && h.free[i].Offset < r.End() {
		return fmt.Errorf("descheap %q: double free of [%d, %d)", h.name, r.Offset, r.End())
	}
	if i > 0 && h.free[i-1].End() > r.Offset {
		return fmt.Errorf("descheap %q: double free of [%d, %d)", h.name, r.Offset, r.End())
	}

	mergePrev := i > 0 && h.free[i-1].End() == r.Offset
	mergeNext := i < len(h.free) && r.End() == h.free[i].Offset
	switch {
	case mergePrev && mergeNext:
		h.free[i-1].Count += r.Count + h.free[i].Count
		h.free = append(h.free[:i], h.free[i+1:]...)
	case mergePrev:
		h.free[i-1].Count += r.Count
	case mergeNext:
		h.free[i] = Range{Offset: r.Offset, Count: r.Count + h.free[i].Count}
	default:
		h.free = append(h.free, Range{})
		copy(h.free[i+1:], h.free[i:])
		h.free[i] = r
	}
	h.used -= r.Count
	return nil
}

// Handle returns the native handle of slot index within r.
func (h *Heap) Handle(r Range, index uint32) (uint64, error) {
	if index >= r.Count {
		return 0, fmt.Errorf("descheap %q: slot %d of range [%d, %d): %w",
			h.name, index, r.Offset, r.End(), vireo.ErrOutOfRange)
	}
	return h.base + uint64(r.Offset+index)*h.increment, nil
}

// Stats reports the heap occupancy.
type Stats struct {
	Capacity    uint32
	Used        uint32
	Peak        uint32
	FreeRanges  int
	LargestFree uint32
}

// String returns a human-readable summary.
func (s Stats) String() string {
	return fmt.Sprintf("Descriptors[%d/%d used, peak %d, %d free ranges, largest %d]",
		s.Used, s.Capacity, s.Peak, s.FreeRanges, s.LargestFree)
}

// Stats returns the current occupancy.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := Stats{Capacity: h.capacity, Used: h.used, Peak: h.peak, FreeRanges: len(h.free)}
	for _, fr := range h.free {
		s.LargestFree = max(s.LargestFree, fr.Count)
	}
	return s
}
