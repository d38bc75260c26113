// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// AllocationKind is the kind of resource an Allocation backs.
type AllocationKind int

const (
	AllocationBuffer AllocationKind = iota
	AllocationImage
	AllocationRenderTarget
	AllocationStaging
)

// String returns the kind name.
func (k AllocationKind) String() string {
	switch k {
	case AllocationBuffer:
		return "Buffer"
	case AllocationImage:
		return "Image"
	case AllocationRenderTarget:
		return "RenderTarget"
	case AllocationStaging:
		return "Staging"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Allocation is one live GPU allocation.
type Allocation struct {
	ID   uint64
	Kind AllocationKind
	Name string
	Size uint64
}

// MemoryStats summarizes the live allocations of a tracker.
type MemoryStats struct {
	// Count is the number of live allocations.
	Count int

	// TotalBytes is the size of all live allocations.
	TotalBytes uint64

	// PeakBytes is the highest TotalBytes ever observed.
	PeakBytes uint64

	// BytesByKind splits TotalBytes by allocation kind.
	BytesByKind map[AllocationKind]uint64
}

// String returns a human-readable summary.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%d allocations, %.2f MB live, %.2f MB peak]",
		s.Count,
		float64(s.TotalBytes)/(1024*1024),
		float64(s.PeakBytes)/(1024*1024))
}

// MemoryTracker is a diagnostics registry of live buffer and image
// allocations. Every backend resource registers itself on creation and
// unregisters on release.
//
// MemoryTracker is safe for concurrent use.
type MemoryTracker struct {
	mu    sync.Mutex
	next  uint64
	live  map[uint64]Allocation
	total uint64
	peak  uint64
}

// NewMemoryTracker returns an empty tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{live: make(map[uint64]Allocation)}
}

// Register records an allocation and returns its id.
func (t *MemoryTracker) Register(kind AllocationKind, name string, size uint64) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	id := t.next
	t.live[id] = Allocation{ID: id, Kind: kind, Name: name, Size: size}
	t.total += size
	t.peak = max(t.peak, t.total)

	Logger().Debug("vireo: allocation registered", "kind", kind, "name", name, "bytes", size)
	return id
}

// Unregister removes an allocation. It reports false for unknown ids,
// so releasing twice is detectable.
func (t *MemoryTracker) Unregister(id uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	a, ok := t.live[id]
	if !ok {
		return false
	}
	delete(t.live, id)
	t.total -= a.Size
	return true
}

// Count returns the number of live allocations.
func (t *MemoryTracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// TotalBytes returns the size of all live allocations.
func (t *MemoryTracker) TotalBytes() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Snapshot returns the live allocations ordered by id.
func (t *MemoryTracker) Snapshot() []Allocation {
	t.mu.Lock()
	out := make([]Allocation, 0, len(t.live))
	for _, a := range t.live {
		out = append(out, a)
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stats returns a summary of the live allocations.
func (t *MemoryTracker) Stats() MemoryStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := MemoryStats{
		Count:       len(t.live),
		TotalBytes:  t.total,
		PeakBytes:   t.peak,
		BytesByKind: make(map[AllocationKind]uint64),
	}
	for _, a := range t.live {
		s.BytesByKind[a.Kind] += a.Size
	}
	return s
}

// Report renders the live allocations grouped by kind, largest first,
// followed by the totals.
func (t *MemoryTracker) Report() string {
	allocs := t.Snapshot()
	stats := t.Stats()

	sort.SliceStable(allocs, func(i, j int) bool {
		if allocs[i].Kind != allocs[j].Kind {
			return allocs[i].Kind < allocs[j].Kind
		}
		return allocs[i].Size > allocs[j].Size
	})

	var b strings.Builder
	kind := AllocationKind(-1)
	for _, a := range allocs {
		if a.Kind != kind {
			kind = a.Kind
			fmt.Fprintf(&b, "%s (%d bytes)\n", kind, stats.BytesByKind[kind])
		}
		name := a.Name
		if name == "" {
			name = "<unnamed>"
		}
		fmt.Fprintf(&b, "  #%d %-32s %12d\n", a.ID, name, a.Size)
	}
	b.WriteString(stats.String())
	return b.String()
}
