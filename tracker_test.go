// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"strings"
	"sync"
	"testing"
)

func TestMemoryTracker(t *testing.T) {
	tr := NewMemoryTracker()
	vb := tr.Register(AllocationBuffer, "vertices", 1024)
	img := tr.Register(AllocationImage, "albedo", 4<<20)
	st := tr.Register(AllocationStaging, "", 512)

	if tr.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", tr.Count())
	}
	if want := uint64(1024 + 4<<20 + 512); tr.TotalBytes() != want {
		t.Errorf("TotalBytes() = %d, want %d", tr.TotalBytes(), want)
	}

	snap := tr.Snapshot()
	if len(snap) != 3 || snap[0].ID != vb || snap[1].ID != img || snap[2].ID != st {
		t.Errorf("Snapshot() = %+v, want id order", snap)
	}

	if !tr.Unregister(img) {
		t.Error("Unregister(img) = false")
	}
	if tr.Unregister(img) {
		t.Error("second Unregister(img) = true")
	}

	s := tr.Stats()
	if s.Count != 2 || s.TotalBytes != 1536 {
		t.Errorf("Stats() = %+v", s)
	}
	if s.PeakBytes != 1024+4<<20+512 {
		t.Errorf("PeakBytes = %d", s.PeakBytes)
	}
	if s.BytesByKind[AllocationBuffer] != 1024 || s.BytesByKind[AllocationImage] != 0 {
		t.Errorf("BytesByKind = %v", s.BytesByKind)
	}
}

func TestMemoryTrackerReport(t *testing.T) {
	tr := NewMemoryTracker()
	tr.Register(AllocationBuffer, "small", 16)
	tr.Register(AllocationBuffer, "large", 4096)
	tr.Register(AllocationImage, "", 64)

	report := tr.Report()
	for _, want := range []string{"Buffer (4112 bytes)", "Image (64 bytes)", "<unnamed>", "Memory[3 allocations"} {
		if !strings.Contains(report, want) {
			t.Errorf("Report() missing %q:\n%s", want, report)
		}
	}
	if strings.Index(report, "large") > strings.Index(report, "small") {
		t.Errorf("Report() not ordered largest first:\n%s", report)
	}
}

func TestMemoryTrackerConcurrent(t *testing.T) {
	tr := NewMemoryTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := tr.Register(AllocationBuffer, "tmp", 100)
			tr.Unregister(id)
		}()
	}
	wg.Wait()
	if tr.Count() != 0 || tr.TotalBytes() != 0 {
		t.Errorf("after concurrent churn Count() = %d, TotalBytes() = %d", tr.Count(), tr.TotalBytes())
	}
}

func TestAllocationKindString(t *testing.T) {
	tests := []struct {
		k    AllocationKind
		want string
	}{
		{AllocationBuffer, "Buffer"},
		{AllocationImage, "Image"},
		{AllocationRenderTarget, "RenderTarget"},
		{AllocationStaging, "Staging"},
		{AllocationKind(9), "Unknown(9)"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
