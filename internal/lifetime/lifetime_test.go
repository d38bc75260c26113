// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package lifetime

import (
	"testing"
)

// mockTimeline is a queue whose GPU progress is advanced by the test.
type mockTimeline struct {
	submitted uint64
	completed uint64
}

func (m *mockTimeline) Submitted() uint64 { return m.submitted }
func (m *mockTimeline) Completed() uint64 { return m.completed }

func (m *mockTimeline) submit() { m.submitted++ }

func TestDeferWaitsForCompletion(t *testing.T) {
	gfx := &mockTimeline{}
	d := New()
	d.AddTimeline(gfx)

	gfx.submit()
	gfx.submit()

	var released []string
	d.Defer("buffer", func() { released = append(released, "buffer") })

	gfx.submit()
	d.Defer("image", func() { released = append(released, "image") })

	if n := d.Collect(); n != 0 {
		t.Fatalf("Collect() before completion = %d, want 0", n)
	}

	gfx.completed = 2
	if n := d.Collect(); n != 1 {
		t.Fatalf("Collect() at 2 = %d, want 1", n)
	}
	if len(released) != 1 || released[0] != "buffer" {
		t.Fatalf("released = %v, want [buffer]", released)
	}

	gfx.completed = 3
	d.Collect()
	if len(released) != 2 || released[1] != "image" {
		t.Errorf("released = %v, want [buffer image]", released)
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", d.Pending())
	}
}

func TestDeferWaitsForEveryQueue(t *testing.T) {
	gfx, xfer := &mockTimeline{}, &mockTimeline{}
	d := New()
	d.AddTimeline(gfx)
	d.AddTimeline(xfer)

	gfx.submit()
	xfer.submit()
	released := false
	d.Defer("staging", func() { released = true })

	gfx.completed = 1
	d.Collect()
	if released {
		t.Fatal("released before transfer queue completed")
	}

	xfer.completed = 1
	d.Collect()
	if !released {
		t.Error("not released after both queues completed")
	}
}

func TestDeferWithoutTimelines(t *testing.T) {
	d := New()
	ran := 0
	d.Defer("a", func() { ran++ })
	d.Defer("nil", nil)
	if n := d.Collect(); n != 1 || ran != 1 {
		t.Errorf("Collect() = %d, ran = %d; want 1, 1", n, ran)
	}
}

func TestRemoveTimeline(t *testing.T) {
	gfx, compute := &mockTimeline{}, &mockTimeline{}
	d := New()
	d.AddTimeline(gfx)
	d.AddTimeline(compute)

	compute.submit()
	released := false
	d.Defer("pipeline", func() { released = true })

	d.RemoveTimeline(compute)
	d.Collect()
	if !released {
		t.Error("release still waiting on a removed timeline")
	}
}

func TestFlush(t *testing.T) {
	gfx := &mockTimeline{}
	d := New()
	d.AddTimeline(gfx)
	gfx.submit()

	order := []int{}
	for i := 0; i < 3; i++ {
		d.Defer("r", func() { order = append(order, i) })
	}
	if n := d.Flush(); n != 3 {
		t.Fatalf("Flush() = %d, want 3", n)
	}
	for i, v := range order {
		if v != i {
			t.Errorf("order = %v, want deferral order", order)
			break
		}
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() after Flush = %d", d.Pending())
	}
}
