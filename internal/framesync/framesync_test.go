// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framesync

import (
	"errors"
	"strconv"
	"testing"

	"github.com/gogpu/vireo"
)

// gpuClock is a simulated GPU: a submitted frame completes latency ticks
// after submission, and waiting on a fence advances the clock.
type gpuClock struct {
	now     uint64
	latency uint64
}

type slotFence struct {
	frame    uint64
	doneAt   uint64
	signaled bool
	busy     bool
}

// mockPresenter records the fence discipline and serves out-of-date
// results whenever the window extent no longer matches its images.
type mockPresenter struct {
	clock     *gpuClock
	fences    []slotFence
	images    uint32
	next      uint32
	extent    vireo.Extent
	window    *vireo.Extent
	waitedFor map[uint64]uint64 // acquired frame -> frame whose fence it waited on
	acquiring uint64
	rebuilds  int
	idleWaits int
	present   []Status
}

func newMockPresenter(frames int, extent vireo.Extent, window *vireo.Extent) *mockPresenter {
	m := &mockPresenter{
		clock:     &gpuClock{latency: 5},
		fences:    make([]slotFence, frames),
		images:    3,
		extent:    extent,
		window:    window,
		waitedFor: make(map[uint64]uint64),
	}
	for i := range m.fences {
		m.fences[i].signaled = true
	}
	return m
}

func (m *mockPresenter) WaitFence(slot int) error {
	f := &m.fences[slot]
	if f.busy {
		m.clock.now = max(m.clock.now, f.doneAt)
		f.busy = false
		f.signaled = true
		m.waitedFor[m.acquiring] = f.frame
	}
	if !f.signaled {
		return errors.New("wait on a reset fence that was never submitted")
	}
	return nil
}

func (m *mockPresenter) ResetFence(slot int) error {
	m.fences[slot].signaled = false
	return nil
}

func (m *mockPresenter) AcquireImage(slot int) (uint32, Status, error) {
	if *m.window != m.extent {
		return 0, StatusOutOfDate, nil
	}
	img := m.next
	m.next = (m.next + 1) % m.images
	return img, StatusOK, nil
}

func (m *mockPresenter) PresentImage(slot int, image uint32) (Status, error) {
	if len(m.present) > 0 {
		s := m.present[0]
		m.present = m.present[1:]
		return s, nil
	}
	return StatusOK, nil
}

func (m *mockPresenter) Rebuild(extent vireo.Extent) error {
	m.extent = extent
	m.rebuilds++
	return nil
}

func (m *mockPresenter) WaitIdle() error {
	m.idleWaits++
	for i := range m.fences {
		if m.fences[i].busy {
			m.clock.now = max(m.clock.now, m.fences[i].doneAt)
			m.fences[i].busy = false
			m.fences[i].signaled = true
		}
	}
	return nil
}

// submit stands in for SubmitQueue.SubmitFrame: it signals the slot fence
// once the simulated GPU finishes frame.
func (m *mockPresenter) submit(slot int, frame uint64) {
	m.clock.now++
	m.fences[slot] = slotFence{frame: frame, doneAt: m.clock.now + m.clock.latency, busy: true}
}

func TestFenceDiscipline(t *testing.T) {
	for _, frames := range []int{1, 2, 3} {
		t.Run(strconv.Itoa(frames), func(t *testing.T) {
			ext := vireo.Extent{Width: 800, Height: 600}
			window := ext
			m := newMockPresenter(frames, ext, &window)
			loop, err := New(m, frames, ext, func() vireo.Extent { return window })
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			const n = 12
			for frame := uint64(0); frame < n; frame++ {
				m.acquiring = frame
				ok, err := loop.Acquire()
				if err != nil || !ok {
					t.Fatalf("Acquire(frame %d) = %v, %v", frame, ok, err)
				}
				slot := loop.CurrentFrameIndex()
				if want := int(frame % uint64(frames)); slot != want {
					t.Fatalf("frame %d slot = %d, want %d", frame, slot, want)
				}
				m.submit(slot, frame)
				if err := loop.Present(); err != nil {
					t.Fatalf("Present() error = %v", err)
				}
			}

			for frame := uint64(frames); frame < n; frame++ {
				waited, ok := m.waitedFor[frame]
				if !ok {
					t.Errorf("frame %d acquired without waiting on its slot fence", frame)
					continue
				}
				if want := frame - uint64(frames); waited != want {
					t.Errorf("frame %d waited on frame %d, want %d", frame, waited, want)
				}
			}
			for frame := uint64(0); frame < uint64(frames); frame++ {
				if _, ok := m.waitedFor[frame]; ok {
					t.Errorf("frame %d waited on a fence although its slot was fresh", frame)
				}
			}
			if loop.Frame() != n {
				t.Errorf("Frame() = %d, want %d", loop.Frame(), n)
			}
		})
	}
}

func TestResizeRecreatesOnce(t *testing.T) {
	ext := vireo.Extent{Width: 800, Height: 600}
	window := ext
	m := newMockPresenter(2, ext, &window)
	loop, err := New(m, 2, ext, func() vireo.Extent { return window })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ok, err := loop.Acquire()
	if !ok || err != nil {
		t.Fatalf("first Acquire() = %v, %v", ok, err)
	}
	m.submit(loop.CurrentFrameIndex(), 0)
	if err := loop.Present(); err != nil {
		t.Fatal(err)
	}

	window = vireo.Extent{Width: 1024, Height: 768}

	ok, err = loop.Acquire()
	if err != nil {
		t.Fatalf("Acquire() after resize error = %v", err)
	}
	if ok {
		t.Error("Acquire() after resize = true, want frame skipped")
	}
	ok, err = loop.Acquire()
	if !ok || err != nil {
		t.Fatalf("Acquire() after recreate = %v, %v", ok, err)
	}

	if m.rebuilds != 1 || loop.Rebuilds() != 1 {
		t.Errorf("rebuilds = %d (loop %d), want exactly 1", m.rebuilds, loop.Rebuilds())
	}
	if m.idleWaits != 1 {
		t.Errorf("WaitIdle calls = %d, want 1", m.idleWaits)
	}
	if got := loop.Extent(); got != window {
		t.Errorf("Extent() = %v, want %v", got, window)
	}
}

func TestRecreateIgnoresSpuriousResize(t *testing.T) {
	ext := vireo.Extent{Width: 640, Height: 480}
	window := ext
	m := newMockPresenter(2, ext, &window)
	loop, _ := New(m, 2, ext, func() vireo.Extent { return window })

	for i := 0; i < 3; i++ {
		rebuilt, err := loop.Recreate()
		if err != nil || rebuilt {
			t.Fatalf("Recreate() with unchanged extent = %v, %v", rebuilt, err)
		}
	}
	if m.rebuilds != 0 || m.idleWaits != 0 {
		t.Errorf("rebuilds = %d, idle waits = %d; want 0, 0", m.rebuilds, m.idleWaits)
	}

	window = vireo.Extent{}
	if rebuilt, _ := loop.Recreate(); rebuilt {
		t.Error("Recreate() with minimized window rebuilt")
	}
}

func TestPresentSuboptimalRecreates(t *testing.T) {
	ext := vireo.Extent{Width: 800, Height: 600}
	window := ext
	m := newMockPresenter(2, ext, &window)
	loop, _ := New(m, 2, ext, func() vireo.Extent { return window })

	if ok, err := loop.Acquire(); !ok || err != nil {
		t.Fatalf("Acquire() = %v, %v", ok, err)
	}
	window = vireo.Extent{Width: 900, Height: 700}
	m.present = []Status{StatusSuboptimal}
	if err := loop.Present(); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if m.rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", m.rebuilds)
	}
	if loop.CurrentFrameIndex() != 1 {
		t.Errorf("slot after Present = %d, want 1", loop.CurrentFrameIndex())
	}
}

func TestNewRejectsFrameCount(t *testing.T) {
	for _, frames := range []int{0, vireo.MaxFramesInFlight + 1} {
		if _, err := New(nil, frames, vireo.Extent{}, nil); err == nil {
			t.Errorf("New(frames=%d) error = nil", frames)
		}
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{StatusOK, "OK"},
		{StatusSuboptimal, "Suboptimal"},
		{StatusOutOfDate, "OutOfDate"},
		{Status(9), "Unknown(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
