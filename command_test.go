// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"errors"
	"testing"
)

func TestRecorderLifecycle(t *testing.T) {
	r := NewRecorder("frame")
	if r.State() != CommandListIdle {
		t.Fatalf("State() = %s, want Idle", r.State())
	}
	if err := r.StopRecording(); !errors.Is(err, ErrNotOpened) {
		t.Errorf("End on Idle = %v, want ErrNotOpened", err)
	}
	if err := r.CheckRecording("Draw"); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Draw on Idle = %v, want ErrNotRecording", err)
	}

	if reset := r.StartRecording(); reset {
		t.Error("first Begin requested a reset")
	}
	if err := r.CheckRecording("Draw"); err != nil {
		t.Errorf("Draw while Recording = %v", err)
	}
	if err := r.StopRecording(); err != nil {
		t.Fatalf("End = %v", err)
	}
	if r.State() != CommandListClosed {
		t.Errorf("State() = %s, want Closed", r.State())
	}
	if err := r.StopRecording(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("End on Closed = %v, want ErrNotRecording", err)
	}
	if err := r.CheckRecording("Dispatch"); !errors.Is(err, ErrNotRecording) {
		t.Errorf("Dispatch on Closed = %v, want ErrNotRecording", err)
	}

	if reset := r.StartRecording(); !reset {
		t.Error("Begin on Closed did not request a reset")
	}
	if r.State() != CommandListRecording {
		t.Errorf("State() = %s, want Recording", r.State())
	}
	if reset := r.StartRecording(); !reset {
		t.Error("Begin while Recording did not request a reset")
	}
}

func TestRecorderRendering(t *testing.T) {
	r := NewRecorder("pass")
	if err := r.StartRendering(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("BeginRendering on Idle = %v", err)
	}
	r.StartRecording()
	if err := r.StartRendering(); err != nil {
		t.Fatal(err)
	}
	if err := r.StartRendering(); err == nil {
		t.Error("nested BeginRendering accepted")
	}
	if err := r.StopRecording(); err == nil {
		t.Error("End with rendering open accepted")
	}
	if err := r.StopRendering(); err != nil {
		t.Fatal(err)
	}
	if err := r.StopRendering(); err == nil {
		t.Error("EndRendering without BeginRendering accepted")
	}
	if err := r.StopRecording(); err != nil {
		t.Errorf("End = %v", err)
	}

	r.StartRecording()
	_ = r.StartRendering()
	r.StartRecording()
	if r.Rendering() {
		t.Error("Begin did not clear an open rendering pass")
	}
}

func TestRecorderStaging(t *testing.T) {
	r := NewRecorder("upload")
	released := 0
	for i := 0; i < 3; i++ {
		r.KeepStaging(func() { released++ })
	}
	if r.StagingCount() != 3 {
		t.Fatalf("StagingCount() = %d, want 3", r.StagingCount())
	}

	r.StartRecording()
	_ = r.StopRecording()
	r.StartRecording()
	if released != 0 {
		t.Error("staging released by Begin")
	}

	r.Cleanup()
	if released != 3 || r.StagingCount() != 0 {
		t.Errorf("after Cleanup released = %d, count = %d", released, r.StagingCount())
	}
	r.Cleanup()
	if released != 3 {
		t.Error("second Cleanup released again")
	}
}

func TestCommandListStateString(t *testing.T) {
	tests := []struct {
		s    CommandListState
		want string
	}{
		{CommandListIdle, "Idle"},
		{CommandListRecording, "Recording"},
		{CommandListClosed, "Closed"},
		{CommandListState(7), "Unknown(7)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
