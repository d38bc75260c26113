// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import "fmt"

// CommandListState is the recording state of a CommandList.
type CommandListState int

const (
	// CommandListIdle is the state of a list never begun.
	CommandListIdle CommandListState = iota
	// CommandListRecording is the state between Begin and End.
	CommandListRecording
	// CommandListClosed is the state after End.
	CommandListClosed
)

// String returns the state name.
func (s CommandListState) String() string {
	switch s {
	case CommandListIdle:
		return "Idle"
	case CommandListRecording:
		return "Recording"
	case CommandListClosed:
		return "Closed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Recorder is the backend-independent state machine of a CommandList and
// the list of staging resources its uploads created. Backends embed it.
type Recorder struct {
	state     CommandListState
	rendering bool
	name      string
	staging   []func()
}

// NewRecorder returns an idle recorder.
func NewRecorder(name string) Recorder { return Recorder{name: name} }

// State returns the current state.
func (r *Recorder) State() CommandListState { return r.state }

// StartRecording moves to Recording. It reports whether the native list
// must be reset first, which is the case for every list begun before.
func (r *Recorder) StartRecording() (reset bool) {
	reset = r.state != CommandListIdle
	r.state = CommandListRecording
	r.rendering = false
	return reset
}

// StopRecording moves to Closed.
func (r *Recorder) StopRecording() error {
	switch r.state {
	case CommandListIdle:
		return fmt.Errorf("%w: %q", ErrNotOpened, r.name)
	case CommandListClosed:
		return fmt.Errorf("end %q: %w", r.name, ErrNotRecording)
	}
	if r.rendering {
		return fmt.Errorf("end %q: rendering still open", r.name)
	}
	r.state = CommandListClosed
	return nil
}

// CheckRecording returns ErrNotRecording, annotated with op, outside the
// Recording state.
func (r *Recorder) CheckRecording(op string) error {
	if r.state != CommandListRecording {
		return fmt.Errorf("%s on %q (%s): %w", op, r.name, r.state, ErrNotRecording)
	}
	return nil
}

// StartRendering marks a rendering pass open.
func (r *Recorder) StartRendering() error {
	if err := r.CheckRecording("BeginRendering"); err != nil {
		return err
	}
	if r.rendering {
		return fmt.Errorf("BeginRendering on %q: rendering already open", r.name)
	}
	r.rendering = true
	return nil
}

// StopRendering marks the rendering pass closed.
func (r *Recorder) StopRendering() error {
	if err := r.CheckRecording("EndRendering"); err != nil {
		return err
	}
	if !r.rendering {
		return fmt.Errorf("EndRendering on %q: no rendering open", r.name)
	}
	r.rendering = false
	return nil
}

// Rendering reports whether a rendering pass is open.
func (r *Recorder) Rendering() bool { return r.rendering }

// KeepStaging retains a staging resource until Cleanup.
func (r *Recorder) KeepStaging(release func()) {
	r.staging = append(r.staging, release)
}

// StagingCount returns the number of retained staging resources.
func (r *Recorder) StagingCount() int { return len(r.staging) }

// Cleanup releases every retained staging resource.
func (r *Recorder) Cleanup() {
	for _, release := range r.staging {
		release()
	}
	r.staging = r.staging[:0]
}
