//go:build windows && !(js && wasm)

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package directx

import (
	"bytes"
	"errors"
	"testing"
	"unsafe"

	"github.com/gogpu/vireo"
	"github.com/gogpu/vireo/internal/framesync"
	"github.com/gogpu/wgpu/hal/dx12/d3d12"
	"github.com/gogpu/wgpu/hal/dx12/dxgi"
)

// openList is a list still recording, which no queue accepts.
func openList() *CommandList {
	l := &CommandList{
		Recorder: vireo.NewRecorder("open"),
		handle:   new(d3d12.ID3D12GraphicsCommandList),
		name:     "open",
	}
	l.StartRecording()
	return l
}

func TestRejectedSubmitReservesNoSignal(t *testing.T) {
	tests := []struct {
		name string
		list vireo.CommandList
		want error
	}{
		{"open", openList(), vireo.ErrNotRecording},
		{"destroyed", &CommandList{Recorder: vireo.NewRecorder("gone"), name: "gone"}, vireo.ErrDestroyed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &SubmitQueue{name: "test"}

			fence := &Fence{handle: new(d3d12.ID3D12Fence), name: "fence"}
			if err := q.SubmitWithFence(fence, tt.list); !errors.Is(err, tt.want) {
				t.Fatalf("SubmitWithFence = %v, want %v", err, tt.want)
			}
			if fence.next != 0 || fence.target != 0 {
				t.Errorf("fence moved to next %d target %d, Wait would block", fence.next, fence.target)
			}

			sem := &Semaphore{handle: new(d3d12.ID3D12Fence), semType: vireo.SemaphoreTypeBinary, name: "sem"}
			err := q.SubmitWithSync(vireo.SubmitSync{
				Signal: []vireo.Semaphore{sem},
				Fence:  fence,
			}, tt.list)
			if !errors.Is(err, tt.want) {
				t.Fatalf("SubmitWithSync = %v, want %v", err, tt.want)
			}
			if sem.Value() != 0 || fence.target != 0 {
				t.Errorf("semaphore value %d, fence target %d, want 0", sem.Value(), fence.target)
			}
		})
	}
}

func TestRejectedFrameKeepsSlotWaitable(t *testing.T) {
	p := &presenter{
		handle: new(dxgi.IDXGISwapChain4),
		images: []*Image{{}},
		slots:  make([]uint64, 2),
		name:   "frames",
	}
	loop, err := framesync.New(p, 2, vireo.Extent{Width: 4, Height: 4}, nil)
	if err != nil {
		t.Fatal(err)
	}
	sc := &SwapChain{Loop: loop, p: p}

	q := &SubmitQueue{name: "graphic"}
	if err := q.SubmitFrame(sc, openList()); !errors.Is(err, vireo.ErrNotRecording) {
		t.Fatalf("SubmitFrame = %v, want ErrNotRecording", err)
	}
	if p.next != 0 || p.slots[0] != 0 {
		t.Errorf("slot 0 waits for %d (next %d), want 0", p.slots[0], p.next)
	}
}

func TestUploadHeapWrittenAtSubmission(t *testing.T) {
	state, err := vireo.NewBufferState(vireo.BufferDesc{Type: vireo.BufferTypeStorage, InstanceSize: 8, Name: "upload"}, 256)
	if err != nil {
		t.Fatal(err)
	}
	mem := make([]byte, 8)
	buf := &Buffer{
		BufferState: state,
		handle:      new(d3d12.ID3D12Resource),
		heap:        bufferHeap{heap: d3d12.D3D12_HEAP_TYPE_UPLOAD},
		mapped:      unsafe.Pointer(&mem[0]),
	}
	l := openList()
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := l.Upload(buf, data); err != nil {
		t.Fatal(err)
	}
	want := bytes.Clone(data)
	data[0] = 0xff
	if !bytes.Equal(mem, make([]byte, 8)) {
		t.Fatalf("memory written while recording: %v", mem)
	}
	if err := l.StopRecording(); err != nil {
		t.Fatal(err)
	}

	b, err := commandLists([]vireo.CommandList{l})
	if err != nil {
		t.Fatal(err)
	}
	if len(b.writes) != 1 {
		t.Fatalf("batch carries %d writes, want 1", len(b.writes))
	}
	for _, w := range b.writes {
		w.apply()
	}
	if !bytes.Equal(mem, want) {
		t.Errorf("memory = %v, want %v", mem, want)
	}
}
