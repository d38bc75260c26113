// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"encoding/binary"
	"errors"
	"testing"
)

const doubleWGSL = `
@group(0) @binding(0) var<storage, read_write> data: array<u32>;

@compute @workgroup_size(64)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    data[id.x] = data[id.x] * 2u;
}
`

func spirvHeader() []byte {
	code := make([]byte, 20)
	binary.LittleEndian.PutUint32(code, spirvMagic)
	return code
}

func TestValidateShaderCode(t *testing.T) {
	tests := []struct {
		name    string
		backend Backend
		code    []byte
		want    error
	}{
		{"spirv", BackendVulkan, spirvHeader(), nil},
		{"spirv empty", BackendVulkan, nil, ErrInvalidShader},
		{"spirv unaligned", BackendVulkan, append(spirvHeader(), 0), ErrInvalidShader},
		{"spirv wrong magic", BackendVulkan, []byte{1, 2, 3, 4}, ErrInvalidShader},
		{"dxbc", BackendDirectX, []byte("DXBC\x00\x01\x02\x03"), nil},
		{"dxbc given spirv", BackendDirectX, spirvHeader(), ErrInvalidShader},
		{"unknown backend", BackendUndefined, spirvHeader(), ErrUnsupportedBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateShaderCode(tt.backend, tt.code)
			if tt.want == nil {
				if err != nil {
					t.Errorf("ValidateShaderCode() = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateShaderCode() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestShaderPath(t *testing.T) {
	tests := []struct {
		backend Backend
		name    string
		want    string
	}{
		{BackendVulkan, "shaders/triangle.vert", "shaders/triangle.vert.spv"},
		{BackendDirectX, "shaders/triangle.vert", "shaders/triangle.vert.dxil"},
		{BackendVulkan, "quad.spv", "quad.spv"},
		{BackendDirectX, "quad.dxil", "quad.dxil"},
	}
	for _, tt := range tests {
		if got := ShaderPath(tt.backend, tt.name); got != tt.want {
			t.Errorf("ShaderPath(%s, %q) = %q, want %q", tt.backend, tt.name, got, tt.want)
		}
	}
}

func TestCompileShaderSPIRV(t *testing.T) {
	code, err := CompileShader(BackendVulkan, doubleWGSL, "main")
	if err != nil {
		t.Fatalf("CompileShader() error = %v", err)
	}
	if err := ValidateShaderCode(BackendVulkan, code); err != nil {
		t.Errorf("compiled SPIR-V rejected: %v", err)
	}
}

func TestCompileShaderMissingEntryPoint(t *testing.T) {
	if _, err := CompileShader(BackendDirectX, doubleWGSL, "nope"); err == nil {
		t.Error("CompileShader() with unknown entry point error = nil")
	}
}

func TestCompileShaderErrors(t *testing.T) {
	if _, err := CompileShader(BackendVulkan, "fn broken(", "main"); err == nil {
		t.Error("invalid WGSL compiled")
	}
	if _, err := CompileShader(BackendUndefined, doubleWGSL, "main"); !errors.Is(err, ErrUnsupportedBackend) {
		t.Errorf("CompileShader(undefined) = %v, want ErrUnsupportedBackend", err)
	}
}

func TestCompileShaderCached(t *testing.T) {
	PurgeShaderCache()
	before := ShaderCacheStats()
	first, err := CompileShader(BackendVulkan, doubleWGSL, "main")
	if err != nil {
		t.Fatalf("CompileShader() error = %v", err)
	}
	// SPIR-V keeps every entry point, so a different name hits the same entry.
	second, err := CompileShader(BackendVulkan, doubleWGSL, "other")
	if err != nil {
		t.Fatalf("CompileShader() error = %v", err)
	}
	if &first[0] != &second[0] {
		t.Error("second compilation was not served from the cache")
	}
	after := ShaderCacheStats()
	if after.Hits-before.Hits != 1 || after.Len != 1 {
		t.Errorf("stats = %+v, want one hit and one entry", after)
	}
}
