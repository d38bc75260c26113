// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vireo

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/dxil"
	"github.com/gogpu/vireo/internal/cache"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// dxbcMagic starts every DXIL container.
var dxbcMagic = []byte("DXBC")

// ShaderExtension returns the file extension of compiled shaders for b:
// ".spv" for Vulkan and ".dxil" for DirectX.
func ShaderExtension(b Backend) string {
	if b == BackendDirectX {
		return ".dxil"
	}
	return ".spv"
}

// ValidateShaderCode checks that code carries the bytecode magic of b.
func ValidateShaderCode(b Backend, code []byte) error {
	switch b {
	case BackendVulkan:
		if len(code) < 4 || len(code)%4 != 0 {
			return fmt.Errorf("%w: SPIR-V size %d is not a positive multiple of 4", ErrInvalidShader, len(code))
		}
		if magic := binary.LittleEndian.Uint32(code); magic != spirvMagic {
			return fmt.Errorf("%w: SPIR-V magic %#08x, want %#08x", ErrInvalidShader, magic, spirvMagic)
		}
	case BackendDirectX:
		if !bytes.HasPrefix(code, dxbcMagic) {
			return fmt.Errorf("%w: missing DXBC container magic", ErrInvalidShader)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedBackend, b)
	}
	return nil
}

// ShaderPath returns name with the extension of b appended unless name
// already ends in it.
func ShaderPath(b Backend, name string) string {
	ext := ShaderExtension(b)
	if filepath.Ext(name) == ext {
		return name
	}
	return name + ext
}

// LoadShaderModule reads the compiled shader name + ".spv" or ".dxil",
// depending on the backend of v, and creates a module with the default
// entry point.
func LoadShaderModule(v Vireo, name string) (ShaderModule, error) {
	path := ShaderPath(v.Backend(), name)
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShader, err)
	}
	return v.CreateShaderModule(ShaderModuleDesc{Code: code, Name: filepath.Base(name)})
}

// shaderKey identifies one compilation. SPIR-V modules keep every entry
// point, so the Vulkan key leaves entry empty.
type shaderKey struct {
	backend Backend
	source  [sha256.Size]byte
	entry   string
}

var shaderCache = cache.New[shaderKey, []byte](256)

// ShaderCacheStats reports the hit and size counters of the compiled
// shader cache used by CompileShader.
func ShaderCacheStats() cache.Stats { return shaderCache.Stats() }

// PurgeShaderCache drops every cached compilation.
func PurgeShaderCache() { shaderCache.Purge() }

// CompileShader compiles WGSL source for backend b: to SPIR-V for Vulkan,
// to a DXIL container for DirectX. DXIL holds a single entry point, which
// is entryPoint. Results are cached by source and entry point; callers
// must not modify the returned slice.
func CompileShader(b Backend, source, entryPoint string) ([]byte, error) {
	key := shaderKey{backend: b, source: sha256.Sum256([]byte(source))}
	if b == BackendDirectX {
		key.entry = entryPoint
	}
	code, err := shaderCache.GetOrAdd(key, func() ([]byte, error) {
		return compileShader(b, source, entryPoint)
	})
	if err != nil {
		return nil, err
	}
	Logger().Debug("vireo: shader compiled", "backend", b, "entry", entryPoint, "bytes", len(code))
	return code, nil
}

func compileShader(b Backend, source, entryPoint string) ([]byte, error) {
	switch b {
	case BackendVulkan:
		code, err := naga.Compile(source)
		if err != nil {
			return nil, fmt.Errorf("vireo: compile WGSL to SPIR-V: %w", err)
		}
		return code, nil
	case BackendDirectX:
		ast, err := naga.Parse(source)
		if err != nil {
			return nil, fmt.Errorf("vireo: parse WGSL: %w", err)
		}
		module, err := naga.LowerWithSource(ast, source)
		if err != nil {
			return nil, fmt.Errorf("vireo: lower WGSL: %w", err)
		}
		found := false
		for i := range module.EntryPoints {
			if module.EntryPoints[i].Name == entryPoint {
				module.EntryPoints[0], module.EntryPoints[i] = module.EntryPoints[i], module.EntryPoints[0]
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("vireo: compile WGSL: no entry point %q", entryPoint)
		}
		code, err := dxil.Compile(module, dxil.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("vireo: compile WGSL to DXIL: %w", err)
		}
		return code, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, b)
	}
}

// CompileShaderModule compiles WGSL source with CompileShader and creates
// a module for entryPoint.
func CompileShaderModule(v Vireo, source, entryPoint, name string) (ShaderModule, error) {
	code, err := CompileShader(v.Backend(), source, entryPoint)
	if err != nil {
		return nil, err
	}
	return v.CreateShaderModule(ShaderModuleDesc{Code: code, EntryPoint: entryPoint, Name: name})
}
