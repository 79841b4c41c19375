// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/glyph.wgsl
var glyphShaderWGSL string

// compileGlyphShader compiles the glyph shader to SPIR-V words.
func compileGlyphShader() ([]uint32, error) {
	spirv, err := naga.Compile(glyphShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("native: compile glyph shader: %w", err)
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	return words, nil
}
