// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu defines the graphics API surface glyphpipe renders through.
//
// The pipeline never talks to a graphics driver directly. It creates atlas
// textures and quad buffers through a Device, uploads through a Queue, and
// records draws into a RenderPass owned by the host. Two implementations
// ship with the module: backend/native over gogpu/wgpu HAL and
// backend/software over in-memory images.
//
// Formats and usages are the WebGPU enums from github.com/gogpu/gputypes so
// that descriptors map one-to-one onto HAL descriptors.
package gpu

import "github.com/gogpu/gputypes"

// TextureDescriptor describes a 2D texture with a single mip level.
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the texture size in pixels.
	Width, Height uint32

	// Format is the texel format. Atlas pages use R8Unorm and RGBA8Unorm.
	Format gputypes.TextureFormat
}

// BufferDescriptor describes a GPU buffer.
type BufferDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Size is the buffer size in bytes.
	Size uint64

	// Usage specifies how the buffer will be used.
	Usage gputypes.BufferUsage
}

// PipelineDescriptor describes the glyph render pipeline.
type PipelineDescriptor struct {
	// Label is an optional debug label.
	Label string

	// TargetFormat is the format of the color attachment drawn into.
	TargetFormat gputypes.TextureFormat
}

// Region is a rectangle of texels.
type Region struct {
	X, Y, Width, Height uint32
}

// Device creates GPU resources.
type Device interface {
	// CreateTexture creates a sampled texture that can be written to.
	CreateTexture(desc *TextureDescriptor) (Texture, error)

	// CreateBuffer creates a buffer.
	CreateBuffer(desc *BufferDescriptor) (Buffer, error)

	// CreateGlyphPipeline creates the pipeline that draws glyph quads.
	CreateGlyphPipeline(desc *PipelineDescriptor) (GlyphPipeline, error)

	// MaxTextureDimension returns the largest supported 2D texture side.
	MaxTextureDimension() uint32
}

// Queue uploads data to GPU resources.
type Queue interface {
	// WriteTexture copies tightly packed rows into region of dst.
	WriteTexture(dst Texture, region Region, data []byte, bytesPerRow uint32) error

	// WriteBuffer copies data into dst at offset.
	WriteBuffer(dst Buffer, offset uint64, data []byte) error
}

// RenderPass is the host-owned pass glyphs are recorded into.
type RenderPass interface {
	// SetScissorRect restricts subsequent draws to a rectangle in target
	// pixels.
	SetScissorRect(x, y, width, height uint32)
}

// Texture is a 2D GPU texture.
type Texture interface {
	Width() uint32
	Height() uint32
	Format() gputypes.TextureFormat
	Destroy()
}

// Buffer is a GPU buffer.
type Buffer interface {
	Size() uint64
	Destroy()
}

// DrawCall is one batch of glyph quads.
type DrawCall struct {
	// Quads holds QuadCount encoded GlyphQuads.
	Quads     Buffer
	QuadCount uint32

	// Mask and Color are the atlas pages quads sample from.
	Mask  Texture
	Color Texture

	// Width and Height are the render target size in pixels.
	Width, Height uint32
}

// GlyphPipeline draws glyph quads.
type GlyphPipeline interface {
	// Draw records call into pass. An error means the device rejected the
	// draw.
	Draw(pass RenderPass, call DrawCall) error

	// Destroy releases the pipeline.
	Destroy()
}

// BytesPerTexel returns the texel size of the atlas formats, or 0 for any
// other format.
func BytesPerTexel(format gputypes.TextureFormat) uint32 {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm:
		return 4
	default:
		return 0
	}
}
