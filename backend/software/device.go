// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glyphpipe/gpu"
)

// DefaultMaxTextureDimension is the texture limit of a device created with
// a zero limit.
const DefaultMaxTextureDimension = 8192

// Device creates in-memory resources.
type Device struct {
	maxDim uint32

	mu       sync.Mutex
	textures int
	buffers  int
}

// NewDevice creates a device limited to maxTextureDimension texels per side.
// Zero selects DefaultMaxTextureDimension.
func NewDevice(maxTextureDimension uint32) *Device {
	if maxTextureDimension == 0 {
		maxTextureDimension = DefaultMaxTextureDimension
	}
	return &Device{maxDim: maxTextureDimension}
}

// CreateTexture creates a zeroed texture.
func (d *Device) CreateTexture(desc *gpu.TextureDescriptor) (gpu.Texture, error) {
	bpp := gpu.BytesPerTexel(desc.Format)
	if bpp == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, desc.Format)
	}
	if desc.Width > d.maxDim || desc.Height > d.maxDim {
		return nil, fmt.Errorf("%w: %dx%d > %d", ErrTextureTooLarge, desc.Width, desc.Height, d.maxDim)
	}

	d.mu.Lock()
	d.textures++
	d.mu.Unlock()

	return &Texture{
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
		bpp:    bpp,
		pix:    make([]byte, int(desc.Width)*int(desc.Height)*int(bpp)),
	}, nil
}

// CreateBuffer creates a zeroed buffer.
func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Buffer, error) {
	d.mu.Lock()
	d.buffers++
	d.mu.Unlock()

	return &Buffer{
		label: desc.Label,
		usage: desc.Usage,
		data:  make([]byte, desc.Size),
	}, nil
}

// CreateGlyphPipeline creates a compositing pipeline.
func (d *Device) CreateGlyphPipeline(desc *gpu.PipelineDescriptor) (gpu.GlyphPipeline, error) {
	return &Pipeline{label: desc.Label}, nil
}

// MaxTextureDimension returns the device texture limit.
func (d *Device) MaxTextureDimension() uint32 {
	return d.maxDim
}

// Created returns the number of textures and buffers created so far.
func (d *Device) Created() (textures, buffers int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.textures, d.buffers
}

// Texture is an in-memory texture.
type Texture struct {
	label         string
	width, height uint32
	format        gputypes.TextureFormat
	bpp           uint32
	pix           []byte
	destroyed     bool
}

// Width returns the texture width.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the texture height.
func (t *Texture) Height() uint32 { return t.height }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Label returns the debug label.
func (t *Texture) Label() string { return t.label }

// Pixels returns the texel bytes, rows tightly packed.
func (t *Texture) Pixels() []byte { return t.pix }

// Destroyed reports whether Destroy was called.
func (t *Texture) Destroyed() bool { return t.destroyed }

// Destroy releases the texture memory.
func (t *Texture) Destroy() {
	t.destroyed = true
	t.pix = nil
}

// Buffer is an in-memory buffer.
type Buffer struct {
	label     string
	usage     gputypes.BufferUsage
	data      []byte
	destroyed bool
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() uint64 { return uint64(len(b.data)) }

// Bytes returns the buffer contents.
func (b *Buffer) Bytes() []byte { return b.data }

// Destroy releases the buffer memory.
func (b *Buffer) Destroy() {
	b.destroyed = true
	b.data = nil
}

// Queue copies data into in-memory resources.
type Queue struct {
	mu            sync.Mutex
	textureWrites int
	bufferWrites  int
}

// NewQueue creates a queue.
func NewQueue() *Queue {
	return &Queue{}
}

// WriteTexture copies rows of data into region of dst.
func (q *Queue) WriteTexture(dst gpu.Texture, region gpu.Region, data []byte, bytesPerRow uint32) error {
	tex, ok := dst.(*Texture)
	if !ok {
		return ErrForeignResource
	}
	if tex.destroyed {
		return ErrDestroyed
	}
	if region.X+region.Width > tex.width || region.Y+region.Height > tex.height {
		return fmt.Errorf("%w: region %+v in %dx%d texture", ErrOutOfBounds, region, tex.width, tex.height)
	}

	rowBytes := int(region.Width * tex.bpp)
	if region.Height > 0 && (int(bytesPerRow) < rowBytes || len(data) < int(bytesPerRow)*int(region.Height-1)+rowBytes) {
		return fmt.Errorf("%w: %d bytes for region %+v", ErrOutOfBounds, len(data), region)
	}

	stride := int(tex.width * tex.bpp)
	for row := range int(region.Height) {
		src := row * int(bytesPerRow)
		dstOff := (int(region.Y)+row)*stride + int(region.X*tex.bpp)
		copy(tex.pix[dstOff:dstOff+rowBytes], data[src:src+rowBytes])
	}

	q.mu.Lock()
	q.textureWrites++
	q.mu.Unlock()
	return nil
}

// WriteBuffer copies data into dst at offset.
func (q *Queue) WriteBuffer(dst gpu.Buffer, offset uint64, data []byte) error {
	buf, ok := dst.(*Buffer)
	if !ok {
		return ErrForeignResource
	}
	if buf.destroyed {
		return ErrDestroyed
	}
	if offset+uint64(len(data)) > uint64(len(buf.data)) {
		return fmt.Errorf("%w: %d bytes at %d in %d byte buffer", ErrOutOfBounds, len(data), offset, len(buf.data))
	}
	copy(buf.data[offset:], data)

	q.mu.Lock()
	q.bufferWrites++
	q.mu.Unlock()
	return nil
}

// Writes returns the number of completed texture and buffer writes.
func (q *Queue) Writes() (textures, buffers int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.textureWrites, q.bufferWrites
}
