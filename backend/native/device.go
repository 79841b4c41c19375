// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glyphpipe/gpu"
)

// Device creates glyphpipe resources on a HAL device.
type Device struct {
	device hal.Device
	queue  hal.Queue
	maxDim uint32
}

// NewDevice wraps a HAL device and queue. maxTextureDimension is the
// device's 2D texture limit; 0 selects the WebGPU default limit.
func NewDevice(device hal.Device, queue hal.Queue, maxTextureDimension uint32) *Device {
	if maxTextureDimension == 0 {
		maxTextureDimension = gputypes.DefaultLimits().MaxTextureDimension2D
	}
	return &Device{device: device, queue: queue, maxDim: maxTextureDimension}
}

// Queue returns the upload queue of the device.
func (d *Device) Queue() *Queue { return &Queue{queue: d.queue} }

// MaxTextureDimension returns the largest supported 2D texture side.
func (d *Device) MaxTextureDimension() uint32 { return d.maxDim }

// CreateTexture creates a sampled texture with a default view.
func (d *Device) CreateTexture(desc *gpu.TextureDescriptor) (gpu.Texture, error) {
	if desc.Width == 0 || desc.Height == 0 || desc.Width > d.maxDim || desc.Height > d.maxDim {
		return nil, fmt.Errorf("%w: %dx%d", ErrTextureTooLarge, desc.Width, desc.Height)
	}

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D{Width: desc.Width, Height: desc.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create texture %q: %w", desc.Label, err)
	}

	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label + "_view",
		Format:        desc.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("native: create texture view %q: %w", desc.Label, err)
	}

	return &Texture{
		device: d.device,
		raw:    tex,
		view:   view,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
	}, nil
}

// CreateBuffer creates a buffer with the requested usage.
func (d *Device) CreateBuffer(desc *gpu.BufferDescriptor) (gpu.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create buffer %q: %w", desc.Label, err)
	}
	return &Buffer{device: d.device, raw: buf, size: desc.Size}, nil
}

// CreateGlyphPipeline compiles the glyph shader and creates the render
// pipeline for the target format.
func (d *Device) CreateGlyphPipeline(desc *gpu.PipelineDescriptor) (gpu.GlyphPipeline, error) {
	p := &Pipeline{device: d.device, queue: d.queue, label: desc.Label}
	if err := p.create(desc.TargetFormat); err != nil {
		p.Destroy()
		return nil, err
	}
	slogger().Debug("glyph pipeline created", "label", desc.Label, "format", desc.TargetFormat)
	return p, nil
}

// Texture is a HAL texture with its default view.
type Texture struct {
	device    hal.Device
	raw       hal.Texture
	view      hal.TextureView
	width     uint32
	height    uint32
	format    gputypes.TextureFormat
	destroyed bool
}

func (t *Texture) Width() uint32                  { return t.width }
func (t *Texture) Height() uint32                 { return t.height }
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Destroy releases the view and the texture.
func (t *Texture) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.device.DestroyTextureView(t.view)
	t.device.DestroyTexture(t.raw)
}

// Buffer is a HAL buffer.
type Buffer struct {
	device    hal.Device
	raw       hal.Buffer
	size      uint64
	destroyed bool
}

func (b *Buffer) Size() uint64 { return b.size }

// Destroy releases the buffer.
func (b *Buffer) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.device.DestroyBuffer(b.raw)
}

// Queue uploads through a HAL queue.
type Queue struct {
	queue hal.Queue
}

// NewQueue wraps a HAL queue.
func NewQueue(queue hal.Queue) *Queue { return &Queue{queue: queue} }

// WriteTexture copies tightly packed rows into region of dst.
func (q *Queue) WriteTexture(dst gpu.Texture, region gpu.Region, data []byte, bytesPerRow uint32) error {
	tex, ok := dst.(*Texture)
	if !ok {
		return ErrForeignResource
	}
	if tex.destroyed {
		return ErrDestroyed
	}
	if region.Width == 0 || region.Height == 0 {
		return nil
	}

	q.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex.raw,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: region.X, Y: region.Y, Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  bytesPerRow,
			RowsPerImage: region.Height,
		},
		&hal.Extent3D{Width: region.Width, Height: region.Height, DepthOrArrayLayers: 1},
	)
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
	if len(data) > 0 {
		q.queue.WriteBuffer(buf.raw, offset, data)
	}
	return nil
}
