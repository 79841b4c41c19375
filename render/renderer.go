// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glyphpipe/atlas"
	"github.com/gogpu/glyphpipe/gpu"
	"github.com/gogpu/glyphpipe/text"
)

// minQuadBufferSize is the smallest quad buffer allocation in bytes.
const minQuadBufferSize = 4096

// ErrDestroyed is returned by a destroyed renderer.
var ErrDestroyed = errors.New("render: renderer destroyed")

// PrepareStats describes the last Prepare call.
type PrepareStats struct {
	// Glyphs is the number of glyphs visited.
	Glyphs int
	// Quads is the number of quads uploaded.
	Quads int
	// Rasterized is the number of glyphs rendered into the atlas.
	Rasterized int
	// Clipped is the number of glyphs fully outside their bounds.
	Clipped int
	// Skipped is the number of glyphs dropped: unrenderable, or not
	// fitting the atlas in degraded mode.
	Skipped int
}

// TextRenderer prepares and draws the glyphs of one layer.
//
// A TextRenderer is reused across frames; each Prepare replaces the
// previous quads.
type TextRenderer struct {
	device     gpu.Device
	buffer     gpu.Buffer
	scratch    []byte
	quadCount  uint32
	resolution Resolution
	stats      PrepareStats
	destroyed  bool
}

// NewTextRenderer creates a renderer allocating its buffers on device.
func NewTextRenderer(device gpu.Device) *TextRenderer {
	return &TextRenderer{device: device}
}

// Prepare builds quads for areas and uploads them.
//
// Glyphs missing from atl are rasterized and inserted. In PrepareStrict
// mode a full atlas aborts Prepare with an error wrapping *atlas.FullError
// and the renderer keeps no quads; in PrepareDegraded mode those glyphs are
// skipped. Glyphs the rasterizer cannot render are always skipped.
func (r *TextRenderer) Prepare(
	queue gpu.Queue,
	fonts FontSources,
	rasterizer GlyphRasterizer,
	atl *atlas.TextureAtlas,
	resolution Resolution,
	areas []TextArea,
	mode PrepareMode,
) error {
	if r.destroyed {
		return ErrDestroyed
	}

	r.quadCount = 0
	r.resolution = resolution
	r.stats = PrepareStats{}
	r.scratch = r.scratch[:0]

	screen := TextBounds{Right: clampInt32(resolution.Width), Bottom: clampInt32(resolution.Height)}
	for i := range areas {
		area := &areas[i]
		if area.Buffer == nil {
			continue
		}
		bounds := area.Bounds.Intersect(screen)
		color := area.DefaultColor.Packed()

		for li := range area.Buffer.Lines() {
			line := &area.Buffer.Lines()[li]
			baseline := area.Top + line.Baseline
			for gi := range line.Glyphs {
				if err := r.prepareGlyph(fonts, rasterizer, atl, area.Left, baseline, &line.Glyphs[gi], bounds, color, mode); err != nil {
					r.scratch = r.scratch[:0]
					return err
				}
			}
		}
	}

	if err := r.upload(queue); err != nil {
		return err
	}

	slogger().Debug("layer prepared",
		"areas", len(areas),
		"glyphs", r.stats.Glyphs,
		"quads", r.stats.Quads,
		"rasterized", r.stats.Rasterized,
		"skipped", r.stats.Skipped,
		"mode", mode)
	return nil
}

func (r *TextRenderer) prepareGlyph(
	fonts FontSources,
	rasterizer GlyphRasterizer,
	atl *atlas.TextureAtlas,
	left, baseline float32,
	g *text.Glyph,
	bounds TextBounds,
	color uint32,
	mode PrepareMode,
) error {
	r.stats.Glyphs++

	px, bin := text.QuantizeSubpixel(left + g.X)
	key := atlas.NewGlyphKey(g.Font, g.ID, g.Size, bin)

	entry, ok := atl.Lookup(key)
	if !ok {
		src := fonts.Source(g.Font)
		if src == nil {
			r.stats.Skipped++
			return nil
		}
		img, err := rasterizer.Rasterize(src, g.ID, g.Size, float32(bin)/text.SubpixelBins)
		if err != nil {
			slogger().Debug("glyph skipped", "font", g.Font, "glyph", g.ID, "error", err)
			r.stats.Skipped++
			return nil
		}
		entry, err = atl.Insert(key, img)
		if err != nil {
			if _, full := atlas.IsFull(err); full && mode == PrepareDegraded {
				r.stats.Skipped++
				return nil
			}
			return fmt.Errorf("render: insert glyph %d: %w", g.ID, err)
		}
		r.stats.Rasterized++
	}

	if entry.Empty() {
		return nil
	}

	py := int32(math.Round(float64(baseline + g.Y)))
	x := int32(px) + entry.Left //nolint:gosec // pixel positions fit in int32
	y := py + entry.Top
	quad, visible := clipQuad(gpu.GlyphQuad{
		X:       x,
		Y:       y,
		Width:   entry.Width,
		Height:  entry.Height,
		AtlasX:  entry.X,
		AtlasY:  entry.Y,
		Color:   color,
		Content: entry.Content,
	}, bounds)
	if !visible {
		r.stats.Clipped++
		return nil
	}

	r.scratch = gpu.AppendQuad(r.scratch, quad)
	r.stats.Quads++
	return nil
}

// clipQuad trims q to bounds, shifting its atlas origin to match.
func clipQuad(q gpu.GlyphQuad, bounds TextBounds) (gpu.GlyphQuad, bool) {
	left, top := q.X, q.Y
	right, bottom := left+int32(q.Width), top+int32(q.Height)

	cl := max(left, bounds.Left)
	ct := max(top, bounds.Top)
	cr := min(right, bounds.Right)
	cb := min(bottom, bounds.Bottom)
	if cr <= cl || cb <= ct {
		return q, false
	}

	q.AtlasX += uint16(cl - left) //nolint:gosec // clip offset is within the glyph
	q.AtlasY += uint16(ct - top)  //nolint:gosec // clip offset is within the glyph
	q.X, q.Y = cl, ct
	q.Width = uint16(cr - cl)  //nolint:gosec // clipped size is within the glyph
	q.Height = uint16(cb - ct) //nolint:gosec // clipped size is within the glyph
	return q, true
}

// upload copies the scratch quads into the quad buffer, growing it to the
// next power of two when needed.
func (r *TextRenderer) upload(queue gpu.Queue) error {
	if len(r.scratch) == 0 {
		return nil
	}

	need := uint64(len(r.scratch))
	if r.buffer == nil || r.buffer.Size() < need {
		size := max(uint64(minQuadBufferSize), nextPowerOfTwo(need))
		buf, err := r.device.CreateBuffer(&gpu.BufferDescriptor{
			Label: "glyph_quads",
			Size:  size,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("render: create quad buffer: %w", err)
		}
		if r.buffer != nil {
			r.buffer.Destroy()
		}
		r.buffer = buf
		slogger().Debug("quad buffer resized", "size", size)
	}

	if err := queue.WriteBuffer(r.buffer, 0, r.scratch); err != nil {
		return fmt.Errorf("render: upload quads: %w", err)
	}
	r.quadCount = uint32(len(r.scratch) / gpu.GlyphQuadSize) //nolint:gosec // bounded by buffer size
	return nil
}

// Render draws the prepared quads with pipeline into pass.
func (r *TextRenderer) Render(atl *atlas.TextureAtlas, pipeline gpu.GlyphPipeline, pass gpu.RenderPass) error {
	if r.destroyed {
		return ErrDestroyed
	}
	if r.quadCount == 0 {
		return nil
	}
	return pipeline.Draw(pass, gpu.DrawCall{
		Quads:     r.buffer,
		QuadCount: r.quadCount,
		Mask:      atl.Texture(atlas.Mask),
		Color:     atl.Texture(atlas.Color),
		Width:     r.resolution.Width,
		Height:    r.resolution.Height,
	})
}

// QuadCount returns the number of quads prepared.
func (r *TextRenderer) QuadCount() uint32 { return r.quadCount }

// Stats returns statistics of the last Prepare.
func (r *TextRenderer) Stats() PrepareStats { return r.stats }

// Destroy releases the quad buffer.
func (r *TextRenderer) Destroy() {
	if r.buffer != nil {
		r.buffer.Destroy()
		r.buffer = nil
	}
	r.quadCount = 0
	r.destroyed = true
}

func nextPowerOfTwo(n uint64) uint64 {
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

func clampInt32(v uint32) int32 {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(v)
}
