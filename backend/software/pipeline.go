// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/glyphpipe/gpu"
)

// RenderPass draws into an RGBA image.
type RenderPass struct {
	target  *image.RGBA
	scissor image.Rectangle
	draws   int
}

// NewRenderPass creates a pass over target with the scissor covering the
// whole image.
func NewRenderPass(target *image.RGBA) *RenderPass {
	return &RenderPass{target: target, scissor: target.Bounds()}
}

// SetScissorRect restricts subsequent draws to a rectangle.
func (p *RenderPass) SetScissorRect(x, y, width, height uint32) {
	r := image.Rect(int(x), int(y), int(x+width), int(y+height))
	p.scissor = r.Intersect(p.target.Bounds())
}

// Scissor returns the current scissor rectangle.
func (p *RenderPass) Scissor() image.Rectangle { return p.scissor }

// Target returns the image drawn into.
func (p *RenderPass) Target() *image.RGBA { return p.target }

// Draws returns the number of draw calls recorded.
func (p *RenderPass) Draws() int { return p.draws }

// Pipeline composites glyph quads.
type Pipeline struct {
	label     string
	destroyed bool
}

// Draw composites every quad of call into pass, clipped to the scissor.
//
// Mask quads tint the coverage with the quad color; color quads draw the
// page texels scaled by the quad alpha. Both use source-over.
func (p *Pipeline) Draw(pass gpu.RenderPass, call gpu.DrawCall) error {
	if p.destroyed {
		return ErrDestroyed
	}
	rp, ok := pass.(*RenderPass)
	if !ok {
		return ErrForeignResource
	}
	rp.draws++
	if call.QuadCount == 0 {
		return nil
	}

	buf, ok := call.Quads.(*Buffer)
	if !ok {
		return ErrForeignResource
	}
	mask, maskOK := call.Mask.(*Texture)
	colorPage, colorOK := call.Color.(*Texture)
	if !maskOK || !colorOK {
		return ErrForeignResource
	}
	if buf.destroyed || mask.destroyed || colorPage.destroyed {
		return ErrDestroyed
	}

	n := int(call.QuadCount) * gpu.GlyphQuadSize
	if n > len(buf.data) {
		return ErrOutOfBounds
	}

	clip := rp.scissor.Intersect(image.Rect(0, 0, int(call.Width), int(call.Height)))
	maskImg := &image.Alpha{
		Pix:    mask.pix,
		Stride: int(mask.width),
		Rect:   image.Rect(0, 0, int(mask.width), int(mask.height)),
	}
	colorImg := &image.RGBA{
		Pix:    colorPage.pix,
		Stride: int(colorPage.width) * 4,
		Rect:   image.Rect(0, 0, int(colorPage.width), int(colorPage.height)),
	}

	for _, q := range gpu.DecodeQuads(buf.data[:n]) {
		dst := image.Rect(int(q.X), int(q.Y), int(q.X)+int(q.Width), int(q.Y)+int(q.Height))
		r := dst.Intersect(clip)
		if r.Empty() {
			continue
		}
		atlasPt := image.Pt(int(q.AtlasX)+r.Min.X-dst.Min.X, int(q.AtlasY)+r.Min.Y-dst.Min.Y)
		cr, cg, cb, ca := gpu.UnpackColor(q.Color)

		switch q.Content {
		case gpu.ContentColor:
			var opacity image.Image
			if ca != 0xFF {
				opacity = image.NewUniform(color.Alpha{A: ca})
			}
			xdraw.DrawMask(rp.target, r, colorImg, atlasPt, opacity, image.Point{}, xdraw.Over)
		default:
			tint := image.NewUniform(color.NRGBA{R: cr, G: cg, B: cb, A: ca})
			xdraw.DrawMask(rp.target, r, tint, image.Point{}, maskImg, atlasPt, xdraw.Over)
		}
	}
	return nil
}

// Destroy releases the pipeline.
func (p *Pipeline) Destroy() {
	p.destroyed = true
}
