// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/glyphpipe/gpu"
	"github.com/gogpu/glyphpipe/text"
)

// Color is an 8-bit RGBA color, not premultiplied.
type Color struct {
	R, G, B, A uint8
}

// Packed returns c in the GlyphQuad color layout.
func (c Color) Packed() uint32 {
	return gpu.PackColor(c.R, c.G, c.B, c.A)
}

// Resolution is the render target size in pixels.
type Resolution struct {
	Width, Height uint32
}

// TextBounds is a clip rectangle in target pixels. Right and Bottom are
// exclusive.
type TextBounds struct {
	Left, Top, Right, Bottom int32
}

// Empty reports whether the bounds contain no pixels.
func (b TextBounds) Empty() bool {
	return b.Right <= b.Left || b.Bottom <= b.Top
}

// Intersect returns the largest bounds contained by both b and o.
func (b TextBounds) Intersect(o TextBounds) TextBounds {
	return TextBounds{
		Left:   max(b.Left, o.Left),
		Top:    max(b.Top, o.Top),
		Right:  min(b.Right, o.Right),
		Bottom: min(b.Bottom, o.Bottom),
	}
}

// TextArea places a shaped buffer on the target.
type TextArea struct {
	// Buffer holds the laid-out glyphs, in target pixels.
	Buffer *text.Buffer

	// Left and Top are the buffer origin in target pixels.
	Left, Top float32

	// Bounds clips the area's glyphs.
	Bounds TextBounds

	// DefaultColor tints every glyph of the area.
	DefaultColor Color
}

// PrepareMode selects how Prepare reacts to a full atlas.
type PrepareMode int

const (
	// PrepareStrict stops at the first glyph the atlas cannot hold and
	// returns the *atlas.FullError.
	PrepareStrict PrepareMode = iota

	// PrepareDegraded skips glyphs the atlas cannot hold.
	PrepareDegraded
)

// String returns the mode name.
func (m PrepareMode) String() string {
	switch m {
	case PrepareStrict:
		return "strict"
	case PrepareDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// FontSources resolves the font sources glyphs were shaped with.
// *text.FontSystem implements it.
type FontSources interface {
	Source(id text.FontID) *text.FontSource
}

// GlyphRasterizer renders glyph images. *text.Rasterizer implements it.
type GlyphRasterizer interface {
	Rasterize(src *text.FontSource, id text.GlyphID, size, subpixelX float32) (*text.GlyphImage, error)
}
