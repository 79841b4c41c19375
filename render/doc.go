// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render turns shaped text into glyph quads for one layer.
//
// A TextRenderer owns a quad buffer. Prepare walks the laid-out glyphs of
// each TextArea, rasterizes glyphs missing from the atlas, and uploads one
// GlyphQuad per visible glyph clipped to the area bounds. Render issues a
// single draw for the prepared quads.
//
// Prepare reports atlas exhaustion as a *atlas.FullError in PrepareStrict
// mode and skips glyphs that do not fit in PrepareDegraded mode.
package render
