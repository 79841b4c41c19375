// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package atlas stores rasterized glyphs in GPU textures.
//
// A TextureAtlas keeps one page per ContentType: an R8 coverage page for
// outline glyphs and an RGBA8 page for color glyphs. Glyphs are packed with a
// shelf allocator and mirrored in a CPU copy so a page can be compacted or
// grown without rasterizing again.
//
// # Lifecycle
//
// Lookup and Insert mark glyphs as in use. Trim, called once per frame,
// drops glyphs that were not used since the previous Trim, the same
// mark-and-sweep rule the shaped text caches follow.
//
// When a page has no room Insert returns a *FullError. Grow then first
// compacts the page, dropping glyphs not used in the current frame, and
// doubles it only if that frees nothing. Either way entries may move, so
// quads built earlier in the frame must be rebuilt after a successful Grow.
package atlas
