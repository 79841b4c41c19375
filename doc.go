// Package glyphpipe prepares and draws text on the GPU with frame-scoped
// caching.
//
// # Overview
//
// A Pipeline turns TextSections into glyph quads. Shaped paragraphs are
// cached by a 64-bit fingerprint of their content, size, font and bounds,
// so text that does not change between frames is shaped once. Rasterized
// glyphs live in a texture atlas shared by every layer.
//
// # Frame protocol
//
// Each frame follows a strict order:
//
//	for retry := true; retry; {
//		retry = false
//		for _, batch := range batches {
//			if p.Prepare(batch, clip, scale, target) {
//				retry = true
//				break
//			}
//		}
//	}
//	for i := range batches {
//		p.Render(i, clipU32, pass)
//	}
//	p.EndFrame()
//
// Every successful Prepare fills the next layer. When the atlas runs out of
// space Prepare resets the layer cursor, grows the atlas and returns true:
// every batch of the frame must then be prepared again. If the atlas cannot
// grow, or the retry limit is reached, the remaining preparations of the
// frame skip glyphs that do not fit instead of failing.
//
// EndFrame trims the atlas and the render cache: entries not used during
// the frame are dropped.
//
// # Measurement
//
// Measure and HitTest use a separate measurement cache that EndFrame leaves
// alone. Trim it with TrimMeasurementCache at whatever cadence layout runs.
//
// # Backends
//
// The pipeline draws through the interfaces of package gpu. Use
// backend/native to render with a gogpu/wgpu device and backend/software to
// render into an *image.RGBA.
//
// # Logging
//
// glyphpipe is silent by default. SetLogger enables structured logging
// through log/slog for this package and its sub-packages.
package glyphpipe
