// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"

	"github.com/gogpu/gputypes"
)

// ContentType tags the kind of pixels a glyph carries.
type ContentType uint32

const (
	// ContentMask is single-channel coverage tinted by the quad color.
	ContentMask ContentType = iota

	// ContentColor is premultiplied RGBA drawn as-is (color emoji).
	ContentColor
)

// String returns the content type name.
func (c ContentType) String() string {
	switch c {
	case ContentMask:
		return "mask"
	case ContentColor:
		return "color"
	default:
		return "unknown"
	}
}

// TextureFormat returns the atlas page format for the content type.
func (c ContentType) TextureFormat() gputypes.TextureFormat {
	if c == ContentColor {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatR8Unorm
}

// GlyphQuadSize is the encoded size of a GlyphQuad in bytes.
const GlyphQuadSize = 24

// GlyphQuad is one glyph instance.
//
// Encoded little-endian, matching the instance layout of the glyph shader:
//
//	offset  0: X, Y              i32 x2   top-left in target pixels
//	offset  8: Width, Height     u16 x2   size in pixels
//	offset 12: AtlasX, AtlasY    u16 x2   top-left in the atlas page
//	offset 16: Color             u32      r | g<<8 | b<<16 | a<<24
//	offset 20: Content           u32      ContentType
type GlyphQuad struct {
	X, Y           int32
	Width, Height  uint16
	AtlasX, AtlasY uint16
	Color          uint32
	Content        ContentType
}

// AppendQuad appends the encoding of q to dst.
func AppendQuad(dst []byte, q GlyphQuad) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(q.X)) //nolint:gosec // two's complement round-trip
	dst = binary.LittleEndian.AppendUint32(dst, uint32(q.Y)) //nolint:gosec // two's complement round-trip
	dst = binary.LittleEndian.AppendUint16(dst, q.Width)
	dst = binary.LittleEndian.AppendUint16(dst, q.Height)
	dst = binary.LittleEndian.AppendUint16(dst, q.AtlasX)
	dst = binary.LittleEndian.AppendUint16(dst, q.AtlasY)
	dst = binary.LittleEndian.AppendUint32(dst, q.Color)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(q.Content))
	return dst
}

// DecodeQuads decodes every whole GlyphQuad in data.
func DecodeQuads(data []byte) []GlyphQuad {
	n := len(data) / GlyphQuadSize
	quads := make([]GlyphQuad, n)
	for i := range quads {
		b := data[i*GlyphQuadSize : (i+1)*GlyphQuadSize]
		quads[i] = GlyphQuad{
			X:       int32(binary.LittleEndian.Uint32(b[0:])), //nolint:gosec // two's complement round-trip
			Y:       int32(binary.LittleEndian.Uint32(b[4:])), //nolint:gosec // two's complement round-trip
			Width:   binary.LittleEndian.Uint16(b[8:]),
			Height:  binary.LittleEndian.Uint16(b[10:]),
			AtlasX:  binary.LittleEndian.Uint16(b[12:]),
			AtlasY:  binary.LittleEndian.Uint16(b[14:]),
			Color:   binary.LittleEndian.Uint32(b[16:]),
			Content: ContentType(binary.LittleEndian.Uint32(b[20:])),
		}
	}
	return quads
}

// PackColor packs 8-bit channels in the GlyphQuad color layout.
func PackColor(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// UnpackColor splits a packed color into 8-bit channels.
func UnpackColor(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}
