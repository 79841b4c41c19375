package text

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// SubpixelBins is the number of horizontal subpixel positions a glyph is
// rasterized at.
const SubpixelBins = 4

// QuantizeSubpixel splits a horizontal pen position into a whole pixel and
// a subpixel bin in [0, SubpixelBins).
func QuantizeSubpixel(x float32) (pixel int, bin uint8) {
	whole := math.Floor(float64(x))
	b := int(math.Round((float64(x) - whole) * SubpixelBins))
	if b == SubpixelBins {
		whole++
		b = 0
	}
	return int(whole), uint8(b) //nolint:gosec // b is in [0, SubpixelBins)
}

// GlyphImage is a rasterized glyph.
//
// Exactly one of Mask and Color is set for a visible glyph. Both are nil for
// glyphs without ink, such as spaces.
type GlyphImage struct {
	// Mask is the coverage of an outline glyph.
	Mask *image.Alpha

	// Color is the premultiplied image of a bitmap color glyph.
	Color *image.RGBA

	// Left and Top locate the image's top-left corner relative to the glyph
	// origin on the baseline, y down.
	Left, Top int
}

// Empty reports whether the glyph has no pixels.
func (g *GlyphImage) Empty() bool {
	return g.Bounds().Empty()
}

// Colored reports whether the glyph carries its own colors.
func (g *GlyphImage) Colored() bool {
	return g.Color != nil
}

// Bounds returns the image bounds (origin at zero).
func (g *GlyphImage) Bounds() image.Rectangle {
	switch {
	case g.Mask != nil:
		return g.Mask.Bounds()
	case g.Color != nil:
		return g.Color.Bounds()
	default:
		return image.Rectangle{}
	}
}

// Rasterizer turns glyphs into images.
//
// Outline glyphs are read with golang.org/x/image/font/sfnt and filled with
// golang.org/x/image/vector. Glyphs that only exist as PNG bitmaps (CBDT,
// sbix) are decoded through go-text and scaled to size.
//
// Rasterizer is safe for concurrent use.
type Rasterizer struct {
	mu  sync.Mutex
	buf sfnt.Buffer
}

// NewRasterizer creates a rasterizer.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

// Rasterize renders glyph id of src at size pixels per em, shifted right by
// subpixelX (in [0, 1)).
func (r *Rasterizer) Rasterize(src *FontSource, id GlyphID, size, subpixelX float32) (*GlyphImage, error) {
	if src == nil {
		return nil, ErrUnknownFont
	}

	r.mu.Lock()
	segments, err := src.outlines.LoadGlyph(&r.buf, sfnt.GlyphIndex(id), floatToFixed(size), nil)
	if err == nil {
		// LoadGlyph reuses the buffer, so rasterize before unlocking.
		img := rasterizeOutline(segments, subpixelX)
		r.mu.Unlock()
		return img, nil
	}
	r.mu.Unlock()

	if errors.Is(err, sfnt.ErrColoredGlyph) {
		return rasterizeBitmap(src, id, size, subpixelX)
	}
	return nil, fmt.Errorf("text: failed to load glyph %d: %w", id, err)
}

func rasterizeOutline(segments sfnt.Segments, subpixelX float32) *GlyphImage {
	if len(segments) == 0 {
		return &GlyphImage{}
	}

	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := float32(-math.MaxFloat32), float32(-math.MaxFloat32)
	for _, seg := range segments {
		for _, p := range seg.Args[:segmentArgs(seg.Op)] {
			x, y := fixedToFloat(p.X)+subpixelX, fixedToFloat(p.Y)
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}

	left := int(math.Floor(float64(minX)))
	top := int(math.Floor(float64(minY)))
	w := int(math.Ceil(float64(maxX))) - left
	h := int(math.Ceil(float64(maxY))) - top
	if w <= 0 || h <= 0 {
		return &GlyphImage{}
	}

	pt := func(p fixed.Point26_6) (float32, float32) {
		return fixedToFloat(p.X) + subpixelX - float32(left), fixedToFloat(p.Y) - float32(top)
	}

	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			z.MoveTo(pt(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			z.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	return &GlyphImage{Mask: mask, Left: left, Top: top}
}

func segmentArgs(op sfnt.SegmentOp) int {
	switch op {
	case sfnt.SegmentOpQuadTo:
		return 2
	case sfnt.SegmentOpCubeTo:
		return 3
	default:
		return 1
	}
}

// rasterizeBitmap decodes a PNG color glyph and scales it to size.
func rasterizeBitmap(src *FontSource, id GlyphID, size, subpixelX float32) (*GlyphImage, error) {
	face := gotext.NewFace(src.shaping)
	ppem := uint16(min(max(math.Round(float64(size)), 1), math.MaxUint16))
	face.SetPpem(ppem, ppem)

	gid := gotext.GID(id)
	bitmap, ok := face.GlyphData(gid).(gotext.GlyphBitmap)
	if !ok || bitmap.Format != gotext.PNG {
		return nil, ErrColorGlyph
	}

	decoded, err := png.Decode(bytes.NewReader(bitmap.Data))
	if err != nil {
		return nil, fmt.Errorf("text: failed to decode bitmap glyph %d: %w", id, err)
	}

	// Extents are in font units, y up.
	scale := size / src.upem
	var left, top, w, h int
	if ext, ok := face.GlyphExtents(gid); ok && ext.Width > 0 && ext.Height < 0 {
		left = int(math.Floor(float64(ext.XBearing*scale + subpixelX)))
		top = int(math.Floor(float64(-ext.YBearing * scale)))
		w = int(math.Ceil(float64(ext.Width * scale)))
		h = int(math.Ceil(float64(-ext.Height * scale)))
	} else {
		b := decoded.Bounds()
		k := size / float32(max(b.Dy(), 1))
		w = int(math.Ceil(float64(float32(b.Dx()) * k)))
		h = int(math.Ceil(float64(size)))
		top = -int(math.Ceil(float64(size * 0.8)))
	}
	if w <= 0 || h <= 0 {
		return &GlyphImage{}, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), decoded, decoded.Bounds(), xdraw.Over, nil)

	return &GlyphImage{Color: dst, Left: left, Top: top}, nil
}
