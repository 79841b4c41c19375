// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/gogpu/glyphpipe/cache"
	"github.com/gogpu/glyphpipe/gpu"
	"github.com/gogpu/glyphpipe/text"
)

// ContentType tags the kind of pixels a page stores.
type ContentType = gpu.ContentType

// Content types.
const (
	Mask  = gpu.ContentMask
	Color = gpu.ContentColor
)

const numPages = 2

// GlyphKey identifies one rasterization of a glyph.
type GlyphKey struct {
	Font     text.FontID
	Glyph    text.GlyphID
	SizeBits uint32
	Subpixel uint8
}

// NewGlyphKey builds the key for glyph rendered at size with a subpixel bin.
func NewGlyphKey(font text.FontID, glyph text.GlyphID, size float32, subpixel uint8) GlyphKey {
	return GlyphKey{
		Font:     font,
		Glyph:    glyph,
		SizeBits: math.Float32bits(size),
		Subpixel: subpixel,
	}
}

// Entry locates a glyph in its page.
type Entry struct {
	Content ContentType

	// X, Y, Width and Height are the glyph rectangle in the page.
	X, Y          uint16
	Width, Height uint16

	// Left and Top offset the rectangle from the glyph origin, y down.
	Left, Top int32
}

// Empty reports whether the glyph has no pixels to draw.
func (e Entry) Empty() bool {
	return e.Width == 0 || e.Height == 0
}

type page struct {
	content ContentType
	bpp     int
	size    uint32
	texture gpu.Texture
	alloc   *RectAllocator
	pixels  []byte
	glyphs  *cache.Generational[GlyphKey, *Entry]

	// size of the last glyph that did not fit, zero if none
	missW, missH int
}

// TextureAtlas holds glyph pages on the GPU.
//
// TextureAtlas is safe for concurrent use.
type TextureAtlas struct {
	mu      sync.Mutex
	device  gpu.Device
	queue   gpu.Queue
	maxSize uint32
	padding int
	pages   [numPages]*page
	closed  bool

	grows    uint64
	reclaims uint64
}

// New creates an atlas with one page per content type.
func New(device gpu.Device, queue gpu.Queue, cfg Config) (*TextureAtlas, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	maxSize := cfg.MaxSize
	if limit := device.MaxTextureDimension(); limit > 0 && limit < maxSize {
		maxSize = limit
	}
	initial := min(cfg.InitialSize, maxSize)

	a := &TextureAtlas{
		device:  device,
		queue:   queue,
		maxSize: maxSize,
		padding: int(cfg.Padding),
	}
	for _, ct := range []ContentType{Mask, Color} {
		p, err := a.newPage(ct, initial)
		if err != nil {
			a.Destroy()
			return nil, err
		}
		a.pages[ct] = p
	}

	slogger().Debug("atlas created", "size", initial, "max_size", maxSize)
	return a, nil
}

func (a *TextureAtlas) newPage(ct ContentType, size uint32) (*page, error) {
	tex, err := a.createTexture(ct, size)
	if err != nil {
		return nil, err
	}
	bpp := int(gpu.BytesPerTexel(ct.TextureFormat()))
	return &page{
		content: ct,
		bpp:     bpp,
		size:    size,
		texture: tex,
		alloc:   NewRectAllocator(int(size), int(size), a.padding),
		pixels:  make([]byte, int(size)*int(size)*bpp),
		glyphs:  cache.NewGenerational[GlyphKey, *Entry](),
	}, nil
}

func (a *TextureAtlas) createTexture(ct ContentType, size uint32) (gpu.Texture, error) {
	tex, err := a.device.CreateTexture(&gpu.TextureDescriptor{
		Label:  "glyph_atlas_" + ct.String(),
		Width:  size,
		Height: size,
		Format: ct.TextureFormat(),
	})
	if err != nil {
		return nil, fmt.Errorf("atlas: create %s page: %w", ct, err)
	}
	return tex, nil
}

// Lookup returns the entry for key and marks it as in use.
func (a *TextureAtlas) Lookup(key GlyphKey) (Entry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lookupLocked(key)
}

func (a *TextureAtlas) lookupLocked(key GlyphKey) (Entry, bool) {
	for _, p := range a.pages {
		if p == nil || !p.glyphs.Touch(key) {
			continue
		}
		e, _ := p.glyphs.Get(key)
		return *e, true
	}
	return Entry{}, false
}

// Insert stores a rasterized glyph and marks it as in use.
//
// Returns a *FullError if the glyph's page has no room left. Glyphs without
// pixels are recorded but take no space.
func (a *TextureAtlas) Insert(key GlyphKey, img *text.GlyphImage) (Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return Entry{}, ErrClosed
	}
	if e, ok := a.lookupLocked(key); ok {
		return e, nil
	}

	ct := Mask
	if img.Colored() {
		ct = Color
	}
	p := a.pages[ct]

	entry := &Entry{
		Content: ct,
		Left:    int32(img.Left), //nolint:gosec // glyph offsets are small
		Top:     int32(img.Top),  //nolint:gosec // glyph offsets are small
	}
	if img.Empty() {
		p.glyphs.Allocate(key, func() *Entry { return entry })
		return *entry, nil
	}

	b := img.Bounds()
	region := p.alloc.Allocate(b.Dx(), b.Dy())
	if !region.IsValid() {
		slogger().Debug("atlas page full",
			"content", ct, "size", p.size, "glyph_w", b.Dx(), "glyph_h", b.Dy())
		p.missW, p.missH = b.Dx(), b.Dy()
		return Entry{}, &FullError{ContentType: ct}
	}

	data := glyphPixels(img)
	p.blit(region, data)
	if err := a.queue.WriteTexture(p.texture, region.gpuRegion(), data, uint32(region.Width*p.bpp)); err != nil { //nolint:gosec // region is inside the page
		return Entry{}, fmt.Errorf("atlas: upload glyph: %w", err)
	}

	entry.X = uint16(region.X)           //nolint:gosec // pages are at most MaxPageSize
	entry.Y = uint16(region.Y)           //nolint:gosec // pages are at most MaxPageSize
	entry.Width = uint16(region.Width)   //nolint:gosec // pages are at most MaxPageSize
	entry.Height = uint16(region.Height) //nolint:gosec // pages are at most MaxPageSize
	p.glyphs.Allocate(key, func() *Entry { return entry })
	return *entry, nil
}

// Grow makes room in the page for ct and reports whether it did.
//
// Glyphs not used since the last Trim are dropped and the rest repacked. If
// that frees no space, or the glyph whose Insert last failed still does not
// fit, the page doubles, up to the configured maximum and the device limit.
// After a successful Grow previously returned entries may be stale.
func (a *TextureAtlas) Grow(ct ContentType) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || int(ct) >= numPages {
		return false
	}
	p := a.pages[ct]

	missW, missH := p.missW, p.missH
	p.missW, p.missH = 0, 0

	if freed := a.reclaim(p); freed > 0 {
		a.reclaims++
		slogger().Debug("atlas page compacted", "content", ct, "freed_area", freed)
		if missW == 0 || p.alloc.CanAllocate(missW, missH) {
			return true
		}
	}

	newSize := p.size * 2
	if newSize > a.maxSize {
		slogger().Warn("atlas page at maximum size", "content", ct, "size", p.size)
		return false
	}

	tex, err := a.createTexture(ct, newSize)
	if err != nil {
		slogger().Warn("atlas grow failed", "content", ct, "size", newSize, "error", err)
		return false
	}

	pixels := make([]byte, int(newSize)*int(newSize)*p.bpp)
	oldStride := int(p.size) * p.bpp
	newStride := int(newSize) * p.bpp
	for y := range int(p.size) {
		copy(pixels[y*newStride:], p.pixels[y*oldStride:(y+1)*oldStride])
	}

	old := p.texture
	p.texture = tex
	p.pixels = pixels
	p.size = newSize
	p.alloc.Grow(int(newSize), int(newSize))
	if err := a.uploadPage(p); err != nil {
		slogger().Warn("atlas grow upload failed", "content", ct, "error", err)
	}
	old.Destroy()

	a.grows++
	slogger().Info("atlas page grown", "content", ct, "size", newSize)
	return true
}

// reclaim drops glyphs not used in the current period and repacks the rest
// if that frees any space. Returns the freed area in texels.
func (a *TextureAtlas) reclaim(p *page) int {
	if p.glyphs.Len() > p.glyphs.RecentlyUsed() {
		p.glyphs.Trim()
		var kept []GlyphKey
		p.glyphs.Range(func(key GlyphKey, _ *Entry) bool {
			kept = append(kept, key)
			return true
		})
		for _, key := range kept {
			p.glyphs.Touch(key)
		}
	}

	live := 0
	p.glyphs.Range(func(_ GlyphKey, e *Entry) bool {
		live += int(e.Width) * int(e.Height)
		return true
	})
	before := p.alloc.UsedArea()
	if live == before {
		return 0
	}
	if err := a.compact(p); err != nil {
		slogger().Warn("atlas compaction upload failed", "content", p.content, "error", err)
	}
	return before - p.alloc.UsedArea()
}

// compact repacks every glyph of p, tallest first, and re-uploads the page.
// Glyphs that no longer fit are dropped.
func (a *TextureAtlas) compact(p *page) error {
	type placed struct {
		key   GlyphKey
		entry *Entry
	}
	var glyphs []placed
	p.glyphs.Range(func(key GlyphKey, e *Entry) bool {
		if !e.Empty() {
			glyphs = append(glyphs, placed{key, e})
		}
		return true
	})
	slices.SortFunc(glyphs, func(x, y placed) int {
		if c := cmp.Compare(y.entry.Height, x.entry.Height); c != 0 {
			return c
		}
		if c := cmp.Compare(y.entry.Width, x.entry.Width); c != 0 {
			return c
		}
		return compareKeys(x.key, y.key)
	})

	pixels := make([]byte, len(p.pixels))
	stride := int(p.size) * p.bpp
	p.alloc.Reset()
	for _, g := range glyphs {
		e := g.entry
		region := p.alloc.Allocate(int(e.Width), int(e.Height))
		if !region.IsValid() {
			p.glyphs.Remove(g.key)
			continue
		}
		rowBytes := int(e.Width) * p.bpp
		for row := range int(e.Height) {
			src := (int(e.Y)+row)*stride + int(e.X)*p.bpp
			dst := (region.Y+row)*stride + region.X*p.bpp
			copy(pixels[dst:dst+rowBytes], p.pixels[src:src+rowBytes])
		}
		e.X = uint16(region.X) //nolint:gosec // pages are at most MaxPageSize
		e.Y = uint16(region.Y) //nolint:gosec // pages are at most MaxPageSize
	}
	p.pixels = pixels
	return a.uploadPage(p)
}

func compareKeys(x, y GlyphKey) int {
	if c := cmp.Compare(x.Font, y.Font); c != 0 {
		return c
	}
	if c := cmp.Compare(x.Glyph, y.Glyph); c != 0 {
		return c
	}
	if c := cmp.Compare(x.SizeBits, y.SizeBits); c != 0 {
		return c
	}
	return cmp.Compare(x.Subpixel, y.Subpixel)
}

func (a *TextureAtlas) uploadPage(p *page) error {
	err := a.queue.WriteTexture(p.texture,
		gpu.Region{Width: p.size, Height: p.size},
		p.pixels, p.size*uint32(p.bpp)) //nolint:gosec // bpp is 1 or 4
	if err != nil {
		return fmt.Errorf("atlas: upload %s page: %w", p.content, err)
	}
	return nil
}

// blit copies tightly packed rows into the CPU copy of the page.
func (p *page) blit(region Region, data []byte) {
	stride := int(p.size) * p.bpp
	rowBytes := region.Width * p.bpp
	for row := range region.Height {
		dst := (region.Y+row)*stride + region.X*p.bpp
		copy(p.pixels[dst:dst+rowBytes], data[row*rowBytes:(row+1)*rowBytes])
	}
}

// glyphPixels returns the glyph image as tightly packed rows.
func glyphPixels(img *text.GlyphImage) []byte {
	var (
		pix    []byte
		stride int
		bpp    int
	)
	switch {
	case img.Mask != nil:
		pix, stride, bpp = img.Mask.Pix, img.Mask.Stride, 1
	case img.Color != nil:
		pix, stride, bpp = img.Color.Pix, img.Color.Stride, 4
	default:
		return nil
	}

	b := img.Bounds()
	rowBytes := b.Dx() * bpp
	if stride == rowBytes {
		return pix[:rowBytes*b.Dy()]
	}
	out := make([]byte, rowBytes*b.Dy())
	for row := range b.Dy() {
		copy(out[row*rowBytes:], pix[row*stride:row*stride+rowBytes])
	}
	return out
}

// Trim drops glyphs not used since the previous Trim and starts a new
// period. The freed space is reclaimed by the next Grow. Returns the number
// of dropped glyphs.
func (a *TextureAtlas) Trim() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	evicted := 0
	for _, p := range a.pages {
		if p != nil {
			evicted += p.glyphs.Trim()
		}
	}
	if evicted > 0 {
		slogger().Debug("atlas trimmed", "evicted", evicted)
	}
	return evicted
}

// Texture returns the page texture for ct.
// The texture changes when the page grows.
func (a *TextureAtlas) Texture(ct ContentType) gpu.Texture {
	a.mu.Lock()
	defer a.mu.Unlock()
	if int(ct) >= numPages || a.pages[ct] == nil {
		return nil
	}
	return a.pages[ct].texture
}

// Size returns the side of the page for ct in texels.
func (a *TextureAtlas) Size(ct ContentType) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if int(ct) >= numPages || a.pages[ct] == nil {
		return 0
	}
	return a.pages[ct].size
}

// MaxSize returns the largest size a page may grow to.
func (a *TextureAtlas) MaxSize() uint32 {
	return a.maxSize
}

// PageStats describes one atlas page.
type PageStats struct {
	// Size is the page side in texels.
	Size uint32
	// Glyphs is the number of stored glyphs, including empty ones.
	Glyphs int
	// InUse is the number of glyphs used since the last Trim.
	InUse int
	// Utilization is the packed fraction of the page, dead space included.
	Utilization float64
}

// Stats contains atlas statistics for monitoring.
type Stats struct {
	Mask  PageStats
	Color PageStats

	// Grows is the number of times a page doubled.
	Grows uint64
	// Reclaims is the number of Grow calls satisfied by compaction.
	Reclaims uint64
}

// Stats returns current atlas statistics.
func (a *TextureAtlas) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	pageStats := func(p *page) PageStats {
		if p == nil {
			return PageStats{}
		}
		return PageStats{
			Size:        p.size,
			Glyphs:      p.glyphs.Len(),
			InUse:       p.glyphs.RecentlyUsed(),
			Utilization: p.alloc.Utilization(),
		}
	}
	return Stats{
		Mask:     pageStats(a.pages[Mask]),
		Color:    pageStats(a.pages[Color]),
		Grows:    a.grows,
		Reclaims: a.reclaims,
	}
}

// Destroy releases the page textures. The atlas must not be used afterwards.
func (a *TextureAtlas) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.closed = true
	for i, p := range a.pages {
		if p != nil && p.texture != nil {
			p.texture.Destroy()
		}
		a.pages[i] = nil
	}
}
