package glyphpipe

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/glyphpipe/atlas"
	"github.com/gogpu/glyphpipe/cache"
	"github.com/gogpu/glyphpipe/gpu"
	"github.com/gogpu/glyphpipe/render"
	"github.com/gogpu/glyphpipe/text"
	"github.com/gogpu/glyphpipe/textcache"
)

// Pipeline prepares and draws text sections.
//
// A Pipeline is created once per rendering surface and driven from a
// single goroutine: Prepare, Render and EndFrame must not run concurrently.
// Measure, HitTest and TrimMeasurementCache only touch the measurement
// cache and the font registry, which serialize their own access.
type Pipeline struct {
	device     gpu.Device
	queue      gpu.Queue
	fonts      *text.FontSystem
	rasterizer *text.Rasterizer
	atlas      *atlas.TextureAtlas
	glyphs     gpu.GlyphPipeline
	layers     layerBatcher

	renderCache      *textcache.Cache
	measurementCache *textcache.Cache

	areas          []render.TextArea
	maxGrowRetries int
	growRetries    int
	degraded       bool
	closed         bool
}

// New creates a pipeline drawing into targets of the given format.
//
// Unless WithFontSystem or WithoutDefaultFonts is given, Go Regular and Go
// Mono are loaded as the sans-serif and monospace defaults.
func New(device gpu.Device, queue gpu.Queue, format gputypes.TextureFormat, opts ...Option) (*Pipeline, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	fonts := o.fonts
	if fonts == nil {
		fonts = text.NewFontSystem()
		if o.defaultFonts {
			for _, data := range [][]byte{goregular.TTF, gomono.TTF} {
				if _, err := fonts.LoadFont(data); err != nil {
					return nil, fmt.Errorf("glyphpipe: load default font: %w", err)
				}
			}
		}
	}
	var shaper textcache.Shaper = fonts
	if o.shaper != nil {
		shaper = o.shaper
	}

	atl, err := atlas.New(device, queue, o.atlasConfig)
	if err != nil {
		return nil, fmt.Errorf("glyphpipe: %w", err)
	}
	glyphs, err := device.CreateGlyphPipeline(&gpu.PipelineDescriptor{
		Label:        "glyphpipe",
		TargetFormat: format,
	})
	if err != nil {
		atl.Destroy()
		return nil, fmt.Errorf("glyphpipe: create glyph pipeline: %w", err)
	}

	p := &Pipeline{
		device:           device,
		queue:            queue,
		fonts:            fonts,
		rasterizer:       text.NewRasterizer(),
		atlas:            atl,
		glyphs:           glyphs,
		layers:           layerBatcher{device: device},
		renderCache:      textcache.New(shaper),
		measurementCache: textcache.New(shaper),
		maxGrowRetries:   o.maxGrowRetries,
	}

	slogger().Info("pipeline created",
		"format", format,
		"fonts", fonts.Len(),
		"atlas_size", atl.Size(atlas.Mask),
		"atlas_max_size", atl.MaxSize())
	return p, nil
}

// LoadFont adds a font to the registry. The data is retained, not copied.
func (p *Pipeline) LoadFont(data []byte) error {
	if p.closed {
		return ErrClosed
	}
	id, err := p.fonts.LoadFont(data)
	if err != nil {
		return fmt.Errorf("glyphpipe: %w", err)
	}
	slogger().Info("font loaded", "id", id, "family", p.fonts.Source(id).Family())
	return nil
}

// Fonts returns the font registry.
func (p *Pipeline) Fonts() *text.FontSystem { return p.fonts }

// Prepare shapes sections and fills the layer at the cursor with their
// glyphs, clipped to clip.
//
// scaleFactor converts the logical units of sections and clip to physical
// pixels of a target of the given size.
//
// Prepare returns false on success and advances the cursor. It returns true
// when the atlas ran out of space: the cursor is back at the first layer
// and every batch of the frame must be prepared again. The atlas is grown
// first; if it cannot grow, or the per-frame retry limit is reached, the
// rest of the frame skips glyphs that do not fit so that retrying
// terminates.
//
// Device failures other than atlas exhaustion panic with an error wrapping
// ErrRenderFailed. Prepare after Close panics with ErrClosed.
func (p *Pipeline) Prepare(sections []TextSection, clip Rectangle, scaleFactor float32, target Extent) bool {
	if p.closed {
		panic(fmt.Errorf("%w: prepare", ErrClosed))
	}
	renderer := p.layers.current()
	bounds := clipBounds(clip, scaleFactor)

	p.areas = p.areas[:0]
	for i := range sections {
		s := &sections[i]
		_, buf := p.renderCache.Allocate(textcache.Key{
			Content: s.Content,
			Size:    s.Size * scaleFactor,
			Font:    s.Font,
			Bounds:  scaleBounds(s.Bounds.Width, s.Bounds.Height, scaleFactor),
		})

		x := s.Bounds.X * scaleFactor
		y := s.Bounds.Y * scaleFactor
		height := textHeight(buf.LineCount(), s.Size, scaleFactor)

		p.areas = append(p.areas, render.TextArea{
			Buffer:       buf,
			Left:         alignX(s.HorizontalAlignment, x, buf.MaxLineWidth()),
			Top:          alignY(s.VerticalAlignment, y, height),
			Bounds:       bounds,
			DefaultColor: s.Color.RGBA8(),
		})
	}

	mode := render.PrepareStrict
	if p.degraded {
		mode = render.PrepareDegraded
	}
	err := renderer.Prepare(p.queue, p.fonts, p.rasterizer, p.atlas,
		render.Resolution{Width: target.Width, Height: target.Height},
		p.areas, mode)
	clear(p.areas)

	if err == nil {
		p.layers.advance()
		return false
	}

	contentType, full := atlas.IsFull(err)
	if !full {
		panic(fmt.Errorf("%w: prepare layer %d: %w", ErrRenderFailed, p.layers.cursor, err))
	}

	p.layers.reset()
	if p.growRetries >= p.maxGrowRetries {
		p.degraded = true
		slogger().Warn("atlas retry limit reached, rendering degraded",
			"content", contentType, "retries", p.growRetries)
		return true
	}
	p.growRetries++
	if !p.atlas.Grow(contentType) {
		p.degraded = true
		slogger().Warn("atlas cannot grow, rendering degraded",
			"content", contentType, "size", p.atlas.Size(contentType))
	}
	return true
}

// Render draws layer into pass, scissored to clip.
//
// Render panics with an error wrapping ErrRenderFailed if the layer was
// never prepared or the device rejects the draw, and with ErrClosed after
// Close.
func (p *Pipeline) Render(layer int, clip RectangleU32, pass gpu.RenderPass) {
	if p.closed {
		panic(fmt.Errorf("%w: render layer %d", ErrClosed, layer))
	}
	renderer, ok := p.layers.layer(layer)
	if !ok {
		panic(fmt.Errorf("%w: layer %d not prepared", ErrRenderFailed, layer))
	}

	pass.SetScissorRect(clip.X, clip.Y, clip.Width, clip.Height)
	if err := renderer.Render(p.atlas, p.glyphs, pass); err != nil {
		panic(fmt.Errorf("%w: layer %d: %w", ErrRenderFailed, layer, err))
	}
}

// EndFrame trims the atlas and the render cache and resets the layer
// cursor. Call it once per frame after the last Render.
func (p *Pipeline) EndFrame() {
	glyphs := p.atlas.Trim()
	buffers := p.renderCache.Trim()
	p.layers.reset()
	if p.degraded || p.growRetries > 0 {
		slogger().Debug("frame needed atlas retries",
			"retries", p.growRetries, "degraded", p.degraded)
	}
	p.growRetries = 0
	p.degraded = false

	slogger().Debug("frame ended", "evicted_glyphs", glyphs, "evicted_buffers", buffers)
}

// Measure returns the width of the widest line and the nominal height of
// content laid out in bounds.
func (p *Pipeline) Measure(content string, size float32, font text.Font, bounds text.Size) (width, height float32) {
	_, buf := p.measurementCache.Allocate(textcache.Key{
		Content: content,
		Size:    size,
		Font:    font,
		Bounds:  bounds,
	})
	return buf.MaxLineWidth(), textHeight(buf.LineCount(), size, 1)
}

// HitTest returns the byte offset in content of the character nearest
// point, or false if point is outside every laid-out line.
func (p *Pipeline) HitTest(content string, size float32, font text.Font, bounds text.Size, point text.Point) (int, bool) {
	_, buf := p.measurementCache.Allocate(textcache.Key{
		Content: content,
		Size:    size,
		Font:    font,
		Bounds:  bounds,
	})
	cursor, ok := buf.Hit(point.X, point.Y)
	if !ok {
		return 0, false
	}
	return cursor.Index, true
}

// TrimMeasurementCache drops measurement entries not used since the
// previous call.
func (p *Pipeline) TrimMeasurementCache() {
	evicted := p.measurementCache.Trim()
	slogger().Debug("measurement cache trimmed", "evicted", evicted)
}

// Layers returns the number of layer renderers allocated so far.
func (p *Pipeline) Layers() int { return p.layers.len() }

// Cursor returns the layer the next Prepare fills.
func (p *Pipeline) Cursor() int { return p.layers.cursor }

// Stats contains pipeline statistics for monitoring.
type Stats struct {
	// RenderCache and MeasurementCache describe the shaped text caches.
	RenderCache      cache.Stats
	MeasurementCache cache.Stats

	// Atlas describes the glyph atlas.
	Atlas atlas.Stats

	// Layers is the number of allocated layer renderers.
	Layers int
	// Cursor is the layer the next Prepare fills.
	Cursor int
	// GrowRetries is the number of atlas retries in the current frame.
	GrowRetries int
	// Degraded reports whether the current frame skips glyphs that do not
	// fit the atlas.
	Degraded bool
}

// Stats returns current pipeline statistics.
func (p *Pipeline) Stats() Stats {
	return Stats{
		RenderCache:      p.renderCache.Stats(),
		MeasurementCache: p.measurementCache.Stats(),
		Atlas:            p.atlas.Stats(),
		Layers:           p.layers.len(),
		Cursor:           p.layers.cursor,
		GrowRetries:      p.growRetries,
		Degraded:         p.degraded,
	}
}

// ResetStats zeroes the counters of both shaped text caches.
func (p *Pipeline) ResetStats() {
	p.renderCache.ResetStats()
	p.measurementCache.ResetStats()
}

// Close releases the GPU resources and cached buffers of the pipeline.
// LoadFont then returns ErrClosed and Prepare and Render panic with it.
func (p *Pipeline) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.renderCache.Clear()
	p.measurementCache.Clear()
	p.layers.destroy()
	p.glyphs.Destroy()
	p.atlas.Destroy()
	slogger().Debug("pipeline closed")
}
