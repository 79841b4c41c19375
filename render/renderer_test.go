// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/gogpu/glyphpipe/atlas"
	"github.com/gogpu/glyphpipe/backend/software"
	"github.com/gogpu/glyphpipe/gpu"
	"github.com/gogpu/glyphpipe/internal/fonttest"
	"github.com/gogpu/glyphpipe/text"
)

type fixture struct {
	device     *software.Device
	queue      *software.Queue
	fonts      *text.FontSystem
	rasterizer *text.Rasterizer
	atlas      *atlas.TextureAtlas
	pipeline   gpu.GlyphPipeline
}

func newFixture(t *testing.T, cfg atlas.Config) *fixture {
	t.Helper()
	device := software.NewDevice(0)
	queue := software.NewQueue()
	atl, err := atlas.New(device, queue, cfg)
	if err != nil {
		t.Fatalf("atlas.New: %v", err)
	}
	t.Cleanup(atl.Destroy)
	pipeline, err := device.CreateGlyphPipeline(&gpu.PipelineDescriptor{})
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{
		device:     device,
		queue:      queue,
		fonts:      fonttest.NewFontSystem(t),
		rasterizer: text.NewRasterizer(),
		atlas:      atl,
		pipeline:   pipeline,
	}
}

func (f *fixture) shape(content string, size float32) *text.Buffer {
	return f.fonts.Shape(text.Paragraph{
		Text:    content,
		Metrics: text.NewMetrics(size),
		Bounds:  text.Size{Width: float32(math.Inf(1)), Height: float32(math.Inf(1))},
		Attrs:   text.AttrsFor(text.SansSerif),
	})
}

func (f *fixture) prepare(r *TextRenderer, res Resolution, mode PrepareMode, areas ...TextArea) error {
	return r.Prepare(f.queue, f.fonts, f.rasterizer, f.atlas, res, areas, mode)
}

var black = Color{A: 255}

func wholeTarget(w, h int32) TextBounds {
	return TextBounds{Right: w, Bottom: h}
}

func TestPrepareAndRender(t *testing.T) {
	f := newFixture(t, atlas.DefaultConfig())
	r := NewTextRenderer(f.device)
	t.Cleanup(r.Destroy)

	res := Resolution{Width: 200, Height: 50}
	area := TextArea{Buffer: f.shape("Hello", 24), Left: 10, Top: 5, Bounds: wholeTarget(200, 50), DefaultColor: black}
	if err := f.prepare(r, res, PrepareStrict, area); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if r.QuadCount() != 5 {
		t.Errorf("QuadCount = %d, want one per letter", r.QuadCount())
	}
	if s := r.Stats(); s.Glyphs != 5 || s.Rasterized == 0 {
		t.Errorf("Stats = %+v, want 5 glyphs rasterized on first use", s)
	}

	target := image.NewRGBA(image.Rect(0, 0, 200, 50))
	pass := software.NewRenderPass(target)
	if err := r.Render(f.atlas, f.pipeline, pass); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if pass.Draws() != 1 {
		t.Errorf("Draws = %d, want 1", pass.Draws())
	}

	if err := f.prepare(r, res, PrepareStrict, area); err != nil {
		t.Fatal(err)
	}
	if s := r.Stats(); s.Rasterized != 0 {
		t.Errorf("second Prepare rasterized %d glyphs, want atlas hits only", s.Rasterized)
	}

	inked := 0
	for i := 3; i < len(target.Pix); i += 4 {
		if target.Pix[i] != 0 {
			inked++
		}
	}
	if inked == 0 {
		t.Error("Render produced no ink")
	}
}

func TestPrepareClipsToBounds(t *testing.T) {
	f := newFixture(t, atlas.DefaultConfig())
	r := NewTextRenderer(f.device)

	res := Resolution{Width: 200, Height: 50}
	bounds := TextBounds{Left: 0, Top: 0, Right: 30, Bottom: 50}
	area := TextArea{Buffer: f.shape("WWWWWW", 24), Bounds: bounds, DefaultColor: black}
	if err := f.prepare(r, res, PrepareStrict, area); err != nil {
		t.Fatal(err)
	}
	if r.Stats().Clipped == 0 {
		t.Error("glyphs past the right bound should be clipped")
	}

	target := image.NewRGBA(image.Rect(0, 0, 200, 50))
	if err := r.Render(f.atlas, f.pipeline, software.NewRenderPass(target)); err != nil {
		t.Fatal(err)
	}
	for y := range 50 {
		for x := 30; x < 200; x++ {
			if target.RGBAAt(x, y).A != 0 {
				t.Fatalf("pixel (%d,%d) drawn outside bounds", x, y)
			}
		}
	}
}

func TestClipQuad(t *testing.T) {
	q := gpu.GlyphQuad{X: 10, Y: 20, Width: 8, Height: 6, AtlasX: 100, AtlasY: 200}

	tests := []struct {
		name    string
		bounds  TextBounds
		want    gpu.GlyphQuad
		visible bool
	}{
		{
			name:    "inside",
			bounds:  TextBounds{Right: 100, Bottom: 100},
			want:    q,
			visible: true,
		},
		{
			name:    "left and top cut",
			bounds:  TextBounds{Left: 12, Top: 23, Right: 100, Bottom: 100},
			want:    gpu.GlyphQuad{X: 12, Y: 23, Width: 6, Height: 3, AtlasX: 102, AtlasY: 203},
			visible: true,
		},
		{
			name:    "right and bottom cut",
			bounds:  TextBounds{Right: 15, Bottom: 22},
			want:    gpu.GlyphQuad{X: 10, Y: 20, Width: 5, Height: 2, AtlasX: 100, AtlasY: 200},
			visible: true,
		},
		{
			name:   "outside",
			bounds: TextBounds{Left: 18, Right: 40, Bottom: 100},
		},
		{
			name:   "empty bounds",
			bounds: TextBounds{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, visible := clipQuad(q, tt.bounds)
			if visible != tt.visible {
				t.Fatalf("visible = %v, want %v", visible, tt.visible)
			}
			if visible && got != tt.want {
				t.Errorf("clipQuad = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// tinyAtlas holds a single 64x64 mask page that cannot grow.
func tinyAtlas() atlas.Config {
	return atlas.Config{InitialSize: 64, MaxSize: 64, Padding: 1}
}

func TestPrepareStrictAtlasFull(t *testing.T) {
	f := newFixture(t, tinyAtlas())
	r := NewTextRenderer(f.device)

	area := TextArea{Buffer: f.shape("ABCDEFGH", 48), Bounds: wholeTarget(800, 100), DefaultColor: black}
	err := f.prepare(r, Resolution{Width: 800, Height: 100}, PrepareStrict, area)

	ct, full := atlas.IsFull(err)
	if !full || ct != atlas.Mask {
		t.Fatalf("Prepare error = %v, want mask FullError", err)
	}
	if r.QuadCount() != 0 {
		t.Errorf("QuadCount after failed Prepare = %d, want 0", r.QuadCount())
	}
}

func TestPrepareDegradedSkips(t *testing.T) {
	f := newFixture(t, tinyAtlas())
	r := NewTextRenderer(f.device)

	area := TextArea{Buffer: f.shape("ABCDEFGH", 48), Bounds: wholeTarget(800, 100), DefaultColor: black}
	if err := f.prepare(r, Resolution{Width: 800, Height: 100}, PrepareDegraded, area); err != nil {
		t.Fatalf("degraded Prepare error = %v", err)
	}
	s := r.Stats()
	if s.Skipped == 0 {
		t.Error("degraded Prepare should skip glyphs that do not fit")
	}
	if s.Quads == 0 {
		t.Error("degraded Prepare should keep glyphs that fit")
	}
	if int(r.QuadCount()) != s.Quads {
		t.Errorf("QuadCount = %d, Stats.Quads = %d", r.QuadCount(), s.Quads)
	}
}

func TestPrepareEmpty(t *testing.T) {
	f := newFixture(t, atlas.DefaultConfig())
	r := NewTextRenderer(f.device)

	if err := f.prepare(r, Resolution{Width: 10, Height: 10}, PrepareStrict, TextArea{}, TextArea{Buffer: f.shape("   ", 12)}); err != nil {
		t.Fatal(err)
	}
	if r.QuadCount() != 0 {
		t.Errorf("QuadCount = %d, want 0", r.QuadCount())
	}

	pass := software.NewRenderPass(image.NewRGBA(image.Rect(0, 0, 10, 10)))
	if err := r.Render(f.atlas, f.pipeline, pass); err != nil {
		t.Fatal(err)
	}
	if pass.Draws() != 0 {
		t.Error("Render with no quads should not draw")
	}
}

func TestQuadBufferReuse(t *testing.T) {
	f := newFixture(t, atlas.DefaultConfig())
	r := NewTextRenderer(f.device)
	res := Resolution{Width: 400, Height: 40}
	area := TextArea{Buffer: f.shape("reuse me", 16), Bounds: wholeTarget(400, 40), DefaultColor: black}

	for range 3 {
		if err := f.prepare(r, res, PrepareStrict, area); err != nil {
			t.Fatal(err)
		}
	}
	if _, buffers := f.device.Created(); buffers != 1 {
		t.Errorf("created %d quad buffers, want 1", buffers)
	}
}

func TestDestroyed(t *testing.T) {
	f := newFixture(t, atlas.DefaultConfig())
	r := NewTextRenderer(f.device)
	r.Destroy()

	err := f.prepare(r, Resolution{Width: 1, Height: 1}, PrepareStrict)
	if !errors.Is(err, ErrDestroyed) {
		t.Errorf("Prepare after Destroy = %v, want ErrDestroyed", err)
	}
	if err := r.Render(f.atlas, f.pipeline, nil); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Render after Destroy = %v, want ErrDestroyed", err)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ in, want uint64 }{
		{1, 1}, {2, 2}, {3, 4}, {4096, 4096}, {4097, 8192},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func BenchmarkPrepare(b *testing.B) {
	device := software.NewDevice(0)
	queue := software.NewQueue()
	atl, err := atlas.New(device, queue, atlas.DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	defer atl.Destroy()
	fonts := fonttest.NewFontSystem(b)
	rasterizer := text.NewRasterizer()
	buf := fonts.Shape(text.Paragraph{
		Text:    "The quick brown fox jumps over the lazy dog",
		Metrics: text.NewMetrics(16),
		Bounds:  text.Size{Width: 300, Height: 200},
		Attrs:   text.AttrsFor(text.SansSerif),
	})
	areas := []TextArea{{Buffer: buf, Bounds: wholeTarget(300, 200), DefaultColor: black}}
	r := NewTextRenderer(device)
	defer r.Destroy()

	b.ReportAllocs()
	for b.Loop() {
		if err := r.Prepare(queue, fonts, rasterizer, atl, Resolution{Width: 300, Height: 200}, areas, PrepareStrict); err != nil {
			b.Fatal(err)
		}
	}
}
