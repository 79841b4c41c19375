// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/glyphpipe/backend/software"
	"github.com/gogpu/glyphpipe/text"
)

func newTestAtlas(t *testing.T, cfg Config, maxDim uint32) (*TextureAtlas, *software.Queue) {
	t.Helper()
	q := software.NewQueue()
	a, err := New(software.NewDevice(maxDim), q, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Destroy)
	return a, q
}

func smallConfig() Config {
	return Config{InitialSize: 64, MaxSize: 128, Padding: 1}
}

func maskGlyph(w, h int, value uint8) *text.GlyphImage {
	m := image.NewAlpha(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		m.Pix[i] = value
	}
	return &text.GlyphImage{Mask: m, Left: 1, Top: -h}
}

func colorGlyph(w, h int, c color.RGBA) *text.GlyphImage {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			m.SetRGBA(x, y, c)
		}
	}
	return &text.GlyphImage{Color: m}
}

func key(glyph text.GlyphID) GlyphKey {
	return NewGlyphKey(0, glyph, 16, 0)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"default", DefaultConfig(), ""},
		{"too small", Config{InitialSize: 32, MaxSize: 64}, "InitialSize"},
		{"not power of two", Config{InitialSize: 100, MaxSize: 256}, "InitialSize"},
		{"max below initial", Config{InitialSize: 256, MaxSize: 128}, "MaxSize"},
		{"max too large", Config{InitialSize: 256, MaxSize: 32768}, "MaxSize"},
		{"padding", Config{InitialSize: 64, MaxSize: 64, Padding: 9}, "Padding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tt.field {
				t.Errorf("Validate() = %v, want ConfigError on %s", err, tt.field)
			}
		})
	}
}

func TestNewClampsToDevice(t *testing.T) {
	a, _ := newTestAtlas(t, DefaultConfig(), 128)
	if a.MaxSize() != 128 {
		t.Errorf("MaxSize = %d, want device limit 128", a.MaxSize())
	}
	if a.Size(Mask) != 128 {
		t.Errorf("initial size = %d, want clamped to 128", a.Size(Mask))
	}
}

func TestInsertAndLookup(t *testing.T) {
	a, _ := newTestAtlas(t, smallConfig(), 0)

	if _, ok := a.Lookup(key(1)); ok {
		t.Fatal("Lookup on empty atlas should miss")
	}

	e, err := a.Insert(key(1), maskGlyph(3, 2, 200))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if e.Content != Mask || e.Width != 3 || e.Height != 2 || e.Left != 1 || e.Top != -2 {
		t.Errorf("entry = %+v", e)
	}

	got, ok := a.Lookup(key(1))
	if !ok || got != e {
		t.Errorf("Lookup = %+v, %v, want %+v", got, ok, e)
	}

	tex := a.Texture(Mask).(*software.Texture)
	stride := int(tex.Width())
	for y := range 2 {
		for x := range 3 {
			if v := tex.Pixels()[(int(e.Y)+y)*stride+int(e.X)+x]; v != 200 {
				t.Fatalf("texel (%d,%d) = %d, want 200", x, y, v)
			}
		}
	}

	again, err := a.Insert(key(1), maskGlyph(9, 9, 1))
	if err != nil || again != e {
		t.Errorf("re-Insert = %+v, %v, want existing entry", again, err)
	}
}

func TestInsertColorGlyph(t *testing.T) {
	a, _ := newTestAtlas(t, smallConfig(), 0)

	e, err := a.Insert(key(2), colorGlyph(2, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if e.Content != Color {
		t.Fatalf("Content = %v, want color", e.Content)
	}

	tex := a.Texture(Color).(*software.Texture)
	off := (int(e.Y)*int(tex.Width()) + int(e.X)) * 4
	if px := tex.Pixels()[off : off+4]; px[0] != 10 || px[1] != 20 || px[2] != 30 || px[3] != 255 {
		t.Errorf("color texel = %v", px)
	}
	if s := a.Stats(); s.Color.Glyphs != 1 || s.Mask.Glyphs != 0 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestInsertEmptyGlyph(t *testing.T) {
	a, q := newTestAtlas(t, smallConfig(), 0)
	before, _ := q.Writes()

	e, err := a.Insert(key(3), &text.GlyphImage{})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !e.Empty() {
		t.Errorf("entry = %+v, want empty", e)
	}
	if after, _ := q.Writes(); after != before {
		t.Error("empty glyph must not upload")
	}
	if _, ok := a.Lookup(key(3)); !ok {
		t.Error("empty glyph should be recorded")
	}
}

func TestInsertFull(t *testing.T) {
	a, _ := newTestAtlas(t, smallConfig(), 0)

	if _, err := a.Insert(key(1), maskGlyph(40, 40, 1)); err != nil {
		t.Fatal(err)
	}
	_, err := a.Insert(key(2), maskGlyph(40, 40, 1))

	ct, ok := IsFull(err)
	if !ok || ct != Mask {
		t.Fatalf("Insert error = %v, want mask FullError", err)
	}
	if _, ok := IsFull(errors.New("other")); ok {
		t.Error("IsFull should reject unrelated errors")
	}
}

func TestGrowDoubles(t *testing.T) {
	a, _ := newTestAtlas(t, smallConfig(), 0)

	first, _ := a.Insert(key(1), maskGlyph(40, 40, 77))
	if _, err := a.Insert(key(2), maskGlyph(40, 40, 1)); err == nil {
		t.Fatal("second glyph should not fit")
	}
	oldTex := a.Texture(Mask).(*software.Texture)

	if !a.Grow(Mask) {
		t.Fatal("Grow should succeed below MaxSize")
	}
	if a.Size(Mask) != 128 {
		t.Errorf("Size = %d, want 128", a.Size(Mask))
	}
	if !oldTex.Destroyed() {
		t.Error("old page texture should be destroyed")
	}

	kept, ok := a.Lookup(key(1))
	if !ok || kept != first {
		t.Errorf("entry after grow = %+v, want unchanged %+v", kept, first)
	}
	tex := a.Texture(Mask).(*software.Texture)
	if v := tex.Pixels()[int(first.Y)*128+int(first.X)]; v != 77 {
		t.Errorf("texel after grow = %d, want 77", v)
	}

	if _, err := a.Insert(key(2), maskGlyph(40, 40, 1)); err != nil {
		t.Errorf("Insert after grow: %v", err)
	}
	if a.Stats().Grows != 1 {
		t.Errorf("Grows = %d, want 1", a.Stats().Grows)
	}
}

func TestGrowFailsAtMaximum(t *testing.T) {
	a, _ := newTestAtlas(t, Config{InitialSize: 64, MaxSize: 64, Padding: 1}, 0)

	a.Insert(key(1), maskGlyph(40, 40, 1))
	if a.Grow(Mask) {
		t.Error("Grow should fail at MaxSize with every glyph in use")
	}
	if a.Size(Mask) != 64 {
		t.Errorf("Size = %d, want 64", a.Size(Mask))
	}
}

func TestGrowReclaimsUnusedGlyphs(t *testing.T) {
	a, _ := newTestAtlas(t, Config{InitialSize: 64, MaxSize: 64, Padding: 1}, 0)

	a.Insert(key(1), maskGlyph(40, 40, 1))
	a.Trim()

	// New frame: glyph 1 is not used, glyph 2 needs its space.
	if _, err := a.Insert(key(2), maskGlyph(40, 40, 9)); err == nil {
		t.Fatal("glyph 2 should not fit before reclaim")
	}
	if !a.Grow(Mask) {
		t.Fatal("Grow should reclaim the unused glyph")
	}
	if a.Size(Mask) != 64 {
		t.Errorf("Size = %d, reclaim must not double", a.Size(Mask))
	}
	if _, ok := a.Lookup(key(1)); ok {
		t.Error("unused glyph should be dropped by reclaim")
	}

	e, err := a.Insert(key(2), maskGlyph(40, 40, 9))
	if err != nil {
		t.Fatalf("Insert after reclaim: %v", err)
	}
	if e.X != 0 || e.Y != 0 {
		t.Errorf("entry = %+v, want packed at origin", e)
	}
	if a.Stats().Reclaims != 1 {
		t.Errorf("Reclaims = %d, want 1", a.Stats().Reclaims)
	}
}

func TestGrowCompactsKeptGlyphs(t *testing.T) {
	a, _ := newTestAtlas(t, Config{InitialSize: 64, MaxSize: 64, Padding: 0}, 0)

	a.Insert(key(1), maskGlyph(32, 32, 1))
	a.Insert(key(2), maskGlyph(32, 32, 2))
	a.Trim()

	// Only glyph 2 stays in use; compaction moves it to the origin.
	a.Lookup(key(2))
	if !a.Grow(Mask) {
		t.Fatal("Grow should reclaim glyph 1")
	}
	e, ok := a.Lookup(key(2))
	if !ok || e.X != 0 || e.Y != 0 {
		t.Fatalf("compacted entry = %+v, %v", e, ok)
	}
	tex := a.Texture(Mask).(*software.Texture)
	if v := tex.Pixels()[0]; v != 2 {
		t.Errorf("texel at origin = %d, want glyph 2 coverage", v)
	}
}

func TestGrowDoublesWhenReclaimIsNotEnough(t *testing.T) {
	a, _ := newTestAtlas(t, Config{InitialSize: 64, MaxSize: 128, Padding: 0}, 0)

	a.Insert(key(1), maskGlyph(32, 32, 1))
	a.Insert(key(2), maskGlyph(32, 32, 2))
	a.Trim()
	a.Lookup(key(2))

	// Dropping glyph 1 frees a 32x32 slot, too small for a 60x60 glyph.
	if _, err := a.Insert(key(3), maskGlyph(60, 60, 3)); err == nil {
		t.Fatal("glyph 3 should not fit before Grow")
	}
	if !a.Grow(Mask) {
		t.Fatal("Grow should double the page")
	}
	if a.Size(Mask) != 128 {
		t.Errorf("Size = %d, want 128 after a single Grow", a.Size(Mask))
	}
	if s := a.Stats(); s.Reclaims != 1 || s.Grows != 1 {
		t.Errorf("Stats = %+v, want one reclaim and one grow", s)
	}
	if _, err := a.Insert(key(3), maskGlyph(60, 60, 3)); err != nil {
		t.Errorf("Insert after Grow: %v", err)
	}
}

func TestGrowFailsWhenReclaimIsNotEnoughAtMaximum(t *testing.T) {
	a, _ := newTestAtlas(t, Config{InitialSize: 64, MaxSize: 64, Padding: 0}, 0)

	a.Insert(key(1), maskGlyph(32, 32, 1))
	a.Insert(key(2), maskGlyph(32, 32, 2))
	a.Trim()
	a.Lookup(key(2))

	if _, err := a.Insert(key(3), maskGlyph(60, 60, 3)); err == nil {
		t.Fatal("glyph 3 should not fit")
	}
	if a.Grow(Mask) {
		t.Error("Grow should fail when the glyph cannot fit after reclaim")
	}
	if _, ok := a.Lookup(key(2)); !ok {
		t.Error("glyph 2 should survive reclaim")
	}
}

func TestTrim(t *testing.T) {
	a, _ := newTestAtlas(t, smallConfig(), 0)

	a.Insert(key(1), maskGlyph(2, 2, 1))
	a.Insert(key(2), colorGlyph(2, 2, color.RGBA{A: 255}))
	if got := a.Trim(); got != 0 {
		t.Fatalf("first Trim evicted %d, want 0", got)
	}

	a.Lookup(key(2))
	if got := a.Trim(); got != 1 {
		t.Errorf("second Trim evicted %d, want 1", got)
	}
	if _, ok := a.Lookup(key(1)); ok {
		t.Error("glyph 1 should be evicted")
	}
	if _, ok := a.Lookup(key(2)); !ok {
		t.Error("glyph 2 should survive")
	}
}

func TestDestroy(t *testing.T) {
	a, _ := newTestAtlas(t, smallConfig(), 0)
	tex := a.Texture(Mask).(*software.Texture)

	a.Destroy()
	if !tex.Destroyed() {
		t.Error("Destroy should release page textures")
	}
	if _, err := a.Insert(key(1), maskGlyph(1, 1, 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("Insert after Destroy error = %v, want ErrClosed", err)
	}
	if a.Grow(Mask) {
		t.Error("Grow after Destroy should fail")
	}
	a.Destroy()
}

func BenchmarkInsertLookup(b *testing.B) {
	a, err := New(software.NewDevice(0), software.NewQueue(), DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	defer a.Destroy()
	img := maskGlyph(12, 16, 128)

	b.ReportAllocs()
	i := 0
	for b.Loop() {
		k := key(text.GlyphID(i % 200))
		if _, ok := a.Lookup(k); !ok {
			if _, err := a.Insert(k, img); err != nil {
				b.Fatal(err)
			}
		}
		i++
	}
}
