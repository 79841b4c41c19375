package text

import (
	"bytes"
	"fmt"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// FontSource is one loaded font file.
//
// The raw bytes are shared by reference with every parsed view of the font
// (the x/image outline reader and the go-text shaping face), so they stay
// alive as long as any holder does. FontSource is immutable after load and
// safe for concurrent use.
type FontSource struct {
	id         FontID
	data       []byte
	family     string
	outlines   *sfnt.Font
	shaping    *gotext.Font
	upem       float32
	monospaced bool
}

func newFontSource(id FontID, data []byte) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	outlines, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}

	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: failed to load font for shaping: %w", err)
	}

	s := &FontSource{
		id:       id,
		data:     data,
		outlines: outlines,
		shaping:  face.Font,
		upem:     float32(outlines.UnitsPerEm()),
	}
	s.family = extractFamilyName(outlines)
	s.monospaced = detectMonospace(outlines)

	return s, nil
}

// ID returns the registry identifier of the source.
func (s *FontSource) ID() FontID { return s.id }

// Family returns the font family name, or "Unknown Font".
func (s *FontSource) Family() string { return s.family }

// Monospaced reports whether every sampled glyph has the same advance.
func (s *FontSource) Monospaced() bool { return s.monospaced }

// Data returns the raw font bytes. Callers must not modify them.
func (s *FontSource) Data() []byte { return s.data }

// LineMetrics returns ascent and descent in pixels at size.
// Both values are positive.
func (s *FontSource) LineMetrics(size float32) (ascent, descent float32) {
	var buf sfnt.Buffer
	m, err := s.outlines.Metrics(&buf, fixed.Int26_6(size*64), font.HintingNone)
	if err != nil {
		return size * 0.8, size * 0.2
	}
	return fixedToFloat(m.Ascent), fixedToFloat(m.Descent)
}

// extractFamilyName extracts the font family name from the parsed font.
func extractFamilyName(f *sfnt.Font) string {
	if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(nil, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return "Unknown Font"
}

// detectMonospace compares the unhinted advances of a narrow and a wide
// Latin glyph. Fonts without either glyph are treated as proportional.
func detectMonospace(f *sfnt.Font) bool {
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(f.UnitsPerEm()) << 6

	advance := func(r rune) (fixed.Int26_6, bool) {
		gid, err := f.GlyphIndex(&buf, r)
		if err != nil || gid == 0 {
			return 0, false
		}
		adv, err := f.GlyphAdvance(&buf, gid, ppem, font.HintingNone)
		if err != nil {
			return 0, false
		}
		return adv, true
	}

	narrow, ok1 := advance('i')
	wide, ok2 := advance('M')
	return ok1 && ok2 && narrow == wide
}

// fixedToFloat converts a fixed.Int26_6 value to float32.
func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64.0
}

// floatToFixed converts a float32 size to fixed.Int26_6.
func floatToFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
