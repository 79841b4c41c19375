package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrColorGlyph is returned by the outline rasterizer for glyphs that only
	// exist as color data (COLR, sbix, CBDT).
	ErrColorGlyph = errors.New("text: colored glyph has no outline")

	// ErrUnknownFont is returned when a FontID does not name a loaded font.
	ErrUnknownFont = errors.New("text: unknown font")
)
