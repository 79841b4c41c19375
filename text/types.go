package text

// LineHeightFactor is the fixed ratio of line height to font size.
const LineHeightFactor = 1.2

// FontID identifies a loaded font source. IDs are assigned in load order
// starting at zero and are never reused.
type FontID uint32

// GlyphID is a glyph index within a font.
type GlyphID uint16

// Size is a width and height in pixels.
type Size struct {
	Width, Height float32
}

// Point is a position in pixels.
type Point struct {
	X, Y float32
}

// Metrics holds the font size and line pitch used to lay out a paragraph.
type Metrics struct {
	FontSize   float32
	LineHeight float32
}

// NewMetrics returns metrics for size with the standard line height.
func NewMetrics(size float32) Metrics {
	return Metrics{
		FontSize:   size,
		LineHeight: size * LineHeightFactor,
	}
}

// Attrs selects the font used to shape a paragraph.
type Attrs struct {
	Family     Font
	Monospaced bool
}

// AttrsFor returns the shaping attributes for a font descriptor.
// The generic monospace family also sets Monospaced.
func AttrsFor(f Font) Attrs {
	return Attrs{
		Family:     f,
		Monospaced: f.Family == FamilyMonospace,
	}
}

// Paragraph is a shaping request.
type Paragraph struct {
	Text    string
	Metrics Metrics
	Bounds  Size
	Attrs   Attrs
}
