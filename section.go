package glyphpipe

import "github.com/gogpu/glyphpipe/text"

// HorizontalAlignment positions text relative to its anchor x.
type HorizontalAlignment uint8

const (
	// AlignLeft puts the left edge of the text at x.
	AlignLeft HorizontalAlignment = iota
	// AlignCenter centers the text on x.
	AlignCenter
	// AlignRight puts the right edge of the text at x.
	AlignRight
)

// VerticalAlignment positions text relative to its anchor y.
type VerticalAlignment uint8

const (
	// AlignTop puts the top of the text at y.
	AlignTop VerticalAlignment = iota
	// AlignMiddle centers the text on y.
	AlignMiddle
	// AlignBottom puts the bottom of the text at y.
	AlignBottom
)

// Rectangle is an axis-aligned rectangle in logical pixels.
type Rectangle struct {
	X, Y, Width, Height float32
}

// RectangleU32 is an axis-aligned rectangle in physical pixels.
type RectangleU32 struct {
	X, Y, Width, Height uint32
}

// Extent is a size in physical pixels.
type Extent struct {
	Width, Height uint32
}

// TextSection is one piece of text to draw.
type TextSection struct {
	// Content is the text to draw.
	Content string

	// Bounds anchors the text at (X, Y) and wraps it to Width. Height
	// limits the number of lines laid out.
	Bounds Rectangle

	// Size is the font size in logical pixels.
	Size float32

	// Font selects the font family.
	Font text.Font

	// Color is the linear text color.
	Color Color

	// HorizontalAlignment and VerticalAlignment place the text relative to
	// (Bounds.X, Bounds.Y).
	HorizontalAlignment HorizontalAlignment
	VerticalAlignment   VerticalAlignment
}
