package text

// Glyph is one positioned glyph of a shaped line.
type Glyph struct {
	// Font is the source the glyph was shaped with.
	Font FontID

	// ID is the glyph index within Font.
	ID GlyphID

	// X is the left edge of the glyph relative to the buffer origin,
	// including the shaper's offset.
	X float32

	// Y is the shaper's vertical offset from the baseline, positive down.
	Y float32

	// Advance is the horizontal pen advance.
	Advance float32

	// Size is the font size in pixels.
	Size float32

	// Start and End are the byte range of the glyph's cluster in the
	// buffer text.
	Start, End int
}

// Line is one laid-out line (a layout run) of a Buffer.
type Line struct {
	// Glyphs are in visual order, left to right.
	Glyphs []Glyph

	// Width is the advance width of the line, excluding the whitespace
	// a wrap broke after.
	Width float32

	// Top is the top of the line box relative to the buffer origin.
	Top float32

	// Baseline is the baseline relative to the buffer origin.
	Baseline float32

	// Start and End are the byte range of the line in the buffer text.
	Start, End int

	// RTL reports a right-to-left paragraph direction.
	RTL bool
}

// Cursor is a position in the buffer text.
type Cursor struct {
	// Line is the index of the line the cursor is on.
	Line int

	// Index is a byte offset into the buffer text.
	Index int
}

// Buffer is a shaped and laid-out paragraph.
//
// It holds only the lines that fit vertically in the shaping bounds.
// Buffer is immutable after shaping.
type Buffer struct {
	text    string
	metrics Metrics
	bounds  Size
	lines   []Line
}

// Text returns the shaped text.
func (b *Buffer) Text() string { return b.text }

// Metrics returns the metrics the buffer was shaped with.
func (b *Buffer) Metrics() Metrics { return b.metrics }

// Bounds returns the layout bounds the buffer was shaped with.
func (b *Buffer) Bounds() Size { return b.bounds }

// Lines returns the laid-out lines. Callers must not modify the slice.
func (b *Buffer) Lines() []Line { return b.lines }

// LineCount returns the number of laid-out lines.
func (b *Buffer) LineCount() int { return len(b.lines) }

// MaxLineWidth returns the width of the widest line.
func (b *Buffer) MaxLineWidth() float32 {
	var w float32
	for i := range b.lines {
		w = max(w, b.lines[i].Width)
	}
	return w
}

// Extent returns the width of the widest line and the total height of the
// laid-out lines.
func (b *Buffer) Extent() (width, height float32) {
	return b.MaxLineWidth(), float32(len(b.lines)) * b.metrics.LineHeight
}

// Hit returns the cursor nearest to the point (x, y), in buffer coordinates.
//
// Returns false when y is outside every line. Within a line, a point before
// the first glyph maps to the line's visual start and a point past the last
// glyph to its visual end. Otherwise the nearer edge of the glyph under x
// wins.
func (b *Buffer) Hit(x, y float32) (Cursor, bool) {
	for i := range b.lines {
		line := &b.lines[i]
		if y < line.Top || y >= line.Top+b.metrics.LineHeight {
			continue
		}
		return Cursor{Line: i, Index: line.hitIndex(x)}, true
	}
	return Cursor{}, false
}

// hitIndex maps x to a byte offset within the line.
func (l *Line) hitIndex(x float32) int {
	if len(l.Glyphs) == 0 {
		return l.Start
	}

	// Visual left and right edges swap meaning for right-to-left lines.
	leftEdge := func(g *Glyph) int {
		if l.RTL {
			return g.End
		}
		return g.Start
	}
	rightEdge := func(g *Glyph) int {
		if l.RTL {
			return g.Start
		}
		return g.End
	}

	first := &l.Glyphs[0]
	if x < first.X {
		if l.RTL {
			return l.End
		}
		return l.Start
	}

	for i := range l.Glyphs {
		g := &l.Glyphs[i]
		if x >= g.X+g.Advance {
			continue
		}
		if x < g.X+g.Advance/2 {
			return leftEdge(g)
		}
		return rightEdge(g)
	}

	if l.RTL {
		return l.Start
	}
	return l.End
}
