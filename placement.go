package glyphpipe

import (
	"math"

	"github.com/gogpu/glyphpipe/render"
	"github.com/gogpu/glyphpipe/text"
)

// alignX returns the left edge of text of the given width anchored at x.
func alignX(a HorizontalAlignment, x, width float32) float32 {
	switch a {
	case AlignCenter:
		return x - width/2
	case AlignRight:
		return x - width
	default:
		return x
	}
}

// alignY returns the top edge of text of the given height anchored at y.
func alignY(a VerticalAlignment, y, height float32) float32 {
	switch a {
	case AlignMiddle:
		return y - height/2
	case AlignBottom:
		return y - height
	default:
		return y
	}
}

// textHeight is the nominal height of lines lines at size, scaled.
func textHeight(lines int, size, scale float32) float32 {
	return float32(lines) * size * text.LineHeightFactor * scale
}

// scaleBounds scales a wrap box to physical pixels, rounding up.
func scaleBounds(width, height, scale float32) text.Size {
	return text.Size{
		Width:  float32(math.Ceil(float64(width * scale))),
		Height: float32(math.Ceil(float64(height * scale))),
	}
}

// clipBounds converts a logical clip rectangle to physical pixels,
// truncating toward zero.
func clipBounds(r Rectangle, scale float32) render.TextBounds {
	return render.TextBounds{
		Left:   toInt32(r.X * scale),
		Top:    toInt32(r.Y * scale),
		Right:  toInt32((r.X + r.Width) * scale),
		Bottom: toInt32((r.Y + r.Height) * scale),
	}
}

// toInt32 truncates v, saturating at the int32 range.
func toInt32(v float32) int32 {
	switch {
	case v != v:
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}
