package glyphpipe

import (
	"math"

	"github.com/gogpu/glyphpipe/render"
)

// Color is a linear RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Common colors.
var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}
)

// RGBA8 quantizes c to 8-bit channels. Each channel is clamped to [0, 1]
// and rounded to nearest, half away from zero: 0.5 maps to 128. NaN maps to
// 0.
func (c Color) RGBA8() render.Color {
	return render.Color{
		R: quantize(c.R),
		G: quantize(c.G),
		B: quantize(c.B),
		A: quantize(c.A),
	}
}

func quantize(v float32) uint8 {
	if !(v > 0) { // also catches NaN
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(float64(v) * 255))
}
