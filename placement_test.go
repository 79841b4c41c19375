package glyphpipe

import (
	"math"
	"testing"

	"github.com/gogpu/glyphpipe/render"
	"github.com/gogpu/glyphpipe/text"
)

func TestAlignX(t *testing.T) {
	tests := []struct {
		align HorizontalAlignment
		want  float32
	}{
		{AlignLeft, 50},
		{AlignCenter, 0},
		{AlignRight, -50},
	}
	for _, tt := range tests {
		if got := alignX(tt.align, 50, 100); got != tt.want {
			t.Errorf("alignX(%d, 50, 100) = %v, want %v", tt.align, got, tt.want)
		}
	}
}

func TestAlignY(t *testing.T) {
	tests := []struct {
		align VerticalAlignment
		want  float32
	}{
		{AlignTop, 40},
		{AlignMiddle, 28},
		{AlignBottom, 16},
	}
	for _, tt := range tests {
		if got := alignY(tt.align, 40, 24); got != tt.want {
			t.Errorf("alignY(%d, 40, 24) = %v, want %v", tt.align, got, tt.want)
		}
	}
}

func TestTextHeight(t *testing.T) {
	tests := []struct {
		lines       int
		size, scale float32
		want        float32
	}{
		{0, 16, 1, 0},
		{1, 10, 1, 12},
		{3, 10, 1, 36},
		{2, 10, 2, 48},
	}
	for _, tt := range tests {
		got := textHeight(tt.lines, tt.size, tt.scale)
		if math.Abs(float64(got-tt.want)) > 1e-4 {
			t.Errorf("textHeight(%d, %v, %v) = %v, want %v", tt.lines, tt.size, tt.scale, got, tt.want)
		}
	}
}

func TestScaleBounds(t *testing.T) {
	got := scaleBounds(10.2, 7, 1.5)
	if got != (text.Size{Width: 16, Height: 11}) {
		t.Errorf("scaleBounds = %+v, want {16 11}", got)
	}
	inf := float32(math.Inf(1))
	if got := scaleBounds(inf, inf, 2); !math.IsInf(float64(got.Width), 1) {
		t.Errorf("unbounded width should stay unbounded, got %v", got.Width)
	}
}

func TestClipBounds(t *testing.T) {
	got := clipBounds(Rectangle{X: 1.5, Y: 2.25, Width: 10, Height: 4}, 2)
	want := render.TextBounds{Left: 3, Top: 4, Right: 23, Bottom: 12}
	if got != want {
		t.Errorf("clipBounds = %+v, want %+v", got, want)
	}

	huge := clipBounds(Rectangle{Width: float32(math.Inf(1)), Height: 1e20}, 1)
	if huge.Right != math.MaxInt32 || huge.Bottom != math.MaxInt32 {
		t.Errorf("clipBounds should saturate, got %+v", huge)
	}
}
