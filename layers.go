package glyphpipe

import (
	"github.com/gogpu/glyphpipe/gpu"
	"github.com/gogpu/glyphpipe/render"
)

// layerBatcher is the append-only sequence of per-layer renderers and the
// cursor of the layer the next Prepare fills.
//
// Renderers are created on first use and kept across frames; only the
// cursor resets.
type layerBatcher struct {
	device gpu.Device
	layers []*render.TextRenderer
	cursor int
}

// current returns the renderer at the cursor, appending one if the cursor
// is past the end.
func (b *layerBatcher) current() *render.TextRenderer {
	for len(b.layers) <= b.cursor {
		b.layers = append(b.layers, render.NewTextRenderer(b.device))
	}
	return b.layers[b.cursor]
}

// advance moves the cursor to the next layer.
func (b *layerBatcher) advance() { b.cursor++ }

// reset moves the cursor back to the first layer.
func (b *layerBatcher) reset() { b.cursor = 0 }

// layer returns the renderer at index i.
func (b *layerBatcher) layer(i int) (*render.TextRenderer, bool) {
	if i < 0 || i >= len(b.layers) {
		return nil, false
	}
	return b.layers[i], true
}

func (b *layerBatcher) len() int { return len(b.layers) }

// destroy releases every renderer.
func (b *layerBatcher) destroy() {
	for _, r := range b.layers {
		r.Destroy()
	}
	b.layers = nil
	b.cursor = 0
}
