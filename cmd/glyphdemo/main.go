// Command glyphdemo renders text through glyphpipe on the software backend
// and writes the result to a PNG file.
package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/glyphpipe"
	"github.com/gogpu/glyphpipe/atlas"
	"github.com/gogpu/glyphpipe/backend"
	"github.com/gogpu/glyphpipe/backend/software"
	"github.com/gogpu/glyphpipe/text"
)

const paragraph = "The quick brown fox jumps over the lazy dog. " +
	"Pack my box with five dozen liquor jugs. " +
	"Sphinx of black quartz, judge my vow."

func main() {
	var (
		width    = flag.Int("width", 800, "image width")
		height   = flag.Int("height", 600, "image height")
		scale    = flag.Float64("scale", 1, "scale factor from logical to physical pixels")
		frames   = flag.Int("frames", 3, "frames to render")
		atlasMin = flag.Uint("atlas", 64, "initial atlas page size")
		output   = flag.String("output", "glyphdemo.png", "output file")
		verbose  = flag.Bool("v", false, "log pipeline diagnostics")
	)
	flag.Parse()

	if *verbose {
		glyphpipe.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	device, queue, err := backend.Open(backend.Software)
	if err != nil {
		log.Fatalf("open backend: %v", err)
	}

	cfg := atlas.DefaultConfig()
	cfg.InitialSize = uint32(*atlasMin) //nolint:gosec // flag value
	p, err := glyphpipe.New(device, queue, gputypes.TextureFormatRGBA8Unorm, glyphpipe.WithAtlasConfig(cfg))
	if err != nil {
		log.Fatalf("create pipeline: %v", err)
	}
	defer p.Close()

	s := float32(*scale)
	w, h := float32(*width)/s, float32(*height)/s
	batches := [][]glyphpipe.TextSection{
		{{
			Content:             "glyphpipe",
			Bounds:              glyphpipe.Rectangle{X: w / 2, Y: 40, Width: w, Height: 80},
			Size:                56,
			Color:               glyphpipe.Color{R: 0.1, G: 0.2, B: 0.5, A: 1},
			HorizontalAlignment: glyphpipe.AlignCenter,
		}},
		{{
			Content: paragraph,
			Bounds:  glyphpipe.Rectangle{X: 40, Y: 140, Width: w - 80, Height: h - 220},
			Size:    22,
			Color:   glyphpipe.Black,
		}},
		{{
			Content:             "func main() { println(\"monospace\") }",
			Bounds:              glyphpipe.Rectangle{X: w - 40, Y: h - 40, Width: w - 80, Height: 40},
			Size:                16,
			Font:                text.Monospace,
			Color:               glyphpipe.Color{R: 0.6, G: 0.1, B: 0.1, A: 1},
			HorizontalAlignment: glyphpipe.AlignRight,
			VerticalAlignment:   glyphpipe.AlignBottom,
		}},
	}

	target := image.NewRGBA(image.Rect(0, 0, *width, *height))
	extent := glyphpipe.Extent{Width: uint32(*width), Height: uint32(*height)} //nolint:gosec // flag values
	clip := glyphpipe.Rectangle{Width: w, Height: h}

	for frame := range *frames {
		retries := prepareFrame(p, batches, clip, s, extent)

		xdraw.Draw(target, target.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
		pass := software.NewRenderPass(target)
		for layer := range batches {
			p.Render(layer, glyphpipe.RectangleU32{Width: extent.Width, Height: extent.Height}, pass)
		}
		stats := p.Stats()
		p.EndFrame()

		log.Printf("frame %d: retries=%d atlas=%dpx glyphs=%d render_cache=%d hit_rate=%.2f",
			frame, retries, stats.Atlas.Mask.Size, stats.Atlas.Mask.Glyphs,
			stats.RenderCache.Len, stats.RenderCache.HitRate)
		p.ResetStats()
	}

	mw, mh := p.Measure(paragraph, 22, text.SansSerif, text.Size{Width: w - 80, Height: h})
	log.Printf("paragraph measures %.1fx%.1f", mw, mh)

	if err := savePNG(*output, target); err != nil {
		log.Fatalf("save: %v", err)
	}
	log.Printf("saved %s (%dx%d)", *output, *width, *height)
}

// prepareFrame prepares every batch, starting over whenever the pipeline
// asks for a retry. Returns the number of retries.
func prepareFrame(p *glyphpipe.Pipeline, batches [][]glyphpipe.TextSection, clip glyphpipe.Rectangle, scale float32, extent glyphpipe.Extent) int {
	retries := 0
	for i := 0; i < len(batches); {
		if p.Prepare(batches[i], clip, scale, extent) {
			retries++
			i = 0
			continue
		}
		i++
	}
	return retries
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
