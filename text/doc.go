// Package text is the shaping layer of glyphpipe.
//
// It owns everything the caching layer treats as an external collaborator:
//
//   - Font: a descriptor naming either a generic family or a named family
//   - FontSystem: the append-only font registry and paragraph shaper
//   - Buffer: a shaped paragraph with line runs and hit testing
//   - Rasterizer: glyph outlines to alpha masks (or color bitmaps)
//
// Shaping uses HarfBuzz through github.com/go-text/typesetting, base direction
// detection uses golang.org/x/text/unicode/bidi, and outlines are read and
// rasterized with golang.org/x/image.
//
// # Example usage
//
//	fonts := text.NewFontSystem()
//	if _, err := fonts.LoadFont(goregular.TTF); err != nil {
//	    log.Fatal(err)
//	}
//
//	buf := fonts.Shape(text.Paragraph{
//	    Text:    "Hello, GoGPU!",
//	    Metrics: text.NewMetrics(16),
//	    Bounds:  text.Size{Width: 200, Height: 100},
//	    Attrs:   text.AttrsFor(text.SansSerif),
//	})
//	fmt.Println(buf.LineCount(), buf.MaxLineWidth())
//
// A Buffer is immutable once shaped. Callers that need to avoid reshaping
// identical requests wrap the FontSystem in a textcache.Cache.
package text
