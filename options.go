package glyphpipe

import (
	"github.com/gogpu/glyphpipe/atlas"
	"github.com/gogpu/glyphpipe/text"
	"github.com/gogpu/glyphpipe/textcache"
)

// DefaultMaxGrowRetries is the default bound on atlas grow-and-retry cycles
// per frame.
const DefaultMaxGrowRetries = 8

// Option configures a Pipeline during creation.
//
// Example:
//
//	p, err := glyphpipe.New(device, queue, format,
//		glyphpipe.WithAtlasConfig(atlas.Config{InitialSize: 512, MaxSize: 2048, Padding: 1}),
//		glyphpipe.WithMaxGrowRetries(4),
//	)
type Option func(*options)

// options holds optional configuration for Pipeline creation.
type options struct {
	atlasConfig    atlas.Config
	maxGrowRetries int
	fonts          *text.FontSystem
	shaper         textcache.Shaper
	defaultFonts   bool
}

// defaultOptions returns the default pipeline options.
func defaultOptions() options {
	return options{
		atlasConfig:    atlas.DefaultConfig(),
		maxGrowRetries: DefaultMaxGrowRetries,
		defaultFonts:   true,
	}
}

// WithAtlasConfig sets the glyph atlas configuration.
func WithAtlasConfig(cfg atlas.Config) Option {
	return func(o *options) {
		o.atlasConfig = cfg
	}
}

// WithMaxGrowRetries bounds how many times per frame Prepare grows the
// atlas and asks for a retry. Once the bound is reached the rest of the
// frame renders degraded. Values below 1 are ignored.
func WithMaxGrowRetries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxGrowRetries = n
		}
	}
}

// WithFontSystem uses fs as the font registry instead of a new one.
// Default fonts are not loaded into a provided registry.
func WithFontSystem(fs *text.FontSystem) Option {
	return func(o *options) {
		o.fonts = fs
	}
}

// WithShaper replaces the shaper both text caches build buffers with.
// Glyphs in the returned buffers must refer to fonts of the pipeline's
// registry.
func WithShaper(s textcache.Shaper) Option {
	return func(o *options) {
		o.shaper = s
	}
}

// WithoutDefaultFonts skips loading the bundled Go fonts.
func WithoutDefaultFonts() Option {
	return func(o *options) {
		o.defaultFonts = false
	}
}
