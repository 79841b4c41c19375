package text

import (
	"strings"
	"sync"

	"github.com/go-text/typesetting/shaping"
)

// FontSystem is the font registry and paragraph shaper.
//
// Sources are append-only: a loaded font keeps its FontID for the lifetime
// of the system. FontSystem is safe for concurrent use. HarfbuzzShaper
// instances are pooled because they are not.
type FontSystem struct {
	mu      sync.RWMutex
	sources []*FontSource
	generic map[Family]string

	shaperPool sync.Pool
}

// NewFontSystem creates an empty font system.
func NewFontSystem(opts ...FontSystemOption) *FontSystem {
	cfg := defaultFontSystemConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &FontSystem{
		generic: cfg.generic,
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
	}
}

// LoadFont parses font data (TTF or OTF) and appends it to the registry.
// The data slice is retained, not copied; callers must not modify it.
func (fs *FontSystem) LoadFont(data []byte) (FontID, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	id := FontID(len(fs.sources)) //nolint:gosec // registry size stays far below 2^32
	src, err := newFontSource(id, data)
	if err != nil {
		return 0, err
	}
	fs.sources = append(fs.sources, src)

	return id, nil
}

// Source returns the source with the given ID, or nil.
func (fs *FontSystem) Source(id FontID) *FontSource {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if int(id) >= len(fs.sources) {
		return nil
	}
	return fs.sources[id]
}

// Len returns the number of loaded sources.
func (fs *FontSystem) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.sources)
}

// Match resolves shaping attributes to a loaded source.
//
// Named families match case-insensitively. Generic families go through the
// generic-family mapping. A monospaced request that matched nothing takes
// the first monospaced source. Everything else falls back to the first
// loaded source. Returns nil only when no font is loaded.
func (fs *FontSystem) Match(attrs Attrs) *FontSource {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if len(fs.sources) == 0 {
		return nil
	}

	var name string
	switch attrs.Family.Family {
	case FamilyName:
		name = attrs.Family.Name
	case FamilySansSerif, FamilySerif, FamilyCursive, FamilyFantasy, FamilyMonospace:
		name = fs.generic[attrs.Family.Family]
	}

	if name != "" {
		for _, src := range fs.sources {
			if strings.EqualFold(src.family, name) {
				return src
			}
		}
	}

	if attrs.Monospaced {
		for _, src := range fs.sources {
			if src.monospaced {
				return src
			}
		}
	}

	return fs.sources[0]
}
