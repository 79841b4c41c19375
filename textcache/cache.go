// Package textcache caches shaped paragraphs by request fingerprint.
//
// A Cache is a cache.Generational keyed by Fingerprint: Allocate shapes a
// request at most once for as long as it keeps being used, and Trim drops
// every buffer not allocated since the previous Trim. The pipeline keeps two
// independent instances, one trimmed every frame for rendering and one
// trimmed on demand for measurement and hit testing.
//
// Fingerprint collisions are not resolved: two keys with equal fingerprints
// share one buffer.
package textcache

import (
	"github.com/gogpu/glyphpipe/cache"
	"github.com/gogpu/glyphpipe/text"
)

// Shaper shapes paragraphs. *text.FontSystem implements it.
type Shaper interface {
	Shape(p text.Paragraph) *text.Buffer
}

// Cache maps fingerprints to shaped buffers.
//
// Buffers returned by Cache are owned by it and must be treated as
// read-only. Cache is safe for concurrent use.
type Cache struct {
	shaper  Shaper
	entries *cache.Generational[uint64, *text.Buffer]
}

// New creates an empty cache that shapes misses with shaper.
func New(shaper Shaper) *Cache {
	return &Cache{
		shaper:  shaper,
		entries: cache.NewGenerational[uint64, *text.Buffer](),
	}
}

// Allocate returns the fingerprint of key and its shaped buffer, shaping
// the request on a miss. The entry is marked as used in the current period.
//
// The buffer is laid out with the standard line height for key.Size, wrapped
// to key.Bounds.Width, and given at least one line of height.
func (c *Cache) Allocate(key Key) (uint64, *text.Buffer) {
	fp := Fingerprint(key)
	buf, _ := c.entries.Allocate(fp, func() *text.Buffer {
		return c.shaper.Shape(paragraphFor(key))
	})
	return fp, buf
}

// Get returns the buffer for a fingerprint obtained from Allocate earlier in
// the same period. Get does not mark the entry as used.
func (c *Cache) Get(fingerprint uint64) (*text.Buffer, bool) {
	return c.entries.Get(fingerprint)
}

// Trim evicts every buffer not allocated since the previous Trim and starts a
// new period. Returns the number of evicted buffers.
func (c *Cache) Trim() int {
	return c.entries.Trim()
}

// Len returns the number of cached buffers.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// RecentlyUsed returns the number of fingerprints allocated in the current
// period.
func (c *Cache) RecentlyUsed() int {
	return c.entries.RecentlyUsed()
}

// Contains reports whether a fingerprint is cached.
func (c *Cache) Contains(fingerprint uint64) bool {
	return c.entries.Contains(fingerprint)
}

// Stats returns cache statistics.
func (c *Cache) Stats() cache.Stats {
	return c.entries.Stats()
}

// ResetStats zeroes the hit, miss and eviction counters.
func (c *Cache) ResetStats() {
	c.entries.ResetStats()
}

// Clear drops every buffer.
func (c *Cache) Clear() {
	c.entries.Clear()
}

func paragraphFor(key Key) text.Paragraph {
	metrics := text.NewMetrics(key.Size)
	return text.Paragraph{
		Text:    key.Content,
		Metrics: metrics,
		Bounds: text.Size{
			Width:  key.Bounds.Width,
			Height: max(key.Bounds.Height, metrics.LineHeight),
		},
		Attrs: text.AttrsFor(key.Font),
	}
}
