// Package cache provides the generational (mark-and-sweep) cache used by the
// shaped text caches and mirrored by the glyph atlas.
//
// # Generational[K, V]
//
// Every Allocate marks its key as recently used. Trim keeps exactly the
// entries touched since the previous Trim and drops everything else, then
// starts a new period. There is no size bound and no frequency weighting:
// memory is bounded only by how often the owner calls Trim.
//
//	c := cache.NewGenerational[uint64, *text.Buffer]()
//	buf, created := c.Allocate(fp, func() *text.Buffer { return shape(key) })
//	...
//	c.Trim() // end of frame
//
// The render cache is trimmed once per frame while the measurement cache is
// trimmed on demand, so both are instances of the same type with different
// trim triggers.
//
// # Thread Safety
//
// Generational serializes access with a mutex. The create callback of
// Allocate runs under that mutex, so it must not call back into the cache.
// Generational must not be copied after creation.
package cache
