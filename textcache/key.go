package textcache

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/gogpu/glyphpipe/text"
)

// Key identifies a shaping request.
//
// Floats are compared by their IEEE 754 bit patterns: two keys whose sizes
// or bounds differ in a single bit are distinct, and -0 differs from +0.
type Key struct {
	Content string
	Size    float32
	Font    text.Font
	Bounds  text.Size
}

// Fingerprint returns the 64-bit xxhash of the key.
//
// The hash covers, in order and little-endian: the content length and bytes,
// the size bits, the font family tag, the family name length and bytes, the
// width bits and the height bits. It is stable across processes and
// platforms except for NaN payloads, which are hashed as-is.
func Fingerprint(k Key) uint64 {
	var scratch [8]byte
	d := xxhash.New()

	writeUint64 := func(v uint64) {
		binary.LittleEndian.PutUint64(scratch[:], v)
		_, _ = d.Write(scratch[:8]) // Digest.Write never returns an error
	}
	writeUint32 := func(v uint32) {
		binary.LittleEndian.PutUint32(scratch[:], v)
		_, _ = d.Write(scratch[:4])
	}

	writeUint64(uint64(len(k.Content)))
	_, _ = d.WriteString(k.Content)

	writeUint32(math.Float32bits(k.Size))

	_, _ = d.Write([]byte{byte(k.Font.Family)})
	writeUint64(uint64(len(k.Font.Name)))
	_, _ = d.WriteString(k.Font.Name)

	writeUint32(math.Float32bits(k.Bounds.Width))
	writeUint32(math.Float32bits(k.Bounds.Height))

	return d.Sum64()
}
