// Package fonttest provides fonts for tests.
package fonttest

import (
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/glyphpipe/text"
)

// Font IDs assigned by NewFontSystem.
const (
	RegularID text.FontID = 0
	MonoID    text.FontID = 1
)

// Regular returns the Go Regular font bytes.
func Regular() []byte { return goregular.TTF }

// Mono returns the Go Mono font bytes.
func Mono() []byte { return gomono.TTF }

// NewFontSystem returns a font system with Go Regular and Go Mono loaded,
// in that order.
func NewFontSystem(tb testing.TB) *text.FontSystem {
	tb.Helper()

	fs := text.NewFontSystem()
	for _, data := range [][]byte{Regular(), Mono()} {
		if _, err := fs.LoadFont(data); err != nil {
			tb.Fatalf("fonttest: LoadFont: %v", err)
		}
	}
	return fs
}
