package glyphpipe

import "errors"

// ErrRenderFailed is wrapped by the value Render panics with when the
// device rejects a draw, and by Prepare when the device fails outside of
// atlas exhaustion. Both are unrecoverable.
var ErrRenderFailed = errors.New("glyphpipe: device render failure")

// ErrClosed is returned by LoadFont after Close. Prepare and Render panic
// with an error wrapping it.
var ErrClosed = errors.New("glyphpipe: pipeline closed")
