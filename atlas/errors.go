// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a destroyed atlas.
var ErrClosed = errors.New("atlas: atlas is closed")

// FullError is returned by Insert when a page has no room for a glyph.
//
// It is recoverable: the caller may Grow the page named by ContentType and
// prepare again.
type FullError struct {
	ContentType ContentType
}

func (e *FullError) Error() string {
	return fmt.Sprintf("atlas: %s page is full", e.ContentType)
}

// IsFull reports whether err is, or wraps, a *FullError and returns its
// content type.
func IsFull(err error) (ContentType, bool) {
	var full *FullError
	if errors.As(err, &full) {
		return full.ContentType, true
	}
	return 0, false
}

// ConfigError represents an invalid atlas configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}
