// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import "errors"

var (
	// ErrForeignResource is returned when a resource or render pass from
	// another backend is passed in.
	ErrForeignResource = errors.New("software: resource belongs to another backend")

	// ErrOutOfBounds is returned when a write falls outside its destination.
	ErrOutOfBounds = errors.New("software: write out of bounds")

	// ErrDestroyed is returned when a destroyed resource is used.
	ErrDestroyed = errors.New("software: resource destroyed")

	// ErrTextureTooLarge is returned when a texture exceeds the device limit.
	ErrTextureTooLarge = errors.New("software: texture exceeds device limit")

	// ErrUnsupportedFormat is returned for texture formats other than the
	// atlas formats.
	ErrUnsupportedFormat = errors.New("software: unsupported texture format")
)
