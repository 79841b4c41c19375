// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "errors"

var (
	// ErrNoHAL is returned when a device provider does not expose HAL
	// device and queue handles.
	ErrNoHAL = errors.New("native: provider does not expose HAL types")

	// ErrForeignResource is returned when a resource or pass created by
	// another backend is passed in.
	ErrForeignResource = errors.New("native: resource from another backend")

	// ErrDestroyed is returned when using a destroyed resource.
	ErrDestroyed = errors.New("native: resource destroyed")

	// ErrTextureTooLarge is returned when a texture exceeds the device limit.
	ErrTextureTooLarge = errors.New("native: texture exceeds device limit")
)
