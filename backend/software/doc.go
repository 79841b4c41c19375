// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software implements the gpu interfaces on the CPU.
//
// Textures and buffers are plain byte slices and the glyph pipeline
// composites quads into an *image.RGBA with golang.org/x/image/draw. It is
// used by the tests and by hosts without a GPU, and renders the same glyph
// coverage the GPU shader samples.
package software
