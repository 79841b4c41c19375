// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import (
	"fmt"

	"github.com/gogpu/glyphpipe/gpu"
)

// Region is a rectangle allocated in a page.
type Region struct {
	X, Y          int
	Width, Height int
}

// IsValid returns true if the region has valid dimensions.
func (r Region) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

// String returns a string representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("Region(%d,%d %dx%d)", r.X, r.Y, r.Width, r.Height)
}

func (r Region) gpuRegion() gpu.Region {
	return gpu.Region{
		X:      uint32(r.X),      //nolint:gosec // regions are non-negative
		Y:      uint32(r.Y),      //nolint:gosec // regions are non-negative
		Width:  uint32(r.Width),  //nolint:gosec // regions are non-negative
		Height: uint32(r.Height), //nolint:gosec // regions are non-negative
	}
}

// shelf is one horizontal strip of the packer.
type shelf struct {
	y      int // Top Y coordinate of this shelf
	height int // Height including padding
	nextX  int // Next available X position
}

// RectAllocator packs rectangles into shelves.
//
// Each rectangle goes on the first shelf with enough horizontal room that is
// tall enough, or on a new shelf below the last one. Regions are never freed
// individually; Reset starts over and Grow enlarges the area while keeping
// every existing region in place.
//
// RectAllocator is not safe for concurrent use; TextureAtlas serializes it.
type RectAllocator struct {
	width   int
	height  int
	padding int
	shelves []shelf

	allocCount int
	usedArea   int
}

// NewRectAllocator creates an allocator for a width x height area.
func NewRectAllocator(width, height, padding int) *RectAllocator {
	if padding < 0 {
		padding = 0
	}
	return &RectAllocator{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// Allocate finds space for a rectangle of the given size.
// Returns an invalid region if the rectangle cannot be allocated.
func (a *RectAllocator) Allocate(width, height int) Region {
	if width <= 0 || height <= 0 {
		return Region{}
	}

	paddedWidth := width + a.padding
	paddedHeight := height + a.padding
	if paddedWidth > a.width || paddedHeight > a.height {
		return Region{}
	}

	for i := range a.shelves {
		if a.fitsOnShelf(&a.shelves[i], paddedWidth, paddedHeight) {
			return a.allocateOnShelf(&a.shelves[i], width, height, paddedWidth)
		}
	}
	return a.allocateNewShelf(width, height, paddedWidth, paddedHeight)
}

// CanAllocate reports whether Allocate(width, height) would succeed.
func (a *RectAllocator) CanAllocate(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	paddedWidth := width + a.padding
	paddedHeight := height + a.padding
	if paddedWidth > a.width || paddedHeight > a.height {
		return false
	}
	for i := range a.shelves {
		if a.fitsOnShelf(&a.shelves[i], paddedWidth, paddedHeight) {
			return true
		}
	}
	newY := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		newY = last.y + last.height
	}
	return newY+paddedHeight <= a.height
}

func (a *RectAllocator) fitsOnShelf(s *shelf, paddedWidth, paddedHeight int) bool {
	return s.nextX+paddedWidth <= a.width && paddedHeight <= s.height
}

func (a *RectAllocator) allocateOnShelf(s *shelf, width, height, paddedWidth int) Region {
	region := Region{X: s.nextX, Y: s.y, Width: width, Height: height}
	s.nextX += paddedWidth

	a.allocCount++
	a.usedArea += width * height
	return region
}

func (a *RectAllocator) allocateNewShelf(width, height, paddedWidth, paddedHeight int) Region {
	newY := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		newY = last.y + last.height
	}
	if newY+paddedHeight > a.height {
		return Region{}
	}

	a.shelves = append(a.shelves, shelf{y: newY, height: paddedHeight, nextX: paddedWidth})

	a.allocCount++
	a.usedArea += width * height
	return Region{X: 0, Y: newY, Width: width, Height: height}
}

// Grow enlarges the packing area. Existing regions keep their coordinates.
// Shrinking is ignored.
func (a *RectAllocator) Grow(width, height int) {
	a.width = max(a.width, width)
	a.height = max(a.height, height)
}

// Reset clears all allocations, making the entire area available again.
func (a *RectAllocator) Reset() {
	a.shelves = a.shelves[:0]
	a.allocCount = 0
	a.usedArea = 0
}

// Size returns the packing area.
func (a *RectAllocator) Size() (width, height int) {
	return a.width, a.height
}

// UsedArea returns the total area of allocated rectangles.
func (a *RectAllocator) UsedArea() int {
	return a.usedArea
}

// Utilization returns the fraction of area used (0.0 to 1.0).
func (a *RectAllocator) Utilization() float64 {
	total := a.width * a.height
	if total == 0 {
		return 0
	}
	return float64(a.usedArea) / float64(total)
}

// AllocCount returns the number of successful allocations.
func (a *RectAllocator) AllocCount() int {
	return a.allocCount
}
