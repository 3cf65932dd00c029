// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// MaxDimension is the largest width or height a built-in surface accepts.
const MaxDimension = 32768

// Errors returned when a surface cannot be allocated.
var (
	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("surface: invalid dimensions")

	// ErrTooLarge is returned when width or height exceeds MaxDimension.
	ErrTooLarge = errors.New("surface: dimensions too large")

	// ErrClosed is returned when a closed surface is used.
	ErrClosed = errors.New("surface: closed")
)

// Surface is a 2D raster buffer that images can be drawn onto and read
// back from.
//
// Surfaces are NOT thread-safe. Each surface should be used from a single
// goroutine, or external synchronization must be used.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Clear fills the entire surface with the given color.
	Clear(c color.Color)

	// DrawImage draws img with its top-left corner at the given point,
	// compositing source-over with no scaling or transform. Pixels outside
	// the surface are dropped.
	DrawImage(img image.Image, at image.Point)

	// Flush ensures all pending drawing operations are complete.
	Flush() error

	// Snapshot returns a copy of the surface contents, or nil after Close.
	Snapshot() *image.RGBA

	// Close releases all resources associated with the surface.
	// Close is idempotent.
	Close() error
}

// Options configures surface creation.
type Options struct {
	// Width is the surface width in pixels.
	Width int

	// Height is the surface height in pixels.
	Height int

	// Background is the initial fill. Nil means fully transparent.
	Background color.Color
}

// Validate checks that the dimensions are allocatable.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, o.Width, o.Height)
	}
	if o.Width > MaxDimension || o.Height > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrTooLarge, o.Width, o.Height, MaxDimension)
	}
	return nil
}

// Size returns the dimensions as an image.Point.
func (o Options) Size() image.Point {
	return image.Pt(o.Width, o.Height)
}
