// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ImageSurface is a CPU-based surface that renders to an *image.RGBA.
//
// DrawImage is an exact pixel copy composited source-over, which matches
// the behavior of an HTML canvas drawImage call at integer coordinates.
//
// Example:
//
//	s, err := surface.NewImageSurface(800, 600)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	s.DrawImage(img, image.Point{})
//	out := s.Snapshot()
type ImageSurface struct {
	width  int
	height int
	img    *image.RGBA

	// closed tracks if Close has been called
	closed bool
}

// NewImageSurface creates a new transparent CPU surface.
// Returns an error if the dimensions are not allocatable.
func NewImageSurface(width, height int) (*ImageSurface, error) {
	return NewImageSurfaceWithOptions(Options{Width: width, Height: height})
}

// NewImageSurfaceWithOptions creates a CPU surface from opts.
func NewImageSurfaceWithOptions(opts Options) (*ImageSurface, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s := &ImageSurface{
		width:  opts.Width,
		height: opts.Height,
		img:    image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
	}
	if opts.Background != nil {
		s.Clear(opts.Background)
	}
	return s, nil
}

// Width returns the surface width.
func (s *ImageSurface) Width() int {
	return s.width
}

// Height returns the surface height.
func (s *ImageSurface) Height() int {
	return s.height
}

// Clear fills the entire surface with the given color.
func (s *ImageSurface) Clear(c color.Color) {
	if s.closed {
		return
	}
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// DrawImage draws img with its top-left corner at at.
func (s *ImageSurface) DrawImage(img image.Image, at image.Point) {
	if s.closed || img == nil {
		return
	}

	src := img.Bounds()
	dst := image.Rectangle{Min: at, Max: at.Add(src.Size())}
	draw.Draw(s.img, dst, img, src.Min, draw.Over)
}

// Flush ensures all pending operations are complete.
// For ImageSurface, this is a no-op.
func (s *ImageSurface) Flush() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Snapshot returns a copy of the current surface contents.
func (s *ImageSurface) Snapshot() *image.RGBA {
	if s.closed {
		return nil
	}

	result := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(result.Pix, s.img.Pix)
	return result
}

// Close releases resources associated with the surface.
func (s *ImageSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.img = nil
	return nil
}

// Image returns the underlying image.RGBA.
// This is a direct reference, not a copy.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}
