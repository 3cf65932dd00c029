// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
)

// GGSurface is a surface backed by a gg drawing context.
//
// Drawing goes through gg's image pipeline, so a GPU accelerator
// registered with gg is used when available. Pixels are read back on
// Snapshot.
type GGSurface struct {
	dc     *gg.Context
	closed bool
}

// NewGGSurface creates a transparent gg-backed surface.
func NewGGSurface(width, height int) (*GGSurface, error) {
	return NewGGSurfaceWithOptions(Options{Width: width, Height: height})
}

// NewGGSurfaceWithOptions creates a gg-backed surface from opts.
func NewGGSurfaceWithOptions(opts Options) (*GGSurface, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	s := &GGSurface{dc: gg.NewContext(opts.Width, opts.Height)}
	if opts.Background != nil {
		s.Clear(opts.Background)
	}
	return s, nil
}

// Width returns the surface width.
func (s *GGSurface) Width() int {
	return s.dc.Width()
}

// Height returns the surface height.
func (s *GGSurface) Height() int {
	return s.dc.Height()
}

// Clear fills the entire surface with the given color.
func (s *GGSurface) Clear(c color.Color) {
	if s.closed {
		return
	}
	s.dc.ClearWithColor(gg.FromColor(c))
}

// DrawImage draws img with its top-left corner at at.
func (s *GGSurface) DrawImage(img image.Image, at image.Point) {
	if s.closed || img == nil {
		return
	}
	s.dc.DrawImage(gg.ImageBufFromImage(img), float64(at.X), float64(at.Y))
}

// Flush submits pending GPU work, if any.
func (s *GGSurface) Flush() error {
	if s.closed {
		return ErrClosed
	}
	return s.dc.FlushGPU()
}

// Snapshot returns a copy of the current surface contents.
func (s *GGSurface) Snapshot() *image.RGBA {
	if s.closed {
		return nil
	}

	src := s.dc.Image()
	result := image.NewRGBA(image.Rect(0, 0, s.dc.Width(), s.dc.Height()))
	draw.Draw(result, result.Bounds(), src, src.Bounds().Min, draw.Src)
	return result
}

// Close releases the drawing context.
func (s *GGSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.dc.Close()
}

// Context returns the underlying gg context.
func (s *GGSurface) Context() *gg.Context {
	return s.dc
}
