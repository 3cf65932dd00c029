// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNewGGSurface(t *testing.T) {
	s, err := NewGGSurface(10, 20)
	if err != nil {
		t.Fatalf("NewGGSurface error: %v", err)
	}
	defer s.Close()

	if s.Width() != 10 || s.Height() != 20 {
		t.Errorf("size = %dx%d, want 10x20", s.Width(), s.Height())
	}
	if s.Context() == nil {
		t.Error("Context() returned nil")
	}

	snap := s.Snapshot()
	if snap.Bounds() != image.Rect(0, 0, 10, 20) {
		t.Errorf("Snapshot bounds = %v, want 10x20", snap.Bounds())
	}
}

func TestNewGGSurfaceInvalidSize(t *testing.T) {
	if _, err := NewGGSurface(0, 5); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("NewGGSurface(0, 5) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestGGSurfaceDrawImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := range 8 {
		for x := range 8 {
			src.SetRGBA(x, y, color.RGBA{0, 0, 255, 255})
		}
	}

	s, err := NewGGSurface(8, 8)
	if err != nil {
		t.Fatalf("NewGGSurface error: %v", err)
	}
	defer s.Close()

	s.DrawImage(src, image.Point{})
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}

	c := s.Snapshot().RGBAAt(4, 4)
	if c.B < 250 || c.A < 250 {
		t.Errorf("center pixel = %v, want opaque blue", c)
	}
}

func TestGGSurfaceClose(t *testing.T) {
	s, _ := NewGGSurface(2, 2)
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close error: %v", err)
	}
	if s.Snapshot() != nil {
		t.Error("Snapshot after Close should be nil")
	}
	if err := s.Flush(); !errors.Is(err, ErrClosed) {
		t.Errorf("Flush after Close = %v, want ErrClosed", err)
	}
}
