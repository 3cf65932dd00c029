// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the raster surfaces that decoded images are
// drawn onto before being encoded.
//
// A Surface is a fixed-size 2D raster buffer. It is allocated fresh for
// every conversion, sized exactly to the source image, and never reused.
//
// # Surface Types
//
//   - ImageSurface: CPU surface backed by *image.RGBA, blitting with
//     golang.org/x/image/draw. Registered as "image".
//   - GGSurface: surface backed by a gogpu/gg drawing context. Registered
//     as "gg".
//
// # Registry
//
// Backends are selected by name or by priority:
//
//	s, err := surface.NewSurfaceByName("gg", 800, 600)
//
//	// or the best available backend:
//	s, err := surface.NewSurface(800, 600)
//
// Third-party backends register themselves the same way:
//
//	surface.Register("vulkan", 100, func(opts surface.Options) (surface.Surface, error) {
//	    return newVulkanSurface(opts.Width, opts.Height)
//	}, vulkanAvailable)
//
// # Usage
//
//	s, err := surface.NewSurface(img.Bounds().Dx(), img.Bounds().Dy())
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	s.DrawImage(img, image.Point{})
//	out := s.Snapshot()
package surface
