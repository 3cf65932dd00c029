package imgconv

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/imgconv/surface"
)

// Rasterize allocates a surface exactly the size of img and draws img onto
// it at the origin with no scaling. The caller owns the returned surface
// and should Close it. Allocation failures are *RasterizeError.
func (c *Converter) Rasterize(img *DecodedImage) (surface.Surface, error) {
	dims := Measure(img)
	if !img.Loaded() {
		return nil, &RasterizeError{Err: errors.New("image not loaded")}
	}

	s, err := c.surfaces(surface.Options{Width: dims.Width, Height: dims.Height})
	if err != nil {
		return nil, &RasterizeError{Width: dims.Width, Height: dims.Height, Err: err}
	}
	if s == nil {
		return nil, &RasterizeError{Width: dims.Width, Height: dims.Height, Err: errors.New("no surface allocated")}
	}
	if s.Width() != dims.Width || s.Height() != dims.Height {
		_ = s.Close()
		return nil, &RasterizeError{
			Width:  dims.Width,
			Height: dims.Height,
			Err:    fmt.Errorf("surface is %dx%d, want %s", s.Width(), s.Height(), dims),
		}
	}

	s.DrawImage(img.Image(), image.Point{})

	c.log().Debug("imgconv: rasterized image", "size", dims.String())
	return s, nil
}
