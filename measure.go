package imgconv

import (
	"fmt"
	"image"
)

// Dimensions is the pixel size of an image.
type Dimensions struct {
	Width  int
	Height int
}

// Measure returns the intrinsic size of img. A nil or unloaded handle
// yields the zero Dimensions.
func Measure(img *DecodedImage) Dimensions {
	if !img.Loaded() {
		return Dimensions{}
	}
	b := img.img.Bounds()
	return Dimensions{Width: b.Dx(), Height: b.Dy()}
}

// Empty reports whether either dimension is zero.
func (d Dimensions) Empty() bool {
	return d.Width <= 0 || d.Height <= 0
}

// Pixels returns Width*Height.
func (d Dimensions) Pixels() int64 {
	return int64(d.Width) * int64(d.Height)
}

// Rect returns the rectangle (0,0)-(Width,Height).
func (d Dimensions) Rect() image.Rectangle {
	return image.Rect(0, 0, d.Width, d.Height)
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}
