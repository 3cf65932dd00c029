package imgconv

import (
	"context"
	"image"
	"testing"
)

func TestMeasure(t *testing.T) {
	tests := []struct {
		w, h int
	}{
		{1, 1},
		{10, 20},
		{20, 10},
		{300, 1},
	}

	for _, tt := range tests {
		img, err := Decode(context.Background(), pngDataURI(t, tt.w, tt.h))
		if err != nil {
			t.Fatalf("Decode %dx%d: %v", tt.w, tt.h, err)
		}
		got := Measure(img)
		if got.Width != tt.w || got.Height != tt.h {
			t.Errorf("Measure = %v, want %dx%d", got, tt.w, tt.h)
		}
	}
}

func TestMeasureOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 7, 15, 27))
	got := Measure(NewDecodedImage(src, ""))
	if got != (Dimensions{Width: 10, Height: 20}) {
		t.Errorf("Measure = %v, want 10x20", got)
	}
}

func TestMeasureNotLoaded(t *testing.T) {
	if got := Measure(nil); got != (Dimensions{}) {
		t.Errorf("Measure(nil) = %v, want zero", got)
	}
	if got := Measure(NewDecodedImage(nil, "png")); got != (Dimensions{}) {
		t.Errorf("Measure(empty) = %v, want zero", got)
	}
}

func TestDimensions(t *testing.T) {
	d := Dimensions{Width: 10, Height: 20}
	if d.Empty() {
		t.Error("10x20 reported empty")
	}
	if d.Pixels() != 200 {
		t.Errorf("Pixels = %d, want 200", d.Pixels())
	}
	if d.Rect() != image.Rect(0, 0, 10, 20) {
		t.Errorf("Rect = %v", d.Rect())
	}
	if d.String() != "10x20" {
		t.Errorf("String = %q, want 10x20", d.String())
	}

	for _, e := range []Dimensions{{}, {Width: 5}, {Height: 5}, {Width: -1, Height: 3}} {
		if !e.Empty() {
			t.Errorf("%v not reported empty", e)
		}
	}

	big := Dimensions{Width: 1 << 20, Height: 1 << 20}
	if big.Pixels() != 1<<40 {
		t.Errorf("Pixels overflowed: %d", big.Pixels())
	}
}
