package imgconv

import (
	"context"
	"errors"
	"image/color"
	"sync"
	"testing"

	"github.com/gogpu/imgconv/codec"
	"github.com/gogpu/imgconv/surface"
)

func TestConvertRoundTrip(t *testing.T) {
	formats := []codec.Format{
		codec.FormatPNG,
		codec.FormatJPEG,
		codec.FormatGIF,
		codec.FormatBMP,
		codec.FormatTIFF,
	}
	backends := []string{surface.BackendImage, surface.BackendGG}

	for _, f := range formats {
		for _, backend := range backends {
			t.Run(string(f)+"/"+backend, func(t *testing.T) {
				c := NewConverter(WithFormat(f, 90), WithSurfaceBackend(backend))

				blob, err := c.Convert(context.Background(), pngDataURI(t, 13, 9))
				if err != nil {
					t.Fatalf("Convert: %v", err)
				}
				if blob.MIMEType() != f.MIMEType() {
					t.Errorf("MIMEType = %q, want %q", blob.MIMEType(), f.MIMEType())
				}

				img, err := c.Decode(context.Background(), blob.DataURI())
				if err != nil {
					t.Fatalf("Decode(blob): %v", err)
				}
				if got := Measure(img); got != (Dimensions{Width: 13, Height: 9}) {
					t.Errorf("round-trip size = %v, want 13x9", got)
				}
			})
		}
	}
}

func TestConvertPNGLossless(t *testing.T) {
	src := testImage(16, 8)

	c := NewConverter(WithSurfaceBackend(surface.BackendImage))
	blob, err := c.Convert(context.Background(), pngDataURI(t, 16, 8))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	img, err := c.Decode(context.Background(), blob.DataURI())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	out := img.Image()
	for y := range 8 {
		for x := range 16 {
			want := color.RGBAModel.Convert(src.At(x, y))
			got := color.RGBAModel.Convert(out.At(x, y))
			if got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestConvertDecodeFailure(t *testing.T) {
	blob, err := Convert(context.Background(), "not-an-image")
	if blob != nil {
		t.Error("Convert returned a blob for invalid input")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
}

func TestConvertClosesSurface(t *testing.T) {
	var made []*surface.ImageSurface
	c := NewConverter(WithSurfaceFactory(func(opts surface.Options) (surface.Surface, error) {
		s, err := surface.NewImageSurfaceWithOptions(opts)
		if err != nil {
			return nil, err
		}
		made = append(made, s)
		return s, nil
	}))

	if _, err := c.Convert(context.Background(), pngDataURI(t, 2, 2)); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if len(made) != 1 {
		t.Fatalf("factory called %d times, want 1", len(made))
	}
	if made[0].Snapshot() != nil {
		t.Error("surface still open after Convert")
	}
}

func TestConvertUnencodableFormat(t *testing.T) {
	c := NewConverter(WithFormat(codec.FormatWebP, 0))

	blob, err := c.Convert(context.Background(), pngDataURI(t, 2, 2))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if blob.MIMEType() != "image/png" {
		t.Errorf("MIMEType = %q, want PNG fallback", blob.MIMEType())
	}
}

func TestConvertState(t *testing.T) {
	st := NewImageState()

	if _, err := defaultConverter.ConvertState(context.Background(), st); !errors.Is(err, ErrNoImage) {
		t.Errorf("empty state err = %v, want ErrNoImage", err)
	}

	st.Set(pngDataURI(t, 4, 3), "small.png")
	blob, err := defaultConverter.ConvertState(context.Background(), st)
	if err != nil {
		t.Fatalf("ConvertState: %v", err)
	}
	if blob.Size() == 0 {
		t.Error("ConvertState returned an empty blob")
	}

	st.SetImage("not-an-image")
	if _, err := defaultConverter.ConvertState(context.Background(), st); !errors.Is(err, ErrDecode) {
		t.Errorf("invalid image err = %v, want ErrDecode", err)
	}
}

func TestConvertConcurrent(t *testing.T) {
	c := NewConverter()
	src := pngDataURI(t, 20, 10)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			blob, err := c.Convert(context.Background(), src)
			if err == nil && blob.Size() == 0 {
				err = errors.New("empty blob")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Convert: %v", err)
		}
	}
}

func TestConvertStages(t *testing.T) {
	ctx := context.Background()
	c := NewConverter(WithFormat(codec.FormatJPEG, 75))

	img, err := c.DecodeAsync(ctx, pngDataURI(t, 5, 5)).Wait(ctx)
	if err != nil {
		t.Fatalf("DecodeAsync: %v", err)
	}
	s, err := c.Rasterize(img)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	defer s.Close()

	blob, err := c.EncodeAsync(ctx, s).Wait(ctx)
	if err != nil {
		t.Fatalf("EncodeAsync: %v", err)
	}
	if blob.MIMEType() != "image/jpeg" {
		t.Errorf("MIMEType = %q, want image/jpeg", blob.MIMEType())
	}
}
