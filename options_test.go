package imgconv

import (
	"context"
	"image"
	"log/slog"
	"testing"

	"github.com/gogpu/imgconv/codec"
	"github.com/gogpu/imgconv/surface"
)

// TestNewConverterDefault tests that NewConverter uses the standard stages.
func TestNewConverterDefault(t *testing.T) {
	c := NewConverter()

	if _, ok := c.decoder.(*StdDecoder); !ok {
		t.Errorf("decoder = %T, want *StdDecoder", c.decoder)
	}
	enc, ok := c.encoder.(codecEncoder)
	if !ok {
		t.Fatalf("encoder = %T, want codecEncoder", c.encoder)
	}
	if enc.enc.Format() != codec.FormatPNG {
		t.Errorf("default format = %s, want png", enc.enc.Format())
	}
	if c.surfaces == nil {
		t.Error("surface factory is nil")
	}
}

// TestWithDecoderInjection tests dependency injection of a custom decoder.
func TestWithDecoderInjection(t *testing.T) {
	called := false
	dec := decoderFunc(func(context.Context, string) (*DecodedImage, error) {
		called = true
		return NewDecodedImage(testImage(2, 2), "fake"), nil
	})

	c := NewConverter(WithDecoder(dec))
	img, err := c.Decode(context.Background(), "ignored")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !called {
		t.Error("custom decoder was not called")
	}
	if img.Format() != "fake" {
		t.Errorf("Format = %q, want fake", img.Format())
	}
}

// TestWithEncoderOverridesFormat tests that WithEncoder wins over WithFormat.
func TestWithEncoderOverridesFormat(t *testing.T) {
	enc := encoderFunc(func(context.Context, image.Image) (*Blob, error) {
		return NewBlob([]byte("x"), "application/x-test"), nil
	})

	c := NewConverter(WithFormat(codec.FormatJPEG, 50), WithEncoder(enc))
	blob, err := c.Convert(context.Background(), pngDataURI(t, 2, 2))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if blob.MIMEType() != "application/x-test" {
		t.Errorf("MIMEType = %q, want custom encoder output", blob.MIMEType())
	}
}

// TestWithSurfaceFactoryOverridesBackend tests that the factory wins over
// a backend name.
func TestWithSurfaceFactoryOverridesBackend(t *testing.T) {
	var got surface.Options
	c := NewConverter(
		WithSurfaceBackend("missing"),
		WithSurfaceFactory(func(opts surface.Options) (surface.Surface, error) {
			got = opts
			s, err := surface.NewImageSurfaceWithOptions(opts)
			if err != nil {
				return nil, err
			}
			return s, nil
		}),
	)

	s, err := c.Rasterize(NewDecodedImage(testImage(6, 2), ""))
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	defer s.Close()

	if got.Width != 6 || got.Height != 2 {
		t.Errorf("factory got %dx%d, want 6x2", got.Width, got.Height)
	}
}

// TestWithLoggerNil tests that a nil logger falls back to the package logger.
func TestWithLoggerNil(t *testing.T) {
	c := NewConverter(WithLogger(nil))
	if c.log() != Logger() {
		t.Error("nil WithLogger should use the package logger")
	}

	l := slog.New(nopHandler{})
	if NewConverter(WithLogger(l)).log() != l {
		t.Error("WithLogger not applied")
	}
}

// TestOptionsLastWins tests that later options override earlier ones.
func TestOptionsLastWins(t *testing.T) {
	c := NewConverter(WithFormat(codec.FormatJPEG, 80), WithFormat(codec.FormatGIF, 0))
	enc, ok := c.encoder.(codecEncoder)
	if !ok {
		t.Fatalf("encoder = %T", c.encoder)
	}
	if enc.enc.Format() != codec.FormatGIF {
		t.Errorf("format = %s, want gif", enc.enc.Format())
	}
}
