package imgconv

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gogpu/imgconv/codec"
	"github.com/gogpu/imgconv/surface"
)

// Converter runs the conversion pipeline: decode a Base64 source, measure
// it, rasterize it onto a fresh surface and encode that surface.
//
// Stages hold no state between calls. Each conversion allocates its own
// DecodedImage and Surface, and a Converter is safe for concurrent use as
// long as its decoder, encoder and surface factory are.
type Converter struct {
	decoder  ImageDecoder
	encoder  ImageEncoder
	surfaces surface.Factory
	logger   *slog.Logger
}

// NewConverter creates a Converter. With no options it decodes with
// StdDecoder, draws on the best available surface backend and encodes PNG.
func NewConverter(opts ...Option) *Converter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	c := &Converter{
		decoder:  o.decoder,
		encoder:  o.encoder,
		surfaces: o.factory,
		logger:   o.logger,
	}

	if c.decoder == nil {
		c.decoder = &StdDecoder{MaxPixels: o.maxPixels, Logger: o.logger}
	}

	if c.encoder == nil {
		enc, err := codec.New(o.format, o.quality)
		if err != nil {
			c.log().Warn("imgconv: falling back to PNG", "format", o.format, "err", err)
			enc = codec.PNGEncoder{}
		}
		c.encoder = NewEncoder(enc)
	}

	if c.surfaces == nil {
		backend := o.backend
		c.surfaces = func(so surface.Options) (surface.Surface, error) {
			if backend == "" {
				return surface.Default().NewSurface(so)
			}
			return surface.Default().NewSurfaceByName(backend, so)
		}
	}

	return c
}

func (c *Converter) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return Logger()
}

// Decode reads src, a Base64 image data URI, and returns the fully decoded
// image. Failures are *DecodeError; a done context returns ctx.Err().
func (c *Converter) Decode(ctx context.Context, src string) (*DecodedImage, error) {
	start := time.Now()

	img, err := c.decoder.Decode(ctx, src)
	if err != nil {
		if isContextError(err) || errors.Is(err, ErrDecode) {
			return nil, err
		}
		return nil, &DecodeError{Err: err}
	}
	if !img.Loaded() {
		return nil, &DecodeError{Err: errors.New("decoder returned no image")}
	}

	c.log().Debug("imgconv: decoded image",
		"format", img.Format(),
		"size", Measure(img).String(),
		"elapsed", time.Since(start))
	return img, nil
}

// DecodeAsync runs Decode on a new goroutine.
func (c *Converter) DecodeAsync(ctx context.Context, src string) *Future[*DecodedImage] {
	return Go(ctx, func(ctx context.Context) (*DecodedImage, error) {
		return c.Decode(ctx, src)
	})
}

// Encode serializes the current contents of s. An empty surface, an
// encoder failure or an empty result is reported as *EncodeError; a nil
// Blob is never returned without an error.
func (c *Converter) Encode(ctx context.Context, s surface.Surface) (*Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, &EncodeError{Err: ErrEmptySurface}
	}
	if err := s.Flush(); err != nil {
		return nil, &EncodeError{Err: err}
	}

	snap := s.Snapshot()
	if snap == nil || snap.Bounds().Empty() {
		return nil, &EncodeError{Err: ErrEmptySurface}
	}

	start := time.Now()
	blob, err := c.encoder.Encode(ctx, snap)
	if err != nil {
		if isContextError(err) || errors.Is(err, ErrEncode) {
			return nil, err
		}
		return nil, &EncodeError{Err: err}
	}
	if blob == nil || blob.Size() == 0 {
		return nil, &EncodeError{Err: ErrEmptyBlob}
	}

	c.log().Debug("imgconv: encoded surface",
		"type", blob.MIMEType(),
		"bytes", blob.Size(),
		"elapsed", time.Since(start))
	return blob, nil
}

// EncodeAsync runs Encode on a new goroutine. s must not be used until the
// future resolves.
func (c *Converter) EncodeAsync(ctx context.Context, s surface.Surface) *Future[*Blob] {
	return Go(ctx, func(ctx context.Context) (*Blob, error) {
		return c.Encode(ctx, s)
	})
}

// Convert runs the whole pipeline on src and returns the encoded blob.
func (c *Converter) Convert(ctx context.Context, src string) (*Blob, error) {
	img, err := c.Decode(ctx, src)
	if err != nil {
		return nil, err
	}

	s, err := c.Rasterize(img)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.Close() }()

	return c.Encode(ctx, s)
}

// ConvertState converts the image held by st. It returns ErrNoImage if
// none is loaded.
func (c *Converter) ConvertState(ctx context.Context, st *ImageState) (*Blob, error) {
	snap := st.Snapshot()
	if !snap.Loaded {
		return nil, ErrNoImage
	}

	blob, err := c.Convert(ctx, snap.Image)
	if err != nil {
		return nil, err
	}
	c.log().Debug("imgconv: converted state", "filename", snap.Filename)
	return blob, nil
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// defaultConverter backs the package-level functions.
var defaultConverter = NewConverter()

// Decode decodes src with the default converter.
func Decode(ctx context.Context, src string) (*DecodedImage, error) {
	return defaultConverter.Decode(ctx, src)
}

// DecodeAsync decodes src on a new goroutine with the default converter.
func DecodeAsync(ctx context.Context, src string) *Future[*DecodedImage] {
	return defaultConverter.DecodeAsync(ctx, src)
}

// Rasterize draws img onto a new surface with the default converter.
func Rasterize(img *DecodedImage) (surface.Surface, error) {
	return defaultConverter.Rasterize(img)
}

// Encode encodes s as PNG with the default converter.
func Encode(ctx context.Context, s surface.Surface) (*Blob, error) {
	return defaultConverter.Encode(ctx, s)
}

// EncodeAsync encodes s on a new goroutine with the default converter.
func EncodeAsync(ctx context.Context, s surface.Surface) *Future[*Blob] {
	return defaultConverter.EncodeAsync(ctx, s)
}

// Convert runs the whole pipeline on src with the default converter.
func Convert(ctx context.Context, src string) (*Blob, error) {
	return defaultConverter.Convert(ctx, src)
}
