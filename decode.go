package imgconv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"

	// Standard decoders; codec registers WebP, BMP and TIFF.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gogpu/imgconv/codec"
	"github.com/gogpu/imgconv/datauri"
)

// DefaultMaxPixels bounds the pixel count of decoded images (64 MP). It
// keeps RGBA buffers under 256 MB when a header lies about its size.
const DefaultMaxPixels int64 = 64 * 1024 * 1024

// DecodedImage is a fully decoded image. Its dimensions are populated as
// soon as it is returned from a decoder.
type DecodedImage struct {
	img       image.Image
	format    string
	mediaType string
}

// NewDecodedImage wraps an already decoded image. format is the codec name
// ("png", "jpeg", ...), and may be empty.
func NewDecodedImage(img image.Image, format string) *DecodedImage {
	return &DecodedImage{img: img, format: format}
}

// Image returns the decoded pixels, or nil for a nil handle.
func (d *DecodedImage) Image() image.Image {
	if d == nil {
		return nil
	}
	return d.img
}

// Format returns the name of the codec that decoded the image.
func (d *DecodedImage) Format() string {
	if d == nil {
		return ""
	}
	return d.format
}

// MediaType returns the media type declared by the source data URI, or ""
// if it declared none.
func (d *DecodedImage) MediaType() string {
	if d == nil {
		return ""
	}
	return d.mediaType
}

// Loaded reports whether the handle holds pixel data.
func (d *DecodedImage) Loaded() bool {
	return d != nil && d.img != nil
}

// ImageDecoder turns a Base64 image source into a DecodedImage.
//
// Implementations must not return until decoding is complete. A failure
// to read the image should be reported as a *DecodeError; other errors are
// wrapped into one by the Converter, except context errors, which are
// passed through.
type ImageDecoder interface {
	Decode(ctx context.Context, src string) (*DecodedImage, error)
}

// StdDecoder decodes data URIs with the codecs registered in the standard
// image package: PNG, JPEG, GIF, WebP, BMP and TIFF.
type StdDecoder struct {
	// MaxPixels limits width*height. Zero means DefaultMaxPixels; a
	// negative value disables the limit.
	MaxPixels int64

	// Logger receives format mismatch warnings. Nil means the package logger.
	Logger *slog.Logger
}

// Decode implements ImageDecoder.
func (d *StdDecoder) Decode(ctx context.Context, src string) (*DecodedImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u, err := datauri.Parse(src)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if u.MediaType != "" && !strings.HasPrefix(u.MediaType, "image/") {
		return nil, &DecodeError{Err: fmt.Errorf("media type %q is not an image", u.MediaType)}
	}
	d.checkDeclaredType(u)

	cfg, _, err := image.DecodeConfig(newContextReader(ctx, u.Data))
	if err != nil {
		return nil, decodeFailure(ctx, err)
	}
	if err := d.checkSize(cfg.Width, cfg.Height); err != nil {
		return nil, &DecodeError{Err: err}
	}

	img, format, err := image.Decode(newContextReader(ctx, u.Data))
	if err != nil {
		return nil, decodeFailure(ctx, err)
	}

	return &DecodedImage{img: img, format: format, mediaType: u.MediaType}, nil
}

func (d *StdDecoder) checkSize(w, h int) error {
	limit := d.MaxPixels
	if limit == 0 {
		limit = DefaultMaxPixels
	}
	if limit > 0 && int64(w)*int64(h) > limit {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, w, h, limit)
	}
	return nil
}

// checkDeclaredType warns when the data URI's media type disagrees with the
// payload. Decoding proceeds either way, as browsers do.
func (d *StdDecoder) checkDeclaredType(u *datauri.URI) {
	if u.MediaType == "" {
		return
	}
	declared, err := codec.FormatFromMIME(u.MediaType)
	if err != nil {
		return
	}
	actual, err := codec.Sniff(u.Data)
	if err != nil || actual == declared {
		return
	}

	l := d.Logger
	if l == nil {
		l = Logger()
	}
	l.Warn("imgconv: declared media type does not match content",
		"declared", u.MediaType, "detected", actual.MIMEType())
}

func decodeFailure(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, image.ErrFormat) {
		return &DecodeError{Err: codec.ErrUnsupportedFormat}
	}
	return &DecodeError{Err: err}
}

// contextReader stops reading once its context is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func newContextReader(ctx context.Context, data []byte) io.Reader {
	return &contextReader{ctx: ctx, r: bytes.NewReader(data)}
}

func (r *contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
