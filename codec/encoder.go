package codec

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	// bmp and tiff also register their decoders with the image package.
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultJPEGQuality is the JPEG quality used when none is given.
const DefaultJPEGQuality = 92

// Encoder serializes an image in a single format.
type Encoder interface {
	// Format returns the format this encoder produces.
	Format() Format

	// Encode writes img to w.
	Encode(w io.Writer, img image.Image) error
}

// PNGEncoder encodes PNG images.
type PNGEncoder struct {
	// CompressionLevel is passed to png.Encoder. Zero is the default level.
	CompressionLevel png.CompressionLevel
}

// Format implements Encoder.
func (PNGEncoder) Format() Format { return FormatPNG }

// Encode implements Encoder.
func (e PNGEncoder) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: e.CompressionLevel}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("codec: encode PNG: %w", err)
	}
	return nil
}

// JPEGEncoder encodes JPEG images.
type JPEGEncoder struct {
	// Quality ranges from 1 to 100. Out-of-range values are clamped; zero
	// selects DefaultJPEGQuality.
	Quality int
}

// Format implements Encoder.
func (JPEGEncoder) Format() Format { return FormatJPEG }

// Encode implements Encoder.
func (e JPEGEncoder) Encode(w io.Writer, img image.Image) error {
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: clampQuality(e.Quality)}); err != nil {
		return fmt.Errorf("codec: encode JPEG: %w", err)
	}
	return nil
}

func clampQuality(q int) int {
	switch {
	case q == 0:
		return DefaultJPEGQuality
	case q < 1:
		return 1
	case q > 100:
		return 100
	default:
		return q
	}
}

// GIFEncoder encodes single-frame GIF images.
type GIFEncoder struct {
	// NumColors is the palette size, 1 to 256. Zero means 256.
	NumColors int
}

// Format implements Encoder.
func (GIFEncoder) Format() Format { return FormatGIF }

// Encode implements Encoder.
func (e GIFEncoder) Encode(w io.Writer, img image.Image) error {
	n := e.NumColors
	if n <= 0 || n > 256 {
		n = 256
	}
	if err := gif.Encode(w, img, &gif.Options{NumColors: n}); err != nil {
		return fmt.Errorf("codec: encode GIF: %w", err)
	}
	return nil
}

// BMPEncoder encodes BMP images.
type BMPEncoder struct{}

// Format implements Encoder.
func (BMPEncoder) Format() Format { return FormatBMP }

// Encode implements Encoder.
func (BMPEncoder) Encode(w io.Writer, img image.Image) error {
	if err := bmp.Encode(w, img); err != nil {
		return fmt.Errorf("codec: encode BMP: %w", err)
	}
	return nil
}

// TIFFEncoder encodes TIFF images.
type TIFFEncoder struct {
	// Compression selects the TIFF compression scheme. The zero value is
	// uncompressed.
	Compression tiff.CompressionType
}

// Format implements Encoder.
func (TIFFEncoder) Format() Format { return FormatTIFF }

// Encode implements Encoder.
func (e TIFFEncoder) Encode(w io.Writer, img image.Image) error {
	if err := tiff.Encode(w, img, &tiff.Options{Compression: e.Compression}); err != nil {
		return fmt.Errorf("codec: encode TIFF: %w", err)
	}
	return nil
}

// New returns an Encoder for f. quality applies to JPEG only.
func New(f Format, quality int) (Encoder, error) {
	switch f {
	case FormatPNG, "":
		return PNGEncoder{}, nil
	case FormatJPEG:
		return JPEGEncoder{Quality: quality}, nil
	case FormatGIF:
		return GIFEncoder{}, nil
	case FormatBMP:
		return BMPEncoder{}, nil
	case FormatTIFF:
		return TIFFEncoder{Compression: tiff.Deflate}, nil
	default:
		return nil, fmt.Errorf("%w: cannot encode %q", ErrUnsupportedFormat, string(f))
	}
}
