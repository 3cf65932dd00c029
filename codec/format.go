// Package codec provides the image encoders used to serialize rasterized
// surfaces, and format detection for encoded image data.
//
// Decoding is handled by the standard image registry; importing this
// package registers the WebP, BMP and TIFF decoders from golang.org/x/image
// alongside the standard PNG, JPEG and GIF decoders.
package codec

import (
	"errors"
	"fmt"
	"strings"

	filetype "gopkg.in/h2non/filetype.v1"
	"gopkg.in/h2non/filetype.v1/matchers"
)

// ErrUnsupportedFormat is returned when a format name or MIME type is not
// recognized.
var ErrUnsupportedFormat = errors.New("codec: unsupported format")

// Format identifies an image encoding.
type Format string

// Supported formats.
const (
	// FormatPNG is lossless PNG. It is the default output format.
	FormatPNG Format = "png"

	// FormatJPEG is lossy JPEG. Alpha is discarded.
	FormatJPEG Format = "jpeg"

	// FormatGIF is paletted GIF.
	FormatGIF Format = "gif"

	// FormatBMP is uncompressed BMP.
	FormatBMP Format = "bmp"

	// FormatTIFF is TIFF with deflate compression.
	FormatTIFF Format = "tiff"

	// FormatWebP is WebP. It can be decoded but not encoded.
	FormatWebP Format = "webp"
)

// DefaultFormat is the encoding used when none is configured.
const DefaultFormat = FormatPNG

var mimeTypes = map[Format]string{
	FormatPNG:  "image/png",
	FormatJPEG: "image/jpeg",
	FormatGIF:  "image/gif",
	FormatBMP:  "image/bmp",
	FormatTIFF: "image/tiff",
	FormatWebP: "image/webp",
}

// MIMEType returns the MIME type for f, or "" if f is unknown.
func (f Format) MIMEType() string {
	return mimeTypes[f]
}

// Extension returns the conventional file extension for f, including the
// leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatTIFF:
		return ".tif"
	case "":
		return ""
	default:
		return "." + string(f)
	}
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	_, ok := mimeTypes[f]
	return ok
}

// CanEncode reports whether an Encoder exists for f.
func (f Format) CanEncode() bool {
	return f.IsValid() && f != FormatWebP
}

// String implements fmt.Stringer.
func (f Format) String() string {
	return string(f)
}

// ParseFormat parses a format name such as "png", "JPG" or ".tiff".
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	switch n {
	case "jpg":
		n = "jpeg"
	case "tif":
		n = "tiff"
	}
	f := Format(n)
	if !f.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return f, nil
}

// FormatFromMIME returns the format for a MIME type such as "image/png".
func FormatFromMIME(mime string) (Format, error) {
	m := strings.ToLower(strings.TrimSpace(mime))
	if m == "image/jpg" {
		m = "image/jpeg"
	}
	for f, t := range mimeTypes {
		if t == m {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, mime)
}

// Sniff detects the image format of encoded data from its magic bytes.
func Sniff(data []byte) (Format, error) {
	kind, err := filetype.Image(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	switch kind {
	case matchers.TypePng:
		return FormatPNG, nil
	case matchers.TypeJpeg:
		return FormatJPEG, nil
	case matchers.TypeGif:
		return FormatGIF, nil
	case matchers.TypeBmp:
		return FormatBMP, nil
	case matchers.TypeTiff:
		return FormatTIFF, nil
	case matchers.TypeWebp:
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}
}
