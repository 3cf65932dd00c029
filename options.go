package imgconv

import (
	"log/slog"

	"github.com/gogpu/imgconv/codec"
	"github.com/gogpu/imgconv/surface"
)

// Option configures a Converter during creation.
//
// Example:
//
//	// Default: data URI decoding, CPU surface, PNG output
//	c := imgconv.NewConverter()
//
//	// JPEG output drawn through gg
//	c := imgconv.NewConverter(
//	    imgconv.WithFormat(codec.FormatJPEG, 85),
//	    imgconv.WithSurfaceBackend(surface.BackendGG),
//	)
type Option func(*converterOptions)

// converterOptions holds optional configuration for Converter creation.
type converterOptions struct {
	decoder   ImageDecoder
	encoder   ImageEncoder
	format    codec.Format
	quality   int
	backend   string
	factory   surface.Factory
	maxPixels int64
	logger    *slog.Logger
}

// defaultOptions returns the default converter options.
func defaultOptions() converterOptions {
	return converterOptions{
		format: codec.DefaultFormat,
	}
}

// WithDecoder sets a custom decoder. WithMaxPixels has no effect on it.
func WithDecoder(d ImageDecoder) Option {
	return func(o *converterOptions) {
		o.decoder = d
	}
}

// WithEncoder sets a custom encoder, overriding WithFormat.
func WithEncoder(e ImageEncoder) Option {
	return func(o *converterOptions) {
		o.encoder = e
	}
}

// WithFormat selects the output encoding. quality applies to JPEG only;
// zero selects the codec default. Formats that cannot be encoded fall back
// to PNG with a warning.
func WithFormat(f codec.Format, quality int) Option {
	return func(o *converterOptions) {
		o.format = f
		o.quality = quality
	}
}

// WithSurfaceBackend selects a registered surface backend by name.
// Empty means the best available backend.
func WithSurfaceBackend(name string) Option {
	return func(o *converterOptions) {
		o.backend = name
	}
}

// WithSurfaceFactory sets the function that allocates surfaces,
// overriding WithSurfaceBackend.
//
// Example:
//
//	c := imgconv.NewConverter(imgconv.WithSurfaceFactory(func(opts surface.Options) (surface.Surface, error) {
//	    return newVulkanSurface(opts.Width, opts.Height)
//	}))
func WithSurfaceFactory(f surface.Factory) Option {
	return func(o *converterOptions) {
		o.factory = f
	}
}

// WithMaxPixels limits the pixel count accepted by the default decoder.
// Negative disables the limit.
func WithMaxPixels(n int64) Option {
	return func(o *converterOptions) {
		o.maxPixels = n
	}
}

// WithLogger sets the converter's logger. Nil means the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *converterOptions) {
		o.logger = l
	}
}
