// Package imgconv loads Base64-encoded images, draws them onto an
// off-screen surface and re-encodes the surface as a binary blob.
//
// # Overview
//
// The package is a small pipeline around a state holder:
//
//	ImageState ──► Decode ──► Measure ──► Rasterize ──► Encode ──► Blob
//	(data URI)    (pixels)   (W x H)     (Surface)     (PNG, ...)
//
// ImageState holds the currently selected image as a data URI together with
// its file name. ImageLoaded is derived from the image on every read.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	img, err := imgconv.Decode(ctx, "data:image/png;base64,iVBORw0KGgo...")
//	if err != nil {
//	    return err // *imgconv.DecodeError, matches imgconv.ErrDecode
//	}
//	fmt.Println(imgconv.Measure(img)) // e.g. 640x480
//
//	s, err := imgconv.Rasterize(img)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	blob, err := imgconv.Encode(ctx, s)
//
// Or in one call:
//
//	blob, err := imgconv.Convert(ctx, src)
//
// # Converters
//
// The package-level functions use a default Converter that decodes with
// StdDecoder, draws on the best registered surface backend and writes PNG.
// Use NewConverter with options for anything else:
//
//	c := imgconv.NewConverter(
//	    imgconv.WithFormat(codec.FormatJPEG, 85),
//	    imgconv.WithSurfaceBackend(surface.BackendGG),
//	    imgconv.WithMaxPixels(16<<20),
//	)
//
// # Surfaces
//
// Rasterize always allocates a fresh surface whose size equals the decoded
// image's intrinsic size and draws the image at the origin without scaling.
// Two backends are registered by default in package surface: "image", an
// exact copy into an *image.RGBA, and "gg", a github.com/gogpu/gg context.
//
// # Asynchronous Use
//
// DecodeAsync and EncodeAsync return a Future that resolves exactly once:
//
//	f := imgconv.DecodeAsync(ctx, src)
//	img, err := f.Wait(ctx)
//
// # Errors
//
// Decode failures are *DecodeError and match ErrDecode; the message is
// always "imgconv: error reading image" followed by the cause. Rasterize and
// Encode failures are *RasterizeError and *EncodeError. Context
// cancellation is returned as ctx.Err() and never wrapped.
//
// # Logging
//
// imgconv is silent by default. Call SetLogger or pass WithLogger to a
// Converter to receive stage timings at debug level.
package imgconv
