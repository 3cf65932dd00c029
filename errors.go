package imgconv

import "errors"

// ReadErrorMessage is the fixed, user-facing text for a failed decode.
// DecodeError.Message returns it without the package prefix or cause.
const ReadErrorMessage = "Error reading image"

// Sentinel errors. Typed errors returned by the pipeline match these with
// errors.Is.
var (
	// ErrDecode matches any *DecodeError.
	ErrDecode = errors.New("imgconv: error reading image")

	// ErrRasterize matches any *RasterizeError.
	ErrRasterize = errors.New("imgconv: error rasterizing image")

	// ErrEncode matches any *EncodeError.
	ErrEncode = errors.New("imgconv: error encoding image")

	// ErrNoImage is returned by ConvertState when the state holds no image.
	ErrNoImage = errors.New("imgconv: no image loaded")

	// ErrImageTooLarge is the cause of a DecodeError for images whose
	// pixel count exceeds the configured limit.
	ErrImageTooLarge = errors.New("imgconv: image exceeds pixel limit")

	// ErrEmptySurface is the cause of an EncodeError for surfaces with no
	// pixels to serialize.
	ErrEmptySurface = errors.New("imgconv: surface is empty")

	// ErrEmptyBlob is the cause of an EncodeError when an encoder produced
	// no bytes.
	ErrEmptyBlob = errors.New("imgconv: encoder produced no data")
)

// DecodeError reports that a source string could not be read as an image.
// The message is fixed; Err carries the underlying cause.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return ErrDecode.Error()
	}
	return ErrDecode.Error() + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Message returns ReadErrorMessage, suitable for showing to end users.
func (e *DecodeError) Message() string { return ReadErrorMessage }

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// RasterizeError reports that a surface could not be allocated or drawn.
type RasterizeError struct {
	Width, Height int
	Err           error
}

func (e *RasterizeError) Error() string {
	if e.Err == nil {
		return ErrRasterize.Error()
	}
	return ErrRasterize.Error() + ": " + e.Err.Error()
}

func (e *RasterizeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrRasterize.
func (e *RasterizeError) Is(target error) bool { return target == ErrRasterize }

// EncodeError reports that a surface could not be serialized to a blob.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	if e.Err == nil {
		return ErrEncode.Error()
	}
	return ErrEncode.Error() + ": " + e.Err.Error()
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrEncode.
func (e *EncodeError) Is(target error) bool { return target == ErrEncode }
