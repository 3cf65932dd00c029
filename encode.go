package imgconv

import (
	"bytes"
	"context"
	"image"
	"io"

	"github.com/gogpu/imgconv/codec"
	"github.com/gogpu/imgconv/datauri"
)

// Blob is an encoded image. It is immutable once returned.
type Blob struct {
	data     []byte
	mimeType string
}

// NewBlob returns a Blob holding a copy of data.
func NewBlob(data []byte, mimeType string) *Blob {
	return &Blob{data: bytes.Clone(data), mimeType: mimeType}
}

// Bytes returns a copy of the encoded bytes.
func (b *Blob) Bytes() []byte {
	return bytes.Clone(b.data)
}

// Size returns the length of the encoded data in bytes.
func (b *Blob) Size() int {
	return len(b.data)
}

// MIMEType returns the media type of the encoded data.
func (b *Blob) MIMEType() string {
	return b.mimeType
}

// Reader returns a reader over the encoded bytes.
func (b *Blob) Reader() io.Reader {
	return bytes.NewReader(b.data)
}

// WriteTo writes the encoded bytes to w.
func (b *Blob) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data)
	return int64(n), err
}

// DataURI returns the blob as a Base64 data URI, suitable for feeding back
// into Decode or an ImageState.
func (b *Blob) DataURI() string {
	return datauri.Encode(b.mimeType, b.data)
}

// ImageEncoder serializes raster contents into a Blob.
type ImageEncoder interface {
	Encode(ctx context.Context, img image.Image) (*Blob, error)
}

// codecEncoder adapts a codec.Encoder to ImageEncoder.
type codecEncoder struct {
	enc codec.Encoder
}

// NewEncoder returns an ImageEncoder that writes with enc.
func NewEncoder(enc codec.Encoder) ImageEncoder {
	return codecEncoder{enc: enc}
}

func (e codecEncoder) Encode(ctx context.Context, img image.Image) (*Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := e.enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &Blob{data: buf.Bytes(), mimeType: e.enc.Format().MIMEType()}, nil
}
