// Package datauri parses and builds RFC 2397 data URIs.
//
// Parse also accepts a bare Base64 payload with no "data:" prefix, since
// image sources are frequently passed around without the MIME declaration.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	filetype "gopkg.in/h2non/filetype.v1"
)

// Errors returned by Parse.
var (
	// ErrEmpty is returned when the input string is empty.
	ErrEmpty = errors.New("datauri: empty input")

	// ErrMalformed is returned when the input is not a valid data URI
	// or Base64 payload.
	ErrMalformed = errors.New("datauri: malformed data uri")
)

const (
	scheme = "data:"

	// DefaultMediaType is the media type implied by a data URI that omits one.
	DefaultMediaType = "text/plain"

	// OctetStream is returned by Sniff for content it cannot identify.
	OctetStream = "application/octet-stream"
)

// URI is a decoded data URI.
type URI struct {
	// MediaType is the declared type, e.g. "image/png". Empty for bare
	// Base64 input.
	MediaType string

	// Params holds media type parameters other than "base64".
	Params map[string]string

	// Base64 reports whether the payload was Base64 encoded.
	Base64 bool

	// Data is the decoded payload.
	Data []byte
}

// Parse decodes s as a data URI or, when it lacks the "data:" scheme, as a
// bare Base64 payload.
func Parse(s string) (*URI, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmpty
	}

	if !hasScheme(s) {
		data, err := decodeBase64(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return &URI{Base64: true, Data: data}, nil
	}

	header, payload, ok := strings.Cut(s[len(scheme):], ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing ',' separator", ErrMalformed)
	}

	u := &URI{}
	if err := u.parseHeader(header); err != nil {
		return nil, err
	}

	if u.Base64 {
		data, err := decodeBase64(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		u.Data = data
		return u, nil
	}

	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	u.Data = []byte(unescaped)
	return u, nil
}

func hasScheme(s string) bool {
	return len(s) >= len(scheme) && strings.EqualFold(s[:len(scheme)], scheme)
}

func (u *URI) parseHeader(header string) error {
	parts := strings.Split(header, ";")
	u.MediaType = strings.ToLower(strings.TrimSpace(parts[0]))
	if u.MediaType != "" && !strings.Contains(u.MediaType, "/") {
		return fmt.Errorf("%w: invalid media type %q", ErrMalformed, u.MediaType)
	}

	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.EqualFold(p, "base64") {
			u.Base64 = true
			continue
		}
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return fmt.Errorf("%w: invalid parameter %q", ErrMalformed, p)
		}
		if u.Params == nil {
			u.Params = make(map[string]string)
		}
		u.Params[strings.ToLower(key)] = value
	}
	return nil
}

// decodeBase64 decodes standard or URL-safe Base64, with or without
// padding, ignoring ASCII whitespace.
func decodeBase64(s string) ([]byte, error) {
	s = stripSpace(s)
	if s == "" {
		return nil, ErrEmpty
	}

	enc := base64.StdEncoding
	if strings.ContainsAny(s, "-_") {
		enc = base64.URLEncoding
	}
	if !strings.HasSuffix(s, "=") && len(s)%4 != 0 {
		enc = enc.WithPadding(base64.NoPadding)
	}
	return enc.DecodeString(s)
}

func stripSpace(s string) string {
	if !strings.ContainsAny(s, " \t\r\n\f") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n', '\f':
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Type returns the declared media type, or DefaultMediaType when the URI
// declared none.
func (u *URI) Type() string {
	if u.MediaType == "" {
		return DefaultMediaType
	}
	return u.MediaType
}

// String encodes the URI back into its "data:" form. The payload is always
// written as Base64.
func (u *URI) String() string {
	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString(u.MediaType)
	for _, k := range slices.Sorted(maps.Keys(u.Params)) {
		b.WriteByte(';')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(u.Params[k])
	}
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(u.Data))
	return b.String()
}

// Encode builds a Base64 data URI for data with the given media type.
func Encode(mediaType string, data []byte) string {
	return (&URI{MediaType: mediaType, Base64: true, Data: data}).String()
}

// FromBytes builds a Base64 data URI for data, sniffing its media type.
func FromBytes(data []byte) string {
	return Encode(Sniff(data), data)
}

// Sniff returns the MIME type of data based on its magic bytes, or
// OctetStream when the content is not recognized.
func Sniff(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || kind.MIME.Value == "" {
		return OctetStream
	}
	return kind.MIME.Value
}
