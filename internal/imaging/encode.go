package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// DefaultJPEGQuality is used when a JPEG is requested without a quality.
const DefaultJPEGQuality = 95

// ParseFormat maps user input ("png", "jpg", "jpeg", "") to a Format.
// The empty string selects PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// MimeType returns the media type of the format.
func (f Format) MimeType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Encode serializes the buffer. quality only applies to JPEG; values outside
// 1-100 select DefaultJPEGQuality.
func Encode(b *Buffer, format Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case PNG, "":
		err = imaging.Encode(&buf, b.img, imaging.PNG)
	case JPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		err = imaging.Encode(&buf, b.img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeDataURI encodes the buffer and wraps it in a base64 data URI.
func EncodeDataURI(b *Buffer, format Format, quality int) (string, error) {
	data, err := Encode(b, format, quality)
	if err != nil {
		return "", err
	}
	if format == "" {
		format = PNG
	}
	return "data:" + format.MimeType() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ImageResult is the encoded form of a buffer handed back to callers.
type ImageResult struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	DataURI  string `json:"data_uri"`
	MimeType string `json:"mime_type"`
}

// NewImageResult encodes b as PNG.
func NewImageResult(b *Buffer) (*ImageResult, error) {
	return NewImageResultAs(b, PNG, 0)
}

// NewImageResultAs encodes b with the given format and JPEG quality.
func NewImageResultAs(b *Buffer, format Format, quality int) (*ImageResult, error) {
	uri, err := EncodeDataURI(b, format, quality)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = PNG
	}
	return &ImageResult{
		Width:    b.Width(),
		Height:   b.Height(),
		DataURI:  uri,
		MimeType: format.MimeType(),
	}, nil
}
