package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultMaxSourceBytes caps how much data a single source may supply.
const DefaultMaxSourceBytes = 50 << 20

// Loader normalizes image sources into decoded Buffers.
//
// A Loader holds no per-image state and is safe for concurrent use. The zero
// value is usable: it fetches remote sources with a 30 second timeout and
// treats site-relative paths as local files.
//
// # Example Usage
//
//	loader := imaging.NewLoader(nil, "https://shop.example.com")
//	buf, err := loader.Load(ctx, "data:image/png;base64,iVBORw0...")
//	if err != nil {
//	    var decodeErr *imaging.DecodeError
//	    if errors.As(err, &decodeErr) { ... }
//	}
type Loader struct {
	// Client performs remote fetches. nil means a client with a 30s timeout.
	Client *http.Client

	// SiteBaseURL resolves site-relative sources such as "/images/bg.png".
	// When empty those sources are read from the local filesystem instead.
	SiteBaseURL string

	// MaxBytes limits the size of a single source. 0 means DefaultMaxSourceBytes.
	MaxBytes int64

	// Log receives debug output. nil disables logging.
	Log logrus.FieldLogger
}

// NewLoader creates a loader with the given HTTP client and site base URL.
func NewLoader(client *http.Client, siteBaseURL string) *Loader {
	return &Loader{
		Client:      client,
		SiteBaseURL: strings.TrimRight(siteBaseURL, "/"),
	}
}

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// Load resolves src and decodes it into a Buffer.
//
// Supported source types are string (data URI, URL, site-relative path or
// local file path), []byte, io.Reader, image.Image and *Buffer. A *Buffer is
// returned as-is since buffers are immutable.
//
// # Errors
//
//   - *UnsupportedSourceError for any other type
//   - *LoadError when a URL or file cannot be read
//   - *DecodeError when the data is not a supported image format
func (l *Loader) Load(ctx context.Context, src any) (*Buffer, error) {
	switch v := src.(type) {
	case *Buffer:
		if v == nil {
			return nil, &UnsupportedSourceError{Type: "nil *Buffer"}
		}
		return v, nil
	case image.Image:
		return FromImage(v), nil
	}

	data, origin, err := l.read(ctx, src)
	if err != nil {
		return nil, err
	}
	return decode(data, origin)
}

// read returns the encoded bytes behind src without decoding them.
func (l *Loader) read(ctx context.Context, src any) ([]byte, string, error) {
	switch v := src.(type) {
	case string:
		return l.readString(ctx, v)
	case []byte:
		if len(v) == 0 {
			return nil, "", &LoadError{Source: "uploaded bytes", Err: errors.New("empty data")}
		}
		return v, "uploaded bytes", nil
	case io.Reader:
		data, err := l.readAll(v)
		if err != nil {
			return nil, "", &LoadError{Source: "uploaded file", Err: err}
		}
		return data, "uploaded file", nil
	default:
		return nil, "", &UnsupportedSourceError{Type: fmt.Sprintf("%T", src)}
	}
}

func (l *Loader) readString(ctx context.Context, s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, "", &LoadError{Source: "empty string", Err: errors.New("no image source given")}
	case strings.HasPrefix(s, "data:"):
		data, _, err := DecodeDataURI(s)
		if err != nil {
			return nil, "", err
		}
		return data, "data URI", nil
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		data, err := l.fetch(ctx, s)
		return data, s, err
	case strings.HasPrefix(s, "//"):
		u := "https:" + s
		data, err := l.fetch(ctx, u)
		return data, u, err
	case strings.HasPrefix(s, "/") && l.SiteBaseURL != "":
		u := strings.TrimRight(l.SiteBaseURL, "/") + s
		data, err := l.fetch(ctx, u)
		return data, u, err
	default:
		data, err := l.readFile(s)
		return data, s, err
	}
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, &LoadError{Source: rawURL, Err: fmt.Errorf("invalid URL: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &LoadError{Source: rawURL, Err: err}
	}

	client := l.Client
	if client == nil {
		client = defaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{Source: rawURL, StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	data, err := l.readAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Source: rawURL, Err: err}
	}
	if l.Log != nil {
		l.Log.WithFields(logrus.Fields{
			"url":      rawURL,
			"bytes":    len(data),
			"duration": time.Since(start),
		}).Debug("fetched remote image")
	}
	return data, nil
}

func (l *Loader) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: fmt.Errorf("failed to open image: %w", err)}
	}
	defer f.Close()

	data, err := l.readAll(f)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return data, nil
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxSourceBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image data exceeds %d bytes", limit)
	}
	if len(data) == 0 {
		return nil, errors.New("empty data")
	}
	return data, nil
}

func decode(data []byte, origin string) (*Buffer, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Source: origin, Err: err}
	}
	return FromImage(img), nil
}

// DecodeDataURI extracts the payload and media type of a data URI.
//
// Both base64 ("data:image/png;base64,...") and percent-encoded payloads are
// accepted. A missing media type defaults to "text/plain" as in RFC 2397.
func DecodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", &DecodeError{Source: "data URI", Err: errors.New("missing data: prefix")}
	}
	header, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return nil, "", &DecodeError{Source: "data URI", Err: errors.New("missing ',' separator")}
	}

	mediaType := "text/plain"
	isBase64 := false
	for i, part := range strings.Split(header, ";") {
		switch {
		case i == 0 && part != "":
			mediaType = part
		case part == "base64":
			isBase64 = true
		}
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// Some producers drop the padding.
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
			if err != nil {
				return nil, "", &DecodeError{Source: "data URI", Err: fmt.Errorf("invalid base64 payload: %w", err)}
			}
		}
		return data, mediaType, nil
	}

	data, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", &DecodeError{Source: "data URI", Err: err}
	}
	return []byte(data), mediaType, nil
}

// ImageInfo contains metadata about a source image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected encoding: "png", "jpeg", "gif", "webp", "bmp",
	// "tiff", or "raw" for sources that were already decoded.
	Format string `json:"format"`

	// HasAlpha reports whether any pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// SizeBytes is the size of the encoded source, 0 for decoded sources.
	SizeBytes int `json:"size_bytes"`
}

// Info loads src and describes it. The decoded image is not retained.
func (l *Loader) Info(ctx context.Context, src any) (*ImageInfo, error) {
	switch src.(type) {
	case *Buffer, image.Image:
		buf, err := l.Load(ctx, src)
		if err != nil {
			return nil, err
		}
		return &ImageInfo{
			Width:    buf.Width(),
			Height:   buf.Height(),
			Format:   "raw",
			HasAlpha: buf.HasAlpha(),
		}, nil
	}

	data, origin, err := l.read(ctx, src)
	if err != nil {
		return nil, err
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Source: origin, Err: err}
	}
	buf, err := decode(data, origin)
	if err != nil {
		return nil, err
	}
	return &ImageInfo{
		Width:     buf.Width(),
		Height:    buf.Height(),
		Format:    format,
		HasAlpha:  buf.HasAlpha(),
		SizeBytes: len(data),
	}, nil
}
