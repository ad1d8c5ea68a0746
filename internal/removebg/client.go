// Package removebg is a thin client for the remove.bg background-removal API.
//
// Results are returned as PNG data URIs so they can be fed straight back into
// the imaging loader or returned to MCP clients.
package removebg

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/photo-studio-mcp/internal/imaging"
)

// Defaults used by NewClient.
const (
	DefaultBaseURL    = "https://api.remove.bg/v1.0"
	DefaultSize       = "auto"
	DefaultBatchSize  = 3
	DefaultBatchDelay = time.Second
)

// maxResponseBytes bounds the PNG returned by the API.
const maxResponseBytes = 64 << 20

// ErrMissingAPIKey is returned before any request when no key is configured.
var ErrMissingAPIKey = errors.New("remove.bg API key is not configured")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Status     string
	// Title is the first error title from the JSON error body, if any.
	Title string
	Body  string
}

func (e *APIError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("remove.bg request failed: %s: %s", e.Status, e.Title)
	}
	return fmt.Sprintf("remove.bg request failed: %s", e.Status)
}

// Client calls the remove.bg API. It is safe for concurrent use.
type Client struct {
	APIKey  string
	BaseURL string
	// Size is the requested output size ("auto", "preview", "full"...).
	Size string

	HTTP *http.Client

	// Loader reads sources that must be uploaded as files. Its SiteBaseURL
	// also decides whether "/path" sources are sent as URLs.
	Loader *imaging.Loader

	// BatchSize is the number of concurrent requests in one batch.
	BatchSize int
	// BatchDelay is the pause between two batches.
	BatchDelay time.Duration

	Log logrus.FieldLogger
}

// NewClient returns a client with the default endpoint, size and batching.
func NewClient(apiKey string, loader *imaging.Loader) *Client {
	if loader == nil {
		loader = &imaging.Loader{}
	}
	return &Client{
		APIKey:     apiKey,
		BaseURL:    DefaultBaseURL,
		Size:       DefaultSize,
		HTTP:       &http.Client{Timeout: 60 * time.Second},
		Loader:     loader,
		BatchSize:  DefaultBatchSize,
		BatchDelay: DefaultBatchDelay,
		Log:        logrus.StandardLogger(),
	}
}

// RemoveBackground removes the background of src and returns the cut-out
// as "data:image/png;base64,...".
//
// Strings are sent without local decoding: data URIs as image_file_b64,
// http(s) and protocol-relative URLs as image_url, and site-relative paths as
// image_url when the loader has a SiteBaseURL. Everything else (files, bytes,
// readers, buffers, images) is loaded, encoded as PNG and uploaded as
// image_file.
func (c *Client) RemoveBackground(ctx context.Context, src any) (string, error) {
	if c.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	body, contentType, err := c.buildForm(ctx, src)
	if err != nil {
		return "", err
	}

	endpoint := strings.TrimRight(c.baseURL(), "/") + "/removebg"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("failed to build remove.bg request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.APIKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "image/png")

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("remove.bg request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read remove.bg response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(data)}
		var payload struct {
			Errors []struct {
				Title string `json:"title"`
			} `json:"errors"`
		}
		if json.Unmarshal(data, &payload) == nil && len(payload.Errors) > 0 {
			apiErr.Title = payload.Errors[0].Title
		}
		c.logger().WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"title":  apiErr.Title,
		}).Warn("remove.bg request rejected")
		return "", apiErr
	}

	c.logger().WithFields(logrus.Fields{
		"bytes":    len(data),
		"credits":  resp.Header.Get("X-Credits-Charged"),
		"duration": time.Since(start),
	}).Debug("remove.bg request succeeded")

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// buildForm writes the multipart body for src.
func (c *Client) buildForm(ctx context.Context, src any) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	size := c.Size
	if size == "" {
		size = DefaultSize
	}
	if err := w.WriteField("size", size); err != nil {
		return nil, "", err
	}

	if err := c.writeImage(ctx, w, src); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) writeImage(ctx context.Context, w *multipart.Writer, src any) error {
	if s, ok := src.(string); ok {
		s = strings.TrimSpace(s)
		switch {
		case strings.HasPrefix(s, "data:"):
			_, payload, found := strings.Cut(s, ",")
			if !found || payload == "" {
				return &imaging.DecodeError{Source: "data URI", Err: errors.New("missing payload")}
			}
			return w.WriteField("image_file_b64", payload)
		case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
			return w.WriteField("image_url", s)
		case strings.HasPrefix(s, "//"):
			return w.WriteField("image_url", "https:"+s)
		case strings.HasPrefix(s, "/") && c.Loader != nil && c.Loader.SiteBaseURL != "":
			return w.WriteField("image_url", strings.TrimRight(c.Loader.SiteBaseURL, "/")+s)
		}
	}

	loader := c.Loader
	if loader == nil {
		loader = &imaging.Loader{}
	}
	buf, err := loader.Load(ctx, src)
	if err != nil {
		return err
	}
	data, err := imaging.Encode(buf, imaging.PNG, 0)
	if err != nil {
		return err
	}
	part, err := w.CreateFormFile("image_file", "image.png")
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}

// BatchRemoveBackground removes the backgrounds of srcs.
//
// Requests run in batches of BatchSize concurrent calls with BatchDelay
// between batches. Results keep the input order. The first failure cancels
// the rest of its batch and no further batches are started.
func (c *Client) BatchRemoveBackground(ctx context.Context, srcs []any) ([]string, error) {
	size := c.BatchSize
	if size < 1 {
		size = DefaultBatchSize
	}
	results := make([]string, len(srcs))

	for start := 0; start < len(srcs); start += size {
		if start > 0 && c.BatchDelay > 0 {
			timer := time.NewTimer(c.BatchDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		end := min(start+size, len(srcs))
		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				uri, err := c.RemoveBackground(gctx, srcs[i])
				if err != nil {
					return fmt.Errorf("image %d: %w", i, err)
				}
				results[i] = uri
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		c.logger().WithFields(logrus.Fields{
			"done":  end,
			"total": len(srcs),
		}).Debug("background removal batch finished")
	}
	return results, nil
}

// ReplaceBackground removes the background of image and composites the
// cut-out over background, stretched to the cut-out's size.
func (c *Client) ReplaceBackground(ctx context.Context, image, background any) (*imaging.Buffer, error) {
	cutout, err := c.RemoveBackground(ctx, image)
	if err != nil {
		return nil, err
	}
	loader := c.Loader
	if loader == nil {
		loader = &imaging.Loader{}
	}
	return loader.Composite(ctx, cutout, background)
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logger() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}
