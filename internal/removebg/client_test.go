package removebg

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/photo-studio-mcp/internal/imaging"
)

// pngBytes returns a w x h PNG filled with c.
func pngBytes(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// recorded is one request seen by the fake API.
type recorded struct {
	apiKey string
	fields map[string]string
	file   []byte
}

// fakeAPI answers every request with cutout and records the form fields.
type fakeAPI struct {
	t        *testing.T
	cutout   []byte
	status   int
	errBody  string
	mu       sync.Mutex
	requests []recorded
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	assert.Equal(f.t, http.MethodPost, r.Method)
	assert.Equal(f.t, "/v1.0/removebg", r.URL.Path)
	if !assert.NoError(f.t, r.ParseMultipartForm(10<<20)) {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	rec := recorded{apiKey: r.Header.Get("X-Api-Key"), fields: map[string]string{}}
	for k, v := range r.MultipartForm.Value {
		rec.fields[k] = v[0]
	}
	if fh, ok := r.MultipartForm.File["image_file"]; ok {
		if file, err := fh[0].Open(); assert.NoError(f.t, err) {
			rec.file, _ = io.ReadAll(file)
			file.Close()
		}
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()

	if f.status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		io.WriteString(w, f.errBody)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Credits-Charged", "1")
	if f.cutout == nil {
		// Echo the source URL so callers can match results to inputs.
		io.WriteString(w, rec.fields["image_url"])
		return
	}
	w.Write(f.cutout)
}

func newTestClient(t *testing.T, api *fakeAPI) (*Client, *httptest.Server) {
	t.Helper()
	api.t = t
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	logger, _ := test.NewNullLogger()
	c := NewClient("test-key", imaging.NewLoader(srv.Client(), ""))
	c.BaseURL = srv.URL + "/v1.0"
	c.HTTP = srv.Client()
	c.BatchDelay = 0
	c.Log = logger
	return c, srv
}

func TestRemoveBackground_SourceKinds(t *testing.T) {
	cutout := pngBytes(t, 2, 2, color.NRGBA{255, 0, 0, 0})
	upload := pngBytes(t, 3, 3, color.NRGBA{0, 0, 255, 255})

	tests := []struct {
		name      string
		src       any
		wantField string
		wantValue string
	}{
		{"data URI", "data:image/png;base64,QUJD", "image_file_b64", "QUJD"},
		{"https URL", "https://cdn.example.com/a.png", "image_url", "https://cdn.example.com/a.png"},
		{"protocol relative", "//cdn.example.com/a.png", "image_url", "https://cdn.example.com/a.png"},
		{"bytes", upload, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{cutout: cutout}
			c, _ := newTestClient(t, api)

			uri, err := c.RemoveBackground(context.Background(), tt.src)
			require.NoError(t, err)
			assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(cutout), uri)

			require.Len(t, api.requests, 1)
			req := api.requests[0]
			assert.Equal(t, "test-key", req.apiKey)
			assert.Equal(t, "auto", req.fields["size"])
			if tt.wantField != "" {
				assert.Equal(t, tt.wantValue, req.fields[tt.wantField])
				assert.Nil(t, req.file)
			} else {
				require.NotNil(t, req.file, "non-string sources are uploaded as image_file")
				img, err := png.Decode(bytes.NewReader(req.file))
				require.NoError(t, err)
				assert.Equal(t, 3, img.Bounds().Dx())
			}
		})
	}
}

func TestRemoveBackground_SiteRelative(t *testing.T) {
	api := &fakeAPI{cutout: pngBytes(t, 1, 1, color.NRGBA{})}
	c, _ := newTestClient(t, api)
	c.Loader = imaging.NewLoader(nil, "https://shop.example.com/")

	_, err := c.RemoveBackground(context.Background(), "/images/shoe.jpg")
	require.NoError(t, err)
	require.Len(t, api.requests, 1)
	assert.Equal(t, "https://shop.example.com/images/shoe.jpg", api.requests[0].fields["image_url"])
}

func TestRemoveBackground_APIError(t *testing.T) {
	api := &fakeAPI{
		status:  http.StatusPaymentRequired,
		errBody: `{"errors":[{"title":"Insufficient credits"}]}`,
	}
	c, _ := newTestClient(t, api)

	_, err := c.RemoveBackground(context.Background(), "https://cdn.example.com/a.png")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
	assert.Equal(t, "Insufficient credits", apiErr.Title)
	assert.Contains(t, apiErr.Error(), "Insufficient credits")
}

func TestRemoveBackground_MissingKey(t *testing.T) {
	c := NewClient("", nil)
	_, err := c.RemoveBackground(context.Background(), "https://cdn.example.com/a.png")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestRemoveBackground_BadLocalSource(t *testing.T) {
	api := &fakeAPI{}
	c, _ := newTestClient(t, api)

	_, err := c.RemoveBackground(context.Background(), []byte("not an image"))
	var decodeErr *imaging.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Empty(t, api.requests, "nothing should be sent for an undecodable upload")
}

func TestBatchRemoveBackground_OrderAndConcurrency(t *testing.T) {
	api := &fakeAPI{delay: 20 * time.Millisecond}
	c, _ := newTestClient(t, api)

	srcs := []any{
		"https://cdn.example.com/0.png",
		"https://cdn.example.com/1.png",
		"https://cdn.example.com/2.png",
		"https://cdn.example.com/3.png",
		"https://cdn.example.com/4.png",
	}
	results, err := c.BatchRemoveBackground(context.Background(), srcs)
	require.NoError(t, err)
	require.Len(t, results, len(srcs))
	for i, r := range results {
		want := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(srcs[i].(string)))
		assert.Equal(t, want, r, "result %d", i)
	}
	assert.Len(t, api.requests, 5)
	assert.LessOrEqual(t, api.peak.Load(), int32(3), "at most one batch of 3 runs at a time")
}

func TestBatchRemoveBackground_Delay(t *testing.T) {
	api := &fakeAPI{cutout: pngBytes(t, 1, 1, color.NRGBA{})}
	c, _ := newTestClient(t, api)
	c.BatchSize = 1
	c.BatchDelay = 30 * time.Millisecond

	start := time.Now()
	_, err := c.BatchRemoveBackground(context.Background(), []any{"https://a/1.png", "https://a/2.png", "https://a/3.png"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond, "two pauses between three batches")
}

func TestBatchRemoveBackground_StopsOnError(t *testing.T) {
	api := &fakeAPI{status: http.StatusBadRequest, errBody: `{}`}
	c, _ := newTestClient(t, api)
	c.BatchSize = 2

	_, err := c.BatchRemoveBackground(context.Background(), []any{"https://a/1.png", "https://a/2.png", "https://a/3.png", "https://a/4.png"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.LessOrEqual(t, len(api.requests), 2, "later batches must not start")
}

func TestBatchRemoveBackground_Cancelled(t *testing.T) {
	api := &fakeAPI{cutout: pngBytes(t, 1, 1, color.NRGBA{})}
	c, _ := newTestClient(t, api)
	c.BatchSize = 1
	c.BatchDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.BatchRemoveBackground(ctx, []any{"https://a/1.png", "https://a/2.png"})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestReplaceBackground(t *testing.T) {
	// The cut-out is transparent except for its top-left pixel.
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	var cut bytes.Buffer
	require.NoError(t, png.Encode(&cut, img))

	api := &fakeAPI{cutout: cut.Bytes()}
	c, _ := newTestClient(t, api)

	bg := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 10, 10, color.NRGBA{0, 255, 0, 255}))
	got, err := c.ReplaceBackground(context.Background(), "https://cdn.example.com/product.jpg", bg)
	require.NoError(t, err)

	assert.Equal(t, 4, got.Width())
	assert.Equal(t, 4, got.Height())
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, got.At(0, 0))
	assert.Equal(t, color.NRGBA{0, 255, 0, 255}, got.At(3, 3))
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("k", nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL)
	assert.Equal(t, "auto", c.Size)
	assert.Equal(t, 3, c.BatchSize)
	assert.Equal(t, time.Second, c.BatchDelay)
	assert.NotNil(t, c.Loader)
	assert.Equal(t, logrus.StandardLogger(), c.Log)
}
