package thumbnail

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// ThumbnailScale is the render scale for previews; half the intrinsic
// page size keeps thumbnails cheap while still legible.
const ThumbnailScale = 0.5

// thumbnailMaxWidth caps the encoded preview width in pixels.
const thumbnailMaxWidth = 320

// DefaultFetchTimeout bounds a single document fetch when no explicit
// timeout is configured.
const DefaultFetchTimeout = 15 * time.Second

// TokenSource supplies the bearer token appended to fetch URLs, or ""
// when the endpoint needs none.
type TokenSource func() string

// Rasterizer turns the first page of a PDF into a PNG data URI. All
// failures are soft: they are logged and reported as an empty string so
// callers can show a placeholder instead of an error page.
type Rasterizer struct {
	newEngine func() (Engine, error)
	client    *http.Client
	token     TokenSource
	timeout   time.Duration

	mu        sync.Mutex
	engine    Engine
	engineErr error
	opened    bool
}

// NewRasterizer builds a rasterizer around an engine factory. The engine
// is created lazily on first use so that a missing renderer backend only
// costs the features that need it.
func NewRasterizer(newEngine func() (Engine, error), token TokenSource, timeout time.Duration) *Rasterizer {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Rasterizer{
		newEngine: newEngine,
		client:    &http.Client{},
		token:     token,
		timeout:   timeout,
	}
}

// Close releases the underlying engine if one was created.
func (r *Rasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.engine == nil {
		return nil
	}
	err := r.engine.Close()
	r.engine = nil
	return err
}

func (r *Rasterizer) getEngine() (Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.opened {
		r.opened = true
		r.engine, r.engineErr = r.newEngine()
	}
	return r.engine, r.engineErr
}

// RasterizeFirstPage fetches the document at rawURL and renders its
// first page, returning a PNG data URI or "" on any failure.
func (r *Rasterizer) RasterizeFirstPage(ctx context.Context, rawURL string) string {
	data, ok := r.fetch(ctx, rawURL)
	if !ok {
		return ""
	}
	return r.Rasterize(ctx, data)
}

// Rasterize renders the first page of an in-memory PDF, returning a PNG
// data URI or "" on any failure. Engine handles are released on every
// path, including render errors.
func (r *Rasterizer) Rasterize(ctx context.Context, data []byte) string {
	engine, err := r.getEngine()
	if err != nil {
		Logger.Warn("Thumbnail engine unavailable", "error", err)
		return ""
	}

	doc, err := engine.Open(ctx, data)
	if err != nil {
		Logger.Warn("Could not open document for thumbnail", "error", err)
		return ""
	}
	defer doc.Close()

	if doc.PageCount() < 1 {
		Logger.Warn("Document has no pages to thumbnail")
		return ""
	}

	page, err := doc.Page(1)
	if err != nil {
		Logger.Warn("Could not load first page for thumbnail", "error", err)
		return ""
	}
	defer page.Close()

	img, err := page.Render(ThumbnailScale)
	if err != nil {
		Logger.Warn("Could not render thumbnail", "error", err)
		return ""
	}

	if img.Bounds().Dx() > thumbnailMaxWidth {
		img = imaging.Resize(img, thumbnailMaxWidth, 0, imaging.Lanczos)
		img = imaging.Sharpen(img, 0.5)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		Logger.Warn("Could not encode thumbnail", "error", err)
		return ""
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// fetch downloads the document with the configured timeout, appending
// the bearer token as a query parameter when one is available.
func (r *Rasterizer) fetch(ctx context.Context, rawURL string) ([]byte, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		Logger.Warn("Invalid document URL for thumbnail", "url", rawURL, "error", err)
		return nil, false
	}
	if r.token != nil {
		if token := r.token(); token != "" {
			q := u.Query()
			q.Set("token", token)
			u.RawQuery = q.Encode()
		}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		Logger.Warn("Could not build thumbnail fetch request", "error", err)
		return nil, false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		Logger.Warn("Could not fetch document for thumbnail", "url", rawURL, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		Logger.Warn("Unexpected status fetching document for thumbnail",
			"url", rawURL, "status", resp.StatusCode)
		return nil, false
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		Logger.Warn("Could not read document body for thumbnail", "error", err)
		return nil, false
	}
	if len(data) == 0 {
		Logger.Warn("Empty document body for thumbnail", "url", rawURL)
		return nil, false
	}
	return data, true
}
