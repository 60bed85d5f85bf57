package thumbnail

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// stubEngine lets tests drive the rasterizer without a real PDF backend
// and records every handle release.
type stubEngine struct {
	openErr error
	doc     *stubDocument
	opens   int
}

func (e *stubEngine) Open(ctx context.Context, data []byte) (Document, error) {
	e.opens++
	if e.openErr != nil {
		return nil, e.openErr
	}
	return e.doc, nil
}

func (e *stubEngine) Close() error { return nil }

type stubDocument struct {
	pages      int
	renderErr  error
	renders    int
	closes     int
	pageCloses int
}

func (d *stubDocument) PageCount() int { return d.pages }

func (d *stubDocument) Page(number int) (Page, error) {
	return &stubPage{doc: d}, nil
}

func (d *stubDocument) Close() error {
	d.closes++
	return nil
}

type stubPage struct {
	doc *stubDocument
}

func (p *stubPage) Size() (float64, float64) { return 612, 792 }

func (p *stubPage) Render(scale float64) (image.Image, error) {
	p.doc.renders++
	if p.doc.renderErr != nil {
		return nil, p.doc.renderErr
	}
	return image.NewRGBA(image.Rect(0, 0, 306, 396)), nil
}

func (p *stubPage) Close() error {
	p.doc.pageCloses++
	return nil
}

func newStubRasterizer(engine *stubEngine, token TokenSource) *Rasterizer {
	return NewRasterizer(func() (Engine, error) { return engine, nil }, token, time.Second)
}

func pdfServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-1.4 stub"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRasterizeProducesDataURI(t *testing.T) {
	engine := &stubEngine{doc: &stubDocument{pages: 3}}
	r := newStubRasterizer(engine, nil)
	server := pdfServer(t)

	got := r.RasterizeFirstPage(context.Background(), server.URL+"/doc.pdf")
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(got, prefix) {
		t.Fatalf("Expected PNG data URI, got %.40q", got)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got, prefix))
	if err != nil {
		t.Fatalf("Data URI payload is not valid base64: %v", err)
	}
	if _, err := png.Decode(strings.NewReader(string(raw))); err != nil {
		t.Fatalf("Data URI payload is not valid PNG: %v", err)
	}

	if engine.doc.closes != 1 {
		t.Errorf("Expected document closed exactly once, got %d", engine.doc.closes)
	}
	if engine.doc.pageCloses != 1 {
		t.Errorf("Expected page closed exactly once, got %d", engine.doc.pageCloses)
	}
}

func TestRasterizeReleasesHandlesOnRenderFailure(t *testing.T) {
	engine := &stubEngine{doc: &stubDocument{pages: 1, renderErr: errors.New("corrupt page stream")}}
	r := newStubRasterizer(engine, nil)
	server := pdfServer(t)

	if got := r.RasterizeFirstPage(context.Background(), server.URL); got != "" {
		t.Errorf("Expected empty result on render failure, got %.40q", got)
	}
	if engine.doc.closes != 1 {
		t.Errorf("Expected document closed exactly once on failure, got %d", engine.doc.closes)
	}
	if engine.doc.pageCloses != 1 {
		t.Errorf("Expected page closed exactly once on failure, got %d", engine.doc.pageCloses)
	}
}

func TestRasterizeEmptyDocument(t *testing.T) {
	engine := &stubEngine{doc: &stubDocument{pages: 0}}
	r := newStubRasterizer(engine, nil)
	server := pdfServer(t)

	if got := r.RasterizeFirstPage(context.Background(), server.URL); got != "" {
		t.Errorf("Expected empty result for zero-page document, got %.40q", got)
	}
	if engine.doc.closes != 1 {
		t.Errorf("Expected document closed exactly once, got %d", engine.doc.closes)
	}
	if engine.doc.pageCloses != 0 {
		t.Errorf("Expected no page handles for zero-page document, got %d closes", engine.doc.pageCloses)
	}
}

func TestRasterizeAppendsToken(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		w.Write([]byte("%PDF-1.4 stub"))
	}))
	defer server.Close()

	engine := &stubEngine{doc: &stubDocument{pages: 1}}
	r := newStubRasterizer(engine, func() string { return "secret" })

	r.RasterizeFirstPage(context.Background(), server.URL+"/doc.pdf")
	if gotToken != "secret" {
		t.Errorf("Expected bearer token in fetch URL, got %q", gotToken)
	}
}

func TestRasterizeFetchFailureSkipsEngine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	engine := &stubEngine{doc: &stubDocument{pages: 1}}
	r := newStubRasterizer(engine, nil)

	if got := r.RasterizeFirstPage(context.Background(), server.URL); got != "" {
		t.Errorf("Expected empty result on fetch failure, got %.40q", got)
	}
	if engine.opens != 0 {
		t.Errorf("Expected engine untouched when the fetch fails, got %d opens", engine.opens)
	}
}

func TestRasterizeFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte("%PDF-1.4 stub"))
	}))
	defer server.Close()

	engine := &stubEngine{doc: &stubDocument{pages: 1}}
	r := NewRasterizer(func() (Engine, error) { return engine, nil }, nil, 30*time.Millisecond)

	if got := r.RasterizeFirstPage(context.Background(), server.URL); got != "" {
		t.Errorf("Expected empty result on fetch timeout, got %.40q", got)
	}
}

func TestRasterizeEngineUnavailable(t *testing.T) {
	r := NewRasterizer(func() (Engine, error) { return nil, errors.New("no renderer backend") }, nil, time.Second)
	server := pdfServer(t)

	if got := r.RasterizeFirstPage(context.Background(), server.URL); got != "" {
		t.Errorf("Expected empty result when the engine cannot start, got %.40q", got)
	}
	// The factory failure is remembered rather than retried per request.
	if got := r.RasterizeFirstPage(context.Background(), server.URL); got != "" {
		t.Errorf("Expected empty result on repeat call, got %.40q", got)
	}
}
