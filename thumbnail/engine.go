// Package thumbnail renders the first page of a PDF into a small preview
// image. Rendering goes through an Engine abstraction with an explicit
// handle lifecycle so that native resources (WebAssembly buffers, MuPDF
// contexts) are released even when a render fails partway through.
package thumbnail

import (
	"context"
	"image"
	"log/slog"
)

// Logger is set from the server's global logger at startup.
var Logger = slog.Default()

// renderDPI is the DPI at which a scale of 1.0 reproduces the page's
// intrinsic point size in pixels.
const renderDPI = 72

// Engine opens PDF documents for rendering.
type Engine interface {
	// Open parses data into a Document. The caller must Close the
	// returned document.
	Open(ctx context.Context, data []byte) (Document, error)

	// Close releases the engine's own resources (worker pools etc.).
	Close() error
}

// Document is an open PDF. Pages are numbered from 1.
type Document interface {
	PageCount() int

	// Page loads page number (1-based). The caller must Close the
	// returned page before closing the document.
	Page(number int) (Page, error)

	Close() error
}

// Page is a loaded page of an open Document.
type Page interface {
	// Size returns the intrinsic page dimensions in points.
	Size() (width, height float64)

	// Render rasterizes the page. A scale of 1.0 yields one pixel per
	// point; 0.5 yields a half-size image.
	Render(scale float64) (image.Image, error)

	Close() error
}

// NewEngine returns the engine selected by name. "fitz" uses MuPDF via
// CGo; anything else gets the pure Go PDFium WebAssembly build, which is
// the default because it needs no native toolchain.
func NewEngine(renderer string) (Engine, error) {
	if renderer == "fitz" {
		return NewFitzEngine()
	}
	return NewPDFiumEngine()
}
