package thumbnail

import (
	"context"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// FitzEngine renders through go-fitz (MuPDF, requires CGo).
type FitzEngine struct{}

func NewFitzEngine() (*FitzEngine, error) {
	return &FitzEngine{}, nil
}

func (e *FitzEngine) Open(ctx context.Context, data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("unable to open PDF document: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

func (e *FitzEngine) Close() error {
	return nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) Page(number int) (Page, error) {
	if number < 1 || number > d.doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", number, d.doc.NumPage())
	}
	bounds, err := d.doc.Bound(number - 1)
	if err != nil {
		return nil, fmt.Errorf("unable to measure page %d: %w", number, err)
	}
	return &fitzPage{
		doc:    d.doc,
		index:  number - 1,
		width:  float64(bounds.Dx()),
		height: float64(bounds.Dy()),
	}, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}

type fitzPage struct {
	doc    *fitz.Document
	index  int
	width  float64
	height float64
}

func (p *fitzPage) Size() (float64, float64) {
	return p.width, p.height
}

func (p *fitzPage) Render(scale float64) (image.Image, error) {
	img, err := p.doc.ImageDPI(p.index, renderDPI*scale)
	if err != nil {
		return nil, fmt.Errorf("unable to render page %d: %w", p.index+1, err)
	}
	return img, nil
}

// Close is a no-op; MuPDF page data lives and dies with the document.
func (p *fitzPage) Close() error {
	return nil
}
