package thumbnail

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
)

// PDFiumEngine renders through go-pdfium's WebAssembly build (pure Go,
// no CGo). A single worker is enough because thumbnail generation is
// serialized per document by the cache anyway.
type PDFiumEngine struct {
	pool     pdfium.Pool
	instance pdfium.Pdfium
}

func NewPDFiumEngine() (*PDFiumEngine, error) {
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PDFium WebAssembly: %w", err)
	}

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to get PDFium instance: %w", err)
	}

	return &PDFiumEngine{pool: pool, instance: instance}, nil
}

func (e *PDFiumEngine) Open(ctx context.Context, data []byte) (Document, error) {
	doc, err := e.instance.OpenDocument(&requests.OpenDocument{
		File: &data,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open PDF document: %w", err)
	}

	pageCount, err := e.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		e.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{Document: doc.Document})
		return nil, fmt.Errorf("unable to get page count: %w", err)
	}

	return &pdfiumDocument{
		instance: e.instance,
		ref:      doc.Document,
		pages:    pageCount.PageCount,
	}, nil
}

func (e *PDFiumEngine) Close() error {
	if e.pool != nil {
		e.pool.Close()
		e.pool = nil
	}
	e.instance = nil
	return nil
}

type pdfiumDocument struct {
	instance pdfium.Pdfium
	ref      references.FPDF_DOCUMENT
	pages    int
}

func (d *pdfiumDocument) PageCount() int {
	return d.pages
}

func (d *pdfiumDocument) Page(number int) (Page, error) {
	if number < 1 || number > d.pages {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", number, d.pages)
	}

	loaded, err := d.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: d.ref,
		Index:    number - 1,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to load page %d: %w", number, err)
	}

	size, err := d.instance.GetPageSize(&requests.GetPageSize{
		Page: requests.Page{ByReference: &loaded.Page},
	})
	if err != nil {
		d.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{Page: loaded.Page})
		return nil, fmt.Errorf("unable to measure page %d: %w", number, err)
	}

	return &pdfiumPage{
		instance: d.instance,
		ref:      loaded.Page,
		width:    size.Width,
		height:   size.Height,
	}, nil
}

func (d *pdfiumDocument) Close() error {
	_, err := d.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: d.ref,
	})
	if err != nil {
		return fmt.Errorf("unable to close document: %w", err)
	}
	return nil
}

type pdfiumPage struct {
	instance pdfium.Pdfium
	ref      references.FPDF_PAGE
	width    float64
	height   float64
}

func (p *pdfiumPage) Size() (float64, float64) {
	return p.width, p.height
}

func (p *pdfiumPage) Render(scale float64) (image.Image, error) {
	pageRender, err := p.instance.RenderPageInDPI(&requests.RenderPageInDPI{
		DPI: int(renderDPI * scale),
		Page: requests.Page{
			ByReference: &p.ref,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to render page: %w", err)
	}

	// The image is copied out of the worker before Cleanup releases the
	// WebAssembly buffers.
	img := pageRender.Result.Image
	pageRender.Cleanup()
	return img, nil
}

func (p *pdfiumPage) Close() error {
	_, err := p.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: p.ref,
	})
	if err != nil {
		return fmt.Errorf("unable to close page: %w", err)
	}
	return nil
}
