package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/calverton/docshare/database"
)

var errDuplicateDocument = errors.New("duplicate document")

// ingestDocument stores an uploaded PDF and records its metadata. The
// thumbnail is rendered asynchronously so uploads stay fast; the
// backfill job catches anything that fails here.
func (serverHandler *ServerHandler) ingestDocument(ctx context.Context, name string, body []byte) (*database.Document, error) {
	fileHash := database.HashBytes(body)
	if database.CheckDuplicateDocument(fileHash, serverHandler.DB) {
		return nil, fmt.Errorf("%w: %s", errDuplicateDocument, name)
	}

	now := time.Now()
	newULID, err := database.CalculateULID(now)
	if err != nil {
		return nil, fmt.Errorf("cannot generate ULID: %w", err)
	}

	document := &database.Document{
		Name:         filepath.Base(name),
		StorageKey:   "docs/" + newULID.String() + ".pdf",
		IngressTime:  now,
		Hash:         fileHash,
		ULID:         newULID,
		DocumentType: strings.ToLower(filepath.Ext(name)),
	}

	pageCount, width, height, err := serverHandler.documentGeometry(ctx, body)
	if err != nil {
		// Geometry failures are soft; the viewer learns dimensions from
		// its first render pass instead.
		Logger.Warn("Unable to read document geometry", "name", name, "error", err)
	} else {
		document.PageCount = pageCount
		document.PageWidth = width
		document.PageHeight = height
	}

	if fullText, err := extractText(body); err != nil {
		Logger.Warn("Unable to extract text from document", "name", name, "error", err)
	} else {
		document.FullText = fullText
	}

	if err := serverHandler.Store.Put(document.StorageKey, bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("unable to store document: %w", err)
	}

	if err := serverHandler.DB.SaveDocument(document); err != nil {
		serverHandler.Store.Delete(document.StorageKey)
		return nil, fmt.Errorf("unable to save document: %w", err)
	}

	go serverHandler.generateThumbnail(document.ULID.String())

	return document, nil
}

// documentGeometry opens the PDF once to learn the page count and the
// intrinsic size of the first page.
func (serverHandler *ServerHandler) documentGeometry(ctx context.Context, body []byte) (int, float64, float64, error) {
	if serverHandler.Renderer == nil {
		return 0, 0, 0, errors.New("no renderer available")
	}

	doc, err := serverHandler.Renderer.Open(ctx, body)
	if err != nil {
		return 0, 0, 0, err
	}
	defer doc.Close()

	pageCount := doc.PageCount()
	if pageCount < 1 {
		return 0, 0, 0, errors.New("document has no pages")
	}

	page, err := doc.Page(1)
	if err != nil {
		return pageCount, 0, 0, err
	}
	defer page.Close()

	width, height := page.Size()
	return pageCount, width, height, nil
}

// extractText pulls the plain text out of a PDF for search indexing.
func extractText(body []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", err
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", err
	}
	return buf.String(), nil
}
