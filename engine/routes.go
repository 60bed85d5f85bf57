package engine

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/calverton/docshare/config"
	"github.com/calverton/docshare/database"
	"github.com/calverton/docshare/storage"
	"github.com/calverton/docshare/thumbnail"
)

// ServerHandler will inject the variables needed into routes
type ServerHandler struct {
	DB           database.Repository
	Echo         *echo.Echo
	Store        storage.ObjectStore
	Renderer     thumbnail.Engine
	Rasterizer   *thumbnail.Rasterizer
	Thumbnails   *thumbnail.Cache
	ServerConfig config.ServerConfig
}

// documentResponse is the JSON shape the frontend consumes.
type documentResponse struct {
	ULID         string    `json:"ulid"`
	Name         string    `json:"name"`
	IngressTime  time.Time `json:"ingressTime"`
	DocumentType string    `json:"documentType"`
	PageCount    int       `json:"pageCount"`
	PageWidth    float64   `json:"pageWidth"`
	PageHeight   float64   `json:"pageHeight"`
	DocumentURL  string    `json:"documentURL"`
	ThumbnailURL string    `json:"thumbnailURL"`
	HasThumbnail bool      `json:"hasThumbnail"`
}

func toDocumentResponse(doc *database.Document) documentResponse {
	ulidStr := doc.ULID.String()
	return documentResponse{
		ULID:         ulidStr,
		Name:         doc.Name,
		IngressTime:  doc.IngressTime,
		DocumentType: doc.DocumentType,
		PageCount:    doc.PageCount,
		PageWidth:    doc.PageWidth,
		PageHeight:   doc.PageHeight,
		DocumentURL:  "/document/view/" + ulidStr,
		ThumbnailURL: "/api/document/" + ulidStr + "/thumbnail",
		HasThumbnail: doc.ThumbnailKey != "",
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// GetLatestDocuments returns the most recently uploaded documents
func (serverHandler *ServerHandler) GetLatestDocuments(context echo.Context) error {
	limit := serverHandler.ServerConfig.LatestDocumentCount
	if param := context.QueryParam("limit"); param != "" {
		if parsed, err := strconv.Atoi(param); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	documents, err := serverHandler.DB.GetNewestDocuments(limit)
	if err != nil {
		Logger.Error("Unable to fetch latest documents", "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	responses := make([]documentResponse, 0, len(documents))
	for i := range documents {
		responses = append(responses, toDocumentResponse(&documents[i]))
	}
	return context.JSON(http.StatusOK, responses)
}

// GetDocuments returns one page of documents plus the total count
func (serverHandler *ServerHandler) GetDocuments(context echo.Context) error {
	page, _ := strconv.Atoi(context.QueryParam("page"))
	pageSize, _ := strconv.Atoi(context.QueryParam("pageSize"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = serverHandler.ServerConfig.LatestDocumentCount
	}

	documents, total, err := serverHandler.DB.GetNewestDocumentsWithPagination(page, pageSize)
	if err != nil {
		Logger.Error("Unable to fetch documents", "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	responses := make([]documentResponse, 0, len(documents))
	for i := range documents {
		responses = append(responses, toDocumentResponse(&documents[i]))
	}
	return context.JSON(http.StatusOK, map[string]interface{}{
		"documents": responses,
		"total":     total,
		"page":      page,
		"pageSize":  pageSize,
	})
}

// GetDocument returns one document's metadata
func (serverHandler *ServerHandler) GetDocument(context echo.Context) error {
	ulidStr := context.Param("id")

	document, err := serverHandler.DB.GetDocumentByULID(ulidStr)
	if err != nil {
		if isNotFound(err) {
			return context.JSON(http.StatusNotFound, "Document not found")
		}
		Logger.Error("Unable to fetch document", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	return context.JSON(http.StatusOK, toDocumentResponse(document))
}

// ViewDocument streams the document file for inline display
func (serverHandler *ServerHandler) ViewDocument(context echo.Context) error {
	return serverHandler.serveDocument(context, false)
}

// DownloadDocument streams the document file as an attachment. A share
// token, when present, must grant download permission.
func (serverHandler *ServerHandler) DownloadDocument(context echo.Context) error {
	if token := context.QueryParam("token"); token != "" {
		share, err := serverHandler.DB.GetShareByToken(token)
		if err != nil {
			return context.JSON(http.StatusNotFound, "Unknown share link")
		}
		if share.Expired() {
			return context.JSON(http.StatusGone, "Share link expired")
		}
		if !share.CanDownload {
			return context.JSON(http.StatusForbidden, "Share link does not allow downloading")
		}
	}
	return serverHandler.serveDocument(context, true)
}

func (serverHandler *ServerHandler) serveDocument(context echo.Context, asAttachment bool) error {
	ulidStr := context.Param("id")

	document, err := serverHandler.DB.GetDocumentByULID(ulidStr)
	if err != nil {
		if isNotFound(err) {
			return context.JSON(http.StatusNotFound, "Document not found")
		}
		Logger.Error("Unable to fetch document", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	reader, err := serverHandler.Store.Get(document.StorageKey)
	if err != nil {
		Logger.Error("Document file missing from storage", "ulid", ulidStr, "key", document.StorageKey, "error", err)
		return context.JSON(http.StatusNotFound, "Document file not found")
	}
	defer reader.Close()

	disposition := "inline"
	if asAttachment {
		disposition = "attachment"
	}
	context.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`%s; filename=%q`, disposition, document.Name))
	return context.Stream(http.StatusOK, "application/pdf", reader)
}

// UploadDocument accepts a multipart PDF upload, stores the file and
// indexes its metadata
func (serverHandler *ServerHandler) UploadDocument(context echo.Context) error {
	file, fileHeader, err := context.Request().FormFile("file")
	if err != nil {
		Logger.Warn("Upload request without file field", "error", err)
		return context.JSON(http.StatusBadRequest, "Missing file field")
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		Logger.Error("Unable to read uploaded file", "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}
	if len(body) == 0 {
		return context.JSON(http.StatusBadRequest, "Empty upload")
	}

	document, err := serverHandler.ingestDocument(context.Request().Context(), fileHeader.Filename, body)
	if err != nil {
		if errors.Is(err, errDuplicateDocument) {
			return context.JSON(http.StatusConflict, "Duplicate document")
		}
		Logger.Error("Unable to ingest uploaded document", "name", fileHeader.Filename, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	return context.JSON(http.StatusOK, toDocumentResponse(document))
}

// DeleteDocument removes a document, its stored file, its thumbnail and
// all dependent records
func (serverHandler *ServerHandler) DeleteDocument(context echo.Context) error {
	ulidStr := context.Param("id")

	document, err := serverHandler.DB.GetDocumentByULID(ulidStr)
	if err != nil {
		if isNotFound(err) {
			return context.JSON(http.StatusNotFound, "Document not found")
		}
		Logger.Error("Unable to fetch document for delete", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	if err := serverHandler.DB.DeleteDocument(ulidStr); err != nil {
		Logger.Error("Unable to delete document from database", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	if err := serverHandler.Store.Delete(document.StorageKey); err != nil {
		Logger.Warn("Unable to delete document file", "key", document.StorageKey, "error", err)
	}
	if document.ThumbnailKey != "" {
		if err := serverHandler.Store.Delete(document.ThumbnailKey); err != nil {
			Logger.Warn("Unable to delete thumbnail file", "key", document.ThumbnailKey, "error", err)
		}
	}
	serverHandler.Thumbnails.Remove(ulidStr)

	return context.JSON(http.StatusOK, "Document Deleted")
}

// SearchDocuments finds documents matching the search term in their name
// or extracted text
func (serverHandler *ServerHandler) SearchDocuments(context echo.Context) error {
	searchTerm := context.QueryParam("term")
	if searchTerm == "" {
		return context.JSON(http.StatusBadRequest, "Empty search term")
	}

	Logger.Debug("Performing document search", "searchTerm", searchTerm)
	documents, err := serverHandler.DB.SearchDocuments(searchTerm)
	if err != nil {
		Logger.Error("Search failed", "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	if len(documents) == 0 {
		return context.JSON(http.StatusNoContent, nil)
	}

	responses := make([]documentResponse, 0, len(documents))
	for i := range documents {
		responses = append(responses, toDocumentResponse(&documents[i]))
	}
	return context.JSON(http.StatusOK, responses)
}
