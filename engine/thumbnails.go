package engine

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/calverton/docshare/database"
)

const thumbnailDataURIPrefix = "data:image/png;base64,"

// GetThumbnail serves the document's first page preview as PNG. A
// missing or unrenderable thumbnail answers 204 so the frontend can show
// a placeholder instead of a broken image.
func (serverHandler *ServerHandler) GetThumbnail(context echo.Context) error {
	ulidStr := context.Param("id")

	if _, err := serverHandler.DB.GetDocumentByULID(ulidStr); err != nil {
		if isNotFound(err) {
			return context.JSON(http.StatusNotFound, "Document not found")
		}
		Logger.Error("Unable to fetch document for thumbnail", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	uri := serverHandler.generateThumbnail(ulidStr)
	if uri == "" {
		return context.NoContent(http.StatusNoContent)
	}

	pngBytes, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, thumbnailDataURIPrefix))
	if err != nil {
		Logger.Error("Cached thumbnail is not valid base64", "ulid", ulidStr, "error", err)
		return context.NoContent(http.StatusNoContent)
	}

	context.Response().Header().Set("Cache-Control", "max-age=3600")
	return context.Blob(http.StatusOK, "image/png", pngBytes)
}

// generateThumbnail returns the preview data URI for a document,
// rendering and persisting it on first request. Concurrent requests for
// the same document share one render.
func (serverHandler *ServerHandler) generateThumbnail(ulidStr string) string {
	return serverHandler.Thumbnails.GetOrGenerate(ulidStr, func() string {
		document, err := serverHandler.DB.GetDocumentByULID(ulidStr)
		if err != nil {
			Logger.Warn("Unable to fetch document for thumbnail", "ulid", ulidStr, "error", err)
			return ""
		}

		// Reuse a previously rendered preview from the object store.
		if document.ThumbnailKey != "" && serverHandler.Store.Exists(document.ThumbnailKey) {
			reader, err := serverHandler.Store.Get(document.ThumbnailKey)
			if err == nil {
				defer reader.Close()
				if pngBytes, err := io.ReadAll(reader); err == nil {
					return thumbnailDataURIPrefix + base64.StdEncoding.EncodeToString(pngBytes)
				}
			}
			Logger.Warn("Stored thumbnail unreadable, re-rendering", "ulid", ulidStr)
		}

		reader, err := serverHandler.Store.Get(document.StorageKey)
		if err != nil {
			Logger.Warn("Document file missing, cannot render thumbnail", "ulid", ulidStr, "error", err)
			return ""
		}
		defer reader.Close()
		body, err := io.ReadAll(reader)
		if err != nil {
			Logger.Warn("Unable to read document for thumbnail", "ulid", ulidStr, "error", err)
			return ""
		}

		uri := serverHandler.Rasterizer.Rasterize(context.Background(), body)
		if uri == "" {
			return ""
		}

		serverHandler.persistThumbnail(document, uri)
		return uri
	})
}

// persistThumbnail writes the rendered preview to the object store so it
// survives restarts and cache eviction.
func (serverHandler *ServerHandler) persistThumbnail(document *database.Document, uri string) {
	pngBytes, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, thumbnailDataURIPrefix))
	if err != nil {
		Logger.Warn("Rendered thumbnail is not valid base64", "ulid", document.ULID.String(), "error", err)
		return
	}

	thumbnailKey := "thumbs/" + document.ULID.String() + ".png"
	if err := serverHandler.Store.Put(thumbnailKey, strings.NewReader(string(pngBytes))); err != nil {
		Logger.Warn("Unable to store thumbnail", "key", thumbnailKey, "error", err)
		return
	}
	if err := serverHandler.DB.UpdateDocumentThumbnail(document.ULID.String(), thumbnailKey); err != nil {
		Logger.Warn("Unable to record thumbnail key", "ulid", document.ULID.String(), "error", err)
	}
}

// thumbnailBackfillJobFunc renders previews for documents that are still
// missing one, with job tracking.
func (serverHandler *ServerHandler) thumbnailBackfillJobFunc(db database.Repository) {
	job, err := db.CreateJob(database.JobTypeThumbnailBackfill, "Rendering missing thumbnails")
	if err != nil {
		Logger.Error("Unable to create backfill job", "error", err)
		return
	}
	jobID := job.ID

	defer func() {
		if r := recover(); r != nil {
			Logger.Error("Panic recovered in thumbnail backfill job", "panic", r, "jobID", jobID)
			db.UpdateJobError(jobID, fmt.Sprintf("Panic: %v", r))
		}
	}()

	if err := db.UpdateJobStatus(jobID, database.JobStatusRunning, "Scanning for missing thumbnails"); err != nil {
		Logger.Error("Failed to update job status", "error", err)
	}

	const batchSize = 50
	documents, err := db.GetDocumentsMissingThumbnails(batchSize)
	if err != nil {
		Logger.Error("Unable to list documents missing thumbnails", "error", err)
		db.UpdateJobError(jobID, fmt.Sprintf("Scan failed: %v", err))
		return
	}

	total := len(documents)
	if total == 0 {
		db.CompleteJob(jobID, `{"rendered": 0, "message": "Nothing to do"}`)
		return
	}

	Logger.Info("Backfilling thumbnails", "count", total, "jobID", jobID)
	rendered := 0
	failed := 0
	for i := range documents {
		ulidStr := documents[i].ULID.String()
		progress := int(float64(i) / float64(total) * 100)
		db.UpdateJobProgress(jobID, progress, fmt.Sprintf("Rendering %d/%d", i+1, total))

		if serverHandler.generateThumbnail(ulidStr) == "" {
			failed++
			continue
		}
		rendered++
	}

	result := fmt.Sprintf(`{"rendered": %d, "failed": %d, "total": %d}`, rendered, failed, total)
	if err := db.CompleteJob(jobID, result); err != nil {
		Logger.Error("Failed to mark backfill job as complete", "error", err)
	}
	Logger.Info("Thumbnail backfill completed", "jobID", jobID, "rendered", rendered, "failed", failed)
}
