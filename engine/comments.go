package engine

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"

	"github.com/calverton/docshare/database"
)

type createCommentRequest struct {
	Page   int    `json:"page"`
	Author string `json:"author"`
	Body   string `json:"body"`
}

// CreateComment adds a comment to a document page
func (serverHandler *ServerHandler) CreateComment(context echo.Context) error {
	ulidStr := context.Param("id")

	document, err := serverHandler.DB.GetDocumentByULID(ulidStr)
	if err != nil {
		if isNotFound(err) {
			return context.JSON(http.StatusNotFound, "Document not found")
		}
		Logger.Error("Unable to fetch document for comment", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	var request createCommentRequest
	if err := context.Bind(&request); err != nil {
		return context.JSON(http.StatusBadRequest, "Invalid comment")
	}
	if strings.TrimSpace(request.Body) == "" {
		return context.JSON(http.StatusBadRequest, "Empty comment body")
	}
	if request.Page < 1 || (document.PageCount > 0 && request.Page > document.PageCount) {
		return context.JSON(http.StatusBadRequest, "Comment page out of range")
	}
	if request.Author == "" {
		request.Author = "anonymous"
	}

	now := time.Now()
	commentULID, err := database.CalculateULID(now)
	if err != nil {
		Logger.Error("Cannot generate comment ULID", "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	comment := &database.Comment{
		ULID:         commentULID,
		DocumentULID: ulidStr,
		Page:         request.Page,
		Author:       request.Author,
		Body:         request.Body,
		CreatedAt:    now,
	}
	if err := serverHandler.DB.SaveComment(comment); err != nil {
		Logger.Error("Unable to save comment", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	return context.JSON(http.StatusOK, comment)
}

// GetComments lists a document's comments oldest first
func (serverHandler *ServerHandler) GetComments(context echo.Context) error {
	ulidStr := context.Param("id")

	comments, err := serverHandler.DB.GetCommentsForDocument(ulidStr)
	if err != nil {
		Logger.Error("Unable to fetch comments", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}
	return context.JSON(http.StatusOK, comments)
}

// DeleteComment removes a comment
func (serverHandler *ServerHandler) DeleteComment(context echo.Context) error {
	ulidStr := context.Param("id")

	if err := serverHandler.DB.DeleteComment(ulidStr); err != nil {
		if isNotFound(err) {
			return context.JSON(http.StatusNotFound, "Comment not found")
		}
		Logger.Error("Unable to delete comment", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}
	return context.JSON(http.StatusOK, "Comment Deleted")
}

type saveAnnotationRequest struct {
	ULID   string `json:"ulid"`
	Page   int    `json:"page"`
	Kind   string `json:"kind"`
	Author string `json:"author"`
	Data   string `json:"data"`
}

// SaveAnnotation creates or updates a page annotation. Sending an
// existing annotation ULID updates it in place.
func (serverHandler *ServerHandler) SaveAnnotation(context echo.Context) error {
	ulidStr := context.Param("id")

	document, err := serverHandler.DB.GetDocumentByULID(ulidStr)
	if err != nil {
		if isNotFound(err) {
			return context.JSON(http.StatusNotFound, "Document not found")
		}
		Logger.Error("Unable to fetch document for annotation", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	var request saveAnnotationRequest
	if err := context.Bind(&request); err != nil {
		return context.JSON(http.StatusBadRequest, "Invalid annotation")
	}
	if request.Kind == "" || request.Data == "" {
		return context.JSON(http.StatusBadRequest, "Annotation needs a kind and data")
	}
	if request.Page < 1 || (document.PageCount > 0 && request.Page > document.PageCount) {
		return context.JSON(http.StatusBadRequest, "Annotation page out of range")
	}
	if request.Author == "" {
		request.Author = "anonymous"
	}

	now := time.Now()
	annotation := &database.Annotation{
		DocumentULID: ulidStr,
		Page:         request.Page,
		Kind:         request.Kind,
		Author:       request.Author,
		Data:         request.Data,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if request.ULID != "" {
		parsed, err := ulid.Parse(request.ULID)
		if err != nil {
			return context.JSON(http.StatusBadRequest, "Invalid annotation ULID")
		}
		annotation.ULID = parsed
	} else {
		annotation.ULID, err = database.CalculateULID(now)
		if err != nil {
			Logger.Error("Cannot generate annotation ULID", "error", err)
			return context.JSON(http.StatusInternalServerError, err)
		}
	}

	if err := serverHandler.DB.SaveAnnotation(annotation); err != nil {
		Logger.Error("Unable to save annotation", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	return context.JSON(http.StatusOK, annotation)
}

// GetAnnotations lists a document's annotations, optionally for one page
func (serverHandler *ServerHandler) GetAnnotations(context echo.Context) error {
	ulidStr := context.Param("id")

	var annotations []database.Annotation
	var err error
	if pageParam := context.QueryParam("page"); pageParam != "" {
		page, parseErr := strconv.Atoi(pageParam)
		if parseErr != nil || page < 1 {
			return context.JSON(http.StatusBadRequest, "Invalid page")
		}
		annotations, err = serverHandler.DB.GetAnnotationsForPage(ulidStr, page)
	} else {
		annotations, err = serverHandler.DB.GetAnnotationsForDocument(ulidStr)
	}
	if err != nil {
		Logger.Error("Unable to fetch annotations", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	return context.JSON(http.StatusOK, annotations)
}

// DeleteAnnotation removes an annotation
func (serverHandler *ServerHandler) DeleteAnnotation(context echo.Context) error {
	ulidStr := context.Param("id")

	if err := serverHandler.DB.DeleteAnnotation(ulidStr); err != nil {
		if isNotFound(err) {
			return context.JSON(http.StatusNotFound, "Annotation not found")
		}
		Logger.Error("Unable to delete annotation", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}
	return context.JSON(http.StatusOK, "Annotation Deleted")
}
