package engine

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/calverton/docshare/viewer"
)

// viewportResponse is the initial viewer state for a document in a
// container of the given size.
type viewportResponse struct {
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	Scale      float64 `json:"scale"`
	Rotation   int     `json:"rotation"`
	Fit        string  `json:"fit"`
	SideBySide bool    `json:"sideBySide"`
	PageWidth  float64 `json:"pageWidth"`
	PageHeight float64 `json:"pageHeight"`
}

func fitModeName(mode viewer.FitMode) string {
	switch mode {
	case viewer.FitPage:
		return "page"
	case viewer.FitFree:
		return "free"
	default:
		return "width"
	}
}

// GetViewport computes the initial page/scale/fit state for the viewer.
// The container dimensions come from the client; the intrinsic page size
// was recorded at upload time, so the first paint can already be at the
// right scale instead of waiting for a render pass.
func (serverHandler *ServerHandler) GetViewport(context echo.Context) error {
	ulidStr := context.Param("id")

	document, err := serverHandler.DB.GetDocumentByULID(ulidStr)
	if err != nil {
		if isNotFound(err) {
			return context.JSON(http.StatusNotFound, "Document not found")
		}
		Logger.Error("Unable to fetch document for viewport", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	containerWidth, _ := strconv.ParseFloat(context.QueryParam("width"), 64)
	containerHeight, _ := strconv.ParseFloat(context.QueryParam("height"), 64)
	container := viewer.Size{Width: containerWidth, Height: containerHeight}

	state := viewer.NewState(document.PageCount, container.Width)
	if document.PageWidth > 0 && document.PageHeight > 0 {
		state.SetIntrinsic(viewer.Size{Width: document.PageWidth, Height: document.PageHeight}, container)
	}

	return context.JSON(http.StatusOK, viewportResponse{
		Page:       state.Page,
		TotalPages: state.TotalPages,
		Scale:      state.Scale,
		Rotation:   state.Rotation,
		Fit:        fitModeName(state.Fit),
		SideBySide: state.SideBySide,
		PageWidth:  document.PageWidth,
		PageHeight: document.PageHeight,
	})
}
