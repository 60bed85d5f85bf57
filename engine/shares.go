package engine

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/calverton/docshare/database"
)

type createShareRequest struct {
	CanSave        bool `json:"canSave"`
	CanDownload    bool `json:"canDownload"`
	ExpiresInHours int  `json:"expiresInHours"`
}

type shareResponse struct {
	ULID         string     `json:"ulid"`
	DocumentULID string     `json:"documentUlid"`
	Token        string     `json:"token"`
	ShareURL     string     `json:"shareURL"`
	CanSave      bool       `json:"canSave"`
	CanDownload  bool       `json:"canDownload"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (serverHandler *ServerHandler) toShareResponse(share *database.Share) shareResponse {
	shareURL := "/share/" + share.Token
	if serverHandler.ServerConfig.UseReverseProxy {
		shareURL = serverHandler.ServerConfig.BaseURL + shareURL
	}
	return shareResponse{
		ULID:         share.ULID.String(),
		DocumentULID: share.DocumentULID,
		Token:        share.Token,
		ShareURL:     shareURL,
		CanSave:      share.CanSave,
		CanDownload:  share.CanDownload,
		ExpiresAt:    share.ExpiresAt,
		CreatedAt:    share.CreatedAt,
	}
}

// CreateShare mints a share link for a document
func (serverHandler *ServerHandler) CreateShare(context echo.Context) error {
	ulidStr := context.Param("id")

	if _, err := serverHandler.DB.GetDocumentByULID(ulidStr); err != nil {
		if isNotFound(err) {
			return context.JSON(http.StatusNotFound, "Document not found")
		}
		Logger.Error("Unable to fetch document for share", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	var request createShareRequest
	if err := context.Bind(&request); err != nil {
		return context.JSON(http.StatusBadRequest, "Invalid share request")
	}

	now := time.Now()
	shareULID, err := database.CalculateULID(now)
	if err != nil {
		Logger.Error("Cannot generate share ULID", "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}
	token, err := database.NewShareToken()
	if err != nil {
		Logger.Error("Cannot generate share token", "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	share := &database.Share{
		ULID:         shareULID,
		DocumentULID: ulidStr,
		Token:        token,
		CanSave:      request.CanSave,
		CanDownload:  request.CanDownload,
		CreatedAt:    now,
	}
	if request.ExpiresInHours > 0 {
		expires := now.Add(time.Duration(request.ExpiresInHours) * time.Hour)
		share.ExpiresAt = &expires
	}

	if err := serverHandler.DB.SaveShare(share); err != nil {
		Logger.Error("Unable to save share", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	return context.JSON(http.StatusOK, serverHandler.toShareResponse(share))
}

// GetShares lists all share links for a document
func (serverHandler *ServerHandler) GetShares(context echo.Context) error {
	ulidStr := context.Param("id")

	shares, err := serverHandler.DB.GetSharesForDocument(ulidStr)
	if err != nil {
		Logger.Error("Unable to fetch shares", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}

	responses := make([]shareResponse, 0, len(shares))
	for i := range shares {
		responses = append(responses, serverHandler.toShareResponse(&shares[i]))
	}
	return context.JSON(http.StatusOK, responses)
}

// DeleteShare revokes a share link
func (serverHandler *ServerHandler) DeleteShare(context echo.Context) error {
	ulidStr := context.Param("id")

	if err := serverHandler.DB.DeleteShare(ulidStr); err != nil {
		if isNotFound(err) {
			return context.JSON(http.StatusNotFound, "Share not found")
		}
		Logger.Error("Unable to delete share", "ulid", ulidStr, "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}
	return context.JSON(http.StatusOK, "Share Deleted")
}

type resolveShareResponse struct {
	Document    documentResponse `json:"document"`
	CanSave     bool             `json:"canSave"`
	CanDownload bool             `json:"canDownload"`
}

// ResolveShare answers what a share token grants: the document metadata
// plus the save/download permissions. Expired links answer 410.
func (serverHandler *ServerHandler) ResolveShare(context echo.Context) error {
	token := context.Param("token")

	share, err := serverHandler.DB.GetShareByToken(token)
	if err != nil {
		if isNotFound(err) {
			return context.JSON(http.StatusNotFound, "Unknown share link")
		}
		Logger.Error("Unable to resolve share", "error", err)
		return context.JSON(http.StatusInternalServerError, err)
	}
	if share.Expired() {
		return context.JSON(http.StatusGone, "Share link expired")
	}

	document, err := serverHandler.DB.GetDocumentByULID(share.DocumentULID)
	if err != nil {
		Logger.Error("Share points at missing document", "documentUlid", share.DocumentULID, "error", err)
		return context.JSON(http.StatusNotFound, "Shared document no longer exists")
	}

	return context.JSON(http.StatusOK, resolveShareResponse{
		Document:    toDocumentResponse(document),
		CanSave:     share.CanSave,
		CanDownload: share.CanDownload,
	})
}
