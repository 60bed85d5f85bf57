package webapp

import (
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// GetAPIBaseURL returns the configured API base URL.
// It reads from window.docshareConfig.apiURL if available,
// otherwise falls back to empty string (relative URLs)
func GetAPIBaseURL() string {
	if !app.IsClient {
		return "" // Server-side rendering - use relative URLs
	}

	config := app.Window().Get("docshareConfig")
	if config.Truthy() {
		apiURL := config.Get("apiURL")
		if apiURL.Truthy() {
			url := apiURL.String()
			if len(url) > 0 && url[len(url)-1] == '/' {
				return url[:len(url)-1]
			}
			return url
		}
	}

	// Fallback to relative URLs (same origin)
	return ""
}

// BuildAPIURL constructs a full API URL from a path
// Example: BuildAPIURL("/api/documents/latest") -> "http://backend:8000/api/documents/latest"
// or just "/api/documents/latest" if using relative URLs
func BuildAPIURL(path string) string {
	baseURL := GetAPIBaseURL()
	if baseURL == "" {
		return path // Relative URL
	}
	return baseURL + path
}

// fetchJSON runs a browser fetch and hands the HTTP status plus the
// response body (as a JSON string) to done on the UI goroutine. A
// network error is reported as status 0 with an empty body.
func fetchJSON(ctx app.Context, url string, done func(ctx app.Context, status int, body string)) {
	ctx.Async(func() {
		res := app.Window().Call("fetch", url)

		res.Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
			if len(args) == 0 {
				return nil
			}
			response := args[0]
			status := response.Get("status").Int()

			if status == 204 {
				ctx.Dispatch(func(ctx app.Context) { done(ctx, status, "") })
				return nil
			}

			response.Call("json").Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
				if len(args) == 0 {
					return nil
				}
				jsonStr := app.Window().Get("JSON").Call("stringify", args[0]).String()
				ctx.Dispatch(func(ctx app.Context) { done(ctx, status, jsonStr) })
				return nil
			}))

			return nil
		})).Call("catch", app.FuncOf(func(this app.Value, args []app.Value) any {
			ctx.Dispatch(func(ctx app.Context) { done(ctx, 0, "") })
			return nil
		}))
	})
}

// postJSON issues a fetch POST with a JSON body and reports like fetchJSON.
func postJSON(ctx app.Context, url, body string, done func(ctx app.Context, status int, responseBody string)) {
	ctx.Async(func() {
		options := map[string]any{
			"method":  "POST",
			"headers": map[string]any{"Content-Type": "application/json"},
			"body":    body,
		}
		res := app.Window().Call("fetch", url, options)

		res.Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
			if len(args) == 0 {
				return nil
			}
			response := args[0]
			status := response.Get("status").Int()

			response.Call("json").Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
				if len(args) == 0 {
					return nil
				}
				jsonStr := app.Window().Get("JSON").Call("stringify", args[0]).String()
				ctx.Dispatch(func(ctx app.Context) { done(ctx, status, jsonStr) })
				return nil
			}))

			return nil
		})).Call("catch", app.FuncOf(func(this app.Value, args []app.Value) any {
			ctx.Dispatch(func(ctx app.Context) { done(ctx, 0, "") })
			return nil
		}))
	})
}

// Document is a document as the API reports it
type Document struct {
	ULID         string  `json:"ulid"`
	Name         string  `json:"name"`
	IngressTime  string  `json:"ingressTime"`
	DocumentType string  `json:"documentType"`
	PageCount    int     `json:"pageCount"`
	PageWidth    float64 `json:"pageWidth"`
	PageHeight   float64 `json:"pageHeight"`
	DocumentURL  string  `json:"documentURL"`
	ThumbnailURL string  `json:"thumbnailURL"`
	HasThumbnail bool    `json:"hasThumbnail"`
}

// PaginatedResponse represents the paginated document listing
type PaginatedResponse struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	PageSize  int        `json:"pageSize"`
}

// Viewport is the initial viewer state the API computes for a document
type Viewport struct {
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	Scale      float64 `json:"scale"`
	Rotation   int     `json:"rotation"`
	Fit        string  `json:"fit"`
	SideBySide bool    `json:"sideBySide"`
	PageWidth  float64 `json:"pageWidth"`
	PageHeight float64 `json:"pageHeight"`
}

// Share is a share link as the API reports it
type Share struct {
	ULID         string `json:"ulid"`
	DocumentULID string `json:"documentUlid"`
	Token        string `json:"token"`
	ShareURL     string `json:"shareURL"`
	CanSave      bool   `json:"canSave"`
	CanDownload  bool   `json:"canDownload"`
	ExpiresAt    string `json:"expiresAt,omitempty"`
	CreatedAt    string `json:"createdAt"`
}

// ResolvedShare is what a share token grants
type ResolvedShare struct {
	Document    Document `json:"document"`
	CanSave     bool     `json:"canSave"`
	CanDownload bool     `json:"canDownload"`
}

// Comment is a page comment as the API reports it. The backend
// marshals its comment struct without tags, hence the field names.
type Comment struct {
	ULID         string `json:"ULID"`
	DocumentULID string `json:"DocumentULID"`
	Page         int    `json:"Page"`
	Author       string `json:"Author"`
	Body         string `json:"Body"`
	CreatedAt    string `json:"CreatedAt"`
}

// Job represents a background job
type Job struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	CurrentStep string `json:"currentStep"`
	TotalSteps  int    `json:"totalSteps"`
	Message     string `json:"message"`
	Error       string `json:"error,omitempty"`
	Result      string `json:"result,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	StartedAt   string `json:"startedAt,omitempty"`
	CompletedAt string `json:"completedAt,omitempty"`
}
