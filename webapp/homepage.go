package webapp

import (
	"encoding/json"
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// HomePage displays the document library with pagination and upload
type HomePage struct {
	app.Compo
	documents   []Document
	currentPage int
	pageSize    int
	total       int
	loading     bool
	uploading   bool
	error       string
	notice      string
}

// OnMount is called when the component is mounted
func (h *HomePage) OnMount(ctx app.Context) {
	h.currentPage = 1
	h.loading = true
	h.fetchDocuments(ctx, 1)
}

// fetchDocuments fetches one page of documents
func (h *HomePage) fetchDocuments(ctx app.Context, page int) {
	url := BuildAPIURL(fmt.Sprintf("/api/documents?page=%d", page))
	fetchJSON(ctx, url, func(ctx app.Context, status int, body string) {
		h.loading = false
		if status < 200 || status >= 300 {
			h.error = fmt.Sprintf("Server answered %d", status)
			return
		}
		var resp PaginatedResponse
		if err := json.Unmarshal([]byte(body), &resp); err != nil {
			h.error = fmt.Sprintf("Failed to parse response: %v", err)
			return
		}
		h.documents = resp.Documents
		h.currentPage = resp.Page
		h.pageSize = resp.PageSize
		h.total = resp.Total
	})
}

// totalPages computes the page count from the listing totals
func (h *HomePage) totalPages() int {
	if h.pageSize < 1 {
		return 1
	}
	pages := (h.total + h.pageSize - 1) / h.pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// onPageChange handles page navigation
func (h *HomePage) onPageChange(page int) func(ctx app.Context, e app.Event) {
	return func(ctx app.Context, e app.Event) {
		e.PreventDefault()
		h.loading = true
		h.error = ""
		h.fetchDocuments(ctx, page)
	}
}

// onUpload sends the picked file to the upload endpoint
func (h *HomePage) onUpload(ctx app.Context, e app.Event) {
	files := ctx.JSSrc().Get("files")
	if !files.Truthy() || files.Get("length").Int() == 0 {
		return
	}
	file := files.Index(0)

	h.uploading = true
	h.error = ""
	h.notice = ""

	ctx.Async(func() {
		form := app.Window().Get("FormData").New()
		form.Call("append", "file", file)

		options := map[string]any{
			"method": "POST",
			"body":   form,
		}
		res := app.Window().Call("fetch", BuildAPIURL("/api/document/upload"), options)

		res.Call("then", app.FuncOf(func(this app.Value, args []app.Value) any {
			if len(args) == 0 {
				return nil
			}
			status := args[0].Get("status").Int()

			ctx.Dispatch(func(ctx app.Context) {
				h.uploading = false
				switch {
				case status == 409:
					h.error = "That document is already in the library"
				case status < 200 || status >= 300:
					h.error = fmt.Sprintf("Upload failed with status %d", status)
				default:
					h.notice = "Document uploaded"
					h.loading = true
					h.fetchDocuments(ctx, 1)
				}
			})
			return nil
		})).Call("catch", app.FuncOf(func(this app.Value, args []app.Value) any {
			ctx.Dispatch(func(ctx app.Context) {
				h.uploading = false
				h.error = "Network error"
			})
			return nil
		}))
	})
}

// Render renders the home page
func (h *HomePage) Render() app.UI {
	var content app.UI

	if h.loading {
		content = app.Div().Class("loading").Body(app.Text("Loading..."))
	} else if h.error != "" {
		content = app.Div().Class("error").Body(app.Text("Error: " + h.error))
	} else if len(h.documents) == 0 {
		content = app.Div().Class("no-results").Body(app.Text("No documents yet. Upload a PDF to get started."))
	} else {
		content = app.Div().Class("document-grid").Body(
			app.Range(h.documents).Slice(func(i int) app.UI {
				return &DocumentCard{Document: h.documents[i]}
			}),
		)
	}

	uploadLabel := "Upload PDF"
	if h.uploading {
		uploadLabel = "Uploading..."
	}

	return app.Div().
		Class("home-page").
		Body(
			app.H2().Text("Documents"),
			app.Div().Class("upload-bar").Body(
				app.Label().Class("upload-button").Body(
					app.Text(uploadLabel),
					app.Input().
						Type("file").
						Accept(".pdf").
						Disabled(h.uploading).
						OnChange(h.onUpload),
				),
				app.If(h.notice != "", func() app.UI {
					return app.Span().Class("notice").Text(h.notice)
				}),
			),
			app.P().Class("page-info").Text(
				fmt.Sprintf("Page %d of %d (%d documents)",
					h.currentPage, h.totalPages(), h.total),
			),
			content,
			h.renderPagination(),
		)
}

// renderPagination renders the pagination controls
func (h *HomePage) renderPagination() app.UI {
	totalPages := h.totalPages()
	if totalPages <= 1 {
		return app.Div() // No pagination needed
	}

	return app.Div().Class("pagination").Body(
		app.Button().
			Class("pagination-btn").
			Disabled(h.currentPage <= 1 || h.loading).
			OnClick(h.onPageChange(h.currentPage-1)).
			Body(app.Text("Previous")),
		app.Span().Class("pagination-info").Body(
			app.Text(fmt.Sprintf("Page %d of %d", h.currentPage, totalPages)),
		),
		app.Button().
			Class("pagination-btn").
			Disabled(h.currentPage >= totalPages || h.loading).
			OnClick(h.onPageChange(h.currentPage+1)).
			Body(app.Text("Next")),
	)
}

// DocumentCard displays a single document card
type DocumentCard struct {
	app.Compo
	Document Document
}

// Render renders the document card
func (d *DocumentCard) Render() app.UI {
	var preview app.UI
	if d.Document.HasThumbnail {
		preview = app.Img().
			Class("document-thumbnail").
			Src(BuildAPIURL(d.Document.ThumbnailURL)).
			Alt(d.Document.Name)
	} else {
		preview = app.Div().Class("document-icon").Body(app.Text("PDF"))
	}

	pages := ""
	if d.Document.PageCount > 0 {
		pages = fmt.Sprintf("%d pages", d.Document.PageCount)
		if d.Document.PageCount == 1 {
			pages = "1 page"
		}
	}

	return app.Div().
		Class("document-card").
		Body(
			app.A().Href("/viewer/"+d.Document.ULID).Class("document-preview").Body(preview),
			app.Div().Class("document-info").Body(
				app.H3().Text(d.Document.Name),
				app.P().Class("document-date").Text("Uploaded: "+d.Document.IngressTime),
				app.If(pages != "", func() app.UI {
					return app.P().Class("document-pages").Text(pages)
				}),
				app.A().
					Href("/viewer/"+d.Document.ULID).
					Class("document-link").
					Body(app.Text("Open")),
			),
		)
}
