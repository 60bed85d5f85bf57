package webapp

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/maxence-charriere/go-app/v10/pkg/app"

	"github.com/calverton/docshare/viewer"
)

// navbarHeight is subtracted from the window height to get the space
// actually available to the page frame.
const navbarHeight = 120

// ViewerPage displays one document and drives the viewport state:
// page navigation, zoom, rotation, fit mode and the two-page spread.
type ViewerPage struct {
	app.Compo
	DocumentULID string

	document Document
	state    *viewer.State
	comments []Comment
	share    *Share

	jumpInput   string
	commentBody string
	loading     bool
	error       string

	releaseResize func()
}

// OnMount is called when the component is mounted
func (v *ViewerPage) OnMount(ctx app.Context) {
	v.loading = true
	v.loadDocument(ctx)
	v.loadComments(ctx)

	resizeHandler := app.FuncOf(func(this app.Value, args []app.Value) any {
		if v.state != nil {
			v.state.HandleResize(v.containerSize())
		}
		return nil
	})
	app.Window().Call("addEventListener", "resize", resizeHandler)
	v.releaseResize = func() {
		app.Window().Call("removeEventListener", "resize", resizeHandler)
		resizeHandler.Release()
	}
}

// OnDismount is called when the component is unmounted
func (v *ViewerPage) OnDismount() {
	if v.releaseResize != nil {
		v.releaseResize()
	}
}

// containerSize reads the space available for the page frame
func (v *ViewerPage) containerSize() viewer.Size {
	if !app.IsClient {
		return viewer.Size{}
	}
	window := app.Window()
	return viewer.Size{
		Width:  window.Get("innerWidth").Float(),
		Height: window.Get("innerHeight").Float() - navbarHeight,
	}
}

// loadDocument fetches the document metadata, then asks the server for
// the initial viewport
func (v *ViewerPage) loadDocument(ctx app.Context) {
	url := BuildAPIURL("/api/document/" + v.DocumentULID)
	fetchJSON(ctx, url, func(ctx app.Context, status int, body string) {
		v.loading = false
		if status == 404 {
			v.error = "Document not found"
			return
		}
		if status < 200 || status >= 300 {
			v.error = fmt.Sprintf("Server answered %d", status)
			return
		}
		if err := json.Unmarshal([]byte(body), &v.document); err != nil {
			v.error = fmt.Sprintf("Failed to parse response: %v", err)
			return
		}

		v.loadViewport(ctx)
	})
}

// loadViewport fetches the server-computed initial viewer state for the
// current container size. If the endpoint is unreachable the state is
// seeded from the document metadata instead.
func (v *ViewerPage) loadViewport(ctx app.Context) {
	container := v.containerSize()
	url := BuildAPIURL(fmt.Sprintf("/api/document/%s/viewport?width=%.0f&height=%.0f",
		v.DocumentULID, container.Width, container.Height))
	fetchJSON(ctx, url, func(ctx app.Context, status int, body string) {
		vp := Viewport{
			TotalPages: v.document.PageCount,
			PageWidth:  v.document.PageWidth,
			PageHeight: v.document.PageHeight,
		}
		if status >= 200 && status < 300 {
			// A parse failure leaves the metadata fallback in place.
			json.Unmarshal([]byte(body), &vp)
		}
		v.seedState(vp, container)
	})
}

// seedState builds the viewer state from the viewport the server
// computed for this document and container.
func (v *ViewerPage) seedState(vp Viewport, container viewer.Size) {
	v.state = viewer.NewState(vp.TotalPages, container.Width)
	if vp.PageWidth > 0 && vp.PageHeight > 0 {
		v.state.SetIntrinsic(viewer.Size{Width: vp.PageWidth, Height: vp.PageHeight}, container)
	}
}

// loadComments fetches the comment thread
func (v *ViewerPage) loadComments(ctx app.Context) {
	url := BuildAPIURL("/api/document/" + v.DocumentULID + "/comments")
	fetchJSON(ctx, url, func(ctx app.Context, status int, body string) {
		if status < 200 || status >= 300 || body == "" {
			return
		}
		var comments []Comment
		if err := json.Unmarshal([]byte(body), &comments); err == nil {
			v.comments = comments
		}
	})
}

// Render renders the viewer page
func (v *ViewerPage) Render() app.UI {
	if v.loading {
		return app.Div().Class("loading").Body(app.Text("Loading..."))
	}
	if v.error != "" {
		return app.Div().Class("error").Body(app.Text("Error: " + v.error))
	}
	if v.state == nil {
		return app.Div()
	}

	return app.Div().
		Class("viewer-page").
		Body(
			app.H2().Text(v.document.Name),
			v.renderToolbar(),
			v.renderFrame(),
			v.renderSharePanel(),
			v.renderComments(),
		)
}

// renderToolbar renders the viewer controls
func (v *ViewerPage) renderToolbar() app.UI {
	fitLabel := "Fit page"
	if v.state.Fit == viewer.FitPage {
		fitLabel = "Fit width"
	}
	spreadLabel := "Two pages"
	if v.state.SideBySide {
		spreadLabel = "One page"
	}

	return app.Div().Class("viewer-toolbar").Body(
		app.Div().Class("toolbar-group").Body(
			app.Button().
				Class("toolbar-btn").
				Disabled(v.state.Page <= 1).
				OnClick(v.onPrevPage).
				Body(app.Text("Previous")),
			app.Span().Class("page-indicator").Body(
				app.Text(fmt.Sprintf("Page %d / %d", v.state.Page, v.state.TotalPages)),
			),
			app.Button().
				Class("toolbar-btn").
				Disabled(v.state.Page >= v.state.TotalPages).
				OnClick(v.onNextPage).
				Body(app.Text("Next")),
			app.Input().
				Type("number").
				Class("page-jump").
				Min(1).
				Max(v.state.TotalPages).
				Placeholder("Go to").
				Value(v.jumpInput).
				OnInput(func(ctx app.Context, e app.Event) {
					v.jumpInput = ctx.JSSrc().Get("value").String()
				}).
				OnKeyDown(func(ctx app.Context, e app.Event) {
					if e.Get("key").String() == "Enter" {
						v.onJump(ctx, e)
					}
				}),
		),
		app.Div().Class("toolbar-group").Body(
			app.Button().
				Class("toolbar-btn").
				OnClick(v.onZoomOut).
				Body(app.Text("-")),
			app.Span().Class("zoom-indicator").Body(
				app.Text(fmt.Sprintf("%d%%", int(v.state.Scale*100+0.5))),
			),
			app.Button().
				Class("toolbar-btn").
				OnClick(v.onZoomIn).
				Body(app.Text("+")),
			app.Button().
				Class("toolbar-btn").
				OnClick(v.onToggleFit).
				Body(app.Text(fitLabel)),
		),
		app.Div().Class("toolbar-group").Body(
			app.Button().
				Class("toolbar-btn").
				OnClick(v.onRotate).
				Body(app.Text("Rotate")),
			app.Button().
				Class("toolbar-btn").
				OnClick(v.onToggleSideBySide).
				Body(app.Text(spreadLabel)),
			app.A().
				Class("toolbar-btn").
				Href(BuildAPIURL("/document/download/"+v.DocumentULID)).
				Body(app.Text("Download")),
		),
	)
}

// renderFrame renders the document at the computed size and rotation
func (v *ViewerPage) renderFrame() app.UI {
	src := BuildAPIURL(fmt.Sprintf("/document/view/%s#page=%d", v.DocumentULID, v.state.Page))

	frame := app.IFrame().
		Class("viewer-frame").
		Src(src).
		Style("transform", fmt.Sprintf("rotate(%ddeg)", v.state.Rotation))

	rendered := v.state.RenderedSize()
	if rendered.Width > 0 {
		frame = frame.
			Style("width", fmt.Sprintf("%.0fpx", rendered.Width)).
			Style("height", fmt.Sprintf("%.0fpx", rendered.Height))
	}

	return app.Div().Class("viewer-frame-container").Body(frame)
}

// renderSharePanel renders the share link controls
func (v *ViewerPage) renderSharePanel() app.UI {
	var linkUI app.UI
	if v.share != nil {
		linkUI = app.Div().Class("share-link").Body(
			app.Text("Share link: "),
			app.A().Href(v.share.ShareURL).Target("_blank").Text(v.share.ShareURL),
		)
	}

	return app.Div().Class("share-panel").Body(
		app.Button().
			Class("toolbar-btn").
			OnClick(v.onCreateShare).
			Body(app.Text("Create share link")),
		linkUI,
	)
}

// renderComments renders the comment thread and the new-comment form
func (v *ViewerPage) renderComments() app.UI {
	return app.Div().Class("comments-panel").Body(
		app.H3().Text(fmt.Sprintf("Comments (%d)", len(v.comments))),
		app.Div().Class("comment-list").Body(
			app.Range(v.comments).Slice(func(i int) app.UI {
				comment := v.comments[i]
				return app.Div().Class("comment").Body(
					app.Strong().Text(comment.Author),
					app.Span().Class("comment-page").Text(fmt.Sprintf(" on page %d", comment.Page)),
					app.P().Text(comment.Body),
				)
			}),
		),
		app.Div().Class("comment-form").Body(
			app.Input().
				Type("text").
				Class("comment-input").
				Placeholder("Add a comment on this page...").
				Value(v.commentBody).
				OnInput(func(ctx app.Context, e app.Event) {
					v.commentBody = ctx.JSSrc().Get("value").String()
				}),
			app.Button().
				Class("toolbar-btn").
				Disabled(v.commentBody == "").
				OnClick(v.onAddComment).
				Body(app.Text("Post")),
		),
	)
}

func (v *ViewerPage) onPrevPage(ctx app.Context, e app.Event) { v.state.PrevPage() }
func (v *ViewerPage) onNextPage(ctx app.Context, e app.Event) { v.state.NextPage() }

func (v *ViewerPage) onJump(ctx app.Context, e app.Event) {
	page, err := strconv.Atoi(v.jumpInput)
	if err != nil {
		return
	}
	if v.state.JumpToPage(page) {
		v.jumpInput = ""
	}
}

func (v *ViewerPage) onZoomIn(ctx app.Context, e app.Event)  { v.state.Zoom(0.1) }
func (v *ViewerPage) onZoomOut(ctx app.Context, e app.Event) { v.state.Zoom(-0.1) }

func (v *ViewerPage) onToggleFit(ctx app.Context, e app.Event) {
	v.state.ToggleFit(v.containerSize())
}

func (v *ViewerPage) onRotate(ctx app.Context, e app.Event) {
	v.state.Rotate(90)
	// Rotation swaps the constraining axis, so an active fit must recompute.
	v.state.ApplyFit(v.containerSize())
}

func (v *ViewerPage) onToggleSideBySide(ctx app.Context, e app.Event) {
	v.state.ToggleSideBySide(v.containerSize())
}

// onCreateShare mints a view-only share link for this document
func (v *ViewerPage) onCreateShare(ctx app.Context, e app.Event) {
	url := BuildAPIURL("/api/document/" + v.DocumentULID + "/share")
	postJSON(ctx, url, `{"canSave": false, "canDownload": true}`,
		func(ctx app.Context, status int, body string) {
			if status < 200 || status >= 300 {
				v.error = fmt.Sprintf("Could not create share link (status %d)", status)
				return
			}
			var share Share
			if err := json.Unmarshal([]byte(body), &share); err == nil {
				v.share = &share
			}
		})
}

// onAddComment posts a comment anchored to the current page
func (v *ViewerPage) onAddComment(ctx app.Context, e app.Event) {
	payload, err := json.Marshal(map[string]any{
		"page": v.state.Page,
		"body": v.commentBody,
	})
	if err != nil {
		return
	}

	url := BuildAPIURL("/api/document/" + v.DocumentULID + "/comments")
	postJSON(ctx, url, string(payload), func(ctx app.Context, status int, body string) {
		if status < 200 || status >= 300 {
			v.error = fmt.Sprintf("Could not post comment (status %d)", status)
			return
		}
		v.commentBody = ""
		v.loadComments(ctx)
	})
}
