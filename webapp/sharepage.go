package webapp

import (
	"encoding/json"
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// SharePage displays a document reached through a share link. The token
// decides what the visitor is allowed to do.
type SharePage struct {
	app.Compo
	Token string

	resolved ResolvedShare
	loading  bool
	expired  bool
	error    string
}

// OnMount is called when the component is mounted
func (s *SharePage) OnMount(ctx app.Context) {
	s.loading = true

	url := BuildAPIURL("/api/share/" + s.Token)
	fetchJSON(ctx, url, func(ctx app.Context, status int, body string) {
		s.loading = false
		switch {
		case status == 410:
			s.expired = true
		case status == 404:
			s.error = "This share link does not exist"
		case status < 200 || status >= 300:
			s.error = fmt.Sprintf("Server answered %d", status)
		default:
			if err := json.Unmarshal([]byte(body), &s.resolved); err != nil {
				s.error = fmt.Sprintf("Failed to parse response: %v", err)
			}
		}
	})
}

// Render renders the share page
func (s *SharePage) Render() app.UI {
	if s.loading {
		return app.Div().Class("loading").Body(app.Text("Loading..."))
	}
	if s.expired {
		return app.Div().Class("share-expired").Body(
			app.H2().Text("Link expired"),
			app.P().Text("This share link is no longer valid. Ask the owner for a new one."),
		)
	}
	if s.error != "" {
		return app.Div().Class("error").Body(app.Text("Error: " + s.error))
	}

	document := s.resolved.Document

	var downloadUI app.UI
	if s.resolved.CanDownload {
		downloadURL := BuildAPIURL(fmt.Sprintf("/document/download/%s?token=%s", document.ULID, s.Token))
		downloadUI = app.A().
			Class("toolbar-btn").
			Href(downloadURL).
			Body(app.Text("Download"))
	}

	return app.Div().
		Class("share-page").
		Body(
			app.H2().Text(document.Name),
			app.P().Class("share-note").Text("Shared document"),
			app.Div().Class("share-actions").Body(downloadUI),
			app.Div().Class("viewer-frame-container").Body(
				app.IFrame().
					Class("viewer-frame").
					Src(BuildAPIURL(document.DocumentURL)),
			),
		)
}
