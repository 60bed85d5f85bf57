package webapp

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// SearchPage provides full-text search over the document library
type SearchPage struct {
	app.Compo
	searchTerm string
	results    []Document
	loading    bool
	error      string
	searched   bool
}

// OnMount is called when the component is mounted
func (s *SearchPage) OnMount(ctx app.Context) {
	// Check if there's a search term in the URL
	urlPath := ctx.Page().URL()
	if urlObj, err := url.Parse(urlPath.String()); err == nil {
		if term := urlObj.Query().Get("term"); term != "" {
			s.searchTerm = term
			s.performSearch(ctx)
		}
	}
}

// Render renders the search page
func (s *SearchPage) Render() app.UI {
	var content app.UI

	if s.loading {
		content = app.Div().Class("loading").Body(app.Text("Searching..."))
	} else if s.error != "" {
		content = app.Div().Class("error").Body(app.Text("Error: " + s.error))
	} else if s.searched && len(s.results) == 0 {
		content = app.Div().Class("no-results").Body(app.Text("No results found for: " + s.searchTerm))
	} else if s.searched {
		content = app.Div().Class("search-results").Body(
			app.H3().Text(fmt.Sprintf("Found %d results", len(s.results))),
			app.Div().Class("document-grid").Body(
				app.Range(s.results).Slice(func(i int) app.UI {
					return &DocumentCard{Document: s.results[i]}
				}),
			),
		)
	}

	return app.Div().
		Class("search-page").
		Body(
			app.H2().Text("Search Documents"),
			app.Div().Class("search-form").Body(
				app.Input().
					Type("text").
					Class("search-input").
					Placeholder("Enter search term...").
					Value(s.searchTerm).
					OnInput(func(ctx app.Context, e app.Event) {
						s.searchTerm = ctx.JSSrc().Get("value").String()
					}).
					OnKeyDown(func(ctx app.Context, e app.Event) {
						if e.Get("key").String() == "Enter" {
							s.performSearch(ctx)
						}
					}),
				app.Button().
					Class("search-button").
					Text("Search").
					OnClick(func(ctx app.Context, e app.Event) {
						s.performSearch(ctx)
					}),
			),
			content,
		)
}

// performSearch executes the search
func (s *SearchPage) performSearch(ctx app.Context) {
	if s.searchTerm == "" {
		s.error = "Please enter a search term"
		return
	}

	s.loading = true
	s.error = ""
	s.searched = false

	encodedTerm := url.QueryEscape(s.searchTerm)
	searchURL := BuildAPIURL(fmt.Sprintf("/api/search?term=%s", encodedTerm))

	fetchJSON(ctx, searchURL, func(ctx app.Context, status int, body string) {
		s.loading = false
		s.searched = true
		switch {
		case status == 204:
			s.results = nil
		case status < 200 || status >= 300:
			s.error = fmt.Sprintf("Server answered %d", status)
		default:
			var results []Document
			if err := json.Unmarshal([]byte(body), &results); err != nil {
				s.error = fmt.Sprintf("Failed to parse response: %v", err)
				return
			}
			s.results = results
		}
	})
}
