package webapp

import (
	"strings"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// App is the root component of the application
type App struct {
	app.Compo
}

// Render renders the app
func (a *App) Render() app.UI {
	return app.Div().
		Class("app-container").
		Body(
			app.Header().Body(
				&NavBar{},
			),
			app.Main().Class("main-content").Body(
				app.Div().Class("content").Body(
					a.renderPage(),
				),
			),
		)
}

// renderPage renders the current page based on the route
func (a *App) renderPage() app.UI {
	path := app.Window().URL().Path
	switch {
	case path == "/":
		return &HomePage{}
	case path == "/search":
		return &SearchPage{}
	case path == "/jobs":
		return &JobsPage{}
	case strings.HasPrefix(path, "/viewer/"):
		return &ViewerPage{DocumentULID: strings.TrimPrefix(path, "/viewer/")}
	case strings.HasPrefix(path, "/share/"):
		return &SharePage{Token: strings.TrimPrefix(path, "/share/")}
	default:
		return &NotFoundPage{}
	}
}
