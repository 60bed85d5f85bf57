//go:build js && wasm
// +build js,wasm

package main

import (
	"github.com/calverton/docshare/webapp"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

func main() {
	// Register routes for the client-side app - all use the App component
	app.Route("/", func() app.Composer { return &webapp.App{} })
	app.Route("/search", func() app.Composer { return &webapp.App{} })
	app.Route("/jobs", func() app.Composer { return &webapp.App{} })
	app.RouteWithRegexp("^/viewer/.*$", func() app.Composer { return &webapp.App{} })
	app.RouteWithRegexp("^/share/.*$", func() app.Composer { return &webapp.App{} })

	// This main function is for the WASM build only
	// It initializes the go-app when running in the browser
	app.RunWhenOnBrowser()
}
