package main

import (
	"embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	config "github.com/calverton/docshare/config"
	database "github.com/calverton/docshare/database"
	engine "github.com/calverton/docshare/engine"
	"github.com/calverton/docshare/storage"
	"github.com/calverton/docshare/thumbnail"
	"github.com/calverton/docshare/webapp"
)

//go:embed webapp/webapp.css
var webappFS embed.FS

// Logger is global since we will need it everywhere
var Logger *slog.Logger

// injectGlobals injects all of our globals into their packages
func injectGlobals(logger *slog.Logger) {
	Logger = logger
	database.Logger = Logger
	config.Logger = Logger
	engine.Logger = Logger
	thumbnail.Logger = Logger
}

func main() {
	serverConfig, logger := config.SetupServer()
	injectGlobals(logger) //inject the logger into all of the packages

	// Show info banner if using ephemeral database
	if serverConfig.DatabaseType == "ephemeral" {
		fmt.Println("\n" + strings.Repeat("=", 50))
		fmt.Println("  EPHEMERAL DATABASE MODE")
		fmt.Println(strings.Repeat("=", 50))
		fmt.Println("• Database will be destroyed on exit")
		fmt.Println("• Perfect for testing and development")
		fmt.Println("• No persistent data storage")
		fmt.Println(strings.Repeat("=", 50) + "\n")
	}

	// Setup database (handles ephemeral, postgres, cockroachdb, sqlite)
	Logger.Info("Setting up database", "type", serverConfig.DatabaseType)
	db, err := database.NewRepository(serverConfig)
	if err != nil {
		Logger.Error("Failed to set up database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	Logger.Info("Database setup complete")

	store, err := storage.NewFileStore(serverConfig.StoragePath)
	if err != nil {
		Logger.Error("Failed to set up object storage", "path", serverConfig.StoragePath, "error", err)
		os.Exit(1)
	}
	Logger.Info("Object storage ready", "path", serverConfig.StoragePath)

	// The renderer is optional: without one the server still works, it
	// just cannot produce thumbnails or page geometry.
	renderer, err := thumbnail.NewEngine(serverConfig.ThumbnailRenderer)
	if err != nil {
		Logger.Warn("PDF renderer unavailable", "renderer", serverConfig.ThumbnailRenderer, "error", err)
		renderer = nil
	}
	rendererFactory := func() (thumbnail.Engine, error) {
		if renderer == nil {
			return nil, fmt.Errorf("renderer %q unavailable", serverConfig.ThumbnailRenderer)
		}
		return renderer, nil
	}

	rasterizer := thumbnail.NewRasterizer(rendererFactory, nil,
		time.Duration(serverConfig.ThumbnailTimeout)*time.Second)
	thumbnails := thumbnail.NewCache(serverConfig.ThumbnailCacheSize)

	e := echo.New()
	Logger.Info("Echo created")

	// Custom 404 handler
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}

		// For 404 errors, serve custom HTML page
		if code == http.StatusNotFound {
			// Check if this is an API request
			if strings.HasPrefix(c.Request().URL.Path, "/api/") {
				// Return JSON for API endpoints
				c.JSON(http.StatusNotFound, map[string]string{
					"error":   "Not Found",
					"message": "The requested API endpoint does not exist",
					"path":    c.Request().URL.Path,
				})
				return
			}

			c.HTML(http.StatusNotFound, `<!DOCTYPE html>
<html>
<head><title>404 - Not Found</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
	<h1>404 - Page Not Found</h1>
	<p>The page you're looking for doesn't exist.</p>
	<a href="/" style="color: #3498db; text-decoration: none; font-size: 18px;">Go to Home Page</a>
</body>
</html>`)
			return
		}

		// For other errors, use default handler
		e.DefaultHTTPErrorHandler(err, c)
	}

	serverHandler := engine.ServerHandler{
		DB:           db,
		Echo:         e,
		Store:        store,
		Renderer:     renderer,
		Rasterizer:   rasterizer,
		Thumbnails:   thumbnails,
		ServerConfig: serverConfig,
	}
	Logger.Info("About to initialize schedules")
	serverHandler.InitializeSchedules(db) //initialize all the cron jobs
	Logger.Info("Schedules initialized, about to run startup checks")
	serverHandler.StartupChecks() //Run all the sanity checks
	Logger.Info("Startup checks complete")
	e.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig))

	Logger.Info("Setting up go-app WASM UI")
	appHandler := webapp.Handler()

	// Serve wasm_exec.js and the compiled app.wasm from the web directory
	// (populated by the wasm build step)
	e.File("/wasm_exec.js", "web/wasm_exec.js")
	e.Static("/web", "web")
	e.File("/favicon.ico", "web/favicon.ico")

	// Register go-app specific resources
	e.GET("/app.js", echo.WrapHandler(appHandler))
	e.GET("/app.css", echo.WrapHandler(appHandler))
	e.GET("/manifest.webmanifest", echo.WrapHandler(appHandler))

	// Serve CSS from the embedded filesystem
	e.GET("/webapp/webapp.css", func(c echo.Context) error {
		data, err := webappFS.ReadFile("webapp/webapp.css")
		if err != nil {
			return c.String(http.StatusNotFound, "webapp.css not found")
		}
		return c.Blob(http.StatusOK, "text/css", data)
	})

	// Inject backend API URL into the page
	e.GET("/config.js", func(c echo.Context) error {
		configJS := fmt.Sprintf(`
// docShare Frontend Configuration
window.docshareConfig = {
    apiURL: "%s",
    latestDocumentCount: %d
};
`, serverConfig.ServerAPIURL, serverConfig.LatestDocumentCount)
		c.Response().Header().Set("Content-Type", "application/javascript")
		return c.String(http.StatusOK, configJS)
	})

	// Document API routes
	e.GET("/api/documents/latest", serverHandler.GetLatestDocuments)
	e.GET("/api/documents", serverHandler.GetDocuments)
	e.GET("/api/document/:id", serverHandler.GetDocument)
	e.DELETE("/api/document/:id", serverHandler.DeleteDocument)
	e.POST("/api/document/upload", serverHandler.UploadDocument)
	e.GET("/api/document/:id/viewport", serverHandler.GetViewport)
	e.GET("/api/document/:id/thumbnail", serverHandler.GetThumbnail)

	// Share API routes
	e.POST("/api/document/:id/share", serverHandler.CreateShare)
	e.GET("/api/document/:id/shares", serverHandler.GetShares)
	e.GET("/api/share/:token", serverHandler.ResolveShare)
	e.DELETE("/api/shares/:id", serverHandler.DeleteShare)

	// Comment and annotation API routes
	e.POST("/api/document/:id/comments", serverHandler.CreateComment)
	e.GET("/api/document/:id/comments", serverHandler.GetComments)
	e.DELETE("/api/comments/:id", serverHandler.DeleteComment)
	e.POST("/api/document/:id/annotations", serverHandler.SaveAnnotation)
	e.GET("/api/document/:id/annotations", serverHandler.GetAnnotations)
	e.DELETE("/api/annotations/:id", serverHandler.DeleteAnnotation)

	// Search API routes
	e.GET("/api/search", serverHandler.SearchDocuments)

	// Job tracking API routes
	e.GET("/api/jobs", serverHandler.GetRecentJobs)
	e.GET("/api/jobs/active", serverHandler.GetActiveJobs)
	e.GET("/api/jobs/:id", serverHandler.GetJob)
	e.POST("/api/jobs/backfill", serverHandler.RunBackfillNow)

	// Document view routes (serve actual files - not JSON, so not under /api/*)
	e.GET("/document/view/:id", serverHandler.ViewDocument)
	e.GET("/document/download/:id", serverHandler.DownloadDocument)

	// Serve go-app handler for all other routes (must be last)
	// The WASM app handles its own client-side routing and 404s via NotFoundPage component
	e.Any("/*", echo.WrapHandler(appHandler))

	if serverConfig.ListenAddrIP == "" {
		Logger.Info("No Ip Addr set, binding on ALL addresses")
	}

	Logger.Info("Starting HTTP server")

	// Try to start server with automatic port increment if port is in use
	maxRetries := 5
	startPort := serverConfig.ListenAddrPort
	var startErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		addr := fmt.Sprintf("%s:%s", serverConfig.ListenAddrIP, serverConfig.ListenAddrPort)
		Logger.Info("Attempting to start server", "address", addr, "attempt", attempt+1)

		startErr = e.Start(addr)

		// Check if error is "address already in use"
		if startErr != nil && isAddressInUse(startErr) {
			Logger.Warn("Port already in use, trying next port",
				"port", serverConfig.ListenAddrPort,
				"attempt", attempt+1,
				"max_attempts", maxRetries)

			// Increment port for next attempt
			portNum := 0
			fmt.Sscanf(serverConfig.ListenAddrPort, "%d", &portNum)
			portNum++
			serverConfig.ListenAddrPort = fmt.Sprintf("%d", portNum)

			if attempt == maxRetries-1 {
				Logger.Error("Failed to find available port after maximum retries",
					"start_port", startPort,
					"end_port", serverConfig.ListenAddrPort,
					"max_retries", maxRetries)
				os.Exit(1)
			}
		} else if startErr != nil {
			// Some other error occurred
			Logger.Error("Failed to start server", "error", startErr)
			os.Exit(1)
		} else {
			// Server started successfully
			break
		}
	}

	// If we got here and startErr is nil, server started successfully
	if startErr == nil && serverConfig.ListenAddrPort != startPort {
		Logger.Warn("Server started on alternative port due to conflicts",
			"requested_port", startPort,
			"actual_port", serverConfig.ListenAddrPort)
	}
}

// isAddressInUse checks if the error is due to address already in use
func isAddressInUse(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "address already in use")
}
