package engine

import (
	"strings"
)

// StartupChecks runs all the sanity checks before the server starts
// taking requests.
func (serverHandler *ServerHandler) StartupChecks() {
	serverHandler.checkStorage()
	serverHandler.checkRenderer()
	serverHandler.checkDatabase()
}

// checkStorage verifies the object store accepts writes.
func (serverHandler *ServerHandler) checkStorage() {
	const probeKey = ".startup-probe"

	if err := serverHandler.Store.Put(probeKey, strings.NewReader("ok")); err != nil {
		Logger.Error("Object store is not writable, uploads will fail",
			"path", serverHandler.ServerConfig.StoragePath, "error", err)
		return
	}
	if err := serverHandler.Store.Delete(probeKey); err != nil {
		Logger.Warn("Unable to remove storage probe", "error", err)
	}
	Logger.Info("Object store check passed", "path", serverHandler.ServerConfig.StoragePath)
}

// checkRenderer reports whether thumbnails and page geometry will work.
func (serverHandler *ServerHandler) checkRenderer() {
	if serverHandler.Renderer == nil {
		Logger.Warn("No PDF renderer available, thumbnails and page geometry are disabled",
			"renderer", serverHandler.ServerConfig.ThumbnailRenderer)
		return
	}
	Logger.Info("PDF renderer ready", "renderer", serverHandler.ServerConfig.ThumbnailRenderer)
}

// checkDatabase verifies the repository answers queries.
func (serverHandler *ServerHandler) checkDatabase() {
	if _, err := serverHandler.DB.GetNewestDocuments(1); err != nil {
		Logger.Error("Database check failed", "error", err)
		return
	}
	Logger.Info("Database check passed")
}
