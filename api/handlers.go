package api

import "time"

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(repo ContentRepository, pinger Pinger, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(repo),
		assetHandler:   newAssetHandler(repo),
		healthHandler:  newHealthHandler(pinger, startupTime),
	}
}
