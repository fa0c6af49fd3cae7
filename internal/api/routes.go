package api

import (
	"net/http"

	"github.com/tracerlab/spectrack/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, h *handler) {
	routes.Register(mux, routes.Group{
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "/action", Handler: h.action},
			{Method: http.MethodPost, Pattern: "/action", Handler: h.action},
			{Method: http.MethodGet, Pattern: "/manifest", Handler: h.exportManifest},
		},
	})
}
