// Package api assembles the tracking API module: the action dispatch
// endpoint, the manifest export endpoint, and the domain systems behind them.
package api

import (
	"net/http"

	"github.com/tracerlab/spectrack/internal/config"
	"github.com/tracerlab/spectrack/internal/infrastructure"
	"github.com/tracerlab/spectrack/pkg/middleware"
	"github.com/tracerlab/spectrack/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)
	h := newHandler(domain, runtime.Logger)

	mux := http.NewServeMux()
	registerRoutes(mux, h)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(middleware.RequestID())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
