package api

import (
	"github.com/tracerlab/spectrack/internal/config"
	"github.com/tracerlab/spectrack/internal/infrastructure"
)

// Runtime extends Infrastructure with a module-scoped logger.
type Runtime struct {
	*infrastructure.Infrastructure
}

// NewRuntime creates the API runtime.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
	}
}
