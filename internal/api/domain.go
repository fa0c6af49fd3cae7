package api

import (
	"github.com/tracerlab/spectrack/internal/boxes"
	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/host"
	"github.com/tracerlab/spectrack/internal/manifest"
	"github.com/tracerlab/spectrack/internal/moduleconfig"
	"github.com/tracerlab/spectrack/internal/reports"
	"github.com/tracerlab/spectrack/internal/shipments"
	"github.com/tracerlab/spectrack/internal/specimens"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Store        *host.Store
	Resolver     *configuration.Resolver
	ModuleConfig *moduleconfig.Service
	Specimens    *specimens.Service
	Boxes        *boxes.Service
	Shipments    *shipments.Service
	Reports      *reports.Service
	Manifest     *manifest.Service
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	store := host.NewStore(runtime.Database.Connection(), runtime.Logger)

	return &Domain{
		Store:        store,
		Resolver:     configuration.NewResolver(store, runtime.Logger),
		ModuleConfig: moduleconfig.NewService(store, runtime.Logger),
		Specimens:    specimens.NewService(store, runtime.Logger),
		Boxes:        boxes.NewService(store, runtime.Logger),
		Shipments:    shipments.NewService(store, runtime.Logger),
		Reports:      reports.NewService(store, runtime.Logger),
		Manifest:     manifest.NewService(store, runtime.Storage, runtime.Logger),
	}
}
