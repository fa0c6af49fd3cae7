package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/fieldconfig"
	"github.com/tracerlab/spectrack/internal/moduleconfig"
)

// scope is the per-request resolution state: the configuration registry
// rebuilt from host settings, the configuration owning the request's project,
// and the one-shot active context. The registry lives only for the request;
// host settings stay authoritative.
type scope struct {
	projectID int
	registry  *configuration.Registry
	config    *configuration.Configuration
	context   *configuration.Context
}

// resolveScope loads the registry and resolves the requesting project's
// configuration without activating it. Config-dashboard actions operate on
// errored configurations too.
func (h *handler) resolveScope(r *http.Request) (*scope, error) {
	pid := r.URL.Query().Get("pid")
	if pid == "" {
		return nil, errMissingProjectID
	}

	projectID, err := strconv.Atoi(pid)
	if err != nil || projectID <= 0 {
		return nil, fmt.Errorf("%w: %q", errInvalidProjectID, pid)
	}

	registry, err := h.domain.Resolver.Load(r.Context())
	if err != nil {
		return nil, err
	}

	config, err := registry.ForProject(projectID)
	if err != nil {
		return nil, err
	}

	return &scope{
		projectID: projectID,
		registry:  registry,
		config:    config,
		context:   configuration.NewContext(),
	}, nil
}

// activate binds the scope's configuration, failing on errored or disabled
// configurations. Most actions require an active context.
func (h *handler) activate(r *http.Request, s *scope) error {
	return s.context.Activate(r.Context(), s.config, h.domain.Store)
}

// fieldConfigs builds the per-role field configurations from the persisted
// module config blob and each project's dictionary.
func (h *handler) fieldConfigs(r *http.Request, s *scope) (*moduleconfig.Config, map[string][]fieldconfig.FieldConfig, error) {
	blob, err := h.domain.ModuleConfig.Load(r.Context(), s.config.BoxProjectID)
	if err != nil {
		return nil, nil, err
	}

	projects := map[string]int{
		configuration.RoleBox:      s.config.BoxProjectID,
		configuration.RoleSpecimen: s.config.SpecimenProjectID,
		configuration.RoleShipment: s.config.ShipmentProjectID,
	}

	byRole := make(map[string][]fieldconfig.FieldConfig, len(projects))

	for role, projectID := range projects {
		fields, err := h.domain.Store.Dictionary(r.Context(), projectID)
		if err != nil {
			return nil, nil, err
		}

		pattern := s.config.BoxNameRegex
		if role == configuration.RoleSpecimen {
			pattern = s.config.SpecimenNameRegex
		}

		byRole[role] = fieldconfig.Build(role, pattern, fields, blob.FieldsFor(role))
	}

	return blob, byRole, nil
}
