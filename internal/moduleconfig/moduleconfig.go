// Package moduleconfig loads and saves the module's persisted configuration
// blob, stored whole under a box-project-scoped setting key.
package moduleconfig

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/fieldconfig"
	"github.com/tracerlab/spectrack/internal/host"
)

const settingKey = "module-config"

// General holds the settings shared by every surface of one configuration.
type General struct {
	StudyName         string `json:"study_name" validate:"required"`
	BoxNameRegex      string `json:"box_name_regex" validate:"required"`
	SpecimenNameRegex string `json:"specimen_name_regex" validate:"required"`
	WarningAckField   string `json:"warning_ack_field"`
}

// Config is the full persisted configuration blob. Saves replace it whole;
// there is no partial patching.
type Config struct {
	General        General               `json:"general"`
	BoxFields      fieldconfig.Persisted `json:"box_fields"`
	SpecimenFields fieldconfig.Persisted `json:"specimen_fields"`
	ShipmentFields fieldconfig.Persisted `json:"shipment_fields"`
}

// FieldsFor returns the persisted field overrides for a project role.
func (c *Config) FieldsFor(role string) fieldconfig.Persisted {
	switch role {
	case configuration.RoleBox:
		return c.BoxFields
	case configuration.RoleSpecimen:
		return c.SpecimenFields
	case configuration.RoleShipment:
		return c.ShipmentFields
	default:
		return nil
	}
}

// Service reads and writes the configuration blob.
type Service struct {
	store    *host.Store
	validate *validator.Validate
	logger   *slog.Logger
}

func NewService(store *host.Store, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With("system", "moduleconfig"),
	}
}

// Load reads the blob for a configuration's box project. A missing blob
// yields an empty configuration rather than an error.
func (s *Service) Load(ctx context.Context, boxProjectID int) (*Config, error) {
	cfg := &Config{}

	if err := s.store.ProjectSetting(ctx, boxProjectID, settingKey, cfg); err != nil {
		return nil, fmt.Errorf("load module config: %w", err)
	}

	return cfg, nil
}

// Save validates and replaces the blob for a configuration's box project.
func (s *Service) Save(ctx context.Context, boxProjectID int, cfg *Config) error {
	if err := s.validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPayload, validationDetail(err))
	}

	if err := s.store.SetProjectSetting(ctx, boxProjectID, settingKey, cfg); err != nil {
		return fmt.Errorf("save module config: %w", err)
	}

	s.logger.Info("module config saved", "project", boxProjectID)

	return nil
}

func validationDetail(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err.Error()
	}

	detail := ""
	for i, fieldErr := range errs {
		if i > 0 {
			detail += "; "
		}
		detail += fmt.Sprintf("%s failed %s validation", fieldErr.Namespace(), fieldErr.Tag())
	}

	return detail
}
