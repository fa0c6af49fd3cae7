package configuration

import (
	"context"
	"fmt"
	"strings"

	"github.com/tracerlab/spectrack/internal/host"
)

// ProjectSource materializes project handles for an activated configuration.
type ProjectSource interface {
	GetProject(ctx context.Context, projectID int) (*host.Project, error)
}

// Context binds the active configuration for one request plus the three
// materialized project handles. It may be set at most once; the guard catches
// programming errors, not concurrent access.
type Context struct {
	config   *Configuration
	box      *host.Project
	specimen *host.Project
	shipment *host.Project
}

func NewContext() *Context {
	return &Context{}
}

// Activate binds the configuration and fetches its project handles. Fails
// with ErrContextSet on a second call and ErrInvalidConfiguration when the
// configuration carries errors or a linked project lacks the module.
func (c *Context) Activate(ctx context.Context, cfg *Configuration, projects ProjectSource) error {
	if c.config != nil {
		return ErrContextSet
	}

	if !cfg.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, strings.Join(cfg.Errors, "; "))
	}

	if !cfg.Enabled() {
		return fmt.Errorf("%w: a linked project does not have the module enabled", ErrInvalidConfiguration)
	}

	box, err := projects.GetProject(ctx, cfg.BoxProjectID)
	if err != nil {
		return fmt.Errorf("load box project %d: %w", cfg.BoxProjectID, err)
	}

	specimen, err := projects.GetProject(ctx, cfg.SpecimenProjectID)
	if err != nil {
		return fmt.Errorf("load specimen project %d: %w", cfg.SpecimenProjectID, err)
	}

	shipment, err := projects.GetProject(ctx, cfg.ShipmentProjectID)
	if err != nil {
		return fmt.Errorf("load shipment project %d: %w", cfg.ShipmentProjectID, err)
	}

	c.config = cfg
	c.box = box
	c.specimen = specimen
	c.shipment = shipment

	return nil
}

// Active reports whether a configuration has been bound.
func (c *Context) Active() bool {
	return c.config != nil
}

// Config returns the bound configuration, or nil before activation.
func (c *Context) Config() *Configuration {
	return c.config
}

func (c *Context) BoxProject() *host.Project {
	return c.box
}

func (c *Context) SpecimenProject() *host.Project {
	return c.specimen
}

func (c *Context) ShipmentProject() *host.Project {
	return c.shipment
}
