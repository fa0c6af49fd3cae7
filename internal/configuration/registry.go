package configuration

import "fmt"

// reference records one configuration's use of a project.
type reference struct {
	index int
	role  string
}

// Registry holds the resolved configurations for one request along with the
// reverse project-to-configuration map.
type Registry struct {
	configs   []*Configuration
	byProject map[int][]reference
}

func newRegistry(configs []*Configuration) *Registry {
	byProject := make(map[int][]reference)

	for _, cfg := range configs {
		roles := []struct {
			role string
			id   int
		}{
			{RoleBox, cfg.BoxProjectID},
			{RoleSpecimen, cfg.SpecimenProjectID},
			{RoleShipment, cfg.ShipmentProjectID},
		}

		for _, r := range roles {
			if r.id > 0 {
				byProject[r.id] = append(byProject[r.id], reference{index: cfg.Index, role: r.role})
			}
		}
	}

	return &Registry{
		configs:   configs,
		byProject: byProject,
	}
}

// flagSharedProjects appends an error to every configuration referencing a
// project that appears in more than one configuration.
func (r *Registry) flagSharedProjects() {
	for projectID, refs := range r.byProject {
		indexes := make(map[int]bool)
		for _, ref := range refs {
			indexes[ref.index] = true
		}

		if len(indexes) < 2 {
			continue
		}

		for index := range indexes {
			r.configs[index].addError("project %d is referenced in too many configurations", projectID)
		}
	}
}

// Configurations returns every resolved configuration in index order.
func (r *Registry) Configurations() []*Configuration {
	return r.configs
}

// ForProject resolves the single configuration a project belongs to. A
// project referenced exactly once returns its configuration even when that
// configuration carries errors; the detail lives inside it. Zero references
// return ErrNotConfigured and multiple references return ErrAmbiguousProject
// without revealing either side's data.
func (r *Registry) ForProject(projectID int) (*Configuration, error) {
	refs := r.byProject[projectID]

	indexes := make(map[int]bool)
	for _, ref := range refs {
		indexes[ref.index] = true
	}

	switch len(indexes) {
	case 0:
		return nil, fmt.Errorf("project %d: %w", projectID, ErrNotConfigured)
	case 1:
		return r.configs[refs[0].index], nil
	default:
		return nil, fmt.Errorf("project %d: %w", projectID, ErrAmbiguousProject)
	}
}
