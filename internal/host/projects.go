package host

import (
	"context"
	"strings"

	"github.com/tracerlab/spectrack/pkg/repository"
)

// Project is a handle to one host-managed data project.
type Project struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	PK    string `json:"pk"`
}

// IsFormStatusField reports whether a field is the host's per-form completion
// pseudo-field rather than user data.
func IsFormStatusField(field string) bool {
	return strings.HasSuffix(field, "_complete")
}

// GetProject loads a project handle by id.
func (s *Store) GetProject(ctx context.Context, projectID int) (*Project, error) {
	return repository.QueryOne(ctx, s.db, `
		SELECT project_id, title, record_id_field
		FROM projects
		WHERE project_id = $1`,
		func(sc repository.Scanner) (*Project, error) {
			p := &Project{}
			if err := sc.Scan(&p.ID, &p.Title, &p.PK); err != nil {
				return nil, err
			}
			return p, nil
		},
		projectID,
	)
}

// EnabledProjectIDs returns the ids of every project the tracking module is
// enabled on, read from the host's system settings.
func (s *Store) EnabledProjectIDs(ctx context.Context) ([]int, error) {
	var ids []int
	if err := s.SystemSetting(ctx, "enabled-projects", &ids); err != nil {
		return nil, err
	}

	return ids, nil
}
