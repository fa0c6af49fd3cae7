package host

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SystemSetting reads a module-wide setting and unmarshals its JSON value
// into dest. A missing key leaves dest untouched.
func (s *Store) SystemSetting(ctx context.Context, key string, dest any) error {
	var raw []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT value
		FROM system_settings
		WHERE key = $1`,
		key,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("read system setting %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode system setting %s: %w", key, err)
	}

	return nil
}

// ProjectSetting reads a project-scoped setting and unmarshals its JSON value
// into dest. A missing key leaves dest untouched.
func (s *Store) ProjectSetting(ctx context.Context, projectID int, key string, dest any) error {
	var raw []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT value
		FROM project_settings
		WHERE project_id = $1 AND key = $2`,
		projectID, key,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("read project setting %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode project setting %s: %w", key, err)
	}

	return nil
}

// SetProjectSetting stores a project-scoped setting as JSON, replacing any
// existing value.
func (s *Store) SetProjectSetting(ctx context.Context, projectID int, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode project setting %s: %w", key, err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO project_settings (project_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, key)
		DO UPDATE SET value = EXCLUDED.value`,
		projectID, key, raw,
	); err != nil {
		return fmt.Errorf("write project setting %s: %w", key, err)
	}

	return nil
}
