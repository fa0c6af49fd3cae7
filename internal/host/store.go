// Package host adapts the data-capture platform's record storage. Records
// live in a generic entity-attribute-value table, one row per
// project/record/field/value, and are pivoted into field maps on read.
package host

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tracerlab/spectrack/pkg/repository"
)

// FieldMap holds the field values of a single record.
type FieldMap map[string]string

// RecordSet maps record ids to their field values.
type RecordSet map[string]FieldMap

// GetOptions narrows a record read. Zero-value slices and maps impose no
// restriction.
type GetOptions struct {
	Records []string
	Fields  []string
	Filter  FieldMap
}

// Store provides record read, write, delete, and id reservation over the
// host's entity-attribute-value table, plus a small set of read-only raw
// query paths for set-based lookups.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With("system", "host"),
	}
}

// GetRecords reads records from a project and pivots the value rows into
// per-record field maps. Filter conditions are applied after the pivot so a
// record matches only when every filtered field carries the required value.
func (s *Store) GetRecords(ctx context.Context, projectID int, opts GetOptions) (RecordSet, error) {
	query := `
		SELECT record_id, field_name, value
		FROM record_data
		WHERE project_id = $1`
	args := []any{projectID}

	if len(opts.Records) > 0 {
		query += fmt.Sprintf(" AND record_id = ANY($%d)", len(args)+1)
		args = append(args, textArray(opts.Records))
	}

	rows, err := s.db.QueryContext(ctx, query+" ORDER BY record_id", args...)
	if err != nil {
		return nil, fmt.Errorf("read records for project %d: %w", projectID, err)
	}
	defer rows.Close()

	records := make(RecordSet)

	for rows.Next() {
		var recordID, fieldName, value string
		if err := rows.Scan(&recordID, &fieldName, &value); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}

		fields, ok := records[recordID]
		if !ok {
			fields = make(FieldMap)
			records[recordID] = fields
		}

		fields[fieldName] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read records for project %d: %w", projectID, err)
	}

	for recordID, fields := range records {
		if !matchesFilter(fields, opts.Filter) {
			delete(records, recordID)
			continue
		}

		if len(opts.Fields) > 0 {
			records[recordID] = projectFields(fields, opts.Fields)
		}
	}

	return records, nil
}

// SaveRecords writes records with overwrite semantics. For every record, each
// named field's existing value rows are replaced in a single transaction.
// Empty values delete the field rather than storing a blank row.
func (s *Store) SaveRecords(ctx context.Context, projectID int, records RecordSet) error {
	if len(records) == 0 {
		return nil
	}

	return repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for recordID, fields := range records {
			for field, value := range fields {
				if _, err := tx.ExecContext(ctx, `
					DELETE FROM record_data
					WHERE project_id = $1 AND record_id = $2 AND field_name = $3`,
					projectID, recordID, field,
				); err != nil {
					return fmt.Errorf("clear field %s on record %s: %w", field, recordID, err)
				}

				if value == "" {
					continue
				}

				if _, err := tx.ExecContext(ctx, `
					INSERT INTO record_data (project_id, record_id, field_name, value)
					VALUES ($1, $2, $3, $4)`,
					projectID, recordID, field, value,
				); err != nil {
					return fmt.Errorf("write field %s on record %s: %w", field, recordID, err)
				}
			}
		}

		return nil
	})
}

// DeleteRecord removes every value row of a record. Returns
// repository.ErrNotFound when the record has no rows.
func (s *Store) DeleteRecord(ctx context.Context, projectID int, recordID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM record_data
		WHERE project_id = $1 AND record_id = $2`,
		projectID, recordID,
	)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", recordID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record %s: %w", recordID, err)
	}

	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ReserveRecordID allocates the next record id for a project.
func (s *Store) ReserveRecordID(ctx context.Context, projectID int) (string, error) {
	var next int64

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO record_sequences (project_id, next_id)
		VALUES ($1, 1)
		ON CONFLICT (project_id)
		DO UPDATE SET next_id = record_sequences.next_id + 1
		RETURNING next_id`,
		projectID,
	).Scan(&next)
	if err != nil {
		return "", fmt.Errorf("reserve record id for project %d: %w", projectID, err)
	}

	return fmt.Sprintf("%d", next), nil
}

func matchesFilter(fields FieldMap, filter FieldMap) bool {
	for field, want := range filter {
		if fields[field] != want {
			return false
		}
	}

	return true
}

func projectFields(fields FieldMap, keep []string) FieldMap {
	projected := make(FieldMap, len(keep))

	for _, field := range keep {
		if value, ok := fields[field]; ok {
			projected[field] = value
		}
	}

	return projected
}

// textArray renders a slice as a PostgreSQL text array literal for ANY().
func textArray(values []string) string {
	escaped := make([]string, len(values))

	for i, v := range values {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		escaped[i] = `"` + v + `"`
	}

	return "{" + strings.Join(escaped, ",") + "}"
}
