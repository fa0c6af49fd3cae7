package host

import (
	"context"
	"fmt"
	"strings"

	"github.com/tracerlab/spectrack/pkg/query"
)

// queryableFields guards the raw read-only path: only the tracking fields the
// module reasons about may be targeted by set-based lookups.
var queryableFields = query.NewProjectionMap(map[string]string{
	"specimen_name":      "specimen_name",
	"box_record_id":      "box_record_id",
	"box_position":       "box_position",
	"csid":               "csid",
	"cuid":               "cuid",
	"box_name":           "box_name",
	"box_status":         "box_status",
	"box_type":           "box_type",
	"sample_type":        "sample_type",
	"shipment_record_id": "shipment_record_id",
	"shipment_name":      "shipment_name",
	"shipment_status":    "shipment_status",
})

// NamePair is a row from a set-based name lookup: the record id, the matched
// name value, and a second linked field value when one was requested.
type NamePair struct {
	RecordID string
	Name     string
	Linked   string
}

// NameQuery describes a set-based lookup over a single name field, optionally
// joined with one linked field per record.
type NameQuery struct {
	ProjectID int
	Field     string
	Linked    string
	Pattern   string
	Regex     bool
	Exclude   string
}

// NamesMatching runs a raw join across the entity-attribute-value table,
// returning every record whose Field value matches Pattern. Regex switches
// between exact equality and the store's pattern-match operator. Exclude
// drops one name from the result set. The query path is strictly read-only.
func (s *Store) NamesMatching(ctx context.Context, q NameQuery) ([]NamePair, error) {
	field, err := queryableFields.Column(q.Field)
	if err != nil {
		return nil, err
	}

	linked := field
	if q.Linked != "" {
		if linked, err = queryableFields.Column(q.Linked); err != nil {
			return nil, err
		}
	}

	operator := "="
	if q.Regex {
		operator = "~"
	}

	builder := query.NewBuilder("d1.record_id", "d1.value", "COALESCE(d2.value, '')").
		From("record_data d1").
		Join(`LEFT JOIN record_data d2
			ON d2.project_id = d1.project_id
			AND d2.record_id = d1.record_id
			AND d2.field_name = `+literal(linked)).
		Where("d1.project_id = %s", q.ProjectID).
		Where("d1.field_name = %s", field).
		Where("d1.value "+operator+" %s", q.Pattern).
		OrderBy("d1.value")

	if q.Exclude != "" {
		builder.Where("d1.value <> %s", q.Exclude)
	}

	stmt, args := builder.Build()

	return s.query(ctx, stmt, args...)
}

// RecordIDsMatching returns the ids of records whose Field value contains the
// search term, case-insensitively.
func (s *Store) RecordIDsMatching(ctx context.Context, projectID int, field, search string) ([]string, error) {
	column, err := queryableFields.Column(field)
	if err != nil {
		return nil, err
	}

	stmt, args := query.NewBuilder("record_id", "value", "''").
		From("record_data").
		Where("project_id = %s", projectID).
		Where("field_name = %s", column).
		Where("value ILIKE %s", "%"+escapeLike(search)+"%").
		OrderBy("value").
		Build()

	pairs, err := s.query(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(pairs))
	for i, pair := range pairs {
		ids[i] = pair.RecordID
	}

	return ids, nil
}

// query executes a raw statement after verifying it cannot mutate the store.
func (s *Store) query(ctx context.Context, stmt string, args ...any) ([]NamePair, error) {
	if err := assertReadOnly(stmt); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("raw query: %w", err)
	}
	defer rows.Close()

	var pairs []NamePair

	for rows.Next() {
		var pair NamePair
		if err := rows.Scan(&pair.RecordID, &pair.Name, &pair.Linked); err != nil {
			return nil, fmt.Errorf("scan raw query row: %w", err)
		}

		pairs = append(pairs, pair)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("raw query: %w", err)
	}

	return pairs, nil
}

func assertReadOnly(stmt string) error {
	trimmed := strings.ToUpper(strings.TrimSpace(stmt))
	if !strings.HasPrefix(trimmed, "SELECT") {
		return fmt.Errorf("raw query path is read-only")
	}

	return nil
}

// literal embeds a validated field name as a SQL string literal. Only names
// vetted by queryableFields reach this point.
func literal(field string) string {
	return "'" + strings.ReplaceAll(field, "'", "''") + "'"
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}
