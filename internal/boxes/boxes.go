// Package boxes provides box and plate lookups: dashboard loads, list
// search, and exact plate resolution with positioned specimens.
package boxes

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/host"
	"github.com/tracerlab/spectrack/pkg/formatting"
)

// Well-known box project fields.
const (
	FieldName   = "box_name"
	FieldStatus = "box_status"
	FieldType   = "box_type"
)

const specimenBoxField = "box_record_id"

// StatusAvailable marks a box still accepting specimens.
const StatusAvailable = "available"

// Store is the record storage surface the box service depends on. Satisfied
// by host.Store.
type Store interface {
	GetRecords(ctx context.Context, projectID int, opts host.GetOptions) (host.RecordSet, error)
	NamesMatching(ctx context.Context, q host.NameQuery) ([]host.NamePair, error)
	RecordIDsMatching(ctx context.Context, projectID int, field, search string) ([]string, error)
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With("system", "boxes"),
	}
}

// Get loads one box record.
func (s *Service) Get(ctx context.Context, cfg *configuration.Configuration, recordID string) (host.FieldMap, error) {
	records, err := s.store.GetRecords(ctx, cfg.BoxProjectID, host.GetOptions{
		Records: []string{recordID},
	})
	if err != nil {
		return nil, err
	}

	box, ok := records[recordID]
	if !ok {
		return nil, ErrBoxNotFound
	}

	return withRecordID(recordID, box), nil
}

// List returns boxes whose name contains the search term, or every box when
// the term is empty, ordered by name.
func (s *Service) List(ctx context.Context, cfg *configuration.Configuration, search string) ([]host.FieldMap, error) {
	opts := host.GetOptions{}

	if search = strings.TrimSpace(search); search != "" {
		ids, err := s.store.RecordIDsMatching(ctx, cfg.BoxProjectID, FieldName, search)
		if err != nil {
			return nil, err
		}

		if len(ids) == 0 {
			return []host.FieldMap{}, nil
		}

		opts.Records = ids
	}

	records, err := s.store.GetRecords(ctx, cfg.BoxProjectID, opts)
	if err != nil {
		return nil, err
	}

	return sortedByName(records), nil
}

// Available returns the boxes still accepting specimens, ordered by name.
func (s *Service) Available(ctx context.Context, cfg *configuration.Configuration) ([]host.FieldMap, error) {
	records, err := s.store.GetRecords(ctx, cfg.BoxProjectID, host.GetOptions{
		Filter: host.FieldMap{FieldStatus: StatusAvailable},
	})
	if err != nil {
		return nil, err
	}

	return sortedByName(records), nil
}

// SearchPlate resolves a box by exact name, optionally loading its specimens
// ordered by position.
func (s *Service) SearchPlate(ctx context.Context, cfg *configuration.Configuration, searchValue string, includeSpecimens bool) (host.FieldMap, []host.FieldMap, error) {
	searchValue = strings.TrimSpace(searchValue)
	if searchValue == "" {
		return nil, nil, ErrMissingSearchValue
	}

	matches, err := s.store.NamesMatching(ctx, host.NameQuery{
		ProjectID: cfg.BoxProjectID,
		Field:     FieldName,
		Pattern:   searchValue,
	})
	if err != nil {
		return nil, nil, err
	}

	if len(matches) == 0 {
		return nil, nil, ErrBoxNotFound
	}

	box, err := s.Get(ctx, cfg, matches[0].RecordID)
	if err != nil {
		return nil, nil, err
	}

	if !includeSpecimens {
		return box, nil, nil
	}

	specimens, err := s.Specimens(ctx, cfg, matches[0].RecordID)
	if err != nil {
		return nil, nil, err
	}

	return box, specimens, nil
}

// Specimens loads every specimen assigned to a box, ordered by position.
func (s *Service) Specimens(ctx context.Context, cfg *configuration.Configuration, boxRecordID string) ([]host.FieldMap, error) {
	records, err := s.store.GetRecords(ctx, cfg.SpecimenProjectID, host.GetOptions{
		Filter: host.FieldMap{specimenBoxField: boxRecordID},
	})
	if err != nil {
		return nil, err
	}

	specimens := flatten(records)

	sort.Slice(specimens, func(i, j int) bool {
		return specimens[i]["box_position"] < specimens[j]["box_position"]
	})

	return specimens, nil
}

func withRecordID(recordID string, fields host.FieldMap) host.FieldMap {
	record := make(host.FieldMap, len(fields)+1)
	for field, value := range fields {
		record[field] = value
	}
	record["record_id"] = recordID

	return record
}

func flatten(records host.RecordSet) []host.FieldMap {
	flat := make([]host.FieldMap, 0, len(records))
	for recordID, fields := range records {
		flat = append(flat, withRecordID(recordID, fields))
	}

	return flat
}

func sortedByName(records host.RecordSet) []host.FieldMap {
	flat := flatten(records)

	sort.Slice(flat, func(i, j int) bool {
		return formatting.RecordSortKey(flat[i][FieldName]) < formatting.RecordSortKey(flat[j][FieldName])
	})

	return flat
}
