package specimens

import (
	"context"
	"strings"

	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/host"
)

// Get loads one specimen record and its owning box when linked.
func (s *Service) Get(ctx context.Context, cfg *configuration.Configuration, recordID string) (host.FieldMap, host.FieldMap, error) {
	if strings.TrimSpace(recordID) == "" {
		return nil, nil, ErrMissingRecordID
	}

	records, err := s.store.GetRecords(ctx, cfg.SpecimenProjectID, host.GetOptions{
		Records: []string{recordID},
	})
	if err != nil {
		return nil, nil, err
	}

	specimen, ok := records[recordID]
	if !ok {
		return nil, nil, ErrSpecimenNotFound
	}

	boxRecordID := specimen[FieldBoxRecordID]
	if boxRecordID == "" {
		return specimen, nil, nil
	}

	boxes, err := s.store.GetRecords(ctx, cfg.BoxProjectID, host.GetOptions{
		Records: []string{boxRecordID},
	})
	if err != nil {
		return nil, nil, err
	}

	return specimen, boxes[boxRecordID], nil
}

// Save writes a specimen with overwrite semantics. Unknown fields are dropped
// against the specimen dictionary, a missing record id reserves a new one,
// and new records get their form status initialized. Returns the record as
// stored.
func (s *Service) Save(ctx context.Context, cfg *configuration.Configuration, payload host.FieldMap) (host.FieldMap, error) {
	if strings.TrimSpace(payload[FieldName]) == "" {
		return nil, ErrMissingName
	}

	fields, err := s.store.Dictionary(ctx, cfg.SpecimenProjectID)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(fields))
	forms := make(map[string]bool)
	for _, field := range fields {
		known[field.Name] = true
		if field.Form != "" {
			forms[field.Form] = true
		}
	}

	recordID := payload["record_id"]
	isNew := recordID == ""

	if isNew {
		recordID, err = s.store.ReserveRecordID(ctx, cfg.SpecimenProjectID)
		if err != nil {
			return nil, err
		}
	}

	record := make(host.FieldMap, len(payload))
	for field, value := range payload {
		if field == "record_id" {
			continue
		}

		if known[field] || host.IsFormStatusField(field) {
			record[field] = value
		}
	}

	if isNew {
		for form := range forms {
			status := form + "_complete"
			if record[status] == "" {
				record[status] = "0"
			}
		}
	}

	if err := s.store.SaveRecords(ctx, cfg.SpecimenProjectID, host.RecordSet{recordID: record}); err != nil {
		return nil, err
	}

	s.logger.Info("specimen saved",
		"project", cfg.SpecimenProjectID,
		"record", recordID,
		"new", isNew,
	)

	saved, err := s.store.GetRecords(ctx, cfg.SpecimenProjectID, host.GetOptions{
		Records: []string{recordID},
	})
	if err != nil {
		return nil, err
	}

	result := saved[recordID]
	if result == nil {
		result = host.FieldMap{}
	}
	result["record_id"] = recordID

	return result, nil
}

// Delete removes a specimen record.
func (s *Service) Delete(ctx context.Context, cfg *configuration.Configuration, recordID string) error {
	if strings.TrimSpace(recordID) == "" {
		return ErrMissingRecordID
	}

	if err := s.store.DeleteRecord(ctx, cfg.SpecimenProjectID, recordID); err != nil {
		return err
	}

	s.logger.Info("specimen deleted",
		"project", cfg.SpecimenProjectID,
		"record", recordID,
	)

	return nil
}
