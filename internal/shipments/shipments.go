// Package shipments manages shipment records, the boxes assigned to them,
// and the completion workflow that closes shipped boxes.
package shipments

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/host"
	"github.com/tracerlab/spectrack/internal/nomenclature"
	"github.com/tracerlab/spectrack/pkg/formatting"
)

// Well-known shipment project fields.
const (
	FieldName   = "shipment_name"
	FieldStatus = "shipment_status"
	FieldDate   = "shipment_date"
	FieldTo     = "shipment_to"
)

// Shipment statuses.
const (
	StatusIncomplete = "incomplete"
	StatusComplete   = "complete"
)

// Box project fields the shipment workflow touches.
const (
	boxShipmentField = "shipment_record_id"
	boxStatusField   = "box_status"
	boxNameField     = "box_name"
	boxStatusClosed  = "closed"
)

// Store is the record storage surface the shipment service depends on.
// Satisfied by host.Store.
type Store interface {
	GetRecords(ctx context.Context, projectID int, opts host.GetOptions) (host.RecordSet, error)
	SaveRecords(ctx context.Context, projectID int, records host.RecordSet) error
	Dictionary(ctx context.Context, projectID int) ([]host.Field, error)
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With("system", "shipments"),
	}
}

// Get loads one shipment record.
func (s *Service) Get(ctx context.Context, cfg *configuration.Configuration, recordID string) (host.FieldMap, error) {
	if strings.TrimSpace(recordID) == "" {
		return nil, ErrMissingRecordID
	}

	records, err := s.store.GetRecords(ctx, cfg.ShipmentProjectID, host.GetOptions{
		Records: []string{recordID},
	})
	if err != nil {
		return nil, err
	}

	shipment, ok := records[recordID]
	if !ok {
		return nil, ErrShipmentNotFound
	}

	return withRecordID(recordID, shipment), nil
}

// List returns every shipment with display values resolved against the
// shipment dictionary, ordered by name.
func (s *Service) List(ctx context.Context, cfg *configuration.Configuration) ([]host.FieldMap, error) {
	records, err := s.store.GetRecords(ctx, cfg.ShipmentProjectID, host.GetOptions{})
	if err != nil {
		return nil, err
	}

	fields, err := s.store.Dictionary(ctx, cfg.ShipmentProjectID)
	if err != nil {
		return nil, err
	}

	shipments := make([]host.FieldMap, 0, len(records))
	for recordID, record := range records {
		shipments = append(shipments, withRecordID(recordID, displayed(fields, record)))
	}

	sort.Slice(shipments, func(i, j int) bool {
		return formatting.RecordSortKey(shipments[i][FieldName]) < formatting.RecordSortKey(shipments[j][FieldName])
	})

	return shipments, nil
}

// Boxes returns the boxes assigned to a shipment with display values and the
// parsed box name attached, ordered by name.
func (s *Service) Boxes(ctx context.Context, cfg *configuration.Configuration, shipmentRecordID string) ([]BoxEntry, error) {
	records, err := s.store.GetRecords(ctx, cfg.BoxProjectID, host.GetOptions{
		Filter: host.FieldMap{boxShipmentField: shipmentRecordID},
	})
	if err != nil {
		return nil, err
	}

	fields, err := s.store.Dictionary(ctx, cfg.BoxProjectID)
	if err != nil {
		return nil, err
	}

	entries := make([]BoxEntry, 0, len(records))

	for recordID, record := range records {
		parsed, err := nomenclature.Parse(record[boxNameField], cfg.BoxNameRegex)
		if err != nil {
			return nil, err
		}

		entries = append(entries, BoxEntry{
			Box:        withRecordID(recordID, displayed(fields, record)),
			NameParsed: parsed,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return formatting.RecordSortKey(entries[i].Box[boxNameField]) < formatting.RecordSortKey(entries[j].Box[boxNameField])
	})

	return entries, nil
}

// BoxEntry is a shipment box with its parsed name.
type BoxEntry struct {
	Box        host.FieldMap       `json:"box"`
	NameParsed nomenclature.Parsed `json:"name_parsed"`
}

// Fields returns the shipment dictionary without form-status pseudo-fields.
func (s *Service) Fields(ctx context.Context, cfg *configuration.Configuration) ([]host.Field, error) {
	fields, err := s.store.Dictionary(ctx, cfg.ShipmentProjectID)
	if err != nil {
		return nil, err
	}

	kept := make([]host.Field, 0, len(fields))
	for _, field := range fields {
		if !host.IsFormStatusField(field.Name) {
			kept = append(kept, field)
		}
	}

	return kept, nil
}

// UpdateStatus sets a shipment's status. Setting the status it already holds
// is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, cfg *configuration.Configuration, recordID, status string) error {
	shipment, err := s.Get(ctx, cfg, recordID)
	if err != nil {
		return err
	}

	if shipment[FieldStatus] == status {
		return nil
	}

	return s.store.SaveRecords(ctx, cfg.ShipmentProjectID, host.RecordSet{
		recordID: {FieldStatus: status},
	})
}

// Complete marks a shipment complete and closes every box assigned to it.
// The store offers no multi-record transaction, so a box-close failure
// triggers a compensating revert of the shipment status. The original error
// is what gets reported, not the revert's outcome.
func (s *Service) Complete(ctx context.Context, cfg *configuration.Configuration, recordID string) error {
	shipment, err := s.Get(ctx, cfg, recordID)
	if err != nil {
		return err
	}

	if shipment[FieldStatus] == StatusComplete {
		return ErrAlreadyComplete
	}

	previous := shipment[FieldStatus]

	if err := s.store.SaveRecords(ctx, cfg.ShipmentProjectID, host.RecordSet{
		recordID: {FieldStatus: StatusComplete},
	}); err != nil {
		return fmt.Errorf("mark shipment complete: %w", err)
	}

	if err := s.closeBoxes(ctx, cfg, recordID); err != nil {
		if revertErr := s.store.SaveRecords(ctx, cfg.ShipmentProjectID, host.RecordSet{
			recordID: {FieldStatus: previous},
		}); revertErr != nil {
			s.logger.Error("shipment status revert failed",
				"record", recordID,
				"error", revertErr,
			)
		}

		return fmt.Errorf("close shipment boxes: %w", err)
	}

	s.logger.Info("shipment completed",
		"project", cfg.ShipmentProjectID,
		"record", recordID,
	)

	return nil
}

func (s *Service) closeBoxes(ctx context.Context, cfg *configuration.Configuration, shipmentRecordID string) error {
	boxes, err := s.store.GetRecords(ctx, cfg.BoxProjectID, host.GetOptions{
		Filter: host.FieldMap{boxShipmentField: shipmentRecordID},
	})
	if err != nil {
		return err
	}

	if len(boxes) == 0 {
		return nil
	}

	updates := make(host.RecordSet, len(boxes))
	for recordID := range boxes {
		updates[recordID] = host.FieldMap{boxStatusField: boxStatusClosed}
	}

	return s.store.SaveRecords(ctx, cfg.BoxProjectID, updates)
}

// AssignBox links a box to a shipment, or unlinks it when shipmentRecordID
// is empty. The box must exist, and so must the shipment when given.
func (s *Service) AssignBox(ctx context.Context, cfg *configuration.Configuration, boxRecordID, shipmentRecordID string) error {
	if strings.TrimSpace(boxRecordID) == "" {
		return ErrMissingRecordID
	}

	boxes, err := s.store.GetRecords(ctx, cfg.BoxProjectID, host.GetOptions{
		Records: []string{boxRecordID},
	})
	if err != nil {
		return err
	}

	if _, ok := boxes[boxRecordID]; !ok {
		return ErrBoxNotFound
	}

	if shipmentRecordID != "" {
		if _, err := s.Get(ctx, cfg, shipmentRecordID); err != nil {
			return err
		}
	}

	return s.store.SaveRecords(ctx, cfg.BoxProjectID, host.RecordSet{
		boxRecordID: {boxShipmentField: shipmentRecordID},
	})
}

func withRecordID(recordID string, fields host.FieldMap) host.FieldMap {
	record := make(host.FieldMap, len(fields)+1)
	for field, value := range fields {
		record[field] = value
	}
	record["record_id"] = recordID

	return record
}

// displayed resolves stored values to their display form per the dictionary.
func displayed(fields []host.Field, record host.FieldMap) host.FieldMap {
	byName := make(map[string]host.Field, len(fields))
	for _, field := range fields {
		byName[field.Name] = field
	}

	resolved := make(host.FieldMap, len(record))
	for name, value := range record {
		if field, ok := byName[name]; ok {
			resolved[name] = host.DisplayValue(field, value)
		} else {
			resolved[name] = value
		}
	}

	return resolved
}
