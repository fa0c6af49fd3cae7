// Package manifest exports shipment manifests as CSV: one row per box and
// specimen pair belonging to the shipment, columns drawn from the configured
// manifest fields of all three projects.
package manifest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/fieldconfig"
	"github.com/tracerlab/spectrack/internal/host"
	"github.com/tracerlab/spectrack/pkg/formatting"
	"github.com/tracerlab/spectrack/pkg/storage"
)

const studyNameColumn = "study_name"

// Store is the record storage surface the manifest service depends on.
// Satisfied by host.Store.
type Store interface {
	GetRecords(ctx context.Context, projectID int, opts host.GetOptions) (host.RecordSet, error)
	Dictionary(ctx context.Context, projectID int) ([]host.Field, error)
}

// Export is a rendered manifest ready for download.
type Export struct {
	Filename string
	Content  []byte
}

// Service renders manifests and optionally archives each export to blob
// storage.
type Service struct {
	store   Store
	archive storage.System
	logger  *slog.Logger
}

// NewService creates the manifest service. A nil archive disables blob
// archiving.
func NewService(store Store, archive storage.System, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		archive: archive,
		logger:  logger.With("system", "manifest"),
	}
}

// Export renders the manifest for one shipment. Preamble rows carry the
// study name and shipment summary, then the header: the configured shipment
// manifest fields with the study name injected after the first, followed by
// the box and specimen manifest fields in configured order. Rows are ordered
// by box name, then box position. Values are resolved to their display form.
func (s *Service) Export(ctx context.Context, cfg *configuration.Configuration, shipmentRecordID string, fieldsByRole map[string][]fieldconfig.FieldConfig) (*Export, error) {
	shipments, err := s.store.GetRecords(ctx, cfg.ShipmentProjectID, host.GetOptions{
		Records: []string{shipmentRecordID},
	})
	if err != nil {
		return nil, err
	}

	shipment, ok := shipments[shipmentRecordID]
	if !ok {
		return nil, ErrShipmentNotFound
	}

	shipmentFields, err := s.store.Dictionary(ctx, cfg.ShipmentProjectID)
	if err != nil {
		return nil, err
	}

	boxFields, err := s.store.Dictionary(ctx, cfg.BoxProjectID)
	if err != nil {
		return nil, err
	}

	specimenFields, err := s.store.Dictionary(ctx, cfg.SpecimenProjectID)
	if err != nil {
		return nil, err
	}

	shipmentCols := manifestFields(fieldsByRole[configuration.RoleShipment])
	boxCols := manifestFields(fieldsByRole[configuration.RoleBox])
	specimenCols := manifestFields(fieldsByRole[configuration.RoleSpecimen])

	sampleType := displayField(shipmentFields, shipment, "sample_type")

	header := buildHeader(shipmentCols, boxCols, specimenCols)
	relabelVolume(header, sampleType, cfg.DefaultVolume)

	rows, err := s.buildRows(ctx, cfg, shipmentRecordID, shipment,
		shipmentFields, boxFields, specimenFields, shipmentCols, boxCols, specimenCols)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for _, line := range preambleRows(cfg, shipmentFields, shipment, sampleType) {
		if err := writer.Write([]string{line}); err != nil {
			return nil, fmt.Errorf("write manifest preamble: %w", err)
		}
	}

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write manifest header: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write manifest row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("render manifest: %w", err)
	}

	export := &Export{
		Filename: fmt.Sprintf("manifest-%s.csv", time.Now().Format("20060102-150405")),
		Content:  buf.Bytes(),
	}

	s.archiveExport(ctx, shipmentRecordID, export)

	return export, nil
}

// buildHeader injects the study name column after the first shipment field.
// With no shipment fields configured it leads the header.
func buildHeader(shipmentCols, boxCols, specimenCols []string) []string {
	header := make([]string, 0, len(shipmentCols)+len(boxCols)+len(specimenCols)+1)

	if len(shipmentCols) == 0 {
		header = append(header, studyNameColumn)
	} else {
		header = append(header, shipmentCols[0], studyNameColumn)
		header = append(header, shipmentCols[1:]...)
	}

	header = append(header, boxCols...)
	header = append(header, specimenCols...)

	return header
}

// preambleRows are the summary lines written above the column header, one
// CSV cell each.
func preambleRows(cfg *configuration.Configuration, shipmentFields []host.Field, shipment host.FieldMap, sampleType string) []string {
	return []string{
		"Study Name: " + cfg.StudyName,
		"Shipped To: " + displayField(shipmentFields, shipment, "shipment_to"),
		"Shipped Date: " + displayField(shipmentFields, shipment, "shipment_date"),
		"Sample Type: " + sampleType,
		"Shipment Details: ",
		"",
	}
}

// relabelVolume rewrites the volume header cell to "<sample type> (<unit>)"
// when both parts are known.
func relabelVolume(header []string, sampleType, unit string) {
	if sampleType == "" || unit == "" {
		return
	}

	for i, col := range header {
		if col == "volume" {
			header[i] = fmt.Sprintf("%s (%s)", sampleType, unit)
		}
	}
}

// displayField resolves one record field to its display form.
func displayField(fields []host.Field, record host.FieldMap, name string) string {
	value := record[name]

	for _, field := range fields {
		if field.Name == name {
			return host.DisplayValue(field, value)
		}
	}

	return value
}

func (s *Service) buildRows(ctx context.Context, cfg *configuration.Configuration, shipmentRecordID string, shipment host.FieldMap, shipmentFields, boxFields, specimenFields []host.Field, shipmentCols, boxCols, specimenCols []string) ([][]string, error) {
	boxes, err := s.store.GetRecords(ctx, cfg.BoxProjectID, host.GetOptions{
		Filter: host.FieldMap{"shipment_record_id": shipmentRecordID},
	})
	if err != nil {
		return nil, err
	}

	shipmentValues := rowValues(shipmentFields, shipment, shipmentCols)

	boxIDs := make([]string, 0, len(boxes))
	for boxID := range boxes {
		boxIDs = append(boxIDs, boxID)
	}

	sort.Slice(boxIDs, func(i, j int) bool {
		return formatting.RecordSortKey(boxes[boxIDs[i]]["box_name"]) <
			formatting.RecordSortKey(boxes[boxIDs[j]]["box_name"])
	})

	var rows [][]string

	for _, boxID := range boxIDs {
		box := boxes[boxID]
		boxValues := rowValues(boxFields, box, boxCols)

		specimens, err := s.store.GetRecords(ctx, cfg.SpecimenProjectID, host.GetOptions{
			Filter: host.FieldMap{"box_record_id": boxID},
		})
		if err != nil {
			return nil, err
		}

		specimenIDs := make([]string, 0, len(specimens))
		for specimenID := range specimens {
			specimenIDs = append(specimenIDs, specimenID)
		}

		sort.Slice(specimenIDs, func(i, j int) bool {
			return specimens[specimenIDs[i]]["box_position"] < specimens[specimenIDs[j]]["box_position"]
		})

		for _, specimenID := range specimenIDs {
			specimenValues := rowValues(specimenFields, specimens[specimenID], specimenCols)

			row := make([]string, 0, len(shipmentValues)+len(boxValues)+len(specimenValues)+1)

			if len(shipmentValues) == 0 {
				row = append(row, cfg.StudyName)
			} else {
				row = append(row, shipmentValues[0], cfg.StudyName)
				row = append(row, shipmentValues[1:]...)
			}

			row = append(row, boxValues...)
			row = append(row, specimenValues...)

			rows = append(rows, row)
		}
	}

	return rows, nil
}

// manifestFields lists the manifest-enabled field names in configured order.
func manifestFields(fields []fieldconfig.FieldConfig) []string {
	var names []string

	for _, field := range fields {
		if field.Surfaces[fieldconfig.SurfaceShipmentManifest] {
			names = append(names, field.Name)
		}
	}

	return names
}

func rowValues(dictionary []host.Field, record host.FieldMap, cols []string) []string {
	byName := make(map[string]host.Field, len(dictionary))
	for _, field := range dictionary {
		byName[field.Name] = field
	}

	values := make([]string, len(cols))
	for i, col := range cols {
		value := record[col]
		if field, ok := byName[col]; ok {
			value = host.DisplayValue(field, value)
		}
		values[i] = value
	}

	return values
}

// archiveExport uploads the rendered manifest to blob storage. Archive
// failures are logged and do not fail the export.
func (s *Service) archiveExport(ctx context.Context, shipmentRecordID string, export *Export) {
	if s.archive == nil {
		return
	}

	key := fmt.Sprintf("%s/%s-%s", shipmentRecordID, uuid.NewString(), export.Filename)

	if err := s.archive.Upload(ctx, key, bytes.NewReader(export.Content), "text/csv"); err != nil {
		s.logger.Warn("manifest archive failed",
			"shipment", shipmentRecordID,
			"key", key,
			"error", err,
		)
		return
	}

	s.logger.Info("manifest archived", "shipment", shipmentRecordID, "key", key)
}
