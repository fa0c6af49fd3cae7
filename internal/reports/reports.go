// Package reports assembles the cross-project reporting table: one row per
// specimen, joined through its box to the owning shipment.
package reports

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/fieldconfig"
	"github.com/tracerlab/spectrack/internal/host"
	"github.com/tracerlab/spectrack/pkg/formatting"
)

// Column identifies one reporting-table column and the project it comes from.
type Column struct {
	Role  string `json:"role"`
	Name  string `json:"field_name"`
	Label string `json:"label"`
}

// Report is the assembled reporting-table payload. GeneratedAt is the
// display form of the export moment; Timestamp is the filename-safe form.
type Report struct {
	Fields      []Column        `json:"fields"`
	Rows        []host.FieldMap `json:"data"`
	GeneratedAt string          `json:"datetime"`
	Timestamp   string          `json:"timestamp"`
}

// Store is the record storage surface the report service depends on.
// Satisfied by host.Store.
type Store interface {
	GetRecords(ctx context.Context, projectID int, opts host.GetOptions) (host.RecordSet, error)
}

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With("system", "reports"),
	}
}

// Build fetches all three projects concurrently and merges each specimen with
// its box and shipment. Columns are the reporting-table-enabled fields per
// role; merge precedence is shipment, then box, then specimen.
func (s *Service) Build(ctx context.Context, cfg *configuration.Configuration, fieldsByRole map[string][]fieldconfig.FieldConfig) (*Report, error) {
	var specimens, boxes, shipments host.RecordSet

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		specimens, err = s.store.GetRecords(gctx, cfg.SpecimenProjectID, host.GetOptions{})
		return err
	})

	g.Go(func() error {
		var err error
		boxes, err = s.store.GetRecords(gctx, cfg.BoxProjectID, host.GetOptions{})
		return err
	})

	g.Go(func() error {
		var err error
		shipments, err = s.store.GetRecords(gctx, cfg.ShipmentProjectID, host.GetOptions{})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now()

	report := &Report{
		Fields:      columns(fieldsByRole),
		Rows:        make([]host.FieldMap, 0, len(specimens)),
		GeneratedAt: now.Format("01/02/2006 15:04:05"),
		Timestamp:   now.Format("20060102_150405"),
	}

	for recordID, specimen := range specimens {
		row := make(host.FieldMap)

		if box, ok := boxes[specimen["box_record_id"]]; ok {
			if shipment, ok := shipments[box["shipment_record_id"]]; ok {
				merge(row, shipment)
			}

			merge(row, box)
		}

		merge(row, specimen)
		row["record_id"] = recordID

		report.Rows = append(report.Rows, row)
	}

	sort.Slice(report.Rows, func(i, j int) bool {
		return formatting.RecordSortKey(report.Rows[i]["specimen_name"]) <
			formatting.RecordSortKey(report.Rows[j]["specimen_name"])
	})

	return report, nil
}

// columns lists the reporting-table-enabled fields in box, specimen,
// shipment order.
func columns(fieldsByRole map[string][]fieldconfig.FieldConfig) []Column {
	var cols []Column

	for _, role := range []string{configuration.RoleBox, configuration.RoleSpecimen, configuration.RoleShipment} {
		for _, field := range fieldsByRole[role] {
			if field.Surfaces[fieldconfig.SurfaceReportingTable] {
				cols = append(cols, Column{
					Role:  role,
					Name:  field.Name,
					Label: field.Label,
				})
			}
		}
	}

	return cols
}

func merge(dest, src host.FieldMap) {
	for field, value := range src {
		dest[field] = value
	}
}
