// Package specimens implements specimen search with hierarchical fallback
// matching, cross-record identifier validation, and specimen record
// operations.
package specimens

import (
	"context"
	"log/slog"

	"github.com/tracerlab/spectrack/internal/host"
)

// Well-known specimen project fields.
const (
	FieldName        = "specimen_name"
	FieldBoxRecordID = "box_record_id"
	FieldBoxPosition = "box_position"
	FieldCSID        = "csid"
	FieldCUID        = "cuid"
)

// Well-known box project fields.
const (
	FieldBoxName    = "box_name"
	FieldBoxType    = "box_type"
	FieldSampleType = "sample_type"
)

// Store is the record storage surface the specimen service depends on.
// Satisfied by host.Store.
type Store interface {
	GetRecords(ctx context.Context, projectID int, opts host.GetOptions) (host.RecordSet, error)
	SaveRecords(ctx context.Context, projectID int, records host.RecordSet) error
	DeleteRecord(ctx context.Context, projectID int, recordID string) error
	ReserveRecordID(ctx context.Context, projectID int) (string, error)
	NamesMatching(ctx context.Context, q host.NameQuery) ([]host.NamePair, error)
	Dictionary(ctx context.Context, projectID int) ([]host.Field, error)
}

// Service wires specimen matching, validation, and record operations over
// the host store.
type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With("system", "specimens"),
	}
}
