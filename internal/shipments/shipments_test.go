package shipments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/host"
)

type fakeStore struct {
	records map[int]host.RecordSet

	// failSaveProject makes SaveRecords fail for one project id.
	failSaveProject int
}

var errSaveFailed = errors.New("save failed")

func (f *fakeStore) GetRecords(_ context.Context, projectID int, opts host.GetOptions) (host.RecordSet, error) {
	out := make(host.RecordSet)

	wanted := make(map[string]bool, len(opts.Records))
	for _, id := range opts.Records {
		wanted[id] = true
	}

next:
	for recordID, fields := range f.records[projectID] {
		if len(wanted) > 0 && !wanted[recordID] {
			continue
		}

		for field, value := range opts.Filter {
			if fields[field] != value {
				continue next
			}
		}

		copied := make(host.FieldMap, len(fields))
		for field, value := range fields {
			copied[field] = value
		}
		out[recordID] = copied
	}

	return out, nil
}

func (f *fakeStore) SaveRecords(_ context.Context, projectID int, records host.RecordSet) error {
	if projectID == f.failSaveProject {
		return fmt.Errorf("project %d: %w", projectID, errSaveFailed)
	}

	for recordID, fields := range records {
		if f.records[projectID] == nil {
			f.records[projectID] = make(host.RecordSet)
		}
		if f.records[projectID][recordID] == nil {
			f.records[projectID][recordID] = make(host.FieldMap)
		}
		for field, value := range fields {
			f.records[projectID][recordID][field] = value
		}
	}

	return nil
}

func (f *fakeStore) Dictionary(_ context.Context, _ int) ([]host.Field, error) {
	return nil, nil
}

func shipmentConfig() *configuration.Configuration {
	return &configuration.Configuration{
		BoxProjectID:      1,
		SpecimenProjectID: 2,
		ShipmentProjectID: 3,
		BoxNameRegex:      `(?<year>\d{4})-BOX-(?<number>\d+)`,
	}
}

func seededStore() *fakeStore {
	return &fakeStore{
		records: map[int]host.RecordSet{
			1: {
				"10": {"box_name": "2024-BOX-2", "box_status": "available", "shipment_record_id": "50"},
				"11": {"box_name": "2024-BOX-10", "box_status": "available", "shipment_record_id": "50"},
				"12": {"box_name": "2024-BOX-1", "box_status": "available"},
			},
			3: {
				"50": {FieldName: "SH-1", FieldStatus: StatusIncomplete, FieldTo: "Central Lab"},
				"51": {FieldName: "SH-2", FieldStatus: StatusComplete},
			},
		},
	}
}

func newService(store *fakeStore) *Service {
	return NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGet(t *testing.T) {
	svc := newService(seededStore())

	shipment, err := svc.Get(context.Background(), shipmentConfig(), "50")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	if shipment[FieldName] != "SH-1" {
		t.Errorf("name = %q", shipment[FieldName])
	}
	if shipment["record_id"] != "50" {
		t.Errorf("record id not injected: %v", shipment)
	}

	if _, err := svc.Get(context.Background(), shipmentConfig(), "999"); !errors.Is(err, ErrShipmentNotFound) {
		t.Errorf("unknown id = %v, want ErrShipmentNotFound", err)
	}

	if _, err := svc.Get(context.Background(), shipmentConfig(), " "); !errors.Is(err, ErrMissingRecordID) {
		t.Errorf("blank id = %v, want ErrMissingRecordID", err)
	}
}

func TestBoxesOrderedByName(t *testing.T) {
	svc := newService(seededStore())

	entries, err := svc.Boxes(context.Background(), shipmentConfig(), "50")
	if err != nil {
		t.Fatalf("Boxes returned error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d boxes, want 2", len(entries))
	}
	if entries[0].Box["box_name"] != "2024-BOX-2" || entries[1].Box["box_name"] != "2024-BOX-10" {
		t.Errorf("box order = %q, %q", entries[0].Box["box_name"], entries[1].Box["box_name"])
	}

	if entries[0].NameParsed.Get("number") != "2" {
		t.Errorf("parsed number = %q, want 2", entries[0].NameParsed.Get("number"))
	}
}

func TestComplete(t *testing.T) {
	store := seededStore()
	svc := newService(store)

	if err := svc.Complete(context.Background(), shipmentConfig(), "50"); err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	if got := store.records[3]["50"][FieldStatus]; got != StatusComplete {
		t.Errorf("shipment status = %q, want %q", got, StatusComplete)
	}

	for _, boxID := range []string{"10", "11"} {
		if got := store.records[1][boxID]["box_status"]; got != "closed" {
			t.Errorf("box %s status = %q, want closed", boxID, got)
		}
	}

	// Unassigned box is untouched.
	if got := store.records[1]["12"]["box_status"]; got != "available" {
		t.Errorf("unassigned box status = %q, want available", got)
	}
}

func TestCompleteAlreadyComplete(t *testing.T) {
	svc := newService(seededStore())

	if err := svc.Complete(context.Background(), shipmentConfig(), "51"); !errors.Is(err, ErrAlreadyComplete) {
		t.Fatalf("Complete = %v, want ErrAlreadyComplete", err)
	}
}

func TestCompleteRevertsOnBoxFailure(t *testing.T) {
	store := seededStore()
	store.failSaveProject = 1
	svc := newService(store)

	err := svc.Complete(context.Background(), shipmentConfig(), "50")
	if !errors.Is(err, errSaveFailed) {
		t.Fatalf("Complete = %v, want the box-close error", err)
	}

	// The shipment status is compensated back to its previous value.
	if got := store.records[3]["50"][FieldStatus]; got != StatusIncomplete {
		t.Errorf("shipment status after revert = %q, want %q", got, StatusIncomplete)
	}
}

func TestUpdateStatusNoOp(t *testing.T) {
	store := seededStore()
	store.failSaveProject = 3
	svc := newService(store)

	// Same status never writes, so a failing store does not surface.
	if err := svc.UpdateStatus(context.Background(), shipmentConfig(), "50", StatusIncomplete); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	if err := svc.UpdateStatus(context.Background(), shipmentConfig(), "50", StatusComplete); !errors.Is(err, errSaveFailed) {
		t.Errorf("changed status should hit the store, got %v", err)
	}
}

func TestAssignBox(t *testing.T) {
	store := seededStore()
	svc := newService(store)

	if err := svc.AssignBox(context.Background(), shipmentConfig(), "12", "50"); err != nil {
		t.Fatalf("AssignBox returned error: %v", err)
	}
	if got := store.records[1]["12"]["shipment_record_id"]; got != "50" {
		t.Errorf("assignment = %q, want 50", got)
	}

	// Empty shipment id unlinks without requiring a shipment lookup.
	if err := svc.AssignBox(context.Background(), shipmentConfig(), "12", ""); err != nil {
		t.Fatalf("unlink returned error: %v", err)
	}
	if got := store.records[1]["12"]["shipment_record_id"]; got != "" {
		t.Errorf("unlink left %q", got)
	}

	if err := svc.AssignBox(context.Background(), shipmentConfig(), "999", "50"); !errors.Is(err, ErrBoxNotFound) {
		t.Errorf("unknown box = %v, want ErrBoxNotFound", err)
	}

	if err := svc.AssignBox(context.Background(), shipmentConfig(), "12", "999"); !errors.Is(err, ErrShipmentNotFound) {
		t.Errorf("unknown shipment = %v, want ErrShipmentNotFound", err)
	}
}
