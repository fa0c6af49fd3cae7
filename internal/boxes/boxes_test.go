package boxes

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/host"
)

type fakeStore struct {
	records map[int]host.RecordSet
}

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

		out[recordID] = fields
	}

	return out, nil
}

func (f *fakeStore) NamesMatching(_ context.Context, q host.NameQuery) ([]host.NamePair, error) {
	var pairs []host.NamePair

	for recordID, fields := range f.records[q.ProjectID] {
		if fields[q.Field] == q.Pattern {
			pairs = append(pairs, host.NamePair{RecordID: recordID, Name: fields[q.Field]})
		}
	}

	return pairs, nil
}

func (f *fakeStore) RecordIDsMatching(_ context.Context, projectID int, field, search string) ([]string, error) {
	var ids []string

	for recordID, fields := range f.records[projectID] {
		if strings.Contains(strings.ToLower(fields[field]), strings.ToLower(search)) {
			ids = append(ids, recordID)
		}
	}

	return ids, nil
}

func boxConfig() *configuration.Configuration {
	return &configuration.Configuration{BoxProjectID: 1, SpecimenProjectID: 2}
}

func seededService() *Service {
	store := &fakeStore{
		records: map[int]host.RecordSet{
			1: {
				"10": {FieldName: "BOX-10", FieldStatus: StatusAvailable},
				"11": {FieldName: "BOX-2", FieldStatus: StatusAvailable},
				"12": {FieldName: "BOX-1", FieldStatus: "closed"},
			},
			2: {
				"100": {"specimen_name": "2024-P001-bl-01-01", "box_record_id": "10", "box_position": "B1"},
				"101": {"specimen_name": "2024-P001-bl-02-01", "box_record_id": "10", "box_position": "A1"},
				"102": {"specimen_name": "2024-P002-bl-01-01", "box_record_id": "11", "box_position": "A1"},
			},
		},
	}

	return NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListOrdersByName(t *testing.T) {
	svc := seededService()

	list, err := svc.List(context.Background(), boxConfig(), "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	want := []string{"BOX-1", "BOX-2", "BOX-10"}
	if len(list) != len(want) {
		t.Fatalf("got %d boxes, want %d", len(list), len(want))
	}
	for i, name := range want {
		if list[i][FieldName] != name {
			t.Errorf("list[%d] = %q, want %q", i, list[i][FieldName], name)
		}
	}
}

func TestListSearch(t *testing.T) {
	svc := seededService()

	list, err := svc.List(context.Background(), boxConfig(), "box-1")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	want := []string{"BOX-1", "BOX-10"}
	if len(list) != len(want) {
		t.Fatalf("got %d boxes, want %d", len(list), len(want))
	}
	for i, name := range want {
		if list[i][FieldName] != name {
			t.Errorf("list[%d] = %q, want %q", i, list[i][FieldName], name)
		}
	}
}

func TestListNoMatches(t *testing.T) {
	svc := seededService()

	list, err := svc.List(context.Background(), boxConfig(), "nothing")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	if len(list) != 0 {
		t.Errorf("got %d boxes, want none", len(list))
	}
}

func TestAvailable(t *testing.T) {
	svc := seededService()

	list, err := svc.Available(context.Background(), boxConfig())
	if err != nil {
		t.Fatalf("Available returned error: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("got %d boxes, want 2", len(list))
	}
	for _, box := range list {
		if box[FieldStatus] != StatusAvailable {
			t.Errorf("box %q has status %q", box[FieldName], box[FieldStatus])
		}
		if box[FieldName] == "BOX-1" {
			t.Error("closed box BOX-1 must not appear in the available list")
		}
	}
}

func TestListIncludesClosedBoxes(t *testing.T) {
	svc := seededService()

	// The search listing deliberately spans every status; only the
	// available listing filters closed boxes out.
	list, err := svc.List(context.Background(), boxConfig(), "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	found := false
	for _, box := range list {
		if box[FieldName] == "BOX-1" {
			found = true
		}
	}
	if !found {
		t.Error("closed box BOX-1 should appear in the unfiltered list")
	}
}

func TestSearchPlate(t *testing.T) {
	svc := seededService()

	box, specimens, err := svc.SearchPlate(context.Background(), boxConfig(), "BOX-10", true)
	if err != nil {
		t.Fatalf("SearchPlate returned error: %v", err)
	}

	if box["record_id"] != "10" {
		t.Errorf("box record id = %q, want 10", box["record_id"])
	}

	// Specimens come back ordered by position.
	if len(specimens) != 2 {
		t.Fatalf("got %d specimens, want 2", len(specimens))
	}
	if specimens[0]["box_position"] != "A1" || specimens[1]["box_position"] != "B1" {
		t.Errorf("positions = %q, %q", specimens[0]["box_position"], specimens[1]["box_position"])
	}
}

func TestSearchPlateErrors(t *testing.T) {
	svc := seededService()

	if _, _, err := svc.SearchPlate(context.Background(), boxConfig(), "", true); !errors.Is(err, ErrMissingSearchValue) {
		t.Errorf("blank search = %v, want ErrMissingSearchValue", err)
	}

	if _, _, err := svc.SearchPlate(context.Background(), boxConfig(), "BOX-99", false); !errors.Is(err, ErrBoxNotFound) {
		t.Errorf("unknown plate = %v, want ErrBoxNotFound", err)
	}
}
