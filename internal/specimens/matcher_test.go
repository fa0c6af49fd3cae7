package specimens

import (
	"context"
	"errors"
	"testing"

	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/host"
)

const specimenPattern = `(?<year>\d{4})-(?<participant_id>P\d+)(-(?<sample_type>[a-z]+))?(-(?<visit>\d+))?(-(?<aliquot_number>\d+))?`

func matchConfig() *configuration.Configuration {
	return &configuration.Configuration{
		BoxProjectID:      1,
		SpecimenProjectID: 2,
		ShipmentProjectID: 3,
		SpecimenNameRegex: specimenPattern,
	}
}

// seededService returns a service over two aliquots for participant P001:
// a blood draw at visit 01 and serum at visit 02, each placed in its own box.
func seededService() (*Service, *fakeStore) {
	store := newFakeStore()

	store.add(1, "10", host.FieldMap{
		FieldBoxName: "2024-BOX-01", "box_status": "available",
	})
	store.add(1, "11", host.FieldMap{
		FieldBoxName: "2024-BOX-02", "box_status": "available",
	})

	store.add(2, "100", host.FieldMap{
		FieldName:        "2024-P001-bl-01-01",
		FieldBoxRecordID: "10",
		FieldBoxPosition: "A1",
		FieldCSID:        "CS-1",
		FieldCUID:        "CU-1",
	})
	store.add(2, "101", host.FieldMap{
		FieldName:        "2024-P001-sr-02-01",
		FieldBoxRecordID: "11",
		FieldBoxPosition: "B3",
		FieldCSID:        "CS-2",
	})

	return NewService(store, testLogger()), store
}

func TestSearchExact(t *testing.T) {
	svc, _ := seededService()

	result, err := svc.Search(context.Background(), matchConfig(), "2024-P001-bl-01-01")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if result.MatchType != MatchExact {
		t.Fatalf("match type = %q, want %q", result.MatchType, MatchExact)
	}
	if result.Specimen[FieldName] != "2024-P001-bl-01-01" {
		t.Errorf("specimen name = %q", result.Specimen[FieldName])
	}
	if result.Box[FieldBoxName] != "2024-BOX-01" {
		t.Errorf("box name = %q, want the owning box", result.Box[FieldBoxName])
	}
}

func TestSearchFullMatchNewAliquot(t *testing.T) {
	svc, _ := seededService()

	// Same year, participant, sample type, and visit as an existing specimen
	// but a new aliquot number: suggest the existing sibling.
	result, err := svc.Search(context.Background(), matchConfig(), "2024-P001-bl-01-02")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if result.MatchType != MatchFull {
		t.Fatalf("match type = %q, want %q", result.MatchType, MatchFull)
	}
	if result.Specimen[FieldName] != "2024-P001-bl-01-01" {
		t.Errorf("matched specimen = %q, want the visit 01 sibling", result.Specimen[FieldName])
	}
}

func TestSearchParticipantFallbackWithMaxVisit(t *testing.T) {
	svc, _ := seededService()

	// A bare participant identifier relaxes sample type and visit; the hint
	// carries the highest visit seen in the family.
	result, err := svc.Search(context.Background(), matchConfig(), "2024-P001")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if result.MatchType != MatchParticipant {
		t.Fatalf("match type = %q, want %q", result.MatchType, MatchParticipant)
	}
	if result.MaxVisit == nil || *result.MaxVisit != 2 {
		t.Fatalf("max visit = %v, want 2", result.MaxVisit)
	}
	if result.Specimen == nil {
		t.Error("participant match should still attach a specimen record")
	}
}

func TestSearchNoMatch(t *testing.T) {
	svc, _ := seededService()

	result, err := svc.Search(context.Background(), matchConfig(), "2025-P999-bl-01-01")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if result.MatchType != MatchNone {
		t.Errorf("match type = %q, want %q", result.MatchType, MatchNone)
	}
	if result.Specimen != nil {
		t.Error("no-match result must not carry a specimen")
	}
}

func TestSearchEmptyValue(t *testing.T) {
	svc, _ := seededService()

	if _, err := svc.Search(context.Background(), matchConfig(), "   "); !errors.Is(err, ErrMissingSearchValue) {
		t.Fatalf("Search = %v, want ErrMissingSearchValue", err)
	}
}

func TestSearchAlternateTempBoxes(t *testing.T) {
	svc, store := seededService()

	store.add(1, "12", host.FieldMap{
		FieldBoxName:    "TEMP-01",
		FieldBoxType:    "temp",
		FieldSampleType: "bl",
	})
	store.add(1, "13", host.FieldMap{
		FieldBoxName:    "TEMP-02",
		FieldBoxType:    "temp",
		FieldSampleType: "sr",
	})
	store.add(2, "102", host.FieldMap{
		FieldName:        "2024-P001-bl-02-01",
		FieldBoxRecordID: "12",
	})
	store.add(2, "103", host.FieldMap{
		FieldName:        "2024-P001-sr-03-01",
		FieldBoxRecordID: "13",
	})

	cfg := matchConfig()
	cfg.UseTempBoxType = true

	result, err := svc.Search(context.Background(), cfg, "2024-P001-bl-01-02")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if result.MatchType != MatchFull {
		t.Fatalf("match type = %q, want %q", result.MatchType, MatchFull)
	}

	// Only the temporary box holding the searched sample type qualifies; the
	// serum box and the match's own permanent box are excluded.
	if len(result.AlternateBoxes) != 1 {
		t.Fatalf("alternate boxes = %d, want 1", len(result.AlternateBoxes))
	}
	if result.AlternateBoxes[0][FieldBoxName] != "TEMP-01" {
		t.Errorf("alternate box = %q, want TEMP-01", result.AlternateBoxes[0][FieldBoxName])
	}
}

func TestSearchNoAlternatesWhenDisabled(t *testing.T) {
	svc, store := seededService()

	store.add(1, "12", host.FieldMap{
		FieldBoxName:    "TEMP-01",
		FieldBoxType:    "temp",
		FieldSampleType: "bl",
	})
	store.add(2, "102", host.FieldMap{
		FieldName:        "2024-P001-bl-02-01",
		FieldBoxRecordID: "12",
	})

	result, err := svc.Search(context.Background(), matchConfig(), "2024-P001-bl-01-02")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}

	if len(result.AlternateBoxes) != 0 {
		t.Errorf("alternate boxes = %d, want none with temp box mode off", len(result.AlternateBoxes))
	}
}
