package configuration

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
)

// fakeSettings serves setting arrays from an in-memory map, mirroring the
// JSON round-trip the host store performs.
type fakeSettings struct {
	values  map[string]any
	enabled []int
}

func (f *fakeSettings) SystemSetting(_ context.Context, key string, dest any) error {
	value, ok := f.values[key]
	if !ok {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, dest)
}

func (f *fakeSettings) EnabledProjectIDs(context.Context) ([]int, error) {
	return f.enabled, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validSettings() *fakeSettings {
	return &fakeSettings{
		values: map[string]any{
			"study_name":          []string{"Cohort A"},
			"box_project_id":      []int{1},
			"specimen_project_id": []int{2},
			"shipment_project_id": []int{3},
			"plate_size":          []string{"9x9"},
			"box_name_regex":      []string{`(?<year>\d{4})-(?<box_number>\d+)`},
			"specimen_name_regex": []string{`(?<year>\d{4})-(?<participant_id>P\d+)`},
		},
		enabled: []int{1, 2, 3},
	}
}

func TestLoadValidConfiguration(t *testing.T) {
	resolver := NewResolver(validSettings(), discardLogger())

	registry, err := resolver.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	configs := registry.Configurations()
	if len(configs) != 1 {
		t.Fatalf("got %d configurations, want 1", len(configs))
	}

	cfg := configs[0]
	if !cfg.Valid() {
		t.Fatalf("configuration has errors: %v", cfg.Errors)
	}

	if !cfg.Enabled() {
		t.Error("expected all project-enabled flags set")
	}
}

func TestLoadNoConfigurations(t *testing.T) {
	resolver := NewResolver(&fakeSettings{values: map[string]any{}}, discardLogger())

	if _, err := resolver.Load(context.Background()); !errors.Is(err, ErrNoConfigurations) {
		t.Fatalf("got %v, want ErrNoConfigurations", err)
	}
}

func TestLoadAccumulatesErrors(t *testing.T) {
	settings := validSettings()
	settings.values["study_name"] = []string{""}
	settings.values["plate_size"] = []string{""}
	settings.enabled = []int{1, 3}

	resolver := NewResolver(settings, discardLogger())

	registry, err := resolver.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	cfg := registry.Configurations()[0]
	if cfg.Valid() {
		t.Fatal("expected configuration errors")
	}

	// Missing study name, missing plate size, specimen project not enabled.
	if len(cfg.Errors) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(cfg.Errors), cfg.Errors)
	}

	if cfg.SpecimenProjectEnabled {
		t.Error("specimen project should not be flagged enabled")
	}
}

func TestLoadDuplicateProjectWithinTriplet(t *testing.T) {
	settings := validSettings()
	settings.values["shipment_project_id"] = []int{2}

	resolver := NewResolver(settings, discardLogger())

	registry, err := resolver.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	cfg := registry.Configurations()[0]
	if cfg.Valid() {
		t.Fatal("expected duplicate-project error")
	}
}

func TestSharedProjectAcrossConfigurations(t *testing.T) {
	settings := validSettings()
	settings.values["study_name"] = []string{"Cohort A", "Cohort B"}
	settings.values["box_project_id"] = []int{1, 4}
	settings.values["specimen_project_id"] = []int{2, 2}
	settings.values["shipment_project_id"] = []int{3, 5}
	settings.values["plate_size"] = []string{"9x9", "9x9"}
	settings.values["box_name_regex"] = []string{`(?<year>\d{4})`, `(?<year>\d{4})`}
	settings.values["specimen_name_regex"] = []string{`(?<year>\d{4})`, `(?<year>\d{4})`}
	settings.enabled = []int{1, 2, 3, 4, 5}

	resolver := NewResolver(settings, discardLogger())

	registry, err := resolver.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	// Project 2 appears in both configurations; both carry the error.
	for _, cfg := range registry.Configurations() {
		if cfg.Valid() {
			t.Errorf("configuration %d should carry a shared-project error", cfg.Index)
		}
	}

	// Resolution by the shared project reports ambiguity, not either side.
	if _, err := registry.ForProject(2); !errors.Is(err, ErrAmbiguousProject) {
		t.Errorf("ForProject(2) = %v, want ErrAmbiguousProject", err)
	}

	// Unshared projects still resolve to their own configuration.
	cfg, err := registry.ForProject(4)
	if err != nil {
		t.Fatalf("ForProject(4) returned error: %v", err)
	}
	if cfg.Index != 1 {
		t.Errorf("ForProject(4) resolved index %d, want 1", cfg.Index)
	}
}

func TestForProjectNotConfigured(t *testing.T) {
	resolver := NewResolver(validSettings(), discardLogger())

	registry, err := resolver.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if _, err := registry.ForProject(99); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("ForProject(99) = %v, want ErrNotConfigured", err)
	}
}
