package configuration

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/tracerlab/spectrack/internal/host"
)

type fakeProjects struct {
	projects map[int]*host.Project
}

func (f *fakeProjects) GetProject(_ context.Context, projectID int) (*host.Project, error) {
	project, ok := f.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("project %d not found", projectID)
	}

	return project, nil
}

func testProjects() *fakeProjects {
	return &fakeProjects{
		projects: map[int]*host.Project{
			1: {ID: 1, Title: "Boxes", PK: "record_id"},
			2: {ID: 2, Title: "Specimens", PK: "record_id"},
			3: {ID: 3, Title: "Shipments", PK: "record_id"},
		},
	}
}

func activatable() *Configuration {
	return &Configuration{
		StudyName:              "Cohort A",
		BoxProjectID:           1,
		SpecimenProjectID:      2,
		ShipmentProjectID:      3,
		BoxProjectEnabled:      true,
		SpecimenProjectEnabled: true,
		ShipmentProjectEnabled: true,
	}
}

func TestActivate(t *testing.T) {
	ctx := NewContext()

	if ctx.Active() {
		t.Fatal("context should not be active before Activate")
	}

	if err := ctx.Activate(context.Background(), activatable(), testProjects()); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}

	if !ctx.Active() {
		t.Fatal("context should be active")
	}

	if ctx.BoxProject().ID != 1 || ctx.SpecimenProject().ID != 2 || ctx.ShipmentProject().ID != 3 {
		t.Error("project handles not bound in role order")
	}
}

func TestActivateOneShot(t *testing.T) {
	ctx := NewContext()

	if err := ctx.Activate(context.Background(), activatable(), testProjects()); err != nil {
		t.Fatalf("first Activate returned error: %v", err)
	}

	// The second call fails regardless of argument validity.
	if err := ctx.Activate(context.Background(), activatable(), testProjects()); !errors.Is(err, ErrContextSet) {
		t.Fatalf("second Activate = %v, want ErrContextSet", err)
	}
}

func TestActivateRejectsErroredConfiguration(t *testing.T) {
	cfg := activatable()
	cfg.Errors = []string{"study name is missing"}

	ctx := NewContext()
	if err := ctx.Activate(context.Background(), cfg, testProjects()); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("Activate = %v, want ErrInvalidConfiguration", err)
	}

	if ctx.Active() {
		t.Error("failed activation must not bind the context")
	}
}

func TestActivateRejectsDisabledProject(t *testing.T) {
	cfg := activatable()
	cfg.ShipmentProjectEnabled = false

	ctx := NewContext()
	if err := ctx.Activate(context.Background(), cfg, testProjects()); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("Activate = %v, want ErrInvalidConfiguration", err)
	}
}
