package query

import (
	"reflect"
	"testing"
)

func TestBuilder(t *testing.T) {
	sql, args := NewBuilder("d1.record_id", "d1.value").
		From("record_data d1").
		Join("LEFT JOIN record_data d2 ON d2.record_id = d1.record_id").
		Where("d1.project_id = %s", 7).
		Where("d1.value ~ %s", "^2024-").
		OrderBy("d1.value").
		Build()

	want := "SELECT d1.record_id, d1.value FROM record_data d1 " +
		"LEFT JOIN record_data d2 ON d2.record_id = d1.record_id " +
		"WHERE d1.project_id = $1 AND d1.value ~ $2 ORDER BY d1.value"

	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}

	if !reflect.DeepEqual(args, []any{7, "^2024-"}) {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderNoConditions(t *testing.T) {
	sql, args := NewBuilder("record_id").From("record_data").Build()

	if sql != "SELECT record_id FROM record_data" {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuilderWhereIn(t *testing.T) {
	sql, args := NewBuilder("record_id").
		From("record_data").
		Where("project_id = %s", 7).
		WhereIn("record_id", []any{"10", "11"}).
		Build()

	want := "SELECT record_id FROM record_data WHERE project_id = $1 AND record_id IN ($2, $3)"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{7, "10", "11"}) {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderWhereInEmpty(t *testing.T) {
	sql, _ := NewBuilder("record_id").
		From("record_data").
		WhereIn("record_id", nil).
		Build()

	if sql != "SELECT record_id FROM record_data WHERE FALSE" {
		t.Errorf("sql = %q", sql)
	}
}

func TestProjectionMap(t *testing.T) {
	fields := NewProjectionMap(map[string]string{
		"specimen_name": "d1.value",
		"csid":          "d2.value",
	})

	column, err := fields.Column("specimen_name")
	if err != nil {
		t.Fatalf("Column returned error: %v", err)
	}
	if column != "d1.value" {
		t.Errorf("column = %q", column)
	}

	if _, err := fields.Column("evil; DROP TABLE"); err == nil {
		t.Error("unknown field should error")
	}

	if !fields.Has("csid") || fields.Has("nope") {
		t.Error("Has misreports projectable fields")
	}
}
