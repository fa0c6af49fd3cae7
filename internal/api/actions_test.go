package api

import (
	"encoding/json"
	"testing"

	"github.com/tracerlab/spectrack/internal/host"
	"github.com/tracerlab/spectrack/internal/specimens"
)

func TestSearchResponseFlattensMatch(t *testing.T) {
	body, err := json.Marshal(searchResponse{
		MatchResult: &specimens.MatchResult{
			SearchValue: "2024-P001-bl-01-02",
			MatchType:   specimens.MatchFull,
			Specimen:    host.FieldMap{"specimen_name": "2024-P001-bl-01-01"},
			Box:         host.FieldMap{"box_name": "BOX-1"},
		},
		Errors: []string{},
	})
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}

	// Match metadata sits at the top level alongside errors, not nested
	// under a wrapper key.
	for _, key := range []string{"search_value", "match_type", "specimen", "box", "errors"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("response missing top-level key %q", key)
		}
	}

	if _, ok := decoded["result"]; ok {
		t.Error("match payload must not be nested under a result key")
	}

	if decoded["match_type"] != string(specimens.MatchFull) {
		t.Errorf("match_type = %v", decoded["match_type"])
	}
}
