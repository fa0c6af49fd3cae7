package nomenclature

import "testing"

const specimenPattern = `(?<year>\d{4})-(?<participant_id>P\d+)(-(?<sample_type>[a-z]+))?(-(?<visit>\d+))?(-(?<aliquot_number>\d+))?`

func strptr(s string) *string {
	return &s
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		pattern string
		want    map[string]*string
	}{
		{
			name:    "full specimen name",
			input:   "2024-P001-bl-01-02",
			pattern: specimenPattern,
			want: map[string]*string{
				"year":           strptr("2024"),
				"participant_id": strptr("P001"),
				"sample_type":    strptr("bl"),
				"visit":          strptr("01"),
				"aliquot_number": strptr("02"),
			},
		},
		{
			name:    "partial name leaves optional groups null",
			input:   "2024-P001",
			pattern: specimenPattern,
			want: map[string]*string{
				"year":           strptr("2024"),
				"participant_id": strptr("P001"),
				"sample_type":    nil,
				"visit":          nil,
				"aliquot_number": nil,
			},
		},
		{
			name:    "no match yields empty mapping",
			input:   "not-a-specimen",
			pattern: specimenPattern,
			want:    map[string]*string{},
		},
		{
			name:    "empty input yields empty mapping",
			input:   "",
			pattern: specimenPattern,
			want:    map[string]*string{},
		},
		{
			name:    "delimited pattern is used as-is",
			input:   "prefix-2024-P001-suffix",
			pattern: `/(?<year>\d{4})-(?<participant_id>P\d+)/`,
			want: map[string]*string{
				"year":           strptr("2024"),
				"participant_id": strptr("P001"),
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Parse(tc.input, tc.pattern)
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}

			if len(parsed) != len(tc.want) {
				t.Fatalf("got %d groups, want %d: %v", len(parsed), len(tc.want), parsed)
			}

			for group, want := range tc.want {
				got, ok := parsed[group]
				if !ok {
					t.Fatalf("group %s absent", group)
				}

				switch {
				case want == nil && got != nil:
					t.Errorf("group %s = %q, want null", group, *got)
				case want != nil && got == nil:
					t.Errorf("group %s is null, want %q", group, *want)
				case want != nil && got != nil && *want != *got:
					t.Errorf("group %s = %q, want %q", group, *got, *want)
				}
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	// Values substituted into the naming template must be recovered exactly.
	values := map[string]string{
		"year":           "2025",
		"participant_id": "P042",
		"sample_type":    "sr",
		"visit":          "03",
		"aliquot_number": "07",
	}

	name := values["year"] + "-" + values["participant_id"] + "-" +
		values["sample_type"] + "-" + values["visit"] + "-" + values["aliquot_number"]

	parsed, err := Parse(name, specimenPattern)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	for group, want := range values {
		if got := parsed.Get(group); got != want {
			t.Errorf("group %s = %q, want %q", group, got, want)
		}
	}
}

func TestParseInvalidPattern(t *testing.T) {
	if _, err := Parse("2024-P001", `(?<year>\d{4}`); err == nil {
		t.Fatal("expected error for unterminated pattern")
	}
}

func TestGroups(t *testing.T) {
	groups, err := Groups(specimenPattern)
	if err != nil {
		t.Fatalf("Groups returned error: %v", err)
	}

	want := []string{"year", "participant_id", "sample_type", "visit", "aliquot_number"}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}

	for i, group := range want {
		if groups[i] != group {
			t.Errorf("groups[%d] = %q, want %q", i, groups[i], group)
		}
	}
}

func TestDeriveFilterPattern(t *testing.T) {
	tests := []struct {
		name  string
		fixed map[string]string
		want  string
	}{
		{
			name: "family groups substituted",
			fixed: map[string]string{
				"year":           "2024",
				"participant_id": "P001",
			},
			want: `^2024-P001(-([a-z]+))?(-(\d+))?(-(\d+))?$`,
		},
		{
			name:  "no fixed groups strips capture syntax only",
			fixed: map[string]string{},
			want:  `^(\d{4})-(P\d+)(-([a-z]+))?(-(\d+))?(-(\d+))?$`,
		},
		{
			name: "all groups fixed yields a literal matcher",
			fixed: map[string]string{
				"year":           "2024",
				"participant_id": "P001",
				"sample_type":    "bl",
				"visit":          "01",
				"aliquot_number": "02",
			},
			want: `^2024-P001(-bl)?(-01)?(-02)?$`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveFilterPattern(specimenPattern, tc.fixed)
			if got != tc.want {
				t.Errorf("DeriveFilterPattern = %q, want %q", got, tc.want)
			}
		})
	}
}
