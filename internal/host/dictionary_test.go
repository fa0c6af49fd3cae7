package host

import (
	"reflect"
	"testing"
)

func TestParseChoices(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Choice
	}{
		{
			"empty", "", nil,
		},
		{
			"single pair", "1, Serum",
			[]Choice{{Code: "1", Label: "Serum"}},
		},
		{
			"multiple pairs", "1, Serum | 2, Plasma | 3, Whole Blood",
			[]Choice{{Code: "1", Label: "Serum"}, {Code: "2", Label: "Plasma"}, {Code: "3", Label: "Whole Blood"}},
		},
		{
			"label with comma", "1, Blood, citrated | 2, Plasma",
			[]Choice{{Code: "1", Label: "Blood, citrated"}, {Code: "2", Label: "Plasma"}},
		},
		{
			"code without label", "1 | 2, Plasma",
			[]Choice{{Code: "1", Label: ""}, {Code: "2", Label: "Plasma"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseChoices(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseChoices(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDisplayValue(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value string
		want  string
	}{
		{
			"empty passes through",
			Field{Type: "select", Choices: "1, Serum"}, "", "",
		},
		{
			"select maps code to label",
			Field{Type: "select", Choices: "1, Serum | 2, Plasma"}, "2", "Plasma",
		},
		{
			"unknown code passes through",
			Field{Type: "select", Choices: "1, Serum"}, "9", "9",
		},
		{
			"yesno one",
			Field{Type: "yesno"}, "1", "Yes",
		},
		{
			"yesno zero",
			Field{Type: "yesno"}, "0", "No",
		},
		{
			"truefalse",
			Field{Type: "truefalse"}, "1", "True",
		},
		{
			"date dmy",
			Field{Type: "text", ValidationType: "date_dmy"}, "2024-03-15", "15-03-2024",
		},
		{
			"date mdy",
			Field{Type: "text", ValidationType: "date_mdy"}, "2024-03-15", "03-15-2024",
		},
		{
			"datetime",
			Field{Type: "text", ValidationType: "datetime_ymd"}, "2024-03-15 09:30", "03-15-2024 09:30",
		},
		{
			"unparseable date passes through",
			Field{Type: "text", ValidationType: "date_ymd"}, "not-a-date", "not-a-date",
		},
		{
			"plain text passes through",
			Field{Type: "text"}, "CS-1", "CS-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayValue(tt.field, tt.value); got != tt.want {
				t.Errorf("DisplayValue() = %q, want %q", got, tt.want)
			}
		})
	}
}
