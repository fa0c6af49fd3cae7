package host

import (
	"context"
	"strings"

	"github.com/tracerlab/spectrack/pkg/formatting"
	"github.com/tracerlab/spectrack/pkg/repository"
)

// Field describes one entry in a project's field dictionary.
type Field struct {
	Name           string `json:"field_name"`
	Form           string `json:"form_name"`
	Label          string `json:"field_label"`
	Type           string `json:"field_type"`
	ValidationType string `json:"validation_type"`
	Choices        string `json:"choices"`
	Required       bool   `json:"required"`
}

// Choice is one enumerated option of a select-like field.
type Choice struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Dictionary loads a project's field dictionary in declaration order.
func (s *Store) Dictionary(ctx context.Context, projectID int) ([]Field, error) {
	return repository.QueryMany(ctx, s.db, `
		SELECT field_name, form_name, field_label, field_type, validation_type, choices, required
		FROM field_dictionary
		WHERE project_id = $1
		ORDER BY field_order`,
		func(sc repository.Scanner) (Field, error) {
			var f Field
			err := sc.Scan(&f.Name, &f.Form, &f.Label, &f.Type, &f.ValidationType, &f.Choices, &f.Required)
			return f, err
		},
		projectID,
	)
}

// ParseChoices splits a raw choice string such as "1, Alpha | 2, Beta" into
// ordered code/label pairs. Labels may themselves contain commas.
func ParseChoices(raw string) []Choice {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, "|")
	choices := make([]Choice, 0, len(parts))

	for _, part := range parts {
		code, label, found := strings.Cut(part, ",")
		if !found {
			code = part
		}

		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}

		choices = append(choices, Choice{
			Code:  code,
			Label: strings.TrimSpace(label),
		})
	}

	return choices
}

// DisplayValue resolves a stored field value to its display form: enumerated
// fields map the code to its label, yes/no and true/false fields map to
// Yes/No and True/False, dates are reformatted per the field's validation
// type. All other values pass through unchanged.
func DisplayValue(field Field, value string) string {
	if value == "" {
		return value
	}

	switch field.Type {
	case "select", "radio", "dropdown", "checkbox":
		for _, choice := range ParseChoices(field.Choices) {
			if choice.Code == value {
				return choice.Label
			}
		}
		return value
	case "yesno":
		if value == "1" {
			return "Yes"
		}
		return "No"
	case "truefalse":
		if value == "1" {
			return "True"
		}
		return "False"
	}

	switch field.ValidationType {
	case "date_dmy":
		return formatting.FormatDate(value, formatting.DisplayDateDMY)
	case "date_mdy", "date_ymd":
		return formatting.FormatDate(value, formatting.DisplayDateMDY)
	case "datetime_dmy", "datetime_mdy", "datetime_ymd":
		return formatting.FormatDatetime(value, formatting.DisplayDatetime)
	}

	return value
}
