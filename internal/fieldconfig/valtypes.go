package fieldconfig

import "github.com/tracerlab/spectrack/internal/host"

// Semantic field types after validation-subtype normalization.
const (
	TypeText     = "text"
	TypeNotes    = "notes"
	TypeDate     = "date"
	TypeDatetime = "datetime"
	TypeNumber   = "number"
	TypeSelect   = "select"
	TypeYesNo    = "yesno"
	TypeBool     = "truefalse"
)

// ValidationRule describes a host validation type.
type ValidationRule struct {
	Label string
	Regex string
}

var validationRules = map[string]ValidationRule{
	"date_dmy":     {Label: "Date (D-M-Y)", Regex: `^\d{4}-\d{2}-\d{2}$`},
	"date_mdy":     {Label: "Date (M-D-Y)", Regex: `^\d{4}-\d{2}-\d{2}$`},
	"date_ymd":     {Label: "Date (Y-M-D)", Regex: `^\d{4}-\d{2}-\d{2}$`},
	"datetime_dmy": {Label: "Datetime (D-M-Y H:M)", Regex: `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`},
	"datetime_mdy": {Label: "Datetime (M-D-Y H:M)", Regex: `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`},
	"datetime_ymd": {Label: "Datetime (Y-M-D H:M)", Regex: `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`},
	"integer":      {Label: "Integer", Regex: `^[-+]?\d+$`},
	"int":          {Label: "Integer", Regex: `^[-+]?\d+$`},
	"number":       {Label: "Number", Regex: `^[-+]?\d*\.?\d+$`},
	"float":        {Label: "Number", Regex: `^[-+]?\d*\.?\d+$`},
	"email":        {Label: "Email", Regex: `^[^@\s]+@[^@\s]+\.[^@\s]+$`},
	"alpha_only":   {Label: "Letters only", Regex: `^[a-zA-Z ]+$`},
	"zipcode":      {Label: "Zip code", Regex: `^\d{5}(-\d{4})?$`},
}

// Validation resolves a host validation type to its label and regex.
func Validation(validationType string) (ValidationRule, bool) {
	rule, ok := validationRules[validationType]
	return rule, ok
}

// Normalize resolves a dictionary field to its semantic type, folding
// validation subtypes into the date, datetime, and number families.
func Normalize(field host.Field) string {
	switch field.Type {
	case "select", "radio", "dropdown", "checkbox":
		return TypeSelect
	case "yesno":
		return TypeYesNo
	case "truefalse":
		return TypeBool
	case "notes", "textarea":
		return TypeNotes
	}

	switch field.ValidationType {
	case "date_dmy", "date_mdy", "date_ymd":
		return TypeDate
	case "datetime_dmy", "datetime_mdy", "datetime_ymd":
		return TypeDatetime
	case "integer", "int", "number", "float":
		return TypeNumber
	}

	return TypeText
}
