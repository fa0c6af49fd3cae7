package fieldconfig

import (
	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/host"
	"github.com/tracerlab/spectrack/internal/nomenclature"
)

// Field types the tracking module cannot render or validate.
var excludedTypes = map[string]bool{
	"calc":        true,
	"file":        true,
	"slider":      true,
	"descriptive": true,
	"sql":         true,
}

// Build resolves the UI configuration for every supported field in a
// project's dictionary. Persisted overrides are merged over rule-driven
// defaults; a surface marked both enabled and required by rule is forced on
// even when the override disabled it. Build is pure: same inputs, same
// output, no store access.
func Build(role, namePattern string, fields []host.Field, persisted Persisted) []FieldConfig {
	configs := make([]FieldConfig, 0, len(fields))

	for _, field := range fields {
		if host.IsFormStatusField(field.Name) || excludedTypes[field.Type] {
			continue
		}

		cfg := FieldConfig{
			Name:     field.Name,
			Label:    field.Label,
			Type:     Normalize(field),
			Required: field.Required,
			Choices:  host.ParseChoices(field.Choices),
			Surfaces: make(map[string]bool, len(Surfaces)),
		}

		if rule, ok := Validation(field.ValidationType); ok {
			cfg.ValidationLabel = rule.Label
			cfg.ValidationRegex = rule.Regex
		}

		defaults := defaultSurfaces(role, field.Name)
		override := persisted[field.Name]

		for _, surface := range Surfaces {
			def := defaults[surface]
			enabled := def.enabled

			if stored, ok := override.Surfaces[surface]; ok {
				enabled = stored
			}

			if def.enabled && def.required {
				enabled = true
			}

			cfg.Surfaces[surface] = enabled
		}

		cfg.Extras = buildExtras(role, namePattern, field, cfg.Type, override.Extras)

		configs = append(configs, cfg)
	}

	return configs
}

// buildExtras attaches behavior extras for specimen-project fields: prefill
// matching on the identity name field, confirmation on other text fields, and
// date-window rules on datetime fields. Persisted extras win when present.
func buildExtras(role, namePattern string, field host.Field, semanticType string, stored Extras) Extras {
	var extras Extras

	if role != configuration.RoleSpecimen {
		return extras
	}

	if specimenInfrastructureFields[field.Name] {
		return extras
	}

	switch semanticType {
	case TypeText:
		if field.Name == "specimen_name" {
			extras.MatchPrefill = matchPrefill(namePattern, stored.MatchPrefill)
		} else {
			extras.Confirm = &ConfirmExtra{}
			if stored.Confirm != nil {
				extras.Confirm = stored.Confirm
			}
		}
	case TypeDatetime:
		extras.NoFuture = &NoFutureExtra{}
		if stored.NoFuture != nil {
			extras.NoFuture = stored.NoFuture
		}

		extras.AfterDate = &AfterDateExtra{}
		if stored.AfterDate != nil {
			extras.AfterDate = stored.AfterDate
		}
	}

	return extras
}

// matchPrefill defaults the prefill groups from the configured name pattern's
// capture groups when no override exists.
func matchPrefill(namePattern string, stored *MatchPrefillExtra) *MatchPrefillExtra {
	if stored != nil {
		return stored
	}

	extra := &MatchPrefillExtra{}

	if groups, err := nomenclature.Groups(namePattern); err == nil {
		extra.Groups = groups
	}

	return extra
}
