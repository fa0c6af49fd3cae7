// Package configuration discovers and validates the linked project triplets
// that make up a tracking configuration, and binds the active configuration
// for a request.
package configuration

import (
	"fmt"
	"regexp"
	"strings"
)

// Roles a project can play inside a configuration.
const (
	RoleBox      = "box"
	RoleSpecimen = "specimen"
	RoleShipment = "shipment"
)

// Configuration is one triplet of linked projects plus its shared settings.
// Validation problems accumulate in Errors; a configuration with any error is
// inert and cannot be activated.
type Configuration struct {
	Index                   int      `json:"index"`
	StudyName               string   `json:"study_name"`
	BoxProjectID            int      `json:"box_project_id"`
	SpecimenProjectID       int      `json:"specimen_project_id"`
	ShipmentProjectID       int      `json:"shipment_project_id"`
	BoxProjectEnabled       bool     `json:"box_project_enabled"`
	SpecimenProjectEnabled  bool     `json:"specimen_project_enabled"`
	ShipmentProjectEnabled  bool     `json:"shipment_project_enabled"`
	PlateSize               string   `json:"plate_size"`
	DefaultVolume           string   `json:"default_volume"`
	DatetimeFormat          string   `json:"datetime_format"`
	BoxNameRegex            string   `json:"box_name_regex"`
	SpecimenNameRegex       string   `json:"specimen_name_regex"`
	UseTempBoxType          bool     `json:"use_temp_box_type"`
	NumVisits               int      `json:"num_visits"`
	NumSpecimens            int      `json:"num_specimens"`
	CollectedToProcessedMax int      `json:"collected_to_processed_minutes_max"`
	Errors                  []string `json:"errors"`
}

// Valid reports whether the configuration accumulated no validation errors.
func (c *Configuration) Valid() bool {
	return len(c.Errors) == 0
}

// Enabled reports whether all three linked projects have the module enabled.
func (c *Configuration) Enabled() bool {
	return c.BoxProjectEnabled && c.SpecimenProjectEnabled && c.ShipmentProjectEnabled
}

// ProjectIDs returns the triplet in box, specimen, shipment order.
func (c *Configuration) ProjectIDs() [3]int {
	return [3]int{c.BoxProjectID, c.SpecimenProjectID, c.ShipmentProjectID}
}

func (c *Configuration) addError(format string, args ...any) {
	c.Errors = append(c.Errors, fmt.Sprintf(format, args...))
}

// validate accumulates every setting-level violation. Cross-configuration
// checks happen in the resolver's second pass.
func (c *Configuration) validate(enabled map[int]bool) {
	if strings.TrimSpace(c.StudyName) == "" {
		c.addError("study name is missing")
	}

	roles := []struct {
		role string
		id   int
	}{
		{RoleBox, c.BoxProjectID},
		{RoleSpecimen, c.SpecimenProjectID},
		{RoleShipment, c.ShipmentProjectID},
	}

	seen := make(map[int]string)

	for _, r := range roles {
		if r.id <= 0 {
			c.addError("%s project is not specified", r.role)
			continue
		}

		if prior, dup := seen[r.id]; dup {
			c.addError("project %d is used as both the %s and %s project", r.id, prior, r.role)
		}
		seen[r.id] = r.role

		if !enabled[r.id] {
			c.addError("%s project %d does not have the module enabled", r.role, r.id)
		}
	}

	c.BoxProjectEnabled = enabled[c.BoxProjectID] && c.BoxProjectID > 0
	c.SpecimenProjectEnabled = enabled[c.SpecimenProjectID] && c.SpecimenProjectID > 0
	c.ShipmentProjectEnabled = enabled[c.ShipmentProjectID] && c.ShipmentProjectID > 0

	c.validatePattern("box name pattern", c.BoxNameRegex)
	c.validatePattern("specimen name pattern", c.SpecimenNameRegex)

	if strings.TrimSpace(c.PlateSize) == "" {
		c.addError("plate size is missing")
	}
}

func (c *Configuration) validatePattern(label, pattern string) {
	if strings.TrimSpace(pattern) == "" {
		c.addError("%s is missing", label)
		return
	}

	body := pattern
	if len(body) > 1 && strings.HasPrefix(body, "/") && strings.HasSuffix(body, "/") {
		body = body[1 : len(body)-1]
	}
	body = strings.ReplaceAll(body, "(?<", "(?P<")

	if _, err := regexp.Compile(body); err != nil {
		c.addError("%s is not a valid regular expression", label)
	}
}
