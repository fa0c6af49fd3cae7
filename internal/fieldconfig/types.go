// Package fieldconfig derives per-field, per-surface UI configuration from a
// project's field dictionary, merging persisted overrides with rule-driven
// defaults.
package fieldconfig

import "github.com/tracerlab/spectrack/internal/host"

// UI surfaces a field can appear on.
const (
	SurfaceDashboard        = "specimen-dashboard"
	SurfaceEntryForm        = "specimen-entry-form"
	SurfaceBatchMode        = "batch-mode"
	SurfaceSpecimenList     = "specimen-list"
	SurfaceReportingTable   = "reporting-table"
	SurfaceShipmentList     = "shipment-list"
	SurfaceShipmentBoxList  = "shipment-box-list"
	SurfaceShipmentManifest = "shipment-manifest"
)

// Surfaces lists every UI surface in presentation order.
var Surfaces = []string{
	SurfaceDashboard,
	SurfaceEntryForm,
	SurfaceBatchMode,
	SurfaceSpecimenList,
	SurfaceReportingTable,
	SurfaceShipmentList,
	SurfaceShipmentBoxList,
	SurfaceShipmentManifest,
}

// FieldConfig is the resolved configuration of one dictionary field.
type FieldConfig struct {
	Name            string          `json:"field_name"`
	Label           string          `json:"label"`
	Type            string          `json:"type"`
	ValidationLabel string          `json:"validation_label,omitempty"`
	ValidationRegex string          `json:"validation_regex,omitempty"`
	Required        bool            `json:"required"`
	Choices         []host.Choice   `json:"choices,omitempty"`
	Surfaces        map[string]bool `json:"surfaces"`
	Extras          Extras          `json:"extras"`
}

// Extras carry surface-independent behaviors attached to specific field
// shapes on the specimen project.
type Extras struct {
	MatchPrefill *MatchPrefillExtra `json:"matchPrefill,omitempty"`
	Confirm      *ConfirmExtra      `json:"confirm,omitempty"`
	NoFuture     *NoFutureExtra     `json:"noFuture,omitempty"`
	AfterDate    *AfterDateExtra    `json:"afterDate,omitempty"`
}

// MatchPrefillExtra drives nomenclature-based prefill of related fields when
// the identity name field is scanned.
type MatchPrefillExtra struct {
	Enabled bool     `json:"enabled"`
	Groups  []string `json:"groups"`
	Fields  []string `json:"fields"`
}

// ConfirmExtra requires double entry of a text value before save.
type ConfirmExtra struct {
	Enabled bool `json:"enabled"`
}

// NoFutureExtra rejects or warns on datetime values later than now.
type NoFutureExtra struct {
	Enabled     bool `json:"enabled"`
	WarningOnly bool `json:"warning_only"`
}

// AfterDateExtra constrains a datetime to fall within an offset window after
// another datetime field.
type AfterDateExtra struct {
	Enabled          bool   `json:"enabled"`
	Field            string `json:"field"`
	MinOffsetMinutes int    `json:"min_offset_minutes"`
	MaxOffsetMinutes int    `json:"max_offset_minutes"`
	WarningOnly      bool   `json:"warning_only"`
}

// PersistedField is the stored override blob for one field. Surface flags
// overlay computed defaults; extras replace them wholesale.
type PersistedField struct {
	Surfaces map[string]bool `json:"surfaces"`
	Extras   Extras          `json:"extras"`
}

// Persisted maps field names to their stored overrides. The blob is saved
// whole per project and never partially patched.
type Persisted map[string]PersistedField
