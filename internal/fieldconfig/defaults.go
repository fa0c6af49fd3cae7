package fieldconfig

import "github.com/tracerlab/spectrack/internal/configuration"

// surfaceDefault is the rule-driven default for one field on one surface.
// Required implies the surface cannot be disabled by a persisted override.
type surfaceDefault struct {
	enabled  bool
	required bool
}

// Infrastructure fields on the specimen project that are managed by the
// dashboard rather than entered by hand.
var specimenInfrastructureFields = map[string]bool{
	"record_id":     true,
	"box_record_id": true,
	"box_position":  true,
}

// defaultSurfaces computes the default enablement table for a field by
// project role and field name.
func defaultSurfaces(role, fieldName string) map[string]surfaceDefault {
	defaults := make(map[string]surfaceDefault)

	switch role {
	case configuration.RoleBox:
		defaults[SurfaceDashboard] = surfaceDefault{enabled: true}
		defaults[SurfaceReportingTable] = surfaceDefault{enabled: true}
		defaults[SurfaceShipmentBoxList] = surfaceDefault{enabled: true}
		defaults[SurfaceShipmentManifest] = surfaceDefault{enabled: true}

	case configuration.RoleSpecimen:
		if !specimenInfrastructureFields[fieldName] {
			defaults[SurfaceEntryForm] = surfaceDefault{
				enabled:  true,
				required: fieldName == "specimen_name",
			}
		}

		if fieldName != "specimen_name" && !specimenInfrastructureFields[fieldName] {
			defaults[SurfaceBatchMode] = surfaceDefault{enabled: true}
		}

		defaults[SurfaceSpecimenList] = surfaceDefault{
			enabled:  true,
			required: fieldName == "specimen_name" || fieldName == "box_position",
		}
		defaults[SurfaceReportingTable] = surfaceDefault{enabled: true}
		defaults[SurfaceShipmentManifest] = surfaceDefault{enabled: true}

	case configuration.RoleShipment:
		defaults[SurfaceReportingTable] = surfaceDefault{enabled: true}
		defaults[SurfaceShipmentList] = surfaceDefault{enabled: true}
		defaults[SurfaceShipmentManifest] = surfaceDefault{enabled: true}
	}

	return defaults
}
