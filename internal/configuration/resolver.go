package configuration

import (
	"context"
	"fmt"
	"log/slog"
)

// Setting keys holding per-configuration value arrays, indexed by
// configuration position.
const (
	settingStudyName               = "study_name"
	settingBoxProjectID            = "box_project_id"
	settingSpecimenProjectID       = "specimen_project_id"
	settingShipmentProjectID       = "shipment_project_id"
	settingPlateSize               = "plate_size"
	settingDefaultVolume           = "default_volume"
	settingDatetimeFormat          = "datetime_format"
	settingBoxNameRegex            = "box_name_regex"
	settingSpecimenNameRegex       = "specimen_name_regex"
	settingUseTempBoxType          = "use_temp_box_type"
	settingNumVisits               = "num_visits"
	settingNumSpecimens            = "num_specimens"
	settingCollectedToProcessedMax = "collected_to_processed_minutes_max"
)

// SettingsSource reads module-wide settings from the host.
type SettingsSource interface {
	SystemSetting(ctx context.Context, key string, dest any) error
	EnabledProjectIDs(ctx context.Context) ([]int, error)
}

// Resolver builds the configuration registry from raw host settings. The
// registry is rebuilt once per request; host settings stay authoritative.
type Resolver struct {
	settings SettingsSource
	logger   *slog.Logger
}

func NewResolver(settings SettingsSource, logger *slog.Logger) *Resolver {
	return &Resolver{
		settings: settings,
		logger:   logger.With("system", "configuration"),
	}
}

// rawSettings carries the parallel setting arrays before they are zipped into
// configurations.
type rawSettings struct {
	studyNames     []string
	boxIDs         []int
	specimenIDs    []int
	shipmentIDs    []int
	plateSizes     []string
	defaultVolumes []string
	dateFormats    []string
	boxPatterns    []string
	namePatterns   []string
	useTempBox     []bool
	numVisits      []int
	numSpecimens   []int
	processedMax   []int
}

// Load reads every configuration from host settings, validates each, and
// applies the cross-configuration uniqueness pass. Returns
// ErrNoConfigurations when the settings define none.
func (r *Resolver) Load(ctx context.Context) (*Registry, error) {
	raw, err := r.loadRaw(ctx)
	if err != nil {
		return nil, err
	}

	count := len(raw.boxIDs)
	for _, n := range []int{len(raw.specimenIDs), len(raw.shipmentIDs), len(raw.studyNames)} {
		if n > count {
			count = n
		}
	}

	if count == 0 {
		return nil, ErrNoConfigurations
	}

	enabledIDs, err := r.settings.EnabledProjectIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load enabled projects: %w", err)
	}

	enabled := make(map[int]bool, len(enabledIDs))
	for _, id := range enabledIDs {
		enabled[id] = true
	}

	configs := make([]*Configuration, count)
	for i := 0; i < count; i++ {
		cfg := &Configuration{
			Index:                   i,
			StudyName:               stringAt(raw.studyNames, i),
			BoxProjectID:            intAt(raw.boxIDs, i),
			SpecimenProjectID:       intAt(raw.specimenIDs, i),
			ShipmentProjectID:       intAt(raw.shipmentIDs, i),
			PlateSize:               stringAt(raw.plateSizes, i),
			DefaultVolume:           stringAt(raw.defaultVolumes, i),
			DatetimeFormat:          stringAt(raw.dateFormats, i),
			BoxNameRegex:            stringAt(raw.boxPatterns, i),
			SpecimenNameRegex:       stringAt(raw.namePatterns, i),
			UseTempBoxType:          boolAt(raw.useTempBox, i),
			NumVisits:               intAt(raw.numVisits, i),
			NumSpecimens:            intAt(raw.numSpecimens, i),
			CollectedToProcessedMax: intAt(raw.processedMax, i),
		}

		cfg.validate(enabled)
		configs[i] = cfg
	}

	registry := newRegistry(configs)
	registry.flagSharedProjects()

	for _, cfg := range configs {
		if !cfg.Valid() {
			r.logger.Warn("configuration has errors",
				"index", cfg.Index,
				"study", cfg.StudyName,
				"errors", len(cfg.Errors),
			)
		}
	}

	return registry, nil
}

func (r *Resolver) loadRaw(ctx context.Context) (*rawSettings, error) {
	raw := &rawSettings{}

	reads := []struct {
		key  string
		dest any
	}{
		{settingStudyName, &raw.studyNames},
		{settingBoxProjectID, &raw.boxIDs},
		{settingSpecimenProjectID, &raw.specimenIDs},
		{settingShipmentProjectID, &raw.shipmentIDs},
		{settingPlateSize, &raw.plateSizes},
		{settingDefaultVolume, &raw.defaultVolumes},
		{settingDatetimeFormat, &raw.dateFormats},
		{settingBoxNameRegex, &raw.boxPatterns},
		{settingSpecimenNameRegex, &raw.namePatterns},
		{settingUseTempBoxType, &raw.useTempBox},
		{settingNumVisits, &raw.numVisits},
		{settingNumSpecimens, &raw.numSpecimens},
		{settingCollectedToProcessedMax, &raw.processedMax},
	}

	for _, read := range reads {
		if err := r.settings.SystemSetting(ctx, read.key, read.dest); err != nil {
			return nil, fmt.Errorf("load setting %s: %w", read.key, err)
		}
	}

	return raw, nil
}

func stringAt(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func intAt(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func boolAt(values []bool, i int) bool {
	if i < len(values) {
		return values[i]
	}
	return false
}
