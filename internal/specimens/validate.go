package specimens

import (
	"context"
	"fmt"

	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/host"
	"github.com/tracerlab/spectrack/internal/nomenclature"
)

// ValidationResult reports the outcome of a cross-record identifier check.
// Validity is the conjunction of every rule; errors accumulate.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func validationResult(errs []string) ValidationResult {
	if errs == nil {
		errs = []string{}
	}

	return ValidationResult{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}

// ValidateCSID checks a CSID against the specimen's sibling family and all
// other holders of the value. Siblings share every parsed part except the
// aliquot number and must share one CSID. A CSID held by a specimen whose
// participant, visit, or sample type differs belongs to a different identity
// and cannot be reused. An empty CSID is trivially valid.
func (s *Service) ValidateCSID(ctx context.Context, cfg *configuration.Configuration, specimenName, csid string) (ValidationResult, error) {
	if csid == "" {
		return validationResult(nil), nil
	}

	parsed, err := nomenclature.Parse(specimenName, cfg.SpecimenNameRegex)
	if err != nil {
		return ValidationResult{}, err
	}

	var errs []string

	siblingErrs, err := s.checkSiblings(ctx, cfg, specimenName, csid, parsed)
	if err != nil {
		return ValidationResult{}, err
	}
	errs = append(errs, siblingErrs...)

	holderErrs, err := s.checkHolders(ctx, cfg, specimenName, csid, parsed)
	if err != nil {
		return ValidationResult{}, err
	}
	errs = append(errs, holderErrs...)

	return validationResult(errs), nil
}

// checkSiblings flags siblings carrying a different non-empty CSID.
func (s *Service) checkSiblings(ctx context.Context, cfg *configuration.Configuration, specimenName, csid string, parsed nomenclature.Parsed) ([]string, error) {
	fixed := make(map[string]string)
	for group := range parsed {
		if group == "aliquot_number" || !parsed.Has(group) {
			continue
		}
		fixed[group] = parsed.Get(group)
	}

	pattern := nomenclature.DeriveFilterPattern(cfg.SpecimenNameRegex, fixed)

	siblings, err := s.store.NamesMatching(ctx, host.NameQuery{
		ProjectID: cfg.SpecimenProjectID,
		Field:     FieldName,
		Linked:    FieldCSID,
		Pattern:   pattern,
		Regex:     true,
		Exclude:   specimenName,
	})
	if err != nil {
		return nil, err
	}

	var errs []string

	for _, sibling := range siblings {
		if sibling.Linked != "" && sibling.Linked != csid {
			errs = append(errs, fmt.Sprintf("a different CSID is used by sibling specimen %s", sibling.Name))
		}
	}

	return errs, nil
}

// checkHolders flags other specimens already holding this CSID under a
// different identity.
func (s *Service) checkHolders(ctx context.Context, cfg *configuration.Configuration, specimenName, csid string, parsed nomenclature.Parsed) ([]string, error) {
	holders, err := s.store.NamesMatching(ctx, host.NameQuery{
		ProjectID: cfg.SpecimenProjectID,
		Field:     FieldCSID,
		Linked:    FieldName,
		Pattern:   csid,
	})
	if err != nil {
		return nil, err
	}

	var errs []string

	for _, holder := range holders {
		if holder.Linked == specimenName {
			continue
		}

		holderParsed, err := nomenclature.Parse(holder.Linked, cfg.SpecimenNameRegex)
		if err != nil {
			return nil, err
		}

		for _, group := range []string{"participant_id", "visit", "sample_type"} {
			if holderParsed.Get(group) != parsed.Get(group) {
				errs = append(errs, fmt.Sprintf("CSID already assigned to %s", holder.Linked))
				break
			}
		}
	}

	return errs, nil
}

// ValidateCUID checks global uniqueness of a CUID across the specimen
// project. There is no sibling exception. An empty CUID is trivially valid.
func (s *Service) ValidateCUID(ctx context.Context, cfg *configuration.Configuration, cuid string) (ValidationResult, error) {
	if cuid == "" {
		return validationResult(nil), nil
	}

	holders, err := s.store.NamesMatching(ctx, host.NameQuery{
		ProjectID: cfg.SpecimenProjectID,
		Field:     FieldCUID,
		Pattern:   cuid,
	})
	if err != nil {
		return ValidationResult{}, err
	}

	var errs []string
	if len(holders) > 0 {
		errs = append(errs, fmt.Sprintf("CUID %s is already in use", cuid))
	}

	return validationResult(errs), nil
}
