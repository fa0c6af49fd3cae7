package specimens

import (
	"context"
	"strconv"
	"strings"

	"github.com/tracerlab/spectrack/internal/configuration"
	"github.com/tracerlab/spectrack/internal/host"
	"github.com/tracerlab/spectrack/internal/nomenclature"
)

// MatchType orders the fallback levels of a specimen search.
type MatchType string

const (
	MatchExact       MatchType = "exact"
	MatchFull        MatchType = "full"
	MatchParticipant MatchType = "participant"
	MatchNone        MatchType = "none"
)

// MatchResult is the outcome of one specimen search.
type MatchResult struct {
	SearchValue    string              `json:"search_value"`
	Parsed         nomenclature.Parsed `json:"name_parsed"`
	MatchType      MatchType           `json:"match_type"`
	Specimen       host.FieldMap       `json:"specimen,omitempty"`
	Box            host.FieldMap       `json:"box,omitempty"`
	MaxVisit       *int                `json:"max_visit,omitempty"`
	AlternateBoxes []host.FieldMap     `json:"alternate_boxes,omitempty"`
}

// Capture groups identifying a participant family. Candidates are fetched
// per family, then narrowed by the remaining groups.
var familyGroups = []string{"year", "participant_id"}

// Bucket key groups, most to least specific.
var bucketGroups = []string{"year", "participant_id", "sample_type", "visit"}

// Placeholder key for a bucket level whose group did not match.
const missingPart = "(none)"

// Search parses the search string and resolves the best matching specimen
// using hierarchical fallback: exact name, full bucket, participant-level
// bucket with visit relaxed, then participant family alone. Partial
// identifiers entered during a scan still suggest the most specific
// plausible match.
func (s *Service) Search(ctx context.Context, cfg *configuration.Configuration, search string) (*MatchResult, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil, ErrMissingSearchValue
	}

	parsed, err := nomenclature.Parse(search, cfg.SpecimenNameRegex)
	if err != nil {
		return nil, err
	}

	result := &MatchResult{
		SearchValue: search,
		Parsed:      parsed,
		MatchType:   MatchNone,
	}

	candidates, err := s.familyCandidates(ctx, cfg, parsed)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return result, nil
	}

	matched := s.resolve(cfg, search, parsed, candidates, result)
	if matched == nil {
		return result, nil
	}

	if err := s.attachRecords(ctx, cfg, matched, result); err != nil {
		return nil, err
	}

	if cfg.UseTempBoxType {
		if err := s.attachAlternateBoxes(ctx, cfg, parsed, matched, candidates, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// candidate is one family member with its own parsed name.
type candidate struct {
	pair   host.NamePair
	parsed nomenclature.Parsed
}

// familyCandidates fetches every specimen in the searched participant family
// via a single set-based store lookup. The filter pattern substitutes the
// parsed family group values into the configured name pattern so the store's
// pattern-match operator does the narrowing.
func (s *Service) familyCandidates(ctx context.Context, cfg *configuration.Configuration, parsed nomenclature.Parsed) ([]candidate, error) {
	fixed := make(map[string]string)
	for _, group := range familyGroups {
		if parsed.Has(group) {
			fixed[group] = parsed.Get(group)
		}
	}

	pattern := nomenclature.DeriveFilterPattern(cfg.SpecimenNameRegex, fixed)

	pairs, err := s.store.NamesMatching(ctx, host.NameQuery{
		ProjectID: cfg.SpecimenProjectID,
		Field:     FieldName,
		Linked:    FieldBoxRecordID,
		Pattern:   pattern,
		Regex:     true,
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]candidate, 0, len(pairs))

	for _, pair := range pairs {
		candidateParsed, err := nomenclature.Parse(pair.Name, cfg.SpecimenNameRegex)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, candidate{pair: pair, parsed: candidateParsed})
	}

	return candidates, nil
}

// resolve applies the matching priority and returns the winning candidate,
// recording match type and visit hints on the result.
func (s *Service) resolve(cfg *configuration.Configuration, search string, parsed nomenclature.Parsed, candidates []candidate, result *MatchResult) *candidate {
	for i := range candidates {
		if candidates[i].pair.Name == search {
			result.MatchType = MatchExact
			return &candidates[i]
		}
	}

	// Full: all four bucket levels agree, placeholder included.
	if matched := firstInBucket(candidates, parsed, 4); matched != nil {
		result.MatchType = MatchFull
		return matched
	}

	// Participant with sample type: relax visit, hint the highest visit seen.
	if matched := firstInBucket(candidates, parsed, 3); matched != nil {
		result.MatchType = MatchParticipant
		result.MaxVisit = maxVisit(candidates, parsed, 3)
		return matched
	}

	// Participant family alone.
	if matched := firstInBucket(candidates, parsed, 2); matched != nil {
		result.MatchType = MatchParticipant
		result.MaxVisit = maxVisit(candidates, parsed, 2)
		return matched
	}

	return nil
}

// bucketKey renders the first `levels` bucket groups of a parse into a key,
// substituting the placeholder for unmatched groups.
func bucketKey(parsed nomenclature.Parsed, levels int) string {
	parts := make([]string, levels)

	for i := 0; i < levels; i++ {
		part := parsed.Get(bucketGroups[i])
		if part == "" {
			part = missingPart
		}
		parts[i] = part
	}

	return strings.Join(parts, "\x00")
}

func firstInBucket(candidates []candidate, parsed nomenclature.Parsed, levels int) *candidate {
	want := bucketKey(parsed, levels)

	for i := range candidates {
		if bucketKey(candidates[i].parsed, levels) == want {
			return &candidates[i]
		}
	}

	return nil
}

// maxVisit returns the highest numeric visit among the candidates sharing the
// search's bucket at the given level, or nil when none carries one.
func maxVisit(candidates []candidate, parsed nomenclature.Parsed, levels int) *int {
	want := bucketKey(parsed, levels)

	var max *int
	for i := range candidates {
		if bucketKey(candidates[i].parsed, levels) != want {
			continue
		}

		visit, err := strconv.Atoi(candidates[i].parsed.Get("visit"))
		if err != nil {
			continue
		}

		if max == nil || visit > *max {
			v := visit
			max = &v
		}
	}

	return max
}

// attachRecords loads the winning specimen's full record and its owning box.
func (s *Service) attachRecords(ctx context.Context, cfg *configuration.Configuration, matched *candidate, result *MatchResult) error {
	specimens, err := s.store.GetRecords(ctx, cfg.SpecimenProjectID, host.GetOptions{
		Records: []string{matched.pair.RecordID},
	})
	if err != nil {
		return err
	}

	specimen, ok := specimens[matched.pair.RecordID]
	if !ok {
		return ErrSpecimenNotFound
	}

	result.Specimen = specimen

	boxRecordID := specimen[FieldBoxRecordID]
	if boxRecordID == "" {
		return nil
	}

	boxes, err := s.store.GetRecords(ctx, cfg.BoxProjectID, host.GetOptions{
		Records: []string{boxRecordID},
	})
	if err != nil {
		return err
	}

	if box, ok := boxes[boxRecordID]; ok {
		result.Box = box
	}

	return nil
}

// attachAlternateBoxes collects temporary boxes holding other family members
// with the searched sample type, excluding the match's own box. These are the
// relocation targets offered when temporary box mode is on.
func (s *Service) attachAlternateBoxes(ctx context.Context, cfg *configuration.Configuration, parsed nomenclature.Parsed, matched *candidate, candidates []candidate, result *MatchResult) error {
	sampleType := parsed.Get("sample_type")
	if sampleType == "" {
		sampleType = matched.parsed.Get("sample_type")
	}

	ownBox := matched.pair.Linked

	boxIDs := make([]string, 0, len(candidates))
	seen := make(map[string]bool)

	for _, c := range candidates {
		boxID := c.pair.Linked
		if boxID == "" || boxID == ownBox || seen[boxID] {
			continue
		}

		seen[boxID] = true
		boxIDs = append(boxIDs, boxID)
	}

	if len(boxIDs) == 0 {
		return nil
	}

	boxes, err := s.store.GetRecords(ctx, cfg.BoxProjectID, host.GetOptions{
		Records: boxIDs,
	})
	if err != nil {
		return err
	}

	for _, boxID := range boxIDs {
		box, ok := boxes[boxID]
		if !ok {
			continue
		}

		if box[FieldBoxType] != "temp" {
			continue
		}

		if sampleType != "" && box[FieldSampleType] != sampleType {
			continue
		}

		result.AlternateBoxes = append(result.AlternateBoxes, box)
	}

	return nil
}
