package specimens

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strconv"

	"github.com/tracerlab/spectrack/internal/host"
)

// fakeStore is an in-memory Store over per-project record sets.
type fakeStore struct {
	records map[int]host.RecordSet
	fields  map[int][]host.Field
	nextID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[int]host.RecordSet),
		fields:  make(map[int][]host.Field),
	}
}

func (f *fakeStore) add(projectID int, recordID string, fields host.FieldMap) {
	if f.records[projectID] == nil {
		f.records[projectID] = make(host.RecordSet)
	}
	f.records[projectID][recordID] = fields
}

func (f *fakeStore) GetRecords(_ context.Context, projectID int, opts host.GetOptions) (host.RecordSet, error) {
	out := make(host.RecordSet)

	wanted := make(map[string]bool, len(opts.Records))
	for _, id := range opts.Records {
		wanted[id] = true
	}

next:
	for recordID, fields := range f.records[projectID] {
		if len(wanted) > 0 && !wanted[recordID] {
			continue
		}

		for field, value := range opts.Filter {
			if fields[field] != value {
				continue next
			}
		}

		copied := make(host.FieldMap, len(fields))
		for field, value := range fields {
			if len(opts.Fields) > 0 && !containsField(opts.Fields, field) {
				continue
			}
			copied[field] = value
		}

		out[recordID] = copied
	}

	return out, nil
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

func (f *fakeStore) SaveRecords(_ context.Context, projectID int, records host.RecordSet) error {
	for recordID, fields := range records {
		if f.records[projectID] == nil {
			f.records[projectID] = make(host.RecordSet)
		}
		if f.records[projectID][recordID] == nil {
			f.records[projectID][recordID] = make(host.FieldMap)
		}

		for field, value := range fields {
			if value == "" {
				delete(f.records[projectID][recordID], field)
				continue
			}
			f.records[projectID][recordID][field] = value
		}
	}

	return nil
}

func (f *fakeStore) DeleteRecord(_ context.Context, projectID int, recordID string) error {
	if _, ok := f.records[projectID][recordID]; !ok {
		return fmt.Errorf("record %s not found", recordID)
	}

	delete(f.records[projectID], recordID)
	return nil
}

func (f *fakeStore) ReserveRecordID(_ context.Context, _ int) (string, error) {
	f.nextID++
	return strconv.Itoa(f.nextID), nil
}

func (f *fakeStore) NamesMatching(_ context.Context, q host.NameQuery) ([]host.NamePair, error) {
	var re *regexp.Regexp
	if q.Regex {
		compiled, err := regexp.Compile(q.Pattern)
		if err != nil {
			return nil, err
		}
		re = compiled
	}

	var pairs []host.NamePair

	for recordID, fields := range f.records[q.ProjectID] {
		name, ok := fields[q.Field]
		if !ok {
			continue
		}

		if q.Regex {
			if !re.MatchString(name) {
				continue
			}
		} else if name != q.Pattern {
			continue
		}

		if q.Exclude != "" && name == q.Exclude {
			continue
		}

		pair := host.NamePair{RecordID: recordID, Name: name}
		if q.Linked != "" {
			pair.Linked = fields[q.Linked]
		}

		pairs = append(pairs, pair)
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Name < pairs[j].Name })

	return pairs, nil
}

func (f *fakeStore) Dictionary(_ context.Context, projectID int) ([]host.Field, error) {
	return f.fields[projectID], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
