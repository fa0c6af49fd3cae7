// Package formatting provides formatting and sorting utilities for record
// identifiers and date values.
package formatting

import (
	"fmt"
	"strings"
	"time"
)

// RecordSortKey converts a hyphenated record identifier such as "2024-7" into
// a key that sorts numerically within each segment, e.g. "2024.0000000007".
// Segments that are not purely numeric are carried through unchanged.
func RecordSortKey(recordID string) string {
	parts := strings.Split(recordID, "-")

	for i, part := range parts {
		if isDigits(part) {
			parts[i] = fmt.Sprintf("%010s", part)
		}
	}

	return strings.Join(parts, ".")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// Storage formats used by the host data store.
const (
	StorageDate     = "2006-01-02"
	StorageDatetime = "2006-01-02 15:04"
)

// Display formats presented on dashboards and manifests.
const (
	DisplayDateDMY  = "02-01-2006"
	DisplayDateMDY  = "01-02-2006"
	DisplayDatetime = "01-02-2006 15:04"
)

// FormatDate reformats a stored date value for display. Unparseable values
// are returned unchanged.
func FormatDate(value, layout string) string {
	t, err := time.Parse(StorageDate, value)
	if err != nil {
		return value
	}

	return t.Format(layout)
}

// FormatDatetime reformats a stored datetime value for display. Unparseable
// values are returned unchanged.
func FormatDatetime(value, layout string) string {
	t, err := time.Parse(StorageDatetime, value)
	if err != nil {
		return value
	}

	return t.Format(layout)
}
